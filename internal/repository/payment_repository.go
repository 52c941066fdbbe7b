package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/lensly/booking-marketplace/internal/model"
	"github.com/lensly/booking-marketplace/internal/store"
)

// PaymentRepo records payments and reconciles them against their
// booking. Payment records are immutable once appended; the booking
// sync that follows only touches payment_status and final_price,
// never the lifecycle status — payment and lifecycle are orthogonal
// dimensions.
type PaymentRepo struct {
	payments PaymentStore
	bookings BookingStore
}

// NewPaymentRepo returns a PaymentRepo bound to the given backends.
func NewPaymentRepo(payments PaymentStore, bookings BookingStore) *PaymentRepo {
	return &PaymentRepo{payments: payments, bookings: bookings}
}

// PaymentInput carries the method details of a payment request.
type PaymentInput struct {
	Amount         float64
	Currency       string
	Method         string
	TransactionRef string
	CardLast4      string
	CardBrand      string
}

// Record resolves the booking, appends an immutable payment record
// tagged with the booking's variant, then updates the booking's
// payment_status to paid and final_price to the recorded amount.
// Only bookings a provider has taken on — accepted, in_progress or
// completed — can be paid: final_price must stay null while the
// request is still pending and must never appear on a cancelled
// booking. When the payment insert succeeds but the booking sync
// fails, the recorded payment is returned together with
// ErrPartialFailure so the caller can reconcile manually instead of
// assuming nothing happened.
func (r *PaymentRepo) Record(ctx context.Context, variant model.Variant, bookingID string, in PaymentInput) (model.Payment, model.Booking, error) {
	if in.Amount <= 0 {
		return model.Payment{}, model.Booking{}, fmt.Errorf("%w: amount must be positive", ErrValidation)
	}
	b, err := r.bookings.Get(ctx, variant, bookingID)
	if err != nil {
		return model.Payment{}, model.Booking{}, err
	}
	switch b.Status {
	case model.StatusAccepted, model.StatusInProgress, model.StatusCompleted:
	default:
		return model.Payment{}, model.Booking{}, fmt.Errorf("%w: booking %s is %s; only accepted, in-progress or completed bookings can be paid", ErrValidation, b.ID, b.Status)
	}
	if in.Currency == "" {
		in.Currency = "INR"
	}
	if in.TransactionRef == "" {
		in.TransactionRef = uuid.NewString()
	}
	p := model.Payment{
		ID:             store.GenerateID(),
		BookingID:      b.ID,
		BookingType:    variant,
		ClientID:       b.ClientID,
		ProviderID:     b.ProviderID,
		Amount:         in.Amount,
		Currency:       in.Currency,
		Method:         in.Method,
		TransactionRef: in.TransactionRef,
		CardLast4:      in.CardLast4,
		CardBrand:      in.CardBrand,
		Version:        1,
		CreatedAt:      time.Now().UTC(),
	}
	if err := r.payments.Insert(ctx, p); err != nil {
		return model.Payment{}, model.Booking{}, err
	}
	updated, err := r.bookings.Update(ctx, variant, bookingID, func(b *model.Booking) error {
		amount := in.Amount
		b.PaymentStatus = model.PaymentPaid
		b.FinalPrice = &amount
		b.UpdatedAt = time.Now().UTC()
		return nil
	})
	if err != nil {
		return p, model.Booking{}, fmt.Errorf("%w: payment %s recorded but booking sync failed: %v", ErrPartialFailure, p.ID, err)
	}
	return p, updated, nil
}

// ListByBooking returns the payments recorded against a booking,
// newest first.
func (r *PaymentRepo) ListByBooking(ctx context.Context, bookingID string) ([]model.Payment, error) {
	return r.payments.ListByBooking(ctx, bookingID)
}

// ListByClient returns the payments made by a client, newest first.
func (r *PaymentRepo) ListByClient(ctx context.Context, clientID string) ([]model.Payment, error) {
	return r.payments.ListByClient(ctx, clientID)
}
