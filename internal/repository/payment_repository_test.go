package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lensly/booking-marketplace/internal/model"
)

func TestPaymentRecord(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	client := env.newUser(t, "client@example.com", model.UserTypeClient)
	cam := env.newUser(t, "cam@example.com", model.UserTypeCameraman)
	b := env.newEventBooking(t, client.ID, cam.ID)

	_, err := env.Bookings.Update(ctx, model.VariantEvent, b.ID, BookingPatch{
		Status:         strp(model.StatusAccepted),
		EstimatedPrice: f64p(500),
	})
	require.NoError(t, err)

	p, updated, err := env.Payments.Record(ctx, model.VariantEvent, b.ID, PaymentInput{
		Amount: 550,
		Method: "card",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, p.ID)
	assert.Equal(t, b.ID, p.BookingID)
	assert.Equal(t, model.VariantEvent, p.BookingType)
	assert.Equal(t, client.ID, p.ClientID)
	assert.Equal(t, cam.ID, p.ProviderID)
	assert.Equal(t, "INR", p.Currency, "currency defaults")
	assert.NotEmpty(t, p.TransactionRef, "transaction ref is generated when absent")

	// Reconciliation: payment_status and final_price change, lifecycle
	// status does not.
	assert.Equal(t, model.PaymentPaid, updated.PaymentStatus)
	require.NotNil(t, updated.FinalPrice)
	assert.Equal(t, 550.0, *updated.FinalPrice, "final_price follows the paid amount, not the quote")
	assert.Equal(t, model.StatusAccepted, updated.Status)
}

func TestPaymentValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	client := env.newUser(t, "client@example.com", model.UserTypeClient)
	b := env.newEventBooking(t, client.ID, "")

	_, _, err := env.Payments.Record(ctx, model.VariantEvent, b.ID, PaymentInput{Amount: 0})
	require.ErrorIs(t, err, ErrValidation)

	_, _, err = env.Payments.Record(ctx, model.VariantEvent, "missing", PaymentInput{Amount: 100})
	require.ErrorIs(t, err, ErrNotFound)
}

// Paying a booking no provider has taken on must fail and leave the
// booking untouched: final_price stays null and payment_status stays
// pending until the booking is at least accepted, and a cancelled
// booking can never be paid.
func TestPaymentRequiresAcceptedBooking(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	client := env.newUser(t, "client@example.com", model.UserTypeClient)
	cam := env.newUser(t, "cam@example.com", model.UserTypeCameraman)

	t.Run("pending booking", func(t *testing.T) {
		b := env.newEventBooking(t, client.ID, cam.ID)
		_, _, err := env.Payments.Record(ctx, model.VariantEvent, b.ID, PaymentInput{Amount: 100})
		require.ErrorIs(t, err, ErrValidation)

		cur, err := env.Bookings.Get(ctx, model.VariantEvent, b.ID)
		require.NoError(t, err)
		assert.Equal(t, model.PaymentPending, cur.PaymentStatus)
		assert.Nil(t, cur.FinalPrice)

		payments, err := env.Payments.ListByBooking(ctx, b.ID)
		require.NoError(t, err)
		assert.Empty(t, payments, "no payment record is appended")
	})

	t.Run("cancelled booking", func(t *testing.T) {
		b := env.newEventBooking(t, client.ID, cam.ID)
		_, err := env.Bookings.Update(ctx, model.VariantEvent, b.ID, BookingPatch{
			Status: strp(model.StatusCancelled),
		})
		require.NoError(t, err)

		_, _, err = env.Payments.Record(ctx, model.VariantEvent, b.ID, PaymentInput{Amount: 100})
		require.ErrorIs(t, err, ErrValidation)

		cur, err := env.Bookings.Get(ctx, model.VariantEvent, b.ID)
		require.NoError(t, err)
		assert.Equal(t, model.PaymentPending, cur.PaymentStatus)
		assert.Nil(t, cur.FinalPrice)
	})
}

func TestPaymentLists(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	client := env.newUser(t, "client@example.com", model.UserTypeClient)
	other := env.newUser(t, "other@example.com", model.UserTypeClient)
	cam := env.newUser(t, "cam@example.com", model.UserTypeCameraman)

	b1 := env.newEventBooking(t, client.ID, cam.ID)
	b2 := env.newEventBooking(t, other.ID, cam.ID)
	for _, b := range []model.Booking{b1, b2} {
		_, err := env.Bookings.Update(ctx, model.VariantEvent, b.ID, BookingPatch{
			Status: strp(model.StatusAccepted),
		})
		require.NoError(t, err)
	}

	p1, _, err := env.Payments.Record(ctx, model.VariantEvent, b1.ID, PaymentInput{Amount: 100})
	require.NoError(t, err)
	time.Sleep(2 * time.Millisecond)
	p2, _, err := env.Payments.Record(ctx, model.VariantEvent, b1.ID, PaymentInput{Amount: 50})
	require.NoError(t, err)
	_, _, err = env.Payments.Record(ctx, model.VariantEvent, b2.ID, PaymentInput{Amount: 75})
	require.NoError(t, err)

	byBooking, err := env.Payments.ListByBooking(ctx, b1.ID)
	require.NoError(t, err)
	require.Len(t, byBooking, 2)
	assert.Equal(t, p2.ID, byBooking[0].ID, "newest first")
	assert.Equal(t, p1.ID, byBooking[1].ID)

	byClient, err := env.Payments.ListByClient(ctx, client.ID)
	require.NoError(t, err)
	assert.Len(t, byClient, 2)

	// Repeated payment against the same booking keeps final_price at
	// the latest amount.
	cur, err := env.Bookings.Get(ctx, model.VariantEvent, b1.ID)
	require.NoError(t, err)
	require.NotNil(t, cur.FinalPrice)
	assert.Equal(t, 50.0, *cur.FinalPrice)
}
