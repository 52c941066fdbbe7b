package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lensly/booking-marketplace/internal/booking"
	"github.com/lensly/booking-marketplace/internal/model"
	"github.com/lensly/booking-marketplace/internal/store"
)

// BookingRepo provides validated CRUD over the three booking
// variants. It owns shape validation and reference resolution;
// status changes are delegated to the lifecycle state machine in the
// booking package rather than written verbatim.
type BookingRepo struct {
	bookings BookingStore
	users    UserStore
}

// NewBookingRepo returns a BookingRepo bound to the given backends.
func NewBookingRepo(bookings BookingStore, users UserStore) *BookingRepo {
	return &BookingRepo{bookings: bookings, users: users}
}

// providerTypeFor maps a booking variant to the provider role allowed
// to serve it.
func providerTypeFor(v model.Variant) string {
	if v == model.VariantEditor {
		return model.UserTypeEditor
	}
	return model.UserTypeCameraman
}

// NewBooking carries the fields accepted when creating a booking.
// Only the scheduling fields of the requested variant may be set;
// handlers enforce that by binding per-variant request bodies.
type NewBooking struct {
	ClientID       string
	ProviderID     string
	EstimatedPrice *float64
	Requirements   string

	// event
	EventType   string
	ServiceType string
	EventDate   string
	EventTime   string
	Location    string

	// trip
	Destination string
	StartDate   string
	EndDate     string
	Travelers   int

	// editor
	ProjectType string
	FootageLink string
	Deadline    string
}

// validateScheduling checks the required scheduling fields of the
// variant.
func validateScheduling(v model.Variant, in NewBooking) error {
	missing := func(fields ...string) error {
		return fmt.Errorf("%w: %s booking requires %v", ErrValidation, v, fields)
	}
	switch v {
	case model.VariantEvent:
		if in.EventType == "" || in.ServiceType == "" || in.EventDate == "" || in.EventTime == "" || in.Location == "" {
			return missing("event_type", "service_type", "event_date", "event_time", "location")
		}
	case model.VariantTrip:
		if in.Destination == "" || in.StartDate == "" || in.EndDate == "" {
			return missing("destination", "start_date", "end_date")
		}
	case model.VariantEditor:
		if in.ProjectType == "" || in.Deadline == "" {
			return missing("project_type", "deadline")
		}
	default:
		return fmt.Errorf("%w: unknown booking variant %q", ErrValidation, v)
	}
	return nil
}

// resolveProvider checks that id names an existing user of the role
// appropriate for the variant.
func (r *BookingRepo) resolveProvider(ctx context.Context, v model.Variant, id string) error {
	u, err := r.users.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if want := providerTypeFor(v); u.UserType != want {
		return fmt.Errorf("%w: provider %s is not a %s", ErrValidation, id, want)
	}
	return nil
}

// Create validates and persists a booking. New bookings always start
// with status pending and payment_status pending regardless of input.
// The client reference must resolve; the provider reference is
// optional at creation (an open request) but must resolve to a
// role-appropriate provider when present.
func (r *BookingRepo) Create(ctx context.Context, v model.Variant, in NewBooking) (model.Booking, error) {
	if in.ClientID == "" {
		return model.Booking{}, fmt.Errorf("%w: client_id is required", ErrValidation)
	}
	if err := validateScheduling(v, in); err != nil {
		return model.Booking{}, err
	}
	if _, err := r.users.GetByID(ctx, in.ClientID); err != nil {
		return model.Booking{}, err
	}
	if in.ProviderID != "" {
		if err := r.resolveProvider(ctx, v, in.ProviderID); err != nil {
			return model.Booking{}, err
		}
	}
	now := time.Now().UTC()
	b := model.Booking{
		ID:             store.GenerateID(),
		ClientID:       in.ClientID,
		ProviderID:     in.ProviderID,
		Status:         model.StatusPending,
		PaymentStatus:  model.PaymentPending,
		EstimatedPrice: in.EstimatedPrice,
		Requirements:   in.Requirements,
		EventType:      in.EventType,
		ServiceType:    in.ServiceType,
		EventDate:      in.EventDate,
		EventTime:      in.EventTime,
		Location:       in.Location,
		Destination:    in.Destination,
		StartDate:      in.StartDate,
		EndDate:        in.EndDate,
		Travelers:      in.Travelers,
		ProjectType:    in.ProjectType,
		FootageLink:    in.FootageLink,
		Deadline:       in.Deadline,
		Version:        1,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := r.bookings.Insert(ctx, v, b); err != nil {
		return model.Booking{}, err
	}
	return b, nil
}

// Get returns a single booking.
func (r *BookingRepo) Get(ctx context.Context, v model.Variant, id string) (model.Booking, error) {
	return r.bookings.Get(ctx, v, id)
}

// List returns bookings matching the filter, newest first.
func (r *BookingRepo) List(ctx context.Context, v model.Variant, f BookingFilter) ([]model.Booking, error) {
	return r.bookings.List(ctx, v, f)
}

// BookingPatch carries the fields a partial update may change. Nil
// fields are left untouched, so an unspecified field is never
// clobbered. final_price and payment_status are deliberately absent:
// they are owned by payment reconciliation.
type BookingPatch struct {
	Status          *string
	RejectionReason *string
	EstimatedPrice  *float64
	Requirements    *string
	ProviderID      *string

	// event
	EventType   *string
	ServiceType *string
	EventDate   *string
	EventTime   *string
	Location    *string

	// trip
	Destination *string
	StartDate   *string
	EndDate     *string
	Travelers   *int

	// editor
	ProjectType *string
	FootageLink *string
	Deadline    *string
}

// validForVariant rejects patch fields belonging to a different
// booking variant.
func (p BookingPatch) validForVariant(v model.Variant) error {
	eventSet := p.EventType != nil || p.ServiceType != nil || p.EventDate != nil || p.EventTime != nil || p.Location != nil
	tripSet := p.Destination != nil || p.StartDate != nil || p.EndDate != nil || p.Travelers != nil
	editorSet := p.ProjectType != nil || p.FootageLink != nil || p.Deadline != nil
	switch v {
	case model.VariantEvent:
		if tripSet || editorSet {
			return fmt.Errorf("%w: field not valid for %s booking", ErrValidation, v)
		}
	case model.VariantTrip:
		if eventSet || editorSet {
			return fmt.Errorf("%w: field not valid for %s booking", ErrValidation, v)
		}
	case model.VariantEditor:
		if eventSet || tripSet {
			return fmt.Errorf("%w: field not valid for %s booking", ErrValidation, v)
		}
	}
	return nil
}

// Update merges the non-nil patch fields into the stored booking.
// Status changes run through the lifecycle state machine; an invalid
// transition fails with booking.ErrInvalidTransition and leaves the
// record untouched. A rejection without a reason fails with
// ErrValidation.
func (r *BookingRepo) Update(ctx context.Context, v model.Variant, id string, patch BookingPatch) (model.Booking, error) {
	if err := patch.validForVariant(v); err != nil {
		return model.Booking{}, err
	}
	if patch.RejectionReason != nil && (patch.Status == nil || *patch.Status != booking.StatusRejected) {
		return model.Booking{}, fmt.Errorf("%w: rejection_reason is only valid when requesting status rejected", ErrValidation)
	}
	if patch.ProviderID != nil {
		if err := r.resolveProvider(ctx, v, *patch.ProviderID); err != nil {
			return model.Booking{}, err
		}
	}
	now := time.Now().UTC()
	return r.bookings.Update(ctx, v, id, func(b *model.Booking) error {
		if patch.ProviderID != nil {
			b.ProviderID = *patch.ProviderID
		}
		if patch.Requirements != nil {
			b.Requirements = *patch.Requirements
		}
		mergeScheduling(b, patch)
		if patch.Status != nil {
			ch := booking.Change{Status: *patch.Status, EstimatedPrice: patch.EstimatedPrice}
			if patch.RejectionReason != nil {
				ch.RejectionReason = *patch.RejectionReason
			}
			if err := booking.Apply(b, ch, now); err != nil {
				if errors.Is(err, booking.ErrReasonRequired) {
					return fmt.Errorf("%w: %v", ErrValidation, err)
				}
				return err
			}
		} else if patch.EstimatedPrice != nil {
			b.EstimatedPrice = patch.EstimatedPrice
		}
		b.UpdatedAt = now
		return nil
	})
}

func mergeScheduling(b *model.Booking, patch BookingPatch) {
	if patch.EventType != nil {
		b.EventType = *patch.EventType
	}
	if patch.ServiceType != nil {
		b.ServiceType = *patch.ServiceType
	}
	if patch.EventDate != nil {
		b.EventDate = *patch.EventDate
	}
	if patch.EventTime != nil {
		b.EventTime = *patch.EventTime
	}
	if patch.Location != nil {
		b.Location = *patch.Location
	}
	if patch.Destination != nil {
		b.Destination = *patch.Destination
	}
	if patch.StartDate != nil {
		b.StartDate = *patch.StartDate
	}
	if patch.EndDate != nil {
		b.EndDate = *patch.EndDate
	}
	if patch.Travelers != nil {
		b.Travelers = *patch.Travelers
	}
	if patch.ProjectType != nil {
		b.ProjectType = *patch.ProjectType
	}
	if patch.FootageLink != nil {
		b.FootageLink = *patch.FootageLink
	}
	if patch.Deadline != nil {
		b.Deadline = *patch.Deadline
	}
}
