package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lensly/booking-marketplace/internal/booking"
	"github.com/lensly/booking-marketplace/internal/model"
)

func TestBookingCreate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	client := env.newUser(t, "client@example.com", model.UserTypeClient)
	cam := env.newUser(t, "cam@example.com", model.UserTypeCameraman)

	t.Run("defaults", func(t *testing.T) {
		b := env.newEventBooking(t, client.ID, cam.ID)
		assert.NotEmpty(t, b.ID)
		assert.Equal(t, model.StatusPending, b.Status)
		assert.Equal(t, model.PaymentPending, b.PaymentStatus)
		assert.Nil(t, b.FinalPrice)
		assert.Equal(t, int64(1), b.Version)
		assert.Equal(t, b.CreatedAt, b.UpdatedAt)
	})

	t.Run("provider is optional", func(t *testing.T) {
		b, err := env.Bookings.Create(ctx, model.VariantEditor, NewBooking{
			ClientID:    client.ID,
			ProjectType: "highlight reel",
			Deadline:    "2025-08-01",
		})
		require.NoError(t, err)
		assert.Empty(t, b.ProviderID)
	})

	t.Run("missing scheduling fields", func(t *testing.T) {
		_, err := env.Bookings.Create(ctx, model.VariantTrip, NewBooking{
			ClientID:    client.ID,
			Destination: "Goa",
		})
		require.ErrorIs(t, err, ErrValidation)
	})

	t.Run("unknown client", func(t *testing.T) {
		_, err := env.Bookings.Create(ctx, model.VariantEvent, NewBooking{
			ClientID:  "missing",
			EventType: "wedding", ServiceType: "photo", EventDate: "d", EventTime: "t", Location: "l",
		})
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("wrong provider role for variant", func(t *testing.T) {
		// An editor booking cannot be assigned to a cameraman.
		_, err := env.Bookings.Create(ctx, model.VariantEditor, NewBooking{
			ClientID:    client.ID,
			ProviderID:  cam.ID,
			ProjectType: "color grade",
			Deadline:    "2025-08-01",
		})
		require.ErrorIs(t, err, ErrValidation)
	})

	t.Run("unknown variant", func(t *testing.T) {
		_, err := env.Bookings.Create(ctx, model.Variant("drone"), NewBooking{ClientID: client.ID})
		require.ErrorIs(t, err, ErrValidation)
	})
}

// Mirrors the canonical happy path: open a request, have the provider
// accept it with a quote, verify a late rejection is impossible.
func TestBookingAcceptThenRejectFails(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	client := env.newUser(t, "client@example.com", model.UserTypeClient)
	cam := env.newUser(t, "cam@example.com", model.UserTypeCameraman)
	b := env.newEventBooking(t, client.ID, cam.ID)

	accepted, err := env.Bookings.Update(ctx, model.VariantEvent, b.ID, BookingPatch{
		Status:         strp(model.StatusAccepted),
		EstimatedPrice: f64p(500),
	})
	require.NoError(t, err)
	assert.Equal(t, model.StatusAccepted, accepted.Status)
	require.NotNil(t, accepted.AcceptedAt)
	require.NotNil(t, accepted.EstimatedPrice)
	assert.Equal(t, 500.0, *accepted.EstimatedPrice)
	require.NotNil(t, accepted.FinalPrice, "accepting with a quote seeds final_price")
	assert.Equal(t, 500.0, *accepted.FinalPrice)
	assert.Equal(t, int64(2), accepted.Version)

	_, err = env.Bookings.Update(ctx, model.VariantEvent, b.ID, BookingPatch{
		Status:          strp(booking.StatusRejected),
		RejectionReason: strp("double booked"),
	})
	require.ErrorIs(t, err, booking.ErrInvalidTransition)

	// The failed transition left nothing behind.
	cur, err := env.Bookings.Get(ctx, model.VariantEvent, b.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusAccepted, cur.Status)
	assert.Nil(t, cur.RejectionReason)
}

func TestBookingRejection(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	client := env.newUser(t, "client@example.com", model.UserTypeClient)
	cam := env.newUser(t, "cam@example.com", model.UserTypeCameraman)

	t.Run("reject from pending persists cancelled with reason", func(t *testing.T) {
		b := env.newEventBooking(t, client.ID, cam.ID)
		got, err := env.Bookings.Update(ctx, model.VariantEvent, b.ID, BookingPatch{
			Status:          strp(booking.StatusRejected),
			RejectionReason: strp("out of town"),
		})
		require.NoError(t, err)
		assert.Equal(t, model.StatusCancelled, got.Status)
		require.NotNil(t, got.RejectionReason)
		assert.Equal(t, "out of town", *got.RejectionReason)
		require.NotNil(t, got.RejectedAt)
	})

	t.Run("reject without reason", func(t *testing.T) {
		b := env.newEventBooking(t, client.ID, cam.ID)
		_, err := env.Bookings.Update(ctx, model.VariantEvent, b.ID, BookingPatch{
			Status: strp(booking.StatusRejected),
		})
		require.ErrorIs(t, err, ErrValidation)
	})

	t.Run("reason without rejected status", func(t *testing.T) {
		b := env.newEventBooking(t, client.ID, cam.ID)
		_, err := env.Bookings.Update(ctx, model.VariantEvent, b.ID, BookingPatch{
			Status:          strp(model.StatusCancelled),
			RejectionReason: strp("nope"),
		})
		require.ErrorIs(t, err, ErrValidation)
	})
}

func TestBookingPatchDetails(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	client := env.newUser(t, "client@example.com", model.UserTypeClient)
	cam := env.newUser(t, "cam@example.com", model.UserTypeCameraman)
	b := env.newEventBooking(t, client.ID, cam.ID)

	t.Run("merges only supplied fields", func(t *testing.T) {
		got, err := env.Bookings.Update(ctx, model.VariantEvent, b.ID, BookingPatch{
			Location:       strp("Udaipur"),
			EstimatedPrice: f64p(750),
		})
		require.NoError(t, err)
		assert.Equal(t, "Udaipur", got.Location)
		require.NotNil(t, got.EstimatedPrice)
		assert.Equal(t, 750.0, *got.EstimatedPrice)
		assert.Equal(t, "wedding", got.EventType, "untouched field survives")
		assert.Equal(t, model.StatusPending, got.Status, "no status change without one requested")
		assert.Nil(t, got.FinalPrice, "estimated price edits never touch final_price")
	})

	t.Run("cross-variant fields rejected", func(t *testing.T) {
		_, err := env.Bookings.Update(ctx, model.VariantEvent, b.ID, BookingPatch{
			Destination: strp("Goa"),
		})
		require.ErrorIs(t, err, ErrValidation)
	})

	t.Run("empty patch only bumps updated_at", func(t *testing.T) {
		before, err := env.Bookings.Get(ctx, model.VariantEvent, b.ID)
		require.NoError(t, err)
		got, err := env.Bookings.Update(ctx, model.VariantEvent, b.ID, BookingPatch{})
		require.NoError(t, err)
		assert.Equal(t, before.Status, got.Status)
		assert.Equal(t, before.Location, got.Location)
		assert.Equal(t, before.Version+1, got.Version)
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := env.Bookings.Update(ctx, model.VariantEvent, "missing", BookingPatch{})
		require.ErrorIs(t, err, ErrNotFound)
	})
}

func TestBookingList(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	c1 := env.newUser(t, "c1@example.com", model.UserTypeClient)
	c2 := env.newUser(t, "c2@example.com", model.UserTypeClient)
	cam := env.newUser(t, "cam@example.com", model.UserTypeCameraman)

	first := env.newEventBooking(t, c1.ID, cam.ID)
	time.Sleep(2 * time.Millisecond)
	second := env.newEventBooking(t, c1.ID, cam.ID)
	time.Sleep(2 * time.Millisecond)
	third := env.newEventBooking(t, c2.ID, cam.ID)

	_, err := env.Bookings.Update(ctx, model.VariantEvent, second.ID, BookingPatch{
		Status: strp(model.StatusAccepted),
	})
	require.NoError(t, err)

	t.Run("by client, newest first", func(t *testing.T) {
		got, err := env.Bookings.List(ctx, model.VariantEvent, BookingFilter{ClientID: c1.ID})
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, second.ID, got[0].ID)
		assert.Equal(t, first.ID, got[1].ID)
	})

	t.Run("by provider", func(t *testing.T) {
		got, err := env.Bookings.List(ctx, model.VariantEvent, BookingFilter{ProviderID: cam.ID})
		require.NoError(t, err)
		assert.Len(t, got, 3)
	})

	t.Run("by status", func(t *testing.T) {
		got, err := env.Bookings.List(ctx, model.VariantEvent, BookingFilter{ClientID: c1.ID, Status: model.StatusAccepted})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, second.ID, got[0].ID)
	})

	t.Run("variants are separate namespaces", func(t *testing.T) {
		_, err := env.Bookings.Get(ctx, model.VariantTrip, third.ID)
		require.ErrorIs(t, err, ErrNotFound)
	})
}
