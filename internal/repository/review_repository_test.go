package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lensly/booking-marketplace/internal/model"
)

// completeBooking walks a booking through accept → in_progress →
// completed so it becomes reviewable.
func completeBooking(t *testing.T, env *testEnv, v model.Variant, id string) {
	t.Helper()
	ctx := context.Background()
	for _, status := range []string{model.StatusAccepted, model.StatusInProgress, model.StatusCompleted} {
		_, err := env.Bookings.Update(ctx, v, id, BookingPatch{Status: strp(status)})
		require.NoError(t, err)
	}
}

func TestReviewCreate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	client := env.newUser(t, "client@example.com", model.UserTypeClient)
	cam := env.newUser(t, "cam@example.com", model.UserTypeCameraman)
	_, err := env.Profiles.Create(ctx, cam.ID, NewProfile{HourlyRate: 120})
	require.NoError(t, err)

	b := env.newEventBooking(t, client.ID, cam.ID)

	t.Run("booking must be completed", func(t *testing.T) {
		_, err := env.Reviews.Create(ctx, NewReview{
			Variant: model.VariantEvent, BookingID: b.ID, ReviewerID: client.ID, Rating: 5,
		})
		require.ErrorIs(t, err, ErrValidation)
	})

	completeBooking(t, env, model.VariantEvent, b.ID)

	t.Run("rating bounds", func(t *testing.T) {
		for _, rating := range []int{0, 6, -1} {
			_, err := env.Reviews.Create(ctx, NewReview{
				Variant: model.VariantEvent, BookingID: b.ID, ReviewerID: client.ID, Rating: rating,
			})
			require.ErrorIs(t, err, ErrValidation, "rating %d", rating)
		}
	})

	t.Run("only the booking's client may review", func(t *testing.T) {
		_, err := env.Reviews.Create(ctx, NewReview{
			Variant: model.VariantEvent, BookingID: b.ID, ReviewerID: cam.ID, Rating: 4,
		})
		require.ErrorIs(t, err, ErrValidation)
	})

	t.Run("create and aggregate", func(t *testing.T) {
		rev, err := env.Reviews.Create(ctx, NewReview{
			Variant: model.VariantEvent, BookingID: b.ID, ReviewerID: client.ID,
			Rating: 4, Text: "great coverage",
		})
		require.NoError(t, err)
		assert.Equal(t, cam.ID, rev.ProviderID, "provider is derived from the booking")
		assert.Equal(t, model.VariantEvent, rev.BookingType)

		p, err := env.Profiles.GetByUserID(ctx, cam.ID)
		require.NoError(t, err)
		assert.Equal(t, 4.0, p.Rating)
		assert.Equal(t, 1, p.TotalReviews)
	})

	t.Run("duplicate review", func(t *testing.T) {
		_, err := env.Reviews.Create(ctx, NewReview{
			Variant: model.VariantEvent, BookingID: b.ID, ReviewerID: client.ID, Rating: 5,
		})
		require.ErrorIs(t, err, ErrConflict)
	})

	t.Run("unknown booking", func(t *testing.T) {
		_, err := env.Reviews.Create(ctx, NewReview{
			Variant: model.VariantEvent, BookingID: "missing", ReviewerID: client.ID, Rating: 5,
		})
		require.ErrorIs(t, err, ErrNotFound)
	})
}

func TestReviewAggregateMean(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	client := env.newUser(t, "client@example.com", model.UserTypeClient)
	cam := env.newUser(t, "cam@example.com", model.UserTypeCameraman)
	_, err := env.Profiles.Create(ctx, cam.ID, NewProfile{HourlyRate: 120})
	require.NoError(t, err)

	b1 := env.newEventBooking(t, client.ID, cam.ID)
	b2 := env.newEventBooking(t, client.ID, cam.ID)
	completeBooking(t, env, model.VariantEvent, b1.ID)
	completeBooking(t, env, model.VariantEvent, b2.ID)

	_, err = env.Reviews.Create(ctx, NewReview{
		Variant: model.VariantEvent, BookingID: b1.ID, ReviewerID: client.ID, Rating: 5,
	})
	require.NoError(t, err)
	_, err = env.Reviews.Create(ctx, NewReview{
		Variant: model.VariantEvent, BookingID: b2.ID, ReviewerID: client.ID, Rating: 2,
	})
	require.NoError(t, err)

	p, err := env.Profiles.GetByUserID(ctx, cam.ID)
	require.NoError(t, err)
	assert.InDelta(t, 3.5, p.Rating, 1e-9)
	assert.Equal(t, 2, p.TotalReviews)

	list, err := env.Reviews.ListByProvider(ctx, cam.ID)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}
