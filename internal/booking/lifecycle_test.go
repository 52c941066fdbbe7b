package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lensly/booking-marketplace/internal/model"
)

func pending() model.Booking {
	return model.Booking{ID: "b1", ClientID: "c1", ProviderID: "p1", Status: model.StatusPending, PaymentStatus: model.PaymentPending}
}

func TestApplyTransitions(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("pending to accepted", func(t *testing.T) {
		b := pending()
		require.NoError(t, Apply(&b, Change{Status: model.StatusAccepted}, now))
		assert.Equal(t, model.StatusAccepted, b.Status)
		require.NotNil(t, b.AcceptedAt)
		assert.Equal(t, now, *b.AcceptedAt)
	})

	t.Run("accept with estimated price seeds final price", func(t *testing.T) {
		b := pending()
		price := 500.0
		require.NoError(t, Apply(&b, Change{Status: model.StatusAccepted, EstimatedPrice: &price}, now))
		require.NotNil(t, b.EstimatedPrice)
		assert.Equal(t, 500.0, *b.EstimatedPrice)
		require.NotNil(t, b.FinalPrice)
		assert.Equal(t, 500.0, *b.FinalPrice)
	})

	t.Run("accept does not overwrite an existing final price", func(t *testing.T) {
		b := pending()
		existing := 800.0
		b.FinalPrice = &existing
		price := 500.0
		require.NoError(t, Apply(&b, Change{Status: model.StatusAccepted, EstimatedPrice: &price}, now))
		assert.Equal(t, 800.0, *b.FinalPrice)
	})

	t.Run("reject from pending stores cancelled with reason", func(t *testing.T) {
		b := pending()
		require.NoError(t, Apply(&b, Change{Status: StatusRejected, RejectionReason: "fully booked"}, now))
		assert.Equal(t, model.StatusCancelled, b.Status)
		require.NotNil(t, b.RejectionReason)
		assert.Equal(t, "fully booked", *b.RejectionReason)
		require.NotNil(t, b.RejectedAt)
	})

	t.Run("reject without reason fails", func(t *testing.T) {
		b := pending()
		err := Apply(&b, Change{Status: StatusRejected}, now)
		require.ErrorIs(t, err, ErrReasonRequired)
		assert.Equal(t, model.StatusPending, b.Status)
	})

	t.Run("reject after accept fails", func(t *testing.T) {
		b := pending()
		require.NoError(t, Apply(&b, Change{Status: model.StatusAccepted}, now))
		err := Apply(&b, Change{Status: StatusRejected, RejectionReason: "changed my mind"}, now)
		require.ErrorIs(t, err, ErrInvalidTransition)
		assert.Equal(t, model.StatusAccepted, b.Status)
	})

	t.Run("cancel from pending and accepted", func(t *testing.T) {
		b := pending()
		require.NoError(t, Apply(&b, Change{Status: model.StatusCancelled}, now))
		assert.Equal(t, model.StatusCancelled, b.Status)
		assert.Nil(t, b.RejectionReason)

		b = pending()
		require.NoError(t, Apply(&b, Change{Status: model.StatusAccepted}, now))
		require.NoError(t, Apply(&b, Change{Status: model.StatusCancelled}, now))
		assert.Equal(t, model.StatusCancelled, b.Status)
	})

	t.Run("start work sets started_at once", func(t *testing.T) {
		b := pending()
		require.NoError(t, Apply(&b, Change{Status: model.StatusAccepted}, now))
		require.NoError(t, Apply(&b, Change{Status: model.StatusInProgress}, now))
		require.NotNil(t, b.StartedAt)
		first := *b.StartedAt

		later := now.Add(time.Hour)
		require.NoError(t, Apply(&b, Change{Status: model.StatusInProgress}, later))
		assert.Equal(t, first, *b.StartedAt)
	})

	t.Run("complete only from in_progress", func(t *testing.T) {
		b := pending()
		err := Apply(&b, Change{Status: model.StatusCompleted}, now)
		require.ErrorIs(t, err, ErrInvalidTransition)

		require.NoError(t, Apply(&b, Change{Status: model.StatusAccepted}, now))
		require.NoError(t, Apply(&b, Change{Status: model.StatusInProgress}, now))
		require.NoError(t, Apply(&b, Change{Status: model.StatusCompleted}, now))
		assert.Equal(t, model.StatusCompleted, b.Status)
		require.NotNil(t, b.CompletedAt)
	})

	t.Run("terminal states are frozen", func(t *testing.T) {
		for _, terminal := range []string{model.StatusCompleted, model.StatusCancelled} {
			b := pending()
			b.Status = terminal
			for _, next := range []string{model.StatusAccepted, model.StatusInProgress, model.StatusCompleted, model.StatusCancelled} {
				err := Apply(&b, Change{Status: next}, now)
				assert.ErrorIs(t, err, ErrInvalidTransition, "%s -> %s", terminal, next)
			}
		}
	})

	t.Run("unknown status fails", func(t *testing.T) {
		b := pending()
		err := Apply(&b, Change{Status: "archived"}, now)
		require.ErrorIs(t, err, ErrInvalidTransition)
	})
}

func TestTerminal(t *testing.T) {
	assert.True(t, model.Terminal(model.StatusCompleted))
	assert.True(t, model.Terminal(model.StatusCancelled))
	assert.False(t, model.Terminal(model.StatusPending))
	assert.False(t, model.Terminal(model.StatusAccepted))
	assert.False(t, model.Terminal(model.StatusInProgress))
}
