// Package booking implements the lifecycle state machine governing a
// booking's status field and the side-effect fields each transition
// must set. The machine is pure: it mutates an in-memory record and
// leaves persistence to the repository layer, so both storage
// backends share identical transition semantics.
package booking

import (
	"errors"
	"fmt"
	"time"

	"github.com/lensly/booking-marketplace/internal/model"
)

// ErrInvalidTransition is returned when the requested status change
// is not permitted from the booking's current status. The machine
// never silently no-ops an invalid request.
var ErrInvalidTransition = errors.New("invalid status transition")

// ErrReasonRequired is returned when a rejection is requested without
// a rejection reason.
var ErrReasonRequired = errors.New("rejection_reason required")

// StatusRejected is accepted as a requested status but never
// persisted: a rejection is stored as cancelled with a reason
// attached, not as a distinct terminal state.
const StatusRejected = "rejected"

// Change describes a requested lifecycle transition. EstimatedPrice
// carries a price supplied in the same request, if any; on
// acceptance it becomes the provisional final price.
type Change struct {
	Status          string
	RejectionReason string
	EstimatedPrice  *float64
}

// Apply transitions b according to ch, setting the transition's
// timestamp and derived fields. The caller owns persistence and the
// updated_at stamp. Valid transitions:
//
//	pending              → accepted | cancelled | cancelled (via rejected, reason required)
//	accepted             → in_progress | cancelled
//	accepted/in_progress → in_progress
//	in_progress          → completed
//
// Anything else fails with ErrInvalidTransition.
func Apply(b *model.Booking, ch Change, now time.Time) error {
	switch ch.Status {
	case model.StatusAccepted:
		if b.Status != model.StatusPending {
			return transitionErr(b.Status, ch.Status)
		}
		b.Status = model.StatusAccepted
		b.AcceptedAt = &now
		if ch.EstimatedPrice != nil {
			b.EstimatedPrice = ch.EstimatedPrice
			if b.FinalPrice == nil {
				// Provisional value, superseded by the actual payment
				// amount during reconciliation.
				price := *ch.EstimatedPrice
				b.FinalPrice = &price
			}
		}
	case StatusRejected:
		if b.Status != model.StatusPending {
			return transitionErr(b.Status, ch.Status)
		}
		if ch.RejectionReason == "" {
			return ErrReasonRequired
		}
		reason := ch.RejectionReason
		b.Status = model.StatusCancelled
		b.RejectedAt = &now
		b.RejectionReason = &reason
	case model.StatusCancelled:
		if b.Status != model.StatusPending && b.Status != model.StatusAccepted {
			return transitionErr(b.Status, ch.Status)
		}
		b.Status = model.StatusCancelled
	case model.StatusInProgress:
		if b.Status != model.StatusAccepted && b.Status != model.StatusInProgress {
			return transitionErr(b.Status, ch.Status)
		}
		b.Status = model.StatusInProgress
		if b.StartedAt == nil {
			b.StartedAt = &now
		}
	case model.StatusCompleted:
		if b.Status != model.StatusInProgress {
			return transitionErr(b.Status, ch.Status)
		}
		b.Status = model.StatusCompleted
		b.CompletedAt = &now
	default:
		return transitionErr(b.Status, ch.Status)
	}
	return nil
}

func transitionErr(from, to string) error {
	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
}
