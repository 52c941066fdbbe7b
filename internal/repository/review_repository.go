package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lensly/booking-marketplace/internal/model"
	"github.com/lensly/booking-marketplace/internal/store"
)

// ReviewRepo creates reviews and keeps the provider rating aggregate
// in sync. At most one review may exist per (reviewer, booking)
// pair, and only completed bookings can be reviewed.
type ReviewRepo struct {
	reviews  ReviewStore
	bookings BookingStore
	profiles *ProfileRepo
}

// NewReviewRepo returns a ReviewRepo bound to the given backends.
func NewReviewRepo(reviews ReviewStore, bookings BookingStore, profiles *ProfileRepo) *ReviewRepo {
	return &ReviewRepo{reviews: reviews, bookings: bookings, profiles: profiles}
}

// NewReview carries the fields accepted when creating a review.
type NewReview struct {
	Variant    model.Variant
	BookingID  string
	ReviewerID string
	Rating     int
	Text       string
}

// Create validates and persists a review, then recomputes the target
// provider's rating mean and total_reviews. It fails with
// ErrValidation for an out-of-range rating or a booking that is not
// completed, ErrNotFound when the booking does not exist, and
// ErrConflict when the reviewer already reviewed this booking.
func (r *ReviewRepo) Create(ctx context.Context, in NewReview) (model.Review, error) {
	if in.Rating < 1 || in.Rating > 5 {
		return model.Review{}, fmt.Errorf("%w: rating must be between 1 and 5", ErrValidation)
	}
	b, err := r.bookings.Get(ctx, in.Variant, in.BookingID)
	if err != nil {
		return model.Review{}, err
	}
	if b.Status != model.StatusCompleted {
		return model.Review{}, fmt.Errorf("%w: only completed bookings can be reviewed", ErrValidation)
	}
	if b.ClientID != in.ReviewerID {
		return model.Review{}, fmt.Errorf("%w: reviewer is not the booking's client", ErrValidation)
	}
	if b.ProviderID == "" {
		return model.Review{}, fmt.Errorf("%w: booking has no provider to review", ErrValidation)
	}
	if _, err := r.reviews.GetByReviewerAndBooking(ctx, in.ReviewerID, in.BookingID); err == nil {
		return model.Review{}, fmt.Errorf("%w: booking already reviewed", ErrConflict)
	} else if !errors.Is(err, ErrNotFound) {
		return model.Review{}, err
	}
	rev := model.Review{
		ID:          store.GenerateID(),
		BookingID:   in.BookingID,
		BookingType: in.Variant,
		ReviewerID:  in.ReviewerID,
		ProviderID:  b.ProviderID,
		Rating:      in.Rating,
		Text:        in.Text,
		Version:     1,
		CreatedAt:   time.Now().UTC(),
	}
	if err := r.reviews.Insert(ctx, rev); err != nil {
		return model.Review{}, err
	}
	if err := r.recomputeAggregate(ctx, b.ProviderID); err != nil {
		// The review exists; surface the unsynced aggregate the same
		// way an unsynced payment is surfaced.
		return rev, fmt.Errorf("%w: review %s recorded but rating sync failed: %v", ErrPartialFailure, rev.ID, err)
	}
	return rev, nil
}

// ListByProvider returns a provider's reviews, newest first.
func (r *ReviewRepo) ListByProvider(ctx context.Context, providerID string) ([]model.Review, error) {
	return r.reviews.ListByProvider(ctx, providerID)
}

// recomputeAggregate recalculates the arithmetic mean over all of the
// provider's reviews and writes it to the role profile.
func (r *ReviewRepo) recomputeAggregate(ctx context.Context, providerID string) error {
	reviews, err := r.reviews.ListByProvider(ctx, providerID)
	if err != nil {
		return err
	}
	if len(reviews) == 0 {
		return nil
	}
	sum := 0
	for _, rev := range reviews {
		sum += rev.Rating
	}
	mean := float64(sum) / float64(len(reviews))
	_, err = r.profiles.ApplyReviewAggregate(ctx, providerID, mean, len(reviews))
	return err
}
