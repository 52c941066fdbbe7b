package mysql

import (
	"context"
	"database/sql"

	"github.com/lensly/booking-marketplace/internal/model"
	"github.com/lensly/booking-marketplace/internal/repository"
)

// ReviewStore persists reviews in the `reviews` table. A unique
// index over (reviewer_id, booking_id) backs the one-review-per-pair
// invariant at the database level.
type ReviewStore struct{ db *sql.DB }

// NewReviewStore returns a ReviewStore bound to the given database.
func NewReviewStore(db *sql.DB) *ReviewStore { return &ReviewStore{db: db} }

var _ repository.ReviewStore = (*ReviewStore)(nil)

const reviewCols = "id, booking_id, booking_type, reviewer_id, provider_id, rating, text, version, created_at"

func (s *ReviewStore) Insert(ctx context.Context, r model.Review) error {
	const q = `INSERT INTO reviews (` + reviewCols + `) VALUES (?,?,?,?,?,?,?,1,?)`
	_, err := s.db.ExecContext(ctx, q,
		r.ID, r.BookingID, string(r.BookingType), r.ReviewerID, r.ProviderID,
		r.Rating, r.Text, r.CreatedAt)
	return mapErr(err, "insert review "+r.ID)
}

func scanReview(scan func(dest ...any) error) (model.Review, error) {
	var r model.Review
	var bookingType string
	var text sql.NullString
	err := scan(&r.ID, &r.BookingID, &bookingType, &r.ReviewerID, &r.ProviderID,
		&r.Rating, &text, &r.Version, &r.CreatedAt)
	if err != nil {
		return model.Review{}, err
	}
	r.BookingType = model.Variant(bookingType)
	r.Text = text.String
	return r, nil
}

func (s *ReviewStore) GetByReviewerAndBooking(ctx context.Context, reviewerID, bookingID string) (model.Review, error) {
	const q = `SELECT ` + reviewCols + ` FROM reviews WHERE reviewer_id=? AND booking_id=? LIMIT 1`
	r, err := scanReview(s.db.QueryRowContext(ctx, q, reviewerID, bookingID).Scan)
	return r, mapErr(err, "review by "+reviewerID+" for booking "+bookingID)
}

func (s *ReviewStore) ListByProvider(ctx context.Context, providerID string) ([]model.Review, error) {
	const q = `SELECT ` + reviewCols + ` FROM reviews WHERE provider_id=? ORDER BY created_at DESC`
	rows, err := s.db.QueryContext(ctx, q, providerID)
	if err != nil {
		return nil, mapErr(err, "list reviews")
	}
	defer rows.Close()
	reviews := make([]model.Review, 0)
	for rows.Next() {
		r, err := scanReview(rows.Scan)
		if err != nil {
			return nil, mapErr(err, "scan review")
		}
		reviews = append(reviews, r)
	}
	if err := rows.Err(); err != nil {
		return nil, mapErr(err, "list reviews")
	}
	return reviews, nil
}
