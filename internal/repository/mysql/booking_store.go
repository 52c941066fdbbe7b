package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/lensly/booking-marketplace/internal/model"
	"github.com/lensly/booking-marketplace/internal/repository"
)

// BookingStore persists the three booking variants, one table per
// variant (bookings_event, bookings_trip, bookings_editor). All
// three tables share the same column layout; the variant-specific
// scheduling columns are simply NULL on the other variants.
type BookingStore struct{ db *sql.DB }

// NewBookingStore returns a BookingStore bound to the given database.
func NewBookingStore(db *sql.DB) *BookingStore { return &BookingStore{db: db} }

var _ repository.BookingStore = (*BookingStore)(nil)

const bookingCols = `id, client_id, provider_id, status, payment_status, estimated_price, final_price, requirements,
	event_type, service_type, event_date, event_time, location,
	destination, start_date, end_date, travelers,
	project_type, footage_link, deadline,
	accepted_at, rejected_at, started_at, completed_at, rejection_reason,
	version, created_at, updated_at`

// table validates the variant and returns its table name. Table
// names are never built from raw request input.
func table(v model.Variant) (string, error) {
	if !model.ValidVariant(v) {
		return "", fmt.Errorf("%w: unknown booking variant %q", repository.ErrValidation, v)
	}
	return v.Collection(), nil
}

func scanBooking(scan func(dest ...any) error) (model.Booking, error) {
	var b model.Booking
	var provider, requirements sql.NullString
	var estimated, final sql.NullFloat64
	var eventType, serviceType, eventDate, eventTime, location sql.NullString
	var destination, startDate, endDate sql.NullString
	var travelers sql.NullInt64
	var projectType, footageLink, deadline sql.NullString
	var acceptedAt, rejectedAt, startedAt, completedAt sql.NullTime
	var rejectionReason sql.NullString
	err := scan(&b.ID, &b.ClientID, &provider, &b.Status, &b.PaymentStatus, &estimated, &final, &requirements,
		&eventType, &serviceType, &eventDate, &eventTime, &location,
		&destination, &startDate, &endDate, &travelers,
		&projectType, &footageLink, &deadline,
		&acceptedAt, &rejectedAt, &startedAt, &completedAt, &rejectionReason,
		&b.Version, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return model.Booking{}, err
	}
	b.ProviderID = provider.String
	b.Requirements = requirements.String
	b.EstimatedPrice = floatPtr(estimated)
	b.FinalPrice = floatPtr(final)
	b.EventType = eventType.String
	b.ServiceType = serviceType.String
	b.EventDate = eventDate.String
	b.EventTime = eventTime.String
	b.Location = location.String
	b.Destination = destination.String
	b.StartDate = startDate.String
	b.EndDate = endDate.String
	b.Travelers = int(travelers.Int64)
	b.ProjectType = projectType.String
	b.FootageLink = footageLink.String
	b.Deadline = deadline.String
	if acceptedAt.Valid {
		t := acceptedAt.Time
		b.AcceptedAt = &t
	}
	if rejectedAt.Valid {
		t := rejectedAt.Time
		b.RejectedAt = &t
	}
	if startedAt.Valid {
		t := startedAt.Time
		b.StartedAt = &t
	}
	if completedAt.Valid {
		t := completedAt.Time
		b.CompletedAt = &t
	}
	b.RejectionReason = strPtr(rejectionReason)
	return b, nil
}

func bookingArgs(b model.Booking) []any {
	return []any{
		b.ID, b.ClientID, b.ProviderID, b.Status, b.PaymentStatus,
		nullFloat(b.EstimatedPrice), nullFloat(b.FinalPrice), b.Requirements,
		b.EventType, b.ServiceType, b.EventDate, b.EventTime, b.Location,
		b.Destination, b.StartDate, b.EndDate, b.Travelers,
		b.ProjectType, b.FootageLink, b.Deadline,
		b.AcceptedAt, b.RejectedAt, b.StartedAt, b.CompletedAt, nullStr(b.RejectionReason),
	}
}

func (s *BookingStore) Insert(ctx context.Context, v model.Variant, b model.Booking) error {
	t, err := table(v)
	if err != nil {
		return err
	}
	q := `INSERT INTO ` + t + ` (` + bookingCols + `) VALUES (` + placeholders(25) + `,1,?,?)`
	args := append(bookingArgs(b), b.CreatedAt, b.UpdatedAt)
	_, err = s.db.ExecContext(ctx, q, args...)
	return mapErr(err, "insert booking "+b.ID)
}

func (s *BookingStore) Get(ctx context.Context, v model.Variant, id string) (model.Booking, error) {
	t, err := table(v)
	if err != nil {
		return model.Booking{}, err
	}
	q := `SELECT ` + bookingCols + ` FROM ` + t + ` WHERE id=? LIMIT 1`
	b, err := scanBooking(s.db.QueryRowContext(ctx, q, id).Scan)
	return b, mapErr(err, "booking "+id)
}

func (s *BookingStore) List(ctx context.Context, v model.Variant, f repository.BookingFilter) ([]model.Booking, error) {
	t, err := table(v)
	if err != nil {
		return nil, err
	}
	q := `SELECT ` + bookingCols + ` FROM ` + t
	var conds []string
	var args []any
	if f.ClientID != "" {
		conds = append(conds, "client_id=?")
		args = append(args, f.ClientID)
	}
	if f.ProviderID != "" {
		conds = append(conds, "provider_id=?")
		args = append(args, f.ProviderID)
	}
	if f.Status != "" {
		conds = append(conds, "status=?")
		args = append(args, f.Status)
	}
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += " ORDER BY created_at DESC"
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, mapErr(err, "list bookings")
	}
	defer rows.Close()
	bookings := make([]model.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows.Scan)
		if err != nil {
			return nil, mapErr(err, "scan booking")
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, mapErr(err, "list bookings")
	}
	return bookings, nil
}

// Update re-reads the booking row inside a transaction, applies fn
// and writes the result back guarded by the version counter.
func (s *BookingStore) Update(ctx context.Context, v model.Variant, id string, fn func(*model.Booking) error) (model.Booking, error) {
	t, err := table(v)
	if err != nil {
		return model.Booking{}, err
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return model.Booking{}, mapErr(err, "begin booking update")
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	sel := `SELECT ` + bookingCols + ` FROM ` + t + ` WHERE id=? FOR UPDATE`
	b, err := scanBooking(tx.QueryRowContext(ctx, sel, id).Scan)
	if err != nil {
		return model.Booking{}, mapErr(err, "booking "+id)
	}
	prev := b.Version
	if err := fn(&b); err != nil {
		return model.Booking{}, err
	}
	upd := `UPDATE ` + t + ` SET provider_id=?, status=?, payment_status=?, estimated_price=?, final_price=?, requirements=?,
		event_type=?, service_type=?, event_date=?, event_time=?, location=?,
		destination=?, start_date=?, end_date=?, travelers=?,
		project_type=?, footage_link=?, deadline=?,
		accepted_at=?, rejected_at=?, started_at=?, completed_at=?, rejection_reason=?,
		version=?, updated_at=?
		WHERE id=? AND version=?`
	res, err := tx.ExecContext(ctx, upd,
		b.ProviderID, b.Status, b.PaymentStatus,
		nullFloat(b.EstimatedPrice), nullFloat(b.FinalPrice), b.Requirements,
		b.EventType, b.ServiceType, b.EventDate, b.EventTime, b.Location,
		b.Destination, b.StartDate, b.EndDate, b.Travelers,
		b.ProjectType, b.FootageLink, b.Deadline,
		b.AcceptedAt, b.RejectedAt, b.StartedAt, b.CompletedAt, nullStr(b.RejectionReason),
		prev+1, b.UpdatedAt, id, prev)
	if err != nil {
		return model.Booking{}, mapErr(err, "update booking "+id)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.Booking{}, errStale("booking " + id)
	}
	if err := tx.Commit(); err != nil {
		return model.Booking{}, mapErr(err, "commit booking update")
	}
	committed = true
	b.Version = prev + 1
	return b, nil
}

// placeholders returns n comma-separated ? markers.
func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}
