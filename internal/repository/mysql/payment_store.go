package mysql

import (
	"context"
	"database/sql"

	"github.com/lensly/booking-marketplace/internal/model"
	"github.com/lensly/booking-marketplace/internal/repository"
)

// PaymentStore persists payments in the `payments` table. Payments
// are append-only; there is deliberately no update or delete.
type PaymentStore struct{ db *sql.DB }

// NewPaymentStore returns a PaymentStore bound to the given database.
func NewPaymentStore(db *sql.DB) *PaymentStore { return &PaymentStore{db: db} }

var _ repository.PaymentStore = (*PaymentStore)(nil)

const paymentCols = "id, booking_id, booking_type, client_id, provider_id, amount, currency, method, transaction_ref, card_last4, card_brand, version, created_at"

func (s *PaymentStore) Insert(ctx context.Context, p model.Payment) error {
	const q = `INSERT INTO payments (` + paymentCols + `) VALUES (?,?,?,?,?,?,?,?,?,?,?,1,?)`
	_, err := s.db.ExecContext(ctx, q,
		p.ID, p.BookingID, string(p.BookingType), p.ClientID, p.ProviderID,
		p.Amount, p.Currency, p.Method, p.TransactionRef, p.CardLast4, p.CardBrand, p.CreatedAt)
	return mapErr(err, "insert payment "+p.ID)
}

func (s *PaymentStore) list(ctx context.Context, where string, arg string) ([]model.Payment, error) {
	q := `SELECT ` + paymentCols + ` FROM payments WHERE ` + where + ` ORDER BY created_at DESC`
	rows, err := s.db.QueryContext(ctx, q, arg)
	if err != nil {
		return nil, mapErr(err, "list payments")
	}
	defer rows.Close()
	payments := make([]model.Payment, 0)
	for rows.Next() {
		var p model.Payment
		var bookingType string
		var last4, brand sql.NullString
		if err := rows.Scan(&p.ID, &p.BookingID, &bookingType, &p.ClientID, &p.ProviderID,
			&p.Amount, &p.Currency, &p.Method, &p.TransactionRef, &last4, &brand, &p.Version, &p.CreatedAt); err != nil {
			return nil, mapErr(err, "scan payment")
		}
		p.BookingType = model.Variant(bookingType)
		p.CardLast4 = last4.String
		p.CardBrand = brand.String
		payments = append(payments, p)
	}
	if err := rows.Err(); err != nil {
		return nil, mapErr(err, "list payments")
	}
	return payments, nil
}

func (s *PaymentStore) ListByBooking(ctx context.Context, bookingID string) ([]model.Payment, error) {
	return s.list(ctx, "booking_id=?", bookingID)
}

func (s *PaymentStore) ListByClient(ctx context.Context, clientID string) ([]model.Payment, error) {
	return s.list(ctx, "client_id=?", clientID)
}
