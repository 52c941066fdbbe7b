// Package queue defines message payloads exchanged over the message broker.
package queue

// Event kinds carried in BookingEvent.Kind.
const (
	KindBookingCreated  = "booking.created"
	KindStatusChanged   = "booking.status_changed"
	KindPaymentRecorded = "booking.payment_recorded"
)

// BookingEvent is published on every booking lifecycle transition and on
// every recorded payment. It contains enough information for downstream
// consumers to log, notify, or trigger analytics without querying the
// primary store.
type BookingEvent struct {
	Kind          string   `json:"kind"`
	BookingID     string   `json:"booking_id"`
	BookingType   string   `json:"booking_type"`
	ClientID      string   `json:"client_id"`
	ProviderID    string   `json:"provider_id,omitempty"`
	Status        string   `json:"status"`
	PaymentStatus string   `json:"payment_status"`
	Amount        *float64 `json:"amount,omitempty"`
	OccurredAt    string   `json:"occurred_at"`
}
