package model

import "time"

// Variant distinguishes the three structurally similar booking kinds.
// Each variant is persisted in its own collection/table
// (bookings_event, bookings_trip, bookings_editor).
type Variant string

const (
	VariantEvent  Variant = "event"
	VariantTrip   Variant = "trip"
	VariantEditor Variant = "editor"
)

// ValidVariant reports whether v names a known booking variant.
func ValidVariant(v Variant) bool {
	return v == VariantEvent || v == VariantTrip || v == VariantEditor
}

// Collection returns the persisted collection name for the variant.
func (v Variant) Collection() string { return "bookings_" + string(v) }

// Booking lifecycle statuses. pending is the initial state; completed
// and cancelled are terminal. A "rejected" request is persisted as
// cancelled together with a rejection reason; rejected itself is
// never stored.
const (
	StatusPending    = "pending"
	StatusAccepted   = "accepted"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusCancelled  = "cancelled"
)

// Payment statuses for a booking. Reconciliation writes paid; success
// and failed exist for records synced from the hosted backend.
const (
	PaymentPending = "pending"
	PaymentPaid    = "paid"
	PaymentSuccess = "success"
	PaymentFailed  = "failed"
)

// Booking is a service request from a client to a provider. The
// shared lifecycle fields are common to every variant; the scheduling
// fields below them belong to exactly one variant each and are empty
// on the other two.
//
// Invariants maintained by the repository and lifecycle layers:
//  - FinalPrice is non-nil only once status is accepted or later.
//  - RejectionReason is non-nil iff the booking was cancelled through
//    the rejection path.
//  - Lifecycle timestamps are written once by their transition and
//    never cleared.
type Booking struct {
	ID             string   `json:"id"`
	ClientID       string   `json:"client_id"`
	ProviderID     string   `json:"provider_id"`
	Status         string   `json:"status"`
	PaymentStatus  string   `json:"payment_status"`
	EstimatedPrice *float64 `json:"estimated_price,omitempty"`
	FinalPrice     *float64 `json:"final_price,omitempty"`
	Requirements   string   `json:"requirements,omitempty"`

	// event variant scheduling fields
	EventType   string `json:"event_type,omitempty"`
	ServiceType string `json:"service_type,omitempty"`
	EventDate   string `json:"event_date,omitempty"`
	EventTime   string `json:"event_time,omitempty"`
	Location    string `json:"location,omitempty"`

	// trip variant scheduling fields
	Destination string `json:"destination,omitempty"`
	StartDate   string `json:"start_date,omitempty"`
	EndDate     string `json:"end_date,omitempty"`
	Travelers   int    `json:"travelers,omitempty"`

	// editor variant scheduling fields
	ProjectType string `json:"project_type,omitempty"`
	FootageLink string `json:"footage_link,omitempty"`
	Deadline    string `json:"deadline,omitempty"`

	AcceptedAt      *time.Time `json:"accepted_at,omitempty"`
	RejectedAt      *time.Time `json:"rejected_at,omitempty"`
	StartedAt       *time.Time `json:"started_at,omitempty"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`
	RejectionReason *string    `json:"rejection_reason,omitempty"`

	Version   int64     `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RecordID implements store.Record.
func (b Booking) RecordID() string { return b.ID }

// RecordVersion implements store.Record.
func (b Booking) RecordVersion() int64 { return b.Version }

// SetRecordVersion implements store.Record.
func (b *Booking) SetRecordVersion(v int64) { b.Version = v }

// Terminal reports whether no further lifecycle transition is
// permitted from the given status.
func Terminal(status string) bool {
	return status == StatusCompleted || status == StatusCancelled
}
