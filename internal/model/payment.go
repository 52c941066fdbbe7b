package model

import "time"

// Payment is an immutable, append-only record of money received for a
// booking. Payments are never updated or deleted after creation;
// corrections happen by appending further records. BookingType tags
// which booking variant (and therefore which collection/table) the
// payment reconciles against.
//
// Fields:
//  ID             – generated identifier.
//  BookingID      – booking being paid for.
//  BookingType    – variant of the referenced booking.
//  ClientID       – paying user.
//  ProviderID     – provider being paid.
//  Amount         – amount received; becomes the booking's final price.
//  Currency       – ISO currency code.
//  Method         – payment method (card, upi, …).
//  TransactionRef – external gateway reference.
//  CardLast4      – card metadata kept for display, never the full PAN.
//  CardBrand      – card network, if a card was used.
//  Version        – optimistic-concurrency counter (always 1; kept for
//                   a uniform record shape).
//  CreatedAt      – timestamp of creation.
type Payment struct {
	ID             string    `json:"id"`
	BookingID      string    `json:"booking_id"`
	BookingType    Variant   `json:"booking_type"`
	ClientID       string    `json:"client_id"`
	ProviderID     string    `json:"provider_id"`
	Amount         float64   `json:"amount"`
	Currency       string    `json:"currency"`
	Method         string    `json:"method"`
	TransactionRef string    `json:"transaction_ref"`
	CardLast4      string    `json:"card_last4,omitempty"`
	CardBrand      string    `json:"card_brand,omitempty"`
	Version        int64     `json:"version"`
	CreatedAt      time.Time `json:"created_at"`
}

// RecordID implements store.Record.
func (p Payment) RecordID() string { return p.ID }

// RecordVersion implements store.Record.
func (p Payment) RecordVersion() int64 { return p.Version }

// SetRecordVersion implements store.Record.
func (p *Payment) SetRecordVersion(v int64) { p.Version = v }
