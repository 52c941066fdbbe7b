package model

import "time"

// Review is a 1–5 rating with optional text, written by a client
// about a completed booking. At most one review may exist per
// (reviewer, booking) pair. Creating a review triggers recomputation
// of the provider profile's rating mean and total_reviews.
//
// Fields:
//  ID          – generated identifier.
//  BookingID   – the completed booking being reviewed.
//  BookingType – variant of the referenced booking.
//  ReviewerID  – the client writing the review.
//  ProviderID  – the provider being rated.
//  Rating      – integer 1–5.
//  Text        – free-form review body.
//  Version     – optimistic-concurrency counter.
//  CreatedAt   – timestamp of creation.
type Review struct {
	ID          string    `json:"id"`
	BookingID   string    `json:"booking_id"`
	BookingType Variant   `json:"booking_type"`
	ReviewerID  string    `json:"reviewer_id"`
	ProviderID  string    `json:"provider_id"`
	Rating      int       `json:"rating"`
	Text        string    `json:"text,omitempty"`
	Version     int64     `json:"version"`
	CreatedAt   time.Time `json:"created_at"`
}

// RecordID implements store.Record.
func (r Review) RecordID() string { return r.ID }

// RecordVersion implements store.Record.
func (r Review) RecordVersion() int64 { return r.Version }

// SetRecordVersion implements store.Record.
func (r *Review) SetRecordVersion(v int64) { r.Version = v }
