package model

import "time"

// RoleProfile is the provider-side profile attached one-to-one to a
// cameraman or editor account. It is created together with the User
// at registration time and lives in the `profiles` collection/table.
// The rating aggregate fields are only ever written by the review
// flow, never by plain profile updates.
//
// Fields:
//  ID           – generated identifier.
//  UserID       – owning user; must resolve to a provider account.
//  ProfileType  – cameraman or editor, mirrors the user's type.
//  HourlyRate   – advertised rate.
//  Specialties  – free-form specialty tags.
//  Availability – free-form availability description.
//  Rating       – arithmetic mean over all reviews for this provider.
//  TotalReviews – number of reviews backing the mean.
//  Portfolio    – links to previous work.
//  Version      – optimistic-concurrency counter.
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type RoleProfile struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	ProfileType  string    `json:"profile_type"`
	HourlyRate   float64   `json:"hourly_rate"`
	Specialties  []string  `json:"specialties,omitempty"`
	Availability string    `json:"availability,omitempty"`
	Rating       float64   `json:"rating"`
	TotalReviews int       `json:"total_reviews"`
	Portfolio    []string  `json:"portfolio,omitempty"`
	Version      int64     `json:"version"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// RecordID implements store.Record.
func (p RoleProfile) RecordID() string { return p.ID }

// RecordVersion implements store.Record.
func (p RoleProfile) RecordVersion() int64 { return p.Version }

// SetRecordVersion implements store.Record.
func (p *RoleProfile) SetRecordVersion(v int64) { p.Version = v }
