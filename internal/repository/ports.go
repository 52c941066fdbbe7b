package repository

import (
	"context"

	"github.com/lensly/booking-marketplace/internal/model"
)

// The interfaces below are the persistence contract shared by the
// file-backed store and the hosted-database backend. Repositories
// are written against these interfaces only, so either backend can
// satisfy every operation without changing caller code. Implementations
// return ErrNotFound / ErrConflict from this package (or
// store.ErrUnavailable for I/O failures) so repositories and handlers
// can match errors uniformly.
//
// Update methods take a mutator applied under the backend's own
// concurrency control: the file store holds the collection lock for
// the whole read-modify-write cycle, and the MySQL backend re-reads
// the row and guards the write with the record's version counter.

// UserStore persists users.
type UserStore interface {
	Insert(ctx context.Context, u model.User) error
	GetByID(ctx context.Context, id string) (model.User, error)
	GetByEmail(ctx context.Context, email string) (model.User, error)
	Update(ctx context.Context, id string, fn func(*model.User) error) (model.User, error)
}

// ProfileStore persists role profiles, keyed by their owning user.
type ProfileStore interface {
	Insert(ctx context.Context, p model.RoleProfile) error
	GetByUserID(ctx context.Context, userID string) (model.RoleProfile, error)
	ListByType(ctx context.Context, profileType string) ([]model.RoleProfile, error)
	Update(ctx context.Context, userID string, fn func(*model.RoleProfile) error) (model.RoleProfile, error)
}

// BookingFilter narrows booking listings. Zero-valued fields are
// ignored.
type BookingFilter struct {
	ClientID   string
	ProviderID string
	Status     string
}

// BookingStore persists the three booking variants, one collection or
// table per variant.
type BookingStore interface {
	Insert(ctx context.Context, variant model.Variant, b model.Booking) error
	Get(ctx context.Context, variant model.Variant, id string) (model.Booking, error)
	// List returns matching bookings ordered by creation time, most
	// recent first.
	List(ctx context.Context, variant model.Variant, f BookingFilter) ([]model.Booking, error)
	Update(ctx context.Context, variant model.Variant, id string, fn func(*model.Booking) error) (model.Booking, error)
}

// PaymentStore persists immutable payment records. There is no
// update or delete: payments are append-only.
type PaymentStore interface {
	Insert(ctx context.Context, p model.Payment) error
	ListByBooking(ctx context.Context, bookingID string) ([]model.Payment, error)
	ListByClient(ctx context.Context, clientID string) ([]model.Payment, error)
}

// ReviewStore persists reviews.
type ReviewStore interface {
	Insert(ctx context.Context, r model.Review) error
	GetByReviewerAndBooking(ctx context.Context, reviewerID, bookingID string) (model.Review, error)
	ListByProvider(ctx context.Context, providerID string) ([]model.Review, error)
}
