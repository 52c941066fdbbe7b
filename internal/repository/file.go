package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/lensly/booking-marketplace/internal/model"
	"github.com/lensly/booking-marketplace/internal/store"
)

// This file implements the persistence interfaces of ports.go on top
// of the file-backed record store. Each entity kind maps to one
// persisted collection; booking variants each get their own
// collection (bookings_event, bookings_trip, bookings_editor).

// Compile-time checks that the file backend satisfies the
// persistence contract.
var (
	_ UserStore    = (*FileUserStore)(nil)
	_ ProfileStore = (*FileProfileStore)(nil)
	_ BookingStore = (*FileBookingStore)(nil)
	_ PaymentStore = (*FilePaymentStore)(nil)
	_ ReviewStore  = (*FileReviewStore)(nil)
)

// mapStoreErr translates store sentinels into the repository
// taxonomy. Storage failures pass through untouched so handlers can
// report them as 5xx.
func mapStoreErr(err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	}
	if errors.Is(err, store.ErrConflict) {
		return fmt.Errorf("%w: %v", ErrConflict, err)
	}
	return err
}

// FileUserStore persists users in the `users` collection.
type FileUserStore struct {
	c *store.Collection[model.User, *model.User]
}

// NewFileUserStore binds the users collection.
func NewFileUserStore(s *store.Store) *FileUserStore {
	return &FileUserStore{c: store.NewCollection[model.User, *model.User](s, "users")}
}

// Insert appends the user, enforcing email uniqueness inside the
// collection's critical section so concurrent registrations of the
// same address cannot both land.
func (f *FileUserStore) Insert(_ context.Context, u model.User) error {
	return mapStoreErr(f.c.AppendIf(u, func(e model.User) bool { return e.Email == u.Email }))
}

func (f *FileUserStore) GetByID(_ context.Context, id string) (model.User, error) {
	users, err := f.c.Find(func(u model.User) bool { return u.ID == id })
	if err != nil {
		return model.User{}, err
	}
	if len(users) == 0 {
		return model.User{}, fmt.Errorf("%w: user %s", ErrNotFound, id)
	}
	return users[0], nil
}

func (f *FileUserStore) GetByEmail(_ context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	users, err := f.c.Find(func(u model.User) bool { return u.Email == email })
	if err != nil {
		return model.User{}, err
	}
	if len(users) == 0 {
		return model.User{}, fmt.Errorf("%w: user %s", ErrNotFound, email)
	}
	return users[0], nil
}

func (f *FileUserStore) Update(_ context.Context, id string, fn func(*model.User) error) (model.User, error) {
	u, err := f.c.Update(id, fn)
	return u, mapStoreErr(err)
}

// FileProfileStore persists role profiles in the `profiles`
// collection.
type FileProfileStore struct {
	c *store.Collection[model.RoleProfile, *model.RoleProfile]
}

// NewFileProfileStore binds the profiles collection.
func NewFileProfileStore(s *store.Store) *FileProfileStore {
	return &FileProfileStore{c: store.NewCollection[model.RoleProfile, *model.RoleProfile](s, "profiles")}
}

// Insert appends the profile, enforcing one profile per user inside
// the collection's critical section.
func (f *FileProfileStore) Insert(_ context.Context, p model.RoleProfile) error {
	return mapStoreErr(f.c.AppendIf(p, func(e model.RoleProfile) bool { return e.UserID == p.UserID }))
}

func (f *FileProfileStore) GetByUserID(_ context.Context, userID string) (model.RoleProfile, error) {
	profiles, err := f.c.Find(func(p model.RoleProfile) bool { return p.UserID == userID })
	if err != nil {
		return model.RoleProfile{}, err
	}
	if len(profiles) == 0 {
		return model.RoleProfile{}, fmt.Errorf("%w: profile for user %s", ErrNotFound, userID)
	}
	return profiles[0], nil
}

func (f *FileProfileStore) ListByType(_ context.Context, profileType string) ([]model.RoleProfile, error) {
	profiles, err := f.c.Find(func(p model.RoleProfile) bool { return p.ProfileType == profileType })
	if err != nil {
		return nil, err
	}
	sortByCreatedDesc(profiles, func(p model.RoleProfile) int64 { return p.CreatedAt.UnixNano() })
	return profiles, nil
}

func (f *FileProfileStore) Update(_ context.Context, userID string, fn func(*model.RoleProfile) error) (model.RoleProfile, error) {
	p, err := f.GetByUserID(context.Background(), userID)
	if err != nil {
		return model.RoleProfile{}, err
	}
	p, err = f.c.Update(p.ID, fn)
	return p, mapStoreErr(err)
}

// FileBookingStore persists the three booking variants.
type FileBookingStore struct {
	collections map[model.Variant]*store.Collection[model.Booking, *model.Booking]
}

// NewFileBookingStore binds one collection per booking variant.
func NewFileBookingStore(s *store.Store) *FileBookingStore {
	f := &FileBookingStore{collections: make(map[model.Variant]*store.Collection[model.Booking, *model.Booking])}
	for _, v := range []model.Variant{model.VariantEvent, model.VariantTrip, model.VariantEditor} {
		f.collections[v] = store.NewCollection[model.Booking, *model.Booking](s, v.Collection())
	}
	return f
}

func (f *FileBookingStore) collection(v model.Variant) (*store.Collection[model.Booking, *model.Booking], error) {
	c, ok := f.collections[v]
	if !ok {
		return nil, fmt.Errorf("%w: unknown booking variant %q", ErrValidation, v)
	}
	return c, nil
}

func (f *FileBookingStore) Insert(_ context.Context, variant model.Variant, b model.Booking) error {
	c, err := f.collection(variant)
	if err != nil {
		return err
	}
	return c.Append(b)
}

func (f *FileBookingStore) Get(_ context.Context, variant model.Variant, id string) (model.Booking, error) {
	c, err := f.collection(variant)
	if err != nil {
		return model.Booking{}, err
	}
	matches, err := c.Find(func(b model.Booking) bool { return b.ID == id })
	if err != nil {
		return model.Booking{}, err
	}
	if len(matches) == 0 {
		return model.Booking{}, fmt.Errorf("%w: booking %s/%s", ErrNotFound, variant, id)
	}
	return matches[0], nil
}

func (f *FileBookingStore) List(_ context.Context, variant model.Variant, filter BookingFilter) ([]model.Booking, error) {
	c, err := f.collection(variant)
	if err != nil {
		return nil, err
	}
	matches, err := c.Find(func(b model.Booking) bool {
		if filter.ClientID != "" && b.ClientID != filter.ClientID {
			return false
		}
		if filter.ProviderID != "" && b.ProviderID != filter.ProviderID {
			return false
		}
		if filter.Status != "" && b.Status != filter.Status {
			return false
		}
		return true
	})
	if err != nil {
		return nil, err
	}
	sortByCreatedDesc(matches, func(b model.Booking) int64 { return b.CreatedAt.UnixNano() })
	return matches, nil
}

func (f *FileBookingStore) Update(_ context.Context, variant model.Variant, id string, fn func(*model.Booking) error) (model.Booking, error) {
	c, err := f.collection(variant)
	if err != nil {
		return model.Booking{}, err
	}
	b, err := c.Update(id, fn)
	return b, mapStoreErr(err)
}

// FilePaymentStore persists payments in the `payments` collection.
type FilePaymentStore struct {
	c *store.Collection[model.Payment, *model.Payment]
}

// NewFilePaymentStore binds the payments collection.
func NewFilePaymentStore(s *store.Store) *FilePaymentStore {
	return &FilePaymentStore{c: store.NewCollection[model.Payment, *model.Payment](s, "payments")}
}

func (f *FilePaymentStore) Insert(_ context.Context, p model.Payment) error {
	return f.c.Append(p)
}

func (f *FilePaymentStore) ListByBooking(_ context.Context, bookingID string) ([]model.Payment, error) {
	payments, err := f.c.Find(func(p model.Payment) bool { return p.BookingID == bookingID })
	if err != nil {
		return nil, err
	}
	sortByCreatedDesc(payments, func(p model.Payment) int64 { return p.CreatedAt.UnixNano() })
	return payments, nil
}

func (f *FilePaymentStore) ListByClient(_ context.Context, clientID string) ([]model.Payment, error) {
	payments, err := f.c.Find(func(p model.Payment) bool { return p.ClientID == clientID })
	if err != nil {
		return nil, err
	}
	sortByCreatedDesc(payments, func(p model.Payment) int64 { return p.CreatedAt.UnixNano() })
	return payments, nil
}

// FileReviewStore persists reviews in the `reviews` collection.
type FileReviewStore struct {
	c *store.Collection[model.Review, *model.Review]
}

// NewFileReviewStore binds the reviews collection.
func NewFileReviewStore(s *store.Store) *FileReviewStore {
	return &FileReviewStore{c: store.NewCollection[model.Review, *model.Review](s, "reviews")}
}

// Insert appends the review, enforcing one review per reviewer per
// booking inside the collection's critical section.
func (f *FileReviewStore) Insert(_ context.Context, r model.Review) error {
	return mapStoreErr(f.c.AppendIf(r, func(e model.Review) bool {
		return e.ReviewerID == r.ReviewerID && e.BookingID == r.BookingID
	}))
}

func (f *FileReviewStore) GetByReviewerAndBooking(_ context.Context, reviewerID, bookingID string) (model.Review, error) {
	reviews, err := f.c.Find(func(r model.Review) bool {
		return r.ReviewerID == reviewerID && r.BookingID == bookingID
	})
	if err != nil {
		return model.Review{}, err
	}
	if len(reviews) == 0 {
		return model.Review{}, fmt.Errorf("%w: review by %s for booking %s", ErrNotFound, reviewerID, bookingID)
	}
	return reviews[0], nil
}

func (f *FileReviewStore) ListByProvider(_ context.Context, providerID string) ([]model.Review, error) {
	reviews, err := f.c.Find(func(r model.Review) bool { return r.ProviderID == providerID })
	if err != nil {
		return nil, err
	}
	sortByCreatedDesc(reviews, func(r model.Review) int64 { return r.CreatedAt.UnixNano() })
	return reviews, nil
}

// sortByCreatedDesc orders records newest first. The sort is stable
// so records created in the same nanosecond keep insertion order.
func sortByCreatedDesc[T any](recs []T, created func(T) int64) {
	sort.SliceStable(recs, func(i, j int) bool { return created(recs[i]) > created(recs[j]) })
}
