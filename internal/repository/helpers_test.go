package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/lensly/booking-marketplace/internal/model"
	"github.com/lensly/booking-marketplace/internal/store"
)

// testEnv wires every repository against a file store rooted in a
// temporary directory, mirroring how main assembles the file backend.
type testEnv struct {
	Users    *UserRepo
	Profiles *ProfileRepo
	Bookings *BookingRepo
	Payments *PaymentRepo
	Reviews  *ReviewRepo
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	s, err := store.Open(t.TempDir())
	require.NoError(t, err)

	users := NewFileUserStore(s)
	profiles := NewFileProfileStore(s)
	bookings := NewFileBookingStore(s)
	payments := NewFilePaymentStore(s)
	reviews := NewFileReviewStore(s)

	profileRepo := NewProfileRepo(profiles, users)
	return &testEnv{
		Users:    NewUserRepo(users),
		Profiles: profileRepo,
		Bookings: NewBookingRepo(bookings, users),
		Payments: NewPaymentRepo(payments, bookings),
		Reviews:  NewReviewRepo(reviews, bookings, profileRepo),
	}
}

// newUser registers a user with the cheapest bcrypt cost.
func (e *testEnv) newUser(t *testing.T, email, userType string) model.User {
	t.Helper()
	u, err := e.Users.Create(context.Background(), NewUser{
		Email:    email,
		Password: "hunter22",
		FullName: "Test " + userType,
		UserType: userType,
	}, bcrypt.MinCost)
	require.NoError(t, err)
	return u
}

// newEventBooking opens a valid event booking from client to provider.
func (e *testEnv) newEventBooking(t *testing.T, clientID, providerID string) model.Booking {
	t.Helper()
	b, err := e.Bookings.Create(context.Background(), model.VariantEvent, NewBooking{
		ClientID:    clientID,
		ProviderID:  providerID,
		EventType:   "wedding",
		ServiceType: "photography",
		EventDate:   "2025-07-19",
		EventTime:   "16:00",
		Location:    "Jaipur",
	})
	require.NoError(t, err)
	return b
}

func strp(s string) *string   { return &s }
func f64p(f float64) *float64 { return &f }
