package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/lensly/booking-marketplace/internal/model"
)

func TestUserCreate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	t.Run("defaults", func(t *testing.T) {
		u, err := env.Users.Create(ctx, NewUser{
			Email:    "  Asha@Example.COM ",
			Password: "hunter22",
			FullName: "Asha Verma",
			UserType: model.UserTypeClient,
		}, bcrypt.MinCost)
		require.NoError(t, err)
		assert.NotEmpty(t, u.ID)
		assert.Equal(t, "asha@example.com", u.Email, "email is normalized")
		assert.Equal(t, model.UserTypeClient, u.UserType)
		assert.Empty(t, u.PasswordHash, "returned user is sanitized")
		assert.False(t, u.IsVerified)
		assert.False(t, u.CreatedAt.IsZero())
	})

	t.Run("missing fields", func(t *testing.T) {
		_, err := env.Users.Create(ctx, NewUser{Email: "x@example.com", Password: "pw"}, bcrypt.MinCost)
		require.ErrorIs(t, err, ErrValidation)
	})

	t.Run("unknown user_type", func(t *testing.T) {
		_, err := env.Users.Create(ctx, NewUser{
			Email: "y@example.com", Password: "pw", FullName: "Y", UserType: "producer",
		}, bcrypt.MinCost)
		require.ErrorIs(t, err, ErrValidation)
	})

	t.Run("duplicate email", func(t *testing.T) {
		_, err := env.Users.Create(ctx, NewUser{
			Email: "ASHA@example.com", Password: "pw", FullName: "Other", UserType: model.UserTypeClient,
		}, bcrypt.MinCost)
		require.ErrorIs(t, err, ErrConflict)
	})
}

func TestUserAuthenticate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.newUser(t, "ravi@example.com", model.UserTypeCameraman)

	u, err := env.Users.Authenticate(ctx, "ravi@example.com", "hunter22")
	require.NoError(t, err)
	assert.Equal(t, "ravi@example.com", u.Email)
	assert.Empty(t, u.PasswordHash)

	_, err = env.Users.Authenticate(ctx, "ravi@example.com", "wrong")
	require.ErrorIs(t, err, ErrNotFound)

	_, err = env.Users.Authenticate(ctx, "nobody@example.com", "hunter22")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestUserUpdate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	u := env.newUser(t, "meera@example.com", model.UserTypeClient)

	got, err := env.Users.Update(ctx, u.ID, UserPatch{
		FullName:    strp("Meera K"),
		PhoneNumber: strp("+91-98111"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Meera K", got.FullName)
	assert.Equal(t, "+91-98111", got.PhoneNumber)
	assert.Equal(t, "meera@example.com", got.Email, "email is immutable")
	assert.Greater(t, got.Version, u.Version)

	_, err = env.Users.Update(ctx, u.ID, UserPatch{FullName: strp("  ")})
	require.ErrorIs(t, err, ErrValidation)

	_, err = env.Users.Update(ctx, "missing", UserPatch{FullName: strp("X")})
	require.ErrorIs(t, err, ErrNotFound)
}
