package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lensly/booking-marketplace/internal/model"
	"github.com/lensly/booking-marketplace/internal/store"
	"github.com/lensly/booking-marketplace/internal/utils"
)

// UserRepo provides validated CRUD for user accounts. Emails are
// unique and stored lower-cased; passwords are bcrypt-hashed before
// persistence and the hash is stripped from every value returned.
type UserRepo struct {
	users UserStore
}

// NewUserRepo returns a UserRepo bound to the given backend.
func NewUserRepo(users UserStore) *UserRepo { return &UserRepo{users: users} }

// NewUser carries the fields accepted at registration.
type NewUser struct {
	Email       string
	Password    string
	FullName    string
	PhoneNumber string
	UserType    string
}

// Create validates and persists a new user. It fails with
// ErrValidation when email, full_name or user_type are missing or the
// user_type is unknown, and with ErrConflict when the email is
// already registered. The returned record never carries the
// credential hash.
func (r *UserRepo) Create(ctx context.Context, in NewUser, bcryptCost int) (model.User, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if in.Email == "" || in.FullName == "" || in.UserType == "" {
		return model.User{}, fmt.Errorf("%w: email, full_name and user_type are required", ErrValidation)
	}
	if !model.ValidUserType(in.UserType) {
		return model.User{}, fmt.Errorf("%w: unknown user_type %q", ErrValidation, in.UserType)
	}
	if in.Password == "" {
		return model.User{}, fmt.Errorf("%w: password is required", ErrValidation)
	}
	if _, err := r.users.GetByEmail(ctx, in.Email); err == nil {
		return model.User{}, fmt.Errorf("%w: email already exists", ErrConflict)
	} else if !errors.Is(err, ErrNotFound) {
		return model.User{}, err
	}
	hash, err := utils.HashPassword(in.Password, bcryptCost)
	if err != nil {
		return model.User{}, err
	}
	now := time.Now().UTC()
	u := model.User{
		ID:           store.GenerateID(),
		Email:        in.Email,
		FullName:     in.FullName,
		PhoneNumber:  in.PhoneNumber,
		UserType:     in.UserType,
		PasswordHash: hash,
		Version:      1,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := r.users.Insert(ctx, u); err != nil {
		return model.User{}, err
	}
	return u.Public(), nil
}

// GetByID returns the user with the credential hash stripped.
func (r *UserRepo) GetByID(ctx context.Context, id string) (model.User, error) {
	u, err := r.users.GetByID(ctx, id)
	if err != nil {
		return model.User{}, err
	}
	return u.Public(), nil
}

// Authenticate verifies the email/password pair and returns the user
// on success. Unknown emails and wrong passwords are both reported as
// ErrNotFound so callers cannot distinguish which part failed.
func (r *UserRepo) Authenticate(ctx context.Context, email, password string) (model.User, error) {
	u, err := r.users.GetByEmail(ctx, email)
	if err != nil {
		return model.User{}, err
	}
	if !utils.VerifyPassword(u.PasswordHash, password) {
		return model.User{}, fmt.Errorf("%w: invalid credentials", ErrNotFound)
	}
	return u.Public(), nil
}

// UserPatch carries the fields a profile update may change. Nil
// fields are left untouched; there is no way to clear a field to its
// zero value by omitting it.
type UserPatch struct {
	FullName     *string
	PhoneNumber  *string
	ProfileImage *string
	IsVerified   *bool
}

// Update merges the non-nil patch fields into the stored user. Email
// and user_type are immutable after registration; accounts are never
// hard-deleted.
func (r *UserRepo) Update(ctx context.Context, id string, patch UserPatch) (model.User, error) {
	if patch.FullName != nil && strings.TrimSpace(*patch.FullName) == "" {
		return model.User{}, fmt.Errorf("%w: full_name cannot be empty", ErrValidation)
	}
	u, err := r.users.Update(ctx, id, func(u *model.User) error {
		if patch.FullName != nil {
			u.FullName = *patch.FullName
		}
		if patch.PhoneNumber != nil {
			u.PhoneNumber = *patch.PhoneNumber
		}
		if patch.ProfileImage != nil {
			u.ProfileImage = *patch.ProfileImage
		}
		if patch.IsVerified != nil {
			u.IsVerified = *patch.IsVerified
		}
		u.UpdatedAt = time.Now().UTC()
		return nil
	})
	if err != nil {
		return model.User{}, err
	}
	return u.Public(), nil
}
