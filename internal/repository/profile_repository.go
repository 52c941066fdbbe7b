package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lensly/booking-marketplace/internal/model"
	"github.com/lensly/booking-marketplace/internal/store"
)

// ProfileRepo provides validated CRUD for provider role profiles.
// A profile is one-to-one with a provider user; the rating aggregate
// fields are written exclusively through ApplyReviewAggregate.
type ProfileRepo struct {
	profiles ProfileStore
	users    UserStore
}

// NewProfileRepo returns a ProfileRepo bound to the given backends.
func NewProfileRepo(profiles ProfileStore, users UserStore) *ProfileRepo {
	return &ProfileRepo{profiles: profiles, users: users}
}

// NewProfile carries the provider fields accepted at registration.
type NewProfile struct {
	HourlyRate   float64
	Specialties  []string
	Availability string
	Portfolio    []string
}

// Create persists a role profile for the given user. It fails with
// ErrNotFound when the user does not exist or is not a provider
// account, and with ErrConflict when a profile already exists for the
// user. The profile type mirrors the user's type.
func (r *ProfileRepo) Create(ctx context.Context, userID string, in NewProfile) (model.RoleProfile, error) {
	u, err := r.users.GetByID(ctx, userID)
	if err != nil {
		return model.RoleProfile{}, err
	}
	if !model.IsProvider(u.UserType) {
		return model.RoleProfile{}, fmt.Errorf("%w: user %s is not a provider account", ErrNotFound, userID)
	}
	if _, err := r.profiles.GetByUserID(ctx, userID); err == nil {
		return model.RoleProfile{}, fmt.Errorf("%w: profile already exists for user %s", ErrConflict, userID)
	} else if !errors.Is(err, ErrNotFound) {
		return model.RoleProfile{}, err
	}
	now := time.Now().UTC()
	p := model.RoleProfile{
		ID:           store.GenerateID(),
		UserID:       userID,
		ProfileType:  u.UserType,
		HourlyRate:   in.HourlyRate,
		Specialties:  in.Specialties,
		Availability: in.Availability,
		Portfolio:    in.Portfolio,
		Version:      1,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := r.profiles.Insert(ctx, p); err != nil {
		return model.RoleProfile{}, err
	}
	return p, nil
}

// GetByUserID returns the profile owned by the given user.
func (r *ProfileRepo) GetByUserID(ctx context.Context, userID string) (model.RoleProfile, error) {
	return r.profiles.GetByUserID(ctx, userID)
}

// ListByType returns all profiles of the given provider type, newest
// first.
func (r *ProfileRepo) ListByType(ctx context.Context, profileType string) ([]model.RoleProfile, error) {
	if profileType != model.UserTypeCameraman && profileType != model.UserTypeEditor {
		return nil, fmt.Errorf("%w: unknown provider type %q", ErrValidation, profileType)
	}
	return r.profiles.ListByType(ctx, profileType)
}

// ProfilePatch carries the fields a provider may change on their own
// profile. The rating aggregate is deliberately absent: it is owned
// by the review flow.
type ProfilePatch struct {
	HourlyRate   *float64
	Specialties  []string
	Availability *string
	Portfolio    []string
}

// Update merges the non-nil patch fields into the stored profile.
func (r *ProfileRepo) Update(ctx context.Context, userID string, patch ProfilePatch) (model.RoleProfile, error) {
	if patch.HourlyRate != nil && *patch.HourlyRate < 0 {
		return model.RoleProfile{}, fmt.Errorf("%w: hourly_rate cannot be negative", ErrValidation)
	}
	return r.profiles.Update(ctx, userID, func(p *model.RoleProfile) error {
		if patch.HourlyRate != nil {
			p.HourlyRate = *patch.HourlyRate
		}
		if patch.Specialties != nil {
			p.Specialties = patch.Specialties
		}
		if patch.Availability != nil {
			p.Availability = *patch.Availability
		}
		if patch.Portfolio != nil {
			p.Portfolio = patch.Portfolio
		}
		p.UpdatedAt = time.Now().UTC()
		return nil
	})
}

// ApplyReviewAggregate overwrites the rating mean and review count on
// the provider's profile. Only the review creation flow calls this.
func (r *ProfileRepo) ApplyReviewAggregate(ctx context.Context, userID string, rating float64, totalReviews int) (model.RoleProfile, error) {
	return r.profiles.Update(ctx, userID, func(p *model.RoleProfile) error {
		p.Rating = rating
		p.TotalReviews = totalReviews
		p.UpdatedAt = time.Now().UTC()
		return nil
	})
}
