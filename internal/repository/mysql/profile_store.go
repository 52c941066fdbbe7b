package mysql

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/lensly/booking-marketplace/internal/model"
	"github.com/lensly/booking-marketplace/internal/repository"
)

// ProfileStore persists role profiles in the `profiles` table. The
// specialties and portfolio lists are stored as JSON text columns.
type ProfileStore struct{ db *sql.DB }

// NewProfileStore returns a ProfileStore bound to the given database.
func NewProfileStore(db *sql.DB) *ProfileStore { return &ProfileStore{db: db} }

var _ repository.ProfileStore = (*ProfileStore)(nil)

const profileCols = "id, user_id, profile_type, hourly_rate, specialties, availability, rating, total_reviews, portfolio, version, created_at, updated_at"

func encodeList(list []string) (string, error) {
	if list == nil {
		list = []string{}
	}
	b, err := json.Marshal(list)
	return string(b), err
}

func decodeList(raw sql.NullString) []string {
	if !raw.Valid || raw.String == "" {
		return nil
	}
	var list []string
	if err := json.Unmarshal([]byte(raw.String), &list); err != nil {
		return nil
	}
	if len(list) == 0 {
		return nil
	}
	return list
}

func scanProfile(scan func(dest ...any) error) (model.RoleProfile, error) {
	var p model.RoleProfile
	var specialties, portfolio, availability sql.NullString
	err := scan(&p.ID, &p.UserID, &p.ProfileType, &p.HourlyRate, &specialties,
		&availability, &p.Rating, &p.TotalReviews, &portfolio, &p.Version, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return model.RoleProfile{}, err
	}
	p.Specialties = decodeList(specialties)
	p.Portfolio = decodeList(portfolio)
	p.Availability = availability.String
	return p, nil
}

func (s *ProfileStore) Insert(ctx context.Context, p model.RoleProfile) error {
	specialties, err := encodeList(p.Specialties)
	if err != nil {
		return err
	}
	portfolio, err := encodeList(p.Portfolio)
	if err != nil {
		return err
	}
	const q = `INSERT INTO profiles (` + profileCols + `) VALUES (?,?,?,?,?,?,?,?,?,1,?,?)`
	_, err = s.db.ExecContext(ctx, q,
		p.ID, p.UserID, p.ProfileType, p.HourlyRate, specialties,
		p.Availability, p.Rating, p.TotalReviews, portfolio, p.CreatedAt, p.UpdatedAt)
	return mapErr(err, "insert profile for user "+p.UserID)
}

func (s *ProfileStore) GetByUserID(ctx context.Context, userID string) (model.RoleProfile, error) {
	const q = `SELECT ` + profileCols + ` FROM profiles WHERE user_id=? LIMIT 1`
	p, err := scanProfile(s.db.QueryRowContext(ctx, q, userID).Scan)
	return p, mapErr(err, "profile for user "+userID)
}

func (s *ProfileStore) ListByType(ctx context.Context, profileType string) ([]model.RoleProfile, error) {
	const q = `SELECT ` + profileCols + ` FROM profiles WHERE profile_type=? ORDER BY created_at DESC`
	rows, err := s.db.QueryContext(ctx, q, profileType)
	if err != nil {
		return nil, mapErr(err, "list profiles")
	}
	defer rows.Close()
	profiles := make([]model.RoleProfile, 0)
	for rows.Next() {
		p, err := scanProfile(rows.Scan)
		if err != nil {
			return nil, mapErr(err, "scan profile")
		}
		profiles = append(profiles, p)
	}
	if err := rows.Err(); err != nil {
		return nil, mapErr(err, "list profiles")
	}
	return profiles, nil
}

// Update re-reads the profile row inside a transaction, applies fn
// and writes the result back guarded by the version counter.
func (s *ProfileStore) Update(ctx context.Context, userID string, fn func(*model.RoleProfile) error) (model.RoleProfile, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return model.RoleProfile{}, mapErr(err, "begin profile update")
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	const sel = `SELECT ` + profileCols + ` FROM profiles WHERE user_id=? FOR UPDATE`
	p, err := scanProfile(tx.QueryRowContext(ctx, sel, userID).Scan)
	if err != nil {
		return model.RoleProfile{}, mapErr(err, "profile for user "+userID)
	}
	prev := p.Version
	if err := fn(&p); err != nil {
		return model.RoleProfile{}, err
	}
	specialties, err := encodeList(p.Specialties)
	if err != nil {
		return model.RoleProfile{}, err
	}
	portfolio, err := encodeList(p.Portfolio)
	if err != nil {
		return model.RoleProfile{}, err
	}
	const upd = `UPDATE profiles SET hourly_rate=?, specialties=?, availability=?, rating=?, total_reviews=?, portfolio=?, version=?, updated_at=?
	             WHERE user_id=? AND version=?`
	res, err := tx.ExecContext(ctx, upd, p.HourlyRate, specialties, p.Availability, p.Rating,
		p.TotalReviews, portfolio, prev+1, p.UpdatedAt, userID, prev)
	if err != nil {
		return model.RoleProfile{}, mapErr(err, "update profile for user "+userID)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.RoleProfile{}, errStale("profile for user " + userID)
	}
	if err := tx.Commit(); err != nil {
		return model.RoleProfile{}, mapErr(err, "commit profile update")
	}
	committed = true
	p.Version = prev + 1
	return p, nil
}
