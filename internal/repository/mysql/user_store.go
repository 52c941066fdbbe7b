package mysql

import (
	"context"
	"database/sql"
	"strings"

	"github.com/lensly/booking-marketplace/internal/model"
	"github.com/lensly/booking-marketplace/internal/repository"
)

// UserStore persists users in the `users` table.
type UserStore struct{ db *sql.DB }

// NewUserStore returns a UserStore bound to the given database.
func NewUserStore(db *sql.DB) *UserStore { return &UserStore{db: db} }

var _ repository.UserStore = (*UserStore)(nil)

const userCols = "id, email, full_name, phone_number, user_type, password_hash, is_verified, profile_image, version, created_at, updated_at"

func scanUser(row *sql.Row) (model.User, error) {
	var u model.User
	var phone, image sql.NullString
	err := row.Scan(&u.ID, &u.Email, &u.FullName, &phone, &u.UserType,
		&u.PasswordHash, &u.IsVerified, &image, &u.Version, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return model.User{}, err
	}
	u.PhoneNumber = phone.String
	u.ProfileImage = image.String
	return u, nil
}

func (s *UserStore) Insert(ctx context.Context, u model.User) error {
	const q = `INSERT INTO users (` + userCols + `) VALUES (?,?,?,?,?,?,?,?,1,?,?)`
	_, err := s.db.ExecContext(ctx, q,
		u.ID, u.Email, u.FullName, u.PhoneNumber, u.UserType,
		u.PasswordHash, u.IsVerified, u.ProfileImage, u.CreatedAt, u.UpdatedAt)
	return mapErr(err, "insert user "+u.Email)
}

func (s *UserStore) GetByID(ctx context.Context, id string) (model.User, error) {
	const q = `SELECT ` + userCols + ` FROM users WHERE id=? LIMIT 1`
	u, err := scanUser(s.db.QueryRowContext(ctx, q, id))
	return u, mapErr(err, "user "+id)
}

func (s *UserStore) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	const q = `SELECT ` + userCols + ` FROM users WHERE email=? LIMIT 1`
	u, err := scanUser(s.db.QueryRowContext(ctx, q, email))
	return u, mapErr(err, "user "+email)
}

// Update re-reads the row inside a transaction, applies fn and writes
// the result back guarded by the version counter.
func (s *UserStore) Update(ctx context.Context, id string, fn func(*model.User) error) (model.User, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return model.User{}, mapErr(err, "begin user update")
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	const sel = `SELECT ` + userCols + ` FROM users WHERE id=? FOR UPDATE`
	var u model.User
	var phone, image sql.NullString
	err = tx.QueryRowContext(ctx, sel, id).Scan(&u.ID, &u.Email, &u.FullName, &phone, &u.UserType,
		&u.PasswordHash, &u.IsVerified, &image, &u.Version, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return model.User{}, mapErr(err, "user "+id)
	}
	u.PhoneNumber = phone.String
	u.ProfileImage = image.String
	prev := u.Version
	if err := fn(&u); err != nil {
		return model.User{}, err
	}
	const upd = `UPDATE users SET full_name=?, phone_number=?, profile_image=?, is_verified=?, version=?, updated_at=?
	             WHERE id=? AND version=?`
	res, err := tx.ExecContext(ctx, upd, u.FullName, u.PhoneNumber, u.ProfileImage, u.IsVerified,
		prev+1, u.UpdatedAt, id, prev)
	if err != nil {
		return model.User{}, mapErr(err, "update user "+id)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.User{}, errStale("user " + id)
	}
	if err := tx.Commit(); err != nil {
		return model.User{}, mapErr(err, "commit user update")
	}
	committed = true
	u.Version = prev + 1
	return u, nil
}
