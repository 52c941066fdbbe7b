package model

import "time"

// User types. A client books services; cameramen and editors provide
// them. The constants match the user_type values persisted in the
// users collection/table.
const (
	UserTypeClient    = "client"
	UserTypeCameraman = "cameraman"
	UserTypeEditor    = "editor"
)

// User represents an account record as stored in the `users`
// collection (file mode) or table (database mode). The JSON tags are
// the stable on-disk field names; handlers that echo users back to
// clients must strip the password hash first (see Public).
//
// Fields:
//  ID           – generated identifier.
//  Email        – unique, lower-cased email address.
//  FullName     – display name.
//  PhoneNumber  – optional contact number.
//  UserType     – one of client, cameraman, editor.
//  PasswordHash – bcrypt hash of the password. Never echoed back.
//  IsVerified   – whether the account passed verification.
//  ProfileImage – reference to an uploaded profile image.
//  Version      – optimistic-concurrency counter, bumped on every save.
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	FullName     string    `json:"full_name"`
	PhoneNumber  string    `json:"phone_number,omitempty"`
	UserType     string    `json:"user_type"`
	PasswordHash string    `json:"password_hash,omitempty"`
	IsVerified   bool      `json:"is_verified"`
	ProfileImage string    `json:"profile_image,omitempty"`
	Version      int64     `json:"version"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// RecordID implements store.Record.
func (u User) RecordID() string { return u.ID }

// RecordVersion implements store.Record.
func (u User) RecordVersion() int64 { return u.Version }

// SetRecordVersion implements store.Record.
func (u *User) SetRecordVersion(v int64) { u.Version = v }

// Public returns a copy of the user safe to serialize in API
// responses: the credential hash is cleared.
func (u User) Public() User {
	u.PasswordHash = ""
	return u
}

// IsProvider reports whether the user type is one of the two
// service-provider roles.
func IsProvider(userType string) bool {
	return userType == UserTypeCameraman || userType == UserTypeEditor
}

// ValidUserType reports whether t is a known user_type value.
func ValidUserType(t string) bool {
	return t == UserTypeClient || IsProvider(t)
}
