package domain

import (
	"strconv"
	"time"
)

// UserID is a value object for user identity.
type UserID int64

// NewUserID creates a UserID from a raw database identifier.
func NewUserID(id int64) UserID { return UserID(id) }

// Int64 returns the raw identifier.
func (u UserID) Int64() int64 { return int64(u) }

// String returns the canonical string form.
func (u UserID) String() string { return strconv.FormatInt(int64(u), 10) }

// User is an account that can authenticate and exchange messages.
// PasswordHash is the stored credential; it never leaves the backend.
type User struct {
	ID               UserID
	Username         string
	PasswordHash     string
	FullName         string
	ProfilePicture   string
	RegistrationDate time.Time
}
