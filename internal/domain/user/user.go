package user

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
)

// ErrNotFound is returned when a requested user does not exist.
var ErrNotFound = errors.New("user not found")

// ErrEmailTaken is returned when registering with an email that already
// belongs to an account.
var ErrEmailTaken = errors.New("email address already in use")

// Role is the access level assigned to an account. The string values are
// stable wire/storage constants.
type Role string

const (
	RoleAdmin    Role = "ROLE ADMIN"
	RoleMember   Role = "ROLE MEMBER"
	RoleMerchant Role = "ROLE MERCHANT"
)

// Identity is the verified caller of a request: who they are and what role
// they hold. It is produced by the auth middleware and passed into domain
// services that scope visibility by ownership.
type Identity struct {
	ID   uuid.UUID
	Role Role
}

// IsAdmin reports whether the identity holds the administrator role.
func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}

// User is a registered account.
type User struct {
	ID           uuid.UUID
	Email        string
	PhoneNumber  string
	FirstName    string
	LastName     string
	PasswordHash string
	Provider     string
	Role         Role
	Created      time.Time
}

// Repository defines persistence operations for user accounts.
type Repository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Update(ctx context.Context, u *User) error
}
