package user

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// User is the owner of bank accounts, categories and transactions.
type User struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	CreatedAt time.Time `json:"created"`
	UpdatedAt time.Time `json:"updated"`
}

// New creates a User with the given id and username.
func New(id uuid.UUID, username string) *User {
	now := time.Now().UTC()
	return &User{
		ID:        id,
		Username:  username,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// FullName returns "<first> <last>" as written on bank statements.
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// IsProfileComplete reports whether both first and last name are set.
func (u *User) IsProfileComplete() bool {
	return strings.TrimSpace(u.FirstName) != "" && strings.TrimSpace(u.LastName) != ""
}
