package domain

import (
	"context"
	"time"
)

type User struct {
	ID           string    `json:"user_id"`
	Name         string    `json:"name"`
	Surname      string    `json:"surname"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	IsActive     bool      `json:"is_active"`
	Roles        RoleSet   `json:"roles"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Identity is the subset of a user the policy decides on.
type Identity struct {
	ID    string
	Email string
	Roles RoleSet
}

func (u *User) Identity() Identity {
	return Identity{ID: u.ID, Email: u.Email, Roles: u.Roles}
}

// PartialUser is an update payload; nil means "leave untouched".
type PartialUser struct {
	Name    *string `json:"name"`
	Surname *string `json:"surname"`
	Email   *string `json:"email"`
}

func (p PartialUser) IsEmpty() bool {
	return p.Name == nil && p.Surname == nil && p.Email == nil
}

// Registration is the input of account creation.
type Registration struct {
	Name     string `json:"name"`
	Surname  string `json:"surname"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserFields is a validated patch keyed by column name.
type UserFields map[string]any

type ListQuery struct {
	Offset       int
	Limit        int
	Search       string
	WithInactive bool
}

// UserRepository is the identity store. Mutations only ever touch active rows
// and are atomic per row.
type UserRepository interface {
	Create(ctx context.Context, u *User) error
	FindActiveByID(ctx context.Context, id string) (*User, error)
	FindActiveByEmail(ctx context.Context, email string) (*User, error)
	ApplyPartialUpdate(ctx context.Context, id string, fields UserFields) (string, error)
	SoftDelete(ctx context.Context, id string) (string, error)
	SetRoles(ctx context.Context, id string, roles RoleSet) (string, error)
	List(ctx context.Context, q ListQuery) ([]User, int64, error)
}
