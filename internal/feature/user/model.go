package user

import (
	"time"

	"user-portal/internal/domain"
)

// UserModel is the persisted row. Deactivated users stay in the table with
// IsActive=false; nothing is ever hard-deleted.
type UserModel struct {
	ID           string   `gorm:"column:user_id;primaryKey;type:varchar(36)"`
	Name         string   `gorm:"size:64;not null"`
	Surname      string   `gorm:"size:64;not null"`
	Email        string   `gorm:"uniqueIndex;size:255;not null"`
	IsActive     bool     `gorm:"not null;default:true;index"`
	PasswordHash string   `gorm:"column:hashed_password;size:100;not null"`
	Roles        []string `gorm:"serializer:json;type:text;not null"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (UserModel) TableName() string { return "users" }

func FromDomain(u *domain.User) *UserModel {
	return &UserModel{
		ID:           u.ID,
		Name:         u.Name,
		Surname:      u.Surname,
		Email:        u.Email,
		IsActive:     u.IsActive,
		PasswordHash: u.PasswordHash,
		Roles:        u.Roles.Names(),
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

// ToDomain fails only when the stored roles column holds an unknown or empty
// set, which means the row was written outside this service.
func (m *UserModel) ToDomain() (*domain.User, error) {
	roles, err := domain.ParseRoles(m.Roles)
	if err != nil {
		return nil, err
	}
	return &domain.User{
		ID:           m.ID,
		Name:         m.Name,
		Surname:      m.Surname,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		IsActive:     m.IsActive,
		Roles:        roles,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}, nil
}
