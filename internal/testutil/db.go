// Package testutil holds fixtures shared by package tests.
package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"user-portal/internal/core/database"
	"user-portal/internal/domain"
	"user-portal/internal/feature/user"
	"user-portal/pkg/utils"
)

var seq atomic.Int64

// NewDB opens a private in-memory sqlite database with the users table. A
// single connection keeps concurrent writers serialized like row locks would.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()
	utils.HashCost = bcrypt.MinCost

	dsn := fmt.Sprintf("file:users_%d?mode=memory&cache=shared", seq.Add(1))
	db, err := database.NewGorm(database.Opts{
		Driver:       "sqlite",
		DSN:          dsn,
		MaxOpenConns: 1,
		LogLevel:     "silent",
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&user.UserModel{}))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

// SeedUser inserts an active user whose password is "password".
func SeedUser(t *testing.T, db *gorm.DB, email string, roles ...domain.Role) *domain.User {
	t.Helper()
	if len(roles) == 0 {
		roles = []domain.Role{domain.RoleUser}
	}
	hash, err := utils.HashPassword("password")
	require.NoError(t, err)

	u := &domain.User{
		ID:           utils.NewID(),
		Name:         "Test",
		Surname:      "User",
		Email:        email,
		PasswordHash: hash,
		IsActive:     true,
		Roles:        domain.NewRoleSet(roles...),
	}
	require.NoError(t, db.Create(user.FromDomain(u)).Error)
	return u
}
