// Package testutil holds helpers shared by package tests.
package testutil

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"solar-store/config"
	"solar-store/models"
)

// NewDB returns a migrated in-memory SQLite database private to the test. The pool
// is pinned to one connection so every query sees the same memory database.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := config.OpenDB(config.DBConfig{URL: ":memory:", LogLevel: "silent"})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, config.Migrate(db))
	return db
}

// CreateProduct inserts a product priced in whole dinars.
func CreateProduct(t *testing.T, db *gorm.DB, name string, price int64) *models.Product {
	t.Helper()
	p := &models.Product{
		Name:     name,
		Category: models.CategorySolar,
		Price:    decimal.NewFromInt(price),
		Stock:    10,
	}
	require.NoError(t, db.Create(p).Error)
	return p
}

// CreateUser inserts a user with the given username and role and no credentials.
func CreateUser(t *testing.T, db *gorm.DB, username string, role models.UserRole) *models.User {
	t.Helper()
	u := &models.User{Username: &username, Role: role}
	require.NoError(t, db.Create(u).Error)
	return u
}
