// Package fixtures holds helpers shared by tests across packages.
package fixtures

import (
	"context"
	"fmt"
	"testing"

	"github.com/amirasaad/txnimport/infra"
	infra_repository "github.com/amirasaad/txnimport/infra/repository"
	"github.com/amirasaad/txnimport/pkg/config"
	"github.com/amirasaad/txnimport/pkg/domain/user"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// NewTestDB opens a private in-memory sqlite database with every table migrated.
func NewTestDB(t testing.TB) *gorm.DB {
	t.Helper()
	url := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := infra.NewDBConnection(&config.DB{Url: url}, "test")
	require.NoError(t, err)
	require.NoError(t, infra.Migrate(db))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// The shared-cache database lives as long as one connection stays open.
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(0)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

// NewTestUoW returns a unit of work over a fresh test database.
func NewTestUoW(t testing.TB) (*infra_repository.UoW, *gorm.DB) {
	t.Helper()
	db := NewTestDB(t)
	return infra_repository.NewUoW(db), db
}

// CreateUser persists a user with the given names.
func CreateUser(t testing.TB, db *gorm.DB, first, last string) *user.User {
	t.Helper()
	u := user.New(uuid.New(), "user-"+uuid.NewString()[:8])
	u.FirstName = first
	u.LastName = last
	require.NoError(t, infra_repository.NewUserRepository(db).Create(context.Background(), u))
	return u
}
