// Package dbtest opens isolated in-memory SQLite databases for repository tests.
package dbtest

import (
	"context"
	"testing"

	"github.com/pdflex/pdflex-backend/pkg/db"
	"github.com/pdflex/pdflex-backend/pkg/db/models"
	"github.com/pdflex/pdflex-backend/pkg/enums"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// New returns a migrated database with the default charity seeded. Each call
// gets its own database.
func New(t testing.TB) *gorm.DB {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{SkipDefaultTransaction: true})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := conn.DB()
	if err != nil {
		t.Fatalf("sql handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.NewFromConn(conn, true).EnsureSQLiteSchema(context.Background()); err != nil {
		t.Fatalf("prepare schema: %v", err)
	}
	return conn
}

// CreateUser inserts a user row with the given plan.
func CreateUser(t testing.TB, conn *gorm.DB, email string, plan enums.Plan) models.User {
	t.Helper()
	user := models.User{Email: email, PasswordHash: "x", Plan: plan}
	if err := conn.Create(&user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}
