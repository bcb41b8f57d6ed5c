// Package dbtest opens throwaway SQLite databases for package tests.
package dbtest

import (
	"path/filepath"
	"testing"

	"github.com/zulandar/bookmarky/internal/config"
	"github.com/zulandar/bookmarky/internal/db"
	"github.com/zulandar/bookmarky/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Open returns a migrated, seeded database backed by a file in t.TempDir().
// The pool is closed when the test finishes.
func Open(t testing.TB) *gorm.DB {
	t.Helper()
	gdb, err := db.Connect(config.DatabaseConfig{
		Driver: config.DriverSQLite,
		Path:   filepath.Join(t.TempDir(), "test.db"),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close(gdb) })
	if err := db.Init(gdb); err != nil {
		t.Fatalf("init test db: %v", err)
	}
	return gdb
}

// User inserts a user with the given login and role and returns it. The
// password is the login itself.
func User(t testing.TB, gdb *gorm.DB, login, role string) models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(login), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	u := models.User{
		Login:        login,
		PasswordHash: string(hash),
		DisplayName:  login,
		Email:        login + "@example.com",
		Role:         role,
	}
	if err := gdb.Create(&u).Error; err != nil {
		t.Fatalf("create user %s: %v", login, err)
	}
	return u
}

// Unassigned returns the id of the seeded unassigned account.
func Unassigned(t testing.TB, gdb *gorm.DB) uint {
	t.Helper()
	id, err := db.UnassignedID(gdb)
	if err != nil {
		t.Fatal(err)
	}
	return id
}
