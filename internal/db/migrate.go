package db

import (
	"errors"
	"fmt"

	"github.com/zulandar/bookmarky/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AllModels returns every GORM model in dependency order for migration.
func AllModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Session{},
		&models.Milestone{},
		&models.Bug{},
		&models.BugTag{},
		&models.Comment{},
		&models.HoursWorked{},
		&models.Subscription{},
		&models.Bookmark{},
		&models.BookmarkTag{},
	}
}

// AutoMigrate creates or updates all tables.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(AllModels()...); err != nil {
		return fmt.Errorf("db: auto-migrate: %w", err)
	}
	return nil
}

// unusableHash can never match a bcrypt comparison.
const unusableHash = "!"

// EnsureUnassigned seeds the reserved unassigned account and returns its id.
// Calling it again leaves the existing row untouched.
func EnsureUnassigned(db *gorm.DB) (uint, error) {
	u := models.User{
		Login:        models.UnassignedLogin,
		PasswordHash: unusableHash,
		DisplayName:  models.UnassignedLogin,
		Role:         models.RoleDeveloper,
	}
	result := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "login"}},
		DoNothing: true,
	}).Create(&u)
	if result.Error != nil {
		return 0, fmt.Errorf("db: seed unassigned user: %w", result.Error)
	}
	return UnassignedID(db)
}

// UnassignedID looks up the reserved unassigned account by login.
func UnassignedID(db *gorm.DB) (uint, error) {
	var ids []uint
	err := db.Model(&models.User{}).
		Where("login = ?", models.UnassignedLogin).
		Pluck("id", &ids).Error
	if err != nil {
		return 0, fmt.Errorf("db: find unassigned user: %w", err)
	}
	if len(ids) == 0 {
		return 0, errors.New("db: unassigned user not seeded (run `bk db init`)")
	}
	return ids[0], nil
}

// Init migrates the schema and seeds the reserved rows.
func Init(db *gorm.DB) error {
	if err := AutoMigrate(db); err != nil {
		return err
	}
	_, err := EnsureUnassigned(db)
	return err
}

// Reset drops every table and recreates an empty, seeded schema.
func Reset(db *gorm.DB) error {
	all := AllModels()
	// Drop dependents first.
	for i := len(all) - 1; i >= 0; i-- {
		if err := db.Migrator().DropTable(all[i]); err != nil {
			return fmt.Errorf("db: drop %T: %w", all[i], err)
		}
	}
	return Init(db)
}
