package models

import "time"

// Roles a user may hold. Only developers show up in assignee pickers.
const (
	RoleDeveloper = "Developer"
	RoleTester    = "Tester"
	RoleManager   = "Manager"
)

// UnassignedLogin is the login of the reserved account that owns every bug
// nobody has picked up yet. The row is seeded by db.EnsureUnassigned.
const UnassignedLogin = "unassigned"

// User is an account that can log in, file bugs and own bookmarks.
type User struct {
	ID           uint   `gorm:"primaryKey;autoIncrement"`
	Login        string `gorm:"size:64;not null;uniqueIndex"`
	PasswordHash string `gorm:"size:255;not null"`
	DisplayName  string `gorm:"size:128;index"`
	Email        string `gorm:"size:255"`
	Role         string `gorm:"size:32;default:Developer;index"`
	CreatedAt    time.Time
}

// Session binds an opaque browser token to a user until it expires.
type Session struct {
	Token     string    `gorm:"primaryKey;size:64"`
	UserID    uint      `gorm:"not null;index"`
	ExpiresAt time.Time `gorm:"not null;index"`
	CreatedAt time.Time

	User User `gorm:"foreignKey:UserID"`
}
