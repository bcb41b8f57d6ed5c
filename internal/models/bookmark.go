package models

import "time"

// Bookmark is a saved link owned by a single user.
type Bookmark struct {
	ID        uint    `gorm:"primaryKey;autoIncrement"`
	OwnerID   uint    `gorm:"not null;index"`
	URL       string  `gorm:"size:2048;not null"`
	Title     *string `gorm:"size:256"`
	Notes     string  `gorm:"type:text"`
	CreatedAt time.Time

	Owner User          `gorm:"foreignKey:OwnerID"`
	Tags  []BookmarkTag `gorm:"foreignKey:BookmarkID"`
}

// BookmarkTag attaches a normalized tag to a bookmark.
type BookmarkTag struct {
	BookmarkID uint   `gorm:"primaryKey"`
	Tag        string `gorm:"primaryKey;size:64"`
}
