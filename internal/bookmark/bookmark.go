// Package bookmark stores per-user saved links.
package bookmark

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/zulandar/bookmarky/internal/models"
	"github.com/zulandar/bookmarky/internal/tags"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrInvalidInput = errors.New("bookmark: invalid input")

// Entry is a bookmark as listed on the home page. Title falls back to the URL.
type Entry struct {
	ID        uint
	URL       string
	Title     string
	Notes     string
	CreatedAt time.Time
	Tags      []string `gorm:"-"`
}

// Form carries a submitted bookmark. Tags is comma-separated.
type Form struct {
	URL   string
	Title string
	Notes string
	Tags  string
}

// ForUser returns uid's bookmarks newest first.
func ForUser(ctx context.Context, db *gorm.DB, uid uint) ([]Entry, error) {
	tx := db.WithContext(ctx)

	var pairs []models.BookmarkTag
	err := tx.Model(&models.BookmarkTag{}).
		Select("bookmark_tags.bookmark_id, bookmark_tags.tag").
		Joins("JOIN bookmarks ON bookmarks.id = bookmark_tags.bookmark_id").
		Where("bookmarks.owner_id = ?", uid).
		Order("bookmark_tags.bookmark_id, bookmark_tags.tag").
		Find(&pairs).Error
	if err != nil {
		return nil, fmt.Errorf("bookmark: tags for user %d: %w", uid, err)
	}
	tagMap := make(map[uint][]string)
	for _, p := range pairs {
		tagMap[p.BookmarkID] = append(tagMap[p.BookmarkID], p.Tag)
	}

	var entries []Entry
	err = tx.Model(&models.Bookmark{}).
		Select("id, url, COALESCE(title, url) AS title, notes, created_at").
		Where("owner_id = ?", uid).
		Order("created_at DESC, id DESC").
		Scan(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("bookmark: list for user %d: %w", uid, err)
	}
	for i := range entries {
		entries[i].Tags = tagMap[entries[i].ID]
	}
	return entries, nil
}

// Create saves a bookmark for uid and returns its id. The URL must be
// absolute; a blank title is stored as NULL so listings show the URL.
func Create(ctx context.Context, db *gorm.DB, uid uint, f Form) (uint, error) {
	raw := strings.TrimSpace(f.URL)
	u, err := url.Parse(raw)
	if raw == "" || err != nil || u.Scheme == "" || u.Host == "" {
		return 0, fmt.Errorf("%w: %q is not an absolute URL", ErrInvalidInput, raw)
	}

	b := models.Bookmark{
		OwnerID: uid,
		URL:     raw,
		Notes:   strings.TrimSpace(f.Notes),
	}
	if title := strings.TrimSpace(f.Title); title != "" {
		b.Title = &title
	}

	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(&b).Error; err != nil {
			return err
		}
		for _, tag := range tags.Parse(f.Tags) {
			if err := tx.Create(&models.BookmarkTag{BookmarkID: b.ID, Tag: tag}).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("bookmark: create for user %d: %w", uid, err)
	}
	return b.ID, nil
}
