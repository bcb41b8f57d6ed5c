// Package user reads and edits account profiles.
package user

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"strings"
	"time"

	"github.com/zulandar/bookmarky/internal/models"
	"github.com/zulandar/bookmarky/internal/txn"
	"gorm.io/gorm"
)

var (
	ErrNotFound   = errors.New("user: not found")
	ErrLoginTaken = errors.New("user: login already taken")
)

// Profile is the public part of an account. The password hash never leaves
// the auth package.
type Profile struct {
	ID          uint
	Login       string
	DisplayName string
	Email       string
	Role        string
	CreatedAt   time.Time
}

// ProfileForm carries submitted profile fields. Blank fields are left alone.
type ProfileForm struct {
	Login       string
	DisplayName string
	Email       string
	Role        string
}

// Info returns uid's profile or ErrNotFound.
func Info(ctx context.Context, db *gorm.DB, uid uint) (*Profile, error) {
	var rows []Profile
	err := db.WithContext(ctx).Model(&models.User{}).
		Select("id, login, display_name, email, role, created_at").
		Where("id = ?", uid).
		Limit(1).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("user: info %d: %w", uid, err)
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	return &rows[0], nil
}

// Update applies the non-blank fields of f to uid's profile under the retry
// policy. A login already used by another account yields ErrLoginTaken.
func Update(ctx context.Context, db *gorm.DB, p txn.Policy, uid uint, f ProfileForm) error {
	login := strings.TrimSpace(f.Login)
	base := map[string]interface{}{}
	if login != "" {
		base["login"] = login
	}
	if v := strings.TrimSpace(f.DisplayName); v != "" {
		base["display_name"] = v
	}
	if v := strings.TrimSpace(f.Email); v != "" {
		base["email"] = v
	}
	if v := strings.TrimSpace(f.Role); v != "" {
		base["role"] = v
	}

	err := txn.Run(ctx, db, p.WithOp("user.update"), func(tx *gorm.DB) error {
		var u models.User
		if err := tx.Select("id", "login").First(&u, uid).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return txn.Stop(ErrNotFound)
			}
			return err
		}
		updates := maps.Clone(base)
		if login != "" && login != u.Login {
			if login == models.UnassignedLogin {
				return txn.Stop(ErrLoginTaken)
			}
			var taken int64
			if err := tx.Model(&models.User{}).Where("login = ? AND id <> ?", login, uid).Count(&taken).Error; err != nil {
				return err
			}
			if taken > 0 {
				return txn.Stop(ErrLoginTaken)
			}
		}
		if len(updates) == 0 {
			return nil
		}
		return tx.Model(&models.User{}).Where("id = ?", uid).Updates(updates).Error
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) || errors.Is(err, ErrLoginTaken) || errors.Is(err, txn.ErrExhausted) {
			return err
		}
		return fmt.Errorf("user: update %d: %w", uid, err)
	}
	return nil
}
