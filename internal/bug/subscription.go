package bug

import (
	"context"
	"errors"
	"fmt"

	"github.com/zulandar/bookmarky/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Subscribe adds bugID to uid's news feed. Subscribing twice is a no-op.
func Subscribe(ctx context.Context, db *gorm.DB, uid, bugID uint) error {
	tx := db.WithContext(ctx)
	if err := requireBug(tx, bugID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return err
		}
		return fmt.Errorf("bug: subscribe to %d: %w", bugID, err)
	}
	err := tx.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.Subscription{UserID: uid, BugID: bugID}).Error
	if err != nil {
		return fmt.Errorf("bug: subscribe to %d: %w", bugID, err)
	}
	return nil
}

// Unsubscribe removes bugID from uid's news feed.
func Unsubscribe(ctx context.Context, db *gorm.DB, uid, bugID uint) error {
	err := db.WithContext(ctx).
		Where("user_id = ? AND bug_id = ?", uid, bugID).
		Delete(&models.Subscription{}).Error
	if err != nil {
		return fmt.Errorf("bug: unsubscribe from %d: %w", bugID, err)
	}
	return nil
}

// Subscribed reports whether uid follows bugID.
func Subscribed(ctx context.Context, db *gorm.DB, uid, bugID uint) (bool, error) {
	var n int64
	err := db.WithContext(ctx).Model(&models.Subscription{}).
		Where("user_id = ? AND bug_id = ?", uid, bugID).
		Count(&n).Error
	if err != nil {
		return false, fmt.Errorf("bug: subscription %d/%d: %w", uid, bugID, err)
	}
	return n > 0, nil
}
