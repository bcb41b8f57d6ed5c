package bug

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/zulandar/bookmarky/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CommentRow is a comment with its author's display name and bug title.
type CommentRow struct {
	ID         uint
	BugID      uint
	BugTitle   string
	AuthorID   uint
	AuthorName string
	Text       string
	CreatedAt  time.Time
}

func commentQuery(tx *gorm.DB) *gorm.DB {
	return tx.Table("comments").
		Select(`comments.id, comments.bug_id, bugs.title AS bug_title,
			comments.author_id, users.display_name AS author_name,
			comments.text, comments.created_at`).
		Joins("JOIN users ON users.id = comments.author_id").
		Joins("JOIN bugs ON bugs.id = comments.bug_id")
}

// newsFilter limits comments to bugs uid created, is assigned or follows.
// The subscription test is a subquery so a bug never repeats a comment.
func newsFilter(q *gorm.DB, uid uint) *gorm.DB {
	return q.Where(
		"bugs.creator_id = ? OR bugs.assignee_id = ? OR comments.bug_id IN (SELECT bug_id FROM subscriptions WHERE user_id = ?)",
		uid, uid, uid,
	)
}

func requireBug(tx *gorm.DB, bugID uint) error {
	ok, err := exists(tx, &models.Bug{}, bugID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

// AddComment records a comment by uid on bugID and returns its id.
func AddComment(ctx context.Context, db *gorm.DB, bugID, uid uint, text string) (uint, error) {
	tx := db.WithContext(ctx)
	if err := requireBug(tx, bugID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return 0, err
		}
		return 0, fmt.Errorf("bug: comment on %d: %w", bugID, err)
	}
	c := models.Comment{BugID: bugID, AuthorID: uid, Text: strings.TrimSpace(text)}
	if err := tx.Omit(clause.Associations).Create(&c).Error; err != nil {
		return 0, fmt.Errorf("bug: comment on %d: %w", bugID, err)
	}
	return c.ID, nil
}

// Comments lists a bug's comments newest first.
func Comments(ctx context.Context, db *gorm.DB, bugID uint) ([]CommentRow, error) {
	var rows []CommentRow
	err := commentQuery(db.WithContext(ctx)).
		Where("comments.bug_id = ?", bugID).
		Order("comments.created_at DESC, comments.id DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("bug: comments for %d: %w", bugID, err)
	}
	return rows, nil
}

// NewsComments lists, newest first, the comments on every bug uid created,
// is assigned to or is subscribed to.
func NewsComments(ctx context.Context, db *gorm.DB, uid uint) ([]CommentRow, error) {
	var rows []CommentRow
	err := newsFilter(commentQuery(db.WithContext(ctx)), uid).
		Order("comments.created_at DESC, comments.id DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("bug: news for user %d: %w", uid, err)
	}
	return rows, nil
}

// CommentsSince returns uid's news comments with an id above afterID, oldest
// first. It feeds the live news stream.
func CommentsSince(ctx context.Context, db *gorm.DB, uid, afterID uint) ([]CommentRow, error) {
	var rows []CommentRow
	err := newsFilter(commentQuery(db.WithContext(ctx)), uid).
		Where("comments.id > ?", afterID).
		Order("comments.id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("bug: news since %d for user %d: %w", afterID, uid, err)
	}
	return rows, nil
}

// AddHours logs hours worked by uid on bugID. raw must parse as a finite
// number.
func AddHours(ctx context.Context, db *gorm.DB, bugID, uid uint, raw string) (uint, error) {
	raw = strings.TrimSpace(raw)
	hours, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(hours) || math.IsInf(hours, 0) {
		return 0, fmt.Errorf("%w: hours %q is not a number", ErrInvalidInput, raw)
	}

	tx := db.WithContext(ctx)
	if err := requireBug(tx, bugID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return 0, err
		}
		return 0, fmt.Errorf("bug: hours on %d: %w", bugID, err)
	}
	h := models.HoursWorked{UserID: uid, BugID: bugID, Hours: hours}
	if err := tx.Omit(clause.Associations).Create(&h).Error; err != nil {
		return 0, fmt.Errorf("bug: hours on %d: %w", bugID, err)
	}
	return h.ID, nil
}
