// Package bug implements the bug tracker's data access: filing and editing
// bugs, comments, hours worked, milestones and subscriptions.
package bug

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"strconv"
	"strings"
	"time"

	"github.com/zulandar/bookmarky/internal/models"
	"github.com/zulandar/bookmarky/internal/tags"
	"github.com/zulandar/bookmarky/internal/txn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrNotFound     = errors.New("bug: not found")
	ErrInvalidInput = errors.New("bug: invalid input")
)

// now stamps assignment and close times.
var now = time.Now

// Form carries the submitted bug fields as raw text. Milestone and Assignee
// hold row ids; Tags is a comma-separated list.
type Form struct {
	Title     string
	Details   string
	Priority  string
	Milestone string
	Assignee  string
	Status    string
	Tags      string
}

func (f Form) trimmed() Form {
	return Form{
		Title:     strings.TrimSpace(f.Title),
		Details:   strings.TrimSpace(f.Details),
		Priority:  strings.TrimSpace(f.Priority),
		Milestone: strings.TrimSpace(f.Milestone),
		Assignee:  strings.TrimSpace(f.Assignee),
		Status:    strings.TrimSpace(f.Status),
		Tags:      f.Tags,
	}
}

func parseID(field, raw string) (uint, error) {
	n, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || n == 0 {
		return 0, fmt.Errorf("%w: %s %q is not an id", ErrInvalidInput, field, raw)
	}
	return uint(n), nil
}

func exists(tx *gorm.DB, model interface{}, id uint) (bool, error) {
	var n int64
	if err := tx.Model(model).Where("id = ?", id).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

func unassignedID(tx *gorm.DB) (uint, error) {
	var ids []uint
	if err := tx.Model(&models.User{}).Where("login = ?", models.UnassignedLogin).Pluck("id", &ids).Error; err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		return 0, errors.New("unassigned user not seeded")
	}
	return ids[0], nil
}

// Create files a new open bug owned by creatorID and assigned to the
// unassigned account. Title, details, priority and milestone are required.
func Create(ctx context.Context, db *gorm.DB, creatorID uint, f Form) (uint, error) {
	f = f.trimmed()
	if f.Title == "" || f.Details == "" || f.Priority == "" || f.Milestone == "" {
		return 0, fmt.Errorf("%w: title, details, priority and milestone are required", ErrInvalidInput)
	}
	milestoneID, err := parseID("milestone", f.Milestone)
	if err != nil {
		return 0, err
	}

	var b models.Bug
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ok, err := exists(tx, &models.Milestone{}, milestoneID)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: milestone %d does not exist", ErrInvalidInput, milestoneID)
		}
		assignee, err := unassignedID(tx)
		if err != nil {
			return err
		}

		b = models.Bug{
			Title:       f.Title,
			Details:     f.Details,
			CreatorID:   creatorID,
			AssigneeID:  assignee,
			Status:      models.StatusOpen,
			Priority:    f.Priority,
			MilestoneID: &milestoneID,
		}
		if err := tx.Omit(clause.Associations).Create(&b).Error; err != nil {
			return err
		}
		for _, tag := range tags.Parse(f.Tags) {
			if err := tx.Create(&models.BugTag{BugID: b.ID, Tag: tag}).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if errors.Is(err, ErrInvalidInput) {
		return 0, err
	}
	if err != nil {
		return 0, fmt.Errorf("bug: create: %w", err)
	}
	return b.ID, nil
}

// Update applies the non-blank fields of f to bug id under the retry policy.
// Blank fields leave the stored value alone, including a blank tag list.
// Changing the assignee stamps the assignment time; moving to Closed stamps
// the close time and moving away from Closed clears it.
func Update(ctx context.Context, db *gorm.DB, p txn.Policy, id uint, f Form) error {
	f = f.trimmed()

	base := map[string]interface{}{}
	if f.Title != "" {
		base["title"] = f.Title
	}
	if f.Details != "" {
		base["details"] = f.Details
	}
	if f.Priority != "" {
		base["priority"] = f.Priority
	}
	var milestoneID, assigneeID uint
	var err error
	if f.Milestone != "" {
		if milestoneID, err = parseID("milestone", f.Milestone); err != nil {
			return err
		}
	}
	if f.Assignee != "" {
		if assigneeID, err = parseID("assignee", f.Assignee); err != nil {
			return err
		}
	}
	var want []string
	if strings.TrimSpace(f.Tags) != "" {
		want = tags.Parse(f.Tags)
	}

	err = txn.Run(ctx, db, p.WithOp("bug.update"), func(tx *gorm.DB) error {
		var b models.Bug
		if err := tx.First(&b, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return txn.Stop(ErrNotFound)
			}
			return err
		}

		updates := maps.Clone(base)
		if milestoneID != 0 {
			ok, err := exists(tx, &models.Milestone{}, milestoneID)
			if err != nil {
				return err
			}
			if !ok {
				return txn.Stop(fmt.Errorf("%w: milestone %d does not exist", ErrInvalidInput, milestoneID))
			}
			updates["milestone_id"] = milestoneID
		}
		if assigneeID != 0 {
			ok, err := exists(tx, &models.User{}, assigneeID)
			if err != nil {
				return err
			}
			if !ok {
				return txn.Stop(fmt.Errorf("%w: assignee %d does not exist", ErrInvalidInput, assigneeID))
			}
			if assigneeID != b.AssigneeID {
				updates["assignee_id"] = assigneeID
				updates["assigned_at"] = now()
			}
		}
		if f.Status != "" {
			updates["status"] = f.Status
			switch {
			case f.Status == models.StatusClosed && b.Status != models.StatusClosed:
				updates["closed_at"] = now()
			case f.Status != models.StatusClosed && b.ClosedAt != nil:
				updates["closed_at"] = nil
			}
		}

		if len(updates) > 0 {
			if err := tx.Model(&models.Bug{}).Where("id = ?", id).Updates(updates).Error; err != nil {
				return err
			}
		}
		if want != nil {
			return reconcileTags(tx, id, want)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) || errors.Is(err, ErrInvalidInput) || errors.Is(err, txn.ErrExhausted) {
			return err
		}
		return fmt.Errorf("bug: update %d: %w", id, err)
	}
	return nil
}

// reconcileTags inserts the tags only in want and deletes the tags only in
// the stored set.
func reconcileTags(tx *gorm.DB, bugID uint, want []string) error {
	var have []string
	if err := tx.Model(&models.BugTag{}).Where("bug_id = ?", bugID).Order("tag").Pluck("tag", &have).Error; err != nil {
		return err
	}
	add, remove := tags.Diff(have, want)
	for _, tag := range add {
		if err := tx.Create(&models.BugTag{BugID: bugID, Tag: tag}).Error; err != nil {
			return err
		}
	}
	if len(remove) > 0 {
		if err := tx.Where("bug_id = ? AND tag IN ?", bugID, remove).Delete(&models.BugTag{}).Error; err != nil {
			return err
		}
	}
	return nil
}
