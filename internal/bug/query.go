package bug

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/zulandar/bookmarky/internal/models"
	"gorm.io/gorm"
)

// Detail is a bug joined with its people and milestone, as shown on the
// details, edit and list pages.
type Detail struct {
	ID             uint
	Title          string
	Details        string
	CreatorID      uint
	CreatorName    string
	AssigneeID     uint
	AssigneeName   string
	Status         string
	Priority       string
	MilestoneID    *uint
	MilestoneTitle *string
	TargetDate     *time.Time
	CreatedAt      time.Time
	AssignedAt     *time.Time
	ClosedAt       *time.Time
	Tags           []string `gorm:"-"`
}

// Developer is an entry in the assignee picker.
type Developer struct {
	ID          uint
	DisplayName string
}

const detailColumns = `bugs.id, bugs.title, bugs.details,
	bugs.creator_id, creator.display_name AS creator_name,
	bugs.assignee_id, assignee.display_name AS assignee_name,
	bugs.status, bugs.priority, bugs.milestone_id,
	milestones.title AS milestone_title, milestones.target_date AS target_date,
	bugs.created_at, bugs.assigned_at, bugs.closed_at`

func detailQuery(tx *gorm.DB) *gorm.DB {
	return tx.Table("bugs").
		Select(detailColumns).
		Joins("JOIN users AS creator ON creator.id = bugs.creator_id").
		Joins("JOIN users AS assignee ON assignee.id = bugs.assignee_id").
		Joins("LEFT JOIN milestones ON milestones.id = bugs.milestone_id")
}

// Get returns bug id with its tags, or ErrNotFound.
func Get(ctx context.Context, db *gorm.DB, id uint) (*Detail, error) {
	tx := db.WithContext(ctx)
	var rows []Detail
	if err := detailQuery(tx).Where("bugs.id = ?", id).Limit(1).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("bug: get %d: %w", id, err)
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	d := rows[0]
	if err := tx.Model(&models.BugTag{}).Where("bug_id = ?", id).Order("tag").Pluck("tag", &d.Tags).Error; err != nil {
		return nil, fmt.Errorf("bug: tags for %d: %w", id, err)
	}
	return &d, nil
}

// List returns every bug, newest first, with tags attached.
func List(ctx context.Context, db *gorm.DB) ([]Detail, error) {
	tx := db.WithContext(ctx)

	var allTags []models.BugTag
	if err := tx.Order("bug_id, tag").Find(&allTags).Error; err != nil {
		return nil, fmt.Errorf("bug: list tags: %w", err)
	}
	tagMap := make(map[uint][]string)
	for _, t := range allTags {
		tagMap[t.BugID] = append(tagMap[t.BugID], t.Tag)
	}

	var rows []Detail
	if err := detailQuery(tx).Order("bugs.created_at DESC, bugs.id DESC").Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("bug: list: %w", err)
	}
	for i := range rows {
		rows[i].Tags = tagMap[rows[i].ID]
	}
	return rows, nil
}

// Milestones returns all milestones ordered by target date.
func Milestones(ctx context.Context, db *gorm.DB) ([]models.Milestone, error) {
	var ms []models.Milestone
	if err := db.WithContext(ctx).Order("target_date, id").Find(&ms).Error; err != nil {
		return nil, fmt.Errorf("bug: milestones: %w", err)
	}
	return ms, nil
}

// CreateMilestone adds a milestone and returns its id.
func CreateMilestone(ctx context.Context, db *gorm.DB, title string, target time.Time) (uint, error) {
	m := models.Milestone{Title: strings.TrimSpace(title), TargetDate: target}
	if m.Title == "" {
		return 0, fmt.Errorf("%w: milestone title is required", ErrInvalidInput)
	}
	if err := db.WithContext(ctx).Create(&m).Error; err != nil {
		return 0, fmt.Errorf("bug: create milestone %q: %w", title, err)
	}
	return m.ID, nil
}

// Developers returns users with the Developer role ordered by display name.
func Developers(ctx context.Context, db *gorm.DB) ([]Developer, error) {
	var devs []Developer
	err := db.WithContext(ctx).Model(&models.User{}).
		Select("id, display_name").
		Where("role = ?", models.RoleDeveloper).
		Order("display_name, id").
		Scan(&devs).Error
	if err != nil {
		return nil, fmt.Errorf("bug: developers: %w", err)
	}
	return devs, nil
}
