// Package report computes the per-milestone summaries behind /reports/:rid.
package report

import (
	"context"
	"fmt"
	"time"

	"github.com/zulandar/bookmarky/internal/models"
	"gorm.io/gorm"
)

// BugHours is one line of the hours-per-bug report. Bug fields are nil for a
// milestone with no bugs.
type BugHours struct {
	MilestoneID    uint
	MilestoneTitle string
	BugID          *uint
	BugTitle       *string
	Hours          float64
}

// UserHours is one line of the hours-per-user report.
type UserHours struct {
	MilestoneID    uint
	MilestoneTitle string
	UserID         uint
	Login          string
	DisplayName    string
	Hours          float64
}

// StatusCounts is one line of the bug-status report.
type StatusCounts struct {
	MilestoneID             uint
	MilestoneTitle          string
	TargetDate              time.Time
	OpenCount               int64
	ReadyForTestingCount    int64
	TestingCount            int64
	ReadyForDeploymentCount int64
}

const hoursByBugSQL = `
SELECT milestones.id AS milestone_id, milestones.title AS milestone_title,
       bugs.id AS bug_id, bugs.title AS bug_title,
       COALESCE(SUM(hours_worked.hours), 0) AS hours
FROM milestones
LEFT JOIN bugs ON bugs.milestone_id = milestones.id
LEFT JOIN hours_worked ON hours_worked.bug_id = bugs.id
GROUP BY milestones.id, milestones.title, milestones.target_date, bugs.id, bugs.title
ORDER BY milestones.target_date, milestones.id, bugs.id`

const hoursByUserSQL = `
SELECT milestones.id AS milestone_id, milestones.title AS milestone_title,
       users.id AS user_id, users.login AS login, users.display_name AS display_name,
       SUM(hours_worked.hours) AS hours
FROM milestones
JOIN bugs ON bugs.milestone_id = milestones.id
JOIN hours_worked ON hours_worked.bug_id = bugs.id
JOIN users ON users.id = hours_worked.user_id
GROUP BY milestones.id, milestones.title, milestones.target_date, users.id, users.login, users.display_name
ORDER BY milestones.target_date, milestones.id, users.display_name`

const statusByMilestoneSQL = `
SELECT milestones.id AS milestone_id, milestones.title AS milestone_title,
       milestones.target_date AS target_date,
       COALESCE(SUM(CASE WHEN bugs.status = ? THEN 1 ELSE 0 END), 0) AS open_count,
       COALESCE(SUM(CASE WHEN bugs.status = ? THEN 1 ELSE 0 END), 0) AS ready_for_testing_count,
       COALESCE(SUM(CASE WHEN bugs.status = ? THEN 1 ELSE 0 END), 0) AS testing_count,
       COALESCE(SUM(CASE WHEN bugs.status = ? THEN 1 ELSE 0 END), 0) AS ready_for_deployment_count
FROM milestones
LEFT JOIN bugs ON bugs.milestone_id = milestones.id
GROUP BY milestones.id, milestones.title, milestones.target_date
ORDER BY milestones.id`

// hasMilestones reports whether any report can have rows at all.
func hasMilestones(tx *gorm.DB) (bool, error) {
	var n int64
	if err := tx.Model(&models.Milestone{}).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

// HoursByBug sums hours worked per bug within each milestone. It returns nil
// when there are no milestones.
func HoursByBug(ctx context.Context, db *gorm.DB) ([]BugHours, error) {
	tx := db.WithContext(ctx)
	ok, err := hasMilestones(tx)
	if err != nil || !ok {
		return nil, wrap("hours by bug", err)
	}
	var rows []BugHours
	if err := tx.Raw(hoursByBugSQL).Scan(&rows).Error; err != nil {
		return nil, wrap("hours by bug", err)
	}
	return rows, nil
}

// HoursByUser sums hours worked per user within each milestone. Users who
// logged nothing against a milestone are left out. It returns nil when there
// are no milestones.
func HoursByUser(ctx context.Context, db *gorm.DB) ([]UserHours, error) {
	tx := db.WithContext(ctx)
	ok, err := hasMilestones(tx)
	if err != nil || !ok {
		return nil, wrap("hours by user", err)
	}
	rows := []UserHours{}
	if err := tx.Raw(hoursByUserSQL).Scan(&rows).Error; err != nil {
		return nil, wrap("hours by user", err)
	}
	return rows, nil
}

// StatusByMilestone counts bugs in each active status per milestone; empty
// milestones report zeros. It returns nil when there are no milestones.
func StatusByMilestone(ctx context.Context, db *gorm.DB) ([]StatusCounts, error) {
	tx := db.WithContext(ctx)
	ok, err := hasMilestones(tx)
	if err != nil || !ok {
		return nil, wrap("status by milestone", err)
	}
	var rows []StatusCounts
	err = tx.Raw(statusByMilestoneSQL,
		models.StatusOpen,
		models.StatusReadyForTesting,
		models.StatusTesting,
		models.StatusReadyForDeployment,
	).Scan(&rows).Error
	if err != nil {
		return nil, wrap("status by milestone", err)
	}
	return rows, nil
}

func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("report: %s: %w", op, err)
}
