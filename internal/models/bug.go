package models

import "time"

// Bug lifecycle values. Status is free text; these are the values the UI
// offers and the reports count.
const (
	StatusOpen               = "Open"
	StatusReadyForTesting    = "Ready_for_Testing"
	StatusTesting            = "Testing"
	StatusReadyForDeployment = "Ready_for_Deployment"
	StatusClosed             = "Closed"
)

// Statuses lists the lifecycle values in order.
var Statuses = []string{
	StatusOpen,
	StatusReadyForTesting,
	StatusTesting,
	StatusReadyForDeployment,
	StatusClosed,
}

// Bug is a tracked work item.
type Bug struct {
	ID          uint   `gorm:"primaryKey;autoIncrement"`
	Title       string `gorm:"size:256;not null"`
	Details     string `gorm:"type:text"`
	CreatorID   uint   `gorm:"not null;index"`
	AssigneeID  uint   `gorm:"not null;index"`
	Status      string `gorm:"size:32;default:Open;index"`
	Priority    string `gorm:"size:32"`
	MilestoneID *uint  `gorm:"index"`
	CreatedAt   time.Time
	AssignedAt  *time.Time
	ClosedAt    *time.Time

	Creator   User       `gorm:"foreignKey:CreatorID"`
	Assignee  User       `gorm:"foreignKey:AssigneeID"`
	Milestone *Milestone `gorm:"foreignKey:MilestoneID"`
	Tags      []BugTag   `gorm:"foreignKey:BugID"`
}

// BugTag attaches a normalized tag to a bug. The composite key rules out
// duplicate (bug, tag) pairs.
type BugTag struct {
	BugID uint   `gorm:"primaryKey"`
	Tag   string `gorm:"primaryKey;size:64"`
}

// Milestone groups bugs under a target date.
type Milestone struct {
	ID         uint      `gorm:"primaryKey;autoIncrement"`
	Title      string    `gorm:"size:128;not null"`
	TargetDate time.Time `gorm:"index"`
	CreatedAt  time.Time
}

// Comment is a note left on a bug.
type Comment struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"`
	BugID     uint      `gorm:"not null;index"`
	AuthorID  uint      `gorm:"not null;index"`
	Text      string    `gorm:"type:text"`
	CreatedAt time.Time `gorm:"index"`

	Bug    Bug  `gorm:"foreignKey:BugID"`
	Author User `gorm:"foreignKey:AuthorID"`
}

// HoursWorked is one entry in the append-only time log.
type HoursWorked struct {
	ID        uint    `gorm:"primaryKey;autoIncrement"`
	UserID    uint    `gorm:"not null;index"`
	BugID     uint    `gorm:"not null;index"`
	Hours     float64 `gorm:"not null"`
	CreatedAt time.Time

	User User `gorm:"foreignKey:UserID"`
	Bug  Bug  `gorm:"foreignKey:BugID"`
}

// TableName pins the hours log to hours_worked.
func (HoursWorked) TableName() string { return "hours_worked" }

// Subscription records that a user wants a bug's comments in their feed.
type Subscription struct {
	UserID    uint `gorm:"primaryKey"`
	BugID     uint `gorm:"primaryKey;index"`
	CreatedAt time.Time
}
