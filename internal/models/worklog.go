package models

import "time"

// Work-log review statuses. Review is terminal: once APPROVED or REJECTED a
// work log cannot transition again.
const (
	WorkLogStatusPending  = "PENDING"
	WorkLogStatusApproved = "APPROVED"
	WorkLogStatusRejected = "REJECTED"
)

// WorkLog is a time-tracking entry submitted for review.
type WorkLog struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	UserID       uint      `gorm:"index;not null" json:"user_id"`
	TaskID       *uint     `gorm:"index" json:"task_id"`
	Title        string    `gorm:"size:255;not null" json:"title"`
	Summary      string    `gorm:"type:text" json:"summary"`
	TimeSpentMin int       `gorm:"not null" json:"time_spent_min"`
	Status       string    `gorm:"size:16;not null;default:PENDING;index" json:"status"`
	ReviewedByID *uint     `json:"reviewed_by_id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	User User  `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Task *Task `gorm:"foreignKey:TaskID" json:"task,omitempty"`
}
