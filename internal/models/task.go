package models

import (
	"time"

	"gorm.io/datatypes"
)

// Task statuses. Reassignment forces a task back to PENDING; COMPLETED can
// be reopened by an explicit status update.
const (
	TaskStatusPending    = "PENDING"
	TaskStatusInProgress = "IN_PROGRESS"
	TaskStatusReview     = "REVIEW"
	TaskStatusCompleted  = "COMPLETED"
)

// Task priorities.
const (
	TaskPriorityLow    = "LOW"
	TaskPriorityMedium = "MEDIUM"
	TaskPriorityHigh   = "HIGH"
	TaskPriorityUrgent = "URGENT"
)

// Task is a unit of assigned work.
type Task struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	Title        string     `gorm:"size:255;not null" json:"title"`
	Description  string     `gorm:"type:text" json:"description"`
	Status       string     `gorm:"size:32;not null;default:PENDING;index" json:"status"`
	Priority     string     `gorm:"size:16;not null;default:MEDIUM" json:"priority"`
	Type         string     `gorm:"size:64" json:"type"`
	AssignedToID uint       `gorm:"not null;index" json:"assigned_to_id"`
	AssignedByID uint       `gorm:"not null;index" json:"assigned_by_id"`
	DueDate      *time.Time `json:"due_date"`
	CompletedAt  *time.Time `json:"completed_at"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`

	AssignedTo    User               `gorm:"foreignKey:AssignedToID" json:"assigned_to,omitempty"`
	AssignedBy    User               `gorm:"foreignKey:AssignedByID" json:"assigned_by,omitempty"`
	History       []TaskHistory      `gorm:"constraint:OnDelete:CASCADE" json:"history,omitempty"`
	Notifications []TaskNotification `gorm:"constraint:OnDelete:CASCADE" json:"notifications,omitempty"`
	Attachments   []TaskAttachment   `gorm:"constraint:OnDelete:CASCADE" json:"attachments,omitempty"`
}

// IsOverdue reports whether the task has an elapsed due date and is not done.
func (t Task) IsOverdue(reference time.Time) bool {
	return t.DueDate != nil && reference.After(*t.DueDate) && t.Status != TaskStatusCompleted
}

// TaskHistory is an append-only audit row recorded once per mutating task
// operation. Rows are never updated or deleted individually.
type TaskHistory struct {
	ID        uint              `gorm:"primaryKey" json:"id"`
	TaskID    uint              `gorm:"index;not null" json:"task_id"`
	ActorID   uint              `gorm:"not null" json:"actor_id"`
	Action    string            `gorm:"size:64;not null" json:"action"`
	OldValue  string            `gorm:"size:512" json:"old_value,omitempty"`
	NewValue  string            `gorm:"size:512" json:"new_value,omitempty"`
	Details   string            `gorm:"type:text" json:"details,omitempty"`
	Metadata  datatypes.JSONMap `gorm:"type:json" json:"metadata,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}

// Notification types emitted by the task workflow.
const (
	NotificationTypeAssignment   = "ASSIGNMENT"
	NotificationTypeStatusChange = "STATUS_CHANGE"
	NotificationTypeComment      = "COMMENT"
)

// TaskNotification is an addressed message record created as a side effect
// of assignment or status-change operations.
type TaskNotification struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	TaskID      uint      `gorm:"index;not null" json:"task_id"`
	RecipientID uint      `gorm:"index;not null" json:"recipient_id"`
	SenderID    uint      `gorm:"not null" json:"sender_id"`
	Type        string    `gorm:"size:32;not null" json:"type"`
	Message     string    `gorm:"type:text" json:"message"`
	IsRead      bool      `gorm:"not null;default:false" json:"is_read"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TaskAttachment stores an uploaded file reference linked to a task.
type TaskAttachment struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	TaskID     uint      `gorm:"index;not null" json:"task_id"`
	UploaderID uint      `gorm:"not null" json:"uploader_id"`
	FileName   string    `gorm:"size:255;not null" json:"file_name"`
	FileURL    string    `gorm:"size:512;not null" json:"file_url"`
	MimeType   string    `gorm:"size:128" json:"mime_type"`
	SizeBytes  int64     `json:"size_bytes"`
	CreatedAt  time.Time `json:"created_at"`
}
