package dto

import (
	"time"

	"github.com/dreamtoapp/admin-go-api/internal/models"
)

// TaskCreateRequest describes the payload for creating a task.
type TaskCreateRequest struct {
	Title        string  `json:"title" validate:"required,min=3"`
	Description  string  `json:"description"`
	Priority     string  `json:"priority" validate:"omitempty,oneof=LOW MEDIUM HIGH URGENT"`
	Type         string  `json:"type"`
	AssignedToID uint    `json:"assigned_to_id" validate:"required"`
	DueDate      *string `json:"due_date" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
}

// TaskUpdateRequest is a partial update: absent fields are left unchanged.
type TaskUpdateRequest struct {
	Title        *string `json:"title" validate:"omitempty,min=3"`
	Description  *string `json:"description"`
	Status       *string `json:"status" validate:"omitempty,oneof=PENDING IN_PROGRESS REVIEW COMPLETED"`
	Priority     *string `json:"priority" validate:"omitempty,oneof=LOW MEDIUM HIGH URGENT"`
	Type         *string `json:"type"`
	AssignedToID *uint   `json:"assigned_to_id"`
	DueDate      *string `json:"due_date" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
}

// TaskReassignRequest moves a task to a new assignee.
type TaskReassignRequest struct {
	AssignedToID uint   `json:"assigned_to_id" validate:"required"`
	Reason       string `json:"reason"`
}

// Bulk actions accepted by the admin bulk endpoint.
const (
	BulkActionStatusUpdate = "bulk_status_update"
	BulkActionReassign     = "bulk_reassign"
	BulkActionDelete       = "bulk_delete"
)

// TaskBulkRequest applies one change to a set of tasks.
type TaskBulkRequest struct {
	Action       string `json:"action" validate:"required,oneof=bulk_status_update bulk_reassign bulk_delete"`
	TaskIDs      []uint `json:"task_ids" validate:"required,min=1,dive,required"`
	Status       string `json:"status" validate:"omitempty,oneof=PENDING IN_PROGRESS REVIEW COMPLETED"`
	AssignedToID uint   `json:"assigned_to_id"`
}

// TaskListRequest captures the discriminated list filter.
type TaskListRequest struct {
	Status       string `query:"status"`
	Priority     string `query:"priority"`
	Type         string `query:"type"`
	AssignedToID uint   `query:"assigned_to_id"`
	Search       string `query:"search"`
	Page         int    `query:"page"`
	Limit        int    `query:"limit"`
}

// TaskResponse is the serialized task with expanded relations.
type TaskResponse struct {
	ID          uint        `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Status      string      `json:"status"`
	Priority    string      `json:"priority"`
	Type        string      `json:"type"`
	AssignedTo  UserSummary `json:"assigned_to"`
	AssignedBy  UserSummary `json:"assigned_by"`
	DueDate     *time.Time  `json:"due_date"`
	CompletedAt *time.Time  `json:"completed_at"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// TaskListResponse pairs tasks with pagination metadata.
type TaskListResponse struct {
	Items      []TaskResponse `json:"items"`
	Pagination PaginationMeta `json:"pagination"`
}

// TaskHistoryResponse serializes one audit row.
type TaskHistoryResponse struct {
	ID        uint      `json:"id"`
	TaskID    uint      `json:"task_id"`
	ActorID   uint      `json:"actor_id"`
	Action    string    `json:"action"`
	OldValue  string    `json:"old_value,omitempty"`
	NewValue  string    `json:"new_value,omitempty"`
	Details   string    `json:"details,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// TaskBulkResponse reports the outcome of a bulk operation.
type TaskBulkResponse struct {
	Action   string `json:"action"`
	Affected int    `json:"affected"`
	Skipped  []uint `json:"skipped,omitempty"`
}

// AttachmentResponse serializes an uploaded task attachment.
type AttachmentResponse struct {
	ID        uint      `json:"id"`
	TaskID    uint      `json:"task_id"`
	FileName  string    `json:"file_name"`
	FileURL   string    `json:"file_url"`
	MimeType  string    `json:"mime_type"`
	SizeBytes int64     `json:"size_bytes"`
	CreatedAt time.Time `json:"created_at"`
}

// NewTaskResponse converts a model into a DTO.
func NewTaskResponse(model models.Task) TaskResponse {
	return TaskResponse{
		ID:          model.ID,
		Title:       model.Title,
		Description: model.Description,
		Status:      model.Status,
		Priority:    model.Priority,
		Type:        model.Type,
		AssignedTo:  NewUserSummary(model.AssignedTo),
		AssignedBy:  NewUserSummary(model.AssignedBy),
		DueDate:     model.DueDate,
		CompletedAt: model.CompletedAt,
		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
	}
}

// NewTaskResponseSlice converts a slice of models into DTOs.
func NewTaskResponseSlice(tasks []models.Task) []TaskResponse {
	responses := make([]TaskResponse, 0, len(tasks))
	for _, task := range tasks {
		responses = append(responses, NewTaskResponse(task))
	}

	return responses
}

// NewTaskHistoryResponse converts an audit row into a DTO.
func NewTaskHistoryResponse(model models.TaskHistory) TaskHistoryResponse {
	return TaskHistoryResponse{
		ID:        model.ID,
		TaskID:    model.TaskID,
		ActorID:   model.ActorID,
		Action:    model.Action,
		OldValue:  model.OldValue,
		NewValue:  model.NewValue,
		Details:   model.Details,
		CreatedAt: model.CreatedAt,
	}
}

// NewAttachmentResponse converts an attachment row into a DTO.
func NewAttachmentResponse(model models.TaskAttachment) AttachmentResponse {
	return AttachmentResponse{
		ID:        model.ID,
		TaskID:    model.TaskID,
		FileName:  model.FileName,
		FileURL:   model.FileURL,
		MimeType:  model.MimeType,
		SizeBytes: model.SizeBytes,
		CreatedAt: model.CreatedAt,
	}
}
