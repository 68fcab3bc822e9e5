package dto

import (
	"time"

	"github.com/dreamtoapp/admin-go-api/internal/models"
)

// WorkLogCreateRequest records a time-tracking entry. TimeSpentMin is
// bounded to a single day: 1 through 1440 minutes inclusive.
type WorkLogCreateRequest struct {
	Title        string `json:"title" validate:"required,min=3"`
	Summary      string `json:"summary"`
	TimeSpentMin int    `json:"time_spent_min" validate:"required,min=1,max=1440"`
	TaskID       *uint  `json:"task_id"`
}

// WorkLogReviewRequest resolves a pending work log.
type WorkLogReviewRequest struct {
	Status string `json:"status" validate:"required,oneof=APPROVED REJECTED"`
}

// WorkLogListRequest captures list filters.
type WorkLogListRequest struct {
	Status string `query:"status"`
	UserID uint   `query:"user_id"`
	Page   int    `query:"page"`
	Limit  int    `query:"limit"`
}

// WorkLogResponse serializes a time-tracking entry.
type WorkLogResponse struct {
	ID           uint      `json:"id"`
	UserID       uint      `json:"user_id"`
	TaskID       *uint     `json:"task_id"`
	Title        string    `json:"title"`
	Summary      string    `json:"summary"`
	TimeSpentMin int       `json:"time_spent_min"`
	Status       string    `json:"status"`
	ReviewedByID *uint     `json:"reviewed_by_id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// WorkLogListResponse pairs entries with pagination metadata.
type WorkLogListResponse struct {
	Items      []WorkLogResponse `json:"items"`
	Pagination PaginationMeta    `json:"pagination"`
}

// NewWorkLogResponse converts a model into a DTO.
func NewWorkLogResponse(model models.WorkLog) WorkLogResponse {
	return WorkLogResponse{
		ID:           model.ID,
		UserID:       model.UserID,
		TaskID:       model.TaskID,
		Title:        model.Title,
		Summary:      model.Summary,
		TimeSpentMin: model.TimeSpentMin,
		Status:       model.Status,
		ReviewedByID: model.ReviewedByID,
		CreatedAt:    model.CreatedAt,
		UpdatedAt:    model.UpdatedAt,
	}
}

// NewWorkLogResponseSlice converts a slice of models into DTOs.
func NewWorkLogResponseSlice(logs []models.WorkLog) []WorkLogResponse {
	responses := make([]WorkLogResponse, 0, len(logs))
	for _, log := range logs {
		responses = append(responses, NewWorkLogResponse(log))
	}

	return responses
}
