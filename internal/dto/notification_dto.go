package dto

import (
	"time"

	"github.com/dreamtoapp/admin-go-api/internal/models"
)

// NotificationCreateRequest posts a notification on a task thread.
type NotificationCreateRequest struct {
	Type    string `json:"type" validate:"required,oneof=ASSIGNMENT STATUS_CHANGE COMMENT"`
	Message string `json:"message" validate:"required,min=1"`
}

// NotificationResponse serializes an addressed notification record.
type NotificationResponse struct {
	ID          uint      `json:"id"`
	TaskID      uint      `json:"task_id"`
	RecipientID uint      `json:"recipient_id"`
	SenderID    uint      `json:"sender_id"`
	Type        string    `json:"type"`
	Message     string    `json:"message"`
	IsRead      bool      `json:"is_read"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewNotificationResponse converts a model into a DTO.
func NewNotificationResponse(model models.TaskNotification) NotificationResponse {
	return NotificationResponse{
		ID:          model.ID,
		TaskID:      model.TaskID,
		RecipientID: model.RecipientID,
		SenderID:    model.SenderID,
		Type:        model.Type,
		Message:     model.Message,
		IsRead:      model.IsRead,
		CreatedAt:   model.CreatedAt,
	}
}

// NewNotificationResponseSlice converts a slice of models into DTOs.
func NewNotificationResponseSlice(notifications []models.TaskNotification) []NotificationResponse {
	responses := make([]NotificationResponse, 0, len(notifications))
	for _, notification := range notifications {
		responses = append(responses, NewNotificationResponse(notification))
	}

	return responses
}
