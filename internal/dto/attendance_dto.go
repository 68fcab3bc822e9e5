package dto

import (
	"time"

	"github.com/dreamtoapp/admin-go-api/internal/models"
)

// AttendanceResponse serializes a login/logout interval.
type AttendanceResponse struct {
	ID          uint       `json:"id"`
	UserID      uint       `json:"user_id"`
	LoginAt     time.Time  `json:"login_at"`
	LogoutAt    *time.Time `json:"logout_at"`
	DurationMin int        `json:"duration_min"`
}

// NewAttendanceResponse converts a model into a DTO.
func NewAttendanceResponse(model models.Attendance) AttendanceResponse {
	return AttendanceResponse{
		ID:          model.ID,
		UserID:      model.UserID,
		LoginAt:     model.LoginAt,
		LogoutAt:    model.LogoutAt,
		DurationMin: model.DurationMin,
	}
}
