package dto

import (
	"time"

	"github.com/dreamtoapp/admin-go-api/internal/models"
)

// UserCreateRequest describes the payload for creating a portal account.
type UserCreateRequest struct {
	Name       string `json:"name" validate:"required,min=2"`
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required,min=8"`
	Role       string `json:"role" validate:"required,oneof=ADMIN STAFF CLIENT"`
	Department string `json:"department"`
}

// UserUpdateRequest describes a partial account update.
type UserUpdateRequest struct {
	Name       *string `json:"name" validate:"omitempty,min=2"`
	Email      *string `json:"email" validate:"omitempty,email"`
	Role       *string `json:"role" validate:"omitempty,oneof=ADMIN STAFF CLIENT"`
	Department *string `json:"department"`
	IsActive   *bool   `json:"is_active"`
}

// UserListRequest captures list filters for the admin user view.
type UserListRequest struct {
	Search     string `query:"search"`
	Role       string `query:"role"`
	Department string `query:"department"`
	ActiveOnly bool   `query:"active_only"`
	Page       int    `query:"page"`
	Limit      int    `query:"limit"`
}

// ResetPasswordRequest is the admin-driven password reset payload.
type ResetPasswordRequest struct {
	Password string `json:"password" validate:"required,min=8"`
}

// ChangePasswordRequest is the self-service password change payload.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8"`
}

// UserResponse is the serialized account representation.
type UserResponse struct {
	ID         uint      `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Role       string    `json:"role"`
	Department string    `json:"department"`
	IsActive   bool      `json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// UserSummary is the compact representation embedded in task responses.
type UserSummary struct {
	ID         uint   `json:"id"`
	Name       string `json:"name"`
	Department string `json:"department"`
}

// UserListResponse pairs accounts with pagination metadata.
type UserListResponse struct {
	Items      []UserResponse `json:"items"`
	Pagination PaginationMeta `json:"pagination"`
}

// NewUserResponse converts a model into a DTO.
func NewUserResponse(model models.User) UserResponse {
	return UserResponse{
		ID:         model.ID,
		Name:       model.Name,
		Email:      model.Email,
		Role:       model.Role,
		Department: model.Department,
		IsActive:   model.IsActive,
		CreatedAt:  model.CreatedAt,
		UpdatedAt:  model.UpdatedAt,
	}
}

// NewUserSummary converts a model into its compact form.
func NewUserSummary(model models.User) UserSummary {
	return UserSummary{
		ID:         model.ID,
		Name:       model.Name,
		Department: model.Department,
	}
}
