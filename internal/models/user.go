package models

import "time"

// User roles ordered by privilege: ADMIN > STAFF > CLIENT.
const (
	RoleAdmin  = "ADMIN"
	RoleStaff  = "STAFF"
	RoleClient = "CLIENT"
)

// User represents a portal account. Accounts are never hard-deleted through
// the normal flow; deactivation flips IsActive instead.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"size:255;not null" json:"name"`
	Email        string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	Role         string    `gorm:"size:16;not null;default:STAFF" json:"role"`
	Department   string    `gorm:"size:128" json:"department"`
	IsActive     bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	Educations      []Education      `json:"educations,omitempty"`
	Languages       []Language       `json:"languages,omitempty"`
	WorkExperiences []WorkExperience `json:"work_experiences,omitempty"`
}
