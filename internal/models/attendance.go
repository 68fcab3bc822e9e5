package models

import "time"

// Attendance records a login/logout interval. LogoutAt is nil while the
// interval is open; DurationMin is computed when it closes.
type Attendance struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	UserID      uint       `gorm:"index;not null" json:"user_id"`
	LoginAt     time.Time  `gorm:"not null" json:"login_at"`
	LogoutAt    *time.Time `json:"logout_at"`
	DurationMin int        `json:"duration_min"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// IsOpen reports whether the interval has not been closed yet.
func (a Attendance) IsOpen() bool {
	return a.LogoutAt == nil
}
