package models

import "time"

// Education is a study record attached to a user profile.
type Education struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	UserID      uint       `gorm:"index;not null" json:"user_id"`
	Institution string     `gorm:"size:255;not null" json:"institution"`
	Degree      string     `gorm:"size:255" json:"degree"`
	Field       string     `gorm:"size:255" json:"field"`
	StartDate   time.Time  `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Language is a spoken-language entry on a user profile.
type Language struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"index;not null" json:"user_id"`
	Name        string    `gorm:"size:128;not null" json:"name"`
	Proficiency string    `gorm:"size:64" json:"proficiency"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// WorkExperience is an employment record on a user profile. EndDate, when
// present, must not precede StartDate.
type WorkExperience struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    uint       `gorm:"index;not null" json:"user_id"`
	Company   string     `gorm:"size:255;not null" json:"company"`
	Position  string     `gorm:"size:255" json:"position"`
	Summary   string     `gorm:"type:text" json:"summary"`
	StartDate time.Time  `gorm:"not null" json:"start_date"`
	EndDate   *time.Time `json:"end_date"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}
