package dto

import (
	"time"

	"github.com/dreamtoapp/admin-go-api/internal/models"
)

// EducationCreateRequest adds a study record to a profile.
type EducationCreateRequest struct {
	Institution string  `json:"institution" validate:"required,min=2"`
	Degree      string  `json:"degree"`
	Field       string  `json:"field"`
	StartDate   string  `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate     *string `json:"end_date" validate:"omitempty,datetime=2006-01-02"`
}

// LanguageCreateRequest adds a spoken language to a profile.
type LanguageCreateRequest struct {
	Name        string `json:"name" validate:"required,min=2"`
	Proficiency string `json:"proficiency" validate:"omitempty,oneof=BASIC CONVERSATIONAL FLUENT NATIVE"`
}

// WorkExperienceCreateRequest adds an employment record to a profile.
type WorkExperienceCreateRequest struct {
	Company   string  `json:"company" validate:"required,min=2"`
	Position  string  `json:"position"`
	Summary   string  `json:"summary"`
	StartDate string  `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate   *string `json:"end_date" validate:"omitempty,datetime=2006-01-02"`
}

// EducationResponse serializes a study record.
type EducationResponse struct {
	ID          uint       `json:"id"`
	Institution string     `json:"institution"`
	Degree      string     `json:"degree"`
	Field       string     `json:"field"`
	StartDate   time.Time  `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
}

// LanguageResponse serializes a language entry.
type LanguageResponse struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Proficiency string `json:"proficiency"`
}

// WorkExperienceResponse serializes an employment record.
type WorkExperienceResponse struct {
	ID        uint       `json:"id"`
	Company   string     `json:"company"`
	Position  string     `json:"position"`
	Summary   string     `json:"summary"`
	StartDate time.Time  `json:"start_date"`
	EndDate   *time.Time `json:"end_date"`
}

// NewEducationResponse converts a model into a DTO.
func NewEducationResponse(model models.Education) EducationResponse {
	return EducationResponse{
		ID:          model.ID,
		Institution: model.Institution,
		Degree:      model.Degree,
		Field:       model.Field,
		StartDate:   model.StartDate,
		EndDate:     model.EndDate,
	}
}

// NewLanguageResponse converts a model into a DTO.
func NewLanguageResponse(model models.Language) LanguageResponse {
	return LanguageResponse{
		ID:          model.ID,
		Name:        model.Name,
		Proficiency: model.Proficiency,
	}
}

// NewWorkExperienceResponse converts a model into a DTO.
func NewWorkExperienceResponse(model models.WorkExperience) WorkExperienceResponse {
	return WorkExperienceResponse{
		ID:        model.ID,
		Company:   model.Company,
		Position:  model.Position,
		Summary:   model.Summary,
		StartDate: model.StartDate,
		EndDate:   model.EndDate,
	}
}
