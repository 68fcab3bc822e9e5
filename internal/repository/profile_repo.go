package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/dreamtoapp/admin-go-api/internal/models"
)

// ProfileRepository manages the user profile sub-resources.
type ProfileRepository interface {
	ListEducations(ctx context.Context, userID uint) ([]models.Education, error)
	AddEducation(ctx context.Context, education *models.Education) error
	DeleteEducation(ctx context.Context, id uint, userID uint) error

	ListLanguages(ctx context.Context, userID uint) ([]models.Language, error)
	AddLanguage(ctx context.Context, language *models.Language) error
	DeleteLanguage(ctx context.Context, id uint, userID uint) error

	ListWorkExperiences(ctx context.Context, userID uint) ([]models.WorkExperience, error)
	AddWorkExperience(ctx context.Context, experience *models.WorkExperience) error
	DeleteWorkExperience(ctx context.Context, id uint, userID uint) error
}

type profileRepository struct {
	db *gorm.DB
}

// NewProfileRepository instantiates a GORM-backed repository.
func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) ListEducations(ctx context.Context, userID uint) ([]models.Education, error) {
	var records []models.Education
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("start_date DESC").Find(&records).Error
	return records, err
}

func (r *profileRepository) AddEducation(ctx context.Context, education *models.Education) error {
	return r.db.WithContext(ctx).Create(education).Error
}

func (r *profileRepository) DeleteEducation(ctx context.Context, id uint, userID uint) error {
	return deleteOwned(r.db.WithContext(ctx), &models.Education{}, id, userID)
}

func (r *profileRepository) ListLanguages(ctx context.Context, userID uint) ([]models.Language, error) {
	var records []models.Language
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("name ASC").Find(&records).Error
	return records, err
}

func (r *profileRepository) AddLanguage(ctx context.Context, language *models.Language) error {
	return r.db.WithContext(ctx).Create(language).Error
}

func (r *profileRepository) DeleteLanguage(ctx context.Context, id uint, userID uint) error {
	return deleteOwned(r.db.WithContext(ctx), &models.Language{}, id, userID)
}

func (r *profileRepository) ListWorkExperiences(ctx context.Context, userID uint) ([]models.WorkExperience, error) {
	var records []models.WorkExperience
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("start_date DESC").Find(&records).Error
	return records, err
}

func (r *profileRepository) AddWorkExperience(ctx context.Context, experience *models.WorkExperience) error {
	return r.db.WithContext(ctx).Create(experience).Error
}

func (r *profileRepository) DeleteWorkExperience(ctx context.Context, id uint, userID uint) error {
	return deleteOwned(r.db.WithContext(ctx), &models.WorkExperience{}, id, userID)
}

func deleteOwned(db *gorm.DB, model interface{}, id uint, userID uint) error {
	result := db.Where("id = ? AND user_id = ?", id, userID).Delete(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
