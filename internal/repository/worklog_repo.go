package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/dreamtoapp/admin-go-api/internal/models"
)

// WorkLogFilter describes list options for work logs. OwnerID restricts the
// listing to a single user's entries.
type WorkLogFilter struct {
	Status   string
	OwnerID  uint
	Page     int
	PageSize int
}

// WorkLogRepository defines persistence operations for work logs.
type WorkLogRepository interface {
	List(ctx context.Context, filter WorkLogFilter) ([]models.WorkLog, int64, error)
	GetByID(ctx context.Context, id uint) (models.WorkLog, error)
	Create(ctx context.Context, log *models.WorkLog) error
	Update(ctx context.Context, log *models.WorkLog) error
}

type workLogRepository struct {
	db *gorm.DB
}

// NewWorkLogRepository instantiates a GORM-backed repository.
func NewWorkLogRepository(db *gorm.DB) WorkLogRepository {
	return &workLogRepository{db: db}
}

func (r *workLogRepository) List(ctx context.Context, filter WorkLogFilter) ([]models.WorkLog, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.WorkLog{})

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.OwnerID != 0 {
		query = query.Where("user_id = ?", filter.OwnerID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Order("created_at DESC")

	if filter.PageSize > 0 {
		page := filter.Page
		if page <= 0 {
			page = 1
		}
		query = query.Offset((page - 1) * filter.PageSize).Limit(filter.PageSize)
	}

	var logs []models.WorkLog
	if err := query.Find(&logs).Error; err != nil {
		return nil, 0, err
	}

	return logs, total, nil
}

func (r *workLogRepository) GetByID(ctx context.Context, id uint) (models.WorkLog, error) {
	var log models.WorkLog
	if err := r.db.WithContext(ctx).First(&log, id).Error; err != nil {
		return models.WorkLog{}, err
	}

	return log, nil
}

func (r *workLogRepository) Create(ctx context.Context, log *models.WorkLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

func (r *workLogRepository) Update(ctx context.Context, log *models.WorkLog) error {
	return r.db.WithContext(ctx).Save(log).Error
}
