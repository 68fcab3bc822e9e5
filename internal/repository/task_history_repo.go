package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/dreamtoapp/admin-go-api/internal/models"
)

// TaskHistoryRepository appends and reads the immutable task audit log.
// There is deliberately no update or single-row delete.
type TaskHistoryRepository interface {
	Append(ctx context.Context, entry *models.TaskHistory) error
	ListByTask(ctx context.Context, taskID uint) ([]models.TaskHistory, error)
}

type taskHistoryRepository struct {
	db *gorm.DB
}

// NewTaskHistoryRepository constructs a repository backed by GORM.
func NewTaskHistoryRepository(db *gorm.DB) TaskHistoryRepository {
	return &taskHistoryRepository{db: db}
}

func (r *taskHistoryRepository) Append(ctx context.Context, entry *models.TaskHistory) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *taskHistoryRepository) ListByTask(ctx context.Context, taskID uint) ([]models.TaskHistory, error) {
	var entries []models.TaskHistory
	if err := r.db.WithContext(ctx).
		Where("task_id = ?", taskID).
		Order("created_at DESC").
		Find(&entries).Error; err != nil {
		return nil, err
	}

	return entries, nil
}
