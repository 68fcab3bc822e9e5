package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/dreamtoapp/admin-go-api/internal/models"
)

// NotificationRepository handles persistence for task notification records.
type NotificationRepository interface {
	Create(ctx context.Context, notification *models.TaskNotification) error
	ListByTask(ctx context.Context, taskID uint) ([]models.TaskNotification, error)
	ListByRecipient(ctx context.Context, recipientID uint, limit, offset int) ([]models.TaskNotification, error)
	MarkRead(ctx context.Context, id uint, recipientID uint) (models.TaskNotification, error)
}

type notificationRepository struct {
	db *gorm.DB
}

// NewNotificationRepository constructs a repository backed by GORM.
func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, notification *models.TaskNotification) error {
	return r.db.WithContext(ctx).Create(notification).Error
}

func (r *notificationRepository) ListByTask(ctx context.Context, taskID uint) ([]models.TaskNotification, error) {
	var notifications []models.TaskNotification
	if err := r.db.WithContext(ctx).
		Where("task_id = ?", taskID).
		Order("created_at DESC").
		Find(&notifications).Error; err != nil {
		return nil, err
	}

	return notifications, nil
}

func (r *notificationRepository) ListByRecipient(ctx context.Context, recipientID uint, limit, offset int) ([]models.TaskNotification, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	var notifications []models.TaskNotification
	if err := r.db.WithContext(ctx).
		Where("recipient_id = ?", recipientID).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&notifications).Error; err != nil {
		return nil, err
	}

	return notifications, nil
}

func (r *notificationRepository) MarkRead(ctx context.Context, id uint, recipientID uint) (models.TaskNotification, error) {
	var notification models.TaskNotification
	if err := r.db.WithContext(ctx).Where("id = ? AND recipient_id = ?", id, recipientID).First(&notification).Error; err != nil {
		return models.TaskNotification{}, err
	}

	if notification.IsRead {
		return notification, nil
	}

	notification.IsRead = true
	if err := r.db.WithContext(ctx).Save(&notification).Error; err != nil {
		return models.TaskNotification{}, err
	}

	return notification, nil
}
