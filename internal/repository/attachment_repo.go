package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/dreamtoapp/admin-go-api/internal/models"
)

// AttachmentRepository stores uploaded task attachment references.
type AttachmentRepository interface {
	Create(ctx context.Context, attachment *models.TaskAttachment) error
	ListByTask(ctx context.Context, taskID uint) ([]models.TaskAttachment, error)
}

type attachmentRepository struct {
	db *gorm.DB
}

// NewAttachmentRepository constructs a repository backed by GORM.
func NewAttachmentRepository(db *gorm.DB) AttachmentRepository {
	return &attachmentRepository{db: db}
}

func (r *attachmentRepository) Create(ctx context.Context, attachment *models.TaskAttachment) error {
	return r.db.WithContext(ctx).Create(attachment).Error
}

func (r *attachmentRepository) ListByTask(ctx context.Context, taskID uint) ([]models.TaskAttachment, error) {
	var attachments []models.TaskAttachment
	if err := r.db.WithContext(ctx).
		Where("task_id = ?", taskID).
		Order("created_at DESC").
		Find(&attachments).Error; err != nil {
		return nil, err
	}

	return attachments, nil
}
