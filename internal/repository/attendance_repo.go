package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/dreamtoapp/admin-go-api/internal/models"
)

// AttendanceRepository stores login/logout intervals.
type AttendanceRepository interface {
	Create(ctx context.Context, attendance *models.Attendance) error
	LatestOpen(ctx context.Context, userID uint) (models.Attendance, error)
	Update(ctx context.Context, attendance *models.Attendance) error
	ListByUser(ctx context.Context, userID uint, limit int) ([]models.Attendance, error)
}

type attendanceRepository struct {
	db *gorm.DB
}

// NewAttendanceRepository instantiates a GORM-backed repository.
func NewAttendanceRepository(db *gorm.DB) AttendanceRepository {
	return &attendanceRepository{db: db}
}

func (r *attendanceRepository) Create(ctx context.Context, attendance *models.Attendance) error {
	return r.db.WithContext(ctx).Create(attendance).Error
}

func (r *attendanceRepository) LatestOpen(ctx context.Context, userID uint) (models.Attendance, error) {
	var attendance models.Attendance
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND logout_at IS NULL", userID).
		Order("login_at DESC").
		First(&attendance).Error; err != nil {
		return models.Attendance{}, err
	}

	return attendance, nil
}

func (r *attendanceRepository) Update(ctx context.Context, attendance *models.Attendance) error {
	return r.db.WithContext(ctx).Save(attendance).Error
}

func (r *attendanceRepository) ListByUser(ctx context.Context, userID uint, limit int) ([]models.Attendance, error) {
	if limit <= 0 || limit > 100 {
		limit = 30
	}

	var intervals []models.Attendance
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("login_at DESC").
		Limit(limit).
		Find(&intervals).Error; err != nil {
		return nil, err
	}

	return intervals, nil
}
