package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/dreamtoapp/admin-go-api/internal/models"
)

// GroupCount is a single group-by bucket.
type GroupCount struct {
	Key   string `gorm:"column:key"`
	Count int64  `gorm:"column:count"`
}

// PerformanceRow aggregates one user's output since a cutoff.
type PerformanceRow struct {
	UserID          uint
	Name            string
	Department      string
	CompletedTasks  int64
	ApprovedMinutes int64
}

// DashboardRepository supplies read-side rollups for the admin dashboard.
type DashboardRepository interface {
	CountTasksByStatus(ctx context.Context) ([]GroupCount, error)
	CountTasksByPriority(ctx context.Context) ([]GroupCount, error)
	CountUsersByDepartment(ctx context.Context) ([]GroupCount, error)
	CountWorkLogsByStatusSince(ctx context.Context, since time.Time) ([]GroupCount, error)
	PerformanceSince(ctx context.Context, since time.Time) ([]PerformanceRow, error)
}

type dashboardRepository struct {
	db *gorm.DB
}

// NewDashboardRepository constructs the rollup repository.
func NewDashboardRepository(db *gorm.DB) DashboardRepository {
	return &dashboardRepository{db: db}
}

func (r *dashboardRepository) CountTasksByStatus(ctx context.Context) ([]GroupCount, error) {
	var rows []GroupCount
	err := r.db.WithContext(ctx).
		Model(&models.Task{}).
		Select("status AS key, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	return rows, err
}

func (r *dashboardRepository) CountTasksByPriority(ctx context.Context) ([]GroupCount, error) {
	var rows []GroupCount
	err := r.db.WithContext(ctx).
		Model(&models.Task{}).
		Select("priority AS key, COUNT(*) AS count").
		Group("priority").
		Scan(&rows).Error
	return rows, err
}

func (r *dashboardRepository) CountUsersByDepartment(ctx context.Context) ([]GroupCount, error) {
	var rows []GroupCount
	err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Select("department AS key, COUNT(*) AS count").
		Where("is_active = ?", true).
		Group("department").
		Scan(&rows).Error
	return rows, err
}

func (r *dashboardRepository) CountWorkLogsByStatusSince(ctx context.Context, since time.Time) ([]GroupCount, error) {
	var rows []GroupCount
	err := r.db.WithContext(ctx).
		Model(&models.WorkLog{}).
		Select("status AS key, COUNT(*) AS count").
		Where("created_at >= ?", since).
		Group("status").
		Scan(&rows).Error
	return rows, err
}

func (r *dashboardRepository) PerformanceSince(ctx context.Context, since time.Time) ([]PerformanceRow, error) {
	var completed []struct {
		UserID     uint
		Name       string
		Department string
		Count      int64
	}
	if err := r.db.WithContext(ctx).
		Model(&models.Task{}).
		Select("users.id AS user_id, users.name AS name, users.department AS department, COUNT(tasks.id) AS count").
		Joins("JOIN users ON users.id = tasks.assigned_to_id").
		Where("tasks.status = ? AND tasks.completed_at >= ?", models.TaskStatusCompleted, since).
		Group("users.id, users.name, users.department").
		Scan(&completed).Error; err != nil {
		return nil, err
	}

	var approved []struct {
		UserID  uint
		Minutes int64
	}
	if err := r.db.WithContext(ctx).
		Model(&models.WorkLog{}).
		Select("user_id, COALESCE(SUM(time_spent_min), 0) AS minutes").
		Where("status = ? AND created_at >= ?", models.WorkLogStatusApproved, since).
		Group("user_id").
		Scan(&approved).Error; err != nil {
		return nil, err
	}

	minutesByUser := make(map[uint]int64, len(approved))
	for _, row := range approved {
		minutesByUser[row.UserID] = row.Minutes
	}

	rows := make([]PerformanceRow, 0, len(completed))
	for _, row := range completed {
		rows = append(rows, PerformanceRow{
			UserID:          row.UserID,
			Name:            row.Name,
			Department:      row.Department,
			CompletedTasks:  row.Count,
			ApprovedMinutes: minutesByUser[row.UserID],
		})
	}

	return rows, nil
}
