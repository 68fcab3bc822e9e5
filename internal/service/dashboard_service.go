package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/dreamtoapp/admin-go-api/internal/authz"
	"github.com/dreamtoapp/admin-go-api/internal/dto"
	"github.com/dreamtoapp/admin-go-api/internal/models"
	"github.com/dreamtoapp/admin-go-api/internal/repository"
)

// DashboardService aggregates the admin dashboard rollups.
type DashboardService interface {
	Stats(ctx context.Context, session *authz.Session) (dto.DashboardStatsResponse, error)
}

type dashboardService struct {
	repo     repository.DashboardRepository
	cache    *redis.Client
	cacheTTL time.Duration
	logger   zerolog.Logger
	now      func() time.Time
}

// NewDashboardService constructs the dashboard service. cache may be nil;
// stats are then recomputed on every call.
func NewDashboardService(repo repository.DashboardRepository, cache *redis.Client, ttl time.Duration, logger zerolog.Logger) DashboardService {
	return &dashboardService{
		repo:     repo,
		cache:    cache,
		cacheTTL: ttl,
		logger:   logger.With().Str("component", "dashboard_service").Logger(),
		now:      time.Now,
	}
}

func (s *dashboardService) Stats(ctx context.Context, session *authz.Session) (dto.DashboardStatsResponse, error) {
	switch authz.Authorize(session, models.RoleAdmin) {
	case authz.Allowed:
	case authz.Unauthorized:
		return dto.DashboardStatsResponse{}, ErrUnauthorized
	default:
		return dto.DashboardStatsResponse{}, ErrForbidden
	}

	const cacheKey = "dashboard:stats"
	tracer := otel.Tracer("github.com/dreamtoapp/admin-go-api/internal/service/dashboard")
	ctx, span := tracer.Start(ctx, "dashboard.aggregate")
	span.SetAttributes(attribute.String("dashboard.cache_key", cacheKey))
	defer span.End()

	if s.cache != nil {
		cached, err := s.cache.Get(ctx, cacheKey).Result()
		if err == nil {
			var response dto.DashboardStatsResponse
			if unmarshalErr := json.Unmarshal([]byte(cached), &response); unmarshalErr == nil {
				response.CacheHit = true
				span.SetAttributes(attribute.Bool("dashboard.cache_hit", true))
				return response, nil
			}
		} else if err != redis.Nil {
			s.logger.Warn().Err(err).Msg("failed to read dashboard cache")
			span.RecordError(err)
		}
	}

	now := s.now()

	byStatus, err := s.repo.CountTasksByStatus(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "count_tasks_by_status_failed")
		return dto.DashboardStatsResponse{}, err
	}

	byPriority, err := s.repo.CountTasksByPriority(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "count_tasks_by_priority_failed")
		return dto.DashboardStatsResponse{}, err
	}

	byDepartment, err := s.repo.CountUsersByDepartment(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "count_users_by_department_failed")
		return dto.DashboardStatsResponse{}, err
	}

	workLogs, err := s.repo.CountWorkLogsByStatusSince(ctx, now.Add(-24*time.Hour))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "count_work_logs_failed")
		return dto.DashboardStatsResponse{}, err
	}

	performance, err := s.repo.PerformanceSince(ctx, now.AddDate(0, 0, -30))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "performance_rollup_failed")
		return dto.DashboardStatsResponse{}, err
	}

	stats := dto.DashboardStatsResponse{
		TasksByStatus:     groupCountMap(byStatus),
		TasksByPriority:   groupCountMap(byPriority),
		UsersByDepartment: groupCountMap(byDepartment),
		WorkLogs24h:       groupCountMap(workLogs),
		Performance30d:    performanceSlice(performance),
		GeneratedAt:       now,
	}

	span.SetAttributes(attribute.Int("dashboard.performance_rows", len(stats.Performance30d)))

	if s.cache != nil {
		payload, err := json.Marshal(stats)
		if err == nil {
			if err := s.cache.Set(ctx, cacheKey, payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to store dashboard cache")
				span.RecordError(err)
			}
		}
	}

	return stats, nil
}

func groupCountMap(rows []repository.GroupCount) map[string]int64 {
	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Key] = row.Count
	}
	return counts
}

func performanceSlice(rows []repository.PerformanceRow) []dto.UserPerformance {
	performances := make([]dto.UserPerformance, 0, len(rows))
	for _, row := range rows {
		performances = append(performances, dto.UserPerformance{
			UserID:          row.UserID,
			Name:            row.Name,
			Department:      row.Department,
			CompletedTasks:  row.CompletedTasks,
			ApprovedMinutes: row.ApprovedMinutes,
		})
	}
	return performances
}
