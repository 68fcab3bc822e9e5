package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/dreamtoapp/admin-go-api/internal/authz"
	"github.com/dreamtoapp/admin-go-api/internal/dto"
	"github.com/dreamtoapp/admin-go-api/internal/models"
	"github.com/dreamtoapp/admin-go-api/internal/repository"
)

// Work-log review failures.
var (
	ErrWorkLogNotFound = errors.New("work log not found")
	ErrWorkLogSettled  = errors.New("work log has already been reviewed")
)

// WorkLogService records time-tracking entries and runs the review flow.
type WorkLogService interface {
	List(ctx context.Context, session *authz.Session, req dto.WorkLogListRequest) (dto.WorkLogListResponse, error)
	Create(ctx context.Context, session *authz.Session, payload dto.WorkLogCreateRequest) (dto.WorkLogResponse, error)
	Review(ctx context.Context, session *authz.Session, id uint, payload dto.WorkLogReviewRequest) (dto.WorkLogResponse, error)
}

type workLogService struct {
	logs      repository.WorkLogRepository
	tasks     repository.TaskRepository
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewWorkLogService builds the work-log service.
func NewWorkLogService(logs repository.WorkLogRepository, tasks repository.TaskRepository, validate *validator.Validate, logger zerolog.Logger) WorkLogService {
	return &workLogService{
		logs:      logs,
		tasks:     tasks,
		validator: validate,
		logger:    logger.With().Str("component", "worklog_service").Logger(),
	}
}

func (s *workLogService) List(ctx context.Context, session *authz.Session, req dto.WorkLogListRequest) (dto.WorkLogListResponse, error) {
	if session == nil || session.UserID == 0 {
		return dto.WorkLogListResponse{}, ErrUnauthorized
	}

	filter := repository.WorkLogFilter{
		Status:   strings.TrimSpace(req.Status),
		Page:     req.Page,
		PageSize: normalizeLimit(req.Limit),
	}

	// Admins may inspect anyone's entries; everyone else sees their own.
	if session.IsAdmin() {
		filter.OwnerID = req.UserID
	} else {
		filter.OwnerID = session.UserID
	}

	logs, total, err := s.logs.List(ctx, filter)
	if err != nil {
		return dto.WorkLogListResponse{}, err
	}

	return dto.WorkLogListResponse{
		Items:      dto.NewWorkLogResponseSlice(logs),
		Pagination: paginationMeta(req.Page, filter.PageSize, total),
	}, nil
}

func (s *workLogService) Create(ctx context.Context, session *authz.Session, payload dto.WorkLogCreateRequest) (dto.WorkLogResponse, error) {
	if session == nil || session.UserID == 0 {
		return dto.WorkLogResponse{}, ErrUnauthorized
	}
	if err := s.validator.Struct(payload); err != nil {
		return dto.WorkLogResponse{}, err
	}

	if payload.TaskID != nil {
		if _, err := s.tasks.GetByID(ctx, *payload.TaskID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return dto.WorkLogResponse{}, ErrTaskNotFound
			}
			return dto.WorkLogResponse{}, err
		}
	}

	log := models.WorkLog{
		UserID:       session.UserID,
		TaskID:       payload.TaskID,
		Title:        strings.TrimSpace(payload.Title),
		Summary:      payload.Summary,
		TimeSpentMin: payload.TimeSpentMin,
		Status:       models.WorkLogStatusPending,
	}

	if err := s.logs.Create(ctx, &log); err != nil {
		return dto.WorkLogResponse{}, err
	}

	s.logger.Info().Uint("worklog_id", log.ID).Int("minutes", log.TimeSpentMin).Msg("work log submitted")

	return dto.NewWorkLogResponse(log), nil
}

// Review settles a pending work log. The transition is terminal.
func (s *workLogService) Review(ctx context.Context, session *authz.Session, id uint, payload dto.WorkLogReviewRequest) (dto.WorkLogResponse, error) {
	switch authz.Authorize(session, models.RoleAdmin) {
	case authz.Allowed:
	case authz.Unauthorized:
		return dto.WorkLogResponse{}, ErrUnauthorized
	default:
		return dto.WorkLogResponse{}, ErrForbidden
	}
	if err := s.validator.Struct(payload); err != nil {
		return dto.WorkLogResponse{}, err
	}

	log, err := s.logs.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.WorkLogResponse{}, ErrWorkLogNotFound
		}
		return dto.WorkLogResponse{}, err
	}

	if log.Status != models.WorkLogStatusPending {
		return dto.WorkLogResponse{}, ErrWorkLogSettled
	}

	reviewerID := session.UserID
	log.Status = payload.Status
	log.ReviewedByID = &reviewerID
	log.UpdatedAt = time.Now()

	if err := s.logs.Update(ctx, &log); err != nil {
		return dto.WorkLogResponse{}, err
	}

	s.logger.Info().Uint("worklog_id", log.ID).Str("status", log.Status).Msg("work log reviewed")

	return dto.NewWorkLogResponse(log), nil
}
