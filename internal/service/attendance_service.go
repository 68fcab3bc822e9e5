package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/dreamtoapp/admin-go-api/internal/authz"
	"github.com/dreamtoapp/admin-go-api/internal/dto"
	"github.com/dreamtoapp/admin-go-api/internal/repository"
)

// ErrNoOpenInterval is returned by check-out when no interval is open.
var ErrNoOpenInterval = errors.New("no open attendance interval")

// AttendanceService closes login intervals and serves attendance history.
type AttendanceService interface {
	CheckOut(ctx context.Context, session *authz.Session) (dto.AttendanceResponse, error)
	History(ctx context.Context, session *authz.Session, userID uint, limit int) ([]dto.AttendanceResponse, error)
}

type attendanceService struct {
	attendance repository.AttendanceRepository
	logger     zerolog.Logger
	now        func() time.Time
}

// NewAttendanceService builds the attendance service.
func NewAttendanceService(attendance repository.AttendanceRepository, logger zerolog.Logger) AttendanceService {
	return &attendanceService{
		attendance: attendance,
		logger:     logger.With().Str("component", "attendance_service").Logger(),
		now:        time.Now,
	}
}

// CheckOut closes the caller's latest open interval and computes its length.
func (s *attendanceService) CheckOut(ctx context.Context, session *authz.Session) (dto.AttendanceResponse, error) {
	if session == nil || session.UserID == 0 {
		return dto.AttendanceResponse{}, ErrUnauthorized
	}

	interval, err := s.attendance.LatestOpen(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AttendanceResponse{}, ErrNoOpenInterval
		}
		return dto.AttendanceResponse{}, err
	}

	logoutAt := s.now()
	interval.LogoutAt = &logoutAt
	interval.DurationMin = int(logoutAt.Sub(interval.LoginAt).Minutes())

	if err := s.attendance.Update(ctx, &interval); err != nil {
		return dto.AttendanceResponse{}, err
	}

	s.logger.Info().Uint("user_id", session.UserID).Int("duration_min", interval.DurationMin).Msg("attendance interval closed")

	return dto.NewAttendanceResponse(interval), nil
}

func (s *attendanceService) History(ctx context.Context, session *authz.Session, userID uint, limit int) ([]dto.AttendanceResponse, error) {
	switch authz.AuthorizeSelfOrAdmin(session, userID) {
	case authz.Allowed:
	case authz.Unauthorized:
		return nil, ErrUnauthorized
	default:
		return nil, ErrForbidden
	}

	intervals, err := s.attendance.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.AttendanceResponse, 0, len(intervals))
	for _, interval := range intervals {
		responses = append(responses, dto.NewAttendanceResponse(interval))
	}

	return responses, nil
}
