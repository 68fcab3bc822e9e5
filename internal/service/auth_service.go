package service

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/dreamtoapp/admin-go-api/internal/dto"
	"github.com/dreamtoapp/admin-go-api/internal/models"
	"github.com/dreamtoapp/admin-go-api/internal/repository"
)

// ErrInvalidCredentials is returned for unknown emails, wrong passwords and
// deactivated accounts alike.
var ErrInvalidCredentials = errors.New("invalid email or password")

// AuthService authenticates portal accounts and issues session tokens.
type AuthService interface {
	Login(ctx context.Context, payload dto.LoginRequest) (dto.LoginResponse, error)
}

type authService struct {
	users      repository.UserRepository
	attendance repository.AttendanceRepository
	secret     []byte
	tokenTTL   time.Duration
	validator  *validator.Validate
	logger     zerolog.Logger
	now        func() time.Time
}

// NewAuthService builds the authentication service.
func NewAuthService(users repository.UserRepository, attendance repository.AttendanceRepository, secret string, tokenTTL time.Duration, validate *validator.Validate, logger zerolog.Logger) AuthService {
	return &authService{
		users:      users,
		attendance: attendance,
		secret:     []byte(secret),
		tokenTTL:   tokenTTL,
		validator:  validate,
		logger:     logger.With().Str("component", "auth_service").Logger(),
		now:        time.Now,
	}
}

func (s *authService) Login(ctx context.Context, payload dto.LoginRequest) (dto.LoginResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.LoginResponse{}, err
	}

	user, err := s.users.GetByEmail(ctx, payload.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Burn a comparison anyway to keep timing uniform.
			_ = bcrypt.CompareHashAndPassword([]byte("$2a$10$invalidinvalidinvalidinvalidinvalidinvalidinvalidinva"), []byte(payload.Password))
			return dto.LoginResponse{}, ErrInvalidCredentials
		}
		return dto.LoginResponse{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(payload.Password)); err != nil {
		return dto.LoginResponse{}, ErrInvalidCredentials
	}
	if !user.IsActive {
		return dto.LoginResponse{}, ErrInvalidCredentials
	}

	issuedAt := s.now()
	claims := jwt.MapClaims{
		"user_id":    user.ID,
		"role":       user.Role,
		"department": user.Department,
		"iat":        issuedAt.Unix(),
		"exp":        issuedAt.Add(s.tokenTTL).Unix(),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return dto.LoginResponse{}, err
	}

	s.openAttendance(ctx, user.ID, issuedAt)

	s.logger.Info().Uint("user_id", user.ID).Str("role", user.Role).Msg("user logged in")

	return dto.LoginResponse{Token: token, User: dto.NewUserResponse(user)}, nil
}

// openAttendance starts a new interval unless one is already open. Attendance
// bookkeeping never fails a login.
func (s *authService) openAttendance(ctx context.Context, userID uint, loginAt time.Time) {
	if _, err := s.attendance.LatestOpen(ctx, userID); err == nil {
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error().Err(err).Uint("user_id", userID).Msg("failed to check open attendance interval")
		return
	}

	record := &models.Attendance{UserID: userID, LoginAt: loginAt}
	if err := s.attendance.Create(ctx, record); err != nil {
		s.logger.Error().Err(err).Uint("user_id", userID).Msg("failed to open attendance interval")
	}
}
