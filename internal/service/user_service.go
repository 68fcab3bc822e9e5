package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/dreamtoapp/admin-go-api/internal/authz"
	"github.com/dreamtoapp/admin-go-api/internal/dto"
	"github.com/dreamtoapp/admin-go-api/internal/models"
	"github.com/dreamtoapp/admin-go-api/internal/repository"
)

// User administration failures.
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("email is already registered")
	ErrSelfDeactivation   = errors.New("cannot deactivate your own account")
	ErrWrongPassword      = errors.New("current password is incorrect")
	ErrDateRangeInvalid   = errors.New("end date precedes start date")
	ErrProfileRowNotFound = errors.New("profile entry not found")
)

const profileDateLayout = "2006-01-02"

// UserService covers account administration and the profile sub-resources.
type UserService interface {
	List(ctx context.Context, session *authz.Session, req dto.UserListRequest) (dto.UserListResponse, error)
	Get(ctx context.Context, session *authz.Session, id uint) (dto.UserResponse, error)
	Create(ctx context.Context, session *authz.Session, payload dto.UserCreateRequest) (dto.UserResponse, error)
	Update(ctx context.Context, session *authz.Session, id uint, payload dto.UserUpdateRequest) (dto.UserResponse, error)
	Deactivate(ctx context.Context, session *authz.Session, id uint) error
	ResetPassword(ctx context.Context, session *authz.Session, id uint, payload dto.ResetPasswordRequest) error
	ChangePassword(ctx context.Context, session *authz.Session, payload dto.ChangePasswordRequest) error

	ListEducations(ctx context.Context, session *authz.Session, userID uint) ([]dto.EducationResponse, error)
	AddEducation(ctx context.Context, session *authz.Session, userID uint, payload dto.EducationCreateRequest) (dto.EducationResponse, error)
	DeleteEducation(ctx context.Context, session *authz.Session, userID, id uint) error

	ListLanguages(ctx context.Context, session *authz.Session, userID uint) ([]dto.LanguageResponse, error)
	AddLanguage(ctx context.Context, session *authz.Session, userID uint, payload dto.LanguageCreateRequest) (dto.LanguageResponse, error)
	DeleteLanguage(ctx context.Context, session *authz.Session, userID, id uint) error

	ListWorkExperiences(ctx context.Context, session *authz.Session, userID uint) ([]dto.WorkExperienceResponse, error)
	AddWorkExperience(ctx context.Context, session *authz.Session, userID uint, payload dto.WorkExperienceCreateRequest) (dto.WorkExperienceResponse, error)
	DeleteWorkExperience(ctx context.Context, session *authz.Session, userID, id uint) error
}

type userService struct {
	users     repository.UserRepository
	profiles  repository.ProfileRepository
	validator *validator.Validate
	logger    zerolog.Logger
	hashCost  int
}

// NewUserService builds the user administration service.
func NewUserService(users repository.UserRepository, profiles repository.ProfileRepository, validate *validator.Validate, logger zerolog.Logger) UserService {
	return &userService{
		users:     users,
		profiles:  profiles,
		validator: validate,
		logger:    logger.With().Str("component", "user_service").Logger(),
		hashCost:  bcrypt.DefaultCost,
	}
}

func (s *userService) List(ctx context.Context, session *authz.Session, req dto.UserListRequest) (dto.UserListResponse, error) {
	if err := s.requireAdmin(session); err != nil {
		return dto.UserListResponse{}, err
	}

	filter := repository.UserFilter{
		Search:     strings.TrimSpace(req.Search),
		Role:       authz.NormalizeRole(req.Role),
		Department: strings.TrimSpace(req.Department),
		ActiveOnly: req.ActiveOnly,
		Page:       req.Page,
		PageSize:   normalizeLimit(req.Limit),
	}

	users, total, err := s.users.List(ctx, filter)
	if err != nil {
		return dto.UserListResponse{}, err
	}

	items := make([]dto.UserResponse, 0, len(users))
	for _, user := range users {
		items = append(items, dto.NewUserResponse(user))
	}

	return dto.UserListResponse{
		Items:      items,
		Pagination: paginationMeta(req.Page, filter.PageSize, total),
	}, nil
}

func (s *userService) Get(ctx context.Context, session *authz.Session, id uint) (dto.UserResponse, error) {
	if err := s.requireSelfOrAdmin(session, id); err != nil {
		return dto.UserResponse{}, err
	}

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.UserResponse{}, ErrUserNotFound
		}
		return dto.UserResponse{}, err
	}

	return dto.NewUserResponse(user), nil
}

func (s *userService) Create(ctx context.Context, session *authz.Session, payload dto.UserCreateRequest) (dto.UserResponse, error) {
	if err := s.requireAdmin(session); err != nil {
		return dto.UserResponse{}, err
	}
	if err := s.validator.Struct(payload); err != nil {
		return dto.UserResponse{}, err
	}

	email := strings.ToLower(strings.TrimSpace(payload.Email))
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return dto.UserResponse{}, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.UserResponse{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(payload.Password), s.hashCost)
	if err != nil {
		return dto.UserResponse{}, err
	}

	user := models.User{
		Name:         strings.TrimSpace(payload.Name),
		Email:        email,
		PasswordHash: string(hash),
		Role:         authz.NormalizeRole(payload.Role),
		Department:   strings.TrimSpace(payload.Department),
		IsActive:     true,
	}

	if err := s.users.Create(ctx, &user); err != nil {
		return dto.UserResponse{}, err
	}

	s.logger.Info().Uint("user_id", user.ID).Str("role", user.Role).Msg("user created")

	return dto.NewUserResponse(user), nil
}

func (s *userService) Update(ctx context.Context, session *authz.Session, id uint, payload dto.UserUpdateRequest) (dto.UserResponse, error) {
	if err := s.requireAdmin(session); err != nil {
		return dto.UserResponse{}, err
	}
	if err := s.validator.Struct(payload); err != nil {
		return dto.UserResponse{}, err
	}

	updates := map[string]interface{}{}
	if payload.Name != nil {
		updates["name"] = strings.TrimSpace(*payload.Name)
	}
	if payload.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*payload.Email))
		if existing, err := s.users.GetByEmail(ctx, email); err == nil && existing.ID != id {
			return dto.UserResponse{}, ErrEmailTaken
		} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.UserResponse{}, err
		}
		updates["email"] = email
	}
	if payload.Role != nil {
		updates["role"] = authz.NormalizeRole(*payload.Role)
	}
	if payload.Department != nil {
		updates["department"] = strings.TrimSpace(*payload.Department)
	}
	if payload.IsActive != nil {
		if !*payload.IsActive && id == session.UserID {
			return dto.UserResponse{}, ErrSelfDeactivation
		}
		updates["is_active"] = *payload.IsActive
	}

	if len(updates) == 0 {
		return s.Get(ctx, session, id)
	}

	user, err := s.users.Update(ctx, id, updates)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.UserResponse{}, ErrUserNotFound
		}
		return dto.UserResponse{}, err
	}

	s.logger.Info().Uint("user_id", id).Msg("user updated")

	return dto.NewUserResponse(user), nil
}

func (s *userService) Deactivate(ctx context.Context, session *authz.Session, id uint) error {
	if err := s.requireAdmin(session); err != nil {
		return err
	}
	if id == session.UserID {
		return ErrSelfDeactivation
	}

	if err := s.users.Deactivate(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	s.logger.Info().Uint("user_id", id).Msg("user deactivated")
	return nil
}

func (s *userService) ResetPassword(ctx context.Context, session *authz.Session, id uint, payload dto.ResetPasswordRequest) error {
	if err := s.requireAdmin(session); err != nil {
		return err
	}
	if err := s.validator.Struct(payload); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(payload.Password), s.hashCost)
	if err != nil {
		return err
	}

	if _, err := s.users.Update(ctx, id, map[string]interface{}{"password_hash": string(hash)}); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	s.logger.Info().Uint("user_id", id).Msg("password reset by admin")
	return nil
}

func (s *userService) ChangePassword(ctx context.Context, session *authz.Session, payload dto.ChangePasswordRequest) error {
	if session == nil || session.UserID == 0 {
		return ErrUnauthorized
	}
	if err := s.validator.Struct(payload); err != nil {
		return err
	}

	user, err := s.users.GetByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(payload.CurrentPassword)); err != nil {
		return ErrWrongPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(payload.NewPassword), s.hashCost)
	if err != nil {
		return err
	}

	if _, err := s.users.Update(ctx, user.ID, map[string]interface{}{"password_hash": string(hash)}); err != nil {
		return err
	}

	s.logger.Info().Uint("user_id", user.ID).Msg("password changed")
	return nil
}

func (s *userService) ListEducations(ctx context.Context, session *authz.Session, userID uint) ([]dto.EducationResponse, error) {
	if err := s.requireSelfOrAdmin(session, userID); err != nil {
		return nil, err
	}

	records, err := s.profiles.ListEducations(ctx, userID)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.EducationResponse, 0, len(records))
	for _, record := range records {
		responses = append(responses, dto.NewEducationResponse(record))
	}
	return responses, nil
}

func (s *userService) AddEducation(ctx context.Context, session *authz.Session, userID uint, payload dto.EducationCreateRequest) (dto.EducationResponse, error) {
	if err := s.requireSelfOrAdmin(session, userID); err != nil {
		return dto.EducationResponse{}, err
	}
	if err := s.validator.Struct(payload); err != nil {
		return dto.EducationResponse{}, err
	}

	start, end, err := parseDateRange(payload.StartDate, payload.EndDate)
	if err != nil {
		return dto.EducationResponse{}, err
	}

	record := models.Education{
		UserID:      userID,
		Institution: strings.TrimSpace(payload.Institution),
		Degree:      strings.TrimSpace(payload.Degree),
		Field:       strings.TrimSpace(payload.Field),
		StartDate:   start,
		EndDate:     end,
	}

	if err := s.profiles.AddEducation(ctx, &record); err != nil {
		return dto.EducationResponse{}, err
	}

	return dto.NewEducationResponse(record), nil
}

func (s *userService) DeleteEducation(ctx context.Context, session *authz.Session, userID, id uint) error {
	if err := s.requireSelfOrAdmin(session, userID); err != nil {
		return err
	}

	if err := s.profiles.DeleteEducation(ctx, id, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProfileRowNotFound
		}
		return err
	}
	return nil
}

func (s *userService) ListLanguages(ctx context.Context, session *authz.Session, userID uint) ([]dto.LanguageResponse, error) {
	if err := s.requireSelfOrAdmin(session, userID); err != nil {
		return nil, err
	}

	records, err := s.profiles.ListLanguages(ctx, userID)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.LanguageResponse, 0, len(records))
	for _, record := range records {
		responses = append(responses, dto.NewLanguageResponse(record))
	}
	return responses, nil
}

func (s *userService) AddLanguage(ctx context.Context, session *authz.Session, userID uint, payload dto.LanguageCreateRequest) (dto.LanguageResponse, error) {
	if err := s.requireSelfOrAdmin(session, userID); err != nil {
		return dto.LanguageResponse{}, err
	}
	if err := s.validator.Struct(payload); err != nil {
		return dto.LanguageResponse{}, err
	}

	record := models.Language{
		UserID:      userID,
		Name:        strings.TrimSpace(payload.Name),
		Proficiency: payload.Proficiency,
	}

	if err := s.profiles.AddLanguage(ctx, &record); err != nil {
		return dto.LanguageResponse{}, err
	}

	return dto.NewLanguageResponse(record), nil
}

func (s *userService) DeleteLanguage(ctx context.Context, session *authz.Session, userID, id uint) error {
	if err := s.requireSelfOrAdmin(session, userID); err != nil {
		return err
	}

	if err := s.profiles.DeleteLanguage(ctx, id, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProfileRowNotFound
		}
		return err
	}
	return nil
}

func (s *userService) ListWorkExperiences(ctx context.Context, session *authz.Session, userID uint) ([]dto.WorkExperienceResponse, error) {
	if err := s.requireSelfOrAdmin(session, userID); err != nil {
		return nil, err
	}

	records, err := s.profiles.ListWorkExperiences(ctx, userID)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.WorkExperienceResponse, 0, len(records))
	for _, record := range records {
		responses = append(responses, dto.NewWorkExperienceResponse(record))
	}
	return responses, nil
}

func (s *userService) AddWorkExperience(ctx context.Context, session *authz.Session, userID uint, payload dto.WorkExperienceCreateRequest) (dto.WorkExperienceResponse, error) {
	if err := s.requireSelfOrAdmin(session, userID); err != nil {
		return dto.WorkExperienceResponse{}, err
	}
	if err := s.validator.Struct(payload); err != nil {
		return dto.WorkExperienceResponse{}, err
	}

	start, end, err := parseDateRange(payload.StartDate, payload.EndDate)
	if err != nil {
		return dto.WorkExperienceResponse{}, err
	}

	record := models.WorkExperience{
		UserID:    userID,
		Company:   strings.TrimSpace(payload.Company),
		Position:  strings.TrimSpace(payload.Position),
		Summary:   payload.Summary,
		StartDate: start,
		EndDate:   end,
	}

	if err := s.profiles.AddWorkExperience(ctx, &record); err != nil {
		return dto.WorkExperienceResponse{}, err
	}

	return dto.NewWorkExperienceResponse(record), nil
}

func (s *userService) DeleteWorkExperience(ctx context.Context, session *authz.Session, userID, id uint) error {
	if err := s.requireSelfOrAdmin(session, userID); err != nil {
		return err
	}

	if err := s.profiles.DeleteWorkExperience(ctx, id, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProfileRowNotFound
		}
		return err
	}
	return nil
}

func (s *userService) requireAdmin(session *authz.Session) error {
	switch authz.Authorize(session, models.RoleAdmin) {
	case authz.Allowed:
		return nil
	case authz.Unauthorized:
		return ErrUnauthorized
	default:
		return ErrForbidden
	}
}

func (s *userService) requireSelfOrAdmin(session *authz.Session, ownerID uint) error {
	switch authz.AuthorizeSelfOrAdmin(session, ownerID) {
	case authz.Allowed:
		return nil
	case authz.Unauthorized:
		return ErrUnauthorized
	default:
		return ErrForbidden
	}
}

func parseDateRange(startDate string, endDate *string) (time.Time, *time.Time, error) {
	start, err := time.Parse(profileDateLayout, startDate)
	if err != nil {
		return time.Time{}, nil, fmt.Errorf("invalid start date: %w", err)
	}

	if endDate == nil || *endDate == "" {
		return start, nil, nil
	}

	end, err := time.Parse(profileDateLayout, *endDate)
	if err != nil {
		return time.Time{}, nil, fmt.Errorf("invalid end date: %w", err)
	}
	if end.Before(start) {
		return time.Time{}, nil, ErrDateRangeInvalid
	}

	return start, &end, nil
}
