package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"

	"github.com/dreamtoapp/admin-go-api/internal/authz"
	"github.com/dreamtoapp/admin-go-api/internal/dto"
	"github.com/dreamtoapp/admin-go-api/internal/models"
	"github.com/dreamtoapp/admin-go-api/internal/repository"
)

// ErrNotificationNotFound is returned when the id does not resolve to a
// notification addressed to the caller.
var ErrNotificationNotFound = errors.New("notification not found")

// Subject notifications are published on when NATS is configured.
const notificationSubject = "portal.notifications"

// NotificationService persists addressed notification records and serves the
// inbox reads. It also implements Notifier for the task workflow.
type NotificationService interface {
	Notifier
	Comment(ctx context.Context, session *authz.Session, taskID uint, payload dto.NotificationCreateRequest) (dto.NotificationResponse, error)
	ListByTask(ctx context.Context, session *authz.Session, taskID uint) ([]dto.NotificationResponse, error)
	Inbox(ctx context.Context, session *authz.Session, limit, offset int) ([]dto.NotificationResponse, error)
	MarkRead(ctx context.Context, session *authz.Session, id uint) (dto.NotificationResponse, error)
}

type notificationService struct {
	notifications repository.NotificationRepository
	tasks         repository.TaskRepository
	nc            *nats.Conn
	sanitizer     *bluemonday.Policy
	validator     *validator.Validate
	logger        zerolog.Logger
}

// NewNotificationService builds the notification service. nc may be nil when
// no broker is configured; events are then persisted only.
func NewNotificationService(notifications repository.NotificationRepository, tasks repository.TaskRepository, nc *nats.Conn, validate *validator.Validate, logger zerolog.Logger) NotificationService {
	return &notificationService{
		notifications: notifications,
		tasks:         tasks,
		nc:            nc,
		sanitizer:     bluemonday.StrictPolicy(),
		validator:     validate,
		logger:        logger.With().Str("component", "notification_service").Logger(),
	}
}

// Notify persists a workflow side-effect notification and publishes it to the
// broker when one is connected.
func (s *notificationService) Notify(ctx context.Context, entry NotificationEntry) error {
	ctx, span := otel.Tracer("notification_service").Start(ctx, "notification.notify")
	defer span.End()
	span.SetAttributes(
		attribute.Int64("task.id", int64(entry.TaskID)),
		attribute.String("notification.type", entry.Type),
	)

	notification := models.TaskNotification{
		TaskID:      entry.TaskID,
		RecipientID: entry.RecipientID,
		SenderID:    entry.SenderID,
		Type:        entry.Type,
		Message:     s.sanitizer.Sanitize(entry.Message),
	}

	if err := s.notifications.Create(ctx, &notification); err != nil {
		return err
	}

	s.publish(notification)
	return nil
}

func (s *notificationService) Comment(ctx context.Context, session *authz.Session, taskID uint, payload dto.NotificationCreateRequest) (dto.NotificationResponse, error) {
	task, err := s.loadAuthorized(ctx, session, taskID)
	if err != nil {
		return dto.NotificationResponse{}, err
	}
	if err := s.validator.Struct(payload); err != nil {
		return dto.NotificationResponse{}, err
	}

	// Comments address the counterparty: the assigner when the caller is
	// the assignee, the assignee otherwise.
	recipientID := task.AssignedToID
	if recipientID == session.UserID {
		recipientID = task.AssignedByID
	}

	notification := models.TaskNotification{
		TaskID:      task.ID,
		RecipientID: recipientID,
		SenderID:    session.UserID,
		Type:        payload.Type,
		Message:     s.sanitizer.Sanitize(strings.TrimSpace(payload.Message)),
	}

	if err := s.notifications.Create(ctx, &notification); err != nil {
		return dto.NotificationResponse{}, err
	}

	s.publish(notification)

	return dto.NewNotificationResponse(notification), nil
}

func (s *notificationService) ListByTask(ctx context.Context, session *authz.Session, taskID uint) ([]dto.NotificationResponse, error) {
	if _, err := s.loadAuthorized(ctx, session, taskID); err != nil {
		return nil, err
	}

	notifications, err := s.notifications.ListByTask(ctx, taskID)
	if err != nil {
		return nil, err
	}

	return dto.NewNotificationResponseSlice(notifications), nil
}

func (s *notificationService) Inbox(ctx context.Context, session *authz.Session, limit, offset int) ([]dto.NotificationResponse, error) {
	if session == nil || session.UserID == 0 {
		return nil, ErrUnauthorized
	}

	notifications, err := s.notifications.ListByRecipient(ctx, session.UserID, limit, offset)
	if err != nil {
		return nil, err
	}

	return dto.NewNotificationResponseSlice(notifications), nil
}

func (s *notificationService) MarkRead(ctx context.Context, session *authz.Session, id uint) (dto.NotificationResponse, error) {
	if session == nil || session.UserID == 0 {
		return dto.NotificationResponse{}, ErrUnauthorized
	}

	notification, err := s.notifications.MarkRead(ctx, id, session.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.NotificationResponse{}, ErrNotificationNotFound
		}
		return dto.NotificationResponse{}, err
	}

	return dto.NewNotificationResponse(notification), nil
}

func (s *notificationService) loadAuthorized(ctx context.Context, session *authz.Session, taskID uint) (models.Task, error) {
	if session == nil || session.UserID == 0 {
		return models.Task{}, ErrUnauthorized
	}

	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Task{}, ErrTaskNotFound
		}
		return models.Task{}, err
	}

	switch authz.AuthorizeTask(session, task) {
	case authz.Allowed:
		return task, nil
	case authz.Unauthorized:
		return models.Task{}, ErrUnauthorized
	default:
		return models.Task{}, ErrForbidden
	}
}

type notificationEvent struct {
	ID          uint      `json:"id"`
	TaskID      uint      `json:"task_id"`
	RecipientID uint      `json:"recipient_id"`
	SenderID    uint      `json:"sender_id"`
	Type        string    `json:"type"`
	Message     string    `json:"message"`
	CreatedAt   time.Time `json:"created_at"`
}

func (s *notificationService) publish(notification models.TaskNotification) {
	if s.nc == nil {
		return
	}

	payload, err := json.Marshal(notificationEvent{
		ID:          notification.ID,
		TaskID:      notification.TaskID,
		RecipientID: notification.RecipientID,
		SenderID:    notification.SenderID,
		Type:        notification.Type,
		Message:     notification.Message,
		CreatedAt:   notification.CreatedAt,
	})
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to encode notification event")
		return
	}

	if err := s.nc.Publish(notificationSubject, payload); err != nil {
		s.logger.Error().Err(err).Uint("notification_id", notification.ID).Msg("failed to publish notification event")
	}
}
