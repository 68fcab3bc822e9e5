package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime/multipart"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/dreamtoapp/admin-go-api/internal/authz"
	"github.com/dreamtoapp/admin-go-api/internal/dto"
	"github.com/dreamtoapp/admin-go-api/internal/models"
	"github.com/dreamtoapp/admin-go-api/internal/repository"
)

// Attachment upload failures.
var (
	ErrAttachmentRequired   = errors.New("file is required")
	ErrAttachmentTooLarge   = errors.New("file exceeds maximum allowed size")
	ErrAttachmentNotAllowed = errors.New("file type not allowed")
	ErrStorageUnavailable   = errors.New("attachment storage is not configured")
)

// MIME prefixes and types accepted for task attachments.
var allowedAttachmentTypes = []string{
	"image/",
	"application/pdf",
	"text/plain",
	"text/csv",
	"application/zip",
	"application/vnd.openxmlformats-officedocument",
}

// FileUploader abstracts the attachment storage backend.
type FileUploader interface {
	Upload(ctx context.Context, name string, reader io.Reader) (string, error)
}

// AttachmentService validates and stores task attachment uploads.
type AttachmentService interface {
	Attach(ctx context.Context, session *authz.Session, taskID uint, file *multipart.FileHeader) (dto.AttachmentResponse, error)
	ListByTask(ctx context.Context, session *authz.Session, taskID uint) ([]dto.AttachmentResponse, error)
}

type attachmentService struct {
	attachments repository.AttachmentRepository
	tasks       repository.TaskRepository
	history     repository.TaskHistoryRepository
	uploader    FileUploader
	maxSize     int64
	logger      zerolog.Logger
	tracer      trace.Tracer
}

// NewAttachmentService builds the attachment service.
func NewAttachmentService(attachments repository.AttachmentRepository, tasks repository.TaskRepository, history repository.TaskHistoryRepository, uploader FileUploader, maxSizeMB int, logger zerolog.Logger) AttachmentService {
	if maxSizeMB <= 0 {
		maxSizeMB = 10
	}
	return &attachmentService{
		attachments: attachments,
		tasks:       tasks,
		history:     history,
		uploader:    uploader,
		maxSize:     int64(maxSizeMB) * 1024 * 1024,
		logger:      logger.With().Str("component", "attachment_service").Logger(),
		tracer:      otel.Tracer("github.com/dreamtoapp/admin-go-api/internal/service/attachment"),
	}
}

func (s *attachmentService) Attach(ctx context.Context, session *authz.Session, taskID uint, file *multipart.FileHeader) (dto.AttachmentResponse, error) {
	task, err := s.loadAuthorized(ctx, session, taskID)
	if err != nil {
		return dto.AttachmentResponse{}, err
	}
	if s.uploader == nil {
		return dto.AttachmentResponse{}, ErrStorageUnavailable
	}

	ctx, span := s.tracer.Start(ctx, "attachment.store")
	defer span.End()
	span.SetAttributes(attribute.Int64("attachment.max_bytes", s.maxSize))

	if file == nil {
		span.RecordError(ErrAttachmentRequired)
		span.SetStatus(codes.Error, "validation failed")
		return dto.AttachmentResponse{}, ErrAttachmentRequired
	}
	if file.Size > s.maxSize {
		span.RecordError(ErrAttachmentTooLarge)
		span.SetStatus(codes.Error, "payload too large")
		return dto.AttachmentResponse{}, ErrAttachmentTooLarge
	}

	handle, err := file.Open()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "open failed")
		return dto.AttachmentResponse{}, err
	}
	defer handle.Close()

	buf := bytes.NewBuffer(nil)
	if _, err := io.Copy(buf, io.LimitReader(handle, s.maxSize+1)); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "read failed")
		return dto.AttachmentResponse{}, err
	}
	if int64(buf.Len()) > s.maxSize {
		span.RecordError(ErrAttachmentTooLarge)
		span.SetStatus(codes.Error, "payload too large")
		return dto.AttachmentResponse{}, ErrAttachmentTooLarge
	}

	// Detect the type from content; the client-supplied header is ignored.
	detected := mimetype.Detect(buf.Bytes())
	if !attachmentTypeAllowed(detected.String()) {
		span.RecordError(ErrAttachmentNotAllowed)
		span.SetStatus(codes.Error, "type not allowed")
		return dto.AttachmentResponse{}, ErrAttachmentNotAllowed
	}
	span.SetAttributes(attribute.String("attachment.mime_type", detected.String()))

	url, err := s.uploader.Upload(ctx, file.Filename, bytes.NewReader(buf.Bytes()))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "upload failed")
		return dto.AttachmentResponse{}, err
	}

	attachment := models.TaskAttachment{
		TaskID:     task.ID,
		UploaderID: session.UserID,
		FileName:   file.Filename,
		FileURL:    url,
		MimeType:   detected.String(),
		SizeBytes:  int64(buf.Len()),
	}

	if err := s.attachments.Create(ctx, &attachment); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "persist failed")
		return dto.AttachmentResponse{}, err
	}

	entry := models.TaskHistory{
		TaskID:  task.ID,
		ActorID: session.UserID,
		Action:  historyAttachmentAdded,
		Details: file.Filename,
		Metadata: datatypes.JSONMap{
			"mime_type":  attachment.MimeType,
			"size_bytes": attachment.SizeBytes,
		},
	}
	if err := s.history.Append(ctx, &entry); err != nil {
		s.logger.Error().Err(err).Uint("task_id", task.ID).Msg("failed to record attachment history")
	}

	s.logger.Info().Uint("task_id", task.ID).Str("mime_type", attachment.MimeType).Msg("attachment uploaded")

	return dto.NewAttachmentResponse(attachment), nil
}

func (s *attachmentService) ListByTask(ctx context.Context, session *authz.Session, taskID uint) ([]dto.AttachmentResponse, error) {
	if _, err := s.loadAuthorized(ctx, session, taskID); err != nil {
		return nil, err
	}

	attachments, err := s.attachments.ListByTask(ctx, taskID)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.AttachmentResponse, 0, len(attachments))
	for _, attachment := range attachments {
		responses = append(responses, dto.NewAttachmentResponse(attachment))
	}

	return responses, nil
}

func (s *attachmentService) loadAuthorized(ctx context.Context, session *authz.Session, taskID uint) (models.Task, error) {
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

func attachmentTypeAllowed(mime string) bool {
	for _, allowed := range allowedAttachmentTypes {
		if strings.HasPrefix(mime, allowed) {
			return true
		}
	}
	return false
}
