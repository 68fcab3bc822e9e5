package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/dreamtoapp/admin-go-api/internal/authz"
	"github.com/dreamtoapp/admin-go-api/internal/dto"
	"github.com/dreamtoapp/admin-go-api/internal/models"
	"github.com/dreamtoapp/admin-go-api/internal/repository"
)

// Task workflow failures.
var (
	ErrTaskNotFound     = errors.New("task not found")
	ErrAssigneeNotFound = errors.New("assignee not found")
	ErrSameAssignee     = errors.New("task is already assigned to this user")
)

// History actions recorded by the workflow.
const (
	historyTaskCreated      = "Task Created"
	historyTaskUpdated      = "Task Updated"
	historyTaskReassigned   = "Task Reassigned"
	historyBulkStatusUpdate = "Bulk Status Update"
	historyBulkReassign     = "Bulk Reassign"
	historyAttachmentAdded  = "Attachment Added"
)

// NotificationEntry captures a workflow side-effect message to persist.
type NotificationEntry struct {
	TaskID      uint
	RecipientID uint
	SenderID    uint
	Type        string
	Message     string
}

// Notifier records notifications emitted by the task workflow. Failures are
// advisory and never fail the triggering operation.
type Notifier interface {
	Notify(ctx context.Context, entry NotificationEntry) error
}

// TaskService exposes the task workflow use cases.
type TaskService interface {
	List(ctx context.Context, session *authz.Session, req dto.TaskListRequest) (dto.TaskListResponse, error)
	Get(ctx context.Context, session *authz.Session, id uint) (dto.TaskResponse, error)
	Create(ctx context.Context, session *authz.Session, payload dto.TaskCreateRequest) (dto.TaskResponse, error)
	Update(ctx context.Context, session *authz.Session, id uint, payload dto.TaskUpdateRequest) (dto.TaskResponse, error)
	Reassign(ctx context.Context, session *authz.Session, id uint, payload dto.TaskReassignRequest) (dto.TaskResponse, error)
	Delete(ctx context.Context, session *authz.Session, id uint) error
	Bulk(ctx context.Context, session *authz.Session, payload dto.TaskBulkRequest) (dto.TaskBulkResponse, error)
	History(ctx context.Context, session *authz.Session, id uint) ([]dto.TaskHistoryResponse, error)
}

type taskService struct {
	tasks     repository.TaskRepository
	users     repository.UserRepository
	history   repository.TaskHistoryRepository
	notifier  Notifier
	validator *validator.Validate
	logger    zerolog.Logger
	now       func() time.Time
}

// NewTaskService builds the task workflow service.
func NewTaskService(tasks repository.TaskRepository, users repository.UserRepository, history repository.TaskHistoryRepository, notifier Notifier, validate *validator.Validate, logger zerolog.Logger) TaskService {
	return &taskService{
		tasks:     tasks,
		users:     users,
		history:   history,
		notifier:  notifier,
		validator: validate,
		logger:    logger.With().Str("component", "task_service").Logger(),
		now:       time.Now,
	}
}

func (s *taskService) List(ctx context.Context, session *authz.Session, req dto.TaskListRequest) (dto.TaskListResponse, error) {
	if session == nil {
		return dto.TaskListResponse{}, ErrUnauthorized
	}

	filter := repository.TaskFilter{
		Status:       strings.TrimSpace(req.Status),
		Priority:     strings.TrimSpace(req.Priority),
		Type:         strings.TrimSpace(req.Type),
		AssignedToID: req.AssignedToID,
		Search:       strings.TrimSpace(req.Search),
		Page:         req.Page,
		PageSize:     normalizeLimit(req.Limit),
	}

	// Non-admin listings are scoped by the resource rules up front rather
	// than filtered row by row.
	switch authz.NormalizeRole(session.Role) {
	case models.RoleAdmin:
	case models.RoleStaff:
		filter.VisibleToID = session.UserID
	default:
		filter.AssignedOnlyID = session.UserID
	}

	tasks, total, err := s.tasks.List(ctx, filter)
	if err != nil {
		return dto.TaskListResponse{}, err
	}

	return dto.TaskListResponse{
		Items:      dto.NewTaskResponseSlice(tasks),
		Pagination: paginationMeta(req.Page, filter.PageSize, total),
	}, nil
}

func (s *taskService) Get(ctx context.Context, session *authz.Session, id uint) (dto.TaskResponse, error) {
	task, err := s.loadAuthorized(ctx, session, id)
	if err != nil {
		return dto.TaskResponse{}, err
	}

	return dto.NewTaskResponse(task), nil
}

func (s *taskService) Create(ctx context.Context, session *authz.Session, payload dto.TaskCreateRequest) (dto.TaskResponse, error) {
	switch authz.Authorize(session, models.RoleStaff) {
	case authz.Allowed:
	case authz.Unauthorized:
		return dto.TaskResponse{}, ErrUnauthorized
	default:
		return dto.TaskResponse{}, ErrForbidden
	}
	if err := s.validator.Struct(payload); err != nil {
		return dto.TaskResponse{}, err
	}

	assignee, err := s.users.GetActiveByID(ctx, payload.AssignedToID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.TaskResponse{}, ErrAssigneeNotFound
		}
		return dto.TaskResponse{}, err
	}

	task := models.Task{
		Title:        strings.TrimSpace(payload.Title),
		Description:  payload.Description,
		Status:       models.TaskStatusPending,
		Priority:     defaultPriority(payload.Priority),
		Type:         strings.TrimSpace(payload.Type),
		AssignedToID: assignee.ID,
		AssignedByID: session.UserID,
	}

	if payload.DueDate != nil {
		dueDate, err := time.Parse(time.RFC3339, *payload.DueDate)
		if err != nil {
			return dto.TaskResponse{}, fmt.Errorf("invalid due date: %w", err)
		}
		task.DueDate = &dueDate
	}

	if err := s.tasks.Create(ctx, &task); err != nil {
		return dto.TaskResponse{}, err
	}

	s.record(ctx, models.TaskHistory{
		TaskID:  task.ID,
		ActorID: session.UserID,
		Action:  historyTaskCreated,
		Details: fmt.Sprintf("assigned to %s", assignee.Name),
		Metadata: datatypes.JSONMap{
			"assigned_to_id": assignee.ID,
			"priority":       task.Priority,
		},
	})
	s.notify(ctx, NotificationEntry{
		TaskID:      task.ID,
		RecipientID: assignee.ID,
		SenderID:    session.UserID,
		Type:        models.NotificationTypeAssignment,
		Message:     fmt.Sprintf("You have been assigned the task %q", task.Title),
	})

	s.logger.Info().Uint("task_id", task.ID).Uint("assignee_id", assignee.ID).Msg("task created")

	return s.Get(ctx, session, task.ID)
}

func (s *taskService) Update(ctx context.Context, session *authz.Session, id uint, payload dto.TaskUpdateRequest) (dto.TaskResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.TaskResponse{}, err
	}

	task, err := s.loadAuthorized(ctx, session, id)
	if err != nil {
		return dto.TaskResponse{}, err
	}

	changes := make([]string, 0, 7)
	var statusChangedTo string
	var newAssignee *models.User

	if payload.Title != nil && *payload.Title != task.Title {
		changes = append(changes, fmt.Sprintf("title: %q -> %q", task.Title, *payload.Title))
		task.Title = *payload.Title
	}
	if payload.Description != nil && *payload.Description != task.Description {
		changes = append(changes, "description updated")
		task.Description = *payload.Description
	}
	if payload.Status != nil && *payload.Status != task.Status {
		changes = append(changes, fmt.Sprintf("status: %s -> %s", task.Status, *payload.Status))
		task.Status = *payload.Status
		statusChangedTo = *payload.Status
		if task.Status == models.TaskStatusCompleted {
			completedAt := s.now()
			task.CompletedAt = &completedAt
		}
		// Leaving COMPLETED keeps the old completed_at on record.
	}
	if payload.Priority != nil && *payload.Priority != task.Priority {
		changes = append(changes, fmt.Sprintf("priority: %s -> %s", task.Priority, *payload.Priority))
		task.Priority = *payload.Priority
	}
	if payload.Type != nil && *payload.Type != task.Type {
		changes = append(changes, fmt.Sprintf("type: %q -> %q", task.Type, *payload.Type))
		task.Type = *payload.Type
	}
	if payload.AssignedToID != nil && *payload.AssignedToID != task.AssignedToID {
		assignee, err := s.users.GetActiveByID(ctx, *payload.AssignedToID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return dto.TaskResponse{}, ErrAssigneeNotFound
			}
			return dto.TaskResponse{}, err
		}
		changes = append(changes, fmt.Sprintf("assignee: %s -> %s", task.AssignedTo.Name, assignee.Name))
		task.AssignedToID = assignee.ID
		newAssignee = &assignee
	}
	if payload.DueDate != nil {
		dueDate, err := time.Parse(time.RFC3339, *payload.DueDate)
		if err != nil {
			return dto.TaskResponse{}, fmt.Errorf("invalid due date: %w", err)
		}
		if task.DueDate == nil || !task.DueDate.Equal(dueDate) {
			changes = append(changes, fmt.Sprintf("due date: %s", dueDate.Format(time.RFC3339)))
			task.DueDate = &dueDate
		}
	}

	if len(changes) == 0 {
		return dto.NewTaskResponse(task), nil
	}

	// Preloaded relations must not be written back alongside the row.
	task.AssignedTo = models.User{}
	task.AssignedBy = models.User{}

	if err := s.tasks.Update(ctx, &task); err != nil {
		return dto.TaskResponse{}, err
	}

	s.record(ctx, models.TaskHistory{
		TaskID:  task.ID,
		ActorID: session.UserID,
		Action:  historyTaskUpdated,
		Details: strings.Join(changes, "\n"),
	})

	if newAssignee != nil {
		s.notify(ctx, NotificationEntry{
			TaskID:      task.ID,
			RecipientID: newAssignee.ID,
			SenderID:    session.UserID,
			Type:        models.NotificationTypeAssignment,
			Message:     fmt.Sprintf("You have been assigned the task %q", task.Title),
		})
	}
	if statusChangedTo != "" && task.AssignedToID != session.UserID {
		s.notify(ctx, NotificationEntry{
			TaskID:      task.ID,
			RecipientID: task.AssignedToID,
			SenderID:    session.UserID,
			Type:        models.NotificationTypeStatusChange,
			Message:     fmt.Sprintf("Task %q moved to %s", task.Title, statusChangedTo),
		})
	}

	s.logger.Info().Uint("task_id", task.ID).Int("changes", len(changes)).Msg("task updated")

	return s.Get(ctx, session, task.ID)
}

func (s *taskService) Reassign(ctx context.Context, session *authz.Session, id uint, payload dto.TaskReassignRequest) (dto.TaskResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.TaskResponse{}, err
	}

	task, err := s.loadAuthorized(ctx, session, id)
	if err != nil {
		return dto.TaskResponse{}, err
	}

	if payload.AssignedToID == task.AssignedToID {
		return dto.TaskResponse{}, ErrSameAssignee
	}

	assignee, err := s.users.GetActiveByID(ctx, payload.AssignedToID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.TaskResponse{}, ErrAssigneeNotFound
		}
		return dto.TaskResponse{}, err
	}

	previousName := task.AssignedTo.Name

	// Reassignment restarts the lifecycle regardless of prior state.
	updates := map[string]interface{}{
		"assigned_to_id": assignee.ID,
		"status":         models.TaskStatusPending,
		"completed_at":   nil,
		"updated_at":     s.now(),
	}
	if err := s.tasks.UpdateFields(ctx, task.ID, updates); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.TaskResponse{}, ErrTaskNotFound
		}
		return dto.TaskResponse{}, err
	}

	s.record(ctx, models.TaskHistory{
		TaskID:   task.ID,
		ActorID:  session.UserID,
		Action:   historyTaskReassigned,
		OldValue: previousName,
		NewValue: assignee.Name,
		Details:  strings.TrimSpace(payload.Reason),
	})
	s.notify(ctx, NotificationEntry{
		TaskID:      task.ID,
		RecipientID: assignee.ID,
		SenderID:    session.UserID,
		Type:        models.NotificationTypeAssignment,
		Message:     fmt.Sprintf("Task %q has been reassigned to you", task.Title),
	})

	s.logger.Info().Uint("task_id", task.ID).Uint("assignee_id", assignee.ID).Msg("task reassigned")

	return s.Get(ctx, session, task.ID)
}

func (s *taskService) Delete(ctx context.Context, session *authz.Session, id uint) error {
	switch authz.Authorize(session, models.RoleAdmin) {
	case authz.Allowed:
	case authz.Unauthorized:
		return ErrUnauthorized
	default:
		return ErrForbidden
	}

	if err := s.tasks.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		return err
	}

	s.logger.Info().Uint("task_id", id).Msg("task deleted")
	return nil
}

func (s *taskService) Bulk(ctx context.Context, session *authz.Session, payload dto.TaskBulkRequest) (dto.TaskBulkResponse, error) {
	switch authz.Authorize(session, models.RoleAdmin) {
	case authz.Allowed:
	case authz.Unauthorized:
		return dto.TaskBulkResponse{}, ErrUnauthorized
	default:
		return dto.TaskBulkResponse{}, ErrForbidden
	}
	if err := s.validator.Struct(payload); err != nil {
		return dto.TaskBulkResponse{}, err
	}

	switch payload.Action {
	case dto.BulkActionStatusUpdate:
		if payload.Status == "" {
			return dto.TaskBulkResponse{}, fmt.Errorf("status is required for %s", payload.Action)
		}
	case dto.BulkActionReassign:
		if payload.AssignedToID == 0 {
			return dto.TaskBulkResponse{}, fmt.Errorf("assigned_to_id is required for %s", payload.Action)
		}
		if _, err := s.users.GetActiveByID(ctx, payload.AssignedToID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return dto.TaskBulkResponse{}, ErrAssigneeNotFound
			}
			return dto.TaskBulkResponse{}, err
		}
	}

	existing, err := s.tasks.ExistingIDs(ctx, payload.TaskIDs)
	if err != nil {
		return dto.TaskBulkResponse{}, err
	}

	existingSet := make(map[uint]struct{}, len(existing))
	for _, id := range existing {
		existingSet[id] = struct{}{}
	}

	var skipped []uint
	for _, id := range payload.TaskIDs {
		if _, ok := existingSet[id]; !ok {
			skipped = append(skipped, id)
		}
	}

	// Each task is mutated and logged individually; a mid-batch failure
	// leaves earlier tasks applied. History stays advisory.
	affected := 0
	for _, id := range existing {
		switch payload.Action {
		case dto.BulkActionStatusUpdate:
			updates := map[string]interface{}{"status": payload.Status, "updated_at": s.now()}
			if payload.Status == models.TaskStatusCompleted {
				updates["completed_at"] = s.now()
			}
			if err := s.tasks.UpdateFields(ctx, id, updates); err != nil {
				return dto.TaskBulkResponse{}, err
			}
			s.record(ctx, models.TaskHistory{
				TaskID:   id,
				ActorID:  session.UserID,
				Action:   historyBulkStatusUpdate,
				NewValue: payload.Status,
			})
		case dto.BulkActionReassign:
			updates := map[string]interface{}{
				"assigned_to_id": payload.AssignedToID,
				"status":         models.TaskStatusPending,
				"completed_at":   nil,
				"updated_at":     s.now(),
			}
			if err := s.tasks.UpdateFields(ctx, id, updates); err != nil {
				return dto.TaskBulkResponse{}, err
			}
			s.record(ctx, models.TaskHistory{
				TaskID:   id,
				ActorID:  session.UserID,
				Action:   historyBulkReassign,
				NewValue: fmt.Sprintf("%d", payload.AssignedToID),
			})
			s.notify(ctx, NotificationEntry{
				TaskID:      id,
				RecipientID: payload.AssignedToID,
				SenderID:    session.UserID,
				Type:        models.NotificationTypeAssignment,
				Message:     "A task has been reassigned to you",
			})
		case dto.BulkActionDelete:
			if err := s.tasks.Delete(ctx, id); err != nil {
				return dto.TaskBulkResponse{}, err
			}
		}
		affected++
	}

	s.logger.Info().Str("action", payload.Action).Int("affected", affected).Int("skipped", len(skipped)).Msg("bulk task operation applied")

	return dto.TaskBulkResponse{Action: payload.Action, Affected: affected, Skipped: skipped}, nil
}

func (s *taskService) History(ctx context.Context, session *authz.Session, id uint) ([]dto.TaskHistoryResponse, error) {
	if _, err := s.loadAuthorized(ctx, session, id); err != nil {
		return nil, err
	}

	entries, err := s.history.ListByTask(ctx, id)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.TaskHistoryResponse, 0, len(entries))
	for _, entry := range entries {
		responses = append(responses, dto.NewTaskHistoryResponse(entry))
	}

	return responses, nil
}

// loadAuthorized fetches the task and applies the resource-level rules.
func (s *taskService) loadAuthorized(ctx context.Context, session *authz.Session, id uint) (models.Task, error) {
	if session == nil {
		return models.Task{}, ErrUnauthorized
	}

	task, err := s.tasks.GetByID(ctx, id)
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

func (s *taskService) record(ctx context.Context, entry models.TaskHistory) {
	if err := s.history.Append(ctx, &entry); err != nil {
		s.logger.Error().Err(err).Uint("task_id", entry.TaskID).Msg("failed to append task history")
	}
}

func (s *taskService) notify(ctx context.Context, entry NotificationEntry) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Notify(ctx, entry); err != nil {
		s.logger.Error().Err(err).Uint("task_id", entry.TaskID).Msg("failed to record notification")
	}
}

func defaultPriority(priority string) string {
	if priority == "" {
		return models.TaskPriorityMedium
	}
	return priority
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return 20
	}
	if limit > 100 {
		return 100
	}
	return limit
}

func paginationMeta(page, pageSize int, total int64) dto.PaginationMeta {
	meta := dto.PaginationMeta{
		Page:       maxInt(page, 1),
		PageSize:   pageSize,
		TotalItems: total,
	}
	if pageSize > 0 {
		meta.TotalPages = int(math.Ceil(float64(total) / float64(pageSize)))
	} else {
		meta.TotalPages = 1
	}
	return meta
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
