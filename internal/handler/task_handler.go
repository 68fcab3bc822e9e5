package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/dreamtoapp/admin-go-api/internal/dto"
	"github.com/dreamtoapp/admin-go-api/internal/service"
	"github.com/dreamtoapp/admin-go-api/internal/utils"
)

// TaskHandler wires the task workflow routes.
type TaskHandler struct {
	tasks         service.TaskService
	notifications service.NotificationService
	attachments   service.AttachmentService
	logger        zerolog.Logger
}

// NewTaskHandler constructs the handler.
func NewTaskHandler(tasks service.TaskService, notifications service.NotificationService, attachments service.AttachmentService, logger zerolog.Logger) *TaskHandler {
	return &TaskHandler{
		tasks:         tasks,
		notifications: notifications,
		attachments:   attachments,
		logger:        logger.With().Str("component", "task_handler").Logger(),
	}
}

// Register attaches the task endpoints to the router group.
func (h *TaskHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Post("", h.create)
	router.Get("/:id", h.get)
	router.Put("/:id", h.update)
	router.Delete("/:id", h.delete)
	router.Post("/:id/assign", h.reassign)
	router.Get("/:id/assign", h.history)
	router.Get("/:id/history", h.history)
	router.Get("/:id/notifications", h.listNotifications)
	router.Post("/:id/notifications", h.comment)
	router.Post("/:id/attachments", h.attach)
	router.Get("/:id/attachments", h.listAttachments)
}

// RegisterAdmin attaches the admin-only task view and bulk endpoints.
func (h *TaskHandler) RegisterAdmin(router fiber.Router) {
	router.Get("", h.list)
	router.Post("", h.bulk)
}

func (h *TaskHandler) list(c *fiber.Ctx) error {
	var req dto.TaskListRequest
	if err := c.QueryParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid query parameters")
	}

	resp, err := h.tasks.List(c.Context(), sessionFromRequest(c), req)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "tasks retrieved", resp)
}

func (h *TaskHandler) get(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	resp, err := h.tasks.Get(c.Context(), sessionFromRequest(c), id)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "task retrieved", resp)
}

func (h *TaskHandler) create(c *fiber.Ctx) error {
	var payload dto.TaskCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	resp, err := h.tasks.Create(c.Context(), sessionFromRequest(c), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "task created", resp)
}

func (h *TaskHandler) update(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.TaskUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	resp, err := h.tasks.Update(c.Context(), sessionFromRequest(c), id, payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "task updated", resp)
}

func (h *TaskHandler) reassign(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.TaskReassignRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	resp, err := h.tasks.Reassign(c.Context(), sessionFromRequest(c), id, payload)
	if err != nil {
		if errors.Is(err, service.ErrSameAssignee) {
			return utils.SendError(c, fiber.StatusBadRequest, "task is already assigned to this user")
		}
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "task reassigned", resp)
}

func (h *TaskHandler) delete(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.tasks.Delete(c.Context(), sessionFromRequest(c), id); err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "task deleted", fiber.Map{"id": id})
}

func (h *TaskHandler) bulk(c *fiber.Ctx) error {
	var payload dto.TaskBulkRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	resp, err := h.tasks.Bulk(c.Context(), sessionFromRequest(c), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "bulk operation applied", resp)
}

func (h *TaskHandler) history(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	entries, err := h.tasks.History(c.Context(), sessionFromRequest(c), id)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "task history retrieved", entries)
}

func (h *TaskHandler) listNotifications(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	notifications, err := h.notifications.ListByTask(c.Context(), sessionFromRequest(c), id)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "task notifications retrieved", notifications)
}

func (h *TaskHandler) comment(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.NotificationCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	resp, err := h.notifications.Comment(c.Context(), sessionFromRequest(c), id, payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "notification created", resp)
}

func (h *TaskHandler) attach(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	file, err := c.FormFile("file")
	if err != nil {
		file = nil
	}

	resp, err := h.attachments.Attach(c.Context(), sessionFromRequest(c), id, file)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAttachmentRequired):
			return utils.SendError(c, fiber.StatusBadRequest, "file is required")
		case errors.Is(err, service.ErrAttachmentTooLarge):
			return utils.SendError(c, fiber.StatusRequestEntityTooLarge, "file exceeds maximum allowed size")
		case errors.Is(err, service.ErrAttachmentNotAllowed):
			return utils.SendError(c, fiber.StatusUnsupportedMediaType, "file type not allowed")
		case errors.Is(err, service.ErrStorageUnavailable):
			return utils.SendError(c, fiber.StatusServiceUnavailable, "attachment storage is not configured")
		}
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "attachment uploaded", resp)
}

func (h *TaskHandler) listAttachments(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	attachments, err := h.attachments.ListByTask(c.Context(), sessionFromRequest(c), id)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "task attachments retrieved", attachments)
}

func (h *TaskHandler) handleError(c *fiber.Ctx, err error) error {
	if handled, respErr := guardError(c, err); handled {
		return respErr
	}
	if handled, respErr := validationError(c, err); handled {
		return respErr
	}

	switch {
	case errors.Is(err, service.ErrTaskNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "task not found")
	case errors.Is(err, service.ErrAssigneeNotFound):
		return utils.SendError(c, fiber.StatusBadRequest, "assignee not found or inactive")
	case errors.Is(err, service.ErrNotificationNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "notification not found")
	default:
		requestLogger(h.logger, c).Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
