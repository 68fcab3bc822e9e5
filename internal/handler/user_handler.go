package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/dreamtoapp/admin-go-api/internal/dto"
	"github.com/dreamtoapp/admin-go-api/internal/service"
	"github.com/dreamtoapp/admin-go-api/internal/utils"
)

// UserHandler wires the account administration and profile routes.
type UserHandler struct {
	service service.UserService
	logger  zerolog.Logger
}

// NewUserHandler constructs the handler.
func NewUserHandler(service service.UserService, logger zerolog.Logger) *UserHandler {
	return &UserHandler{
		service: service,
		logger:  logger.With().Str("component", "user_handler").Logger(),
	}
}

// Register attaches the user endpoints to the router group.
func (h *UserHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Post("", h.create)
	router.Get("/:id", h.get)
	router.Put("/:id", h.update)
	router.Delete("/:id", h.deactivate)
	router.Post("/:id/reset-password", h.resetPassword)
	router.Post("/change-password", h.changePassword)

	router.Get("/:id/educations", h.listEducations)
	router.Post("/:id/educations", h.addEducation)
	router.Delete("/:id/educations/:entryId", h.deleteEducation)

	router.Get("/:id/languages", h.listLanguages)
	router.Post("/:id/languages", h.addLanguage)
	router.Delete("/:id/languages/:entryId", h.deleteLanguage)

	router.Get("/:id/experiences", h.listExperiences)
	router.Post("/:id/experiences", h.addExperience)
	router.Delete("/:id/experiences/:entryId", h.deleteExperience)
}

func (h *UserHandler) list(c *fiber.Ctx) error {
	var req dto.UserListRequest
	if err := c.QueryParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid query parameters")
	}

	resp, err := h.service.List(c.Context(), sessionFromRequest(c), req)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "users retrieved", resp)
}

func (h *UserHandler) get(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	resp, err := h.service.Get(c.Context(), sessionFromRequest(c), id)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "user retrieved", resp)
}

func (h *UserHandler) create(c *fiber.Ctx) error {
	var payload dto.UserCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	resp, err := h.service.Create(c.Context(), sessionFromRequest(c), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "user created", resp)
}

func (h *UserHandler) update(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.UserUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	resp, err := h.service.Update(c.Context(), sessionFromRequest(c), id, payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "user updated", resp)
}

func (h *UserHandler) deactivate(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.service.Deactivate(c.Context(), sessionFromRequest(c), id); err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "user deactivated", fiber.Map{"id": id})
}

func (h *UserHandler) resetPassword(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.ResetPasswordRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	if err := h.service.ResetPassword(c.Context(), sessionFromRequest(c), id, payload); err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "password reset", nil)
}

func (h *UserHandler) changePassword(c *fiber.Ctx) error {
	var payload dto.ChangePasswordRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	if err := h.service.ChangePassword(c.Context(), sessionFromRequest(c), payload); err != nil {
		if errors.Is(err, service.ErrWrongPassword) {
			return utils.SendError(c, fiber.StatusBadRequest, "current password is incorrect")
		}
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "password changed", nil)
}

func (h *UserHandler) listEducations(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	records, err := h.service.ListEducations(c.Context(), sessionFromRequest(c), id)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "educations retrieved", records)
}

func (h *UserHandler) addEducation(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.EducationCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	resp, err := h.service.AddEducation(c.Context(), sessionFromRequest(c), id, payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "education added", resp)
}

func (h *UserHandler) deleteEducation(c *fiber.Ctx) error {
	userID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}
	entryID, err := parseUintParam(c, "entryId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.service.DeleteEducation(c.Context(), sessionFromRequest(c), userID, entryID); err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "education removed", fiber.Map{"id": entryID})
}

func (h *UserHandler) listLanguages(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	records, err := h.service.ListLanguages(c.Context(), sessionFromRequest(c), id)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "languages retrieved", records)
}

func (h *UserHandler) addLanguage(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.LanguageCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	resp, err := h.service.AddLanguage(c.Context(), sessionFromRequest(c), id, payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "language added", resp)
}

func (h *UserHandler) deleteLanguage(c *fiber.Ctx) error {
	userID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}
	entryID, err := parseUintParam(c, "entryId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.service.DeleteLanguage(c.Context(), sessionFromRequest(c), userID, entryID); err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "language removed", fiber.Map{"id": entryID})
}

func (h *UserHandler) listExperiences(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	records, err := h.service.ListWorkExperiences(c.Context(), sessionFromRequest(c), id)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "work experiences retrieved", records)
}

func (h *UserHandler) addExperience(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.WorkExperienceCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	resp, err := h.service.AddWorkExperience(c.Context(), sessionFromRequest(c), id, payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "work experience added", resp)
}

func (h *UserHandler) deleteExperience(c *fiber.Ctx) error {
	userID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}
	entryID, err := parseUintParam(c, "entryId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.service.DeleteWorkExperience(c.Context(), sessionFromRequest(c), userID, entryID); err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "work experience removed", fiber.Map{"id": entryID})
}

func (h *UserHandler) handleError(c *fiber.Ctx, err error) error {
	if handled, respErr := guardError(c, err); handled {
		return respErr
	}
	if handled, respErr := validationError(c, err); handled {
		return respErr
	}

	switch {
	case errors.Is(err, service.ErrUserNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "user not found")
	case errors.Is(err, service.ErrEmailTaken):
		return utils.SendError(c, fiber.StatusConflict, "email is already registered")
	case errors.Is(err, service.ErrSelfDeactivation):
		return utils.SendError(c, fiber.StatusBadRequest, "cannot deactivate your own account")
	case errors.Is(err, service.ErrDateRangeInvalid):
		return utils.SendError(c, fiber.StatusBadRequest, "end date precedes start date")
	case errors.Is(err, service.ErrProfileRowNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "profile entry not found")
	default:
		requestLogger(h.logger, c).Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
