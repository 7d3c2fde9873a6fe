package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/unireg-go-api/internal/dto"
	"github.com/noah-isme/unireg-go-api/internal/middleware"
	"github.com/noah-isme/unireg-go-api/internal/service"
	"github.com/noah-isme/unireg-go-api/internal/utils"
)

// AccountHandler manages self-service profile endpoints.
type AccountHandler struct {
	service service.AccountService
	logger  zerolog.Logger
}

// NewAccountHandler builds an account handler instance.
func NewAccountHandler(service service.AccountService, logger zerolog.Logger) *AccountHandler {
	return &AccountHandler{
		service: service,
		logger:  logger.With().Str("component", "account_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group.
func (h *AccountHandler) Register(router fiber.Router) {
	router.Get("/profile", h.profile)
	router.Put("/profile", h.updateProfile)
	router.Put("/password", h.changePassword)
}

func (h *AccountHandler) profile(c *fiber.Ctx) error {
	profile, err := h.service.Profile(c.Context(), middleware.UserIDFromContext(c))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "profile retrieved", profile)
}

func (h *AccountHandler) updateProfile(c *fiber.Ctx) error {
	var payload dto.ProfileUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	profile, err := h.service.UpdateProfile(c.Context(), actorFromContext(c), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "profile updated", profile)
}

func (h *AccountHandler) changePassword(c *fiber.Ctx) error {
	var payload dto.ChangePasswordRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	if err := h.service.ChangePassword(c.Context(), actorFromContext(c), payload); err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "password changed", nil)
}

func (h *AccountHandler) handleError(c *fiber.Ctx, err error) error {
	switch {
	case isValidationError(err):
		return utils.SendValidationError(c, utils.FieldErrors(err))
	case errors.Is(err, service.ErrCurrentPasswordIncorrect):
		return utils.SendValidationError(c, map[string][]string{"current_password": {err.Error()}})
	case errors.Is(err, service.ErrEmailTaken):
		return utils.SendValidationError(c, map[string][]string{"email": {err.Error()}})
	case errors.Is(err, service.ErrUserNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "user not found")
	case errors.Is(err, service.ErrAuditWrite):
		requestLogger(h.logger, c).Error().Err(err).Msg("audit trail write failed")
		return utils.SendError(c, fiber.StatusInternalServerError, "audit trail write failed")
	default:
		requestLogger(h.logger, c).Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
