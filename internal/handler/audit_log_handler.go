package handler

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/unireg-go-api/internal/dto"
	"github.com/noah-isme/unireg-go-api/internal/service"
	"github.com/noah-isme/unireg-go-api/internal/utils"
)

// AuditLogHandler exposes the read-only audit trail to administrators.
type AuditLogHandler struct {
	service service.AuditService
	logger  zerolog.Logger
}

// NewAuditLogHandler builds an audit log handler instance.
func NewAuditLogHandler(service service.AuditService, logger zerolog.Logger) *AuditLogHandler {
	return &AuditLogHandler{
		service: service,
		logger:  logger.With().Str("component", "audit_log_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group.
func (h *AuditLogHandler) Register(router fiber.Router) {
	router.Get("", h.list)
}

func (h *AuditLogHandler) list(c *fiber.Ctx) error {
	req := dto.AuditLogListRequest{
		Page:       parseQueryInt(c, "page", 1),
		PageSize:   parseQueryInt(c, "page_size", 20),
		ActionType: strings.TrimSpace(c.Query("action_type")),
		EntityType: strings.TrimSpace(c.Query("entity_type")),
		Search:     strings.TrimSpace(c.Query("search")),
	}
	actorID, err := parseQueryUint(c, "actor_id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}
	if actorID != nil {
		req.ActorID = *actorID
	}

	result, err := h.service.List(c.Context(), req)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}

	return utils.SendSuccess(c, "audit logs retrieved", result)
}
