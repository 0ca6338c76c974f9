package handler

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/sap-mentor-api/internal/dto"
	"github.com/noah-isme/sap-mentor-api/internal/service"
	"github.com/noah-isme/sap-mentor-api/internal/utils"
)

// ActivityHandler exposes the mentor's audit trail.
type ActivityHandler struct {
	service service.ActivityService
	logger  zerolog.Logger
}

// NewActivityHandler constructs the handler.
func NewActivityHandler(service service.ActivityService, logger zerolog.Logger) *ActivityHandler {
	return &ActivityHandler{
		service: service,
		logger:  logger.With().Str("component", "activity_handler").Logger(),
	}
}

// Register binds the audit trail routes.
func (h *ActivityHandler) Register(router fiber.Router) {
	router.Get("/activity/:mentorEmail", h.list)
}

func (h *ActivityHandler) list(c *fiber.Ctx) error {
	mentorEmail, err := resolveMentor(c)
	if err != nil {
		return mentorParamError(c, err)
	}

	page, err := parseQueryInt(c, "page")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid page")
	}
	pageSize, err := parseQueryInt(c, "pageSize")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid page size")
	}
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 50
	}

	req := dto.ActivityLogListRequest{
		Page:       page,
		PageSize:   pageSize,
		Action:     strings.TrimSpace(c.Query("action")),
		EntityType: strings.TrimSpace(c.Query("entityType")),
	}

	listing, err := h.service.List(c.UserContext(), mentorEmail, req)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list activity log")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list activity log")
	}

	return utils.OK(c, listing.Items, "activity log", listing.Pagination)
}
