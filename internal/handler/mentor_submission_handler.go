package handler

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/sap-mentor-api/internal/dto"
	"github.com/noah-isme/sap-mentor-api/internal/middleware"
	"github.com/noah-isme/sap-mentor-api/internal/service"
	"github.com/noah-isme/sap-mentor-api/internal/utils"
)

// MentorSubmissionHandler serves the mentor's review queue and applies
// decisions to it.
type MentorSubmissionHandler struct {
	aggregates service.AggregateService
	reviews    service.ReviewService
	logger     zerolog.Logger
}

// NewMentorSubmissionHandler constructs the handler.
func NewMentorSubmissionHandler(aggregates service.AggregateService, reviews service.ReviewService, logger zerolog.Logger) *MentorSubmissionHandler {
	return &MentorSubmissionHandler{
		aggregates: aggregates,
		reviews:    reviews,
		logger:     logger.With().Str("component", "mentor_submission_handler").Logger(),
	}
}

// Register binds the submission routes.
func (h *MentorSubmissionHandler) Register(router fiber.Router) {
	router.Get("/submissions/:mentorEmail", h.list)
	router.Patch("/update-status/:id", h.updateStatus)
	router.Patch("/update-event-marks/:id", h.updateEventMarks)
}

func (h *MentorSubmissionHandler) list(c *fiber.Ctx) error {
	mentorEmail, err := resolveMentor(c)
	if err != nil {
		return mentorParamError(c, err)
	}

	filter := dto.SubmissionListFilter{
		Status:   strings.TrimSpace(c.Query("status")),
		Category: strings.TrimSpace(c.Query("category")),
		Search:   c.Query("search"),
		Sort:     strings.TrimSpace(c.Query("sort")),
	}

	submissions, err := h.aggregates.ListSubmissions(c.UserContext(), mentorEmail, filter)
	if err != nil {
		if isValidationError(err) {
			return utils.SendError(c, fiber.StatusBadRequest, "invalid filter")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list submissions")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list submissions")
	}

	return utils.OK(c, submissions, "submissions", fiber.Map{"total": len(submissions)})
}

func (h *MentorSubmissionHandler) updateStatus(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	mentorEmail := decidingMentor(c)
	if mentorEmail == "" {
		return utils.SendError(c, fiber.StatusUnauthorized, "mentor identity required")
	}

	var payload dto.DecisionRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	submission, err := h.reviews.Decide(c.UserContext(), id, mentorEmail, payload)
	if err != nil {
		return h.reviewError(c, err)
	}

	return utils.SendSuccess(c, "submission updated", submission)
}

func (h *MentorSubmissionHandler) updateEventMarks(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	mentorEmail := decidingMentor(c)
	if mentorEmail == "" {
		return utils.SendError(c, fiber.StatusUnauthorized, "mentor identity required")
	}

	var payload dto.EventMarksRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	submission, err := h.reviews.DecideEvent(c.UserContext(), id, mentorEmail, payload)
	if err != nil {
		return h.reviewError(c, err)
	}

	return utils.SendSuccess(c, "event marks updated", submission)
}

func (h *MentorSubmissionHandler) reviewError(c *fiber.Ctx, err error) error {
	switch {
	case isValidationError(err):
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	case errors.Is(err, service.ErrSubmissionNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "submission not found")
	case errors.Is(err, service.ErrEventNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "event not found")
	case errors.Is(err, service.ErrInvalidTransition):
		return utils.SendError(c, fiber.StatusConflict, "submission already decided")
	case errors.Is(err, service.ErrNotEventSubmission):
		return utils.SendError(c, fiber.StatusUnprocessableEntity, "submission has no reviewable events")
	default:
		requestLogger(h.logger, c).Error().Err(err).Msg("review decision failed")
		return utils.SendError(c, fiber.StatusInternalServerError, "review decision failed")
	}
}

// decidingMentor prefers the authenticated identity and falls back to the
// mentorEmail query parameter on unauthenticated deployments.
func decidingMentor(c *fiber.Ctx) string {
	if email := middleware.TokenMentorEmail(c); email != "" {
		return email
	}
	return strings.ToLower(strings.TrimSpace(c.Query("mentorEmail")))
}

func mentorParamError(c *fiber.Ctx, err error) error {
	if errors.Is(err, errMentorMismatch) {
		return utils.SendError(c, fiber.StatusForbidden, "mentor email does not match token")
	}
	return utils.SendError(c, fiber.StatusBadRequest, err.Error())
}
