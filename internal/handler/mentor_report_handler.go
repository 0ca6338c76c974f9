package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/sap-mentor-api/internal/service"
	"github.com/noah-isme/sap-mentor-api/internal/utils"
)

// MentorReportHandler serves the normalized student view, the aggregation
// report and the SAP export.
type MentorReportHandler struct {
	aggregates service.AggregateService
	reports    service.ReportService
	logger     zerolog.Logger
}

// NewMentorReportHandler constructs the handler.
func NewMentorReportHandler(aggregates service.AggregateService, reports service.ReportService, logger zerolog.Logger) *MentorReportHandler {
	return &MentorReportHandler{
		aggregates: aggregates,
		reports:    reports,
		logger:     logger.With().Str("component", "mentor_report_handler").Logger(),
	}
}

// Register binds the reporting routes.
func (h *MentorReportHandler) Register(router fiber.Router) {
	router.Get("/students/:mentorEmail", h.students)
	router.Get("/report/:mentorEmail", h.report)
	router.Get("/sap-report/:mentorEmail", h.sapReport)
	router.Get("/schedule", h.schedule)
}

func (h *MentorReportHandler) students(c *fiber.Ctx) error {
	mentorEmail, err := resolveMentor(c)
	if err != nil {
		return mentorParamError(c, err)
	}

	students, err := h.aggregates.Students(c.UserContext(), mentorEmail)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to build student aggregates")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to build student aggregates")
	}

	return utils.OK(c, students, "students", fiber.Map{"total": len(students)})
}

func (h *MentorReportHandler) report(c *fiber.Ctx) error {
	mentorEmail, err := resolveMentor(c)
	if err != nil {
		return mentorParamError(c, err)
	}

	report, err := h.reports.Report(c.UserContext(), mentorEmail)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to build report")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to build report")
	}

	return utils.SendSuccess(c, "report", report)
}

func (h *MentorReportHandler) sapReport(c *fiber.Ctx) error {
	mentorEmail, err := resolveMentor(c)
	if err != nil {
		return mentorParamError(c, err)
	}

	report, err := h.reports.SapReport(c.UserContext(), mentorEmail)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to build sap report")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to build sap report")
	}

	return utils.SendSuccess(c, "sap report", report)
}

func (h *MentorReportHandler) schedule(c *fiber.Ctx) error {
	return utils.SendSuccess(c, "schedule", h.reports.Schedule())
}
