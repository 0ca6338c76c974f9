package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/noah-isme/sap-mentor-api/internal/aggregate"
	"github.com/noah-isme/sap-mentor-api/internal/dto"
	"github.com/noah-isme/sap-mentor-api/internal/models"
	"github.com/noah-isme/sap-mentor-api/internal/repository"
	"github.com/noah-isme/sap-mentor-api/internal/scoring"
)

// ReportService builds the mentor's aggregation report and the SAP export.
type ReportService interface {
	Report(ctx context.Context, mentorEmail string) (dto.MentorReportResponse, error)
	SapReport(ctx context.Context, mentorEmail string) (dto.SapReportResponse, error)
	Schedule() dto.CategoryScheduleResponse
}

type reportService struct {
	repo   repository.SubmissionRepository
	logger zerolog.Logger
	tracer trace.Tracer
}

// NewReportService constructs the report service.
func NewReportService(repo repository.SubmissionRepository, logger zerolog.Logger) ReportService {
	return &reportService{
		repo:   repo,
		logger: logger.With().Str("component", "report_service").Logger(),
		tracer: otel.Tracer("github.com/noah-isme/sap-mentor-api/internal/service/report"),
	}
}

func (s *reportService) Report(ctx context.Context, mentorEmail string) (dto.MentorReportResponse, error) {
	mentorEmail = strings.ToLower(strings.TrimSpace(mentorEmail))
	ctx, span := s.tracer.Start(ctx, "report.build", trace.WithAttributes(
		attribute.String("report.mentor", mentorEmail),
	))
	defer span.End()

	submissions, err := s.repo.List(ctx, repository.SubmissionFilter{MentorEmail: mentorEmail})
	if err != nil {
		span.RecordError(err)
		return dto.MentorReportResponse{}, err
	}

	aggregates := aggregate.Normalize(submissions)
	response := dto.MentorReportResponse{
		Stats: buildStats(submissions, aggregates),
		Rows:  aggregate.BuildReport(aggregates),
	}

	span.SetAttributes(attribute.Int("report.rows", len(response.Rows)))
	return response, nil
}

func (s *reportService) SapReport(ctx context.Context, mentorEmail string) (dto.SapReportResponse, error) {
	mentorEmail = strings.ToLower(strings.TrimSpace(mentorEmail))
	ctx, span := s.tracer.Start(ctx, "report.sap_export", trace.WithAttributes(
		attribute.String("report.mentor", mentorEmail),
	))
	defer span.End()

	submissions, err := s.repo.List(ctx, repository.SubmissionFilter{MentorEmail: mentorEmail})
	if err != nil {
		span.RecordError(err)
		return dto.SapReportResponse{}, err
	}

	entries := make(map[string]dto.SapReportEntry)
	for _, agg := range aggregate.Normalize(submissions) {
		latest, ok := aggregate.Latest(agg, models.CategoryIndividualEvents)
		if !ok {
			continue
		}
		entries[agg.Email] = sapEntry(agg, latest)
	}

	span.SetAttributes(attribute.Int("report.entries", len(entries)))
	return dto.SapReportResponse{Entries: entries, Total: len(entries)}, nil
}

func (s *reportService) Schedule() dto.CategoryScheduleResponse {
	return dto.CategoryScheduleResponse{Categories: scoring.Categories()}
}

// sapEntry flattens the latest event submission into one export row. Only
// reviewed events carry mentor marks; the rest export as zero so the
// spreadsheet columns stay stable.
func sapEntry(agg *aggregate.StudentAggregate, latest models.Submission) dto.SapReportEntry {
	events := make(map[string]dto.SapEventMarks, len(latest.Events))
	total := 0
	for _, event := range latest.Events {
		marks := 0
		for _, value := range event.MentorMarks {
			marks += value
		}
		total += marks
		events[event.Key] = dto.SapEventMarks{
			Title: event.Title,
			Marks: marks,
			Note:  event.Note,
		}
	}

	status := latest.Status
	if status == "" {
		status = models.StatusPending
	}

	return dto.SapReportEntry{
		StudentEmail: agg.Email,
		StudentName:  agg.DisplayName(),
		RollNumber:   agg.RollNumber,
		Status:       status,
		Events:       events,
		TotalMarks:   total,
	}
}

func buildStats(submissions []models.Submission, aggregates map[string]*aggregate.StudentAggregate) dto.DashboardStats {
	stats := dto.DashboardStats{
		TotalSubmissions: len(submissions),
		UniqueStudents:   len(aggregates),
		CategoryCounts:   make(map[string]int),
	}

	for _, submission := range submissions {
		switch submission.Status {
		case models.StatusAccepted:
			stats.AcceptedCount++
		case models.StatusRejected:
			stats.RejectedCount++
		case models.StatusReviewed:
			stats.ReviewedCount++
		default:
			stats.PendingCount++
		}
		stats.TotalMarks += submission.MarksAwarded

		category := submission.Category
		if category == "" {
			category = models.CategoryActivity
		}
		stats.CategoryCounts[category]++
	}

	return stats
}
