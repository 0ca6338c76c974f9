package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/noah-isme/sap-mentor-api/internal/dto"
	"github.com/noah-isme/sap-mentor-api/internal/models"
	"github.com/noah-isme/sap-mentor-api/internal/observability"
	"github.com/noah-isme/sap-mentor-api/internal/repository"
)

// ErrSubmissionNotFound indicates the submission does not exist or belongs to
// another mentor.
var ErrSubmissionNotFound = errors.New("submission not found")

// ErrEventNotFound indicates the submission has no event under the given key.
var ErrEventNotFound = errors.New("event not found")

// ErrInvalidTransition indicates an attempt to reopen or flip a decided
// submission.
var ErrInvalidTransition = errors.New("invalid status transition")

// ErrNotEventSubmission indicates per-event review was requested on a
// submission that carries no events.
var ErrNotEventSubmission = errors.New("submission has no reviewable events")

// CacheInvalidator drops cached aggregates after a decision mutates the
// underlying submissions.
type CacheInvalidator interface {
	Invalidate(ctx context.Context, mentorEmail string)
}

// ReviewService applies mentor decisions to submissions.
type ReviewService interface {
	Decide(ctx context.Context, submissionID uint, mentorEmail string, payload dto.DecisionRequest) (dto.SubmissionResponse, error)
	DecideEvent(ctx context.Context, submissionID uint, mentorEmail string, payload dto.EventMarksRequest) (dto.SubmissionResponse, error)
}

type reviewService struct {
	repo        repository.SubmissionRepository
	validator   *validator.Validate
	activity    ActivityRecorder
	invalidator CacheInvalidator
	sanitizer   *bluemonday.Policy
	logger      zerolog.Logger
	tracer      trace.Tracer
	now         func() time.Time
}

// NewReviewService constructs the review service.
func NewReviewService(repo repository.SubmissionRepository, validate *validator.Validate, activity ActivityRecorder, invalidator CacheInvalidator, logger zerolog.Logger) ReviewService {
	return &reviewService{
		repo:        repo,
		validator:   validate,
		activity:    activity,
		invalidator: invalidator,
		sanitizer:   bluemonday.StrictPolicy(),
		logger:      logger.With().Str("component", "review_service").Logger(),
		tracer:      otel.Tracer("github.com/noah-isme/sap-mentor-api/internal/service/review"),
		now:         time.Now,
	}
}

func (s *reviewService) Decide(ctx context.Context, submissionID uint, mentorEmail string, payload dto.DecisionRequest) (dto.SubmissionResponse, error) {
	ctx, span := s.tracer.Start(ctx, "review.decide", trace.WithAttributes(
		attribute.Int64("review.submission_id", int64(submissionID)),
		attribute.String("review.status", payload.Status),
	))
	defer span.End()

	if err := s.validator.Struct(payload); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "validation_failed")
		return dto.SubmissionResponse{}, err
	}

	submission, err := s.ownedSubmission(ctx, span, submissionID, mentorEmail)
	if err != nil {
		return dto.SubmissionResponse{}, err
	}

	note := strings.TrimSpace(s.sanitizer.Sanitize(payload.DecisionNote))
	marks := payload.MarksAwarded.Int()

	if submission.Status == payload.Status && submission.MarksAwarded == marks && submission.DecisionNote == note {
		span.SetAttributes(attribute.Bool("review.idempotent", true))
		return dto.NewSubmissionResponse(submission), nil
	}

	if !models.CanTransition(submission.Status, payload.Status) {
		span.SetStatus(codes.Error, "invalid_transition")
		return dto.SubmissionResponse{}, ErrInvalidTransition
	}

	submission.Status = payload.Status
	submission.MarksAwarded = marks
	submission.DecisionNote = note
	decidedAt := s.now()
	submission.DecidedAt = &decidedAt

	if err := s.repo.Update(ctx, &submission); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "submission_update_failed")
		return dto.SubmissionResponse{}, err
	}

	s.afterDecision(ctx, submission, models.ActionSubmissionDecided, map[string]interface{}{
		"submission_id": submission.ID,
		"status":        submission.Status,
		"marks":         marks,
	})

	observability.ReviewDecisionsTotal().WithLabelValues(submission.Status).Inc()
	span.SetAttributes(attribute.Int("review.marks", marks))

	return dto.NewSubmissionResponse(submission), nil
}

func (s *reviewService) DecideEvent(ctx context.Context, submissionID uint, mentorEmail string, payload dto.EventMarksRequest) (dto.SubmissionResponse, error) {
	ctx, span := s.tracer.Start(ctx, "review.decide_event", trace.WithAttributes(
		attribute.Int64("review.submission_id", int64(submissionID)),
		attribute.String("review.event_key", payload.EventKey),
	))
	defer span.End()

	if err := s.validator.Struct(payload); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "validation_failed")
		return dto.SubmissionResponse{}, err
	}

	submission, err := s.ownedSubmission(ctx, span, submissionID, mentorEmail)
	if err != nil {
		return dto.SubmissionResponse{}, err
	}

	if submission.Category != models.CategoryIndividualEvents || len(submission.Events) == 0 {
		span.SetStatus(codes.Error, "not_event_submission")
		return dto.SubmissionResponse{}, ErrNotEventSubmission
	}

	eventIndex := -1
	for i := range submission.Events {
		if submission.Events[i].Key == payload.EventKey {
			eventIndex = i
			break
		}
	}
	if eventIndex < 0 {
		span.SetStatus(codes.Error, "event_not_found")
		return dto.SubmissionResponse{}, ErrEventNotFound
	}

	marks := make(map[string]int, len(payload.EventMarks))
	for column, value := range payload.EventMarks {
		marks[column] = value.Int()
	}

	event := &submission.Events[eventIndex]
	event.MentorMarks = marks
	event.Note = strings.TrimSpace(s.sanitizer.Sanitize(payload.EventNote))
	event.Status = models.EventStatusReviewed

	submission.MarksAwarded = submission.MentorMarksTotal()
	if s.allEventsReviewed(submission) && models.CanTransition(submission.Status, models.StatusReviewed) {
		submission.Status = models.StatusReviewed
		decidedAt := s.now()
		submission.DecidedAt = &decidedAt
	}

	if err := s.repo.Update(ctx, &submission); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "submission_update_failed")
		return dto.SubmissionResponse{}, err
	}

	s.afterDecision(ctx, submission, models.ActionEventReviewed, map[string]interface{}{
		"submission_id": submission.ID,
		"event_key":     payload.EventKey,
		"marks_total":   submission.MarksAwarded,
	})

	observability.ReviewDecisionsTotal().WithLabelValues(models.EventStatusReviewed).Inc()
	span.SetAttributes(attribute.Int("review.marks_total", submission.MarksAwarded))

	return dto.NewSubmissionResponse(submission), nil
}

func (s *reviewService) ownedSubmission(ctx context.Context, span trace.Span, submissionID uint, mentorEmail string) (models.Submission, error) {
	submission, err := s.repo.GetByID(ctx, submissionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			span.SetStatus(codes.Error, "submission_not_found")
			return models.Submission{}, ErrSubmissionNotFound
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "submission_lookup_failed")
		return models.Submission{}, err
	}

	// Another mentor's submission looks like a missing one on purpose.
	if !strings.EqualFold(submission.MentorEmail, mentorEmail) {
		span.SetStatus(codes.Error, "submission_not_owned")
		return models.Submission{}, ErrSubmissionNotFound
	}

	return submission, nil
}

func (s *reviewService) allEventsReviewed(submission models.Submission) bool {
	for _, event := range submission.Events {
		if event.Status != models.EventStatusReviewed {
			return false
		}
	}
	return true
}

func (s *reviewService) afterDecision(ctx context.Context, submission models.Submission, action string, metadata map[string]interface{}) {
	if s.activity != nil {
		id := submission.ID
		if _, err := s.activity.Record(ctx, ActivityEntry{
			MentorEmail: submission.MentorEmail,
			Action:      action,
			EntityType:  "submission",
			EntityID:    &id,
			Metadata:    metadata,
		}); err != nil {
			s.logger.Warn().Err(err).Uint("submission_id", submission.ID).Msg("failed to record decision in audit trail")
		}
	}

	if s.invalidator != nil {
		s.invalidator.Invalidate(ctx, submission.MentorEmail)
	}
}
