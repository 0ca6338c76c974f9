package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/noah-isme/sap-mentor-api/internal/aggregate"
	"github.com/noah-isme/sap-mentor-api/internal/dto"
	"github.com/noah-isme/sap-mentor-api/internal/models"
	"github.com/noah-isme/sap-mentor-api/internal/repository"
)

// AggregateService lists a mentor's submissions and the normalized
// per-student view built from them.
type AggregateService interface {
	CacheInvalidator
	ListSubmissions(ctx context.Context, mentorEmail string, filter dto.SubmissionListFilter) ([]dto.SubmissionResponse, error)
	Students(ctx context.Context, mentorEmail string) ([]dto.StudentAggregateResponse, error)
}

type aggregateService struct {
	repo      repository.SubmissionRepository
	validator *validator.Validate
	cache     *redis.Client
	cacheTTL  time.Duration
	logger    zerolog.Logger
}

// NewAggregateService builds the aggregation service. The cache client is
// optional; without it every call normalizes from the database.
func NewAggregateService(repo repository.SubmissionRepository, validate *validator.Validate, cache *redis.Client, ttl time.Duration, logger zerolog.Logger) AggregateService {
	return &aggregateService{
		repo:      repo,
		validator: validate,
		cache:     cache,
		cacheTTL:  ttl,
		logger:    logger.With().Str("component", "aggregate_service").Logger(),
	}
}

func (s *aggregateService) ListSubmissions(ctx context.Context, mentorEmail string, filter dto.SubmissionListFilter) ([]dto.SubmissionResponse, error) {
	if err := s.validator.Struct(filter); err != nil {
		return nil, err
	}

	submissions, err := s.repo.List(ctx, repository.SubmissionFilter{
		MentorEmail: strings.ToLower(strings.TrimSpace(mentorEmail)),
		Status:      filter.Status,
		Category:    filter.Category,
		Search:      strings.TrimSpace(filter.Search),
	})
	if err != nil {
		return nil, err
	}

	responses := dto.NewSubmissionResponseSlice(submissions)
	sortSubmissions(responses, filter.Sort)
	return responses, nil
}

func (s *aggregateService) Students(ctx context.Context, mentorEmail string) ([]dto.StudentAggregateResponse, error) {
	mentorEmail = strings.ToLower(strings.TrimSpace(mentorEmail))
	cacheKey := studentsCacheKey(mentorEmail)

	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, cacheKey).Result(); err == nil {
			var students []dto.StudentAggregateResponse
			if unmarshalErr := json.Unmarshal([]byte(cached), &students); unmarshalErr == nil {
				s.logger.Debug().Str("mentor", mentorEmail).Msg("student aggregate cache hit")
				return students, nil
			}
		} else if err != redis.Nil {
			s.logger.Warn().Err(err).Msg("failed to read student aggregate cache")
		}
	}

	submissions, err := s.repo.List(ctx, repository.SubmissionFilter{MentorEmail: mentorEmail})
	if err != nil {
		return nil, err
	}

	ordered := aggregate.Ordered(aggregate.Normalize(submissions))
	students := make([]dto.StudentAggregateResponse, 0, len(ordered))
	for _, agg := range ordered {
		students = append(students, dto.NewStudentAggregateResponse(agg))
	}

	if s.cache != nil {
		if payload, err := json.Marshal(students); err == nil {
			if err := s.cache.Set(ctx, cacheKey, payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to store student aggregate cache")
			}
		}
	}

	return students, nil
}

func (s *aggregateService) Invalidate(ctx context.Context, mentorEmail string) {
	if s.cache == nil {
		return
	}

	mentorEmail = strings.ToLower(strings.TrimSpace(mentorEmail))
	if err := s.cache.Del(ctx, studentsCacheKey(mentorEmail)).Err(); err != nil {
		s.logger.Warn().Err(err).Str("mentor", mentorEmail).Msg("failed to invalidate student aggregate cache")
	}
}

func studentsCacheKey(mentorEmail string) string {
	return fmt.Sprintf("aggregate:mentor:%s", mentorEmail)
}

func sortSubmissions(responses []dto.SubmissionResponse, order string) {
	switch order {
	case "newest":
		sort.SliceStable(responses, func(i, j int) bool {
			return responses[i].SubmittedAt.After(responses[j].SubmittedAt)
		})
	case "name":
		sort.SliceStable(responses, func(i, j int) bool {
			return strings.ToLower(responses[i].Name) < strings.ToLower(responses[j].Name)
		})
	case "status":
		sort.SliceStable(responses, func(i, j int) bool {
			return statusRank(responses[i].Status) < statusRank(responses[j].Status)
		})
	default:
		// Oldest first is the repository's natural order.
	}
}

// statusRank keeps pending work at the top of the queue.
func statusRank(status string) int {
	switch status {
	case models.StatusPending, "":
		return 0
	case models.StatusReviewed:
		return 1
	case models.StatusAccepted:
		return 2
	default:
		return 3
	}
}
