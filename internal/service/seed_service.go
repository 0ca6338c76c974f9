package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/noah-isme/sap-mentor-api/internal/models"
	"github.com/noah-isme/sap-mentor-api/internal/repository"
)

var (
	// ErrSeedDisabled indicates the seeding tools are disabled by configuration.
	ErrSeedDisabled = errors.New("seeding is disabled")
	// ErrSeedUnauthorized indicates the provided token is invalid.
	ErrSeedUnauthorized = errors.New("invalid seed token")
)

// SeedService loads demo submissions into a fresh environment.
type SeedService interface {
	SeedSubmissions(ctx context.Context, token string, items []models.Submission) (int64, error)
}

type seedService struct {
	submissions repository.SubmissionRepository
	enabled     bool
	token       string
	logger      zerolog.Logger
}

// NewSeedService constructs a seeding service.
func NewSeedService(submissions repository.SubmissionRepository, enabled bool, token string, logger zerolog.Logger) SeedService {
	return &seedService{
		submissions: submissions,
		enabled:     enabled,
		token:       token,
		logger:      logger.With().Str("component", "seed_service").Logger(),
	}
}

func (s *seedService) SeedSubmissions(ctx context.Context, token string, items []models.Submission) (int64, error) {
	if !s.enabled {
		return 0, ErrSeedDisabled
	}
	if !s.validateToken(token) {
		return 0, ErrSeedUnauthorized
	}

	normalized := normalizeSubmissions(items)
	var affected int64
	for i := range normalized {
		if err := s.submissions.Create(ctx, &normalized[i]); err != nil {
			return affected, err
		}
		affected++
	}

	s.logger.Info().Int64("affected", affected).Msg("submissions seeded")
	return affected, nil
}

func (s *seedService) validateToken(token string) bool {
	expected := strings.TrimSpace(s.token)
	if expected == "" {
		return false
	}
	return subtleConstantTimeCompare(expected, strings.TrimSpace(token))
}

func subtleConstantTimeCompare(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	mismatch := byte(0)
	for i := 0; i < len(a); i++ {
		mismatch |= a[i] ^ b[i]
	}
	return mismatch == 0
}

func normalizeSubmissions(items []models.Submission) []models.Submission {
	now := time.Now()
	for i := range items {
		items[i].MentorEmail = strings.ToLower(strings.TrimSpace(items[i].MentorEmail))
		items[i].Email = strings.ToLower(strings.TrimSpace(items[i].Email))
		if items[i].Status == "" {
			items[i].Status = models.StatusPending
		}
		if items[i].SubmittedAt.IsZero() {
			items[i].SubmittedAt = now
		}
	}
	return items
}
