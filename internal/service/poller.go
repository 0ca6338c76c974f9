package service

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/noah-isme/sap-mentor-api/internal/models"
	"github.com/noah-isme/sap-mentor-api/internal/observability"
	"github.com/noah-isme/sap-mentor-api/internal/repository"
)

// DefaultPollInterval matches the review queue refresh cadence clients
// historically polled at.
const DefaultPollInterval = 10 * time.Second

// PendingPoller periodically sweeps the submission table and notifies every
// mentor whose pending queue grew since the last sweep.
type PendingPoller struct {
	submissions repository.SubmissionRepository
	notifier    NotificationService
	interval    time.Duration
	logger      zerolog.Logger

	inFlight atomic.Bool

	mu         sync.Mutex
	lastCounts map[string]int64
}

// NewPendingPoller constructs the poller. A non-positive interval falls back
// to the default.
func NewPendingPoller(submissions repository.SubmissionRepository, notifier NotificationService, interval time.Duration, logger zerolog.Logger) *PendingPoller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}

	return &PendingPoller{
		submissions: submissions,
		notifier:    notifier,
		interval:    interval,
		logger:      logger.With().Str("component", "pending_poller").Logger(),
		lastCounts:  make(map[string]int64),
	}
}

// Run blocks until the context is cancelled, sweeping once per interval. A
// sweep that outlives the interval suppresses the next tick instead of
// stacking up.
func (p *PendingPoller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.logger.Info().Dur("interval", p.interval).Msg("pending review poller started")

	for {
		select {
		case <-ctx.Done():
			p.logger.Info().Msg("pending review poller stopped")
			return
		case <-ticker.C:
			if !p.inFlight.CompareAndSwap(false, true) {
				continue
			}
			p.sweep(ctx)
			p.inFlight.Store(false)
		}
	}
}

func (p *PendingPoller) sweep(ctx context.Context) {
	observability.PollerSweepsTotal().Inc()

	mentors, err := p.submissions.PendingMentors(ctx)
	if err != nil {
		p.logger.Warn().Err(err).Msg("pending mentor sweep failed")
		return
	}

	seen := make(map[string]struct{}, len(mentors))
	for _, mentor := range mentors {
		seen[mentor] = struct{}{}

		count, err := p.submissions.CountPendingByMentor(ctx, mentor)
		if err != nil {
			p.logger.Warn().Err(err).Str("mentor", mentor).Msg("pending count lookup failed")
			continue
		}

		if !p.shouldNotify(mentor, count) {
			continue
		}

		message := fmt.Sprintf("You have %d submissions awaiting review", count)
		if count == 1 {
			message = "You have 1 submission awaiting review"
		}

		if _, err := p.notifier.Publish(ctx, mentor, models.NotificationPendingReview, message); err != nil {
			p.logger.Warn().Err(err).Str("mentor", mentor).Msg("failed to publish pending review notification")
		}
	}

	p.forget(seen)
}

// shouldNotify fires only when a mentor's queue grew, so an untouched queue
// produces one notification rather than one per sweep.
func (p *PendingPoller) shouldNotify(mentor string, count int64) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	last, known := p.lastCounts[mentor]
	p.lastCounts[mentor] = count
	return !known || count > last
}

// forget drops mentors whose queues drained so their next submission
// notifies again.
func (p *PendingPoller) forget(active map[string]struct{}) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for mentor := range p.lastCounts {
		if _, ok := active[mentor]; !ok {
			delete(p.lastCounts, mentor)
		}
	}
}
