package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/noah-isme/sap-mentor-api/internal/dto"
	"github.com/noah-isme/sap-mentor-api/internal/models"
	"github.com/noah-isme/sap-mentor-api/internal/observability"
	"github.com/noah-isme/sap-mentor-api/internal/repository"
)

const notificationBufferSize = 16

// NotificationService publishes and streams pending-review notifications to
// mentors via SSE.
type NotificationService interface {
	Publish(ctx context.Context, mentorEmail, notificationType, message string) (dto.NotificationResponse, error)
	List(ctx context.Context, mentorEmail string, limit, offset int) ([]dto.NotificationResponse, error)
	MarkRead(ctx context.Context, id uint, mentorEmail string) (dto.NotificationResponse, error)
	PendingStatus(ctx context.Context, mentorEmail string) (dto.PendingStatusResponse, error)
	Subscribe(mentorEmail string) (<-chan dto.NotificationResponse, func())
	Start(ctx context.Context)
}

type notificationService struct {
	repo        repository.NotificationRepository
	submissions repository.SubmissionRepository
	redis       *redis.Client
	redisStream string
	nats        *nats.Conn
	natsSubject string
	logger      zerolog.Logger
	tracer      trace.Tracer
	sanitizer   *bluemonday.Policy
	broker      *notificationBroker
	nodeID      string
}

type notificationEvent struct {
	Source       string                   `json:"source"`
	Notification dto.NotificationResponse `json:"notification"`
	SentAt       time.Time                `json:"sent_at"`
}

type notificationBroker struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan dto.NotificationResponse]struct{}
}

// NewNotificationService constructs a notification service. channelBase names
// the cross-node fan-out channel; empty disables redis and NATS relay.
func NewNotificationService(repo repository.NotificationRepository, submissions repository.SubmissionRepository, redisClient *redis.Client, channelBase string, natsConn *nats.Conn, logger zerolog.Logger) NotificationService {
	stream := ""
	subject := ""
	if channelBase != "" {
		stream = channelBase + ":notifications"
		subject = strings.ReplaceAll(channelBase, ":", ".") + ".notifications"
	}

	return &notificationService{
		repo:        repo,
		submissions: submissions,
		redis:       redisClient,
		redisStream: stream,
		nats:        natsConn,
		natsSubject: subject,
		logger:      logger.With().Str("component", "notification_service").Logger(),
		tracer:      otel.Tracer("github.com/noah-isme/sap-mentor-api/internal/service/notification"),
		sanitizer:   bluemonday.StrictPolicy(),
		broker: &notificationBroker{
			subscribers: make(map[string]map[chan dto.NotificationResponse]struct{}),
		},
		nodeID: uuid.NewString(),
	}
}

func (s *notificationService) Start(ctx context.Context) {
	if s.redis != nil && s.redisStream != "" {
		go s.consumeRedis(ctx)
	}
	if s.nats != nil && s.natsSubject != "" {
		go s.consumeNATS(ctx)
	}
}

func (s *notificationService) Publish(ctx context.Context, mentorEmail, notificationType, message string) (dto.NotificationResponse, error) {
	mentorEmail = strings.ToLower(strings.TrimSpace(mentorEmail))
	if mentorEmail == "" {
		return dto.NotificationResponse{}, errors.New("mentor email is required")
	}

	cleanMessage := strings.TrimSpace(s.sanitizer.Sanitize(message))
	if cleanMessage == "" {
		return dto.NotificationResponse{}, errors.New("notification message empty after sanitization")
	}

	if notificationType == "" {
		notificationType = models.NotificationPendingReview
	}

	spanCtx, span := s.tracer.Start(ctx, "notifications.publish", trace.WithAttributes(
		attribute.String("notification.mentor", mentorEmail),
		attribute.String("notification.type", notificationType),
	))
	defer span.End()

	model := models.Notification{
		MentorEmail: mentorEmail,
		Type:        notificationType,
		Message:     cleanMessage,
	}

	if err := s.repo.Create(spanCtx, &model); err != nil {
		span.RecordError(err)
		return dto.NotificationResponse{}, err
	}

	response := dto.NewNotificationResponse(model)
	s.broker.broadcast(response.MentorEmail, response)
	if err := s.relay(spanCtx, response); err != nil {
		s.logger.Warn().Err(err).Msg("failed to relay notification to broker")
	}

	observability.NotificationsPublishedTotal().WithLabelValues(response.Type).Inc()

	return response, nil
}

func (s *notificationService) List(ctx context.Context, mentorEmail string, limit, offset int) ([]dto.NotificationResponse, error) {
	mentorEmail = strings.ToLower(strings.TrimSpace(mentorEmail))
	if mentorEmail == "" {
		return nil, errors.New("mentor email is required")
	}

	notifications, err := s.repo.ListByMentor(ctx, mentorEmail, limit, offset)
	if err != nil {
		return nil, err
	}

	return dto.NewNotificationResponseSlice(notifications), nil
}

func (s *notificationService) MarkRead(ctx context.Context, id uint, mentorEmail string) (dto.NotificationResponse, error) {
	spanCtx, span := s.tracer.Start(ctx, "notifications.mark_read", trace.WithAttributes(
		attribute.String("notification.mentor", mentorEmail),
	))
	defer span.End()

	notification, err := s.repo.MarkRead(spanCtx, id, strings.ToLower(strings.TrimSpace(mentorEmail)))
	if err != nil {
		span.RecordError(err)
		return dto.NotificationResponse{}, err
	}

	return dto.NewNotificationResponse(notification), nil
}

func (s *notificationService) PendingStatus(ctx context.Context, mentorEmail string) (dto.PendingStatusResponse, error) {
	count, err := s.submissions.CountPendingByMentor(ctx, strings.ToLower(strings.TrimSpace(mentorEmail)))
	if err != nil {
		return dto.PendingStatusResponse{}, err
	}

	return dto.PendingStatusResponse{
		HasPending:   count > 0,
		PendingCount: int(count),
	}, nil
}

func (s *notificationService) Subscribe(mentorEmail string) (<-chan dto.NotificationResponse, func()) {
	mentorEmail = strings.ToLower(strings.TrimSpace(mentorEmail))
	channel := make(chan dto.NotificationResponse, notificationBufferSize)

	s.broker.subscribe(mentorEmail, channel)
	observability.SSEClientsActive().Inc()

	cleanup := func() {
		s.broker.unsubscribe(mentorEmail, channel)
		observability.SSEClientsActive().Dec()
	}

	return channel, cleanup
}

func (s *notificationService) relay(ctx context.Context, notification dto.NotificationResponse) error {
	event := notificationEvent{
		Source:       s.nodeID,
		Notification: notification,
		SentAt:       time.Now().UTC(),
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	if s.redis != nil && s.redisStream != "" {
		if err := s.redis.Publish(ctx, s.redisStream, payload).Err(); err != nil {
			return err
		}
	}

	if s.nats != nil && s.natsSubject != "" {
		if err := s.nats.Publish(s.natsSubject, payload); err != nil {
			return err
		}
	}

	return nil
}

func (s *notificationService) consumeRedis(ctx context.Context) {
	pubsub := s.redis.Subscribe(ctx, s.redisStream)
	defer func() { _ = pubsub.Close() }()

	for {
		msg, err := pubsub.ReceiveMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			s.logger.Error().Err(err).Msg("notification redis subscription closed")
			return
		}
		s.handleEvent([]byte(msg.Payload))
	}
}

func (s *notificationService) consumeNATS(ctx context.Context) {
	sub, err := s.nats.QueueSubscribe(s.natsSubject, "sap-mentor-notifications", func(msg *nats.Msg) {
		s.handleEvent(msg.Data)
	})
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to subscribe to nats notifications subject")
		return
	}

	go func() {
		<-ctx.Done()
		if err := sub.Drain(); err != nil {
			s.logger.Warn().Err(err).Msg("failed to drain notification nats subscription")
		}
	}()
}

func (s *notificationService) handleEvent(payload []byte) {
	var event notificationEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		s.logger.Warn().Err(err).Msg("invalid notification event payload")
		return
	}

	// Events this node published already reached local subscribers.
	if event.Source == s.nodeID {
		return
	}

	notification := event.Notification
	if notification.Type == "" {
		notification.Type = models.NotificationPendingReview
	}

	observability.NotificationsPublishedTotal().WithLabelValues(notification.Type).Inc()
	s.broker.broadcast(notification.MentorEmail, notification)
}

func (b *notificationBroker) subscribe(mentorEmail string, ch chan dto.NotificationResponse) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, exists := b.subscribers[mentorEmail]; !exists {
		b.subscribers[mentorEmail] = make(map[chan dto.NotificationResponse]struct{})
	}
	b.subscribers[mentorEmail][ch] = struct{}{}
}

func (b *notificationBroker) unsubscribe(mentorEmail string, ch chan dto.NotificationResponse) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if subscribers, ok := b.subscribers[mentorEmail]; ok {
		delete(subscribers, ch)
		close(ch)
		if len(subscribers) == 0 {
			delete(b.subscribers, mentorEmail)
		}
	}
}

func (b *notificationBroker) broadcast(mentorEmail string, notification dto.NotificationResponse) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	subscribers := b.subscribers[mentorEmail]
	for ch := range subscribers {
		select {
		case ch <- notification:
		default:
		}
	}
}
