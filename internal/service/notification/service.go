package notification

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/turnilab/turni-backend-go/internal/domain/notification"
	"github.com/turnilab/turni-backend-go/internal/domain/user"
	"github.com/turnilab/turni-backend-go/internal/pkg/push"
	"github.com/turnilab/turni-backend-go/internal/pkg/sse"
)

// Config holds notification service configuration
type Config struct {
	BatchSize     int           // default: 100
	FlushInterval time.Duration // default: 5 seconds
	WorkerCount   int           // default: 2
	QueueSize     int           // default: 1000
}

type service struct {
	repo   notification.Repository
	users  user.UserRepository
	hub    *sse.Hub
	pusher push.Sender
	config Config

	queue  chan notification.CreateNotificationRequest
	wg     sync.WaitGroup
	stopCh chan struct{}
}

// NewNotificationService creates a new notification service with background workers
func NewNotificationService(repo notification.Repository, users user.UserRepository, hub *sse.Hub, pusher push.Sender, cfg Config) notification.Service {
	if cfg.BatchSize == 0 {
		cfg.BatchSize = 100
	}
	if cfg.FlushInterval == 0 {
		cfg.FlushInterval = 5 * time.Second
	}
	if cfg.WorkerCount == 0 {
		cfg.WorkerCount = 2
	}
	if cfg.QueueSize == 0 {
		cfg.QueueSize = 1000
	}

	s := &service{
		repo:   repo,
		users:  users,
		hub:    hub,
		pusher: pusher,
		config: cfg,
		queue:  make(chan notification.CreateNotificationRequest, cfg.QueueSize),
		stopCh: make(chan struct{}),
	}

	for i := 0; i < cfg.WorkerCount; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}

	slog.Info("Notification service started",
		"workers", cfg.WorkerCount,
		"batch_size", cfg.BatchSize,
		"flush_interval", cfg.FlushInterval,
	)

	return s
}

// worker drains the queue in batches and flushes on a timer.
func (s *service) worker(id int) {
	defer s.wg.Done()

	batch := make([]notification.CreateNotificationRequest, 0, s.config.BatchSize)
	ticker := time.NewTicker(s.config.FlushInterval)
	defer ticker.Stop()

	flush := func() {
		if len(batch) == 0 {
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		notifications := make([]*notification.Notification, len(batch))
		for i, req := range batch {
			notifications[i] = &notification.Notification{
				ID:          uuid.New().String(),
				RecipientID: req.RecipientID,
				SenderID:    req.SenderID,
				Type:        req.Type,
				Title:       req.Title,
				Message:     req.Message,
				Data:        req.Data,
				IsRead:      false,
				CreatedAt:   time.Now(),
			}
		}

		if err := s.repo.CreateBatch(ctx, notifications); err != nil {
			slog.Error("Failed to batch insert notifications", "worker", id, "error", err)
		} else {
			for _, n := range notifications {
				s.deliver(ctx, n)
			}
		}

		batch = batch[:0]
	}

	for {
		select {
		case req := <-s.queue:
			batch = append(batch, req)
			if len(batch) >= s.config.BatchSize {
				flush()
			}
		case <-ticker.C:
			flush()
		case <-s.stopCh:
			flush()
			return
		}
	}
}

// deliver pushes a stored notification to the recipient's live stream
// and, when a device token is registered, to their phone.
func (s *service) deliver(ctx context.Context, n *notification.Notification) {
	s.hub.Publish(n.RecipientID, sse.Event{
		UserID: n.RecipientID,
		Event:  "notification",
		Data:   notification.ToResponse(n),
	})

	if s.pusher == nil {
		return
	}
	recipient, err := s.users.GetByID(ctx, n.RecipientID)
	if err != nil || recipient.PushToken == nil {
		return
	}
	msg := push.Message{
		To:    *recipient.PushToken,
		Title: n.Title,
		Body:  n.Message,
		Data:  n.Data,
	}
	if err := s.pusher.Send(ctx, []push.Message{msg}); err != nil {
		slog.Warn("Push delivery failed", "recipient_id", n.RecipientID, "error", err)
	}
}

// QueueNotification queues a notification for async processing
func (s *service) QueueNotification(ctx context.Context, req notification.CreateNotificationRequest) error {
	select {
	case s.queue <- req:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		// Queue full, insert directly
		return s.directInsert(ctx, req)
	}
}

// QueueBulkNotification queues multiple notifications for async processing
func (s *service) QueueBulkNotification(ctx context.Context, reqs []notification.CreateNotificationRequest) error {
	for _, req := range reqs {
		if err := s.QueueNotification(ctx, req); err != nil {
			slog.Error("Failed to queue notification", "error", err)
		}
	}
	return nil
}

func (s *service) directInsert(ctx context.Context, req notification.CreateNotificationRequest) error {
	n := &notification.Notification{
		ID:          uuid.New().String(),
		RecipientID: req.RecipientID,
		SenderID:    req.SenderID,
		Type:        req.Type,
		Title:       req.Title,
		Message:     req.Message,
		Data:        req.Data,
		IsRead:      false,
		CreatedAt:   time.Now(),
	}

	if err := s.repo.Create(ctx, n); err != nil {
		return err
	}

	s.deliver(ctx, n)
	return nil
}

// GetNotifications retrieves paginated notifications for a user
func (s *service) GetNotifications(ctx context.Context, userID string, page, pageSize int, unreadOnly bool) (*notification.NotificationListResponse, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	notifications, total, err := s.repo.GetByUserID(ctx, userID, page, pageSize, unreadOnly)
	if err != nil {
		return nil, err
	}

	unreadCount, err := s.repo.GetUnreadCount(ctx, userID)
	if err != nil {
		return nil, err
	}

	responses := make([]notification.NotificationResponse, len(notifications))
	for i, n := range notifications {
		responses[i] = notification.ToResponse(n)
	}

	return &notification.NotificationListResponse{
		Notifications: responses,
		Total:         total,
		UnreadCount:   unreadCount,
		Page:          page,
		PageSize:      pageSize,
	}, nil
}

// GetUnreadCount returns the count of unread notifications
func (s *service) GetUnreadCount(ctx context.Context, userID string) (int, error) {
	return s.repo.GetUnreadCount(ctx, userID)
}

// MarkAsRead marks specified notifications as read
func (s *service) MarkAsRead(ctx context.Context, userID string, req notification.MarkAsReadRequest) error {
	return s.repo.MarkAsRead(ctx, req.NotificationIDs, userID)
}

// MarkAllAsRead marks all notifications as read for a user
func (s *service) MarkAllAsRead(ctx context.Context, userID string) error {
	return s.repo.MarkAllAsRead(ctx, userID)
}

// Delete removes a notification
func (s *service) Delete(ctx context.Context, userID string, notificationID string) error {
	return s.repo.Delete(ctx, notificationID, userID)
}

// Subscribe creates an SSE subscription for a user
func (s *service) Subscribe(ctx context.Context, userID string) (<-chan notification.SSEEvent, func()) {
	ch, cleanup := s.hub.Subscribe(userID)

	out := make(chan notification.SSEEvent, 10)

	go func() {
		defer close(out)
		for {
			select {
			case event, ok := <-ch:
				if !ok {
					return
				}
				if resp, ok := event.Data.(notification.NotificationResponse); ok {
					out <- notification.SSEEvent{
						Event: event.Event,
						Data:  resp,
					}
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, cleanup
}

// Stop gracefully stops the notification service
func (s *service) Stop() {
	close(s.stopCh)
	s.wg.Wait()
	slog.Info("Notification service stopped")
}
