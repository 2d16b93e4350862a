// Package pushrelay turns notification rows routed through push into one
// broker message per registered device.
package pushrelay

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sony/gobreaker"

	"github.com/asistoya/shared-services/internal/adapters/metrics"
	"github.com/asistoya/shared-services/internal/config"
	"github.com/asistoya/shared-services/internal/core/domain"
	"github.com/asistoya/shared-services/internal/core/mapper"
	"github.com/asistoya/shared-services/internal/core/ports"
	"github.com/asistoya/shared-services/internal/logger"
)

const (
	channelName = "push-relay"

	// Delivery timeouts
	notificationTimeout     = 30 * time.Second
	batchTimeout            = 60 * time.Second
	periodicProcessInterval = 90 * time.Second

	// Health check configuration
	healthCheckStaleThreshold = 5 * time.Minute

	// Batch processing limits
	maxNotificationsPerBatch = 100

	inboxSize = 256
)

var ErrNoDevices = errors.New("pushrelay: user has no active device tokens")

// Notifications is the slice of the notification service the relay reads and
// writes through.
type Notifications interface {
	PendingPushNotifications(ctx context.Context, limit int) ([]domain.Notification, error)
	GetUserDeviceTokens(ctx context.Context, userID string) ([]domain.DeviceToken, error)
	GetUnreadCount(ctx context.Context, userID string) int
	MarkDelivered(ctx context.Context, id string) error
}

// HealthReporter is implemented by change feeds that track their connection.
type HealthReporter interface {
	IsHealthy() bool
}

type Options struct {
	Interval  time.Duration
	BatchSize int
	Clock     domain.Clock
	Metrics   *metrics.Metrics
}

// Relay listens for new notifications on the change feed and hands every
// push-routed one to the publisher, once per active device token.
type Relay struct {
	feed      ports.ChangeFeed
	notes     Notifications
	publisher ports.PushPublisher
	cb        *gobreaker.CircuitBreaker
	metrics   *metrics.Metrics
	clock     domain.Clock
	interval  time.Duration
	batchSize int
	inbox     chan domain.Notification

	mu            sync.Mutex
	lastProcessed time.Time
	isHealthy     bool
}

func NewRelay(feed ports.ChangeFeed, notes Notifications, publisher ports.PushPublisher, opts Options) *Relay {
	if opts.Clock == nil {
		opts.Clock = domain.SystemClock{}
	}
	if opts.Interval <= 0 {
		opts.Interval = periodicProcessInterval
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = maxNotificationsPerBatch
	}
	return &Relay{
		feed:          feed,
		notes:         notes,
		publisher:     publisher,
		cb:            config.NewCircuitBreaker("Relay-PostgreSQL"),
		metrics:       opts.Metrics,
		clock:         opts.Clock,
		interval:      opts.Interval,
		batchSize:     opts.BatchSize,
		inbox:         make(chan domain.Notification, inboxSize),
		lastProcessed: opts.Clock.Now(),
		isHealthy:     true,
	}
}

// IsHealthy is the liveness check: the relay loop is running and the feed,
// when it reports health, is connected.
func (r *Relay) IsHealthy() bool {
	r.mu.Lock()
	healthy := r.isHealthy
	r.mu.Unlock()
	if hr, ok := r.feed.(HealthReporter); ok && !hr.IsHealthy() {
		return false
	}
	return healthy
}

// IsReady is the readiness check. An open breaker or no completed pass in
// the last five minutes makes the relay unready.
func (r *Relay) IsReady() bool {
	if r.cb.State() == gobreaker.StateOpen {
		return false
	}
	r.mu.Lock()
	stale := r.clock.Now().Sub(r.lastProcessed) > healthCheckStaleThreshold
	r.mu.Unlock()
	if stale {
		return false
	}
	return r.IsHealthy()
}

// Start subscribes to notification inserts and delivers them until ctx is
// cancelled. A catch-up pass runs at startup and then on every interval.
func (r *Relay) Start(ctx context.Context) error {
	sub, err := r.feed.Subscribe(ctx, ports.ChannelSpec{
		Name:  channelName,
		Table: "notifications",
		Event: ports.ChangeInsert,
	}, r.enqueue)
	if err != nil {
		r.setHealthy(false)
		return fmt.Errorf("pushrelay: subscribe: %w", err)
	}
	defer sub.Unsubscribe()

	logger.Info("PushRelay", "listening for notifications", "channel", channelName)

	if err := r.catchUp(ctx); err != nil {
		logger.Warn("PushRelay", "startup backlog failed", "error", err)
	}

	for {
		select {
		case <-ctx.Done():
			logger.Info("PushRelay", "shutting down")
			return ctx.Err()

		case n := <-r.inbox:
			if err := r.deliver(ctx, n); err != nil {
				logger.Warn("PushRelay", "delivery failed", "notificationId", n.ID, "error", err)
				continue
			}
			r.markProcessed()

		case <-time.After(r.interval):
			if err := r.catchUp(ctx); err != nil {
				logger.Warn("PushRelay", "periodic catch-up failed", "error", err)
				continue
			}
			r.markProcessed()
		}
	}
}

// enqueue runs on the feed's goroutine. A full inbox drops the event; the
// next catch-up pass picks the row up.
func (r *Relay) enqueue(ev ports.ChangeEvent) {
	var row domain.NotificationRow
	if err := json.Unmarshal(ev.New, &row); err != nil {
		logger.Warn("PushRelay", "undecodable notification row", "error", err)
		return
	}
	n := mapper.NotificationFromRow(row, r.clock.Now())
	if n.Delivered || !n.HasDelivery(domain.DeliveryPush) {
		return
	}
	select {
	case r.inbox <- n:
	default:
		logger.Warn("PushRelay", "inbox full, deferring to catch-up", "notificationId", n.ID)
	}
}

func (r *Relay) deliver(ctx context.Context, n domain.Notification) error {
	ctx, cancel := context.WithTimeout(ctx, notificationTimeout)
	defer cancel()

	_, err := r.cb.Execute(func() (interface{}, error) {
		return nil, r.push(ctx, n)
	})
	return err
}

// catchUp delivers the oldest pending push notifications. Failures of single
// notifications are logged and left pending.
func (r *Relay) catchUp(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, batchTimeout)
	defer cancel()

	_, err := r.cb.Execute(func() (interface{}, error) {
		pending, err := r.notes.PendingPushNotifications(ctx, r.batchSize)
		if err != nil {
			return nil, err
		}
		for _, n := range pending {
			if err := r.push(ctx, n); err != nil {
				logger.Warn("PushRelay", "pending delivery failed", "notificationId", n.ID, "error", err)
				continue
			}
			logger.Debug("PushRelay", "delivered pending notification", "notificationId", n.ID)
		}
		return nil, nil
	})
	return err
}

// push publishes n to every active device of its user and marks it delivered
// once all publishes succeeded. A user with no devices gets nothing and the
// notification is still marked delivered.
func (r *Relay) push(ctx context.Context, n domain.Notification) error {
	tokens, err := r.notes.GetUserDeviceTokens(ctx, n.UserID)
	if err != nil {
		return err
	}
	if len(tokens) == 0 {
		logger.Debug("PushRelay", ErrNoDevices.Error(), "userId", n.UserID)
		return r.notes.MarkDelivered(ctx, n.ID)
	}

	badge := r.notes.GetUnreadCount(ctx, n.UserID)
	var errs []error
	for _, t := range tokens {
		if err := r.publisher.PublishPush(ctx, Message(n, t, badge)); err != nil {
			r.metrics.Push(metrics.OutcomeError)
			errs = append(errs, fmt.Errorf("token %s: %w", t.ID, err))
			continue
		}
		r.metrics.Push(metrics.OutcomeOK)
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return r.notes.MarkDelivered(ctx, n.ID)
}

// Message builds the broker payload of n for one device.
func Message(n domain.Notification, t domain.DeviceToken, badge int) ports.PushMessage {
	data := make(map[string]string, len(n.Data)+3)
	for k, v := range n.Data {
		data[k] = fmt.Sprint(v)
	}
	data["notificationId"] = n.ID
	if n.Type != "" {
		data["type"] = string(n.Type)
	}
	if n.ActionURL != "" {
		data["actionUrl"] = n.ActionURL
	}
	return ports.PushMessage{
		Token:          t.Token,
		Platform:       string(t.Platform),
		UserID:         n.UserID,
		NotificationID: n.ID,
		Title:          n.Title,
		Body:           n.Message,
		Data:           data,
		Badge:          &badge,
		Sound:          "default",
	}
}

func (r *Relay) markProcessed() {
	r.mu.Lock()
	r.lastProcessed = r.clock.Now()
	r.isHealthy = true
	r.mu.Unlock()
}

func (r *Relay) setHealthy(v bool) {
	r.mu.Lock()
	r.isHealthy = v
	r.mu.Unlock()
}
