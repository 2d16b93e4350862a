// Package realtime delivers row changes to subscribers. Change triggers
// publish every committed row change on a Postgres NOTIFY channel; the feed
// holds one LISTEN connection and fans the changes out to subscriptions.
package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/asistoya/shared-services/internal/adapters/metrics"
	"github.com/asistoya/shared-services/internal/core/ports"
	"github.com/asistoya/shared-services/internal/logger"
)

const (
	// PostgreSQL NOTIFY/LISTEN configuration
	listenerMinReconnectInterval = 10 * time.Second
	listenerMaxReconnectInterval = time.Minute

	// Keepalive on an idle connection
	pingInterval = 90 * time.Second

	// Re-reading a truncated row
	refetchTimeout = 10 * time.Second

	tag = "RealtimeFeed"
)

var ErrClosed = errors.New("realtime: feed closed")

// Listener is the subset of *pq.Listener the feed uses.
type Listener interface {
	Listen(channel string) error
	NotificationChannel() <-chan *pq.Notification
	Ping() error
	Close() error
}

type payload struct {
	Table      string          `json:"table"`
	Type       string          `json:"type"`
	CommitTime string          `json:"commit_time"`
	Record     json.RawMessage `json:"record"`
	OldRecord  json.RawMessage `json:"old_record"`
	Truncated  bool            `json:"truncated"`
	ID         json.RawMessage `json:"id"`
	Keys       json.RawMessage `json:"keys"`
}

type Feed struct {
	store       ports.Store
	metrics     *metrics.Metrics
	newListener func() Listener

	mu        sync.Mutex
	subs      map[string]*subscription
	listener  Listener
	cancel    context.CancelFunc
	done      chan struct{}
	closed    bool
	isHealthy bool

	// Handlers in flight on the run goroutine
	delivering atomic.Int32
}

var _ ports.ChangeFeed = (*Feed)(nil)

// NewFeed returns a feed that listens on dbURL once the first subscription is
// made. store is used to re-read rows too large to travel in a notification.
func NewFeed(dbURL string, store ports.Store, m *metrics.Metrics) *Feed {
	return NewFeedWithListener(func() Listener {
		reportProblem := func(ev pq.ListenerEventType, err error) {
			if err != nil {
				logger.Warn(tag, "listener error", "event", int(ev), "error", err.Error())
			}
		}
		return pq.NewListener(dbURL, listenerMinReconnectInterval, listenerMaxReconnectInterval, reportProblem)
	}, store, m)
}

// NewFeedWithListener builds a feed over a custom listener factory.
func NewFeedWithListener(newListener func() Listener, store ports.Store, m *metrics.Metrics) *Feed {
	return &Feed{
		store:       store,
		metrics:     m,
		newListener: newListener,
		subs:        make(map[string]*subscription),
	}
}

type subscription struct {
	id      string
	spec    ports.ChannelSpec
	handler func(ports.ChangeEvent)
	feed    *Feed
}

func (s *subscription) Name() string { return s.spec.Name }

func (s *subscription) Unsubscribe() error {
	s.feed.mu.Lock()
	defer s.feed.mu.Unlock()
	delete(s.feed.subs, s.id)
	return nil
}

// Subscribe registers handler for the changes matching spec. Only equality
// filters are supported.
func (f *Feed) Subscribe(ctx context.Context, spec ports.ChannelSpec, handler func(ports.ChangeEvent)) (ports.Subscription, error) {
	if spec.Table == "" {
		return nil, fmt.Errorf("realtime: subscription %q has no table", spec.Name)
	}
	if spec.Filter != nil && spec.Filter.Op != ports.OpEq {
		return nil, fmt.Errorf("realtime: subscription %q: unsupported filter operator %q", spec.Name, spec.Filter.Op)
	}
	if spec.Event == "" {
		spec.Event = ports.ChangeAll
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return nil, ErrClosed
	}
	if f.listener == nil {
		if err := f.startLocked(); err != nil {
			return nil, err
		}
	}

	sub := &subscription{id: uuid.NewString(), spec: spec, handler: handler, feed: f}
	f.subs[sub.id] = sub
	logger.Debug(tag, "subscribed", "channel", spec.Name, "table", spec.Table, "event", string(spec.Event))
	return sub, nil
}

func (f *Feed) startLocked() error {
	l := f.newListener()
	if err := l.Listen(ChannelName); err != nil {
		_ = l.Close()
		return fmt.Errorf("realtime: listen on %s: %w", ChannelName, err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	f.listener = l
	f.cancel = cancel
	f.done = make(chan struct{})
	f.isHealthy = true

	go f.run(ctx, l, f.done)
	logger.Info(tag, "listening for row changes", "channel", ChannelName)
	return nil
}

func (f *Feed) run(ctx context.Context, l Listener, done chan struct{}) {
	defer close(done)
	notify := l.NotificationChannel()

	for {
		select {
		case <-ctx.Done():
			return

		case n, ok := <-notify:
			if !ok {
				return
			}
			if n == nil {
				logger.Warn(tag, "connection lost, reconnecting")
				f.setHealthy(false)
				continue
			}
			f.setHealthy(true)
			f.dispatch(ctx, n.Extra)

		case <-time.After(pingInterval):
			go func() {
				if err := l.Ping(); err != nil {
					logger.Warn(tag, "ping failed", "error", err.Error())
				}
			}()
		}
	}
}

func (f *Feed) dispatch(ctx context.Context, raw string) {
	var p payload
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		logger.Warn(tag, "malformed change payload", "error", err.Error())
		return
	}

	ev := ports.ChangeEvent{
		Type:  ports.ChangeType(p.Type),
		Table: p.Table,
		New:   nonNull(p.Record),
		Old:   nonNull(p.OldRecord),
	}
	if t, err := time.Parse(time.RFC3339Nano, p.CommitTime); err == nil {
		ev.CommitTime = t
	}
	if p.Truncated {
		f.complete(ctx, &ev, p.ID, nonNull(p.Keys))
	}
	f.metrics.RealtimeEvent(ev.Table, string(ev.Type))

	for _, sub := range f.matching(ev) {
		f.deliver(sub, ev)
	}
}

// complete restores the row of a truncated notification. A deleted row
// cannot be re-read, so it is reduced to its key columns.
func (f *Feed) complete(ctx context.Context, ev *ports.ChangeEvent, id, keys json.RawMessage) {
	var key any
	if err := json.Unmarshal(id, &key); err != nil {
		return
	}
	if ev.Type == ports.ChangeDelete {
		cols := map[string]any{}
		if keys != nil {
			_ = json.Unmarshal(keys, &cols)
		}
		cols["id"] = key
		ev.Old, _ = json.Marshal(cols)
		return
	}
	if f.store == nil {
		return
	}

	ctx, cancel := context.WithTimeout(ctx, refetchTimeout)
	defer cancel()
	rows, err := f.store.Select(ctx, ev.Table, ports.Query{Where: []ports.Filter{ports.Eq("id", key)}, Limit: 1})
	if err != nil || len(rows) == 0 {
		logger.Warn(tag, "could not re-read truncated row", "table", ev.Table, "id", string(id))
		return
	}
	ev.New = rows[0]
}

func (f *Feed) matching(ev ports.ChangeEvent) []*subscription {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []*subscription
	for _, sub := range f.subs {
		if matches(sub.spec, ev) {
			out = append(out, sub)
		}
	}
	return out
}

func (f *Feed) deliver(sub *subscription, ev ports.ChangeEvent) {
	f.delivering.Add(1)
	defer f.delivering.Add(-1)
	defer func() {
		if r := recover(); r != nil {
			logger.Error(tag, "subscriber panicked", "channel", sub.spec.Name, "panic", fmt.Sprint(r))
		}
	}()
	sub.handler(ev)
}

func matches(spec ports.ChannelSpec, ev ports.ChangeEvent) bool {
	if spec.Table != ev.Table {
		return false
	}
	if spec.Event != ports.ChangeAll && spec.Event != ev.Type {
		return false
	}
	if spec.Filter == nil {
		return true
	}

	row := ev.New
	if ev.Type == ports.ChangeDelete {
		row = ev.Old
	}
	var cols map[string]any
	if err := json.Unmarshal(row, &cols); err != nil {
		return false
	}
	v, ok := cols[spec.Filter.Column]
	if !ok || v == nil {
		return spec.Filter.Value == nil
	}
	return fmt.Sprint(v) == fmt.Sprint(spec.Filter.Value)
}

func nonNull(raw json.RawMessage) json.RawMessage {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	return raw
}

func (f *Feed) setHealthy(v bool) {
	f.mu.Lock()
	f.isHealthy = v
	f.mu.Unlock()
}

// IsHealthy reports whether the listen connection is up. A feed with no
// subscriptions yet is healthy.
func (f *Feed) IsHealthy() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.listener == nil || f.isHealthy
}

// Close stops the listener. Later subscriptions fail with ErrClosed. Close
// waits for the feed goroutine to exit, except while a handler is running:
// a handler may close its own feed, and the change being delivered is then
// the last one any subscriber sees.
func (f *Feed) Close() error {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return nil
	}
	f.closed = true
	l, cancel, done := f.listener, f.cancel, f.done
	f.subs = make(map[string]*subscription)
	f.mu.Unlock()

	if l == nil {
		return nil
	}
	cancel()
	if f.delivering.Load() == 0 {
		<-done
	}
	return l.Close()
}
