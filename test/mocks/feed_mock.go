package mocks

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/asistoya/shared-services/internal/core/ports"
)

// MockChangeFeed implements ports.ChangeFeed. Tests push changes with Emit,
// which delivers synchronously to every matching subscription.
type MockChangeFeed struct {
	mu   sync.RWMutex
	subs []*mockSubscription

	// Call tracking for verification
	SubscribeCalls []ports.ChannelSpec

	// Error injection for testing error scenarios
	SubscribeError error
}

var _ ports.ChangeFeed = (*MockChangeFeed)(nil)

type mockSubscription struct {
	spec         ports.ChannelSpec
	handler      func(ports.ChangeEvent)
	unsubscribed bool
	feed         *MockChangeFeed
}

func (s *mockSubscription) Name() string { return s.spec.Name }

func (s *mockSubscription) Unsubscribe() error {
	s.feed.mu.Lock()
	defer s.feed.mu.Unlock()
	s.unsubscribed = true
	return nil
}

func NewMockChangeFeed() *MockChangeFeed {
	return &MockChangeFeed{}
}

func (m *MockChangeFeed) Subscribe(ctx context.Context, spec ports.ChannelSpec, handler func(ports.ChangeEvent)) (ports.Subscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.SubscribeCalls = append(m.SubscribeCalls, spec)
	if m.SubscribeError != nil {
		return nil, m.SubscribeError
	}
	sub := &mockSubscription{spec: spec, handler: handler, feed: m}
	m.subs = append(m.subs, sub)
	return sub, nil
}

// Emit delivers a change to the active subscriptions whose table, event and
// equality filter match. It returns the number of handlers called.
func (m *MockChangeFeed) Emit(ev ports.ChangeEvent) int {
	m.mu.RLock()
	var targets []*mockSubscription
	for _, s := range m.subs {
		if !s.unsubscribed && specMatches(s.spec, ev) {
			targets = append(targets, s)
		}
	}
	m.mu.RUnlock()

	for _, s := range targets {
		s.handler(ev)
	}
	return len(targets)
}

// EmitRow is Emit for a change whose row is given as a struct or patch.
func (m *MockChangeFeed) EmitRow(table string, typ ports.ChangeType, row any) int {
	raw, err := json.Marshal(row)
	if err != nil {
		panic(fmt.Sprintf("mock feed: cannot encode row: %v", err))
	}
	ev := ports.ChangeEvent{Type: typ, Table: table, New: raw}
	if typ == ports.ChangeDelete {
		ev = ports.ChangeEvent{Type: typ, Table: table, Old: raw}
	}
	return m.Emit(ev)
}

// ActiveSubscriptions returns the specs of subscriptions not yet cancelled.
func (m *MockChangeFeed) ActiveSubscriptions() []ports.ChannelSpec {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []ports.ChannelSpec
	for _, s := range m.subs {
		if !s.unsubscribed {
			out = append(out, s.spec)
		}
	}
	return out
}

func (m *MockChangeFeed) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subs = nil
	m.SubscribeCalls = nil
	m.SubscribeError = nil
}

func specMatches(spec ports.ChannelSpec, ev ports.ChangeEvent) bool {
	if spec.Table != ev.Table {
		return false
	}
	if spec.Event != "" && spec.Event != ports.ChangeAll && spec.Event != ev.Type {
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
	return fmt.Sprint(cols[spec.Filter.Column]) == fmt.Sprint(spec.Filter.Value)
}
