package mocks

import (
	"context"
	"sync"

	"github.com/asistoya/shared-services/internal/core/ports"
)

// MockPushPublisher implements ports.PushPublisher for testing.
// This mock allows us to test the push relay without a real RabbitMQ connection.
type MockPushPublisher struct {
	mu sync.RWMutex

	// Track published messages for verification
	Published []ports.PushMessage

	// Error injection: PublishError fails every call, FailTokens only the
	// listed device tokens
	PublishError error
	FailTokens   map[string]error

	PublishCallCount int
}

var _ ports.PushPublisher = (*MockPushPublisher)(nil)

func NewMockPushPublisher() *MockPushPublisher {
	return &MockPushPublisher{
		Published:  make([]ports.PushMessage, 0),
		FailTokens: make(map[string]error),
	}
}

func (m *MockPushPublisher) PublishPush(ctx context.Context, msg ports.PushMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.PublishCallCount++
	if m.PublishError != nil {
		return m.PublishError
	}
	if err := m.FailTokens[msg.Token]; err != nil {
		return err
	}
	m.Published = append(m.Published, msg)
	return nil
}

// GetPublished returns a copy of the messages published so far.
func (m *MockPushPublisher) GetPublished() []ports.PushMessage {
	m.mu.RLock()
	defer m.mu.RUnlock()

	msgs := make([]ports.PushMessage, len(m.Published))
	copy(msgs, m.Published)
	return msgs
}

func (m *MockPushPublisher) GetPublishCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.PublishCallCount
}

func (m *MockPushPublisher) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Published = make([]ports.PushMessage, 0)
	m.FailTokens = make(map[string]error)
	m.PublishError = nil
	m.PublishCallCount = 0
}

// MockMailPublisher implements ports.MailPublisher for testing.
type MockMailPublisher struct {
	mu sync.RWMutex

	Sent         []ports.RecoveryEmail
	PublishError error
}

var _ ports.MailPublisher = (*MockMailPublisher)(nil)

func NewMockMailPublisher() *MockMailPublisher {
	return &MockMailPublisher{Sent: make([]ports.RecoveryEmail, 0)}
}

func (m *MockMailPublisher) PublishRecoveryEmail(ctx context.Context, mail ports.RecoveryEmail) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.PublishError != nil {
		return m.PublishError
	}
	m.Sent = append(m.Sent, mail)
	return nil
}

func (m *MockMailPublisher) GetSent() []ports.RecoveryEmail {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]ports.RecoveryEmail, len(m.Sent))
	copy(out, m.Sent)
	return out
}
