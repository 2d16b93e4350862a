package mocks

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/asistoya/shared-services/internal/core/domain"
	"github.com/asistoya/shared-services/internal/core/ports"
)

var ErrInvalidCredentials = errors.New("Invalid login credentials")

type mockIdentity struct {
	user     domain.AuthUser
	password string
}

// MockAuthProvider implements ports.AuthProvider in memory. Listeners are
// called synchronously from the method that changes the session.
type MockAuthProvider struct {
	mu         sync.RWMutex
	identities map[string]*mockIdentity
	session    *domain.Session
	listeners  map[int]ports.AuthStateListener
	nextID     int

	// Call tracking for verification
	SignUpCalls         []string
	SignUpMetadata      []map[string]any
	SignInCalls         []string
	SignOutCalls        int
	ResetCalls          []string
	UpdatePasswordCalls []string

	// Error injection for testing error scenarios
	SignUpError         error
	SignInError         error
	SignOutError        error
	CurrentUserError    error
	SessionError        error
	ResetError          error
	UpdatePasswordError error
	SessionFromURLError error
}

var _ ports.AuthProvider = (*MockAuthProvider)(nil)

func NewMockAuthProvider() *MockAuthProvider {
	return &MockAuthProvider{
		identities: make(map[string]*mockIdentity),
		listeners:  make(map[int]ports.AuthStateListener),
	}
}

// SeedIdentity adds an identity that can sign in with password.
func (m *MockAuthProvider) SeedIdentity(id, email, password string) domain.AuthUser {
	m.mu.Lock()
	defer m.mu.Unlock()
	u := domain.AuthUser{ID: id, Email: email, CreatedAt: time.Now()}
	m.identities[email] = &mockIdentity{user: u, password: password}
	return u
}

// SetSession replaces the current session without notifying listeners.
func (m *MockAuthProvider) SetSession(s *domain.Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session = s
}

// Fire notifies every listener of event.
func (m *MockAuthProvider) Fire(ctx context.Context, event domain.AuthEvent, s *domain.Session) {
	m.mu.RLock()
	ls := make([]ports.AuthStateListener, 0, len(m.listeners))
	for _, l := range m.listeners {
		ls = append(ls, l)
	}
	m.mu.RUnlock()

	for _, l := range ls {
		l(ctx, event, s)
	}
}

func (m *MockAuthProvider) ListenerCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.listeners)
}

func (m *MockAuthProvider) SignUp(ctx context.Context, email, password string, metadata map[string]any) (*domain.AuthUser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.SignUpCalls = append(m.SignUpCalls, email)
	m.SignUpMetadata = append(m.SignUpMetadata, metadata)
	if m.SignUpError != nil {
		return nil, m.SignUpError
	}
	if _, exists := m.identities[email]; exists {
		return nil, errors.New("User already registered")
	}
	u := domain.AuthUser{ID: uuid.NewString(), Email: email, UserMetadata: metadata, CreatedAt: time.Now()}
	m.identities[email] = &mockIdentity{user: u, password: password}
	return &u, nil
}

func (m *MockAuthProvider) SignIn(ctx context.Context, email, password string) (*domain.Session, error) {
	m.mu.Lock()
	m.SignInCalls = append(m.SignInCalls, email)
	if m.SignInError != nil {
		m.mu.Unlock()
		return nil, m.SignInError
	}
	id, ok := m.identities[email]
	if !ok || id.password != password {
		m.mu.Unlock()
		return nil, ErrInvalidCredentials
	}
	s := &domain.Session{
		AccessToken:  uuid.NewString(),
		RefreshToken: uuid.NewString(),
		TokenType:    "bearer",
		ExpiresIn:    3600,
		ExpiresAt:    time.Now().Add(time.Hour),
		User:         id.user,
	}
	m.session = s
	m.mu.Unlock()

	m.Fire(ctx, domain.EventSignedIn, s)
	return s, nil
}

func (m *MockAuthProvider) SignOut(ctx context.Context) error {
	m.mu.Lock()
	m.SignOutCalls++
	if m.SignOutError != nil {
		m.mu.Unlock()
		return m.SignOutError
	}
	m.session = nil
	m.mu.Unlock()

	m.Fire(ctx, domain.EventSignedOut, nil)
	return nil
}

func (m *MockAuthProvider) CurrentUser(ctx context.Context) (*domain.AuthUser, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.CurrentUserError != nil {
		return nil, m.CurrentUserError
	}
	if m.session == nil {
		return nil, nil
	}
	u := m.session.User
	return &u, nil
}

func (m *MockAuthProvider) CurrentSession(ctx context.Context) (*domain.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.SessionError != nil {
		return nil, m.SessionError
	}
	if m.session == nil {
		return nil, nil
	}
	s := *m.session
	return &s, nil
}

func (m *MockAuthProvider) ResetPasswordForEmail(ctx context.Context, email, redirectTo string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ResetCalls = append(m.ResetCalls, email)
	return m.ResetError
}

func (m *MockAuthProvider) UpdatePassword(ctx context.Context, newPassword string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UpdatePasswordCalls = append(m.UpdatePasswordCalls, newPassword)
	if m.UpdatePasswordError != nil {
		return m.UpdatePasswordError
	}
	if m.session == nil {
		return errors.New("Auth session missing!")
	}
	if id, ok := m.identities[m.session.User.Email]; ok {
		id.password = newPassword
	}
	return nil
}

func (m *MockAuthProvider) SessionFromURL(ctx context.Context, rawURL string) (*domain.Session, error) {
	if m.SessionFromURLError != nil {
		return nil, m.SessionFromURLError
	}
	return nil, nil
}

func (m *MockAuthProvider) OnAuthStateChange(listener ports.AuthStateListener) func() {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.nextID
	m.nextID++
	m.listeners[id] = listener
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.listeners, id)
	}
}
