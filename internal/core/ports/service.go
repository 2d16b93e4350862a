package ports

import (
	"context"

	"github.com/asistoya/shared-services/internal/core/domain"
)

// SessionStorage persists the serialized session between process runs.
// GetItem returns "" and a nil error when the key is absent.
type SessionStorage interface {
	GetItem(ctx context.Context, key string) (string, error)
	SetItem(ctx context.Context, key, value string) error
	RemoveItem(ctx context.Context, key string) error
}

type AuthStateListener func(ctx context.Context, event domain.AuthEvent, session *domain.Session)

// AuthProvider is the identity backend. It owns the current session.
type AuthProvider interface {
	SignUp(ctx context.Context, email, password string, metadata map[string]any) (*domain.AuthUser, error)
	SignIn(ctx context.Context, email, password string) (*domain.Session, error)
	SignOut(ctx context.Context) error
	CurrentUser(ctx context.Context) (*domain.AuthUser, error)
	CurrentSession(ctx context.Context) (*domain.Session, error)
	ResetPasswordForEmail(ctx context.Context, email, redirectTo string) error
	UpdatePassword(ctx context.Context, newPassword string) error
	// SessionFromURL restores a session from a redirect URL fragment.
	SessionFromURL(ctx context.Context, rawURL string) (*domain.Session, error)
	// OnAuthStateChange registers listener and returns its unsubscribe func.
	OnAuthStateChange(listener AuthStateListener) func()
}
