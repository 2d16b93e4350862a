package auth_test

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/asistoya/shared-services/internal/adapters/auth"
	"github.com/asistoya/shared-services/internal/core/domain"
)

type refreshRecord struct {
	userID  string
	revoked bool
}

type recoveryRecord struct {
	userID string
	sentAt time.Time
}

// fakeIdentities is an in-memory auth.IdentityStore.
type fakeIdentities struct {
	mu       sync.Mutex
	byEmail  map[string]*auth.Identity
	refresh  map[string]*refreshRecord
	recovery map[string]recoveryRecord

	TouchError error
}

var _ auth.IdentityStore = (*fakeIdentities)(nil)

func newFakeIdentities() *fakeIdentities {
	return &fakeIdentities{
		byEmail:  make(map[string]*auth.Identity),
		refresh:  make(map[string]*refreshRecord),
		recovery: make(map[string]recoveryRecord),
	}
}

func (f *fakeIdentities) Create(ctx context.Context, email, hash string, metadata map[string]any, at time.Time) (*domain.AuthUser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u := domain.AuthUser{ID: uuid.NewString(), Email: email, UserMetadata: metadata, CreatedAt: at}
	f.byEmail[email] = &auth.Identity{User: u, PasswordHash: hash}
	return &u, nil
}

func (f *fakeIdentities) FindByEmail(ctx context.Context, email string) (*auth.Identity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if id, ok := f.byEmail[email]; ok {
		c := *id
		return &c, nil
	}
	return nil, nil
}

func (f *fakeIdentities) FindByID(ctx context.Context, userID string) (*auth.Identity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, id := range f.byEmail {
		if id.User.ID == userID {
			c := *id
			return &c, nil
		}
	}
	return nil, nil
}

func (f *fakeIdentities) UpdatePassword(ctx context.Context, userID, hash string, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, id := range f.byEmail {
		if id.User.ID == userID {
			id.PasswordHash = hash
		}
	}
	return nil
}

func (f *fakeIdentities) TouchSignIn(ctx context.Context, userID string, at time.Time) error {
	return f.TouchError
}

func (f *fakeIdentities) SaveRefreshToken(ctx context.Context, token, userID string, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.refresh[token] = &refreshRecord{userID: userID}
	return nil
}

func (f *fakeIdentities) ConsumeRefreshToken(ctx context.Context, token string, at time.Time) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.refresh[token]
	if !ok || r.revoked {
		return "", auth.ErrTokenNotFound
	}
	r.revoked = true
	return r.userID, nil
}

func (f *fakeIdentities) RevokeRefreshTokens(ctx context.Context, userID string, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.refresh {
		if r.userID == userID {
			r.revoked = true
		}
	}
	return nil
}

func (f *fakeIdentities) SaveRecoveryToken(ctx context.Context, userID, token string, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.recovery[token] = recoveryRecord{userID: userID, sentAt: at}
	return nil
}

func (f *fakeIdentities) ConsumeRecoveryToken(ctx context.Context, token string, notBefore time.Time) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.recovery[token]
	if !ok || !r.sentAt.After(notBefore) {
		return "", auth.ErrTokenNotFound
	}
	delete(f.recovery, token)
	return r.userID, nil
}

func (f *fakeIdentities) activeRefreshTokens() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, r := range f.refresh {
		if !r.revoked {
			n++
		}
	}
	return n
}
