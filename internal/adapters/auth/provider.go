// Package auth is the identity backend: email and password identities kept in
// the auth schema, bcrypt password hashes, HS256 access tokens and
// single-use refresh tokens.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/asistoya/shared-services/internal/adapters/metrics"
	"github.com/asistoya/shared-services/internal/core/domain"
	"github.com/asistoya/shared-services/internal/core/ports"
	"github.com/asistoya/shared-services/internal/logger"
)

var (
	ErrInvalidCredentials = errors.New("Invalid login credentials")
	ErrUserExists         = errors.New("User already registered")
	ErrSessionMissing     = errors.New("Auth session missing!")
	ErrInvalidRefresh     = errors.New("Invalid Refresh Token")
	ErrRecoveryExpired    = errors.New("Email link is invalid or has expired")
)

const (
	DefaultStorageKey  = "asistoya-auth-token"
	defaultSessionTTL  = time.Hour
	defaultRecoveryTTL = time.Hour
	tokenType          = "bearer"
)

type Options struct {
	PersistSession     bool
	AutoRefreshToken   bool
	DetectSessionInURL bool
	Storage            ports.SessionStorage
	StorageKey         string
	Mail               ports.MailPublisher
	SessionTTL         time.Duration
	RecoveryTTL        time.Duration
	HashCost           int
	Clock              domain.Clock
	Metrics            *metrics.Metrics
}

// Provider implements ports.AuthProvider. It holds the current session of
// the process and notifies listeners when it changes.
type Provider struct {
	ids    IdentityStore
	tokens *Tokens
	opts   Options

	mu      sync.Mutex
	session *domain.Session
	loaded  bool

	lmu       sync.RWMutex
	listeners map[int]ports.AuthStateListener
	nextID    int
}

var _ ports.AuthProvider = (*Provider)(nil)

func NewProvider(ids IdentityStore, key string, opts Options) *Provider {
	if opts.StorageKey == "" {
		opts.StorageKey = DefaultStorageKey
	}
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = defaultSessionTTL
	}
	if opts.RecoveryTTL <= 0 {
		opts.RecoveryTTL = defaultRecoveryTTL
	}
	if opts.HashCost == 0 {
		opts.HashCost = bcrypt.DefaultCost
	}
	if opts.Clock == nil {
		opts.Clock = domain.SystemClock{}
	}
	return &Provider{
		ids:       ids,
		tokens:    NewTokens(key, opts.SessionTTL, opts.Clock),
		opts:      opts,
		listeners: make(map[int]ports.AuthStateListener),
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (p *Provider) SignUp(ctx context.Context, email, password string, metadata map[string]any) (*domain.AuthUser, error) {
	email = normalizeEmail(email)
	existing, err := p.ids.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("auth: find identity: %w", err)
	}
	if existing != nil {
		return nil, ErrUserExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), p.opts.HashCost)
	if err != nil {
		return nil, fmt.Errorf("auth: hash password: %w", err)
	}
	user, err := p.ids.Create(ctx, email, string(hash), metadata, p.opts.Clock.Now())
	if err != nil {
		return nil, fmt.Errorf("auth: create identity: %w", err)
	}
	return user, nil
}

func (p *Provider) SignIn(ctx context.Context, email, password string) (*domain.Session, error) {
	id, err := p.ids.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, fmt.Errorf("auth: find identity: %w", err)
	}
	if id == nil || bcrypt.CompareHashAndPassword([]byte(id.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}

	now := p.opts.Clock.Now()
	if err := p.ids.TouchSignIn(ctx, id.User.ID, now); err != nil {
		logger.Warn("Auth", "failed to record sign in", "user", id.User.ID, "error", err)
	} else {
		id.User.LastSignInAt = &now
	}

	s, err := p.newSession(ctx, id.User)
	if err != nil {
		return nil, err
	}
	p.setSession(ctx, s)
	p.emit(ctx, domain.EventSignedIn, s)
	return copySession(s), nil
}

func (p *Provider) SignOut(ctx context.Context) error {
	s, err := p.loadSession(ctx)
	if err != nil {
		return err
	}
	if s != nil {
		if err := p.ids.RevokeRefreshTokens(ctx, s.User.ID, p.opts.Clock.Now()); err != nil {
			return fmt.Errorf("auth: revoke refresh tokens: %w", err)
		}
	}
	p.setSession(ctx, nil)
	p.emit(ctx, domain.EventSignedOut, nil)
	return nil
}

// CurrentSession returns the session held by the provider, refreshing it
// first when it has expired and auto refresh is on. An expired session that
// cannot be refreshed is reported as no session.
func (p *Provider) CurrentSession(ctx context.Context) (*domain.Session, error) {
	s, err := p.loadSession(ctx)
	if err != nil || s == nil {
		return nil, err
	}
	if !s.Expired(p.opts.Clock.Now()) {
		return copySession(s), nil
	}
	if !p.opts.AutoRefreshToken {
		return nil, nil
	}
	return p.refresh(ctx, s.RefreshToken)
}

// CurrentUser verifies the current access token and returns the identity it
// was issued for.
func (p *Provider) CurrentUser(ctx context.Context) (*domain.AuthUser, error) {
	s, err := p.CurrentSession(ctx)
	if err != nil || s == nil {
		return nil, err
	}
	claims, err := p.tokens.Parse(s.AccessToken)
	if err != nil {
		return nil, err
	}
	id, err := p.ids.FindByID(ctx, claims.Subject)
	if err != nil {
		return nil, fmt.Errorf("auth: find identity: %w", err)
	}
	if id == nil {
		return nil, ErrSessionMissing
	}
	return &id.User, nil
}

// ResetPasswordForEmail stores a recovery token and queues the recovery
// email. Unknown addresses succeed without sending anything.
func (p *Provider) ResetPasswordForEmail(ctx context.Context, email, redirectTo string) error {
	email = normalizeEmail(email)
	id, err := p.ids.FindByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("auth: find identity: %w", err)
	}
	if id == nil {
		logger.Debug("Auth", "recovery requested for unknown email")
		return nil
	}

	now := p.opts.Clock.Now()
	token := uuid.NewString()
	if err := p.ids.SaveRecoveryToken(ctx, id.User.ID, token, now); err != nil {
		return fmt.Errorf("auth: save recovery token: %w", err)
	}
	if p.opts.Mail == nil {
		logger.Warn("Auth", "no mail publisher configured, recovery email not sent", "user", id.User.ID)
		return nil
	}
	return p.opts.Mail.PublishRecoveryEmail(ctx, ports.RecoveryEmail{
		Email:       email,
		Token:       token,
		RedirectTo:  redirectTo,
		RequestedAt: now,
	})
}

func (p *Provider) UpdatePassword(ctx context.Context, newPassword string) error {
	s, err := p.CurrentSession(ctx)
	if err != nil {
		return err
	}
	if s == nil {
		return ErrSessionMissing
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), p.opts.HashCost)
	if err != nil {
		return fmt.Errorf("auth: hash password: %w", err)
	}
	if err := p.ids.UpdatePassword(ctx, s.User.ID, string(hash), p.opts.Clock.Now()); err != nil {
		return fmt.Errorf("auth: update password: %w", err)
	}
	p.emit(ctx, domain.EventUserUpdated, s)
	return nil
}

// SessionFromURL restores a session from a redirect URL. Recovery links
// (type=recovery&token=...) sign the user in and fire PASSWORD_RECOVERY;
// links carrying access_token and refresh_token adopt those tokens. Any
// other URL yields no session.
func (p *Provider) SessionFromURL(ctx context.Context, rawURL string) (*domain.Session, error) {
	if !p.opts.DetectSessionInURL {
		return nil, nil
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("auth: parse redirect url: %w", err)
	}
	params, err := url.ParseQuery(u.Fragment)
	if err != nil {
		return nil, fmt.Errorf("auth: parse redirect fragment: %w", err)
	}
	for k, v := range u.Query() {
		if _, ok := params[k]; !ok {
			params[k] = v
		}
	}

	if desc := params.Get("error_description"); desc != "" {
		return nil, errors.New(desc)
	}

	if params.Get("type") == "recovery" && params.Get("token") != "" {
		return p.recover(ctx, params.Get("token"))
	}

	access, refresh := params.Get("access_token"), params.Get("refresh_token")
	if access == "" || refresh == "" {
		return nil, nil
	}
	claims, err := p.tokens.Parse(access)
	if err != nil {
		return nil, err
	}
	id, err := p.ids.FindByID(ctx, claims.Subject)
	if err != nil {
		return nil, fmt.Errorf("auth: find identity: %w", err)
	}
	if id == nil {
		return nil, ErrSessionMissing
	}

	exp := claims.ExpiresAt.Time
	s := &domain.Session{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    tokenType,
		ExpiresIn:    int(exp.Sub(p.opts.Clock.Now()).Seconds()),
		ExpiresAt:    exp,
		User:         id.User,
	}
	p.setSession(ctx, s)
	p.emit(ctx, domain.EventSignedIn, s)
	return copySession(s), nil
}

func (p *Provider) recover(ctx context.Context, token string) (*domain.Session, error) {
	notBefore := p.opts.Clock.Now().Add(-p.opts.RecoveryTTL)
	userID, err := p.ids.ConsumeRecoveryToken(ctx, token, notBefore)
	if errors.Is(err, ErrTokenNotFound) {
		return nil, ErrRecoveryExpired
	}
	if err != nil {
		return nil, fmt.Errorf("auth: consume recovery token: %w", err)
	}
	id, err := p.ids.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("auth: find identity: %w", err)
	}
	if id == nil {
		return nil, ErrRecoveryExpired
	}

	s, err := p.newSession(ctx, id.User)
	if err != nil {
		return nil, err
	}
	p.setSession(ctx, s)
	p.emit(ctx, domain.EventPasswordRecovery, s)
	return copySession(s), nil
}

func (p *Provider) OnAuthStateChange(listener ports.AuthStateListener) func() {
	p.lmu.Lock()
	defer p.lmu.Unlock()
	id := p.nextID
	p.nextID++
	p.listeners[id] = listener

	var once sync.Once
	return func() {
		once.Do(func() {
			p.lmu.Lock()
			defer p.lmu.Unlock()
			delete(p.listeners, id)
		})
	}
}

// refresh exchanges refreshToken for a new session. A rejected token clears
// the current session.
func (p *Provider) refresh(ctx context.Context, refreshToken string) (*domain.Session, error) {
	userID, err := p.ids.ConsumeRefreshToken(ctx, refreshToken, p.opts.Clock.Now())
	if errors.Is(err, ErrTokenNotFound) {
		p.setSession(ctx, nil)
		p.emit(ctx, domain.EventSignedOut, nil)
		return nil, ErrInvalidRefresh
	}
	if err != nil {
		return nil, fmt.Errorf("auth: refresh session: %w", err)
	}
	id, err := p.ids.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("auth: find identity: %w", err)
	}
	if id == nil {
		p.setSession(ctx, nil)
		return nil, ErrInvalidRefresh
	}

	s, err := p.newSession(ctx, id.User)
	if err != nil {
		return nil, err
	}
	p.setSession(ctx, s)
	p.emit(ctx, domain.EventTokenRefreshed, s)
	return copySession(s), nil
}

func (p *Provider) newSession(ctx context.Context, user domain.AuthUser) (*domain.Session, error) {
	access, exp, err := p.tokens.Issue(user)
	if err != nil {
		return nil, err
	}
	refresh := uuid.NewString()
	if err := p.ids.SaveRefreshToken(ctx, refresh, user.ID, p.opts.Clock.Now()); err != nil {
		return nil, fmt.Errorf("auth: save refresh token: %w", err)
	}
	return &domain.Session{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    tokenType,
		ExpiresIn:    int(p.opts.SessionTTL.Seconds()),
		ExpiresAt:    exp,
		User:         user,
	}, nil
}

// loadSession returns the in-memory session, reading it from storage the
// first time when persistence is on.
func (p *Provider) loadSession(ctx context.Context) (*domain.Session, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.loaded || !p.persisting() {
		return p.session, nil
	}

	raw, err := p.opts.Storage.GetItem(ctx, p.opts.StorageKey)
	if err != nil {
		return nil, fmt.Errorf("auth: read stored session: %w", err)
	}
	p.loaded = true
	if raw == "" {
		return nil, nil
	}
	var s domain.Session
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		logger.Warn("Auth", "discarding unreadable stored session", "error", err)
		return nil, nil
	}
	p.session = &s
	return p.session, nil
}

// setSession replaces the current session and mirrors it to storage. Storage
// failures are logged; the in-memory session is authoritative.
func (p *Provider) setSession(ctx context.Context, s *domain.Session) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.session = s
	p.loaded = true
	if !p.persisting() {
		return
	}

	var err error
	if s == nil {
		err = p.opts.Storage.RemoveItem(ctx, p.opts.StorageKey)
	} else {
		var raw []byte
		if raw, err = json.Marshal(s); err == nil {
			err = p.opts.Storage.SetItem(ctx, p.opts.StorageKey, string(raw))
		}
	}
	if err != nil {
		logger.Warn("Auth", "failed to persist session", "error", err)
	}
}

func (p *Provider) persisting() bool {
	return p.opts.PersistSession && p.opts.Storage != nil
}

func (p *Provider) emit(ctx context.Context, event domain.AuthEvent, s *domain.Session) {
	p.opts.Metrics.AuthEvent(string(event))

	p.lmu.RLock()
	ls := make([]ports.AuthStateListener, 0, len(p.listeners))
	for _, l := range p.listeners {
		ls = append(ls, l)
	}
	p.lmu.RUnlock()

	for _, l := range ls {
		l(ctx, event, copySession(s))
	}
}

func copySession(s *domain.Session) *domain.Session {
	if s == nil {
		return nil
	}
	c := *s
	return &c
}
