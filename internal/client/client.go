// Package client composes the backend connection: SQL store, change feed,
// auth provider and session storage.
package client

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/asistoya/shared-services/internal/adapters/auth"
	"github.com/asistoya/shared-services/internal/adapters/metrics"
	"github.com/asistoya/shared-services/internal/adapters/postgres"
	"github.com/asistoya/shared-services/internal/adapters/realtime"
	"github.com/asistoya/shared-services/internal/adapters/sessionstore"
	"github.com/asistoya/shared-services/internal/core/apperr"
	"github.com/asistoya/shared-services/internal/core/domain"
	"github.com/asistoya/shared-services/internal/core/ports"
	"github.com/asistoya/shared-services/internal/core/services"
	"github.com/asistoya/shared-services/internal/logger"
)

type Config struct {
	URL     string
	Key     string
	Options Options
}

// Options tune the auth session. Nil booleans default to true.
type Options struct {
	PersistSession     *bool
	AutoRefreshToken   *bool
	DetectSessionInURL *bool
	Storage            ports.SessionStorage
	Mail               ports.MailPublisher
	Registerer         prometheus.Registerer
	SessionTTL         time.Duration
	Clock              domain.Clock
}

func enabled(v *bool) bool {
	return v == nil || *v
}

// Client is one live backend connection.
type Client struct {
	DB      *sql.DB
	Store   *postgres.Store
	Feed    *realtime.Feed
	Auth    *auth.Provider
	Storage ports.SessionStorage
	Metrics *metrics.Metrics
	Clock   domain.Clock
}

// Open composes a client for cfg. Nothing is dialed until the first call
// that needs the database.
func Open(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.URL == "" {
		return nil, apperr.Validation("url", "Backend URL is required")
	}
	if cfg.Key == "" {
		return nil, apperr.Validation("key", "Backend key is required")
	}

	opts := cfg.Options
	if opts.Clock == nil {
		opts.Clock = domain.SystemClock{}
	}
	persist := enabled(opts.PersistSession)
	storage := opts.Storage
	if persist && storage == nil {
		storage = sessionstore.NewMemory()
	}

	db, err := postgres.Open(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("client: %w", err)
	}

	m := metrics.New(opts.Registerer)
	store := postgres.NewStore(db, m)
	provider := auth.NewProvider(auth.NewSQLIdentities(db), cfg.Key, auth.Options{
		PersistSession:     persist,
		AutoRefreshToken:   enabled(opts.AutoRefreshToken),
		DetectSessionInURL: enabled(opts.DetectSessionInURL),
		Storage:            storage,
		Mail:               opts.Mail,
		SessionTTL:         opts.SessionTTL,
		Clock:              opts.Clock,
		Metrics:            m,
	})

	logger.Info("Client", "client created", "persistSession", persist)
	return &Client{
		DB:      db,
		Store:   store,
		Feed:    realtime.NewFeed(cfg.URL, store, m),
		Auth:    provider,
		Storage: storage,
		Metrics: m,
		Clock:   opts.Clock,
	}, nil
}

func (c *Client) Ping(ctx context.Context) error {
	if err := c.DB.PingContext(ctx); err != nil {
		return fmt.Errorf("client: ping: %w", err)
	}
	return nil
}

// Close stops the change feed and closes the connection pool.
func (c *Client) Close() error {
	return errors.Join(c.Feed.Close(), c.DB.Close())
}

// Services bundles the domain services bound to one client.
type Services struct {
	Attendance    *services.AttendanceService
	Auth          *services.AuthService
	Courses       *services.CourseService
	Notifications *services.NotificationService
	Students      *services.StudentService
	Teachers      *services.TeacherService
}

func (c *Client) Services() Services {
	return NewServices(c.Store, c.Feed, c.Auth, c.Clock)
}

// NewServices wires every service over the given ports.
func NewServices(store ports.Store, feed ports.ChangeFeed, provider ports.AuthProvider, clock domain.Clock) Services {
	return Services{
		Attendance:    services.NewAttendanceService(store, feed, clock),
		Auth:          services.NewAuthService(provider, store, clock),
		Courses:       services.NewCourseService(store, clock),
		Notifications: services.NewNotificationService(store, feed, clock),
		Students:      services.NewStudentService(store, feed, clock),
		Teachers:      services.NewTeacherService(store, clock),
	}
}
