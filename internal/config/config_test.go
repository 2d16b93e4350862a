package config

import (
	"errors"
	"testing"
	"time"

	"github.com/sony/gobreaker"

	"github.com/asistoya/shared-services/internal/core/apperr"
)

func TestLoad(t *testing.T) {
	t.Run("panics_without_database_url", func(t *testing.T) {
		t.Setenv("DB_CONNECTION_STRING", "")
		t.Setenv("API_KEY", "key")

		defer func() {
			if recover() == nil {
				t.Error("expected panic")
			}
		}()
		Load()
	})

	t.Run("applies_defaults", func(t *testing.T) {
		t.Setenv("DB_CONNECTION_STRING", "postgres://localhost/asistoya")
		t.Setenv("API_KEY", "key")
		t.Setenv("PERSIST_SESSION", "")
		t.Setenv("AUTO_REFRESH_TOKEN", "false")
		t.Setenv("SESSION_TTL", "")
		t.Setenv("PUSH_QUEUE_NAME", "")

		cfg := Load()

		if !cfg.PersistSession || cfg.AutoRefreshToken || !cfg.DetectSessionInURL {
			t.Errorf("unexpected session flags %+v", cfg)
		}
		if cfg.SessionTTL != time.Hour {
			t.Errorf("expected 1h ttl, got %v", cfg.SessionTTL)
		}
		if cfg.PushQueueName != "push_notifications" || cfg.MailQueueName == "" {
			t.Errorf("unexpected queue names %q/%q", cfg.PushQueueName, cfg.MailQueueName)
		}
	})
}

func TestNewStoreBreaker_IgnoresServerErrors(t *testing.T) {
	cb := NewStoreBreaker("PostgreSQL")
	rejected := &apperr.StoreError{Code: "23505", Message: "duplicate key"}

	for i := 0; i < 5; i++ {
		_, _ = cb.Execute(func() (interface{}, error) { return nil, rejected })
	}
	if cb.State() != gobreaker.StateClosed {
		t.Fatalf("expected closed breaker after server errors, got %s", cb.State())
	}

	for i := 0; i < 3; i++ {
		_, _ = cb.Execute(func() (interface{}, error) { return nil, errors.New("connection refused") })
	}
	if cb.State() != gobreaker.StateOpen {
		t.Errorf("expected open breaker after connection failures, got %s", cb.State())
	}
}
