package sessionstore_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/asistoya/shared-services/internal/adapters/sessionstore"
	"github.com/asistoya/shared-services/internal/core/ports"
	"github.com/asistoya/shared-services/test/mocks"
)

func TestStorage_RoundTrip(t *testing.T) {
	tests := []struct {
		name    string
		storage func() ports.SessionStorage
	}{
		{name: "memory", storage: func() ports.SessionStorage { return sessionstore.NewMemory() }},
		{name: "redis", storage: func() ports.SessionStorage {
			return sessionstore.NewRedis(mocks.NewMockRedisClient(), time.Hour)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			s := tt.storage()

			// Missing keys read as empty
			if v, err := s.GetItem(ctx, "session"); err != nil || v != "" {
				t.Fatalf("expected empty read, got %q (%v)", v, err)
			}

			if err := s.SetItem(ctx, "session", `{"access_token":"a"}`); err != nil {
				t.Fatalf("set: %v", err)
			}
			if v, _ := s.GetItem(ctx, "session"); v != `{"access_token":"a"}` {
				t.Errorf("unexpected value %q", v)
			}

			if err := s.RemoveItem(ctx, "session"); err != nil {
				t.Fatalf("remove: %v", err)
			}
			if v, _ := s.GetItem(ctx, "session"); v != "" {
				t.Errorf("expected removed value, got %q", v)
			}
		})
	}
}

func TestRedis_PrefixesAndExpiresKeys(t *testing.T) {
	ctx := context.Background()
	client := mocks.NewMockRedisClient()
	s := sessionstore.NewRedis(client, time.Minute)

	if err := s.SetItem(ctx, "session", "v"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if !client.HasKey("asistoya:session:session") {
		t.Fatalf("expected prefixed key, got calls %v", client.SetCalls)
	}

	client.Advance(2 * time.Minute)

	if v, err := s.GetItem(ctx, "session"); err != nil || v != "" {
		t.Errorf("expected expired session to read empty, got %q (%v)", v, err)
	}
}

func TestRedis_PropagatesErrors(t *testing.T) {
	ctx := context.Background()
	client := mocks.NewMockRedisClient()
	client.GetError = errors.New("connection refused")
	client.SetError = errors.New("connection refused")
	s := sessionstore.NewRedis(client, time.Minute)

	if _, err := s.GetItem(ctx, "session"); err == nil {
		t.Error("expected get error")
	}
	if err := s.SetItem(ctx, "session", "v"); err == nil {
		t.Error("expected set error")
	}
}
