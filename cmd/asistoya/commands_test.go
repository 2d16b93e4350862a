package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/asistoya/shared-services/internal/client"
	"github.com/asistoya/shared-services/internal/core/apperr"
	"github.com/asistoya/shared-services/internal/core/domain"
	"github.com/asistoya/shared-services/test/mocks"
)

var now = time.Date(2024, 3, 15, 10, 30, 45, 0, time.UTC)

type harness struct {
	store *mocks.MockStore
	feed  *mocks.MockChangeFeed
	auth  *mocks.MockAuthProvider
	out   *bytes.Buffer
	app   *app
}

func newHarness() *harness {
	h := &harness{
		store: mocks.NewMockStore(),
		feed:  mocks.NewMockChangeFeed(),
		auth:  mocks.NewMockAuthProvider(),
		out:   &bytes.Buffer{},
	}
	clock := domain.FixedClock{At: now}
	h.app = &app{
		svc:    client.NewServices(h.store, h.feed, h.auth, clock),
		clock:  clock,
		out:    h.out,
		errOut: &bytes.Buffer{},
	}
	return h
}

func TestRun_Mark(t *testing.T) {
	base := []string{"mark", "-student", "EST-001", "-name", "Ana", "-school-id", mocks.SchoolID, "-school-code", "SCH-001"}

	tests := []struct {
		name        string
		args        []string
		wantField   string
		wantStatus  string
		wantMethod  string
		expectError bool
	}{
		{
			name:       "defaults_date_and_method",
			args:       append(append([]string{}, base...), "-status", "present"),
			wantStatus: "present",
			wantMethod: "manual",
		},
		{
			name:       "explicit_method",
			args:       append(append([]string{}, base...), "-status", "late", "-method", "qr_code", "-time", "08:15:00"),
			wantStatus: "late",
			wantMethod: "qr_code",
		},
		{
			name:        "rejects_unknown_status",
			args:        append(append([]string{}, base...), "-status", "sleeping"),
			wantField:   "status",
			expectError: true,
		},
		{
			name:        "rejects_bad_date",
			args:        append(append([]string{}, base...), "-status", "present", "-date", "15/03/2024"),
			wantField:   "date",
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// ARRANGE
			h := newHarness()

			// ACT
			err := h.app.run(context.Background(), tt.args)

			// ASSERT
			if tt.expectError {
				e, ok := apperr.As(err)
				if !ok || e.Field != tt.wantField {
					t.Fatalf("expected validation error on %s, got %v", tt.wantField, err)
				}
				if len(h.store.GetCalls("insert")) != 0 {
					t.Error("expected nothing written")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			rows := h.store.Rows("attendance")
			if len(rows) != 1 {
				t.Fatalf("expected one attendance row, got %d", len(rows))
			}
			if rows[0]["status"] != tt.wantStatus || rows[0]["method"] != tt.wantMethod || rows[0]["date"] != "2024-03-15" {
				t.Errorf("unexpected row %v", rows[0])
			}
			var printed domain.AttendanceRecord
			if err := json.Unmarshal(h.out.Bytes(), &printed); err != nil || printed.StudentCode != "EST-001" {
				t.Errorf("expected the record printed, got %q (%v)", h.out.String(), err)
			}
		})
	}
}

func TestRun_SignInAndWhoami(t *testing.T) {
	h := newHarness()
	h.auth.SeedIdentity("u1", "ana@example.com", "Secreto123")
	h.store.Seed("users", map[string]any{"id": "u1", "email": "ana@example.com", "name": "Ana", "role": "parent"})
	ctx := context.Background()

	if err := h.app.run(ctx, []string{"whoami"}); !errors.Is(err, ErrNotSignedIn) {
		t.Fatalf("expected ErrNotSignedIn, got %v", err)
	}
	if err := h.app.run(ctx, []string{"signin", "-email", "ana@example.com", "-password", "Secreto123"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	h.out.Reset()
	if err := h.app.run(ctx, []string{"whoami"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(h.out.String(), `"name": "Ana"`) {
		t.Errorf("expected profile printed, got %s", h.out.String())
	}

	if err := h.app.run(ctx, []string{"signout"}); err != nil || h.auth.SignOutCalls != 1 {
		t.Errorf("expected sign out, got %v", err)
	}
}

func TestRun_SignInValidation(t *testing.T) {
	h := newHarness()

	err := h.app.run(context.Background(), []string{"signin", "-email", "not-an-email", "-password", "x"})

	if e, ok := apperr.As(err); !ok || e.Field != "email" {
		t.Errorf("expected email validation error, got %v", err)
	}
	if len(h.auth.SignInCalls) != 0 {
		t.Error("expected provider not called")
	}
}

func TestRun_SummaryAndStats(t *testing.T) {
	h := newHarness()
	h.store.Seed("attendance",
		mocks.AttendanceRow("a1", "EST-001", "CRS-5A", "2024-03-15", "present"),
		mocks.AttendanceRow("a2", "EST-002", "CRS-5A", "2024-03-15", "late"),
		mocks.AttendanceRow("a3", "EST-001", "CRS-5A", "2024-03-14", "absent"),
	)
	ctx := context.Background()

	if err := h.app.run(ctx, []string{"summary", "-school-id", mocks.SchoolID}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var summary domain.DailyAttendanceSummary
	if err := json.Unmarshal(h.out.Bytes(), &summary); err != nil {
		t.Fatalf("cannot decode summary: %v", err)
	}
	if summary.Date != "2024-03-15" || summary.Present != 1 || summary.Late != 1 {
		t.Errorf("unexpected summary %+v", summary)
	}

	h.out.Reset()
	if err := h.app.run(ctx, []string{"stats", "-student", "EST-001"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var stats domain.AttendanceStats
	if err := json.Unmarshal(h.out.Bytes(), &stats); err != nil {
		t.Fatalf("cannot decode stats: %v", err)
	}
	if stats.TotalPresent != 1 || stats.TotalAbsent != 1 {
		t.Errorf("unexpected stats %+v", stats)
	}

	if err := h.app.run(ctx, []string{"stats"}); err == nil {
		t.Error("expected missing student to fail")
	}
}

func TestRun_WatchStopsWithContext(t *testing.T) {
	h := newHarness()
	h.store.Seed("attendance", mocks.AttendanceRow("a1", "EST-001", "CRS-5A", "2024-03-15", "present"))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := h.app.run(ctx, []string{"watch", "-course", "CRS-5A"})

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(h.feed.SubscribeCalls) != 1 || h.feed.SubscribeCalls[0].Name != "attendance-CRS-5A-2024-03-15" {
		t.Errorf("unexpected subscriptions %+v", h.feed.SubscribeCalls)
	}
	if len(h.feed.ActiveSubscriptions()) != 0 {
		t.Error("expected subscription released")
	}
	if !strings.Contains(h.out.String(), "EST-001") {
		t.Errorf("expected initial snapshot printed, got %s", h.out.String())
	}
}

func TestRun_UnknownCommand(t *testing.T) {
	h := newHarness()

	if err := h.app.run(context.Background(), []string{"enroll"}); err == nil || !strings.Contains(err.Error(), "unknown command") {
		t.Errorf("expected unknown command error, got %v", err)
	}
	if err := h.app.run(context.Background(), nil); err == nil {
		t.Error("expected missing command error")
	}
}
