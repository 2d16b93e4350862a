package services_test

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/asistoya/shared-services/internal/core/apperr"
	"github.com/asistoya/shared-services/internal/core/domain"
	"github.com/asistoya/shared-services/internal/core/ports"
	"github.com/asistoya/shared-services/internal/core/services"
	"github.com/asistoya/shared-services/test/mocks"
)

var now = time.Date(2024, 3, 15, 10, 30, 45, 0, time.UTC)

func fixedClock() domain.Clock {
	return domain.FixedClock{At: now}
}

func markInput() domain.MarkAttendanceInput {
	return domain.MarkAttendanceInput{
		StudentCode: "EST-001",
		StudentName: "Ana Torres",
		SchoolID:    mocks.SchoolID,
		SchoolCode:  "SCH-001",
		CourseCode:  "CRS-5-A",
		Status:      domain.StatusPresent,
	}
}

func TestAttendanceService_MarkAttendance_Defaults(t *testing.T) {
	// ARRANGE
	store := mocks.NewMockStore()
	svc := services.NewAttendanceService(store, mocks.NewMockChangeFeed(), fixedClock())

	// ACT
	rec, err := svc.MarkAttendance(context.Background(), markInput())

	// ASSERT
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Date != "2024-03-15" || rec.Time != "10:30:45" {
		t.Errorf("expected clock date and time, got %s %s", rec.Date, rec.Time)
	}
	if rec.Method != domain.MethodManual {
		t.Errorf("expected manual method, got %q", rec.Method)
	}
	if rec.MarkedAt == nil || !rec.MarkedAt.Equal(now) {
		t.Errorf("expected marked at %v, got %v", now, rec.MarkedAt)
	}

	inserts := store.GetCalls("insert")
	if len(inserts) != 1 || inserts[0].Table != "attendance" {
		t.Fatalf("expected one attendance insert, got %+v", inserts)
	}
	if v, ok := inserts[0].Patch["teacher_code"]; !ok || v != nil {
		t.Errorf("expected teacher_code null, got %v", v)
	}
}

func TestAttendanceService_MarkAttendance_Validation(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*domain.MarkAttendanceInput)
		wantField string
	}{
		{
			name:      "missing_student_code",
			mutate:    func(in *domain.MarkAttendanceInput) { in.StudentCode = "  " },
			wantField: "studentCode",
		},
		{
			name:      "missing_school_id",
			mutate:    func(in *domain.MarkAttendanceInput) { in.SchoolID = "" },
			wantField: "schoolId",
		},
		{
			name:      "missing_status",
			mutate:    func(in *domain.MarkAttendanceInput) { in.Status = "" },
			wantField: "status",
		},
		{
			name: "student_code_reported_first",
			mutate: func(in *domain.MarkAttendanceInput) {
				in.StudentCode, in.SchoolID, in.Status = "", "", ""
			},
			wantField: "studentCode",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := mocks.NewMockStore()
			svc := services.NewAttendanceService(store, mocks.NewMockChangeFeed(), fixedClock())
			in := markInput()
			tt.mutate(&in)

			_, err := svc.MarkAttendance(context.Background(), in)

			e, ok := apperr.As(err)
			if !ok || e.Kind != apperr.KindValidation || e.Field != tt.wantField {
				t.Fatalf("expected validation error on %s, got %v", tt.wantField, err)
			}
			if len(store.GetCalls("")) != 0 {
				t.Error("expected no store calls before validation passes")
			}
		})
	}
}

func TestAttendanceService_MarkAttendance_StoreErrors(t *testing.T) {
	t.Run("store_error_becomes_database_error", func(t *testing.T) {
		store := mocks.NewMockStore()
		store.InsertError = &apperr.StoreError{Code: "23505", Message: "duplicate key", Details: "student_code, date"}
		svc := services.NewAttendanceService(store, mocks.NewMockChangeFeed(), fixedClock())

		_, err := svc.MarkAttendance(context.Background(), markInput())

		if !apperr.IsKind(err, apperr.KindDatabase) || apperr.CodeOf(err) != "23505" {
			t.Errorf("expected database error 23505, got %v", err)
		}
	})

	t.Run("unknown_error_passes_through", func(t *testing.T) {
		store := mocks.NewMockStore()
		store.InsertError = context.DeadlineExceeded
		svc := services.NewAttendanceService(store, mocks.NewMockChangeFeed(), fixedClock())

		_, err := svc.MarkAttendance(context.Background(), markInput())

		if !errors.Is(err, context.DeadlineExceeded) {
			t.Errorf("expected deadline exceeded, got %v", err)
		}
		if _, ok := apperr.As(err); ok {
			t.Error("expected the unknown error unwrapped")
		}
	})
}

func TestAttendanceService_Queries(t *testing.T) {
	store := mocks.NewMockStore()
	store.Seed("attendance",
		mocks.AttendanceRow("a1", "EST-001", "CRS-5-A", "2024-03-13", "present"),
		mocks.AttendanceRow("a2", "EST-001", "CRS-5-A", "2024-03-14", "late"),
		mocks.AttendanceRow("a3", "EST-001", "CRS-5-A", "2024-03-15", "absent"),
		mocks.AttendanceRow("a4", "EST-002", "CRS-5-A", "2024-03-15", "present"),
	)
	svc := services.NewAttendanceService(store, mocks.NewMockChangeFeed(), fixedClock())
	ctx := context.Background()

	t.Run("history_newest_first_within_range", func(t *testing.T) {
		recs, err := svc.GetStudentAttendanceHistory(ctx, "EST-001", domain.DateRange{Start: "2024-03-14"})

		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(recs) != 2 || recs[0].Date != "2024-03-15" || recs[1].Date != "2024-03-14" {
			t.Errorf("unexpected history %+v", recs)
		}
	})

	t.Run("single_record", func(t *testing.T) {
		rec := svc.GetStudentAttendance(ctx, "EST-002", "2024-03-15")

		if rec == nil || rec.ID != "a4" {
			t.Errorf("expected a4, got %+v", rec)
		}
		if svc.GetStudentAttendance(ctx, "EST-002", "2024-03-01") != nil {
			t.Error("expected nil for a day without record")
		}
	})

	t.Run("course_day", func(t *testing.T) {
		recs, err := svc.GetCourseAttendance(ctx, "CRS-5-A", "2024-03-15")

		if err != nil || len(recs) != 2 {
			t.Errorf("expected 2 records, got %d (%v)", len(recs), err)
		}
	})
}

func TestAttendanceService_QueryFailures(t *testing.T) {
	store := mocks.NewMockStore()
	store.SelectError = &apperr.StoreError{Code: "57014", Message: "canceling statement", Details: "timeout"}
	svc := services.NewAttendanceService(store, mocks.NewMockChangeFeed(), fixedClock())
	ctx := context.Background()

	if rec := svc.GetStudentAttendance(ctx, "EST-001", "2024-03-15"); rec != nil {
		t.Error("expected nil single record on failure")
	}
	if _, err := svc.GetStudentAttendanceHistory(ctx, "EST-001", domain.DateRange{}); !apperr.IsKind(err, apperr.KindDatabase) {
		t.Errorf("expected history to propagate, got %v", err)
	}
	if _, err := svc.GetDailySummary(ctx, mocks.SchoolID, "2024-03-15"); err == nil {
		t.Error("expected daily summary to propagate")
	}
	if st := svc.GetStudentStats(ctx, "EST-001", domain.DateRange{}); st != (domain.AttendanceStats{}) {
		t.Errorf("expected zero stats, got %+v", st)
	}
}

func TestAttendanceService_UpdateAttendance(t *testing.T) {
	t.Run("stamps_modification", func(t *testing.T) {
		store := mocks.NewMockStore()
		store.Seed("attendance", mocks.AttendanceRow("a1", "EST-001", "CRS-5-A", "2024-03-15", "absent"))
		svc := services.NewAttendanceService(store, mocks.NewMockChangeFeed(), fixedClock())
		status := domain.StatusExcused

		rec, err := svc.UpdateAttendance(context.Background(), "a1", domain.AttendanceUpdate{
			Status:       &status,
			ExcuseReason: domain.Ptr("Cita médica"),
		}, "")

		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if rec.Status != domain.StatusExcused || rec.ExcuseReason != "Cita médica" {
			t.Errorf("unexpected record %+v", rec)
		}
		patch := store.GetCalls("update")[0].Patch
		if v, ok := patch["modified_by"]; !ok || v != nil {
			t.Errorf("expected modified_by null, got %v", v)
		}
		if _, ok := patch["modified_at"]; !ok {
			t.Error("expected modified_at")
		}
		if _, ok := patch["notes"]; ok {
			t.Error("expected notes left out")
		}
	})

	t.Run("missing_record", func(t *testing.T) {
		svc := services.NewAttendanceService(mocks.NewMockStore(), mocks.NewMockChangeFeed(), fixedClock())

		_, err := svc.UpdateAttendance(context.Background(), "nope", domain.AttendanceUpdate{Notes: domain.Ptr("x")}, "teacher-1")

		if !apperr.IsKind(err, apperr.KindNotFound) {
			t.Errorf("expected not found, got %v", err)
		}
	})
}

func TestTally(t *testing.T) {
	rec := func(s domain.AttendanceStatus) domain.AttendanceRecord { return domain.AttendanceRecord{Status: s} }

	tests := []struct {
		name            string
		records         []domain.AttendanceRecord
		wantAttendance  float64
		wantPunctuality float64
	}{
		{name: "no_records", records: nil, wantAttendance: 0, wantPunctuality: 0},
		{name: "only_absences", records: []domain.AttendanceRecord{rec("absent"), rec("excused")}, wantAttendance: 0, wantPunctuality: 0},
		{name: "all_present", records: []domain.AttendanceRecord{rec("present"), rec("present")}, wantAttendance: 100, wantPunctuality: 100},
		{
			name:            "mixed",
			records:         []domain.AttendanceRecord{rec("present"), rec("present"), rec("present"), rec("late")},
			wantAttendance:  100,
			wantPunctuality: 75,
		},
		{
			name:            "half_attended",
			records:         []domain.AttendanceRecord{rec("present"), rec("late"), rec("absent"), rec("absent")},
			wantAttendance:  50,
			wantPunctuality: 50,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := services.Tally(tt.records)

			if math.Abs(st.AttendanceRate-tt.wantAttendance) > 1e-9 {
				t.Errorf("attendance rate: want %v, got %v", tt.wantAttendance, st.AttendanceRate)
			}
			if math.Abs(st.PunctualityRate-tt.wantPunctuality) > 1e-9 {
				t.Errorf("punctuality rate: want %v, got %v", tt.wantPunctuality, st.PunctualityRate)
			}
			if st.AttendanceRate < 0 || st.AttendanceRate > 100 || st.PunctualityRate < 0 || st.PunctualityRate > 100 {
				t.Errorf("rates out of range: %+v", st)
			}
		})
	}
}

func TestAttendanceService_GetDailySummary(t *testing.T) {
	store := mocks.NewMockStore()
	store.Seed("attendance",
		mocks.AttendanceRow("a1", "EST-001", "CRS-5-A", "2024-03-15", "present"),
		mocks.AttendanceRow("a2", "EST-002", "CRS-5-A", "2024-03-15", "late"),
		mocks.AttendanceRow("a3", "EST-003", "CRS-5-B", "2024-03-15", "absent"),
		mocks.AttendanceRow("a4", "EST-004", "CRS-5-B", "2024-03-15", "excused"),
	)
	svc := services.NewAttendanceService(store, mocks.NewMockChangeFeed(), fixedClock())

	sum, err := svc.GetDailySummary(context.Background(), mocks.SchoolID, "2024-03-15")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := domain.DailyAttendanceSummary{Date: "2024-03-15", Present: 1, Late: 1, Absent: 1, Excused: 1, Total: 4, Percentage: 50}
	if *sum != want {
		t.Errorf("want %+v, got %+v", want, *sum)
	}

	empty, err := svc.GetDailySummary(context.Background(), mocks.SchoolID, "2024-03-16")
	if err != nil || empty.Total != 0 || empty.Percentage != 0 {
		t.Errorf("expected empty summary, got %+v (%v)", empty, err)
	}
}

func TestAttendanceService_SubscribeToAttendance(t *testing.T) {
	// ARRANGE
	store := mocks.NewMockStore()
	store.Seed("attendance", mocks.AttendanceRow("a1", "EST-001", "CRS-5-A", "2024-03-15", "present"))
	feed := mocks.NewMockChangeFeed()
	svc := services.NewAttendanceService(store, feed, fixedClock())

	var deliveries [][]domain.AttendanceRecord
	sub, err := svc.SubscribeToAttendance(context.Background(), "CRS-5-A", "2024-03-15", func(recs []domain.AttendanceRecord) {
		deliveries = append(deliveries, recs)
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	spec := feed.SubscribeCalls[0]
	if spec.Name != "attendance-CRS-5-A-2024-03-15" || spec.Event != ports.ChangeAll || spec.Filter.Value != "CRS-5-A" {
		t.Errorf("unexpected channel %+v", spec)
	}

	// ACT
	row := mocks.AttendanceRow("a2", "EST-002", "CRS-5-A", "2024-03-15", "late")
	store.Seed("attendance", row)
	selectsBefore := len(store.GetCalls("select"))
	feed.EmitRow("attendance", ports.ChangeInsert, row)

	// ASSERT
	if got := len(store.GetCalls("select")) - selectsBefore; got != 1 {
		t.Errorf("expected exactly one refetch, got %d", got)
	}
	if len(deliveries) != 1 || len(deliveries[0]) != 2 {
		t.Fatalf("expected the full course list delivered once, got %+v", deliveries)
	}

	_ = sub.Unsubscribe()
	feed.EmitRow("attendance", ports.ChangeUpdate, row)
	if len(deliveries) != 1 {
		t.Error("expected no delivery after unsubscribe")
	}
}

func TestAttendanceService_SubscribeRefetchFailureIsSwallowed(t *testing.T) {
	store := mocks.NewMockStore()
	feed := mocks.NewMockChangeFeed()
	svc := services.NewAttendanceService(store, feed, fixedClock())
	called := false
	_, _ = svc.SubscribeToAttendance(context.Background(), "CRS-5-A", "2024-03-15", func([]domain.AttendanceRecord) { called = true })
	store.SelectError = errors.New("connection reset")

	feed.EmitRow("attendance", ports.ChangeInsert, mocks.AttendanceRow("a1", "EST-001", "CRS-5-A", "2024-03-15", "present"))

	if called {
		t.Error("expected callback skipped when the refetch fails")
	}
}
