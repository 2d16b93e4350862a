package validation_test

import (
	"testing"

	"github.com/asistoya/shared-services/internal/core/apperr"
	"github.com/asistoya/shared-services/internal/core/domain"
	"github.com/asistoya/shared-services/internal/core/validation"
)

const schoolID = "0b7a3c56-5d0e-4c64-9a0e-2f2d3f5a1c11"

func validMark() validation.MarkAttendanceRequest {
	return validation.MarkAttendanceRequest{
		StudentCode: "EST-001",
		StudentName: "Ana Torres",
		SchoolID:    schoolID,
		SchoolCode:  "SCH",
		Date:        "2024-03-15",
		Status:      domain.StatusPresent,
	}
}

func fieldOf(t *testing.T, err error) string {
	t.Helper()
	e, ok := apperr.As(err)
	if !ok {
		t.Fatalf("expected tagged error, got %T: %v", err, err)
	}
	if e.Kind != apperr.KindValidation {
		t.Fatalf("expected validation kind, got %s", e.Kind)
	}
	return e.Field
}

func TestValidate_MarkAttendance(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(r *validation.MarkAttendanceRequest)
		wantField string
	}{
		{
			name:   "valid_request",
			mutate: func(r *validation.MarkAttendanceRequest) {},
		},
		{
			name:      "missing_status",
			mutate:    func(r *validation.MarkAttendanceRequest) { r.Status = "" },
			wantField: "status",
		},
		{
			name:      "unknown_status",
			mutate:    func(r *validation.MarkAttendanceRequest) { r.Status = "sleeping" },
			wantField: "status",
		},
		{
			name:      "latitude_out_of_range",
			mutate:    func(r *validation.MarkAttendanceRequest) { r.Latitude = domain.Ptr(91.0) },
			wantField: "latitude",
		},
		{
			name:      "malformed_date",
			mutate:    func(r *validation.MarkAttendanceRequest) { r.Date = "15/03/2024" },
			wantField: "date",
		},
		{
			name:      "malformed_time",
			mutate:    func(r *validation.MarkAttendanceRequest) { r.Time = "8am" },
			wantField: "time",
		},
		{
			name:      "school_id_not_uuid",
			mutate:    func(r *validation.MarkAttendanceRequest) { r.SchoolID = "school-1" },
			wantField: "schoolId",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// ARRANGE
			req := validMark()
			tt.mutate(&req)

			// ACT
			err := validation.Validate(&req)

			// ASSERT
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected validation error")
			}
			if got := fieldOf(t, err); got != tt.wantField {
				t.Errorf("expected field %q, got %q", tt.wantField, got)
			}
		})
	}
}

func TestValidate_AppliesDefaults(t *testing.T) {
	req := validMark()

	if err := validation.Validate(&req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.Method != domain.MethodManual {
		t.Errorf("expected method manual, got %q", req.Method)
	}

	n := validation.CreateNotificationRequest{UserID: schoolID, Title: "Hola", Message: "Llegó"}
	if err := validation.Validate(&n); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n.Type != domain.NotificationSystem || n.Priority != domain.PriorityNormal {
		t.Errorf("expected system/normal defaults, got %q/%q", n.Type, n.Priority)
	}

	r := validation.GenerateReportRequest{
		Type:      "daily",
		SchoolID:  schoolID,
		DateRange: validation.ReportDateRange{StartDate: "2024-03-01", EndDate: "2024-03-31"},
	}
	if err := validation.Validate(&r); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Format != "pdf" || r.IncludeCharts == nil || !*r.IncludeCharts {
		t.Errorf("expected pdf with charts, got %q/%v", r.Format, r.IncludeCharts)
	}
}

func TestValidate_BulkReportsIndexedPath(t *testing.T) {
	bad := validMark()
	bad.Status = ""
	req := validation.BulkMarkAttendanceRequest{Records: []validation.MarkAttendanceRequest{validMark(), bad}}

	err := validation.Validate(&req)

	if got := fieldOf(t, err); got != "records[1].status" {
		t.Errorf("expected records[1].status, got %q", got)
	}
	if req.Records[0].Method != domain.MethodManual {
		t.Error("expected defaults applied to every record")
	}

	empty := validation.BulkMarkAttendanceRequest{}
	if got := fieldOf(t, validation.Validate(&empty)); got != "records" {
		t.Errorf("expected records, got %q", got)
	}
}

func TestValidate_DateRangeOrder(t *testing.T) {
	t.Run("start_after_end", func(t *testing.T) {
		err := validation.Validate(&validation.DateRange{StartDate: "2024-03-10", EndDate: "2024-03-01"})
		if got := fieldOf(t, err); got != "startDate" {
			t.Errorf("expected startDate, got %q", got)
		}
	})

	t.Run("same_day", func(t *testing.T) {
		if err := validation.Validate(&validation.DateRange{StartDate: "2024-03-10", EndDate: "2024-03-10"}); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})
}

func TestValidate_PasswordRule(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{name: "strong", password: "Secreto123", wantErr: false},
		{name: "no_digit", password: "SecretoSecreto", wantErr: true},
		{name: "no_upper", password: "secreto123", wantErr: true},
		{name: "too_short", password: "Ab1", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validation.RegisterRequest{Email: "ana@example.com", Password: tt.password, Name: "Ana"}

			err := validation.Validate(&req)

			if tt.wantErr {
				if got := fieldOf(t, err); got != "password" {
					t.Errorf("expected password field, got %q", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if req.Role != domain.RoleParent {
				t.Errorf("expected default role parent, got %q", req.Role)
			}
		})
	}
}

func TestStandaloneChecks(t *testing.T) {
	if err := validation.Phone("phone", "+51 987654321"); err != nil {
		t.Errorf("unexpected phone error: %v", err)
	}
	if got := fieldOf(t, validation.Phone("phone", "call me")); got != "phone" {
		t.Errorf("expected phone field, got %q", got)
	}
	if got := fieldOf(t, validation.URL("photo", "not a url")); got != "photo" {
		t.Errorf("expected photo field, got %q", got)
	}
	if got := fieldOf(t, validation.NonEmpty("name", "")); got != "name" {
		t.Errorf("expected name field, got %q", got)
	}
}

func TestUpdateConversions(t *testing.T) {
	name := "Matemática II"
	u := validation.UpdateCourseRequest{
		Name:     &name,
		Schedule: []validation.ScheduleItem{{Day: "monday", StartTime: "08:00", EndTime: "09:30"}},
	}.Update()

	if u.Name == nil || *u.Name != name {
		t.Errorf("expected name carried over, got %v", u.Name)
	}
	if len(u.Schedule) != 1 || u.Schedule[0].Day != "monday" {
		t.Errorf("unexpected schedule %+v", u.Schedule)
	}
	if (validation.UpdateStudentRequest{}).Update().IsEmpty() != true {
		t.Error("expected empty student update")
	}
}
