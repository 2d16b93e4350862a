package services_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/asistoya/shared-services/internal/core/apperr"
	"github.com/asistoya/shared-services/internal/core/domain"
	"github.com/asistoya/shared-services/internal/core/services"
	"github.com/asistoya/shared-services/test/mocks"
)

func TestTeacherService_GenerateTeacherCode(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(*mocks.MockStore)
		wantCode  string
		wantErr   bool
	}{
		{
			name: "remote_code",
			setupMock: func(m *mocks.MockStore) {
				m.RPCResults["generate_teacher_code"] = json.RawMessage(`"DOC-0007"`)
			},
			wantCode: "DOC-0007",
		},
		{
			name: "remote_failure_propagates",
			setupMock: func(m *mocks.MockStore) {
				m.CallError = &apperr.StoreError{Code: "42883", Message: "function does not exist"}
			},
			wantErr: true,
		},
		{
			name: "empty_result_is_an_error",
			setupMock: func(m *mocks.MockStore) {
				m.RPCResults["generate_teacher_code"] = json.RawMessage(`""`)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := mocks.NewMockStore()
			tt.setupMock(store)
			svc := services.NewTeacherService(store, fixedClock())

			code, err := svc.GenerateTeacherCode(context.Background(), mocks.SchoolID)

			if tt.wantErr != (err != nil) {
				t.Fatalf("wantErr=%v, got %v", tt.wantErr, err)
			}
			if code != tt.wantCode {
				t.Errorf("expected %q, got %q", tt.wantCode, code)
			}
		})
	}
}

func TestTeacherService_Lifecycle(t *testing.T) {
	// ARRANGE
	store := mocks.NewMockStore()
	svc := services.NewTeacherService(store, fixedClock())
	ctx := context.Background()

	if _, err := svc.CreateTeacher(ctx, domain.TeacherInput{Name: "Luis", SchoolID: mocks.SchoolID}); !apperr.IsKind(err, apperr.KindValidation) {
		t.Fatalf("expected validation error for missing code, got %v", err)
	}

	// ACT
	created, err := svc.CreateTeacher(ctx, domain.TeacherInput{
		Code:           "DOC-0001",
		Name:           "Luis Paredes",
		SchoolID:       mocks.SchoolID,
		Specialization: []string{"Historia"},
	})

	// ASSERT
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.Status != domain.TeacherActive || created.SchoolCode != mocks.SchoolID {
		t.Errorf("unexpected teacher %+v", created)
	}
	if got := svc.GetTeacherByCode(ctx, "DOC-0001"); got == nil || got.Name != "Luis Paredes" {
		t.Errorf("expected teacher by code, got %+v", got)
	}

	updated, err := svc.UpdateTeacher(ctx, "DOC-0001", domain.TeacherUpdate{Phone: domain.Ptr("+51 987654321")})
	if err != nil || updated.Phone != "+51 987654321" {
		t.Errorf("expected phone updated, got %+v (%v)", updated, err)
	}
	if _, err := svc.UpdateTeacher(ctx, "DOC-0001", domain.TeacherUpdate{}); !apperr.IsKind(err, apperr.KindValidation) {
		t.Errorf("expected empty update rejected, got %v", err)
	}
	_, err = svc.UpdateTeacher(ctx, "DOC-0001", domain.TeacherUpdate{Name: domain.Ptr("")})
	if e, ok := apperr.As(err); !ok || e.Kind != apperr.KindValidation || e.Field != "updates" {
		t.Errorf("expected blank name rejected as empty update, got %v", err)
	}

	if n := svc.GetTeachersCount(ctx, mocks.SchoolID); n != 1 {
		t.Errorf("expected 1 active teacher, got %d", n)
	}
	if err := svc.DeleteTeacher(ctx, "DOC-0001"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	all, err := svc.GetAllTeachers(ctx, mocks.SchoolID)
	if err != nil || len(all) != 0 {
		t.Errorf("expected no teachers left, got %d (%v)", len(all), err)
	}
}

func TestTeacherService_CountFailure(t *testing.T) {
	store := mocks.NewMockStore()
	store.CountError = &apperr.StoreError{Code: "08006", Message: "connection failure"}
	svc := services.NewTeacherService(store, fixedClock())

	if n := svc.GetTeachersCount(context.Background(), mocks.SchoolID); n != 0 {
		t.Errorf("expected 0, got %d", n)
	}
}
