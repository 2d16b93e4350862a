package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/asistoya/shared-services/internal/core/apperr"
	"github.com/asistoya/shared-services/internal/core/domain"
	"github.com/asistoya/shared-services/internal/core/mapper"
	"github.com/asistoya/shared-services/internal/core/ports"
	"github.com/asistoya/shared-services/internal/logger"
)

type TeacherService struct {
	store ports.Store
	clock domain.Clock
}

func NewTeacherService(store ports.Store, clock domain.Clock) *TeacherService {
	return &TeacherService{store: store, clock: clock}
}

// GenerateTeacherCode asks the store for the next teacher code of schoolID.
// Unlike student and course codes there is no local fallback.
func (s *TeacherService) GenerateTeacherCode(ctx context.Context, schoolID string) (string, error) {
	raw, err := s.store.Call(ctx, "generate_teacher_code", map[string]any{"p_school_id": schoolID})
	if err != nil {
		return "", fail("TeacherService.GenerateTeacherCode", err, "schoolId", schoolID)
	}
	var code string
	if err := json.Unmarshal(raw, &code); err != nil || code == "" {
		return "", fail("TeacherService.GenerateTeacherCode", fmt.Errorf("generate_teacher_code returned %s", raw))
	}
	return code, nil
}

func (s *TeacherService) GetAllTeachers(ctx context.Context, schoolID string) ([]domain.Teacher, error) {
	raws, err := s.store.Select(ctx, tableTeachers, ports.Query{
		Where:   []ports.Filter{ports.Eq("school_id", schoolID)},
		OrderBy: []ports.Order{{Column: "name"}},
	})
	if err != nil {
		return nil, fail("TeacherService.GetAllTeachers", err, "schoolId", schoolID)
	}
	out, err := mapRows(raws, s.clock.Now(), mapper.TeacherFromRow)
	if err != nil {
		return nil, fail("TeacherService.GetAllTeachers", err)
	}
	return out, nil
}

func (s *TeacherService) GetTeacherByCode(ctx context.Context, code string) *domain.Teacher {
	raws, err := s.store.Select(ctx, tableTeachers, ports.Query{
		Where: []ports.Filter{ports.Eq("code", code)},
		Limit: 1,
	})
	if err != nil {
		apperr.Log("TeacherService.GetTeacherByCode", apperr.Classify(err), "teacherCode", code)
		return nil
	}
	if len(raws) == 0 {
		return nil
	}
	t, err := mapRow(raws[0], s.clock.Now(), mapper.TeacherFromRow)
	if err != nil {
		apperr.Log("TeacherService.GetTeacherByCode", err)
		return nil
	}
	return t
}

func (s *TeacherService) CreateTeacher(ctx context.Context, in domain.TeacherInput) (*domain.Teacher, error) {
	if err := firstMissing(
		[2]string{"name", in.Name},
		[2]string{"code", in.Code},
		[2]string{"schoolId", in.SchoolID},
	); err != nil {
		return nil, err
	}

	raw, err := s.store.Insert(ctx, tableTeachers, mapper.NewTeacherRow(in))
	if err != nil {
		return nil, fail("TeacherService.CreateTeacher", err, "teacherCode", in.Code)
	}
	t, err := mapRow(raw, s.clock.Now(), mapper.TeacherFromRow)
	if err != nil {
		return nil, fail("TeacherService.CreateTeacher", err)
	}

	logger.Success("TeacherService", "Teacher created", "teacherCode", t.Code)
	return t, nil
}

func (s *TeacherService) UpdateTeacher(ctx context.Context, code string, u domain.TeacherUpdate) (*domain.Teacher, error) {
	if u.IsEmpty() {
		return nil, apperr.Validation("updates", "No updates provided")
	}
	if err := required("code", code); err != nil {
		return nil, err
	}
	patch := mapper.TeacherPatch(u)
	if len(patch) == 0 {
		return nil, apperr.Validation("updates", "No updates provided")
	}

	raws, err := s.store.Update(ctx, tableTeachers, patch, ports.Query{
		Where: []ports.Filter{ports.Eq("code", code)},
	})
	if err != nil {
		return nil, fail("TeacherService.UpdateTeacher", err, "teacherCode", code)
	}
	if len(raws) == 0 {
		return nil, fail("TeacherService.UpdateTeacher", apperr.NotFound("Teacher", ""), "teacherCode", code)
	}
	t, err := mapRow(raws[0], s.clock.Now(), mapper.TeacherFromRow)
	if err != nil {
		return nil, fail("TeacherService.UpdateTeacher", err)
	}

	logger.Success("TeacherService", "Teacher updated", "teacherCode", code)
	return t, nil
}

func (s *TeacherService) DeleteTeacher(ctx context.Context, code string) error {
	if err := required("code", code); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, tableTeachers, ports.Query{Where: []ports.Filter{ports.Eq("code", code)}}); err != nil {
		return fail("TeacherService.DeleteTeacher", err, "teacherCode", code)
	}
	logger.Success("TeacherService", "Teacher deleted", "teacherCode", code)
	return nil
}

func (s *TeacherService) GetTeachersCount(ctx context.Context, schoolID string) int {
	n, err := s.store.Count(ctx, tableTeachers, ports.Query{
		Where: []ports.Filter{ports.Eq("school_id", schoolID), ports.Eq("status", string(domain.TeacherActive))},
	})
	if err != nil {
		apperr.Log("TeacherService.GetTeachersCount", apperr.Classify(err), "schoolId", schoolID)
		return 0
	}
	return n
}
