package services

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"strings"

	"github.com/asistoya/shared-services/internal/core/apperr"
	"github.com/asistoya/shared-services/internal/core/domain"
	"github.com/asistoya/shared-services/internal/core/mapper"
	"github.com/asistoya/shared-services/internal/core/ports"
	"github.com/asistoya/shared-services/internal/logger"
)

type StudentService struct {
	store ports.Store
	feed  ports.ChangeFeed
	clock domain.Clock
}

func NewStudentService(store ports.Store, feed ports.ChangeFeed, clock domain.Clock) *StudentService {
	return &StudentService{store: store, feed: feed, clock: clock}
}

// GenerateStudentCode asks the store for the next code of schoolID. When the
// store cannot answer, a local EST-<year>-<nnnn> code is returned instead.
func (s *StudentService) GenerateStudentCode(ctx context.Context, schoolID string) string {
	raw, err := s.store.Call(ctx, "generate_student_code", map[string]any{"p_school_id": schoolID})
	if err == nil {
		var code string
		if json.Unmarshal(raw, &code) == nil && code != "" {
			return code
		}
		err = fmt.Errorf("generate_student_code returned %s", raw)
	}
	apperr.Log("StudentService.GenerateStudentCode", apperr.Classify(err), "schoolId", schoolID)
	return fmt.Sprintf("EST-%d-%04d", s.clock.Now().Year(), rand.Intn(10000))
}

func (s *StudentService) GetAllStudents(ctx context.Context, schoolID string) ([]domain.Student, error) {
	return s.list(ctx, "StudentService.GetAllStudents", ports.Query{
		Where:   []ports.Filter{ports.Eq("school_id", schoolID)},
		OrderBy: []ports.Order{{Column: "name"}},
	})
}

// GetStudentByCode returns nil when the student is missing or the lookup
// fails.
func (s *StudentService) GetStudentByCode(ctx context.Context, code string) *domain.Student {
	raws, err := s.store.Select(ctx, tableStudents, ports.Query{
		Where: []ports.Filter{ports.Eq("student_code", code)},
		Limit: 1,
	})
	if err != nil {
		apperr.Log("StudentService.GetStudentByCode", apperr.Classify(err), "studentCode", code)
		return nil
	}
	if len(raws) == 0 {
		return nil
	}
	st, err := mapRow(raws[0], s.clock.Now(), mapper.StudentFromRow)
	if err != nil {
		apperr.Log("StudentService.GetStudentByCode", err)
		return nil
	}
	return st
}

func (s *StudentService) GetStudentsByParentCode(ctx context.Context, parentCode string) ([]domain.Student, error) {
	return s.list(ctx, "StudentService.GetStudentsByParentCode", ports.Query{
		Where: []ports.Filter{ports.Contains("parent_codes", parentCode)},
	})
}

func (s *StudentService) GetStudentsByCourseCode(ctx context.Context, courseCode string) ([]domain.Student, error) {
	return s.list(ctx, "StudentService.GetStudentsByCourseCode", ports.Query{
		Where:   []ports.Filter{ports.Eq("course_code", courseCode)},
		OrderBy: []ports.Order{{Column: "name"}},
	})
}

func (s *StudentService) list(ctx context.Context, tag string, q ports.Query) ([]domain.Student, error) {
	raws, err := s.store.Select(ctx, tableStudents, q)
	if err != nil {
		return nil, fail(tag, err)
	}
	out, err := mapRows(raws, s.clock.Now(), mapper.StudentFromRow)
	if err != nil {
		return nil, fail(tag, err)
	}
	return out, nil
}

func (s *StudentService) CreateStudent(ctx context.Context, in domain.StudentInput) (*domain.Student, error) {
	if err := firstMissing(
		[2]string{"name", in.Name},
		[2]string{"studentCode", in.StudentCode},
		[2]string{"grade", in.Grade},
		[2]string{"schoolId", in.SchoolID},
	); err != nil {
		return nil, err
	}
	in.Name = strings.TrimSpace(in.Name)
	in.StudentCode = strings.TrimSpace(in.StudentCode)
	in.Grade = strings.TrimSpace(in.Grade)
	in.SchoolID = strings.TrimSpace(in.SchoolID)

	raw, err := s.store.Insert(ctx, tableStudents, mapper.NewStudentRow(in))
	if err != nil {
		return nil, fail("StudentService.CreateStudent", err, "studentCode", in.StudentCode)
	}
	st, err := mapRow(raw, s.clock.Now(), mapper.StudentFromRow)
	if err != nil {
		return nil, fail("StudentService.CreateStudent", err)
	}

	logger.Success("StudentService", "Student created", "studentCode", st.StudentCode)
	return st, nil
}

func (s *StudentService) UpdateStudent(ctx context.Context, code string, u domain.StudentUpdate) (*domain.Student, error) {
	if u.IsEmpty() {
		return nil, apperr.Validation("updates", "No updates provided")
	}
	if err := required("studentCode", code); err != nil {
		return nil, err
	}
	// Blank required columns are dropped from the patch.
	patch := mapper.StudentPatch(u)
	if len(patch) == 0 {
		return nil, apperr.Validation("updates", "No updates provided")
	}

	raws, err := s.store.Update(ctx, tableStudents, patch, ports.Query{
		Where: []ports.Filter{ports.Eq("student_code", code)},
	})
	if err != nil {
		return nil, fail("StudentService.UpdateStudent", err, "studentCode", code)
	}
	if len(raws) == 0 {
		return nil, fail("StudentService.UpdateStudent", apperr.NotFound("Student", ""), "studentCode", code)
	}
	st, err := mapRow(raws[0], s.clock.Now(), mapper.StudentFromRow)
	if err != nil {
		return nil, fail("StudentService.UpdateStudent", err)
	}

	logger.Success("StudentService", "Student updated", "studentCode", code)
	return st, nil
}

func (s *StudentService) DeleteStudent(ctx context.Context, code string) error {
	if err := required("studentCode", code); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, tableStudents, ports.Query{Where: []ports.Filter{ports.Eq("student_code", code)}}); err != nil {
		return fail("StudentService.DeleteStudent", err, "studentCode", code)
	}
	logger.Success("StudentService", "Student deleted", "studentCode", code)
	return nil
}

// SearchStudents matches term against name, code and student code within
// schoolID, case-insensitively.
func (s *StudentService) SearchStudents(ctx context.Context, schoolID, term string) ([]domain.Student, error) {
	like := likeTerm(term)
	return s.list(ctx, "StudentService.SearchStudents", ports.Query{
		Where: []ports.Filter{ports.Eq("school_id", schoolID)},
		AnyOf: []ports.Filter{
			ports.ILike("name", like),
			ports.ILike("code", like),
			ports.ILike("student_code", like),
		},
		OrderBy: []ports.Order{{Column: "name"}},
	})
}

// GetStudentsCount counts active students of schoolID, 0 on failure.
func (s *StudentService) GetStudentsCount(ctx context.Context, schoolID string) int {
	n, err := s.store.Count(ctx, tableStudents, ports.Query{
		Where: []ports.Filter{ports.Eq("school_id", schoolID), ports.Eq("status", string(domain.StudentActive))},
	})
	if err != nil {
		apperr.Log("StudentService.GetStudentsCount", apperr.Classify(err), "schoolId", schoolID)
		return 0
	}
	return n
}

// SubscribeToStudent calls fn with the changed row of student code, or with
// nil when the student is deleted.
func (s *StudentService) SubscribeToStudent(ctx context.Context, code string, fn func(*domain.Student)) (ports.Subscription, error) {
	filter := ports.Eq("student_code", code)
	spec := ports.ChannelSpec{
		Name:   "student-" + code,
		Table:  tableStudents,
		Event:  ports.ChangeAll,
		Filter: &filter,
	}
	sub, err := s.feed.Subscribe(ctx, spec, func(ev ports.ChangeEvent) {
		if ev.Type == ports.ChangeDelete {
			fn(nil)
			return
		}
		st, err := mapRow(ev.New, s.clock.Now(), mapper.StudentFromRow)
		if err != nil {
			apperr.Log("StudentService.SubscribeToStudent", err, "channel", spec.Name)
			return
		}
		fn(st)
	})
	if err != nil {
		return nil, fail("StudentService.SubscribeToStudent", err, "channel", spec.Name)
	}
	return sub, nil
}
