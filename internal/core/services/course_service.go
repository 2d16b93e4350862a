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

const defaultSection = "A"

type CourseService struct {
	store ports.Store
	clock domain.Clock
}

func NewCourseService(store ports.Store, clock domain.Clock) *CourseService {
	return &CourseService{store: store, clock: clock}
}

// GenerateCourseCode asks the store for the next code of a grade and
// section. When the store cannot answer, a local CRS-<grade>-<section>-<ms>
// code is returned instead.
func (s *CourseService) GenerateCourseCode(ctx context.Context, schoolID, grade, section string) string {
	raw, err := s.store.Call(ctx, "generate_course_code", map[string]any{
		"p_school_id": schoolID,
		"p_grade":     grade,
		"p_section":   section,
	})
	if err == nil {
		var code string
		if json.Unmarshal(raw, &code) == nil && code != "" {
			return code
		}
		err = fmt.Errorf("generate_course_code returned %s", raw)
	}
	apperr.Log("CourseService.GenerateCourseCode", apperr.Classify(err), "schoolId", schoolID)
	return fmt.Sprintf("CRS-%s-%s-%d", grade, section, s.clock.Now().UnixMilli())
}

func (s *CourseService) GetAllCourses(ctx context.Context, schoolID string) ([]domain.Course, error) {
	return s.list(ctx, "CourseService.GetAllCourses", ports.Query{
		Where:   []ports.Filter{ports.Eq("school_id", schoolID)},
		OrderBy: []ports.Order{{Column: "name"}},
	})
}

// GetCourseByCode returns nil when the course is missing or the lookup
// fails.
func (s *CourseService) GetCourseByCode(ctx context.Context, code string) *domain.Course {
	raws, err := s.store.Select(ctx, tableCourses, ports.Query{
		Where: []ports.Filter{ports.Eq("code", code)},
		Limit: 1,
	})
	if err != nil {
		apperr.Log("CourseService.GetCourseByCode", apperr.Classify(err), "courseCode", code)
		return nil
	}
	if len(raws) == 0 {
		return nil
	}
	c, err := mapRow(raws[0], s.clock.Now(), mapper.CourseFromRow)
	if err != nil {
		apperr.Log("CourseService.GetCourseByCode", err)
		return nil
	}
	return c
}

// GetCoursesByTeacher returns the courses teacherID leads or co-teaches.
func (s *CourseService) GetCoursesByTeacher(ctx context.Context, teacherID string) ([]domain.Course, error) {
	return s.list(ctx, "CourseService.GetCoursesByTeacher", ports.Query{
		AnyOf:   []ports.Filter{ports.Eq("teacher_id", teacherID), ports.Contains("teacher_ids", teacherID)},
		OrderBy: []ports.Order{{Column: "name"}},
	})
}

// GetTeacherCourseSummaries runs the get_courses_by_teacher procedure.
func (s *CourseService) GetTeacherCourseSummaries(ctx context.Context, teacherID string) ([]domain.TeacherCourseSummary, error) {
	raws, err := s.store.CallRows(ctx, "get_courses_by_teacher", map[string]any{"p_teacher_id": teacherID})
	if err != nil {
		return nil, fail("CourseService.GetTeacherCourseSummaries", err, "teacherId", teacherID)
	}
	out := make([]domain.TeacherCourseSummary, 0, len(raws))
	for _, raw := range raws {
		row, err := decodeRow[domain.TeacherCourseSummary](raw)
		if err != nil {
			return nil, fail("CourseService.GetTeacherCourseSummaries", err)
		}
		out = append(out, row)
	}
	return out, nil
}

func (s *CourseService) list(ctx context.Context, tag string, q ports.Query) ([]domain.Course, error) {
	raws, err := s.store.Select(ctx, tableCourses, q)
	if err != nil {
		return nil, fail(tag, err)
	}
	out, err := mapRows(raws, s.clock.Now(), mapper.CourseFromRow)
	if err != nil {
		return nil, fail(tag, err)
	}
	return out, nil
}

// CreateCourse inserts a course, generating its code when none is given.
func (s *CourseService) CreateCourse(ctx context.Context, in domain.CourseInput) (*domain.Course, error) {
	if err := firstMissing(
		[2]string{"name", in.Name},
		[2]string{"grade", in.Grade},
		[2]string{"schoolId", in.SchoolID},
	); err != nil {
		return nil, err
	}

	code := in.Code
	if code == "" {
		section := in.Section
		if section == "" {
			section = defaultSection
		}
		code = s.GenerateCourseCode(ctx, in.SchoolID, in.Grade, section)
	}

	raw, err := s.store.Insert(ctx, tableCourses, mapper.NewCourseRow(in, code))
	if err != nil {
		return nil, fail("CourseService.CreateCourse", err, "courseCode", code)
	}
	c, err := mapRow(raw, s.clock.Now(), mapper.CourseFromRow)
	if err != nil {
		return nil, fail("CourseService.CreateCourse", err)
	}

	logger.Success("CourseService", "Course created", "courseCode", c.Code)
	return c, nil
}

func (s *CourseService) UpdateCourse(ctx context.Context, code string, u domain.CourseUpdate) (*domain.Course, error) {
	if err := required("courseCode", code); err != nil {
		return nil, err
	}
	patch := mapper.CoursePatch(u)
	if len(patch) == 0 {
		return nil, apperr.Validation("updates", "No updates provided")
	}

	raws, err := s.store.Update(ctx, tableCourses, patch, ports.Query{Where: []ports.Filter{ports.Eq("code", code)}})
	if err != nil {
		return nil, fail("CourseService.UpdateCourse", err, "courseCode", code)
	}
	if len(raws) == 0 {
		return nil, fail("CourseService.UpdateCourse", apperr.NotFound("Course", ""), "courseCode", code)
	}
	c, err := mapRow(raws[0], s.clock.Now(), mapper.CourseFromRow)
	if err != nil {
		return nil, fail("CourseService.UpdateCourse", err)
	}

	logger.Success("CourseService", "Course updated", "courseCode", code)
	return c, nil
}

func (s *CourseService) DeleteCourse(ctx context.Context, code string) error {
	if err := required("courseCode", code); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, tableCourses, ports.Query{Where: []ports.Filter{ports.Eq("code", code)}}); err != nil {
		return fail("CourseService.DeleteCourse", err, "courseCode", code)
	}
	logger.Success("CourseService", "Course deleted", "courseCode", code)
	return nil
}

// GetCoursesCount counts active courses of schoolID, 0 on failure.
func (s *CourseService) GetCoursesCount(ctx context.Context, schoolID string) int {
	n, err := s.store.Count(ctx, tableCourses, ports.Query{
		Where: []ports.Filter{ports.Eq("school_id", schoolID), ports.Eq("status", string(domain.CourseActive))},
	})
	if err != nil {
		apperr.Log("CourseService.GetCoursesCount", apperr.Classify(err), "schoolId", schoolID)
		return 0
	}
	return n
}
