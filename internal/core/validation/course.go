package validation

import "github.com/asistoya/shared-services/internal/core/domain"

type ScheduleItem struct {
	Day       string `json:"day" validate:"required,oneof=monday tuesday wednesday thursday friday saturday sunday"`
	StartTime string `json:"startTime" validate:"required,hhmm"`
	EndTime   string `json:"endTime" validate:"required,hhmm"`
	Room      string `json:"room,omitempty"`
}

type CreateCourseRequest struct {
	Code        string              `json:"code,omitempty" validate:"omitempty,min=1,max=20"`
	Name        string              `json:"name" validate:"required,max=100"`
	Description string              `json:"description,omitempty" validate:"max=500"`
	Grade       string              `json:"grade" validate:"required"`
	Section     string              `json:"section,omitempty"`
	SchoolID    string              `json:"schoolId" validate:"required,uuid"`
	SchoolCode  string              `json:"schoolCode" validate:"required"`
	TeacherID   string              `json:"teacherId,omitempty" validate:"omitempty,uuid"`
	TeacherCode string              `json:"teacherCode,omitempty"`
	TeacherName string              `json:"teacherName,omitempty"`
	TeacherIDs  []string            `json:"teacherIds,omitempty" validate:"omitempty,dive,uuid"`
	Room        string              `json:"room,omitempty"`
	MaxStudents *int                `json:"maxStudents,omitempty" validate:"omitempty,gte=1,lte=100"`
	Schedule    []ScheduleItem      `json:"schedule,omitempty" validate:"omitempty,dive"`
	Status      domain.CourseStatus `json:"status" validate:"oneof=active inactive archived"`
}

func (r *CreateCourseRequest) ApplyDefaults() {
	if r.Status == "" {
		r.Status = domain.CourseActive
	}
}

func (r CreateCourseRequest) Input() domain.CourseInput {
	return domain.CourseInput{
		Code:        r.Code,
		Name:        r.Name,
		Description: r.Description,
		Grade:       r.Grade,
		Section:     r.Section,
		SchoolID:    r.SchoolID,
		SchoolCode:  r.SchoolCode,
		TeacherID:   r.TeacherID,
		TeacherCode: r.TeacherCode,
		TeacherName: r.TeacherName,
		TeacherIDs:  r.TeacherIDs,
		Room:        r.Room,
		MaxStudents: r.MaxStudents,
		Status:      r.Status,
	}
}

type UpdateCourseRequest struct {
	Name        *string              `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Description *string              `json:"description,omitempty" validate:"omitempty,max=500"`
	Grade       *string              `json:"grade,omitempty"`
	Section     *string              `json:"section,omitempty"`
	TeacherID   *string              `json:"teacherId,omitempty" validate:"omitempty,uuid"`
	TeacherCode *string              `json:"teacherCode,omitempty"`
	TeacherName *string              `json:"teacherName,omitempty"`
	TeacherIDs  []string             `json:"teacherIds,omitempty" validate:"omitempty,dive,uuid"`
	Room        *string              `json:"room,omitempty"`
	MaxStudents *int                 `json:"maxStudents,omitempty" validate:"omitempty,gte=1,lte=100"`
	Schedule    []ScheduleItem       `json:"schedule,omitempty" validate:"omitempty,dive"`
	Status      *domain.CourseStatus `json:"status,omitempty" validate:"omitempty,oneof=active inactive archived"`
}

func (r UpdateCourseRequest) Update() domain.CourseUpdate {
	u := domain.CourseUpdate{
		Name:        r.Name,
		Description: r.Description,
		Grade:       r.Grade,
		Section:     r.Section,
		TeacherID:   r.TeacherID,
		TeacherCode: r.TeacherCode,
		TeacherName: r.TeacherName,
		TeacherIDs:  r.TeacherIDs,
		Room:        r.Room,
		MaxStudents: r.MaxStudents,
		Status:      r.Status,
	}
	if r.Schedule != nil {
		u.Schedule = make([]domain.ClassSchedule, 0, len(r.Schedule))
		for _, s := range r.Schedule {
			u.Schedule = append(u.Schedule, domain.ClassSchedule{
				Day:       s.Day,
				StartTime: s.StartTime,
				EndTime:   s.EndTime,
				Room:      s.Room,
			})
		}
	}
	return u
}

type QueryCoursesRequest struct {
	SchoolID  string              `json:"schoolId,omitempty" validate:"omitempty,uuid"`
	TeacherID string              `json:"teacherId,omitempty" validate:"omitempty,uuid"`
	Grade     string              `json:"grade,omitempty"`
	Status    domain.CourseStatus `json:"status,omitempty" validate:"omitempty,oneof=active inactive archived"`
	Search    string              `json:"search,omitempty"`
	Page      int                 `json:"page" validate:"gte=1"`
	Limit     int                 `json:"limit" validate:"gte=1,lte=100"`
}

func (r *QueryCoursesRequest) ApplyDefaults() {
	pageDefaults(&r.Page, &r.Limit)
}

type AddStudentsToCourseRequest struct {
	StudentIDs []string `json:"studentIds" validate:"required,min=1,dive,uuid"`
}

type AddTeachersToCourseRequest struct {
	TeacherIDs []string `json:"teacherIds" validate:"required,min=1,dive,uuid"`
}
