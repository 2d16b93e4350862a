package mapper

import (
	"time"

	"github.com/asistoya/shared-services/internal/core/domain"
)

func CourseFromRow(row domain.CourseRow, now time.Time) domain.Course {
	total := 0
	if row.TotalStudents != nil {
		total = *row.TotalStudents
	}
	return domain.Course{
		ID:            row.ID,
		Code:          row.Code,
		Name:          row.Name,
		Description:   str(row.Description),
		Grade:         row.Grade,
		Section:       str(row.Section),
		SchoolID:      row.SchoolID,
		SchoolCode:    row.SchoolCode,
		TeacherID:     str(row.TeacherID),
		TeacherCode:   str(row.TeacherCode),
		TeacherName:   str(row.TeacherName),
		TeacherIDs:    strs(row.TeacherIDs),
		Teachers:      decodeList[domain.CourseTeacher](row.Teachers),
		Schedule:      decodeList[domain.ClassSchedule](row.ScheduleDetails),
		Room:          str(row.Room),
		MaxStudents:   nonZero(row.MaxStudents),
		TotalStudents: total,
		StartDate:     str(row.StartDate),
		EndDate:       str(row.EndDate),
		Status:        orDefault(domain.CourseStatus(str(row.Status)), domain.CourseActive),
		Settings:      decodeObject[domain.CourseSettings](row.Settings),
		CreatedAt:     timeOr(row.CreatedAt, now),
		UpdatedAt:     timeOr(row.UpdatedAt, now),
	}
}

// NewCourseRow builds the insert row for an already resolved code.
func NewCourseRow(in domain.CourseInput, code string) domain.Patch {
	schoolCode := in.SchoolCode
	if schoolCode == "" {
		schoolCode = in.SchoolID
	}
	var teacherIDs any
	if len(in.TeacherIDs) > 0 {
		teacherIDs = in.TeacherIDs
	}
	var maxStudents any
	if in.MaxStudents != nil && *in.MaxStudents != 0 {
		maxStudents = *in.MaxStudents
	}
	return domain.Patch{
		"code":         code,
		"name":         in.Name,
		"description":  orNull(in.Description),
		"grade":        in.Grade,
		"section":      orNull(in.Section),
		"school_id":    in.SchoolID,
		"school_code":  schoolCode,
		"teacher_id":   orNull(in.TeacherID),
		"teacher_code": orNull(in.TeacherCode),
		"teacher_name": orNull(in.TeacherName),
		"teacher_ids":  teacherIDs,
		"room":         orNull(in.Room),
		"max_students": maxStudents,
		"status":       string(orDefault(in.Status, domain.CourseActive)),
	}
}

func CoursePatch(u domain.CourseUpdate) domain.Patch {
	p := domain.Patch{}
	if u.Name != nil && *u.Name != "" {
		p["name"] = *u.Name
	}
	if u.Description != nil {
		p["description"] = *u.Description
	}
	if u.Grade != nil && *u.Grade != "" {
		p["grade"] = *u.Grade
	}
	if u.Section != nil {
		p["section"] = *u.Section
	}
	if u.TeacherID != nil {
		p["teacher_id"] = *u.TeacherID
	}
	if u.TeacherCode != nil {
		p["teacher_code"] = *u.TeacherCode
	}
	if u.TeacherName != nil {
		p["teacher_name"] = *u.TeacherName
	}
	if u.TeacherIDs != nil {
		p["teacher_ids"] = u.TeacherIDs
	}
	if u.Room != nil {
		p["room"] = *u.Room
	}
	if u.MaxStudents != nil {
		p["max_students"] = *u.MaxStudents
	}
	if u.Status != nil && *u.Status != "" {
		p["status"] = string(*u.Status)
	}
	if u.Settings != nil {
		p["settings"] = *u.Settings
	}
	if u.Schedule != nil {
		p["schedule_details"] = u.Schedule
	}
	if u.StartDate != nil {
		p["start_date"] = *u.StartDate
	}
	if u.EndDate != nil {
		p["end_date"] = *u.EndDate
	}
	return p
}
