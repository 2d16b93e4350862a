package mapper

import (
	"time"

	"github.com/asistoya/shared-services/internal/core/domain"
)

func StudentFromRow(row domain.StudentRow, now time.Time) domain.Student {
	return domain.Student{
		ID:             row.ID,
		Code:           row.Code,
		StudentCode:    row.StudentCode,
		Name:           row.Name,
		Photo:          str(row.Photo),
		Grade:          row.Grade,
		Section:        str(row.Section),
		CourseCode:     str(row.CourseCode),
		SchoolID:       row.SchoolID,
		SchoolCode:     row.SchoolCode,
		DateOfBirth:    optTime(row.DateOfBirth),
		EnrollmentDate: optTime(row.EnrollmentDate),
		ParentCodes:    strs(row.ParentCodes),
		ParentIDs:      strs(row.ParentIDs),
		ParentContacts: decodeList[domain.ParentContact](row.ParentContacts),
		FaceID:         str(row.FaceID),
		Status:         orDefault(domain.StudentStatus(str(row.Status)), domain.StudentActive),
		Stats:          decodeObject[domain.StudentStats](row.Stats),
		Alerts:         decodeList[domain.StudentAlert](row.Alerts),
		Achievements:   decodeList[domain.StudentAchievement](row.Achievements),
		Notes:          decodeList[domain.StudentNote](row.Notes),
		CreatedAt:      timeOr(row.CreatedAt, now),
		UpdatedAt:      timeOr(row.UpdatedAt, now),
	}
}

// NewStudentRow builds the insert row. The business code falls back to the
// student code and the school code to the school id.
func NewStudentRow(in domain.StudentInput) domain.Patch {
	code := in.Code
	if code == "" {
		code = in.StudentCode
	}
	schoolCode := in.SchoolCode
	if schoolCode == "" {
		schoolCode = in.SchoolID
	}
	return domain.Patch{
		"code":         code,
		"student_code": in.StudentCode,
		"name":         in.Name,
		"grade":        in.Grade,
		"school_id":    in.SchoolID,
		"school_code":  schoolCode,
		"section":      orNull(in.Section),
		"course_code":  orNull(in.CourseCode),
		"photo":        orNull(in.Photo),
		"parent_codes": strs(in.ParentCodes),
		"parent_ids":   strs(in.ParentIDs),
		"status":       string(orDefault(in.Status, domain.StudentActive)),
	}
}

// StudentPatch emits only the fields set on u. Identity and required columns
// are skipped when empty so they can never be blanked.
func StudentPatch(u domain.StudentUpdate) domain.Patch {
	p := domain.Patch{}
	if u.Code != nil && *u.Code != "" {
		p["code"] = *u.Code
	}
	if u.StudentCode != nil && *u.StudentCode != "" {
		p["student_code"] = *u.StudentCode
	}
	if u.Name != nil && *u.Name != "" {
		p["name"] = *u.Name
	}
	if u.Photo != nil {
		p["photo"] = *u.Photo
	}
	if u.Grade != nil && *u.Grade != "" {
		p["grade"] = *u.Grade
	}
	if u.Section != nil {
		p["section"] = *u.Section
	}
	if u.CourseCode != nil {
		p["course_code"] = *u.CourseCode
	}
	if u.ParentCodes != nil {
		p["parent_codes"] = u.ParentCodes
	}
	if u.ParentIDs != nil {
		p["parent_ids"] = u.ParentIDs
	}
	if u.Status != nil && *u.Status != "" {
		p["status"] = string(*u.Status)
	}
	return p
}
