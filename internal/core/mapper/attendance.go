package mapper

import (
	"time"

	"github.com/asistoya/shared-services/internal/core/domain"
)

func AttendanceFromRow(row domain.AttendanceRow, now time.Time) domain.AttendanceRecord {
	return domain.AttendanceRecord{
		ID:           row.ID,
		StudentCode:  row.StudentCode,
		StudentName:  row.StudentName,
		CourseCode:   str(row.CourseCode),
		SchoolCode:   row.SchoolCode,
		SchoolID:     row.SchoolID,
		Date:         row.Date,
		Time:         str(row.Time),
		Status:       domain.AttendanceStatus(row.Status),
		Method:       domain.AttendanceMethod(str(row.Method)),
		MarkedAt:     optTime(row.MarkedAt),
		MarkedBy:     str(row.MarkedBy),
		TeacherCode:  str(row.TeacherCode),
		Notes:        str(row.Notes),
		ExcuseReason: str(row.ExcuseReason),
		Latitude:     nonZero(row.Latitude),
		Longitude:    nonZero(row.Longitude),
		ModifiedAt:   optTime(row.ModifiedAt),
		ModifiedBy:   str(row.ModifiedBy),
		CreatedAt:    timeOr(row.CreatedAt, now),
		UpdatedAt:    timeOr(row.UpdatedAt, now),
	}
}

// NewAttendanceRow builds the insert row. Date and time default to now in
// now's location and the method defaults to manual.
func NewAttendanceRow(in domain.MarkAttendanceInput, now time.Time) domain.Patch {
	date := in.Date
	if date == "" {
		date = now.Format(domain.DateLayout)
	}
	clock := in.Time
	if clock == "" {
		clock = now.Format(domain.TimeLayout)
	}
	var lat, lng any
	if in.Latitude != nil {
		lat = *in.Latitude
	}
	if in.Longitude != nil {
		lng = *in.Longitude
	}
	return domain.Patch{
		"student_code": in.StudentCode,
		"student_name": in.StudentName,
		"school_id":    in.SchoolID,
		"school_code":  in.SchoolCode,
		"course_code":  orNull(in.CourseCode),
		"date":         date,
		"time":         clock,
		"status":       string(in.Status),
		"method":       string(orDefault(in.Method, domain.MethodManual)),
		"teacher_code": orNull(in.TeacherCode),
		"notes":        orNull(in.Notes),
		"latitude":     lat,
		"longitude":    lng,
		"marked_at":    now.UTC().Format(time.RFC3339Nano),
	}
}

// AttendancePatch emits the editable fields set on u. Status is skipped when
// empty; notes and excuse reason may be cleared with "".
func AttendancePatch(u domain.AttendanceUpdate) domain.Patch {
	p := domain.Patch{}
	if u.Status != nil && *u.Status != "" {
		p["status"] = string(*u.Status)
	}
	if u.Notes != nil {
		p["notes"] = *u.Notes
	}
	if u.ExcuseReason != nil {
		p["excuse_reason"] = *u.ExcuseReason
	}
	return p
}
