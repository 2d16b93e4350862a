package validation

import "github.com/asistoya/shared-services/internal/core/domain"

type MarkAttendanceRequest struct {
	StudentCode string                  `json:"studentCode" validate:"required"`
	StudentName string                  `json:"studentName" validate:"required"`
	SchoolID    string                  `json:"schoolId" validate:"required,uuid"`
	SchoolCode  string                  `json:"schoolCode" validate:"required"`
	CourseCode  string                  `json:"courseCode,omitempty"`
	Date        string                  `json:"date" validate:"required,ymd"`
	Time        string                  `json:"time,omitempty" validate:"omitempty,clock"`
	Status      domain.AttendanceStatus `json:"status" validate:"required,oneof=present late absent excused"`
	Method      domain.AttendanceMethod `json:"method" validate:"oneof=manual face_recognition qr_code auto"`
	TeacherCode string                  `json:"teacherCode,omitempty"`
	Notes       string                  `json:"notes,omitempty" validate:"max=500"`
	Latitude    *float64                `json:"latitude,omitempty" validate:"omitempty,gte=-90,lte=90"`
	Longitude   *float64                `json:"longitude,omitempty" validate:"omitempty,gte=-180,lte=180"`
}

func (r *MarkAttendanceRequest) ApplyDefaults() {
	if r.Method == "" {
		r.Method = domain.MethodManual
	}
}

func (r MarkAttendanceRequest) Input() domain.MarkAttendanceInput {
	return domain.MarkAttendanceInput{
		StudentCode: r.StudentCode,
		StudentName: r.StudentName,
		SchoolID:    r.SchoolID,
		SchoolCode:  r.SchoolCode,
		CourseCode:  r.CourseCode,
		Date:        r.Date,
		Time:        r.Time,
		Status:      r.Status,
		Method:      r.Method,
		TeacherCode: r.TeacherCode,
		Notes:       r.Notes,
		Latitude:    r.Latitude,
		Longitude:   r.Longitude,
	}
}

type BulkMarkAttendanceRequest struct {
	Records []MarkAttendanceRequest `json:"records" validate:"required,min=1,dive"`
}

func (r *BulkMarkAttendanceRequest) ApplyDefaults() {
	for i := range r.Records {
		r.Records[i].ApplyDefaults()
	}
}

type UpdateAttendanceRequest struct {
	Status       *domain.AttendanceStatus `json:"status,omitempty" validate:"omitempty,oneof=present late absent excused"`
	Notes        *string                  `json:"notes,omitempty" validate:"omitempty,max=500"`
	ExcuseReason *string                  `json:"excuseReason,omitempty" validate:"omitempty,max=500"`
}

func (r UpdateAttendanceRequest) Update() domain.AttendanceUpdate {
	return domain.AttendanceUpdate{Status: r.Status, Notes: r.Notes, ExcuseReason: r.ExcuseReason}
}

type QueryAttendanceRequest struct {
	SchoolID    string                  `json:"schoolId,omitempty" validate:"omitempty,uuid"`
	CourseCode  string                  `json:"courseCode,omitempty"`
	StudentCode string                  `json:"studentCode,omitempty"`
	Date        string                  `json:"date,omitempty" validate:"omitempty,ymd"`
	StartDate   string                  `json:"startDate,omitempty" validate:"omitempty,ymd"`
	EndDate     string                  `json:"endDate,omitempty" validate:"omitempty,ymd"`
	Status      domain.AttendanceStatus `json:"status,omitempty" validate:"omitempty,oneof=present late absent excused"`
	Page        int                     `json:"page" validate:"gte=1"`
	Limit       int                     `json:"limit" validate:"gte=1,lte=100"`
}

func (r *QueryAttendanceRequest) ApplyDefaults() {
	pageDefaults(&r.Page, &r.Limit)
}
