package domain

import "time"

type AttendanceRecord struct {
	ID           string           `json:"id"`
	StudentCode  string           `json:"studentCode"`
	StudentName  string           `json:"studentName"`
	CourseCode   string           `json:"courseCode,omitempty"`
	SchoolCode   string           `json:"schoolCode"`
	SchoolID     string           `json:"schoolId"`
	Date         string           `json:"date"`
	Time         string           `json:"time,omitempty"`
	Status       AttendanceStatus `json:"status"`
	Method       AttendanceMethod `json:"method,omitempty"`
	MarkedAt     *time.Time       `json:"markedAt,omitempty"`
	MarkedBy     string           `json:"markedBy,omitempty"`
	TeacherCode  string           `json:"teacherCode,omitempty"`
	Notes        string           `json:"notes,omitempty"`
	ExcuseReason string           `json:"excuseReason,omitempty"`
	Latitude     *float64         `json:"latitude,omitempty"`
	Longitude    *float64         `json:"longitude,omitempty"`
	ModifiedAt   *time.Time       `json:"modifiedAt,omitempty"`
	ModifiedBy   string           `json:"modifiedBy,omitempty"`
	CreatedAt    time.Time        `json:"createdAt"`
	UpdatedAt    time.Time        `json:"updatedAt"`
}

type AttendanceStats struct {
	TotalPresent    int     `json:"totalPresent"`
	TotalLate       int     `json:"totalLate"`
	TotalAbsent     int     `json:"totalAbsent"`
	TotalExcused    int     `json:"totalExcused"`
	AttendanceRate  float64 `json:"attendanceRate"`
	PunctualityRate float64 `json:"punctualityRate"`
}

type DailyAttendanceSummary struct {
	Date       string  `json:"date"`
	Present    int     `json:"present"`
	Late       int     `json:"late"`
	Absent     int     `json:"absent"`
	Excused    int     `json:"excused"`
	Total      int     `json:"total"`
	Percentage float64 `json:"percentage"`
}

// MarkAttendanceInput is the payload for marking one student. Empty Date and
// Time are filled from the clock; an empty Method means manual.
type MarkAttendanceInput struct {
	StudentCode string
	StudentName string
	SchoolID    string
	SchoolCode  string
	CourseCode  string
	Date        string
	Time        string
	Status      AttendanceStatus
	Method      AttendanceMethod
	TeacherCode string
	Notes       string
	Latitude    *float64
	Longitude   *float64
}

type AttendanceUpdate struct {
	Status       *AttendanceStatus
	Notes        *string
	ExcuseReason *string
}

// DateRange bounds a history query. Empty bounds are open.
type DateRange struct {
	Start string
	End   string
}
