package domain

import "time"

type CourseTeacher struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Code  string `json:"code"`
	Email string `json:"email,omitempty"`
}

type ClassSchedule struct {
	Day       string `json:"day"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Room      string `json:"room,omitempty"`
}

type CourseSettings struct {
	AutoCloseTime           string `json:"autoCloseTime"`
	NotifyParents           bool   `json:"notifyParents"`
	AllowLateEntry          bool   `json:"allowLateEntry"`
	NotifyTeachers          bool   `json:"notifyTeachers"`
	AutoCloseAttendance     bool   `json:"autoCloseAttendance"`
	LateThresholdMinutes    int    `json:"lateThresholdMinutes"`
	RequiresFaceRecognition bool   `json:"requiresFaceRecognition"`
}

type Course struct {
	ID            string          `json:"id"`
	Code          string          `json:"code"`
	Name          string          `json:"name"`
	Description   string          `json:"description,omitempty"`
	Grade         string          `json:"grade"`
	Section       string          `json:"section,omitempty"`
	SchoolID      string          `json:"schoolId"`
	SchoolCode    string          `json:"schoolCode"`
	TeacherID     string          `json:"teacherId,omitempty"`
	TeacherCode   string          `json:"teacherCode,omitempty"`
	TeacherName   string          `json:"teacherName,omitempty"`
	TeacherIDs    []string        `json:"teacherIds"`
	Teachers      []CourseTeacher `json:"teachers"`
	Schedule      []ClassSchedule `json:"schedule"`
	Room          string          `json:"room,omitempty"`
	MaxStudents   *int            `json:"maxStudents,omitempty"`
	TotalStudents int             `json:"totalStudents"`
	StartDate     string          `json:"startDate,omitempty"`
	EndDate       string          `json:"endDate,omitempty"`
	Status        CourseStatus    `json:"status"`
	Settings      CourseSettings  `json:"settings"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

type CourseInput struct {
	Code        string
	Name        string
	Description string
	Grade       string
	Section     string
	SchoolID    string
	SchoolCode  string
	TeacherID   string
	TeacherCode string
	TeacherName string
	TeacherIDs  []string
	Room        string
	MaxStudents *int
	Status      CourseStatus
}

// CourseUpdate is a partial update. Name, Grade and Status are only written
// when non-empty; every other non-nil field is written as given.
type CourseUpdate struct {
	Name        *string
	Description *string
	Grade       *string
	Section     *string
	TeacherID   *string
	TeacherCode *string
	TeacherName *string
	TeacherIDs  []string
	Room        *string
	MaxStudents *int
	Status      *CourseStatus
	Settings    *CourseSettings
	Schedule    []ClassSchedule
	StartDate   *string
	EndDate     *string
}
