package domain

import "time"

type TeacherStats struct {
	TotalCourses     int     `json:"totalCourses"`
	AvgAttendance    float64 `json:"avgAttendance"`
	TotalStudents    int     `json:"totalStudents"`
	PunctualityScore float64 `json:"punctualityScore"`
}

type TeacherPermissions struct {
	CanManageGrades      bool `json:"canManageGrades"`
	CanExportReports     bool `json:"canExportReports"`
	CanEditAttendance    bool `json:"canEditAttendance"`
	CanMarkAttendance    bool `json:"canMarkAttendance"`
	CanViewAllStudents   bool `json:"canViewAllStudents"`
	CanSendNotifications bool `json:"canSendNotifications"`
}

type Teacher struct {
	ID             string             `json:"id"`
	Code           string             `json:"code"`
	UID            string             `json:"uid,omitempty"`
	Name           string             `json:"name"`
	Email          string             `json:"email,omitempty"`
	Phone          string             `json:"phone,omitempty"`
	Avatar         string             `json:"avatar,omitempty"`
	Address        string             `json:"address,omitempty"`
	DateOfBirth    string             `json:"dateOfBirth,omitempty"`
	HireDate       string             `json:"hireDate,omitempty"`
	SchoolID       string             `json:"schoolId"`
	SchoolCode     string             `json:"schoolCode"`
	Courses        []string           `json:"courses"`
	Specialization []string           `json:"specialization"`
	Status         TeacherStatus      `json:"status"`
	Stats          TeacherStats       `json:"stats"`
	Permissions    TeacherPermissions `json:"permissions"`
	CreatedAt      time.Time          `json:"createdAt"`
	UpdatedAt      time.Time          `json:"updatedAt"`
}

type TeacherInput struct {
	Code           string
	UID            string
	Name           string
	Email          string
	Phone          string
	Address        string
	DateOfBirth    string
	HireDate       string
	SchoolID       string
	SchoolCode     string
	Courses        []string
	Specialization []string
	Status         TeacherStatus
}

type TeacherUpdate struct {
	UID            *string
	Name           *string
	Email          *string
	Phone          *string
	Avatar         *string
	Address        *string
	DateOfBirth    *string
	HireDate       *string
	Courses        []string
	Specialization []string
	Status         *TeacherStatus
	Stats          *TeacherStats
	Permissions    *TeacherPermissions
}

func (u TeacherUpdate) IsEmpty() bool {
	return u.UID == nil && u.Name == nil && u.Email == nil && u.Phone == nil && u.Avatar == nil &&
		u.Address == nil && u.DateOfBirth == nil && u.HireDate == nil && u.Courses == nil &&
		u.Specialization == nil && u.Status == nil && u.Stats == nil && u.Permissions == nil
}
