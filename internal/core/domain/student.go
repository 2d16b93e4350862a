package domain

import "time"

type ParentContact struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Relationship string `json:"relationship"`
	Phone        string `json:"phone,omitempty"`
	Email        string `json:"email,omitempty"`
	IsPrimary    bool   `json:"isPrimary"`
}

type StudentStats struct {
	TotalDays      int     `json:"totalDays"`
	TotalLate      int     `json:"totalLate"`
	TotalAbsent    int     `json:"totalAbsent"`
	TotalPresent   int     `json:"totalPresent"`
	CurrentStreak  int     `json:"currentStreak"`
	LongestStreak  int     `json:"longestStreak"`
	AttendanceRate float64 `json:"attendanceRate"`
}

type StudentAlert struct {
	ID         string `json:"id"`
	Type       string `json:"type"`
	Severity   string `json:"severity"`
	Message    string `json:"message"`
	CreatedAt  string `json:"createdAt"`
	ResolvedAt string `json:"resolvedAt,omitempty"`
	ResolvedBy string `json:"resolvedBy,omitempty"`
}

type StudentAchievement struct {
	ID              string  `json:"id"`
	AchievementCode string  `json:"achievementCode"`
	AchievementName string  `json:"achievementName"`
	UnlockedAt      string  `json:"unlockedAt"`
	Progress        float64 `json:"progress"`
}

type StudentNote struct {
	ID            string `json:"id"`
	Content       string `json:"content"`
	CreatedBy     string `json:"createdBy"`
	CreatedByName string `json:"createdByName,omitempty"`
	CreatedAt     string `json:"createdAt"`
	Type          string `json:"type"`
	IsPrivate     bool   `json:"isPrivate"`
}

type Student struct {
	ID             string               `json:"id"`
	Code           string               `json:"code"`
	StudentCode    string               `json:"studentCode"`
	Name           string               `json:"name"`
	Photo          string               `json:"photo,omitempty"`
	Grade          string               `json:"grade"`
	Section        string               `json:"section,omitempty"`
	CourseCode     string               `json:"courseCode,omitempty"`
	SchoolID       string               `json:"schoolId"`
	SchoolCode     string               `json:"schoolCode"`
	DateOfBirth    *time.Time           `json:"dateOfBirth,omitempty"`
	EnrollmentDate *time.Time           `json:"enrollmentDate,omitempty"`
	ParentCodes    []string             `json:"parentCodes"`
	ParentIDs      []string             `json:"parentIds"`
	ParentContacts []ParentContact      `json:"parentContacts"`
	FaceID         string               `json:"faceId,omitempty"`
	Status         StudentStatus        `json:"status"`
	Stats          StudentStats         `json:"stats"`
	Alerts         []StudentAlert       `json:"alerts"`
	Achievements   []StudentAchievement `json:"achievements"`
	Notes          []StudentNote        `json:"notes"`
	CreatedAt      time.Time            `json:"createdAt"`
	UpdatedAt      time.Time            `json:"updatedAt"`
}

type StudentInput struct {
	Code        string
	StudentCode string
	Name        string
	Grade       string
	SchoolID    string
	SchoolCode  string
	Section     string
	CourseCode  string
	Photo       string
	ParentCodes []string
	ParentIDs   []string
	Status      StudentStatus
}

// StudentUpdate is a partial update. Nil fields are left untouched. Code,
// StudentCode, Name, Grade and Status are only written when non-empty.
type StudentUpdate struct {
	Code        *string
	StudentCode *string
	Name        *string
	Photo       *string
	Grade       *string
	Section     *string
	CourseCode  *string
	ParentCodes []string
	ParentIDs   []string
	Status      *StudentStatus
}

func (u StudentUpdate) IsEmpty() bool {
	return u.Code == nil && u.StudentCode == nil && u.Name == nil && u.Photo == nil &&
		u.Grade == nil && u.Section == nil && u.CourseCode == nil &&
		u.ParentCodes == nil && u.ParentIDs == nil && u.Status == nil
}
