package validation

import "github.com/asistoya/shared-services/internal/core/domain"

type CreateStudentRequest struct {
	Code        string               `json:"code" validate:"required,max=20"`
	StudentCode string               `json:"studentCode,omitempty" validate:"max=20"`
	Name        string               `json:"name" validate:"required,max=100"`
	Email       string               `json:"email,omitempty" validate:"omitempty,email"`
	Grade       string               `json:"grade" validate:"required"`
	Section     string               `json:"section,omitempty"`
	CourseCode  string               `json:"courseCode,omitempty"`
	SchoolID    string               `json:"schoolId" validate:"required,uuid"`
	SchoolCode  string               `json:"schoolCode" validate:"required"`
	ParentIDs   []string             `json:"parentIds,omitempty" validate:"omitempty,dive,uuid"`
	ParentCodes []string             `json:"parentCodes,omitempty"`
	Photo       string               `json:"photo,omitempty" validate:"omitempty,url"`
	Status      domain.StudentStatus `json:"status" validate:"oneof=active inactive transferred graduated withdrawn on_leave"`
}

func (r *CreateStudentRequest) ApplyDefaults() {
	if r.Status == "" {
		r.Status = domain.StudentActive
	}
}

func (r CreateStudentRequest) Input() domain.StudentInput {
	return domain.StudentInput{
		Code:        r.Code,
		StudentCode: r.StudentCode,
		Name:        r.Name,
		Grade:       r.Grade,
		SchoolID:    r.SchoolID,
		SchoolCode:  r.SchoolCode,
		Section:     r.Section,
		CourseCode:  r.CourseCode,
		Photo:       r.Photo,
		ParentCodes: r.ParentCodes,
		ParentIDs:   r.ParentIDs,
		Status:      r.Status,
	}
}

type UpdateStudentRequest struct {
	Name        *string               `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Grade       *string               `json:"grade,omitempty"`
	Section     *string               `json:"section,omitempty"`
	CourseCode  *string               `json:"courseCode,omitempty"`
	ParentIDs   []string              `json:"parentIds,omitempty" validate:"omitempty,dive,uuid"`
	ParentCodes []string              `json:"parentCodes,omitempty"`
	Photo       *string               `json:"photo,omitempty" validate:"omitempty,url"`
	Status      *domain.StudentStatus `json:"status,omitempty" validate:"omitempty,oneof=active inactive transferred graduated withdrawn on_leave"`
}

func (r UpdateStudentRequest) Update() domain.StudentUpdate {
	return domain.StudentUpdate{
		Name:        r.Name,
		Grade:       r.Grade,
		Section:     r.Section,
		CourseCode:  r.CourseCode,
		ParentIDs:   r.ParentIDs,
		ParentCodes: r.ParentCodes,
		Photo:       r.Photo,
		Status:      r.Status,
	}
}

type QueryStudentsRequest struct {
	SchoolID   string               `json:"schoolId,omitempty" validate:"omitempty,uuid"`
	Grade      string               `json:"grade,omitempty"`
	Section    string               `json:"section,omitempty"`
	CourseCode string               `json:"courseCode,omitempty"`
	Status     domain.StudentStatus `json:"status,omitempty" validate:"omitempty,oneof=active inactive transferred graduated withdrawn on_leave"`
	Search     string               `json:"search,omitempty"`
	Page       int                  `json:"page" validate:"gte=1"`
	Limit      int                  `json:"limit" validate:"gte=1,lte=100"`
}

func (r *QueryStudentsRequest) ApplyDefaults() {
	pageDefaults(&r.Page, &r.Limit)
}
