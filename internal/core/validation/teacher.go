package validation

import "github.com/asistoya/shared-services/internal/core/domain"

type CreateTeacherRequest struct {
	Code           string               `json:"code" validate:"required,max=20"`
	Name           string               `json:"name" validate:"required,max=100"`
	Email          string               `json:"email" validate:"required,email"`
	Phone          string               `json:"phone,omitempty" validate:"omitempty,phone"`
	Address        string               `json:"address,omitempty" validate:"max=300"`
	DateOfBirth    string               `json:"dateOfBirth,omitempty" validate:"omitempty,ymd"`
	HireDate       string               `json:"hireDate,omitempty" validate:"omitempty,ymd"`
	SchoolID       string               `json:"schoolId" validate:"required,uuid"`
	SchoolCode     string               `json:"schoolCode" validate:"required"`
	Courses        []string             `json:"courses,omitempty"`
	Specialization []string             `json:"specialization,omitempty"`
	Status         domain.TeacherStatus `json:"status" validate:"oneof=active inactive on_leave"`
}

func (r *CreateTeacherRequest) ApplyDefaults() {
	if r.Status == "" {
		r.Status = domain.TeacherActive
	}
}

func (r CreateTeacherRequest) Input() domain.TeacherInput {
	return domain.TeacherInput{
		Code:           r.Code,
		Name:           r.Name,
		Email:          r.Email,
		Phone:          r.Phone,
		Address:        r.Address,
		DateOfBirth:    r.DateOfBirth,
		HireDate:       r.HireDate,
		SchoolID:       r.SchoolID,
		SchoolCode:     r.SchoolCode,
		Courses:        r.Courses,
		Specialization: r.Specialization,
		Status:         r.Status,
	}
}

type UpdateTeacherRequest struct {
	Name           *string               `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Email          *string               `json:"email,omitempty" validate:"omitempty,email"`
	Phone          *string               `json:"phone,omitempty" validate:"omitempty,phone"`
	Address        *string               `json:"address,omitempty" validate:"omitempty,max=300"`
	Courses        []string              `json:"courses,omitempty"`
	Specialization []string              `json:"specialization,omitempty"`
	Status         *domain.TeacherStatus `json:"status,omitempty" validate:"omitempty,oneof=active inactive on_leave"`
}

func (r UpdateTeacherRequest) Update() domain.TeacherUpdate {
	return domain.TeacherUpdate{
		Name:           r.Name,
		Email:          r.Email,
		Phone:          r.Phone,
		Address:        r.Address,
		Courses:        r.Courses,
		Specialization: r.Specialization,
		Status:         r.Status,
	}
}

type QueryTeachersRequest struct {
	SchoolID string               `json:"schoolId,omitempty" validate:"omitempty,uuid"`
	Status   domain.TeacherStatus `json:"status,omitempty" validate:"omitempty,oneof=active inactive on_leave"`
	Search   string               `json:"search,omitempty"`
	Page     int                  `json:"page" validate:"gte=1"`
	Limit    int                  `json:"limit" validate:"gte=1,lte=100"`
}

func (r *QueryTeachersRequest) ApplyDefaults() {
	pageDefaults(&r.Page, &r.Limit)
}
