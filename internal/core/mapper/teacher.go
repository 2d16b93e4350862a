package mapper

import (
	"time"

	"github.com/asistoya/shared-services/internal/core/domain"
)

func TeacherFromRow(row domain.TeacherRow, now time.Time) domain.Teacher {
	return domain.Teacher{
		ID:             row.ID,
		Code:           row.Code,
		UID:            str(row.UID),
		Name:           row.Name,
		Email:          str(row.Email),
		Phone:          str(row.Phone),
		Avatar:         str(row.Avatar),
		Address:        str(row.Address),
		DateOfBirth:    str(row.DateOfBirth),
		HireDate:       str(row.HireDate),
		SchoolID:       row.SchoolID,
		SchoolCode:     row.SchoolCode,
		Courses:        strs(row.Courses),
		Specialization: strs(row.Specialization),
		Status:         orDefault(domain.TeacherStatus(str(row.Status)), domain.TeacherActive),
		Stats:          decodeObject[domain.TeacherStats](row.Stats),
		Permissions:    decodeObject[domain.TeacherPermissions](row.Permissions),
		CreatedAt:      timeOr(row.CreatedAt, now),
		UpdatedAt:      timeOr(row.UpdatedAt, now),
	}
}

func NewTeacherRow(in domain.TeacherInput) domain.Patch {
	schoolCode := in.SchoolCode
	if schoolCode == "" {
		schoolCode = in.SchoolID
	}
	return domain.Patch{
		"code":           in.Code,
		"uid":            orNull(in.UID),
		"name":           in.Name,
		"email":          orNull(in.Email),
		"phone":          orNull(in.Phone),
		"address":        orNull(in.Address),
		"date_of_birth":  orNull(in.DateOfBirth),
		"hire_date":      orNull(in.HireDate),
		"school_id":      in.SchoolID,
		"school_code":    schoolCode,
		"courses":        strs(in.Courses),
		"specialization": strs(in.Specialization),
		"status":         string(orDefault(in.Status, domain.TeacherActive)),
	}
}

func TeacherPatch(u domain.TeacherUpdate) domain.Patch {
	p := domain.Patch{}
	if u.UID != nil {
		p["uid"] = *u.UID
	}
	if u.Name != nil && *u.Name != "" {
		p["name"] = *u.Name
	}
	if u.Email != nil {
		p["email"] = *u.Email
	}
	if u.Phone != nil {
		p["phone"] = *u.Phone
	}
	if u.Avatar != nil {
		p["avatar"] = *u.Avatar
	}
	if u.Address != nil {
		p["address"] = *u.Address
	}
	if u.DateOfBirth != nil {
		p["date_of_birth"] = *u.DateOfBirth
	}
	if u.HireDate != nil {
		p["hire_date"] = *u.HireDate
	}
	if u.Courses != nil {
		p["courses"] = u.Courses
	}
	if u.Specialization != nil {
		p["specialization"] = u.Specialization
	}
	if u.Status != nil && *u.Status != "" {
		p["status"] = string(*u.Status)
	}
	if u.Stats != nil {
		p["stats"] = *u.Stats
	}
	if u.Permissions != nil {
		p["permissions"] = *u.Permissions
	}
	return p
}
