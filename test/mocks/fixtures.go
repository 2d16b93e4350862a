package mocks

import "github.com/asistoya/shared-services/internal/core/domain"

// Fixture ids shared by the service and adapter tests.
const (
	SchoolID  = "0b7a3c56-5d0e-4c64-9a0e-2f2d3f5a1c11"
	TeacherID = "6f1c2f0e-8a55-4e0f-b7a2-9f6f0b1d2c33"
	ParentID  = "a4d9e8b1-3c2f-4e5a-9b7c-1d2e3f4a5b66"
)

// StudentRow returns a students row as the store would hold it.
func StudentRow(id, code, name, courseCode string) domain.Patch {
	return domain.Patch{
		"id":           id,
		"code":         code,
		"student_code": code,
		"name":         name,
		"grade":        "5",
		"section":      "A",
		"course_code":  courseCode,
		"school_id":    SchoolID,
		"school_code":  "SCH-001",
		"parent_codes": []string{"PAR-" + code},
		"parent_ids":   []string{ParentID},
		"status":       "active",
		"created_at":   "2024-02-01T12:00:00+00:00",
		"updated_at":   "2024-02-01T12:00:00+00:00",
	}
}

// AttendanceRow returns an attendance row for code on date.
func AttendanceRow(id, code, courseCode, date, status string) domain.Patch {
	return domain.Patch{
		"id":           id,
		"student_code": code,
		"student_name": "Student " + code,
		"course_code":  courseCode,
		"school_code":  "SCH-001",
		"school_id":    SchoolID,
		"date":         date,
		"time":         "08:00:00",
		"status":       status,
		"method":       "manual",
		"created_at":   date + "T08:00:00+00:00",
		"updated_at":   date + "T08:00:00+00:00",
	}
}

// CourseRow returns an active courses row taught by TeacherID.
func CourseRow(id, code, name string) domain.Patch {
	return domain.Patch{
		"id":             id,
		"code":           code,
		"name":           name,
		"grade":          "5",
		"section":        "A",
		"school_id":      SchoolID,
		"school_code":    "SCH-001",
		"teacher_id":     TeacherID,
		"teacher_ids":    []string{TeacherID},
		"total_students": 0,
		"status":         "active",
	}
}

// NotificationRow returns an unread, undelivered notification for userID.
func NotificationRow(id, userID string, methods ...string) domain.Patch {
	if len(methods) == 0 {
		methods = []string{"in_app"}
	}
	return domain.Patch{
		"id":              id,
		"user_id":         userID,
		"title":           "Llegada",
		"message":         "Ana llegó al colegio",
		"type":            "arrival",
		"priority":        "normal",
		"data":            map[string]any{"studentCode": "EST-001"},
		"read":            false,
		"delivered":       false,
		"delivery_method": methods,
		"created_at":      "2024-03-15T08:00:00+00:00",
	}
}

// DeviceTokenRow returns an active device token for userID.
func DeviceTokenRow(id, userID, token, platform string) domain.Patch {
	return domain.Patch{
		"id":        id,
		"user_id":   userID,
		"token":     token,
		"platform":  platform,
		"is_active": true,
	}
}

// TeacherRow returns an active teachers row.
func TeacherRow(id, code, name string) domain.Patch {
	return domain.Patch{
		"id":             id,
		"code":           code,
		"name":           name,
		"school_id":      SchoolID,
		"school_code":    "SCH-001",
		"courses":        []string{},
		"specialization": []string{"Matemática"},
		"status":         "active",
	}
}
