package domain

import "encoding/json"

// Row types mirror the remote tables column for column. Nullable columns are
// pointers or nil slices; json columns stay raw until a mapper decodes them.
// Timestamps are kept as the store renders them and parsed by the mappers.

type AttendanceRow struct {
	ID           string   `json:"id"`
	StudentCode  string   `json:"student_code"`
	StudentName  string   `json:"student_name"`
	CourseCode   *string  `json:"course_code"`
	SchoolCode   string   `json:"school_code"`
	SchoolID     string   `json:"school_id"`
	Date         string   `json:"date"`
	Time         *string  `json:"time"`
	Status       string   `json:"status"`
	Method       *string  `json:"method"`
	MarkedAt     *string  `json:"marked_at"`
	MarkedBy     *string  `json:"marked_by"`
	TeacherCode  *string  `json:"teacher_code"`
	Notes        *string  `json:"notes"`
	ExcuseReason *string  `json:"excuse_reason"`
	Latitude     *float64 `json:"latitude"`
	Longitude    *float64 `json:"longitude"`
	ModifiedAt   *string  `json:"modified_at"`
	ModifiedBy   *string  `json:"modified_by"`
	CreatedAt    *string  `json:"created_at"`
	UpdatedAt    *string  `json:"updated_at"`
}

type CourseRow struct {
	ID              string          `json:"id"`
	Code            string          `json:"code"`
	Name            string          `json:"name"`
	Description     *string         `json:"description"`
	Grade           string          `json:"grade"`
	Section         *string         `json:"section"`
	SchoolID        string          `json:"school_id"`
	SchoolCode      string          `json:"school_code"`
	TeacherID       *string         `json:"teacher_id"`
	TeacherCode     *string         `json:"teacher_code"`
	TeacherName     *string         `json:"teacher_name"`
	TeacherIDs      []string        `json:"teacher_ids"`
	Teachers        json.RawMessage `json:"teachers"`
	Schedule        *string         `json:"schedule"`
	ScheduleDetails json.RawMessage `json:"schedule_details"`
	Room            *string         `json:"room"`
	MaxStudents     *int            `json:"max_students"`
	TotalStudents   *int            `json:"total_students"`
	StartDate       *string         `json:"start_date"`
	EndDate         *string         `json:"end_date"`
	Status          *string         `json:"status"`
	Settings        json.RawMessage `json:"settings"`
	CreatedAt       *string         `json:"created_at"`
	UpdatedAt       *string         `json:"updated_at"`
}

type DeviceTokenRow struct {
	ID         string  `json:"id"`
	UserID     string  `json:"user_id"`
	Token      string  `json:"token"`
	Platform   *string `json:"platform"`
	DeviceID   *string `json:"device_id"`
	DeviceName *string `json:"device_name"`
	IsActive   *bool   `json:"is_active"`
	LastUsedAt *string `json:"last_used_at"`
	CreatedAt  *string `json:"created_at"`
	UpdatedAt  *string `json:"updated_at"`
}

type NotificationRow struct {
	ID             string          `json:"id"`
	UserID         *string         `json:"user_id"`
	Title          string          `json:"title"`
	Message        string          `json:"message"`
	Type           *string         `json:"type"`
	Priority       *string         `json:"priority"`
	ActionURL      *string         `json:"action_url"`
	Data           json.RawMessage `json:"data"`
	Read           *bool           `json:"read"`
	ReadAt         *string         `json:"read_at"`
	Delivered      *bool           `json:"delivered"`
	DeliveryMethod []string        `json:"delivery_method"`
	ExpiresAt      *string         `json:"expires_at"`
	CreatedAt      *string         `json:"created_at"`
}

type SchoolRow struct {
	ID            string          `json:"id"`
	Code          string          `json:"code"`
	Name          string          `json:"name"`
	Address       string          `json:"address"`
	City          string          `json:"city"`
	State         string          `json:"state"`
	Country       *string         `json:"country"`
	ZipCode       *string         `json:"zip_code"`
	Email         string          `json:"email"`
	Phone         string          `json:"phone"`
	Principal     string          `json:"principal"`
	AdminID       *string         `json:"admin_id"`
	Logo          *string         `json:"logo"`
	Settings      json.RawMessage `json:"settings"`
	Subscription  json.RawMessage `json:"subscription"`
	Status        *string         `json:"status"`
	TotalStudents *int            `json:"total_students"`
	TotalTeachers *int            `json:"total_teachers"`
	CreatedAt     *string         `json:"created_at"`
	UpdatedAt     *string         `json:"updated_at"`
}

type StudentRow struct {
	ID             string          `json:"id"`
	Code           string          `json:"code"`
	StudentCode    string          `json:"student_code"`
	Name           string          `json:"name"`
	Photo          *string         `json:"photo"`
	Grade          string          `json:"grade"`
	Section        *string         `json:"section"`
	CourseCode     *string         `json:"course_code"`
	SchoolID       string          `json:"school_id"`
	SchoolCode     string          `json:"school_code"`
	DateOfBirth    *string         `json:"date_of_birth"`
	EnrollmentDate *string         `json:"enrollment_date"`
	ParentCodes    []string        `json:"parent_codes"`
	ParentIDs      []string        `json:"parent_ids"`
	ParentContacts json.RawMessage `json:"parent_contacts"`
	FaceID         *string         `json:"face_id"`
	Status         *string         `json:"status"`
	Stats          json.RawMessage `json:"stats"`
	Alerts         json.RawMessage `json:"alerts"`
	Achievements   json.RawMessage `json:"achievements"`
	Notes          json.RawMessage `json:"notes"`
	CreatedAt      *string         `json:"created_at"`
	UpdatedAt      *string         `json:"updated_at"`
}

type TeacherRow struct {
	ID             string          `json:"id"`
	Code           string          `json:"code"`
	UID            *string         `json:"uid"`
	Name           string          `json:"name"`
	Email          *string         `json:"email"`
	Phone          *string         `json:"phone"`
	Avatar         *string         `json:"avatar"`
	Address        *string         `json:"address"`
	DateOfBirth    *string         `json:"date_of_birth"`
	HireDate       *string         `json:"hire_date"`
	SchoolID       string          `json:"school_id"`
	SchoolCode     string          `json:"school_code"`
	Courses        []string        `json:"courses"`
	Specialization []string        `json:"specialization"`
	Status         *string         `json:"status"`
	Stats          json.RawMessage `json:"stats"`
	Permissions    json.RawMessage `json:"permissions"`
	CreatedAt      *string         `json:"created_at"`
	UpdatedAt      *string         `json:"updated_at"`
}

type UserRow struct {
	ID                  string          `json:"id"`
	Email               *string         `json:"email"`
	Name                *string         `json:"name"`
	PhotoURL            *string         `json:"photo_url"`
	Role                string          `json:"role"`
	Roles               []string        `json:"roles"`
	ActiveRole          *string         `json:"active_role"`
	SchoolID            *string         `json:"school_id"`
	Children            []string        `json:"children"`
	Classrooms          []string        `json:"classrooms"`
	OnboardingCompleted *bool           `json:"onboarding_completed"`
	PlanID              *string         `json:"plan_id"`
	PlanSelectedAt      *string         `json:"plan_selected_at"`
	SubscriptionStatus  *string         `json:"subscription_status"`
	Metadata            json.RawMessage `json:"metadata"`
	LastSeen            *string         `json:"last_seen"`
	CreatedAt           *string         `json:"created_at"`
	UpdatedAt           *string         `json:"updated_at"`
}

// TeacherCourseSummary is one row of the get_courses_by_teacher procedure.
type TeacherCourseSummary struct {
	ID            string `json:"id"`
	Code          string `json:"code"`
	Name          string `json:"name"`
	Grade         string `json:"grade"`
	Section       string `json:"section"`
	SchoolID      string `json:"school_id"`
	TotalStudents int    `json:"total_students"`
}
