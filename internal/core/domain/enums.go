package domain

type AttendanceStatus string

const (
	StatusPresent AttendanceStatus = "present"
	StatusLate    AttendanceStatus = "late"
	StatusAbsent  AttendanceStatus = "absent"
	StatusExcused AttendanceStatus = "excused"
)

func (s AttendanceStatus) Valid() bool {
	switch s {
	case StatusPresent, StatusLate, StatusAbsent, StatusExcused:
		return true
	}
	return false
}

type AttendanceMethod string

const (
	MethodManual          AttendanceMethod = "manual"
	MethodFaceRecognition AttendanceMethod = "face_recognition"
	MethodQRCode          AttendanceMethod = "qr_code"
	MethodAuto            AttendanceMethod = "auto"
)

func (m AttendanceMethod) Valid() bool {
	switch m {
	case MethodManual, MethodFaceRecognition, MethodQRCode, MethodAuto:
		return true
	}
	return false
}

type StudentStatus string

const (
	StudentActive      StudentStatus = "active"
	StudentInactive    StudentStatus = "inactive"
	StudentTransferred StudentStatus = "transferred"
	StudentGraduated   StudentStatus = "graduated"
	StudentWithdrawn   StudentStatus = "withdrawn"
	StudentOnLeave     StudentStatus = "on_leave"
)

func (s StudentStatus) Valid() bool {
	switch s {
	case StudentActive, StudentInactive, StudentTransferred, StudentGraduated, StudentWithdrawn, StudentOnLeave:
		return true
	}
	return false
}

type TeacherStatus string

const (
	TeacherActive   TeacherStatus = "active"
	TeacherInactive TeacherStatus = "inactive"
	TeacherOnLeave  TeacherStatus = "on_leave"
)

func (s TeacherStatus) Valid() bool {
	switch s {
	case TeacherActive, TeacherInactive, TeacherOnLeave:
		return true
	}
	return false
}

type CourseStatus string

const (
	CourseActive   CourseStatus = "active"
	CourseInactive CourseStatus = "inactive"
	CourseArchived CourseStatus = "archived"
)

func (s CourseStatus) Valid() bool {
	switch s {
	case CourseActive, CourseInactive, CourseArchived:
		return true
	}
	return false
}

type NotificationType string

const (
	NotificationAttendance   NotificationType = "attendance"
	NotificationAlert        NotificationType = "alert"
	NotificationAnnouncement NotificationType = "announcement"
	NotificationReminder     NotificationType = "reminder"
	NotificationSystem       NotificationType = "system"
	NotificationArrival      NotificationType = "arrival"
	NotificationDeparture    NotificationType = "departure"
	NotificationAbsence      NotificationType = "absence"
)

func (t NotificationType) Valid() bool {
	switch t {
	case NotificationAttendance, NotificationAlert, NotificationAnnouncement, NotificationReminder,
		NotificationSystem, NotificationArrival, NotificationDeparture, NotificationAbsence:
		return true
	}
	return false
}

type NotificationPriority string

const (
	PriorityLow    NotificationPriority = "low"
	PriorityNormal NotificationPriority = "normal"
	PriorityHigh   NotificationPriority = "high"
	PriorityUrgent NotificationPriority = "urgent"
)

func (p NotificationPriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityNormal, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

type DeliveryMethod string

const (
	DeliveryPush  DeliveryMethod = "push"
	DeliveryEmail DeliveryMethod = "email"
	DeliverySMS   DeliveryMethod = "sms"
	DeliveryInApp DeliveryMethod = "in_app"
)

func (d DeliveryMethod) Valid() bool {
	switch d {
	case DeliveryPush, DeliveryEmail, DeliverySMS, DeliveryInApp:
		return true
	}
	return false
}

type Platform string

const (
	PlatformIOS     Platform = "ios"
	PlatformAndroid Platform = "android"
	PlatformWeb     Platform = "web"
)

func (p Platform) Valid() bool {
	switch p {
	case PlatformIOS, PlatformAndroid, PlatformWeb:
		return true
	}
	return false
}

type Role string

const (
	RoleAdmin   Role = "admin"
	RoleTeacher Role = "teacher"
	RoleParent  Role = "parent"
	RoleStudent Role = "student"
	RoleCEO     Role = "ceo"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleTeacher, RoleParent, RoleStudent, RoleCEO:
		return true
	}
	return false
}
