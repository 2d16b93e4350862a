package validation

type CreateSchoolRequest struct {
	Code     string `json:"code" validate:"required,min=2,max=20"`
	Name     string `json:"name" validate:"required,max=200"`
	Address  string `json:"address,omitempty" validate:"max=500"`
	Phone    string `json:"phone,omitempty" validate:"omitempty,phone"`
	Email    string `json:"email,omitempty" validate:"omitempty,email"`
	Director string `json:"director,omitempty"`
	Logo     string `json:"logo,omitempty" validate:"omitempty,url"`
	Timezone string `json:"timezone,omitempty"`
}

type UpdateSchoolRequest struct {
	Name     *string `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Address  *string `json:"address,omitempty" validate:"omitempty,max=500"`
	Phone    *string `json:"phone,omitempty" validate:"omitempty,phone"`
	Email    *string `json:"email,omitempty" validate:"omitempty,email"`
	Director *string `json:"director,omitempty"`
	Logo     *string `json:"logo,omitempty" validate:"omitempty,url"`
	Timezone *string `json:"timezone,omitempty"`
}

type SchoolSettings struct {
	TimeFormat           string `json:"timeFormat,omitempty" validate:"omitempty,oneof=12h 24h"`
	DateFormat           string `json:"dateFormat,omitempty"`
	LateThresholdMinutes *int   `json:"lateThresholdMinutes,omitempty" validate:"omitempty,gte=1,lte=60"`
	StartTime            string `json:"startTime,omitempty" validate:"omitempty,hhmm"`
	EndTime              string `json:"endTime,omitempty" validate:"omitempty,hhmm"`
	NotifyParents        *bool  `json:"notifyParents,omitempty"`
}

type SchoolInvitationRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Role     string `json:"role" validate:"required,oneof=teacher admin"`
	SchoolID string `json:"schoolId" validate:"required,uuid"`
	Message  string `json:"message,omitempty" validate:"max=500"`
}
