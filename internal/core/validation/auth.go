package validation

import "github.com/asistoya/shared-services/internal/core/domain"

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (r LoginRequest) SignIn() domain.SignInData {
	return domain.SignInData{Email: r.Email, Password: r.Password}
}

type RegisterRequest struct {
	Email    string      `json:"email" validate:"required,email"`
	Password string      `json:"password" validate:"required,min=8,max=100,password"`
	Name     string      `json:"name" validate:"required,max=100"`
	Role     domain.Role `json:"role" validate:"oneof=admin teacher parent student ceo"`
	SchoolID string      `json:"schoolId,omitempty" validate:"omitempty,uuid"`
}

func (r *RegisterRequest) ApplyDefaults() {
	if r.Role == "" {
		r.Role = domain.RoleParent
	}
}

func (r RegisterRequest) SignUp() domain.SignUpData {
	return domain.SignUpData{
		Email:    r.Email,
		Password: r.Password,
		Name:     r.Name,
		Role:     r.Role,
		SchoolID: r.SchoolID,
	}
}

type ResetPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=8,max=100,password"`
}

type ConfirmPasswordResetRequest struct {
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required,min=8,max=100,password"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

type SwitchRoleRequest struct {
	Role domain.Role `json:"role" validate:"required,oneof=admin teacher parent student ceo"`
}

type ProfileMetadata struct {
	Theme         string                       `json:"theme,omitempty" validate:"omitempty,oneof=light dark system"`
	Language      string                       `json:"language,omitempty"`
	Timezone      string                       `json:"timezone,omitempty"`
	Notifications *domain.NotificationChannels `json:"notifications,omitempty"`
}

type UpdateProfileRequest struct {
	Name     *string          `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Phone    *string          `json:"phone,omitempty"`
	PhotoURL *string          `json:"photoUrl,omitempty" validate:"omitempty,url"`
	Metadata *ProfileMetadata `json:"metadata,omitempty"`
}

// Update converts the request into a profile update. The users table has no
// phone column, so Phone is not carried over.
func (r UpdateProfileRequest) Update() domain.UserUpdate {
	u := domain.UserUpdate{Name: r.Name, PhotoURL: r.PhotoURL}
	if r.Metadata != nil {
		md := domain.UserMetadata{
			Theme:    r.Metadata.Theme,
			Language: r.Metadata.Language,
			Timezone: r.Metadata.Timezone,
		}
		if r.Metadata.Notifications != nil {
			md.Notifications = *r.Metadata.Notifications
		}
		u.Metadata = &md
	}
	return u
}
