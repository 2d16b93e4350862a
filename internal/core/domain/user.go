package domain

import "time"

type NotificationChannels struct {
	Email bool `json:"email"`
	Push  bool `json:"push"`
	SMS   bool `json:"sms"`
}

type UserMetadata struct {
	Theme         string               `json:"theme"`
	Language      string               `json:"language"`
	Timezone      string               `json:"timezone"`
	Notifications NotificationChannels `json:"notifications"`
}

// User is the profile row of the users table.
type User struct {
	ID                  string       `json:"id"`
	Email               string       `json:"email,omitempty"`
	Name                string       `json:"name,omitempty"`
	PhotoURL            string       `json:"photoUrl,omitempty"`
	Role                Role         `json:"role"`
	Roles               []Role       `json:"roles"`
	ActiveRole          Role         `json:"activeRole,omitempty"`
	SchoolID            string       `json:"schoolId,omitempty"`
	Children            []string     `json:"children"`
	Classrooms          []string     `json:"classrooms"`
	OnboardingCompleted bool         `json:"onboardingCompleted"`
	PlanID              string       `json:"planId,omitempty"`
	PlanSelectedAt      *time.Time   `json:"planSelectedAt,omitempty"`
	SubscriptionStatus  string       `json:"subscriptionStatus,omitempty"`
	Metadata            UserMetadata `json:"metadata"`
	LastSeen            *time.Time   `json:"lastSeen,omitempty"`
	CreatedAt           time.Time    `json:"createdAt"`
	UpdatedAt           time.Time    `json:"updatedAt"`
}

type UserUpdate struct {
	Email               *string
	Name                *string
	PhotoURL            *string
	Role                *Role
	Roles               []Role
	ActiveRole          *Role
	SchoolID            *string
	Children            []string
	Classrooms          []string
	OnboardingCompleted *bool
	PlanID              *string
	SubscriptionStatus  *string
	Metadata            *UserMetadata
}

// AuthUser is the identity held by the auth provider, distinct from the
// profile row.
type AuthUser struct {
	ID               string         `json:"id"`
	Email            string         `json:"email,omitempty"`
	EmailConfirmedAt *time.Time     `json:"emailConfirmedAt,omitempty"`
	LastSignInAt     *time.Time     `json:"lastSignInAt,omitempty"`
	UserMetadata     map[string]any `json:"userMetadata,omitempty"`
	CreatedAt        time.Time      `json:"createdAt"`
}

type Session struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	TokenType    string    `json:"token_type"`
	ExpiresIn    int       `json:"expires_in"`
	ExpiresAt    time.Time `json:"expires_at"`
	User         AuthUser  `json:"user"`
}

// Expired reports whether the access token is no longer valid at now.
func (s Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

type AuthEvent string

const (
	EventSignedIn         AuthEvent = "SIGNED_IN"
	EventSignedOut        AuthEvent = "SIGNED_OUT"
	EventTokenRefreshed   AuthEvent = "TOKEN_REFRESHED"
	EventUserUpdated      AuthEvent = "USER_UPDATED"
	EventPasswordRecovery AuthEvent = "PASSWORD_RECOVERY"
)

type SignUpData struct {
	Email    string
	Password string
	Name     string
	Role     Role
	SchoolID string
}

type SignInData struct {
	Email    string
	Password string
}

// Ptr returns a pointer to v, for building partial updates.
func Ptr[T any](v T) *T {
	return &v
}
