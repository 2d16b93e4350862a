package mapper

import (
	"time"

	"github.com/asistoya/shared-services/internal/core/domain"
)

func UserFromRow(row domain.UserRow, now time.Time) domain.User {
	roles := make([]domain.Role, 0, len(row.Roles))
	for _, r := range row.Roles {
		roles = append(roles, domain.Role(r))
	}
	return domain.User{
		ID:                  row.ID,
		Email:               str(row.Email),
		Name:                str(row.Name),
		PhotoURL:            str(row.PhotoURL),
		Role:                domain.Role(row.Role),
		Roles:               roles,
		ActiveRole:          domain.Role(str(row.ActiveRole)),
		SchoolID:            str(row.SchoolID),
		Children:            strs(row.Children),
		Classrooms:          strs(row.Classrooms),
		OnboardingCompleted: row.OnboardingCompleted != nil && *row.OnboardingCompleted,
		PlanID:              str(row.PlanID),
		PlanSelectedAt:      optTime(row.PlanSelectedAt),
		SubscriptionStatus:  str(row.SubscriptionStatus),
		Metadata:            decodeObject[domain.UserMetadata](row.Metadata),
		LastSeen:            optTime(row.LastSeen),
		CreatedAt:           timeOr(row.CreatedAt, now),
		UpdatedAt:           timeOr(row.UpdatedAt, now),
	}
}

// NewUserRow builds the profile row written right after sign-up.
func NewUserRow(id string, data domain.SignUpData, role domain.Role, now time.Time) domain.Patch {
	return domain.Patch{
		"id":          id,
		"email":       data.Email,
		"name":        orNull(data.Name),
		"role":        string(role),
		"roles":       []string{string(role)},
		"active_role": string(role),
		"school_id":   orNull(data.SchoolID),
		"created_at":  now.UTC().Format(time.RFC3339Nano),
	}
}

func UserPatch(u domain.UserUpdate) domain.Patch {
	p := domain.Patch{}
	if u.Email != nil {
		p["email"] = *u.Email
	}
	if u.Name != nil {
		p["name"] = *u.Name
	}
	if u.PhotoURL != nil {
		p["photo_url"] = *u.PhotoURL
	}
	if u.Role != nil {
		p["role"] = string(*u.Role)
	}
	if u.Roles != nil {
		roles := make([]string, 0, len(u.Roles))
		for _, r := range u.Roles {
			roles = append(roles, string(r))
		}
		p["roles"] = roles
	}
	if u.ActiveRole != nil {
		p["active_role"] = string(*u.ActiveRole)
	}
	if u.SchoolID != nil {
		p["school_id"] = *u.SchoolID
	}
	if u.Children != nil {
		p["children"] = u.Children
	}
	if u.Classrooms != nil {
		p["classrooms"] = u.Classrooms
	}
	if u.OnboardingCompleted != nil {
		p["onboarding_completed"] = *u.OnboardingCompleted
	}
	if u.PlanID != nil {
		p["plan_id"] = *u.PlanID
	}
	if u.SubscriptionStatus != nil {
		p["subscription_status"] = *u.SubscriptionStatus
	}
	if u.Metadata != nil {
		p["metadata"] = *u.Metadata
	}
	return p
}
