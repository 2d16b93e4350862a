package mapper

import (
	"time"

	"github.com/asistoya/shared-services/internal/core/domain"
)

func NotificationFromRow(row domain.NotificationRow, now time.Time) domain.Notification {
	methods := make([]domain.DeliveryMethod, 0, len(row.DeliveryMethod))
	for _, m := range row.DeliveryMethod {
		methods = append(methods, domain.DeliveryMethod(m))
	}
	return domain.Notification{
		ID:             row.ID,
		UserID:         str(row.UserID),
		Title:          row.Title,
		Message:        row.Message,
		Type:           domain.NotificationType(str(row.Type)),
		Priority:       domain.NotificationPriority(str(row.Priority)),
		ActionURL:      str(row.ActionURL),
		Data:           decodeMap(row.Data),
		Read:           row.Read != nil && *row.Read,
		ReadAt:         optTime(row.ReadAt),
		Delivered:      row.Delivered != nil && *row.Delivered,
		DeliveryMethod: methods,
		ExpiresAt:      optTime(row.ExpiresAt),
		CreatedAt:      timeOr(row.CreatedAt, now),
	}
}

func DeviceTokenFromRow(row domain.DeviceTokenRow, now time.Time) domain.DeviceToken {
	return domain.DeviceToken{
		ID:         row.ID,
		UserID:     row.UserID,
		Token:      row.Token,
		Platform:   domain.Platform(str(row.Platform)),
		DeviceID:   str(row.DeviceID),
		DeviceName: str(row.DeviceName),
		IsActive:   row.IsActive != nil && *row.IsActive,
		LastUsedAt: optTime(row.LastUsedAt),
		CreatedAt:  timeOr(row.CreatedAt, now),
		UpdatedAt:  timeOr(row.UpdatedAt, now),
	}
}

// NewNotificationRow builds the insert row with type system, priority normal
// and in-app delivery unless given.
func NewNotificationRow(in domain.CreateNotificationInput) domain.Patch {
	methods := []string{string(domain.DeliveryInApp)}
	if len(in.DeliveryMethod) > 0 {
		methods = make([]string, 0, len(in.DeliveryMethod))
		for _, m := range in.DeliveryMethod {
			methods = append(methods, string(m))
		}
	}
	var data any
	if in.Data != nil {
		data = in.Data
	}
	return domain.Patch{
		"user_id":         in.UserID,
		"title":           in.Title,
		"message":         in.Message,
		"type":            string(orDefault(in.Type, domain.NotificationSystem)),
		"priority":        string(orDefault(in.Priority, domain.PriorityNormal)),
		"action_url":      orNull(in.ActionURL),
		"data":            data,
		"delivery_method": methods,
		"expires_at":      orNull(in.ExpiresAt),
		"read":            false,
		"delivered":       false,
	}
}

// DeviceTokenPatch moves an existing token to userID and reactivates it.
func DeviceTokenPatch(userID string, platform domain.Platform, info domain.DeviceInfo, now time.Time) domain.Patch {
	return domain.Patch{
		"user_id":      userID,
		"platform":     string(platform),
		"device_id":    orNull(info.DeviceID),
		"device_name":  orNull(info.DeviceName),
		"is_active":    true,
		"last_used_at": now.UTC().Format(time.RFC3339Nano),
	}
}

func NewDeviceTokenRow(userID, token string, platform domain.Platform, info domain.DeviceInfo) domain.Patch {
	return domain.Patch{
		"user_id":     userID,
		"token":       token,
		"platform":    string(platform),
		"device_id":   orNull(info.DeviceID),
		"device_name": orNull(info.DeviceName),
		"is_active":   true,
	}
}
