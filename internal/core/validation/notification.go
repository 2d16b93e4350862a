package validation

import "github.com/asistoya/shared-services/internal/core/domain"

type CreateNotificationRequest struct {
	UserID         string                      `json:"userId" validate:"required,uuid"`
	Title          string                      `json:"title" validate:"required,max=100"`
	Message        string                      `json:"message" validate:"required,max=500"`
	Type           domain.NotificationType     `json:"type" validate:"oneof=attendance alert announcement reminder system arrival departure absence"`
	Priority       domain.NotificationPriority `json:"priority" validate:"oneof=low normal high urgent"`
	ActionURL      string                      `json:"actionUrl,omitempty" validate:"omitempty,url"`
	Data           map[string]any              `json:"data,omitempty"`
	DeliveryMethod []domain.DeliveryMethod     `json:"deliveryMethod,omitempty" validate:"omitempty,dive,oneof=push email sms in_app"`
	ExpiresAt      string                      `json:"expiresAt,omitempty" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
}

func (r *CreateNotificationRequest) ApplyDefaults() {
	if r.Type == "" {
		r.Type = domain.NotificationSystem
	}
	if r.Priority == "" {
		r.Priority = domain.PriorityNormal
	}
}

func (r CreateNotificationRequest) Input() domain.CreateNotificationInput {
	return domain.CreateNotificationInput{
		UserID:         r.UserID,
		Title:          r.Title,
		Message:        r.Message,
		Type:           r.Type,
		Priority:       r.Priority,
		ActionURL:      r.ActionURL,
		Data:           r.Data,
		DeliveryMethod: r.DeliveryMethod,
		ExpiresAt:      r.ExpiresAt,
	}
}

type SendPushRequest struct {
	UserID string            `json:"userId" validate:"required,uuid"`
	Title  string            `json:"title" validate:"required,max=100"`
	Body   string            `json:"body" validate:"required,max=500"`
	Data   map[string]string `json:"data,omitempty"`
	Badge  *int              `json:"badge,omitempty" validate:"omitempty,gte=0"`
	Sound  string            `json:"sound,omitempty"`
}

type SendBulkPushRequest struct {
	UserIDs []string          `json:"userIds" validate:"required,min=1,dive,uuid"`
	Title   string            `json:"title" validate:"required,max=100"`
	Body    string            `json:"body" validate:"required,max=500"`
	Data    map[string]string `json:"data,omitempty"`
}

type RegisterDeviceTokenRequest struct {
	Token      string          `json:"token" validate:"required"`
	Platform   domain.Platform `json:"platform" validate:"required,oneof=ios android web"`
	DeviceID   string          `json:"deviceId,omitempty"`
	DeviceName string          `json:"deviceName,omitempty"`
}

func (r RegisterDeviceTokenRequest) Info() domain.DeviceInfo {
	return domain.DeviceInfo{DeviceID: r.DeviceID, DeviceName: r.DeviceName}
}

type MarkNotificationReadRequest struct {
	NotificationID string `json:"notificationId" validate:"required,uuid"`
}

type MarkAllNotificationsReadRequest struct {
	UserID string `json:"userId" validate:"required,uuid"`
}
