package domain

import "time"

type Notification struct {
	ID             string               `json:"id"`
	UserID         string               `json:"userId,omitempty"`
	Title          string               `json:"title"`
	Message        string               `json:"message"`
	Type           NotificationType     `json:"type,omitempty"`
	Priority       NotificationPriority `json:"priority,omitempty"`
	ActionURL      string               `json:"actionUrl,omitempty"`
	Data           map[string]any       `json:"data,omitempty"`
	Read           bool                 `json:"read"`
	ReadAt         *time.Time           `json:"readAt,omitempty"`
	Delivered      bool                 `json:"delivered"`
	DeliveryMethod []DeliveryMethod     `json:"deliveryMethod"`
	ExpiresAt      *time.Time           `json:"expiresAt,omitempty"`
	CreatedAt      time.Time            `json:"createdAt"`
}

// HasDelivery reports whether the notification is routed through m.
func (n Notification) HasDelivery(m DeliveryMethod) bool {
	for _, dm := range n.DeliveryMethod {
		if dm == m {
			return true
		}
	}
	return false
}

type DeviceToken struct {
	ID         string     `json:"id"`
	UserID     string     `json:"userId"`
	Token      string     `json:"token"`
	Platform   Platform   `json:"platform,omitempty"`
	DeviceID   string     `json:"deviceId,omitempty"`
	DeviceName string     `json:"deviceName,omitempty"`
	IsActive   bool       `json:"isActive"`
	LastUsedAt *time.Time `json:"lastUsedAt,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

type CreateNotificationInput struct {
	UserID         string
	Title          string
	Message        string
	Type           NotificationType
	Priority       NotificationPriority
	ActionURL      string
	Data           map[string]any
	DeliveryMethod []DeliveryMethod
	ExpiresAt      string
}

type DeviceInfo struct {
	DeviceID   string
	DeviceName string
}
