package ports

import (
	"context"
	"time"
)

// PushMessage is one push delivery to one device.
type PushMessage struct {
	Token          string            `json:"token"`
	Platform       string            `json:"platform,omitempty"`
	UserID         string            `json:"user_id"`
	NotificationID string            `json:"notification_id"`
	Title          string            `json:"title"`
	Body           string            `json:"body"`
	Data           map[string]string `json:"data,omitempty"`
	Badge          *int              `json:"badge,omitempty"`
	Sound          string            `json:"sound,omitempty"`
}

// RecoveryEmail asks the mail worker to send a password reset link.
type RecoveryEmail struct {
	Email       string    `json:"email"`
	Token       string    `json:"token"`
	RedirectTo  string    `json:"redirect_to,omitempty"`
	RequestedAt time.Time `json:"requested_at"`
}

type PushPublisher interface {
	PublishPush(ctx context.Context, msg PushMessage) error
}

type MailPublisher interface {
	PublishRecoveryEmail(ctx context.Context, mail RecoveryEmail) error
}
