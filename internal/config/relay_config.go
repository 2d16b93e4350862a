package config

import "os"

// RelayConfig holds configuration for the push relay.
// This is a minimal config that only includes what the relay needs.
type RelayConfig struct {
	DatabaseURL   string
	RabbitMQURL   string
	PushQueueName string
	MailQueueName string
}

func LoadRelayConfig() *RelayConfig {
	dbURL := LoadDatabaseURL()

	rabbitURL := os.Getenv("RABBITMQ_URL")
	if rabbitURL == "" {
		panic("RABBITMQ_URL environment variable is required")
	}

	return &RelayConfig{
		DatabaseURL:   dbURL,
		RabbitMQURL:   rabbitURL,
		PushQueueName: envOr("PUSH_QUEUE_NAME", "push_notifications"),
		MailQueueName: envOr("MAIL_QUEUE_NAME", "auth_emails"),
	}
}
