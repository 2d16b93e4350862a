package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseURL        string
	APIKey             string
	RedisAddress       string
	RedisPassword      string
	RabbitMQURL        string
	PushQueueName      string
	MailQueueName      string
	PersistSession     bool
	AutoRefreshToken   bool
	DetectSessionInURL bool
	SessionTTL         time.Duration
}

// Load reads the configuration from the environment, after loading a .env
// file from the working directory when one exists. Values already present in
// the environment win over the file.
func Load() *Config {
	dbURL := LoadDatabaseURL()

	apiKey := os.Getenv("API_KEY")
	if apiKey == "" {
		panic("API_KEY environment variable is required")
	}

	return &Config{
		DatabaseURL:        dbURL,
		APIKey:             apiKey,
		RedisAddress:       os.Getenv("REDIS_ADDRESS"),
		RedisPassword:      os.Getenv("REDIS_PASSWORD"),
		RabbitMQURL:        os.Getenv("RABBITMQ_URL"),
		PushQueueName:      envOr("PUSH_QUEUE_NAME", "push_notifications"),
		MailQueueName:      envOr("MAIL_QUEUE_NAME", "auth_emails"),
		PersistSession:     boolEnv("PERSIST_SESSION", true),
		AutoRefreshToken:   boolEnv("AUTO_REFRESH_TOKEN", true),
		DetectSessionInURL: boolEnv("DETECT_SESSION_IN_URL", true),
		SessionTTL:         durationEnv("SESSION_TTL", time.Hour),
	}
}

// LoadDatabaseURL loads .env when present and returns DB_CONNECTION_STRING.
// It panics when the variable is unset.
func LoadDatabaseURL() string {
	_ = godotenv.Load()

	dbURL := os.Getenv("DB_CONNECTION_STRING")
	if dbURL == "" {
		panic("DB_CONNECTION_STRING environment variable is required")
	}
	return dbURL
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func boolEnv(key string, fallback bool) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func durationEnv(key string, fallback time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(key))
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}
