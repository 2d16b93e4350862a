package config

import (
	"errors"
	"time"

	"github.com/sony/gobreaker"

	"github.com/asistoya/shared-services/internal/core/apperr"
	"github.com/asistoya/shared-services/internal/logger"
)

// NewCircuitBreaker creates a circuit breaker with standard settings.
// The name parameter uniquely identifies the circuit breaker instance.
func NewCircuitBreaker(name string) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(settings(name))
}

// NewStoreBreaker is NewCircuitBreaker for the SQL store. Errors reported by
// the server itself (constraint violations, missing rows in an RPC) count as
// successes: the connection is fine, only the request was rejected.
func NewStoreBreaker(name string) *gobreaker.CircuitBreaker {
	s := settings(name)
	s.IsSuccessful = func(err error) bool {
		var storeErr *apperr.StoreError
		return err == nil || errors.As(err, &storeErr)
	}
	return gobreaker.NewCircuitBreaker(s)
}

func settings(name string) gobreaker.Settings {
	var timeout time.Duration

	switch name {
	case "Redis-Session":
		timeout = time.Second * 5
	case "PostgreSQL", "Relay-PostgreSQL":
		timeout = time.Second * 10 // Database operations need slightly more time
	default:
		timeout = time.Second * 30 // RabbitMQ and other operations
	}

	return gobreaker.Settings{
		Name:        name,
		MaxRequests: 3,
		Interval:    time.Second * 10,
		Timeout:     timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			// Open circuit after 3 consecutive failures
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("CircuitBreaker", "state changed", "breaker", name, "from", from.String(), "to", to.String())
		},
	}
}
