// Command asistoya is an operator CLI over the shared services: sign in,
// mark attendance, read summaries and watch a course live.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/asistoya/shared-services/internal/adapters/sessionstore"
	"github.com/asistoya/shared-services/internal/client"
	"github.com/asistoya/shared-services/internal/config"
	"github.com/asistoya/shared-services/internal/core/domain"
	"github.com/asistoya/shared-services/internal/core/ports"
	"github.com/asistoya/shared-services/internal/logger"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cfg := config.Load()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var storage ports.SessionStorage
	if cfg.RedisAddress != "" {
		storage = sessionstore.NewRedis(sessionstore.NewRedisClient(cfg.RedisAddress, cfg.RedisPassword), cfg.SessionTTL)
	} else {
		logger.Debug("asistoya", "REDIS_ADDRESS unset, session lasts for this invocation only")
	}

	var h client.Handle
	c, err := h.Init(ctx, client.Config{
		URL: cfg.DatabaseURL,
		Key: cfg.APIKey,
		Options: client.Options{
			PersistSession:     &cfg.PersistSession,
			AutoRefreshToken:   &cfg.AutoRefreshToken,
			DetectSessionInURL: &cfg.DetectSessionInURL,
			Storage:            storage,
			SessionTTL:         cfg.SessionTTL,
		},
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "asistoya:", err)
		os.Exit(1)
	}

	a := &app{svc: c.Services(), clock: domain.SystemClock{}, out: os.Stdout, errOut: os.Stderr}
	err = a.run(ctx, os.Args[1:])
	h.Reset()
	if err != nil {
		fmt.Fprintln(os.Stderr, "asistoya:", err)
		os.Exit(1)
	}
}
