package main

import (
	"context"
	"flag"
	"os"
	"strings"
	"time"

	"github.com/asistoya/shared-services/internal/adapters/postgres"
	"github.com/asistoya/shared-services/internal/adapters/realtime"
	"github.com/asistoya/shared-services/internal/config"
	"github.com/asistoya/shared-services/internal/logger"
)

const tag = "migrate"

func main() {
	tables := flag.String("tables", strings.Join(realtime.DefaultTables, ","), "comma separated tables to attach change triggers to")
	timeout := flag.Duration("timeout", 30*time.Second, "migration timeout")
	flag.Parse()

	db, err := postgres.Open(config.LoadDatabaseURL())
	if err != nil {
		logger.Error(tag, "failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	list := splitTables(*tables)
	if err := realtime.InstallTriggers(ctx, db, list...); err != nil {
		logger.Error(tag, "installing triggers failed", "error", err)
		os.Exit(1)
	}
	logger.Success(tag, "change triggers installed", "tables", list, "channel", realtime.ChannelName)
}

func splitTables(s string) []string {
	var out []string
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}
