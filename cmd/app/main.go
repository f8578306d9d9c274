package main

import (
	"context"
	"fmt"
	"log"
	"os"

	authservice "user-auth/internal/auth-service"
	"user-auth/internal/config"
	"user-auth/internal/mylogger"
)

const usage = `usage: app <command>

commands:
  auth-service   run the HTTP API
  migrate        apply database migrations and exit`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(1)
	}

	cfg, err := config.New()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger, err := mylogger.New(cfg.Log.Level)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	ctx := context.Background()

	switch os.Args[1] {
	case "auth-service":
		appLogger.Action("auth_service_started").Info("Auth service starting up")
		err = authservice.Execute(ctx, appLogger.With("service", "auth-service"), cfg)
	case "migrate":
		err = authservice.Migrate(ctx, appLogger, cfg)
	default:
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(1)
	}

	if err != nil {
		appLogger.Error("command failed", err, "command", os.Args[1])
		os.Exit(1)
	}
}
