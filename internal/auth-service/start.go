package authservice

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"user-auth/internal/auth-service/adapters/driven/db"
	"user-auth/internal/auth-service/adapters/driver/myhttp"
	"user-auth/internal/config"
	"user-auth/internal/mylogger"
)

func Execute(ctx context.Context, mylog mylogger.Logger, cfg *config.Config) error {
	newCtx, close := signal.NotifyContext(ctx, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM)
	defer close()

	server := myhttp.NewServer(newCtx, ctx, mylog, cfg)

	// Run server in goroutine
	runErrCh := make(chan error, 1)
	go func() {
		runErrCh <- server.Run()
	}()

	// Wait for signal or server crash
	select {
	case <-newCtx.Done():
		mylog.Info("Shutdown signal received")
		return server.Stop(context.Background())
	case err := <-runErrCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			mylog.Error("Server failed unexpectedly", err)
			_ = server.Stop(context.Background())
			return err
		}
		mylog.Info("Server exited normally")
		return nil
	}
}

// Migrate applies the schema and exits.
func Migrate(ctx context.Context, mylog mylogger.Logger, cfg *config.Config) error {
	mylog = mylog.Action("migrate")

	database, err := db.Start(ctx, cfg.DB, mylog)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()

	if err := db.RunMigrations(ctx, database); err != nil {
		return err
	}
	mylog.Info("migrations applied", "driver", cfg.DB.Driver)
	return nil
}
