package myhttp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"user-auth/internal/auth-service/adapters/driven/bm"
	"user-auth/internal/auth-service/adapters/driven/db"
	"user-auth/internal/auth-service/adapters/driven/notification"
	"user-auth/internal/auth-service/adapters/driver/myhttp/handle"
	"user-auth/internal/auth-service/adapters/driver/myhttp/middleware"
	"user-auth/internal/auth-service/adapters/driver/myhttp/ws"
	"user-auth/internal/auth-service/core/ports/driven"
	"user-auth/internal/auth-service/core/service"
	"user-auth/internal/config"
	"user-auth/internal/mylogger"
)

var ErrServerClosed = errors.New("Server closed")

const WaitTime = handle.WaitTime

type Server struct {
	mux        *http.ServeMux
	handler    http.Handler
	cfg        *config.Config
	srv        *http.Server
	mylog      mylogger.Logger
	db         driven.IDB
	mb         driven.IUserBroker
	dispatcher *ws.Dispatcher
	events     *notification.Notification
	ctx        context.Context
	appCtx     context.Context
	mu         sync.Mutex
}

func NewServer(ctx, appCtx context.Context, mylog mylogger.Logger, cfg *config.Config) *Server {
	s := &Server{
		ctx:    ctx,
		appCtx: appCtx,
		cfg:    cfg,
		mylog:  mylog,
		mux:    http.NewServeMux(),
	}

	return s
}

// Run initializes routes and starts listening. It returns when the server stops.
func (s *Server) Run() error {
	mylog := s.mylog.Action("server_started")

	// Initialize database connection
	database, err := db.Start(s.ctx, s.cfg.DB, mylog)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	s.db = database
	mylog.Info("Successful database connection")

	if err := db.RunMigrations(s.ctx, s.db); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	mylog.Info("Database schema is up to date")

	// Initialize RabbitMQ connection
	if s.cfg.RabbitMq.Enabled {
		mb, err := bm.New(s.appCtx, *s.cfg.RabbitMq, s.mylog)
		if err != nil {
			return fmt.Errorf("failed to connect to rabbitmq: %w", err)
		}
		s.mb = mb
		mylog.Info("Successful message broker connection")
	}

	// Configure routes and handlers
	s.Configure()

	s.mu.Lock()
	s.srv = &http.Server{
		Addr:              fmt.Sprintf(":%v", s.cfg.Srv.AuthServicePort),
		Handler:           s.handler,
		ReadHeaderTimeout: WaitTime * time.Second,
	}
	s.mu.Unlock()

	mylog = mylog.WithGroup("details").With("port", s.cfg.Srv.AuthServicePort)

	mylog.Info("server is running")
	return s.startHTTPServer()
}

// Stop provides a programmatic shutdown. Accepts a context for timeout control.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.mylog.Info("Shutting down HTTP server...")

	var errs []error
	if s.srv != nil {
		shutdownCtx, cancel := context.WithTimeout(ctx, WaitTime*time.Second)
		defer cancel()

		if err := s.srv.Shutdown(shutdownCtx); err != nil {
			s.mylog.Error("Failed to shut down HTTP server gracefully", err)
			errs = append(errs, fmt.Errorf("http server shutdown: %w", err))
		}
	}

	// Drain queued events while the sinks are still open
	if s.events != nil {
		s.events.Close()
	}
	if s.dispatcher != nil {
		s.dispatcher.Close()
	}

	if s.mb != nil {
		if err := s.mb.Close(); err != nil {
			s.mylog.Error("Failed to close message broker", err)
			errs = append(errs, fmt.Errorf("broker close: %w", err))
		}
	}

	if s.db != nil {
		if err := s.db.Close(); err != nil {
			s.mylog.Error("Failed to close database", err)
			errs = append(errs, fmt.Errorf("db close: %w", err))
		} else {
			s.mylog.Info("Database closed")
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	s.mylog.Info("HTTP server shut down gracefully")
	return nil
}

func (s *Server) startHTTPServer() error {
	errCh := make(chan error, 1)

	go func() {
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		} else {
			errCh <- nil
		}
	}()

	select {
	case <-s.ctx.Done():
		return nil
	case err := <-errCh:
		return err
	}
}

// Configure wires repositories, services and handlers, and registers the routes.
func (s *Server) Configure() {
	// Repositories
	userRepo := db.NewUserRepo(s.db)

	// Event sinks
	s.dispatcher = ws.NewDispatcher(s.appCtx, s.mylog)
	sinks := []driven.IUserEventPublisher{s.dispatcher}
	if s.mb != nil {
		sinks = append(sinks, bm.NewPublisher(s.mb, s.cfg.RabbitMq.Exchange))
	}
	s.events = notification.New(s.mylog, sinks...)

	// services
	authService := service.NewAuthService(s.cfg, userRepo, s.events, s.mylog)
	userService := service.NewUserService(userRepo, s.events, s.mylog)

	// handlers
	authHandler := handle.NewAuthHandler(authService, s.mylog)
	userHandler := handle.NewUserHandler(userService, s.mylog)
	systemHandler := handle.NewSystemHandler(s.db, s.mb, s.mylog)

	admin := middleware.NewAuthMiddleware(authService, s.cfg.App.AdminAuthRequired)

	// Register routes
	s.mux.Handle("GET /{$}", systemHandler.Root())
	s.mux.Handle("GET /healthz", systemHandler.Health())

	s.mux.Handle("POST /signup/{$}", authHandler.Signup())
	s.mux.Handle("POST /login/{$}", authHandler.Login())
	s.mux.Handle("POST /token/refresh/{$}", authHandler.Refresh())

	s.mux.Handle("GET /users/{$}", admin.Wrap(userHandler.List()))
	s.mux.Handle("DELETE /delete-user/{user_id}/{$}", admin.Wrap(userHandler.Delete()))
	s.mux.Handle("POST /block/{$}", admin.Wrap(userHandler.Block()))
	s.mux.Handle("POST /unblock/{$}", admin.Wrap(userHandler.Unblock()))
	s.mux.Handle("GET /blocked-users/{$}", admin.Wrap(userHandler.ListBlocked()))

	// websocket routes
	s.mux.Handle("GET /ws/admin/users/{$}", admin.Wrap(s.dispatcher.WsHandler()))

	s.handler = middleware.Logging(s.mylog)(middleware.Recover(s.mylog)(s.mux))
}
