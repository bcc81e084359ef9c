// @title        Planify API
// @version      1.0
// @description  Organizations, events, meetings and notifications for small teams.
// @host         localhost:8080
// @BasePath     /api/v1
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"

	"github.com/PlanifyOrg/planify/docs"
	"github.com/PlanifyOrg/planify/internal/authz"
	"github.com/PlanifyOrg/planify/internal/config"
	"github.com/PlanifyOrg/planify/internal/database"
	"github.com/PlanifyOrg/planify/internal/database/migrate"
	"github.com/PlanifyOrg/planify/internal/event"
	"github.com/PlanifyOrg/planify/internal/id"
	"github.com/PlanifyOrg/planify/internal/joinrequest"
	"github.com/PlanifyOrg/planify/internal/meeting"
	"github.com/PlanifyOrg/planify/internal/notification"
	"github.com/PlanifyOrg/planify/internal/organization"
	"github.com/PlanifyOrg/planify/internal/user"
	"github.com/PlanifyOrg/planify/pkg/logger"
	"github.com/PlanifyOrg/planify/pkg/metrics"
	mw "github.com/PlanifyOrg/planify/pkg/middleware"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		// The logger is not configured yet.
		zap.NewExample().Fatal("failed to load config", zap.Error(err))
	}

	log, err := logger.New(cfg.LogLevel, cfg.IsProduction())
	if err != nil {
		zap.NewExample().Fatal("failed to build logger", zap.Error(err))
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Config, log *zap.Logger) error {
	if err := id.Init(cfg.NodeID); err != nil {
		return err
	}

	// Initialize database connection
	db, err := database.Open(ctx, cfg.DatabaseDriver, cfg.DatabaseURL, log)
	if err != nil {
		return err
	}
	defer db.Close()
	log.Info("connected to database", zap.String("driver", cfg.DatabaseDriver))

	if err := migrate.Migrate(ctx, db, log); err != nil {
		return err
	}

	// Notifications are pushed to redis only when it is configured
	var publisher notification.Publisher
	if cfg.RedisURL != "" {
		client, err := notification.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			return err
		}
		defer client.Close()
		publisher = notification.NewRedisPublisher(client)
		log.Info("publishing notifications to redis")
	}

	// Notification feature
	notificationRepo := notification.NewRepository(db)
	notifier := notification.NewDispatcher(notificationRepo, publisher, log)
	notificationHandler := notification.NewHandler(notification.NewService(notificationRepo))

	// User directory
	userHandler := user.NewHandler(user.NewService(user.NewRepository(db)))

	// Event directory
	eventService := event.NewService(db, event.NewRepository(db), notifier, log)
	eventHandler := event.NewHandler(eventService)

	// Organization membership
	orgRepo := organization.NewRepository(db)
	orgHandler := organization.NewHandler(organization.NewService(db, orgRepo, log))

	// Join requests
	joinService := joinrequest.NewService(db, joinrequest.NewRepository(db), orgRepo, log)
	joinHandler := joinrequest.NewHandler(joinService)

	// Meetings, authorized through the organization that owns their event
	gate := authz.NewGate(orgRepo, eventService)
	meetingService := meeting.NewService(db, meeting.NewRepository(db), gate, notifier, log)
	meetingHandler := meeting.NewHandler(meetingService)

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(mw.RequestLogger(log))
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	if cfg.MetricsEnabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		metrics.Register(reg)
		r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	}

	docs.SwaggerInfo.Host = ""
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		switch cfg.AuthMode {
		case "jwt":
			r.Use(mw.AuthMiddleware([]byte(cfg.JWTSecret)))
		default:
			r.Use(mw.TestUserMiddleware)
		}

		r.Mount("/users", userHandler.Routes())
		r.Mount("/events", eventHandler.Routes())
		r.Mount("/organizations", orgHandler.Routes())
		r.Mount("/organizations/{id}/join-requests", joinHandler.OrganizationRoutes())
		r.Mount("/join-requests", joinHandler.Routes())
		r.Mount("/meetings", meetingHandler.Routes())
		r.Mount("/notifications", notificationHandler.Routes())
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server starting", zap.String("port", cfg.Port), zap.String("auth_mode", cfg.AuthMode))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	srv.SetKeepAlivesEnabled(false)
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	log.Info("server stopped")
	return nil
}
