package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/example/forum-matchmaker/internal/application"
	"github.com/example/forum-matchmaker/internal/config"
	apphttp "github.com/example/forum-matchmaker/internal/http"
	"github.com/example/forum-matchmaker/internal/logging"
	"github.com/example/forum-matchmaker/internal/persistence/sqlite"
	"github.com/example/forum-matchmaker/internal/seed"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := logging.NewJSONLogger(os.Stdout, cfg.LogLevel)

	store, err := sqlite.Open(cfg.SQLiteDSN)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer store.Close()

	if err := store.Migrate(ctx); err != nil {
		return fmt.Errorf("migrate store: %w", err)
	}

	if cfg.SeedFile != "" {
		catalog, err := seed.Load(cfg.SeedFile)
		if err != nil {
			return err
		}
		err = seed.Apply(ctx, seed.Repositories{
			Participants: store,
			Slots:        store,
			Rooms:        store,
		}, catalog, time.Now)
		if err != nil {
			return fmt.Errorf("apply seed: %w", err)
		}
		logger.InfoContext(ctx, "seed catalog applied", "file", cfg.SeedFile)
	}

	idGenerator := uuid.NewString

	authService := application.NewAuthService(store, store, idGenerator, time.Now, cfg.SessionTTL, logger)
	participantService := application.NewParticipantService(store, idGenerator, time.Now)
	catalogService := application.NewCatalogService(store, store, idGenerator, time.Now)
	schedulingService := application.NewSchedulingService(application.SchedulingRepositories{
		Participants: store,
		Slots:        store,
		Rooms:        store,
		Availability: store,
		Preferences:  store,
		Meetings:     store,
		Requests:     store,
	}, idGenerator, time.Now, logger)

	router := apphttp.NewRouter(apphttp.RouterConfig{
		Auth:           apphttp.NewAuthHandler(authService, logger),
		Participants:   apphttp.NewParticipantHandler(participantService, schedulingService, logger),
		Catalog:        apphttp.NewCatalogHandler(catalogService, logger),
		Schedule:       apphttp.NewScheduleHandler(schedulingService, logger),
		Requests:       apphttp.NewRequestHandler(schedulingService, logger),
		Sessions:       authService,
		AllowedOrigins: allowedOrigins(),
		Logger:         logger,
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.InfoContext(ctx, "server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	logger.Info("shutting down")
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return <-errCh
}

func allowedOrigins() []string {
	raw := strings.TrimSpace(os.Getenv("MATCHMAKER_ALLOWED_ORIGINS"))
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}
