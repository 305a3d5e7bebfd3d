package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pratik-mahalle/alertprobe/internal/api"
	"github.com/pratik-mahalle/alertprobe/internal/config"
	"github.com/pratik-mahalle/alertprobe/internal/lifecycle"
	"github.com/pratik-mahalle/alertprobe/internal/pkg/logger"
	"github.com/pratik-mahalle/alertprobe/internal/poller"
	"github.com/pratik-mahalle/alertprobe/internal/worker"
	"github.com/pratik-mahalle/alertprobe/pkg/client"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{
		Level:      cfg.Logging.Level,
		Format:     cfg.Logging.Format,
		OutputPath: cfg.Logging.OutputPath,
	})

	backend, err := api.NewBackend(cfg, nil, log)
	if err != nil {
		log.Fatal(fmt.Sprintf("Failed to build backend: %v", err))
	}

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      backend.Handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	serverErrors := make(chan error, 1)
	go func() {
		log.WithFields(map[string]interface{}{
			"addr":        server.Addr,
			"environment": cfg.Server.Environment,
			"idempotent":  cfg.Simulation.IdempotentRescan,
		}).Info("Mock alert API listening")
		serverErrors <- server.ListenAndServe()
	}()

	var selfCheck *worker.Scheduler
	if cfg.Schedule.SelfCheck != "" {
		selfCheck, err = newSelfCheck(cfg, log)
		if err != nil {
			log.Fatal(fmt.Sprintf("Failed to schedule self-check: %v", err))
		}
		selfCheck.Start()
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			log.ErrorWithErr(err, "Server failed")
			os.Exit(1)
		}
	case sig := <-shutdown:
		log.With("signal", sig.String()).Info("Shutdown signal received")
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if selfCheck != nil {
		select {
		case <-selfCheck.Stop().Done():
		case <-ctx.Done():
			log.Warn("Self-check still running at shutdown")
		}
	}

	if err := server.Shutdown(ctx); err != nil {
		log.ErrorWithErr(err, "Graceful shutdown failed")
		_ = server.Close()
	}
	log.Info("Server stopped")
}

// newSelfCheck runs the lifecycle flows against this server through its own
// REST API on the configured schedule.
func newSelfCheck(cfg *config.Config, log *logger.Logger) (*worker.Scheduler, error) {
	c := client.NewClient(client.Config{
		BaseURL: fmt.Sprintf("http://127.0.0.1:%d", cfg.Server.Port),
		Logger:  log,
	})
	orch := lifecycle.New(lifecycle.NewClientBackend(c), lifecycle.Options{}, log.With("component", "self_check"))

	s := worker.New(orch, nil, 0, log.With("component", "self_check"))
	s.BeforeRun = func(ctx context.Context) error {
		if _, err := c.WaitHealthy(ctx, poller.Options{Timeout: 30 * time.Second, Interval: time.Second}); err != nil {
			return err
		}
		_, err := c.Login(ctx, cfg.Auth.AdminUsername, cfg.Auth.AdminPassword)
		return err
	}
	if err := s.Schedule(cfg.Schedule.SelfCheck); err != nil {
		return nil, err
	}
	return s, nil
}
