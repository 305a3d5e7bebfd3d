// Package testutil runs the mock backend behind httptest for tests that need
// a live API.
package testutil

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/pratik-mahalle/alertprobe/internal/api"
	"github.com/pratik-mahalle/alertprobe/internal/config"
	"github.com/pratik-mahalle/alertprobe/internal/poller"
	"github.com/pratik-mahalle/alertprobe/pkg/client"
)

// Credentials accepted by the test backend
const (
	Username = "admin"
	Password = "Aa123456"
)

// Start is the fake clock's initial time
var Start = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

// Options customizes the test backend
type Options struct {
	// IdempotentRescan switches off re-creation of resolved alerts
	IdempotentRescan bool
	// Configure may adjust the config before the backend is built
	Configure func(cfg *config.Config)
	// SkipLogin leaves the client without a token
	SkipLogin bool
}

// Backend is a running mock backend with a client pointed at it
type Backend struct {
	Server  *httptest.Server
	Client  *client.Client
	Clock   *poller.FakeClock
	Backend *api.Backend
	Config  *config.Config
}

// Config returns the configuration the test backend uses by default
func Config() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Port:        8080,
			FrontendURL: "http://localhost:5173",
			Environment: "test",
		},
		Auth: config.AuthConfig{
			JWTSecret:         "test-secret",
			AccessTokenExpiry: time.Hour,
			BCryptCost:        bcrypt.MinCost,
			AdminUsername:     Username,
			AdminPassword:     Password,
		},
		Logging: config.LoggingConfig{Level: "error", Format: "json"},
		Simulation: config.SimulationConfig{
			ScanDuration:        5 * time.Second,
			RemediationDelay:    6 * time.Second,
			AutoRemediationStep: 4 * time.Second,
		},
	}
}

// NewBackend starts a mock backend on a fake clock and returns a logged-in
// client for it. The server is closed when the test ends.
func NewBackend(t testing.TB, opts Options) *Backend {
	t.Helper()

	cfg := Config()
	cfg.Simulation.IdempotentRescan = opts.IdempotentRescan
	if opts.Configure != nil {
		opts.Configure(cfg)
	}

	clock := poller.NewFakeClock(Start)
	b, err := api.NewBackend(cfg, clock, nil)
	if err != nil {
		t.Fatalf("failed to build backend: %v", err)
	}

	srv := httptest.NewServer(b.Handler)
	t.Cleanup(srv.Close)

	c := client.NewClient(client.Config{
		BaseURL:    srv.URL,
		HTTPClient: srv.Client(),
	})
	if !opts.SkipLogin {
		if _, err := c.Login(context.Background(), Username, Password); err != nil {
			t.Fatalf("failed to log in: %v", err)
		}
	}

	return &Backend{
		Server:  srv,
		Client:  c,
		Clock:   clock,
		Backend: b,
		Config:  cfg,
	}
}

// PollOptions returns poller options driven by the backend's fake clock
func (b *Backend) PollOptions() poller.Options {
	return poller.Options{Clock: b.Clock}
}
