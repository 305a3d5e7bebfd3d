package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
)

// defaultJWTSecret is only accepted outside production
const defaultJWTSecret = "alertprobe-dev-secret"

// Config holds all mock backend configuration
type Config struct {
	Server     ServerConfig
	Auth       AuthConfig
	Logging    LoggingConfig
	Simulation SimulationConfig
	Schedule   ScheduleConfig
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	FrontendURL     string
	Environment     string
	// RateLimitRPS is the per-client request rate; zero disables limiting
	RateLimitRPS int
}

// AuthConfig contains authentication configuration
type AuthConfig struct {
	JWTSecret         string
	AccessTokenExpiry time.Duration
	BCryptCost        int
	AdminUsername     string
	AdminPassword     string
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level      string
	Format     string // json or console
	OutputPath string
}

// SimulationConfig controls the timings of the simulated backend
type SimulationConfig struct {
	ScanDuration        time.Duration
	RemediationDelay    time.Duration
	AutoRemediationStep time.Duration
	IdempotentRescan    bool
}

// ScheduleConfig contains the optional self-check schedule of the mock backend
type ScheduleConfig struct {
	// SelfCheck is a cron spec; empty disables scheduled runs
	SelfCheck string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists (ignore errors as it's optional)
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Host:            getEnv("SERVER_HOST", "0.0.0.0"),
			Port:            getEnvAsInt("SERVER_PORT", 8080),
			ReadTimeout:     getEnvAsDuration("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout:    getEnvAsDuration("SERVER_WRITE_TIMEOUT", 10*time.Second),
			ShutdownTimeout: getEnvAsDuration("SERVER_SHUTDOWN_TIMEOUT", 30*time.Second),
			FrontendURL:     getEnv("FRONTEND_URL", "http://localhost:5173"),
			Environment:     getEnv("ENVIRONMENT", "development"),
			RateLimitRPS:    getEnvAsInt("RATE_LIMIT_RPS", 100),
		},
		Auth: AuthConfig{
			JWTSecret:         getEnv("JWT_SECRET", defaultJWTSecret),
			AccessTokenExpiry: getEnvAsDuration("JWT_ACCESS_EXPIRY", 24*time.Hour),
			BCryptCost:        getEnvAsInt("BCRYPT_COST", 10),
			AdminUsername:     getEnv("ADMIN_USERNAME", "admin"),
			AdminPassword:     getEnv("ADMIN_PASSWORD", "Aa123456"),
		},
		Logging: LoggingConfig{
			Level:      getEnv("LOG_LEVEL", "info"),
			Format:     getEnv("LOG_FORMAT", "json"),
			OutputPath: getEnv("LOG_OUTPUT", "stdout"),
		},
		Simulation: SimulationConfig{
			ScanDuration:        getEnvAsDuration("SIM_SCAN_DURATION", 5*time.Second),
			RemediationDelay:    getEnvAsDuration("SIM_REMEDIATION_DELAY", 6*time.Second),
			AutoRemediationStep: getEnvAsDuration("SIM_AUTO_REMEDIATION_STEP", 4*time.Second),
			IdempotentRescan:    getEnvAsBool("SIM_IDEMPOTENT_RESCAN", false),
		},
		Schedule: ScheduleConfig{
			SelfCheck: getEnv("SELF_CHECK_SCHEDULE", ""),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET must be set")
	}
	if c.Server.Environment == "production" && c.Auth.JWTSecret == defaultJWTSecret {
		return fmt.Errorf("JWT_SECRET should not use default value in production")
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Auth.AdminUsername == "" || c.Auth.AdminPassword == "" {
		return fmt.Errorf("ADMIN_USERNAME and ADMIN_PASSWORD must not be empty")
	}

	durations := map[string]time.Duration{
		"SIM_SCAN_DURATION":         c.Simulation.ScanDuration,
		"SIM_REMEDIATION_DELAY":     c.Simulation.RemediationDelay,
		"SIM_AUTO_REMEDIATION_STEP": c.Simulation.AutoRemediationStep,
	}
	for name, d := range durations {
		if d < 0 {
			return fmt.Errorf("%s must not be negative: %s", name, d)
		}
	}

	if c.Server.RateLimitRPS < 0 {
		return fmt.Errorf("RATE_LIMIT_RPS must not be negative: %d", c.Server.RateLimitRPS)
	}

	if c.Schedule.SelfCheck != "" {
		if _, err := cron.ParseStandard(c.Schedule.SelfCheck); err != nil {
			return fmt.Errorf("invalid SELF_CHECK_SCHEDULE %q: %w", c.Schedule.SelfCheck, err)
		}
	}

	return nil
}

// Addr returns the listen address of the HTTP server
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
