package client

import (
	"time"

	"github.com/pratik-mahalle/alertprobe/internal/domain/alert"
	"github.com/pratik-mahalle/alertprobe/internal/domain/policy"
	"github.com/pratik-mahalle/alertprobe/internal/domain/scan"
)

// Wire types shared with the backend model
type (
	Alert              = alert.Alert
	AlertStatus        = alert.Status
	Comment            = alert.Comment
	Scan               = scan.Scan
	ScanStatusResponse = scan.StatusResponse
	Policy             = policy.Policy
	PolicyConfig       = policy.Config
)

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Service   string    `json:"service"`
}

// ResetResponse is returned by the environment reset endpoint
type ResetResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
