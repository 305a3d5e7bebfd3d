package lifecycle

import (
	"context"

	"github.com/pratik-mahalle/alertprobe/internal/domain/alert"
	"github.com/pratik-mahalle/alertprobe/internal/domain/scan"
	"github.com/pratik-mahalle/alertprobe/pkg/client"
)

// Backend is the system under test as seen by the orchestrator
type Backend interface {
	StartScan(ctx context.Context) (*scan.Scan, error)
	GetScan(ctx context.Context, id string) (*scan.Scan, error)
	ListAlerts(ctx context.Context, filter alert.Filter) ([]*alert.Alert, error)
	GetAlert(ctx context.Context, id string) (*alert.Alert, error)
	// UpdateAlertStatus must fail with TRANSITION_REJECTED when the backend
	// refuses the change.
	UpdateAlertStatus(ctx context.Context, id string, status alert.Status) (*alert.Alert, error)
	RemediateAlert(ctx context.Context, id, note string) (*alert.Alert, error)
	AddComment(ctx context.Context, id, message string) (*alert.Comment, error)
}

// ClientBackend drives the backend through its REST API
type ClientBackend struct {
	c *client.Client
}

// NewClientBackend adapts a REST client to the Backend interface
func NewClientBackend(c *client.Client) *ClientBackend {
	return &ClientBackend{c: c}
}

func (b *ClientBackend) StartScan(ctx context.Context) (*scan.Scan, error) {
	return b.c.Scans().Start(ctx)
}

func (b *ClientBackend) GetScan(ctx context.Context, id string) (*scan.Scan, error) {
	return b.c.Scans().Get(ctx, id)
}

func (b *ClientBackend) ListAlerts(ctx context.Context, filter alert.Filter) ([]*alert.Alert, error) {
	return b.c.Alerts().List(ctx, &client.AlertListOptions{Status: filter.Status, RunID: filter.RunID})
}

func (b *ClientBackend) GetAlert(ctx context.Context, id string) (*alert.Alert, error) {
	return b.c.Alerts().Get(ctx, id)
}

func (b *ClientBackend) UpdateAlertStatus(ctx context.Context, id string, status alert.Status) (*alert.Alert, error) {
	return b.c.Alerts().UpdateStatus(ctx, id, status)
}

func (b *ClientBackend) RemediateAlert(ctx context.Context, id, note string) (*alert.Alert, error) {
	return b.c.Alerts().Remediate(ctx, id, note)
}

func (b *ClientBackend) AddComment(ctx context.Context, id, message string) (*alert.Comment, error) {
	return b.c.Alerts().AddComment(ctx, id, message)
}
