package client

import (
	"context"
	"net/http"

	"github.com/pratik-mahalle/alertprobe/internal/poller"
)

// healthyStatus is what a ready backend reports in HealthResponse.Status
const healthyStatus = "ok"

// Health checks the health of the API
func (c *Client) Health(ctx context.Context) (*HealthResponse, error) {
	var health HealthResponse
	if err := c.doRequest(ctx, http.MethodGet, "/api/health", nil, &health); err != nil {
		return nil, err
	}
	return &health, nil
}

// healthProbe is one observation of the health endpoint. A failed request
// is an observation too, so a backend that is still starting is retried.
type healthProbe struct {
	Health *HealthResponse
	Err    error
}

// WaitHealthy polls the health endpoint until it reports ok. A backend that
// never came up times out with the last request error as the observed value.
func (c *Client) WaitHealthy(ctx context.Context, opts poller.Options) (*HealthResponse, error) {
	if opts.Description == "" {
		opts.Description = "backend to report healthy"
	}
	probe, err := poller.Until(ctx,
		func(ctx context.Context) (healthProbe, error) {
			h, err := c.Health(ctx)
			if err != nil && ctx.Err() != nil {
				return healthProbe{}, err
			}
			return healthProbe{Health: h, Err: err}, nil
		},
		func(p healthProbe) bool { return p.Err == nil && p.Health != nil && p.Health.Status == healthyStatus },
		opts)
	if err != nil {
		return nil, err
	}
	return probe.Health, nil
}
