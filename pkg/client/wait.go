package client

import (
	"context"
	"fmt"

	"github.com/pratik-mahalle/alertprobe/internal/domain/alert"
	"github.com/pratik-mahalle/alertprobe/internal/poller"
)

// WaitForStatus polls an alert until its status is one of statuses
func (s *AlertService) WaitForStatus(ctx context.Context, id string, opts poller.Options, statuses ...alert.Status) (*Alert, error) {
	if opts.Description == "" {
		opts.Description = fmt.Sprintf("alert %s to reach %v", id, statuses)
	}
	return poller.Until(ctx,
		func(ctx context.Context) (*Alert, error) { return s.Get(ctx, id) },
		func(a *Alert) bool { return hasStatus(a, statuses) },
		opts)
}

func hasStatus(a *Alert, statuses []alert.Status) bool {
	for _, st := range statuses {
		if a.Status == st {
			return true
		}
	}
	return false
}

// WaitForComplete polls a scan until it has completed
func (s *ScanService) WaitForComplete(ctx context.Context, id string, opts poller.Options) (*Scan, error) {
	if opts.Description == "" {
		opts.Description = fmt.Sprintf("scan %s to complete", id)
	}
	return poller.Until(ctx,
		func(ctx context.Context) (*Scan, error) { return s.Get(ctx, id) },
		func(sc *Scan) bool { return sc.IsCompleted() },
		opts)
}
