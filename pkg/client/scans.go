package client

import (
	"context"
	"net/url"
)

// ScanService handles scan-related API calls
type ScanService struct {
	client *Client
}

// Start begins a new scan
func (s *ScanService) Start(ctx context.Context) (*Scan, error) {
	var sc Scan
	if err := s.client.doRequest(ctx, "POST", "/api/scans", nil, &sc); err != nil {
		return nil, err
	}
	return &sc, nil
}

// List retrieves all scans
func (s *ScanService) List(ctx context.Context) ([]*Scan, error) {
	var scans []*Scan
	if err := s.client.doRequest(ctx, "GET", "/api/scans", nil, &scans); err != nil {
		return nil, err
	}
	return scans, nil
}

// Get retrieves a scan by ID
func (s *ScanService) Get(ctx context.Context, id string) (*Scan, error) {
	var sc Scan
	if err := s.client.doRequest(ctx, "GET", "/api/scans/"+url.PathEscape(id), nil, &sc); err != nil {
		return nil, err
	}
	return &sc, nil
}

// Status reports whether a scan is currently running
func (s *ScanService) Status(ctx context.Context) (*ScanStatusResponse, error) {
	var st ScanStatusResponse
	if err := s.client.doRequest(ctx, "GET", "/api/scans/status", nil, &st); err != nil {
		return nil, err
	}
	return &st, nil
}
