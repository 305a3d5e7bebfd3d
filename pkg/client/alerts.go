package client

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/pratik-mahalle/alertprobe/internal/domain/alert"
	apperrors "github.com/pratik-mahalle/alertprobe/internal/pkg/errors"
)

// AlertService handles alert-related API calls
type AlertService struct {
	client *Client
}

// CreateAlertRequest seeds an alert directly, bypassing a scan
type CreateAlertRequest struct {
	PolicyID         string         `json:"policyId"`
	AssetDisplayName string         `json:"assetDisplayName,omitempty"`
	AssetLocation    string         `json:"assetLocation,omitempty"`
	Severity         alert.Severity `json:"severity,omitempty"`
	Description      string         `json:"description,omitempty"`
	RunID            string         `json:"runId,omitempty"`
}

// AlertListOptions contains options for listing alerts
type AlertListOptions struct {
	Status alert.Status
	RunID  string
}

// List retrieves a list of alerts
func (s *AlertService) List(ctx context.Context, opts *AlertListOptions) ([]*Alert, error) {
	query := url.Values{}

	if opts != nil {
		if opts.Status != "" {
			query.Set("status", string(opts.Status))
		}
		if opts.RunID != "" {
			query.Set("runId", opts.RunID)
		}
	}

	path := "/api/alerts"
	if len(query) > 0 {
		path += "?" + query.Encode()
	}

	var alerts []*Alert
	if err := s.client.doRequest(ctx, "GET", path, nil, &alerts); err != nil {
		return nil, err
	}

	return alerts, nil
}

// ListOpen retrieves alerts in status OPEN
func (s *AlertService) ListOpen(ctx context.Context) ([]*Alert, error) {
	return s.List(ctx, &AlertListOptions{Status: alert.StatusOpen})
}

// Get retrieves a specific alert by ID
func (s *AlertService) Get(ctx context.Context, id string) (*Alert, error) {
	var a Alert
	if err := s.client.doRequest(ctx, "GET", "/api/alerts/"+url.PathEscape(id), nil, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// Create seeds a new alert
func (s *AlertService) Create(ctx context.Context, req CreateAlertRequest) (*Alert, error) {
	var a Alert
	if err := s.client.doRequest(ctx, "POST", "/api/alerts", req, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// UpdateStatus changes the status of an alert. A 4xx response is returned as
// TRANSITION_REJECTED wrapping the *APIError.
func (s *AlertService) UpdateStatus(ctx context.Context, id string, status alert.Status) (*Alert, error) {
	req := map[string]alert.Status{"status": status}

	var a Alert
	err := s.client.doRequest(ctx, "PATCH", "/api/alerts/"+url.PathEscape(id), req, &a)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.IsClientError() {
			return nil, apperrors.TransitionRejected(rejectedFrom(apiErr), string(status), apiErr)
		}
		return nil, err
	}
	return &a, nil
}

func rejectedFrom(apiErr *APIError) string {
	if from := apiErr.Detail("from"); from != "" {
		return from
	}
	return "unknown"
}

// Remediate triggers remediation of an alert with an optional note
func (s *AlertService) Remediate(ctx context.Context, id, note string) (*Alert, error) {
	var req interface{}
	if note != "" {
		req = map[string]string{"note": note}
	}

	var a Alert
	if err := s.client.doRequest(ctx, "POST", fmt.Sprintf("/api/alerts/%s/remediate", url.PathEscape(id)), req, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// AddComment appends a comment to an alert
func (s *AlertService) AddComment(ctx context.Context, id, message string) (*Comment, error) {
	req := map[string]string{"message": message}

	var c Comment
	if err := s.client.doRequest(ctx, "POST", fmt.Sprintf("/api/alerts/%s/comments", url.PathEscape(id)), req, &c); err != nil {
		return nil, err
	}
	return &c, nil
}
