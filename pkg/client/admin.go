package client

import "context"

// AdminService handles administrative API calls
type AdminService struct {
	client *Client
}

// Reset clears all alerts and scans of the environment
func (s *AdminService) Reset(ctx context.Context) (*ResetResponse, error) {
	var resp ResetResponse
	if err := s.client.doRequest(ctx, "POST", "/api/admin/reset", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
