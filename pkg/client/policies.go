package client

import (
	"context"
	"net/url"
)

// PolicyService handles policy-related API calls
type PolicyService struct {
	client *Client
}

// List retrieves all policies
func (s *PolicyService) List(ctx context.Context) ([]*Policy, error) {
	var policies []*Policy
	if err := s.client.doRequest(ctx, "GET", "/api/policies", nil, &policies); err != nil {
		return nil, err
	}
	return policies, nil
}

// Get retrieves a policy by ID
func (s *PolicyService) Get(ctx context.Context, id string) (*Policy, error) {
	var p Policy
	if err := s.client.doRequest(ctx, "GET", "/api/policies/"+url.PathEscape(id), nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Config retrieves the policy configuration options
func (s *PolicyService) Config(ctx context.Context) (*PolicyConfig, error) {
	var cfg PolicyConfig
	if err := s.client.doRequest(ctx, "GET", "/api/policy-config", nil, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
