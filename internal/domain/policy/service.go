package policy

import "context"

// Service defines the policy operations of the backend
type Service interface {
	// Get retrieves a policy by ID
	Get(ctx context.Context, id string) (*Policy, error)

	// List retrieves all policies
	List(ctx context.Context) ([]*Policy, error)

	// Config returns the policy configuration options
	Config(ctx context.Context) (*Config, error)
}
