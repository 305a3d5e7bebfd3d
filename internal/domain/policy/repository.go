package policy

import "context"

// Repository defines the interface for policy data access
type Repository interface {
	// GetByID retrieves a policy by ID
	GetByID(ctx context.Context, id string) (*Policy, error)

	// List retrieves all policies
	List(ctx context.Context) ([]*Policy, error)

	// Violations returns the findings every scan reports
	Violations(ctx context.Context) ([]Violation, error)

	// Config returns the policy configuration options
	Config(ctx context.Context) (*Config, error)
}
