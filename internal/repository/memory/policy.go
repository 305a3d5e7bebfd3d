package memory

import (
	"context"

	"github.com/pratik-mahalle/alertprobe/internal/domain/policy"
	"github.com/pratik-mahalle/alertprobe/internal/pkg/errors"
)

// PolicyRepository implements policy.Repository over a fixed catalog
type PolicyRepository struct {
	policies   []*policy.Policy
	violations []policy.Violation
	config     *policy.Config
}

// NewPolicyRepository creates a repository over the given catalog
func NewPolicyRepository(policies []*policy.Policy, violations []policy.Violation, cfg *policy.Config) *PolicyRepository {
	return &PolicyRepository{policies: policies, violations: violations, config: cfg}
}

// NewDefaultPolicyRepository creates a repository over the built-in catalog
func NewDefaultPolicyRepository() *PolicyRepository {
	return NewPolicyRepository(policy.DefaultPolicies(), policy.DefaultViolations(), policy.DefaultConfig())
}

// GetByID retrieves a policy by ID
func (r *PolicyRepository) GetByID(ctx context.Context, id string) (*policy.Policy, error) {
	for _, p := range r.policies {
		if p.ID == id {
			c := *p
			return &c, nil
		}
	}
	return nil, errors.NotFound("policy")
}

// List retrieves all policies
func (r *PolicyRepository) List(ctx context.Context) ([]*policy.Policy, error) {
	out := make([]*policy.Policy, len(r.policies))
	for i, p := range r.policies {
		c := *p
		out[i] = &c
	}
	return out, nil
}

// Violations returns the findings every scan reports
func (r *PolicyRepository) Violations(ctx context.Context) ([]policy.Violation, error) {
	return append([]policy.Violation(nil), r.violations...), nil
}

// Config returns the policy configuration options
func (r *PolicyRepository) Config(ctx context.Context) (*policy.Config, error) {
	if r.config == nil {
		return nil, errors.NotFound("policy configuration")
	}
	c := *r.config
	return &c, nil
}
