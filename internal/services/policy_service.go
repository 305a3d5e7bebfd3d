package services

import (
	"context"

	"github.com/pratik-mahalle/alertprobe/internal/domain/policy"
)

// PolicyService implements policy.Service
type PolicyService struct {
	repo policy.Repository
}

// NewPolicyService creates a new policy service
func NewPolicyService(repo policy.Repository) *PolicyService {
	return &PolicyService{repo: repo}
}

// Get retrieves a policy by ID
func (s *PolicyService) Get(ctx context.Context, id string) (*policy.Policy, error) {
	return s.repo.GetByID(ctx, id)
}

// List retrieves all policies
func (s *PolicyService) List(ctx context.Context) ([]*policy.Policy, error) {
	return s.repo.List(ctx)
}

// Config returns the policy configuration options
func (s *PolicyService) Config(ctx context.Context) (*policy.Config, error) {
	return s.repo.Config(ctx)
}
