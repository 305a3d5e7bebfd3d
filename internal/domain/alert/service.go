package alert

import "context"

// Service defines the alert operations of the backend
type Service interface {
	// Create seeds a new alert
	Create(ctx context.Context, alert *Alert) (*Alert, error)

	// Get retrieves an alert by ID
	Get(ctx context.Context, id string) (*Alert, error)

	// List retrieves alerts with filters
	List(ctx context.Context, filter Filter) ([]*Alert, error)

	// UpdateStatus applies a direct status update
	UpdateStatus(ctx context.Context, id string, status Status) (*Alert, error)

	// Remediate starts remediation of an alert
	Remediate(ctx context.Context, id, note string) (*Alert, error)

	// AddComment appends a comment to an alert
	AddComment(ctx context.Context, id string, author Author, message string) (*Comment, error)
}
