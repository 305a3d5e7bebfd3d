package alert

import "context"

// Repository defines the interface for alert data access
type Repository interface {
	// Create stores a new alert. The alert must already carry its ID.
	Create(ctx context.Context, alert *Alert) error

	// GetByID retrieves an alert by ID
	GetByID(ctx context.Context, id string) (*Alert, error)

	// Update replaces a stored alert
	Update(ctx context.Context, alert *Alert) error

	// List retrieves alerts matching the filter, oldest first
	List(ctx context.Context, filter Filter) ([]*Alert, error)

	// CountByStatus counts alerts by status
	CountByStatus(ctx context.Context) (map[Status]int, error)

	// Reset removes every alert
	Reset(ctx context.Context) error
}
