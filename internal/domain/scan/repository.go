package scan

import "context"

// Repository defines the interface for scan data access
type Repository interface {
	// Create stores a new scan
	Create(ctx context.Context, scan *Scan) error

	// GetByID retrieves a scan by ID
	GetByID(ctx context.Context, id string) (*Scan, error)

	// Update replaces a stored scan
	Update(ctx context.Context, scan *Scan) error

	// List retrieves all scans, oldest first
	List(ctx context.Context) ([]*Scan, error)

	// Reset removes every scan
	Reset(ctx context.Context) error
}
