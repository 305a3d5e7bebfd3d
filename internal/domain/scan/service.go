package scan

import "context"

// Service defines scan operations of the backend
type Service interface {
	// Start begins a new scan
	Start(ctx context.Context) (*Scan, error)

	// Get retrieves a scan by ID
	Get(ctx context.Context, id string) (*Scan, error)

	// List retrieves all scans
	List(ctx context.Context) ([]*Scan, error)

	// Status reports whether a scan is running
	Status(ctx context.Context) (*StatusResponse, error)
}
