package memory

import (
	"context"
	"sync"

	"github.com/pratik-mahalle/alertprobe/internal/domain/scan"
	"github.com/pratik-mahalle/alertprobe/internal/pkg/errors"
)

// ScanRepository implements scan.Repository
type ScanRepository struct {
	mu    sync.RWMutex
	scans map[string]*scan.Scan
	order []string
}

// NewScanRepository creates an empty scan repository
func NewScanRepository() *ScanRepository {
	return &ScanRepository{scans: make(map[string]*scan.Scan)}
}

// Create stores a new scan
func (r *ScanRepository) Create(ctx context.Context, s *scan.Scan) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.scans[s.ID]; ok {
		return errors.Conflict("scan " + s.ID + " already exists")
	}
	r.scans[s.ID] = s.Clone()
	r.order = append(r.order, s.ID)
	return nil
}

// GetByID retrieves a scan by ID
func (r *ScanRepository) GetByID(ctx context.Context, id string) (*scan.Scan, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.scans[id]
	if !ok {
		return nil, errors.NotFound("scan")
	}
	return s.Clone(), nil
}

// Update replaces a stored scan. A completed scan cannot be changed.
func (r *ScanRepository) Update(ctx context.Context, s *scan.Scan) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur, ok := r.scans[s.ID]
	if !ok {
		return errors.NotFound("scan")
	}
	if cur.IsCompleted() {
		return errors.Conflict("scan " + s.ID + " is already completed")
	}
	r.scans[s.ID] = s.Clone()
	return nil
}

// List retrieves all scans in start order
func (r *ScanRepository) List(ctx context.Context) ([]*scan.Scan, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*scan.Scan, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.scans[id].Clone())
	}
	return out, nil
}

// Reset removes every scan
func (r *ScanRepository) Reset(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.scans = make(map[string]*scan.Scan)
	r.order = nil
	return nil
}
