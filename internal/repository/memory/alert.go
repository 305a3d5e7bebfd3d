// Package memory holds in-memory repositories for the mock backend. Stored
// values are copied on the way in and out so callers never share state.
package memory

import (
	"context"
	"sync"

	"github.com/pratik-mahalle/alertprobe/internal/domain/alert"
	"github.com/pratik-mahalle/alertprobe/internal/pkg/errors"
)

// AlertRepository implements alert.Repository
type AlertRepository struct {
	mu     sync.RWMutex
	alerts map[string]*alert.Alert
	order  []string
}

// NewAlertRepository creates an empty alert repository
func NewAlertRepository() *AlertRepository {
	return &AlertRepository{alerts: make(map[string]*alert.Alert)}
}

// Create stores a new alert
func (r *AlertRepository) Create(ctx context.Context, a *alert.Alert) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if a.ID == "" {
		return errors.BadRequest("alert id is required")
	}
	if _, ok := r.alerts[a.ID]; ok {
		return errors.Conflict("alert " + a.ID + " already exists")
	}
	r.alerts[a.ID] = a.Clone()
	r.order = append(r.order, a.ID)
	return nil
}

// GetByID retrieves an alert by ID
func (r *AlertRepository) GetByID(ctx context.Context, id string) (*alert.Alert, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.alerts[id]
	if !ok {
		return nil, errors.NotFound("alert")
	}
	return a.Clone(), nil
}

// Update replaces a stored alert
func (r *AlertRepository) Update(ctx context.Context, a *alert.Alert) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.alerts[a.ID]; !ok {
		return errors.NotFound("alert")
	}
	r.alerts[a.ID] = a.Clone()
	return nil
}

// List retrieves alerts matching the filter in creation order
func (r *AlertRepository) List(ctx context.Context, filter alert.Filter) ([]*alert.Alert, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*alert.Alert, 0, len(r.order))
	for _, id := range r.order {
		if a := r.alerts[id]; filter.Matches(a) {
			out = append(out, a.Clone())
		}
	}
	return out, nil
}

// CountByStatus counts alerts by status
func (r *AlertRepository) CountByStatus(ctx context.Context) (map[alert.Status]int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	counts := make(map[alert.Status]int)
	for _, a := range r.alerts {
		counts[a.Status]++
	}
	return counts, nil
}

// Reset removes every alert
func (r *AlertRepository) Reset(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.alerts = make(map[string]*alert.Alert)
	r.order = nil
	return nil
}
