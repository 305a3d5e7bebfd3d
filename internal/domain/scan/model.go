package scan

import "time"

// Status is the status of a scan
type Status string

// Scan statuses. A scan moves from RUNNING to COMPLETED exactly once.
const (
	StatusRunning   Status = "RUNNING"
	StatusCompleted Status = "COMPLETED"
)

// Scan is a backend run that inspects assets and raises alerts
type Scan struct {
	ID                 string     `json:"id"`
	Status             Status     `json:"status"`
	StartedAt          time.Time  `json:"startedAt"`
	CompletedAt        *time.Time `json:"completedAt,omitempty"`
	ScannedAssetsCount int        `json:"scannedAssetsCount"`
	AlertsCreatedCount int        `json:"alertsCreatedCount"`
}

// IsCompleted reports whether the scan has finished.
func (s *Scan) IsCompleted() bool {
	return s != nil && s.Status == StatusCompleted
}

// Clone returns a copy of the scan.
func (s *Scan) Clone() *Scan {
	if s == nil {
		return nil
	}
	c := *s
	if s.CompletedAt != nil {
		t := *s.CompletedAt
		c.CompletedAt = &t
	}
	return &c
}

// State is the scanner's overall state
type State string

// Scanner states
const (
	StateIdle    State = "IDLE"
	StateRunning State = "RUNNING"
)

// StatusResponse describes what the scanner is doing right now
type StatusResponse struct {
	Status        State          `json:"status"`
	ScanID        string         `json:"scanId,omitempty"`
	StartedAt     *time.Time     `json:"startedAt,omitempty"`
	LastCompleted *LastCompleted `json:"lastCompleted"`
}

// LastCompleted summarizes the most recent finished scan
type LastCompleted struct {
	ScanID             string    `json:"scanId"`
	CompletedAt        time.Time `json:"completedAt"`
	AlertsCreatedCount int       `json:"alertsCreatedCount"`
}
