package alert

import "time"

// Status is the lifecycle status of an alert
type Status string

// Alert statuses, in typical lifecycle order
const (
	StatusOpen                         Status = "OPEN"
	StatusInProgress                   Status = "IN_PROGRESS"
	StatusRemediationInProgress        Status = "REMEDIATION_IN_PROGRESS"
	StatusRemediatedWaitingForCustomer Status = "REMEDIATED_WAITING_FOR_CUSTOMER"
	StatusResolved                     Status = "RESOLVED"
	StatusReopen                       Status = "REOPEN"
)

// AllStatuses lists every status in lifecycle order.
var AllStatuses = []Status{
	StatusOpen,
	StatusInProgress,
	StatusRemediationInProgress,
	StatusRemediatedWaitingForCustomer,
	StatusResolved,
	StatusReopen,
}

// IsValid reports whether s is a known status.
func (s Status) IsValid() bool {
	_, ok := statusOrder[s]
	return ok
}

func (s Status) String() string {
	return string(s)
}

var statusOrder = map[Status]int{
	StatusOpen:                         0,
	StatusInProgress:                   1,
	StatusRemediationInProgress:        2,
	StatusRemediatedWaitingForCustomer: 3,
	StatusResolved:                     4,
	StatusReopen:                       5,
}

// Severity of a policy violation
type Severity string

// Alert severity levels
const (
	SeverityLow      Severity = "LOW"
	SeverityMedium   Severity = "MEDIUM"
	SeverityHigh     Severity = "HIGH"
	SeverityCritical Severity = "CRITICAL"
)

// Remediation origins reported by the backend
const (
	OriginAuto   = "AUTO"
	OriginManual = "MANUAL"
	OriginNone   = "NONE"
)

// Alert is a read-only projection of a backend alert.
//
// The auto-remediation flag may arrive under several spellings or nested
// objects depending on the surface; use IsAutoRemediate rather than reading
// the fields directly.
type Alert struct {
	ID                 string          `json:"id"`
	RunID              string          `json:"runId"`
	PolicyID           string          `json:"policyId"`
	PolicyName         string          `json:"policyName,omitempty"`
	Severity           Severity        `json:"severity,omitempty"`
	CreatedSeverity    Severity        `json:"createdSeverity,omitempty"`
	ViolationType      string          `json:"violationType,omitempty"`
	CloudProvider      string          `json:"cloudProvider,omitempty"`
	Status             Status          `json:"status"`
	AutoRemediate      *bool           `json:"autoRemediate,omitempty"`
	AutoRemediateAlias *bool           `json:"auto_remediate,omitempty"`
	AssetDisplayName   string          `json:"assetDisplayName,omitempty"`
	AssetLocation      string          `json:"assetLocation,omitempty"`
	Description        string          `json:"description,omitempty"`
	Comments           []Comment       `json:"comments"`
	AssignedTo         *Assignee       `json:"assignedTo,omitempty"`
	PolicySnapshot     *PolicySnapshot `json:"policySnapshot,omitempty"`
	Remediation        *Remediation    `json:"remediation,omitempty"`
	ValidTransitions   []Status        `json:"validTransitions,omitempty"`
	CanRemediate       *bool           `json:"canRemediate,omitempty"`
	WasRemediated      bool            `json:"wasRemediated,omitempty"`
	RemediationOrigin  string          `json:"remediationOrigin,omitempty"`
	CreatedAt          time.Time       `json:"createdAt"`
	UpdatedAt          *time.Time      `json:"updatedAt,omitempty"`
	StatusUpdatedAt    *time.Time      `json:"statusUpdatedAt,omitempty"`
}

// Comment is an entry in an alert's append-only comment log
type Comment struct {
	ID        string    `json:"id"`
	Author    Author    `json:"author"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

// Author of a comment
type Author struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Assignee is a display-only reference to a human owner
type Assignee struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

// PolicySnapshot is the policy configuration captured when the alert was raised
type PolicySnapshot struct {
	ViolationType       string `json:"violationType,omitempty"`
	RemediationType     string `json:"remediationType,omitempty"`
	AutoRemediate       *bool  `json:"autoRemediate,omitempty"`
	RemediationPriority string `json:"remediationPriority,omitempty"`
}

// Remediation holds remediation settings and the last remediation note
type Remediation struct {
	Type          string   `json:"type,omitempty"`
	Priority      Severity `json:"priority,omitempty"`
	DueDate       string   `json:"dueDate,omitempty"`
	AutoRemediate *bool    `json:"autoRemediate,omitempty"`
	Note          string   `json:"note,omitempty"`
}

// Filter contains alert filtering options
type Filter struct {
	Status Status
	RunID  string
}

// Matches reports whether a satisfies the filter. Empty fields match anything.
func (f Filter) Matches(a *Alert) bool {
	if f.Status != "" && a.Status != f.Status {
		return false
	}
	if f.RunID != "" && a.RunID != f.RunID {
		return false
	}
	return true
}

// Clone returns a deep copy of the alert.
func (a *Alert) Clone() *Alert {
	if a == nil {
		return nil
	}
	c := *a
	c.AutoRemediate = cloneBool(a.AutoRemediate)
	c.AutoRemediateAlias = cloneBool(a.AutoRemediateAlias)
	c.CanRemediate = cloneBool(a.CanRemediate)
	c.Comments = make([]Comment, len(a.Comments))
	copy(c.Comments, a.Comments)
	if a.ValidTransitions != nil {
		// an empty report differs from an absent one
		c.ValidTransitions = append(make([]Status, 0, len(a.ValidTransitions)), a.ValidTransitions...)
	}
	if a.AssignedTo != nil {
		as := *a.AssignedTo
		c.AssignedTo = &as
	}
	if a.PolicySnapshot != nil {
		ps := *a.PolicySnapshot
		ps.AutoRemediate = cloneBool(a.PolicySnapshot.AutoRemediate)
		c.PolicySnapshot = &ps
	}
	if a.Remediation != nil {
		r := *a.Remediation
		r.AutoRemediate = cloneBool(a.Remediation.AutoRemediate)
		c.Remediation = &r
	}
	c.UpdatedAt = cloneTime(a.UpdatedAt)
	c.StatusUpdatedAt = cloneTime(a.StatusUpdatedAt)
	return &c
}

func cloneBool(b *bool) *bool {
	if b == nil {
		return nil
	}
	v := *b
	return &v
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

// Bool returns a pointer to b, for populating optional flags.
func Bool(b bool) *bool {
	return &b
}
