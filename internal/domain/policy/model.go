package policy

import (
	"time"

	"github.com/pratik-mahalle/alertprobe/internal/domain/alert"
)

// Policy is a rule whose violations raise alerts
type Policy struct {
	ID                  string         `json:"id"`
	Name                string         `json:"name"`
	Severity            alert.Severity `json:"severity"`
	Enabled             bool           `json:"enabled"`
	Description         string         `json:"description"`
	ViolationType       string         `json:"violationType"`
	RemediationType     string         `json:"remediationType,omitempty"`
	RemediationPriority alert.Severity `json:"remediationPriority,omitempty"`
	AutoRemediate       bool           `json:"autoRemediate"`
	IsSystemPolicy      bool           `json:"isSystemPolicy"`
	CreatedAt           time.Time      `json:"createdAt"`
	UpdatedAt           *time.Time     `json:"updatedAt,omitempty"`
}

// Snapshot captures the policy settings an alert was raised under.
func (p *Policy) Snapshot() *alert.PolicySnapshot {
	auto := p.AutoRemediate
	return &alert.PolicySnapshot{
		ViolationType:       p.ViolationType,
		RemediationType:     p.RemediationType,
		AutoRemediate:       &auto,
		RemediationPriority: string(p.RemediationPriority),
	}
}

// Violation is a finding that a scan reports for a policy on one asset
type Violation struct {
	PolicyID         string `json:"policyId"`
	AssetDisplayName string `json:"assetDisplayName"`
	AssetLocation    string `json:"assetLocation"`
	CloudProvider    string `json:"cloudProvider"`
	Description      string `json:"description"`
}

// Config lists the options a policy may be configured with
type Config struct {
	Assets AssetOptions           `json:"assets"`
	Enums  Enums                  `json:"enums"`
	Labels map[string]interface{} `json:"labels"`
}

// AssetOptions lists the asset kinds a policy may target
type AssetOptions struct {
	CloudProviders            []string            `json:"cloudProviders"`
	CloudDataStoresByProvider map[string][]string `json:"cloudDataStoresByProvider"`
	SaasTools                 []string            `json:"saasTools"`
}

// Enums lists enumerated policy and alert values
type Enums struct {
	ViolationTypes               []string `json:"violationTypes"`
	Severities                   []string `json:"severities"`
	DataClassificationCategories []string `json:"dataClassificationCategories"`
	RemediationTypes             []string `json:"remediationTypes"`
	RemediationPriorities        []string `json:"remediationPriorities"`
	RemediationDueUnits          []string `json:"remediationDueUnits"`
	AlertStatuses                []string `json:"alertStatuses"`
}
