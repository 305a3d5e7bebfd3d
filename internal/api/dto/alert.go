package dto

import "github.com/pratik-mahalle/alertprobe/internal/domain/alert"

// UpdateStatusRequest is the body of PATCH /api/alerts/{id}
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,alert_status"`
}

// RemediateRequest is the optional body of POST /api/alerts/{id}/remediate
type RemediateRequest struct {
	Note string `json:"note" validate:"max=2000"`
}

// AddCommentRequest is the body of POST /api/alerts/{id}/comments
type AddCommentRequest struct {
	Message string `json:"message" validate:"required,notblank,max=2000"`
}

// CreateAlertRequest seeds an alert without running a scan
type CreateAlertRequest struct {
	PolicyID         string `json:"policyId" validate:"required"`
	AssetDisplayName string `json:"assetDisplayName" validate:"required_without=AssetLocation"`
	AssetLocation    string `json:"assetLocation"`
	Severity         string `json:"severity" validate:"omitempty,oneof=LOW MEDIUM HIGH CRITICAL"`
	Description      string `json:"description" validate:"max=2000"`
	RunID            string `json:"runId"`
}

// ToAlert converts the request to the alert it seeds
func (r CreateAlertRequest) ToAlert() *alert.Alert {
	return &alert.Alert{
		PolicyID:         r.PolicyID,
		AssetDisplayName: r.AssetDisplayName,
		AssetLocation:    r.AssetLocation,
		Severity:         alert.Severity(r.Severity),
		Description:      r.Description,
		RunID:            r.RunID,
	}
}
