package policy

import (
	"time"

	"github.com/pratik-mahalle/alertprobe/internal/domain/alert"
)

// epoch is the creation time reported for built-in policies
var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// DefaultPolicies returns the built-in policy set
func DefaultPolicies() []*Policy {
	return []*Policy{
		{ID: "pol-public-bucket", Name: "Public Bucket With Sensitive Data", Severity: alert.SeverityCritical, Enabled: true, Description: "Storage bucket holding sensitive data is publicly readable.", ViolationType: "PUBLIC_ACCESS", RemediationType: "RESTRICT_PUBLIC_ACCESS", RemediationPriority: alert.SeverityCritical, AutoRemediate: false, IsSystemPolicy: true, CreatedAt: epoch},
		{ID: "pol-unencrypted-snapshot", Name: "Unencrypted Database Snapshot", Severity: alert.SeverityHigh, Enabled: true, Description: "Database snapshot containing sensitive data is not encrypted at rest.", ViolationType: "UNENCRYPTED_DATA", RemediationType: "ENABLE_ENCRYPTION", RemediationPriority: alert.SeverityHigh, AutoRemediate: true, IsSystemPolicy: true, CreatedAt: epoch},
		{ID: "pol-permissive-share", Name: "Overly Permissive Share", Severity: alert.SeverityMedium, Enabled: true, Description: "SaaS folder with sensitive data is shared with everyone in the organization.", ViolationType: "OVERLY_PERMISSIVE_ACCESS", RemediationType: "REVOKE_ACCESS", RemediationPriority: alert.SeverityMedium, AutoRemediate: false, IsSystemPolicy: true, CreatedAt: epoch},
		{ID: "pol-retention", Name: "Data Retention Exceeded", Severity: alert.SeverityLow, Enabled: true, Description: "Sensitive records are kept beyond the retention period.", ViolationType: "DATA_RETENTION_EXCEEDED", RemediationType: "DELETE_DATA", RemediationPriority: alert.SeverityLow, AutoRemediate: true, IsSystemPolicy: true, CreatedAt: epoch},
	}
}

// DefaultViolations returns the findings a scan of the built-in environment reports
func DefaultViolations() []Violation {
	return []Violation{
		{PolicyID: "pol-public-bucket", AssetDisplayName: "finance-reports-prod", AssetLocation: "s3://finance-reports-prod", CloudProvider: "AWS", Description: "Bucket ACL grants public read."},
		{PolicyID: "pol-public-bucket", AssetDisplayName: "marketing-exports", AssetLocation: "gs://marketing-exports", CloudProvider: "GCP", Description: "Bucket IAM grants allUsers objectViewer."},
		{PolicyID: "pol-unencrypted-snapshot", AssetDisplayName: "customers-db-snap-0412", AssetLocation: "arn:aws:rds:us-east-1:123456789012:snapshot:customers-db-snap-0412", CloudProvider: "AWS", Description: "Snapshot storage is unencrypted."},
		{PolicyID: "pol-permissive-share", AssetDisplayName: "HR Shared Drive", AssetLocation: "gdrive://hr-shared", Description: "Folder is shared with the whole domain."},
		{PolicyID: "pol-retention", AssetDisplayName: "audit-logs-archive", AssetLocation: "azure://audit/archive", CloudProvider: "AZURE", Description: "Records older than 7 years found."},
	}
}

// DefaultConfig returns the policy configuration options of the built-in environment
func DefaultConfig() *Config {
	statuses := make([]string, 0, len(alert.AllStatuses))
	labels := make(map[string]interface{}, len(alert.AllStatuses))
	for _, s := range alert.AllStatuses {
		statuses = append(statuses, string(s))
		labels[string(s)] = s.Label()
	}

	return &Config{
		Assets: AssetOptions{
			CloudProviders: []string{"AWS", "GCP", "AZURE"},
			CloudDataStoresByProvider: map[string][]string{
				"AWS":   {"S3", "RDS", "DYNAMODB"},
				"GCP":   {"GCS", "BIGQUERY"},
				"AZURE": {"BLOB", "SQL"},
			},
			SaasTools: []string{"GOOGLE_DRIVE", "SLACK", "SALESFORCE"},
		},
		Enums: Enums{
			ViolationTypes:               []string{"PUBLIC_ACCESS", "UNENCRYPTED_DATA", "OVERLY_PERMISSIVE_ACCESS", "DATA_RETENTION_EXCEEDED", "MISSING_CLASSIFICATION", "SENSITIVE_DATA_EXPOSED"},
			Severities:                   []string{"LOW", "MEDIUM", "HIGH", "CRITICAL"},
			DataClassificationCategories: []string{"PII", "PCI", "PHI", "SECRETS"},
			RemediationTypes:             []string{"RESTRICT_PUBLIC_ACCESS", "ENABLE_ENCRYPTION", "REVOKE_ACCESS", "DELETE_DATA"},
			RemediationPriorities:        []string{"LOW", "MEDIUM", "HIGH", "CRITICAL"},
			RemediationDueUnits:          []string{"HOURS", "DAYS", "WEEKS"},
			AlertStatuses:                statuses,
		},
		Labels: labels,
	}
}
