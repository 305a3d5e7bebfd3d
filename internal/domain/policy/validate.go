package policy

import (
	"fmt"

	"github.com/pratik-mahalle/alertprobe/internal/domain/alert"
	apperrors "github.com/pratik-mahalle/alertprobe/internal/pkg/errors"
)

var requiredSeverities = []alert.Severity{
	alert.SeverityLow,
	alert.SeverityMedium,
	alert.SeverityHigh,
	alert.SeverityCritical,
}

// Validate checks that the configuration carries every section the alert
// surfaces rely on. All problems are reported together.
func (c *Config) Validate() error {
	var problems []string

	if len(c.Assets.CloudProviders) == 0 {
		problems = append(problems, "assets.cloudProviders is empty")
	}
	if c.Assets.CloudDataStoresByProvider == nil {
		problems = append(problems, "assets.cloudDataStoresByProvider is missing")
	}
	if c.Assets.SaasTools == nil {
		problems = append(problems, "assets.saasTools is missing")
	}

	if len(c.Enums.ViolationTypes) == 0 {
		problems = append(problems, "enums.violationTypes is empty")
	}
	have := make(map[string]bool, len(c.Enums.Severities))
	for _, s := range c.Enums.Severities {
		have[s] = true
	}
	for _, s := range requiredSeverities {
		if !have[string(s)] {
			problems = append(problems, fmt.Sprintf("enums.severities is missing %s", s))
		}
	}
	if len(c.Enums.AlertStatuses) == 0 {
		problems = append(problems, "enums.alertStatuses is empty")
	}
	for _, s := range c.Enums.AlertStatuses {
		if !alert.Status(s).IsValid() {
			problems = append(problems, fmt.Sprintf("enums.alertStatuses has unknown status %s", s))
		}
	}
	if c.Enums.RemediationTypes == nil {
		problems = append(problems, "enums.remediationTypes is missing")
	}
	if c.Enums.RemediationPriorities == nil {
		problems = append(problems, "enums.remediationPriorities is missing")
	}
	if c.Enums.RemediationDueUnits == nil {
		problems = append(problems, "enums.remediationDueUnits is missing")
	}
	if c.Labels == nil {
		problems = append(problems, "labels is missing")
	}

	if len(problems) > 0 {
		return apperrors.ValidationError("invalid policy configuration", problems)
	}
	return nil
}
