package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newPolicyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "policy",
		Short: "Inspect policies",
	}

	cmd.AddCommand(newPolicyListCmd())
	cmd.AddCommand(newPolicyConfigCmd())

	return cmd
}

func newPolicyListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List policies",
		RunE: func(cmd *cobra.Command, args []string) error {
			policies, err := apiClient.Policies().List(context.Background())
			if err != nil {
				return fmt.Errorf("failed to list policies: %w", err)
			}

			if getOutputFormat() != "table" {
				return printOutput(policies)
			}

			t := NewTable("ID", "NAME", "SEVERITY", "ENABLED", "AUTO", "VIOLATION")
			for _, p := range policies {
				t.AddRow(
					p.ID,
					truncate(p.Name, 40),
					formatSeverity(p.Severity),
					formatBool(p.Enabled),
					formatBool(p.AutoRemediate),
					p.ViolationType,
				)
			}
			t.Render()
			return nil
		},
	}
}

func newPolicyConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Show the options policies may be configured with",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := apiClient.Policies().Config(context.Background())
			if err != nil {
				return fmt.Errorf("failed to get policy config: %w", err)
			}

			if getOutputFormat() != "table" {
				return printOutput(cfg)
			}

			rows := []struct {
				name   string
				values []string
			}{
				{"Cloud providers", cfg.Assets.CloudProviders},
				{"SaaS tools", cfg.Assets.SaasTools},
				{"Violation types", cfg.Enums.ViolationTypes},
				{"Severities", cfg.Enums.Severities},
				{"Remediation types", cfg.Enums.RemediationTypes},
				{"Alert statuses", cfg.Enums.AlertStatuses},
			}
			for _, r := range rows {
				fmt.Fprintf(stdout, "%-18s %s\n", r.name+":", strings.Join(r.values, ", "))
			}
			return nil
		},
	}
}
