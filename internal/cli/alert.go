package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pratik-mahalle/alertprobe/internal/domain/alert"
	apperrors "github.com/pratik-mahalle/alertprobe/internal/pkg/errors"
	"github.com/pratik-mahalle/alertprobe/pkg/client"
)

func newAlertCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "alert",
		Short: "Manage alerts",
	}

	cmd.AddCommand(newAlertListCmd())
	cmd.AddCommand(newAlertGetCmd())
	cmd.AddCommand(newAlertFindCmd())
	cmd.AddCommand(newAlertStatusCmd())
	cmd.AddCommand(newAlertCommentCmd())
	cmd.AddCommand(newAlertRemediateCmd())
	cmd.AddCommand(newAlertWaitCmd())

	return cmd
}

func newAlertListCmd() *cobra.Command {
	var status, runID string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List alerts",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			opts := &client.AlertListOptions{RunID: runID}
			if status != "" {
				s, err := alert.ParseLabel(status)
				if err != nil {
					return err
				}
				opts.Status = s
			}

			alerts, err := apiClient.Alerts().List(ctx, opts)
			if err != nil {
				return fmt.Errorf("failed to list alerts: %w", err)
			}

			format := getOutputFormat()
			if format != "table" {
				return printOutput(alerts)
			}

			t := NewTable("ID", "SEVERITY", "STATUS", "REMEDIATION", "POLICY", "ASSET")
			for _, a := range alerts {
				t.AddRow(
					a.ID,
					formatSeverity(a.Severity),
					formatStatus(string(a.Status)),
					remediationMode(a),
					truncate(a.PolicyName, 40),
					truncate(a.AssetDisplayName, 30),
				)
			}
			t.Render()
			return nil
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "filter by status (value or UI label)")
	cmd.Flags().StringVar(&runID, "run-id", "", "filter by the scan that raised the alert")

	return cmd
}

func newAlertGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show alert details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := apiClient.Alerts().Get(context.Background(), args[0])
			if err != nil {
				return fmt.Errorf("failed to get alert: %w", err)
			}

			if getOutputFormat() != "table" {
				return printOutput(a)
			}
			printAlert(a)
			return nil
		},
	}
}

func newAlertFindCmd() *cobra.Command {
	var policyCell, assetCell, status, toggle string

	cmd := &cobra.Command{
		Use:   "find",
		Short: "Find the alert shown in a UI table row",
		Long: `Resolve the policy and asset text of a UI table row to a single alert.
Exact matches are preferred; containment is tried for truncated cells.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			opts := &client.AlertListOptions{}
			if status != "" {
				s, err := alert.ParseLabel(status)
				if err != nil {
					return err
				}
				opts.Status = s
			}

			alerts, err := apiClient.Alerts().List(ctx, opts)
			if err != nil {
				return fmt.Errorf("failed to list alerts: %w", err)
			}

			if toggle != "" {
				auto, err := alert.ParseToggle(toggle)
				if err != nil {
					return err
				}
				kept := alerts[:0]
				for _, a := range alerts {
					if a.IsAutoRemediate() == auto {
						kept = append(kept, a)
					}
				}
				alerts = kept
			}

			row := alert.RowObservation(policyCell, assetCell)
			a, err := alert.FindByIdentity(alert.ResolveIdentity(row), alerts)
			if err != nil {
				return err
			}

			if getOutputFormat() != "table" {
				return printOutput(a)
			}
			if _, loose := alert.MatchFragment(row, a.Observation()); loose {
				fmt.Fprintln(stdout, "Matched by containment")
			}
			printAlert(a)
			return nil
		},
	}

	cmd.Flags().StringVar(&policyCell, "policy", "", "policy cell text")
	cmd.Flags().StringVar(&assetCell, "asset", "", "asset cell text")
	cmd.Flags().StringVar(&status, "status", "", "only consider alerts in this status (value or UI label)")
	cmd.Flags().StringVar(&toggle, "auto", "", "only consider alerts whose auto-remediate toggle reads ON or OFF")

	return cmd
}

func printAlert(a *alert.Alert) {
	fmt.Fprintf(stdout, "ID:           %s\n", a.ID)
	fmt.Fprintf(stdout, "Status:       %s (%s)\n", formatStatus(string(a.Status)), a.Status.Label())
	fmt.Fprintf(stdout, "Severity:     %s\n", formatSeverity(a.Severity))
	fmt.Fprintf(stdout, "Policy:       %s (%s)\n", a.PolicyName, a.PolicyID)
	fmt.Fprintf(stdout, "Asset:        %s\n", a.AssetDisplayName)
	if a.AssetLocation != "" {
		fmt.Fprintf(stdout, "Location:     %s\n", a.AssetLocation)
	}
	fmt.Fprintf(stdout, "Remediation:  %s\n", remediationMode(a))
	if a.RemediationOrigin != "" && a.RemediationOrigin != alert.OriginNone {
		fmt.Fprintf(stdout, "Origin:       %s\n", a.RemediationOrigin)
	}
	fmt.Fprintf(stdout, "Scan:         %s\n", a.RunID)
	fmt.Fprintf(stdout, "Created:      %s\n", formatTime(&a.CreatedAt))
	if next := a.ValidTransitions; len(next) > 0 {
		names := make([]string, len(next))
		for i, s := range next {
			names[i] = string(s)
		}
		fmt.Fprintf(stdout, "Next:         %s\n", strings.Join(names, ", "))
	}
	if a.Description != "" {
		fmt.Fprintf(stdout, "\n%s\n", a.Description)
	}
	if len(a.Comments) > 0 {
		fmt.Fprintf(stdout, "\nComments (%d):\n", len(a.Comments))
		for _, c := range a.Comments {
			fmt.Fprintf(stdout, "  [%s] %s: %s\n", formatTime(&c.CreatedAt), c.Author.Name, c.Message)
		}
	}
}

func newAlertStatusCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "status <id> <status>",
		Short: "Change the status of an alert",
		Long: `Change the status of an alert with a direct status update.

The change is checked against the lifecycle table before it is sent; use
--force to send it anyway and see how the backend responds.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			to, err := alert.ParseLabel(args[1])
			if err != nil {
				return err
			}

			current, err := apiClient.Alerts().Get(ctx, args[0])
			if err != nil {
				return fmt.Errorf("failed to get alert: %w", err)
			}
			if !force && !alert.CanUpdateStatus(current.Status, to) {
				return apperrors.InvalidTransition(string(current.Status), string(to))
			}

			a, err := apiClient.Alerts().UpdateStatus(ctx, args[0], to)
			if err != nil {
				return err
			}

			if getOutputFormat() != "table" {
				return printOutput(a)
			}
			fmt.Fprintf(stdout, "Alert %s: %s -> %s\n", a.ID, current.Status, a.Status)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "send the update even if the lifecycle table forbids it")

	return cmd
}

func newAlertCommentCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "comment <id> <message>",
		Short: "Add a comment to an alert",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := apiClient.Alerts().AddComment(context.Background(), args[0], strings.Join(args[1:], " "))
			if err != nil {
				return fmt.Errorf("failed to add comment: %w", err)
			}

			if getOutputFormat() != "table" {
				return printOutput(c)
			}
			fmt.Fprintf(stdout, "Comment %s added to alert %s\n", c.ID, args[0])
			return nil
		},
	}
}

func newAlertRemediateCmd() *cobra.Command {
	var note string

	cmd := &cobra.Command{
		Use:   "remediate <id>",
		Short: "Trigger remediation of an alert",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := apiClient.Alerts().Remediate(context.Background(), args[0], note)
			if err != nil {
				return fmt.Errorf("failed to remediate alert: %w", err)
			}

			if getOutputFormat() != "table" {
				return printOutput(a)
			}
			fmt.Fprintf(stdout, "Remediation triggered for alert %s (%s)\n", a.ID, a.Status)
			return nil
		},
	}

	cmd.Flags().StringVar(&note, "note", "", "remediation note")

	return cmd
}

func newAlertWaitCmd() *cobra.Command {
	var statuses []string

	cmd := &cobra.Command{
		Use:   "wait <id>",
		Short: "Wait until an alert reaches one of the given statuses",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			targets := make([]alert.Status, 0, len(statuses))
			for _, s := range statuses {
				st, err := alert.ParseLabel(s)
				if err != nil {
					return err
				}
				targets = append(targets, st)
			}

			a, err := apiClient.Alerts().WaitForStatus(context.Background(), args[0], pollOptions(), targets...)
			if err != nil {
				return err
			}

			if getOutputFormat() != "table" {
				return printOutput(a)
			}
			fmt.Fprintf(stdout, "Alert %s reached %s\n", a.ID, a.Status)
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&statuses, "status",
		[]string{string(alert.StatusRemediatedWaitingForCustomer), string(alert.StatusResolved)},
		"target status; may be repeated")

	return cmd
}
