package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pratik-mahalle/alertprobe/internal/lifecycle"
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a lifecycle flow against the backend",
	}

	cmd.AddCommand(newRunManualCmd())
	cmd.AddCommand(newRunAutoCmd())

	return cmd
}

func newRunManualCmd() *cobra.Command {
	var alertID string

	cmd := &cobra.Command{
		Use:   "manual",
		Short: "Take a manually remediated alert from OPEN to RESOLVED",
		Long: `Take an OPEN, manually remediated alert through IN_PROGRESS, remediation
and RESOLVED, then add a closing comment. Without --alert-id a scan is run
and a suitable alert is picked.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			o := newOrchestrator()

			id := alertID
			if id == "" {
				candidate, sc, err := o.PrepareManualCandidate(ctx)
				if err != nil {
					return err
				}
				id = candidate.ID
				cliLogger.WithFields(map[string]interface{}{
					"alert_id": id,
					"scan_id":  sc.ID,
				}).Info("Picked manual remediation candidate")
			}

			res, err := o.RunManual(ctx, id)
			if getOutputFormat() != "table" && res != nil {
				if perr := printOutput(res); perr != nil {
					return perr
				}
			}
			if err != nil {
				if res != nil && res.Trace != nil {
					fmt.Fprintf(stdout, "Trace: %s\n", res.Trace)
				}
				return err
			}

			if getOutputFormat() == "table" {
				fmt.Fprintf(stdout, "%s manual flow passed for alert %s\n", formatStatus("PASS"), res.AlertID)
				fmt.Fprintf(stdout, "Trace:    %s\n", res.Trace)
				fmt.Fprintf(stdout, "Comments: %d -> %d\n", res.PriorComments, res.FinalComments)
				if !res.TransitionsChecked {
					fmt.Fprintln(stdout, "Backend sent no validTransitions; that check was skipped")
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&alertID, "alert-id", "", "alert to remediate (default: pick one after a scan)")

	return cmd
}

func newRunAutoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "auto",
		Short: "Probe auto-remediation and re-scan idempotency",
		Long: `Resolve an auto-remediated alert, re-scan, and look for an OPEN alert with
the same identity.

Exit status is 0 when the re-scan did not re-create the alert, 3 when it did
(a known defect of the backend), and 1 when the probe itself failed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := newOrchestrator().RunAutoProbe(context.Background())
			if err != nil {
				return &ExitError{Code: lifecycle.OutcomeFail.ExitCode(), Err: err}
			}

			if getOutputFormat() != "table" {
				if err := printOutput(res); err != nil {
					return err
				}
			} else {
				fmt.Fprintf(stdout, "Outcome:    %s\n", formatStatus(string(res.Outcome)))
				fmt.Fprintf(stdout, "Alert:      %s (%s)\n", res.OriginalID, res.Identity)
				fmt.Fprintf(stdout, "Scans:      %s, %s\n", res.FirstScanID, res.SecondScanID)
				if res.Trace != nil {
					fmt.Fprintf(stdout, "Trace:      %s\n", res.Trace)
				}
				for _, id := range res.DuplicateIDs {
					fmt.Fprintf(stdout, "Duplicate:  %s\n", id)
				}
			}

			if code := res.Outcome.ExitCode(); code != 0 {
				return &ExitError{Code: code, Err: res.Err()}
			}
			return nil
		},
	}
}
