package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/pratik-mahalle/alertprobe/internal/domain/scan"
)

func newScanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Run and inspect scans",
	}

	cmd.AddCommand(newScanStartCmd())
	cmd.AddCommand(newScanGetCmd())
	cmd.AddCommand(newScanListCmd())
	cmd.AddCommand(newScanStatusCmd())
	cmd.AddCommand(newScanWaitCmd())

	return cmd
}

func newScanStartCmd() *cobra.Command {
	var wait bool

	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start a scan",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			sc, err := apiClient.Scans().Start(ctx)
			if err != nil {
				return fmt.Errorf("failed to start scan: %w", err)
			}
			if wait {
				if sc, err = apiClient.Scans().WaitForComplete(ctx, sc.ID, scanPollOptions()); err != nil {
					return err
				}
			}

			if getOutputFormat() != "table" {
				return printOutput(sc)
			}
			printScan(sc)
			return nil
		},
	}

	cmd.Flags().BoolVar(&wait, "wait", false, "wait for the scan to complete")

	return cmd
}

func newScanGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show a scan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := apiClient.Scans().Get(context.Background(), args[0])
			if err != nil {
				return fmt.Errorf("failed to get scan: %w", err)
			}

			if getOutputFormat() != "table" {
				return printOutput(sc)
			}
			printScan(sc)
			return nil
		},
	}
}

func printScan(sc *scan.Scan) {
	fmt.Fprintf(stdout, "ID:              %s\n", sc.ID)
	fmt.Fprintf(stdout, "Status:          %s\n", formatStatus(string(sc.Status)))
	fmt.Fprintf(stdout, "Started:         %s\n", formatTime(&sc.StartedAt))
	fmt.Fprintf(stdout, "Completed:       %s\n", formatTime(sc.CompletedAt))
	if sc.IsCompleted() {
		fmt.Fprintf(stdout, "Assets scanned:  %d\n", sc.ScannedAssetsCount)
		fmt.Fprintf(stdout, "Alerts created:  %d\n", sc.AlertsCreatedCount)
	}
}

func newScanListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List scans",
		RunE: func(cmd *cobra.Command, args []string) error {
			scans, err := apiClient.Scans().List(context.Background())
			if err != nil {
				return fmt.Errorf("failed to list scans: %w", err)
			}

			if getOutputFormat() != "table" {
				return printOutput(scans)
			}

			t := NewTable("ID", "STATUS", "STARTED", "COMPLETED", "ASSETS", "ALERTS")
			for _, sc := range scans {
				t.AddRow(
					sc.ID,
					formatStatus(string(sc.Status)),
					formatTime(&sc.StartedAt),
					formatTime(sc.CompletedAt),
					strconv.Itoa(sc.ScannedAssetsCount),
					strconv.Itoa(sc.AlertsCreatedCount),
				)
			}
			t.Render()
			return nil
		},
	}
}

func newScanStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show what the scanner is doing",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := apiClient.Scans().Status(context.Background())
			if err != nil {
				return fmt.Errorf("failed to get scan status: %w", err)
			}

			if getOutputFormat() != "table" {
				return printOutput(st)
			}

			fmt.Fprintf(stdout, "Scanner:         %s\n", formatStatus(string(st.Status)))
			if st.ScanID != "" {
				fmt.Fprintf(stdout, "Running scan:    %s (since %s)\n", st.ScanID, formatTime(st.StartedAt))
			}
			if st.LastCompleted != nil {
				fmt.Fprintf(stdout, "Last completed:  %s at %s, %d alerts\n",
					st.LastCompleted.ScanID, formatTime(&st.LastCompleted.CompletedAt), st.LastCompleted.AlertsCreatedCount)
			}
			return nil
		},
	}
}

func newScanWaitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "wait <id>",
		Short: "Wait for a scan to complete",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := apiClient.Scans().WaitForComplete(context.Background(), args[0], scanPollOptions())
			if err != nil {
				return err
			}

			if getOutputFormat() != "table" {
				return printOutput(sc)
			}
			printScan(sc)
			return nil
		},
	}
}
