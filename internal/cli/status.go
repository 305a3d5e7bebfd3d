package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pratik-mahalle/alertprobe/internal/domain/alert"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show alert and scanner summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			alerts, alertsErr := apiClient.Alerts().List(ctx, nil)
			counts := make(map[alert.Status]int)
			auto := 0
			for _, a := range alerts {
				counts[a.Status]++
				if a.IsAutoRemediate() {
					auto++
				}
			}
			scanner, scanErr := apiClient.Scans().Status(ctx)

			format := getOutputFormat()
			if format != "table" {
				summary := map[string]interface{}{}
				if alertsErr == nil {
					byStatus := map[string]int{}
					for s, n := range counts {
						byStatus[string(s)] = n
					}
					summary["alerts"] = len(alerts)
					summary["alertsByStatus"] = byStatus
					summary["autoRemediated"] = auto
				}
				if scanErr == nil {
					summary["scanner"] = scanner
				}
				return printOutput(summary)
			}

			fmt.Fprintln(stdout, "alertprobe summary")
			fmt.Fprintln(stdout, strings.Repeat("=", 40))

			// Alerts
			if alertsErr != nil {
				fmt.Fprintf(stdout, "  Alerts:        (error: %v)\n", alertsErr)
			} else {
				fmt.Fprintf(stdout, "  Alerts:        %d total (%d auto-remediated)\n", len(alerts), auto)
				for _, s := range alert.AllStatuses {
					if n := counts[s]; n > 0 {
						fmt.Fprintf(stdout, "    %-32s %d\n", s.Label()+":", n)
					}
				}
			}

			// Scanner
			if scanErr != nil {
				fmt.Fprintf(stdout, "  Scanner:       (error: %v)\n", scanErr)
			} else {
				fmt.Fprintf(stdout, "  Scanner:       %s", scanner.Status)
				if scanner.LastCompleted != nil {
					fmt.Fprintf(stdout, " (last scan %s, %d alerts)", scanner.LastCompleted.ScanID, scanner.LastCompleted.AlertsCreatedCount)
				}
				fmt.Fprintln(stdout)
			}

			return nil
		},
	}
}
