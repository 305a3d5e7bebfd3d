package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pratik-mahalle/alertprobe/pkg/client"
)

func newAdminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Administrative commands",
	}

	cmd.AddCommand(newAdminResetCmd())
	cmd.AddCommand(newAdminHealthCmd())

	return cmd
}

func newAdminResetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Reset the environment, removing all alerts and scans",
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := apiClient.Admin().Reset(context.Background())
			if err != nil {
				return fmt.Errorf("failed to reset environment: %w", err)
			}

			if getOutputFormat() != "table" {
				return printOutput(resp)
			}
			fmt.Fprintln(stdout, resp.Message)
			return nil
		},
	}
}

func newAdminHealthCmd() *cobra.Command {
	var wait bool

	cmd := &cobra.Command{
		Use:   "health",
		Short: "Check that the backend is up",
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				h   *client.HealthResponse
				err error
			)
			if wait {
				h, err = apiClient.WaitHealthy(context.Background(), pollOptions())
			} else {
				h, err = apiClient.Health(context.Background())
			}
			if err != nil {
				return fmt.Errorf("health check failed: %w", err)
			}

			if getOutputFormat() != "table" {
				return printOutput(h)
			}
			fmt.Fprintf(stdout, "%s: %s (%s)\n", h.Service, formatStatus(h.Status), h.Timestamp.Format("2006-01-02 15:04:05"))
			return nil
		},
	}

	cmd.Flags().BoolVar(&wait, "wait", false, "poll until the backend reports healthy (uses poll.timeout and poll.interval)")
	return cmd
}
