package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/pratik-mahalle/alertprobe/internal/lifecycle"
	"github.com/pratik-mahalle/alertprobe/internal/worker"
)

func newWatchCmd() *cobra.Command {
	var (
		schedule  string
		flowNames []string
		reset     bool
		timeout   time.Duration
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Run lifecycle flows on a schedule until interrupted",
		Long: `Run the lifecycle flows on a cron schedule, logging each outcome.

The schedule is a standard five-field cron spec or a descriptor such as
"@every 10m". With --reset the environment is reset before every run.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			flows := make([]worker.Flow, 0, len(flowNames))
			for _, name := range flowNames {
				f, err := worker.ParseFlow(name)
				if err != nil {
					return err
				}
				flows = append(flows, f)
			}

			s := worker.New(newOrchestrator(), flows, timeout, cliLogger)
			if reset {
				s.BeforeRun = func(ctx context.Context) error {
					_, err := apiClient.Admin().Reset(ctx)
					return err
				}
			}
			s.OnResult = func(res worker.Result) {
				line := fmt.Sprintf("%s  %-12s %s", res.StartedAt.Format(time.RFC3339), res.Flow, formatStatus(string(res.Outcome)))
				if res.AlertID != "" {
					line += "  alert " + res.AlertID
				}
				if res.Outcome == lifecycle.OutcomeFail && res.Error != "" {
					line += "  " + res.Error
				}
				fmt.Fprintln(stdout, line)
			}
			if err := s.Schedule(schedule); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			s.Start()
			fmt.Fprintf(stdout, "Watching with schedule %q, next run at %s\n", schedule, s.NextRun().Format(time.RFC3339))
			<-ctx.Done()

			<-s.Stop().Done()
			return nil
		},
	}

	cmd.Flags().StringVar(&schedule, "schedule", "@every 10m", "cron schedule")
	cmd.Flags().StringSliceVar(&flowNames, "flow", []string{"auto", "manual"}, "flows to run: auto, manual")
	cmd.Flags().BoolVar(&reset, "reset", false, "reset the environment before every run")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "bound on each run (0 means no bound)")

	return cmd
}
