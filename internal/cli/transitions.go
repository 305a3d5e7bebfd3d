package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pratik-mahalle/alertprobe/internal/domain/alert"
)

type transitionRow struct {
	From         alert.Status  `json:"from"`
	To           alert.Status  `json:"to"`
	Trigger      alert.Trigger `json:"trigger"`
	StatusUpdate bool          `json:"statusUpdate"`
}

func newTransitionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "transitions [status]",
		Short: "Print the alert lifecycle table",
		Long: `Print the legal alert status transitions, optionally only those leaving
the given status. STATUS UPDATE marks edges a direct status update may take;
the others need the remediate action or happen on the backend.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			from := alert.AllStatuses
			if len(args) == 1 {
				s, err := alert.ParseLabel(args[0])
				if err != nil {
					return err
				}
				from = []alert.Status{s}
			}

			var rows []transitionRow
			for _, f := range from {
				for _, to := range alert.AllTransitionsFrom(f) {
					trigger, _ := alert.TriggerFor(f, to)
					rows = append(rows, transitionRow{
						From:         f,
						To:           to,
						Trigger:      trigger,
						StatusUpdate: alert.CanUpdateStatus(f, to),
					})
				}
			}

			if getOutputFormat() != "table" {
				return printOutput(rows)
			}

			t := NewTable("FROM", "TO", "TRIGGER", "STATUS UPDATE")
			for _, r := range rows {
				t.AddRow(string(r.From), string(r.To), string(r.Trigger), formatBool(r.StatusUpdate))
			}
			t.Render()
			if len(rows) == 0 {
				fmt.Fprintf(stdout, "%s is terminal\n", from[0])
			}
			return nil
		},
	}
}
