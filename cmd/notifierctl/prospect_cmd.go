package main

import (
	"errors"

	"commerce_notifier/internal/scheduler"

	"github.com/spf13/cobra"
)

type prospectOutput struct {
	Command string `json:"command"`
	TaskID  string `json:"task_id,omitempty"`
	Product string `json:"product,omitempty"`
	Sampled int    `json:"sampled"`
	Sent    int    `json:"sent"`
	Skipped int    `json:"skipped"`
}

func newProspectCmd() *cobra.Command {
	var enqueue bool

	cmd := &cobra.Command{
		Use:   "prospect",
		Short: "Run one prospecting pass now, or queue it for the scheduler",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signalContext(cmd.Context())
			defer cancel()

			s, err := openSession(ctx)
			if err != nil {
				return err
			}

			if enqueue {
				client, err := scheduler.NewClient(s.cfg)
				if err != nil {
					return err
				}
				defer func() { _ = client.Close() }()

				id, err := client.EnqueueProspect(ctx, "notifierctl")
				if err != nil {
					return err
				}
				return writeJSON(prospectOutput{Command: "prospect", TaskID: id})
			}

			if s.services.Prospector == nil {
				return errors.New("GOOGLE_CREDENTIALS_FILE and GOOGLE_SPREADSHEET_ID are required")
			}
			report, runErr := s.services.Prospector.Run(ctx)
			if err := writeJSON(prospectOutput{
				Command: "prospect",
				Product: report.Product.Name,
				Sampled: report.Sampled,
				Sent:    report.Sent,
				Skipped: report.Skipped,
			}); err != nil {
				return err
			}
			return runErr
		},
	}

	cmd.Flags().BoolVar(&enqueue, "enqueue", false, "Queue the run on asynq instead of running it here")
	return cmd
}
