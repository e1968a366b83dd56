package main

import (
	"io"
	"os"

	"commerce_notifier/internal/orders"

	"github.com/spf13/cobra"
)

type replayOutput struct {
	Command            string `json:"command"`
	Kind               string `json:"kind"`
	Phone              string `json:"phone,omitempty"`
	Deliverable        bool   `json:"deliverable"`
	CustomerNotified   bool   `json:"customer_notified"`
	Annotated          bool   `json:"annotated"`
	FollowUpsScheduled int    `json:"follow_ups_scheduled"`
	Error              string `json:"error,omitempty"`
}

func newReplayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "replay FILE",
		Short: "Run a saved webhook payload through classification and dispatch (- reads stdin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var r io.Reader = os.Stdin
			if args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer func() { _ = f.Close() }()
				r = f
			}

			payload, err := orders.DecodePayload(r)
			if err != nil {
				return err
			}

			ctx, cancel := signalContext(cmd.Context())
			defer cancel()

			s, err := openSession(ctx)
			if err != nil {
				return err
			}

			result, dispatchErr := s.services.Intake.Handle(ctx, payload)
			out := replayOutput{
				Command:            "replay",
				Kind:               string(result.Kind),
				Phone:              result.Phone,
				Deliverable:        result.Deliverable,
				CustomerNotified:   result.CustomerNotified,
				Annotated:          result.Annotated,
				FollowUpsScheduled: result.FollowUpsScheduled,
			}
			if dispatchErr != nil {
				out.Error = dispatchErr.Error()
			}
			if err := writeJSON(out); err != nil {
				return err
			}
			return dispatchErr
		},
	}
	return cmd
}
