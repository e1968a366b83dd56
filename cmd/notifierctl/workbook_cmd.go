package main

import (
	"time"

	"commerce_notifier/internal/verifier"
	"commerce_notifier/internal/workbook"

	"github.com/spf13/cobra"
)

type verifyOutput struct {
	Command    string           `json:"command"`
	File       string           `json:"file"`
	DurationMS int64            `json:"duration_ms"`
	Summary    verifier.Summary `json:"summary"`
}

func newVerifyWorkbookCmd() *cobra.Command {
	var (
		sheet       string
		concurrency int
	)

	cmd := &cobra.Command{
		Use:   "verify-workbook FILE",
		Short: "Check every phone in column B and write Valid or Invalid into column C",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signalContext(cmd.Context())
			defer cancel()

			s, err := openSession(ctx)
			if err != nil {
				return err
			}

			start := time.Now()
			summary, err := s.services.Verifier.WithConcurrency(concurrency).Verify(ctx, workbook.Open(args[0], sheet))
			if err != nil {
				return err
			}
			return writeJSON(verifyOutput{
				Command:    "verify-workbook",
				File:       args[0],
				DurationMS: time.Since(start).Milliseconds(),
				Summary:    summary,
			})
		},
	}

	cmd.Flags().StringVar(&sheet, "sheet", workbook.ProductsSheet, "Sheet holding Owner, Phone and Status columns")
	cmd.Flags().IntVar(&concurrency, "concurrency", 4, "Parallel number checks")
	return cmd
}

func newSplitWorkbookCmd() *cobra.Command {
	var (
		sheet       string
		concurrency int
	)

	cmd := &cobra.Command{
		Use:   "split-workbook FILE VALID INVALID",
		Short: "Copy rows into separate workbooks by WhatsApp validity",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signalContext(cmd.Context())
			defer cancel()

			s, err := openSession(ctx)
			if err != nil {
				return err
			}

			start := time.Now()
			summary, err := s.services.Verifier.WithConcurrency(concurrency).Split(ctx,
				workbook.Open(args[0], sheet),
				workbook.Open(args[1], workbook.ProductsSheet),
				workbook.Open(args[2], workbook.ProductsSheet),
			)
			if err != nil {
				return err
			}
			return writeJSON(verifyOutput{
				Command:    "split-workbook",
				File:       args[0],
				DurationMS: time.Since(start).Milliseconds(),
				Summary:    summary,
			})
		},
	}

	cmd.Flags().StringVar(&sheet, "sheet", workbook.ProductsSheet, "Sheet holding Owner, Phone and Status columns")
	cmd.Flags().IntVar(&concurrency, "concurrency", 4, "Parallel number checks")
	return cmd
}
