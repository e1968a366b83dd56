package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"commerce_notifier/internal/bootstrap"
	"commerce_notifier/platform/config"
	"commerce_notifier/platform/logger"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "notifierctl",
		Short:        "Maintenance tools for the commerce notifier",
		SilenceUsage: true,
	}
	cmd.AddCommand(
		newVerifyWorkbookCmd(),
		newSplitWorkbookCmd(),
		newFillCatalogCmd(),
		newProspectCmd(),
		newReplayCmd(),
	)
	return cmd
}

// session is the configuration and services shared by every command.
type session struct {
	cfg      *config.Config
	log      *logger.Logger
	services *bootstrap.Services
}

// openSession loads configuration and builds services without a database.
// Commands run interactively and log to stderr.
func openSession(ctx context.Context) (*session, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	log := logger.NewWithWriter(cfg.Env, os.Stderr)

	services, err := bootstrap.Build(ctx, cfg, nil, log)
	if err != nil {
		return nil, err
	}
	return &session{cfg: cfg, log: log, services: services}, nil
}

func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}
