package http

import (
	"context"

	"commerce_notifier/platform/config"
	"commerce_notifier/platform/logger"
)

// HealthChecker exposes minimal functionality for readiness checks.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// App holds the fully initialized application dependencies.
// This is populated by main.go (the composition root) and passed to the router.
type App struct {
	// Config holds the router configuration.
	Config config.HTTPConfig
	// Logger is the structured logger.
	Logger *logger.Logger
	// Health is used for readiness checks. It may be nil when no database is configured.
	Health HealthChecker
	// Modules contains all HTTP-facing modules.
	Modules []Module
}
