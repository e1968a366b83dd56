// Package bootstrap builds the notifier's object graph from configuration.
package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"commerce_notifier/internal/alert"
	"commerce_notifier/internal/catalog"
	"commerce_notifier/internal/intake"
	"commerce_notifier/internal/journal"
	"commerce_notifier/internal/leads"
	"commerce_notifier/internal/messages"
	"commerce_notifier/internal/notification"
	"commerce_notifier/internal/orders"
	"commerce_notifier/internal/sheets"
	"commerce_notifier/internal/verifier"
	"commerce_notifier/internal/whatsapp"
	"commerce_notifier/internal/workbook"
	"commerce_notifier/platform/config"
	"commerce_notifier/platform/logger"
	"commerce_notifier/platform/phone"
	"commerce_notifier/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Services holds every long-lived collaborator. Prospector is nil when the
// lead sheet is not configured; Journal is nil without a database.
type Services struct {
	Gateway    *whatsapp.Client
	Catalog    *catalog.Client
	Products   *workbook.Book
	Normalizer phone.Normalizer
	Dispatcher *notification.Dispatcher
	Intake     *intake.Service
	Prospector *leads.Prospector
	Verifier   *verifier.Verifier
	Journal    *journal.Repository
}

// Build wires Services. pool may be nil, in which case gateway requests are
// not journaled.
func Build(ctx context.Context, cfg *config.Config, pool *pgxpool.Pool, log *logger.Logger) (*Services, error) {
	normalizer := phone.NewNormalizer(cfg.GetDefaultCountryCode())

	templates, err := messages.DefaultCatalog()
	if err != nil {
		return nil, fmt.Errorf("load templates: %w", err)
	}
	renderer := messages.NewRenderer(templates)

	gateway := whatsapp.NewClient(cfg, log)
	var transport notification.Transport = gateway
	var journalRepo *journal.Repository
	if pool != nil {
		journalRepo = journal.New(pool)
		transport = journal.NewJournaledTransport(gateway, journalRepo, log)
	}
	messenger := notification.NewMessenger(transport, log)

	followUps, err := notification.NewFollowUps(cfg, messenger, log)
	if err != nil {
		return nil, fmt.Errorf("follow-ups: %w", err)
	}

	products := workbook.Open(cfg.GetWorkbookPath(), workbook.ProductsSheet)
	prospection := workbook.Open(cfg.GetWorkbookPath(), workbook.ProspectionSheet)
	catalogClient := catalog.NewClient(cfg, log)

	var leadSheet notification.SheetAppender
	var leadStore leads.Store
	if cfg.IsSheetsEnabled() {
		store, err := sheets.New(ctx, cfg, log)
		if err != nil {
			return nil, fmt.Errorf("lead sheet: %w", err)
		}
		leadSheet, leadStore = store, store
	} else {
		log.Warn("GOOGLE_SPREADSHEET_ID not configured; lead capture and prospecting disabled")
	}

	dispatcher := notification.NewDispatcher(notification.DispatcherDeps{
		Renderer:   renderer,
		Messenger:  messenger,
		Checker:    gateway,
		FollowUps:  followUps,
		Normalizer: normalizer,
		Staff:      cfg,
		Recorder:   notification.NewCapture(leadSheet, prospection, catalogClient, renderer, log),
		Alerter:    alerter(cfg),
		Log:        log,
	})

	checkout := orders.NewCheckoutScraper(&http.Client{Timeout: 15 * time.Second})
	classifier := orders.NewClassifier(checkout, normalizer, validator.New(), log)

	svc := &Services{
		Gateway:    gateway,
		Catalog:    catalogClient,
		Products:   products,
		Normalizer: normalizer,
		Dispatcher: dispatcher,
		Intake:     intake.New(classifier, dispatcher, log),
		Verifier:   verifier.New(gateway, normalizer, log),
		Journal:    journalRepo,
	}
	if leadStore != nil {
		svc.Prospector = leads.NewProspector(leads.NewResampler(leadStore, cfg, log), products, dispatcher, log)
	}
	return svc, nil
}

// alerter keeps a disabled mailer out of the interface so the dispatcher
// sees a true nil.
func alerter(cfg config.AlertConfig) notification.Alerter {
	if m := alert.NewMailer(cfg); m != nil {
		return m
	}
	return nil
}
