package leads

import (
	"context"
	"errors"
	"strings"

	"commerce_notifier/internal/catalog"
	"commerce_notifier/internal/notification"
	"commerce_notifier/platform/apperr"
	"commerce_notifier/platform/logger"

	"github.com/shopspring/decimal"
)

// ProductSource picks a product row: name, price, link, image.
type ProductSource interface {
	RandomRow() ([]string, error)
}

// Prospecter sends prospecting messages to one lead.
type Prospecter interface {
	Prospect(ctx context.Context, lead notification.Recipient, product catalog.Product) (bool, error)
}

// Report summarizes a prospecting run.
type Report struct {
	Product catalog.Product
	Sampled int
	Sent    int
	Skipped int
}

// Prospector is the periodic prospecting entry point.
type Prospector struct {
	resampler  *Resampler
	products   ProductSource
	dispatcher Prospecter
	log        *logger.Logger
}

func NewProspector(resampler *Resampler, products ProductSource, dispatcher Prospecter, log *logger.Logger) *Prospector {
	if log == nil {
		log = logger.Discard()
	}
	return &Prospector{resampler: resampler, products: products, dispatcher: dispatcher, log: log}
}

// Run picks one product, samples leads and prospects each of them with it.
// An empty product sheet or lead sheet fails the run before any lead is
// marked. Send failures for one lead do not stop the others.
func (p *Prospector) Run(ctx context.Context) (Report, error) {
	row, err := p.products.RandomRow()
	if err != nil {
		return Report{}, err
	}
	product, err := productFromRow(row)
	if err != nil {
		return Report{}, err
	}

	leads, err := p.resampler.Sample(ctx)
	if err != nil {
		return Report{Product: product}, err
	}

	report := Report{Product: product, Sampled: len(leads)}
	var errs []error
	for _, lead := range leads {
		sent, err := p.dispatcher.Prospect(ctx, notification.Recipient{FirstName: lead.FirstName, Phone: lead.Phone}, product)
		switch {
		case err != nil:
			errs = append(errs, err)
		case sent:
			report.Sent++
		default:
			report.Skipped++
		}
	}

	p.log.Info("prospecting run finished",
		"product", product.Name,
		"sampled", report.Sampled,
		"sent", report.Sent,
		"skipped", report.Skipped,
	)
	return report, errors.Join(errs...)
}

func productFromRow(row []string) (catalog.Product, error) {
	cell := func(i int) string {
		if i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}

	if cell(0) == "" {
		return catalog.Product{}, apperr.NoData("product row has no name").WithOp("leads.productFromRow")
	}

	price, err := decimal.NewFromString(cell(1))
	if err != nil {
		price = decimal.Zero
	}
	return catalog.Product{Name: cell(0), Price: price, Link: cell(2), Image: cell(3)}, nil
}
