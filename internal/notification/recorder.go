package notification

import (
	"context"
	"errors"
	"fmt"

	"commerce_notifier/internal/catalog"
	"commerce_notifier/internal/messages"
	"commerce_notifier/internal/orders"
	"commerce_notifier/platform/logger"
)

// SheetAppender appends a row to the remote lead sheet.
type SheetAppender interface {
	Append(ctx context.Context, values []string) error
}

// RowAppender appends a row to a local workbook sheet.
type RowAppender interface {
	AppendRow(values []string) error
}

// ProductFinder looks a product up by exact name.
type ProductFinder interface {
	FindProduct(ctx context.Context, name string) (catalog.Product, bool, error)
}

// Capture stores every dispatched customer as a lead and keeps a ready-made
// prospection message pair for the product they showed interest in.
type Capture struct {
	leads       SheetAppender
	prospection RowAppender
	products    ProductFinder
	renderer    *messages.Renderer
	log         *logger.Logger
}

// NewCapture creates a Capture. Any sink may be nil and is then skipped.
func NewCapture(leads SheetAppender, prospection RowAppender, products ProductFinder, renderer *messages.Renderer, log *logger.Logger) *Capture {
	if log == nil {
		log = logger.Discard()
	}
	return &Capture{leads: leads, prospection: prospection, products: products, renderer: renderer, log: log}
}

// Record writes the prospection row first, then the lead row
// [first name, last name, phone]. Both are attempted.
func (c *Capture) Record(ctx context.Context, event orders.Event, phoneNumber string) error {
	var (
		first, last string
		row         []string
		err         error
	)

	switch e := event.(type) {
	case orders.NewOrder:
		first, last = e.FirstName, e.LastName
		row, err = c.orderProspection(e)
	case orders.AbandonedCart:
		first, last = e.FirstName, e.LastName
		row, err = c.cartProspection(ctx, e)
	default:
		return fmt.Errorf("cannot record %s event", event.Kind())
	}

	var errs []error
	if err != nil {
		errs = append(errs, err)
	} else if c.prospection != nil {
		if err := c.prospection.AppendRow(row); err != nil {
			errs = append(errs, fmt.Errorf("append prospection row: %w", err))
		}
	}

	if c.leads != nil {
		if err := c.leads.Append(ctx, []string{first, last, phoneNumber}); err != nil {
			errs = append(errs, fmt.Errorf("append lead row: %w", err))
		}
	}
	return errors.Join(errs...)
}

func (c *Capture) orderProspection(order orders.NewOrder) ([]string, error) {
	if len(order.LineItems) == 0 {
		return nil, fmt.Errorf("order %s has no line items", order.ID)
	}
	vars := messages.Vars{
		"product_name":  order.PrimaryProductName(),
		"product_price": order.Primary().UnitPrice.String(),
	}
	return c.renderPair(messages.FrNewOrderProspection, messages.EnNewOrderProspection, vars, order.ProductImage)
}

func (c *Capture) cartProspection(ctx context.Context, cart orders.AbandonedCart) ([]string, error) {
	name := cart.PrimaryProductName()
	vars := messages.Vars{"product_name": name, "product_link": cart.CheckoutURL}

	if c.products != nil {
		product, ok, err := c.products.FindProduct(ctx, name)
		switch {
		case err != nil:
			c.log.Warn("catalog lookup failed", "product", name, "error", err)
		case ok:
			vars["product_link"] = product.Link
			vars["product_price"] = product.Price.String()
		}
	}

	image := ""
	if images := cart.ProductImages(); len(images) > 0 {
		image = images[0]
	}
	return c.renderPair(messages.FrCartProspection, messages.EnCartProspection, vars, image)
}

func (c *Capture) renderPair(fr, en string, vars messages.Vars, image string) ([]string, error) {
	frText, err := c.renderer.RenderText(fr, vars)
	if err != nil {
		return nil, err
	}
	enText, err := c.renderer.RenderText(en, vars)
	if err != nil {
		return nil, err
	}
	return []string{frText, enText, image}, nil
}
