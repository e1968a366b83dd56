package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"commerce_notifier/platform/logger"
	"commerce_notifier/platform/phone"
	"commerce_notifier/platform/validator"
)

// attributionMetaKey is the order meta entry holding the storefront session entry URL.
const attributionMetaKey = "_wc_order_attribution_session_entry"

// ErrUnknownStatus is the cause of an Invalid event whose status is missing or unsupported.
var ErrUnknownStatus = errors.New("unknown payload status")

// Classifier maps raw payloads to events.
type Classifier struct {
	checkout   BillingPhoneFetcher
	normalizer phone.Normalizer
	val        *validator.Validator
	log        *logger.Logger
}

// NewClassifier creates a Classifier. checkout may be nil, in which case
// payloads without a phone number keep an empty phone source.
func NewClassifier(checkout BillingPhoneFetcher, normalizer phone.Normalizer, val *validator.Validator, log *logger.Logger) *Classifier {
	if val == nil {
		val = validator.New()
	}
	if log == nil {
		log = logger.Discard()
	}
	return &Classifier{checkout: checkout, normalizer: normalizer, val: val, log: log}
}

// Classify never fails: malformed payloads come back as Invalid with a Cause.
func (c *Classifier) Classify(ctx context.Context, payload Payload) Event {
	status := payload.OptString("status")
	if status == "" {
		status = payload.OptString("order_status")
	}

	var (
		event Event
		err   error
	)

	switch status {
	case StatusProcessing:
		event, err = c.newOrder(ctx, payload)
	case StatusAbandoned:
		event, err = c.abandonedCart(ctx, payload)
	default:
		err = fmt.Errorf("%w: %q", ErrUnknownStatus, status)
	}

	if err != nil {
		invalid := Invalid{Status: status, Cause: err}
		c.log.EventClassified(string(KindInvalid), err)
		return invalid
	}

	c.log.EventClassified(string(event.Kind()), nil)
	return event
}

func (c *Classifier) newOrder(ctx context.Context, payload Payload) (NewOrder, error) {
	id, err := payload.String("id")
	if err != nil {
		return NewOrder{}, err
	}

	billing, err := payload.Object("billing")
	if err != nil {
		return NewOrder{}, err
	}

	items, err := lineItems(payload)
	if err != nil {
		return NewOrder{}, err
	}

	total, err := payload.Decimal("total")
	if err != nil {
		return NewOrder{}, err
	}

	shipping := Payload{}
	if lines := payload.OptObjects("shipping_lines"); len(lines) > 0 {
		shipping = lines[0]
	}

	order := NewOrder{
		ID:             id,
		FirstName:      billing.OptString("first_name"),
		LastName:       billing.OptString("last_name"),
		City:           billing.OptString("city"),
		Email:          billing.OptString("email"),
		Neighborhood:   billing.OptString("address_1"),
		Total:          total,
		ShippingTotal:  shipping.OptDecimal("total"),
		ShippingMethod: shipping.OptString("method_title"),
		PaymentMethod:  payload.OptString("payment_method_title"),
		LineItems:      items,
		AttributionRef: attributionRef(payload.OptObjects("meta_data")),
	}
	if len(items) > 0 {
		order.ProductImage = items[0].ImageURL
	}

	if err := c.val.Struct(order); err != nil {
		return NewOrder{}, err
	}

	order.PhoneSource = c.phoneSource(ctx, payload, billing)
	order.Phone = c.normalizer.Normalize(order.PhoneSource)
	return order, nil
}

func (c *Classifier) abandonedCart(ctx context.Context, payload Payload) (AbandonedCart, error) {
	raw, err := payload.String("product_names")
	if err != nil {
		return AbandonedCart{}, err
	}

	cart := AbandonedCart{
		FirstName:    payload.OptString("first_name"),
		LastName:     payload.OptString("last_name"),
		RawProducts:  raw,
		Products:     SplitProductNames(raw),
		ProductTable: payload.OptString("product_table"),
		CheckoutURL:  payload.OptString("checkout_url"),
	}

	cart.PhoneSource = c.phoneSource(ctx, payload, payload.OptObject("billing"))
	cart.Phone = c.normalizer.Normalize(cart.PhoneSource)
	return cart, nil
}

func lineItems(payload Payload) ([]LineItem, error) {
	raw, err := payload.Objects("line_items")
	if err != nil {
		return nil, err
	}

	items := make([]LineItem, 0, len(raw))
	for i, entry := range raw {
		name, err := entry.String("name")
		if err != nil {
			return nil, fmt.Errorf("line_items[%d]: %w", i, err)
		}
		price, err := entry.Decimal("price")
		if err != nil {
			return nil, fmt.Errorf("line_items[%d]: %w", i, err)
		}
		quantity, err := entry.Int("quantity")
		if err != nil {
			return nil, fmt.Errorf("line_items[%d]: %w", i, err)
		}
		items = append(items, LineItem{
			Name:      name,
			UnitPrice: price,
			Quantity:  quantity,
			ImageURL:  entry.OptObject("image").OptString("src"),
		})
	}
	return items, nil
}

func attributionRef(meta []Payload) string {
	for _, entry := range meta {
		if entry.OptString("key") == attributionMetaKey {
			return entry.OptString("value")
		}
	}
	return ""
}

// phoneSource resolves the raw phone: explicit field, then the billing block,
// then the checkout page. Blank values count as absent. A failed checkout
// fetch leaves the source empty.
func (c *Classifier) phoneSource(ctx context.Context, payload, billing Payload) string {
	for _, candidate := range []string{
		payload.OptString("phone_number"),
		payload.OptString("phone"),
		billing.OptString("phone"),
	} {
		if strings.TrimSpace(candidate) != "" {
			return candidate
		}
	}

	checkoutURL := payload.OptString("checkout_url")
	if c.checkout == nil || checkoutURL == "" {
		return ""
	}

	scraped, err := c.checkout.BillingPhone(ctx, checkoutURL)
	if err != nil {
		c.log.Warn("checkout phone lookup failed", "url", checkoutURL, "error", err)
		return ""
	}
	return scraped
}
