// Package orders classifies raw storefront payloads into typed events.
package orders

import (
	"fmt"
	"strings"

	"commerce_notifier/internal/messages"

	"github.com/shopspring/decimal"
)

// Kind identifies the variant of an Event.
type Kind string

const (
	KindNewOrder      Kind = "new_order"
	KindAbandonedCart Kind = "abandoned_cart"
	KindInvalid       Kind = "invalid"
)

// Payload status values.
const (
	StatusProcessing = "processing"
	StatusAbandoned  = "abandoned"
)

// Event is one of NewOrder, AbandonedCart or Invalid.
type Event interface {
	Kind() Kind
}

// LineItem is one ordered product.
type LineItem struct {
	Name      string `validate:"notblank"`
	UnitPrice decimal.Decimal
	Quantity  int `validate:"gte=0"`
	ImageURL  string
}

// Label renders the item the way staff and customers see it in product lists.
func (li LineItem) Label() string {
	return fmt.Sprintf("%s - %sCFA x %d", li.Name, li.UnitPrice.String(), li.Quantity)
}

// NewOrder is a paid order entering processing.
type NewOrder struct {
	ID             string `validate:"notblank"`
	FirstName      string
	LastName       string
	City           string
	Email          string
	Neighborhood   string
	PhoneSource    string
	Phone          string
	Total          decimal.Decimal
	ShippingTotal  decimal.Decimal
	ShippingMethod string
	PaymentMethod  string
	LineItems      []LineItem `validate:"min=1,dive"`
	AttributionRef string
	ProductImage   string
}

func (NewOrder) Kind() Kind { return KindNewOrder }

// Primary returns the first line item. Callers check LineItems is non-empty.
func (o NewOrder) Primary() LineItem {
	return o.LineItems[0]
}

// ProductList is the formatted display block of every line item.
func (o NewOrder) ProductList() string {
	labels := make([]string, len(o.LineItems))
	for i, item := range o.LineItems {
		labels[i] = item.Label()
	}
	return messages.FormatList(labels)
}

// PrimaryProductName is the primary item's name up to the first " - ".
func (o NewOrder) PrimaryProductName() string {
	name, _, _ := strings.Cut(o.Primary().Name, " - ")
	return strings.TrimSpace(name)
}

// AbandonedCart is a checkout the customer left before paying.
type AbandonedCart struct {
	FirstName    string
	LastName     string
	PhoneSource  string
	Phone        string
	RawProducts  string
	Products     []string
	ProductTable string
	CheckoutURL  string
}

func (AbandonedCart) Kind() Kind { return KindAbandonedCart }

// ProductList is the formatted display block of the cart's products.
func (c AbandonedCart) ProductList() string {
	return messages.FormatList(c.Products)
}

// PrimaryProductName is the first product of the cart, or "" for an empty cart.
func (c AbandonedCart) PrimaryProductName() string {
	if len(c.Products) == 0 {
		return ""
	}
	return strings.TrimSpace(c.Products[0])
}

// ProductImages returns the <img> sources of the cart's product table.
func (c AbandonedCart) ProductImages() []string {
	return ImageLinks(c.ProductTable)
}

// Invalid is a payload that could not be classified. Cause explains why.
type Invalid struct {
	Status string
	Cause  error
}

func (Invalid) Kind() Kind { return KindInvalid }
