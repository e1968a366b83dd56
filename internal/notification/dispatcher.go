package notification

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"unicode/utf8"

	"commerce_notifier/internal/catalog"
	"commerce_notifier/internal/messages"
	"commerce_notifier/internal/orders"
	"commerce_notifier/platform/apperr"
	"commerce_notifier/platform/config"
	"commerce_notifier/platform/logger"
	"commerce_notifier/platform/phone"
)

// Staff notes appended when the customer cannot be reached on WhatsApp.
const (
	noteCallCustomer  = "\n\n*_PS: Le numéro du client n'a pas WhatsApp ; vous feriez mieux de l'appeler._*"
	noteInvalidNumber = "\n\n*_PS: Le numéro du client est invalide._*"
)

// reachableLength is the length of a well-formed +237 mobile number.
const reachableLength = 13

var lineBreaks = regexp.MustCompile(`\r\n|\r|\n`)

// Recorder persists a dispatched event. phoneNumber is the canonical phone.
type Recorder interface {
	Record(ctx context.Context, event orders.Event, phoneNumber string) error
}

// Alerter delivers developer alerts over a side channel.
type Alerter interface {
	Alert(ctx context.Context, subject, body string) error
}

// DispatchResult describes what Dispatch did for one event.
type DispatchResult struct {
	Kind               orders.Kind
	Phone              string
	Deliverable        bool
	CustomerNotified   bool
	StaffMessage       string
	Annotated          bool
	FollowUps          FollowUpPlan
	FollowUpsScheduled int
}

// Recipient is a lead being prospected.
type Recipient struct {
	FirstName string
	Phone     string
}

// Dispatcher turns classified events into staff, customer and developer
// messages.
type Dispatcher struct {
	renderer   *messages.Renderer
	messenger  *Messenger
	checker    RecipientChecker
	followUps  *FollowUps
	normalizer phone.Normalizer
	admins     []string
	devContact string
	recorder   Recorder
	alerter    Alerter
	log        *logger.Logger
}

// DispatcherDeps groups the collaborators of a Dispatcher. Recorder and
// Alerter are optional.
type DispatcherDeps struct {
	Renderer   *messages.Renderer
	Messenger  *Messenger
	Checker    RecipientChecker
	FollowUps  *FollowUps
	Normalizer phone.Normalizer
	Staff      config.StaffConfig
	Recorder   Recorder
	Alerter    Alerter
	Log        *logger.Logger
}

// NewDispatcher creates a dispatcher from deps.
func NewDispatcher(deps DispatcherDeps) *Dispatcher {
	log := deps.Log
	if log == nil {
		log = logger.Discard()
	}
	return &Dispatcher{
		renderer:   deps.Renderer,
		messenger:  deps.Messenger,
		checker:    deps.Checker,
		followUps:  deps.FollowUps,
		normalizer: deps.Normalizer,
		admins:     deps.Staff.GetAdmins(),
		devContact: deps.Staff.GetDevContact(),
		recorder:   deps.Recorder,
		alerter:    deps.Alerter,
		log:        log,
	}
}

// Dispatch notifies staff about every classifiable event and the customer
// when their number is on WhatsApp. Invalid events only raise a developer
// alert. The returned error joins every immediate send failure; staff are
// messaged even when the customer send fails.
func (d *Dispatcher) Dispatch(ctx context.Context, event orders.Event) (DispatchResult, error) {
	switch e := event.(type) {
	case orders.NewOrder:
		return d.dispatchOrder(ctx, e)
	case orders.AbandonedCart:
		return d.dispatchCart(ctx, e)
	case orders.Invalid:
		return DispatchResult{Kind: orders.KindInvalid}, d.alertInvalid(ctx, e)
	default:
		return DispatchResult{}, fmt.Errorf("unsupported event %T", event)
	}
}

func (d *Dispatcher) dispatchOrder(ctx context.Context, order orders.NewOrder) (DispatchResult, error) {
	if len(order.LineItems) == 0 {
		return DispatchResult{Kind: orders.KindNewOrder}, apperr.Validation("order has no line items").WithOp("notification.Dispatch")
	}
	result := DispatchResult{Kind: orders.KindNewOrder, Phone: d.normalizer.Normalize(order.PhoneSource)}
	vars := orderVars(order, result.Phone)

	staff, err := d.renderer.Render(messages.AdminOrder, vars)
	if err != nil {
		return result, err
	}

	var errs []error
	result.Deliverable = d.deliverable(ctx, result.Phone)
	if result.Deliverable {
		customer, err := d.renderer.Render(messages.CustomerOrder, vars)
		if err != nil {
			errs = append(errs, err)
		} else if err := d.messenger.Send(ctx, customer, result.Phone); err != nil {
			errs = append(errs, err)
		} else {
			result.CustomerNotified = true
		}
	} else {
		staff.Body += noteCallCustomer
		result.Annotated = true
	}

	result.StaffMessage = staff.Body
	if err := d.messenger.Send(ctx, staff, d.admins...); err != nil {
		errs = append(errs, err)
	}

	d.record(ctx, order, result.Phone)
	return result, errors.Join(errs...)
}

func (d *Dispatcher) dispatchCart(ctx context.Context, cart orders.AbandonedCart) (DispatchResult, error) {
	result := DispatchResult{Kind: orders.KindAbandonedCart, Phone: d.normalizer.Normalize(cart.PhoneSource)}
	vars := cartVars(cart, result.Phone)

	staff, err := d.renderer.Render(messages.AdminCart, vars)
	if err != nil {
		return result, err
	}

	var errs []error
	result.Deliverable = d.deliverable(ctx, result.Phone)
	if result.Deliverable {
		customer, err := d.renderer.Render(messages.CustomerCart, vars)
		if err != nil {
			errs = append(errs, err)
		} else {
			if err := d.messenger.Send(ctx, customer, result.Phone); err != nil {
				errs = append(errs, err)
			} else {
				result.CustomerNotified = true
			}
			if d.followUps != nil {
				result.FollowUps = d.followUps.BuildPlan(customer.Body, result.Phone)
				result.FollowUpsScheduled = d.followUps.Schedule(ctx, result.FollowUps)
			}
		}
	} else {
		if utf8.RuneCountInString(result.Phone) == reachableLength {
			staff.Body += noteCallCustomer
		} else {
			staff.Body += noteInvalidNumber
		}
		result.Annotated = true
	}

	result.StaffMessage = staff.Body
	if err := d.messenger.Send(ctx, staff, d.admins...); err != nil {
		errs = append(errs, err)
	}

	d.record(ctx, cart, result.Phone)
	return result, errors.Join(errs...)
}

// Prospect sends the French and English prospecting messages for product
// to a lead. Leads whose number is not on WhatsApp are skipped and reported
// as not sent.
func (d *Dispatcher) Prospect(ctx context.Context, lead Recipient, product catalog.Product) (bool, error) {
	to := phone.SanitizeProspect(lead.Phone)
	if !d.deliverable(ctx, to) {
		d.log.Info("prospect skipped, number not on whatsapp", "phone", to)
		return false, nil
	}

	vars := messages.Vars{
		"first_name":    lead.FirstName,
		"product_name":  lineBreaks.ReplaceAllString(product.Name, ""),
		"product_price": product.Price.String(),
		"product_link":  product.Link,
	}

	var errs []error
	for _, name := range []string{messages.FrProspection, messages.EnProspection} {
		msg, err := d.renderer.Render(name, vars)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if err := d.messenger.Send(ctx, msg.WithImages(product.Image), to); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		return false, err
	}
	return true, nil
}

// deliverable asks the gateway whether the number is on WhatsApp. A failed
// check counts as not deliverable.
func (d *Dispatcher) deliverable(ctx context.Context, phoneNumber string) bool {
	ok, err := d.checker.Exists(ctx, phoneNumber)
	if err != nil {
		d.log.Warn("recipient check failed", "phone", phoneNumber, "error", err)
		return false
	}
	return ok
}

func (d *Dispatcher) alertInvalid(ctx context.Context, invalid orders.Invalid) error {
	cause := ""
	if invalid.Cause != nil {
		cause = invalid.Cause.Error()
	}

	msg, err := d.renderer.Render(messages.InvalidPayloadAlert, messages.Vars{"cause": cause})
	if err != nil {
		return err
	}

	var errs []error
	if d.devContact != "" {
		if err := d.messenger.Send(ctx, msg, d.devContact); err != nil {
			errs = append(errs, err)
		}
	}
	if d.alerter != nil {
		if err := d.alerter.Alert(ctx, "Invalid payload received", msg.Body); err != nil {
			d.log.Warn("alert mail failed", "error", err)
		}
	}
	return errors.Join(errs...)
}

func (d *Dispatcher) record(ctx context.Context, event orders.Event, phoneNumber string) {
	if d.recorder == nil {
		return
	}
	if err := d.recorder.Record(ctx, event, phoneNumber); err != nil {
		d.log.StoreError("record "+string(event.Kind()), err)
	}
}

func orderVars(order orders.NewOrder, phoneNumber string) messages.Vars {
	primary := order.Primary()
	return messages.Vars{
		"id":              order.ID,
		"first_name":      order.FirstName,
		"last_name":       order.LastName,
		"phone":           phoneNumber,
		"phone_display":   phone.Display(phoneNumber),
		"email":           order.Email,
		"city":            order.City,
		"neighborhood":    order.Neighborhood,
		"product_names":   order.ProductList(),
		"shipping_method": order.ShippingMethod,
		"shipping_total":  order.ShippingTotal.String(),
		"payment_method":  order.PaymentMethod,
		"total":           order.Total.String(),
		"product_link":    order.AttributionRef,
		"product_name":    order.PrimaryProductName(),
		"product_price":   primary.UnitPrice.String(),
		"product_image":   order.ProductImage,
	}
}

func cartVars(cart orders.AbandonedCart, phoneNumber string) messages.Vars {
	return messages.Vars{
		"first_name":    cart.FirstName,
		"last_name":     cart.LastName,
		"phone":         phoneNumber,
		"phone_display": phone.Display(phoneNumber),
		"product_names": cart.ProductList(),
		"checkout_url":  cart.CheckoutURL,
		"product_name":  cart.PrimaryProductName(),
	}
}
