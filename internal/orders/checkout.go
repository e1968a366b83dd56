package orders

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const billingPhoneField = "billing_phone"

// BillingPhoneFetcher reads the billing phone a customer typed into a checkout page.
type BillingPhoneFetcher interface {
	BillingPhone(ctx context.Context, checkoutURL string) (string, error)
}

// CheckoutScraper fetches checkout pages and reads the billing_phone form input.
type CheckoutScraper struct {
	http *http.Client
}

// NewCheckoutScraper creates a scraper. A nil client gets a 10s default.
func NewCheckoutScraper(client *http.Client) *CheckoutScraper {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &CheckoutScraper{http: client}
}

// BillingPhone fetches checkoutURL and returns the value of its billing_phone input.
func (s *CheckoutScraper) BillingPhone(ctx context.Context, checkoutURL string) (string, error) {
	if strings.TrimSpace(checkoutURL) == "" {
		return "", fmt.Errorf("checkout url is empty")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, checkoutURL, nil)
	if err != nil {
		return "", err
	}

	resp, err := s.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch checkout page: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= http.StatusBadRequest {
		return "", fmt.Errorf("checkout page returned %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", fmt.Errorf("parse checkout page: %w", err)
	}

	fields := make(map[string]string)
	doc.Find("input").Each(func(_ int, input *goquery.Selection) {
		name, _ := input.Attr("name")
		if name == "" {
			return
		}
		value, _ := input.Attr("value")
		fields[name] = value
	})

	value, ok := fields[billingPhoneField]
	if !ok {
		return "", fmt.Errorf("checkout page has no %s input", billingPhoneField)
	}
	return value, nil
}
