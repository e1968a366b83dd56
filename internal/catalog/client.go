// Package catalog reads products from the WooCommerce REST API.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"commerce_notifier/platform/apperr"
	"commerce_notifier/platform/config"
	"commerce_notifier/platform/logger"
	"commerce_notifier/platform/sanitize"

	"github.com/shopspring/decimal"
)

const (
	apiPath = "/wp-json/wc/v3/products"
	perPage = 100
)

// Product is the subset of a catalog product the notifier uses.
type Product struct {
	Name  string
	Price decimal.Decimal
	Link  string
	Image string
}

// Row is the workbook layout of a product: name, price, link, image.
func (p Product) Row() []string {
	return []string{p.Name, p.Price.String(), p.Link, p.Image}
}

type wcImage struct {
	Src string `json:"src"`
}

type wcProduct struct {
	Name      string    `json:"name"`
	Price     string    `json:"price"`
	Permalink string    `json:"permalink"`
	Images    []wcImage `json:"images"`
}

func (p wcProduct) toProduct() Product {
	price, err := decimal.NewFromString(strings.TrimSpace(p.Price))
	if err != nil {
		price = decimal.Zero
	}
	out := Product{Name: sanitize.Text(p.Name), Price: price, Link: p.Permalink}
	if len(p.Images) > 0 {
		out.Image = p.Images[0].Src
	}
	return out
}

type Client struct {
	baseURL string
	key     string
	secret  string
	http    *http.Client
	log     *logger.Logger
}

// NewClient returns nil when the catalog is not configured.
func NewClient(cfg config.CatalogConfig, log *logger.Logger) *Client {
	if !cfg.IsCatalogEnabled() {
		return nil
	}
	return NewClientWithHTTP(cfg.GetCatalogURL(), cfg.GetCatalogKey(), cfg.GetCatalogSecret(), &http.Client{Timeout: 15 * time.Second}, log)
}

func NewClientWithHTTP(baseURL, key, secret string, httpClient *http.Client, log *logger.Logger) *Client {
	if log == nil {
		log = logger.Discard()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		key:     key,
		secret:  secret,
		http:    httpClient,
		log:     log,
	}
}

// FindProduct searches the catalog and returns the product whose name
// matches exactly, ignoring case. ok is false when nothing matches.
func (c *Client) FindProduct(ctx context.Context, name string) (Product, bool, error) {
	name = strings.TrimSpace(name)
	if c == nil || name == "" {
		return Product{}, false, nil
	}

	products, err := c.list(ctx, url.Values{"search": {name}})
	if err != nil {
		return Product{}, false, err
	}
	for _, p := range products {
		if product := p.toProduct(); strings.EqualFold(product.Name, name) {
			return product, true, nil
		}
	}
	return Product{}, false, nil
}

// ListByCategory returns every product of a category, following pagination.
func (c *Client) ListByCategory(ctx context.Context, categoryID int) ([]Product, error) {
	if c == nil {
		return nil, apperr.Unavailable("catalog not configured", nil)
	}

	var out []Product
	for page := 1; ; page++ {
		batch, err := c.list(ctx, url.Values{
			"category": {strconv.Itoa(categoryID)},
			"per_page": {strconv.Itoa(perPage)},
			"page":     {strconv.Itoa(page)},
		})
		if err != nil {
			return nil, err
		}
		for _, p := range batch {
			out = append(out, p.toProduct())
		}
		if len(batch) < perPage {
			break
		}
	}
	c.log.Info("catalog category listed", "category", categoryID, "count", len(out))
	return out, nil
}

func (c *Client) list(ctx context.Context, query url.Values) ([]wcProduct, error) {
	endpoint := c.baseURL + apiPath + "?" + query.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.SetBasicAuth(c.key, c.secret)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, apperr.Unavailable("catalog request failed", err).WithOp("catalog.list")
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= http.StatusBadRequest {
		data, _ := io.ReadAll(resp.Body)
		msg := fmt.Sprintf("catalog returned %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
		if resp.StatusCode >= http.StatusInternalServerError {
			return nil, apperr.Unavailable(msg, nil).WithOp("catalog.list")
		}
		return nil, apperr.BadRequest(msg).WithOp("catalog.list")
	}

	var products []wcProduct
	if err := json.NewDecoder(resp.Body).Decode(&products); err != nil {
		return nil, fmt.Errorf("decode catalog response: %w", err)
	}
	return products, nil
}
