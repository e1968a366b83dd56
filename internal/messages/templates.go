// Package messages holds the message template catalog and the rendering
// rules used by every outbound notification.
package messages

import (
	"embed"
	"fmt"
	"io/fs"

	"commerce_notifier/platform/apperr"

	"gopkg.in/yaml.v3"
)

//go:embed templates/catalog.yaml
var templateFS embed.FS

// Template names.
const (
	AdminOrder            = "admin_order_message"
	CustomerOrder         = "customer_order_message"
	AdminCart             = "admin_cart_message"
	CustomerCart          = "customer_cart_message"
	FrCartProspection     = "fr_cart_prospection_message"
	EnCartProspection     = "en_cart_prospection_message"
	FrNewOrderProspection = "fr_new_order_prospection_message"
	EnNewOrderProspection = "en_new_order_prospection_message"
	FrProspection         = "fr_prospection_message"
	EnProspection         = "en_prospection_message"
	InvalidPayloadAlert   = "invalid_payload_alert"
)

// Locale tags a rendered message with its language.
type Locale string

const (
	LocaleFR Locale = "fr"
	LocaleEN Locale = "en"
)

// Template is a named static body.
type Template struct {
	Name   string
	Locale Locale
	Body   string
}

type catalogFile struct {
	Templates map[string]struct {
		Locale Locale `yaml:"locale"`
		Body   string `yaml:"body"`
	} `yaml:"templates"`
}

// Store loads templates by name.
type Store interface {
	Load(name string) (Template, error)
}

// Catalog is an immutable in-memory Store.
type Catalog struct {
	templates map[string]Template
}

// DefaultCatalog parses the embedded template catalog.
func DefaultCatalog() (*Catalog, error) {
	data, err := fs.ReadFile(templateFS, "templates/catalog.yaml")
	if err != nil {
		return nil, fmt.Errorf("read template catalog: %w", err)
	}
	return ParseCatalog(data)
}

// ParseCatalog builds a Catalog from YAML.
func ParseCatalog(data []byte) (*Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse template catalog: %w", err)
	}

	templates := make(map[string]Template, len(file.Templates))
	for name, entry := range file.Templates {
		locale := entry.Locale
		if locale != LocaleEN {
			locale = LocaleFR
		}
		templates[name] = Template{Name: name, Locale: locale, Body: entry.Body}
	}
	return &Catalog{templates: templates}, nil
}

// NewCatalog builds a Catalog from already-loaded templates.
func NewCatalog(templates ...Template) *Catalog {
	c := &Catalog{templates: make(map[string]Template, len(templates))}
	for _, t := range templates {
		c.templates[t.Name] = t
	}
	return c
}

// Load returns the named template or a not-found error.
func (c *Catalog) Load(name string) (Template, error) {
	t, ok := c.templates[name]
	if !ok {
		return Template{}, apperr.NotFound(fmt.Sprintf("template %q", name)).WithOp("messages.Load")
	}
	return t, nil
}
