// Package tenants provides lazy-loaded access to the embedded reseller
// registry. Resellers share the main catalog but see a restricted product
// range and their own pricing policy.
package tenants

import (
	_ "embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed tenants.yaml
var tenantsRawData []byte

// CompanyInfo holds a tenant's public contact details.
type CompanyInfo struct {
	Name    string `yaml:"name" json:"name"`
	Phone   string `yaml:"phone" json:"phone,omitempty"`
	Email   string `yaml:"email" json:"email,omitempty"`
	Address string `yaml:"address" json:"address,omitempty"`
}

// Tenant is one storefront: the primary site or a white-label reseller.
type Tenant struct {
	Slug            string      `yaml:"slug" json:"slug"`
	Name            string      `yaml:"name" json:"name"`
	Domain          string      `yaml:"domain" json:"domain,omitempty"`
	StockTypes      []string    `yaml:"stock_types" json:"stockTypes,omitempty"`
	PriceMarkupPct  float64     `yaml:"price_markup_pct" json:"priceMarkupPct"`
	ShowPrices      bool        `yaml:"show_prices" json:"showPrices"`
	CheckoutEnabled bool        `yaml:"checkout_enabled" json:"checkoutEnabled"`
	CompanyInfo     CompanyInfo `yaml:"company_info" json:"companyInfo"`
}

// AllowsStockType reports whether the tenant carries products of the given
// stock type. An empty allow list means the full catalog.
func (t Tenant) AllowsStockType(stockType string) bool {
	if len(t.StockTypes) == 0 {
		return true
	}
	for _, s := range t.StockTypes {
		if s == stockType {
			return true
		}
	}
	return false
}

// registryFile is the top-level structure of the embedded YAML.
type registryFile struct {
	Tenants []Tenant `yaml:"tenants"`
}

// Registry provides lazy-loaded access to the embedded tenant registry.
type Registry struct {
	once   sync.Once
	bySlug map[string]Tenant
	order  []string
	err    error
}

// NewRegistry creates a Registry that will parse the embedded YAML on first access.
func NewRegistry() *Registry {
	return &Registry{}
}

// Get returns the tenant for a slug.
func (r *Registry) Get(slug string) (Tenant, bool, error) {
	r.once.Do(r.load)
	if r.err != nil {
		return Tenant{}, false, r.err
	}
	t, ok := r.bySlug[slug]
	return t, ok, nil
}

// All returns every tenant in registry order.
func (r *Registry) All() ([]Tenant, error) {
	r.once.Do(r.load)
	if r.err != nil {
		return nil, r.err
	}
	out := make([]Tenant, 0, len(r.order))
	for _, slug := range r.order {
		out = append(out, r.bySlug[slug])
	}
	return out, nil
}

// load parses the embedded YAML registry data.
func (r *Registry) load() {
	var f registryFile
	if err := yaml.Unmarshal(tenantsRawData, &f); err != nil {
		r.err = fmt.Errorf("tenants: parse yaml: %w", err)
		return
	}
	r.bySlug = make(map[string]Tenant, len(f.Tenants))
	for _, t := range f.Tenants {
		r.bySlug[t.Slug] = t
		r.order = append(r.order, t.Slug)
	}
}
