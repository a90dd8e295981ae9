package testutil

import (
	"strings"

	"github.com/veloparts/storefront/pkg/models"
)

// NewProduct returns a Product with sensible defaults, suitable for test
// fixtures. Override individual fields through options as needed.
func NewProduct(sku string, opts ...func(*models.Product)) models.Product {
	p := models.Product{
		Sku:          sku,
		Description:  "Test part " + sku,
		Price:        25.00,
		Weight:       0.5,
		Categories:   models.CategoryPath("Braking System/Brake Pads"),
		StockType:    models.StockOriginalEquip,
		InStock:      true,
		AvailableNow: 10,
	}
	for _, opt := range opts {
		opt(&p)
	}
	return p
}

// WithDescription sets the product description.
func WithDescription(desc string) func(*models.Product) {
	return func(p *models.Product) { p.Description = desc }
}

// WithPrice sets the product price.
func WithPrice(price float64) func(*models.Product) {
	return func(p *models.Product) { p.Price = price }
}

// WithWeight sets the product weight in kilograms.
func WithWeight(kg float64) func(*models.Product) {
	return func(p *models.Product) { p.Weight = kg }
}

// WithCategories sets the product category paths, joined with "|".
func WithCategories(paths ...string) func(*models.Product) {
	return func(p *models.Product) {
		p.Categories = models.CategoryPath(strings.Join(paths, "|"))
	}
}

// WithStockType sets the product stock type.
func WithStockType(st models.StockType) func(*models.Product) {
	return func(p *models.Product) { p.StockType = st }
}

// WithParent sets the product's parent SKU.
func WithParent(parent string) func(*models.Product) {
	return func(p *models.Product) { p.ParentSku = parent }
}

// WithStock sets the stock counters and in-stock flag together.
func WithStock(now, soon int, inStock bool) func(*models.Product) {
	return func(p *models.Product) {
		p.AvailableNow = now
		p.Available1To3Days = soon
		p.InStock = inStock
	}
}

// WithNLADate marks the product no-longer-available from the given date.
func WithNLADate(date string) func(*models.Product) {
	return func(p *models.Product) { p.NLADate = date }
}
