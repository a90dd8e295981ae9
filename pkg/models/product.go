// Package models defines the shared catalog value types: products, vehicle
// descriptors, fitment records and chassis-year tables. All collections are
// populated by an external import process and treated as read-only snapshots
// by the engine.
package models

import "strings"

// StockType classifies a product's sourcing, e.g. "Prestige Parts" or
// "Reconditioned Exchange". Values are not normalized upstream, so matching
// is exact on the stored string.
type StockType string

const (
	StockPrestigeParts   StockType = "Prestige Parts"
	StockPrestigePartsOE StockType = "Prestige Parts (OE)"
	StockUprated         StockType = "Uprated"
	StockOriginalEquip   StockType = "Original Equipment"
	StockAftermarket     StockType = "Aftermarket"
	StockReconditioned   StockType = "Reconditioned Exchange"
	StockUsed            StockType = "Used"
	StockRebuilt         StockType = "Rebuilt"
	StockBundle          StockType = "Bundle"
)

// stockTypePriority orders stock types for display (lower = shown first).
var stockTypePriority = map[StockType]int{
	StockPrestigeParts:   1,
	StockPrestigePartsOE: 2,
	StockUprated:         3,
	StockOriginalEquip:   10,
	StockAftermarket:     11,
	StockReconditioned:   12,
	StockUsed:            13,
	StockRebuilt:         14,
	StockBundle:          15,
}

// Priority returns the display priority of the stock type. Unknown types
// sort last.
func (s StockType) Priority() int {
	if p, ok := stockTypePriority[s]; ok {
		return p
	}
	return 99
}

// CategoryPath is a slash-delimited category path such as "Engine/Gaskets".
// A product may carry several paths separated by "|".
type CategoryPath string

// Paths splits a multi-path value into its individual slash-delimited paths.
func (c CategoryPath) Paths() []string {
	if c == "" {
		return nil
	}
	parts := strings.Split(string(c), "|")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// TopLevel returns the first segment of the first path, e.g. "Engine" for
// "Engine/Gaskets|Service". Empty when no category is set.
func (c CategoryPath) TopLevel() string {
	for _, p := range c.Paths() {
		seg, _, _ := strings.Cut(p, "/")
		return strings.TrimSpace(seg)
	}
	return ""
}

// TopLevels returns the distinct first segments across all paths.
func (c CategoryPath) TopLevels() []string {
	seen := make(map[string]bool)
	var out []string
	for _, p := range c.Paths() {
		seg, _, _ := strings.Cut(p, "/")
		seg = strings.TrimSpace(seg)
		if seg != "" && !seen[seg] {
			seen[seg] = true
			out = append(out, seg)
		}
	}
	return out
}

// MatchesPrefix reports whether any of the paths starts with the given
// category prefix, compared case-insensitively on whole segments, so a
// filter of "Engine" matches "Engine/Gaskets/Head" but not "Engineering".
func (c CategoryPath) MatchesPrefix(prefix string) bool {
	prefix = strings.ToLower(strings.TrimSpace(prefix))
	if prefix == "" {
		return true
	}
	for _, p := range c.Paths() {
		lp := strings.ToLower(p)
		if lp == prefix || strings.HasPrefix(lp, prefix+"/") {
			return true
		}
	}
	return false
}

// CanonicalSKU normalizes a SKU to its canonical uppercase trimmed form.
func CanonicalSKU(sku string) string {
	return strings.ToUpper(strings.TrimSpace(sku))
}

// Product is a single sellable part. SKU is globally unique; ParentSku groups
// variant SKUs (left/right, exchange, etc.) under one fitment record and need
// not exist as a product row itself.
type Product struct {
	Sku               string       `json:"sku"`
	ParentSku         string       `json:"parentSku,omitempty"`
	Description       string       `json:"description"`
	Price             float64      `json:"price"`
	Weight            float64      `json:"weight"`
	Categories        CategoryPath `json:"categories,omitempty"`
	StockType         StockType    `json:"stockType,omitempty"`
	InStock           bool         `json:"inStock"`
	AvailableNow      int          `json:"availableNow"`
	Available1To3Days int          `json:"available1to3Days"`
	NLADate           string       `json:"nlaDate,omitempty"`
}

// Available reports whether the product can currently be supplied, either
// from shelf stock or short lead time.
func (p Product) Available() bool {
	return p.AvailableNow > 0 || p.Available1To3Days > 0 || p.InStock
}

// NLA reports whether the product is marked no-longer-available.
func (p Product) NLA() bool {
	return p.NLADate != ""
}

// FitmentKey returns the key under which the product's vehicle compatibility
// is recorded: its parent SKU when set, otherwise its own SKU.
func (p Product) FitmentKey() string {
	if p.ParentSku != "" {
		return CanonicalSKU(p.ParentSku)
	}
	return CanonicalSKU(p.Sku)
}
