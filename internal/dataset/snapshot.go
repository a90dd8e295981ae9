// Package dataset loads the catalog datasets (products, chassis-years,
// fitment, supersessions, popularity) and exposes them as immutable
// snapshots. A snapshot is built fully off to the side and published with an
// atomic pointer swap, so concurrent readers never observe a partially
// refreshed dataset.
package dataset

import (
	"regexp"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/veloparts/storefront/pkg/models"
)

// Collections carries the raw datasets delivered by a Source. Any collection
// may be empty; an empty collection is a valid, if degraded, state.
type Collections struct {
	Products      []models.Product
	ChassisYears  models.ChassisYears
	Fitment       []models.FitmentRecord
	Supersessions map[string][]string
	Popularity    map[string]float64
}

// Snapshot is a read-only, versioned view of all datasets plus the derived
// indexes the engine queries. Accessors return internal slices and maps for
// speed; callers must treat them as immutable.
type Snapshot struct {
	Generation string
	LoadedAt   time.Time

	products      []models.Product
	bySKU         map[string]int
	byParent      map[string][]int
	fitment       map[string][]models.FitmentRecord
	supersessions map[string][]string
	chassis       models.ChassisYears
	popularity    map[string]float64

	categories []string
	stockTypes []models.StockType
	vehicles   map[string][]string
}

// variantSuffix matches the variant suffix letters the importer appends to a
// base part number (-A, -X, -U, -O, -R).
var variantSuffix = regexp.MustCompile(`[-_]?[AXUOR]$`)

// BaseSKU strips the variant suffix from a SKU, so UE40893-X and UE40893-A
// both map to UE40893.
func BaseSKU(sku string) string {
	return models.CanonicalSKU(variantSuffix.ReplaceAllString(models.CanonicalSKU(sku), ""))
}

// NewSnapshot builds a snapshot and all derived indexes from raw collections.
// Input maps are re-keyed to canonical SKU form; the input is not retained.
func NewSnapshot(c Collections) *Snapshot {
	s := &Snapshot{
		Generation:    uuid.New().String(),
		LoadedAt:      time.Now().UTC(),
		products:      c.Products,
		bySKU:         make(map[string]int, len(c.Products)),
		byParent:      make(map[string][]int),
		fitment:       make(map[string][]models.FitmentRecord, len(c.Fitment)),
		supersessions: make(map[string][]string, len(c.Supersessions)),
		chassis:       c.ChassisYears,
		popularity:    make(map[string]float64, len(c.Popularity)),
		vehicles:      make(map[string][]string),
	}
	if s.chassis == nil {
		s.chassis = models.ChassisYears{}
	}

	for i, p := range c.Products {
		sku := models.CanonicalSKU(p.Sku)
		if _, dup := s.bySKU[sku]; !dup {
			s.bySKU[sku] = i
		}
		if key := p.FitmentKey(); key != "" {
			s.byParent[key] = append(s.byParent[key], i)
		}
	}

	for _, f := range c.Fitment {
		key := models.CanonicalSKU(f.ParentSku)
		if key == "" {
			continue
		}
		s.fitment[key] = append(s.fitment[key], f)
	}

	for src, targets := range c.Supersessions {
		key := models.CanonicalSKU(src)
		if key == "" || len(targets) == 0 {
			continue
		}
		canon := make([]string, 0, len(targets))
		for _, t := range targets {
			if t = models.CanonicalSKU(t); t != "" {
				canon = append(canon, t)
			}
		}
		if len(canon) > 0 {
			s.supersessions[key] = canon
		}
	}

	for sku, score := range c.Popularity {
		s.popularity[models.CanonicalSKU(sku)] = score
	}

	s.buildFacets()
	s.buildVehicleData()
	return s
}

// Products returns all products in dataset order.
func (s *Snapshot) Products() []models.Product {
	return s.products
}

// ProductBySKU looks up a product by its canonical SKU.
func (s *Snapshot) ProductBySKU(sku string) (models.Product, bool) {
	i, ok := s.bySKU[models.CanonicalSKU(sku)]
	if !ok {
		return models.Product{}, false
	}
	return s.products[i], true
}

// ProductsByParent returns all variant products grouped under a parent SKU,
// in dataset order.
func (s *Snapshot) ProductsByParent(parentSku string) []models.Product {
	idxs := s.byParent[models.CanonicalSKU(parentSku)]
	if len(idxs) == 0 {
		return nil
	}
	out := make([]models.Product, len(idxs))
	for i, idx := range idxs {
		out[i] = s.products[idx]
	}
	return out
}

// FitmentForParent returns the fitment records recorded for a parent SKU.
func (s *Snapshot) FitmentForParent(parentSku string) []models.FitmentRecord {
	return s.fitment[models.CanonicalSKU(parentSku)]
}

// FitmentParents iterates all parent SKUs that have fitment records.
func (s *Snapshot) FitmentParents(fn func(parentSku string, records []models.FitmentRecord)) {
	for key, recs := range s.fitment {
		fn(key, recs)
	}
}

// SupersessionTargets returns the replacement SKUs recorded for a superseded
// SKU, or nil when the SKU has not been superseded.
func (s *Snapshot) SupersessionTargets(sku string) []string {
	return s.supersessions[models.CanonicalSKU(sku)]
}

// ChassisYears returns the make -> model -> chassis-year table.
func (s *Snapshot) ChassisYears() models.ChassisYears {
	return s.chassis
}

// PopularityScore returns the sales popularity score for a SKU. When the
// exact SKU has no score the base part number and its common variant
// suffixes are probed, matching how the sales data is keyed.
func (s *Snapshot) PopularityScore(sku string) float64 {
	sku = models.CanonicalSKU(sku)
	if sku == "" {
		return 0
	}
	if score, ok := s.popularity[sku]; ok {
		return score
	}
	base := BaseSKU(sku)
	for _, suffix := range []string{"-X", "-A", "-U", "-O", "-R", ""} {
		if score, ok := s.popularity[base+suffix]; ok {
			return score
		}
	}
	return 0
}

// Categories returns the sorted distinct top-level category names across the
// whole snapshot. Computed once at build time so facet lists are stable
// regardless of the filters applied to any particular search.
func (s *Snapshot) Categories() []string {
	return s.categories
}

// StockTypes returns the distinct stock types present in the snapshot,
// ordered by display priority.
func (s *Snapshot) StockTypes() []models.StockType {
	return s.stockTypes
}

// VehicleData returns make -> sorted model names derived from the fitment
// dataset, for populating vehicle picker dropdowns.
func (s *Snapshot) VehicleData() map[string][]string {
	return s.vehicles
}

func (s *Snapshot) buildFacets() {
	catSet := make(map[string]bool)
	typeSet := make(map[models.StockType]bool)
	for _, p := range s.products {
		for _, top := range p.Categories.TopLevels() {
			catSet[top] = true
		}
		if p.StockType != "" {
			typeSet[p.StockType] = true
		}
	}

	s.categories = make([]string, 0, len(catSet))
	for c := range catSet {
		s.categories = append(s.categories, c)
	}
	sort.Strings(s.categories)

	s.stockTypes = make([]models.StockType, 0, len(typeSet))
	for t := range typeSet {
		s.stockTypes = append(s.stockTypes, t)
	}
	sort.Slice(s.stockTypes, func(a, b int) bool {
		pa, pb := s.stockTypes[a].Priority(), s.stockTypes[b].Priority()
		if pa != pb {
			return pa < pb
		}
		return s.stockTypes[a] < s.stockTypes[b]
	})
}

func (s *Snapshot) buildVehicleData() {
	modelSets := make(map[string]map[string]bool)
	for _, recs := range s.fitment {
		for _, f := range recs {
			if f.Make == "" {
				continue
			}
			if modelSets[f.Make] == nil {
				modelSets[f.Make] = make(map[string]bool)
			}
			if f.Model != "" {
				modelSets[f.Make][f.Model] = true
			}
		}
	}
	for mk, set := range modelSets {
		names := make([]string, 0, len(set))
		for m := range set {
			names = append(names, m)
		}
		sort.Strings(names)
		s.vehicles[mk] = names
	}
}
