// Package related proposes parts related to a product, first by shared
// top-level category and then by shared vehicle fitment.
package related

import (
	"github.com/veloparts/storefront/internal/dataset"
	"github.com/veloparts/storefront/pkg/models"
)

// DefaultLimit is the number of related parts returned when the request does
// not specify one.
const DefaultLimit = 4

// Reasons a part was recommended.
const (
	ReasonCategory  = "category"
	ReasonSameModel = "same-model"
)

// Part is a recommended product plus the reason it was chosen.
type Part struct {
	models.Product
	Reason string `json:"reason"`
}

// Recommender computes related parts over a dataset snapshot.
type Recommender struct {
	snap *dataset.Snapshot
}

// NewRecommender creates a recommender over the given snapshot.
func NewRecommender(snap *dataset.Snapshot) *Recommender {
	return &Recommender{snap: snap}
}

// RelatedParts returns up to limit in-stock products related to sku. The
// category pass runs first; the fitment pass only fills whatever the
// category pass left open. A SKU is never listed twice and the subject SKU
// is never included. An unknown SKU yields an empty list, not an error.
func (r *Recommender) RelatedParts(sku string, limit int) []Part {
	if limit < 1 {
		limit = DefaultLimit
	}

	subject, ok := r.snap.ProductBySKU(sku)
	if !ok {
		return []Part{}
	}

	seen := map[string]bool{models.CanonicalSKU(subject.Sku): true}
	out := make([]Part, 0, limit)

	out = r.categoryPass(subject, limit, seen, out)
	if len(out) < limit {
		out = r.fitmentPass(subject, limit, seen, out)
	}
	return out
}

// categoryPass collects available products sharing the subject's top-level
// category, in dataset order.
func (r *Recommender) categoryPass(subject models.Product, limit int, seen map[string]bool, out []Part) []Part {
	top := subject.Categories.TopLevel()
	if top == "" {
		return out
	}
	for _, p := range r.snap.Products() {
		if len(out) >= limit {
			break
		}
		key := models.CanonicalSKU(p.Sku)
		if seen[key] || !p.Available() {
			continue
		}
		if !sharesTopLevel(p.Categories, top) {
			continue
		}
		seen[key] = true
		out = append(out, Part{Product: p, Reason: ReasonCategory})
	}
	return out
}

// fitmentPass collects available products whose parent SKU shares at least
// one (make, model) fitment with the subject's parent SKU.
func (r *Recommender) fitmentPass(subject models.Product, limit int, seen map[string]bool, out []Part) []Part {
	subjectKey := subject.FitmentKey()
	subjectFitment := r.snap.FitmentForParent(subjectKey)
	if len(subjectFitment) == 0 {
		return out
	}

	type makeModel struct{ mk, model string }
	shared := make(map[makeModel]bool, len(subjectFitment))
	for _, f := range subjectFitment {
		shared[makeModel{f.Make, f.Model}] = true
	}

	var parents []string
	r.snap.FitmentParents(func(parentSku string, records []models.FitmentRecord) {
		if parentSku == subjectKey {
			return
		}
		for _, f := range records {
			if shared[makeModel{f.Make, f.Model}] {
				parents = append(parents, parentSku)
				return
			}
		}
	})

	// Walk products in dataset order so results are deterministic even
	// though the parent set comes from map iteration.
	parentSet := make(map[string]bool, len(parents))
	for _, p := range parents {
		parentSet[p] = true
	}
	for _, p := range r.snap.Products() {
		if len(out) >= limit {
			break
		}
		key := models.CanonicalSKU(p.Sku)
		if seen[key] || !p.Available() {
			continue
		}
		if !parentSet[p.FitmentKey()] {
			continue
		}
		seen[key] = true
		out = append(out, Part{Product: p, Reason: ReasonSameModel})
	}
	return out
}

// sharesTopLevel reports whether any of the product's category paths starts
// at the given top-level segment.
func sharesTopLevel(c models.CategoryPath, top string) bool {
	for _, t := range c.TopLevels() {
		if t == top {
			return true
		}
	}
	return false
}
