// Package search implements the product search and filter engine: free-text
// and SKU matching, supersession redirection, vehicle fitment filtering,
// structured filters, ranking, facets and pagination, all computed over an
// immutable dataset snapshot.
package search

import (
	"math"
	"sort"
	"strings"

	"github.com/veloparts/storefront/internal/dataset"
	"github.com/veloparts/storefront/internal/fitment"
	"github.com/veloparts/storefront/internal/supersession"
	"github.com/veloparts/storefront/pkg/models"
)

// DefaultLimit is the page size used when the request does not specify one.
const DefaultLimit = 24

// Search type classifiers returned in Result.SearchType.
const (
	SearchTypeExactSKU     = "exact-sku"
	SearchTypeSupersession = "supersession"
	SearchTypeText         = "text"
)

// Supported sort orders. An unknown sort value falls back to relevance.
const (
	SortRelevance  = "relevance"
	SortPriceAsc   = "price-asc"
	SortPriceDesc  = "price-desc"
	SortStock      = "stock"
	SortPopularity = "popularity"
)

// Query carries every filter a product search accepts. Zero values mean the
// filter is absent; malformed values are normalized away before the engine
// runs, never rejected.
type Query struct {
	Text        string
	Category    string
	StockType   string
	Vehicle     models.Vehicle
	NLAOnly     bool
	InStockOnly bool
	Page        int
	Limit       int
	Sort        string
}

// Pagination describes the slice of the filtered set being returned.
type Pagination struct {
	Page       int  `json:"page"`
	Limit      int  `json:"limit"`
	Total      int  `json:"total"`
	TotalPages int  `json:"totalPages"`
	HasMore    bool `json:"hasMore"`
}

// SupersessionMatch reports that the search text was an old part number that
// resolved to a current replacement.
type SupersessionMatch struct {
	OriginalSku string `json:"originalSku"`
	ResolvedSku string `json:"resolvedSku"`
}

// Result is a complete, well-formed search response. Facet lists are always
// present and always describe the whole snapshot, not the filtered view, so
// filter dropdowns show every available option.
type Result struct {
	Products          []models.Product   `json:"products"`
	Pagination        Pagination         `json:"pagination"`
	Categories        []string           `json:"categories"`
	StockTypes        []models.StockType `json:"stockTypes"`
	SupersessionMatch *SupersessionMatch `json:"supersessionMatch,omitempty"`
	SearchType        string             `json:"searchType,omitempty"`
}

// Engine runs searches over one snapshot generation. Construct a fresh
// engine from the loader's current snapshot per request; construction is a
// few pointer assignments.
type Engine struct {
	snap     *dataset.Snapshot
	matcher  *fitment.Matcher
	resolver *supersession.Resolver
}

// NewEngine creates an engine over the given snapshot.
func NewEngine(snap *dataset.Snapshot) *Engine {
	return &Engine{
		snap:     snap,
		matcher:  fitment.NewMatcher(snap),
		resolver: supersession.NewResolver(snap),
	}
}

// candidate pairs a product with its ranking inputs. rank 0 is an exact-SKU
// or supersession hit, rank 1 a text match (pos = earliest match position),
// rank 2 everything else; idx preserves dataset order as the final tiebreak.
type candidate struct {
	p    models.Product
	rank int
	pos  int
	idx  int
}

// Search applies text matching, the vehicle filter, structured filters,
// sorting and pagination, in that order. It always returns a well-formed
// result; an empty snapshot yields empty products and facets.
func (e *Engine) Search(q Query) Result {
	q = normalize(q)

	res := Result{
		Categories: e.snap.Categories(),
		StockTypes: e.snap.StockTypes(),
	}
	if res.Categories == nil {
		res.Categories = []string{}
	}
	if res.StockTypes == nil {
		res.StockTypes = []models.StockType{}
	}

	candidates := e.textStep(q.Text, &res)
	candidates = e.vehicleStep(candidates, q.Vehicle)
	candidates = filterStep(candidates, q)
	e.sortStep(candidates, q.Sort)

	total := len(candidates)
	totalPages := 0
	if total > 0 {
		totalPages = (total + q.Limit - 1) / q.Limit
	}
	res.Pagination = Pagination{
		Page:       q.Page,
		Limit:      q.Limit,
		Total:      total,
		TotalPages: totalPages,
		HasMore:    q.Page < totalPages,
	}

	start := (q.Page - 1) * q.Limit
	if start >= total {
		res.Products = []models.Product{}
		return res
	}
	end := start + q.Limit
	if end > total {
		end = total
	}
	res.Products = make([]models.Product, 0, end-start)
	for _, c := range candidates[start:end] {
		res.Products = append(res.Products, c.p)
	}
	return res
}

// textStep builds the candidate set. Without text every product is a
// candidate in dataset order. With text, the input is first treated as a
// literal SKU: an exact hit is promoted to the top; failing that, the
// supersession chain is consulted and a resolved replacement is promoted
// regardless of whether it matches textually. Substring matches against SKU
// and description fill the rest.
func (e *Engine) textStep(text string, res *Result) []candidate {
	all := e.snap.Products()

	text = strings.TrimSpace(text)
	if text == "" {
		out := make([]candidate, len(all))
		for i, p := range all {
			out[i] = candidate{p: p, rank: 2, idx: i}
		}
		return out
	}

	var promoted *models.Product
	if p, ok := e.snap.ProductBySKU(text); ok {
		res.SearchType = SearchTypeExactSKU
		promoted = &p
	} else {
		resolution := e.resolver.Resolve(text)
		if resolution.WasSuperseded {
			if p, ok := e.snap.ProductBySKU(resolution.FinalSKU); ok {
				res.SearchType = SearchTypeSupersession
				res.SupersessionMatch = &SupersessionMatch{
					OriginalSku: models.CanonicalSKU(text),
					ResolvedSku: resolution.FinalSKU,
				}
				promoted = &p
			}
		}
	}
	if res.SearchType == "" {
		res.SearchType = SearchTypeText
	}

	lower := strings.ToLower(text)
	promotedSKU := ""
	var out []candidate
	if promoted != nil {
		promotedSKU = models.CanonicalSKU(promoted.Sku)
		out = append(out, candidate{p: *promoted, rank: 0})
	}
	for i, p := range all {
		if promotedSKU != "" && models.CanonicalSKU(p.Sku) == promotedSKU {
			continue
		}
		pos, ok := matchPosition(p, lower)
		if !ok {
			continue
		}
		out = append(out, candidate{p: p, rank: 1, pos: pos, idx: i})
	}
	return out
}

// matchPosition returns the earliest case-insensitive substring position of
// needle within the product's SKU or description.
func matchPosition(p models.Product, needle string) (int, bool) {
	best := -1
	if i := strings.Index(strings.ToLower(p.Sku), needle); i >= 0 {
		best = i
	}
	if i := strings.Index(strings.ToLower(p.Description), needle); i >= 0 && (best < 0 || i < best) {
		best = i
	}
	if best < 0 {
		return 0, false
	}
	return best, true
}

// vehicleStep keeps products whose SKU or parent SKU has fitment for the
// vehicle. A descriptor without a make is treated as absent.
func (e *Engine) vehicleStep(in []candidate, v models.Vehicle) []candidate {
	if v.Make == "" {
		return in
	}
	parents := e.matcher.MatchingParentSkus(v)
	out := in[:0]
	for _, c := range in {
		if parents[models.CanonicalSKU(c.p.Sku)] || parents[models.CanonicalSKU(c.p.ParentSku)] {
			out = append(out, c)
		}
	}
	return out
}

// filterStep applies category, stock type, NLA and in-stock filters.
func filterStep(in []candidate, q Query) []candidate {
	out := in[:0]
	for _, c := range in {
		if q.Category != "" && !c.p.Categories.MatchesPrefix(q.Category) {
			continue
		}
		if q.StockType != "" && !strings.EqualFold(string(c.p.StockType), q.StockType) {
			continue
		}
		if q.NLAOnly && !c.p.NLA() {
			continue
		}
		if q.InStockOnly && !c.p.InStock {
			continue
		}
		out = append(out, c)
	}
	return out
}

// sortStep orders candidates in place. Relevance keeps promoted hits first,
// then text matches by match position, then dataset order; every other sort
// breaks ties by SKU ascending for determinism.
func (e *Engine) sortStep(cs []candidate, sortOrder string) {
	switch sortOrder {
	case SortPriceAsc:
		sort.SliceStable(cs, func(a, b int) bool {
			pa, pb := priceForAsc(cs[a].p), priceForAsc(cs[b].p)
			if pa != pb {
				return pa < pb
			}
			return skuLess(cs[a].p, cs[b].p)
		})
	case SortPriceDesc:
		sort.SliceStable(cs, func(a, b int) bool {
			if cs[a].p.Price != cs[b].p.Price {
				return cs[a].p.Price > cs[b].p.Price
			}
			return skuLess(cs[a].p, cs[b].p)
		})
	case SortStock:
		sort.SliceStable(cs, func(a, b int) bool {
			sa, sb := stockKey(cs[a].p), stockKey(cs[b].p)
			if sa != sb {
				return sa < sb
			}
			return skuLess(cs[a].p, cs[b].p)
		})
	case SortPopularity:
		sort.SliceStable(cs, func(a, b int) bool {
			pa, pb := e.snap.PopularityScore(cs[a].p.Sku), e.snap.PopularityScore(cs[b].p.Sku)
			if pa != pb {
				return pa > pb
			}
			ta, tb := cs[a].p.StockType.Priority(), cs[b].p.StockType.Priority()
			if ta != tb {
				return ta < tb
			}
			return skuLess(cs[a].p, cs[b].p)
		})
	default: // relevance
		sort.SliceStable(cs, func(a, b int) bool {
			if cs[a].rank != cs[b].rank {
				return cs[a].rank < cs[b].rank
			}
			if cs[a].pos != cs[b].pos {
				return cs[a].pos < cs[b].pos
			}
			return cs[a].idx < cs[b].idx
		})
	}
}

// priceForAsc pushes priced-on-application items (price 0) to the end of an
// ascending price sort.
func priceForAsc(p models.Product) float64 {
	if p.Price <= 0 {
		return math.MaxFloat64
	}
	return p.Price
}

// stockKey orders available products before unavailable ones.
func stockKey(p models.Product) int {
	if p.Available() {
		return 0
	}
	return 1
}

func skuLess(a, b models.Product) bool {
	return models.CanonicalSKU(a.Sku) < models.CanonicalSKU(b.Sku)
}

// normalize clamps pagination and fills defaults. Anything unparseable was
// already dropped by the handler; this keeps the engine safe when called
// directly.
func normalize(q Query) Query {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = DefaultLimit
	}
	if q.Sort == "" {
		q.Sort = SortRelevance
	}
	return q
}
