package search

import (
	"fmt"
	"testing"

	"github.com/veloparts/storefront/internal/dataset"
	"github.com/veloparts/storefront/pkg/models"
)

func i64(v int64) *int64 { return &v }

func engineSnapshot() *dataset.Snapshot {
	return dataset.NewSnapshot(dataset.Collections{
		Products: []models.Product{
			{Sku: "UE40893-X", ParentSku: "UE40893", Description: "Brake pad set front", Price: 89.50, Categories: "Braking System/Pads", StockType: models.StockOriginalEquip, InStock: true, AvailableNow: 4},
			{Sku: "UE40893-A", ParentSku: "UE40893", Description: "Brake pad set front aftermarket", Price: 45.00, Categories: "Braking System/Pads", StockType: models.StockAftermarket},
			{Sku: "UR73145", Description: "Oil filter", Price: 12.00, Categories: "Engine/Filters", StockType: models.StockPrestigeParts, AvailableNow: 10},
			{Sku: "RH2710", Description: "Clutch kit brake line adapter", Price: 0, Categories: "Transmission/Clutch", StockType: models.StockReconditioned, NLADate: "2019-03-01"},
			{Sku: "SKU-NEW", Description: "Water pump uprated", Price: 230.00, Categories: "Cooling/Pumps", StockType: models.StockUprated, InStock: true},
		},
		ChassisYears: models.ChassisYears{
			"Bentley": {
				"Continental GT": {YearStart: 2003, YearEnd: 2011, ChassisByYear: map[int]models.ChassisRange{
					2005: {Start: i64(30001), End: i64(40000)},
				}},
			},
		},
		Fitment: []models.FitmentRecord{
			{ParentSku: "UE40893", Make: "Bentley", Model: "Continental GT", ChassisStart: i64(20000), ChassisEnd: i64(35000)},
			{ParentSku: "UR73145", Make: "Rolls-Royce", Model: "Silver Shadow"},
		},
		Supersessions: map[string][]string{"SKU-OLD": {"SKU-NEW"}},
		Popularity:    map[string]float64{"UR73145": 50, "UE40893": 10},
	})
}

func TestBrowseReturnsDatasetOrder(t *testing.T) {
	e := NewEngine(engineSnapshot())
	res := e.Search(Query{})

	if res.Pagination.Total != 5 {
		t.Fatalf("total = %d, want 5", res.Pagination.Total)
	}
	if res.Products[0].Sku != "UE40893-X" || res.Products[4].Sku != "SKU-NEW" {
		t.Errorf("browse should preserve dataset order, got %v", skus(res.Products))
	}
	if res.SearchType != "" {
		t.Errorf("browse should not set a search type, got %q", res.SearchType)
	}
}

func TestSearchIsIdempotent(t *testing.T) {
	e := NewEngine(engineSnapshot())
	q := Query{Text: "brake", Sort: SortPriceAsc}

	first := e.Search(q)
	second := e.Search(q)
	if fmt.Sprint(skus(first.Products)) != fmt.Sprint(skus(second.Products)) {
		t.Errorf("identical queries should return identical results: %v vs %v",
			skus(first.Products), skus(second.Products))
	}
}

func TestExactSKUPromoted(t *testing.T) {
	e := NewEngine(engineSnapshot())
	res := e.Search(Query{Text: "ur73145"})

	if res.SearchType != SearchTypeExactSKU {
		t.Errorf("searchType = %q, want %q", res.SearchType, SearchTypeExactSKU)
	}
	if res.Products[0].Sku != "UR73145" {
		t.Errorf("exact SKU hit should be first, got %v", skus(res.Products))
	}
	if res.SupersessionMatch != nil {
		t.Error("exact hit should not report a supersession")
	}
}

func TestSupersessionRedirect(t *testing.T) {
	e := NewEngine(engineSnapshot())
	res := e.Search(Query{Text: "SKU-OLD"})

	if res.SearchType != SearchTypeSupersession {
		t.Fatalf("searchType = %q, want %q", res.SearchType, SearchTypeSupersession)
	}
	if res.SupersessionMatch == nil {
		t.Fatal("expected a supersession match")
	}
	if res.SupersessionMatch.OriginalSku != "SKU-OLD" || res.SupersessionMatch.ResolvedSku != "SKU-NEW" {
		t.Errorf("unexpected supersession match: %+v", res.SupersessionMatch)
	}
	if len(res.Products) == 0 || res.Products[0].Sku != "SKU-NEW" {
		t.Errorf("resolved replacement should be promoted first, got %v", skus(res.Products))
	}
}

func TestTextMatchRanking(t *testing.T) {
	e := NewEngine(engineSnapshot())
	res := e.Search(Query{Text: "brake"})

	// "Brake pad set..." matches at position 0 in two descriptions; the
	// clutch kit mentions brake later in its text.
	got := skus(res.Products)
	if len(got) != 3 {
		t.Fatalf("expected 3 matches, got %v", got)
	}
	if got[0] != "UE40893-X" || got[1] != "UE40893-A" || got[2] != "RH2710" {
		t.Errorf("unexpected ranking: %v", got)
	}
	if res.SearchType != SearchTypeText {
		t.Errorf("searchType = %q, want %q", res.SearchType, SearchTypeText)
	}
}

func TestVehicleFilter(t *testing.T) {
	e := NewEngine(engineSnapshot())
	res := e.Search(Query{Vehicle: models.Vehicle{Make: "Bentley", Model: "Continental GT", Year: 2005}})

	got := skus(res.Products)
	if len(got) != 2 {
		t.Fatalf("expected the two UE40893 variants, got %v", got)
	}
	for _, sku := range got {
		if sku != "UE40893-X" && sku != "UE40893-A" {
			t.Errorf("unexpected product for Bentley fitment: %s", sku)
		}
	}
}

func TestCategoryFilterIsSegmentAware(t *testing.T) {
	e := NewEngine(engineSnapshot())

	res := e.Search(Query{Category: "Engine"})
	if got := skus(res.Products); len(got) != 1 || got[0] != "UR73145" {
		t.Errorf("Engine filter should match filters only, got %v", got)
	}

	res = e.Search(Query{Category: "Braking System/Pads"})
	if res.Pagination.Total != 2 {
		t.Errorf("nested category filter total = %d, want 2", res.Pagination.Total)
	}
}

func TestStockTypeFilterCaseInsensitive(t *testing.T) {
	e := NewEngine(engineSnapshot())
	res := e.Search(Query{StockType: "prestige parts"})
	if got := skus(res.Products); len(got) != 1 || got[0] != "UR73145" {
		t.Errorf("stock type filter should be case-insensitive, got %v", got)
	}
}

func TestNLAAndStockFilters(t *testing.T) {
	e := NewEngine(engineSnapshot())

	res := e.Search(Query{NLAOnly: true})
	if got := skus(res.Products); len(got) != 1 || got[0] != "RH2710" {
		t.Errorf("nlaOnly should keep only NLA parts, got %v", got)
	}

	res = e.Search(Query{InStockOnly: true})
	for _, p := range res.Products {
		if !p.InStock {
			t.Errorf("inStockOnly returned out-of-stock product %s", p.Sku)
		}
	}
	if res.Pagination.Total != 2 {
		t.Errorf("inStockOnly total = %d, want 2", res.Pagination.Total)
	}
}

func TestSortPriceAscPushesUnpricedLast(t *testing.T) {
	e := NewEngine(engineSnapshot())
	res := e.Search(Query{Sort: SortPriceAsc})

	got := skus(res.Products)
	if got[len(got)-1] != "RH2710" {
		t.Errorf("price-on-application part should sort last, got %v", got)
	}
	if got[0] != "UR73145" {
		t.Errorf("cheapest part should sort first, got %v", got)
	}
}

func TestSortPriceDesc(t *testing.T) {
	e := NewEngine(engineSnapshot())
	res := e.Search(Query{Sort: SortPriceDesc})
	if got := skus(res.Products); got[0] != "SKU-NEW" {
		t.Errorf("most expensive part should sort first, got %v", got)
	}
}

func TestSortStock(t *testing.T) {
	e := NewEngine(engineSnapshot())
	res := e.Search(Query{Sort: SortStock})

	got := skus(res.Products)
	// RH2710 and UE40893-A are the unavailable parts; both must come last,
	// ordered by SKU within the group.
	if got[3] != "RH2710" || got[4] != "UE40893-A" {
		t.Errorf("unavailable parts should sort last, got %v", got)
	}
	if got[0] != "SKU-NEW" || got[1] != "UE40893-X" || got[2] != "UR73145" {
		t.Errorf("available parts should sort first by SKU, got %v", got)
	}
}

func TestSortPopularity(t *testing.T) {
	e := NewEngine(engineSnapshot())
	res := e.Search(Query{Sort: SortPopularity})

	got := skus(res.Products)
	if got[0] != "UR73145" {
		t.Errorf("most popular part should sort first, got %v", got)
	}
	// The UE40893 variants share a base-SKU score; ties break on stock type
	// priority (Original Equipment before Aftermarket).
	if got[1] != "UE40893-X" || got[2] != "UE40893-A" {
		t.Errorf("popularity tie should break on stock type priority, got %v", got)
	}
}

func TestPagination(t *testing.T) {
	e := NewEngine(engineSnapshot())

	page1 := e.Search(Query{Limit: 2, Page: 1})
	if page1.Pagination.TotalPages != 3 || !page1.Pagination.HasMore {
		t.Errorf("unexpected pagination: %+v", page1.Pagination)
	}

	// Walking every page yields each product exactly once.
	seen := map[string]int{}
	for page := 1; page <= page1.Pagination.TotalPages; page++ {
		res := e.Search(Query{Limit: 2, Page: page})
		for _, p := range res.Products {
			seen[p.Sku]++
		}
	}
	if len(seen) != 5 {
		t.Fatalf("pages should cover all 5 products, got %v", seen)
	}
	for sku, n := range seen {
		if n != 1 {
			t.Errorf("product %s appeared %d times across pages", sku, n)
		}
	}

	// A page past the end is empty but still well-formed.
	beyond := e.Search(Query{Limit: 2, Page: 99})
	if len(beyond.Products) != 0 || beyond.Pagination.HasMore {
		t.Errorf("page past the end should be empty: %+v", beyond.Pagination)
	}
}

func TestFacetsDescribeWholeSnapshot(t *testing.T) {
	e := NewEngine(engineSnapshot())

	unfiltered := e.Search(Query{})
	filtered := e.Search(Query{Category: "Engine", StockType: "Prestige Parts"})

	if fmt.Sprint(filtered.Categories) != fmt.Sprint(unfiltered.Categories) {
		t.Errorf("category facets must not shrink under filters: %v vs %v",
			filtered.Categories, unfiltered.Categories)
	}
	if fmt.Sprint(filtered.StockTypes) != fmt.Sprint(unfiltered.StockTypes) {
		t.Errorf("stock type facets must not shrink under filters: %v vs %v",
			filtered.StockTypes, unfiltered.StockTypes)
	}
}

func TestEmptyDataset(t *testing.T) {
	e := NewEngine(dataset.NewSnapshot(dataset.Collections{}))
	res := e.Search(Query{Text: "anything"})

	if res.Products == nil || len(res.Products) != 0 {
		t.Error("empty dataset should yield an empty, non-nil product list")
	}
	if res.Categories == nil || res.StockTypes == nil {
		t.Error("facet lists must always be present")
	}
	p := res.Pagination
	if p.Page != 1 || p.Limit != DefaultLimit || p.Total != 0 || p.TotalPages != 0 || p.HasMore {
		t.Errorf("unexpected empty-dataset pagination: %+v", p)
	}
}

func skus(products []models.Product) []string {
	out := make([]string, len(products))
	for i, p := range products {
		out[i] = p.Sku
	}
	return out
}
