package models

import "testing"

func TestCanonicalSKU(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"ue40893", "UE40893"},
		{"  UE40893-X  ", "UE40893-X"},
		{"UR73145", "UR73145"},
		{"", ""},
		{"  ", ""},
	}
	for _, tt := range tests {
		if got := CanonicalSKU(tt.in); got != tt.want {
			t.Errorf("CanonicalSKU(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCategoryPathPaths(t *testing.T) {
	c := CategoryPath("Engine/Gaskets|Service/Filters| ")
	paths := c.Paths()
	if len(paths) != 2 {
		t.Fatalf("expected 2 paths, got %d: %v", len(paths), paths)
	}
	if paths[0] != "Engine/Gaskets" || paths[1] != "Service/Filters" {
		t.Errorf("unexpected paths: %v", paths)
	}

	if got := CategoryPath("").Paths(); got != nil {
		t.Errorf("empty path should yield nil, got %v", got)
	}
}

func TestCategoryPathTopLevels(t *testing.T) {
	c := CategoryPath("Engine/Gaskets|Engine/Seals|Service/Filters")
	tops := c.TopLevels()
	if len(tops) != 2 || tops[0] != "Engine" || tops[1] != "Service" {
		t.Errorf("unexpected top levels: %v", tops)
	}
	if got := c.TopLevel(); got != "Engine" {
		t.Errorf("TopLevel() = %q, want Engine", got)
	}
}

func TestCategoryPathMatchesPrefix(t *testing.T) {
	tests := []struct {
		path   CategoryPath
		prefix string
		want   bool
	}{
		{"Engine/Gaskets/Head", "Engine", true},
		{"Engine/Gaskets/Head", "engine/gaskets", true},
		{"Engine/Gaskets/Head", "Engine/Gaskets/Head", true},
		{"Engineering/Tools", "Engine", false},
		{"Engine/Gaskets", "Gaskets", false},
		{"Engine/Gaskets|Service/Filters", "Service", true},
		{"Engine/Gaskets", "", true},
	}
	for _, tt := range tests {
		if got := tt.path.MatchesPrefix(tt.prefix); got != tt.want {
			t.Errorf("MatchesPrefix(%q, %q) = %v, want %v", tt.path, tt.prefix, got, tt.want)
		}
	}
}

func TestStockTypePriority(t *testing.T) {
	if StockPrestigeParts.Priority() >= StockOriginalEquip.Priority() {
		t.Error("Prestige Parts should rank before Original Equipment")
	}
	if StockBundle.Priority() != 15 {
		t.Errorf("Bundle priority = %d, want 15", StockBundle.Priority())
	}
	if StockType("Mystery").Priority() != 99 {
		t.Errorf("unknown stock type should sort last, got %d", StockType("Mystery").Priority())
	}
}

func TestProductAvailable(t *testing.T) {
	tests := []struct {
		name string
		p    Product
		want bool
	}{
		{"shelf stock", Product{AvailableNow: 3}, true},
		{"short lead time", Product{Available1To3Days: 1}, true},
		{"flag only", Product{InStock: true}, true},
		{"nothing", Product{}, false},
	}
	for _, tt := range tests {
		if got := tt.p.Available(); got != tt.want {
			t.Errorf("%s: Available() = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestProductFitmentKey(t *testing.T) {
	p := Product{Sku: "ue40893-x", ParentSku: "ue40893"}
	if got := p.FitmentKey(); got != "UE40893" {
		t.Errorf("FitmentKey() = %q, want UE40893", got)
	}
	p.ParentSku = ""
	if got := p.FitmentKey(); got != "UE40893-X" {
		t.Errorf("FitmentKey() without parent = %q, want UE40893-X", got)
	}
}

func TestProductNLA(t *testing.T) {
	if (Product{}).NLA() {
		t.Error("product without NLA date should not be NLA")
	}
	if !(Product{NLADate: "2019-03-01"}).NLA() {
		t.Error("product with NLA date should be NLA")
	}
}
