package shipping

import "testing"

func TestQuoteUSWeightBands(t *testing.T) {
	tests := []struct {
		kg   float64
		want float64
	}{
		{0.2, 33.56},
		{0.5, 33.56},
		{0.6, 37.00},
		{5, 56.77},
		{10, 79.78},
		{11, 87.25},
		{100, 503.59},
	}
	for _, tt := range tests {
		q := QuoteUS(tt.kg)
		if q.NeedsQuote {
			t.Errorf("%.1fkg should be quotable", tt.kg)
			continue
		}
		if len(q.Options) != 1 || q.Options[0].Price == nil {
			t.Fatalf("%.1fkg: malformed quote %+v", tt.kg, q)
		}
		if got := *q.Options[0].Price; got != tt.want {
			t.Errorf("QuoteUS(%.1f) price = %.2f, want %.2f", tt.kg, got, tt.want)
		}
	}
}

func TestQuoteUSOverweightNeedsQuote(t *testing.T) {
	q := QuoteUS(120)
	if !q.NeedsQuote {
		t.Fatal("weights over 100kg require a manual quote")
	}
	if len(q.Options) != 1 || q.Options[0].Price != nil {
		t.Errorf("manual quote should carry no price, got %+v", q.Options)
	}
	if q.Message == "" {
		t.Error("manual quote should explain itself")
	}
}

func TestQuoteUSZeroWeight(t *testing.T) {
	q := QuoteUS(0)
	if q.NeedsQuote || len(q.Options) != 1 {
		t.Fatalf("zero weight should still quote: %+v", q)
	}
	if *q.Options[0].Price != 33.56 {
		t.Errorf("zero weight should use the smallest band, got %.2f", *q.Options[0].Price)
	}
}
