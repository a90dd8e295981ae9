// Package shipping quotes delivery costs from a weight-band rate matrix.
package shipping

// Option is one quoted delivery method.
type Option struct {
	Method        string   `json:"method"`
	Description   string   `json:"description"`
	EstimatedDays string   `json:"estimatedDays"`
	Price         *float64 `json:"price"`
	Currency      string   `json:"currency"`
}

// Quote is the outcome of a shipping calculation.
type Quote struct {
	WeightKg    float64  `json:"weightKg"`
	NeedsQuote  bool     `json:"needsQuote"`
	Message     string   `json:"message,omitempty"`
	Options     []Option `json:"options"`
	UnknownSkus []string `json:"unknownSkus,omitempty"`
}

// band is one row of the rate matrix: weight in (from, to] costs price.
type band struct {
	from, to, price float64
}

// usAirRates is the US DHL express air matrix. Over maxQuotableKg a manual
// quote is required.
var usAirRates = []band{
	{0, 0.5, 33.56},
	{0.5, 1, 37.00},
	{1, 2, 42.15},
	{2, 3, 47.13},
	{3, 4, 51.95},
	{4, 5, 56.77},
	{5, 6, 61.37},
	{6, 7, 65.97},
	{7, 8, 70.57},
	{8, 9, 75.18},
	{9, 10, 79.78},
	{10, 12.5, 87.25},
	{12.5, 15, 96.07},
	{15, 20, 113.71},
	{20, 25, 131.51},
	{25, 30, 149.30},
	{30, 40, 193.61},
	{40, 50, 239.21},
	{50, 60, 282.33},
	{60, 70, 327.53},
	{70, 80, 401.04},
	{80, 90, 452.32},
	{90, 100, 503.59},
}

const maxQuotableKg = 100

// QuoteUS returns the US shipping options for a total weight. Weights over
// the quotable maximum need a manual quote because carrier pricing depends
// on dimensions.
func QuoteUS(weightKg float64) Quote {
	if weightKg > maxQuotableKg {
		return Quote{
			WeightKg:   weightKg,
			NeedsQuote: true,
			Message:    "Items over 100kg require a custom shipping quote. We will contact you to confirm the shipping cost.",
			Options: []Option{{
				Method:        "Quote Required",
				Description:   "Large or heavy items require a custom shipping quote",
				EstimatedDays: "Contact for estimate",
				Currency:      "USD",
			}},
		}
	}

	price := usAirRates[0].price
	for _, b := range usAirRates {
		if weightKg > b.from && weightKg <= b.to {
			price = b.price
			break
		}
	}

	return Quote{
		WeightKg: weightKg,
		Options: []Option{{
			Method:        "DHL Express Air",
			Description:   "International express air freight",
			EstimatedDays: "3-5 business days",
			Price:         &price,
			Currency:      "USD",
		}},
	}
}
