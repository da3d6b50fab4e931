// FILE: pkg/billing/pricing/regions.go
// Static regional pricing table (purchasing-power adjustment). Tax rates are
// informational; the gateway collects tax.
package pricing

type Region struct {
	Multiplier float64
	Currency   string
	TaxRate    float64
}

// restOfWorld is the fallback for regions not in the table. Lookups never
// fail on an unknown region so checkout is never blocked on missing
// region data.
var restOfWorld = Region{Multiplier: 0.4, Currency: "USD", TaxRate: 0}

var regions = map[string]Region{
	"US": {Multiplier: 1.0, Currency: "USD", TaxRate: 0},
	"CA": {Multiplier: 1.0, Currency: "CAD", TaxRate: 0.13},
	"UK": {Multiplier: 0.85, Currency: "GBP", TaxRate: 0.20},
	"AU": {Multiplier: 0.85, Currency: "AUD", TaxRate: 0.10},
	"DE": {Multiplier: 0.85, Currency: "EUR", TaxRate: 0.19},
	"FR": {Multiplier: 0.85, Currency: "EUR", TaxRate: 0.20},
	"NL": {Multiplier: 0.85, Currency: "EUR", TaxRate: 0.21},
	"SE": {Multiplier: 0.85, Currency: "SEK", TaxRate: 0.25},
	"JP": {Multiplier: 0.85, Currency: "JPY", TaxRate: 0.10},
	"KR": {Multiplier: 0.85, Currency: "KRW", TaxRate: 0.10},
	"IN": {Multiplier: 0.6, Currency: "INR", TaxRate: 0.18},
	"BR": {Multiplier: 0.6, Currency: "BRL", TaxRate: 0.17},
	"MX": {Multiplier: 0.6, Currency: "MXN", TaxRate: 0.16},
	"PL": {Multiplier: 0.6, Currency: "PLN", TaxRate: 0.23},
	"SG": {Multiplier: 0.4, Currency: "SGD", TaxRate: 0.07},
	"ZA": {Multiplier: 0.4, Currency: "ZAR", TaxRate: 0.15},
}

func lookupRegion(code string) Region {
	if r, ok := regions[code]; ok {
		return r
	}
	return restOfWorld
}
