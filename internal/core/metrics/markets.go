package metrics

import (
	"fmt"
	"strings"
)

// Market codes accepted by MarketFilter. The mapping is closed and
// hardcoded: extending to a new market means adding a case here.
const (
	MarketAll  = "all"
	MarketUS   = "us"
	MarketEU   = "eu"
	MarketAsia = "asia"
)

var marketCountries = map[string][]string{
	MarketUS:   {"United States"},
	MarketEU:   {"France", "Germany", "United Kingdom"},
	MarketAsia: {"Australia", "Japan", "Singapore"},
}

// ValidMarket reports whether code is a known market selector.
func ValidMarket(code string) bool {
	if code == MarketAll {
		return true
	}
	_, ok := marketCountries[code]
	return ok
}

// MarketFilter maps a market code to an order_country filter.
// "all" (and "") is a no-op filter.
func MarketFilter(code string) (Filter, error) {
	if code == "" || code == MarketAll {
		return nil, nil
	}
	countries, ok := marketCountries[code]
	if !ok {
		return nil, fmt.Errorf("unknown market %q", code)
	}
	p, err := DimensionIn(DimOrderCountry, countries...)
	if err != nil {
		return nil, err
	}
	return Filter{p}, nil
}

// ShippingModeFilter matches shipping_mode by case-insensitive substring,
// after replacing "-" with " " so callers can pass slug-like values
// ("first-class" matches "First Class"). "all" (and "") is a no-op filter.
func ShippingModeFilter(mode string) (Filter, error) {
	if mode == "" || mode == "all" {
		return nil, nil
	}
	p, err := DimensionContains(DimShippingMode, strings.ReplaceAll(mode, "-", " "))
	if err != nil {
		return nil, err
	}
	return Filter{p}, nil
}
