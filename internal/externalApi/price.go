package externalApi

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var priceReplacer = strings.NewReplacer("$", "", ",", "", " ", "")

// ParsePrice parses a quoted price like "$1,234.50".
// Only strictly positive finite values are accepted.
func ParsePrice(raw string) (decimal.Decimal, error) {
	cleaned := priceReplacer.Replace(strings.TrimSpace(raw))
	if cleaned == "" {
		return decimal.Zero, fmt.Errorf("%w: empty value", ErrInvalidPrice)
	}

	price, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidPrice, raw)
	}

	if !price.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: %s is not positive", ErrInvalidPrice, price.String())
	}

	return price, nil
}
