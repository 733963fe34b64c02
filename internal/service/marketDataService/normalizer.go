package marketDataService

import (
	"errors"
	"strings"

	"github.com/KotFed0t/invest_tracker/internal/model"
	"github.com/shopspring/decimal"
)

var ErrRateUnavailable = errors.New("error exchange rate unavailable")

var currencyAliases = map[string]string{
	"ILS": "NIS",
}

func canonicalCurrency(currency string) string {
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if alias, ok := currencyAliases[currency]; ok {
		return alias
	}
	return currency
}

type Normalizer struct {
	baseCurrency string
}

func NewNormalizer(baseCurrency string) Normalizer {
	return Normalizer{baseCurrency: canonicalCurrency(baseCurrency)}
}

func (n Normalizer) BaseCurrency() string {
	return n.baseCurrency
}

func (n Normalizer) IsBase(currency string) bool {
	return canonicalCurrency(currency) == n.baseCurrency
}

// ToBaseCurrency converts amount into the base currency.
// The rate has to convert exactly fromCurrency into the base currency, no fallback rate is used.
func (n Normalizer) ToBaseCurrency(amount decimal.Decimal, fromCurrency string, rate *model.ExchangeRate) (decimal.Decimal, error) {
	if n.IsBase(fromCurrency) {
		return amount, nil
	}

	if rate == nil ||
		!rate.Rate.IsPositive() ||
		canonicalCurrency(rate.From) != canonicalCurrency(fromCurrency) ||
		canonicalCurrency(rate.To) != n.baseCurrency {
		return decimal.Zero, ErrRateUnavailable
	}

	return amount.Mul(rate.Rate), nil
}
