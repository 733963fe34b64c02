package cache

import (
	"fmt"
	"strings"
)

func MarketDataKey(assetType, symbol string) string {
	return fmt.Sprintf("market_data:%s:%s", strings.ToLower(assetType), strings.ToLower(symbol))
}

func VerificationKey(email string) string {
	return fmt.Sprintf("verification:%s", strings.ToLower(email))
}
