package telebotConverter

import (
	"fmt"
	"strings"

	"github.com/KotFed0t/invest_tracker/internal/model"
)

var currencySigns = map[string]string{
	"NIS": "₪",
	"ILS": "₪",
	"USD": "$",
	"EUR": "€",
}

func currencySign(currency string) string {
	if sign, ok := currencySigns[strings.ToUpper(currency)]; ok {
		return sign
	}
	return currency + " "
}

// SnapshotMessage renders a snapshot run as an HTML telegram message.
func SnapshotMessage(run model.SnapshotRun, baseCurrency string) string {
	var sb strings.Builder
	sign := currencySign(baseCurrency)

	sb.WriteString("📊 <b>Portfolio Snapshot</b>\n\n")
	sb.WriteString(fmt.Sprintf("📅 Date: %s\n", run.Date.Format("02.01.2006 15:04")))
	sb.WriteString(fmt.Sprintf("💰 Net Worth: %s%s\n", sign, run.NetWorth.StringFixed(2)))

	// без предыдущего снапшота изменение не показываем
	if run.HasPreviousRun && run.PreviousNetWorth.IsPositive() {
		change := run.NetWorth.Sub(run.PreviousNetWorth)
		changeSymbol := "📈"
		changeText := "+"
		if change.IsNegative() {
			changeSymbol = "📉"
			changeText = ""
		}

		sb.WriteString(fmt.Sprintf("%s Change: %s%s%s\n", changeSymbol, changeText, sign, change.StringFixed(2)))
		sb.WriteString(fmt.Sprintf("📊 Change: %s%s%%\n", changeText, run.ChangePercent.StringFixed(2)))
	}

	return sb.String()
}

// ErrorMessage renders a job failure notification.
func ErrorMessage(errText string) string {
	return fmt.Sprintf("❌ <b>Investment Tracker Error</b>\n\n%s", errText)
}
