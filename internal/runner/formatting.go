package runner

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"signal_bot/internal/models"
)

var printer = message.NewPrinter(language.English)

// FormatTradeDetails — сводка по сделке для лога и оператора. Баланс — снимок
// до выставления ордера.
func FormatTradeDetails(
	sig models.TradeSignal,
	qty decimal.Decimal,
	res models.OrderResult,
	acc models.AccountState,
) string {
	var b strings.Builder
	row := func(name, value string) {
		fmt.Fprintf(&b, "%-20s: %s\n", name, value)
	}

	b.WriteString("\n===== Trade Details =====\n")
	row("Symbol", sig.Symbol)
	row("Price", printer.Sprintf("%.2f", sig.EntryPrice))
	row("Stop Loss", printer.Sprintf("%.2f", sig.StopLossPrice))
	row("Take Profit", printer.Sprintf("%.2f", sig.TakeProfitPrice))
	row("Quantity", printer.Sprintf("%.8f", qty.InexactFloat64()))
	row("Order ID", orNA(res.OrderID))
	row("Status", orNA(res.StatusMessage))
	row("Timestamp", formatTimestamp(res.Timestamp))
	row(acc.Coin+" Equity", printer.Sprintf("%.2f", acc.Equity))
	row("Wallet Balance", printer.Sprintf("%.2f", acc.WalletBalance))
	b.WriteString("========================\n")
	return b.String()
}

func formatRejection(sig models.TradeSignal, qty decimal.Decimal, res models.OrderResult) string {
	return fmt.Sprintf("Error placing order: %s (retCode=%d symbol=%s qty=%s price=%s)",
		res.StatusMessage, res.RetCode, sig.Symbol, qty.String(), formatPrice(sig.EntryPrice))
}

func formatTimestamp(ms int64) string {
	if ms <= 0 {
		return "N/A"
	}
	return fmt.Sprintf("%d (%s)", ms, time.UnixMilli(ms).UTC().Format(time.RFC3339))
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
