package signal

import (
	"math"
	"strconv"
	"strings"

	"signal_bot/internal/models"
)

const (
	prefixSymbol     = "Symbol:"
	prefixPrice      = "Price:"
	prefixStopLoss   = "Stop Loss:"
	prefixTakeProfit = "Take Profit:"
)

// Parse разбирает текст сигнала вида
//
//	Symbol: BTCUSDT
//	Price: 65000
//	Stop Loss: 64000
//	Take Profit: 68000
//
// Порядок строк любой, лишние строки игнорируются, повтор поля — берём последнее.
func Parse(raw string) (models.TradeSignal, error) {
	text := strings.TrimSpace(strings.Trim(raw, `"`))

	var (
		sig                            models.TradeSignal
		hasPrice, hasStop, hasTakeProf bool
	)
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)

		switch {
		case strings.HasPrefix(line, prefixSymbol):
			sig.Symbol = strings.TrimSpace(strings.TrimPrefix(line, prefixSymbol))
		case strings.HasPrefix(line, prefixPrice):
			v, err := parseField("price", strings.TrimPrefix(line, prefixPrice))
			if err != nil {
				return models.TradeSignal{}, err
			}
			sig.EntryPrice, hasPrice = v, true
		case strings.HasPrefix(line, prefixStopLoss):
			v, err := parseField("stop loss", strings.TrimPrefix(line, prefixStopLoss))
			if err != nil {
				return models.TradeSignal{}, err
			}
			sig.StopLossPrice, hasStop = v, true
		case strings.HasPrefix(line, prefixTakeProfit):
			v, err := parseField("take profit", strings.TrimPrefix(line, prefixTakeProfit))
			if err != nil {
				return models.TradeSignal{}, err
			}
			sig.TakeProfitPrice, hasTakeProf = v, true
		}
	}

	if sig.Symbol == "" || !hasPrice || !hasStop || !hasTakeProf {
		return models.TradeSignal{}, &models.ParseError{Err: models.ErrIncompleteSignal}
	}
	return sig, nil
}

func parseField(name, s string) (float64, error) {
	s = strings.TrimSpace(s)
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return 0, &models.ParseError{Field: name, Value: s, Err: models.ErrMalformedNumber}
	}
	return v, nil
}
