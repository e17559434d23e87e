package runner

import (
	"math"

	"github.com/shopspring/decimal"
)

// CalcMaxQty — максимальный объём на весь баланс, округлённый ВНИЗ до шага:
//
//	qty = floor(balance / price / step) * step
//
// Результат всегда кратен step и qty*price <= balance. Некорректный вход — ноль.
func CalcMaxQty(balance, price, step float64) decimal.Decimal {
	if !positive(balance) || !positive(price) || !positive(step) {
		return decimal.Zero
	}

	b := decimal.NewFromFloat(balance)
	p := decimal.NewFromFloat(price)
	s := decimal.NewFromFloat(step)

	steps := b.DivRound(p.Mul(s), 16).Floor()
	qty := steps.Mul(s)

	// DivRound мог округлить частное вверх до целого шага
	for qty.IsPositive() && qty.Mul(p).GreaterThan(b) {
		qty = qty.Sub(s)
	}
	if !qty.IsPositive() {
		return decimal.Zero
	}
	return qty
}

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}
