package runner

import (
	"context"
	"fmt"
	"strings"

	"github.com/opentracing/opentracing-go"
	"github.com/spf13/cast"

	"signal_bot/internal/models"
)

// resolveInstrument ищет инструмент по точному совпадению символа и берёт шаг объёма.
func (r *Runner) resolveInstrument(ctx context.Context, symbol string) (models.InstrumentSpec, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "runner.resolveInstrument")
	defer span.Finish()

	ctx, cancel := context.WithTimeout(ctx, r.settings.CallTimeout)
	defer cancel()

	list, err := r.ex.InstrumentsInfo(ctx, r.settings.Category)
	if err != nil {
		return models.InstrumentSpec{}, &models.NotFoundError{Symbol: symbol, Err: err}
	}

	for _, inst := range list {
		if inst.Symbol != symbol {
			continue
		}
		step, err := parsePositive("qtyStep", inst.LotSizeFilter.QtyStep)
		if err != nil {
			return models.InstrumentSpec{}, &models.NotFoundError{Symbol: symbol, Err: err}
		}
		// minOrderQty / tickSize только для отчёта, кривые значения не критичны
		minQty, _ := cast.ToFloat64E(inst.LotSizeFilter.MinOrderQty)
		tick, _ := cast.ToFloat64E(inst.PriceFilter.TickSize)

		return models.InstrumentSpec{
			Symbol:   inst.Symbol,
			StepSize: step,
			MinQty:   minQty,
			TickSize: tick,
		}, nil
	}
	return models.InstrumentSpec{}, &models.NotFoundError{Symbol: symbol, Err: models.ErrInstrumentNotFound}
}

// resolveAccount находит запись котируемой монеты среди всех аккаунтов кошелька.
func (r *Runner) resolveAccount(ctx context.Context) (models.AccountState, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "runner.resolveAccount")
	defer span.Finish()

	ctx, cancel := context.WithTimeout(ctx, r.settings.CallTimeout)
	defer cancel()

	fail := func(err error) (models.AccountState, error) {
		return models.AccountState{}, &models.BalanceError{
			AccountType: r.settings.AccountType,
			Coin:        r.settings.QuoteCoin,
			Err:         err,
		}
	}

	accounts, err := r.ex.WalletBalance(ctx, r.settings.AccountType)
	if err != nil {
		return fail(err)
	}
	if len(accounts) == 0 {
		return fail(models.ErrNoWalletEntries)
	}

	for _, acc := range accounts {
		for _, coin := range acc.Coin {
			if coin.Coin != r.settings.QuoteCoin {
				continue
			}
			equity, err := parseNonNegative("equity", coin.Equity)
			if err != nil {
				return fail(err)
			}
			balance, err := parseNonNegative("walletBalance", coin.WalletBalance)
			if err != nil {
				return fail(err)
			}
			return models.AccountState{
				Coin:          coin.Coin,
				Equity:        equity,
				WalletBalance: balance,
			}, nil
		}
	}
	return fail(models.ErrQuoteCoinNotFound)
}

// parseNonNegative — числовая строка Bybit: пустая, отрицательная, NaN/Inf — ошибка.
func parseNonNegative(name, s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%s empty", name)
	}
	v, err := cast.ToFloat64E(s)
	if err != nil {
		return 0, fmt.Errorf("%s parse: %w (%q)", name, err, s)
	}
	if v != 0 && !positive(v) {
		return 0, fmt.Errorf("%s out of range: %q", name, s)
	}
	return v, nil
}

func parsePositive(name, s string) (float64, error) {
	v, err := parseNonNegative(name, s)
	if err != nil {
		return 0, err
	}
	if v <= 0 {
		return 0, fmt.Errorf("%s <= 0: %q", name, s)
	}
	return v, nil
}
