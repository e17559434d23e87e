package runner

import (
	"context"
	"errors"
	"strconv"

	"github.com/opentracing/opentracing-go"
	"github.com/shopspring/decimal"

	"signal_bot/internal/models"
	bybit "signal_bot/internal/modules/bybit_client/service"
)

// buildOrder: всегда Buy / Limit / GTC, SL и TP уходят полями самого ордера,
// дальше их ведёт биржа.
func buildOrder(linkID string, sig models.TradeSignal, qty decimal.Decimal) models.OrderRequest {
	return models.OrderRequest{
		Symbol:      sig.Symbol,
		Side:        models.SideBuy,
		OrderType:   models.OrderTypeLimit,
		Quantity:    qty,
		Price:       sig.EntryPrice,
		TimeInForce: models.TimeInForceGTC,
		StopLoss:    sig.StopLossPrice,
		TakeProfit:  sig.TakeProfitPrice,
		LinkID:      linkID,
	}
}

func orderParams(category string, req models.OrderRequest) bybit.CreateOrderParams {
	return bybit.CreateOrderParams{
		Category:    category,
		Symbol:      req.Symbol,
		Side:        string(req.Side),
		OrderType:   string(req.OrderType),
		Qty:         req.Quantity.String(),
		Price:       formatPrice(req.Price),
		TimeInForce: string(req.TimeInForce),
		StopLoss:    formatPrice(req.StopLoss),
		TakeProfit:  formatPrice(req.TakeProfit),
		OrderLinkID: req.LinkID,
	}
}

// submitOrder отправляет ордер ровно один раз. Ошибка — только транспорт
// (SubmissionError); отказ биржи приходит как OrderResult{Success: false}.
func (r *Runner) submitOrder(ctx context.Context, req models.OrderRequest) (models.OrderResult, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "runner.submitOrder")
	defer span.Finish()

	ctx, cancel := context.WithTimeout(ctx, r.settings.CallTimeout)
	defer cancel()

	resp, err := r.ex.CreateOrder(ctx, orderParams(r.settings.Category, req))
	if err != nil {
		return models.OrderResult{}, &models.SubmissionError{Symbol: req.Symbol, Raw: err.Error(), Err: err}
	}
	if resp == nil {
		return models.OrderResult{}, &models.SubmissionError{Symbol: req.Symbol, Err: errors.New("empty response")}
	}

	span.SetTag("bybit.ret_code", resp.RetCode)
	return models.OrderResult{
		Success:       resp.RetCode == 0,
		RetCode:       resp.RetCode,
		OrderID:       resp.Result.OrderID,
		StatusMessage: resp.RetMsg,
		Timestamp:     resp.Time,
	}, nil
}

func formatPrice(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
