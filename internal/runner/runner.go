package runner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/opentracing/opentracing-go"
	"github.com/shopspring/decimal"

	"signal_bot/internal/models"
	"signal_bot/internal/modules/bybit_client/service"
	"signal_bot/internal/modules/config"
	"signal_bot/internal/signal"
	"signal_bot/pkg/logger"
)

// Exchange — ровно те вызовы Bybit, которые нужны конвейеру.
type Exchange interface {
	InstrumentsInfo(ctx context.Context, category string) ([]service.Instrument, error)
	WalletBalance(ctx context.Context, accountType string) ([]service.WalletAccount, error)
	CreateOrder(ctx context.Context, p service.CreateOrderParams) (*service.OrderResponse, error)
}

type Notifier interface {
	Send(msg string)
}

type Journal interface {
	Record(ctx context.Context, out Outcome) error
}

type Tracker interface {
	SignalHandled(ok bool, at time.Time)
}

type Settings struct {
	Category    string
	AccountType string
	QuoteCoin   string
	CallTimeout time.Duration
}

type Stage string

const (
	StageParse      Stage = "parse"
	StageInstrument Stage = "instrument"
	StageAccount    Stage = "account"
	StageSize       Stage = "size"
	StageSubmit     Stage = "submit"
)

type Status string

const (
	StatusPlaced   Status = "placed"
	StatusRejected Status = "rejected"
	StatusFailed   Status = "failed"
)

// Outcome — итог одного прогона конвейера. Stage заполнен только при ошибке.
type Outcome struct {
	ID         string
	Message    models.RawMessage
	Signal     models.TradeSignal
	Instrument models.InstrumentSpec
	Account    models.AccountState
	Quantity   decimal.Decimal
	Result     models.OrderResult
	Status     Status
	Stage      Stage
	Err        error
	Summary    string
}

type Runner struct {
	ex       Exchange
	n        Notifier
	journal  Journal
	tracker  Tracker
	settings Settings
}

func New(cfg *config.Config, ex Exchange, n Notifier, j Journal, tr Tracker) *Runner {
	return NewRunner(Settings{
		Category:    cfg.Bybit.Category,
		AccountType: cfg.Bybit.AccountType,
		QuoteCoin:   cfg.Bybit.QuoteCoin,
		CallTimeout: cfg.Bybit.CallTimeout,
	}, ex, n, j, tr)
}

func NewRunner(s Settings, ex Exchange, n Notifier, j Journal, tr Tracker) *Runner {
	if s.CallTimeout <= 0 {
		s.CallTimeout = 10 * time.Second
	}
	return &Runner{ex: ex, n: n, journal: j, tracker: tr, settings: s}
}

// Worker обрабатывает сигналы строго по одному в порядке поступления:
// баланс читается и тратится без гонок с соседним сигналом.
func (r *Runner) Worker(ctx context.Context, in <-chan models.RawMessage) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-in:
			if !ok {
				return
			}
			r.ProcessSignal(ctx, msg)
		}
	}
}

// ProcessSignal прогоняет одно сообщение через все стадии. Любая ошибка
// (и паника) остаётся внутри этого сигнала.
func (r *Runner) ProcessSignal(ctx context.Context, msg models.RawMessage) (out Outcome) {
	out = Outcome{ID: uuid.NewString(), Message: msg}

	span, ctx := opentracing.StartSpanFromContext(ctx, "runner.ProcessSignal")
	span.SetTag("signal.id", out.ID)
	defer span.Finish()

	stage := StageParse
	defer func() {
		if p := recover(); p != nil {
			out.Status = StatusFailed
			out.Stage = stage
			out.Err = fmt.Errorf("panic: %v", p)
		}
		if out.Err != nil {
			span.SetTag("error", true)
		}
		r.report(ctx, &out)
	}()

	fail := func(err error) Outcome {
		out.Status = StatusFailed
		out.Stage = stage
		out.Err = err
		return out
	}

	sig, err := signal.Parse(msg.Text)
	if err != nil {
		return fail(err)
	}
	out.Signal = sig
	span.SetTag("symbol", sig.Symbol)

	stage = StageInstrument
	inst, err := r.resolveInstrument(ctx, sig.Symbol)
	if err != nil {
		return fail(err)
	}
	out.Instrument = inst

	stage = StageAccount
	acc, err := r.resolveAccount(ctx)
	if err != nil {
		return fail(err)
	}
	out.Account = acc

	stage = StageSize
	qty := CalcMaxQty(acc.WalletBalance, sig.EntryPrice, inst.StepSize)
	if qty.IsZero() {
		return fail(&models.InsufficientFundsError{
			Symbol:   sig.Symbol,
			Balance:  acc.WalletBalance,
			Price:    sig.EntryPrice,
			StepSize: inst.StepSize,
		})
	}
	out.Quantity = qty

	stage = StageSubmit
	res, err := r.submitOrder(ctx, buildOrder(out.ID, sig, qty))
	if err != nil {
		return fail(err)
	}
	out.Result = res

	if !res.Success {
		out.Status = StatusRejected
		out.Stage = StageSubmit
		out.Summary = formatRejection(sig, qty, res)
		return out
	}

	out.Status = StatusPlaced
	out.Summary = FormatTradeDetails(sig, qty, res, acc)
	return out
}

// report: лог, оператор, журнал, счётчики. Ошибки журнала только логируются.
func (r *Runner) report(ctx context.Context, out *Outcome) {
	switch out.Status {
	case StatusPlaced:
		logger.Info("[%s] order placed: %s", out.ID, out.Summary)
		r.notify(out.Summary)
	case StatusRejected:
		logger.Warn("[%s] %s", out.ID, out.Summary)
		r.notify(out.Summary)
	default:
		logger.Error("[%s] signal dropped at %s: %v | message=%q", out.ID, out.Stage, out.Err, out.Message.Text)
		r.notify(describeFailure(out))
	}

	if r.journal != nil {
		if err := r.journal.Record(context.WithoutCancel(ctx), *out); err != nil {
			logger.Error("[%s] journal: %v", out.ID, err)
		}
	}
	if r.tracker != nil {
		r.tracker.SignalHandled(out.Status == StatusPlaced, time.Now())
	}
}

func (r *Runner) notify(msg string) {
	if r.n == nil {
		return
	}
	r.n.Send(msg)
}

func describeFailure(out *Outcome) string {
	var subErr *models.SubmissionError
	if errors.As(out.Err, &subErr) && subErr.Raw != "" {
		return fmt.Sprintf("Signal dropped (%s): %v\nraw: %s", out.Stage, out.Err, subErr.Raw)
	}
	return fmt.Sprintf("Signal dropped (%s): %v", out.Stage, out.Err)
}
