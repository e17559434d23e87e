package service

import (
	"context"
	"fmt"

	"github.com/bytedance/sonic"

	"signal_bot/internal/runner"
	"signal_bot/pkg/db"
)

const schema = `
CREATE TABLE IF NOT EXISTS signal_journal (
    id             UUID PRIMARY KEY,
    received_at    TIMESTAMPTZ NOT NULL,
    sender         TEXT NOT NULL DEFAULT '',
    raw_text       TEXT NOT NULL,
    symbol         TEXT,
    entry_price    DOUBLE PRECISION,
    stop_loss      DOUBLE PRECISION,
    take_profit    DOUBLE PRECISION,
    quantity       NUMERIC,
    status         TEXT NOT NULL,
    stage          TEXT,
    order_id       TEXT,
    ret_code       INTEGER,
    ret_msg        TEXT,
    equity         DOUBLE PRECISION,
    wallet_balance DOUBLE PRECISION,
    instrument     JSONB,
    error          TEXT,
    created_at     TIMESTAMPTZ NOT NULL DEFAULT now()
)`

const insertQuery = `
INSERT INTO signal_journal (
    id, received_at, sender, raw_text,
    symbol, entry_price, stop_loss, take_profit, quantity,
    status, stage, order_id, ret_code, ret_msg,
    equity, wallet_balance, instrument, error
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18)
ON CONFLICT (id) DO NOTHING`

// Journal — журнал сигналов в Postgres, одна строка на прогон.
type Journal struct {
	tx db.TxManager
}

func NewJournal(tx db.TxManager) *Journal {
	return &Journal{tx: tx}
}

func (j *Journal) EnsureSchema(ctx context.Context) error {
	if _, err := j.tx.Conn().Exec(ctx, schema); err != nil {
		return fmt.Errorf("ensure signal_journal: %w", err)
	}
	return nil
}

func (j *Journal) Record(ctx context.Context, out runner.Outcome) error {
	instrument, err := sonic.Marshal(out.Instrument)
	if err != nil {
		return fmt.Errorf("marshal instrument: %w", err)
	}

	var (
		symbol, stage, orderID, retMsg, errText *string
		entry, sl, tp, equity, balance          *float64
		quantity                                *string
		retCode                                 *int
	)
	if out.Signal.Symbol != "" {
		symbol = &out.Signal.Symbol
		entry, sl, tp = &out.Signal.EntryPrice, &out.Signal.StopLossPrice, &out.Signal.TakeProfitPrice
	}
	if out.Account.Coin != "" {
		equity, balance = &out.Account.Equity, &out.Account.WalletBalance
	}
	if out.Quantity.IsPositive() {
		q := out.Quantity.String()
		quantity = &q
	}
	if out.Stage != "" {
		s := string(out.Stage)
		stage = &s
	}
	if out.Result.OrderID != "" {
		orderID = &out.Result.OrderID
	}
	if out.Result.StatusMessage != "" {
		retMsg, retCode = &out.Result.StatusMessage, &out.Result.RetCode
	}
	if out.Err != nil {
		e := out.Err.Error()
		errText = &e
	}

	return j.tx.RunMaster(ctx, func(ctx context.Context, tx db.Transaction) error {
		_, err := tx.Exec(ctx, insertQuery,
			out.ID, out.Message.ReceivedAt, out.Message.Sender, out.Message.Text,
			symbol, entry, sl, tp, quantity,
			string(out.Status), stage, orderID, retCode, retMsg,
			equity, balance, instrument, errText,
		)
		return err
	})
}

// Nop — журнал выключен (пустой db_dsn).
type Nop struct{}

func (Nop) Record(context.Context, runner.Outcome) error { return nil }
