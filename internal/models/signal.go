package models

import "time"

// RawMessage — сообщение из канала сигналов как есть.
type RawMessage struct {
	ID         int
	Sender     string
	Text       string
	ReceivedAt time.Time
}

// TradeSignal — разобранный сигнал: что покупаем и где стоп/тейк.
type TradeSignal struct {
	Symbol          string
	EntryPrice      float64
	StopLossPrice   float64
	TakeProfitPrice float64
}
