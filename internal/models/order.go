package models

import "github.com/shopspring/decimal"

type Side string

const SideBuy Side = "Buy"

type OrderType string

const OrderTypeLimit OrderType = "Limit"

type TimeInForce string

const TimeInForceGTC TimeInForce = "GTC"

// OrderRequest — лимитный ордер со стопом и тейком на стороне биржи.
type OrderRequest struct {
	Symbol      string
	Side        Side
	OrderType   OrderType
	Quantity    decimal.Decimal
	Price       float64
	TimeInForce TimeInForce
	StopLoss    float64
	TakeProfit  float64
	LinkID      string
}

// OrderResult — ответ биржи. Success=false при ненулевом retCode — это
// бизнес-отказ, а не ошибка транспорта.
type OrderResult struct {
	Success       bool
	RetCode       int
	OrderID       string
	StatusMessage string
	Timestamp     int64
}
