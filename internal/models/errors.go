package models

import (
	"errors"
	"fmt"
)

var (
	ErrIncompleteSignal   = errors.New("incomplete signal")
	ErrMalformedNumber    = errors.New("malformed numeric field")
	ErrInstrumentNotFound = errors.New("instrument not found")
	ErrNoWalletEntries    = errors.New("wallet list is empty")
	ErrQuoteCoinNotFound  = errors.New("quote coin balance not found")
	ErrInsufficientFunds  = errors.New("insufficient balance to place even a minimum quantity order")
)

// ParseError — сигнал не разобран. Field пустой, если не хватает полей.
type ParseError struct {
	Field string
	Value string
	Err   error
}

func (e *ParseError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("parse signal: %s %q: %v", e.Field, e.Value, e.Err)
	}
	return fmt.Sprintf("parse signal: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// NotFoundError — нет метаданных инструмента (или не смогли их получить).
type NotFoundError struct {
	Symbol string
	Err    error
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("instrument %s: %v", e.Symbol, e.Err)
}

func (e *NotFoundError) Unwrap() error { return e.Err }

// BalanceError — ответ по кошельку пустой, кривой или без нужной монеты.
type BalanceError struct {
	AccountType string
	Coin        string
	Err         error
}

func (e *BalanceError) Error() string {
	return fmt.Sprintf("wallet balance %s/%s: %v", e.AccountType, e.Coin, e.Err)
}

func (e *BalanceError) Unwrap() error { return e.Err }

// InsufficientFundsError — после округления вниз до шага объём нулевой.
type InsufficientFundsError struct {
	Symbol   string
	Balance  float64
	Price    float64
	StepSize float64
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("%s: %v (balance=%.8f price=%.8f step=%g)",
		e.Symbol, ErrInsufficientFunds, e.Balance, e.Price, e.StepSize)
}

func (e *InsufficientFundsError) Unwrap() error { return ErrInsufficientFunds }

// SubmissionError — ордер не дошёл до биржи или ответ не разобран.
// Raw — тело ответа/диагностика транспорта.
type SubmissionError struct {
	Symbol string
	Raw    string
	Err    error
}

func (e *SubmissionError) Error() string {
	return fmt.Sprintf("submit order %s: %v", e.Symbol, e.Err)
}

func (e *SubmissionError) Unwrap() error { return e.Err }
