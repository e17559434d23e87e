package models

// AccountState — снимок кошелька в котируемой валюте (USDT).
type AccountState struct {
	Coin          string
	Equity        float64
	WalletBalance float64
}
