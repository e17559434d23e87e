package service

import (
	"bytes"
	"fmt"

	"github.com/bytedance/sonic"
)

type Instrument struct {
	Symbol        string `json:"symbol"`
	Status        string `json:"status"`
	BaseCoin      string `json:"baseCoin"`
	QuoteCoin     string `json:"quoteCoin"`
	LotSizeFilter struct {
		QtyStep     string `json:"qtyStep"`
		MinOrderQty string `json:"minOrderQty"`
		MaxOrderQty string `json:"maxOrderQty"`
	} `json:"lotSizeFilter"`
	PriceFilter struct {
		TickSize string `json:"tickSize"`
	} `json:"priceFilter"`
}

type instrumentsResponse struct {
	RetCode int    `json:"retCode"`
	RetMsg  string `json:"retMsg"`
	Result  struct {
		Category       string       `json:"category"`
		List           []Instrument `json:"list"`
		NextPageCursor string       `json:"nextPageCursor"`
	} `json:"result"`
}

type WalletAccount struct {
	AccountType string   `json:"accountType"`
	TotalEquity string   `json:"totalEquity"`
	Coin        CoinList `json:"coin"`
}

type WalletCoin struct {
	Coin                string `json:"coin"`
	Equity              string `json:"equity"`
	WalletBalance       string `json:"walletBalance"`
	AvailableToWithdraw string `json:"availableToWithdraw"`
}

// CoinList — поле coin кошелька. Bybit отдаёт его то массивом, то одним
// объектом; здесь оба варианта сразу сводятся к срезу.
type CoinList []WalletCoin

func (l *CoinList) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case len(b) == 0 || bytes.Equal(b, []byte("null")):
		*l = nil
	case b[0] == '[':
		var many []WalletCoin
		if err := sonic.Unmarshal(b, &many); err != nil {
			return fmt.Errorf("coin list: %w", err)
		}
		*l = many
	case b[0] == '{':
		var one WalletCoin
		if err := sonic.Unmarshal(b, &one); err != nil {
			return fmt.Errorf("coin record: %w", err)
		}
		*l = CoinList{one}
	default:
		return fmt.Errorf("coin: unexpected shape %s", string(b))
	}
	return nil
}

type walletResponse struct {
	RetCode int    `json:"retCode"`
	RetMsg  string `json:"retMsg"`
	Result  struct {
		List []WalletAccount `json:"list"`
	} `json:"result"`
}

type CreateOrderParams struct {
	Category    string `json:"category"`
	Symbol      string `json:"symbol"`
	Side        string `json:"side"`
	OrderType   string `json:"orderType"`
	Qty         string `json:"qty"`
	Price       string `json:"price,omitempty"`
	TimeInForce string `json:"timeInForce,omitempty"`
	StopLoss    string `json:"stopLoss,omitempty"`
	TakeProfit  string `json:"takeProfit,omitempty"`
	OrderLinkID string `json:"orderLinkId,omitempty"`
}

// OrderResponse — разобранный ответ /v5/order/create. RetCode != 0 —
// отказ биржи, Raw — тело как пришло.
type OrderResponse struct {
	RetCode int    `json:"retCode"`
	RetMsg  string `json:"retMsg"`
	Result  struct {
		OrderID     string `json:"orderId"`
		OrderLinkID string `json:"orderLinkId"`
	} `json:"result"`
	Time int64  `json:"time"`
	Raw  string `json:"-"`
}
