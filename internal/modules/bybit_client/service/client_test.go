package service

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(srv.URL, "key", "secret", 5000, srv.Client())
}

func expectedSign(ts, payload string) string {
	h := hmac.New(sha256.New, []byte("secret"))
	h.Write([]byte(ts + "key" + "5000" + payload))
	return hex.EncodeToString(h.Sum(nil))
}

func TestBaseURL(t *testing.T) {
	assert.Equal(t, DemoURL, BaseURL(""))
	assert.Equal(t, DemoURL, BaseURL("demo"))
	assert.Equal(t, MainnetURL, BaseURL("Mainnet"))
	assert.Equal(t, TestnetURL, BaseURL("testnet"))
	assert.Equal(t, "http://localhost:9999", BaseURL("http://localhost:9999"))
}

func TestInstrumentsInfo_Pagination(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, "/v5/market/instruments-info", r.URL.Path)
		assert.Equal(t, "linear", r.URL.Query().Get("category"))
		assert.Empty(t, r.Header.Get("X-BAPI-SIGN"), "public endpoint is not signed")

		switch r.URL.Query().Get("cursor") {
		case "":
			_, _ = io.WriteString(w, `{"retCode":0,"retMsg":"OK","result":{"category":"linear","list":[
				{"symbol":"BTCUSDT","status":"Trading","lotSizeFilter":{"qtyStep":"0.001","minOrderQty":"0.001"},"priceFilter":{"tickSize":"0.10"}}
			],"nextPageCursor":"page2"}}`)
		case "page2":
			_, _ = io.WriteString(w, `{"retCode":0,"retMsg":"OK","result":{"category":"linear","list":[
				{"symbol":"ETHUSDT","status":"Trading","lotSizeFilter":{"qtyStep":"0.01","minOrderQty":"0.01"},"priceFilter":{"tickSize":"0.01"}}
			],"nextPageCursor":""}}`)
		default:
			t.Errorf("unexpected cursor %q", r.URL.Query().Get("cursor"))
		}
	})

	list, err := c.InstrumentsInfo(context.Background(), "linear")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, int32(2), calls.Load())
	assert.Equal(t, "BTCUSDT", list[0].Symbol)
	assert.Equal(t, "0.001", list[0].LotSizeFilter.QtyStep)
	assert.Equal(t, "ETHUSDT", list[1].Symbol)
}

func TestInstrumentsInfo_Errors(t *testing.T) {
	t.Run("ret code", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, `{"retCode":10001,"retMsg":"params error"}`)
		})
		_, err := c.InstrumentsInfo(context.Background(), "linear")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "code=10001")
	})

	t.Run("http status", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
			_, _ = io.WriteString(w, "upstream down")
		})
		_, err := c.InstrumentsInfo(context.Background(), "linear")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "http 502: upstream down")
	})
}

func TestWalletBalance_SignedRequest(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v5/account/wallet-balance", r.URL.Path)
		assert.Equal(t, "key", r.Header.Get("X-BAPI-API-KEY"))
		assert.Equal(t, "5000", r.Header.Get("X-BAPI-RECV-WINDOW"))
		ts := r.Header.Get("X-BAPI-TIMESTAMP")
		assert.NotEmpty(t, ts)
		assert.Equal(t, expectedSign(ts, r.URL.RawQuery), r.Header.Get("X-BAPI-SIGN"))

		_, _ = io.WriteString(w, `{"retCode":0,"retMsg":"OK","result":{"list":[]}}`)
	})

	list, err := c.WalletBalance(context.Background(), "UNIFIED")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestWalletBalance_CoinShapes(t *testing.T) {
	many := `{"retCode":0,"retMsg":"OK","result":{"list":[{"accountType":"UNIFIED","totalEquity":"10.5","coin":[
		{"coin":"BTC","equity":"0.1","walletBalance":"0.1"},
		{"coin":"USDT","equity":"1000.5","walletBalance":"990.25"}
	]}]}}`
	one := `{"retCode":0,"retMsg":"OK","result":{"list":[{"accountType":"UNIFIED","totalEquity":"10.5","coin":
		{"coin":"USDT","equity":"1000.5","walletBalance":"990.25"}
	}]}}`

	fetch := func(body string) []WalletAccount {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, body)
		})
		list, err := c.WalletBalance(context.Background(), "UNIFIED")
		require.NoError(t, err)
		return list
	}

	fromMany := fetch(many)
	fromOne := fetch(one)
	require.Len(t, fromMany, 1)
	require.Len(t, fromOne, 1)
	require.Len(t, fromMany[0].Coin, 2)
	require.Len(t, fromOne[0].Coin, 1)
	assert.Equal(t, fromMany[0].Coin[1], fromOne[0].Coin[0])
}

func TestCoinList_UnmarshalJSON(t *testing.T) {
	var acc WalletAccount
	require.NoError(t, sonic.Unmarshal([]byte(`{"coin":null}`), &acc))
	assert.Nil(t, acc.Coin)

	err := sonic.Unmarshal([]byte(`{"coin":"USDT"}`), &acc)
	assert.Error(t, err)
}

func TestCreateOrder(t *testing.T) {
	t.Run("accepted", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/v5/order/create", r.URL.Path)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

			body, _ := io.ReadAll(r.Body)
			assert.Equal(t, expectedSign(r.Header.Get("X-BAPI-TIMESTAMP"), string(body)), r.Header.Get("X-BAPI-SIGN"))

			var got CreateOrderParams
			assert.NoError(t, sonic.Unmarshal(body, &got))
			assert.Equal(t, "Buy", got.Side)
			assert.Equal(t, "Limit", got.OrderType)
			assert.Equal(t, "GTC", got.TimeInForce)
			assert.Equal(t, "0.1", got.Qty)
			assert.Equal(t, "95", got.StopLoss)
			assert.Equal(t, "110", got.TakeProfit)

			_, _ = io.WriteString(w, `{"retCode":0,"retMsg":"OK","result":{"orderId":"X","orderLinkId":"link"},"time":123}`)
		})

		resp, err := c.CreateOrder(context.Background(), CreateOrderParams{
			Category: "linear", Symbol: "BTCUSDT", Side: "Buy", OrderType: "Limit",
			Qty: "0.1", Price: "100", TimeInForce: "GTC", StopLoss: "95", TakeProfit: "110",
			OrderLinkID: "link",
		})
		require.NoError(t, err)
		assert.Equal(t, 0, resp.RetCode)
		assert.Equal(t, "X", resp.Result.OrderID)
		assert.Equal(t, int64(123), resp.Time)
		assert.Contains(t, resp.Raw, `"orderId":"X"`)
	})

	t.Run("business rejection is not an error", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, `{"retCode":110007,"retMsg":"insufficient balance","result":{},"time":124}`)
		})
		resp, err := c.CreateOrder(context.Background(), CreateOrderParams{Symbol: "BTCUSDT"})
		require.NoError(t, err)
		assert.Equal(t, 110007, resp.RetCode)
		assert.Equal(t, "insufficient balance", resp.RetMsg)
	})

	t.Run("malformed body", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, `<html>`)
		})
		_, err := c.CreateOrder(context.Background(), CreateOrderParams{Symbol: "BTCUSDT"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "body=<html>")
	})

	t.Run("timeout", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-r.Context().Done():
			case <-time.After(time.Second):
			}
		})
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()
		_, err := c.CreateOrder(ctx, CreateOrderParams{Symbol: "BTCUSDT"})
		require.Error(t, err)
	})
}
