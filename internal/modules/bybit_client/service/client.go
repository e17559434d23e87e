package service

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"signal_bot/internal/modules/config"
)

const (
	MainnetURL = "https://api.bybit.com"
	TestnetURL = "https://api-testnet.bybit.com"
	DemoURL    = "https://api-demo.bybit.com"
)

// Client — REST-клиент Bybit V5 (unified account).
type Client struct {
	http       *http.Client
	baseURL    string
	apiKey     string
	apiSecret  string
	recvWindow int
}

func NewClient(cfg *config.Config) *Client {
	return New(
		BaseURL(cfg.Bybit.Env),
		cfg.Bybit.APIKey,
		cfg.Bybit.APISecret,
		cfg.Bybit.RecvWindow,
		&http.Client{Timeout: cfg.Bybit.CallTimeout},
	)
}

func New(baseURL, apiKey, apiSecret string, recvWindow int, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	if recvWindow <= 0 {
		recvWindow = 5000
	}
	return &Client{
		http:       httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		apiSecret:  apiSecret,
		recvWindow: recvWindow,
	}
}

// BaseURL: mainnet | testnet | demo или готовый URL.
func BaseURL(env string) string {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "", "demo":
		return DemoURL
	case "mainnet", "prod":
		return MainnetURL
	case "testnet":
		return TestnetURL
	default:
		return env
	}
}

// sign: HMAC_SHA256(secret, timestamp + apiKey + recvWindow + payload) в hex.
// payload — query string для GET и тело для POST.
func (c *Client) sign(ts, payload string) string {
	h := hmac.New(sha256.New, []byte(c.apiSecret))
	h.Write([]byte(ts + c.apiKey + strconv.Itoa(c.recvWindow) + payload))
	return hex.EncodeToString(h.Sum(nil))
}

func (c *Client) do(
	ctx context.Context,
	method string,
	requestPath string,
	query url.Values,
	body []byte,
	signed bool,
) ([]byte, error) {
	qs := query.Encode()
	target := c.baseURL + requestPath
	if qs != "" {
		target += "?" + qs
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if signed {
		ts := strconv.FormatInt(time.Now().UnixMilli(), 10)
		payload := qs
		if method == http.MethodPost {
			payload = string(body)
		}
		req.Header.Set("X-BAPI-API-KEY", c.apiKey)
		req.Header.Set("X-BAPI-TIMESTAMP", ts)
		req.Header.Set("X-BAPI-RECV-WINDOW", strconv.Itoa(c.recvWindow))
		req.Header.Set("X-BAPI-SIGN", c.sign(ts, payload))
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do %s: %w", requestPath, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", requestPath, err)
	}
	if resp.StatusCode/100 != 2 {
		return nil, fmt.Errorf("%s http %d: %s", requestPath, resp.StatusCode, string(data))
	}
	return data, nil
}
