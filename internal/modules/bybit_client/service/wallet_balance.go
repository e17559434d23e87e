package service

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/bytedance/sonic"
)

// WalletBalance — GET /v5/account/wallet-balance (подписанный).
func (c *Client) WalletBalance(ctx context.Context, accountType string) ([]WalletAccount, error) {
	q := url.Values{}
	q.Set("accountType", accountType)

	data, err := c.do(ctx, http.MethodGet, "/v5/account/wallet-balance", q, nil, true)
	if err != nil {
		return nil, fmt.Errorf("WalletBalance: %w", err)
	}

	var resp walletResponse
	if err := sonic.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("WalletBalance decode: %w; body=%s", err, string(data))
	}
	if resp.RetCode != 0 {
		return nil, fmt.Errorf("WalletBalance error: code=%d msg=%s", resp.RetCode, resp.RetMsg)
	}
	return resp.Result.List, nil
}
