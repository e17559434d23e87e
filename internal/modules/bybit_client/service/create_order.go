package service

import (
	"context"
	"fmt"
	"net/http"

	"github.com/bytedance/sonic"
)

// CreateOrder — POST /v5/order/create. Ошибка только при сбое транспорта
// или нечитаемом ответе; отказ биржи (retCode != 0) возвращается в ответе.
func (c *Client) CreateOrder(ctx context.Context, params CreateOrderParams) (*OrderResponse, error) {
	payload, err := sonic.Marshal(params)
	if err != nil {
		return nil, fmt.Errorf("CreateOrder marshal: %w", err)
	}

	data, err := c.do(ctx, http.MethodPost, "/v5/order/create", nil, payload, true)
	if err != nil {
		return nil, fmt.Errorf("CreateOrder: %w", err)
	}

	var resp OrderResponse
	if err := sonic.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("CreateOrder decode: %w; body=%s", err, string(data))
	}
	resp.Raw = string(data)
	return &resp, nil
}
