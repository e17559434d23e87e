package service

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/bytedance/sonic"
)

const instrumentsPageLimit = "1000"

// защита от зацикленного курсора
const maxInstrumentPages = 20

// InstrumentsInfo отдаёт все инструменты категории, проходя по nextPageCursor.
func (c *Client) InstrumentsInfo(ctx context.Context, category string) ([]Instrument, error) {
	var (
		out    []Instrument
		cursor string
	)
	for page := 0; page < maxInstrumentPages; page++ {
		q := url.Values{}
		q.Set("category", category)
		q.Set("limit", instrumentsPageLimit)
		if cursor != "" {
			q.Set("cursor", cursor)
		}

		data, err := c.do(ctx, http.MethodGet, "/v5/market/instruments-info", q, nil, false)
		if err != nil {
			return nil, fmt.Errorf("InstrumentsInfo: %w", err)
		}

		var resp instrumentsResponse
		if err := sonic.Unmarshal(data, &resp); err != nil {
			return nil, fmt.Errorf("InstrumentsInfo decode: %w; body=%s", err, string(data))
		}
		if resp.RetCode != 0 {
			return nil, fmt.Errorf("InstrumentsInfo error: code=%d msg=%s", resp.RetCode, resp.RetMsg)
		}

		out = append(out, resp.Result.List...)
		if resp.Result.NextPageCursor == "" || resp.Result.NextPageCursor == cursor {
			return out, nil
		}
		cursor = resp.Result.NextPageCursor
	}
	return out, nil
}
