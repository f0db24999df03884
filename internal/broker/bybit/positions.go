package bybit

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	bybit_api "github.com/bybit-exchange/bybit.go.api"

	"github.com/ducminhle1904/smart-trailing-bot/pkg/types"
)

// ListPositions implements broker.PositionProvider. In one-way mode a
// symbol carries at most one position per side, so "SYMBOL-SIDE" is a
// stable ticket across polls.
func (c *Client) ListPositions(ctx context.Context) ([]types.Position, error) {
	params := map[string]interface{}{
		"category":   c.category,
		"settleCoin": "USDT",
	}

	var result interface{}
	err := c.withRetry(ctx, "get positions", func() error {
		var callErr error
		result, callErr = c.httpClient.NewUtaBybitServiceWithParams(params).GetPositionList(ctx)
		return callErr
	})
	if err != nil {
		return nil, err
	}

	return parsePositionsResponse(result)
}

// GetPosition implements broker.PositionProvider. Returns (nil, nil)
// when the ticket no longer maps to an open position - the position has
// closed and the caller must stop tracking it.
func (c *Client) GetPosition(ctx context.Context, ticket string) (*types.Position, error) {
	positions, err := c.ListPositions(ctx)
	if err != nil {
		return nil, err
	}
	for i := range positions {
		if positions[i].Ticket == ticket {
			return &positions[i], nil
		}
	}
	return nil, nil
}

// parsePositionsResponse parses the positions API response
func parsePositionsResponse(response interface{}) ([]types.Position, error) {
	serverResp, ok := response.(*bybit_api.ServerResponse)
	if !ok {
		return nil, fmt.Errorf("invalid response type")
	}
	if serverResp.RetCode != 0 {
		return nil, NewAPIError(serverResp.RetCode, serverResp.RetMsg)
	}

	resultBytes, err := json.Marshal(serverResp.Result)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}

	var positionResult struct {
		List []struct {
			Symbol         string `json:"symbol"`
			Side           string `json:"side"`
			Size           string `json:"size"`
			AvgPrice       string `json:"avgPrice"`
			MarkPrice      string `json:"markPrice"`
			UnrealisedPnl  string `json:"unrealisedPnl"`
			CurRealisedPnl string `json:"curRealisedPnl"`
			TakeProfit     string `json:"takeProfit"`
			StopLoss       string `json:"stopLoss"`
			PositionIdx    int    `json:"positionIdx"`
		} `json:"list"`
	}
	if err := json.Unmarshal(resultBytes, &positionResult); err != nil {
		return nil, fmt.Errorf("failed to unmarshal positions result: %w", err)
	}

	var positions []types.Position
	for _, p := range positionResult.List {
		size := parseFloat64(p.Size)
		if size <= 0 {
			continue // flat slot reported by the API
		}

		side := types.SideLong
		if strings.EqualFold(p.Side, "Sell") {
			side = types.SideShort
		}

		positions = append(positions, types.Position{
			Ticket:       fmt.Sprintf("%s-%s", p.Symbol, strings.ToUpper(p.Side)),
			Symbol:       p.Symbol,
			Side:         side,
			Volume:       size,
			EntryPrice:   parseFloat64(p.AvgPrice),
			CurrentPrice: parseFloat64(p.MarkPrice),
			StopLoss:     parseFloat64(p.StopLoss),
			TakeProfit:   parseFloat64(p.TakeProfit),
			Profit:       parseFloat64(p.UnrealisedPnl),
			// Funding payments settle into realized PnL on Bybit, so
			// they behave exactly like MT5 swap in the profit math.
			Swap: parseFloat64(p.CurRealisedPnl),
		})
	}

	return positions, nil
}
