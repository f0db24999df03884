package bybit

import (
	"context"
	"fmt"
	"strconv"

	"github.com/ducminhle1904/smart-trailing-bot/pkg/types"
)

// ModifyStopLoss implements broker.StopLossActuator via the V5 trading-stop
// endpoint. stopLoss = 0 clears the stop ("0" server-side). The position's
// take-profit is passed through unchanged so the call never clears it.
// The call is idempotent: re-sending the current price is a server no-op.
func (c *Client) ModifyStopLoss(ctx context.Context, pos *types.Position, stopLoss float64, digits int) error {
	params := map[string]interface{}{
		"category":    c.category,
		"symbol":      pos.Symbol,
		"positionIdx": 0, // one-way mode
		"stopLoss":    formatPrice(stopLoss, digits),
	}
	if pos.TakeProfit > 0 {
		params["takeProfit"] = formatPrice(pos.TakeProfit, digits)
	}

	return c.withRetry(ctx, "set trading stop", func() error {
		result, err := c.httpClient.NewUtaBybitServiceWithParams(params).SetPositionTradingStop(ctx)
		if err != nil {
			return err
		}
		if serverResp := result; serverResp != nil && serverResp.RetCode != 0 {
			apiErr := NewAPIError(serverResp.RetCode, serverResp.RetMsg)
			if IsNotModified(apiErr) {
				return nil
			}
			return apiErr
		}
		return nil
	})
}

// formatPrice renders a price at the symbol's precision; 0 becomes "0"
// which Bybit interprets as "remove".
func formatPrice(price float64, digits int) string {
	if price == 0 {
		return "0"
	}
	return strconv.FormatFloat(price, 'f', digits, 64)
}

// ClosePosition closes a position at market with a reduce-only order.
// Used by the close-on-exit shutdown path, never by the trailing loop.
func (c *Client) ClosePosition(ctx context.Context, pos *types.Position) error {
	side := "Sell"
	if pos.Side == types.SideShort {
		side = "Buy"
	}

	params := map[string]interface{}{
		"category":    c.category,
		"symbol":      pos.Symbol,
		"side":        side,
		"orderType":   "Market",
		"qty":         strconv.FormatFloat(pos.Volume, 'f', -1, 64),
		"reduceOnly":  true,
		"positionIdx": 0,
	}

	result, err := c.httpClient.NewUtaBybitServiceWithParams(params).PlaceOrder(ctx)
	if err != nil {
		return fmt.Errorf("failed to close position: %w", err)
	}
	if serverResp := result; serverResp != nil && serverResp.RetCode != 0 {
		return NewAPIError(serverResp.RetCode, serverResp.RetMsg)
	}
	return nil
}
