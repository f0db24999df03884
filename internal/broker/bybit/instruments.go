package bybit

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	bybit_api "github.com/bybit-exchange/bybit.go.api"

	"github.com/ducminhle1904/smart-trailing-bot/pkg/types"
)

// minStopTicks is the distance floor Bybit enforces between the mark
// price and a trading-stop trigger, expressed in ticks. The exchange
// rejects closer stops with "cannot set SL/TP immediately triggering".
const minStopTicks = 10

// instrumentCache caches symbol trading rules so the poller does not
// re-fetch static data every cycle.
type instrumentCache struct {
	client     *Client
	mu         sync.RWMutex
	metadata   map[string]*types.SymbolMetadata
	fetchedAt  map[string]time.Time
	refreshTTL time.Duration
}

func newInstrumentCache(client *Client) *instrumentCache {
	return &instrumentCache{
		client:     client,
		metadata:   make(map[string]*types.SymbolMetadata),
		fetchedAt:  make(map[string]time.Time),
		refreshTTL: time.Hour,
	}
}

// GetSymbolMetadata implements broker.SymbolInfoProvider
func (c *Client) GetSymbolMetadata(ctx context.Context, symbol string) (*types.SymbolMetadata, error) {
	return c.instruments.get(ctx, symbol)
}

func (ic *instrumentCache) get(ctx context.Context, symbol string) (*types.SymbolMetadata, error) {
	ic.mu.RLock()
	if meta, ok := ic.metadata[symbol]; ok && time.Since(ic.fetchedAt[symbol]) < ic.refreshTTL {
		ic.mu.RUnlock()
		return meta, nil
	}
	ic.mu.RUnlock()

	meta, err := ic.fetch(ctx, symbol)
	if err != nil {
		return nil, err
	}

	ic.mu.Lock()
	ic.metadata[symbol] = meta
	ic.fetchedAt[symbol] = time.Now()
	ic.mu.Unlock()

	return meta, nil
}

func (ic *instrumentCache) fetch(ctx context.Context, symbol string) (*types.SymbolMetadata, error) {
	params := map[string]interface{}{
		"category": ic.client.category,
		"symbol":   symbol,
	}

	result, err := ic.client.httpClient.NewUtaBybitServiceWithParams(params).GetInstrumentInfo(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch instrument info: %w", err)
	}

	return parseInstrumentResponse(result, symbol)
}

func parseInstrumentResponse(response interface{}, symbol string) (*types.SymbolMetadata, error) {
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

	var infoResult struct {
		List []struct {
			Symbol      string `json:"symbol"`
			PriceFilter struct {
				TickSize string `json:"tickSize"`
			} `json:"priceFilter"`
			LotSizeFilter struct {
				QtyStep string `json:"qtyStep"`
			} `json:"lotSizeFilter"`
		} `json:"list"`
	}
	if err := json.Unmarshal(resultBytes, &infoResult); err != nil {
		return nil, fmt.Errorf("failed to unmarshal instrument info: %w", err)
	}
	if len(infoResult.List) == 0 {
		return nil, fmt.Errorf("no instrument info found for %s", symbol)
	}

	info := infoResult.List[0]
	tickSize := parseFloat64(info.PriceFilter.TickSize)
	if tickSize <= 0 {
		return nil, fmt.Errorf("instrument %s has invalid tick size %q", symbol, info.PriceFilter.TickSize)
	}

	return &types.SymbolMetadata{
		Symbol: info.Symbol,
		Digits: decimalsOf(info.PriceFilter.TickSize),
		Point:  tickSize,
		// Linear perpetual contracts are quoted per unit of the base asset
		ContractSize: 1,
		MinStopUnits: minStopTicks,
	}, nil
}

// decimalsOf counts the decimal places of a tick size like "0.001".
// Whole-number ticks ("1", "10") quote with no decimals at all.
func decimalsOf(tickSize string) int {
	trimmed := strings.TrimRight(tickSize, "0")
	if idx := strings.Index(trimmed, "."); idx >= 0 {
		return len(trimmed) - idx - 1
	}
	return 0
}
