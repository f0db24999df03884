package bybit

import (
	bybit_api "github.com/bybit-exchange/bybit.go.api"
)

// Client implements the broker interfaces against the Bybit V5 API.
// All trailed positions are expected in one-way position mode.
type Client struct {
	httpClient *bybit_api.Client
	category   string
	testnet    bool
	demo       bool

	instruments *instrumentCache
}

// Config holds the configuration for the Bybit client
type Config struct {
	APIKey    string
	APISecret string
	Category  string // "linear" or "inverse"; defaults to "linear"
	Testnet   bool
	Demo      bool // demo trading environment (paper trading)
}

// NewClient creates a new Bybit client
func NewClient(config Config) *Client {
	var baseURL string
	if config.Demo {
		// Demo trading environment (paper trading)
		baseURL = "https://api-demo.bybit.com"
	} else if config.Testnet {
		baseURL = bybit_api.TESTNET
	} else {
		baseURL = bybit_api.MAINNET
	}

	category := config.Category
	if category == "" {
		category = "linear"
	}

	c := &Client{
		httpClient: bybit_api.NewBybitHttpClient(
			config.APIKey,
			config.APISecret,
			bybit_api.WithBaseURL(baseURL),
		),
		category: category,
		testnet:  config.Testnet,
		demo:     config.Demo,
	}
	c.instruments = newInstrumentCache(c)
	return c
}

// GetName implements broker.Broker
func (c *Client) GetName() string {
	return "bybit"
}

// GetEnvironment returns a string describing the current environment
func (c *Client) GetEnvironment() string {
	if c.demo {
		return "demo"
	} else if c.testnet {
		return "testnet"
	}
	return "mainnet"
}
