package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/ducminhle1904/smart-trailing-bot/internal/trailing"
)

// Config is the full runtime configuration of the trail bot: engine
// parameters from an optional JSON file, credentials and environment
// switches from env vars, both overridable by CLI flags.
type Config struct {
	Trailing *trailing.Config `json:"trailing"`

	Exchange struct {
		APIKey    string `json:"-"`
		APISecret string `json:"-"`
		Category  string `json:"category"`
		Testnet   bool   `json:"testnet"`
		Demo      bool   `json:"demo"`
	} `json:"exchange"`

	// CommentTag restricts trailing to positions whose comment contains
	// the tag; empty disables the filter.
	CommentTag string `json:"comment_tag"`

	// DryRun logs decisions without touching the broker
	DryRun bool `json:"dry_run"`

	Monitoring struct {
		MetricsPort int `json:"metrics_port"` // 0 disables the endpoint
	} `json:"monitoring"`

	Reporting struct {
		JournalFile string `json:"journal_file"` // .csv or .xlsx; empty disables
	} `json:"reporting"`
}

// Load builds the configuration from an optional JSON file plus
// environment variables. Env vars win for credentials; the file wins
// for engine parameters.
func Load(configFile string) (*Config, error) {
	cfg := &Config{
		Trailing: trailing.DefaultConfig(),
	}
	cfg.Exchange.Category = "linear"
	cfg.Exchange.Demo = true
	cfg.DryRun = true

	if configFile != "" {
		data, err := os.ReadFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", configFile, err)
		}
	}

	cfg.Exchange.APIKey = getEnv("BYBIT_API_KEY", cfg.Exchange.APIKey)
	cfg.Exchange.APISecret = getEnv("BYBIT_API_SECRET", cfg.Exchange.APISecret)
	cfg.CommentTag = getEnv("TRAIL_COMMENT_TAG", cfg.CommentTag)
	cfg.Monitoring.MetricsPort = getEnvInt("TRAIL_METRICS_PORT", cfg.Monitoring.MetricsPort)

	if interval := getEnvDuration("TRAIL_CHECK_INTERVAL", 0); interval > 0 {
		cfg.Trailing.CheckInterval = interval
	}

	return cfg, nil
}

// Validate checks the configuration before the bot starts
func (c *Config) Validate() error {
	if c.Trailing == nil {
		return fmt.Errorf("trailing configuration is required")
	}
	if err := c.Trailing.Validate(); err != nil {
		return err
	}
	if !c.DryRun && (c.Exchange.APIKey == "" || c.Exchange.APISecret == "") {
		return fmt.Errorf("BYBIT_API_KEY and BYBIT_API_SECRET are required outside dry-run mode")
	}
	if c.Monitoring.MetricsPort < 0 || c.Monitoring.MetricsPort > 65535 {
		return fmt.Errorf("metrics_port out of range: %d", c.Monitoring.MetricsPort)
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if parsed, err := time.ParseDuration(val); err == nil {
			return parsed
		}
	}
	return defaultVal
}
