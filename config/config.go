package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the full agent configuration.
type Config struct {
	Agent   AgentConfig   `yaml:"agent"`
	Trading TradingConfig `yaml:"trading"`
	Digest  DigestConfig  `yaml:"digest"`
	Tip     TipConfig     `yaml:"tip"`
	AI      AIConfig      `yaml:"ai"`
	API     APIConfig     `yaml:"api"`
	Social  SocialConfig  `yaml:"social"`
	Wallet  WalletConfig  `yaml:"wallet"`
	Storage StorageConfig `yaml:"storage"`
	Log     LogConfig     `yaml:"log"`
}

// AgentConfig controls the iteration loop.
type AgentConfig struct {
	LoopIntervalSeconds int     `yaml:"loop_interval_seconds"`
	MinBalanceEth       float64 `yaml:"min_balance_eth"` // health gate threshold
	MentionsEnabled     bool    `yaml:"mentions_enabled"`
	ReplySpacingSeconds int     `yaml:"reply_spacing_seconds"` // min gap between replies per platform
	NewsHeadlines       int     `yaml:"news_headlines"`
	MarketLimit         int     `yaml:"market_limit"`
}

// TradingConfig holds position sizing and exit thresholds.
type TradingConfig struct {
	MaxPositionEth      float64 `yaml:"max_position_eth"`
	StopLossBps         int64   `yaml:"stop_loss_bps"`
	TakeProfitBps       int64   `yaml:"take_profit_bps"`
	NotableThresholdBps int64   `yaml:"notable_threshold_bps"`
	EthUsdRate          float64 `yaml:"eth_usd_rate"` // FX fallback for USD amounts
}

// DigestConfig controls the periodic portfolio digest.
type DigestConfig struct {
	IntervalHours int `yaml:"interval_hours"`
}

// TipConfig controls the community tip payout.
type TipConfig struct {
	Enabled       bool     `yaml:"enabled"`
	IntervalHours int      `yaml:"interval_hours"`
	AmountEth     float64  `yaml:"amount_eth"`
	Recipients    []string `yaml:"recipients"`
}

// AIConfig points at an OpenAI-compatible chat completions endpoint.
type AIConfig struct {
	BaseURL string `yaml:"base_url"`
	Model   string `yaml:"model"`
	APIKey  string `yaml:"-"` // AI_API_KEY env only, never in YAML
}

// APIConfig contains the exchange API base URLs.
type APIConfig struct {
	GammaBase   string `yaml:"gamma_base"`
	RelayBase   string `yaml:"relay_base"` // order execution relay
	NewsFeedURL string `yaml:"news_feed_url"`
}

// SocialConfig configures the outbound platforms.
type SocialConfig struct {
	TelegramToken  string `yaml:"-"` // TELEGRAM_BOT_TOKEN env only
	TelegramChatID int64  `yaml:"telegram_chat_id"`
}

// WalletConfig configures the on-chain account.
type WalletConfig struct {
	RPCURL     string `yaml:"rpc_url"`
	PrivateKey string `yaml:"-"` // WALLET_PRIVATE_KEY env only
}

// StorageConfig controls where state is persisted.
type StorageConfig struct {
	DSN string `yaml:"dsn"` // SQLite file path, or ":memory:"
}

// LogConfig controls logging output.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug | info | warn | error
	Format string `yaml:"format"` // text | json
}

// Load reads the YAML file and the .env file if present. Secrets always
// come from the environment, never from YAML.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config.Load: read %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config.Load: parse YAML: %w", err)
	}

	applyEnvOverrides(&cfg)
	setDefaults(&cfg)

	return &cfg, nil
}

// LoopInterval returns the fixed delay between iterations.
func (c *Config) LoopInterval() time.Duration {
	return time.Duration(c.Agent.LoopIntervalSeconds) * time.Second
}

// ReplySpacing returns the minimum gap between mention replies on one
// platform.
func (c *Config) ReplySpacing() time.Duration {
	return time.Duration(c.Agent.ReplySpacingSeconds) * time.Second
}

// DigestInterval returns the minimum gap between digests.
func (c *Config) DigestInterval() time.Duration {
	return time.Duration(c.Digest.IntervalHours) * time.Hour
}

// TipInterval returns the minimum gap between tip payouts.
func (c *Config) TipInterval() time.Duration {
	return time.Duration(c.Tip.IntervalHours) * time.Hour
}

// Validate checks the loaded configuration. Any error here is fatal at
// startup; it reports every bad field, not just the first.
func (c *Config) Validate() error {
	var errs []error

	if c.Agent.LoopIntervalSeconds <= 0 {
		errs = append(errs, errors.New("agent.loop_interval_seconds must be > 0"))
	}
	if c.Agent.MinBalanceEth < 0 {
		errs = append(errs, errors.New("agent.min_balance_eth must be >= 0"))
	}
	if c.Trading.MaxPositionEth <= 0 {
		errs = append(errs, errors.New("trading.max_position_eth must be > 0"))
	}
	if c.Trading.StopLossBps <= 0 {
		errs = append(errs, errors.New("trading.stop_loss_bps must be > 0"))
	}
	if c.Trading.TakeProfitBps <= 0 {
		errs = append(errs, errors.New("trading.take_profit_bps must be > 0"))
	}
	if c.Trading.EthUsdRate <= 0 {
		errs = append(errs, errors.New("trading.eth_usd_rate must be > 0"))
	}
	if c.Digest.IntervalHours <= 0 {
		errs = append(errs, errors.New("digest.interval_hours must be > 0"))
	}
	if c.Tip.Enabled {
		if c.Tip.AmountEth <= 0 {
			errs = append(errs, errors.New("tip.amount_eth must be > 0 when tips are enabled"))
		}
		if c.Tip.IntervalHours <= 0 {
			errs = append(errs, errors.New("tip.interval_hours must be > 0 when tips are enabled"))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("config.Validate: %w", errors.Join(errs...))
	}
	return nil
}

// applyEnvOverrides pulls secrets and operational overrides from the
// environment.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("AI_API_KEY"); v != "" {
		cfg.AI.APIKey = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Social.TelegramToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Social.TelegramChatID = id
		}
	}
	if v := os.Getenv("WALLET_PRIVATE_KEY"); v != "" {
		cfg.Wallet.PrivateKey = v
	}
	if v := os.Getenv("RPC_URL"); v != "" {
		cfg.Wallet.RPCURL = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
}

// setDefaults fills unset values with sensible ones.
func setDefaults(cfg *Config) {
	if cfg.Agent.LoopIntervalSeconds == 0 {
		cfg.Agent.LoopIntervalSeconds = 1800
	}
	if cfg.Agent.ReplySpacingSeconds <= 0 {
		cfg.Agent.ReplySpacingSeconds = 5
	}
	if cfg.Agent.NewsHeadlines <= 0 {
		cfg.Agent.NewsHeadlines = 5
	}
	if cfg.Agent.MarketLimit <= 0 {
		cfg.Agent.MarketLimit = 20
	}
	if cfg.Trading.StopLossBps == 0 {
		cfg.Trading.StopLossBps = 1500
	}
	if cfg.Trading.TakeProfitBps == 0 {
		cfg.Trading.TakeProfitBps = 3000
	}
	if cfg.Trading.NotableThresholdBps == 0 {
		cfg.Trading.NotableThresholdBps = 2500
	}
	if cfg.Trading.EthUsdRate == 0 {
		cfg.Trading.EthUsdRate = 3000
	}
	if cfg.Digest.IntervalHours == 0 {
		cfg.Digest.IntervalHours = 24
	}
	if cfg.Tip.IntervalHours == 0 {
		cfg.Tip.IntervalHours = 24
	}
	if cfg.AI.BaseURL == "" {
		cfg.AI.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.AI.Model == "" {
		cfg.AI.Model = "gpt-4o-mini"
	}
	if cfg.API.GammaBase == "" {
		cfg.API.GammaBase = "https://gamma-api.polymarket.com"
	}
	if cfg.Storage.DSN == "" {
		cfg.Storage.DSN = "tradeagent.db"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
}
