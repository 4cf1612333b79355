package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alejandrodnm/tradeagent/config"
	"github.com/alejandrodnm/tradeagent/internal/adapters/ai"
	"github.com/alejandrodnm/tradeagent/internal/adapters/notable"
	"github.com/alejandrodnm/tradeagent/internal/adapters/polymarket"
	"github.com/alejandrodnm/tradeagent/internal/adapters/social"
	"github.com/alejandrodnm/tradeagent/internal/adapters/storage"
	"github.com/alejandrodnm/tradeagent/internal/adapters/wallet"
	"github.com/alejandrodnm/tradeagent/internal/agent"
	"github.com/alejandrodnm/tradeagent/internal/ports"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to config file")
	once := flag.Bool("once", false, "run one iteration and exit")
	dryRun := flag.Bool("dry-run", false, "no real orders or transfers, console output only")
	report := flag.Bool("report", false, "print trade history table and exit")
	verbose := flag.Bool("verbose", false, "set log level to debug")
	logFormat := flag.String("format", "", "log format: text|json (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "err", err, "path", *configPath)
		os.Exit(1)
	}

	if *verbose {
		cfg.Log.Level = "debug"
	}
	if *logFormat != "" {
		cfg.Log.Format = *logFormat
	}
	setupLogger(cfg.Log)

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "err", err)
		os.Exit(1)
	}

	if *report {
		if err := printReport(cfg.Storage.DSN); err != nil {
			slog.Error("report failed", "err", err)
			os.Exit(1)
		}
		return
	}

	slog.Info("tradeagent starting",
		"config", *configPath,
		"interval", cfg.LoopInterval(),
		"dry_run", *dryRun,
		"once", *once,
	)

	dsn := cfg.Storage.DSN
	if *dryRun {
		dsn = ":memory:"
	}
	store, err := storage.NewSQLiteStorage(dsn)
	if err != nil {
		slog.Error("failed to open storage", "err", err, "dsn", dsn)
		os.Exit(1)
	}
	defer store.Close()

	client := polymarket.NewClient(cfg.API.GammaBase, cfg.API.RelayBase, cfg.API.NewsFeedURL, cfg.Agent.MarketLimit)
	advisor := ai.NewClient(cfg.AI.BaseURL, cfg.AI.APIKey, cfg.AI.Model)

	var (
		w      ports.Wallet
		trader ports.Trader = client
	)
	if *dryRun {
		w = &stubWallet{balance: cfg.Agent.MinBalanceEth * 10}
		trader = &stubTrader{prices: client}
	} else {
		w, err = wallet.New(cfg.Wallet.RPCURL, cfg.Wallet.PrivateKey)
		if err != nil {
			slog.Error("failed to open wallet", "err", err)
			os.Exit(1)
		}
	}

	socials := buildSocials(cfg, *dryRun)

	agentCfg := agent.Config{
		LoopInterval:    cfg.LoopInterval(),
		MinBalanceEth:   cfg.Agent.MinBalanceEth,
		MaxPositionEth:  cfg.Trading.MaxPositionEth,
		StopLossBps:     cfg.Trading.StopLossBps,
		TakeProfitBps:   cfg.Trading.TakeProfitBps,
		EthUsdRate:      cfg.Trading.EthUsdRate,
		NewsHeadlines:   cfg.Agent.NewsHeadlines,
		DigestInterval:  cfg.DigestInterval(),
		MentionsEnabled: cfg.Agent.MentionsEnabled,
		ReplySpacing:    cfg.ReplySpacing(),
		TipEnabled:      cfg.Tip.Enabled && !*dryRun,
		TipInterval:     cfg.TipInterval(),
		TipAmountEth:    cfg.Tip.AmountEth,
		TipRecipients:   cfg.Tip.Recipients,
	}

	publisher := notable.New(store, socials, cfg.Trading.NotableThresholdBps)
	a := agent.New(agentCfg, w, client, advisor, trader, store, socials, publisher)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if *once {
		res := a.RunIteration(ctx)
		if !res.OK {
			slog.Error("iteration failed", "msg", res.Message)
			os.Exit(1)
		}
		slog.Info("iteration complete", "msg", res.Message)
		return
	}

	if err := a.Run(ctx); err != nil {
		slog.Error("agent exited with error", "err", err)
		os.Exit(1)
	}

	slog.Info("tradeagent stopped cleanly")
}

// buildSocials returns the configured platforms. Console is always present
// so every post is visible locally; Telegram joins when a token is set and
// the run is live.
func buildSocials(cfg *config.Config, dryRun bool) []ports.Social {
	socials := []ports.Social{social.NewConsole()}

	if dryRun {
		return socials
	}

	tg, err := social.NewTelegram(cfg.Social.TelegramToken, cfg.Social.TelegramChatID)
	if err != nil {
		slog.Warn("telegram setup failed, continuing without it", "err", err)
		return socials
	}
	return append(socials, tg)
}

func setupLogger(cfg config.LogConfig) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))
}
