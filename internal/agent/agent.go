package agent

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/alejandrodnm/tradeagent/internal/domain"
	"github.com/alejandrodnm/tradeagent/internal/ports"
	"golang.org/x/time/rate"
)

// Config holds the agent's tunables, built from the loaded configuration
// in cmd.
type Config struct {
	LoopInterval   time.Duration
	MinBalanceEth  float64
	MaxPositionEth float64
	StopLossBps    int64
	TakeProfitBps  int64
	EthUsdRate     float64
	NewsHeadlines  int

	DigestInterval time.Duration

	MentionsEnabled bool
	ReplySpacing    time.Duration

	TipEnabled    bool
	TipInterval   time.Duration
	TipAmountEth  float64
	TipRecipients []string
}

// Agent runs the trading loop: health gate → market scan → position
// reconciliation → advisor call → decision execution → publishing.
// It is single-threaded: one iteration runs to completion before the next
// starts, and the only cross-iteration state is the two gate timestamps.
type Agent struct {
	cfg     Config
	wallet  ports.Wallet
	markets ports.MarketProvider
	advisor ports.Advisor
	trader  ports.Trader
	store   ports.Storage
	socials []ports.Social
	notable ports.NotablePublisher

	now           func() time.Time
	rng           *rand.Rand
	replyLimiters map[string]*rate.Limiter

	lastDigest time.Time
	lastTip    time.Time
}

// New wires an agent. notable may be nil when no commemoration collaborator
// is configured.
func New(
	cfg Config,
	wallet ports.Wallet,
	markets ports.MarketProvider,
	advisor ports.Advisor,
	trader ports.Trader,
	store ports.Storage,
	socials []ports.Social,
	notable ports.NotablePublisher,
) *Agent {
	return &Agent{
		cfg:           cfg,
		wallet:        wallet,
		markets:       markets,
		advisor:       advisor,
		trader:        trader,
		store:         store,
		socials:       socials,
		notable:       notable,
		now:           time.Now,
		rng:           rand.New(rand.NewSource(time.Now().UnixNano())),
		replyLimiters: make(map[string]*rate.Limiter),
	}
}

// SetClock replaces the time source. Tests use it to drive the digest and
// tip gates deterministically.
func (a *Agent) SetClock(now func() time.Time) {
	a.now = now
}

// IterationResult is what one iteration reports back to the loop (or to a
// one-shot external trigger).
type IterationResult struct {
	OK      bool
	Message string
}

// Run executes iterations until ctx is cancelled. The delay between
// iterations is fixed (not fixed-rate): a slow iteration pushes the next
// one back.
func (a *Agent) Run(ctx context.Context) error {
	slog.Info("agent loop started", "interval", a.cfg.LoopInterval)

	for {
		// A shutdown signal must not cut work short mid-flight: the
		// iteration body runs on a detached context and ctx is only
		// consulted between iterations.
		res := a.RunIteration(context.WithoutCancel(ctx))
		if res.OK {
			slog.Info("iteration complete", "msg", res.Message)
		} else {
			slog.Warn("iteration failed", "msg", res.Message)
		}

		select {
		case <-ctx.Done():
			slog.Info("agent loop stopped")
			return nil
		case <-time.After(a.cfg.LoopInterval):
		}
	}
}

// RunIteration executes one full cycle. It never lets a collaborator
// failure escape: failures degrade to a not-OK result and the caller keeps
// scheduling.
func (a *Agent) RunIteration(ctx context.Context) (result IterationResult) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("iteration panicked", "panic", r)
			result = IterationResult{OK: false, Message: fmt.Sprintf("panic: %v", r)}
		}
	}()

	balance, healthy := a.checkHealthy(ctx)
	if !healthy {
		return IterationResult{OK: false, Message: "health gate: balance below minimum or check failed"}
	}

	markets, err := a.markets.FetchMarkets(ctx)
	if err != nil {
		return IterationResult{OK: false, Message: fmt.Sprintf("fetch markets: %v", err)}
	}
	snapshot := domain.BuildPriceSnapshot(markets)

	open, err := a.store.OpenTrades(ctx)
	if err != nil {
		return IterationResult{OK: false, Message: fmt.Sprintf("load open trades: %v", err)}
	}
	views := a.Reconcile(ctx, open)

	news, err := a.markets.FetchNews(ctx, a.cfg.NewsHeadlines)
	if err != nil {
		slog.Warn("news fetch failed, continuing without headlines", "err", err)
		news = nil
	}

	report, err := a.advisor.Analyze(ctx, domain.AdvisorRequest{
		PortfolioValue: balance,
		OpenPositions:  views,
		Markets:        markets,
		News:           news,
	})
	if err != nil {
		return IterationResult{OK: false, Message: fmt.Sprintf("advisor: %v", err)}
	}
	if report.Commentary != "" {
		slog.Info("advisor commentary", "text", report.Commentary)
	}

	summary := a.ExecuteDecisions(ctx, report.Decisions, snapshot)

	if a.notable != nil {
		if err := a.notable.PublishNotable(ctx); err != nil {
			slog.Warn("notable publish failed", "err", err)
		}
	}

	a.ProcessMentions(ctx)

	a.publishRoundSummary(ctx, cycleStats{
		MarketsScanned: len(markets),
		Decisions:      len(report.Decisions),
		Executed:       summary.Executed,
		OpenPositions:  len(views),
		HasCommentary:  report.Commentary != "",
	})

	a.MaybeDigest(ctx)
	a.MaybeTip(ctx, a.now())

	return IterationResult{
		OK: true,
		Message: fmt.Sprintf("executed %d of %d decisions (%d hold, %d failed)",
			summary.Executed, len(report.Decisions), summary.SkippedHold, summary.Failed),
	}
}

// checkHealthy gates the iteration on wallet balance. Fail-closed: a
// failed balance check blocks the iteration just like a low balance, and
// both emit a best-effort alert before any market or advisor work runs.
func (a *Agent) checkHealthy(ctx context.Context) (float64, bool) {
	balance, err := a.wallet.Balance(ctx)
	if err != nil {
		slog.Error("balance check failed, gating iteration", "err", err)
		a.fanOutPosts(ctx, domain.PostAlert, balanceCheckFailedContent(a.wallet.Address()), "")
		return 0, false
	}
	if balance < a.cfg.MinBalanceEth {
		slog.Warn("balance below minimum, gating iteration",
			"balance", balance, "min", a.cfg.MinBalanceEth)
		a.fanOutPosts(ctx, domain.PostAlert,
			lowBalanceContent(a.wallet.Address(), balance, a.cfg.MinBalanceEth), "")
		return balance, false
	}
	return balance, true
}
