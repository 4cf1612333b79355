package agent

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/alejandrodnm/tradeagent/internal/domain"
	"github.com/alejandrodnm/tradeagent/internal/ports"
	"golang.org/x/time/rate"
)

// ProcessMentions answers inbound community messages on every ready
// platform. Each mention is isolated: one failing is logged and the rest
// still get processed. A no-op when disabled by configuration.
func (a *Agent) ProcessMentions(ctx context.Context) {
	if !a.cfg.MentionsEnabled {
		return
	}

	for _, s := range a.socials {
		if !s.Ready() {
			continue
		}
		mentions, err := s.FetchMentions(ctx)
		if err != nil {
			slog.Warn("mention fetch failed", "platform", s.Name(), "err", err)
			continue
		}

		lim := a.replyLimiter(s.Name())
		answered := 0
		for _, m := range mentions {
			ok, err := a.respondMention(ctx, s, lim, m)
			if err != nil {
				slog.Warn("mention reply failed",
					"platform", s.Name(), "mention", m.ID, "err", err)
				continue
			}
			if ok {
				answered++
			}
		}
		if answered > 0 {
			slog.Info("mentions answered", "platform", s.Name(), "count", answered)
		}
	}
}

// respondMention answers one mention. The insert's uniqueness constraint
// is the dedup source of truth: when the row already exists the mention
// was handled in an earlier cycle and is skipped. Replies on one platform
// are serialized through the limiter so consecutive replies keep the
// configured minimum spacing.
func (a *Agent) respondMention(ctx context.Context, s ports.Social, lim *rate.Limiter, m domain.InboundMention) (bool, error) {
	fresh, err := a.store.InsertMention(ctx, domain.Mention{
		Platform:  s.Name(),
		MentionID: m.ID,
		Author:    m.Author,
		Content:   m.Text,
		CreatedAt: m.CreatedAt,
	})
	if err != nil {
		return false, fmt.Errorf("agent.respondMention: record: %w", err)
	}
	if !fresh {
		return false, nil
	}

	if err := lim.Wait(ctx); err != nil {
		return false, fmt.Errorf("agent.respondMention: spacing: %w", err)
	}

	text, err := a.advisor.GenerateReply(ctx, m.Text)
	if err != nil {
		return false, fmt.Errorf("agent.respondMention: generate reply: %w", err)
	}

	replyID, err := s.Reply(ctx, m.ID, text)
	if err != nil {
		return false, fmt.Errorf("agent.respondMention: publish reply: %w", err)
	}

	if err := a.store.MarkMentionReplied(ctx, s.Name(), m.ID, replyID); err != nil {
		return false, fmt.Errorf("agent.respondMention: mark replied: %w", err)
	}

	post := domain.SocialPost{
		Platform:  s.Name(),
		PostID:    replyID,
		Content:   text,
		Type:      domain.PostReply,
		CreatedAt: a.now(),
	}
	if err := a.store.SaveSocialPost(ctx, post); err != nil {
		slog.Warn("reply not recorded", "platform", s.Name(), "mention", m.ID, "err", err)
	}
	return true, nil
}

func (a *Agent) replyLimiter(platform string) *rate.Limiter {
	if lim, ok := a.replyLimiters[platform]; ok {
		return lim
	}
	lim := rate.NewLimiter(rate.Every(a.cfg.ReplySpacing), 1)
	a.replyLimiters[platform] = lim
	return lim
}
