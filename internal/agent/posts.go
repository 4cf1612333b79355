package agent

import (
	"context"
	"log/slog"
	"sync"

	"github.com/alejandrodnm/tradeagent/internal/domain"
	"github.com/alejandrodnm/tradeagent/internal/ports"
)

// fanOutPosts publishes the same content on every ready platform. Each
// platform is an independent task with its own error capture: one failing
// publish never blocks a sibling, and the audit row is only written for
// publishes that succeeded.
func (a *Agent) fanOutPosts(ctx context.Context, postType domain.PostType, content, tradeID string) {
	var wg sync.WaitGroup
	for _, s := range a.socials {
		if !s.Ready() {
			continue
		}
		wg.Add(1)
		go func(s ports.Social) {
			defer wg.Done()
			postID, err := s.Post(ctx, content)
			if err != nil {
				slog.Warn("social post failed",
					"platform", s.Name(), "type", postType, "err", err)
				return
			}
			post := domain.SocialPost{
				Platform:  s.Name(),
				PostID:    postID,
				Content:   content,
				Type:      postType,
				TradeID:   tradeID,
				CreatedAt: a.now(),
			}
			if err := a.store.SaveSocialPost(ctx, post); err != nil {
				slog.Warn("social post not recorded",
					"platform", s.Name(), "type", postType, "err", err)
			}
		}(s)
	}
	wg.Wait()
}
