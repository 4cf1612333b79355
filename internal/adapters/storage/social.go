package storage

import (
	"context"
	"fmt"

	"github.com/alejandrodnm/tradeagent/internal/domain"
)

// SaveSocialPost appends one row to the publish audit log.
func (s *SQLiteStorage) SaveSocialPost(ctx context.Context, p domain.SocialPost) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO social_posts (platform, post_id, content, post_type, trade_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		p.Platform, p.PostID, p.Content, string(p.Type), p.TradeID, p.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("storage.SaveSocialPost: %w", err)
	}
	return nil
}

// InsertMention records a mention on first sighting. The second insert for
// the same (platform, mention_id) hits the primary key and is ignored;
// the returned bool tells the caller whether this sighting was the first.
func (s *SQLiteStorage) InsertMention(ctx context.Context, m domain.Mention) (bool, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO mentions
			(platform, mention_id, author, content, replied, reply_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		m.Platform, m.MentionID, m.Author, m.Content, boolToInt(m.Replied), m.ReplyID,
		m.CreatedAt.UTC(),
	)
	if err != nil {
		return false, fmt.Errorf("storage.InsertMention: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("storage.InsertMention: rows affected: %w", err)
	}
	return n > 0, nil
}

// MarkMentionReplied records the platform reply id for a mention.
func (s *SQLiteStorage) MarkMentionReplied(ctx context.Context, platform, mentionID, replyID string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE mentions SET replied = 1, reply_id = ?
		WHERE platform = ? AND mention_id = ?`,
		replyID, platform, mentionID,
	)
	if err != nil {
		return fmt.Errorf("storage.MarkMentionReplied: %w", err)
	}
	return nil
}

// SavePortfolioSnapshot appends one digest-interval snapshot.
func (s *SQLiteStorage) SavePortfolioSnapshot(ctx context.Context, snap domain.PortfolioSnapshot) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO portfolio_snapshots (taken_at, total_value, open_positions, daily_pnl_bps)
		VALUES (?, ?, ?, ?)`,
		snap.Time.UTC(), snap.TotalValue, snap.OpenPositions, snap.DailyPnLBps,
	)
	if err != nil {
		return fmt.Errorf("storage.SavePortfolioSnapshot: %w", err)
	}
	return nil
}
