package notable_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alejandrodnm/tradeagent/internal/adapters/notable"
	"github.com/alejandrodnm/tradeagent/internal/domain"
	"github.com/alejandrodnm/tradeagent/internal/ports"
)

// stubStore embeds the interface so only the methods the publisher touches
// need real bodies.
type stubStore struct {
	ports.Storage
	closed    []domain.Trade
	closedErr error
	posts     []domain.SocialPost
	since     []time.Time
}

func (s *stubStore) ClosedTradesExitedSince(_ context.Context, since time.Time) ([]domain.Trade, error) {
	s.since = append(s.since, since)
	return s.closed, s.closedErr
}

func (s *stubStore) SaveSocialPost(_ context.Context, p domain.SocialPost) error {
	s.posts = append(s.posts, p)
	return nil
}

type stubSocial struct {
	name    string
	ready   bool
	posts   []string
	postErr error
}

func (s *stubSocial) Name() string { return s.name }
func (s *stubSocial) Ready() bool  { return s.ready }

func (s *stubSocial) Post(_ context.Context, content string) (string, error) {
	if s.postErr != nil {
		return "", s.postErr
	}
	s.posts = append(s.posts, content)
	return "p1", nil
}

func (s *stubSocial) FetchMentions(_ context.Context) ([]domain.InboundMention, error) {
	return nil, nil
}

func (s *stubSocial) Reply(_ context.Context, _, _ string) (string, error) {
	return "", nil
}

func closedTrade(id string, pnlBps int64) domain.Trade {
	exit := time.Now()
	return domain.Trade{
		ID:         id,
		MarketID:   "m-" + id,
		MarketName: "Will it happen?",
		Position:   domain.PositionYes,
		EntryPrice: 0.5,
		ExitPrice:  0.6,
		ExitTime:   &exit,
		PnLBps:     pnlBps,
		Status:     domain.TradeStatusClosed,
	}
}

func TestPublishNotable_ThresholdIsMagnitude(t *testing.T) {
	store := &stubStore{closed: []domain.Trade{
		closedTrade("big-win", 3000),
		closedTrade("big-loss", -2600),
		closedTrade("meh", 400),
		closedTrade("on-the-line", 2500),
		closedTrade("on-the-line-down", -2500),
	}}
	social := &stubSocial{name: "test", ready: true}
	p := notable.New(store, []ports.Social{social}, 2500)

	require.NoError(t, p.PublishNotable(context.Background()))

	// wins and losses both qualify; small moves and trades landing
	// exactly on the threshold do not
	require.Len(t, social.posts, 2)
	require.Len(t, store.posts, 2)
	assert.Equal(t, "big-win", store.posts[0].TradeID)
	assert.Equal(t, "big-loss", store.posts[1].TradeID)
	assert.Equal(t, domain.PostNotable, store.posts[0].Type)
}

func TestPublishNotable_WindowAdvancesOnFailure(t *testing.T) {
	store := &stubStore{closed: []domain.Trade{closedTrade("t1", 3000)}}
	social := &stubSocial{name: "test", ready: true, postErr: errors.New("api down")}
	p := notable.New(store, []ports.Social{social}, 2500)

	t0 := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	now := t0
	p.SetClock(func() time.Time { return now })

	require.NoError(t, p.PublishNotable(context.Background()))
	now = t0.Add(time.Hour)
	require.NoError(t, p.PublishNotable(context.Background()))

	// each run queries from the previous run's time, not from the last
	// successful post
	require.Len(t, store.since, 2)
	assert.True(t, store.since[0].Equal(t0))
	assert.True(t, store.since[1].Equal(t0))
	assert.Empty(t, store.posts, "failed posts are never recorded")
}

func TestPublishNotable_StorageErrorPropagates(t *testing.T) {
	store := &stubStore{closedErr: errors.New("db locked")}
	p := notable.New(store, nil, 2500)
	assert.Error(t, p.PublishNotable(context.Background()))
}

func TestPublishNotable_UnreadyPlatformSkipped(t *testing.T) {
	store := &stubStore{closed: []domain.Trade{closedTrade("t1", 3000)}}
	social := &stubSocial{name: "test", ready: false}
	p := notable.New(store, []ports.Social{social}, 2500)

	require.NoError(t, p.PublishNotable(context.Background()))
	assert.Empty(t, social.posts)
}
