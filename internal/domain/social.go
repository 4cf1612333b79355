package domain

import "time"

// PostType classifies entries in the social post audit log.
type PostType string

const (
	PostTradeEntry   PostType = "trade_entry"
	PostTradeExit    PostType = "trade_exit"
	PostDigest       PostType = "digest"
	PostRoundSummary PostType = "round_summary"
	PostReply        PostType = "reply"
	PostAlert        PostType = "alert"
	PostNotable      PostType = "notable"
)

// SocialPost records one successful publish on one platform. Append-only.
type SocialPost struct {
	Platform  string
	PostID    string // platform-assigned id, may be empty
	Content   string
	Type      PostType
	TradeID   string // related trade, empty for non-trade posts
	CreatedAt time.Time
}

// Mention is an inbound community message, unique by (platform, mention id).
// Created on first sighting, mutated once when the reply lands.
type Mention struct {
	Platform  string
	MentionID string
	Author    string
	Content   string
	Replied   bool
	ReplyID   string
	CreatedAt time.Time
}

// InboundMention is the platform-level view of a mention before it is
// persisted.
type InboundMention struct {
	ID        string
	Author    string
	Text      string
	CreatedAt time.Time
}
