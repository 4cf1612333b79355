// Package social contains the outbound platform adapters.
package social

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/alejandrodnm/tradeagent/internal/domain"
)

// Telegram posts to a channel/group and treats messages that mention the
// bot (or reply to it) as inbound mentions.
type Telegram struct {
	bot    *tgbotapi.BotAPI
	chatID int64
	offset int // next update id to fetch, advances as mentions are read
}

// NewTelegram authenticates the bot. An empty token yields an unready
// adapter, which the agent soft-skips.
func NewTelegram(token string, chatID int64) (*Telegram, error) {
	if token == "" {
		return &Telegram{chatID: chatID}, nil
	}
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("social.NewTelegram: %w", err)
	}
	return &Telegram{bot: bot, chatID: chatID}, nil
}

func (t *Telegram) Name() string { return "telegram" }

func (t *Telegram) Ready() bool { return t.bot != nil && t.chatID != 0 }

// Post publishes to the configured chat and returns the message id.
func (t *Telegram) Post(_ context.Context, content string) (string, error) {
	if !t.Ready() {
		return "", fmt.Errorf("social.Telegram.Post: not configured")
	}
	msg, err := t.bot.Send(tgbotapi.NewMessage(t.chatID, content))
	if err != nil {
		return "", fmt.Errorf("social.Telegram.Post: %w", err)
	}
	return strconv.Itoa(msg.MessageID), nil
}

// FetchMentions drains pending updates and returns messages in the
// configured chat that mention the bot or reply to one of its messages.
func (t *Telegram) FetchMentions(_ context.Context) ([]domain.InboundMention, error) {
	if !t.Ready() {
		return nil, nil
	}

	updates, err := t.bot.GetUpdates(tgbotapi.UpdateConfig{Offset: t.offset, Timeout: 0})
	if err != nil {
		return nil, fmt.Errorf("social.Telegram.FetchMentions: %w", err)
	}

	var mentions []domain.InboundMention
	for _, u := range updates {
		if u.UpdateID >= t.offset {
			t.offset = u.UpdateID + 1
		}
		m := u.Message
		if m == nil || m.Chat == nil || m.Chat.ID != t.chatID {
			continue
		}
		if !t.addressedToBot(m) {
			continue
		}
		author := ""
		if m.From != nil {
			author = m.From.UserName
		}
		mentions = append(mentions, domain.InboundMention{
			ID:        strconv.Itoa(m.MessageID),
			Author:    author,
			Text:      m.Text,
			CreatedAt: time.Unix(int64(m.Date), 0),
		})
	}
	return mentions, nil
}

// Reply answers a specific message in the chat.
func (t *Telegram) Reply(_ context.Context, targetID, text string) (string, error) {
	if !t.Ready() {
		return "", fmt.Errorf("social.Telegram.Reply: not configured")
	}
	msgID, err := strconv.Atoi(targetID)
	if err != nil {
		return "", fmt.Errorf("social.Telegram.Reply: bad target id %q: %w", targetID, err)
	}

	msg := tgbotapi.NewMessage(t.chatID, text)
	msg.ReplyToMessageID = msgID
	sent, err := t.bot.Send(msg)
	if err != nil {
		return "", fmt.Errorf("social.Telegram.Reply: %w", err)
	}
	return strconv.Itoa(sent.MessageID), nil
}

func (t *Telegram) addressedToBot(m *tgbotapi.Message) bool {
	if m.ReplyToMessage != nil && m.ReplyToMessage.From != nil &&
		m.ReplyToMessage.From.ID == t.bot.Self.ID {
		return true
	}
	return strings.Contains(m.Text, "@"+t.bot.Self.UserName)
}
