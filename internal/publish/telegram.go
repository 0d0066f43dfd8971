package publish

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bilgisen/regionews/internal/cache"
	"github.com/bilgisen/regionews/internal/logger"
	"github.com/bilgisen/regionews/internal/metrics"
	"github.com/bilgisen/regionews/internal/models"
	"github.com/bilgisen/regionews/internal/utils"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

var (
	// ErrEmptyDraft is returned for items whose post draft is empty
	ErrEmptyDraft = errors.New("publish: post draft is empty")
	// ErrAlreadyPublished is returned when the same draft was already sent
	ErrAlreadyPublished = errors.New("publish: draft already published")
)

// telegramMessageLimit is the maximum text length of a Telegram message
const telegramMessageLimit = 4096

// Sender is the part of *tgbotapi.BotAPI used for posting
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Publisher posts news drafts to a Telegram channel
type Publisher struct {
	sender    Sender
	store     cache.Store
	channelID int64
	ttl       time.Duration
}

func New(sender Sender, store cache.Store, channelID int64, ttl time.Duration) *Publisher {
	return &Publisher{
		sender:    sender,
		store:     store,
		channelID: channelID,
		ttl:       ttl,
	}
}

// NewBot creates a Telegram bot client for token
func NewBot(token string) (*tgbotapi.BotAPI, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}
	return bot, nil
}

// Publish sends the item's draft as plain text. The same draft is sent at most
// once while its marker lives in the store.
func (p *Publisher) Publish(ctx context.Context, regionKey string, item models.NewsItem) (int, error) {
	draft := strings.TrimSpace(item.TelegramPostDraft)
	if draft == "" {
		metrics.NewsPublishedTotal.WithLabelValues(regionKey, "empty").Inc()
		return 0, ErrEmptyDraft
	}

	hash := utils.Hash(draft)
	claimed, err := p.store.ClaimProcessed(ctx, hash, p.ttl)
	if err != nil {
		return 0, fmt.Errorf("failed to claim published marker: %w", err)
	}
	if !claimed {
		metrics.NewsPublishedTotal.WithLabelValues(regionKey, "duplicate").Inc()
		return 0, ErrAlreadyPublished
	}

	msg := tgbotapi.NewMessage(p.channelID, truncateRunes(draft, telegramMessageLimit))
	msg.DisableWebPagePreview = item.URL == ""

	sent, err := p.sender.Send(msg)
	if err != nil {
		metrics.NewsPublishedTotal.WithLabelValues(regionKey, "error").Inc()
		// Unsent drafts must stay publishable
		if relErr := p.store.ReleaseProcessed(context.Background(), hash); relErr != nil {
			logger.Get().Error().Err(relErr).Str("id", item.ID).Msg("Error releasing published marker")
		}
		return 0, fmt.Errorf("failed to send telegram message: %w", err)
	}

	metrics.NewsPublishedTotal.WithLabelValues(regionKey, "sent").Inc()
	logger.ForRegion(regionKey).Info().
		Str("id", item.ID).
		Int("message_id", sent.MessageID).
		Msg("Draft published")

	return sent.MessageID, nil
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
