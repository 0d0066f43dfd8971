package ai

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/bilgisen/regionews/internal/models"
)

// Placeholders used when a raw record omits a required field
const (
	PlaceholderTitle   = "Без заголовка"
	PlaceholderSummary = "Нет описания"
	PlaceholderSource  = "Источник неизвестен"
)

// TimestampLayout is the short local time used when the model omits a timestamp
const TimestampLayout = "15:04"

// urlFields are the raw keys that may carry a web address, in priority order
var urlFields = []string{"url", "link", "source"}

// Normalizer maps untyped records into canonical news items.
type Normalizer struct {
	location *time.Location
}

// NewNormalizer creates a normalizer that formats generated timestamps in loc.
func NewNormalizer(loc *time.Location) *Normalizer {
	if loc == nil {
		loc = time.Local
	}
	return &Normalizer{location: loc}
}

// Normalize converts records into news items, preserving order. It never drops a
// record: missing or mistyped fields are replaced by defaults. fallback is the
// attribution address taken from the grounding citations, possibly empty.
func (n *Normalizer) Normalize(records []any, region string, generatedAt time.Time, fallback string) []models.NewsItem {
	items := make([]models.NewsItem, 0, len(records))
	for i, rec := range records {
		raw, _ := rec.(map[string]any)
		items = append(items, n.normalizeRecord(raw, region, generatedAt, i, fallback))
	}
	return items
}

func (n *Normalizer) normalizeRecord(raw map[string]any, region string, generatedAt time.Time, index int, fallback string) models.NewsItem {
	item := models.NewsItem{
		ID:                fmt.Sprintf("%s-%d-%d", region, generatedAt.UnixMilli(), index),
		Title:             stringField(raw, "title"),
		Summary:           stringField(raw, "summary"),
		TelegramPostDraft: stringField(raw, "telegramPostDraft"),
		Source:            stringField(raw, "source"),
		Timestamp:         stringField(raw, "timestamp"),
	}

	if item.Title == "" {
		item.Title = PlaceholderTitle
	}
	if item.Summary == "" {
		item.Summary = PlaceholderSummary
	}

	for _, key := range urlFields {
		if addr := stringField(raw, key); isWebAddress(addr) {
			item.URL = strings.TrimSpace(addr)
			break
		}
	}

	if item.Source == "" {
		switch {
		case fallback == "":
			item.Source = PlaceholderSource
		default:
			item.Source = fallback
			if item.URL == "" && isWebAddress(fallback) {
				item.URL = strings.TrimSpace(fallback)
			}
		}
	}

	if item.Timestamp == "" {
		item.Timestamp = generatedAt.In(n.location).Format(TimestampLayout)
	}

	return item
}

// stringField reads key from raw, coercing scalars to text. Objects, arrays,
// nulls and blank strings count as absent.
func stringField(raw map[string]any, key string) string {
	v, ok := raw[key]
	if !ok {
		return ""
	}
	switch val := v.(type) {
	case string:
		if strings.TrimSpace(val) == "" {
			return ""
		}
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return ""
	}
}

// isWebAddress reports whether s is an absolute http(s) URL with a host
func isWebAddress(s string) bool {
	s = strings.TrimSpace(s)
	lower := strings.ToLower(s)
	if !strings.HasPrefix(lower, "http://") && !strings.HasPrefix(lower, "https://") {
		return false
	}
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return u.Host != ""
}
