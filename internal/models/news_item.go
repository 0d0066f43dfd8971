package models

import "time"

// NewsItem is a canonical news record, safe to render once it has been normalized.
type NewsItem struct {
	ID                string `json:"id"`
	Title             string `json:"title"`
	Summary           string `json:"summary"`
	TelegramPostDraft string `json:"telegramPostDraft"`
	URL               string `json:"url,omitempty"`
	Source            string `json:"source"`
	Timestamp         string `json:"timestamp"`
}

// Citation is a web address the search-grounded model cited for its answer.
type Citation struct {
	Address string `json:"address"`
	Title   string `json:"title,omitempty"`
}

// RegionState is the caller-side slot for one region's latest batch.
type RegionState struct {
	Region      string     `json:"region"`
	Items       []NewsItem `json:"items"`
	Error       string     `json:"error,omitempty"`
	LastUpdated *time.Time `json:"last_updated,omitempty"`
}
