package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bilgisen/regionews/internal/logger"
	"github.com/bilgisen/regionews/internal/metrics"
	"github.com/bilgisen/regionews/internal/models"
	"github.com/bilgisen/regionews/internal/region"
)

// ServiceConfig tunes a NewsService. Zero values select defaults.
type ServiceConfig struct {
	// Timeout bounds each generative call. Zero means no timeout.
	Timeout time.Duration
	// Location is used for generated timestamps. Default: time.Local
	Location *time.Location
	// Now returns the generation time. Default: time.Now
	Now func() time.Time
}

// NewsService fetches regional news from the generative model and turns the
// reply into canonical news items. It holds no state between calls.
type NewsService struct {
	generator  Generator
	normalizer *Normalizer
	timeout    time.Duration
	now        func() time.Time
}

func NewNewsService(generator Generator, cfg ServiceConfig) *NewsService {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &NewsService{
		generator:  generator,
		normalizer: NewNormalizer(cfg.Location),
		timeout:    cfg.Timeout,
		now:        now,
	}
}

// FetchRegionalNews asks the model for the last day's news of a region.
//
// An empty, non-nil slice means the model returned no array; malformed or
// non-array replies are returned as errors so they can be told apart from
// "no news". Provider failures are wrapped in *ProviderError.
func (s *NewsService) FetchRegionalNews(ctx context.Context, regionKey string) ([]models.NewsItem, error) {
	r, ok := region.Lookup(regionKey)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownRegion, regionKey)
	}
	log := logger.ForRegion(r.Key)

	if !s.generator.HasCredential() {
		metrics.NewsFetchTotal.WithLabelValues(r.Key, metrics.OutcomeNoCredential).Inc()
		return nil, ErrMissingCredential
	}

	res, err := s.generate(ctx, metrics.OperationRegionalNews, GenerateRequest{
		SystemInstruction: SystemInstruction,
		Prompt:            BuildNewsPrompt(r.FullName),
		SearchGrounding:   true,
	})
	if err != nil {
		metrics.NewsFetchTotal.WithLabelValues(r.Key, metrics.OutcomeProviderError).Inc()
		log.Error().Err(err).Msg("Generative call failed")
		return nil, err
	}

	records, err := ExtractArray(res.Text)
	switch {
	case errors.Is(err, ErrNoStructuredData):
		metrics.NewsFetchTotal.WithLabelValues(r.Key, metrics.OutcomeNoData).Inc()
		log.Warn().
			Str("response", truncate(res.Text, 500)).
			Msg("No JSON array found in response")
		return []models.NewsItem{}, nil
	case errors.Is(err, ErrMalformedData):
		metrics.NewsFetchTotal.WithLabelValues(r.Key, metrics.OutcomeMalformed).Inc()
		log.Error().Err(err).Msg("Failed to parse JSON array")
		return nil, err
	case err != nil:
		metrics.NewsFetchTotal.WithLabelValues(r.Key, metrics.OutcomeUnexpected).Inc()
		log.Error().Err(err).Msg("Unexpected response shape")
		return nil, err
	}

	var fallback string
	if len(res.Citations) > 0 {
		fallback = res.Citations[0].Address
	}

	items := s.normalizer.Normalize(records, r.Key, s.now(), fallback)

	metrics.NewsFetchTotal.WithLabelValues(r.Key, metrics.OutcomeSuccess).Inc()
	metrics.NewsItemsGenerated.WithLabelValues(r.Key).Add(float64(len(items)))
	log.Info().
		Int("items", len(items)).
		Int("citations", len(res.Citations)).
		Msg("Fetched regional news")

	return items, nil
}

// GenerateScript asks the model for a voice-over script and returns its raw text
func (s *NewsService) GenerateScript(ctx context.Context, req models.ScriptRequest) (string, error) {
	if !s.generator.HasCredential() {
		return "", ErrMissingCredential
	}

	res, err := s.generate(ctx, metrics.OperationScript, GenerateRequest{
		Prompt: BuildScriptPrompt(req),
	})
	if err != nil {
		logger.Get().Error().Err(err).Str("topic", req.Topic).Msg("Error generating script")
		return "", err
	}
	return strings.TrimSpace(res.Text), nil
}

// generate performs exactly one call, bounded by the service timeout
func (s *NewsService) generate(ctx context.Context, operation string, req GenerateRequest) (*GenerateResult, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()
	res, err := s.generator.Generate(ctx, req)
	metrics.AIRequestDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())

	if err != nil {
		return nil, &ProviderError{Err: err}
	}
	if res == nil {
		return nil, &ProviderError{Err: errors.New("empty result")}
	}
	return res, nil
}
