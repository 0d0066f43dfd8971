package feed

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/bilgisen/regionews/internal/ai"
	"github.com/bilgisen/regionews/internal/cache"
	"github.com/bilgisen/regionews/internal/logger"
	"github.com/bilgisen/regionews/internal/models"
	"github.com/bilgisen/regionews/internal/region"
)

var (
	// ErrRegionBusy is returned when a refresh of the same region is already running
	ErrRegionBusy = errors.New("feed: region refresh already in progress")
	// ErrItemNotFound is returned when no item with the given ID is stored for the region
	ErrItemNotFound = errors.New("feed: news item not found")
)

// NewsFetcher produces a fresh batch for a region
type NewsFetcher interface {
	FetchRegionalNews(ctx context.Context, regionKey string) ([]models.NewsItem, error)
}

// Manager owns the per-region slots. Each region is refreshed on its own and
// overlapping refreshes of one region are rejected.
type Manager struct {
	fetcher        NewsFetcher
	store          cache.Store
	lockTTL        time.Duration
	maxConcurrency int
	now            func() time.Time
}

func NewManager(fetcher NewsFetcher, store cache.Store, lockTTL time.Duration, maxConcurrency int) *Manager {
	if maxConcurrency <= 0 {
		maxConcurrency = 1
	}
	return &Manager{
		fetcher:        fetcher,
		store:          store,
		lockTTL:        lockTTL,
		maxConcurrency: maxConcurrency,
		now:            time.Now,
	}
}

// State returns the stored slot of a region, or an empty one if nothing was fetched yet
func (m *Manager) State(ctx context.Context, regionKey string) (models.RegionState, error) {
	r, ok := region.Lookup(regionKey)
	if !ok {
		return models.RegionState{}, fmt.Errorf("%w: %q", ai.ErrUnknownRegion, regionKey)
	}
	return m.load(ctx, r.Key)
}

func (m *Manager) load(ctx context.Context, key string) (models.RegionState, error) {
	state, err := m.store.LoadState(ctx, key)
	if err != nil {
		return models.RegionState{}, fmt.Errorf("failed to load region state: %w", err)
	}
	if state == nil {
		return models.RegionState{Region: key, Items: []models.NewsItem{}}, nil
	}
	if state.Items == nil {
		state.Items = []models.NewsItem{}
	}
	return *state, nil
}

// Refresh fetches a new batch for the region and replaces the stored one.
// On failure the previous items are kept and the error is recorded in the slot.
func (m *Manager) Refresh(ctx context.Context, regionKey string) (models.RegionState, error) {
	r, ok := region.Lookup(regionKey)
	if !ok {
		return models.RegionState{}, fmt.Errorf("%w: %q", ai.ErrUnknownRegion, regionKey)
	}
	log := logger.ForRegion(r.Key)

	acquired, err := m.store.AcquireRegion(ctx, r.Key, m.lockTTL)
	if err != nil {
		return models.RegionState{}, fmt.Errorf("failed to acquire region: %w", err)
	}
	if !acquired {
		return models.RegionState{}, ErrRegionBusy
	}
	defer func() {
		// The request context may already be gone
		if err := m.store.ReleaseRegion(context.Background(), r.Key); err != nil {
			log.Error().Err(err).Msg("Error releasing region")
		}
	}()

	start := m.now()
	items, fetchErr := m.fetcher.FetchRegionalNews(ctx, r.Key)

	if fetchErr != nil {
		log.Error().Err(fetchErr).Msg("Refresh failed, keeping previous items")

		state, err := m.load(ctx, r.Key)
		if err != nil {
			// An empty state must not replace the stored batch
			log.Error().Err(err).Msg("Could not load previous state, leaving it untouched")
			return models.RegionState{}, fetchErr
		}
		state.Error = fetchErr.Error()
		if err := m.store.SaveState(context.Background(), state); err != nil {
			log.Error().Err(err).Msg("Error saving region state")
		}
		return state, fetchErr
	}

	if items == nil {
		items = []models.NewsItem{}
	}
	finished := m.now()
	state := models.RegionState{
		Region:      r.Key,
		Items:       items,
		LastUpdated: &finished,
	}
	log.Info().
		Int("items", len(items)).
		Dur("duration", finished.Sub(start)).
		Msg("Region refreshed")

	if err := m.store.SaveState(context.Background(), state); err != nil {
		log.Error().Err(err).Msg("Error saving region state")
		return state, fmt.Errorf("failed to save region state: %w", err)
	}

	return state, nil
}

// RefreshAll refreshes every region, at most maxConcurrency at a time
func (m *Manager) RefreshAll(ctx context.Context) (map[string]models.RegionState, map[string]error) {
	log := logger.Get()
	start := time.Now()
	keys := region.Keys()

	states := make(map[string]models.RegionState, len(keys))
	errs := make(map[string]error)

	var mu sync.Mutex
	var wg sync.WaitGroup
	semaphore := make(chan struct{}, m.maxConcurrency)

	for _, key := range keys {
		select {
		case <-ctx.Done():
			mu.Lock()
			errs[key] = ctx.Err()
			mu.Unlock()
			continue
		case semaphore <- struct{}{}:
		}

		wg.Add(1)
		go func(key string) {
			defer wg.Done()
			defer func() { <-semaphore }()

			state, err := m.Refresh(ctx, key)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs[key] = err
			}
			if state.Region != "" {
				states[key] = state
			}
		}(key)
	}

	wg.Wait()

	log.Info().
		Int("regions", len(keys)).
		Int("failed", len(errs)).
		Dur("duration", time.Since(start)).
		Msg("Finished refreshing all regions")

	return states, errs
}

// FindItem returns a stored item of the region by ID
func (m *Manager) FindItem(ctx context.Context, regionKey, id string) (models.NewsItem, error) {
	state, err := m.State(ctx, regionKey)
	if err != nil {
		return models.NewsItem{}, err
	}
	for _, item := range state.Items {
		if item.ID == id {
			return item, nil
		}
	}
	return models.NewsItem{}, fmt.Errorf("%w: %s", ErrItemNotFound, id)
}
