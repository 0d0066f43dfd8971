package cache

import (
	"context"
	"time"

	"github.com/bilgisen/regionews/internal/models"
)

// Store holds the caller-side slot of each region: its latest batch, its busy
// flag, and markers for drafts already published.
type Store interface {
	// LoadState returns nil, nil when the region has no stored batch.
	LoadState(ctx context.Context, region string) (*models.RegionState, error)
	SaveState(ctx context.Context, state models.RegionState) error

	// AcquireRegion sets the region's busy flag. It reports false if the flag is
	// already held. The flag expires after ttl.
	AcquireRegion(ctx context.Context, region string, ttl time.Duration) (bool, error)
	ReleaseRegion(ctx context.Context, region string) error

	// ClaimProcessed sets the marker for hash unless it already exists and
	// reports whether this call set it. The marker expires after ttl.
	ClaimProcessed(ctx context.Context, hash string, ttl time.Duration) (bool, error)
	// ReleaseProcessed removes the marker for hash.
	ReleaseProcessed(ctx context.Context, hash string) error
	ClearProcessed(ctx context.Context) error

	Close() error
}

func stateKey(prefix, region string) string { return prefix + "state:" + region }

func busyKey(prefix, region string) string { return prefix + "busy:" + region }

func processedKey(prefix, hash string) string { return prefix + "published:" + hash }
