package snapshot

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/wctc-net-database/gradedash/internal/contract"
)

// documentCacheVersion invalidates cached documents when the storage layout changes.
const documentCacheVersion = 1

// CachedSource keeps the last good copy of every document it fetches.
// When the inner source fails the cached copy is served instead; in offline mode
// the inner source is never contacted.
type CachedSource struct {
	Inner   contract.DocumentSource
	Store   contract.CacheStore
	Offline bool
	Now     func() time.Time
}

var _ contract.DocumentSource = &CachedSource{} // Compile-time check

// Fetch returns the live document, falling back to the cache.
func (s *CachedSource) Fetch(ctx context.Context, name string) ([]byte, error) {
	key := s.cacheKey(name)
	if s.Offline {
		data, ok := s.cached(key)
		if !ok {
			return nil, fmt.Errorf("%w: %s is not in the offline cache", ErrNotFound, name)
		}
		return data, nil
	}

	data, err := s.Inner.Fetch(ctx, name)
	if err == nil {
		if serr := s.Store.Set(key, data, documentCacheVersion, s.now().Unix()); serr != nil {
			contract.LogWarn(fmt.Sprintf("Failed to cache %s", name), serr)
		}
		return data, nil
	}
	// A document that is gone upstream stays gone; cancellation is not a fetch failure.
	if errors.Is(err, ErrNotFound) || ctx.Err() != nil {
		return nil, err
	}
	if cachedData, ok := s.cached(key); ok {
		contract.LogWarn(fmt.Sprintf("Serving cached copy of %s", name), err)
		return cachedData, nil
	}
	return nil, err
}

// Describe names the inner source and the cache mode.
func (s *CachedSource) Describe() string {
	if s.Offline {
		return s.Inner.Describe() + " (offline cache)"
	}
	return s.Inner.Describe()
}

func (s *CachedSource) cacheKey(name string) string {
	return s.Inner.Describe() + "|" + name
}

func (s *CachedSource) cached(key string) ([]byte, bool) {
	data, version, _, err := s.Store.Get(key)
	if err != nil || version != documentCacheVersion {
		return nil, false
	}
	return data, true
}

func (s *CachedSource) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
