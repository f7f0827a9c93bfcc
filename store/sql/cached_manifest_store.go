package sqlstore

import (
	"context"
	"fmt"

	repositorycache "github.com/goliatone/go-repository-cache/cache"
)

const manifestCacheKey = "go-databinding::provider_manifest::v1::list"

type ManifestReadWriter interface {
	ManifestReader
	ManifestWriter
}

// CachedManifestStore memoizes List through a cache service. Every write
// through the store invalidates the cached list.
type CachedManifestStore struct {
	base  ManifestReadWriter
	cache repositorycache.CacheService
}

func NewCachedManifestStore(
	base ManifestReadWriter,
	cacheService repositorycache.CacheService,
) (*CachedManifestStore, error) {
	if base == nil {
		return nil, fmt.Errorf("sqlstore: base manifest store is required")
	}
	if cacheService == nil {
		return nil, fmt.Errorf("sqlstore: manifest cache service is required")
	}
	return &CachedManifestStore{base: base, cache: cacheService}, nil
}

func (s *CachedManifestStore) List(ctx context.Context) ([]ManifestEntry, error) {
	if s == nil || s.base == nil || s.cache == nil {
		return nil, fmt.Errorf("sqlstore: cached manifest store is not configured")
	}
	entries, err := repositorycache.GetOrFetch(ctx, s.cache, manifestCacheKey, func(ctx context.Context) ([]ManifestEntry, error) {
		fetched, fetchErr := s.base.List(ctx)
		if fetchErr != nil {
			return nil, fetchErr
		}
		return cloneEntries(fetched), nil
	})
	if err != nil {
		return nil, err
	}
	return cloneEntries(entries), nil
}

func (s *CachedManifestStore) Declare(ctx context.Context, in DeclareInput) (ManifestEntry, error) {
	if s == nil || s.base == nil || s.cache == nil {
		return ManifestEntry{}, fmt.Errorf("sqlstore: cached manifest store is not configured")
	}
	entry, err := s.base.Declare(ctx, in)
	if err != nil {
		return ManifestEntry{}, err
	}
	return entry, s.invalidate(ctx)
}

func (s *CachedManifestStore) SetEnabled(ctx context.Context, id string, enabled bool) (ManifestEntry, error) {
	if s == nil || s.base == nil || s.cache == nil {
		return ManifestEntry{}, fmt.Errorf("sqlstore: cached manifest store is not configured")
	}
	entry, err := s.base.SetEnabled(ctx, id, enabled)
	if err != nil {
		return ManifestEntry{}, err
	}
	return entry, s.invalidate(ctx)
}

func (s *CachedManifestStore) Delete(ctx context.Context, id string) error {
	if s == nil || s.base == nil || s.cache == nil {
		return fmt.Errorf("sqlstore: cached manifest store is not configured")
	}
	if err := s.base.Delete(ctx, id); err != nil {
		return err
	}
	return s.invalidate(ctx)
}

func (s *CachedManifestStore) invalidate(ctx context.Context) error {
	return s.cache.Delete(ctx, manifestCacheKey)
}

func cloneEntries(entries []ManifestEntry) []ManifestEntry {
	if entries == nil {
		return []ManifestEntry{}
	}
	return append([]ManifestEntry(nil), entries...)
}
