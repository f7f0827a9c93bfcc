package discovery

import (
	"context"
	"errors"

	"github.com/goliatone/go-databinding/binding"
	"github.com/goliatone/go-databinding/core"
)

// Chain concatenates sources. Each pass walks them in order; nil sources are
// ignored.
func Chain(sources ...core.DiscoverySource) core.DiscoverySource {
	filtered := make([]core.DiscoverySource, 0, len(sources))
	for _, source := range sources {
		if source != nil {
			filtered = append(filtered, source)
		}
	}
	return core.DiscoverySourceFunc(func(ctx context.Context) core.CandidateIterator {
		position := 0
		var current core.CandidateIterator
		return core.CandidateIteratorFunc(func() (binding.Provider, error) {
			for {
				if current == nil {
					if position >= len(filtered) {
						return nil, core.ErrNoMoreCandidates
					}
					current = filtered[position].Candidates(ctx)
					position++
					if current == nil {
						continue
					}
				}
				provider, err := current.Next()
				if errors.Is(err, core.ErrNoMoreCandidates) {
					current = nil
					continue
				}
				return provider, err
			}
		})
	})
}
