package sqlstore

import (
	"context"
	"strings"

	"github.com/goliatone/go-databinding/binding"
	"github.com/goliatone/go-databinding/core"
	"github.com/goliatone/go-databinding/discovery"
)

// ManifestSource discovers the enabled entries of a persisted manifest,
// resolving each entry's loader in loaders. Entries are read again on every
// pass.
func ManifestSource(store ManifestReader, loaders *discovery.Manifest) core.DiscoverySource {
	return manifestSource{store: store, loaders: loaders}
}

type manifestSource struct {
	store   ManifestReader
	loaders *discovery.Manifest
}

func (s manifestSource) Candidates(ctx context.Context) core.CandidateIterator {
	if s.store == nil {
		return core.EmptyDiscovery.Candidates(ctx)
	}
	entries, err := s.store.List(ctx)
	if err != nil {
		failed := false
		return core.CandidateIteratorFunc(func() (binding.Provider, error) {
			if failed {
				return nil, core.ErrNoMoreCandidates
			}
			failed = true
			return nil, &core.ConfigurationError{
				Candidate: "databinding_provider_manifest",
				Reason:    "manifest store unavailable",
				Err:       err,
			}
		})
	}

	enabled := make([]ManifestEntry, 0, len(entries))
	for _, entry := range entries {
		if entry.Enabled {
			enabled = append(enabled, entry)
		}
	}

	next := 0
	return core.CandidateIteratorFunc(func() (binding.Provider, error) {
		if next >= len(enabled) {
			return nil, core.ErrNoMoreCandidates
		}
		entry := enabled[next]
		next++
		return s.load(entry)
	})
}

func (s manifestSource) load(entry ManifestEntry) (binding.Provider, error) {
	name := strings.TrimSpace(entry.Name)
	loaderName := strings.TrimSpace(entry.Loader)
	if name == "" || loaderName == "" {
		return nil, &core.ConfigurationError{
			Candidate: entry.ID,
			Reason:    "manifest entry requires a name and a loader",
		}
	}
	loader, ok := s.loaders.Lookup(loaderName)
	if !ok {
		return nil, &core.MissingDependencyError{Candidate: name, Dependency: loaderName}
	}
	return discovery.Load(name, loader)
}
