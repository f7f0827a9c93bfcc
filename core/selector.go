package core

import (
	"context"
	"strings"

	"github.com/goliatone/go-databinding/binding"
)

// ProviderSelector maps a mode or namespace to the first provider that
// handles it.
type ProviderSelector struct {
	registry *ProviderRegistry
}

func NewProviderSelector(registry *ProviderRegistry) *ProviderSelector {
	return &ProviderSelector{registry: registry}
}

func (s *ProviderSelector) Select(ctx context.Context, mode string) (binding.Provider, bool) {
	if s == nil || s.registry == nil {
		return nil, false
	}
	return selectProvider(s.registry.ListProviders(ctx), mode)
}

func selectProvider(providers []binding.Provider, mode string) (binding.Provider, bool) {
	mode = strings.TrimSpace(mode)
	if mode == "" {
		return nil, false
	}
	for _, provider := range providers {
		if provider == nil {
			continue
		}
		if handled, _ := providerHandles(provider, mode); handled {
			return provider, true
		}
	}
	return nil, false
}
