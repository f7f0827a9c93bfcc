package core

import (
	"context"

	"github.com/goliatone/go-databinding/binding"
	"github.com/goliatone/go-databinding/providers/xmlbind"
)

// DefaultMode is the mode served by the provider injected when discovery
// comes back empty.
const DefaultMode = xmlbind.Mode

// ProviderRegistry materializes the available providers. Every call rescans
// the discovery source; the returned list is never empty.
type ProviderRegistry struct {
	scanner         *ProviderScanner
	defaultProvider DefaultProviderFunc
	logger          Logger
}

func NewProviderRegistry(scanner *ProviderScanner, defaultProvider DefaultProviderFunc, logger Logger) *ProviderRegistry {
	if scanner == nil {
		scanner = NewProviderScanner(nil, logger, DefaultMaxScanFaults)
	}
	if defaultProvider == nil {
		defaultProvider = builtinDefaultProvider
	}
	return &ProviderRegistry{scanner: scanner, defaultProvider: defaultProvider, logger: logger}
}

// ListProviders returns the providers in discovery order.
func (r *ProviderRegistry) ListProviders(ctx context.Context) []binding.Provider {
	providers, _ := r.list(ctx, nil)
	return providers
}

func (r *ProviderRegistry) list(ctx context.Context, onFault func(DiscoveryFault)) ([]binding.Provider, bool) {
	providers := []binding.Provider{}
	r.scanner.scan(ctx, onFault, func(provider binding.Provider) bool {
		providers = append(providers, provider)
		return true
	})
	if len(providers) > 0 {
		return providers, false
	}

	fallback := r.defaultProvider()
	if fallback == nil {
		fallback = builtinDefaultProvider()
	}
	contextLogger(ctx, r.logger).Trace("no providers discovered, adding default",
		"provider", binding.ProviderName(fallback),
	)
	return append(providers, fallback), true
}

func builtinDefaultProvider() binding.Provider {
	return xmlbind.New()
}
