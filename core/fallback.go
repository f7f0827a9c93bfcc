package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/goliatone/go-databinding/binding"
)

var errAutodetectExhausted = errors.New("core: no provider produced a binding context")

// FallbackContextBuilder builds a context when no mode is configured.
// Preferred providers are trusted: their failures propagate. Every other
// provider is tried opportunistically and its failures are logged and
// skipped.
type FallbackContextBuilder struct {
	registry  *ProviderRegistry
	preferred []string
	logger    Logger
}

func NewFallbackContextBuilder(registry *ProviderRegistry, preferred []string, logger Logger) *FallbackContextBuilder {
	return &FallbackContextBuilder{
		registry:  registry,
		preferred: append([]string(nil), preferred...),
		logger:    logger,
	}
}

// Build returns the first non-nil context and the provider that built it.
// It returns errAutodetectExhausted when no provider produced one.
func (b *FallbackContextBuilder) Build(ctx context.Context, info *binding.Info) (binding.Context, binding.Provider, error) {
	logger := contextLogger(ctx, b.logger)
	preferred, others := b.partition(logger, b.registry.ListProviders(ctx))

	for _, provider := range preferred {
		logger.Debug("trying preferred provider", "provider", binding.ProviderName(provider))
		built, err := provider.NewContext(info)
		if err != nil {
			return nil, provider, err
		}
		if built != nil {
			return built, provider, nil
		}
	}

	for _, provider := range others {
		name := binding.ProviderName(provider)
		logger.Debug("fallback: trying provider", "provider", name)
		built, err := buildTolerant(provider, info)
		if err != nil {
			logger.Warn("fallback provider failed", "provider", name, "error", err.Error())
			continue
		}
		if built != nil {
			return built, provider, nil
		}
	}
	return nil, nil, errAutodetectExhausted
}

// partition splits providers into tiers. A provider whose Handles panics
// is placed in the other tier.
func (b *FallbackContextBuilder) partition(logger Logger, providers []binding.Provider) ([]binding.Provider, []binding.Provider) {
	preferred := make([]binding.Provider, 0, len(providers))
	others := make([]binding.Provider, 0, len(providers))
	for _, provider := range providers {
		if provider == nil {
			continue
		}
		inPreferredTier, err := b.isPreferred(provider)
		if err != nil {
			logger.Warn("provider mode check failed", "provider", binding.ProviderName(provider), "error", err.Error())
		}
		if inPreferredTier {
			preferred = append(preferred, provider)
			continue
		}
		others = append(others, provider)
	}
	return preferred, others
}

func (b *FallbackContextBuilder) isPreferred(provider binding.Provider) (bool, error) {
	for _, mode := range b.preferred {
		handled, err := providerHandles(provider, mode)
		if err != nil {
			return false, err
		}
		if handled {
			return true, nil
		}
	}
	return false, nil
}

func providerHandles(provider binding.Provider, mode string) (handled bool, err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			handled = false
			err = fmt.Errorf("core: provider %s panicked in Handles: %v", binding.ProviderName(provider), recovered)
		}
	}()
	return provider.Handles(mode), nil
}

func buildTolerant(provider binding.Provider, info *binding.Info) (built binding.Context, err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			built = nil
			err = fmt.Errorf("core: provider %s panicked: %v", binding.ProviderName(provider), recovered)
		}
	}()
	return provider.NewContext(info)
}
