package core

import "github.com/goliatone/go-databinding/binding"

type ProviderTier string

const (
	TierPreferred ProviderTier = "preferred"
	TierOther     ProviderTier = "other"
)

// ProviderDescriptor describes one discoverable provider.
type ProviderDescriptor struct {
	Name      string       `json:"name"`
	Namespace string       `json:"namespace"`
	Tier      ProviderTier `json:"tier"`
	Default   bool         `json:"default"`
}

// DiscoveryReport is the outcome of a single discovery pass.
type DiscoveryReport struct {
	Providers       []ProviderDescriptor `json:"providers"`
	Faults          []DiscoveryFault     `json:"faults"`
	DefaultInjected bool                 `json:"default_injected"`
}

func (f *Factory) describe(providers []binding.Provider, defaultInjected bool) []ProviderDescriptor {
	out := make([]ProviderDescriptor, 0, len(providers))
	for _, provider := range providers {
		if provider == nil {
			continue
		}
		tier := TierOther
		if preferred, _ := f.fallback.isPreferred(provider); preferred {
			tier = TierPreferred
		}
		out = append(out, ProviderDescriptor{
			Name:      binding.ProviderName(provider),
			Namespace: binding.Namespace(provider),
			Tier:      tier,
			Default:   defaultInjected,
		})
	}
	return out
}
