package databinding

import (
	"github.com/goliatone/go-databinding/binding"
	"github.com/goliatone/go-databinding/core"
	"github.com/goliatone/go-databinding/discovery"
)

type Config = core.Config

type Option = core.Option

type Factory = core.Factory

type FactoryDependencies = core.FactoryDependencies

type Info = binding.Info

type Provider = binding.Provider

type Context = binding.Context

type ModeResolution = core.ModeResolution

type ProviderDescriptor = core.ProviderDescriptor

type DiscoveryReport = core.DiscoveryReport

const (
	ModeProperty       = core.ModeProperty
	LegacyModeProperty = core.LegacyModeProperty
)

var (
	WithLogger          = core.WithLogger
	WithLoggerProvider  = core.WithLoggerProvider
	WithMetricsRecorder = core.WithMetricsRecorder
	WithErrorFactory    = core.WithErrorFactory
	WithErrorMapper     = core.WithErrorMapper
	WithConfigProvider  = core.WithConfigProvider
	WithOptionsResolver = core.WithOptionsResolver
	WithDiscovery       = core.WithDiscovery
	WithPropertySource  = core.WithPropertySource
	WithDefaultProvider = core.WithDefaultProvider

	NewInfo = binding.NewInfo

	IsUnknownMode      = core.IsUnknownMode
	IsUnknownNamespace = core.IsUnknownNamespace
	IsNoProviders      = core.IsNoProviders
)

func DefaultConfig() Config {
	return core.DefaultConfig()
}

// DefaultDiscovery walks the built-in backends first, then whatever was
// registered in the process-wide discovery manifest.
func DefaultDiscovery() core.DiscoverySource {
	return discovery.Chain(BuiltinManifest(), discovery.Global())
}

// NewFactory builds a factory over DefaultDiscovery. A WithDiscovery option
// replaces it.
func NewFactory(cfg Config, opts ...Option) (*Factory, error) {
	all := make([]Option, 0, len(opts)+1)
	all = append(all, core.WithDiscovery(DefaultDiscovery()))
	all = append(all, opts...)
	return core.NewFactory(cfg, all...)
}

func Setup(cfg Config, opts ...Option) (*Factory, error) {
	return NewFactory(cfg, opts...)
}
