package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goliatone/go-databinding/binding"
	goerrors "github.com/goliatone/go-errors"
	glog "github.com/goliatone/go-logger/glog"
)

// Factory is the entry point for building binding contexts. It holds only
// immutable configuration; providers are rediscovered on every call.
type Factory struct {
	config          Config
	logger          Logger
	loggerProvider  LoggerProvider
	metricsRecorder MetricsRecorder
	errorFactory    ErrorFactory
	errorMapper     ErrorMapper
	configProvider  ConfigProvider
	optionsResolver OptionsResolver
	discovery       DiscoverySource
	properties      PropertySource
	defaultProvider DefaultProviderFunc

	registry *ProviderRegistry
	resolver *ModeResolver
	selector *ProviderSelector
	fallback *FallbackContextBuilder
}

type FactoryDependencies struct {
	Logger          Logger
	LoggerProvider  LoggerProvider
	MetricsRecorder MetricsRecorder
	ErrorFactory    ErrorFactory
	ErrorMapper     ErrorMapper
	ConfigProvider  ConfigProvider
	OptionsResolver OptionsResolver
	Discovery       DiscoverySource
	Properties      PropertySource
}

func NewFactory(cfg Config, opts ...Option) (*Factory, error) {
	builder := defaultFactoryBuilder(cfg)
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(&builder)
	}

	provider, logger := glog.Resolve("databinding", builder.loggerProvider, builder.logger)
	logger = glog.Ensure(logger)
	if provider != nil {
		if named := provider.GetLogger("databinding"); named != nil {
			logger = glog.Ensure(named)
		}
	}

	if builder.errorFactory == nil {
		builder.errorFactory = goerrors.New
	}
	if builder.metricsRecorder == nil {
		builder.metricsRecorder = NopMetricsRecorder{}
	}
	if builder.errorMapper == nil {
		builder.errorMapper = defaultErrorMapper
	}
	if builder.configProvider == nil {
		builder.configProvider = NewCfgxConfigProvider(nil)
	}
	if builder.optionsResolver == nil {
		builder.optionsResolver = GoOptionsResolver{}
	}
	if builder.discovery == nil {
		builder.discovery = EmptyDiscovery
	}
	if builder.properties == nil {
		builder.properties = EnvPropertySource{}
	}
	if builder.defaultProvider == nil {
		builder.defaultProvider = builtinDefaultProvider
	}

	defaults := DefaultConfig()
	loaded, err := builder.configProvider.Load(context.Background(), defaults)
	if err != nil {
		return nil, mapBuildError(builder.errorMapper, err)
	}
	finalConfig, err := builder.optionsResolver.Resolve(defaults, loaded, builder.runtimeConfig)
	if err != nil {
		return nil, mapBuildError(builder.errorMapper, err)
	}

	scanner := NewProviderScanner(builder.discovery, logger, finalConfig.MaxScanFaults)
	registry := NewProviderRegistry(scanner, builder.defaultProvider, logger)
	properties := ChainPropertySource{builder.properties, MapPropertySource(finalConfig.Properties)}

	return &Factory{
		config:          finalConfig,
		logger:          logger,
		loggerProvider:  provider,
		metricsRecorder: builder.metricsRecorder,
		errorFactory:    builder.errorFactory,
		errorMapper:     builder.errorMapper,
		configProvider:  builder.configProvider,
		optionsResolver: builder.optionsResolver,
		discovery:       builder.discovery,
		properties:      builder.properties,
		defaultProvider: builder.defaultProvider,
		registry:        registry,
		resolver:        NewModeResolver(properties, logger),
		selector:        NewProviderSelector(registry),
		fallback:        NewFallbackContextBuilder(registry, finalConfig.PreferredModes, logger),
	}, nil
}

func Setup(cfg Config, opts ...Option) (*Factory, error) {
	return NewFactory(cfg, opts...)
}

func mapBuildError(mapper ErrorMapper, err error) error {
	if err == nil {
		return nil
	}
	if mapper == nil {
		return err
	}
	mapped := mapper(err)
	if mapped == nil {
		return err
	}
	return mapped
}

func (f *Factory) Config() Config {
	if f == nil {
		return Config{}
	}
	return f.config
}

func (f *Factory) Dependencies() FactoryDependencies {
	if f == nil {
		return FactoryDependencies{}
	}
	return FactoryDependencies{
		Logger:          f.logger,
		LoggerProvider:  f.loggerProvider,
		MetricsRecorder: f.metricsRecorder,
		ErrorFactory:    f.errorFactory,
		ErrorMapper:     f.errorMapper,
		ConfigProvider:  f.configProvider,
		OptionsResolver: f.optionsResolver,
		Discovery:       f.discovery,
		Properties:      f.properties,
	}
}

// Registry exposes the provider registry backing the factory.
func (f *Factory) Registry() *ProviderRegistry {
	if f == nil {
		return nil
	}
	return f.registry
}

// Create builds a binding context for info. An explicit or configured mode
// selects exactly one provider; otherwise providers are autodetected.
// A nil info is treated as empty.
func (f *Factory) Create(ctx context.Context, info *binding.Info) (result binding.Context, err error) {
	if f == nil {
		return nil, fmt.Errorf("core: factory is nil")
	}
	startedAt := time.Now().UTC()
	fields := map[string]any{}
	defer func() {
		f.observeOperation(ctx, startedAt, "create", err, fields)
	}()

	if info == nil {
		info = &binding.Info{}
	}
	resolution := f.resolver.Resolve(ctx, info)
	fields["mode_source"] = string(resolution.Source)

	if resolution.Autodetect() {
		built, provider, buildErr := f.fallback.Build(ctx, info)
		if provider != nil {
			fields["provider"] = binding.ProviderName(provider)
		}
		if errors.Is(buildErr, errAutodetectExhausted) {
			contextLogger(ctx, f.logger).Error("no binding context providers found")
			return nil, f.noProvidersError()
		}
		if buildErr != nil {
			return nil, buildErr
		}
		fields["mode"] = built.Mode()
		return built, nil
	}

	fields["mode"] = resolution.Mode
	provider, ok := f.selector.Select(ctx, resolution.Mode)
	if !ok {
		contextLogger(ctx, f.logger).Error("unknown databinding mode", "mode", resolution.Mode)
		return nil, f.unknownModeError(resolution.Mode)
	}
	name := binding.ProviderName(provider)
	fields["provider"] = name

	built, err := provider.NewContext(info)
	if err != nil {
		return nil, err
	}
	if built == nil {
		return nil, f.nilContextError(name, resolution.Mode)
	}
	return built, nil
}

// CreateFromSource builds a context with the provider whose namespace matches
// an artifact produced by an existing backend. There is no autodetect
// fallback: an unmatched namespace is an error.
func (f *Factory) CreateFromSource(ctx context.Context, source any) (result binding.Context, err error) {
	if f == nil {
		return nil, fmt.Errorf("core: factory is nil")
	}
	startedAt := time.Now().UTC()
	fields := map[string]any{"source_type": fmt.Sprintf("%T", source)}
	defer func() {
		f.observeOperation(ctx, startedAt, "create_from_source", err, fields)
	}()

	if source == nil {
		return nil, f.badInputError("core: binding source is required")
	}
	provider, err := f.providerFor(ctx, source)
	if err != nil {
		return nil, err
	}
	name := binding.ProviderName(provider)
	fields["provider"] = name
	fields["namespace"] = binding.Namespace(source)

	built, err := provider.NewContextFromSource(source)
	if err != nil {
		return nil, err
	}
	if built == nil {
		return nil, f.nilContextError(name, binding.Namespace(source))
	}
	fields["mode"] = built.Mode()
	return built, nil
}

// ProviderFor returns the provider handling the implementation namespace of
// obj.
func (f *Factory) ProviderFor(ctx context.Context, obj any) (binding.Provider, error) {
	if f == nil {
		return nil, fmt.Errorf("core: factory is nil")
	}
	if obj == nil {
		return nil, f.badInputError("core: binding source is required")
	}
	return f.providerFor(ctx, obj)
}

func (f *Factory) providerFor(ctx context.Context, obj any) (binding.Provider, error) {
	namespace := binding.Namespace(obj)
	if provider, ok := f.selector.Select(ctx, namespace); ok {
		return provider, nil
	}
	typeName := fmt.Sprintf("%T", obj)
	contextLogger(ctx, f.logger).Error("unknown binding implementation",
		"namespace", namespace,
		"type", typeName,
	)
	return nil, f.unknownNamespaceError(namespace, typeName)
}

// IsSupported reports whether some provider handles the implementation
// namespace of obj. It never fails.
func (f *Factory) IsSupported(ctx context.Context, obj any) (supported bool) {
	if f == nil || obj == nil {
		return false
	}
	defer func() {
		if recovered := recover(); recovered != nil {
			contextLogger(ctx, f.logger).Warn("support check failed", "error", fmt.Sprint(recovered))
			supported = false
		}
	}()
	_, supported = f.selector.Select(ctx, binding.Namespace(obj))
	return supported
}

// ResolveMode reports which mode Create would use for info, applying the
// same write-back.
func (f *Factory) ResolveMode(ctx context.Context, info *binding.Info) ModeResolution {
	if f == nil {
		return ModeResolution{Source: SourceAutodetect}
	}
	return f.resolver.Resolve(ctx, info)
}

// Providers describes the currently discoverable providers.
func (f *Factory) Providers(ctx context.Context) []ProviderDescriptor {
	if f == nil {
		return []ProviderDescriptor{}
	}
	providers, injected := f.registry.list(ctx, nil)
	return f.describe(providers, injected)
}

// Inspect runs a discovery pass and reports what was found and skipped.
func (f *Factory) Inspect(ctx context.Context) DiscoveryReport {
	if f == nil {
		return DiscoveryReport{}
	}
	report := DiscoveryReport{Faults: []DiscoveryFault{}}
	providers, injected := f.registry.list(ctx, func(fault DiscoveryFault) {
		report.Faults = append(report.Faults, fault)
	})
	report.Providers = f.describe(providers, injected)
	report.DefaultInjected = injected
	return report
}
