package core

import (
	"context"
	"errors"
	"reflect"
	"testing"

	goerrors "github.com/goliatone/go-errors"
)

type fixedConfigProvider struct {
	cfg Config
}

func (p *fixedConfigProvider) Load(context.Context, Config) (Config, error) {
	return p.cfg, nil
}

type fixedOptionsResolver struct {
	cfg Config
}

func (r *fixedOptionsResolver) Resolve(Config, Config, Config) (Config, error) {
	return r.cfg, nil
}

type failingConfigProvider struct {
	err error
}

func (p failingConfigProvider) Load(context.Context, Config) (Config, error) {
	return Config{}, p.err
}

func TestNewFactory_DefaultDependencies(t *testing.T) {
	factory, err := NewFactory(Config{})
	if err != nil {
		t.Fatalf("new factory: %v", err)
	}
	deps := factory.Dependencies()
	if deps.Logger == nil {
		t.Fatalf("expected default logger")
	}
	if deps.LoggerProvider == nil {
		t.Fatalf("expected default logger provider")
	}
	if deps.ErrorFactory == nil {
		t.Fatalf("expected default error factory")
	}
	if deps.ErrorMapper == nil {
		t.Fatalf("expected default error mapper")
	}
	if deps.ConfigProvider == nil {
		t.Fatalf("expected default config provider")
	}
	if deps.OptionsResolver == nil {
		t.Fatalf("expected default options resolver")
	}
	if deps.Discovery == nil {
		t.Fatalf("expected default discovery source")
	}
	if _, ok := deps.Properties.(EnvPropertySource); !ok {
		t.Fatalf("expected environment property source by default, got %T", deps.Properties)
	}

	cfg := factory.Config()
	if cfg.ServiceName != "databinding" {
		t.Fatalf("expected default service_name=databinding, got %q", cfg.ServiceName)
	}
	if !reflect.DeepEqual(cfg.PreferredModes, []string{"xml", "json"}) {
		t.Fatalf("expected default preferred modes, got %v", cfg.PreferredModes)
	}
	if cfg.MaxScanFaults != DefaultMaxScanFaults {
		t.Fatalf("expected default max scan faults, got %d", cfg.MaxScanFaults)
	}
}

func TestNewFactory_WithXOverrides(t *testing.T) {
	customLogger := stubLogger{}
	customProvider := stubLoggerProvider{logger: customLogger}
	customFactory := func(message string, category ...goerrors.Category) *goerrors.Error {
		return goerrors.New("custom:"+message, category...)
	}
	sentinel := errors.New("sentinel")
	customMapper := func(error) *goerrors.Error {
		return goerrors.Wrap(sentinel, goerrors.CategoryOperation, "mapped")
	}
	configProvider := &fixedConfigProvider{cfg: Config{ServiceName: "from-provider"}}
	optionsResolver := &fixedOptionsResolver{cfg: Config{ServiceName: "resolved", PreferredModes: []string{"json"}}}
	properties := MapPropertySource{ModeProperty: "json"}

	factory, err := NewFactory(Config{ServiceName: "runtime"},
		WithLogger(customLogger),
		WithLoggerProvider(customProvider),
		WithErrorFactory(customFactory),
		WithErrorMapper(customMapper),
		WithConfigProvider(configProvider),
		WithOptionsResolver(optionsResolver),
		WithPropertySource(properties),
	)
	if err != nil {
		t.Fatalf("new factory: %v", err)
	}

	deps := factory.Dependencies()
	if deps.Logger != customLogger {
		t.Fatalf("expected custom logger override")
	}
	if resolved := deps.LoggerProvider.GetLogger("databinding.override"); resolved != customLogger {
		t.Fatalf("expected logger provider to resolve custom logger")
	}
	if deps.ConfigProvider != configProvider {
		t.Fatalf("expected custom config provider override")
	}
	if deps.OptionsResolver != optionsResolver {
		t.Fatalf("expected custom options resolver override")
	}
	if got := factory.Config().ServiceName; got != "resolved" {
		t.Fatalf("expected options resolver output config, got %q", got)
	}

	_, err = factory.Create(context.Background(), nil)
	if err == nil {
		t.Fatalf("expected unknown mode: json is not discoverable without a discovery source")
	}
	var rich *goerrors.Error
	if !goerrors.As(err, &rich) || rich.Message != "custom:Unknown databinding mode: json" {
		t.Fatalf("expected custom error factory output, got %v", err)
	}
}

func TestNewFactory_ConfigLayeringPrecedence(t *testing.T) {
	provider := NewCfgxConfigProvider(mapRawLoader{values: map[string]any{
		"service_name":    "from-config",
		"preferred_modes": []string{"json"},
		"max_scan_faults": 8,
	}})

	factory, err := NewFactory(Config{ServiceName: "from-runtime"}, WithConfigProvider(provider))
	if err != nil {
		t.Fatalf("new factory: %v", err)
	}

	cfg := factory.Config()
	if cfg.ServiceName != "from-runtime" {
		t.Fatalf("expected runtime value to override config/default, got %q", cfg.ServiceName)
	}
	if !reflect.DeepEqual(cfg.PreferredModes, []string{"json"}) {
		t.Fatalf("expected config layer preferred modes, got %v", cfg.PreferredModes)
	}
	if cfg.MaxScanFaults != 8 {
		t.Fatalf("expected config layer max scan faults, got %d", cfg.MaxScanFaults)
	}
}

func TestGoOptionsResolver_MergesProperties(t *testing.T) {
	resolved, err := GoOptionsResolver{}.Resolve(
		DefaultConfig(),
		Config{Properties: map[string]string{ModeProperty: "xml", LegacyModeProperty: "json"}},
		Config{Properties: map[string]string{ModeProperty: "yaml"}},
	)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	want := map[string]string{ModeProperty: "yaml", LegacyModeProperty: "json"}
	if !reflect.DeepEqual(resolved.Properties, want) {
		t.Fatalf("expected runtime properties over config, got %#v", resolved.Properties)
	}
}

func TestNewFactory_MapsConfigErrors(t *testing.T) {
	_, err := NewFactory(Config{}, WithConfigProvider(failingConfigProvider{
		err: errors.New("core: max_scan_faults is invalid: -1"),
	}))
	if err == nil {
		t.Fatalf("expected config error")
	}
	var rich *goerrors.Error
	if !goerrors.As(err, &rich) {
		t.Fatalf("expected go-errors type, got %T", err)
	}
	if rich.TextCode != ErrorBadInput {
		t.Fatalf("expected bad input text code, got %q", rich.TextCode)
	}
}

func TestConfigValidate(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected defaults to validate: %v", err)
	}
	cfg.PreferredModes = []string{"xml", " "}
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected blank preferred mode to fail")
	}
	cfg = DefaultConfig()
	cfg.MaxScanFaults = -1
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected negative max scan faults to fail")
	}
}
