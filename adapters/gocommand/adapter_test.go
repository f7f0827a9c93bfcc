package gocommand

import (
	"context"
	"errors"
	"testing"

	"github.com/goliatone/go-command"
	"github.com/goliatone/go-databinding/binding"
	databindingcommand "github.com/goliatone/go-databinding/command"
	"github.com/goliatone/go-databinding/core"
	databindingquery "github.com/goliatone/go-databinding/query"
	jobqueuecommand "github.com/goliatone/go-job/queue/command"
)

type okMessage struct{}

func (okMessage) Type() string { return "databinding.test.ok" }

type invalidMessage struct{}

func (invalidMessage) Type() string { return "" }

type failingMessage struct{}

func (failingMessage) Type() string { return "databinding.test.fail" }

func (failingMessage) Validate() error { return errors.New("invalid payload") }

type queueMessage struct{}

func (queueMessage) Type() string { return "databinding.test.queue" }

type stubFactory struct {
	inspected int
}

func (s *stubFactory) Create(context.Context, *binding.Info) (binding.Context, error) {
	return nil, errors.New("not used")
}

func (s *stubFactory) CreateFromSource(context.Context, any) (binding.Context, error) {
	return nil, errors.New("not used")
}

func (s *stubFactory) Inspect(context.Context) core.DiscoveryReport {
	s.inspected++
	return core.DiscoveryReport{}
}

type stubProviderReader struct{}

func (stubProviderReader) ProviderFor(context.Context, any) (binding.Provider, error) {
	return nil, errors.New("not used")
}

func (stubProviderReader) IsSupported(context.Context, any) bool { return false }

func (stubProviderReader) ResolveMode(context.Context, *binding.Info) core.ModeResolution {
	return core.ModeResolution{Source: core.SourceAutodetect}
}

func (stubProviderReader) Providers(context.Context) []core.ProviderDescriptor {
	return []core.ProviderDescriptor{{Name: "xmlbind", Tier: core.TierPreferred, Default: true}}
}

func TestValidateMessageContract(t *testing.T) {
	if err := ValidateMessageContract(okMessage{}); err != nil {
		t.Fatalf("expected valid message, got %v", err)
	}
	if err := ValidateMessageContract(invalidMessage{}); err == nil {
		t.Fatalf("expected empty type to fail contract validation")
	}
	if err := ValidateMessageContract(failingMessage{}); err == nil {
		t.Fatalf("expected Validate() failure to bubble")
	}
	if err := ValidateMessageContract(databindingcommand.CreateContextFromSourceMessage{}); err == nil {
		t.Fatalf("expected missing source to fail contract validation")
	}
}

func TestRegistryAndDispatchWiring(t *testing.T) {
	adapter := NewRegistryAdapter(command.NewRegistry())
	factory := &stubFactory{}
	customResolverCalled := 0

	subscription, err := RegisterAndSubscribe(adapter, databindingcommand.NewInspectDiscoveryCommand(factory))
	if err != nil {
		t.Fatalf("register and subscribe: %v", err)
	}
	defer subscription.Unsubscribe()

	if err := adapter.AddResolver("custom", func(any, command.CommandMeta, *command.Registry) error {
		customResolverCalled++
		return nil
	}); err != nil {
		t.Fatalf("add resolver: %v", err)
	}
	if !adapter.HasResolver("custom") {
		t.Fatalf("expected custom resolver to be registered")
	}
	if err := adapter.Initialize(); err != nil {
		t.Fatalf("initialize registry: %v", err)
	}
	if customResolverCalled == 0 {
		t.Fatalf("expected resolver hook to run during initialization")
	}

	if err := Dispatch(context.Background(), databindingcommand.InspectDiscoveryMessage{}); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if factory.inspected != 1 {
		t.Fatalf("expected one inspection, got %d", factory.inspected)
	}
}

func TestRegisterAndSubscribeQuery_RoutesQueries(t *testing.T) {
	adapter := NewRegistryAdapter(nil)
	subscription, err := RegisterAndSubscribeQuery(adapter, databindingquery.NewListProvidersQuery(stubProviderReader{}))
	if err != nil {
		t.Fatalf("register query: %v", err)
	}
	defer subscription.Unsubscribe()

	descriptors, err := Query[databindingquery.ListProvidersMessage, []core.ProviderDescriptor](
		context.Background(),
		databindingquery.ListProvidersMessage{},
	)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(descriptors) != 1 || descriptors[0].Name != "xmlbind" {
		t.Fatalf("unexpected descriptors %#v", descriptors)
	}
}

func TestQueueResolverHookWiring(t *testing.T) {
	adapter := NewRegistryAdapter(command.NewRegistry())
	queueRegistry := jobqueuecommand.NewRegistry()

	cmd := command.CommandFunc[queueMessage](func(context.Context, queueMessage) error { return nil })

	if err := adapter.AddQueueResolver("queue", queueRegistry); err != nil {
		t.Fatalf("add queue resolver: %v", err)
	}
	if err := adapter.Register(cmd); err != nil {
		t.Fatalf("register command: %v", err)
	}
	if err := adapter.Initialize(); err != nil {
		t.Fatalf("initialize registry: %v", err)
	}

	if _, ok := queueRegistry.Get("databinding.test.queue"); !ok {
		t.Fatalf("expected command to be mirrored into queue registry")
	}
}

func TestUnconfiguredAdapter(t *testing.T) {
	var adapter *RegistryAdapter
	if err := adapter.Register(okMessage{}); !errors.Is(err, ErrRegistryNotConfigured) {
		t.Fatalf("expected not configured error, got %v", err)
	}
	if adapter.HasResolver("queue") {
		t.Fatalf("expected nil adapter to report no resolvers")
	}
	if _, err := RegisterAndSubscribe[okMessage](adapter, nil); !errors.Is(err, ErrRegistryNotConfigured) {
		t.Fatalf("expected not configured error, got %v", err)
	}
	Subscriptions{nil}.Unsubscribe()
}
