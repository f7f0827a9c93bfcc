package databinding

import (
	"fmt"

	commanddispatcher "github.com/goliatone/go-command/dispatcher"
	"github.com/goliatone/go-databinding/adapters/gocommand"
	databindingcommand "github.com/goliatone/go-databinding/command"
	databindingquery "github.com/goliatone/go-databinding/query"
	sqlstore "github.com/goliatone/go-databinding/store/sql"
)

// CommandQueryFactory is what the facade needs from a factory.
type CommandQueryFactory interface {
	databindingcommand.ContextFactory
	databindingquery.ProviderReader
}

type Commands struct {
	CreateContext           *databindingcommand.CreateContextCommand
	CreateContextFromSource *databindingcommand.CreateContextFromSourceCommand
	InspectDiscovery        *databindingcommand.InspectDiscoveryCommand
	DeclareManifestEntry    *databindingcommand.DeclareManifestEntryCommand
	SetManifestEntryEnabled *databindingcommand.SetManifestEntryEnabledCommand
	DeleteManifestEntry     *databindingcommand.DeleteManifestEntryCommand
}

type Queries struct {
	IsSupported         *databindingquery.IsSupportedQuery
	ProviderFor         *databindingquery.ProviderForQuery
	ListProviders       *databindingquery.ListProvidersQuery
	ResolveMode         *databindingquery.ResolveModeQuery
	ListManifestEntries *databindingquery.ListManifestEntriesQuery
}

type Facade struct {
	factory  CommandQueryFactory
	manifest sqlstore.ManifestReadWriter
	commands Commands
	queries  Queries
}

type FacadeOption func(*facadeOptions)

type facadeOptions struct {
	manifest sqlstore.ManifestReadWriter
}

// WithManifestStore enables the manifest commands and queries.
func WithManifestStore(store sqlstore.ManifestReadWriter) FacadeOption {
	return func(options *facadeOptions) {
		options.manifest = store
	}
}

func NewFacade(factory CommandQueryFactory, opts ...FacadeOption) (*Facade, error) {
	if factory == nil {
		return nil, fmt.Errorf("databinding: factory is required")
	}
	cfg := facadeOptions{}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	facade := &Facade{factory: factory, manifest: cfg.manifest}
	facade.commands = Commands{
		CreateContext:           databindingcommand.NewCreateContextCommand(factory),
		CreateContextFromSource: databindingcommand.NewCreateContextFromSourceCommand(factory),
		InspectDiscovery:        databindingcommand.NewInspectDiscoveryCommand(factory),
	}
	facade.queries = Queries{
		IsSupported:   databindingquery.NewIsSupportedQuery(factory),
		ProviderFor:   databindingquery.NewProviderForQuery(factory),
		ListProviders: databindingquery.NewListProvidersQuery(factory),
		ResolveMode:   databindingquery.NewResolveModeQuery(factory),
	}
	if cfg.manifest != nil {
		facade.commands.DeclareManifestEntry = databindingcommand.NewDeclareManifestEntryCommand(cfg.manifest)
		facade.commands.SetManifestEntryEnabled = databindingcommand.NewSetManifestEntryEnabledCommand(cfg.manifest)
		facade.commands.DeleteManifestEntry = databindingcommand.NewDeleteManifestEntryCommand(cfg.manifest)
		facade.queries.ListManifestEntries = databindingquery.NewListManifestEntriesQuery(cfg.manifest)
	}
	return facade, nil
}

func (f *Facade) Commands() Commands {
	if f == nil {
		return Commands{}
	}
	return f.commands
}

func (f *Facade) Queries() Queries {
	if f == nil {
		return Queries{}
	}
	return f.queries
}

func (f *Facade) Factory() CommandQueryFactory {
	if f == nil {
		return nil
	}
	return f.factory
}

type registration func() (commanddispatcher.Subscription, error)

// Register adds every wired handler to adapter and subscribes it to the
// go-command dispatcher. On failure the subscriptions made so far are
// released.
func (f *Facade) Register(adapter *gocommand.RegistryAdapter) (gocommand.Subscriptions, error) {
	if f == nil {
		return nil, fmt.Errorf("databinding: facade is nil")
	}
	steps := []registration{
		func() (commanddispatcher.Subscription, error) {
			return gocommand.RegisterAndSubscribe(adapter, f.commands.CreateContext)
		},
		func() (commanddispatcher.Subscription, error) {
			return gocommand.RegisterAndSubscribe(adapter, f.commands.CreateContextFromSource)
		},
		func() (commanddispatcher.Subscription, error) {
			return gocommand.RegisterAndSubscribe(adapter, f.commands.InspectDiscovery)
		},
		func() (commanddispatcher.Subscription, error) {
			return gocommand.RegisterAndSubscribeQuery(adapter, f.queries.IsSupported)
		},
		func() (commanddispatcher.Subscription, error) {
			return gocommand.RegisterAndSubscribeQuery(adapter, f.queries.ProviderFor)
		},
		func() (commanddispatcher.Subscription, error) {
			return gocommand.RegisterAndSubscribeQuery(adapter, f.queries.ListProviders)
		},
		func() (commanddispatcher.Subscription, error) {
			return gocommand.RegisterAndSubscribeQuery(adapter, f.queries.ResolveMode)
		},
	}
	if f.manifest != nil {
		steps = append(steps,
			func() (commanddispatcher.Subscription, error) {
				return gocommand.RegisterAndSubscribe(adapter, f.commands.DeclareManifestEntry)
			},
			func() (commanddispatcher.Subscription, error) {
				return gocommand.RegisterAndSubscribe(adapter, f.commands.SetManifestEntryEnabled)
			},
			func() (commanddispatcher.Subscription, error) {
				return gocommand.RegisterAndSubscribe(adapter, f.commands.DeleteManifestEntry)
			},
			func() (commanddispatcher.Subscription, error) {
				return gocommand.RegisterAndSubscribeQuery(adapter, f.queries.ListManifestEntries)
			},
		)
	}

	subs := make(gocommand.Subscriptions, 0, len(steps))
	for _, step := range steps {
		subscription, err := step()
		if err != nil {
			subs.Unsubscribe()
			return nil, err
		}
		subs = append(subs, subscription)
	}
	return subs, nil
}
