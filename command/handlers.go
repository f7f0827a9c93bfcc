package command

import (
	"context"

	gocmd "github.com/goliatone/go-command"
	"github.com/goliatone/go-databinding/binding"
	"github.com/goliatone/go-databinding/core"
	sqlstore "github.com/goliatone/go-databinding/store/sql"
)

// ContextFactory is the slice of core.Factory the commands drive.
type ContextFactory interface {
	Create(ctx context.Context, info *binding.Info) (binding.Context, error)
	CreateFromSource(ctx context.Context, source any) (binding.Context, error)
	Inspect(ctx context.Context) core.DiscoveryReport
}

type CreateContextCommand struct {
	factory ContextFactory
}

func NewCreateContextCommand(factory ContextFactory) *CreateContextCommand {
	return &CreateContextCommand{factory: factory}
}

func (c *CreateContextCommand) Execute(ctx context.Context, msg CreateContextMessage) error {
	if c == nil || c.factory == nil {
		return commandDependencyError("command: factory is required")
	}
	if err := msg.Validate(); err != nil {
		return err
	}
	out, err := c.factory.Create(ctx, msg.Info)
	if err != nil {
		return err
	}
	storeResult(ctx, out)
	return nil
}

type CreateContextFromSourceCommand struct {
	factory ContextFactory
}

func NewCreateContextFromSourceCommand(factory ContextFactory) *CreateContextFromSourceCommand {
	return &CreateContextFromSourceCommand{factory: factory}
}

func (c *CreateContextFromSourceCommand) Execute(ctx context.Context, msg CreateContextFromSourceMessage) error {
	if c == nil || c.factory == nil {
		return commandDependencyError("command: factory is required")
	}
	if err := msg.Validate(); err != nil {
		return err
	}
	out, err := c.factory.CreateFromSource(ctx, msg.Source)
	if err != nil {
		return err
	}
	storeResult(ctx, out)
	return nil
}

// InspectDiscoveryCommand runs a discovery pass and stores the report.
type InspectDiscoveryCommand struct {
	factory ContextFactory
}

func NewInspectDiscoveryCommand(factory ContextFactory) *InspectDiscoveryCommand {
	return &InspectDiscoveryCommand{factory: factory}
}

func (c *InspectDiscoveryCommand) Execute(ctx context.Context, _ InspectDiscoveryMessage) error {
	if c == nil || c.factory == nil {
		return commandDependencyError("command: factory is required")
	}
	storeResult(ctx, c.factory.Inspect(ctx))
	return nil
}

type DeclareManifestEntryCommand struct {
	store sqlstore.ManifestWriter
}

func NewDeclareManifestEntryCommand(store sqlstore.ManifestWriter) *DeclareManifestEntryCommand {
	return &DeclareManifestEntryCommand{store: store}
}

func (c *DeclareManifestEntryCommand) Execute(ctx context.Context, msg DeclareManifestEntryMessage) error {
	if c == nil || c.store == nil {
		return commandDependencyError("command: manifest store is required")
	}
	if err := msg.Validate(); err != nil {
		return err
	}
	out, err := c.store.Declare(ctx, msg.Input)
	if err != nil {
		return err
	}
	storeResult(ctx, out)
	return nil
}

type SetManifestEntryEnabledCommand struct {
	store sqlstore.ManifestWriter
}

func NewSetManifestEntryEnabledCommand(store sqlstore.ManifestWriter) *SetManifestEntryEnabledCommand {
	return &SetManifestEntryEnabledCommand{store: store}
}

func (c *SetManifestEntryEnabledCommand) Execute(ctx context.Context, msg SetManifestEntryEnabledMessage) error {
	if c == nil || c.store == nil {
		return commandDependencyError("command: manifest store is required")
	}
	if err := msg.Validate(); err != nil {
		return err
	}
	out, err := c.store.SetEnabled(ctx, msg.ID, msg.Enabled)
	if err != nil {
		return err
	}
	storeResult(ctx, out)
	return nil
}

type DeleteManifestEntryCommand struct {
	store sqlstore.ManifestWriter
}

func NewDeleteManifestEntryCommand(store sqlstore.ManifestWriter) *DeleteManifestEntryCommand {
	return &DeleteManifestEntryCommand{store: store}
}

func (c *DeleteManifestEntryCommand) Execute(ctx context.Context, msg DeleteManifestEntryMessage) error {
	if c == nil || c.store == nil {
		return commandDependencyError("command: manifest store is required")
	}
	if err := msg.Validate(); err != nil {
		return err
	}
	return c.store.Delete(ctx, msg.ID)
}

func storeResult[T any](ctx context.Context, value T) {
	collector := gocmd.ResultFromContext[T](ctx)
	if collector == nil {
		return
	}
	collector.Store(value)
}
