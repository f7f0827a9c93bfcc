package command

import (
	"strconv"
	"strings"

	"github.com/goliatone/go-databinding/binding"
	"github.com/goliatone/go-databinding/discovery"
	sqlstore "github.com/goliatone/go-databinding/store/sql"
)

const (
	TypeCreateContext           = "databinding.command.context.create"
	TypeCreateContextFromSource = "databinding.command.context.create_from_source"
	TypeInspectDiscovery        = "databinding.command.discovery.inspect"
	TypeDeclareManifestEntry    = "databinding.command.manifest.declare"
	TypeSetManifestEntryEnabled = "databinding.command.manifest.set_enabled"
	TypeDeleteManifestEntry     = "databinding.command.manifest.delete"
)

// CreateContextMessage asks the factory for a binding context. A nil Info
// is treated as an empty descriptor.
type CreateContextMessage struct {
	Info *binding.Info
}

func (CreateContextMessage) Type() string { return TypeCreateContext }

func (m CreateContextMessage) Validate() error {
	if m.Info == nil {
		return nil
	}
	for index, item := range m.Info.Types {
		if item == nil {
			return commandValidationError("info.types", "type entry "+strconv.Itoa(index)+" is nil")
		}
	}
	return nil
}

type CreateContextFromSourceMessage struct {
	Source any
}

func (CreateContextFromSourceMessage) Type() string { return TypeCreateContextFromSource }

func (m CreateContextFromSourceMessage) Validate() error {
	if m.Source == nil {
		return commandValidationError("source", "source is required")
	}
	return nil
}

type InspectDiscoveryMessage struct{}

func (InspectDiscoveryMessage) Type() string { return TypeInspectDiscovery }

type DeclareManifestEntryMessage struct {
	Input sqlstore.DeclareInput
}

func (DeclareManifestEntryMessage) Type() string { return TypeDeclareManifestEntry }

func (m DeclareManifestEntryMessage) Validate() error {
	name := strings.TrimSpace(m.Input.Name)
	if name == "" {
		return commandValidationError("name", "name is required")
	}
	if !discovery.ValidName(name) {
		return commandValidationError("name", "illegal provider name")
	}
	if strings.TrimSpace(m.Input.Loader) == "" {
		return commandValidationError("loader", "loader is required")
	}
	if m.Input.Position < 0 {
		return commandValidationError("position", "position must be zero or greater")
	}
	return nil
}

type SetManifestEntryEnabledMessage struct {
	ID      string
	Enabled bool
}

func (SetManifestEntryEnabledMessage) Type() string { return TypeSetManifestEntryEnabled }

func (m SetManifestEntryEnabledMessage) Validate() error {
	if strings.TrimSpace(m.ID) == "" {
		return commandValidationError("id", "id is required")
	}
	return nil
}

type DeleteManifestEntryMessage struct {
	ID string
}

func (DeleteManifestEntryMessage) Type() string { return TypeDeleteManifestEntry }

func (m DeleteManifestEntryMessage) Validate() error {
	if strings.TrimSpace(m.ID) == "" {
		return commandValidationError("id", "id is required")
	}
	return nil
}
