package query

import "github.com/goliatone/go-databinding/binding"

const (
	TypeIsSupported         = "databinding.query.source.is_supported"
	TypeProviderFor         = "databinding.query.source.provider"
	TypeListProviders       = "databinding.query.providers.list"
	TypeResolveMode         = "databinding.query.mode.resolve"
	TypeListManifestEntries = "databinding.query.manifest.list"
)

// IsSupportedMessage asks whether any provider handles Object's namespace.
// A nil Object is answered with false rather than rejected.
type IsSupportedMessage struct {
	Object any
}

func (IsSupportedMessage) Type() string { return TypeIsSupported }

type ProviderForMessage struct {
	Object any
}

func (ProviderForMessage) Type() string { return TypeProviderFor }

func (m ProviderForMessage) Validate() error {
	if m.Object == nil {
		return queryValidationError("object", "object is required")
	}
	return nil
}

type ListProvidersMessage struct{}

func (ListProvidersMessage) Type() string { return TypeListProviders }

// ResolveModeMessage previews mode resolution. Info is not modified.
type ResolveModeMessage struct {
	Info *binding.Info
}

func (ResolveModeMessage) Type() string { return TypeResolveMode }

type ListManifestEntriesMessage struct{}

func (ListManifestEntriesMessage) Type() string { return TypeListManifestEntries }
