package query

import (
	gocmd "github.com/goliatone/go-command"
	"github.com/goliatone/go-databinding/binding"
	"github.com/goliatone/go-databinding/core"
	sqlstore "github.com/goliatone/go-databinding/store/sql"
)

var (
	_ gocmd.Querier[IsSupportedMessage, bool]                             = (*IsSupportedQuery)(nil)
	_ gocmd.Querier[ProviderForMessage, binding.Provider]                 = (*ProviderForQuery)(nil)
	_ gocmd.Querier[ListProvidersMessage, []core.ProviderDescriptor]      = (*ListProvidersQuery)(nil)
	_ gocmd.Querier[ResolveModeMessage, core.ModeResolution]              = (*ResolveModeQuery)(nil)
	_ gocmd.Querier[ListManifestEntriesMessage, []sqlstore.ManifestEntry] = (*ListManifestEntriesQuery)(nil)

	_ ProviderReader = (*core.Factory)(nil)
)
