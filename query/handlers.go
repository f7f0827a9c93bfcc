package query

import (
	"context"

	"github.com/goliatone/go-databinding/binding"
	"github.com/goliatone/go-databinding/core"
	sqlstore "github.com/goliatone/go-databinding/store/sql"
)

type ProviderReader interface {
	ProviderFor(ctx context.Context, obj any) (binding.Provider, error)
	IsSupported(ctx context.Context, obj any) bool
	ResolveMode(ctx context.Context, info *binding.Info) core.ModeResolution
	Providers(ctx context.Context) []core.ProviderDescriptor
}

type IsSupportedQuery struct {
	reader ProviderReader
}

func NewIsSupportedQuery(reader ProviderReader) *IsSupportedQuery {
	return &IsSupportedQuery{reader: reader}
}

func (q *IsSupportedQuery) Query(ctx context.Context, msg IsSupportedMessage) (bool, error) {
	if q == nil || q.reader == nil {
		return false, queryDependencyError("query: provider reader is required")
	}
	return q.reader.IsSupported(ctx, msg.Object), nil
}

type ProviderForQuery struct {
	reader ProviderReader
}

func NewProviderForQuery(reader ProviderReader) *ProviderForQuery {
	return &ProviderForQuery{reader: reader}
}

func (q *ProviderForQuery) Query(ctx context.Context, msg ProviderForMessage) (binding.Provider, error) {
	if q == nil || q.reader == nil {
		return nil, queryDependencyError("query: provider reader is required")
	}
	if err := msg.Validate(); err != nil {
		return nil, err
	}
	return q.reader.ProviderFor(ctx, msg.Object)
}

type ListProvidersQuery struct {
	reader ProviderReader
}

func NewListProvidersQuery(reader ProviderReader) *ListProvidersQuery {
	return &ListProvidersQuery{reader: reader}
}

func (q *ListProvidersQuery) Query(ctx context.Context, _ ListProvidersMessage) ([]core.ProviderDescriptor, error) {
	if q == nil || q.reader == nil {
		return nil, queryDependencyError("query: provider reader is required")
	}
	return q.reader.Providers(ctx), nil
}

type ResolveModeQuery struct {
	reader ProviderReader
}

func NewResolveModeQuery(reader ProviderReader) *ResolveModeQuery {
	return &ResolveModeQuery{reader: reader}
}

// Query resolves against a copy of msg.Info so the caller's descriptor keeps
// its original mode.
func (q *ResolveModeQuery) Query(ctx context.Context, msg ResolveModeMessage) (core.ModeResolution, error) {
	if q == nil || q.reader == nil {
		return core.ModeResolution{}, queryDependencyError("query: provider reader is required")
	}
	info := msg.Info.Clone()
	if info == nil {
		info = &binding.Info{}
	}
	return q.reader.ResolveMode(ctx, info), nil
}

type ListManifestEntriesQuery struct {
	reader sqlstore.ManifestReader
}

func NewListManifestEntriesQuery(reader sqlstore.ManifestReader) *ListManifestEntriesQuery {
	return &ListManifestEntriesQuery{reader: reader}
}

func (q *ListManifestEntriesQuery) Query(ctx context.Context, _ ListManifestEntriesMessage) ([]sqlstore.ManifestEntry, error) {
	if q == nil || q.reader == nil {
		return nil, queryDependencyError("query: manifest reader is required")
	}
	return q.reader.List(ctx)
}
