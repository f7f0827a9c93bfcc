package core

import (
	"context"

	"github.com/goliatone/go-databinding/binding"
	glog "github.com/goliatone/go-logger/glog"
)

type Logger = glog.Logger

type LoggerProvider = glog.LoggerProvider

type FieldsLogger = glog.FieldsLogger

type MetricsRecorder interface {
	IncCounter(ctx context.Context, name string, value int64, tags map[string]string)
	ObserveHistogram(ctx context.Context, name string, value float64, tags map[string]string)
}

// DiscoverySource enumerates the registered binding providers. Each call to
// Candidates starts a new, independent pass.
type DiscoverySource interface {
	Candidates(ctx context.Context) CandidateIterator
}

// CandidateIterator yields discovery candidates one at a time. Next returns
// ErrNoMoreCandidates once the pass is exhausted. A candidate that fails to
// load is reported as an error from Next; the following call advances to
// the next candidate.
type CandidateIterator interface {
	Next() (binding.Provider, error)
}

// DiscoverySourceFunc adapts a function to DiscoverySource.
type DiscoverySourceFunc func(ctx context.Context) CandidateIterator

func (f DiscoverySourceFunc) Candidates(ctx context.Context) CandidateIterator {
	if f == nil {
		return emptyIterator{}
	}
	return f(ctx)
}

// CandidateIteratorFunc adapts a function to CandidateIterator.
type CandidateIteratorFunc func() (binding.Provider, error)

func (f CandidateIteratorFunc) Next() (binding.Provider, error) {
	if f == nil {
		return nil, ErrNoMoreCandidates
	}
	return f()
}

// PropertySource looks up process-wide configuration properties.
type PropertySource interface {
	Property(key string) (string, bool)
}

// DefaultProviderFunc builds the provider injected when discovery finds
// nothing.
type DefaultProviderFunc func() binding.Provider

type emptyIterator struct{}

func (emptyIterator) Next() (binding.Provider, error) {
	return nil, ErrNoMoreCandidates
}

// EmptyDiscovery is a source with no candidates.
var EmptyDiscovery DiscoverySource = DiscoverySourceFunc(func(context.Context) CandidateIterator {
	return emptyIterator{}
})
