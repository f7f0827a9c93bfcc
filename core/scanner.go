package core

import (
	"context"
	"errors"
	"fmt"
	"iter"

	"github.com/goliatone/go-databinding/binding"
)

// DefaultMaxScanFaults leaves scans unbounded: a pass ends only when the
// source reports no more candidates. A positive cap is opt-in for sources
// whose iterators may never end.
const DefaultMaxScanFaults = 0

// DiscoveryFault describes one candidate skipped during a scan.
type DiscoveryFault struct {
	Kind    FaultKind `json:"kind"`
	Message string    `json:"message"`
}

// ProviderScanner turns a DiscoverySource into a lazy sequence of providers.
// Candidates that fail to load are logged and skipped; discovery errors
// never reach the caller.
type ProviderScanner struct {
	source    DiscoverySource
	logger    Logger
	maxFaults int
}

func NewProviderScanner(source DiscoverySource, logger Logger, maxFaults int) *ProviderScanner {
	if source == nil {
		source = EmptyDiscovery
	}
	if maxFaults < 0 {
		maxFaults = 0
	}
	return &ProviderScanner{source: source, logger: logger, maxFaults: maxFaults}
}

// Scan returns a single-pass sequence over the providers the source yields,
// in discovery order.
func (s *ProviderScanner) Scan(ctx context.Context) iter.Seq[binding.Provider] {
	return func(yield func(binding.Provider) bool) {
		s.scan(ctx, nil, yield)
	}
}

func (s *ProviderScanner) scan(
	ctx context.Context,
	onFault func(DiscoveryFault),
	yield func(binding.Provider) bool,
) {
	if s == nil {
		return
	}
	iterator, err := s.open(ctx)
	if err != nil {
		s.skip(ctx, err, onFault)
		return
	}
	if iterator == nil {
		return
	}

	consecutive := 0
	for {
		provider, err := s.next(iterator)
		if errors.Is(err, ErrNoMoreCandidates) {
			return
		}
		if err == nil && provider == nil {
			err = &ConfigurationError{Reason: "discovery returned a nil provider"}
		}
		if err != nil {
			s.skip(ctx, err, onFault)
			consecutive++
			if s.maxFaults > 0 && consecutive >= s.maxFaults {
				s.log(ctx).Warn("abandoning provider discovery pass",
					"consecutive_faults", consecutive,
				)
				return
			}
			continue
		}
		consecutive = 0
		s.log(ctx).Trace("discovery found provider", "provider", binding.ProviderName(provider))
		if !yield(provider) {
			return
		}
	}
}

func (s *ProviderScanner) open(ctx context.Context) (iterator CandidateIterator, err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			iterator = nil
			err = &ConfigurationError{Reason: fmt.Sprintf("discovery source panicked: %v", recovered)}
		}
	}()
	return s.source.Candidates(ctx), nil
}

func (s *ProviderScanner) next(iterator CandidateIterator) (provider binding.Provider, err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			provider = nil
			err = &ConfigurationError{Reason: fmt.Sprintf("discovery candidate panicked: %v", recovered)}
		}
	}()
	return iterator.Next()
}

func (s *ProviderScanner) skip(ctx context.Context, err error, onFault func(DiscoveryFault)) {
	kind := ClassifyDiscoveryError(err)
	logger := s.log(ctx)
	switch kind {
	case FaultMissingDependency:
		logger.Debug("skipping provider: missing dependency", "error", err.Error())
	case FaultConfiguration:
		logger.Warn("skipping provider: configuration error", "error", err.Error())
	default:
		logger.Warn("skipping provider: discovery failure", "error", err.Error())
	}
	if onFault != nil {
		onFault(DiscoveryFault{Kind: kind, Message: err.Error()})
	}
}

func (s *ProviderScanner) log(ctx context.Context) Logger {
	return contextLogger(ctx, s.logger)
}
