package core

import (
	"context"
	"strings"
	"sync"

	"github.com/goliatone/go-databinding/binding"
)

type stubContext struct {
	mode     string
	provider string
}

func (c *stubContext) Mode() string { return c.mode }

func (c *stubContext) Marshal(any) ([]byte, error) { return []byte(c.provider), nil }

func (c *stubContext) Unmarshal([]byte, any) error { return nil }

// stubSource is a raw binding source whose namespace is this package.
type stubSource struct{}

type stubProvider struct {
	name      string
	modes     []string
	namespace string
	handles   func(string) bool
	build     func(*binding.Info) (binding.Context, error)
	calls     *callLog
}

func newStubProvider(name string, calls *callLog, modes ...string) *stubProvider {
	return &stubProvider{name: name, modes: modes, calls: calls}
}

func (p *stubProvider) Name() string { return p.name }

func (p *stubProvider) Handles(modeOrNamespace string) bool {
	if p.handles != nil {
		return p.handles(modeOrNamespace)
	}
	if p.namespace != "" && modeOrNamespace == p.namespace {
		return true
	}
	for _, mode := range p.modes {
		if strings.EqualFold(mode, modeOrNamespace) {
			return true
		}
	}
	return false
}

func (p *stubProvider) NewContext(info *binding.Info) (binding.Context, error) {
	p.calls.add(p.name)
	if p.build != nil {
		return p.build(info)
	}
	mode := ""
	if len(p.modes) > 0 {
		mode = p.modes[0]
	}
	return &stubContext{mode: mode, provider: p.name}, nil
}

func (p *stubProvider) NewContextFromSource(any) (binding.Context, error) {
	p.calls.add(p.name + ":source")
	return &stubContext{mode: "source", provider: p.name}, nil
}

type callLog struct {
	mu    sync.Mutex
	names []string
}

func (c *callLog) add(name string) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.names = append(c.names, name)
}

func (c *callLog) snapshot() []string {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.names...)
}

// candidate is one scripted discovery step.
type candidate struct {
	provider binding.Provider
	err      error
	panicked any
}

type scriptedSource struct {
	mu     sync.Mutex
	steps  []candidate
	passes int
}

func newScriptedSource(steps ...candidate) *scriptedSource {
	return &scriptedSource{steps: steps}
}

func providersSource(providers ...binding.Provider) *scriptedSource {
	steps := make([]candidate, 0, len(providers))
	for _, provider := range providers {
		steps = append(steps, candidate{provider: provider})
	}
	return newScriptedSource(steps...)
}

func (s *scriptedSource) Candidates(context.Context) CandidateIterator {
	s.mu.Lock()
	s.passes++
	steps := append([]candidate(nil), s.steps...)
	s.mu.Unlock()

	index := 0
	return CandidateIteratorFunc(func() (binding.Provider, error) {
		if index >= len(steps) {
			return nil, ErrNoMoreCandidates
		}
		step := steps[index]
		index++
		if step.panicked != nil {
			panic(step.panicked)
		}
		return step.provider, step.err
	})
}

func (s *scriptedSource) passCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.passes
}

type stubLogger struct{}

func (stubLogger) Trace(string, ...any) {}
func (stubLogger) Debug(string, ...any) {}
func (stubLogger) Info(string, ...any)  {}
func (stubLogger) Warn(string, ...any)  {}
func (stubLogger) Error(string, ...any) {}
func (stubLogger) Fatal(string, ...any) {}
func (s stubLogger) WithContext(context.Context) Logger {
	return s
}

type stubLoggerProvider struct {
	logger Logger
}

func (s stubLoggerProvider) GetLogger(string) Logger {
	return s.logger
}

type mapRawLoader struct {
	values map[string]any
}

func (l mapRawLoader) LoadRaw(context.Context) (map[string]any, error) {
	if len(l.values) == 0 {
		return map[string]any{}, nil
	}
	out := make(map[string]any, len(l.values))
	for key, value := range l.values {
		out[key] = value
	}
	return out, nil
}

func newTestFactory(source DiscoverySource, logger *captureLogger, opts ...Option) (*Factory, error) {
	base := []Option{
		WithDiscovery(source),
		WithPropertySource(MapPropertySource{}),
	}
	if logger != nil {
		base = append(base, WithLogger(logger), WithLoggerProvider(stubLoggerProvider{logger: logger}))
	}
	return NewFactory(Config{}, append(base, opts...)...)
}
