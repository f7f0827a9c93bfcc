package discovery

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/goliatone/go-databinding/binding"
	"github.com/goliatone/go-databinding/core"
)

// Loader constructs one provider. A loader that cannot run in this process
// should return a *core.MissingDependencyError; any other unclassified error
// is reported as one.
type Loader func() (binding.Provider, error)

var validName = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._/\-]*$`)

// ValidName reports whether name can be declared in a manifest.
func ValidName(name string) bool {
	return validName.MatchString(name)
}

type entry struct {
	name   string
	loader Loader
}

// Manifest is a named, ordered set of provider loaders. It is safe for
// concurrent registration and scanning.
type Manifest struct {
	mu      sync.RWMutex
	entries []entry
	index   map[string]int
}

func NewManifest() *Manifest {
	return &Manifest{index: map[string]int{}}
}

func (m *Manifest) Register(name string, loader Loader) error {
	if m == nil {
		return fmt.Errorf("discovery: manifest is nil")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("discovery: provider name is required")
	}
	if !ValidName(name) {
		return fmt.Errorf("discovery: provider name %q is invalid", name)
	}
	if loader == nil {
		return fmt.Errorf("discovery: loader for %q is required", name)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.index == nil {
		m.index = map[string]int{}
	}
	if _, exists := m.index[name]; exists {
		return fmt.Errorf("discovery: provider %q already registered", name)
	}
	m.index[name] = len(m.entries)
	m.entries = append(m.entries, entry{name: name, loader: loader})
	return nil
}

func (m *Manifest) MustRegister(name string, loader Loader) {
	if err := m.Register(name, loader); err != nil {
		panic(err)
	}
}

func (m *Manifest) Lookup(name string) (Loader, bool) {
	if m == nil {
		return nil, false
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	idx, ok := m.index[strings.TrimSpace(name)]
	if !ok {
		return nil, false
	}
	return m.entries[idx].loader, true
}

// Names returns the registered names in registration order.
func (m *Manifest) Names() []string {
	if m == nil {
		return []string{}
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, 0, len(m.entries))
	for _, item := range m.entries {
		names = append(names, item.name)
	}
	return names
}

func (m *Manifest) Len() int {
	if m == nil {
		return 0
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// Candidates starts a pass over a snapshot of the manifest. Registrations
// made after the pass starts are seen by the next pass.
func (m *Manifest) Candidates(ctx context.Context) core.CandidateIterator {
	if m == nil {
		return core.EmptyDiscovery.Candidates(ctx)
	}
	m.mu.RLock()
	snapshot := append([]entry(nil), m.entries...)
	m.mu.RUnlock()

	next := 0
	return core.CandidateIteratorFunc(func() (binding.Provider, error) {
		if next >= len(snapshot) {
			return nil, core.ErrNoMoreCandidates
		}
		item := snapshot[next]
		next++
		return Load(item.name, item.loader)
	})
}

// Load runs loader and classifies its failures: panics and nil providers are
// configuration errors; unclassified errors are missing dependencies.
func Load(name string, loader Loader) (provider binding.Provider, err error) {
	if loader == nil {
		return nil, &core.MissingDependencyError{Candidate: name, Dependency: name}
	}
	defer func() {
		if recovered := recover(); recovered != nil {
			provider = nil
			err = &core.ConfigurationError{
				Candidate: name,
				Reason:    fmt.Sprintf("loader panicked: %v", recovered),
			}
		}
	}()

	provider, err = loader()
	if err != nil {
		if core.ClassifyDiscoveryError(err) != core.FaultUnknown {
			return nil, err
		}
		return nil, &core.MissingDependencyError{Candidate: name, Dependency: name, Err: err}
	}
	if provider == nil {
		return nil, &core.ConfigurationError{Candidate: name, Reason: "loader returned no provider"}
	}
	return provider, nil
}
