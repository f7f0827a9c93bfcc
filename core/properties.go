package core

import (
	"os"
	"strings"
	"unicode"
)

// MapPropertySource serves properties from a fixed map.
type MapPropertySource map[string]string

func (m MapPropertySource) Property(key string) (string, bool) {
	if len(m) == 0 {
		return "", false
	}
	value, ok := m[key]
	return value, ok
}

// EnvPropertySource reads properties from the process environment. A key is
// looked up verbatim first, then in upper snake case
// (databinding.BindingContextFactory -> DATABINDING_BINDINGCONTEXTFACTORY).
type EnvPropertySource struct {
	Lookup func(key string) (string, bool)
}

func (s EnvPropertySource) Property(key string) (string, bool) {
	lookup := s.Lookup
	if lookup == nil {
		lookup = os.LookupEnv
	}
	if value, ok := lookup(key); ok {
		return value, true
	}
	if name := EnvKey(key); name != key {
		return lookup(name)
	}
	return "", false
}

// EnvKey converts a property key to its environment variable name.
func EnvKey(key string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(key) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToUpper(r))
			continue
		}
		b.WriteByte('_')
	}
	return b.String()
}

// ChainPropertySource consults each source in order; the first hit wins.
type ChainPropertySource []PropertySource

func (c ChainPropertySource) Property(key string) (string, bool) {
	for _, source := range c {
		if source == nil {
			continue
		}
		if value, ok := source.Property(key); ok {
			return value, true
		}
	}
	return "", false
}
