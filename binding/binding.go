package binding

import (
	"reflect"
	"strings"
)

// Provider is one pluggable binding backend. Providers are discovered at
// runtime and asked, in order, whether they handle a given mode or
// implementation namespace.
type Provider interface {
	// Handles reports whether the provider serves the given mode name or
	// implementation namespace (the import path of the backend package).
	Handles(modeOrNamespace string) bool
	// NewContext builds a context from structured binding info.
	NewContext(info *Info) (Context, error)
	// NewContextFromSource builds a context matching an artifact that was
	// already produced by this backend.
	NewContextFromSource(source any) (Context, error)
}

// Named is implemented by providers that expose a stable display name.
type Named interface {
	Name() string
}

// Context marshals and unmarshals typed values for one backend.
type Context interface {
	Mode() string
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
}

// Info carries the construction parameters for a binding context. Mode is
// optional and may be written back during resolution.
type Info struct {
	Mode       string
	Types      []reflect.Type
	Schema     []byte
	Properties map[string]any
}

// NewInfo returns binding info bound to the dynamic types of the samples.
func NewInfo(samples ...any) *Info {
	info := &Info{}
	for _, sample := range samples {
		if sample == nil {
			continue
		}
		info.Types = append(info.Types, reflect.TypeOf(sample))
	}
	return info
}

func (i *Info) SetMode(mode string) {
	if i == nil {
		return
	}
	i.Mode = strings.TrimSpace(mode)
}

func (i *Info) Property(key string) (any, bool) {
	if i == nil || len(i.Properties) == 0 {
		return nil, false
	}
	value, ok := i.Properties[key]
	return value, ok
}

func (i *Info) StringProperty(key string) string {
	value, ok := i.Property(key)
	if !ok {
		return ""
	}
	text, _ := value.(string)
	return text
}

func (i *Info) IntProperty(key string) int {
	value, ok := i.Property(key)
	if !ok {
		return 0
	}
	switch typed := value.(type) {
	case int:
		return typed
	case int64:
		return int(typed)
	case float64:
		return int(typed)
	default:
		return 0
	}
}

func (i *Info) BoolProperty(key string) bool {
	value, ok := i.Property(key)
	if !ok {
		return false
	}
	flag, _ := value.(bool)
	return flag
}

// Clone returns a copy that does not share slices or maps with i.
func (i *Info) Clone() *Info {
	if i == nil {
		return nil
	}
	out := &Info{Mode: i.Mode}
	if len(i.Types) > 0 {
		out.Types = append([]reflect.Type(nil), i.Types...)
	}
	if len(i.Schema) > 0 {
		out.Schema = append([]byte(nil), i.Schema...)
	}
	if len(i.Properties) > 0 {
		out.Properties = make(map[string]any, len(i.Properties))
		for key, value := range i.Properties {
			out.Properties[key] = value
		}
	}
	return out
}

// Namespace returns the implementation namespace of v: the import path of
// the package declaring its dynamic type, with pointers dereferenced.
// Unnamed and predeclared types have no namespace.
func Namespace(v any) string {
	if v == nil {
		return ""
	}
	typ := reflect.TypeOf(v)
	for typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}
	return typ.PkgPath()
}

// ProviderName returns the display name of a provider, falling back to its
// Go type.
func ProviderName(provider Provider) string {
	if provider == nil {
		return ""
	}
	if named, ok := provider.(Named); ok {
		if name := strings.TrimSpace(named.Name()); name != "" {
			return name
		}
	}
	return reflect.TypeOf(provider).String()
}
