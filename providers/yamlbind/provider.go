package yamlbind

import (
	"bytes"
	"fmt"
	"reflect"
	"strings"

	"github.com/goliatone/go-databinding/binding"
	"gopkg.in/yaml.v3"
)

const (
	Name = "yamlbind"
	Mode = "yaml"

	PropertyIndent = "yamlbind.indent"
	// PropertyKnownFields rejects unknown mapping keys on Unmarshal when true.
	PropertyKnownFields = "yamlbind.known_fields"

	defaultIndent = 2
)

var Namespace = binding.Namespace(Provider{})

type Provider struct{}

func New() *Provider {
	return &Provider{}
}

func Loader() (binding.Provider, error) {
	return New(), nil
}

func (*Provider) Name() string { return Name }

func (*Provider) Handles(modeOrNamespace string) bool {
	value := strings.TrimSpace(modeOrNamespace)
	return strings.EqualFold(value, Mode) || strings.EqualFold(value, "yml") || value == Namespace
}

func (*Provider) NewContext(info *binding.Info) (binding.Context, error) {
	if info == nil {
		return nil, fmt.Errorf("yamlbind: binding info is required")
	}
	return NewContext(Schema{
		Types:       info.Types,
		Indent:      info.IntProperty(PropertyIndent),
		KnownFields: info.BoolProperty(PropertyKnownFields),
	}), nil
}

func (*Provider) NewContextFromSource(source any) (binding.Context, error) {
	switch typed := source.(type) {
	case *Context:
		if typed == nil {
			return nil, fmt.Errorf("yamlbind: source context is nil")
		}
		return NewContext(typed.Schema()), nil
	case Schema:
		return NewContext(typed), nil
	default:
		return nil, fmt.Errorf("yamlbind: unsupported source %T", source)
	}
}

type Schema struct {
	Types       []reflect.Type
	Indent      int
	KnownFields bool
}

type Context struct {
	schema Schema
	types  binding.TypeSet
}

func NewContext(schema Schema) *Context {
	schema.Types = append([]reflect.Type(nil), schema.Types...)
	if schema.Indent <= 0 {
		schema.Indent = defaultIndent
	}
	return &Context{schema: schema, types: binding.NewTypeSet(schema.Types)}
}

func (c *Context) Mode() string { return Mode }

func (c *Context) Schema() Schema {
	out := c.schema
	out.Types = append([]reflect.Type(nil), c.schema.Types...)
	return out
}

func (c *Context) Marshal(v any) ([]byte, error) {
	if err := c.types.Check(v); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(c.schema.Indent)
	if err := encoder.Encode(v); err != nil {
		return nil, fmt.Errorf("yamlbind: marshal %T: %w", v, err)
	}
	if err := encoder.Close(); err != nil {
		return nil, fmt.Errorf("yamlbind: marshal %T: %w", v, err)
	}
	return buf.Bytes(), nil
}

func (c *Context) Unmarshal(data []byte, v any) error {
	if err := c.types.Check(v); err != nil {
		return err
	}
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(c.schema.KnownFields)
	if err := decoder.Decode(v); err != nil {
		return fmt.Errorf("yamlbind: unmarshal %T: %w", v, err)
	}
	return nil
}

var (
	_ binding.Provider = (*Provider)(nil)
	_ binding.Context  = (*Context)(nil)
)
