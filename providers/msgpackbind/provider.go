package msgpackbind

import (
	"bytes"
	"fmt"
	"reflect"
	"strings"

	"github.com/goliatone/go-databinding/binding"
	"github.com/vmihailenco/msgpack/v5"
)

const (
	Name = "msgpackbind"
	Mode = "msgpack"

	// PropertyStructTag selects the struct tag used for field names, e.g.
	// "json" to reuse existing json tags.
	PropertyStructTag = "msgpackbind.struct_tag"
	// PropertyCompactInts stores integers in the smallest encoding when true.
	PropertyCompactInts = "msgpackbind.compact_ints"
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
	return strings.EqualFold(value, Mode) || value == Namespace
}

func (*Provider) NewContext(info *binding.Info) (binding.Context, error) {
	if info == nil {
		return nil, fmt.Errorf("msgpackbind: binding info is required")
	}
	return NewContext(Schema{
		Types:       info.Types,
		StructTag:   strings.TrimSpace(info.StringProperty(PropertyStructTag)),
		CompactInts: info.BoolProperty(PropertyCompactInts),
	}), nil
}

func (*Provider) NewContextFromSource(source any) (binding.Context, error) {
	switch typed := source.(type) {
	case *Context:
		if typed == nil {
			return nil, fmt.Errorf("msgpackbind: source context is nil")
		}
		return NewContext(typed.Schema()), nil
	case Schema:
		return NewContext(typed), nil
	default:
		return nil, fmt.Errorf("msgpackbind: unsupported source %T", source)
	}
}

type Schema struct {
	Types       []reflect.Type
	StructTag   string
	CompactInts bool
}

type Context struct {
	schema Schema
	types  binding.TypeSet
}

func NewContext(schema Schema) *Context {
	schema.Types = append([]reflect.Type(nil), schema.Types...)
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
	encoder := msgpack.NewEncoder(&buf)
	if c.schema.StructTag != "" {
		encoder.SetCustomStructTag(c.schema.StructTag)
	}
	encoder.UseCompactInts(c.schema.CompactInts)
	if err := encoder.Encode(v); err != nil {
		return nil, fmt.Errorf("msgpackbind: marshal %T: %w", v, err)
	}
	return buf.Bytes(), nil
}

func (c *Context) Unmarshal(data []byte, v any) error {
	if err := c.types.Check(v); err != nil {
		return err
	}
	decoder := msgpack.NewDecoder(bytes.NewReader(data))
	if c.schema.StructTag != "" {
		decoder.SetCustomStructTag(c.schema.StructTag)
	}
	if err := decoder.Decode(v); err != nil {
		return fmt.Errorf("msgpackbind: unmarshal %T: %w", v, err)
	}
	return nil
}

var (
	_ binding.Provider = (*Provider)(nil)
	_ binding.Context  = (*Context)(nil)
)
