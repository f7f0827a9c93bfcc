package xmlbind

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"reflect"
	"strings"

	"github.com/goliatone/go-databinding/binding"
)

const (
	Name = "xmlbind"
	Mode = "xml"

	// PropertyIndent sets the per-level indent used by Marshal.
	PropertyIndent = "xmlbind.indent"
	// PropertyHeader prepends xml.Header to marshalled documents when true.
	PropertyHeader = "xmlbind.header"
)

var Namespace = binding.Namespace(Provider{})

type Provider struct{}

func New() *Provider {
	return &Provider{}
}

// Loader adapts New to the discovery loader signature.
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
		return nil, fmt.Errorf("xmlbind: binding info is required")
	}
	return NewContext(Schema{
		Types:  info.Types,
		Indent: info.StringProperty(PropertyIndent),
		Header: info.BoolProperty(PropertyHeader),
	}), nil
}

func (*Provider) NewContextFromSource(source any) (binding.Context, error) {
	switch typed := source.(type) {
	case *Context:
		if typed == nil {
			return nil, fmt.Errorf("xmlbind: source context is nil")
		}
		return NewContext(typed.Schema()), nil
	case Schema:
		return NewContext(typed), nil
	case *Schema:
		if typed == nil {
			return nil, fmt.Errorf("xmlbind: source schema is nil")
		}
		return NewContext(*typed), nil
	default:
		return nil, fmt.Errorf("xmlbind: unsupported source %T", source)
	}
}

// Schema describes the XML documents a context reads and writes.
type Schema struct {
	Types  []reflect.Type
	Indent string
	Header bool
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
	var (
		body []byte
		err  error
	)
	if c.schema.Indent != "" {
		body, err = xml.MarshalIndent(v, "", c.schema.Indent)
	} else {
		body, err = xml.Marshal(v)
	}
	if err != nil {
		return nil, fmt.Errorf("xmlbind: marshal %T: %w", v, err)
	}
	if !c.schema.Header {
		return body, nil
	}
	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	buf.Write(body)
	return buf.Bytes(), nil
}

func (c *Context) Unmarshal(data []byte, v any) error {
	if err := c.types.Check(v); err != nil {
		return err
	}
	if err := xml.Unmarshal(data, v); err != nil {
		return fmt.Errorf("xmlbind: unmarshal %T: %w", v, err)
	}
	return nil
}

var (
	_ binding.Provider = (*Provider)(nil)
	_ binding.Context  = (*Context)(nil)
)
