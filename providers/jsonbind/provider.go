package jsonbind

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"github.com/goliatone/go-databinding/binding"
	"github.com/santhosh-tekuri/jsonschema/v6"
)

const (
	Name = "jsonbind"
	Mode = "json"

	PropertyIndent = "jsonbind.indent"
	// PropertyStrict rejects unknown object fields on Unmarshal when true.
	PropertyStrict = "jsonbind.strict"

	schemaLocation = "https://databinding.local/jsonbind/schema.json"
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
		return nil, fmt.Errorf("jsonbind: binding info is required")
	}
	return NewContext(Schema{
		Types:    info.Types,
		Document: info.Schema,
		Indent:   info.StringProperty(PropertyIndent),
		Strict:   info.BoolProperty(PropertyStrict),
	})
}

func (*Provider) NewContextFromSource(source any) (binding.Context, error) {
	switch typed := source.(type) {
	case *Context:
		if typed == nil {
			return nil, fmt.Errorf("jsonbind: source context is nil")
		}
		return NewContext(typed.Schema())
	case Schema:
		return NewContext(typed)
	case *Schema:
		if typed == nil {
			return nil, fmt.Errorf("jsonbind: source schema is nil")
		}
		return NewContext(*typed)
	default:
		return nil, fmt.Errorf("jsonbind: unsupported source %T", source)
	}
}

// Schema describes the JSON documents a context reads and writes. Document
// is an optional JSON Schema every document is validated against.
type Schema struct {
	Types    []reflect.Type
	Document []byte
	Indent   string
	Strict   bool
}

type Context struct {
	schema    Schema
	types     binding.TypeSet
	validator *jsonschema.Schema
}

func NewContext(schema Schema) (*Context, error) {
	schema.Types = append([]reflect.Type(nil), schema.Types...)
	schema.Document = append([]byte(nil), schema.Document...)
	ctx := &Context{schema: schema, types: binding.NewTypeSet(schema.Types)}
	if len(bytes.TrimSpace(schema.Document)) == 0 {
		return ctx, nil
	}
	validator, err := compileSchema(schema.Document)
	if err != nil {
		return nil, err
	}
	ctx.validator = validator
	return ctx, nil
}

func compileSchema(document []byte) (*jsonschema.Schema, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(document))
	if err != nil {
		return nil, fmt.Errorf("jsonbind: parse schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(schemaLocation, doc); err != nil {
		return nil, fmt.Errorf("jsonbind: add schema: %w", err)
	}
	compiled, err := compiler.Compile(schemaLocation)
	if err != nil {
		return nil, fmt.Errorf("jsonbind: compile schema: %w", err)
	}
	return compiled, nil
}

func (c *Context) Mode() string { return Mode }

func (c *Context) Schema() Schema {
	out := c.schema
	out.Types = append([]reflect.Type(nil), c.schema.Types...)
	out.Document = append([]byte(nil), c.schema.Document...)
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
		body, err = json.MarshalIndent(v, "", c.schema.Indent)
	} else {
		body, err = json.Marshal(v)
	}
	if err != nil {
		return nil, fmt.Errorf("jsonbind: marshal %T: %w", v, err)
	}
	if err := c.validate(body); err != nil {
		return nil, err
	}
	return body, nil
}

func (c *Context) Unmarshal(data []byte, v any) error {
	if err := c.types.Check(v); err != nil {
		return err
	}
	if err := c.validate(data); err != nil {
		return err
	}
	decoder := json.NewDecoder(bytes.NewReader(data))
	if c.schema.Strict {
		decoder.DisallowUnknownFields()
	}
	if err := decoder.Decode(v); err != nil {
		return fmt.Errorf("jsonbind: unmarshal %T: %w", v, err)
	}
	return nil
}

func (c *Context) validate(document []byte) error {
	if c.validator == nil {
		return nil
	}
	instance, err := jsonschema.UnmarshalJSON(bytes.NewReader(document))
	if err != nil {
		return fmt.Errorf("jsonbind: parse document: %w", err)
	}
	if err := c.validator.Validate(instance); err != nil {
		return fmt.Errorf("jsonbind: schema validation: %w", err)
	}
	return nil
}

var (
	_ binding.Provider = (*Provider)(nil)
	_ binding.Context  = (*Context)(nil)
)
