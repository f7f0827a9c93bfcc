package xmlbind

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/goliatone/go-databinding/binding"
)

type note struct {
	To   string `xml:"to"`
	Body string `xml:"body"`
}

type other struct {
	Value string `xml:"value"`
}

func TestProvider_Handles(t *testing.T) {
	provider := New()
	if !provider.Handles("XML") || !provider.Handles(" xml ") {
		t.Fatalf("expected mode to match case-insensitively")
	}
	if !provider.Handles(Namespace) {
		t.Fatalf("expected namespace %q to match", Namespace)
	}
	if provider.Handles("json") {
		t.Fatalf("expected json to be rejected")
	}
	if Namespace != "github.com/goliatone/go-databinding/providers/xmlbind" {
		t.Fatalf("unexpected namespace %q", Namespace)
	}
}

func TestContext_MarshalWithHeaderAndIndent(t *testing.T) {
	info := binding.NewInfo(note{})
	info.Properties = map[string]any{PropertyHeader: true, PropertyIndent: "  "}

	ctx, err := New().NewContext(info)
	if err != nil {
		t.Fatalf("new context: %v", err)
	}
	body, err := ctx.Marshal(&note{To: "ops", Body: "deploy"})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	text := string(body)
	if !strings.HasPrefix(text, "<?xml") {
		t.Fatalf("expected xml header, got %q", text)
	}
	if !strings.Contains(text, "\n  <to>ops</to>") {
		t.Fatalf("expected indented element, got %q", text)
	}

	var decoded note
	if err := ctx.Unmarshal(body, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded.To != "ops" || decoded.Body != "deploy" {
		t.Fatalf("unexpected decoded note %#v", decoded)
	}
}

func TestContext_RejectsUnboundTypes(t *testing.T) {
	ctx := NewContext(Schema{Types: []reflect.Type{reflect.TypeOf(note{})}})
	if _, err := ctx.Marshal(other{Value: "x"}); !errors.Is(err, binding.ErrTypeNotBound) {
		t.Fatalf("expected ErrTypeNotBound, got %v", err)
	}
	if err := ctx.Unmarshal([]byte("<other/>"), &other{}); !errors.Is(err, binding.ErrTypeNotBound) {
		t.Fatalf("expected ErrTypeNotBound on unmarshal, got %v", err)
	}
}

func TestProvider_NewContextFromSource(t *testing.T) {
	original := NewContext(Schema{Indent: "\t", Header: true})
	rebuilt, err := New().NewContextFromSource(original)
	if err != nil {
		t.Fatalf("from source: %v", err)
	}
	if schema := rebuilt.(*Context).Schema(); schema.Indent != "\t" || !schema.Header {
		t.Fatalf("expected schema to carry over, got %#v", schema)
	}
	if _, err := New().NewContextFromSource("not a context"); err == nil {
		t.Fatalf("expected unsupported source error")
	}
	if _, err := New().NewContext(nil); err == nil {
		t.Fatalf("expected nil info error")
	}
}
