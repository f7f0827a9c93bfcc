package msgpackbind

import (
	"errors"
	"reflect"
	"testing"

	"github.com/goliatone/go-databinding/binding"
	"github.com/vmihailenco/msgpack/v5"
)

type event struct {
	Kind  string `json:"kind"`
	Count int64  `json:"count"`
}

func TestContext_CustomStructTag(t *testing.T) {
	info := binding.NewInfo(event{})
	info.Properties = map[string]any{PropertyStructTag: "json", PropertyCompactInts: true}
	ctx, err := New().NewContext(info)
	if err != nil {
		t.Fatalf("new context: %v", err)
	}

	body, err := ctx.Marshal(&event{Kind: "created", Count: 3})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	raw := map[string]any{}
	if err := msgpack.Unmarshal(body, &raw); err != nil {
		t.Fatalf("decode raw: %v", err)
	}
	if raw["kind"] != "created" {
		t.Fatalf("expected json tag names on the wire, got %#v", raw)
	}

	var decoded event
	if err := ctx.Unmarshal(body, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded.Kind != "created" || decoded.Count != 3 {
		t.Fatalf("unexpected decoded event %#v", decoded)
	}
}

func TestContext_TypeSetAndSource(t *testing.T) {
	ctx := NewContext(Schema{Types: []reflect.Type{reflect.TypeOf(event{})}})
	if _, err := ctx.Marshal("plain string"); !errors.Is(err, binding.ErrTypeNotBound) {
		t.Fatalf("expected ErrTypeNotBound, got %v", err)
	}

	rebuilt, err := New().NewContextFromSource(ctx)
	if err != nil {
		t.Fatalf("from source: %v", err)
	}
	if rebuilt.Mode() != Mode {
		t.Fatalf("unexpected mode %q", rebuilt.Mode())
	}
	if _, err := New().NewContextFromSource(42); err == nil {
		t.Fatalf("expected unsupported source error")
	}
	if !New().Handles(Namespace) || New().Handles("yaml") {
		t.Fatalf("unexpected Handles results")
	}
}
