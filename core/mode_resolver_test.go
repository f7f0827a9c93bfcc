package core

import (
	"context"
	"testing"

	"github.com/goliatone/go-databinding/binding"
)

func TestModeResolver_Precedence(t *testing.T) {
	ctx := context.Background()
	cases := []struct {
		name       string
		info       *binding.Info
		props      MapPropertySource
		wantMode   string
		wantSource ModeSource
		wantInfo   string
	}{
		{
			name:       "explicit wins over properties",
			info:       &binding.Info{Mode: "json"},
			props:      MapPropertySource{LegacyModeProperty: "xml", ModeProperty: "yaml"},
			wantMode:   "json",
			wantSource: SourceExplicit,
			wantInfo:   "json",
		},
		{
			name:       "legacy wins over namespaced",
			info:       &binding.Info{},
			props:      MapPropertySource{LegacyModeProperty: "xml", ModeProperty: "yaml"},
			wantMode:   "xml",
			wantSource: SourceLegacyProperty,
			wantInfo:   "xml",
		},
		{
			name:       "namespaced property",
			info:       &binding.Info{},
			props:      MapPropertySource{ModeProperty: "yaml"},
			wantMode:   "yaml",
			wantSource: SourceProperty,
			wantInfo:   "yaml",
		},
		{
			name:       "blank values fall through",
			info:       &binding.Info{Mode: "  "},
			props:      MapPropertySource{LegacyModeProperty: " ", ModeProperty: "msgpack"},
			wantMode:   "msgpack",
			wantSource: SourceProperty,
			wantInfo:   "msgpack",
		},
		{
			name:       "autodetect",
			info:       &binding.Info{},
			props:      MapPropertySource{},
			wantSource: SourceAutodetect,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resolution := NewModeResolver(tc.props, nil).Resolve(ctx, tc.info)
			if resolution.Mode != tc.wantMode || resolution.Source != tc.wantSource {
				t.Fatalf("expected %q/%q, got %#v", tc.wantMode, tc.wantSource, resolution)
			}
			if resolution.Autodetect() != (tc.wantSource == SourceAutodetect) {
				t.Fatalf("unexpected autodetect flag for %#v", resolution)
			}
			if tc.wantInfo != "" && tc.info.Mode != tc.wantInfo {
				t.Fatalf("expected info mode %q, got %q", tc.wantInfo, tc.info.Mode)
			}
		})
	}
}

func TestModeResolver_NilInfo(t *testing.T) {
	resolver := NewModeResolver(MapPropertySource{ModeProperty: "json"}, nil)
	resolution := resolver.Resolve(context.Background(), nil)
	if resolution.Mode != "json" || resolution.Source != SourceProperty {
		t.Fatalf("expected property resolution for nil info, got %#v", resolution)
	}
}

func TestEnvPropertySource(t *testing.T) {
	env := map[string]string{
		"DATABINDING_BINDINGCONTEXTFACTORY": "yaml",
		"BindingContextFactory":             "xml",
	}
	source := EnvPropertySource{Lookup: func(key string) (string, bool) {
		value, ok := env[key]
		return value, ok
	}}

	if value, ok := source.Property(ModeProperty); !ok || value != "yaml" {
		t.Fatalf("expected upper snake fallback, got %q %v", value, ok)
	}
	if value, ok := source.Property(LegacyModeProperty); !ok || value != "xml" {
		t.Fatalf("expected verbatim key, got %q %v", value, ok)
	}
	if _, ok := source.Property("missing.key"); ok {
		t.Fatalf("expected missing key")
	}
	if got := EnvKey("databinding.BindingContextFactory"); got != "DATABINDING_BINDINGCONTEXTFACTORY" {
		t.Fatalf("unexpected env key %q", got)
	}
}

func TestChainPropertySource_FirstHitWins(t *testing.T) {
	chain := ChainPropertySource{
		nil,
		MapPropertySource{ModeProperty: "json"},
		MapPropertySource{ModeProperty: "xml", LegacyModeProperty: "yaml"},
	}
	if value, _ := chain.Property(ModeProperty); value != "json" {
		t.Fatalf("expected first source to win, got %q", value)
	}
	if value, _ := chain.Property(LegacyModeProperty); value != "yaml" {
		t.Fatalf("expected later source to serve missing keys, got %q", value)
	}
}
