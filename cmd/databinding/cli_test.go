package main

import (
	"bytes"
	"encoding/json"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goliatone/go-databinding/core"
)

func isolateEnv(t *testing.T) {
	t.Helper()
	t.Setenv(core.LegacyModeProperty, "")
	t.Setenv(core.EnvKey(core.ModeProperty), "")
}

func runCLI(t *testing.T, stdin io.Reader, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	if stdin != nil {
		cmd.SetIn(stdin)
	}
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), err
}

func TestParseProperties(t *testing.T) {
	props, err := parseProperties([]string{"a=1", " databinding.BindingContextFactory = yaml "})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if props["a"] != "1" || props[core.ModeProperty] != "yaml" {
		t.Fatalf("unexpected properties %#v", props)
	}
	for _, bad := range []string{"novalue", "=x"} {
		if _, err := parseProperties([]string{bad}); err == nil {
			t.Fatalf("expected %q to be rejected", bad)
		}
	}
}

func TestProvidersCommand_ListsBuiltins(t *testing.T) {
	isolateEnv(t)
	out, err := runCLI(t, nil, "providers")
	if err != nil {
		t.Fatalf("providers: %v", err)
	}
	var descriptors []core.ProviderDescriptor
	if err := json.Unmarshal([]byte(out), &descriptors); err != nil {
		t.Fatalf("decode output %q: %v", out, err)
	}
	if len(descriptors) != 4 || descriptors[0].Name != "xmlbind" {
		t.Fatalf("unexpected descriptors %#v", descriptors)
	}
}

func TestResolveCommand_ModeFlag(t *testing.T) {
	isolateEnv(t)
	out, err := runCLI(t, nil, "--mode", "yaml", "resolve")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	var resolution core.ModeResolution
	if err := json.Unmarshal([]byte(out), &resolution); err != nil {
		t.Fatalf("decode output %q: %v", out, err)
	}
	if resolution.Mode != "yaml" || resolution.Source != core.SourceProperty {
		t.Fatalf("unexpected resolution %#v", resolution)
	}
}

func TestConvertCommand_JSONToYAML(t *testing.T) {
	isolateEnv(t)
	out, err := runCLI(t, strings.NewReader(`{"name":"api","port":8080}`), "convert", "--from", "json", "--to", "yaml")
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	if !strings.Contains(out, "name: api") || !strings.Contains(out, "port: 8080") {
		t.Fatalf("unexpected yaml output %q", out)
	}

	if _, err := runCLI(t, strings.NewReader(`{}`), "convert", "--from", "protobuf"); err == nil {
		t.Fatalf("expected unknown mode to fail")
	}
}

func TestManifestCommands_PersistedDiscovery(t *testing.T) {
	isolateEnv(t)
	dsn := filepath.Join(t.TempDir(), "manifest.db")

	if _, err := runCLI(t, nil, "--dsn", dsn, "manifest", "declare", "jsonbind"); err != nil {
		t.Fatalf("declare: %v", err)
	}
	if _, err := runCLI(t, nil, "--dsn", dsn, "manifest", "declare", "custom", "--loader", "missing"); err == nil {
		t.Fatalf("expected unknown loader to be rejected")
	}

	out, err := runCLI(t, nil, "--dsn", dsn, "providers")
	if err != nil {
		t.Fatalf("providers: %v", err)
	}
	var descriptors []core.ProviderDescriptor
	if err := json.Unmarshal([]byte(out), &descriptors); err != nil {
		t.Fatalf("decode output %q: %v", out, err)
	}
	if len(descriptors) != 1 || descriptors[0].Name != "jsonbind" {
		t.Fatalf("expected only the persisted provider, got %#v", descriptors)
	}

	if _, err := runCLI(t, nil, "manifest", "list"); err == nil {
		t.Fatalf("expected manifest commands to require --dsn")
	}
}
