package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	databinding "github.com/goliatone/go-databinding"
	"github.com/goliatone/go-databinding/binding"
	"github.com/goliatone/go-databinding/core"
	"github.com/goliatone/go-databinding/discovery"
	"github.com/goliatone/go-databinding/providers/jsonbind"
	"github.com/goliatone/go-databinding/providers/xmlbind"
	"github.com/goliatone/go-databinding/providers/yamlbind"
	sqlstore "github.com/goliatone/go-databinding/store/sql"
	"github.com/spf13/cobra"
)

type globalOptions struct {
	mode         string
	properties   []string
	servicesFile string
	dsn          string
	driver       string
	output       string
	debug        bool
}

// runtime is the factory stack one CLI invocation works against.
type runtime struct {
	factory *databinding.Factory
	facade  *databinding.Facade
	store   sqlstore.ManifestReadWriter
	loaders *discovery.Manifest
	close   func() error
}

func (r *runtime) Close() error {
	if r == nil || r.close == nil {
		return nil
	}
	return r.close()
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	cmd := &cobra.Command{
		Use:          "databinding",
		Short:        "Inspect and drive data-binding provider resolution",
		SilenceUsage: true,
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.mode, "mode", "", "binding mode to use instead of the configured one")
	flags.StringArrayVarP(&opts.properties, "property", "p", nil, "runtime property as key=value (repeatable)")
	flags.StringVar(&opts.servicesFile, "services-file", "", "provider declarations file, one name per line")
	flags.StringVar(&opts.dsn, "dsn", "", "database holding the persisted provider manifest")
	flags.StringVar(&opts.driver, "driver", driverSQLite, "manifest database driver (sqlite|postgres)")
	flags.StringVarP(&opts.output, "output", "o", jsonbind.Mode, "output mode for reports")
	flags.BoolVar(&opts.debug, "debug", false, "log discovery and resolution details to stderr")

	cmd.AddCommand(
		newProvidersCmd(opts),
		newInspectCmd(opts),
		newResolveCmd(opts),
		newConvertCmd(opts),
		newMigrateCmd(opts),
		newManifestCmd(opts),
	)
	return cmd
}

func parseProperties(values []string) (core.MapPropertySource, error) {
	props := core.MapPropertySource{}
	for _, raw := range values {
		key, value, ok := strings.Cut(raw, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid property %q: expected key=value", raw)
		}
		props[key] = strings.TrimSpace(value)
	}
	return props, nil
}

// buildRuntime wires discovery: the persisted manifest when a DSN is set,
// otherwise the built-in backends, followed by the services file and the
// global manifest.
func buildRuntime(ctx context.Context, opts *globalOptions, stderr io.Writer) (*runtime, error) {
	props, err := parseProperties(opts.properties)
	if err != nil {
		return nil, err
	}
	if mode := strings.TrimSpace(opts.mode); mode != "" {
		props[core.ModeProperty] = mode
	}

	rt := &runtime{loaders: databinding.BuiltinManifest()}
	sources := []core.DiscoverySource{}
	if strings.TrimSpace(opts.dsn) != "" {
		store, closeStore, err := openManifestStore(ctx, opts.driver, opts.dsn, opts.debug)
		if err != nil {
			return nil, err
		}
		rt.store = store
		rt.close = closeStore
		sources = append(sources, sqlstore.ManifestSource(store, rt.loaders))
	} else {
		sources = append(sources, rt.loaders)
	}
	if path := strings.TrimSpace(opts.servicesFile); path != "" {
		sources = append(sources, discovery.ServicesFile(path, rt.loaders))
	}
	sources = append(sources, discovery.Global())

	logger := newCLILogger(stderr, opts.debug)
	factory, err := databinding.NewFactory(databinding.Config{},
		databinding.WithDiscovery(discovery.Chain(sources...)),
		databinding.WithPropertySource(core.ChainPropertySource{props, core.EnvPropertySource{}}),
		databinding.WithLogger(logger),
	)
	if err != nil {
		_ = rt.Close()
		return nil, err
	}
	rt.factory = factory

	facadeOpts := []databinding.FacadeOption{}
	if rt.store != nil {
		facadeOpts = append(facadeOpts, databinding.WithManifestStore(rt.store))
	}
	facade, err := databinding.NewFacade(factory, facadeOpts...)
	if err != nil {
		_ = rt.Close()
		return nil, err
	}
	rt.facade = facade
	return rt, nil
}

// render marshals v through a context built by the factory for the output
// mode.
func render(ctx context.Context, w io.Writer, factory *databinding.Factory, output string, v any) error {
	info := &binding.Info{
		Mode: strings.TrimSpace(output),
		Properties: map[string]any{
			jsonbind.PropertyIndent: "  ",
			xmlbind.PropertyIndent:  "  ",
			yamlbind.PropertyIndent: 2,
		},
	}
	bindingCtx, err := factory.Create(ctx, info)
	if err != nil {
		return err
	}
	body, err := bindingCtx.Marshal(v)
	if err != nil {
		return err
	}
	if len(body) > 0 && body[len(body)-1] != '\n' {
		body = append(body, '\n')
	}
	_, err = w.Write(body)
	return err
}
