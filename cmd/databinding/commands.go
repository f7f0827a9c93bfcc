package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	gocmd "github.com/goliatone/go-command"
	"github.com/goliatone/go-databinding/binding"
	databindingcommand "github.com/goliatone/go-databinding/command"
	databindingquery "github.com/goliatone/go-databinding/query"
	sqlstore "github.com/goliatone/go-databinding/store/sql"
	"github.com/spf13/cobra"
)

// withRuntime builds the runtime for cmd, runs fn and closes it.
func withRuntime(cmd *cobra.Command, opts *globalOptions, fn func(*runtime) error) (err error) {
	rt, err := buildRuntime(cmd.Context(), opts, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := rt.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()
	return fn(rt)
}

func newProvidersCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "providers",
		Short: "List discoverable providers in discovery order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withRuntime(cmd, opts, func(rt *runtime) error {
				descriptors, err := rt.facade.Queries().ListProviders.Query(cmd.Context(), databindingquery.ListProvidersMessage{})
				if err != nil {
					return err
				}
				return render(cmd.Context(), cmd.OutOrStdout(), rt.factory, opts.output, descriptors)
			})
		},
	}
}

func newInspectCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect",
		Short: "Run one discovery pass and report providers and skipped candidates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withRuntime(cmd, opts, func(rt *runtime) error {
				report := rt.factory.Inspect(cmd.Context())
				return render(cmd.Context(), cmd.OutOrStdout(), rt.factory, opts.output, report)
			})
		},
	}
}

func newResolveCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve",
		Short: "Show which mode a create call would use and where it came from",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withRuntime(cmd, opts, func(rt *runtime) error {
				resolution, err := rt.facade.Queries().ResolveMode.Query(cmd.Context(), databindingquery.ResolveModeMessage{})
				if err != nil {
					return err
				}
				return render(cmd.Context(), cmd.OutOrStdout(), rt.factory, opts.output, resolution)
			})
		},
	}
}

func newConvertCmd(opts *globalOptions) *cobra.Command {
	var from, to string

	cmd := &cobra.Command{
		Use:   "convert [file]",
		Short: "Decode a document with one binding mode and encode it with another",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := readInput(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}
			return withRuntime(cmd, opts, func(rt *runtime) error {
				decoder, err := createContext(cmd, rt, from)
				if err != nil {
					return err
				}
				var value any
				if err := decoder.Unmarshal(input, &value); err != nil {
					return err
				}
				return render(cmd.Context(), cmd.OutOrStdout(), rt.factory, to, value)
			})
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "input mode (empty resolves through --mode and properties)")
	cmd.Flags().StringVar(&to, "to", "json", "output mode")
	return cmd
}

func createContext(cmd *cobra.Command, rt *runtime, mode string) (binding.Context, error) {
	collector := gocmd.NewResult[binding.Context]()
	ctx := gocmd.ContextWithResult(cmd.Context(), collector)
	msg := databindingcommand.CreateContextMessage{Info: &binding.Info{Mode: strings.TrimSpace(mode)}}
	if err := rt.facade.Commands().CreateContext.Execute(ctx, msg); err != nil {
		return nil, err
	}
	built, ok := collector.Load()
	if !ok || built == nil {
		return nil, fmt.Errorf("no binding context produced")
	}
	return built, nil
}

func readInput(stdin io.Reader, args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		return io.ReadAll(stdin)
	}
	return os.ReadFile(args[0])
}

func newMigrateCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the provider manifest schema to --dsn",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(opts.dsn) == "" {
				return fmt.Errorf("--dsn is required")
			}
			return withRuntime(cmd, opts, func(*runtime) error {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), "provider manifest schema is up to date")
				return err
			})
		},
	}
}

func newManifestCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "manifest",
		Short: "Manage the persisted provider manifest",
		PersistentPreRunE: func(*cobra.Command, []string) error {
			if strings.TrimSpace(opts.dsn) == "" {
				return fmt.Errorf("--dsn is required for manifest commands")
			}
			return nil
		},
	}
	cmd.AddCommand(
		newManifestListCmd(opts),
		newManifestDeclareCmd(opts),
		newManifestToggleCmd(opts, "enable", true),
		newManifestToggleCmd(opts, "disable", false),
		newManifestDeleteCmd(opts),
	)
	return cmd
}

func newManifestListCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List persisted manifest entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withRuntime(cmd, opts, func(rt *runtime) error {
				entries, err := rt.facade.Queries().ListManifestEntries.Query(cmd.Context(), databindingquery.ListManifestEntriesMessage{})
				if err != nil {
					return err
				}
				return render(cmd.Context(), cmd.OutOrStdout(), rt.factory, opts.output, entries)
			})
		},
	}
}

func newManifestDeclareCmd(opts *globalOptions) *cobra.Command {
	var (
		loader   string
		position int
		disabled bool
	)

	cmd := &cobra.Command{
		Use:   "declare NAME",
		Short: "Create or replace a manifest entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(cmd, opts, func(rt *runtime) error {
				name := strings.TrimSpace(args[0])
				loaderName := strings.TrimSpace(loader)
				if loaderName == "" {
					loaderName = name
				}
				if _, ok := rt.loaders.Lookup(loaderName); !ok {
					return fmt.Errorf("unknown loader %q (known: %s)", loaderName, strings.Join(rt.loaders.Names(), ", "))
				}

				collector := gocmd.NewResult[sqlstore.ManifestEntry]()
				ctx := gocmd.ContextWithResult(cmd.Context(), collector)
				msg := databindingcommand.DeclareManifestEntryMessage{Input: sqlstore.DeclareInput{
					Name:     name,
					Loader:   loaderName,
					Position: position,
					Disabled: disabled,
				}}
				if err := rt.facade.Commands().DeclareManifestEntry.Execute(ctx, msg); err != nil {
					return err
				}
				entry, _ := collector.Load()
				return render(cmd.Context(), cmd.OutOrStdout(), rt.factory, opts.output, entry)
			})
		},
	}

	cmd.Flags().StringVar(&loader, "loader", "", "loader name (defaults to NAME)")
	cmd.Flags().IntVar(&position, "position", 0, "discovery position, lower first")
	cmd.Flags().BoolVar(&disabled, "disabled", false, "declare the entry disabled")
	return cmd
}

func newManifestToggleCmd(opts *globalOptions, use string, enabled bool) *cobra.Command {
	return &cobra.Command{
		Use:   use + " ID",
		Short: strings.ToUpper(use[:1]) + use[1:] + " a manifest entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(cmd, opts, func(rt *runtime) error {
				collector := gocmd.NewResult[sqlstore.ManifestEntry]()
				ctx := gocmd.ContextWithResult(cmd.Context(), collector)
				msg := databindingcommand.SetManifestEntryEnabledMessage{ID: args[0], Enabled: enabled}
				if err := rt.facade.Commands().SetManifestEntryEnabled.Execute(ctx, msg); err != nil {
					return err
				}
				entry, _ := collector.Load()
				return render(cmd.Context(), cmd.OutOrStdout(), rt.factory, opts.output, entry)
			})
		},
	}
}

func newManifestDeleteCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Remove a manifest entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(cmd, opts, func(rt *runtime) error {
				msg := databindingcommand.DeleteManifestEntryMessage{ID: args[0]}
				if err := rt.facade.Commands().DeleteManifestEntry.Execute(cmd.Context(), msg); err != nil {
					return err
				}
				_, err := fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
				return err
			})
		},
	}
}
