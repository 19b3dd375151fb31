package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/dmarsters/slapstick-enhancer/am"
	"github.com/dmarsters/slapstick-enhancer/display"
	"github.com/dmarsters/slapstick-enhancer/errors"
	"github.com/dmarsters/slapstick-enhancer/sym"
)

func newAmCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "am",
		Short: sym.AM + " Manage slapstick configuration",
		Long: sym.AM + ` am - manage slapstick configuration ("I am")

Configuration sources, later overriding earlier:
  1. Built-in defaults
  2. System config (/etc/slapstick/am.toml)
  3. User config (~/.slapstick/am.toml)
  4. Project config (nearest am.toml from the working directory upward)
  5. SLAPSTICK_* environment variables (server.http_addr -> SLAPSTICK_SERVER_HTTP_ADDR)
  6. Command line flags

Examples:
  slapstick am show --format yaml
  slapstick am get scoring.coherence_threshold
  slapstick am set catalog.paths ./catalogs,./more
  slapstick am where`,
	}
	cmd.AddCommand(
		newAmShowCmd(),
		newAmGetCmd(),
		newAmSetCmd(),
		newAmValidateCmd(),
		newAmWhereCmd(),
	)
	return cmd
}

func newAmShowCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := am.Settings()
			if err != nil {
				return errors.Wrap(err, "failed to load config")
			}
			if display.ShouldOutputJSON(cmd) {
				format = am.FormatJSON
			}
			data, err := am.Render(settings, format)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", am.FormatTOML, "Output format: toml, json, yaml")
	return cmd
}

func newAmGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Print one configuration value",
		Long:  "Print one configuration value using dot notation (e.g. server.transport, catalog.paths)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := am.Get(args[0])
			if err != nil {
				return err
			}
			return emit(cmd, map[string]interface{}{args[0]: value}, func(w io.Writer) error {
				_, err := fmt.Fprintln(w, value)
				return err
			})
		},
	}
}

func newAmSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Write a value to the user config file",
		Long: `Writes key = value into ~/.slapstick/am.toml, keeping three rotated
backups of the previous file. The value is parsed by the key's type; lists
are comma separated.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := am.Set(args[0], args[1])
			if err != nil {
				return err
			}
			display.Success(cmd.OutOrStdout(), "%s written to %s", args[0], path)
			return nil
		},
	}
}

func newAmValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := am.Load()
			if err != nil {
				return errors.Wrap(err, "failed to load config")
			}
			if err := cfg.Validate(); err != nil {
				return errors.Wrap(err, "configuration validation failed")
			}
			display.Success(cmd.OutOrStdout(), "Configuration is valid")
			return nil
		},
	}
}

func newAmWhereCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "where",
		Short: "Show which file or variable sets each value",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			intro, err := am.GetConfigIntrospection()
			if err != nil {
				return err
			}
			return emit(cmd, intro, func(w io.Writer) error {
				return printIntrospection(w, intro)
			})
		},
	}
}

func printIntrospection(w io.Writer, intro *am.ConfigIntrospection) error {
	display.Section(w, "Configuration files (later overrides earlier)")
	files := make([][]string, 0, len(intro.Files))
	for _, f := range intro.Files {
		state := "missing"
		if f.Exists {
			state = "loaded"
		}
		files = append(files, []string{string(f.Source), f.Path, state})
	}
	if err := display.Table(w, []string{"SOURCE", "PATH", "STATE"}, files); err != nil {
		return err
	}

	display.Section(w, "Settings")
	rows := make([][]string, 0, len(intro.Settings))
	for _, s := range intro.Settings {
		origin := string(s.Source)
		if s.SourcePath != "" && s.Source != am.SourceDefault {
			origin += " (" + s.SourcePath + ")"
		}
		rows = append(rows, []string{s.Key, fmt.Sprint(s.Value), origin})
	}
	return display.Table(w, []string{"KEY", "VALUE", "SOURCE"}, rows)
}
