package commands

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/haivivi/cwlink/pkg/cli"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long: `Manage cwlink configuration.

Configuration is stored in ~/.giztoy/cwlink/config.yaml`,
}

// contextCmd represents the context subcommand
var contextCmd = &cobra.Command{
	Use:   "context",
	Short: "Manage contexts",
	Long:  `Manage cwlink contexts (station profiles).`,
}

// contextListCmd lists all contexts
var contextListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all contexts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := getConfig()
		if err != nil {
			return err
		}
		return listContexts(cmd.OutOrStdout(), cfg)
	},
}

// contextUseCmd switches the current context
var contextUseCmd = &cobra.Command{
	Use:   "use <name>",
	Short: "Switch to a context",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := getConfig()
		if err != nil {
			return err
		}
		if err := cfg.UseContext(args[0]); err != nil {
			return err
		}
		cli.PrintSuccess("Switched to context %q", args[0])
		return nil
	},
}

// contextSetCmd creates or updates a context
var contextSetCmd = &cobra.Command{
	Use:   "set <name> [key=value...]",
	Short: "Create or update a context",
	Long: `Create or update a context with the given settings.

Keys: ` + strings.Join(cli.ContextKeys, ", ") + `

Examples:
  # Create a context for the shack station
  cwlink config context set shack speed=20 frequency=700

  # Run headless with the terminal console
  cwlink config context set travel console=terminal audio=portaudio

  # Record every session
  cwlink config context set shack record=auto`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := getConfig()
		if err != nil {
			return err
		}
		name := args[0]

		// Get existing context or create new one
		ctx, err := cfg.GetContext(name)
		if err != nil {
			ctx = &cli.Context{Name: name}
		}
		if err := applySettings(ctx, args[1:]); err != nil {
			return err
		}
		if err := cfg.AddContext(name, ctx); err != nil {
			return err
		}
		if cfg.CurrentContext == "" {
			if err := cfg.UseContext(name); err != nil {
				return err
			}
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Context %q saved\n", name)
		return nil
	},
}

// contextDeleteCmd removes a context
var contextDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a context",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := getConfig()
		if err != nil {
			return err
		}
		if err := cfg.DeleteContext(args[0]); err != nil {
			return err
		}
		cli.PrintSuccess("Deleted context %q", args[0])
		return nil
	},
}

func init() {
	contextCmd.AddCommand(contextListCmd)
	contextCmd.AddCommand(contextUseCmd)
	contextCmd.AddCommand(contextSetCmd)
	contextCmd.AddCommand(contextDeleteCmd)
	configCmd.AddCommand(contextCmd)
}

// applySettings applies key=value pairs to ctx.
func applySettings(ctx *cli.Context, pairs []string) error {
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return fmt.Errorf("invalid setting %q, want key=value", pair)
		}
		if err := ctx.Set(key, value); err != nil {
			return err
		}
	}
	return nil
}

func listContexts(w io.Writer, cfg *cli.Config) error {
	names := cfg.ListContexts()
	if len(names) == 0 {
		fmt.Fprintf(w, "No contexts configured in %s.\n", cfg.Path())
		fmt.Fprintln(w, "\nCreate one with:")
		fmt.Fprintln(w, "  cwlink config context set shack speed=20 frequency=700")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "CURRENT\tNAME\tSPEED\tFREQ\tCONSOLE\tAUDIO")
	for _, name := range names {
		ctx, _ := cfg.GetContext(name)
		o, err := resolveRunOptions(ctx, nil)
		if err != nil {
			return fmt.Errorf("context %q: %w", name, err)
		}
		current := ""
		if name == cfg.CurrentContext {
			current = "*"
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%s\t%s\n", current, name, o.Speed, o.Frequency, o.Console, o.Audio)
	}
	return tw.Flush()
}
