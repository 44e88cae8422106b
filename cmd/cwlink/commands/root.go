package commands

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/haivivi/cwlink/pkg/cli"
)

const appName = "cwlink"

const usage = "Usage: cwlink PORT HOST(optional)"

var (
	cfgFile      string
	contextName  string
	verbose      bool
	globalConfig *cli.Config

	// loadedFrom is the --config value globalConfig was loaded with.
	loadedFrom string
)

// rootCmd runs a station when called without a subcommand.
var rootCmd = &cobra.Command{
	Use:   "cwlink PORT [HOST]",
	Short: "CW keyer and audio intercom over TCP",
	Long: `cwlink links two stations over a direct TCP connection.

Without HOST it listens on PORT and waits for the other station; with HOST
it connects to HOST:PORT. Hold T to talk, use Space as a straight key, or
V and B as iambic dit and dah paddles. Up/Down change the speed and
Left/Right the tone frequency.

Configuration is stored in ~/.giztoy/cwlink/ and supports multiple contexts
(station profiles). Command-line flags override the context.`,
	Args:          cobra.ArbitraryArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runLink,
}

// Command returns the root cobra command.
func Command() *cobra.Command {
	return rootCmd
}

// Execute runs the root command and prints any error to stderr.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		cli.PrintError("%v", err)
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.giztoy/cwlink/config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&contextName, "context", "c", "", "context to use (default is current context)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	addRunFlags(rootCmd)

	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(devicesCmd)
}

// getConfig loads the configuration on first use.
func getConfig() (*cli.Config, error) {
	if globalConfig != nil && loadedFrom == cfgFile {
		return globalConfig, nil
	}
	cfg, err := cli.LoadConfigWithPath(appName, cfgFile)
	if err != nil {
		return nil, fmt.Errorf("%s config: %w", appName, err)
	}
	globalConfig, loadedFrom = cfg, cfgFile
	return cfg, nil
}

// getContext returns the context to use, resolving from flag or current context.
func getContext() (*cli.Context, error) {
	cfg, err := getConfig()
	if err != nil {
		return nil, err
	}
	return cfg.ResolveContext(contextName)
}

// parseArgs validates PORT [HOST]. It reports false when the arguments do
// not form a valid invocation.
func parseArgs(args []string) (port int, host string, ok bool) {
	if len(args) < 1 || len(args) > 2 {
		return 0, "", false
	}
	port, err := strconv.Atoi(args[0])
	if err != nil || port < 0 || port > 65535 {
		return 0, "", false
	}
	if len(args) == 2 {
		host = args[1]
	}
	return port, host, true
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, usage)
}
