// Package cli implements the ethtools command-line surface. Every MCP tool is
// also reachable as a subcommand; results print as indented JSON on stdout.
package cli

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/spf13/cobra"

	"github.com/ethtoolkit/ethtools/chain"
	"github.com/ethtoolkit/ethtools/config"
)

const version = "1.0.0"

var (
	flagRPCURL  string
	flagConfig  string
	flagVerbose bool

	cfg    *config.Config
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:           "ethtools",
	Short:         "Ethereum interaction toolkit, as MCP tools and CLI subcommands",
	Long:          "ethtools wraps Ethereum JSON-RPC operations behind schema-validated tools,\nexposed both as an MCP server for AI assistants (ethtools serve) and as\nplain CLI subcommands.",
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: false,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(flagConfig)
		if err != nil {
			return err
		}

		level := slog.LevelWarn
		if flagVerbose {
			level = slog.LevelDebug
		}
		// stdout carries results (and the MCP stream under serve); logs go
		// to stderr.
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "ethtools version %s\n", version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagRPCURL, "rpc-url", "", "JSON-RPC endpoint URL (overrides config file and ETHTOOLS_RPC_URL)")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "path to config file (default ~/.ethtools/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// rpcURL resolves the endpoint for this invocation: flag, then env/config.
func rpcURL() string {
	if flagRPCURL != "" {
		return flagRPCURL
	}
	return cfg.RPCURL
}

// dialClient connects to the resolved RPC endpoint.
func dialClient() (*ethclient.Client, error) {
	return chain.Dial(rpcURL())
}

// printJSON renders a result as indented JSON on stdout.
func printJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("error serializing result: %w", err)
	}
	fmt.Println(string(data))
	return nil
}
