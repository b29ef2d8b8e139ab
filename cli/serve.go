package cli

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ethtoolkit/ethtools/server"
)

var (
	flagKeystore string
	flagPassword string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the MCP server over stdio",
	Long:  "Runs ethtools as a Model Context Protocol server on stdin/stdout.\nWallet tools (sign_message, send_transaction) are registered only when a\nkeystore is loaded.",
	RunE: func(cmd *cobra.Command, args []string) error {
		s := server.NewServer(version, rpcURL(), logger)

		if flagKeystore != "" {
			if flagPassword == "" {
				logger.Error("password is required when loading a keystore")
				os.Exit(1)
			}

			keystoreDir := cfg.KeystoreDir
			if err := s.LoadKeystore(keystoreDir, flagKeystore, flagPassword); err != nil {
				return err
			}

			address, err := s.GetWalletAddress()
			if err != nil {
				return err
			}

			s.RegisterWalletTools()
			logger.Info("loaded keystore", "address", address)
		}

		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			<-sigChan
			logger.Info("received shutdown signal, exiting")
			os.Exit(0)
		}()

		logger.Info("starting ethtools MCP server", slog.String("version", version))
		return s.ServeStdio()
	},
}

func init() {
	serveCmd.Flags().StringVar(&flagKeystore, "keystore", "", "name of the keystore file to load")
	serveCmd.Flags().StringVar(&flagPassword, "password", "", "password for the keystore file")
	rootCmd.AddCommand(serveCmd)
}
