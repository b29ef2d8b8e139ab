package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/ethereum/go-ethereum/common"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ethtoolkit/ethtools/chain"
	"github.com/ethtoolkit/ethtools/monitor"
)

var waitCmd = &cobra.Command{
	Use:   "wait HASH",
	Short: "Wait until a transaction is confirmed, reverted, replaced, or times out",
	Long: "Polls the chain until the transaction reaches the requested number of\n" +
		"confirmations or a terminal outcome. Progress prints to stderr; the final\n" +
		"outcome prints as JSON on stdout. Exits non-zero only when the wait times\n" +
		"out, so scripts can branch on reachability of a terminal verdict.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := chain.ValidateTxHash("hash", args[0]); err != nil {
			return err
		}

		req := monitor.Request{TxHash: common.HexToHash(args[0])}
		req.Confirmations, _ = cmd.Flags().GetUint64("confirmations")
		req.PollInterval, _ = cmd.Flags().GetDuration("poll-interval")
		req.Timeout, _ = cmd.Flags().GetDuration("timeout")

		// Flags left at their defaults fall back to the config file.
		if err := applyWaitConfig(cmd, &req); err != nil {
			return err
		}

		client, err := dialClient()
		if err != nil {
			return err
		}
		defer client.Close()

		reader, err := monitor.NewEthReader(cmd.Context(), client)
		if err != nil {
			return err
		}

		progress := color.New(color.FgCyan)
		m := monitor.New(reader,
			monitor.WithLogger(logger),
			monitor.WithReporter(monitor.ReporterFunc(func(_ context.Context, message string) error {
				_, err := progress.Fprintln(os.Stderr, message)
				return err
			})),
		)

		outcome, err := m.Wait(cmd.Context(), req)
		if err != nil {
			return err
		}
		if err := printJSON(outcome); err != nil {
			return err
		}
		if outcome.Status == monitor.StatusTimedOut {
			os.Exit(1)
		}
		return nil
	},
}

func applyWaitConfig(cmd *cobra.Command, req *monitor.Request) error {
	if !cmd.Flags().Changed("confirmations") && cfg.Confirmations > 0 {
		req.Confirmations = cfg.Confirmations
	}
	if !cmd.Flags().Changed("poll-interval") {
		d, err := cfg.PollIntervalDuration()
		if err != nil {
			return err
		}
		if d > 0 {
			req.PollInterval = d
		}
	}
	if !cmd.Flags().Changed("timeout") {
		d, err := cfg.TimeoutDuration()
		if err != nil {
			return err
		}
		if d > 0 {
			req.Timeout = d
		}
	}
	if req.Timeout > 0 && req.PollInterval > req.Timeout {
		return fmt.Errorf("poll interval %s exceeds timeout %s", req.PollInterval, req.Timeout)
	}
	return nil
}

func init() {
	waitCmd.Flags().Uint64("confirmations", monitor.DefaultConfirmations, "number of confirmations to wait for")
	waitCmd.Flags().Duration("poll-interval", monitor.DefaultPollInterval, "time between polls")
	waitCmd.Flags().Duration("timeout", monitor.DefaultTimeout, "maximum time to wait before giving up")
	rootCmd.AddCommand(waitCmd)
}
