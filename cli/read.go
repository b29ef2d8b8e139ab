package cli

import (
	"github.com/spf13/cobra"

	"github.com/ethtoolkit/ethtools/chain"
)

var balanceCmd = &cobra.Command{
	Use:   "balance ADDRESS",
	Short: "Get the native token balance of an address in wei",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := dialClient()
		if err != nil {
			return err
		}
		defer client.Close()

		block, _ := cmd.Flags().GetString("block")
		result, err := chain.Balance(cmd.Context(), client, args[0], block)
		if err != nil {
			return err
		}
		return printJSON(result)
	},
}

var erc20BalanceCmd = &cobra.Command{
	Use:   "erc20-balance TOKEN_ADDRESS WALLET_ADDRESS",
	Short: "Get an ERC20 token balance",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := dialClient()
		if err != nil {
			return err
		}
		defer client.Close()

		result, err := chain.TokenBalance(cmd.Context(), client, args[0], args[1])
		if err != nil {
			return err
		}
		return printJSON(result)
	},
}

var erc20AllowanceCmd = &cobra.Command{
	Use:   "erc20-allowance TOKEN_ADDRESS OWNER_ADDRESS SPENDER_ADDRESS",
	Short: "Get an ERC20 allowance for an owner/spender pair",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := dialClient()
		if err != nil {
			return err
		}
		defer client.Close()

		result, err := chain.Allowance(cmd.Context(), client, args[0], args[1], args[2])
		if err != nil {
			return err
		}
		return printJSON(result)
	},
}

var blockCmd = &cobra.Command{
	Use:   "block [NUMBER_OR_HASH]",
	Short: "Get a block by number or hash (latest when omitted)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := dialClient()
		if err != nil {
			return err
		}
		defer client.Close()

		selector := ""
		if len(args) == 1 {
			selector = args[0]
		}
		full, _ := cmd.Flags().GetBool("full")
		result, err := chain.Block(cmd.Context(), client, selector, full)
		if err != nil {
			return err
		}
		return printJSON(result)
	},
}

var txCmd = &cobra.Command{
	Use:   "tx HASH",
	Short: "Get a transaction by hash",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := dialClient()
		if err != nil {
			return err
		}
		defer client.Close()

		result, err := chain.Transaction(cmd.Context(), client, args[0])
		if err != nil {
			return err
		}
		return printJSON(result)
	},
}

var receiptCmd = &cobra.Command{
	Use:   "receipt HASH",
	Short: "Get the receipt of a mined transaction",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := dialClient()
		if err != nil {
			return err
		}
		defer client.Close()

		result, err := chain.Receipt(cmd.Context(), client, args[0])
		if err != nil {
			return err
		}
		return printJSON(result)
	},
}

var gasPriceCmd = &cobra.Command{
	Use:   "gas-price",
	Short: "Get the current suggested gas price",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := dialClient()
		if err != nil {
			return err
		}
		defer client.Close()

		result, err := chain.GasPrice(cmd.Context(), client)
		if err != nil {
			return err
		}
		return printJSON(result)
	},
}

var estimateGasCmd = &cobra.Command{
	Use:   "estimate-gas",
	Short: "Estimate the gas required for a transaction",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := dialClient()
		if err != nil {
			return err
		}
		defer client.Close()

		params, err := callParamsFromFlags(cmd)
		if err != nil {
			return err
		}
		result, err := chain.EstimateGas(cmd.Context(), client, params)
		if err != nil {
			return err
		}
		return printJSON(result)
	},
}

var callCmd = &cobra.Command{
	Use:   "call",
	Short: "Execute a read-only contract call (eth_call)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := dialClient()
		if err != nil {
			return err
		}
		defer client.Close()

		params, err := callParamsFromFlags(cmd)
		if err != nil {
			return err
		}
		params.Block, _ = cmd.Flags().GetString("block")
		result, err := chain.Call(cmd.Context(), client, params)
		if err != nil {
			return err
		}
		return printJSON(result)
	},
}

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Query event logs matching an address and topic filter",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := dialClient()
		if err != nil {
			return err
		}
		defer client.Close()

		address, _ := cmd.Flags().GetString("address")
		topics, _ := cmd.Flags().GetStringArray("topic")
		fromBlock, _ := cmd.Flags().GetString("from-block")
		toBlock, _ := cmd.Flags().GetString("to-block")

		result, err := chain.Logs(cmd.Context(), client, chain.LogsParams{
			Address:   address,
			Topics:    topics,
			FromBlock: fromBlock,
			ToBlock:   toBlock,
		})
		if err != nil {
			return err
		}
		return printJSON(result)
	},
}

var chainIDCmd = &cobra.Command{
	Use:   "chain-id",
	Short: "Get the chain ID of the connected network",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := dialClient()
		if err != nil {
			return err
		}
		defer client.Close()

		result, err := chain.ChainID(cmd.Context(), client)
		if err != nil {
			return err
		}
		return printJSON(result)
	},
}

func callParamsFromFlags(cmd *cobra.Command) (chain.CallParams, error) {
	to, _ := cmd.Flags().GetString("to")
	from, _ := cmd.Flags().GetString("from")
	data, _ := cmd.Flags().GetString("data")
	value, _ := cmd.Flags().GetString("value")
	return chain.CallParams{From: from, To: to, Data: data, Value: value}, nil
}

func addCallFlags(cmd *cobra.Command) {
	cmd.Flags().String("to", "", "recipient or contract address (required)")
	cmd.Flags().String("from", "", "sender address")
	cmd.Flags().String("data", "", "call data as 0x-prefixed hex")
	cmd.Flags().String("value", "", "value in wei (decimal or 0x hex)")
	_ = cmd.MarkFlagRequired("to")
}

func init() {
	balanceCmd.Flags().String("block", "", "block number, 'latest', or 'pending'")
	blockCmd.Flags().Bool("full", false, "include full transaction objects")

	addCallFlags(estimateGasCmd)
	addCallFlags(callCmd)
	callCmd.Flags().String("block", "", "block number to execute at")

	logsCmd.Flags().String("address", "", "contract address to filter by")
	logsCmd.Flags().StringArray("topic", nil, "positional topic filter; repeat for each position, empty string wildcards")
	logsCmd.Flags().String("from-block", "", "start of the block range")
	logsCmd.Flags().String("to-block", "", "end of the block range")

	rootCmd.AddCommand(balanceCmd, erc20BalanceCmd, erc20AllowanceCmd, blockCmd,
		txCmd, receiptCmd, gasPriceCmd, estimateGasCmd, callCmd, logsCmd, chainIDCmd)
}
