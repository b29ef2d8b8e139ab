package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ethtoolkit/ethtools/chain"
)

var abiCmd = &cobra.Command{
	Use:   "abi",
	Short: "ABI encode and decode helpers (offline)",
}

var abiEncodeCmd = &cobra.Command{
	Use:   "encode FUNCTION [ARG...]",
	Short: "ABI-encode a function call into 0x-prefixed call data",
	Long:  "Encodes a function call using the ABI passed via --abi. Arguments are\ngiven as JSON values: addresses, big numbers, and bytes as strings;\nbooleans and arrays as literals (e.g. '[\"0xabc...\", \"1000\"]').",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		abiJSON, _ := cmd.Flags().GetString("abi")
		if abiJSON == "" {
			return fmt.Errorf("--abi is required")
		}

		fnArgs := make([]interface{}, 0, len(args)-1)
		for _, raw := range args[1:] {
			var v interface{}
			if err := json.Unmarshal([]byte(raw), &v); err != nil {
				// Bare words are treated as strings.
				v = raw
			}
			fnArgs = append(fnArgs, v)
		}

		result, err := chain.EncodeFunctionCall(abiJSON, args[0], fnArgs)
		if err != nil {
			return err
		}
		return printJSON(result)
	},
}

var abiDecodeCmd = &cobra.Command{
	Use:   "decode FUNCTION DATA",
	Short: "Decode function return data using the ABI output types",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		abiJSON, _ := cmd.Flags().GetString("abi")
		if abiJSON == "" {
			return fmt.Errorf("--abi is required")
		}

		result, err := chain.DecodeFunctionResult(abiJSON, args[0], args[1])
		if err != nil {
			return err
		}
		return printJSON(result)
	},
}

func init() {
	abiCmd.PersistentFlags().String("abi", "", "contract ABI as a JSON string")
	abiCmd.AddCommand(abiEncodeCmd, abiDecodeCmd)
	rootCmd.AddCommand(abiCmd)
}
