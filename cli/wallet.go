package cli

import (
	"crypto/ecdsa"
	"fmt"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/spf13/cobra"

	"github.com/ethtoolkit/ethtools/chain"
	"github.com/ethtoolkit/ethtools/server"
)

var (
	walletKeystore string
	walletPassword string
)

func loadWalletKey() (*ecdsa.PrivateKey, error) {
	if walletKeystore == "" {
		return nil, fmt.Errorf("--keystore is required")
	}
	if walletPassword == "" {
		return nil, fmt.Errorf("--password is required")
	}
	return server.LoadKeystoreKey(cfg.KeystoreDir, walletKeystore, walletPassword)
}

var addressCmd = &cobra.Command{
	Use:   "address",
	Short: "Print the address of the loaded keystore key",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		key, err := loadWalletKey()
		if err != nil {
			return err
		}
		return printJSON(map[string]string{
			"address": crypto.PubkeyToAddress(key.PublicKey).Hex(),
		})
	},
}

var signCmd = &cobra.Command{
	Use:   "sign MESSAGE",
	Short: "Sign a message with the loaded keystore key (EIP-191 personal_sign)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, err := loadWalletKey()
		if err != nil {
			return err
		}
		result, err := chain.SignMessage(key, args[0])
		if err != nil {
			return err
		}
		return printJSON(result)
	},
}

var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Sign and broadcast a transaction from the loaded keystore key",
	Long:  "Builds a transaction, simulates it, estimates gas with a safety buffer\nunless --gas-limit is given, signs it, and broadcasts it.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		key, err := loadWalletKey()
		if err != nil {
			return err
		}

		client, err := dialClient()
		if err != nil {
			return err
		}
		defer client.Close()

		params := chain.SendParams{}
		params.To, _ = cmd.Flags().GetString("to")
		params.Value, _ = cmd.Flags().GetString("value")
		params.Data, _ = cmd.Flags().GetString("data")
		params.GasLimit, _ = cmd.Flags().GetUint64("gas-limit")
		if cmd.Flags().Changed("nonce") {
			n, _ := cmd.Flags().GetUint64("nonce")
			params.Nonce = &n
		}

		result, err := chain.SendTransaction(cmd.Context(), client, key, params)
		if err != nil {
			return err
		}
		return printJSON(result)
	},
}

var sendRawCmd = &cobra.Command{
	Use:   "send-raw SIGNED_TX",
	Short: "Broadcast a pre-signed RLP-encoded transaction",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := dialClient()
		if err != nil {
			return err
		}
		defer client.Close()

		result, err := chain.SendRaw(cmd.Context(), client, args[0])
		if err != nil {
			return err
		}
		return printJSON(result)
	},
}

func init() {
	for _, cmd := range []*cobra.Command{addressCmd, signCmd, sendCmd} {
		cmd.Flags().StringVar(&walletKeystore, "keystore", "", "name of the keystore file to load")
		cmd.Flags().StringVar(&walletPassword, "password", "", "password for the keystore file")
	}

	sendCmd.Flags().String("to", "", "recipient address (required)")
	sendCmd.Flags().String("value", "", "value in wei (decimal or 0x hex)")
	sendCmd.Flags().String("data", "", "call data as 0x-prefixed hex")
	sendCmd.Flags().Uint64("gas-limit", 0, "gas limit (estimated when omitted)")
	sendCmd.Flags().Uint64("nonce", 0, "nonce (next pending nonce when omitted)")
	_ = sendCmd.MarkFlagRequired("to")

	rootCmd.AddCommand(addressCmd, signCmd, sendCmd, sendRawCmd)
}
