package chain

import (
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/ethclient"
)

// Dial connects to an Ethereum JSON-RPC endpoint. Callers own the returned
// client and must Close it.
func Dial(rpcURL string) (*ethclient.Client, error) {
	if rpcURL == "" {
		return nil, fmt.Errorf("RPC URL is required")
	}

	client, err := ethclient.Dial(rpcURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to the Ethereum client: %w", err)
	}
	return client, nil
}

// ParseBig parses a decimal or 0x-prefixed hex quantity into a big.Int.
func ParseBig(s string) (*big.Int, error) {
	if s == "" {
		return big.NewInt(0), nil
	}

	v := new(big.Int)
	var ok bool
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		_, ok = v.SetString(s[2:], 16)
	} else {
		_, ok = v.SetString(s, 10)
	}
	if !ok {
		return nil, fmt.Errorf("invalid numeric value: %s", s)
	}
	return v, nil
}

// ParseBlockNumber parses a block selector. Empty string and "latest" mean
// the latest block (nil), "pending" means the pending block (-1); anything
// else is a decimal or hex block number.
func ParseBlockNumber(s string) (*big.Int, error) {
	switch s {
	case "", "latest":
		return nil, nil
	case "pending":
		return big.NewInt(-1), nil
	}

	n, err := ParseBig(s)
	if err != nil {
		return nil, fmt.Errorf("invalid block number: %s", s)
	}
	if n.Sign() < 0 {
		return nil, fmt.Errorf("block number cannot be negative: %s", s)
	}
	return n, nil
}

// ParseHexData decodes 0x-prefixed (or bare) hex call data.
func ParseHexData(s string) ([]byte, error) {
	if s == "" || s == "0x" {
		return nil, nil
	}
	s = strings.TrimPrefix(s, "0x")
	data, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid hex data: %w", err)
	}
	return data, nil
}

// RevertReason extracts a human-readable revert reason from an RPC error.
// Returns "Unknown reason" when the error carries no usable detail.
func RevertReason(err error) string {
	if err == nil {
		return "Unknown reason"
	}
	errorText := err.Error()
	if strings.Contains(errorText, "execution reverted") {
		if parts := strings.SplitN(errorText, "execution reverted:", 2); len(parts) > 1 {
			if reason := strings.TrimSpace(parts[1]); reason != "" {
				return reason
			}
		}
		return "execution reverted"
	}
	return "Unknown reason"
}
