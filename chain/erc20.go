package chain

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
)

// ERC20ABI covers the read-only subset of the ERC-20 interface the toolkit
// queries.
const ERC20ABI = `[
	{
		"constant": true,
		"inputs": [{"name": "_owner", "type": "address"}],
		"name": "balanceOf",
		"outputs": [{"name": "balance", "type": "uint256"}],
		"type": "function"
	},
	{
		"constant": true,
		"inputs": [
			{"name": "_owner", "type": "address"},
			{"name": "_spender", "type": "address"}
		],
		"name": "allowance",
		"outputs": [{"name": "", "type": "uint256"}],
		"type": "function"
	},
	{
		"constant": true,
		"inputs": [],
		"name": "symbol",
		"outputs": [{"name": "", "type": "string"}],
		"type": "function"
	},
	{
		"constant": true,
		"inputs": [],
		"name": "decimals",
		"outputs": [{"name": "", "type": "uint8"}],
		"type": "function"
	}
]`

type TokenBalanceResult struct {
	WalletAddress string `json:"walletAddress"`
	TokenAddress  string `json:"tokenAddress"`
	Balance       string `json:"balance"`
	TokenSymbol   string `json:"tokenSymbol"`
	Decimals      int    `json:"decimals"`
	ChainID       string `json:"chainId"`
}

type AllowanceResult struct {
	TokenAddress   string `json:"tokenAddress"`
	TokenSymbol    string `json:"tokenSymbol"`
	OwnerAddress   string `json:"ownerAddress"`
	SpenderAddress string `json:"spenderAddress"`
	Allowance      string `json:"allowance"`
	Decimals       int    `json:"decimals"`
	ChainID        string `json:"chainId"`
}

// TokenBalance queries an ERC-20 balanceOf, with best-effort symbol and
// decimals lookups.
func TokenBalance(ctx context.Context, client *ethclient.Client, tokenAddress, walletAddress string) (*TokenBalanceResult, error) {
	if err := ValidateAddress("tokenAddress", tokenAddress); err != nil {
		return nil, err
	}
	if err := ValidateAddress("walletAddress", walletAddress); err != nil {
		return nil, err
	}

	parsedABI, err := abi.JSON(strings.NewReader(ERC20ABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse ERC20 ABI: %w", err)
	}

	tokenAddr := common.HexToAddress(tokenAddress)
	data, err := parsedABI.Pack("balanceOf", common.HexToAddress(walletAddress))
	if err != nil {
		return nil, fmt.Errorf("failed to pack balanceOf data: %w", err)
	}

	result, err := client.CallContract(ctx, ethereum.CallMsg{To: &tokenAddr, Data: data}, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to call balanceOf: %w (revert reason: %s)", err, RevertReason(err))
	}

	var balance *big.Int
	if err := parsedABI.UnpackIntoInterface(&balance, "balanceOf", result); err != nil {
		return nil, fmt.Errorf("failed to unpack balance: %w", err)
	}

	symbol, decimals, err := tokenInfo(ctx, client, parsedABI, tokenAddr)
	if err != nil {
		symbol = "Unknown"
		decimals = 18
	}

	chainID, err := client.ChainID(ctx)
	if err != nil {
		chainID = big.NewInt(0)
	}

	return &TokenBalanceResult{
		WalletAddress: walletAddress,
		TokenAddress:  tokenAddress,
		Balance:       balance.String(),
		TokenSymbol:   symbol,
		Decimals:      decimals,
		ChainID:       chainID.String(),
	}, nil
}

// Allowance queries an ERC-20 allowance for an owner/spender pair.
func Allowance(ctx context.Context, client *ethclient.Client, tokenAddress, ownerAddress, spenderAddress string) (*AllowanceResult, error) {
	if err := ValidateAddress("tokenAddress", tokenAddress); err != nil {
		return nil, err
	}
	if err := ValidateAddress("ownerAddress", ownerAddress); err != nil {
		return nil, err
	}
	if err := ValidateAddress("spenderAddress", spenderAddress); err != nil {
		return nil, err
	}

	parsedABI, err := abi.JSON(strings.NewReader(ERC20ABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse ERC20 ABI: %w", err)
	}

	tokenAddr := common.HexToAddress(tokenAddress)
	data, err := parsedABI.Pack("allowance", common.HexToAddress(ownerAddress), common.HexToAddress(spenderAddress))
	if err != nil {
		return nil, fmt.Errorf("failed to pack allowance data: %w", err)
	}

	result, err := client.CallContract(ctx, ethereum.CallMsg{To: &tokenAddr, Data: data}, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to call allowance: %w (revert reason: %s)", err, RevertReason(err))
	}

	var allowance *big.Int
	if err := parsedABI.UnpackIntoInterface(&allowance, "allowance", result); err != nil {
		return nil, fmt.Errorf("failed to unpack allowance: %w", err)
	}

	symbol, decimals, err := tokenInfo(ctx, client, parsedABI, tokenAddr)
	if err != nil {
		symbol = "Unknown"
		decimals = 18
	}

	chainID, err := client.ChainID(ctx)
	if err != nil {
		chainID = big.NewInt(0)
	}

	return &AllowanceResult{
		TokenAddress:   tokenAddress,
		TokenSymbol:    symbol,
		OwnerAddress:   ownerAddress,
		SpenderAddress: spenderAddress,
		Allowance:      allowance.String(),
		Decimals:       decimals,
		ChainID:        chainID.String(),
	}, nil
}

// tokenInfo retrieves token symbol and decimals for a given token contract
func tokenInfo(ctx context.Context, client *ethclient.Client, parsedABI abi.ABI, tokenAddr common.Address) (string, int, error) {
	symbolData, err := parsedABI.Pack("symbol")
	if err != nil {
		return "", 0, fmt.Errorf("failed to pack symbol data: %w", err)
	}

	symbolResult, err := client.CallContract(ctx, ethereum.CallMsg{To: &tokenAddr, Data: symbolData}, nil)
	if err != nil {
		return "", 0, fmt.Errorf("failed to call symbol: %w", err)
	}

	var symbol string
	if err := parsedABI.UnpackIntoInterface(&symbol, "symbol", symbolResult); err != nil {
		return "", 0, fmt.Errorf("failed to unpack symbol: %w", err)
	}

	decimalsData, err := parsedABI.Pack("decimals")
	if err != nil {
		return symbol, 18, fmt.Errorf("failed to pack decimals data: %w", err)
	}

	decimalsResult, err := client.CallContract(ctx, ethereum.CallMsg{To: &tokenAddr, Data: decimalsData}, nil)
	if err != nil {
		return symbol, 18, fmt.Errorf("failed to call decimals: %w", err)
	}

	var decimals uint8
	if err := parsedABI.UnpackIntoInterface(&decimals, "decimals", decimalsResult); err != nil {
		return symbol, 18, fmt.Errorf("failed to unpack decimals: %w", err)
	}

	return symbol, int(decimals), nil
}
