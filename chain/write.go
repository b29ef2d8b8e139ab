package chain

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
)

const personalMessagePrefix = "\x19Ethereum Signed Message:\n"

type SignResult struct {
	Address     string `json:"address"`
	Message     string `json:"message"`
	MessageHash string `json:"messageHash"`
	Signature   string `json:"signature"`
}

type SendResult struct {
	TransactionHash      string `json:"transactionHash"`
	From                 string `json:"from"`
	To                   string `json:"to"`
	Value                string `json:"value"`
	Nonce                uint64 `json:"nonce"`
	GasLimit             uint64 `json:"gasLimit"`
	GasPrice             string `json:"gasPrice,omitempty"`
	MaxFeePerGas         string `json:"maxFeePerGas,omitempty"`
	MaxPriorityFeePerGas string `json:"maxPriorityFeePerGas,omitempty"`
	TransactionType      string `json:"transactionType"`
	ChainID              string `json:"chainId"`
}

// SignMessage signs a message using EIP-191 personal-message semantics. The
// recovery byte is adjusted to the conventional 27/28 range.
func SignMessage(key *ecdsa.PrivateKey, message string) (*SignResult, error) {
	if key == nil {
		return nil, fmt.Errorf("no private key loaded")
	}
	if message == "" {
		return nil, fmt.Errorf("message is required")
	}

	prefixed := fmt.Sprintf("%s%d%s", personalMessagePrefix, len(message), message)
	hash := crypto.Keccak256([]byte(prefixed))

	signature, err := crypto.Sign(hash, key)
	if err != nil {
		return nil, fmt.Errorf("failed to sign message: %w", err)
	}
	signature[crypto.RecoveryIDOffset] += 27

	return &SignResult{
		Address:     crypto.PubkeyToAddress(key.PublicKey).Hex(),
		Message:     message,
		MessageHash: hexutil.Encode(hash),
		Signature:   hexutil.Encode(signature),
	}, nil
}

// SendParams describes a transaction to build, sign, and submit.
type SendParams struct {
	To       string
	Value    string
	Data     string
	GasLimit uint64 // 0 means estimate
	Nonce    *uint64
}

// SendTransaction builds a transaction (EIP-1559 when the chain has a base
// fee, legacy otherwise), simulates it to surface revert reasons, signs it,
// and submits it.
func SendTransaction(ctx context.Context, client *ethclient.Client, key *ecdsa.PrivateKey, params SendParams) (*SendResult, error) {
	if key == nil {
		return nil, fmt.Errorf("no private key loaded")
	}
	if err := ValidateRecipientAddress("to", params.To); err != nil {
		return nil, err
	}

	// Decimal values get the stricter amount checks; hex quantities go
	// straight to the parser, which cannot produce a negative.
	if params.Value != "" && !strings.HasPrefix(params.Value, "0x") && !strings.HasPrefix(params.Value, "0X") {
		if err := ValidateAmount("value", params.Value); err != nil {
			return nil, err
		}
	}

	value, err := ParseBig(params.Value)
	if err != nil {
		return nil, err
	}
	data, err := ParseHexData(params.Data)
	if err != nil {
		return nil, err
	}

	chainID, err := client.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get chain ID: %w", err)
	}

	from := crypto.PubkeyToAddress(key.PublicKey)
	to := common.HexToAddress(params.To)

	msg := ethereum.CallMsg{
		From:  from,
		To:    &to,
		Value: value,
		Data:  data,
	}

	// Simulate first so a doomed transaction never costs gas.
	if _, err := client.CallContract(ctx, msg, nil); err != nil {
		return nil, fmt.Errorf("transaction would fail: %w (revert reason: %s)", err, RevertReason(err))
	}

	gasLimit := params.GasLimit
	if gasLimit == 0 {
		gasLimit, err = client.EstimateGas(ctx, msg)
		if err != nil {
			return nil, fmt.Errorf("failed to estimate gas: %w", err)
		}
		// 20% buffer against estimate drift between simulation and inclusion.
		gasLimit = uint64(float64(gasLimit) * 1.2)
	}

	var nonce uint64
	if params.Nonce != nil {
		nonce = *params.Nonce
	} else {
		nonce, err = client.PendingNonceAt(ctx, from)
		if err != nil {
			return nil, fmt.Errorf("failed to get nonce: %w", err)
		}
	}

	head, err := client.HeaderByNumber(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get latest block header: %w", err)
	}

	var tx *types.Transaction
	if head.BaseFee != nil {
		gasTipCap, err := client.SuggestGasTipCap(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to suggest gas tip cap: %w", err)
		}

		// Max fee per gas: base fee * 2 + tip.
		maxFeePerGas := new(big.Int).Add(
			new(big.Int).Mul(head.BaseFee, big.NewInt(2)),
			gasTipCap,
		)

		tx = types.NewTx(&types.DynamicFeeTx{
			ChainID:   chainID,
			Nonce:     nonce,
			GasTipCap: gasTipCap,
			GasFeeCap: maxFeePerGas,
			Gas:       gasLimit,
			To:        &to,
			Value:     value,
			Data:      data,
		})
	} else {
		gasPrice, err := client.SuggestGasPrice(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to suggest gas price: %w", err)
		}

		tx = types.NewTx(&types.LegacyTx{
			Nonce:    nonce,
			GasPrice: gasPrice,
			Gas:      gasLimit,
			To:       &to,
			Value:    value,
			Data:     data,
		})
	}

	signedTx, err := types.SignTx(tx, types.LatestSignerForChainID(chainID), key)
	if err != nil {
		return nil, fmt.Errorf("failed to sign transaction: %w", err)
	}

	if err := client.SendTransaction(ctx, signedTx); err != nil {
		return nil, fmt.Errorf("failed to send transaction: %w", err)
	}

	result := &SendResult{
		TransactionHash: signedTx.Hash().Hex(),
		From:            from.Hex(),
		To:              params.To,
		Value:           value.String(),
		Nonce:           nonce,
		GasLimit:        gasLimit,
		ChainID:         chainID.String(),
	}
	if signedTx.Type() == types.DynamicFeeTxType {
		result.MaxFeePerGas = signedTx.GasFeeCap().String()
		result.MaxPriorityFeePerGas = signedTx.GasTipCap().String()
		result.TransactionType = "EIP-1559"
	} else {
		result.GasPrice = signedTx.GasPrice().String()
		result.TransactionType = "Legacy"
	}

	return result, nil
}

// SendRaw submits a pre-signed, RLP-encoded transaction.
func SendRaw(ctx context.Context, client *ethclient.Client, rawTx string) (map[string]string, error) {
	rawBytes, err := ParseHexData(rawTx)
	if err != nil {
		return nil, err
	}
	if len(rawBytes) == 0 {
		return nil, fmt.Errorf("signed transaction data is required")
	}

	tx := new(types.Transaction)
	if err := tx.UnmarshalBinary(rawBytes); err != nil {
		return nil, fmt.Errorf("invalid signed transaction: %w", err)
	}

	if err := client.SendTransaction(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to send transaction: %w", err)
	}

	return map[string]string{
		"transactionHash": tx.Hash().Hex(),
	}, nil
}
