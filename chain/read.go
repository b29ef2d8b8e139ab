package chain

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
)

// Balance returns the native token balance of an address at the given block
// (empty means latest).
func Balance(ctx context.Context, client *ethclient.Client, address, block string) (*BalanceResult, error) {
	if err := ValidateAddress("address", address); err != nil {
		return nil, err
	}
	blockNumber, err := ParseBlockNumber(block)
	if err != nil {
		return nil, err
	}

	balance, err := client.BalanceAt(ctx, common.HexToAddress(address), blockNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to get balance: %w", err)
	}

	chainID, err := client.ChainID(ctx)
	if err != nil {
		chainID = big.NewInt(0)
	}

	blockLabel := "latest"
	if blockNumber != nil {
		blockLabel = blockNumber.String()
	}

	return &BalanceResult{
		Address: address,
		Balance: balance.String(),
		Block:   blockLabel,
		ChainID: chainID.String(),
	}, nil
}

// Block fetches a block by number, hash, or "latest" (empty selector).
func Block(ctx context.Context, client *ethclient.Client, selector string, fullTransactions bool) (*BlockResult, error) {
	var block *types.Block
	var err error

	if txHashPattern.MatchString(selector) {
		block, err = client.BlockByHash(ctx, common.HexToHash(selector))
	} else {
		var blockNumber *big.Int
		blockNumber, err = ParseBlockNumber(selector)
		if err != nil {
			return nil, err
		}
		block, err = client.BlockByNumber(ctx, blockNumber)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get block: %w", err)
	}

	result := &BlockResult{
		Number:     block.NumberU64(),
		Hash:       block.Hash().Hex(),
		ParentHash: block.ParentHash().Hex(),
		Timestamp:  block.Time(),
		Miner:      block.Coinbase().Hex(),
		GasUsed:    block.GasUsed(),
		GasLimit:   block.GasLimit(),
		TxCount:    len(block.Transactions()),
	}
	if block.BaseFee() != nil {
		result.BaseFee = block.BaseFee().String()
	}

	if fullTransactions {
		signer := types.LatestSignerForChainID(nil)
		if chainID, err := client.ChainID(ctx); err == nil {
			signer = types.LatestSignerForChainID(chainID)
		}
		for _, tx := range block.Transactions() {
			var fromPtr *common.Address
			if from, err := types.Sender(signer, tx); err == nil {
				fromPtr = &from
			}
			result.Transactions = append(result.Transactions, newTxResult(tx, fromPtr, false))
		}
	}

	return result, nil
}

// Transaction fetches a transaction by hash, recovering the sender address.
func Transaction(ctx context.Context, client *ethclient.Client, hash string) (*TxResult, error) {
	if err := ValidateTxHash("hash", hash); err != nil {
		return nil, err
	}

	tx, pending, err := client.TransactionByHash(ctx, common.HexToHash(hash))
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}

	var fromPtr *common.Address
	signer := types.LatestSignerForChainID(tx.ChainId())
	if from, err := types.Sender(signer, tx); err == nil {
		fromPtr = &from
	}

	result := newTxResult(tx, fromPtr, pending)
	return &result, nil
}

// Receipt fetches the receipt of a mined transaction.
func Receipt(ctx context.Context, client *ethclient.Client, hash string) (*ReceiptResult, error) {
	if err := ValidateTxHash("hash", hash); err != nil {
		return nil, err
	}

	receipt, err := client.TransactionReceipt(ctx, common.HexToHash(hash))
	if err != nil {
		return nil, fmt.Errorf("failed to get receipt: %w", err)
	}

	return newReceiptResult(receipt), nil
}

// GasPrice returns the suggested gas price plus EIP-1559 parameters when the
// chain exposes a base fee.
func GasPrice(ctx context.Context, client *ethclient.Client) (*GasPriceResult, error) {
	gasPrice, err := client.SuggestGasPrice(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to suggest gas price: %w", err)
	}

	chainID, err := client.ChainID(ctx)
	if err != nil {
		chainID = big.NewInt(0)
	}

	result := &GasPriceResult{
		GasPrice: gasPrice.String(),
		ChainID:  chainID.String(),
	}

	head, err := client.HeaderByNumber(ctx, nil)
	if err == nil && head.BaseFee != nil {
		result.BaseFeePerGas = head.BaseFee.String()
		if tip, err := client.SuggestGasTipCap(ctx); err == nil {
			result.MaxPriorityFeePerGas = tip.String()
		}
	}

	return result, nil
}

// CallParams describes an eth_call or eth_estimateGas request.
type CallParams struct {
	From  string
	To    string
	Data  string
	Value string
	Block string
}

func (p CallParams) toCallMsg() (ethereum.CallMsg, error) {
	var msg ethereum.CallMsg

	if err := ValidateAddress("to", p.To); err != nil {
		return msg, err
	}
	to := common.HexToAddress(p.To)
	msg.To = &to

	if p.From != "" {
		if err := ValidateAddress("from", p.From); err != nil {
			return msg, err
		}
		msg.From = common.HexToAddress(p.From)
	}

	data, err := ParseHexData(p.Data)
	if err != nil {
		return msg, err
	}
	msg.Data = data

	value, err := ParseBig(p.Value)
	if err != nil {
		return msg, err
	}
	if value.Sign() > 0 {
		msg.Value = value
	}

	return msg, nil
}

// Call executes a read-only contract call and returns the raw result bytes
// as hex. Reverts come back as errors with the extracted reason attached.
func Call(ctx context.Context, client *ethclient.Client, params CallParams) (map[string]string, error) {
	msg, err := params.toCallMsg()
	if err != nil {
		return nil, err
	}
	blockNumber, err := ParseBlockNumber(params.Block)
	if err != nil {
		return nil, err
	}

	result, err := client.CallContract(ctx, msg, blockNumber)
	if err != nil {
		return nil, fmt.Errorf("call failed: %w (revert reason: %s)", err, RevertReason(err))
	}

	return map[string]string{
		"to":     params.To,
		"result": hexutil.Encode(result),
	}, nil
}

// EstimateGas estimates the gas required for a transaction.
func EstimateGas(ctx context.Context, client *ethclient.Client, params CallParams) (map[string]interface{}, error) {
	msg, err := params.toCallMsg()
	if err != nil {
		return nil, err
	}

	gas, err := client.EstimateGas(ctx, msg)
	if err != nil {
		return nil, fmt.Errorf("failed to estimate gas: %w (revert reason: %s)", err, RevertReason(err))
	}

	return map[string]interface{}{
		"to":  params.To,
		"gas": gas,
	}, nil
}

// LogsParams describes an eth_getLogs filter. Topics are positional; an
// empty string wildcard-matches that position.
type LogsParams struct {
	Address   string
	Topics    []string
	FromBlock string
	ToBlock   string
}

// Logs queries event logs matching the filter.
func Logs(ctx context.Context, client *ethclient.Client, params LogsParams) ([]LogResult, error) {
	var query ethereum.FilterQuery

	if params.Address != "" {
		if err := ValidateAddress("address", params.Address); err != nil {
			return nil, err
		}
		query.Addresses = []common.Address{common.HexToAddress(params.Address)}
	}

	for _, topic := range params.Topics {
		if topic == "" {
			query.Topics = append(query.Topics, nil)
			continue
		}
		query.Topics = append(query.Topics, []common.Hash{common.HexToHash(topic)})
	}

	fromBlock, err := ParseBlockNumber(params.FromBlock)
	if err != nil {
		return nil, err
	}
	toBlock, err := ParseBlockNumber(params.ToBlock)
	if err != nil {
		return nil, err
	}
	query.FromBlock = fromBlock
	query.ToBlock = toBlock

	logs, err := client.FilterLogs(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get logs: %w", err)
	}

	results := make([]LogResult, 0, len(logs))
	for i := range logs {
		results = append(results, newLogResult(&logs[i]))
	}
	return results, nil
}

// ChainID returns the chain ID of the connected network.
func ChainID(ctx context.Context, client *ethclient.Client) (map[string]string, error) {
	chainID, err := client.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get chain ID: %w", err)
	}
	return map[string]string{"chainId": chainID.String()}, nil
}
