package monitor

import (
	"context"
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
)

// EthReader adapts an ethclient.Client to the ChainReader interface,
// normalizing ethereum.NotFound into absence and recovering transaction
// senders with the chain's latest signer.
type EthReader struct {
	client *ethclient.Client
	signer types.Signer
}

// NewEthReader wraps an ethclient. The chain ID is fetched once to build the
// signer used for sender recovery.
func NewEthReader(ctx context.Context, client *ethclient.Client) (*EthReader, error) {
	chainID, err := client.ChainID(ctx)
	if err != nil {
		return nil, err
	}
	return &EthReader{
		client: client,
		signer: types.LatestSignerForChainID(chainID),
	}, nil
}

func (r *EthReader) BlockNumber(ctx context.Context) (uint64, error) {
	return r.client.BlockNumber(ctx)
}

func (r *EthReader) TransactionReceipt(ctx context.Context, hash common.Hash) (*types.Receipt, error) {
	receipt, err := r.client.TransactionReceipt(ctx, hash)
	if errors.Is(err, ethereum.NotFound) {
		return nil, nil
	}
	return receipt, err
}

func (r *EthReader) TransactionByHash(ctx context.Context, hash common.Hash) (*TxInfo, error) {
	tx, pending, err := r.client.TransactionByHash(ctx, hash)
	if errors.Is(err, ethereum.NotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	info := r.txInfo(tx)
	info.Pending = pending
	return &info, nil
}

func (r *EthReader) BlockByNumber(ctx context.Context, number uint64, fullTransactions bool) (*BlockInfo, error) {
	block, err := r.client.BlockByNumber(ctx, new(big.Int).SetUint64(number))
	if err != nil {
		return nil, err
	}

	info := &BlockInfo{
		Number: block.NumberU64(),
		Hash:   block.Hash(),
		Time:   block.Time(),
	}
	if fullTransactions {
		info.Transactions = make([]TxInfo, 0, len(block.Transactions()))
		for _, tx := range block.Transactions() {
			info.Transactions = append(info.Transactions, r.txInfo(tx))
		}
	}
	return info, nil
}

func (r *EthReader) CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error) {
	return r.client.CallContract(ctx, msg, blockNumber)
}

func (r *EthReader) txInfo(tx *types.Transaction) TxInfo {
	info := TxInfo{
		Hash:  tx.Hash(),
		Nonce: tx.Nonce(),
		To:    tx.To(),
		Value: (*hexutil.Big)(tx.Value()),
		Data:  tx.Data(),
	}
	// Sender recovery can fail for exotic signature schemes; a zero From
	// simply disables replacement matching for that transaction.
	if from, err := types.Sender(r.signer, tx); err == nil {
		info.From = from
	}
	return info
}
