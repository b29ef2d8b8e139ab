package monitor

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// ChainReader is the read-only chain surface the monitor polls. All methods
// must be safe for concurrent use; the monitor never mutates the reader.
type ChainReader interface {
	// BlockNumber returns the latest known block height.
	BlockNumber(ctx context.Context) (uint64, error)

	// TransactionReceipt returns the receipt for a mined transaction, or
	// (nil, nil) when the transaction is not yet mined.
	TransactionReceipt(ctx context.Context, hash common.Hash) (*types.Receipt, error)

	// TransactionByHash returns sender, nonce, recipient, input, and value
	// for a mined or pending transaction, or (nil, nil) when unknown.
	TransactionByHash(ctx context.Context, hash common.Hash) (*TxInfo, error)

	// BlockByNumber returns block metadata and, when fullTransactions is
	// set, the block's transaction list.
	BlockByNumber(ctx context.Context, number uint64, fullTransactions bool) (*BlockInfo, error)

	// CallContract re-executes a call at a historical block, used only to
	// recover revert reasons. Never mutates state.
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
}

// StatusReporter receives best-effort, human-readable progress messages.
// Implementations may fail; the monitor guarantees a reporting failure never
// alters its control flow.
type StatusReporter interface {
	Report(ctx context.Context, message string) error
}

// ReporterFunc adapts a function to the StatusReporter interface.
type ReporterFunc func(ctx context.Context, message string) error

func (f ReporterFunc) Report(ctx context.Context, message string) error {
	return f(ctx, message)
}

// NopReporter discards all status messages.
var NopReporter = ReporterFunc(func(context.Context, string) error { return nil })
