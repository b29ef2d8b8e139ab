// Package monitor implements the transaction-confirmation monitor: a bounded
// polling state machine that classifies a transaction's eventual outcome as
// confirmed, reverted, replaced, or timed out.
package monitor

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
)

const (
	DefaultConfirmations = 1
	DefaultPollInterval  = time.Second
	DefaultTimeout       = 5 * time.Minute
)

// Request parameterizes a single monitoring call. A Request carries no state;
// every Wait invocation owns its own loop-local variables.
type Request struct {
	TxHash        common.Hash
	Confirmations uint64
	PollInterval  time.Duration
	Timeout       time.Duration
}

func (r Request) withDefaults() Request {
	if r.Confirmations == 0 {
		r.Confirmations = DefaultConfirmations
	}
	if r.PollInterval <= 0 {
		r.PollInterval = DefaultPollInterval
	}
	if r.Timeout <= 0 {
		r.Timeout = DefaultTimeout
	}
	return r
}

// Status discriminates the four terminal outcomes.
type Status string

const (
	StatusConfirmed Status = "confirmed"
	StatusReverted  Status = "reverted"
	StatusReplaced  Status = "replaced"
	StatusTimedOut  Status = "timed_out"
)

// Outcome is the terminal result of a monitoring call. Status selects which
// detail field is populated; exactly one is non-nil.
type Outcome struct {
	Status    Status           `json:"status"`
	Confirmed *ConfirmedDetail `json:"confirmed,omitempty"`
	Reverted  *RevertedDetail  `json:"reverted,omitempty"`
	Replaced  *ReplacedDetail  `json:"replaced,omitempty"`
	TimedOut  *TimedOutDetail  `json:"timedOut,omitempty"`
}

type ConfirmedDetail struct {
	BlockNumber    uint64         `json:"blockNumber"`
	BlockTimestamp uint64         `json:"blockTimestamp"`
	Confirmations  uint64         `json:"confirmations"`
	Receipt        *types.Receipt `json:"receipt"`
}

type RevertedDetail struct {
	BlockNumber       uint64         `json:"blockNumber"`
	Confirmations     uint64         `json:"confirmations"`
	RevertReason      string         `json:"revertReason"`
	GasUsed           uint64         `json:"gasUsed"`
	EffectiveGasPrice string         `json:"effectiveGasPrice,omitempty"`
	Receipt           *types.Receipt `json:"receipt"`
	Transaction       *TxInfo        `json:"transaction,omitempty"`
}

type ReplacedDetail struct {
	ReplacedByHash         common.Hash `json:"replacedByHash"`
	ReplacementTransaction *TxInfo     `json:"replacementTransaction,omitempty"`
	Reason                 string      `json:"reason"`
}

type TimedOutDetail struct {
	Message string `json:"message"`
}

// TxInfo is the monitor's view of a transaction: just the fields needed for
// replacement detection and revert replay.
type TxInfo struct {
	Hash    common.Hash     `json:"hash"`
	From    common.Address  `json:"from"`
	Nonce   uint64          `json:"nonce"`
	To      *common.Address `json:"to,omitempty"`
	Value   *hexutil.Big    `json:"value,omitempty"`
	Data    hexutil.Bytes   `json:"input,omitempty"`
	Pending bool            `json:"pending"`
}

// BlockInfo is the monitor's view of a block. Transactions are populated only
// when the block was fetched for replacement scanning.
type BlockInfo struct {
	Number       uint64      `json:"number"`
	Hash         common.Hash `json:"hash"`
	Time         uint64      `json:"timestamp"`
	Transactions []TxInfo    `json:"transactions,omitempty"`
}
