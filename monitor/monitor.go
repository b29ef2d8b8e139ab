package monitor

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// maxScanPerPoll bounds how many blocks a single iteration will fetch for
// replacement scanning; a long gap is drained across iterations.
const maxScanPerPoll = 128

// Monitor drives the polling loop. It is stateless across calls; concurrent
// Wait invocations are independent.
type Monitor struct {
	reader   ChainReader
	reporter StatusReporter
	logger   *slog.Logger
}

// Option configures a Monitor.
type Option func(*Monitor)

// WithReporter sets the status reporter. Reporting is best-effort: errors and
// panics from the reporter are swallowed and never alter the polling loop.
func WithReporter(r StatusReporter) Option {
	return func(m *Monitor) {
		if r != nil {
			m.reporter = r
		}
	}
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(m *Monitor) {
		if l != nil {
			m.logger = l
		}
	}
}

// New creates a Monitor over the given chain reader.
func New(reader ChainReader, opts ...Option) *Monitor {
	m := &Monitor{
		reader:   reader,
		reporter: NopReporter,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// loop-local state; one per Wait call.
type waitState struct {
	origTx      *TxInfo
	lastScanned uint64
	tracker     milestoneTracker
}

// Wait polls chain state until the transaction reaches a terminal outcome or
// the timeout elapses. All four classifications come back as values; the only
// error paths are an invalid request and context cancellation.
//
// Transient-error policy: a failed poll iteration is reported, consumes one
// poll interval of wall time, and never aborts the loop. The timeout deadline
// is fixed when Wait is entered, so read failures count against it.
func (m *Monitor) Wait(ctx context.Context, req Request) (*Outcome, error) {
	if req.TxHash == (common.Hash{}) {
		return nil, fmt.Errorf("transaction hash is required")
	}
	req = req.withDefaults()

	deadline := time.Now().Add(req.Timeout)
	st := &waitState{}

	for {
		outcome, err := m.step(ctx, req, st)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			m.report(ctx, fmt.Sprintf("Chain read failed (will retry): %v", err))
		} else if outcome != nil {
			return outcome, nil
		}

		if !time.Now().Before(deadline) {
			message := fmt.Sprintf("Timeout reached after %s waiting for transaction %s", req.Timeout, req.TxHash.Hex())
			m.report(ctx, message)
			return &Outcome{
				Status:   StatusTimedOut,
				TimedOut: &TimedOutDetail{Message: message},
			}, nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(req.PollInterval):
		}
	}
}

// step performs one poll iteration: read height and receipt, classify, and
// enrich terminal verdicts. A nil, nil return means keep polling; an error
// means this iteration failed transiently.
func (m *Monitor) step(ctx context.Context, req Request, st *waitState) (*Outcome, error) {
	height, err := m.reader.BlockNumber(ctx)
	if err != nil {
		return nil, err
	}
	receipt, err := m.reader.TransactionReceipt(ctx, req.TxHash)
	if err != nil {
		return nil, err
	}

	sample := Sample{Height: height, Receipt: receipt}
	var scanErr error
	if receipt == nil {
		sample.NewBlocks, scanErr = m.scanForReplacement(ctx, req.TxHash, height, st)
	}

	v := classify(sample, req.TxHash, st.origTx, req.Confirmations)

	switch v.kind {
	case verdictReplaced:
		m.report(ctx, fmt.Sprintf("Transaction %s was replaced by %s", req.TxHash.Hex(), v.replacement.Hash.Hex()))
		return &Outcome{
			Status: StatusReplaced,
			Replaced: &ReplacedDetail{
				ReplacedByHash:         v.replacement.Hash,
				ReplacementTransaction: v.replacement,
				Reason:                 "a transaction from the same sender with the same nonce was mined (gas-price bump or cancellation)",
			},
		}, nil

	case verdictReverted:
		return m.revertedOutcome(ctx, req, st, receipt, v.confirmations)

	case verdictConfirmed:
		block, err := m.reader.BlockByNumber(ctx, receipt.BlockNumber.Uint64(), false)
		if err != nil {
			return nil, err
		}
		for _, pct := range st.tracker.crossed(v.confirmations, req.Confirmations) {
			m.report(ctx, fmt.Sprintf("Confirmation progress: %d%% (%d/%d confirmations)",
				pct, v.confirmations, req.Confirmations))
		}
		m.report(ctx, fmt.Sprintf("Transaction %s confirmed in block %d with %d confirmation(s)",
			req.TxHash.Hex(), block.Number, v.confirmations))
		return &Outcome{
			Status: StatusConfirmed,
			Confirmed: &ConfirmedDetail{
				BlockNumber:    block.Number,
				BlockTimestamp: block.Time,
				Confirmations:  v.confirmations,
				Receipt:        receipt,
			},
		}, nil

	case verdictWaiting:
		for _, pct := range st.tracker.crossed(v.confirmations, req.Confirmations) {
			m.report(ctx, fmt.Sprintf("Confirmation progress: %d%% (%d/%d confirmations)",
				pct, v.confirmations, req.Confirmations))
		}
		m.report(ctx, fmt.Sprintf("Waiting for %d more confirmation(s) (%d/%d)",
			req.Confirmations-v.confirmations, v.confirmations, req.Confirmations))
		return nil, nil

	default: // verdictPending
		if scanErr != nil {
			return nil, scanErr
		}
		m.report(ctx, fmt.Sprintf("Transaction %s not yet mined", req.TxHash.Hex()))
		return nil, nil
	}
}

// scanForReplacement caches the original transaction's sender and nonce on
// first sight, then fetches every block mined since the previous scan so the
// classifier can look for a same-sender same-nonce transaction. Blocks are
// never re-fetched within one call.
func (m *Monitor) scanForReplacement(ctx context.Context, txHash common.Hash, height uint64, st *waitState) ([]BlockInfo, error) {
	if st.origTx == nil {
		tx, err := m.reader.TransactionByHash(ctx, txHash)
		if err != nil {
			return nil, err
		}
		if tx == nil || tx.From == (common.Address{}) {
			// Unknown transaction or unrecoverable sender: replacement
			// detection stays disabled until a later fetch succeeds.
			return nil, nil
		}
		st.origTx = tx
		if height > 0 {
			st.lastScanned = height - 1
		}
	}

	var blocks []BlockInfo
	for n := st.lastScanned + 1; n <= height && len(blocks) < maxScanPerPoll; n++ {
		block, err := m.reader.BlockByNumber(ctx, n, true)
		if err != nil {
			return blocks, err
		}
		blocks = append(blocks, *block)
		st.lastScanned = n
	}
	return blocks, nil
}

// revertedOutcome assembles the Reverted result, replaying the transaction at
// its inclusion block to recover the revert reason. Failures during recovery
// degrade the reason to "Unknown"; they never prevent the outcome.
func (m *Monitor) revertedOutcome(ctx context.Context, req Request, st *waitState, receipt *types.Receipt, conf uint64) (*Outcome, error) {
	tx := st.origTx
	if tx == nil {
		// Best effort; a failed fetch just leaves the transaction unset.
		tx, _ = m.reader.TransactionByHash(ctx, req.TxHash)
	}

	reason := m.recoverRevertReason(ctx, tx, receipt.BlockNumber)
	m.report(ctx, fmt.Sprintf("Transaction %s reverted in block %d: %s",
		req.TxHash.Hex(), receipt.BlockNumber.Uint64(), reason))

	detail := &RevertedDetail{
		BlockNumber:   receipt.BlockNumber.Uint64(),
		Confirmations: conf,
		RevertReason:  reason,
		GasUsed:       receipt.GasUsed,
		Receipt:       receipt,
		Transaction:   tx,
	}
	if receipt.EffectiveGasPrice != nil {
		detail.EffectiveGasPrice = receipt.EffectiveGasPrice.String()
	}
	return &Outcome{Status: StatusReverted, Reverted: detail}, nil
}

// recoverRevertReason re-executes the transaction as a read-only call at its
// inclusion block. Errors from the replay itself are swallowed; the reason
// falls back to "Unknown".
func (m *Monitor) recoverRevertReason(ctx context.Context, tx *TxInfo, blockNumber *big.Int) string {
	if tx == nil {
		return "Unknown"
	}

	msg := ethereum.CallMsg{
		From: tx.From,
		To:   tx.To,
		Data: tx.Data,
	}
	if tx.Value != nil {
		msg.Value = tx.Value.ToInt()
	}

	ret, err := m.reader.CallContract(ctx, msg, blockNumber)
	if err != nil {
		if reason := reasonFromError(err); reason != "" {
			return reason
		}
		return "Unknown"
	}
	if reason, err := abi.UnpackRevert(ret); err == nil && reason != "" {
		return reason
	}
	return "Unknown"
}

// reasonFromError extracts the revert reason embedded in a node's
// "execution reverted: ..." error text.
func reasonFromError(err error) string {
	text := err.Error()
	if !strings.Contains(text, "execution reverted") {
		return ""
	}
	if parts := strings.SplitN(text, "execution reverted:", 2); len(parts) > 1 {
		if reason := strings.TrimSpace(parts[1]); reason != "" {
			return reason
		}
	}
	return "execution reverted"
}

// report delivers a status message through an error boundary: reporter errors
// are logged at debug level and reporter panics are recovered, so reporting
// can never abort the monitor.
func (m *Monitor) report(ctx context.Context, message string) {
	defer func() {
		if r := recover(); r != nil {
			m.logger.Debug("status reporter panicked", "panic", r)
		}
	}()
	if err := m.reporter.Report(ctx, message); err != nil {
		m.logger.Debug("status report failed", "error", err, "message", message)
	}
}
