package monitor

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// The decision logic below is pure: it sees one Sample per poll iteration and
// never performs I/O, so every transition is unit-testable with synthetic
// receipts and blocks.

// Sample is one iteration's view of chain state. NewBlocks carries the blocks
// mined since the previous replacement scan (full transactions included) and
// is empty whenever the sender is still unknown.
type Sample struct {
	Height    uint64
	Receipt   *types.Receipt
	NewBlocks []BlockInfo
}

type verdictKind int

const (
	// verdictPending: no receipt, no replacement found; keep polling.
	verdictPending verdictKind = iota
	// verdictWaiting: mined successfully but below the confirmation
	// threshold; keep polling.
	verdictWaiting
	// verdictConfirmed: mined successfully at or above the threshold.
	verdictConfirmed
	// verdictReverted: mined with failed execution status.
	verdictReverted
	// verdictReplaced: a different transaction with the original sender's
	// nonce was mined.
	verdictReplaced
)

type verdict struct {
	kind          verdictKind
	confirmations uint64
	replacement   *TxInfo
}

// classify maps one sample to a verdict. sender is the cached sender/nonce of
// the original transaction (nil until its first successful fetch).
func classify(s Sample, txHash common.Hash, sender *TxInfo, want uint64) verdict {
	if s.Receipt == nil {
		if sender != nil {
			if repl := findReplacement(s.NewBlocks, sender.From, sender.Nonce, txHash); repl != nil {
				return verdict{kind: verdictReplaced, replacement: repl}
			}
		}
		return verdict{kind: verdictPending}
	}

	conf := confirmations(s.Height, s.Receipt.BlockNumber.Uint64())

	if s.Receipt.Status == types.ReceiptStatusFailed {
		return verdict{kind: verdictReverted, confirmations: conf}
	}
	if conf >= want {
		return verdict{kind: verdictConfirmed, confirmations: conf}
	}
	return verdict{kind: verdictWaiting, confirmations: conf}
}

// confirmations counts the inclusion block as confirmation 1. A height read
// that races behind the receipt's inclusion block yields 0, which just costs
// one extra iteration.
func confirmations(height, inclusion uint64) uint64 {
	if height < inclusion {
		return 0
	}
	return height - inclusion + 1
}

// findReplacement scans blocks for a transaction from the same sender with
// the same nonce but a different hash.
func findReplacement(blocks []BlockInfo, from common.Address, nonce uint64, original common.Hash) *TxInfo {
	for i := range blocks {
		for j := range blocks[i].Transactions {
			tx := &blocks[i].Transactions[j]
			if tx.From == from && tx.Nonce == nonce && tx.Hash != original {
				return tx
			}
		}
	}
	return nil
}

// milestones are the progress percentages announced at most once per call.
var milestones = [...]int{25, 50, 75, 100}

// milestoneTracker remembers the highest percentage milestone already
// reported so each is announced exactly once, in increasing order.
type milestoneTracker struct {
	reported int
}

// crossed returns the milestones newly reached by the given confirmation
// count. Milestone reporting only applies when more than one confirmation is
// expected; a single confirmation is binary, not fractional.
func (m *milestoneTracker) crossed(confirmations, want uint64) []int {
	if want <= 1 {
		return nil
	}

	percentage := int(confirmations * 100 / want)
	var out []int
	for _, threshold := range milestones {
		if threshold > m.reported && percentage >= threshold {
			out = append(out, threshold)
			m.reported = threshold
		}
	}
	return out
}
