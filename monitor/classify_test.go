package monitor

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func successReceipt(block uint64) *types.Receipt {
	return &types.Receipt{
		Status:      types.ReceiptStatusSuccessful,
		BlockNumber: new(big.Int).SetUint64(block),
	}
}

func failedReceipt(block uint64) *types.Receipt {
	return &types.Receipt{
		Status:      types.ReceiptStatusFailed,
		BlockNumber: new(big.Int).SetUint64(block),
	}
}

func TestConfirmations(t *testing.T) {
	tests := []struct {
		name      string
		height    uint64
		inclusion uint64
		want      uint64
	}{
		{"inclusion block counts as one", 100, 100, 1},
		{"one block on top", 101, 100, 2},
		{"many blocks on top", 110, 100, 11},
		{"height behind inclusion", 99, 100, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, confirmations(tt.height, tt.inclusion))
		})
	}
}

func TestClassify(t *testing.T) {
	txHash := common.HexToHash("0x01")
	sender := &TxInfo{
		Hash:  txHash,
		From:  common.HexToAddress("0xaa00000000000000000000000000000000000001"),
		Nonce: 7,
	}

	t.Run("no receipt and no sender is pending", func(t *testing.T) {
		v := classify(Sample{Height: 100}, txHash, nil, 1)
		assert.Equal(t, verdictPending, v.kind)
	})

	t.Run("mined below threshold is waiting", func(t *testing.T) {
		v := classify(Sample{Height: 101, Receipt: successReceipt(100)}, txHash, sender, 5)
		assert.Equal(t, verdictWaiting, v.kind)
		assert.Equal(t, uint64(2), v.confirmations)
	})

	t.Run("mined at threshold is confirmed", func(t *testing.T) {
		v := classify(Sample{Height: 104, Receipt: successReceipt(100)}, txHash, sender, 5)
		assert.Equal(t, verdictConfirmed, v.kind)
		assert.Equal(t, uint64(5), v.confirmations)
	})

	t.Run("failed status is reverted regardless of threshold", func(t *testing.T) {
		v := classify(Sample{Height: 100, Receipt: failedReceipt(100)}, txHash, sender, 5)
		assert.Equal(t, verdictReverted, v.kind)
		assert.Equal(t, uint64(1), v.confirmations)
	})

	t.Run("same classification for the same sample", func(t *testing.T) {
		sample := Sample{Height: 103, Receipt: successReceipt(100)}
		first := classify(sample, txHash, sender, 4)
		second := classify(sample, txHash, sender, 4)
		assert.Equal(t, first, second)
	})

	t.Run("same-nonce transaction from sender is a replacement", func(t *testing.T) {
		replacement := TxInfo{
			Hash:  common.HexToHash("0x02"),
			From:  sender.From,
			Nonce: sender.Nonce,
		}
		sample := Sample{
			Height:    100,
			NewBlocks: []BlockInfo{{Number: 100, Transactions: []TxInfo{replacement}}},
		}
		v := classify(sample, txHash, sender, 1)
		require.Equal(t, verdictReplaced, v.kind)
		assert.Equal(t, replacement.Hash, v.replacement.Hash)
	})

	t.Run("receipt wins over replacement scan", func(t *testing.T) {
		replacement := TxInfo{Hash: common.HexToHash("0x02"), From: sender.From, Nonce: sender.Nonce}
		sample := Sample{
			Height:    100,
			Receipt:   successReceipt(100),
			NewBlocks: []BlockInfo{{Number: 100, Transactions: []TxInfo{replacement}}},
		}
		v := classify(sample, txHash, sender, 1)
		assert.Equal(t, verdictConfirmed, v.kind)
	})
}

func TestFindReplacement(t *testing.T) {
	from := common.HexToAddress("0xaa00000000000000000000000000000000000001")
	other := common.HexToAddress("0xbb00000000000000000000000000000000000002")
	original := common.HexToHash("0x01")

	blocks := []BlockInfo{
		{Number: 100, Transactions: []TxInfo{
			{Hash: common.HexToHash("0x10"), From: other, Nonce: 7},
			{Hash: common.HexToHash("0x11"), From: from, Nonce: 8},
		}},
		{Number: 101, Transactions: []TxInfo{
			{Hash: common.HexToHash("0x12"), From: from, Nonce: 7},
		}},
	}

	t.Run("matches sender and nonce only", func(t *testing.T) {
		repl := findReplacement(blocks, from, 7, original)
		require.NotNil(t, repl)
		assert.Equal(t, common.HexToHash("0x12"), repl.Hash)
	})

	t.Run("the original transaction itself is not a replacement", func(t *testing.T) {
		own := []BlockInfo{{Number: 100, Transactions: []TxInfo{
			{Hash: original, From: from, Nonce: 7},
		}}}
		assert.Nil(t, findReplacement(own, from, 7, original))
	})

	t.Run("no match", func(t *testing.T) {
		assert.Nil(t, findReplacement(blocks, from, 9, original))
	})
}

func TestMilestoneTracker(t *testing.T) {
	t.Run("single confirmation reports no milestones", func(t *testing.T) {
		var tr milestoneTracker
		assert.Nil(t, tr.crossed(1, 1))
	})

	t.Run("each milestone reported once in order", func(t *testing.T) {
		var tr milestoneTracker
		assert.Equal(t, []int{25}, tr.crossed(1, 4))
		assert.Equal(t, []int{50}, tr.crossed(2, 4))
		assert.Nil(t, tr.crossed(2, 4))
		assert.Equal(t, []int{75}, tr.crossed(3, 4))
		assert.Equal(t, []int{100}, tr.crossed(4, 4))
		assert.Nil(t, tr.crossed(5, 4))
	})

	t.Run("a jump reports all skipped milestones", func(t *testing.T) {
		var tr milestoneTracker
		assert.Equal(t, []int{25, 50, 75}, tr.crossed(8, 10))
	})
}
