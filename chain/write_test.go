package chain

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignMessage(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	address := crypto.PubkeyToAddress(key.PublicKey)

	t.Run("signature recovers the signing address", func(t *testing.T) {
		message := "hello world"
		result, err := SignMessage(key, message)
		require.NoError(t, err)

		assert.Equal(t, address.Hex(), result.Address)
		assert.Equal(t, message, result.Message)

		sig, err := hexutil.Decode(result.Signature)
		require.NoError(t, err)
		require.Len(t, sig, 65)
		assert.Contains(t, []byte{27, 28}, sig[64])

		prefixed := fmt.Sprintf("%s%d%s", personalMessagePrefix, len(message), message)
		hash := crypto.Keccak256([]byte(prefixed))
		assert.Equal(t, hexutil.Encode(hash), result.MessageHash)

		sig[64] -= 27
		pub, err := crypto.SigToPub(hash, sig)
		require.NoError(t, err)
		assert.Equal(t, address, crypto.PubkeyToAddress(*pub))
	})

	t.Run("empty message rejected", func(t *testing.T) {
		_, err := SignMessage(key, "")
		assert.Error(t, err)
	})

	t.Run("missing key rejected", func(t *testing.T) {
		_, err := SignMessage(nil, "hello")
		assert.Error(t, err)
	})
}

// Parameter validation runs before any RPC use, so a nil client proves these
// requests are rejected without touching the network.
func TestSendTransactionValidatesParams(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	recipient := "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed"

	t.Run("negative decimal value rejected", func(t *testing.T) {
		_, err := SendTransaction(context.Background(), nil, key, SendParams{
			To:    recipient,
			Value: "-5",
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "negative")
	})

	t.Run("oversized decimal value rejected", func(t *testing.T) {
		_, err := SendTransaction(context.Background(), nil, key, SendParams{
			To:    recipient,
			Value: strings.Repeat("9", MaxAmountDigits+1),
		})
		require.Error(t, err)
	})

	t.Run("zero address recipient rejected", func(t *testing.T) {
		_, err := SendTransaction(context.Background(), nil, key, SendParams{
			To: ZeroAddress,
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "zero address")
	})

	t.Run("missing key rejected", func(t *testing.T) {
		_, err := SendTransaction(context.Background(), nil, nil, SendParams{To: recipient})
		require.Error(t, err)
	})
}
