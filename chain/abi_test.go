package chain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const transferABI = `[{
	"name": "transfer",
	"type": "function",
	"inputs": [
		{"name": "to", "type": "address"},
		{"name": "amount", "type": "uint256"}
	],
	"outputs": [{"name": "", "type": "bool"}]
}]`

func TestEncodeFunctionCall(t *testing.T) {
	t.Run("erc20 transfer", func(t *testing.T) {
		result, err := EncodeFunctionCall(transferABI, "transfer", []interface{}{
			"0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed",
			"1000",
		})
		require.NoError(t, err)

		assert.Equal(t, "transfer(address,uint256)", result["function"])
		assert.Equal(t,
			"0xa9059cbb"+
				"0000000000000000000000005aaeb6053f3e94c9b9a09f33669435e7ef1beaed"+
				"00000000000000000000000000000000000000000000000000000000000003e8",
			result["data"])
	})

	t.Run("hex amounts are accepted", func(t *testing.T) {
		decimal, err := EncodeFunctionCall(transferABI, "transfer", []interface{}{
			"0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed", "1000",
		})
		require.NoError(t, err)
		hex, err := EncodeFunctionCall(transferABI, "transfer", []interface{}{
			"0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed", "0x3e8",
		})
		require.NoError(t, err)
		assert.Equal(t, decimal["data"], hex["data"])
	})

	t.Run("unknown function", func(t *testing.T) {
		_, err := EncodeFunctionCall(transferABI, "approve", nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not found")
	})

	t.Run("argument count mismatch", func(t *testing.T) {
		_, err := EncodeFunctionCall(transferABI, "transfer", []interface{}{"0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "expects 2 argument(s)")
	})

	t.Run("invalid address", func(t *testing.T) {
		_, err := EncodeFunctionCall(transferABI, "transfer", []interface{}{"not-an-address", "1"})
		require.Error(t, err)
	})

	t.Run("invalid abi json", func(t *testing.T) {
		_, err := EncodeFunctionCall("{", "transfer", nil)
		require.Error(t, err)
	})
}

func TestEncodeFunctionCallComplexTypes(t *testing.T) {
	const multiABI = `[{
		"name": "batch",
		"type": "function",
		"inputs": [
			{"name": "recipients", "type": "address[]"},
			{"name": "amounts", "type": "uint256[]"},
			{"name": "id", "type": "bytes32"},
			{"name": "enabled", "type": "bool"}
		]
	}]`

	t.Run("arrays, fixed bytes, and bool", func(t *testing.T) {
		result, err := EncodeFunctionCall(multiABI, "batch", []interface{}{
			[]interface{}{"0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed", ZeroAddress},
			[]interface{}{"1", float64(2)},
			"0x0101010101010101010101010101010101010101010101010101010101010101",
			true,
		})
		require.NoError(t, err)
		assert.Equal(t, "batch(address[],uint256[],bytes32,bool)", result["function"])
	})

	t.Run("fixed bytes length mismatch", func(t *testing.T) {
		_, err := EncodeFunctionCall(multiABI, "batch", []interface{}{
			[]interface{}{}, []interface{}{}, "0x0101", true,
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "expected 32 bytes")
	})

	t.Run("bool type mismatch", func(t *testing.T) {
		_, err := EncodeFunctionCall(multiABI, "batch", []interface{}{
			[]interface{}{}, []interface{}{},
			"0x0101010101010101010101010101010101010101010101010101010101010101",
			"yes",
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "expected boolean")
	})
}

func TestDecodeFunctionResult(t *testing.T) {
	t.Run("uint256 return value", func(t *testing.T) {
		result, err := DecodeFunctionResult(ERC20ABI, "balanceOf",
			"0x0000000000000000000000000000000000000000000000000de0b6b3a7640000")
		require.NoError(t, err)

		values, ok := result["values"].([]interface{})
		require.True(t, ok)
		require.Len(t, values, 1)
		assert.Equal(t, "1000000000000000000", values[0])
	})

	t.Run("string return value", func(t *testing.T) {
		// abi-encoded "USDC"
		result, err := DecodeFunctionResult(ERC20ABI, "symbol",
			"0x0000000000000000000000000000000000000000000000000000000000000020"+
				"0000000000000000000000000000000000000000000000000000000000000004"+
				"5553444300000000000000000000000000000000000000000000000000000000")
		require.NoError(t, err)

		values := result["values"].([]interface{})
		require.Len(t, values, 1)
		assert.Equal(t, "USDC", values[0])
	})

	t.Run("truncated data", func(t *testing.T) {
		_, err := DecodeFunctionResult(ERC20ABI, "balanceOf", "0x0de0")
		require.Error(t, err)
	})

	t.Run("unknown function", func(t *testing.T) {
		_, err := DecodeFunctionResult(ERC20ABI, "totalSupply", "0x")
		require.Error(t, err)
	})
}

func TestShrinkIntWidths(t *testing.T) {
	const widthABI = `[{
		"name": "f",
		"type": "function",
		"inputs": [
			{"name": "a", "type": "uint8"},
			{"name": "b", "type": "int64"},
			{"name": "c", "type": "uint24"}
		]
	}]`

	t.Run("values within range pack", func(t *testing.T) {
		_, err := EncodeFunctionCall(widthABI, "f", []interface{}{
			float64(255), "-42", "1000000",
		})
		require.NoError(t, err)
	})

	t.Run("uint8 overflow rejected", func(t *testing.T) {
		_, err := EncodeFunctionCall(widthABI, "f", []interface{}{
			float64(256), "0", "0",
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "out of range")
	})

	t.Run("negative value rejected for unsigned", func(t *testing.T) {
		_, err := EncodeFunctionCall(widthABI, "f", []interface{}{
			"-1", "0", "0",
		})
		require.Error(t, err)
	})
}
