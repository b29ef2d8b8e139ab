package chain

import (
	"errors"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBig(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    *big.Int
		wantErr bool
	}{
		{"empty means zero", "", big.NewInt(0), false},
		{"decimal", "1000", big.NewInt(1000), false},
		{"hex", "0x3e8", big.NewInt(1000), false},
		{"uppercase hex prefix", "0X3E8", big.NewInt(1000), false},
		{"negative decimal", "-42", big.NewInt(-42), false},
		{"garbage", "abc", nil, true},
		{"mixed", "10x0", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseBig(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Zero(t, tt.want.Cmp(got))
		})
	}
}

func TestParseBlockNumber(t *testing.T) {
	t.Run("empty and latest mean nil", func(t *testing.T) {
		for _, in := range []string{"", "latest"} {
			n, err := ParseBlockNumber(in)
			require.NoError(t, err)
			assert.Nil(t, n)
		}
	})

	t.Run("pending", func(t *testing.T) {
		n, err := ParseBlockNumber("pending")
		require.NoError(t, err)
		assert.Equal(t, int64(-1), n.Int64())
	})

	t.Run("numeric", func(t *testing.T) {
		n, err := ParseBlockNumber("12345")
		require.NoError(t, err)
		assert.Equal(t, int64(12345), n.Int64())
	})

	t.Run("negative rejected", func(t *testing.T) {
		_, err := ParseBlockNumber("-5")
		assert.Error(t, err)
	})
}

func TestParseHexData(t *testing.T) {
	t.Run("empty and bare prefix mean nil", func(t *testing.T) {
		for _, in := range []string{"", "0x"} {
			data, err := ParseHexData(in)
			require.NoError(t, err)
			assert.Nil(t, data)
		}
	})

	t.Run("with and without prefix", func(t *testing.T) {
		want := []byte{0xde, 0xad, 0xbe, 0xef}
		for _, in := range []string{"0xdeadbeef", "deadbeef"} {
			data, err := ParseHexData(in)
			require.NoError(t, err)
			assert.Equal(t, want, data)
		}
	})

	t.Run("odd length rejected", func(t *testing.T) {
		_, err := ParseHexData("0xabc")
		assert.Error(t, err)
	})
}

func TestRevertReason(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil error", nil, "Unknown reason"},
		{"with reason", errors.New("execution reverted: insufficient balance"), "insufficient balance"},
		{"reverted without detail", errors.New("execution reverted"), "execution reverted"},
		{"unrelated error", errors.New("connection refused"), "Unknown reason"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RevertReason(tt.err))
		})
	}
}

func TestDialRequiresURL(t *testing.T) {
	_, err := Dial("")
	assert.Error(t, err)
}
