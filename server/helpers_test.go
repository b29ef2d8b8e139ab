package server

import (
	"log/slog"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requestWithArgs(args map[string]interface{}) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

func TestArgumentHelpers(t *testing.T) {
	req := requestWithArgs(map[string]interface{}{
		"address": "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed",
		"count":   float64(3),
		"full":    true,
		"topics":  []interface{}{"0xaa", "0xbb"},
	})

	t.Run("string", func(t *testing.T) {
		assert.Equal(t, "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed", getStringArg(req, "address"))
		assert.Empty(t, getStringArg(req, "missing"))
		assert.Empty(t, getStringArg(req, "count")) // wrong type
	})

	t.Run("number", func(t *testing.T) {
		n, ok := getNumberArg(req, "count")
		assert.True(t, ok)
		assert.Equal(t, float64(3), n)

		_, ok = getNumberArg(req, "missing")
		assert.False(t, ok)
		_, ok = getNumberArg(req, "address")
		assert.False(t, ok)
	})

	t.Run("bool", func(t *testing.T) {
		assert.True(t, getBoolArg(req, "full"))
		assert.False(t, getBoolArg(req, "missing"))
	})

	t.Run("array", func(t *testing.T) {
		assert.Equal(t, []interface{}{"0xaa", "0xbb"}, getArrayArg(req, "topics"))
		assert.Nil(t, getArrayArg(req, "missing"))
	})

	t.Run("non-map arguments", func(t *testing.T) {
		var empty mcp.CallToolRequest
		assert.Empty(t, getStringArg(empty, "address"))
		assert.False(t, getBoolArg(empty, "full"))
	})
}

func TestToolJSON(t *testing.T) {
	result, err := toolJSON(map[string]string{"balance": "1000"})
	require.NoError(t, err)
	require.Len(t, result.Content, 1)

	text, ok := mcp.AsTextContent(result.Content[0])
	require.True(t, ok)
	assert.JSONEq(t, `{"balance":"1000"}`, text.Text)
}

func TestResolveRPC(t *testing.T) {
	s := NewServer("test", "https://default.example.org", slog.Default())

	t.Run("argument overrides the default", func(t *testing.T) {
		req := requestWithArgs(map[string]interface{}{"rpcUrl": "https://override.example.org"})
		assert.Equal(t, "https://override.example.org", s.resolveRPC(req))
	})

	t.Run("falls back to the server default", func(t *testing.T) {
		assert.Equal(t, "https://default.example.org", s.resolveRPC(requestWithArgs(nil)))
	})
}
