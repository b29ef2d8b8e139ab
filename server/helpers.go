package server

import (
	"encoding/json"
	"fmt"

	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ethtoolkit/ethtools/chain"
)

// Helper functions to get arguments from a tool request.

func getStringArg(request mcp.CallToolRequest, key string) string {
	if args, ok := request.Params.Arguments.(map[string]interface{}); ok {
		if val, exists := args[key]; exists {
			if str, ok := val.(string); ok {
				return str
			}
		}
	}
	return ""
}

func getNumberArg(request mcp.CallToolRequest, key string) (float64, bool) {
	if args, ok := request.Params.Arguments.(map[string]interface{}); ok {
		if val, exists := args[key]; exists {
			if n, ok := val.(float64); ok {
				return n, true
			}
		}
	}
	return 0, false
}

func getBoolArg(request mcp.CallToolRequest, key string) bool {
	if args, ok := request.Params.Arguments.(map[string]interface{}); ok {
		if val, exists := args[key]; exists {
			if b, ok := val.(bool); ok {
				return b
			}
		}
	}
	return false
}

func getArrayArg(request mcp.CallToolRequest, key string) []interface{} {
	if args, ok := request.Params.Arguments.(map[string]interface{}); ok {
		if val, exists := args[key]; exists {
			if arr, ok := val.([]interface{}); ok {
				return arr
			}
		}
	}
	return nil
}

// toolJSON serializes a result value into a text tool result.
func toolJSON(v interface{}) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("error serializing result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// resolveRPC picks the request's rpcUrl argument, falling back to the
// server's configured default.
func (s *Server) resolveRPC(request mcp.CallToolRequest) string {
	if rpcURL := getStringArg(request, "rpcUrl"); rpcURL != "" {
		return rpcURL
	}
	return s.defaultRPC
}

// dial connects to the endpoint resolved for this request. The caller must
// Close the returned client.
func (s *Server) dial(request mcp.CallToolRequest) (*ethclient.Client, error) {
	return chain.Dial(s.resolveRPC(request))
}
