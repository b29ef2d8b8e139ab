package server

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ethtoolkit/ethtools/chain"
)

// ABI codec handlers. These are offline; no RPC connection is made.

func (s *Server) encodeFunctionCallHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	abiJSON := getStringArg(request, "abi")
	function := getStringArg(request, "function")
	if abiJSON == "" || function == "" {
		return mcp.NewToolResultError("both abi and function parameters are required"), nil
	}

	result, err := chain.EncodeFunctionCall(abiJSON, function, getArrayArg(request, "args"))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return toolJSON(result)
}

func (s *Server) decodeFunctionResultHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	abiJSON := getStringArg(request, "abi")
	function := getStringArg(request, "function")
	data := getStringArg(request, "data")
	if abiJSON == "" || function == "" || data == "" {
		return mcp.NewToolResultError("abi, function, and data parameters are required"), nil
	}

	result, err := chain.DecodeFunctionResult(abiJSON, function, data)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return toolJSON(result)
}
