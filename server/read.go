package server

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ethtoolkit/ethtools/chain"
)

// Read-only chain query handlers. Each is a single RPC call mapped to JSON;
// user-facing failures come back as tool error results, not Go errors.

func (s *Server) getBalanceHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	client, err := s.dial(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	defer client.Close()

	result, err := chain.Balance(ctx, client, getStringArg(request, "address"), getStringArg(request, "block"))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return toolJSON(result)
}

func (s *Server) getTokenBalanceHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	client, err := s.dial(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	defer client.Close()

	result, err := chain.TokenBalance(ctx, client,
		getStringArg(request, "tokenAddress"),
		getStringArg(request, "walletAddress"))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return toolJSON(result)
}

func (s *Server) getAllowanceHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	client, err := s.dial(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	defer client.Close()

	result, err := chain.Allowance(ctx, client,
		getStringArg(request, "tokenAddress"),
		getStringArg(request, "ownerAddress"),
		getStringArg(request, "spenderAddress"))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return toolJSON(result)
}

func (s *Server) getBlockHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	client, err := s.dial(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	defer client.Close()

	result, err := chain.Block(ctx, client,
		getStringArg(request, "block"),
		getBoolArg(request, "fullTransactions"))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return toolJSON(result)
}

func (s *Server) getTransactionHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	client, err := s.dial(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	defer client.Close()

	result, err := chain.Transaction(ctx, client, getStringArg(request, "hash"))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return toolJSON(result)
}

func (s *Server) getReceiptHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	client, err := s.dial(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	defer client.Close()

	result, err := chain.Receipt(ctx, client, getStringArg(request, "hash"))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return toolJSON(result)
}

func (s *Server) getGasPriceHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	client, err := s.dial(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	defer client.Close()

	result, err := chain.GasPrice(ctx, client)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return toolJSON(result)
}

func (s *Server) estimateGasHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	client, err := s.dial(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	defer client.Close()

	result, err := chain.EstimateGas(ctx, client, chain.CallParams{
		From:  getStringArg(request, "from"),
		To:    getStringArg(request, "to"),
		Data:  getStringArg(request, "data"),
		Value: getStringArg(request, "value"),
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return toolJSON(result)
}

func (s *Server) callContractHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	client, err := s.dial(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	defer client.Close()

	result, err := chain.Call(ctx, client, chain.CallParams{
		From:  getStringArg(request, "from"),
		To:    getStringArg(request, "to"),
		Data:  getStringArg(request, "data"),
		Value: getStringArg(request, "value"),
		Block: getStringArg(request, "block"),
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return toolJSON(result)
}

func (s *Server) getLogsHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	client, err := s.dial(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	defer client.Close()

	var topics []string
	for _, topic := range getArrayArg(request, "topics") {
		topics = append(topics, fmt.Sprintf("%v", topic))
	}

	result, err := chain.Logs(ctx, client, chain.LogsParams{
		Address:   getStringArg(request, "address"),
		Topics:    topics,
		FromBlock: getStringArg(request, "fromBlock"),
		ToBlock:   getStringArg(request, "toBlock"),
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return toolJSON(result)
}

func (s *Server) getChainIDHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	client, err := s.dial(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	defer client.Close()

	result, err := chain.ChainID(ctx, client)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return toolJSON(result)
}
