package server

import (
	"context"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/ethtoolkit/ethtools/chain"
	"github.com/ethtoolkit/ethtools/monitor"
)

func (s *Server) waitForConfirmationHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	txHash := getStringArg(request, "transactionHash")
	if err := chain.ValidateTxHash("transactionHash", txHash); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	req := monitor.Request{TxHash: common.HexToHash(txHash)}
	if confirmations, ok := getNumberArg(request, "confirmations"); ok {
		if confirmations < 1 {
			return mcp.NewToolResultError("confirmations must be a positive integer"), nil
		}
		req.Confirmations = uint64(confirmations)
	}
	if pollIntervalMs, ok := getNumberArg(request, "pollIntervalMs"); ok {
		if pollIntervalMs <= 0 {
			return mcp.NewToolResultError("pollIntervalMs must be positive"), nil
		}
		req.PollInterval = time.Duration(pollIntervalMs) * time.Millisecond
	}
	if timeoutSeconds, ok := getNumberArg(request, "timeoutSeconds"); ok {
		if timeoutSeconds <= 0 {
			return mcp.NewToolResultError("timeoutSeconds must be positive"), nil
		}
		req.Timeout = time.Duration(timeoutSeconds * float64(time.Second))
	}

	client, err := s.dial(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	defer client.Close()

	reader, err := monitor.NewEthReader(ctx, client)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	mon := monitor.New(reader,
		monitor.WithReporter(s.progressReporter()),
		monitor.WithLogger(s.logger),
	)

	outcome, err := mon.Wait(ctx, req)
	if err != nil {
		// Invalid request or context cancellation; the transport surfaces it.
		return nil, err
	}
	return toolJSON(outcome)
}

// progressReporter forwards monitor status messages to the connected MCP
// client as logging notifications, falling back to the server log when no
// client session is attached. Delivery is best-effort by contract.
func (s *Server) progressReporter() monitor.StatusReporter {
	return monitor.ReporterFunc(func(ctx context.Context, message string) error {
		s.logger.Info(message)
		if srv := mcpserver.ServerFromContext(ctx); srv != nil {
			return srv.SendNotificationToClient(ctx, "notifications/message", map[string]any{
				"level": "info",
				"data":  message,
			})
		}
		return nil
	})
}
