package server

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// Server exposes the Ethereum toolkit as MCP tools over stdio.
type Server struct {
	mcpServer  *mcpserver.MCPServer
	version    string
	logger     *slog.Logger
	defaultRPC string
	privateKey *ecdsa.PrivateKey
}

// NewServer creates a new MCP server instance. defaultRPC is used whenever a
// tool call omits the rpcUrl argument; it may be empty.
func NewServer(version, defaultRPC string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		version:    version,
		logger:     logger,
		defaultRPC: defaultRPC,
	}

	s.mcpServer = mcpserver.NewMCPServer(
		"ethtools",
		version,
	)

	s.registerTools()

	return s
}

// GetMCPServer returns the underlying MCP server for in-process transport
func (s *Server) GetMCPServer() *mcpserver.MCPServer {
	return s.mcpServer
}

// ServeStdio runs the server over stdin/stdout until the client disconnects.
func (s *Server) ServeStdio() error {
	return mcpserver.ServeStdio(s.mcpServer)
}

// withPanicRecovery wraps a handler with panic recovery to prevent server crashes
func (s *Server) withPanicRecovery(handler mcpserver.ToolHandlerFunc) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (result *mcp.CallToolResult, err error) {
		defer func() {
			if r := recover(); r != nil {
				stack := debug.Stack()
				s.logger.Error("Handler panic recovered",
					"panic", r,
					"stack", string(stack),
				)
				result = mcp.NewToolResultError(fmt.Sprintf("internal error: handler panic: %v", r))
				err = nil
			}
		}()
		return handler(ctx, request)
	}
}

// registerTools registers the read-only, ABI, and monitoring tools. Wallet
// tools are registered separately once a keystore is loaded.
func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("health_check",
		mcp.WithDescription("Check the health status of the ethtools MCP server. Returns the server version. Use this for health monitoring and orchestration."),
	), s.withPanicRecovery(s.healthCheckHandler))

	// Read-only chain queries
	s.mcpServer.AddTool(mcp.NewTool("get_balance",
		mcp.WithDescription("Get the native token balance (ETH on Ethereum) of any address in wei. Optionally at a historical block."),
		mcp.WithString("rpcUrl", mcp.Description("JSON-RPC endpoint URL. Falls back to the server's configured default when omitted.")),
		mcp.WithString("address", mcp.Description("Address to check balance for (0x... format, 42 characters)."), mcp.Required()),
		mcp.WithString("block", mcp.Description("Block number (decimal or 0x hex), 'latest', or 'pending'. Defaults to latest.")),
	), s.withPanicRecovery(s.getBalanceHandler))

	s.mcpServer.AddTool(mcp.NewTool("get_erc20_balance",
		mcp.WithDescription("Get the ERC20 token balance of a wallet address in the token's smallest unit, with symbol and decimals."),
		mcp.WithString("rpcUrl", mcp.Description("JSON-RPC endpoint URL. Falls back to the server's configured default when omitted.")),
		mcp.WithString("tokenAddress", mcp.Description("ERC20 token contract address (0x... format)."), mcp.Required()),
		mcp.WithString("walletAddress", mcp.Description("Wallet address to check balance for (0x... format)."), mcp.Required()),
	), s.withPanicRecovery(s.getTokenBalanceHandler))

	s.mcpServer.AddTool(mcp.NewTool("get_erc20_allowance",
		mcp.WithDescription("Check how many ERC20 tokens a spender is approved to use on behalf of an owner."),
		mcp.WithString("rpcUrl", mcp.Description("JSON-RPC endpoint URL. Falls back to the server's configured default when omitted.")),
		mcp.WithString("tokenAddress", mcp.Description("ERC20 token contract address."), mcp.Required()),
		mcp.WithString("ownerAddress", mcp.Description("Wallet address that owns the tokens."), mcp.Required()),
		mcp.WithString("spenderAddress", mcp.Description("Contract address that would spend the tokens."), mcp.Required()),
	), s.withPanicRecovery(s.getAllowanceHandler))

	s.mcpServer.AddTool(mcp.NewTool("get_block",
		mcp.WithDescription("Get a block by number or hash. Returns block metadata (timestamp, miner, gas) and optionally the full transaction list."),
		mcp.WithString("rpcUrl", mcp.Description("JSON-RPC endpoint URL. Falls back to the server's configured default when omitted.")),
		mcp.WithString("block", mcp.Description("Block number (decimal or 0x hex), block hash (0x + 64 hex chars), or 'latest'. Defaults to latest.")),
		mcp.WithBoolean("fullTransactions", mcp.Description("Include the full transaction objects instead of just the count.")),
	), s.withPanicRecovery(s.getBlockHandler))

	s.mcpServer.AddTool(mcp.NewTool("get_transaction",
		mcp.WithDescription("Get a transaction by hash, mined or pending. Returns sender, recipient, nonce, value, gas parameters, and input data."),
		mcp.WithString("rpcUrl", mcp.Description("JSON-RPC endpoint URL. Falls back to the server's configured default when omitted.")),
		mcp.WithString("hash", mcp.Description("Transaction hash (0x + 64 hex chars)."), mcp.Required()),
	), s.withPanicRecovery(s.getTransactionHandler))

	s.mcpServer.AddTool(mcp.NewTool("get_transaction_receipt",
		mcp.WithDescription("Get the receipt of a mined transaction: execution status (success/failed), block, gas used, effective gas price, and logs."),
		mcp.WithString("rpcUrl", mcp.Description("JSON-RPC endpoint URL. Falls back to the server's configured default when omitted.")),
		mcp.WithString("hash", mcp.Description("Transaction hash (0x + 64 hex chars)."), mcp.Required()),
	), s.withPanicRecovery(s.getReceiptHandler))

	s.mcpServer.AddTool(mcp.NewTool("get_gas_price",
		mcp.WithDescription("Get the current suggested gas price in wei, plus base fee and priority fee on EIP-1559 chains."),
		mcp.WithString("rpcUrl", mcp.Description("JSON-RPC endpoint URL. Falls back to the server's configured default when omitted.")),
	), s.withPanicRecovery(s.getGasPriceHandler))

	s.mcpServer.AddTool(mcp.NewTool("estimate_gas",
		mcp.WithDescription("Estimate the gas required for a transaction without sending it. Surfaces the revert reason when the call would fail."),
		mcp.WithString("rpcUrl", mcp.Description("JSON-RPC endpoint URL. Falls back to the server's configured default when omitted.")),
		mcp.WithString("to", mcp.Description("Recipient or contract address."), mcp.Required()),
		mcp.WithString("from", mcp.Description("Sender address. Affects balance and allowance checks during estimation.")),
		mcp.WithString("data", mcp.Description("Call data as 0x-prefixed hex.")),
		mcp.WithString("value", mcp.Description("Value to send in wei (decimal or 0x hex).")),
	), s.withPanicRecovery(s.estimateGasHandler))

	s.mcpServer.AddTool(mcp.NewTool("call_contract",
		mcp.WithDescription("Execute a read-only contract call (eth_call) and return the raw result as hex. Use encode_function_call to build the data and decode_function_result to interpret the result."),
		mcp.WithString("rpcUrl", mcp.Description("JSON-RPC endpoint URL. Falls back to the server's configured default when omitted.")),
		mcp.WithString("to", mcp.Description("Contract address to call."), mcp.Required()),
		mcp.WithString("data", mcp.Description("ABI-encoded call data as 0x-prefixed hex."), mcp.Required()),
		mcp.WithString("from", mcp.Description("Caller address, if the contract's behavior depends on it.")),
		mcp.WithString("value", mcp.Description("Value in wei to simulate sending with the call.")),
		mcp.WithString("block", mcp.Description("Block number to execute at (decimal or 0x hex). Defaults to latest.")),
	), s.withPanicRecovery(s.callContractHandler))

	s.mcpServer.AddTool(mcp.NewTool("get_logs",
		mcp.WithDescription("Query event logs matching an address and topic filter over a block range."),
		mcp.WithString("rpcUrl", mcp.Description("JSON-RPC endpoint URL. Falls back to the server's configured default when omitted.")),
		mcp.WithString("address", mcp.Description("Contract address to filter logs by. Omit for all addresses.")),
		mcp.WithArray("topics", mcp.Description("Positional topic filters (0x + 64 hex chars each). Use an empty string to wildcard a position.")),
		mcp.WithString("fromBlock", mcp.Description("Start of the block range (decimal or 0x hex). Defaults to latest.")),
		mcp.WithString("toBlock", mcp.Description("End of the block range (decimal or 0x hex). Defaults to latest.")),
	), s.withPanicRecovery(s.getLogsHandler))

	s.mcpServer.AddTool(mcp.NewTool("get_chain_id",
		mcp.WithDescription("Get the chain ID of the connected network."),
		mcp.WithString("rpcUrl", mcp.Description("JSON-RPC endpoint URL. Falls back to the server's configured default when omitted.")),
	), s.withPanicRecovery(s.getChainIDHandler))

	// ABI codec (offline, no RPC needed)
	s.mcpServer.AddTool(mcp.NewTool("encode_function_call",
		mcp.WithDescription("ABI-encode a contract function call into 0x-prefixed call data. Numbers may be decimal strings, addresses are hex strings, bytes are hex strings."),
		mcp.WithString("abi", mcp.Description("The contract ABI as a JSON string (the full ABI or just the relevant function entry)."), mcp.Required()),
		mcp.WithString("function", mcp.Description("Function name to encode (e.g. 'transfer')."), mcp.Required()),
		mcp.WithArray("args", mcp.Description("Function arguments in order. Use strings for addresses, big numbers, and bytes; booleans and small integers may be literals.")),
	), s.withPanicRecovery(s.encodeFunctionCallHandler))

	s.mcpServer.AddTool(mcp.NewTool("decode_function_result",
		mcp.WithDescription("Decode the return data of a contract call using the function's ABI output types. Big integers come back as decimal strings."),
		mcp.WithString("abi", mcp.Description("The contract ABI as a JSON string."), mcp.Required()),
		mcp.WithString("function", mcp.Description("Function name whose outputs describe the data."), mcp.Required()),
		mcp.WithString("data", mcp.Description("Return data as 0x-prefixed hex."), mcp.Required()),
	), s.withPanicRecovery(s.decodeFunctionResultHandler))

	// Confirmation monitor
	s.mcpServer.AddTool(mcp.NewTool("wait_for_transaction_confirmation",
		mcp.WithDescription("Wait until a transaction is confirmed, reverted, replaced, or the timeout elapses. Polls the chain and reports progress. Returns a discriminated outcome: 'confirmed' (with block and receipt), 'reverted' (with best-effort revert reason), 'replaced' (same sender and nonce mined under a different hash), or 'timed_out'."),
		mcp.WithString("rpcUrl", mcp.Description("JSON-RPC endpoint URL. Falls back to the server's configured default when omitted.")),
		mcp.WithString("transactionHash", mcp.Description("Transaction hash to monitor (0x + 64 hex chars)."), mcp.Required()),
		mcp.WithNumber("confirmations", mcp.Description("Number of blocks that must follow the inclusion block, counting inclusion itself as the first confirmation. Default 1.")),
		mcp.WithNumber("pollIntervalMs", mcp.Description("Milliseconds between polling attempts. Default 1000.")),
		mcp.WithNumber("timeoutSeconds", mcp.Description("Total wall-clock time in seconds before giving up. Default 300.")),
	), s.withPanicRecovery(s.waitForConfirmationHandler))
}

// RegisterWalletTools registers the signing and sending tools. Call this only
// after a keystore has been loaded.
func (s *Server) RegisterWalletTools() {
	s.mcpServer.AddTool(mcp.NewTool("get_wallet_address",
		mcp.WithDescription("Get the address of the loaded wallet."),
	), s.withPanicRecovery(s.getWalletAddressHandler))

	s.mcpServer.AddTool(mcp.NewTool("sign_message",
		mcp.WithDescription("Sign a message with the loaded wallet key using EIP-191 personal-message semantics. Returns the signature and the message hash."),
		mcp.WithString("message", mcp.Description("The message text to sign."), mcp.Required()),
	), s.withPanicRecovery(s.signMessageHandler))

	s.mcpServer.AddTool(mcp.NewTool("send_transaction",
		mcp.WithDescription("Build, sign, and submit a transaction from the loaded wallet. Simulates first to surface revert reasons, estimates gas with a safety buffer, and uses EIP-1559 fees when the chain supports them. Use wait_for_transaction_confirmation to track the result."),
		mcp.WithString("rpcUrl", mcp.Description("JSON-RPC endpoint URL. Falls back to the server's configured default when omitted.")),
		mcp.WithString("to", mcp.Description("Recipient or contract address."), mcp.Required()),
		mcp.WithString("value", mcp.Description("Value to send in wei (decimal or 0x hex). Default 0.")),
		mcp.WithString("data", mcp.Description("Call data as 0x-prefixed hex for contract interactions.")),
		mcp.WithNumber("gasLimit", mcp.Description("Gas limit. Estimated automatically when omitted.")),
		mcp.WithNumber("nonce", mcp.Description("Explicit nonce. The pending nonce is used when omitted. Reusing a pending transaction's nonce replaces it.")),
	), s.withPanicRecovery(s.sendTransactionHandler))

	s.mcpServer.AddTool(mcp.NewTool("send_raw_transaction",
		mcp.WithDescription("Submit a pre-signed, RLP-encoded transaction to the network."),
		mcp.WithString("rpcUrl", mcp.Description("JSON-RPC endpoint URL. Falls back to the server's configured default when omitted.")),
		mcp.WithString("signedTransaction", mcp.Description("The signed transaction as 0x-prefixed hex."), mcp.Required()),
	), s.withPanicRecovery(s.sendRawTransactionHandler))
}

func (s *Server) healthCheckHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return toolJSON(map[string]string{
		"status":  "ok",
		"version": s.version,
	})
}
