package server

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ethtoolkit/ethtools/chain"
)

// DefaultKeystoreDir returns the standard Ethereum keystore directory for the
// current operating system.
func DefaultKeystoreDir() (string, error) {
	usr, err := user.Current()
	if err != nil {
		return "", fmt.Errorf("failed to get current user: %w", err)
	}

	switch runtime.GOOS {
	case "linux":
		return filepath.Join(usr.HomeDir, ".ethereum", "keystore"), nil
	case "darwin":
		return filepath.Join(usr.HomeDir, "Library", "Ethereum", "keystore"), nil
	case "windows":
		return filepath.Join(usr.HomeDir, "AppData", "Roaming", "Ethereum", "keystore"), nil
	default:
		return "", fmt.Errorf("unsupported operating system: %s", runtime.GOOS)
	}
}

// LoadKeystoreKey finds a keystore file whose name contains keystoreName
// under dir (the OS default when dir is empty) and decrypts it.
func LoadKeystoreKey(dir, keystoreName, password string) (*ecdsa.PrivateKey, error) {
	if dir == "" {
		var err error
		dir, err = DefaultKeystoreDir()
		if err != nil {
			return nil, err
		}
	}

	files, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read keystore directory: %w", err)
	}

	var keystorePath string
	for _, file := range files {
		if strings.Contains(file.Name(), keystoreName) {
			keystorePath = filepath.Join(dir, file.Name())
			break
		}
	}
	if keystorePath == "" {
		return nil, fmt.Errorf("keystore not found with name: %s", keystoreName)
	}

	keystoreJSON, err := os.ReadFile(keystorePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read keystore file: %w", err)
	}

	key, err := keystore.DecryptKey(keystoreJSON, password)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt keystore: %w", err)
	}

	return key.PrivateKey, nil
}

// LoadKeystore decrypts a keystore file and arms the wallet tools.
func (s *Server) LoadKeystore(dir, keystoreName, password string) error {
	key, err := LoadKeystoreKey(dir, keystoreName, password)
	if err != nil {
		return err
	}
	s.privateKey = key
	return nil
}

// GetWalletAddress returns the address of the loaded private key.
func (s *Server) GetWalletAddress() (string, error) {
	if s.privateKey == nil {
		return "", errors.New("no private key loaded")
	}
	return crypto.PubkeyToAddress(s.privateKey.PublicKey).Hex(), nil
}

func (s *Server) getWalletAddressHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	address, err := s.GetWalletAddress()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return toolJSON(map[string]string{"address": address})
}

func (s *Server) signMessageHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if s.privateKey == nil {
		return mcp.NewToolResultError("no private key loaded. Please start the server with a keystore"), nil
	}

	result, err := chain.SignMessage(s.privateKey, getStringArg(request, "message"))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return toolJSON(result)
}

func (s *Server) sendTransactionHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if s.privateKey == nil {
		return mcp.NewToolResultError("no private key loaded. Please start the server with a keystore"), nil
	}

	client, err := s.dial(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	defer client.Close()

	params := chain.SendParams{
		To:    getStringArg(request, "to"),
		Value: getStringArg(request, "value"),
		Data:  getStringArg(request, "data"),
	}
	if gasLimit, ok := getNumberArg(request, "gasLimit"); ok && gasLimit > 0 {
		params.GasLimit = uint64(gasLimit)
	}
	if nonce, ok := getNumberArg(request, "nonce"); ok && nonce >= 0 {
		n := uint64(nonce)
		params.Nonce = &n
	}

	result, err := chain.SendTransaction(ctx, client, s.privateKey, params)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return toolJSON(result)
}

func (s *Server) sendRawTransactionHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	client, err := s.dial(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	defer client.Close()

	result, err := chain.SendRaw(ctx, client, getStringArg(request, "signedTransaction"))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return toolJSON(result)
}
