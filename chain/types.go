package chain

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
)

// Result types shared by the MCP handlers and the CLI. Big integers are
// rendered as decimal strings so JSON consumers never lose precision.

type BalanceResult struct {
	Address string `json:"address"`
	Balance string `json:"balance"`
	Block   string `json:"block"`
	ChainID string `json:"chainId"`
}

type BlockResult struct {
	Number       uint64     `json:"number"`
	Hash         string     `json:"hash"`
	ParentHash   string     `json:"parentHash"`
	Timestamp    uint64     `json:"timestamp"`
	Miner        string     `json:"miner"`
	GasUsed      uint64     `json:"gasUsed"`
	GasLimit     uint64     `json:"gasLimit"`
	BaseFee      string     `json:"baseFeePerGas,omitempty"`
	TxCount      int        `json:"transactionCount"`
	Transactions []TxResult `json:"transactions,omitempty"`
}

type TxResult struct {
	Hash                 string `json:"hash"`
	From                 string `json:"from,omitempty"`
	To                   string `json:"to,omitempty"`
	Nonce                uint64 `json:"nonce"`
	Value                string `json:"value"`
	Gas                  uint64 `json:"gas"`
	GasPrice             string `json:"gasPrice,omitempty"`
	MaxFeePerGas         string `json:"maxFeePerGas,omitempty"`
	MaxPriorityFeePerGas string `json:"maxPriorityFeePerGas,omitempty"`
	Input                string `json:"input"`
	Type                 uint8  `json:"type"`
	ChainID              string `json:"chainId,omitempty"`
	Pending              bool   `json:"pending"`
}

type ReceiptResult struct {
	TransactionHash   string      `json:"transactionHash"`
	Status            string      `json:"status"`
	BlockNumber       uint64      `json:"blockNumber"`
	BlockHash         string      `json:"blockHash"`
	GasUsed           uint64      `json:"gasUsed"`
	EffectiveGasPrice string      `json:"effectiveGasPrice,omitempty"`
	ContractAddress   string      `json:"contractAddress,omitempty"`
	Logs              []LogResult `json:"logs"`
}

type LogResult struct {
	Address     string   `json:"address"`
	Topics      []string `json:"topics"`
	Data        string   `json:"data"`
	BlockNumber uint64   `json:"blockNumber"`
	TxHash      string   `json:"transactionHash"`
	Index       uint     `json:"logIndex"`
}

type GasPriceResult struct {
	GasPrice             string `json:"gasPrice"`
	MaxPriorityFeePerGas string `json:"maxPriorityFeePerGas,omitempty"`
	BaseFeePerGas        string `json:"baseFeePerGas,omitempty"`
	ChainID              string `json:"chainId"`
}

// ReceiptStatusText maps a receipt status code to its JSON representation.
func ReceiptStatusText(status uint64) string {
	if status == types.ReceiptStatusSuccessful {
		return "success"
	}
	return "failed"
}

func newTxResult(tx *types.Transaction, from *common.Address, pending bool) TxResult {
	r := TxResult{
		Hash:    tx.Hash().Hex(),
		Nonce:   tx.Nonce(),
		Value:   tx.Value().String(),
		Gas:     tx.Gas(),
		Input:   hexutil.Encode(tx.Data()),
		Type:    tx.Type(),
		Pending: pending,
	}
	if from != nil {
		r.From = from.Hex()
	}
	if to := tx.To(); to != nil {
		r.To = to.Hex()
	}
	if tx.Type() == types.DynamicFeeTxType {
		r.MaxFeePerGas = tx.GasFeeCap().String()
		r.MaxPriorityFeePerGas = tx.GasTipCap().String()
	} else if tx.GasPrice() != nil {
		r.GasPrice = tx.GasPrice().String()
	}
	if chainID := tx.ChainId(); chainID != nil && chainID.Sign() > 0 {
		r.ChainID = chainID.String()
	}
	return r
}

func newReceiptResult(receipt *types.Receipt) *ReceiptResult {
	r := &ReceiptResult{
		TransactionHash: receipt.TxHash.Hex(),
		Status:          ReceiptStatusText(receipt.Status),
		BlockHash:       receipt.BlockHash.Hex(),
		GasUsed:         receipt.GasUsed,
		Logs:            make([]LogResult, 0, len(receipt.Logs)),
	}
	if receipt.BlockNumber != nil {
		r.BlockNumber = receipt.BlockNumber.Uint64()
	}
	if receipt.EffectiveGasPrice != nil {
		r.EffectiveGasPrice = receipt.EffectiveGasPrice.String()
	}
	if receipt.ContractAddress != (common.Address{}) {
		r.ContractAddress = receipt.ContractAddress.Hex()
	}
	for _, lg := range receipt.Logs {
		r.Logs = append(r.Logs, newLogResult(lg))
	}
	return r
}

func newLogResult(lg *types.Log) LogResult {
	topics := make([]string, 0, len(lg.Topics))
	for _, t := range lg.Topics {
		topics = append(topics, t.Hex())
	}
	return LogResult{
		Address:     lg.Address.Hex(),
		Topics:      topics,
		Data:        hexutil.Encode(lg.Data),
		BlockNumber: lg.BlockNumber,
		TxHash:      lg.TxHash.Hex(),
		Index:       lg.Index,
	}
}
