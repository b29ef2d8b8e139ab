package chain

import (
	"fmt"
	"math/big"
	"regexp"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

const (
	// ZeroAddress is the Ethereum zero/burn address
	ZeroAddress = "0x0000000000000000000000000000000000000000"

	// MaxAmountDigits is the maximum number of digits allowed in an amount.
	// uint256 max is ~78 digits.
	MaxAmountDigits = 78
)

var txHashPattern = regexp.MustCompile(`^0x[0-9a-fA-F]{64}$`)

// ValidationError represents a validation failure
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateAddress validates an Ethereum address format
func ValidateAddress(field, address string) error {
	if address == "" {
		return &ValidationError{Field: field, Message: "address is required"}
	}

	if !common.IsHexAddress(address) {
		return &ValidationError{Field: field, Message: fmt.Sprintf("invalid address format: %s", address)}
	}

	return nil
}

// ValidateRecipientAddress validates a recipient address - must be valid AND not the zero address
func ValidateRecipientAddress(field, address string) error {
	if err := ValidateAddress(field, address); err != nil {
		return err
	}

	if strings.EqualFold(address, ZeroAddress) {
		return &ValidationError{
			Field:   field,
			Message: "cannot send to zero address (burn address) - this would permanently destroy funds",
		}
	}

	return nil
}

// ValidateTxHash validates a 32-byte transaction hash in 0x-prefixed hex form.
func ValidateTxHash(field, hash string) error {
	if hash == "" {
		return &ValidationError{Field: field, Message: "transaction hash is required"}
	}

	if !txHashPattern.MatchString(hash) {
		return &ValidationError{Field: field, Message: fmt.Sprintf("invalid transaction hash format (expected 0x + 64 hex chars): %s", hash)}
	}

	return nil
}

// ValidateAmount validates a token amount string
func ValidateAmount(field, amount string) error {
	if amount == "" {
		return &ValidationError{Field: field, Message: "amount is required"}
	}

	if len(amount) > MaxAmountDigits {
		return &ValidationError{Field: field, Message: "amount exceeds maximum allowed digits"}
	}

	amountInt := new(big.Int)
	_, ok := amountInt.SetString(amount, 10)
	if !ok {
		return &ValidationError{Field: field, Message: fmt.Sprintf("invalid amount format: %s", amount)}
	}

	if amountInt.Sign() < 0 {
		return &ValidationError{Field: field, Message: "amount cannot be negative"}
	}

	return nil
}
