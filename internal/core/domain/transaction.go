package domain

import (
	"fmt"
	"time"

	"github.com/SscSPs/bank_app/internal/apperrors"
	"github.com/shopspring/decimal"
)

// TransactionType is the kind of ledger entry.
type TransactionType string

const (
	Deposit  TransactionType = "deposit"
	Withdraw TransactionType = "withdraw"
	Transfer TransactionType = "transfer"
)

// Valid reports whether t is one of the known transaction types.
func (t TransactionType) Valid() bool {
	switch t {
	case Deposit, Withdraw, Transfer:
		return true
	}
	return false
}

// AmountScale is the number of decimal places money is held to.
const AmountScale = 2

// maxAmountExponent bounds the exponent of any amount worth looking at.
// Anything outside it is far above MaxAmount or far below a cent, and
// comparing such values would rescale them into enormous integers.
const maxAmountExponent = 20

// MaxAmount is the largest amount, and the largest balance, the stores can hold (NUMERIC(20,2)).
var MaxAmount = decimal.RequireFromString("999999999999999999.99")

// Transaction is one immutable ledger entry.
type Transaction struct {
	TransactionID string          `json:"id"`       // Store assigned (UUID)
	Sequence      int64           `json:"sequence"` // Store assigned, breaks timestamp ties
	Type          TransactionType `json:"type"`
	Amount        decimal.Decimal `json:"amount"`
	Description   string          `json:"description"`
	Timestamp     time.Time       `json:"timestamp"`             // Store assigned
	FromAccount   string          `json:"fromAccount,omitempty"` // Set for withdraw and transfer
	ToAccount     string          `json:"toAccount,omitempty"`   // Set for deposit and transfer
	UserID        string          `json:"userId"`                // Initiating username
}

// Validate checks the structural invariants of an entry before it is appended.
func (t *Transaction) Validate() error {
	if !t.Type.Valid() {
		return fmt.Errorf("%w: unknown transaction type %q", apperrors.ErrValidation, t.Type)
	}
	if err := ValidateAmount(t.Amount); err != nil {
		return err
	}
	if t.UserID == "" {
		return fmt.Errorf("%w: userId is required", apperrors.ErrValidation)
	}
	switch t.Type {
	case Deposit:
		if t.ToAccount == "" {
			return fmt.Errorf("%w: deposit requires toAccount", apperrors.ErrValidation)
		}
	case Withdraw:
		if t.FromAccount == "" {
			return fmt.Errorf("%w: withdraw requires fromAccount", apperrors.ErrValidation)
		}
	case Transfer:
		if t.FromAccount == "" || t.ToAccount == "" {
			return fmt.Errorf("%w: transfer requires fromAccount and toAccount", apperrors.ErrValidation)
		}
		if t.FromAccount == t.ToAccount {
			return apperrors.ErrSelfTransfer
		}
	}
	return nil
}

// Involves reports whether the entry belongs in the ledger of the given account/user.
func (t *Transaction) Involves(accountNumber, username string) bool {
	return (accountNumber != "" && (t.FromAccount == accountNumber || t.ToAccount == accountNumber)) ||
		(username != "" && t.UserID == username)
}

// ValidateAmount rejects non-positive amounts, amounts above MaxAmount and
// amounts finer than cents. It never rescales an out-of-range value.
func ValidateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("%w: amount must be greater than zero", apperrors.ErrInvalidAmount)
	}
	exp := amount.Exponent()
	if exp > maxAmountExponent {
		return fmt.Errorf("%w: amount exceeds %s", apperrors.ErrInvalidAmount, MaxAmount.StringFixed(AmountScale))
	}
	if exp < -maxAmountExponent {
		return fmt.Errorf("%w: amount has more than %d decimal places", apperrors.ErrInvalidAmount, AmountScale)
	}
	if amount.GreaterThan(MaxAmount) {
		return fmt.Errorf("%w: amount exceeds %s", apperrors.ErrInvalidAmount, MaxAmount.StringFixed(AmountScale))
	}
	if !amount.Equal(amount.Truncate(AmountScale)) {
		return fmt.Errorf("%w: amount has more than %d decimal places", apperrors.ErrInvalidAmount, AmountScale)
	}
	return nil
}

// CheckBalanceLimit rejects a credit that would lift a balance above MaxAmount.
func CheckBalanceLimit(newBalance decimal.Decimal) error {
	if newBalance.GreaterThan(MaxAmount) {
		return fmt.Errorf("%w: resulting balance would exceed %s", apperrors.ErrInvalidAmount, MaxAmount.StringFixed(AmountScale))
	}
	return nil
}

// LogAmount renders an amount for log lines without expanding an absurd exponent.
func LogAmount(amount decimal.Decimal) string {
	exp := amount.Exponent()
	if exp > maxAmountExponent || exp < -maxAmountExponent {
		coef := amount.Coefficient().String()
		if len(coef) > 32 {
			coef = coef[:32] + "..."
		}
		return fmt.Sprintf("%se%d", coef, exp)
	}
	return amount.String()
}

// OperationResult is what the engine returns for a completed balance mutation.
type OperationResult struct {
	Transaction Transaction      `json:"transaction"`
	Balance     decimal.Decimal  `json:"balance"`                    // Initiator's balance after the operation
	Recipient   *decimal.Decimal `json:"recipientBalance,omitempty"` // Receiver's balance, transfers only
}
