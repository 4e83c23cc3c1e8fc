package domain_test

import (
	"testing"
	"time"

	"github.com/SscSPs/bank_app/internal/apperrors"
	"github.com/SscSPs/bank_app/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestValidateAmount(t *testing.T) {
	tests := []struct {
		name    string
		amount  decimal.Decimal
		wantErr bool
	}{
		{name: "whole amount", amount: decimal.NewFromInt(100), wantErr: false},
		{name: "cents", amount: decimal.RequireFromString("10.25"), wantErr: false},
		{name: "trailing zeros beyond cents", amount: decimal.RequireFromString("10.2500"), wantErr: false},
		{name: "smallest unit", amount: decimal.RequireFromString("0.01"), wantErr: false},
		{name: "zero", amount: decimal.Zero, wantErr: true},
		{name: "negative", amount: decimal.NewFromInt(-5), wantErr: true},
		{name: "sub-cent", amount: decimal.RequireFromString("0.001"), wantErr: true},
		{name: "three places", amount: decimal.RequireFromString("1.234"), wantErr: true},
		{name: "maximum", amount: domain.MaxAmount, wantErr: false},
		{name: "one cent above maximum", amount: domain.MaxAmount.Add(decimal.RequireFromString("0.01")), wantErr: true},
		{name: "huge exponent", amount: decimal.RequireFromString("1e20000000"), wantErr: true},
		{name: "tiny exponent", amount: decimal.RequireFromString("1e-20000000"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := domain.ValidateAmount(tt.amount)
			if tt.wantErr {
				assert.ErrorIs(t, err, apperrors.ErrInvalidAmount)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateAmount_HugeExponentIsCheap(t *testing.T) {
	start := time.Now()
	for _, raw := range []string{"1e20000000", "9e999999999", "1e-20000000"} {
		assert.ErrorIs(t, domain.ValidateAmount(decimal.RequireFromString(raw)), apperrors.ErrInvalidAmount)
	}
	assert.Less(t, time.Since(start), time.Second)
}

func TestCheckBalanceLimit(t *testing.T) {
	assert.NoError(t, domain.CheckBalanceLimit(domain.MaxAmount))
	assert.ErrorIs(t, domain.CheckBalanceLimit(domain.MaxAmount.Add(decimal.RequireFromString("0.01"))), apperrors.ErrInvalidAmount)
}

func TestLogAmount(t *testing.T) {
	assert.Equal(t, "12.5", domain.LogAmount(decimal.RequireFromString("12.50")))
	assert.Equal(t, "1e20000000", domain.LogAmount(decimal.RequireFromString("1e20000000")))
	assert.Less(t, len(domain.LogAmount(decimal.RequireFromString("123456789012345678901234567890123456789e-30000"))), 64)
}

func TestTransaction_Validate(t *testing.T) {
	amount := decimal.NewFromInt(50)

	tests := []struct {
		name    string
		tx      domain.Transaction
		wantErr error
	}{
		{
			name: "valid deposit",
			tx:   domain.Transaction{Type: domain.Deposit, Amount: amount, ToAccount: "1234567890", UserID: "alice"},
		},
		{
			name: "valid withdraw",
			tx:   domain.Transaction{Type: domain.Withdraw, Amount: amount, FromAccount: "1234567890", UserID: "alice"},
		},
		{
			name: "valid transfer",
			tx:   domain.Transaction{Type: domain.Transfer, Amount: amount, FromAccount: "1234567890", ToAccount: "0987654321", UserID: "alice"},
		},
		{
			name:    "unknown type",
			tx:      domain.Transaction{Type: "refund", Amount: amount, ToAccount: "1234567890", UserID: "alice"},
			wantErr: apperrors.ErrValidation,
		},
		{
			name:    "zero amount",
			tx:      domain.Transaction{Type: domain.Deposit, Amount: decimal.Zero, ToAccount: "1234567890", UserID: "alice"},
			wantErr: apperrors.ErrInvalidAmount,
		},
		{
			name:    "deposit without destination",
			tx:      domain.Transaction{Type: domain.Deposit, Amount: amount, UserID: "alice"},
			wantErr: apperrors.ErrValidation,
		},
		{
			name:    "withdraw without source",
			tx:      domain.Transaction{Type: domain.Withdraw, Amount: amount, UserID: "alice"},
			wantErr: apperrors.ErrValidation,
		},
		{
			name:    "transfer to same account",
			tx:      domain.Transaction{Type: domain.Transfer, Amount: amount, FromAccount: "1234567890", ToAccount: "1234567890", UserID: "alice"},
			wantErr: apperrors.ErrSelfTransfer,
		},
		{
			name:    "missing user",
			tx:      domain.Transaction{Type: domain.Deposit, Amount: amount, ToAccount: "1234567890"},
			wantErr: apperrors.ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.tx.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestTransaction_Involves(t *testing.T) {
	tx := domain.Transaction{Type: domain.Transfer, FromAccount: "111", ToAccount: "222", UserID: "alice"}

	assert.True(t, tx.Involves("111", ""))
	assert.True(t, tx.Involves("222", ""))
	assert.True(t, tx.Involves("999", "alice"))
	assert.False(t, tx.Involves("999", "bob"))
	assert.False(t, tx.Involves("", ""))
}

func TestSortTransactions(t *testing.T) {
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	txns := []domain.Transaction{
		{TransactionID: "old", Sequence: 1, Timestamp: base},
		{TransactionID: "tie-late", Sequence: 5, Timestamp: base.Add(time.Minute)},
		{TransactionID: "newest", Sequence: 2, Timestamp: base.Add(time.Hour)},
		{TransactionID: "tie-early", Sequence: 3, Timestamp: base.Add(time.Minute)},
	}

	domain.SortTransactions(txns)

	ids := make([]string, len(txns))
	for i, tx := range txns {
		ids[i] = tx.TransactionID
	}
	assert.Equal(t, []string{"newest", "tie-early", "tie-late", "old"}, ids)
}

func TestProfileUpdate_TouchesImmutable(t *testing.T) {
	name := "New Name"
	username := "mallory"

	assert.False(t, domain.ProfileUpdate{FullName: &name}.TouchesImmutable())
	assert.True(t, domain.ProfileUpdate{Username: &username}.TouchesImmutable())
	assert.True(t, domain.ProfileUpdate{AccountNumber: &username}.TouchesImmutable())
	assert.True(t, domain.ProfileUpdate{}.IsEmpty())
}
