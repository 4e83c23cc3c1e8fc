package dto

import (
	"encoding/json"
	"testing"

	"github.com/SscSPs/bank_app/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoney_AlwaysTwoDecimals(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"100", "100.00"},
		{"100.00", "100.00"},
		{"25.5", "25.50"},
		{"-30", "-30.00"},
		{"0", "0.00"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Money(decimal.RequireFromString(tt.in)))
		})
	}
}

func TestToOperationResponse_SerializesScaledAmounts(t *testing.T) {
	recipient := decimal.NewFromInt(40)
	res := &domain.OperationResult{
		Transaction: domain.Transaction{
			TransactionID: "tx-1",
			Type:          domain.Transfer,
			Amount:        decimal.NewFromInt(10),
			FromAccount:   "1111111111",
			ToAccount:     "2222222222",
			UserID:        "alice",
		},
		Balance:   decimal.RequireFromString("90.5"),
		Recipient: &recipient,
	}

	body, err := json.Marshal(ToOperationResponse(res))
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(body, &out))
	assert.Equal(t, "90.50", out["balance"])
	assert.Equal(t, "40.00", out["recipientBalance"])
	assert.Equal(t, "10.00", out["transaction"].(map[string]any)["amount"])
}

func TestToOperationResponse_OmitsRecipientForDeposits(t *testing.T) {
	res := &domain.OperationResult{
		Transaction: domain.Transaction{Type: domain.Deposit, Amount: decimal.NewFromInt(100)},
		Balance:     decimal.NewFromInt(100),
	}
	body, err := json.Marshal(ToOperationResponse(res))
	require.NoError(t, err)
	assert.NotContains(t, string(body), "recipientBalance")
	assert.Contains(t, string(body), `"balance":"100.00"`)
}
