package mapping

import (
	"testing"
	"time"

	"github.com/SscSPs/bank_app/internal/core/domain"
	"github.com/SscSPs/bank_app/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransactionNullableAccounts(t *testing.T) {
	deposit := domain.Transaction{Type: domain.Deposit, Amount: decimal.NewFromInt(5), ToAccount: "1234567890", UserID: "alice"}

	m := ToModelTransaction(deposit)
	assert.Nil(t, m.FromAccount, "empty account numbers are stored as NULL")
	require.NotNil(t, m.ToAccount)
	assert.Equal(t, "1234567890", *m.ToAccount)

	back := ToDomainTransaction(m)
	assert.Equal(t, "", back.FromAccount)
	assert.Equal(t, deposit.ToAccount, back.ToAccount)
}

func TestAccountDocument_AmountsAsStrings(t *testing.T) {
	acc := domain.Account{
		AccountID:     "acc-1",
		Username:      "alice",
		AccountNumber: "1234567890",
		Balance:       decimal.RequireFromString("10.5"),
		AuditFields:   domain.AuditFields{CreatedAt: time.Unix(0, 0).UTC()},
	}

	doc := ToAccountDocument(acc)
	assert.Equal(t, "10.50", doc.Balance)

	back, err := FromAccountDocument("acc-1", doc)
	require.NoError(t, err)
	assert.True(t, acc.Balance.Equal(back.Balance))
	assert.Equal(t, "acc-1", back.AccountID)

	_, err = FromAccountDocument("acc-2", models.AccountDocument{Balance: "ten"})
	assert.Error(t, err)

	empty, err := FromAccountDocument("acc-3", models.AccountDocument{})
	require.NoError(t, err)
	assert.True(t, empty.Balance.IsZero())
}

func TestTransactionDocument(t *testing.T) {
	tx := domain.Transaction{
		Type:        domain.Transfer,
		Amount:      decimal.RequireFromString("0.10"),
		FromAccount: "1111111111",
		ToAccount:   "2222222222",
		UserID:      "alice",
		Sequence:    9,
	}

	doc := ToTransactionDocument(tx)
	assert.Equal(t, "0.10", doc.Amount)
	assert.Equal(t, "transfer", doc.Type)

	back, err := FromTransactionDocument("tx-1", doc)
	require.NoError(t, err)
	assert.Equal(t, "tx-1", back.TransactionID)
	assert.Equal(t, int64(9), back.Sequence)
	assert.True(t, tx.Amount.Equal(back.Amount))
}
