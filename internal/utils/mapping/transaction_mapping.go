package mapping

import (
	"fmt"

	"github.com/SscSPs/bank_app/internal/core/domain"
	"github.com/SscSPs/bank_app/internal/models"
)

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// ToModelTransaction converts a domain Transaction to a model Transaction
func ToModelTransaction(d domain.Transaction) models.Transaction {
	return models.Transaction{
		TransactionID: d.TransactionID,
		Sequence:      d.Sequence,
		Type:          models.TransactionType(d.Type),
		Amount:        d.Amount,
		Description:   d.Description,
		Timestamp:     d.Timestamp,
		FromAccount:   optional(d.FromAccount),
		ToAccount:     optional(d.ToAccount),
		UserID:        d.UserID,
	}
}

// ToDomainTransaction converts a model Transaction to a domain Transaction
func ToDomainTransaction(m models.Transaction) domain.Transaction {
	return domain.Transaction{
		TransactionID: m.TransactionID,
		Sequence:      m.Sequence,
		Type:          domain.TransactionType(m.Type),
		Amount:        m.Amount,
		Description:   m.Description,
		Timestamp:     m.Timestamp,
		FromAccount:   deref(m.FromAccount),
		ToAccount:     deref(m.ToAccount),
		UserID:        m.UserID,
	}
}

// ToTransactionDocument converts a domain Transaction to its Firestore document form.
func ToTransactionDocument(d domain.Transaction) models.TransactionDocument {
	return models.TransactionDocument{
		Type:        string(d.Type),
		Amount:      d.Amount.StringFixed(domain.AmountScale),
		Description: d.Description,
		Timestamp:   d.Timestamp,
		Sequence:    d.Sequence,
		FromAccount: d.FromAccount,
		ToAccount:   d.ToAccount,
		UserID:      d.UserID,
	}
}

// FromTransactionDocument converts a Firestore document with the given id to a domain Transaction.
func FromTransactionDocument(id string, doc models.TransactionDocument) (domain.Transaction, error) {
	amount, err := parseStoredAmount(doc.Amount)
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("transaction %s: %w", id, err)
	}
	return domain.Transaction{
		TransactionID: id,
		Sequence:      doc.Sequence,
		Type:          domain.TransactionType(doc.Type),
		Amount:        amount,
		Description:   doc.Description,
		Timestamp:     doc.Timestamp,
		FromAccount:   doc.FromAccount,
		ToAccount:     doc.ToAccount,
		UserID:        doc.UserID,
	}, nil
}
