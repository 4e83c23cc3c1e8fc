package mapping

import (
	"fmt"

	"github.com/SscSPs/bank_app/internal/core/domain"
	"github.com/SscSPs/bank_app/internal/models"
	"github.com/shopspring/decimal"
)

// ToModelAccount converts a domain Account to a model Account
func ToModelAccount(d domain.Account) models.Account {
	return models.Account{
		AccountID:      d.AccountID,
		Username:       d.Username,
		AccountNumber:  d.AccountNumber,
		FullName:       d.FullName,
		Email:          d.Email,
		CredentialHash: d.CredentialSecret,
		Balance:        d.Balance,
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainAccount converts a model Account to a domain Account
func ToDomainAccount(m models.Account) domain.Account {
	return domain.Account{
		AccountID:        m.AccountID,
		Username:         m.Username,
		AccountNumber:    m.AccountNumber,
		FullName:         m.FullName,
		Email:            m.Email,
		CredentialSecret: m.CredentialHash,
		Balance:          m.Balance,
		AuditFields:      ToDomainAuditFields(m.AuditFields),
	}
}

// ToAccountDocument converts a domain Account to its Firestore document form.
func ToAccountDocument(d domain.Account) models.AccountDocument {
	return models.AccountDocument{
		Username:       d.Username,
		AccountNumber:  d.AccountNumber,
		FullName:       d.FullName,
		Email:          d.Email,
		CredentialHash: d.CredentialSecret,
		Balance:        d.Balance.StringFixed(domain.AmountScale),
		CreatedAt:      d.CreatedAt,
		LastUpdatedAt:  d.LastUpdatedAt,
	}
}

// FromAccountDocument converts a Firestore document with the given id to a domain Account.
func FromAccountDocument(id string, doc models.AccountDocument) (domain.Account, error) {
	balance, err := parseStoredAmount(doc.Balance)
	if err != nil {
		return domain.Account{}, fmt.Errorf("account %s: %w", id, err)
	}
	return domain.Account{
		AccountID:        id,
		Username:         doc.Username,
		AccountNumber:    doc.AccountNumber,
		FullName:         doc.FullName,
		Email:            doc.Email,
		CredentialSecret: doc.CredentialHash,
		Balance:          balance,
		AuditFields: domain.AuditFields{
			CreatedAt:     doc.CreatedAt,
			LastUpdatedAt: doc.LastUpdatedAt,
		},
	}, nil
}

// parseStoredAmount treats an empty string as zero.
func parseStoredAmount(raw string) (decimal.Decimal, error) {
	if raw == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid stored amount %q: %w", raw, err)
	}
	return d, nil
}
