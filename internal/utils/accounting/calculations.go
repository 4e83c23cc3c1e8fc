package accounting

import (
	"github.com/SscSPs/bank_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// DirectionFor decides how an entry affects the viewing account. Deposits and
// transfers into the viewer's account are credits, everything else is a debit.
func DirectionFor(txn domain.Transaction, viewerAccountNumber string) domain.Direction {
	if txn.Type == domain.Deposit || (txn.Type == domain.Transfer && txn.ToAccount == viewerAccountNumber) {
		return domain.DirectionCredit
	}
	return domain.DirectionDebit
}

// CalculateSignedAmount applies the viewer's sign to a transaction amount.
func CalculateSignedAmount(txn domain.Transaction, viewerAccountNumber string) decimal.Decimal {
	if DirectionFor(txn, viewerAccountNumber) == domain.DirectionCredit {
		return txn.Amount
	}
	return txn.Amount.Neg()
}

// Counterparty returns the other account number of a transfer, or "" for deposits and withdrawals.
func Counterparty(txn domain.Transaction, viewerAccountNumber string) string {
	if txn.Type != domain.Transfer {
		return ""
	}
	if txn.ToAccount == viewerAccountNumber {
		return txn.FromAccount
	}
	return txn.ToAccount
}

// Project turns a raw ledger into the viewer's signed entries, keeping order.
func Project(txns []domain.Transaction, viewerAccountNumber string) []domain.LedgerEntry {
	entries := make([]domain.LedgerEntry, 0, len(txns))
	for _, txn := range txns {
		entries = append(entries, domain.LedgerEntry{
			Transaction:  txn,
			Direction:    DirectionFor(txn, viewerAccountNumber),
			SignedAmount: CalculateSignedAmount(txn, viewerAccountNumber),
			Counterparty: Counterparty(txn, viewerAccountNumber),
		})
	}
	return entries
}

// CountBuckets tallies credits, debits and transfers over a projected ledger.
func CountBuckets(entries []domain.LedgerEntry) domain.AggregateCounts {
	var counts domain.AggregateCounts
	for _, e := range entries {
		if e.Direction == domain.DirectionCredit {
			counts.Deposits++
		} else {
			counts.Withdrawals++
		}
		if e.Type == domain.Transfer {
			counts.Transfers++
		}
	}
	return counts
}
