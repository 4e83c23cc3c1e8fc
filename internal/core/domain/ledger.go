package domain

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Direction is how a ledger entry affects the viewing account.
type Direction string

const (
	DirectionCredit Direction = "credit"
	DirectionDebit  Direction = "debit"
)

// LedgerEntry is a transaction as seen from one account.
type LedgerEntry struct {
	Transaction
	Direction    Direction       `json:"direction"`
	SignedAmount decimal.Decimal `json:"signedAmount"`
	Counterparty string          `json:"counterparty,omitempty"` // The other account number on transfers
}

// RecentTransactionsLimit is how many entries an account summary shows.
const RecentTransactionsLimit = 3

// AccountSummary is the dashboard view of an account.
type AccountSummary struct {
	Account            Account         `json:"account"`
	Balance            decimal.Decimal `json:"balance"`
	RecentTransactions []LedgerEntry   `json:"recentTransactions"`
	TotalCount         int             `json:"totalCount"`
}

// AggregateCounts buckets a ledger. Deposits counts credits and Withdrawals
// counts debits, so incoming and outgoing transfers land in those too.
type AggregateCounts struct {
	Deposits    int `json:"deposits"`
	Withdrawals int `json:"withdrawals"`
	Transfers   int `json:"transfers"`
}

// LedgerPage is one page of a ledger with the token for the next page.
type LedgerPage struct {
	Entries   []LedgerEntry `json:"entries"`
	NextToken *string       `json:"nextToken,omitempty"`
}

// SortTransactions orders entries newest first, equal timestamps by ascending sequence.
func SortTransactions(txns []Transaction) {
	sort.SliceStable(txns, func(i, j int) bool {
		if !txns[i].Timestamp.Equal(txns[j].Timestamp) {
			return txns[i].Timestamp.After(txns[j].Timestamp)
		}
		return txns[i].Sequence < txns[j].Sequence
	})
}

// LedgerChanged announces that the ledgers of the listed users have new entries.
type LedgerChanged struct {
	Usernames     []string
	TransactionID string
}
