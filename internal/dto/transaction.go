package dto

import (
	"time"

	"github.com/SscSPs/bank_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// AmountRequest is the body of deposit and withdraw calls. The amount is a decimal string.
type AmountRequest struct {
	Amount decimal.Decimal `json:"amount" swaggertype:"string" example:"100.00"`
}

// TransferRequest is the body of a transfer.
type TransferRequest struct {
	Recipient   string          `json:"recipient" binding:"required" example:"bob"`
	Amount      decimal.Decimal `json:"amount" swaggertype:"string" example:"25.00"`
	Description string          `json:"description" binding:"max=500" example:"Dinner"`
}

// TransactionResponse is a ledger entry as returned by the API.
type TransactionResponse struct {
	TransactionID string    `json:"id"`
	Type          string    `json:"type" example:"deposit"`
	Amount        string    `json:"amount" example:"100.00"`
	Description   string    `json:"description"`
	Timestamp     time.Time `json:"timestamp"`
	FromAccount   string    `json:"fromAccount,omitempty"`
	ToAccount     string    `json:"toAccount,omitempty"`
	UserID        string    `json:"userId"`
}

// OperationResponse is returned by deposit, withdraw and transfer.
type OperationResponse struct {
	Transaction      TransactionResponse `json:"transaction"`
	Balance          string              `json:"balance" example:"150.00"`
	RecipientBalance *string             `json:"recipientBalance,omitempty"`
}

// LedgerEntryResponse is a transaction seen from the caller's account.
type LedgerEntryResponse struct {
	TransactionResponse
	Direction    string `json:"direction" example:"credit"`
	SignedAmount string `json:"signedAmount" example:"-25.00"`
	Counterparty string `json:"counterparty,omitempty"`
}

// LedgerPageResponse is one page of the caller's ledger.
type LedgerPageResponse struct {
	Entries   []LedgerEntryResponse `json:"entries"`
	NextToken *string               `json:"nextToken,omitempty"`
}

// ListLedgerParams defines query parameters for paging the ledger.
type ListLedgerParams struct {
	Limit     int     `form:"limit,default=20" binding:"min=0,max=100"`
	NextToken *string `form:"nextToken"`
}

// AccountSummaryResponse is the dashboard view.
type AccountSummaryResponse struct {
	Account            AccountResponse       `json:"account"`
	Balance            string                `json:"balance" example:"125.50"`
	RecentTransactions []LedgerEntryResponse `json:"recentTransactions"`
	TotalCount         int                   `json:"totalCount"`
}

// AggregateCountsResponse buckets the ledger by direction and type.
type AggregateCountsResponse struct {
	Deposits    int `json:"deposits"`
	Withdrawals int `json:"withdrawals"`
	Transfers   int `json:"transfers"`
}

// Money renders an amount with exactly two decimal places, the way every
// monetary field leaves the API.
func Money(amount decimal.Decimal) string {
	return amount.StringFixed(domain.AmountScale)
}

// ToTransactionResponse converts a domain.Transaction to its DTO.
func ToTransactionResponse(tx domain.Transaction) TransactionResponse {
	return TransactionResponse{
		TransactionID: tx.TransactionID,
		Type:          string(tx.Type),
		Amount:        Money(tx.Amount),
		Description:   tx.Description,
		Timestamp:     tx.Timestamp,
		FromAccount:   tx.FromAccount,
		ToAccount:     tx.ToAccount,
		UserID:        tx.UserID,
	}
}

// ToOperationResponse converts an engine result to its DTO.
func ToOperationResponse(res *domain.OperationResult) OperationResponse {
	out := OperationResponse{
		Transaction: ToTransactionResponse(res.Transaction),
		Balance:     Money(res.Balance),
	}
	if res.Recipient != nil {
		recipient := Money(*res.Recipient)
		out.RecipientBalance = &recipient
	}
	return out
}

// ToLedgerEntryResponses converts projected ledger entries to DTOs.
func ToLedgerEntryResponses(entries []domain.LedgerEntry) []LedgerEntryResponse {
	res := make([]LedgerEntryResponse, len(entries))
	for i, e := range entries {
		res[i] = LedgerEntryResponse{
			TransactionResponse: ToTransactionResponse(e.Transaction),
			Direction:           string(e.Direction),
			SignedAmount:        Money(e.SignedAmount),
			Counterparty:        e.Counterparty,
		}
	}
	return res
}

// ToAccountSummaryResponse converts a dashboard summary to its DTO.
func ToAccountSummaryResponse(s *domain.AccountSummary) AccountSummaryResponse {
	return AccountSummaryResponse{
		Account:            ToAccountResponse(&s.Account),
		Balance:            Money(s.Balance),
		RecentTransactions: ToLedgerEntryResponses(s.RecentTransactions),
		TotalCount:         s.TotalCount,
	}
}

// ToLedgerPageResponse converts a ledger page to its DTO.
func ToLedgerPageResponse(p *domain.LedgerPage) LedgerPageResponse {
	return LedgerPageResponse{
		Entries:   ToLedgerEntryResponses(p.Entries),
		NextToken: p.NextToken,
	}
}

// ToAggregateCountsResponse converts ledger counts to their DTO.
func ToAggregateCountsResponse(c domain.AggregateCounts) AggregateCountsResponse {
	return AggregateCountsResponse(c)
}
