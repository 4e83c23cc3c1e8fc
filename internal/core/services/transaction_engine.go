package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/bank_app/internal/apperrors"
	"github.com/SscSPs/bank_app/internal/core/domain"
	portsrepo "github.com/SscSPs/bank_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/bank_app/internal/core/ports/services"
	"github.com/SscSPs/bank_app/internal/utils"
	"github.com/shopspring/decimal"
)

// transactionEngine applies deposits, withdrawals and transfers. Balances are
// re-read inside the unit of work and written with a compare-and-swap, and
// the ledger entry is appended in the same unit.
type transactionEngine struct {
	BaseService
	uow       portsrepo.UnitOfWork
	notifier  portssvc.ChangeNotifierSvc
	analytics utils.AnalyticsSink
}

// EngineOption configures the transaction engine.
type EngineOption func(*transactionEngine)

// WithNotifier publishes a change event after every committed operation.
func WithNotifier(n portssvc.ChangeNotifierSvc) EngineOption {
	return func(e *transactionEngine) {
		e.notifier = n
	}
}

// WithAnalytics reports committed operations to an analytics sink.
func WithAnalytics(sink utils.AnalyticsSink) EngineOption {
	return func(e *transactionEngine) {
		e.analytics = sink
	}
}

// WithEngineStoreTimeout sets the deadline for each operation's unit of work.
func WithEngineStoreTimeout(d time.Duration) EngineOption {
	return func(e *transactionEngine) {
		e.StoreTimeout = d
	}
}

// NewTransactionEngine creates the engine on top of a unit of work.
func NewTransactionEngine(uow portsrepo.UnitOfWork, options ...EngineOption) portssvc.TransactionEngineSvc {
	e := &transactionEngine{uow: uow}
	for _, option := range options {
		option(e)
	}
	return e
}

var _ portssvc.TransactionEngineSvc = (*transactionEngine)(nil)

func (e *transactionEngine) Deposit(ctx context.Context, username string, amount decimal.Decimal) (*domain.OperationResult, error) {
	username = normalizeUsername(username)
	if err := domain.ValidateAmount(amount); err != nil {
		e.LogWarn(ctx, err, "Deposit rejected", slog.String("username", username), slog.String("amount", domain.LogAmount(amount)))
		return nil, err
	}

	var result *domain.OperationResult
	err := e.run(ctx, func(ctx context.Context, stores portsrepo.TxStores) error {
		acc, err := lockOne(ctx, stores, username)
		if err != nil {
			return err
		}
		newBalance := acc.Balance.Add(amount)
		if err := domain.CheckBalanceLimit(newBalance); err != nil {
			return err
		}
		if err := stores.Accounts().SetBalance(ctx, acc.AccountID, acc.Balance, newBalance); err != nil {
			return fmt.Errorf("failed to credit account: %w", err)
		}
		entry, err := stores.Ledger().AppendTransaction(ctx, domain.Transaction{
			Type:        domain.Deposit,
			Amount:      amount,
			Description: fmt.Sprintf("Deposit to account %s", acc.AccountNumber),
			ToAccount:   acc.AccountNumber,
			UserID:      username,
		})
		if err != nil {
			return fmt.Errorf("failed to record deposit: %w", err)
		}
		result = &domain.OperationResult{Transaction: *entry, Balance: newBalance}
		return nil
	})
	if err != nil {
		e.LogFailure(ctx, err, "Deposit failed", slog.String("username", username), slog.String("amount", domain.LogAmount(amount)))
		return nil, err
	}

	e.committed(ctx, result, username)
	return result, nil
}

func (e *transactionEngine) Withdraw(ctx context.Context, username string, amount decimal.Decimal) (*domain.OperationResult, error) {
	username = normalizeUsername(username)
	if err := domain.ValidateAmount(amount); err != nil {
		e.LogWarn(ctx, err, "Withdrawal rejected", slog.String("username", username), slog.String("amount", domain.LogAmount(amount)))
		return nil, err
	}

	var result *domain.OperationResult
	err := e.run(ctx, func(ctx context.Context, stores portsrepo.TxStores) error {
		acc, err := lockOne(ctx, stores, username)
		if err != nil {
			return err
		}
		if amount.GreaterThan(acc.Balance) {
			return fmt.Errorf("%w: balance %s, requested %s", apperrors.ErrInsufficientFunds, acc.Balance.StringFixed(domain.AmountScale), amount.StringFixed(domain.AmountScale))
		}
		newBalance := acc.Balance.Sub(amount)
		if err := stores.Accounts().SetBalance(ctx, acc.AccountID, acc.Balance, newBalance); err != nil {
			return fmt.Errorf("failed to debit account: %w", err)
		}
		entry, err := stores.Ledger().AppendTransaction(ctx, domain.Transaction{
			Type:        domain.Withdraw,
			Amount:      amount,
			Description: fmt.Sprintf("Withdrawal from account %s", acc.AccountNumber),
			FromAccount: acc.AccountNumber,
			UserID:      username,
		})
		if err != nil {
			return fmt.Errorf("failed to record withdrawal: %w", err)
		}
		result = &domain.OperationResult{Transaction: *entry, Balance: newBalance}
		return nil
	})
	if err != nil {
		e.LogFailure(ctx, err, "Withdrawal failed", slog.String("username", username), slog.String("amount", domain.LogAmount(amount)))
		return nil, err
	}

	e.committed(ctx, result, username)
	return result, nil
}

func (e *transactionEngine) Transfer(ctx context.Context, fromUsername, toUsername string, amount decimal.Decimal, description string) (*domain.OperationResult, error) {
	fromUsername = normalizeUsername(fromUsername)
	toUsername = normalizeUsername(toUsername)
	logAttrs := []any{
		slog.String("from", fromUsername),
		slog.String("to", toUsername),
		slog.String("amount", domain.LogAmount(amount)),
	}

	if err := domain.ValidateAmount(amount); err != nil {
		e.LogWarn(ctx, err, "Transfer rejected", logAttrs...)
		return nil, err
	}
	if fromUsername == toUsername {
		e.LogWarn(ctx, apperrors.ErrSelfTransfer, "Transfer rejected", logAttrs...)
		return nil, apperrors.ErrSelfTransfer
	}
	description = strings.TrimSpace(description)
	if description == "" {
		description = fmt.Sprintf("Transfer from %s", fromUsername)
	}

	var result *domain.OperationResult
	err := e.run(ctx, func(ctx context.Context, stores portsrepo.TxStores) error {
		accounts, err := stores.Accounts().FindAccountsByUsernamesForUpdate(ctx, []string{fromUsername, toUsername})
		if err != nil {
			return fmt.Errorf("failed to read accounts: %w", err)
		}
		sender, ok := accounts[fromUsername]
		if !ok {
			return fmt.Errorf("%w: %s", apperrors.ErrUnknownAccount, fromUsername)
		}
		recipient, ok := accounts[toUsername]
		if !ok {
			return fmt.Errorf("%w: %s", apperrors.ErrUnknownAccount, toUsername)
		}
		if amount.GreaterThan(sender.Balance) {
			return fmt.Errorf("%w: balance %s, requested %s", apperrors.ErrInsufficientFunds, sender.Balance.StringFixed(domain.AmountScale), amount.StringFixed(domain.AmountScale))
		}

		senderBalance := sender.Balance.Sub(amount)
		recipientBalance := recipient.Balance.Add(amount)
		if err := domain.CheckBalanceLimit(recipientBalance); err != nil {
			return err
		}
		if err := stores.Accounts().SetBalance(ctx, sender.AccountID, sender.Balance, senderBalance); err != nil {
			return fmt.Errorf("failed to debit sender: %w", err)
		}
		if err := stores.Accounts().SetBalance(ctx, recipient.AccountID, recipient.Balance, recipientBalance); err != nil {
			return fmt.Errorf("failed to credit recipient: %w", err)
		}
		entry, err := stores.Ledger().AppendTransaction(ctx, domain.Transaction{
			Type:        domain.Transfer,
			Amount:      amount,
			Description: description,
			FromAccount: sender.AccountNumber,
			ToAccount:   recipient.AccountNumber,
			UserID:      fromUsername,
		})
		if err != nil {
			return fmt.Errorf("failed to record transfer: %w", err)
		}
		result = &domain.OperationResult{Transaction: *entry, Balance: senderBalance, Recipient: &recipientBalance}
		return nil
	})
	if err != nil {
		e.LogFailure(ctx, err, "Transfer failed", logAttrs...)
		return nil, err
	}

	e.committed(ctx, result, fromUsername, toUsername)
	return result, nil
}

// run executes fn in one unit of work under the store timeout.
func (e *transactionEngine) run(ctx context.Context, fn func(ctx context.Context, stores portsrepo.TxStores) error) error {
	ctx, cancel := e.WithTimeout(ctx)
	defer cancel()

	err := e.uow.Do(ctx, fn)
	if err == nil {
		return nil
	}
	// An account that vanished between lock and write is reported as unknown.
	if errors.Is(err, apperrors.ErrNotFound) {
		return fmt.Errorf("%w: %w", apperrors.ErrUnknownAccount, err)
	}
	return storeErr(ctx, err)
}

func lockOne(ctx context.Context, stores portsrepo.TxStores, username string) (domain.Account, error) {
	accounts, err := stores.Accounts().FindAccountsByUsernamesForUpdate(ctx, []string{username})
	if err != nil {
		return domain.Account{}, fmt.Errorf("failed to read account: %w", err)
	}
	acc, ok := accounts[username]
	if !ok {
		return domain.Account{}, fmt.Errorf("%w: %s", apperrors.ErrUnknownAccount, username)
	}
	return acc, nil
}

// committed runs the best-effort side effects of a successful operation.
func (e *transactionEngine) committed(ctx context.Context, result *domain.OperationResult, usernames ...string) {
	txn := result.Transaction
	e.LogInfo(ctx, "Transaction committed",
		slog.String("transaction_id", txn.TransactionID),
		slog.String("type", string(txn.Type)),
		slog.String("amount", txn.Amount.StringFixed(domain.AmountScale)))

	if e.notifier != nil {
		e.notifier.Publish(domain.LedgerChanged{Usernames: usernames, TransactionID: txn.TransactionID})
	}
	if e.analytics != nil {
		e.analytics.Enqueue(txn.UserID, "transaction_completed", map[string]any{
			"type":           string(txn.Type),
			"amount":         txn.Amount.StringFixed(domain.AmountScale),
			"transaction_id": txn.TransactionID,
		})
	}
}
