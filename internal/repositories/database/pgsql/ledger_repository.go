package pgsql

import (
	"context"
	"fmt"
	"strings"

	"github.com/SscSPs/bank_app/internal/core/domain"
	portsrepo "github.com/SscSPs/bank_app/internal/core/ports/repositories"
	"github.com/SscSPs/bank_app/internal/models"
	"github.com/SscSPs/bank_app/internal/utils/mapping"
	"github.com/SscSPs/bank_app/internal/utils/pagination"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const transactionColumns = `transaction_id, sequence, type, amount, description, timestamp, from_account, to_account, user_id`

// ledgerFilter selects the rows visible in one user's ledger.
const ledgerFilter = `(from_account = $1 OR to_account = $1 OR user_id = $2)`

type PgxLedgerRepository struct {
	BaseRepository
}

// newPgxLedgerRepository creates a new repository for ledger entries.
func newPgxLedgerRepository(pool *pgxpool.Pool) *PgxLedgerRepository {
	return &PgxLedgerRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxLedgerRepository implements portsrepo.LedgerRepositoryFacade
var _ portsrepo.LedgerRepositoryFacade = (*PgxLedgerRepository)(nil)

func scanTransaction(row pgx.Row) (domain.Transaction, error) {
	var m models.Transaction
	err := row.Scan(
		&m.TransactionID,
		&m.Sequence,
		&m.Type,
		&m.Amount,
		&m.Description,
		&m.Timestamp,
		&m.FromAccount,
		&m.ToAccount,
		&m.UserID,
	)
	if err != nil {
		return domain.Transaction{}, err
	}
	return mapping.ToDomainTransaction(m), nil
}

func collectTransactions(rows pgx.Rows) ([]domain.Transaction, error) {
	defer rows.Close()
	var txns []domain.Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ledger row: %w", storeErr(err))
		}
		txns = append(txns, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ledger rows: %w", storeErr(err))
	}
	return txns, nil
}

// AppendTransaction inserts an entry outside of any unit of work.
func (r *PgxLedgerRepository) AppendTransaction(ctx context.Context, entry domain.Transaction) (*domain.Transaction, error) {
	return appendTransaction(ctx, r.Pool, entry)
}

// appendTransaction lets the database assign sequence and timestamp.
func appendTransaction(ctx context.Context, q querier, entry domain.Transaction) (*domain.Transaction, error) {
	if err := entry.Validate(); err != nil {
		return nil, err
	}
	entry.TransactionID = uuid.NewString()
	m := mapping.ToModelTransaction(entry)

	query := `
		INSERT INTO ledger_transactions (transaction_id, type, amount, description, from_account, to_account, user_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + transactionColumns + `;
	`
	stored, err := scanTransaction(q.QueryRow(ctx, query,
		m.TransactionID,
		m.Type,
		m.Amount,
		m.Description,
		m.FromAccount,
		m.ToAccount,
		m.UserID,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to append %s transaction: %w", entry.Type, storeErr(err))
	}
	return &stored, nil
}

// ListTransactionsByAccountOrUser returns the full ledger of an account/user, newest first.
func (r *PgxLedgerRepository) ListTransactionsByAccountOrUser(ctx context.Context, accountNumber, username string) ([]domain.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM ledger_transactions
		WHERE ` + ledgerFilter + `
		ORDER BY timestamp DESC, sequence ASC;
	`
	rows, err := r.Pool.Query(ctx, query, nullIfEmpty(accountNumber), strings.TrimSpace(username))
	if err != nil {
		return nil, fmt.Errorf("failed to list ledger for %s: %w", username, storeErr(err))
	}
	return collectTransactions(rows)
}

// ListTransactionsByAccountOrUserPage uses keyset pagination on (timestamp, sequence).
func (r *PgxLedgerRepository) ListTransactionsByAccountOrUserPage(ctx context.Context, accountNumber, username string, limit int, nextToken *string) ([]domain.Transaction, *string, error) {
	cursor, err := pagination.DecodeOptionalToken(nextToken)
	if err != nil {
		return nil, nil, err
	}
	limit = pagination.NormalizeLimit(limit)

	args := []any{nullIfEmpty(accountNumber), strings.TrimSpace(username)}
	query := `
		SELECT ` + transactionColumns + `
		FROM ledger_transactions
		WHERE ` + ledgerFilter
	if cursor != nil {
		query += ` AND (timestamp < $3 OR (timestamp = $3 AND sequence > $4))`
		args = append(args, cursor.Timestamp, cursor.Sequence)
	}
	// Fetch one extra row to learn whether another page exists.
	query += fmt.Sprintf(` ORDER BY timestamp DESC, sequence ASC LIMIT %d;`, limit+1)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to page ledger for %s: %w", username, storeErr(err))
	}
	txns, err := collectTransactions(rows)
	if err != nil {
		return nil, nil, err
	}

	if len(txns) <= limit {
		return txns, nil, nil
	}
	txns = txns[:limit]
	token := pagination.EncodeToken(pagination.CursorFor(txns[len(txns)-1]))
	return txns, &token, nil
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
