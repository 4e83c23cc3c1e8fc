package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/SscSPs/bank_app/internal/apperrors"
	"github.com/SscSPs/bank_app/internal/core/domain"
	portsrepo "github.com/SscSPs/bank_app/internal/core/ports/repositories"
	"github.com/SscSPs/bank_app/internal/models"
	"github.com/SscSPs/bank_app/internal/utils"
	"github.com/SscSPs/bank_app/internal/utils/mapping"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const accountColumns = `account_id, username, account_number, full_name, email, credential_hash, balance, created_at, last_updated_at`

type PgxAccountRepository struct {
	BaseRepository
	newAccountNumber func() (string, error)
}

// newPgxAccountRepository creates a new repository for account data.
func newPgxAccountRepository(pool *pgxpool.Pool) *PgxAccountRepository {
	return &PgxAccountRepository{
		BaseRepository: BaseRepository{Pool: pool},
		newAccountNumber: func() (string, error) {
			return utils.GenerateAccountNumber(domain.AccountNumberLength)
		},
	}
}

// Ensure PgxAccountRepository implements portsrepo.AccountRepositoryFacade
var _ portsrepo.AccountRepositoryFacade = (*PgxAccountRepository)(nil)

func scanAccount(row pgx.Row) (domain.Account, error) {
	var m models.Account
	err := row.Scan(
		&m.AccountID,
		&m.Username,
		&m.AccountNumber,
		&m.FullName,
		&m.Email,
		&m.CredentialHash,
		&m.Balance,
		&m.CreatedAt,
		&m.LastUpdatedAt,
	)
	if err != nil {
		return domain.Account{}, err
	}
	return mapping.ToDomainAccount(m), nil
}

// FindAccountByUsername returns nil, nil when no account has the username.
func (r *PgxAccountRepository) FindAccountByUsername(ctx context.Context, username string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE username = $1;`
	acc, err := scanAccount(r.Pool.QueryRow(ctx, query, strings.TrimSpace(username)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find account by username %s: %w", username, storeErr(err))
	}
	return &acc, nil
}

// FindAccountByID retrieves an account by its ID.
func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = $1;`
	acc, err := scanAccount(r.Pool.QueryRow(ctx, query, accountID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find account by ID %s: %w", accountID, storeErr(err))
	}
	return &acc, nil
}

// CreateAccount inserts a new account, regenerating the account number when it collides.
func (r *PgxAccountRepository) CreateAccount(ctx context.Context, candidate domain.NewAccount) (*domain.Account, error) {
	now := time.Now().UTC()
	acc := domain.Account{
		AccountID:        uuid.NewString(),
		Username:         strings.TrimSpace(candidate.Username),
		FullName:         candidate.FullName,
		Email:            candidate.Email,
		CredentialSecret: candidate.CredentialSecret,
		Balance:          decimal.Zero,
		AuditFields:      domain.AuditFields{CreatedAt: now, LastUpdatedAt: now},
	}

	query := `
		INSERT INTO accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`

	for attempt := 0; attempt < domain.MaxAccountNumberAttempts; attempt++ {
		number, err := r.newAccountNumber()
		if err != nil {
			return nil, fmt.Errorf("%w: generating account number: %v", apperrors.ErrStoreUnavailable, err)
		}
		acc.AccountNumber = number
		m := mapping.ToModelAccount(acc)

		_, err = r.Pool.Exec(ctx, query,
			m.AccountID,
			m.Username,
			m.AccountNumber,
			m.FullName,
			m.Email,
			m.CredentialHash,
			m.Balance,
			m.CreatedAt,
			m.LastUpdatedAt,
		)
		if err == nil {
			return &acc, nil
		}

		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			switch pgErr.ConstraintName {
			case "accounts_username_key":
				return nil, apperrors.ErrDuplicateUsername
			case "accounts_account_number_key":
				continue
			}
		}
		return nil, fmt.Errorf("failed to save account %s: %w", acc.Username, storeErr(err))
	}

	return nil, fmt.Errorf("%w: could not allocate a unique account number after %d attempts",
		apperrors.ErrStoreUnavailable, domain.MaxAccountNumberAttempts)
}

// UpdateProfile changes the mutable profile columns that are set in update.
func (r *PgxAccountRepository) UpdateProfile(ctx context.Context, accountID string, update domain.ProfileUpdate) error {
	if update.TouchesImmutable() {
		return apperrors.ErrImmutableField
	}

	query := `
		UPDATE accounts
		SET full_name = COALESCE($2, full_name),
		    email = COALESCE($3, email),
		    credential_hash = COALESCE($4, credential_hash),
		    last_updated_at = $5
		WHERE account_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query, accountID, update.FullName, update.Email, update.CredentialSecret, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to update profile for account %s: %w", accountID, storeErr(err))
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// SetBalance is a compare-and-swap outside of any unit of work.
func (r *PgxAccountRepository) SetBalance(ctx context.Context, accountID string, expected, newBalance decimal.Decimal) error {
	return setBalance(ctx, r.Pool, accountID, expected, newBalance)
}

func setBalance(ctx context.Context, q querier, accountID string, expected, newBalance decimal.Decimal) error {
	query := `
		UPDATE accounts
		SET balance = $3, last_updated_at = $4
		WHERE account_id = $1 AND balance = $2;
	`
	tag, err := q.Exec(ctx, query, accountID, expected, newBalance, time.Now().UTC())
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == checkViolation {
			return fmt.Errorf("%w: balance would be negative", apperrors.ErrInsufficientFunds)
		}
		return fmt.Errorf("failed to set balance for account %s: %w", accountID, storeErr(err))
	}
	if tag.RowsAffected() == 1 {
		return nil
	}

	// Distinguish a vanished account from a moved balance.
	var exists bool
	if err := q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM accounts WHERE account_id = $1);`, accountID).Scan(&exists); err != nil {
		return fmt.Errorf("failed to check account %s: %w", accountID, storeErr(err))
	}
	if !exists {
		return apperrors.ErrNotFound
	}
	return apperrors.ErrConcurrentUpdate
}

// findAccountsByUsernamesForUpdate locks the rows in account_id order so that
// concurrent transfers between the same pair cannot deadlock.
func findAccountsByUsernamesForUpdate(ctx context.Context, tx pgx.Tx, usernames []string) (map[string]domain.Account, error) {
	if len(usernames) == 0 {
		return map[string]domain.Account{}, nil
	}
	trimmed := make([]string, len(usernames))
	for i, u := range usernames {
		trimmed[i] = strings.TrimSpace(u)
	}

	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE username = ANY($1)
		ORDER BY account_id
		FOR UPDATE;
	`
	rows, err := tx.Query(ctx, query, trimmed)
	if err != nil {
		return nil, fmt.Errorf("failed to lock accounts: %w", storeErr(err))
	}
	defer rows.Close()

	accounts := make(map[string]domain.Account, len(usernames))
	for rows.Next() {
		acc, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan locked account: %w", storeErr(err))
		}
		accounts[acc.Username] = acc
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating locked accounts: %w", storeErr(err))
	}
	return accounts, nil
}
