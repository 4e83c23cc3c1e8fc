package pagination

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/SscSPs/bank_app/internal/apperrors"
	"github.com/SscSPs/bank_app/internal/core/domain"
)

const timeFormat = time.RFC3339Nano // Use a precise time format

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// LedgerCursor marks the last entry of a page. Ledger pages are ordered by
// timestamp descending then sequence ascending, so the next page starts with
// the first entry strictly after the cursor in that order.
type LedgerCursor struct {
	Timestamp time.Time
	Sequence  int64
}

// CursorFor returns the cursor positioned at tx.
func CursorFor(tx domain.Transaction) LedgerCursor {
	return LedgerCursor{Timestamp: tx.Timestamp, Sequence: tx.Sequence}
}

// Precedes reports whether tx comes after the cursor in ledger order.
func (c LedgerCursor) Precedes(tx domain.Transaction) bool {
	if tx.Timestamp.Before(c.Timestamp) {
		return true
	}
	return tx.Timestamp.Equal(c.Timestamp) && tx.Sequence > c.Sequence
}

// EncodeToken creates a base64 encoded token from a ledger cursor.
func EncodeToken(cursor LedgerCursor) string {
	tokenStr := fmt.Sprintf("%s|%d", cursor.Timestamp.UTC().Format(timeFormat), cursor.Sequence)
	return base64.StdEncoding.EncodeToString([]byte(tokenStr))
}

// DecodeToken parses the base64 encoded token back into a ledger cursor.
func DecodeToken(token string) (LedgerCursor, error) {
	decodedBytes, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return LedgerCursor{}, fmt.Errorf("invalid pagination token format (base64 decode): %w", err)
	}
	parts := strings.SplitN(string(decodedBytes), "|", 2)
	if len(parts) != 2 {
		return LedgerCursor{}, fmt.Errorf("invalid pagination token format (split)")
	}

	ts, err := time.Parse(timeFormat, parts[0])
	if err != nil {
		return LedgerCursor{}, fmt.Errorf("invalid pagination token format (timestamp parse): %w", err)
	}

	seq, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return LedgerCursor{}, fmt.Errorf("invalid pagination token format (sequence parse): %w", err)
	}

	return LedgerCursor{Timestamp: ts, Sequence: seq}, nil
}

// DecodeOptionalToken decodes a token that may be absent. Malformed tokens are validation errors.
func DecodeOptionalToken(token *string) (*LedgerCursor, error) {
	if token == nil || *token == "" {
		return nil, nil
	}
	cursor, err := DecodeToken(*token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	return &cursor, nil
}

// NormalizeLimit clamps a requested page size into [1, MaxLimit], defaulting when unset.
func NormalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

// PageTransactions slices an already ordered ledger into one page. The returned
// token is nil when there are no further entries.
func PageTransactions(ordered []domain.Transaction, limit int, nextToken *string) ([]domain.Transaction, *string, error) {
	cursor, err := DecodeOptionalToken(nextToken)
	if err != nil {
		return nil, nil, err
	}
	limit = NormalizeLimit(limit)

	start := 0
	if cursor != nil {
		start = len(ordered)
		for i, tx := range ordered {
			if cursor.Precedes(tx) {
				start = i
				break
			}
		}
	}

	end := start + limit
	if end >= len(ordered) {
		return ordered[start:], nil, nil
	}
	page := ordered[start:end]
	token := EncodeToken(CursorFor(page[len(page)-1]))
	return page, &token, nil
}
