package services

import (
	"context"
	"time"

	"github.com/SscSPs/bank_app/internal/core/domain"
)

// TokenSvcFacade defines the interface for access token issuing.
type TokenSvcFacade interface {
	// GenerateAccessToken issues a signed token whose subject is the account's username.
	GenerateAccessToken(ctx context.Context, account *domain.Account) (string, time.Time, error)
}
