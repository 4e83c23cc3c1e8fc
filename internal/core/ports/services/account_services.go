package services

import (
	"context"

	"github.com/SscSPs/bank_app/internal/core/domain"
	"github.com/SscSPs/bank_app/internal/dto"
)

// AccountReaderSvc defines read operations for account data
type AccountReaderSvc interface {
	// GetAccount resolves a username. A miss is apperrors.ErrUnknownAccount.
	GetAccount(ctx context.Context, username string) (*domain.Account, error)
}

// AccountWriterSvc defines write operations for account data
type AccountWriterSvc interface {
	// Register validates the request, hashes the password and creates the account.
	Register(ctx context.Context, req dto.RegisterAccountRequest) (*domain.Account, error)

	// UpdateProfile changes full name and/or email and returns the updated account.
	UpdateProfile(ctx context.Context, username string, req dto.UpdateProfileRequest) (*domain.Account, error)

	// ChangePassword replaces the credential after verifying the current one.
	ChangePassword(ctx context.Context, username string, req dto.ChangePasswordRequest) error
}

// AccountAuthenticatorSvc verifies credentials.
type AccountAuthenticatorSvc interface {
	// Authenticate reports whether secret matches the stored credential. Unknown users are false, not an error.
	Authenticate(ctx context.Context, username, secret string) (bool, error)
}

// AccountSvcFacade combines all account-related service interfaces
// This is a facade for clients that need access to all operations
type AccountSvcFacade interface {
	AccountReaderSvc
	AccountWriterSvc
	AccountAuthenticatorSvc
}
