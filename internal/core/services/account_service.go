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
	"github.com/SscSPs/bank_app/internal/dto"
	"github.com/SscSPs/bank_app/internal/utils"
	"github.com/SscSPs/bank_app/internal/utils/validation"
)

// accountService implements the AccountSvcFacade interface
type accountService struct {
	BaseService
	accountRepo portsrepo.AccountRepositoryFacade
	hasher      utils.CredentialHasher
}

// AccountServiceOption is a functional option for configuring the account service
type AccountServiceOption func(*accountService)

// WithCredentialHasher replaces the default bcrypt hasher.
func WithCredentialHasher(h utils.CredentialHasher) AccountServiceOption {
	return func(s *accountService) {
		s.hasher = h
	}
}

// WithAccountStoreTimeout sets the timeout applied to each store call.
func WithAccountStoreTimeout(d time.Duration) AccountServiceOption {
	return func(s *accountService) {
		s.StoreTimeout = d
	}
}

// NewAccountService creates a new account service with the provided options
func NewAccountService(repo portsrepo.AccountRepositoryFacade, options ...AccountServiceOption) portssvc.AccountSvcFacade {
	svc := &accountService{
		accountRepo: repo,
		hasher:      utils.NewBcryptHasher(0),
	}

	for _, option := range options {
		option(svc)
	}

	return svc
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

func (s *accountService) Register(ctx context.Context, req dto.RegisterAccountRequest) (*domain.Account, error) {
	req.Username = normalizeUsername(req.Username)
	req.FullName = strings.TrimSpace(req.FullName)
	req.Email = strings.TrimSpace(req.Email)

	if err := validation.Struct(req); err != nil {
		err = validationErr(err)
		s.LogWarn(ctx, err, "Registration rejected", slog.String("username", req.Username))
		return nil, err
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		s.LogError(ctx, err, "Failed to hash credential", slog.String("username", req.Username))
		return nil, fmt.Errorf("failed to hash credential: %w", err)
	}

	ctx, cancel := s.WithTimeout(ctx)
	defer cancel()

	account, err := s.accountRepo.CreateAccount(ctx, domain.NewAccount{
		Username:         req.Username,
		FullName:         req.FullName,
		Email:            req.Email,
		CredentialSecret: hash,
	})
	if err != nil {
		err = storeErr(ctx, err)
		s.LogFailure(ctx, err, "Failed to create account", slog.String("username", req.Username))
		return nil, err
	}

	s.LogInfo(ctx, "Account registered",
		slog.String("username", account.Username),
		slog.String("account_number", account.AccountNumber))
	return account, nil
}

func (s *accountService) Authenticate(ctx context.Context, username, secret string) (bool, error) {
	ctx, cancel := s.WithTimeout(ctx)
	defer cancel()

	account, err := s.accountRepo.FindAccountByUsername(ctx, normalizeUsername(username))
	if err != nil {
		err = storeErr(ctx, err)
		s.LogError(ctx, err, "Failed to look up account for authentication", slog.String("username", username))
		return false, err
	}
	if account == nil {
		return false, nil
	}
	return s.hasher.Verify(secret, account.CredentialSecret), nil
}

func (s *accountService) GetAccount(ctx context.Context, username string) (*domain.Account, error) {
	ctx, cancel := s.WithTimeout(ctx)
	defer cancel()
	return s.resolve(ctx, normalizeUsername(username))
}

// resolve expects a context that already carries the store timeout.
func (s *accountService) resolve(ctx context.Context, username string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByUsername(ctx, username)
	if err != nil {
		err = storeErr(ctx, err)
		s.LogError(ctx, err, "Failed to find account", slog.String("username", username))
		return nil, err
	}
	if account == nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrUnknownAccount, username)
	}
	return account, nil
}

func (s *accountService) UpdateProfile(ctx context.Context, username string, req dto.UpdateProfileRequest) (*domain.Account, error) {
	if req.Username != nil || req.AccountNumber != nil {
		s.LogWarn(ctx, apperrors.ErrImmutableField, "Profile update touched an immutable field", slog.String("username", username))
		return nil, apperrors.ErrImmutableField
	}
	if req.FullName != nil {
		trimmed := strings.TrimSpace(*req.FullName)
		req.FullName = &trimmed
	}
	if req.Email != nil {
		trimmed := strings.TrimSpace(*req.Email)
		req.Email = &trimmed
	}
	if err := validation.Struct(req); err != nil {
		err = validationErr(err)
		s.LogWarn(ctx, err, "Profile update rejected", slog.String("username", username))
		return nil, err
	}

	update := domain.ProfileUpdate{FullName: req.FullName, Email: req.Email}
	if update.IsEmpty() {
		return nil, validationErr(errors.New("nothing to update"))
	}

	ctx, cancel := s.WithTimeout(ctx)
	defer cancel()

	account, err := s.resolve(ctx, normalizeUsername(username))
	if err != nil {
		return nil, err
	}
	if err := s.accountRepo.UpdateProfile(ctx, account.AccountID, update); err != nil {
		err = storeErr(ctx, err)
		s.LogFailure(ctx, err, "Failed to update profile", slog.String("account_id", account.AccountID))
		return nil, err
	}

	updated, err := s.accountRepo.FindAccountByID(ctx, account.AccountID)
	if err != nil {
		err = storeErr(ctx, err)
		s.LogError(ctx, err, "Failed to reload account after profile update", slog.String("account_id", account.AccountID))
		return nil, err
	}
	s.LogInfo(ctx, "Profile updated", slog.String("account_id", account.AccountID))
	return updated, nil
}

func (s *accountService) ChangePassword(ctx context.Context, username string, req dto.ChangePasswordRequest) error {
	if err := validation.Struct(req); err != nil {
		return validationErr(err)
	}
	if req.NewPassword != req.ConfirmPassword {
		return validationErr(errors.New("new password and confirmation do not match"))
	}

	ctx, cancel := s.WithTimeout(ctx)
	defer cancel()

	account, err := s.resolve(ctx, normalizeUsername(username))
	if err != nil {
		return err
	}
	if !s.hasher.Verify(req.CurrentPassword, account.CredentialSecret) {
		s.LogWarn(ctx, apperrors.ErrInvalidCredentials, "Password change with wrong current password", slog.String("username", account.Username))
		return apperrors.ErrInvalidCredentials
	}

	hash, err := s.hasher.Hash(req.NewPassword)
	if err != nil {
		s.LogError(ctx, err, "Failed to hash credential", slog.String("username", account.Username))
		return fmt.Errorf("failed to hash credential: %w", err)
	}
	if err := s.accountRepo.UpdateProfile(ctx, account.AccountID, domain.ProfileUpdate{CredentialSecret: &hash}); err != nil {
		err = storeErr(ctx, err)
		s.LogFailure(ctx, err, "Failed to store new credential", slog.String("account_id", account.AccountID))
		return err
	}
	s.LogInfo(ctx, "Password changed", slog.String("account_id", account.AccountID))
	return nil
}
