package dto

import (
	"time"

	"github.com/SscSPs/bank_app/internal/core/domain"
)

// RegisterAccountRequest defines the data needed to open a new account.
type RegisterAccountRequest struct {
	Username string `json:"username" binding:"required,username" example:"alice"`
	Password string `json:"password" binding:"required,min=6" example:"s3cret!"`
	FullName string `json:"fullName" binding:"required,max=200" example:"Alice Liddell"`
	Email    string `json:"email" binding:"required,email" example:"alice@example.com"`
}

// UpdateProfileRequest defines the fields a user may change on their account.
// Username and AccountNumber are accepted only so they can be rejected explicitly.
type UpdateProfileRequest struct {
	FullName      *string `json:"fullName" binding:"omitempty,min=1,max=200"`
	Email         *string `json:"email" binding:"omitempty,email"`
	Username      *string `json:"username,omitempty" swaggerignore:"true"`
	AccountNumber *string `json:"accountNumber,omitempty" swaggerignore:"true"`
}

// ChangePasswordRequest carries a password change.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=6"`
	ConfirmPassword string `json:"confirmPassword" binding:"required"`
}

// AccountResponse defines the data returned for an account. The credential is never included.
type AccountResponse struct {
	AccountID     string    `json:"accountID"`
	Username      string    `json:"username"`
	AccountNumber string    `json:"accountNumber"`
	FullName      string    `json:"fullName"`
	Email         string    `json:"email"`
	Balance       string    `json:"balance" example:"125.50"`
	CreatedAt     time.Time `json:"createdAt"`
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
}

// ToAccountResponse converts a domain.Account to AccountResponse DTO
func ToAccountResponse(acc *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:     acc.AccountID,
		Username:      acc.Username,
		AccountNumber: acc.AccountNumber,
		FullName:      acc.FullName,
		Email:         acc.Email,
		Balance:       Money(acc.Balance),
		CreatedAt:     acc.CreatedAt,
		LastUpdatedAt: acc.LastUpdatedAt,
	}
}
