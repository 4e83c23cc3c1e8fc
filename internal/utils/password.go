package utils

import (
	"golang.org/x/crypto/bcrypt"
)

// CredentialHasher turns a plaintext secret into a storable hash and verifies
// secrets against it.
type CredentialHasher interface {
	Hash(secret string) (string, error)
	Verify(secret, hash string) bool
}

// BcryptHasher is the default CredentialHasher.
type BcryptHasher struct {
	Cost int
}

// NewBcryptHasher returns a bcrypt hasher. A cost of zero uses bcrypt.DefaultCost.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{Cost: cost}
}

var _ CredentialHasher = (*BcryptHasher)(nil)

// Hash hashes a plaintext secret using bcrypt.
func (h *BcryptHasher) Hash(secret string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), h.Cost)
	return string(hash), err
}

// Verify compares a plaintext secret with a bcrypt hash.
func (h *BcryptHasher) Verify(secret, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(secret)) == nil
}
