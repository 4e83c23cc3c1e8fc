package utils

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAccountNumber(t *testing.T) {
	pattern := regexp.MustCompile(`^[1-9][0-9]{9}$`)
	seen := make(map[string]struct{})
	for i := 0; i < 50; i++ {
		n, err := GenerateAccountNumber(10)
		require.NoError(t, err)
		assert.Regexp(t, pattern, n)
		seen[n] = struct{}{}
	}
	assert.Greater(t, len(seen), 1, "numbers should vary")

	_, err := GenerateAccountNumber(0)
	assert.Error(t, err)
}
