package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type sample struct {
	Username string  `binding:"required,username"`
	Email    string  `binding:"required,email"`
	Password string  `binding:"required,min=6"`
	Confirm  string  `binding:"required,eqfield=Password"`
	Nickname *string `binding:"omitempty,min=2"`
}

func TestStruct(t *testing.T) {
	short := "x"
	tests := []struct {
		name    string
		in      sample
		wantErr string
	}{
		{name: "valid", in: sample{Username: "alice_01", Email: "a@example.com", Password: "secret", Confirm: "secret"}},
		{name: "upper case username", in: sample{Username: "Alice", Email: "a@example.com", Password: "secret", Confirm: "secret"}, wantErr: "Username must be 3-32"},
		{name: "short username", in: sample{Username: "al", Email: "a@example.com", Password: "secret", Confirm: "secret"}, wantErr: "Username"},
		{name: "bad email", in: sample{Username: "alice", Email: "nope", Password: "secret", Confirm: "secret"}, wantErr: "Email must be a valid email address"},
		{name: "short password", in: sample{Username: "alice", Email: "a@example.com", Password: "12345", Confirm: "12345"}, wantErr: "Password must be at least 6 characters"},
		{name: "mismatch", in: sample{Username: "alice", Email: "a@example.com", Password: "secret", Confirm: "secreT"}, wantErr: "Confirm must match Password"},
		{name: "optional too short", in: sample{Username: "alice", Email: "a@example.com", Password: "secret", Confirm: "secret", Nickname: &short}, wantErr: "Nickname"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Struct(tt.in)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			if assert.Error(t, err) {
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestUsernamePattern(t *testing.T) {
	assert.True(t, UsernamePattern.MatchString("a.b-c_1"))
	assert.False(t, UsernamePattern.MatchString("has space"))
	assert.False(t, UsernamePattern.MatchString("waytoolongusernamethatexceedsthirtytwo"))
}

func TestMessage_PassesThroughOtherErrors(t *testing.T) {
	assert.Equal(t, "boom", Message(errors.New("boom")))
}
