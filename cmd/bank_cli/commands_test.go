package main

import (
	"bufio"
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/SscSPs/bank_app/internal/apperrors"
	"github.com/SscSPs/bank_app/internal/core/services"
	"github.com/SscSPs/bank_app/internal/platform/config"
	"github.com/SscSPs/bank_app/internal/repositories/memory"
	"github.com/fatih/color"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"
)

type CLITestSuite struct {
	suite.Suite
	ctx     context.Context
	out     *bytes.Buffer
	secrets []string
	app     *cli
}

func (s *CLITestSuite) SetupTest() {
	color.NoColor = true
	s.ctx = context.Background()
	s.out = new(bytes.Buffer)
	s.secrets = nil

	cfg := &config.Config{
		StoreTimeout:      time.Second,
		JWTSecret:         "cli-test-secret",
		JWTIssuer:         "bank-app",
		JWTExpiryDuration: time.Hour,
		BcryptCost:        bcrypt.MinCost,
	}
	s.app = &cli{
		services: services.NewServiceContainer(cfg, memory.NewStore().Provider(), nil),
		out:      s.out,
		readSecret: func(string) (string, error) {
			next := s.secrets[0]
			s.secrets = s.secrets[1:]
			return next, nil
		},
	}
}

func TestCLITestSuite(t *testing.T) {
	suite.Run(t, new(CLITestSuite))
}

func (s *CLITestSuite) exec(line string) error {
	s.out.Reset()
	return s.app.run(s.ctx, strings.Fields(line))
}

func (s *CLITestSuite) registerUser(username string) {
	s.secrets = []string{"secret1", "secret1"}
	s.Require().NoError(s.exec("register " + username + " Test User " + username + "@example.com"))
}

func (s *CLITestSuite) TestRegister_PrintsAccountNumber() {
	s.registerUser("alice")
	s.Contains(s.out.String(), "Account created for alice. Account number: ")

	acc, err := s.app.services.Account.GetAccount(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal("Test User", acc.FullName)
	s.Contains(s.out.String(), acc.AccountNumber)
}

func (s *CLITestSuite) TestRegister_PasswordMismatch() {
	s.secrets = []string{"secret1", "secret2"}
	err := s.exec("register alice Alice alice@example.com")
	s.EqualError(err, "passwords do not match")
}

func (s *CLITestSuite) TestLogin() {
	s.registerUser("alice")

	s.secrets = []string{"secret1"}
	s.Require().NoError(s.exec("login alice"))
	s.Contains(s.out.String(), "Logged in as alice.")

	s.secrets = []string{"wrong"}
	s.EqualError(s.exec("login alice"), "invalid username or password")
}

func (s *CLITestSuite) TestMoneyFlow() {
	s.registerUser("alice")
	s.registerUser("bob")

	s.Require().NoError(s.exec("deposit alice 100"))
	s.Contains(s.out.String(), "New balance: 100.00")

	s.Require().NoError(s.exec("withdraw alice 20.50"))
	s.Contains(s.out.String(), "New balance: 79.50")

	s.Require().NoError(s.exec("transfer alice bob 30 rent for june"))
	s.Equal("Transferred 30.00 to bob. New balance: 49.50\n", s.out.String())

	s.Require().NoError(s.exec("ledger bob"))
	s.Contains(s.out.String(), "+30.00")
	s.Contains(s.out.String(), "rent for june")

	s.Require().NoError(s.exec("ledger alice"))
	s.Contains(s.out.String(), "-30.00")
	s.Contains(s.out.String(), "-20.50")
	s.Contains(s.out.String(), "+100.00")

	s.Require().NoError(s.exec("counts alice"))
	s.Equal("Deposits: 1  Withdrawals: 2  Transfers: 1\n", s.out.String())

	s.Require().NoError(s.exec("summary alice"))
	s.Contains(s.out.String(), "Balance: 49.50")
	s.Contains(s.out.String(), "Transactions: 3")
}

func (s *CLITestSuite) TestEngineErrorsSurface() {
	s.registerUser("alice")

	s.ErrorIs(s.exec("withdraw alice 5"), apperrors.ErrInsufficientFunds)
	s.ErrorIs(s.exec("deposit alice 0"), apperrors.ErrInvalidAmount)
	s.ErrorIs(s.exec("transfer alice alice 1"), apperrors.ErrSelfTransfer)
	s.ErrorIs(s.exec("deposit nobody 1"), apperrors.ErrUnknownAccount)
	err := s.exec("deposit alice ten")
	s.ErrorIs(err, apperrors.ErrInvalidAmount)
	s.ErrorContains(err, `"ten" is not a number`)
	s.ErrorIs(s.exec("transfer alice bob 1e20000000"), apperrors.ErrInvalidAmount)
}

func (s *CLITestSuite) TestUsageErrors() {
	tests := []string{"deposit alice", "transfer alice bob", "ledger", "login", "register alice"}
	for _, line := range tests {
		s.Run(line, func() {
			err := s.exec(line)
			s.ErrorIs(err, errUsage)
			s.ErrorContains(err, "Commands:")
		})
	}
	s.ErrorContains(s.exec("launch"), `unknown command "launch"`)
}

func (s *CLITestSuite) TestREPL_RunsUntilExit() {
	s.registerUser("alice")
	s.out.Reset()

	in := bufio.NewReader(strings.NewReader("deposit alice 10\n\nwithdraw alice 50\nexit\ndeposit alice 10\n"))
	s.app.repl(s.ctx, in)

	out := s.out.String()
	s.Contains(out, "New balance: 10.00")
	s.Contains(out, "Error: insufficient funds")

	acc, err := s.app.services.Account.GetAccount(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal("10.00", acc.Balance.StringFixed(2))
}
