package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/SscSPs/bank_app/internal/apperrors"
	"github.com/SscSPs/bank_app/internal/core/domain"
	portssvc "github.com/SscSPs/bank_app/internal/core/ports/services"
	"github.com/SscSPs/bank_app/internal/dto"
	"github.com/SscSPs/bank_app/internal/utils"
	"github.com/fatih/color"
	"github.com/shopspring/decimal"
)

const usage = `Commands:
  register <username> <full name...> <email>
  login <username>
  deposit <username> <amount>
  withdraw <username> <amount>
  transfer <from> <to> <amount> [description...]
  summary <username>
  ledger <username>
  counts <username>`

var errUsage = errors.New("invalid arguments")

type cli struct {
	services   *portssvc.ServiceContainer
	out        io.Writer
	readSecret func(prompt string) (string, error)
}

var (
	credit = color.New(color.FgGreen)
	debit  = color.New(color.FgRed)
	bold   = color.New(color.Bold)
)

func (c *cli) run(ctx context.Context, args []string) error {
	cmd, rest := args[0], args[1:]
	var err error
	switch cmd {
	case "help", "-h", "--help":
		fmt.Fprintln(c.out, usage)
	case "register":
		err = c.register(ctx, rest)
	case "login":
		err = c.login(ctx, rest)
	case "deposit", "withdraw":
		err = c.single(ctx, cmd, rest)
	case "transfer":
		err = c.transfer(ctx, rest)
	case "summary":
		err = c.summary(ctx, rest)
	case "ledger":
		err = c.ledger(ctx, rest)
	case "counts":
		err = c.counts(ctx, rest)
	default:
		return fmt.Errorf("unknown command %q\n%s", cmd, usage)
	}
	if errors.Is(err, errUsage) {
		return fmt.Errorf("%w\n%s", err, usage)
	}
	return err
}

func (c *cli) register(ctx context.Context, args []string) error {
	if len(args) < 3 {
		return errUsage
	}
	password, err := c.readSecret("Password: ")
	if err != nil {
		return err
	}
	confirm, err := c.readSecret("Confirm password: ")
	if err != nil {
		return err
	}
	if password != confirm {
		return errors.New("passwords do not match")
	}

	account, err := c.services.Account.Register(ctx, dto.RegisterAccountRequest{
		Username: args[0],
		Password: password,
		FullName: strings.Join(args[1:len(args)-1], " "),
		Email:    args[len(args)-1],
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Account created for %s. Account number: %s\n", account.Username, bold.Sprint(account.AccountNumber))
	return nil
}

func (c *cli) login(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errUsage
	}
	password, err := c.readSecret("Password: ")
	if err != nil {
		return err
	}
	ok, err := c.services.Account.Authenticate(ctx, args[0], password)
	if err != nil {
		return err
	}
	if !ok {
		return errors.New("invalid username or password")
	}
	account, err := c.services.Account.GetAccount(ctx, args[0])
	if err != nil {
		return err
	}
	token, expiresAt, err := c.services.TokenService.GenerateAccessToken(ctx, account)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Logged in as %s. Token (expires %s):\n%s\n", account.Username, expiresAt.Format("2006-01-02 15:04"), token)
	return nil
}

func (c *cli) single(ctx context.Context, cmd string, args []string) error {
	if len(args) != 2 {
		return errUsage
	}
	amount, err := parseAmount(args[1])
	if err != nil {
		return err
	}

	var res *domain.OperationResult
	if cmd == "deposit" {
		res, err = c.services.Engine.Deposit(ctx, args[0], amount)
	} else {
		res, err = c.services.Engine.Withdraw(ctx, args[0], amount)
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "%s. New balance: %s\n", res.Transaction.Description, bold.Sprint(utils.FormatAmount(res.Balance)))
	return nil
}

func (c *cli) transfer(ctx context.Context, args []string) error {
	if len(args) < 3 {
		return errUsage
	}
	amount, err := parseAmount(args[2])
	if err != nil {
		return err
	}
	res, err := c.services.Engine.Transfer(ctx, args[0], args[1], amount, strings.Join(args[3:], " "))
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Transferred %s to %s. New balance: %s\n",
		utils.FormatAmount(amount), strings.ToLower(strings.TrimSpace(args[1])), bold.Sprint(utils.FormatAmount(res.Balance)))
	return nil
}

func (c *cli) summary(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errUsage
	}
	s, err := c.services.Projector.AccountSummary(ctx, args[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "%s (%s)\nAccount number: %s\nBalance: %s\nTransactions: %d\n",
		s.Account.FullName, s.Account.Username, s.Account.AccountNumber,
		bold.Sprint(utils.FormatAmount(s.Balance)), s.TotalCount)
	if len(s.RecentTransactions) > 0 {
		fmt.Fprintln(c.out, "Recent:")
		c.printEntries(s.RecentTransactions)
	}
	return nil
}

func (c *cli) ledger(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errUsage
	}
	entries, err := c.services.Projector.LedgerFor(ctx, args[0])
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintln(c.out, "No transactions yet.")
		return nil
	}
	c.printEntries(entries)
	return nil
}

func (c *cli) counts(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errUsage
	}
	counts, err := c.services.Projector.AggregateCounts(ctx, args[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Deposits: %d  Withdrawals: %d  Transfers: %d\n", counts.Deposits, counts.Withdrawals, counts.Transfers)
	return nil
}

func (c *cli) printEntries(entries []domain.LedgerEntry) {
	for _, e := range entries {
		paint := debit
		if e.Direction == domain.DirectionCredit {
			paint = credit
		}
		fmt.Fprintf(c.out, "  %s  %-8s  %12s  %s\n",
			e.Timestamp.Local().Format("2006-01-02 15:04"),
			e.Type,
			paint.Sprint(utils.FormatSignedAmount(e.SignedAmount)),
			e.Description)
	}
}

func parseAmount(raw string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q is not a number", apperrors.ErrInvalidAmount, raw)
	}
	return amount, nil
}
