package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/SscSPs/bank_app/internal/core/services"
	"github.com/SscSPs/bank_app/internal/platform/config"
	"github.com/SscSPs/bank_app/internal/repositories"
	"github.com/fatih/color"
	"golang.org/x/term"
)

func main() {
	os.Exit(runMain())
}

func runMain() int {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Failed to load config:", err)
		return 1
	}

	// Only warnings and errors reach the terminal; command output goes to stdout.
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	slog.SetDefault(logger)

	ctx := context.Background()
	repos, closeStore, err := repositories.Open(ctx, cfg, logger)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Failed to open store:", err)
		return 1
	}
	defer closeStore()

	stdin := bufio.NewReader(os.Stdin)
	app := &cli{
		services:   services.NewServiceContainer(cfg, repos, nil),
		out:        color.Output,
		readSecret: terminalSecretReader(stdin),
	}

	if len(os.Args) > 1 {
		if err := app.run(ctx, os.Args[1:]); err != nil {
			color.New(color.FgRed).Fprintln(os.Stderr, "Error:", err)
			return 1
		}
		return 0
	}
	app.repl(ctx, stdin)
	return 0
}

// repl reads one command per line until EOF or "exit".
func (c *cli) repl(ctx context.Context, in *bufio.Reader) {
	prompt := color.New(color.FgCyan, color.Bold)
	fmt.Fprintln(c.out, "Interactive mode. Type \"help\" for commands, \"exit\" to quit.")
	for {
		prompt.Fprint(c.out, "bank> ")
		line, err := in.ReadString('\n')
		args := strings.Fields(line)
		if len(args) > 0 {
			if args[0] == "exit" || args[0] == "quit" {
				return
			}
			if cmdErr := c.run(ctx, args); cmdErr != nil {
				color.New(color.FgRed).Fprintln(c.out, "Error:", cmdErr)
			}
		}
		if err != nil {
			if err != io.EOF {
				color.New(color.FgRed).Fprintln(c.out, "Error reading input:", err)
			}
			fmt.Fprintln(c.out)
			return
		}
	}
}

// terminalSecretReader prompts for a secret without echo when stdin is a
// terminal and falls back to reading a plain line otherwise.
func terminalSecretReader(in *bufio.Reader) func(prompt string) (string, error) {
	return func(prompt string) (string, error) {
		fmt.Fprint(os.Stderr, prompt)
		fd := int(os.Stdin.Fd())
		if term.IsTerminal(fd) {
			secret, err := term.ReadPassword(fd)
			fmt.Fprintln(os.Stderr)
			return string(secret), err
		}
		line, err := in.ReadString('\n')
		if err != nil && err != io.EOF {
			return "", err
		}
		return strings.TrimRight(line, "\r\n"), nil
	}
}
