// Package cli holds the minibank subcommands.
package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/google/subcommands"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/vadiminshakov/minibank/config"
	"github.com/vadiminshakov/minibank/internal"
	"github.com/vadiminshakov/minibank/internal/ledger"
	"github.com/vadiminshakov/minibank/internal/storage/kv"
)

// Env is what every command shares: the global flags, the logger and the output streams.
type Env struct {
	Flags   *config.Flags
	Logger  *zap.Logger
	Out     io.Writer
	Err     io.Writer
	Options []internal.BankOption
}

// Entry is a command with its help group.
type Entry struct {
	Command subcommands.Command
	Group   string
}

// Commands returns every minibank command bound to env.
func Commands(env *Env) []Entry {
	return []Entry{
		{&loginCmd{env: env}, "session"},
		{&logoutCmd{env: env}, "session"},
		{&whoamiCmd{env: env}, "session"},
		{&balanceCmd{env: env}, "account"},
		{&historyCmd{env: env}, "account"},
		{&portfolioCmd{env: env}, "account"},
		{&profileCmd{env: env}, "account"},
		{&quotesCmd{env: env}, "market"},
		{&payBillCmd{env: env}, "payments"},
		{&transferCmd{env: env}, "payments"},
		{&goldCmd{env: env}, "trading"},
		{&stockCmd{env: env}, "trading"},
		{&tuiCmd{env: env}, "interactive"},
		{&setupCmd{env: env}, "interactive"},
	}
}

// withBank loads the config, opens the bank, runs fn and closes the bank.
func (e *Env) withBank(ctx context.Context, fn func(b *internal.Bank) error) error {
	cfg, err := e.Flags.Get()
	if err != nil {
		return errors.Wrap(err, "load config")
	}

	logger := e.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	b, err := internal.NewBank(ctx, cfg, logger, e.Options...)
	if err != nil {
		return err
	}

	runErr := fn(b)
	if err := b.Close(); err != nil && runErr == nil {
		return errors.Wrap(err, "close record store")
	}
	return runErr
}

// usageError is a malformed command line.
type usageError string

func (e usageError) Error() string { return string(e) }

func usagef(format string, args ...interface{}) error {
	return usageError(fmt.Sprintf(format, args...))
}

// exit prints err for the user and maps it to an exit status.
func (e *Env) exit(err error) subcommands.ExitStatus {
	if err == nil {
		return subcommands.ExitSuccess
	}

	var usage usageError
	if errors.As(err, &usage) {
		fmt.Fprintln(e.Err, usage)
		return subcommands.ExitUsageError
	}

	if verr, ok := ledger.IsValidation(err); ok {
		fmt.Fprintln(e.Err, verr.Message)
		return subcommands.ExitFailure
	}

	if errors.Is(err, kv.ErrUnavailable) {
		msg := err.Error()
		if !strings.HasPrefix(msg, kv.ErrUnavailable.Error()) {
			msg = kv.ErrUnavailable.Error() + ": " + msg
		}
		fmt.Fprintln(e.Err, msg)
		return subcommands.ExitFailure
	}

	fmt.Fprintln(e.Err, err)
	return subcommands.ExitFailure
}

func (e *Env) println(a ...interface{}) {
	fmt.Fprintln(e.Out, a...)
}
