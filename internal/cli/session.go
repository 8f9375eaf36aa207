package cli

import (
	"context"
	"flag"

	"github.com/charmbracelet/huh"
	"github.com/google/subcommands"

	"github.com/vadiminshakov/minibank/internal"
)

type loginCmd struct {
	env      *Env
	username string
	password string
}

func (*loginCmd) Name() string     { return "login" }
func (*loginCmd) Synopsis() string { return "start a session" }
func (*loginCmd) Usage() string {
	return `minibank login [-u <email>] [-p <password>]

  Checks the credentials and marks the session active. The password is
  prompted for when -p is omitted.
`
}

func (c *loginCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.username, "u", "", "login email (defaults to the configured one)")
	f.StringVar(&c.password, "p", "", "password")
}

func (c *loginCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return c.env.exit(c.env.withBank(ctx, func(b *internal.Bank) error {
		username := c.username
		if username == "" {
			username = b.Username()
		}

		password := c.password
		if password == "" {
			err := huh.NewForm(huh.NewGroup(
				huh.NewInput().Title("Password for " + username).EchoMode(huh.EchoModePassword).Value(&password),
			)).Run()
			if err != nil {
				return err
			}
		}

		if err := b.Login(ctx, username, password); err != nil {
			return err
		}
		c.env.println("Logged in as " + username)
		return nil
	}))
}

type logoutCmd struct {
	env *Env
}

func (*logoutCmd) Name() string             { return "logout" }
func (*logoutCmd) Synopsis() string         { return "end the session" }
func (*logoutCmd) Usage() string            { return "minibank logout\n" }
func (*logoutCmd) SetFlags(_ *flag.FlagSet) {}

func (c *logoutCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return c.env.exit(c.env.withBank(ctx, func(b *internal.Bank) error {
		if err := b.Logout(ctx); err != nil {
			return err
		}
		c.env.println("Logged out")
		return nil
	}))
}

type whoamiCmd struct {
	env *Env
}

func (*whoamiCmd) Name() string             { return "whoami" }
func (*whoamiCmd) Synopsis() string         { return "show the configured login and whether a session is active" }
func (*whoamiCmd) Usage() string            { return "minibank whoami\n" }
func (*whoamiCmd) SetFlags(_ *flag.FlagSet) {}

func (c *whoamiCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return c.env.exit(c.env.withBank(ctx, func(b *internal.Bank) error {
		loggedIn, err := b.LoggedIn(ctx)
		if err != nil {
			return err
		}
		state := "logged out"
		if loggedIn {
			state = "logged in"
		}
		c.env.println(b.Username() + " (" + state + ")")
		return nil
	}))
}
