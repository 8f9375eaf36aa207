package cli

import (
	"context"
	"flag"

	"github.com/google/subcommands"

	"github.com/vadiminshakov/minibank/internal"
	"github.com/vadiminshakov/minibank/internal/ledger"
	"github.com/vadiminshakov/minibank/internal/tui"
)

type balanceCmd struct {
	env *Env
}

func (*balanceCmd) Name() string             { return "balance" }
func (*balanceCmd) Synopsis() string         { return "show balance, gold, portfolio value and recent transactions" }
func (*balanceCmd) Usage() string            { return "minibank balance\n" }
func (*balanceCmd) SetFlags(_ *flag.FlagSet) {}

func (c *balanceCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return c.env.exit(c.env.withBank(ctx, func(b *internal.Bank) error {
		summary, err := b.Summary(ctx)
		if err != nil {
			return err
		}
		c.env.println(tui.Dashboard(summary, b.Currency()))
		return nil
	}))
}

type historyCmd struct {
	env   *Env
	count int
}

func (*historyCmd) Name() string     { return "history" }
func (*historyCmd) Synopsis() string { return "list transactions, newest first" }
func (*historyCmd) Usage() string {
	return `minibank history [-n <count>]
`
}

func (c *historyCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.count, "n", 0, "show only the latest n transactions (0 for all)")
}

func (c *historyCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.count < 0 {
		return c.env.exit(usagef("-n must not be negative"))
	}
	return c.env.exit(c.env.withBank(ctx, func(b *internal.Bank) error {
		log, err := b.RecentTransactions(ctx, c.count)
		if err != nil {
			return err
		}
		c.env.println(tui.History(log, b.Currency()))
		return nil
	}))
}

type portfolioCmd struct {
	env *Env
}

func (*portfolioCmd) Name() string             { return "portfolio" }
func (*portfolioCmd) Synopsis() string         { return "show stock holdings valued at current prices" }
func (*portfolioCmd) Usage() string            { return "minibank portfolio\n" }
func (*portfolioCmd) SetFlags(_ *flag.FlagSet) {}

func (c *portfolioCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return c.env.exit(c.env.withBank(ctx, func(b *internal.Bank) error {
		holdings, err := b.Holdings(ctx)
		if err != nil {
			return err
		}
		c.env.println(tui.Holdings(holdings, b.Currency()))
		return nil
	}))
}

type quotesCmd struct {
	env   *Env
	query string
}

func (*quotesCmd) Name() string     { return "quotes" }
func (*quotesCmd) Synopsis() string { return "list stock quotes" }
func (*quotesCmd) Usage() string {
	return `minibank quotes [-q <term>]

  Lists the quote board, filtered by symbol or company name when -q is set.
  No session is needed.
`
}

func (c *quotesCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.query, "q", "", "search term")
}

func (c *quotesCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return c.env.exit(c.env.withBank(ctx, func(b *internal.Bank) error {
		c.env.println(tui.Quotes(b.Market.Search(c.query), b.Currency()))
		return nil
	}))
}

type profileCmd struct {
	env     *Env
	name    string
	email   string
	mobile  string
	address string
	dob     string
}

func (*profileCmd) Name() string     { return "profile" }
func (*profileCmd) Synopsis() string { return "show or update personal details" }
func (*profileCmd) Usage() string {
	return `minibank profile [-name <name>] [-email <email>] [-mobile <number>] [-address <text>] [-dob <date>]

  Without flags prints the profile. Any flag updates that field and keeps the rest.
`
}

func (c *profileCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.name, "name", "", "full name")
	f.StringVar(&c.email, "email", "", "email address")
	f.StringVar(&c.mobile, "mobile", "", "mobile number")
	f.StringVar(&c.address, "address", "", "postal address")
	f.StringVar(&c.dob, "dob", "", "date of birth")
}

func (c *profileCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	set := map[string]bool{}
	f.Visit(func(fl *flag.Flag) { set[fl.Name] = true })

	return c.env.exit(c.env.withBank(ctx, func(b *internal.Bank) error {
		user, err := b.Account(ctx)
		if err != nil {
			return err
		}
		if len(set) == 0 {
			c.env.println(tui.Profile(user))
			return nil
		}

		update := ledger.ProfileUpdate{Name: user.Name, Email: user.Email, Mobile: user.Mobile}
		if set["name"] {
			update.Name = c.name
		}
		if set["email"] {
			update.Email = c.email
		}
		if set["mobile"] {
			update.Mobile = c.mobile
		}
		if set["address"] {
			update.Address = &c.address
		}
		if set["dob"] {
			update.DOB = &c.dob
		}

		updated, err := b.UpdateProfile(ctx, update)
		if err != nil {
			return err
		}
		c.env.println("Profile updated successfully")
		c.env.println(tui.Profile(updated))
		return nil
	}))
}
