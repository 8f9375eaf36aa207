package cli

import (
	"context"
	"flag"
	"strings"

	"github.com/google/subcommands"
	"github.com/shopspring/decimal"

	"github.com/vadiminshakov/minibank/internal"
	"github.com/vadiminshakov/minibank/internal/ledger"
	"github.com/vadiminshakov/minibank/internal/tui"
)

type payBillCmd struct {
	env        *Env
	service    string
	provider   string
	consumerID string
	amount     string
	list       bool
}

func (*payBillCmd) Name() string     { return "pay-bill" }
func (*payBillCmd) Synopsis() string { return "pay a utility bill" }
func (*payBillCmd) Usage() string {
	return `minibank pay-bill -service <type> -provider <name> -consumer <id> -amount <amount>
minibank pay-bill -list

  Services are electricity, water, mobile and internet. -list prints the
  providers of each service.
`
}

func (c *payBillCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.service, "service", "", "bill service")
	f.StringVar(&c.provider, "provider", "", "service provider")
	f.StringVar(&c.consumerID, "consumer", "", "consumer id or mobile number")
	f.StringVar(&c.amount, "amount", "", "amount to pay")
	f.BoolVar(&c.list, "list", false, "list services and providers")
}

func (c *payBillCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.list {
		for _, s := range ledger.Services() {
			c.env.println(s.Type + " (" + s.Title + "): " + strings.Join(s.Providers, ", "))
		}
		return subcommands.ExitSuccess
	}

	amount, err := parseAmount("-amount", c.amount)
	if err != nil {
		return c.env.exit(err)
	}

	return c.env.exit(c.env.withBank(ctx, func(b *internal.Bank) error {
		tx, err := b.PayBill(ctx, ledger.BillRequest{
			Service:    c.service,
			Provider:   c.provider,
			ConsumerID: c.consumerID,
			Amount:     amount,
		})
		if err != nil {
			return err
		}
		c.env.println(tui.Receipt(tx, b.Currency()))
		return nil
	}))
}

type transferCmd struct {
	env    *Env
	method string
	to     string
	amount string
}

func (*transferCmd) Name() string     { return "transfer" }
func (*transferCmd) Synopsis() string { return "send money to a UPI id or mobile number" }
func (*transferCmd) Usage() string {
	return `minibank transfer [-method upi|mobile] -to <recipient> -amount <amount>
`
}

func (c *transferCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.method, "method", string(ledger.TransferUPI), "how the recipient is addressed: upi or mobile")
	f.StringVar(&c.to, "to", "", "UPI id or mobile number")
	f.StringVar(&c.amount, "amount", "", "amount to send")
}

func (c *transferCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	amount, err := parseAmount("-amount", c.amount)
	if err != nil {
		return c.env.exit(err)
	}

	return c.env.exit(c.env.withBank(ctx, func(b *internal.Bank) error {
		tx, err := b.Transfer(ctx, ledger.TransferRequest{
			Method:    ledger.TransferMethod(strings.ToLower(c.method)),
			Recipient: c.to,
			Amount:    amount,
		})
		if err != nil {
			return err
		}
		c.env.println(tui.Receipt(tx, b.Currency()))
		return nil
	}))
}

// parseAmount parses a numeric argument. Range checks are left to the ledger.
func parseAmount(name, s string) (decimal.Decimal, error) {
	if strings.TrimSpace(s) == "" {
		return decimal.Decimal{}, usagef("%s is required", name)
	}
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Decimal{}, usagef("%s must be a number, got %q", name, s)
	}
	return d, nil
}
