package cli

import (
	"context"
	"flag"

	"github.com/google/subcommands"

	"github.com/vadiminshakov/minibank/internal"
	"github.com/vadiminshakov/minibank/internal/domain"
	"github.com/vadiminshakov/minibank/internal/tui"
)

type goldCmd struct {
	env *Env
}

func (*goldCmd) Name() string     { return "gold" }
func (*goldCmd) Synopsis() string { return "buy or sell digital gold" }
func (*goldCmd) Usage() string {
	return `minibank gold buy|sell <grams>
minibank gold price
`
}
func (*goldCmd) SetFlags(_ *flag.FlagSet) {}

func (c *goldCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	args := f.Args()
	if len(args) == 1 && args[0] == "price" {
		return c.env.exit(c.env.withBank(ctx, func(b *internal.Bank) error {
			price, err := b.GoldPrice(ctx)
			if err != nil {
				return err
			}
			c.env.println(domain.FormatAmount(price.PricePerGram, b.Currency()) + " / gram")
			return nil
		}))
	}

	if len(args) != 2 {
		return c.env.exit(usagef("usage: gold buy|sell <grams>"))
	}
	side, err := domain.ParseSide(args[0])
	if err != nil {
		return c.env.exit(usagef("%v", err))
	}
	grams, err := parseAmount("grams", args[1])
	if err != nil {
		return c.env.exit(err)
	}

	return c.env.exit(c.env.withBank(ctx, func(b *internal.Bank) error {
		tx, err := b.TradeGold(ctx, side, grams)
		if err != nil {
			return err
		}
		c.env.println(tui.Receipt(tx, b.Currency()))
		return nil
	}))
}

type stockCmd struct {
	env *Env
}

func (*stockCmd) Name() string     { return "stock" }
func (*stockCmd) Synopsis() string { return "buy or sell whole shares" }
func (*stockCmd) Usage() string {
	return `minibank stock buy|sell <symbol> <quantity>
`
}
func (*stockCmd) SetFlags(_ *flag.FlagSet) {}

func (c *stockCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	args := f.Args()
	if len(args) != 3 {
		return c.env.exit(usagef("usage: stock buy|sell <symbol> <quantity>"))
	}
	side, err := domain.ParseSide(args[0])
	if err != nil {
		return c.env.exit(usagef("%v", err))
	}
	qty, err := parseAmount("quantity", args[2])
	if err != nil {
		return c.env.exit(err)
	}

	return c.env.exit(c.env.withBank(ctx, func(b *internal.Bank) error {
		tx, err := b.TradeStock(ctx, side, args[1], qty)
		if err != nil {
			return err
		}
		c.env.println(tui.Receipt(tx, b.Currency()))
		return nil
	}))
}
