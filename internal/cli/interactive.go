package cli

import (
	"context"
	"flag"

	"github.com/google/subcommands"

	"github.com/vadiminshakov/minibank/internal"
	"github.com/vadiminshakov/minibank/internal/tui"
)

type tuiCmd struct {
	env *Env
}

func (*tuiCmd) Name() string             { return "tui" }
func (*tuiCmd) Synopsis() string         { return "run the interactive terminal banking app" }
func (*tuiCmd) Usage() string            { return "minibank tui\n" }
func (*tuiCmd) SetFlags(_ *flag.FlagSet) {}

func (c *tuiCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return c.env.exit(c.env.withBank(ctx, func(b *internal.Bank) error {
		return tui.NewApp(b, b.Config.Latency, c.env.Logger).Run(ctx)
	}))
}

type setupCmd struct {
	env  *Env
	path string
}

func (*setupCmd) Name() string     { return "setup" }
func (*setupCmd) Synopsis() string { return "write a config file with the interactive wizard" }
func (*setupCmd) Usage() string {
	return `minibank setup [-o <file>]
`
}

func (c *setupCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.path, "o", tui.DefaultConfigFile, "where to write the config")
}

func (c *setupCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return c.env.exit(tui.RunSetup(c.path))
}
