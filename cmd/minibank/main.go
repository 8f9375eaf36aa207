// Command minibank is a terminal banking simulator: balance, bill payments,
// UPI transfers, digital gold and stock trading against locally persisted
// mock data.
//
// Usage:
//
//	minibank login -p demo123
//	minibank pay-bill -service electricity -provider BESCOM -consumer 1234 -amount 850
//	minibank gold buy 2.5
//	minibank tui
//
// Configuration comes from -config (yaml), a .env file and MINIBANK_* variables.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"path"

	"github.com/google/subcommands"
	"go.uber.org/zap"

	"github.com/vadiminshakov/minibank/config"
	"github.com/vadiminshakov/minibank/internal/cli"
)

func main() {
	var (
		flags   config.Flags
		logPath string
	)
	flags.Register(flag.CommandLine)
	flag.StringVar(&logPath, "log", "", "write logs to this file instead of stderr")

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")

	env := &cli.Env{Flags: &flags, Out: os.Stdout, Err: os.Stderr}
	for _, c := range cli.Commands(env) {
		commander.Register(c.Command, c.Group)
	}

	flag.Parse()

	logger, err := newLogger(flags.Debug, logPath)
	if err != nil {
		log.Fatal(err)
	}
	env.Logger = logger

	status := commander.Execute(context.Background())
	_ = logger.Sync()
	os.Exit(int(status))
}

func newLogger(debug bool, logPath string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if debug {
		cfg = zap.NewDevelopmentConfig()
	}
	if logPath != "" {
		cfg.OutputPaths = []string{logPath}
		cfg.ErrorOutputPaths = []string{logPath}
	}
	return cfg.Build()
}
