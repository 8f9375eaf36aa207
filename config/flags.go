package config

import (
	"flag"
	"strings"
)

// Flags are the global command line overrides.
type Flags struct {
	ConfigPath string
	StateDir   string
	Store      string
	Debug      bool
}

// Register binds the global flags to fs.
func (f *Flags) Register(fs *flag.FlagSet) {
	fs.StringVar(&f.ConfigPath, "config", "", "path to yaml config")
	fs.StringVar(&f.StateDir, "state-dir", "", "directory holding the persisted records, overrides config and "+EnvStateDir)
	fs.StringVar(&f.Store, "store", "", "record store backend: file, wal or memory")
	fs.BoolVar(&f.Debug, "debug", false, "development logging")
}

// Get loads the config named by the flags and applies the flag overrides on top.
func (f Flags) Get() (Config, error) {
	cfg, err := Load(f.ConfigPath)
	if err != nil {
		return Config{}, err
	}

	if f.StateDir != "" {
		cfg.StateDir = f.StateDir
	}
	if f.Store != "" {
		cfg.Store = StoreKind(strings.ToLower(f.Store))
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
