package internal

import (
	"fmt"
	"path/filepath"

	"github.com/vadiminshakov/minibank/config"
	"github.com/vadiminshakov/minibank/internal/storage/kv"
)

// newRecordBackend opens the kv backend selected by the config.
// This is the single point of truth for dispatching to backend implementations.
func newRecordBackend(cfg config.Config) (kv.Store, error) {
	switch cfg.Store {
	case config.StoreFile:
		s, err := kv.NewFileStore(cfg.StateDir)
		if err != nil {
			return nil, err
		}
		return s, nil
	case config.StoreWAL:
		s, err := kv.NewWALStore(filepath.Join(cfg.StateDir, "wal"))
		if err != nil {
			return nil, err
		}
		return s, nil
	case config.StoreMemory:
		return kv.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unsupported store: %s", cfg.Store)
	}
}
