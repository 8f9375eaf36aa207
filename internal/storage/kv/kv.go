// Package kv provides byte-level key/value backends for the record store.
// Every backend commits a batch of keys all together or not at all.
package kv

import (
	"github.com/pkg/errors"
)

// ErrUnavailable marks failures of the underlying storage medium.
var ErrUnavailable = errors.New("storage unavailable")

// Store is a key/value backend.
type Store interface {
	// Get returns the value for key and whether it exists.
	Get(key string) ([]byte, bool, error)
	// Commit writes every key of batch in one step. A nil value deletes the key.
	Commit(batch map[string][]byte) error
	Close() error
}

// unavailable wraps err so that errors.Is(err, ErrUnavailable) holds.
func unavailable(err error, msg string) error {
	if err == nil {
		return nil
	}
	return &storageError{msg: msg, cause: err}
}

type storageError struct {
	msg   string
	cause error
}

func (e *storageError) Error() string {
	return ErrUnavailable.Error() + ": " + e.msg + ": " + e.cause.Error()
}

func (e *storageError) Unwrap() error { return e.cause }

func (e *storageError) Is(target error) bool { return target == ErrUnavailable }

func applyBatch(state map[string][]byte, batch map[string][]byte) {
	for key, value := range batch {
		if value == nil {
			delete(state, key)
			continue
		}
		cp := make([]byte, len(value))
		copy(cp, value)
		state[key] = cp
	}
}
