package kv

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"
)

const (
	defaultStateDir = "./state"
	stateFileName   = "state.json"
	stateDirPerm    = 0o755
	stateFilePerm   = 0o644
)

// FileStore keeps every key in one JSON document on disk.
// Commits rewrite the document through a temp file and a rename, so readers
// see either the previous or the next document, never a mix.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore creates a file-backed store under dir.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		dir = defaultStateDir
	}
	if err := os.MkdirAll(dir, stateDirPerm); err != nil {
		return nil, unavailable(err, "create state dir")
	}

	return &FileStore{path: filepath.Join(dir, stateFileName)}, nil
}

// Path returns the location of the state document.
func (s *FileStore) Path() string {
	return s.path
}

// Get reads key from the state document.
func (s *FileStore) Get(key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return nil, false, err
	}

	value, ok := doc[key]
	if !ok {
		return nil, false, nil
	}

	return []byte(value), true, nil
}

// Commit merges batch into the state document and persists it atomically.
// Values must be valid JSON.
func (s *FileStore) Commit(batch map[string][]byte) error {
	for key, value := range batch {
		if value != nil && !json.Valid(value) {
			return errors.Errorf("value for key %q is not valid JSON", key)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return err
	}
	for key, value := range batch {
		if value == nil {
			delete(doc, key)
			continue
		}
		doc[key] = json.RawMessage(value)
	}

	payload, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encode state")
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, payload, stateFilePerm); err != nil {
		return unavailable(err, "write state temp file")
	}

	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return unavailable(err, "persist state")
	}

	return nil
}

// Close is a no-op; the file is not held open between calls.
func (s *FileStore) Close() error {
	return nil
}

func (s *FileStore) load() (map[string]json.RawMessage, error) {
	doc := make(map[string]json.RawMessage)

	payload, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return doc, nil
		}
		return nil, unavailable(err, "read state")
	}

	if len(payload) == 0 {
		return doc, nil
	}

	if err := json.Unmarshal(payload, &doc); err != nil {
		return nil, unavailable(err, "decode state")
	}

	return doc, nil
}
