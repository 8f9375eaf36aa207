package kv

import (
	"encoding/json"
	"os"
	"sync"

	"github.com/pkg/errors"
	"github.com/vadiminshakov/gowal"
)

const (
	defaultWALDir       = "./state/wal"
	walSegmentThreshold = 1000
	walMaxSegments      = 100
	// checkpointInterval is below walSegmentThreshold, so every segment holds at
	// least one snapshot. Batches replayed from the oldest retained segment before
	// its first snapshot are discarded when that snapshot resets the state.
	checkpointInterval = 500

	batchKey    = "batch"
	snapshotKey = "snapshot"
)

// walRecord is one WAL entry. A batch record carries the changed keys only,
// a snapshot record carries the whole state.
type walRecord struct {
	Set    map[string][]byte `json:"set,omitempty"`
	Delete []string          `json:"delete,omitempty"`
}

// WALStore keeps the key/value state as an append-only write-ahead log.
// The current view is rebuilt by replaying the log when the store is opened.
type WALStore struct {
	mu            sync.RWMutex
	wal           *gowal.Wal
	state         map[string][]byte
	commits       int
	// checkpointDue stays set until a snapshot record is written successfully.
	checkpointDue bool
	writeSnapshot func() error
}

// NewWALStore opens (or creates) a WAL under dir and replays it.
func NewWALStore(dir string) (*WALStore, error) {
	if dir == "" {
		dir = defaultWALDir
	}
	if err := os.MkdirAll(dir, stateDirPerm); err != nil {
		return nil, unavailable(err, "create WAL dir")
	}

	cfg := gowal.Config{
		Dir:              dir,
		Prefix:           "records_",
		SegmentThreshold: walSegmentThreshold,
		MaxSegments:      walMaxSegments,
		IsInSyncDiskMode: true,
	}

	wal, err := gowal.NewWAL(cfg)
	if err != nil {
		return nil, unavailable(err, "init records WAL")
	}

	state := make(map[string][]byte)
	for msg := range wal.Iterator() {
		var rec walRecord
		if err := json.Unmarshal(msg.Value, &rec); err != nil {
			_ = wal.Close()
			return nil, unavailable(err, "decode WAL record")
		}

		switch msg.Key {
		case snapshotKey:
			state = make(map[string][]byte, len(rec.Set))
			applyBatch(state, rec.Set)
		case batchKey:
			applyBatch(state, rec.Set)
			for _, key := range rec.Delete {
				delete(state, key)
			}
		}
	}

	s := &WALStore{wal: wal, state: state}
	s.writeSnapshot = s.checkpoint
	return s, nil
}

func (s *WALStore) Get(key string) ([]byte, bool, error) {
	if s == nil || s.wal == nil {
		return nil, false, errors.New("records WAL is not initialized")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.state[key]
	if !ok {
		return nil, false, nil
	}
	cp := make([]byte, len(value))
	copy(cp, value)
	return cp, true, nil
}

// Commit appends batch as a single WAL record, then applies it to the in-memory view.
func (s *WALStore) Commit(batch map[string][]byte) error {
	if s == nil || s.wal == nil {
		return errors.New("records WAL is not initialized")
	}

	rec := walRecord{Set: make(map[string][]byte, len(batch))}
	for key, value := range batch {
		if value == nil {
			rec.Delete = append(rec.Delete, key)
			continue
		}
		rec.Set[key] = value
	}

	payload, err := json.Marshal(rec)
	if err != nil {
		return errors.Wrap(err, "marshal WAL record")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	nextIndex := s.wal.CurrentIndex() + 1
	if err := s.wal.Write(nextIndex, batchKey, payload); err != nil {
		return unavailable(err, "append WAL record")
	}

	applyBatch(s.state, batch)
	s.commits++

	// the batch itself is durable at this point; a failed snapshot is retried on the next commit
	if s.commits%checkpointInterval == 0 {
		s.checkpointDue = true
	}
	if s.checkpointDue && s.writeSnapshot() == nil {
		s.checkpointDue = false
	}

	return nil
}

// checkpoint writes the whole state as one record. Callers must hold s.mu.
func (s *WALStore) checkpoint() error {
	payload, err := json.Marshal(walRecord{Set: s.state})
	if err != nil {
		return errors.Wrap(err, "marshal WAL snapshot")
	}

	nextIndex := s.wal.CurrentIndex() + 1
	if err := s.wal.Write(nextIndex, snapshotKey, payload); err != nil {
		return unavailable(err, "append WAL snapshot")
	}

	return nil
}

// CurrentIndex returns the latest WAL index stored.
func (s *WALStore) CurrentIndex() uint64 {
	if s == nil || s.wal == nil {
		return 0
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.wal.CurrentIndex()
}

// Close closes the underlying WAL.
func (s *WALStore) Close() error {
	if s == nil || s.wal == nil {
		return errors.New("records WAL is not initialized")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.wal.Close()
}
