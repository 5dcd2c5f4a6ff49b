// Package kvstore implements the process-local key-value store backing
// persisted core state: recycle metadata, recent searches, the permission
// instruction flag and index snapshots.
//
// All state lives in one JSON file. Writes are read-modify-write under a
// process-wide mutex and hit disk through a temp-file rename, so a crash
// mid-write leaves the previous file intact rather than a torn one.
package kvstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/bytedance/sonic"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/FileManager/core/internal/logging"
)

// Store is a single-file JSON key-value store.
type Store struct {
	path string
	log  *logging.Logger

	mu   sync.Mutex
	data map[string]json.RawMessage
}

// Open loads the store at path, creating an empty one if absent.
// An unreadable or corrupt file is logged and replaced on the next write
// rather than failing open; the caller still gets a working store.
func Open(path string, log *logging.Logger) (*Store, error) {
	if log == nil {
		log = logging.NewNop()
	}
	s := &Store{
		path: path,
		log:  log.Component("kvstore"),
		data: make(map[string]json.RawMessage),
	}

	raw, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := sonic.Unmarshal(raw, &s.data); err != nil {
			s.log.Warn("state file corrupt, starting empty",
				zap.String("path", path), zap.Error(err))
			s.data = make(map[string]json.RawMessage)
		}
	case os.IsNotExist(err):
		// First run.
	default:
		return nil, fmt.Errorf("open state file: %w", err)
	}

	return s, nil
}

// Get unmarshals the value at key into out. The boolean reports presence.
func (s *Store) Get(key string, out interface{}) (bool, error) {
	s.mu.Lock()
	raw, ok := s.data[key]
	s.mu.Unlock()
	if !ok {
		return false, nil
	}
	if err := sonic.Unmarshal(raw, out); err != nil {
		return true, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

// Set stores v at key and flushes to disk.
func (s *Store) Set(key string, v interface{}) error {
	raw, err := sonic.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = raw
	return s.flushLocked()
}

// Delete removes key and flushes to disk. Deleting a missing key is a no-op.
func (s *Store) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data[key]; !ok {
		return nil
	}
	delete(s.data, key)
	return s.flushLocked()
}

// Update performs an atomic read-modify-write of the value at key.
// fn receives the raw current value (nil if absent) and returns the
// replacement value, which is stored and flushed before Update returns.
func (s *Store) Update(key string, fn func(raw json.RawMessage) (interface{}, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := fn(s.data[key])
	if err != nil {
		return err
	}
	raw, err := sonic.Marshal(next)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	s.data[key] = raw
	return s.flushLocked()
}

// Keys returns the currently stored keys.
func (s *Store) Keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	keys := make([]string, 0, len(s.data))
	for k := range s.data {
		keys = append(keys, k)
	}
	return keys
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// flushLocked writes the whole map via temp file + rename. Caller holds mu.
func (s *Store) flushLocked() error {
	raw, err := sonic.Marshal(s.data)
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".state-*")
	if err != nil {
		return fmt.Errorf("create temp state: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write state: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close state: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("commit state: %w", err)
	}
	return nil
}
