// Package store provides named, JSON-file backed key-value stores to the front-end.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

// ErrCorrupt is returned by load when the file exists but is not a JSON object.
var ErrCorrupt = errors.New("store file is corrupt")

// Store is one key-value document persisted at path.
type Store struct {
	path string

	// saveMu orders saves and reloads against each other.
	saveMu sync.Mutex

	mu    sync.RWMutex
	data  map[string]interface{}
	dirty bool
	// gen counts mutations; a save only marks the store clean if no
	// mutation happened after its snapshot.
	gen uint64
}

// newStore creates an empty store for path without touching disk.
func newStore(path string) *Store {
	return &Store{path: path, data: make(map[string]interface{})}
}

// Path returns the backing file.
func (s *Store) Path() string {
	return s.path
}

// load replaces the in-memory state with the file contents. A missing file
// yields an empty store; an unparsable one yields an empty store and ErrCorrupt.
func (s *Store) load() error {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.mu.Lock()
			s.data = make(map[string]interface{})
			s.dirty = false
			s.mu.Unlock()
			return nil
		}
		return err
	}

	values := make(map[string]interface{})
	var parseErr error
	if len(data) > 0 {
		if err := json.Unmarshal(data, &values); err != nil {
			values = make(map[string]interface{})
			parseErr = fmt.Errorf("%w: %s: %v", ErrCorrupt, s.path, err)
		}
	}
	if values == nil {
		// "null" decodes to a nil map
		values = make(map[string]interface{})
	}

	s.mu.Lock()
	s.data = values
	s.dirty = false
	s.mu.Unlock()
	return parseErr
}

// save writes the store atomically: a temp file in the same directory is
// renamed over the target while holding the store's lock file.
func (s *Store) save() error {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	s.mu.RLock()
	data, err := json.MarshalIndent(s.data, "", "  ")
	snapshot := s.gen
	s.mu.RUnlock()
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create store directory: %w", err)
	}

	lock, err := newFileLock(s.path).Lock()
	if err != nil {
		return err
	}
	defer lock.Unlock()

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write store: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write store: %w", err)
	}
	if err := os.Chmod(tmpPath, 0600); err != nil {
		os.Remove(tmpPath)
		return err
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to replace store: %w", err)
	}

	s.mu.Lock()
	if s.gen == snapshot {
		s.dirty = false
	}
	s.mu.Unlock()
	return nil
}

// touch records a mutation. Callers hold s.mu.
func (s *Store) touch() {
	s.dirty = true
	s.gen++
}

func (s *Store) set(key string, value interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
	s.touch()
}

func (s *Store) get(key string) (interface{}, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	return v, ok
}

func (s *Store) delete(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data[key]; !ok {
		return false
	}
	delete(s.data, key)
	s.touch()
	return true
}

func (s *Store) clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = make(map[string]interface{})
	s.touch()
}

func (s *Store) keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.data))
	for k := range s.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (s *Store) entries() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]interface{}, len(s.data))
	for k, v := range s.data {
		out[k] = v
	}
	return out
}

func (s *Store) length() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}

func (s *Store) isDirty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dirty
}
