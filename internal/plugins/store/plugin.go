package store

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/naimozcan/nyoworks-framework/internal/config"
	"github.com/naimozcan/nyoworks-framework/internal/desktop"
	"github.com/naimozcan/nyoworks-framework/internal/logging"
)

// ErrInvalidName is returned for store names that are not plain file names.
var ErrInvalidName = errors.New("invalid store name")

// ChangeEvent is emitted after every mutation.
const ChangeEvent = "store://change"

// Change is the payload of ChangeEvent. Value is null for deletions and clears.
type Change struct {
	Store string      `json:"store"`
	Key   string      `json:"key,omitempty"`
	Value interface{} `json:"value"`
}

// Stores is the capability bound to the front-end. Stores are opened lazily
// by name and cached for the life of the process.
type Stores struct {
	dir      string
	autosave bool
	log      *logging.Logger
	emit     func(event string, data ...interface{})

	mu     sync.Mutex
	stores map[string]*Store
}

func newStores(dir string, autosave bool, log *logging.Logger) *Stores {
	return &Stores{
		dir:      dir,
		autosave: autosave,
		log:      log,
		emit:     func(string, ...interface{}) {},
		stores:   make(map[string]*Store),
	}
}

// normalizeName maps "settings" and "settings.json" to "settings.json".
func normalizeName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) || strings.HasPrefix(name, ".") {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	if !strings.HasSuffix(name, ".json") {
		name += ".json"
	}
	return name, nil
}

// open returns the cached store for name, loading it from disk on first use.
func (s *Stores) open(name string) (*Store, string, error) {
	file, err := normalizeName(name)
	if err != nil {
		return nil, "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if st, ok := s.stores[file]; ok {
		return st, file, nil
	}

	st := newStore(filepath.Join(s.dir, file))
	if err := st.load(); err != nil {
		if !errors.Is(err, ErrCorrupt) {
			return nil, "", err
		}
		s.log.With(zap.String("store", file), zap.Error(err)).Warning("store file corrupt, starting empty")
	}
	s.stores[file] = st
	return st, file, nil
}

func (s *Stores) changed(st *Store, change Change) error {
	s.emit(ChangeEvent, change)
	if s.autosave {
		return st.save()
	}
	return nil
}

// Set stores value under key.
func (s *Stores) Set(store, key string, value interface{}) error {
	st, file, err := s.open(store)
	if err != nil {
		return err
	}
	st.set(key, value)
	return s.changed(st, Change{Store: file, Key: key, Value: value})
}

// Get returns the value under key, or nil if absent.
func (s *Stores) Get(store, key string) (interface{}, error) {
	st, _, err := s.open(store)
	if err != nil {
		return nil, err
	}
	v, _ := st.get(key)
	return v, nil
}

// Has reports whether key is present.
func (s *Stores) Has(store, key string) (bool, error) {
	st, _, err := s.open(store)
	if err != nil {
		return false, err
	}
	_, ok := st.get(key)
	return ok, nil
}

// Delete removes key and reports whether it was present.
func (s *Stores) Delete(store, key string) (bool, error) {
	st, file, err := s.open(store)
	if err != nil {
		return false, err
	}
	if !st.delete(key) {
		return false, nil
	}
	return true, s.changed(st, Change{Store: file, Key: key})
}

// Clear removes every key.
func (s *Stores) Clear(store string) error {
	st, file, err := s.open(store)
	if err != nil {
		return err
	}
	st.clear()
	return s.changed(st, Change{Store: file})
}

// Keys returns all keys, sorted.
func (s *Stores) Keys(store string) ([]string, error) {
	st, _, err := s.open(store)
	if err != nil {
		return nil, err
	}
	return st.keys(), nil
}

// Entries returns a copy of all key-value pairs.
func (s *Stores) Entries(store string) (map[string]interface{}, error) {
	st, _, err := s.open(store)
	if err != nil {
		return nil, err
	}
	return st.entries(), nil
}

// Length returns the number of keys.
func (s *Stores) Length(store string) (int, error) {
	st, _, err := s.open(store)
	if err != nil {
		return 0, err
	}
	return st.length(), nil
}

// Save writes the store to disk.
func (s *Stores) Save(store string) error {
	st, _, err := s.open(store)
	if err != nil {
		return err
	}
	return st.save()
}

// Reload discards unsaved changes and reads the store from disk.
func (s *Stores) Reload(store string) error {
	st, file, err := s.open(store)
	if err != nil {
		return err
	}
	if err := st.load(); err != nil {
		if !errors.Is(err, ErrCorrupt) {
			return err
		}
		s.log.With(zap.String("store", file), zap.Error(err)).Warning("store file corrupt, starting empty")
	}
	return nil
}

// flush saves every store with unsaved changes.
func (s *Stores) flush() error {
	s.mu.Lock()
	open := make([]*Store, 0, len(s.stores))
	for _, st := range s.stores {
		open = append(open, st)
	}
	s.mu.Unlock()

	var errs []error
	for _, st := range open {
		if !st.isDirty() {
			continue
		}
		if err := st.save(); err != nil {
			errs = append(errs, fmt.Errorf("save %s: %w", st.Path(), err))
		}
	}
	return errors.Join(errs...)
}

// Plugin registers the store capability with the desktop builder.
type Plugin struct {
	cfg    config.StoreConfig
	stores *Stores
}

// New creates the store plugin.
func New(cfg config.StoreConfig) *Plugin {
	return &Plugin{cfg: cfg}
}

func (p *Plugin) Name() string { return "store" }

func (p *Plugin) Init(app *desktop.App) error {
	dir := p.cfg.Dir
	if dir == "" {
		dir = filepath.Join(app.DataDir(), "stores")
	}
	p.stores = newStores(dir, p.cfg.Autosave, app.Logger().Named("store"))
	p.stores.emit = app.Emit
	return nil
}

// Shutdown persists unsaved changes.
func (p *Plugin) Shutdown(ctx context.Context) error {
	if p.stores == nil {
		return nil
	}
	return p.stores.flush()
}

func (p *Plugin) Bind() interface{} {
	return p.stores
}
