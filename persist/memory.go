package persist

import (
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	props "github.com/goliatone/go-props"
)

// Memory keeps files in memory as flat key/value maps. Each completed save
// assigns the file a fresh snapshot ID. Memory is safe for concurrent use,
// though a save or load cycle is expected to run from one goroutine.
type Memory struct {
	mu        sync.RWMutex
	files     map[string]memoryFile
	cycle     saveCycle
	pending   map[string]string
	loaded    map[string]string
	hasLoaded bool
}

type memoryFile struct {
	values     map[string]string
	snapshotID string
}

// NewMemory constructs an empty in-memory manager.
func NewMemory() *Memory {
	return &Memory{files: map[string]memoryFile{}}
}

// OpenFileToSave implements props.PersistentManager.
func (m *Memory) OpenFileToSave(path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cycle.begin(path)
	m.pending = map[string]string{}
	return nil
}

// StoreProperty implements props.PersistentManager.
func (m *Memory) StoreProperty(p props.Property, namespace string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.cycle.check(); err != nil {
		return err
	}
	m.pending[Key(p, namespace)] = p.String()
	return nil
}

// CloseFileToSave implements props.PersistentManager.
func (m *Memory) CloseFileToSave(path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.cycle.end(path); err != nil {
		return err
	}
	m.files[path] = memoryFile{values: m.pending, snapshotID: uuid.NewString()}
	m.pending = nil
	return nil
}

// LoadFile implements props.PersistentManager.
func (m *Memory) LoadFile(path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	file, ok := m.files[path]
	if !ok {
		return fmt.Errorf("%w: %s", ErrFileNotFound, path)
	}
	m.loaded = cloneValues(file.values)
	m.hasLoaded = true
	return nil
}

// LoadProperty implements props.PersistentManager.
func (m *Memory) LoadProperty(p props.Property, namespace string) error {
	key := Key(p, namespace)
	m.mu.RLock()
	if !m.hasLoaded {
		m.mu.RUnlock()
		return ErrNotLoaded
	}
	value, ok := m.loaded[key]
	m.mu.RUnlock()
	if !ok {
		return nil
	}
	return loadValue(p, key, value)
}

// RemoveNamespace implements props.PersistentManager.
func (m *Memory) RemoveNamespace(namespace, path string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	file, ok := m.files[path]
	if !ok {
		return false, fmt.Errorf("%w: %s", ErrFileNotFound, path)
	}
	removed := false
	for key := range file.values {
		if namespaceMatches(key, namespace) {
			delete(file.values, key)
			removed = true
		}
	}
	if removed {
		file.snapshotID = uuid.NewString()
		m.files[path] = file
	}
	return removed, nil
}

// Keys returns the stored keys of path in ascending order.
func (m *Memory) Keys(path string) []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	file := m.files[path]
	keys := make([]string, 0, len(file.values))
	for key := range file.values {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Value returns the stored string for key in path.
func (m *Memory) Value(path, key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	value, ok := m.files[path].values[key]
	return value, ok
}

// SnapshotID returns the identifier of the last save (or removal) of path.
func (m *Memory) SnapshotID(path string) string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.files[path].snapshotID
}

func cloneValues(values map[string]string) map[string]string {
	out := make(map[string]string, len(values))
	for key, value := range values {
		out[key] = value
	}
	return out
}
