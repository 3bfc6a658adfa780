package persist

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	props "github.com/goliatone/go-props"
	"github.com/goliatone/go-props/internal/flatten"
)

// YAMLFile stores properties in a YAML document on disk, nesting one mapping
// per namespace segment. Booleans, integers, floats and strings are written
// as native scalars; every other value is written in its string form.
type YAMLFile struct {
	// Perm is used when writing files. Zero means 0o644.
	Perm fs.FileMode

	cycle   saveCycle
	pending map[string]any
	loaded  map[string]any
}

// NewYAMLFile constructs a YAML file manager.
func NewYAMLFile() *YAMLFile {
	return &YAMLFile{}
}

// OpenFileToSave implements props.PersistentManager.
func (y *YAMLFile) OpenFileToSave(path string) error {
	y.cycle.begin(path)
	y.pending = map[string]any{}
	return nil
}

// StoreProperty implements props.PersistentManager.
func (y *YAMLFile) StoreProperty(p props.Property, namespace string) error {
	if err := y.cycle.check(); err != nil {
		return err
	}
	y.pending[Key(p, namespace)] = yamlScalar(p)
	return nil
}

// CloseFileToSave implements props.PersistentManager.
func (y *YAMLFile) CloseFileToSave(path string) error {
	if err := y.cycle.end(path); err != nil {
		return err
	}
	doc := flatten.Nest(y.pending, ".")
	y.pending = nil
	return writeYAML(path, doc, y.perm())
}

// LoadFile implements props.PersistentManager.
func (y *YAMLFile) LoadFile(path string) error {
	doc, err := readYAML(path)
	if err != nil {
		return err
	}
	y.loaded = doc
	return nil
}

// LoadProperty implements props.PersistentManager.
func (y *YAMLFile) LoadProperty(p props.Property, namespace string) error {
	if y.loaded == nil {
		return ErrNotLoaded
	}
	key := Key(p, namespace)
	value, ok := flatten.Lookup(y.loaded, splitKey(key))
	if !ok {
		return nil
	}
	if _, nested := value.(map[string]any); nested {
		return nil
	}
	return loadValue(p, key, flatten.Stringify(value))
}

// RemoveNamespace implements props.PersistentManager.
func (y *YAMLFile) RemoveNamespace(namespace, path string) (bool, error) {
	doc, err := readYAML(path)
	if err != nil {
		return false, err
	}
	trimmed := strings.TrimSuffix(namespace, ".")
	removed := false
	if trimmed == "" {
		removed = len(doc) > 0
		doc = map[string]any{}
	} else {
		removed = flatten.Delete(doc, splitKey(trimmed))
	}
	if !removed {
		return false, nil
	}
	return true, writeYAML(path, doc, y.perm())
}

func (y *YAMLFile) perm() fs.FileMode {
	if y.Perm == 0 {
		return 0o644
	}
	return y.Perm
}

func yamlScalar(p props.Property) any {
	switch value := p.Raw().(type) {
	case bool, int64, float64, string:
		return value
	default:
		return p.String()
	}
}

func readYAML(path string) (map[string]any, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, fmt.Errorf("persist: read %s: %w", path, err)
	}
	doc := map[string]any{}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidDocument, path, err)
	}
	if doc == nil {
		doc = map[string]any{}
	}
	return doc, nil
}

func writeYAML(path string, doc map[string]any, perm fs.FileMode) error {
	raw, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("persist: encode %s: %w", path, err)
	}
	if err := os.WriteFile(path, raw, perm); err != nil {
		return fmt.Errorf("persist: write %s: %w", path, err)
	}
	return nil
}
