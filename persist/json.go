package persist

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	props "github.com/goliatone/go-props"
)

// JSONFile stores properties in a JSON document on disk, nesting one object
// per namespace segment. Values are written as strings; numbers and booleans
// written by hand are read back through their literal text.
type JSONFile struct {
	// Perm is used when writing files. Zero means 0o644.
	Perm fs.FileMode

	cycle   saveCycle
	pending []byte
	loaded  []byte
}

// NewJSONFile constructs a JSON file manager.
func NewJSONFile() *JSONFile {
	return &JSONFile{}
}

// OpenFileToSave implements props.PersistentManager. The file is rewritten
// from scratch on close.
func (j *JSONFile) OpenFileToSave(path string) error {
	j.cycle.begin(path)
	j.pending = []byte("{}")
	return nil
}

// StoreProperty implements props.PersistentManager.
func (j *JSONFile) StoreProperty(p props.Property, namespace string) error {
	if err := j.cycle.check(); err != nil {
		return err
	}
	key := Key(p, namespace)
	doc, err := sjson.SetBytes(j.pending, jsonSetPath(key), p.String())
	if err != nil {
		return fmt.Errorf("persist: store %q: %w", key, err)
	}
	j.pending = doc
	return nil
}

// CloseFileToSave implements props.PersistentManager.
func (j *JSONFile) CloseFileToSave(path string) error {
	if err := j.cycle.end(path); err != nil {
		return err
	}
	doc := j.pending
	j.pending = nil
	return writeJSON(path, doc, j.perm())
}

// LoadFile implements props.PersistentManager.
func (j *JSONFile) LoadFile(path string) error {
	doc, err := readJSON(path)
	if err != nil {
		return err
	}
	j.loaded = doc
	return nil
}

// LoadProperty implements props.PersistentManager.
func (j *JSONFile) LoadProperty(p props.Property, namespace string) error {
	if j.loaded == nil {
		return ErrNotLoaded
	}
	key := Key(p, namespace)
	result := gjson.GetBytes(j.loaded, jsonPath(key))
	if !result.Exists() || result.IsObject() {
		return nil
	}
	value := result.String()
	if result.IsArray() {
		items := result.Array()
		parts := make([]string, len(items))
		for i, item := range items {
			parts[i] = item.String()
		}
		value = strings.Join(parts, ",")
	}
	return loadValue(p, key, value)
}

// RemoveNamespace implements props.PersistentManager.
func (j *JSONFile) RemoveNamespace(namespace, path string) (bool, error) {
	doc, err := readJSON(path)
	if err != nil {
		return false, err
	}
	trimmed := strings.TrimSuffix(namespace, ".")
	if trimmed == "" {
		if len(gjson.ParseBytes(doc).Map()) == 0 {
			return false, nil
		}
		return true, writeJSON(path, []byte("{}"), j.perm())
	}
	if !gjson.GetBytes(doc, jsonPath(trimmed)).Exists() {
		return false, nil
	}
	doc, err = sjson.DeleteBytes(doc, jsonSetPath(trimmed))
	if err != nil {
		return false, fmt.Errorf("persist: remove %q: %w", namespace, err)
	}
	return true, writeJSON(path, doc, j.perm())
}

func (j *JSONFile) perm() fs.FileMode {
	if j.Perm == 0 {
		return 0o644
	}
	return j.Perm
}

func readJSON(path string) ([]byte, error) {
	doc, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, fmt.Errorf("persist: read %s: %w", path, err)
	}
	if !gjson.ValidBytes(doc) || !gjson.ParseBytes(doc).IsObject() {
		return nil, fmt.Errorf("%w: %s is not a JSON object", ErrInvalidDocument, path)
	}
	return doc, nil
}

func writeJSON(path string, doc []byte, perm fs.FileMode) error {
	pretty := gjson.GetBytes(doc, "@pretty").Raw
	if err := os.WriteFile(path, []byte(pretty), perm); err != nil {
		return fmt.Errorf("persist: write %s: %w", path, err)
	}
	return nil
}

// jsonPath converts a dotted key into a gjson path, escaping the characters
// gjson treats as wildcards or modifiers.
func jsonPath(key string) string {
	segments := splitKey(key)
	for i, segment := range segments {
		segments[i] = escapeSegment(segment)
	}
	return strings.Join(segments, ".")
}

// jsonSetPath is jsonPath for sjson. Numeric segments are forced to object
// keys with a ":" prefix so that sjson does not create arrays.
func jsonSetPath(key string) string {
	segments := splitKey(key)
	for i, segment := range segments {
		escaped := escapeSegment(segment)
		if isNumeric(segment) {
			escaped = ":" + escaped
		}
		segments[i] = escaped
	}
	return strings.Join(segments, ".")
}

func isNumeric(segment string) bool {
	if segment == "" {
		return false
	}
	for _, r := range segment {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func escapeSegment(segment string) string {
	var b strings.Builder
	for _, r := range segment {
		switch r {
		case '\\', '*', '?', '|', '#', '@', '!', ':':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
