// Package persist provides props.PersistentManager implementations. Every
// manager keys a property by namespace + name, where the namespace is the
// dotted chain of composite names above it ("server.network.port").
//
// A save cycle is OpenFileToSave, StoreProperty for each leaf, then
// CloseFileToSave. A load cycle is LoadFile followed by LoadProperty for each
// leaf. Keys missing from a loaded file leave the property untouched.
package persist

import (
	"errors"
	"fmt"
	"strings"

	props "github.com/goliatone/go-props"
)

var (
	// ErrNotOpen indicates StoreProperty was called outside a save cycle.
	ErrNotOpen = errors.New("persist: no file open for saving")
	// ErrPathMismatch indicates CloseFileToSave named a different file than
	// the one opened.
	ErrPathMismatch = errors.New("persist: close does not match open file")
	// ErrNotLoaded indicates LoadProperty was called before LoadFile.
	ErrNotLoaded = errors.New("persist: no file loaded")
	// ErrFileNotFound indicates the requested file does not exist.
	ErrFileNotFound = errors.New("persist: file not found")
	// ErrInvalidDocument indicates a file whose content cannot be decoded.
	ErrInvalidDocument = errors.New("persist: invalid document")
)

// Key returns the storage key of p below namespace.
func Key(p props.Property, namespace string) string {
	return namespace + p.Name()
}

// namespaceMatches reports whether key equals namespace or lies below it.
// A trailing "." on namespace is optional.
func namespaceMatches(key, namespace string) bool {
	ns := strings.TrimSuffix(namespace, ".")
	if ns == "" {
		return true
	}
	return key == ns || strings.HasPrefix(key, ns+".")
}

func splitKey(key string) []string {
	return strings.Split(strings.TrimSuffix(key, "."), ".")
}

func loadValue(p props.Property, key, value string) error {
	if err := p.FromString(value); err != nil {
		return fmt.Errorf("persist: load %q: %w", key, err)
	}
	return nil
}

// saveCycle tracks the file currently open for saving.
type saveCycle struct {
	path string
	open bool
}

func (c *saveCycle) begin(path string) {
	c.path = path
	c.open = true
}

func (c *saveCycle) check() error {
	if !c.open {
		return ErrNotOpen
	}
	return nil
}

func (c *saveCycle) end(path string) error {
	if !c.open {
		return ErrNotOpen
	}
	if c.path != path {
		return fmt.Errorf("%w: opened %q, closing %q", ErrPathMismatch, c.path, path)
	}
	c.open = false
	c.path = ""
	return nil
}
