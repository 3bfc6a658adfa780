package props

import "fmt"

// PersistentManager stores property values under dotted key namespaces.
// Composite properties extend the namespace with their name and a "." while
// descending, so a leaf "x" below model "m" is keyed "m.x".
type PersistentManager interface {
	OpenFileToSave(path string) error
	CloseFileToSave(path string) error
	StoreProperty(p Property, namespace string) error
	LoadFile(path string) error
	LoadProperty(p Property, namespace string) error
	RemoveNamespace(namespace, path string) (bool, error)
}

// Save writes p to path through pm.
func Save(pm PersistentManager, path string, p Property) error {
	if p == nil {
		return ErrNilProperty
	}
	if err := pm.OpenFileToSave(path); err != nil {
		return fmt.Errorf("props: open %q for save: %w", path, err)
	}
	if err := p.Store(pm, ""); err != nil {
		_ = pm.CloseFileToSave(path)
		return fmt.Errorf("props: store %q: %w", p.Name(), err)
	}
	if err := pm.CloseFileToSave(path); err != nil {
		return fmt.Errorf("props: close %q: %w", path, err)
	}
	if composite, ok := p.(Composite); ok {
		composite.AsAmbassador().emitFileEvent(false, path)
	}
	return nil
}

// Restore loads m from path through pm. Loads are batched and the model is
// cleaned afterwards, so observers see a single change with an empty path.
// On failure the values loaded so far stay in place and nothing is published.
func Restore(pm PersistentManager, path string, m *Model) error {
	if m == nil {
		return ErrNilProperty
	}
	if err := pm.LoadFile(path); err != nil {
		return fmt.Errorf("props: load %q: %w", path, err)
	}
	suspension := m.BeginSuspend()
	err := m.Load(pm, "")
	suspension.release()
	if err != nil {
		return fmt.Errorf("props: load %q: %w", m.Name(), err)
	}
	m.Clean()
	m.emitFileEvent(true, path)
	return nil
}
