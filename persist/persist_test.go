package persist

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	props "github.com/goliatone/go-props"
)

type serverTree struct {
	root    *props.Model
	name    *props.Value[string]
	port    *props.Value[int64]
	ratio   *props.Value[float64]
	debug   *props.Value[bool]
	timeout *props.Value[time.Duration]
	tags    *props.Value[[]string]
}

func newServerTree(t *testing.T) serverTree {
	t.Helper()
	root := props.MustModel("server")
	network := props.MustModel("network")

	tree := serverTree{root: root}
	var err error
	tree.name, err = props.Add(root, props.MustValue("name", "api", props.StringCodec()))
	require.NoError(t, err)
	tree.debug, err = props.Add(root, props.MustValue("debug", false, props.BoolCodec()))
	require.NoError(t, err)
	tree.tags, err = props.Add(root, props.MustValue("tags", []string{"a", "b"}, props.StringsCodec()))
	require.NoError(t, err)

	tree.port, err = props.Add(network, props.MustValue("port", int64(8080), props.IntCodec()))
	require.NoError(t, err)
	tree.ratio, err = props.Add(network, props.MustValue("ratio", 0.5, props.FloatCodec()))
	require.NoError(t, err)
	tree.timeout, err = props.Add(network, props.MustValue("timeout", 30*time.Second, props.DurationCodec()))
	require.NoError(t, err)

	_, err = root.AddProperty(network)
	require.NoError(t, err)
	link, err := props.NewLink("alias", "network/port")
	require.NoError(t, err)
	_, err = root.AddProperty(link)
	require.NoError(t, err)
	return tree
}

func (tree serverTree) mutate(t *testing.T) {
	t.Helper()
	tree.name.Set("worker")
	tree.port.Set(9090)
	tree.ratio.Set(0.75)
	tree.debug.Set(true)
	tree.timeout.Set(90 * time.Second)
	tree.tags.Set([]string{"x", "y", "z"})
}

func (tree serverTree) requireMutated(t *testing.T) {
	t.Helper()
	require.Equal(t, "worker", tree.name.Get())
	require.Equal(t, int64(9090), tree.port.Get())
	require.Equal(t, 0.75, tree.ratio.Get())
	require.True(t, tree.debug.Get())
	require.Equal(t, 90*time.Second, tree.timeout.Get())
	require.Equal(t, []string{"x", "y", "z"}, tree.tags.Get())
}

func managers(t *testing.T) map[string]struct {
	pm   props.PersistentManager
	path string
} {
	dir := t.TempDir()
	return map[string]struct {
		pm   props.PersistentManager
		path string
	}{
		"memory": {pm: NewMemory(), path: "server"},
		"json":   {pm: NewJSONFile(), path: filepath.Join(dir, "server.json")},
		"yaml":   {pm: NewYAMLFile(), path: filepath.Join(dir, "server.yaml")},
	}
}

func TestManagersRoundTrip(t *testing.T) {
	for name, tc := range managers(t) {
		tc := tc
		t.Run(name, func(t *testing.T) {
			source := newServerTree(t)
			source.mutate(t)
			require.NoError(t, props.Save(tc.pm, tc.path, source.root))

			target := newServerTree(t)
			var events []string
			target.root.OnChange(func(path string) { events = append(events, path) })

			require.NoError(t, props.Restore(tc.pm, tc.path, target.root))
			target.requireMutated(t)
			require.Equal(t, []string{""}, events)
			require.False(t, target.root.IsDirty())
		})
	}
}

func TestManagersKeepDefaultsForMissingKeys(t *testing.T) {
	for name, tc := range managers(t) {
		tc := tc
		t.Run(name, func(t *testing.T) {
			small := props.MustModel("server")
			_, err := small.AddProperty(props.MustValue("name", "saved", props.StringCodec()))
			require.NoError(t, err)
			require.NoError(t, props.Save(tc.pm, tc.path, small))

			target := newServerTree(t)
			require.NoError(t, props.Restore(tc.pm, tc.path, target.root))
			require.Equal(t, "saved", target.name.Get())
			require.Equal(t, int64(8080), target.port.Get())
		})
	}
}

func TestManagersRemoveNamespace(t *testing.T) {
	for name, tc := range managers(t) {
		tc := tc
		t.Run(name, func(t *testing.T) {
			source := newServerTree(t)
			source.mutate(t)
			require.NoError(t, props.Save(tc.pm, tc.path, source.root))

			removed, err := tc.pm.RemoveNamespace("server.network.", tc.path)
			require.NoError(t, err)
			require.True(t, removed)

			removed, err = tc.pm.RemoveNamespace("server.network", tc.path)
			require.NoError(t, err)
			require.False(t, removed)

			target := newServerTree(t)
			require.NoError(t, props.Restore(tc.pm, tc.path, target.root))
			require.Equal(t, "worker", target.name.Get())
			require.Equal(t, int64(8080), target.port.Get())
		})
	}
}

func TestManagersRejectParseFailures(t *testing.T) {
	for name, tc := range managers(t) {
		tc := tc
		t.Run(name, func(t *testing.T) {
			bad := props.MustModel("server")
			_, err := bad.AddProperty(props.MustValue("debug", "definitely", props.StringCodec()))
			require.NoError(t, err)
			require.NoError(t, props.Save(tc.pm, tc.path, bad))

			target := newServerTree(t)
			var events int
			target.root.OnChange(func(string) { events++ })
			err = props.Restore(tc.pm, tc.path, target.root)

			var parseErr *props.ParseError
			require.ErrorAs(t, err, &parseErr)
			require.Equal(t, "debug", parseErr.Property)
			require.Zero(t, events)
		})
	}
}

func TestManagersLifecycleErrors(t *testing.T) {
	for name, tc := range managers(t) {
		tc := tc
		t.Run(name, func(t *testing.T) {
			leaf := props.MustValue("x", int64(1), props.IntCodec())

			require.ErrorIs(t, tc.pm.StoreProperty(leaf, ""), ErrNotOpen)
			require.ErrorIs(t, tc.pm.LoadProperty(leaf, ""), ErrNotLoaded)
			require.ErrorIs(t, tc.pm.LoadFile(tc.path+".missing"), ErrFileNotFound)

			require.NoError(t, tc.pm.OpenFileToSave(tc.path))
			require.ErrorIs(t, tc.pm.CloseFileToSave(tc.path+".other"), ErrPathMismatch)
			require.NoError(t, tc.pm.CloseFileToSave(tc.path))
			require.ErrorIs(t, tc.pm.CloseFileToSave(tc.path), ErrNotOpen)
		})
	}
}

func TestMemorySnapshotIDs(t *testing.T) {
	pm := NewMemory()
	tree := newServerTree(t)

	require.NoError(t, props.Save(pm, "a", tree.root))
	first := pm.SnapshotID("a")
	require.NotEmpty(t, first)

	require.NoError(t, props.Save(pm, "a", tree.root))
	require.NotEqual(t, first, pm.SnapshotID("a"))

	require.Equal(t, []string{
		"server.debug",
		"server.name",
		"server.network.port",
		"server.network.ratio",
		"server.network.timeout",
		"server.tags",
	}, pm.Keys("a"))

	value, ok := pm.Value("a", "server.network.timeout")
	require.True(t, ok)
	require.Equal(t, "30s", value)
}

func TestJSONFileLayout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "layout.json")
	pm := NewJSONFile()
	root := props.MustModel("app")
	_, err := root.AddProperty(props.MustValue("weird*name", "v", props.StringCodec()))
	require.NoError(t, err)
	_, err = root.AddProperty(props.MustValue("7", int64(7), props.IntCodec()))
	require.NoError(t, err)
	require.NoError(t, props.Save(pm, path, root))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.JSONEq(t, `{"app":{"weird*name":"v","7":"7"}}`, string(raw))

	require.NoError(t, os.WriteFile(path, []byte(`{"app":{"7":42,"weird*name":"w"}}`), 0o644))
	require.NoError(t, props.Restore(pm, path, root))
	got, err := props.Get[int64](root.AsAmbassador(), "7")
	require.NoError(t, err)
	require.Equal(t, int64(42), got)
	name, err := props.Get[string](root.AsAmbassador(), "weird*name")
	require.NoError(t, err)
	require.Equal(t, "w", name)
}

func TestJSONFileRejectsNonObject(t *testing.T) {
	path := filepath.Join(t.TempDir(), "list.json")
	require.NoError(t, os.WriteFile(path, []byte(`[1,2]`), 0o644))
	require.ErrorIs(t, NewJSONFile().LoadFile(path), ErrInvalidDocument)
}

func TestYAMLFileLayout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "layout.yaml")
	tree := newServerTree(t)
	require.NoError(t, props.Save(NewYAMLFile(), path, tree.root))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(raw), "port: 8080")
	require.Contains(t, string(raw), "timeout: 30s")
	require.Contains(t, string(raw), "debug: false")
}
