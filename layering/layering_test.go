package layering

import (
	"reflect"
	"testing"

	props "github.com/goliatone/go-props"
)

func TestMergeStrongestWins(t *testing.T) {
	user := map[string]any{
		"theme": "dark",
		"limits": map[string]any{
			"daily": 10,
		},
		"channel": nil,
	}
	global := map[string]any{
		"theme": "light",
		"limits": map[string]any{
			"daily":  5,
			"weekly": 20,
		},
		"channel": "email",
	}

	got := Merge(user, global)
	want := map[string]any{
		"theme": "dark",
		"limits": map[string]any{
			"daily":  10,
			"weekly": 20,
		},
		"channel": "email",
	}
	if !reflect.DeepEqual(want, got) {
		t.Fatalf("merged payload mismatch:\nwant: %#v\n got: %#v", want, got)
	}

	got["limits"].(map[string]any)["daily"] = 99
	if user["limits"].(map[string]any)["daily"] != 10 {
		t.Fatalf("merge must not alias its inputs")
	}
}

func TestMergeZeroInput(t *testing.T) {
	if got := Merge(); len(got) != 0 {
		t.Fatalf("expected empty payload, got %#v", got)
	}
}

func TestMergeDropsNilLeaves(t *testing.T) {
	got := Merge(map[string]any{"a": map[string]any{"b": nil, "c": 1}})
	want := map[string]any{"a": map[string]any{"c": 1}}
	if !reflect.DeepEqual(want, got) {
		t.Fatalf("want %#v, got %#v", want, got)
	}
}

func TestNewChainOrdersAndDeduplicates(t *testing.T) {
	chain := NewChain(
		Layer{Scope: Scope{Key: "app", Level: LevelGlobal}},
		Layer{Scope: Scope{Key: "app", Level: LevelUser, User: "42"}, SnapshotID: "first"},
		Layer{Scope: Scope{Key: "app", Level: LevelUnknown}},
		Layer{Scope: Scope{Key: "app", Level: LevelGroup, Group: "ops"}},
		Layer{Scope: Scope{Key: "app", Level: LevelUser, User: "42"}, SnapshotID: "second"},
	)

	if chain.Len() != 3 {
		t.Fatalf("expected 3 layers, got %d", chain.Len())
	}
	var ids []string
	for _, layer := range chain.Ordered() {
		ids = append(ids, layer.Scope.Identifier())
	}
	want := []string{"user/42/app", "group/ops/app", "global/app"}
	if !reflect.DeepEqual(want, ids) {
		t.Fatalf("order mismatch: want %v, got %v", want, ids)
	}
	strongest, ok := chain.Strongest()
	if !ok || strongest.SnapshotID != "first" {
		t.Fatalf("expected first duplicate to win, got %+v", strongest)
	}
	weakest, ok := chain.Weakest()
	if !ok || weakest.Scope.Level != LevelGlobal {
		t.Fatalf("expected global layer last, got %+v", weakest)
	}
}

func TestEmptyChain(t *testing.T) {
	var chain Chain
	if _, ok := chain.Strongest(); ok {
		t.Fatalf("empty chain has no strongest layer")
	}
	if _, ok := chain.Weakest(); ok {
		t.Fatalf("empty chain has no weakest layer")
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{
		"global": LevelGlobal,
		"GROUP":  LevelGroup,
		" User ": LevelUser,
		"tenant": LevelUnknown,
	}
	for input, want := range cases {
		if got := ParseLevel(input); got != want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", input, got, want)
		}
		if want != LevelUnknown && ParseLevel(want.String()) != want {
			t.Fatalf("level %v does not round trip", want)
		}
	}
}

func buildTree(t *testing.T) (*props.Model, *props.Value[string], *props.Value[int64]) {
	t.Helper()
	root := props.MustModel("settings")
	theme, err := props.Add(root, props.MustValue("theme", "light", props.StringCodec()))
	if err != nil {
		t.Fatalf("add theme: %v", err)
	}
	limits, err := props.Add(root, props.MustModel("limits"))
	if err != nil {
		t.Fatalf("add limits: %v", err)
	}
	daily, err := props.Add(limits, props.MustValue("daily", int64(1), props.IntCodec()))
	if err != nil {
		t.Fatalf("add daily: %v", err)
	}
	return root, theme, daily
}

func TestChainApplyCommitsOnce(t *testing.T) {
	root, theme, daily := buildTree(t)
	var events []string
	root.OnChange(func(path string) { events = append(events, path) })

	chain := NewChain(
		Layer{Scope: Scope{Key: "settings", Level: LevelGlobal}, Payload: map[string]any{
			"theme":  "light",
			"limits": map[string]any{"daily": 5},
		}},
		Layer{Scope: Scope{Key: "settings", Level: LevelUser, User: "7"}, Payload: map[string]any{
			"theme": "dark",
		}},
	)
	if err := chain.Apply(root.AsAmbassador()); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if theme.Get() != "dark" || daily.Get() != 5 {
		t.Fatalf("unexpected values theme=%q daily=%d", theme.Get(), daily.Get())
	}
	if !reflect.DeepEqual([]string{""}, events) {
		t.Fatalf("expected a single commit, got %v", events)
	}
}

func TestChainApplyUnknownKey(t *testing.T) {
	root, _, _ := buildTree(t)
	chain := NewChain(Layer{Scope: Scope{Key: "settings", Level: LevelGlobal}, Payload: map[string]any{
		"missing": true,
	}})
	if err := chain.Apply(root.AsAmbassador()); err == nil {
		t.Fatalf("expected unknown key to fail")
	}
}

func TestTraceReportsProvenance(t *testing.T) {
	chain := NewChain(
		Layer{Scope: Scope{Key: "app", Level: LevelGlobal}, SnapshotID: "g1", Payload: map[string]any{
			"limits": map[string]any{"daily": 5},
		}},
		Layer{Scope: Scope{Key: "app", Level: LevelGroup, Group: "ops"}, Payload: map[string]any{
			"limits": map[string]any{"daily": 8},
		}},
		Layer{Scope: Scope{Key: "app", Level: LevelUser, User: "1"}, Payload: map[string]any{}},
	)

	trace := chain.Trace("/limits/daily")
	if len(trace.Layers) != 3 {
		t.Fatalf("expected 3 provenance entries, got %d", len(trace.Layers))
	}
	if trace.Layers[0].Found {
		t.Fatalf("user layer should not contribute")
	}
	effective, ok := trace.Effective()
	if !ok || effective.Scope.Level != LevelGroup || effective.Value != 8 {
		t.Fatalf("unexpected effective provenance %+v", effective)
	}
	if !trace.Layers[2].Found || trace.Layers[2].SnapshotID != "g1" {
		t.Fatalf("global layer provenance missing: %+v", trace.Layers[2])
	}

	payload, err := trace.ToJSON()
	if err != nil {
		t.Fatalf("trace json: %v", err)
	}
	if len(payload) == 0 {
		t.Fatalf("expected json output")
	}
}
