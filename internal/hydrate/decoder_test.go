package hydrate

import (
	"errors"
	"strings"
	"testing"
)

type limits struct {
	Daily  int `json:"daily"`
	Weekly int `json:"weekly,omitempty"`
}

type settings struct {
	Theme  string `json:"theme"`
	Limits limits `json:"limits"`
}

func TestDecodeNestedPayload(t *testing.T) {
	decoder := NewDecoder[settings]()
	got, err := decoder.Decode(Context{Model: "app"}, map[string]any{
		"theme":  "dark",
		"limits": map[string]any{"daily": 3},
	})
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Theme != "dark" || got.Limits.Daily != 3 {
		t.Fatalf("unexpected result %+v", got)
	}
}

func TestDecodeStrictRejectsUnknownFields(t *testing.T) {
	decoder := NewDecoder(WithDisallowUnknownFields[settings]())
	_, err := decoder.Decode(Context{Model: "app"}, map[string]any{"color": "red"})
	if err == nil || !strings.Contains(err.Error(), "hydrate: decode app") {
		t.Fatalf("expected strict decode error, got %v", err)
	}
}

func TestDecodeNilPayload(t *testing.T) {
	_, err := NewDecoder[settings]().Decode(Context{Model: "app", Path: "/app/limits"}, nil)
	if err == nil || !strings.Contains(err.Error(), "app at /app/limits") {
		t.Fatalf("expected nil payload error with context, got %v", err)
	}
}

func TestDecodePostHook(t *testing.T) {
	boom := errors.New("boom")
	decoder := NewDecoder(
		WithPostHook[settings](func(_ Context, s *settings) error {
			s.Theme = strings.ToUpper(s.Theme)
			return nil
		}),
		WithPostHook[settings](func(_ Context, s *settings) error {
			if s.Limits.Daily < 0 {
				return boom
			}
			return nil
		}),
	)

	got, err := decoder.Decode(Context{Model: "app"}, map[string]any{"theme": "dark"})
	if err != nil || got.Theme != "DARK" {
		t.Fatalf("unexpected post-hook result %+v, %v", got, err)
	}

	_, err = decoder.Decode(Context{Model: "app"}, map[string]any{"limits": map[string]any{"daily": -1}})
	if !errors.Is(err, boom) {
		t.Fatalf("expected post-hook error, got %v", err)
	}
}

func TestEncodeKeepsFieldNames(t *testing.T) {
	payload, err := Encode(Context{Model: "app"}, settings{Theme: "dark", Limits: limits{Daily: 9007199254740993}})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	nested, ok := payload["limits"].(map[string]any)
	if !ok {
		t.Fatalf("expected nested limits, got %#v", payload["limits"])
	}
	if _, present := nested["weekly"]; present {
		t.Fatalf("omitempty field should be absent")
	}
	if got := nested["daily"]; got == nil || got.(interface{ String() string }).String() != "9007199254740993" {
		t.Fatalf("expected exact number, got %#v", got)
	}
}

func TestEncodeRejectsNonObjects(t *testing.T) {
	if _, err := Encode(Context{Model: "app"}, []int{1}); err == nil {
		t.Fatalf("expected error for list")
	}
	var nothing *settings
	if _, err := Encode(Context{Model: "app"}, nothing); err == nil {
		t.Fatalf("expected error for nil pointer")
	}
}
