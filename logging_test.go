package props

import "testing"

func TestTreeLoggerReceivesPublishedEvents(t *testing.T) {
	var events []ChangeLogEvent
	m := MustModel("m", WithTreeLogger(TreeLoggerFunc(func(event ChangeLogEvent) {
		events = append(events, event)
	})))
	x, _ := Add(m, MustValue("x", int64(0), IntCodec()))

	x.Set(1)
	func() {
		defer m.BeginSuspend().End()
		x.Set(2)
	}()

	if len(events) != 2 {
		t.Fatalf("expected two entries, got %+v", events)
	}
	if events[0].Model != "m" || events[0].Path != "x" || !events[0].Dirty {
		t.Fatalf("unexpected change entry %+v", events[0])
	}
	if events[1].Path != "" || !events[1].Dirty {
		t.Fatalf("commit is logged before the dirty flag resets, got %+v", events[1])
	}
}

func TestNilTreeLoggerIsNoop(t *testing.T) {
	m := MustModel("m", WithTreeLogger(nil))
	x, _ := Add(m, MustValue("x", int64(0), IntCodec()))
	x.Set(1)
	var fn TreeLoggerFunc
	fn.LogChange(ChangeLogEvent{})
}
