package signal

import "testing"

func TestPublishFollowsSubscriptionOrder(t *testing.T) {
	var sig Signal[int]
	var got []string
	sig.Subscribe(func(v int) { got = append(got, "a") })
	sig.Subscribe(func(v int) { got = append(got, "b") })
	sig.Subscribe(func(v int) { got = append(got, "c") })

	sig.Publish(1)

	if len(got) != 3 || got[0] != "a" || got[1] != "b" || got[2] != "c" {
		t.Fatalf("unexpected delivery order %v", got)
	}
}

func TestUnsubscribeIsIdempotent(t *testing.T) {
	var sig Signal[string]
	calls := 0
	sub := sig.Subscribe(func(string) { calls++ })
	other := sig.Subscribe(func(string) {})

	sub.Unsubscribe()
	sub.Unsubscribe()
	sig.Publish("x")

	if calls != 0 {
		t.Fatalf("expected no calls after unsubscribe, got %d", calls)
	}
	if sig.Len() != 1 {
		t.Fatalf("expected one remaining subscriber, got %d", sig.Len())
	}
	other.Unsubscribe()
	if sig.Len() != 0 {
		t.Fatalf("expected no subscribers, got %d", sig.Len())
	}
}

func TestHandlersMutatingSubscriptionsUseSnapshot(t *testing.T) {
	var sig Signal[int]
	var late, second int
	var secondSub *Subscription
	sig.Subscribe(func(int) {
		sig.Subscribe(func(int) { late++ })
		secondSub.Unsubscribe()
	})
	secondSub = sig.Subscribe(func(int) { second++ })

	sig.Publish(1)
	if late != 0 {
		t.Fatalf("handler added during publish must not fire in the same round")
	}
	if second != 0 {
		t.Fatalf("handler removed during publish must be skipped")
	}

	sig.Publish(2)
	if late != 1 {
		t.Fatalf("expected late handler on next publish, got %d", late)
	}
}

func TestNilSubscriptionUnsubscribe(t *testing.T) {
	var sub *Subscription
	sub.Unsubscribe()
}
