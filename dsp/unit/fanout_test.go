package unit

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestFanOutAddIsIdempotent(t *testing.T) {
	t.Parallel()

	var f FanOut[TriggerReceiver]

	a, b := &eventLog{}, &eventLog{}

	if !f.Add(a) || f.Add(a) {
		t.Fatal("second Add of the same target must report false")
	}

	f.Add(b)

	if f.Len() != 2 {
		t.Fatalf("len = %d, want 2", f.Len())
	}

	if !f.Remove(a) || f.Remove(a) {
		t.Fatal("Remove must report presence exactly once")
	}

	if f.Contains(a) || !f.Contains(b) {
		t.Fatal("unexpected membership after remove")
	}

	f.Clear()

	if f.Len() != 0 {
		t.Fatal("clear left subscribers")
	}
}

func TestFanOutEachToleratesRemovalDuringDispatch(t *testing.T) {
	t.Parallel()

	var f FanOut[TriggerReceiver]

	a, b, c := &eventLog{}, &eventLog{}, &eventLog{}
	f.Add(a)
	f.Add(b)
	f.Add(c)

	calls := 0
	f.Each(func(r TriggerReceiver) {
		calls++
		f.Remove(b)
		r.ReceiveTrigger()
	})

	if calls != 3 {
		t.Fatalf("calls = %d, want 3 (snapshot dispatch)", calls)
	}

	if f.Contains(b) {
		t.Fatal("b should be gone after dispatch")
	}
}

// Subscribing the same receiver N times yields exactly one trigger per event.
func TestTriggerSubscriptionIdempotentProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50

	properties := gopter.NewProperties(parameters)

	properties.Property("one trigger per event regardless of subscription count", prop.ForAll(
		func(n, events int) bool {
			seq, err := NewSequencer(newContext(), params(TypeSequencer, map[string]any{"autostart": false}))
			if err != nil {
				return false
			}

			rx := &eventLog{}
			for i := 0; i < n; i++ {
				seq.SubscribeTrigger(rx)
			}

			for i := 0; i < events; i++ {
				seq.FireStep(0)
			}

			return rx.triggers() == events && seq.TriggerSubscribers() == 1
		},
		gen.IntRange(1, 32),
		gen.IntRange(0, 16),
	))

	properties.TestingRun(t)
}
