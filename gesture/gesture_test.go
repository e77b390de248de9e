package gesture

import (
	"testing"
	"time"
)

func newTest(armed func(string) bool) *Recognizer {
	return New(Config{
		HoldThreshold:   100 * time.Millisecond,
		DoubleTapWindow: 250 * time.Millisecond,
		Armed:           armed,
	})
}

func waitResult(t *testing.T, r *Recognizer) Result {
	t.Helper()
	select {
	case res := <-r.Events():
		return res
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for gesture")
	}
	return Result{}
}

func wantQuiet(t *testing.T, r *Recognizer, d time.Duration) {
	t.Helper()
	select {
	case res := <-r.Events():
		t.Fatalf("unexpected gesture %v on %q", res.Action, res.ID)
	case <-time.After(d):
	}
}

func TestQuickReleaseIsTapNotToggle(t *testing.T) {
	r := newTest(nil)
	defer r.Close()

	r.Down("e1")
	time.Sleep(30 * time.Millisecond)
	r.Up("e1")

	res := waitResult(t, r)
	if res.ID != "e1" || res.Action != ActionTap {
		t.Fatalf("got %v on %q, want tap on e1", res.Action, res.ID)
	}
	// Nothing else fires, in particular no late toggle from the old timer.
	wantQuiet(t, r, 250*time.Millisecond)
}

func TestHoldTogglesExactlyOnce(t *testing.T) {
	r := newTest(nil)
	defer r.Close()

	r.Down("e1")
	res := waitResult(t, r)
	if res.ID != "e1" || res.Action != ActionToggle {
		t.Fatalf("got %v on %q, want toggle on e1", res.Action, res.ID)
	}

	// The trailing release after the hold fired must not count as a tap.
	r.Up("e1")
	wantQuiet(t, r, 200*time.Millisecond)
}

func TestDoubleTapToggles(t *testing.T) {
	r := newTest(nil)
	defer r.Close()

	r.Down("e1")
	r.Up("e1")
	if res := waitResult(t, r); res.Action != ActionTap {
		t.Fatalf("first press: got %v, want tap", res.Action)
	}

	r.Down("e1")
	r.Up("e1")
	res := waitResult(t, r)
	if res.ID != "e1" || res.Action != ActionToggle {
		t.Fatalf("second press: got %v on %q, want toggle on e1", res.Action, res.ID)
	}
}

func TestTapsOutsideWindowStayTaps(t *testing.T) {
	r := newTest(nil)
	defer r.Close()

	r.Down("e1")
	r.Up("e1")
	if res := waitResult(t, r); res.Action != ActionTap {
		t.Fatalf("first press: got %v, want tap", res.Action)
	}

	time.Sleep(400 * time.Millisecond)

	r.Down("e1")
	r.Up("e1")
	if res := waitResult(t, r); res.Action != ActionTap {
		t.Fatalf("second press: got %v, want tap", res.Action)
	}
}

func TestTapsOnDifferentEntriesDoNotChain(t *testing.T) {
	r := newTest(nil)
	defer r.Close()

	r.Down("e1")
	r.Up("e1")
	waitResult(t, r)

	r.Down("e2")
	r.Up("e2")
	if res := waitResult(t, r); res.Action != ActionTap || res.ID != "e2" {
		t.Fatalf("got %v on %q, want tap on e2", res.Action, res.ID)
	}
}

func TestUnarmedEntryIsInert(t *testing.T) {
	r := newTest(func(id string) bool { return id == "armed" })
	defer r.Close()

	r.Down("plain")
	time.Sleep(150 * time.Millisecond)
	r.Up("plain")
	wantQuiet(t, r, 150*time.Millisecond)

	r.Down("armed")
	if res := waitResult(t, r); res.Action != ActionToggle {
		t.Fatalf("got %v, want toggle", res.Action)
	}
	r.Up("armed")
}

func TestReleaseOverAnotherEntryDisarmsHold(t *testing.T) {
	r := newTest(nil)
	defer r.Close()

	// Press on e1, drag, release over e2. The pointer is up, so the hold
	// on e1 must never fire, and the press counts as no tap on either.
	r.Down("e1")
	time.Sleep(30 * time.Millisecond)
	r.Up("e2")
	wantQuiet(t, r, 250*time.Millisecond)
}

func TestCancelDisarmsHold(t *testing.T) {
	r := newTest(nil)
	defer r.Close()

	r.Down("e1")
	time.Sleep(30 * time.Millisecond)
	r.Cancel("e1")
	wantQuiet(t, r, 250*time.Millisecond)
}

func TestNewPressSupersedesPrevious(t *testing.T) {
	r := newTest(nil)
	defer r.Close()

	r.Down("e1")
	time.Sleep(30 * time.Millisecond)
	r.Down("e2")
	res := waitResult(t, r)
	if res.ID != "e2" || res.Action != ActionToggle {
		t.Fatalf("got %v on %q, want toggle on e2", res.Action, res.ID)
	}
}
