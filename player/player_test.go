package player

import (
	"testing"
	"time"

	"coda/script"
)

func utter(id, text string, intervalMs int) script.Utterance {
	return script.Utterance{
		ID:               id,
		SpeakerID:        "s",
		Text:             text,
		RevealIntervalMs: intervalMs,
	}
}

func waitPreview(t *testing.T, p *Player) Preview {
	t.Helper()
	select {
	case u := <-p.Updates():
		return u
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for preview")
	}
	return Preview{}
}

func waitCommit(t *testing.T, p *Player) Commit {
	t.Helper()
	select {
	case c := <-p.Commits():
		return c
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for commit")
	}
	return Commit{}
}

func waitState(t *testing.T, p *Player, want State) {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case s := <-p.States():
			if s == want {
				return
			}
		case <-deadline:
			t.Fatalf("timed out waiting for state %v", want)
		}
	}
}

func TestRevealSequence(t *testing.T) {
	p := New([]script.Utterance{utter("u1", "Hello there friend", 40)})
	defer p.Close()

	p.Start()
	waitState(t, p, StateRevealing)

	want := []string{"Hello", "Hello there", "Hello there friend"}
	for i, text := range want {
		u := waitPreview(t, p)
		if u.Text != text {
			t.Fatalf("preview %d: got %q, want %q", i, u.Text, text)
		}
		if u.WordCount != i+1 {
			t.Fatalf("preview %d: got word count %d, want %d", i, u.WordCount, i+1)
		}
	}

	c := waitCommit(t, p)
	if c.Utterance.ID != "u1" {
		t.Fatalf("committed %q, want u1", c.Utterance.ID)
	}
	waitState(t, p, StateIdle)
}

func TestCommitOrderFollowsQueue(t *testing.T) {
	p := New([]script.Utterance{
		utter("a", "one", 40),
		utter("b", "two words", 40),
		utter("c", "three", 40),
	})
	defer p.Close()

	p.Start()
	for _, id := range []string{"a", "b", "c"} {
		c := waitCommit(t, p)
		if c.Utterance.ID != id {
			t.Fatalf("committed %q, want %q", c.Utterance.ID, id)
		}
	}
	waitState(t, p, StateIdle)
}

func TestPauseKeepsPosition(t *testing.T) {
	p := New([]script.Utterance{utter("u1", "alpha beta gamma delta", 60)})
	defer p.Close()

	p.Start()
	if u := waitPreview(t, p); u.WordCount != 1 {
		t.Fatalf("got word count %d, want 1", u.WordCount)
	}
	if u := waitPreview(t, p); u.WordCount != 2 {
		t.Fatalf("got word count %d, want 2", u.WordCount)
	}

	p.Pause()
	waitState(t, p, StatePaused)

	// Paused means no further reveals, no matter how long we wait.
	select {
	case u := <-p.Updates():
		t.Fatalf("unexpected preview while paused: %q", u.Text)
	case <-time.After(300 * time.Millisecond):
	}

	p.Resume()
	waitState(t, p, StateRevealing)
	if u := waitPreview(t, p); u.WordCount != 3 {
		t.Fatalf("after resume got word count %d, want 3", u.WordCount)
	}
}

func TestStopDiscardsProgress(t *testing.T) {
	p := New([]script.Utterance{
		utter("u1", "alpha beta gamma delta epsilon", 60),
		utter("u2", "zeta", 60),
	})
	defer p.Close()

	p.Start()
	waitPreview(t, p)
	waitPreview(t, p)

	p.Stop()
	waitState(t, p, StateIdle)
	drainUpdates(p)

	// A fresh start replays from the head of the queue.
	p.Start()
	u := waitPreview(t, p)
	if u.Utterance.ID != "u1" || u.WordCount != 1 {
		t.Fatalf("after restart got %q word %d, want u1 word 1", u.Utterance.ID, u.WordCount)
	}
}

func TestResumeWithoutPauseIsNoop(t *testing.T) {
	p := New([]script.Utterance{utter("u1", "alpha beta", 60)})
	defer p.Close()

	p.Resume()
	select {
	case u := <-p.Updates():
		t.Fatalf("unexpected preview: %q", u.Text)
	case <-time.After(200 * time.Millisecond):
	}
	if p.State() != StateIdle {
		t.Fatalf("state %v, want idle", p.State())
	}
}

func TestStartOnEmptyQueue(t *testing.T) {
	p := New(nil)
	defer p.Close()

	p.Start()
	select {
	case s := <-p.States():
		t.Fatalf("unexpected state transition %v on empty queue", s)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestWordCountNeverDecreases(t *testing.T) {
	p := New([]script.Utterance{
		utter("u1", "a b c", 40),
		utter("u2", "d e", 40),
	})
	defer p.Close()

	p.Start()
	last := map[string]int{}
	for done := 0; done < 2; {
		select {
		case u := <-p.Updates():
			if u.WordCount <= last[u.Utterance.ID] {
				t.Fatalf("word count regressed for %s: %d after %d",
					u.Utterance.ID, u.WordCount, last[u.Utterance.ID])
			}
			last[u.Utterance.ID] = u.WordCount
		case <-p.Commits():
			done++
		case <-time.After(2 * time.Second):
			t.Fatal("timed out")
		}
	}
}

func drainUpdates(p *Player) {
	for {
		select {
		case <-p.Updates():
		default:
			return
		}
	}
}
