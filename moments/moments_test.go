package moments

import (
	"errors"
	"testing"
	"time"

	"coda/script"
	"coda/store"
	"coda/transcript"
)

var speaker = script.Speaker{
	ID:       "alex",
	Name:     "Alex Chen",
	Initials: "AC",
	Color:    "#FF6B6B",
}

func entry(id, text string) transcript.Entry {
	return transcript.Entry{
		Utterance:   script.Utterance{ID: id, SpeakerID: speaker.ID, Text: text},
		CommittedAt: time.Now(),
	}
}

func newCollection(t *testing.T) *Collection {
	t.Helper()
	return NewCollection(store.Open(t.TempDir()))
}

func TestCaptureSnapshotsSpeaker(t *testing.T) {
	c := newCollection(t)

	m := c.Capture(entry("u1", "great point about timelines"), speaker)
	if m.ID == "" {
		t.Fatal("moment has no id")
	}
	if m.SpeakerName != "Alex Chen" || m.SpeakerInitials != "AC" || m.SpeakerColor != "#FF6B6B" {
		t.Fatalf("speaker snapshot incomplete: %+v", m)
	}
	if m.UtteranceID != "u1" {
		t.Fatalf("got utterance %q, want u1", m.UtteranceID)
	}
	if c.Len() != 1 {
		t.Fatalf("len %d, want 1", c.Len())
	}
}

func TestPinQuoteRequiresSubstring(t *testing.T) {
	c := newCollection(t)
	m := c.Capture(entry("u1", "the deadline moved to Friday"), speaker)

	if err := c.PinQuote(m.ID, "moved to Friday"); err != nil {
		t.Fatal(err)
	}
	got, _ := c.Get(m.ID)
	if !got.Pinned || got.Quote() != "moved to Friday" {
		t.Fatalf("pin not applied: %+v", got)
	}

	if err := c.PinQuote(m.ID, "never said this"); !errors.Is(err, ErrQuoteNotInText) {
		t.Fatalf("got %v, want ErrQuoteNotInText", err)
	}
	if err := c.PinQuote("missing", "x"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}

func TestUnpinKeepsMoment(t *testing.T) {
	c := newCollection(t)
	m := c.Capture(entry("u1", "some text here"), speaker)

	if err := c.PinQuote(m.ID, "text"); err != nil {
		t.Fatal(err)
	}
	if err := c.Unpin(m.ID); err != nil {
		t.Fatal(err)
	}
	got, ok := c.Get(m.ID)
	if !ok {
		t.Fatal("moment gone after unpin")
	}
	if got.Pinned || got.PinnedText != "" {
		t.Fatalf("pin not cleared: %+v", got)
	}
	if got.Quote() != "some text here" {
		t.Fatalf("quote %q, want full text", got.Quote())
	}
}

func TestRemove(t *testing.T) {
	c := newCollection(t)
	m := c.Capture(entry("u1", "text"), speaker)

	if err := c.Remove(m.ID); err != nil {
		t.Fatal(err)
	}
	if c.Len() != 0 {
		t.Fatalf("len %d, want 0", c.Len())
	}
	if err := c.Remove(m.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}

func TestSearchMatchesTextAndSpeaker(t *testing.T) {
	c := newCollection(t)
	c.Capture(entry("u1", "the budget review is Tuesday"), speaker)
	c.Capture(entry("u2", "lunch plans"), script.Speaker{ID: "sam", Name: "Sam Rivera", Initials: "SR", Color: "#45B7D1"})

	if got := c.Search("BUDGET"); len(got) != 1 || got[0].UtteranceID != "u1" {
		t.Fatalf("text search got %d results", len(got))
	}
	if got := c.Search("rivera"); len(got) != 1 || got[0].UtteranceID != "u2" {
		t.Fatalf("speaker search got %d results", len(got))
	}
	if got := c.Search(""); len(got) != 2 {
		t.Fatalf("empty query got %d results, want 2", len(got))
	}
	if got := c.Search("xyzzy"); len(got) != 0 {
		t.Fatalf("bogus query got %d results, want 0", len(got))
	}
}

func TestFiltered(t *testing.T) {
	c := newCollection(t)
	a := c.Capture(entry("u1", "pinned one"), speaker)
	c.Capture(entry("u2", "plain one"), speaker)
	if err := c.PinQuote(a.ID, "pinned"); err != nil {
		t.Fatal(err)
	}

	if got := c.Filtered(FilterPinned); len(got) != 1 || got[0].ID != a.ID {
		t.Fatalf("pinned filter got %d", len(got))
	}
	if got := c.Filtered(FilterUnpinned); len(got) != 1 || got[0].UtteranceID != "u2" {
		t.Fatalf("unpinned filter got %d", len(got))
	}
	if got := c.Filtered(FilterAll); len(got) != 2 {
		t.Fatalf("all filter got %d", len(got))
	}
}

func TestPersistenceAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	kv := store.Open(dir)

	c := NewCollection(kv)
	m := c.Capture(entry("u1", "keep this around"), speaker)
	if err := c.PinQuote(m.ID, "keep this"); err != nil {
		t.Fatal(err)
	}

	reopened := NewCollection(store.Open(dir))
	if reopened.Len() != 1 {
		t.Fatalf("reopened len %d, want 1", reopened.Len())
	}
	got, ok := reopened.Get(m.ID)
	if !ok {
		t.Fatal("moment lost across reopen")
	}
	if !got.Pinned || got.PinnedText != "keep this" {
		t.Fatalf("pin lost across reopen: %+v", got)
	}
}
