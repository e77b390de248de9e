package transcript

import (
	"testing"
	"time"

	"coda/script"
)

func entry(id, text string) Entry {
	return Entry{
		Utterance:   script.Utterance{ID: id, SpeakerID: "a", Text: text},
		CommittedAt: time.Now(),
	}
}

func TestAppendOrder(t *testing.T) {
	l := NewLog()
	l.Append(entry("1", "first"))
	l.Append(entry("2", "second"))
	l.Append(entry("3", "third"))

	all := l.All()
	if len(all) != 3 {
		t.Fatalf("Len = %d, want 3", len(all))
	}
	for i, want := range []string{"1", "2", "3"} {
		if all[i].Utterance.ID != want {
			t.Errorf("entry %d = %q, want %q", i, all[i].Utterance.ID, want)
		}
	}
}

func TestLast(t *testing.T) {
	l := NewLog()
	if _, ok := l.Last(); ok {
		t.Error("Last on empty log should report false")
	}
	l.Append(entry("1", "first"))
	l.Append(entry("2", "second"))
	last, ok := l.Last()
	if !ok || last.Utterance.ID != "2" {
		t.Errorf("Last = %v %v, want entry 2", last.Utterance.ID, ok)
	}
}

func TestClear(t *testing.T) {
	l := NewLog()
	l.Append(entry("1", "first"))
	l.Clear()
	if l.Len() != 0 {
		t.Errorf("Len after Clear = %d, want 0", l.Len())
	}
	if got := l.All(); len(got) != 0 {
		t.Errorf("All after Clear = %v, want empty", got)
	}
}

func TestAllReturnsCopy(t *testing.T) {
	l := NewLog()
	l.Append(entry("1", "first"))
	all := l.All()
	all[0].Utterance.ID = "mutated"
	if got, _ := l.Last(); got.Utterance.ID != "1" {
		t.Error("mutating All() result should not affect the log")
	}
}
