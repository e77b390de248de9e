package vocab

import "testing"

func digestiveTerms() []Term {
	return []Term{
		{Term: "peristalsis", Definition: "Wave-like muscle contractions that move food through the digestive tract"},
		{Term: "villi", Definition: "Tiny finger-like projections in the small intestine"},
		{Term: "duodenum", Definition: "The first section of the small intestine"},
		{Term: "goblet cells", Definition: "Specialized epithelial cells that secrete mucus"},
	}
}

func TestObserveWordExact(t *testing.T) {
	tr := NewTracker(digestiveTerms())
	term, ok := tr.ObserveWord("duodenum,")
	if !ok {
		t.Fatal("expected duodenum to highlight")
	}
	if term.Term != "duodenum" {
		t.Errorf("got %q, want duodenum", term.Term)
	}
	if !tr.IsHighlighted("duodenum") {
		t.Error("duodenum should be marked highlighted")
	}
}

func TestObserveWordOnlyOnce(t *testing.T) {
	tr := NewTracker(digestiveTerms())
	if _, ok := tr.ObserveWord("villi"); !ok {
		t.Fatal("first mention should highlight")
	}
	if _, ok := tr.ObserveWord("villi"); ok {
		t.Error("second mention should not re-highlight")
	}
}

func TestObserveWordFuzzy(t *testing.T) {
	tr := NewTracker(digestiveTerms())
	// One transcription slip on a long word still matches.
	if _, ok := tr.ObserveWord("peristalsys"); !ok {
		t.Error("expected fuzzy match at distance 1")
	}
}

func TestObserveWordShortNoFuzzy(t *testing.T) {
	tr := NewTracker(digestiveTerms())
	if _, ok := tr.ObserveWord("villa"); ok {
		t.Error("short words must match exactly")
	}
}

func TestEmbeddedTermDoesNotMatch(t *testing.T) {
	tr := NewTracker([]Term{{Term: "cell", Definition: "The basic structural unit of living organisms"}})
	// "excellent" contains "cell" but is a different word entirely.
	if _, ok := tr.ObserveWord("excellent"); ok {
		t.Error("term embedded in a longer word should not highlight")
	}
	if _, ok := tr.ObserveWord("cell"); !ok {
		t.Error("the word itself should highlight")
	}
}

func TestObserveWordNoMatch(t *testing.T) {
	tr := NewTracker(digestiveTerms())
	if _, ok := tr.ObserveWord("intestine"); ok {
		t.Error("unrelated word should not highlight")
	}
}

func TestMultiWordSkippedDuringReveal(t *testing.T) {
	tr := NewTracker(digestiveTerms())
	if _, ok := tr.ObserveWord("goblet"); ok {
		t.Error("multi-word terms should not match a single word")
	}
}

func TestTermsIn(t *testing.T) {
	tr := NewTracker(digestiveTerms())
	got := tr.TermsIn("Throughout the epithelium, we also have goblet cells. These secrete mucus.")
	if len(got) != 1 || got[0] != "goblet cells" {
		t.Errorf("TermsIn = %v, want [goblet cells]", got)
	}
}

func TestHighlightedOrderAndReset(t *testing.T) {
	tr := NewTracker(digestiveTerms())
	tr.ObserveWord("duodenum")
	tr.ObserveWord("peristalsis")

	hl := tr.Highlighted()
	if len(hl) != 2 {
		t.Fatalf("got %d highlighted, want 2", len(hl))
	}
	// Authored order, not mention order.
	if hl[0].Term != "peristalsis" || hl[1].Term != "duodenum" {
		t.Errorf("unexpected order: %v, %v", hl[0].Term, hl[1].Term)
	}

	tr.Reset()
	if len(tr.Highlighted()) != 0 {
		t.Error("Reset should clear highlighted terms")
	}
}
