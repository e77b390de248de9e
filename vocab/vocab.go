// Package vocab tracks key-term mentions during simulated lecture
// transcription. Terms come from the script's authored vocabulary list; as
// words are revealed the tracker marks terms that have been spoken so the
// display can light them up. Matching tolerates one edit of distance on
// longer words to absorb small transcription deviations.
package vocab

import (
	"strings"

	"github.com/antzucaro/matchr"
)

// Words shorter than this must match exactly; fuzzy matching short tokens
// produces too many false positives ("ileum" vs "ilium" is fine, "villi"
// vs "villa" is not worth the risk at distance 1 on 4 letters).
const fuzzyMinLen = 6

// Term is one authored vocabulary entry.
type Term struct {
	Term       string `yaml:"term" validate:"required"`
	Definition string `yaml:"definition" validate:"required"`
}

// Tracker marks terms as heard. It is owned by the controller goroutine and
// holds no locks.
type Tracker struct {
	terms       []Term
	highlighted map[string]bool
}

func NewTracker(terms []Term) *Tracker {
	return &Tracker{
		terms:       terms,
		highlighted: make(map[string]bool, len(terms)),
	}
}

// normalize lowercases a revealed word and strips surrounding punctuation
// so "duodenum," and "Duodenum" both match the authored term.
func normalize(word string) string {
	return strings.Trim(strings.ToLower(word), ".,;:!?()[]\"'-")
}

func (t *Tracker) matches(word string, term string) bool {
	if word == "" || term == "" {
		return false
	}
	if word == term {
		return true
	}
	if len(word) >= fuzzyMinLen && len(term) >= fuzzyMinLen {
		return matchr.Levenshtein(word, term) <= 1
	}
	return false
}

// ObserveWord checks one revealed word against single-word terms and marks
// the first newly-heard match. It returns that term and true when a term
// transitions to highlighted; repeated mentions return false.
func (t *Tracker) ObserveWord(word string) (Term, bool) {
	w := normalize(word)
	for _, term := range t.terms {
		key := strings.ToLower(term.Term)
		if strings.ContainsRune(key, ' ') {
			continue // multi-word terms are caught at segment commit
		}
		if t.highlighted[key] || !t.matches(w, key) {
			continue
		}
		t.highlighted[key] = true
		return term, true
	}
	return Term{}, false
}

// TermsIn returns the terms mentioned anywhere in a completed segment,
// in authored order. Multi-word terms are included here.
func (t *Tracker) TermsIn(text string) []string {
	lower := strings.ToLower(text)
	var found []string
	for _, term := range t.terms {
		if strings.Contains(lower, strings.ToLower(term.Term)) {
			found = append(found, term.Term)
		}
	}
	return found
}

// Highlighted returns terms heard so far, in authored order.
func (t *Tracker) Highlighted() []Term {
	var out []Term
	for _, term := range t.terms {
		if t.highlighted[strings.ToLower(term.Term)] {
			out = append(out, term)
		}
	}
	return out
}

// IsHighlighted reports whether a term has been heard this session.
func (t *Tracker) IsHighlighted(term string) bool {
	return t.highlighted[strings.ToLower(term)]
}

func (t *Tracker) Terms() []Term { return t.terms }

// Reset clears heard state, used on a hard stop.
func (t *Tracker) Reset() {
	clear(t.highlighted)
}
