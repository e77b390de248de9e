// Package transcript holds the append-only log of committed utterances,
// the authoritative "what has been said" view. Entries are immutable once
// appended and iterate in commit order, which is conversational order.
package transcript

import (
	"sync"
	"time"

	"coda/script"
)

// Entry is a committed utterance plus its commit timestamp.
type Entry struct {
	Utterance   script.Utterance
	CommittedAt time.Time
}

// Log is the ordered, append-only record of committed entries. Nothing is
// ever removed except by a full Clear (hard stop, never pause).
type Log struct {
	mu      sync.Mutex
	entries []Entry
}

func NewLog() *Log { return &Log{} }

// Append adds one committed entry at the end of the log.
func (l *Log) Append(e Entry) {
	l.mu.Lock()
	l.entries = append(l.entries, e)
	l.mu.Unlock()
}

// All returns a copy of the entries in commit order.
func (l *Log) All() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Last returns the most recently committed entry, if any.
func (l *Log) Last() (Entry, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.entries) == 0 {
		return Entry{}, false
	}
	return l.entries[len(l.entries)-1], true
}

func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// Clear empties the log. Only a hard stop calls this.
func (l *Log) Clear() {
	l.mu.Lock()
	l.entries = nil
	l.mu.Unlock()
}
