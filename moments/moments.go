// Package moments manages captured moments: bookmarks of committed
// transcript entries the user wants to keep. A moment denormalizes its
// speaker details at capture time, so edits to the roster never rewrite
// history. The collection persists through the key-value store on every
// mutation, best effort.
package moments

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"coda/script"
	"coda/store"
	"coda/transcript"
)

const storeKey = "coda-captured-moments"

var (
	ErrNotFound       = errors.New("moment not found")
	ErrQuoteNotInText = errors.New("quote is not part of the moment text")
)

// Moment is one captured transcript entry.
type Moment struct {
	ID              string    `json:"id"`
	UtteranceID     string    `json:"utteranceId"`
	SpeakerID       string    `json:"speakerId"`
	SpeakerName     string    `json:"speakerName"`
	SpeakerInitials string    `json:"speakerInitials"`
	SpeakerColor    string    `json:"speakerColor"`
	Timestamp       time.Time `json:"timestamp"`
	Text            string    `json:"text"`
	Pinned          bool      `json:"pinned"`
	PinnedText      string    `json:"pinnedText,omitempty"`
}

// Quote returns the pinned excerpt if one is set, otherwise the full text.
func (m Moment) Quote() string {
	if m.Pinned && m.PinnedText != "" {
		return m.PinnedText
	}
	return m.Text
}

type Filter int

const (
	FilterAll Filter = iota
	FilterPinned
	FilterUnpinned
)

// Collection holds captured moments in capture order.
type Collection struct {
	mu    sync.Mutex
	kv    *store.KV
	items []Moment
}

// NewCollection loads any persisted moments from kv. A missing or corrupt
// blob starts the collection empty.
func NewCollection(kv *store.KV) *Collection {
	c := &Collection{kv: kv}
	kv.GetJSON(storeKey, &c.items)
	return c
}

// Capture bookmarks a committed entry with the speaker details frozen as
// they are right now.
func (c *Collection) Capture(entry transcript.Entry, sp script.Speaker) Moment {
	m := Moment{
		ID:              uuid.NewString(),
		UtteranceID:     entry.Utterance.ID,
		SpeakerID:       sp.ID,
		SpeakerName:     sp.Name,
		SpeakerInitials: sp.Initials,
		SpeakerColor:    sp.Color,
		Timestamp:       entry.CommittedAt,
		Text:            entry.Utterance.Text,
	}
	c.mu.Lock()
	c.items = append(c.items, m)
	c.persistLocked()
	c.mu.Unlock()
	return m
}

// PinQuote marks a moment pinned with an excerpt. The excerpt must appear
// verbatim in the moment's text.
func (c *Collection) PinQuote(id, quote string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	i := c.indexLocked(id)
	if i < 0 {
		return ErrNotFound
	}
	if !strings.Contains(c.items[i].Text, quote) {
		return ErrQuoteNotInText
	}
	c.items[i].Pinned = true
	c.items[i].PinnedText = quote
	c.persistLocked()
	return nil
}

// Unpin clears a moment's pin but keeps the moment.
func (c *Collection) Unpin(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	i := c.indexLocked(id)
	if i < 0 {
		return ErrNotFound
	}
	c.items[i].Pinned = false
	c.items[i].PinnedText = ""
	c.persistLocked()
	return nil
}

// Remove deletes a moment entirely.
func (c *Collection) Remove(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	i := c.indexLocked(id)
	if i < 0 {
		return ErrNotFound
	}
	c.items = append(c.items[:i], c.items[i+1:]...)
	c.persistLocked()
	return nil
}

// Get looks a moment up by id.
func (c *Collection) Get(id string) (Moment, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	i := c.indexLocked(id)
	if i < 0 {
		return Moment{}, false
	}
	return c.items[i], true
}

// All returns the moments in capture order.
func (c *Collection) All() []Moment {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Moment, len(c.items))
	copy(out, c.items)
	return out
}

func (c *Collection) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Search matches query case-insensitively against each moment's text and
// speaker name. An empty query matches everything.
func (c *Collection) Search(query string) []Moment {
	q := strings.ToLower(strings.TrimSpace(query))
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []Moment
	for _, m := range c.items {
		if q == "" ||
			strings.Contains(strings.ToLower(m.Text), q) ||
			strings.Contains(strings.ToLower(m.SpeakerName), q) {
			out = append(out, m)
		}
	}
	return out
}

// Filtered returns moments matching the pin filter, in capture order.
func (c *Collection) Filtered(f Filter) []Moment {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []Moment
	for _, m := range c.items {
		switch f {
		case FilterPinned:
			if !m.Pinned {
				continue
			}
		case FilterUnpinned:
			if m.Pinned {
				continue
			}
		}
		out = append(out, m)
	}
	return out
}

func (c *Collection) indexLocked(id string) int {
	for i, m := range c.items {
		if m.ID == id {
			return i
		}
	}
	return -1
}

func (c *Collection) persistLocked() {
	c.kv.SetJSON(storeKey, c.items)
}
