// Package script defines the authored utterance scripts that drive the
// simulated transcription engine: a static speaker roster, an ordered queue
// of pre-written utterances, per-utterance translations, and an optional
// vocabulary list for lecture material. Scripts are authored in YAML and
// validated at load time; once loaded they are immutable.
package script

import (
	"strings"
	"time"

	"coda/translate"
	"coda/vocab"
)

// DefaultInterval is the word-reveal speed used when an utterance does not
// override it. Roughly 210 words per minute, a natural lecture pace.
const DefaultInterval = 280 * time.Millisecond

// Tone annotates how an utterance was delivered.
type Tone string

const (
	ToneNeutral    Tone = "neutral"
	ToneExcited    Tone = "excited"
	ToneWhispering Tone = "whispering"
	ToneRaised     Tone = "raised"
	ToneLaughing   Tone = "laughing"
	ToneFrustrated Tone = "frustrated"
)

// Label returns the display wording for a tone, or "" for neutral.
func (t Tone) Label() string {
	switch t {
	case ToneExcited:
		return "excited"
	case ToneWhispering:
		return "whispering"
	case ToneRaised:
		return "raised voice"
	case ToneLaughing:
		return "laughing"
	case ToneFrustrated:
		return "frustrated"
	}
	return ""
}

// NonVerbal annotates a non-speech sound attached to an utterance.
type NonVerbal string

const (
	NonVerbalNone         NonVerbal = ""
	NonVerbalLaughter     NonVerbal = "laughter"
	NonVerbalSighs        NonVerbal = "sighs"
	NonVerbalClearsThroat NonVerbal = "clears-throat"
	NonVerbalCoughs       NonVerbal = "coughs"
)

// Label returns the bracketed display form, e.g. "[clears throat]".
func (n NonVerbal) Label() string {
	if n == NonVerbalNone {
		return ""
	}
	return "[" + strings.ReplaceAll(string(n), "-", " ") + "]"
}

// Speaker is one entry in the static roster. The roster is never mutated
// at runtime.
type Speaker struct {
	ID       string `yaml:"id" validate:"required"`
	Name     string `yaml:"name" validate:"required"`
	Initials string `yaml:"initials" validate:"required,max=3"`
	Color    string `yaml:"color" validate:"required,hexcolor"`
}

// Utterance is one authored unit of speech, the atomic item in the
// simulated dictation queue. Immutable after load.
type Utterance struct {
	ID              string    `yaml:"id" validate:"required"`
	SpeakerID       string    `yaml:"speaker" validate:"required"`
	Text            string    `yaml:"text" validate:"required"`
	Tone            Tone      `yaml:"tone,omitempty" validate:"omitempty,oneof=neutral excited whispering raised laughing frustrated"`
	NonVerbal       NonVerbal `yaml:"non_verbal,omitempty" validate:"omitempty,oneof=laughter sighs clears-throat coughs"`
	Interrupted     bool      `yaml:"interrupted,omitempty"`
	ResumesThreadID string    `yaml:"resumes,omitempty"`
	RevealIntervalMs int      `yaml:"reveal_interval_ms,omitempty" validate:"omitempty,min=40,max=5000"`
}

// Words splits the utterance text for word-by-word reveal.
func (u Utterance) Words() []string { return strings.Fields(u.Text) }

// Interval is the authored reveal speed, falling back to DefaultInterval.
func (u Utterance) Interval() time.Duration {
	if u.RevealIntervalMs <= 0 {
		return DefaultInterval
	}
	return time.Duration(u.RevealIntervalMs) * time.Millisecond
}

// Script is one complete authored session: history entries are shown as
// already committed, utterances are played live by the scheduler.
type Script struct {
	Title        string                      `yaml:"title" validate:"required"`
	Speakers     []Speaker                   `yaml:"speakers" validate:"required,min=1,dive"`
	History      []Utterance                 `yaml:"history,omitempty" validate:"omitempty,dive"`
	Utterances   []Utterance                 `yaml:"utterances" validate:"required,min=1,dive"`
	Translations map[string]translate.Record `yaml:"translations,omitempty" validate:"omitempty,dive"`
	Vocab        []vocab.Term                `yaml:"vocab,omitempty" validate:"omitempty,dive"`
}

// Speaker looks up a roster entry by id.
func (s *Script) Speaker(id string) (Speaker, bool) {
	for _, sp := range s.Speakers {
		if sp.ID == id {
			return sp, true
		}
	}
	return Speaker{}, false
}

// TranslationTable builds the read-only overlay lookup for this script.
func (s *Script) TranslationTable() *translate.Table {
	return translate.NewTable(s.Translations)
}
