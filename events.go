package main

import (
	"coda/moments"
	"coda/script"
	"coda/transcript"
	"coda/translate"
	"coda/vocab"
)

// EventSink abstracts the display layer so both the Bubble Tea TUI and the
// headless test driver receive the same session events.
type EventSink interface {
	Listening(on bool)
	PausedChanged(paused bool)
	ElapsedTick(seconds int)
	LivePreview(u script.Utterance, sp script.Speaker, text string)
	Committed(e transcript.Entry, sp script.Speaker, terms []string)
	TranscriptCleared()
	NoiseChanged(level NoiseLevel)
	OverlayToggled(id string, rec translate.Record, visible bool)
	TermHighlighted(term vocab.Term)
	MomentCaptured(m moments.Moment)
	StatusLine(text string)
}
