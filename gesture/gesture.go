// Package gesture disambiguates press-and-hold from tap on transcript
// entries. A press arms a hold timer; if the release beats the timer the
// press was a tap, otherwise the hold action fires exactly once at the
// threshold and the trailing release is ignored. Two taps on the same
// entry inside the double-tap window also trigger the hold action, as a
// faster alternative to holding.
package gesture

import (
	"time"
)

// Action is the recognized outcome of a press sequence.
type Action int

const (
	// ActionTap is a quick press and release. It never toggles a
	// translation on its own; it only arms the double-tap window.
	ActionTap Action = iota
	// ActionToggle flips the pressed entry's translation overlay.
	ActionToggle
)

func (a Action) String() string {
	if a == ActionToggle {
		return "toggle"
	}
	return "tap"
}

// Result is one recognized gesture on a transcript entry.
type Result struct {
	ID     string
	Action Action
}

const (
	DefaultHoldThreshold   = 200 * time.Millisecond
	DefaultDoubleTapWindow = 300 * time.Millisecond
)

// Config tunes the recognizer. Zero-value durations fall back to the
// defaults above.
type Config struct {
	HoldThreshold   time.Duration
	DoubleTapWindow time.Duration
	// Armed reports whether an entry can toggle at all. Presses on
	// unarmed entries are swallowed. A nil Armed arms every entry.
	Armed func(id string) bool
}

type eventKind int

const (
	evDown eventKind = iota
	evUp
	evCancel
)

type event struct {
	kind eventKind
	id   string
}

// Recognizer runs the press state machine on its own goroutine. Down, Up
// and Cancel feed it; recognized gestures come out of Events. Each entry
// is independent: holding one entry does not affect any other.
type Recognizer struct {
	in     chan event
	events chan Result
	done   chan struct{}
}

func New(cfg Config) *Recognizer {
	if cfg.HoldThreshold <= 0 {
		cfg.HoldThreshold = DefaultHoldThreshold
	}
	if cfg.DoubleTapWindow <= 0 {
		cfg.DoubleTapWindow = DefaultDoubleTapWindow
	}
	r := &Recognizer{
		in:     make(chan event, 16),
		events: make(chan Result, 8),
		done:   make(chan struct{}),
	}
	go r.run(cfg)
	return r
}

// Events streams recognized gestures.
func (r *Recognizer) Events() <-chan Result { return r.events }

// Down reports a press starting on entry id.
func (r *Recognizer) Down(id string) { r.send(event{evDown, id}) }

// Up reports the press on entry id ending.
func (r *Recognizer) Up(id string) { r.send(event{evUp, id}) }

// Cancel aborts any in-flight press, e.g. when the pointer leaves the
// entry or the view scrolls. An empty id cancels whatever is pressed.
func (r *Recognizer) Cancel(id string) { r.send(event{evCancel, id}) }

// Close stops the recognizer and closes Events.
func (r *Recognizer) Close() { close(r.done) }

func (r *Recognizer) send(ev event) {
	select {
	case r.in <- ev:
	case <-r.done:
	}
}

func (r *Recognizer) run(cfg Config) {
	var (
		pressedID string
		holdTimer *time.Timer
		holdC     <-chan time.Time
		lastTapID string
		lastTapAt time.Time
	)

	// The hold timer is stopped and drained on every path that leaves
	// the pressed state, so a stale expiry can never fire a toggle.
	clearHold := func() {
		if holdTimer == nil {
			return
		}
		if !holdTimer.Stop() {
			select {
			case <-holdTimer.C:
			default:
			}
		}
		holdTimer = nil
		holdC = nil
	}

	for {
		select {
		case <-r.done:
			clearHold()
			close(r.events)
			return

		case ev := <-r.in:
			switch ev.kind {
			case evDown:
				clearHold()
				pressedID = ev.id
				if cfg.Armed == nil || cfg.Armed(ev.id) {
					holdTimer = time.NewTimer(cfg.HoldThreshold)
					holdC = holdTimer.C
				}

			case evUp:
				if ev.id != pressedID {
					// There is only one pointer, so a release over a
					// different entry still ends the press in flight. The
					// press counts as neither tap nor hold. A release with
					// nothing pressed is the trailing up after a hold fired.
					if pressedID != "" {
						clearHold()
						pressedID = ""
					}
					continue
				}
				pressedID = ""
				if holdC == nil {
					continue
				}
				clearHold()
				now := time.Now()
				if lastTapID == ev.id && now.Sub(lastTapAt) <= cfg.DoubleTapWindow {
					lastTapID = ""
					r.events <- Result{ID: ev.id, Action: ActionToggle}
					continue
				}
				lastTapID, lastTapAt = ev.id, now
				r.events <- Result{ID: ev.id, Action: ActionTap}

			case evCancel:
				if ev.id == pressedID || ev.id == "" {
					clearHold()
					pressedID = ""
				}
			}

		case <-holdC:
			holdTimer = nil
			holdC = nil
			id := pressedID
			pressedID = ""
			r.events <- Result{ID: id, Action: ActionToggle}
		}
	}
}
