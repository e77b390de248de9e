// Package player implements the word-reveal scheduler that simulates live
// dictation. It plays a closed, pre-authored utterance queue: one goroutine
// owns all scheduler state and reveals one additional word of the current
// utterance per tick, at the utterance's authored interval, then commits
// the completed utterance and advances. There is no I/O and no external
// failure mode; the only suspension primitive is the tick timer.
package player

import (
	"strings"
	"sync/atomic"
	"time"

	"coda/script"
)

// State is the scheduler's lifecycle state.
type State int32

const (
	StateIdle State = iota
	StateRevealing
	StatePaused
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRevealing:
		return "revealing"
	case StatePaused:
		return "paused"
	}
	return "unknown"
}

// Preview is the live, partially revealed text of the current utterance.
type Preview struct {
	Utterance script.Utterance
	Text      string
	WordCount int
}

// Commit is a fully revealed utterance handed to the transcript log.
type Commit struct {
	Utterance   script.Utterance
	CommittedAt time.Time
}

type command int

const (
	cmdStart command = iota
	cmdPause
	cmdResume
	cmdStop
	cmdShutdown
)

// Player drives one session over a fixed utterance queue.
//
// Ordering guarantees: word N+1 is never revealed before word N, and
// commits arrive in queue order. Pause halts the pending tick without
// losing position; Stop discards all progress and is not resumable
// mid-utterance.
type Player struct {
	queue   []script.Utterance
	updates chan Preview
	commits chan Commit
	states  chan State
	cmds    chan command
	state   atomic.Int32
	now     func() time.Time
}

// New builds a Player over queue and starts its run loop. The queue is not
// copied; callers must treat it as immutable (scripts are).
func New(queue []script.Utterance) *Player {
	p := &Player{
		queue:   queue,
		updates: make(chan Preview, 64),
		commits: make(chan Commit, 64),
		states:  make(chan State, 16),
		cmds:    make(chan command, 4),
		now:     time.Now,
	}
	go p.run()
	return p
}

// Updates streams live-preview snapshots, one per revealed word.
func (p *Player) Updates() <-chan Preview { return p.updates }

// Commits streams completed utterances in queue order.
func (p *Player) Commits() <-chan Commit { return p.commits }

// States streams lifecycle transitions (start, pause, resume, stop, and
// settling Idle when the queue is exhausted).
func (p *Player) States() <-chan State { return p.states }

// State reports the current lifecycle state.
func (p *Player) State() State { return State(p.state.Load()) }

// Start begins revealing from the head of the queue. No-op unless Idle.
func (p *Player) Start() { p.cmds <- cmdStart }

// Pause halts the pending tick without losing the word position.
func (p *Player) Pause() { p.cmds <- cmdPause }

// Resume continues revealing from the paused word position.
func (p *Player) Resume() { p.cmds <- cmdResume }

// Stop cancels the session and discards in-flight reveal progress. The
// controller clears its transcript log in response to the Idle transition.
func (p *Player) Stop() { p.cmds <- cmdStop }

// Close shuts down the run loop and closes all output channels. The Player
// must not be used afterwards.
func (p *Player) Close() { p.cmds <- cmdShutdown }

func (p *Player) run() {
	var (
		idx   int
		words int
		timer *time.Timer
		tick  <-chan time.Time
	)

	setState := func(s State) {
		p.state.Store(int32(s))
		p.states <- s
	}
	// Every exit path from a ticking state goes through stopTimer so a
	// stale tick can never fire after pause or stop.
	stopTimer := func() {
		if timer == nil {
			return
		}
		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
		timer = nil
		tick = nil
	}
	arm := func(d time.Duration) {
		timer = time.NewTimer(d)
		tick = timer.C
	}
	emitPreview := func() {
		u := p.queue[idx]
		ws := u.Words()
		p.updates <- Preview{
			Utterance: u,
			Text:      strings.Join(ws[:words], " "),
			WordCount: words,
		}
	}

	for {
		select {
		case c := <-p.cmds:
			switch c {
			case cmdStart:
				if p.State() != StateIdle || len(p.queue) == 0 {
					continue
				}
				idx, words = 0, 1
				setState(StateRevealing)
				emitPreview()
				arm(p.queue[idx].Interval())

			case cmdPause:
				if p.State() != StateRevealing {
					continue
				}
				stopTimer()
				setState(StatePaused)

			case cmdResume:
				if p.State() != StatePaused {
					continue
				}
				setState(StateRevealing)
				arm(p.queue[idx].Interval())

			case cmdStop:
				stopTimer()
				idx, words = 0, 0
				setState(StateIdle)

			case cmdShutdown:
				stopTimer()
				close(p.updates)
				close(p.commits)
				close(p.states)
				return
			}

		case <-tick:
			timer = nil
			tick = nil
			u := p.queue[idx]
			total := len(u.Words())
			if words < total {
				words++
				emitPreview()
				arm(u.Interval())
				continue
			}

			p.commits <- Commit{Utterance: u, CommittedAt: p.now()}
			idx++
			if idx >= len(p.queue) {
				// Queue exhausted: settle Idle with no preview remainder.
				words = 0
				setState(StateIdle)
				continue
			}
			words = 1
			emitPreview()
			arm(p.queue[idx].Interval())
		}
	}
}
