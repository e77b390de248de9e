package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"coda/haptic"
	"coda/log"
	"coda/moments"
	"coda/script"
	"coda/store"
	"coda/transcript"
	"coda/translate"
	"coda/vocab"
)

// printSink writes one line per event to stdout so scripted runs can be
// asserted line by line.
type printSink struct {
	commits chan struct{}
	idle    chan struct{}
}

func newPrintSink() *printSink {
	return &printSink{
		commits: make(chan struct{}, 64),
		idle:    make(chan struct{}, 4),
	}
}

func (s *printSink) Listening(on bool) {
	if on {
		fmt.Println("LISTENING")
		return
	}
	fmt.Println("IDLE")
	select {
	case s.idle <- struct{}{}:
	default:
	}
}

func (s *printSink) PausedChanged(paused bool) {
	if paused {
		fmt.Println("PAUSED")
	} else {
		fmt.Println("RESUMED")
	}
}

func (s *printSink) ElapsedTick(seconds int) {}

func (s *printSink) LivePreview(u script.Utterance, sp script.Speaker, text string) {
	fmt.Printf("PREVIEW %s %s: %s\n", u.ID, sp.Initials, text)
}

func (s *printSink) Committed(e transcript.Entry, sp script.Speaker, terms []string) {
	fmt.Printf("COMMIT %s %s: %s\n", e.Utterance.ID, sp.Initials, e.Utterance.Text)
	if len(terms) > 0 {
		fmt.Printf("TERMS %s\n", strings.Join(terms, ","))
	}
	select {
	case s.commits <- struct{}{}:
	default:
	}
}

func (s *printSink) TranscriptCleared() {
	fmt.Println("CLEARED")
}

func (s *printSink) NoiseChanged(level NoiseLevel) {
	fmt.Printf("NOISE %s\n", level)
}

func (s *printSink) OverlayToggled(id string, rec translate.Record, visible bool) {
	state := "off"
	if visible {
		state = "on"
	}
	fmt.Printf("OVERLAY %s %s %s: %s\n", id, state, rec.Code, rec.Text)
}

func (s *printSink) TermHighlighted(term vocab.Term) {
	fmt.Printf("TERM %s\n", term.Term)
}

func (s *printSink) MomentCaptured(m moments.Moment) {
	fmt.Printf("MOMENT %s %s: %s\n", m.ID, m.SpeakerInitials, m.Text)
}

func (s *printSink) StatusLine(text string) {
	fmt.Printf("STATUS %s\n", text)
}

// runTestMode drives a session from stdin commands, one per line:
// START, PAUSE, RESUME, STOP, DOWN <id>, UP <id>, HOLD <id>, TAP <id>,
// CAPTURE, PIN <id> <quote>, UNPIN <id>, WAIT_COMMIT, WAIT_IDLE,
// SLEEP <ms>, QUIT.
func runTestMode(scr *script.Script, kv *store.KV, hold, doubleTap time.Duration) {
	haptic.Disable()

	sink := newPrintSink()
	ctrl := newController(scr, kv, sink, hold, doubleTap)
	go ctrl.run()

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		cmd := fields[0]
		arg := ""
		if len(fields) > 1 {
			arg = fields[1]
		}

		switch cmd {
		case "START":
			ctrl.Start()
		case "PAUSE":
			ctrl.Pause()
		case "RESUME":
			ctrl.Resume()
		case "STOP":
			ctrl.Stop()
		case "DOWN":
			ctrl.PressDown(arg)
		case "UP":
			ctrl.PressUp(arg)
		case "HOLD":
			// Press, outlast the hold threshold, release.
			ctrl.PressDown(arg)
			time.Sleep(hold + 50*time.Millisecond)
			ctrl.PressUp(arg)
		case "TAP":
			ctrl.PressDown(arg)
			ctrl.PressUp(arg)
		case "CAPTURE":
			ctrl.CaptureMoment()
		case "PIN":
			// PIN <id> <quote...>
			if len(fields) > 2 {
				ctrl.PinMoment(arg, strings.Join(fields[2:], " "))
			}
		case "UNPIN":
			ctrl.UnpinMoment(arg)
		case "WAIT_COMMIT":
			<-sink.commits
		case "WAIT_IDLE":
			<-sink.idle
		case "SLEEP":
			if ms, err := strconv.Atoi(arg); err == nil {
				time.Sleep(time.Duration(ms) * time.Millisecond)
			}
		case "QUIT":
			ctrl.Shutdown()
			log.Close()
			os.Exit(0)
		default:
			fmt.Fprintf(os.Stderr, "unknown command: %s\n", cmd)
		}
	}
	ctrl.Shutdown()
}
