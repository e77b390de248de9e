package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"coda/clipboard"
	"coda/gesture"
	"coda/haptic"
	"coda/log"
	"coda/moments"
	"coda/player"
	"coda/script"
	"coda/shutdown"
	"coda/store"
	"coda/transcript"
	"coda/translate"
	"coda/vocab"
)

var version = "dev"

// historyGap is the simulated spacing between pre-seeded history entries.
const historyGap = 45 * time.Second

// controller owns all session state. Every mutation happens on its run
// goroutine; the TUI and the headless driver only send it requests.
type controller struct {
	scr     *script.Script
	play    *player.Player
	gest    *gesture.Recognizer
	table   *translate.Table
	tracker *vocab.Tracker
	tlog    *transcript.Log
	coll    *moments.Collection
	sink    EventSink

	overlays      map[string]bool
	listening     bool
	paused        bool
	stopRequested bool
	elapsed       int
	committed     int
	sessionStart  time.Time

	reqs chan func()
	done chan struct{}
}

func newController(scr *script.Script, kv *store.KV, sink EventSink, hold, doubleTap time.Duration) *controller {
	table := scr.TranslationTable()
	c := &controller{
		scr:      scr,
		play:     player.New(scr.Utterances),
		table:    table,
		tracker:  vocab.NewTracker(scr.Vocab),
		tlog:     transcript.NewLog(),
		coll:     moments.NewCollection(kv),
		sink:     sink,
		overlays: make(map[string]bool),
		reqs:     make(chan func(), 16),
		done:     make(chan struct{}),
	}
	c.gest = gesture.New(gesture.Config{
		HoldThreshold:   hold,
		DoubleTapWindow: doubleTap,
		Armed:           table.Has,
	})
	c.seedHistory()
	return c
}

// seedHistory pre-commits the script's history entries with staggered past
// timestamps, as if the session had already been running.
func (c *controller) seedHistory() {
	base := time.Now().Add(-time.Duration(len(c.scr.History)) * historyGap)
	for i, u := range c.scr.History {
		c.tlog.Append(transcript.Entry{
			Utterance:   u,
			CommittedAt: base.Add(time.Duration(i) * historyGap),
		})
	}
}

// do schedules fn on the controller goroutine.
func (c *controller) do(fn func()) {
	select {
	case c.reqs <- fn:
	case <-c.done:
	}
}

func (c *controller) Start()  { c.play.Start() }
func (c *controller) Resume() { c.play.Resume() }
func (c *controller) Pause()  { c.play.Pause() }

// TogglePause pauses while revealing and resumes while paused.
func (c *controller) TogglePause() {
	c.do(func() {
		if c.paused {
			c.play.Resume()
		} else if c.listening {
			c.play.Pause()
		}
	})
}

// Stop ends the session and discards everything revealed so far.
func (c *controller) Stop() {
	c.do(func() {
		if !c.listening {
			return
		}
		c.stopRequested = true
		c.play.Stop()
	})
}

// PressDown/PressUp/PressCancel forward pointer events on a transcript
// entry to the gesture recognizer.
func (c *controller) PressDown(id string)   { c.gest.Down(id) }
func (c *controller) PressUp(id string)     { c.gest.Up(id) }
func (c *controller) PressCancel(id string) { c.gest.Cancel(id) }

// CaptureMoment bookmarks the most recently committed entry.
func (c *controller) CaptureMoment() {
	c.do(func() {
		e, ok := c.tlog.Last()
		if !ok {
			c.sink.StatusLine("nothing to capture yet")
			return
		}
		sp, _ := c.scr.Speaker(e.Utterance.SpeakerID)
		m := c.coll.Capture(e, sp)
		log.Info("moment_captured: " + m.ID)
		c.sink.MomentCaptured(m)
	})
}

// CopyMoment puts a moment's quote on the system clipboard.
func (c *controller) CopyMoment(id string) {
	m, ok := c.coll.Get(id)
	if !ok {
		c.sink.StatusLine("moment not found")
		return
	}
	if err := clipboard.Copy(m.Quote()); err != nil {
		log.Warnf("clipboard copy failed: %v", err)
		c.sink.StatusLine("copy failed")
		return
	}
	c.sink.StatusLine("copied to clipboard")
}

// PinMoment pins an excerpt of a moment's text.
func (c *controller) PinMoment(id, quote string) {
	if err := c.coll.PinQuote(id, quote); err != nil {
		c.sink.StatusLine("pin failed: " + err.Error())
		return
	}
	c.sink.StatusLine("quote pinned")
}

// UnpinMoment clears a moment's pinned excerpt.
func (c *controller) UnpinMoment(id string) {
	if err := c.coll.Unpin(id); err != nil {
		c.sink.StatusLine("unpin failed: " + err.Error())
		return
	}
	c.sink.StatusLine("quote unpinned")
}

func (c *controller) Moments() *moments.Collection { return c.coll }
func (c *controller) Transcript() *transcript.Log  { return c.tlog }
func (c *controller) Script() *script.Script       { return c.scr }
func (c *controller) Translations() *translate.Table {
	return c.table
}
func (c *controller) VocabTerms() []vocab.Term { return c.tracker.Terms() }

// Shutdown stops the controller loop and its components.
func (c *controller) Shutdown() {
	select {
	case <-c.done:
		return
	default:
	}
	close(c.done)
	c.gest.Close()
	c.play.Close()
}

func (c *controller) run() {
	noise := newNoiseSimulator()
	noiseTicker := time.NewTicker(noiseTickInterval)
	defer noiseTicker.Stop()
	elapsedTicker := time.NewTicker(1 * time.Second)
	defer elapsedTicker.Stop()

	c.sink.NoiseChanged(noise.Level())

	for {
		select {
		case <-c.done:
			return

		case fn := <-c.reqs:
			fn()

		case p, ok := <-c.play.Updates():
			if !ok {
				return
			}
			sp, _ := c.scr.Speaker(p.Utterance.SpeakerID)
			c.sink.LivePreview(p.Utterance, sp, p.Text)
			words := p.Utterance.Words()
			if term, fresh := c.tracker.ObserveWord(words[p.WordCount-1]); fresh {
				log.Info("term_highlighted: " + term.Term)
				c.sink.TermHighlighted(term)
			}

		case cm, ok := <-c.play.Commits():
			if !ok {
				return
			}
			e := transcript.Entry{Utterance: cm.Utterance, CommittedAt: cm.CommittedAt}
			c.tlog.Append(e)
			c.committed++
			sp, _ := c.scr.Speaker(cm.Utterance.SpeakerID)
			log.CommitText(sp.Name, cm.Utterance.Text)
			c.sink.Committed(e, sp, c.tracker.TermsIn(cm.Utterance.Text))

		case s, ok := <-c.play.States():
			if !ok {
				return
			}
			c.applyState(s)

		case g, ok := <-c.gest.Events():
			if !ok {
				return
			}
			log.Gesture(g.ID, g.Action.String())
			if g.Action != gesture.ActionToggle {
				continue
			}
			rec, ok := c.table.Lookup(g.ID)
			if !ok {
				continue
			}
			c.overlays[g.ID] = !c.overlays[g.ID]
			haptic.Pulse(haptic.DefaultPulse)
			c.sink.OverlayToggled(g.ID, rec, c.overlays[g.ID])

		case <-noiseTicker.C:
			if level, changed := noise.Tick(); changed {
				log.NoiseLevel(level.String())
				c.sink.NoiseChanged(level)
			}

		case <-elapsedTicker.C:
			if c.listening && !c.paused {
				c.elapsed++
				c.sink.ElapsedTick(c.elapsed)
			}
		}
	}
}

func (c *controller) applyState(s player.State) {
	switch s {
	case player.StateRevealing:
		if !c.listening {
			c.listening = true
			c.sessionStart = time.Now()
			c.elapsed = 0
			c.committed = 0
			log.SessionStart(c.scr.Title, len(c.scr.Utterances))
			c.sink.Listening(true)
		}
		if c.paused {
			c.paused = false
			c.sink.PausedChanged(false)
		}

	case player.StatePaused:
		c.paused = true
		c.sink.PausedChanged(true)

	case player.StateIdle:
		if !c.listening {
			return
		}
		c.listening = false
		c.paused = false
		log.SessionEnd(c.committed, time.Since(c.sessionStart))
		if c.stopRequested {
			// A hard stop wipes the session, history included.
			c.stopRequested = false
			c.tlog.Clear()
			c.tracker.Reset()
			c.overlays = make(map[string]bool)
			c.elapsed = 0
			c.sink.TranscriptCleared()
		}
		c.sink.Listening(false)
	}
}

func resolveStoreDir(flagPath string) (string, error) {
	if flagPath != "" {
		if !filepath.IsAbs(flagPath) {
			wd, err := os.Getwd()
			if err != nil {
				return "", err
			}
			return filepath.Join(wd, flagPath), nil
		}
		return flagPath, nil
	}
	cfg, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cfg, "coda", "store"), nil
}

func promptOnboarding(kv *store.KV) store.Profile {
	fmt.Print("Welcome to coda. What should we call you? ")
	reader := bufio.NewReader(os.Stdin)
	name, _ := reader.ReadString('\n')
	name = strings.TrimSpace(name)
	if name == "" {
		name = "there"
	}
	p := store.Profile{Name: name}
	store.SaveProfile(kv, p)
	return p
}

func loadScript(path string, mode script.Mode) (*script.Script, error) {
	if path != "" {
		return script.Load(path)
	}
	return script.Demo(mode)
}

func main() {
	scriptFlag := flag.String("script", "", "Play a script YAML file instead of the embedded demo")
	modeFlag := flag.String("mode", "conversation", "Embedded demo to play: conversation or lecture")
	tuiFlag := flag.Bool("tui", true, "Run with terminal UI")
	testFlag := flag.Bool("test", false, "Test mode (headless, stdin-driven)")
	longPressFlag := flag.Duration("longpress", gesture.DefaultHoldThreshold, "Hold threshold for translation toggle (e.g., 200ms)")
	doubleTapFlag := flag.Duration("doubletap", gesture.DefaultDoubleTapWindow, "Double-tap window for translation toggle")
	storePathFlag := flag.String("storepath", "", "Key-value store directory (default: OS config location)")
	logPathFlag := flag.String("logpath", "", "Log directory path (default: OS-specific location, use ./ for current dir)")
	versionFlag := flag.Bool("version", false, "Print version and exit")
	flag.Parse()

	if *versionFlag {
		fmt.Printf("coda %s\n", version)
		os.Exit(0)
	}

	logPath, err := log.ResolveDir(*logPathFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to resolve log directory: %v\n", err)
		os.Exit(1)
	}
	log.SetDir(logPath)
	if err := log.EnsureDir(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not create log directory: %v\n", err)
	}

	crashPath := filepath.Join(log.Dir(), "crash_log.txt")
	crashFile, err := os.OpenFile(crashPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err == nil {
		fmt.Fprintf(crashFile, "\n=== Session %s [pid=%d] ===\n", time.Now().Format("2006-01-02 15:04:05"), os.Getpid())
		debug.SetCrashOutput(crashFile, debug.CrashOptions{})
	}

	if err := log.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not init logging: %v\n", err)
	}
	defer log.Close()

	mode := script.Mode(*modeFlag)
	if mode != script.ModeConversation && mode != script.ModeLecture {
		fmt.Fprintf(os.Stderr, "Error: unknown mode %q (use conversation or lecture)\n", *modeFlag)
		os.Exit(1)
	}

	scr, err := loadScript(*scriptFlag, mode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	storeDir, err := resolveStoreDir(*storePathFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to resolve store directory: %v\n", err)
		os.Exit(1)
	}
	kv := store.Open(storeDir)
	settings := store.LoadSettings(kv)

	if *testFlag {
		runTestMode(scr, kv, *longPressFlag, *doubleTapFlag)
		return
	}

	profile, onboarded := store.LoadProfile(kv)
	if !onboarded {
		profile = promptOnboarding(kv)
	}

	if !*tuiFlag {
		fmt.Fprintln(os.Stderr, "Error: nothing to do without -tui (use -test for headless mode)")
		os.Exit(1)
	}

	ctrl := newController(scr, kv, tuiSink{}, *longPressFlag, *doubleTapFlag)
	go ctrl.run()

	tuiMu.Lock()
	tuiProgram = NewTUIProgram(ctrl, profile, settings)
	tuiMu.Unlock()

	shutdown.OnSignal(func() {
		ctrl.Shutdown()
		tuiSend(tea.Quit())
	})

	if _, err := tuiProgram.Run(); err != nil {
		log.Errorf("TUI error: %v", err)
		os.Exit(1)
	}
	ctrl.Shutdown()
}
