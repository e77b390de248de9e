package main

import (
	"fmt"
	"strings"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"coda/moments"
	"coda/script"
	"coda/store"
	"coda/transcript"
	"coda/translate"
	"coda/vocab"
)

// TUI message types, one per EventSink event.
type ListeningMsg struct{ On bool }
type PausedMsg struct{ Paused bool }
type ElapsedMsg struct{ Seconds int }
type PreviewMsg struct {
	Utterance script.Utterance
	Speaker   script.Speaker
	Text      string
}
type CommitMsg struct {
	Entry   transcript.Entry
	Speaker script.Speaker
	Terms   []string
}
type ClearMsg struct{}
type NoiseMsg struct{ Level NoiseLevel }
type OverlayMsg struct {
	ID      string
	Record  translate.Record
	Visible bool
}
type TermMsg struct{ Term vocab.Term }
type MomentMsg struct{ Moment moments.Moment }
type StatusMsg struct{ Text string }

var (
	tuiProgram *tea.Program
	tuiMu      sync.Mutex
)

func tuiSend(msg tea.Msg) {
	tuiMu.Lock()
	p := tuiProgram
	tuiMu.Unlock()
	if p != nil {
		p.Send(msg)
	}
}

// tuiSink forwards controller events into the Bubble Tea program.
type tuiSink struct{}

func (tuiSink) Listening(on bool)          { tuiSend(ListeningMsg{On: on}) }
func (tuiSink) PausedChanged(paused bool)  { tuiSend(PausedMsg{Paused: paused}) }
func (tuiSink) ElapsedTick(seconds int)    { tuiSend(ElapsedMsg{Seconds: seconds}) }
func (tuiSink) TranscriptCleared()         { tuiSend(ClearMsg{}) }
func (tuiSink) NoiseChanged(l NoiseLevel)  { tuiSend(NoiseMsg{Level: l}) }
func (tuiSink) TermHighlighted(t vocab.Term) { tuiSend(TermMsg{Term: t}) }
func (tuiSink) MomentCaptured(m moments.Moment) { tuiSend(MomentMsg{Moment: m}) }
func (tuiSink) StatusLine(text string)     { tuiSend(StatusMsg{Text: text}) }

func (tuiSink) LivePreview(u script.Utterance, sp script.Speaker, text string) {
	tuiSend(PreviewMsg{Utterance: u, Speaker: sp, Text: text})
}

func (tuiSink) Committed(e transcript.Entry, sp script.Speaker, terms []string) {
	tuiSend(CommitMsg{Entry: e, Speaker: sp, Terms: terms})
}

func (tuiSink) OverlayToggled(id string, rec translate.Record, visible bool) {
	tuiSend(OverlayMsg{ID: id, Record: rec, Visible: visible})
}

const (
	headerRows = 4
	footerRows = 2
)

type displayEntry struct {
	entry   transcript.Entry
	speaker script.Speaker
	terms   []string
}

type tuiModel struct {
	ctrl     *controller
	profile  store.Profile
	settings store.Settings

	listening bool
	paused    bool
	elapsed   int
	noise     NoiseLevel
	status    string

	entries  []displayEntry
	liveUtt  script.Utterance
	liveSp   script.Speaker
	liveText string

	overlays    map[string]translate.Record
	highlighted []vocab.Term

	momentsView   bool
	momentFilter  moments.Filter
	searching     bool
	searchQuery   string
	lastMomentID  string

	width, height int
	visibleIDs    []string
}

func NewTUIProgram(ctrl *controller, profile store.Profile, settings store.Settings) *tea.Program {
	m := tuiModel{
		ctrl:     ctrl,
		profile:  profile,
		settings: settings,
		overlays: make(map[string]translate.Record),
	}
	for _, e := range ctrl.Transcript().All() {
		sp, _ := ctrl.Script().Speaker(e.Utterance.SpeakerID)
		m.entries = append(m.entries, displayEntry{entry: e, speaker: sp})
	}
	return tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
}

func (m tuiModel) Init() tea.Cmd { return nil }

func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		if cmd, done := m.handleKey(msg); done {
			return m, cmd
		}

	case tea.MouseMsg:
		m.handleMouse(msg)

	case ListeningMsg:
		m.listening = msg.On
		if msg.On {
			m.status = "listening"
		} else {
			m.liveText = ""
			m.status = "stopped"
		}

	case PausedMsg:
		m.paused = msg.Paused
		if msg.Paused {
			m.status = "paused"
		} else {
			m.status = "listening"
		}

	case ElapsedMsg:
		m.elapsed = msg.Seconds

	case PreviewMsg:
		m.liveUtt = msg.Utterance
		m.liveSp = msg.Speaker
		m.liveText = msg.Text

	case CommitMsg:
		m.entries = append(m.entries, displayEntry{
			entry:   msg.Entry,
			speaker: msg.Speaker,
			terms:   msg.Terms,
		})
		if msg.Entry.Utterance.ID == m.liveUtt.ID {
			m.liveText = ""
		}

	case ClearMsg:
		m.entries = nil
		m.liveText = ""
		m.elapsed = 0
		m.overlays = make(map[string]translate.Record)
		m.highlighted = nil

	case NoiseMsg:
		m.noise = msg.Level

	case OverlayMsg:
		if msg.Visible {
			m.overlays[msg.ID] = msg.Record
		} else {
			delete(m.overlays, msg.ID)
		}

	case TermMsg:
		m.highlighted = append(m.highlighted, msg.Term)

	case MomentMsg:
		m.lastMomentID = msg.Moment.ID
		m.status = "moment captured"

	case StatusMsg:
		m.status = msg.Text
	}

	// Keep the pressable-row map aligned with the window View will draw.
	_, ids := m.renderTranscript()
	if avail := m.transcriptRows(); len(ids) > avail {
		ids = ids[len(ids)-avail:]
	}
	m.visibleIDs = ids
	return m, nil
}

func (m tuiModel) transcriptRows() int {
	avail := m.height - headerRows - footerRows
	if avail < 1 {
		avail = 1
	}
	return avail
}

// handleKey mutates the model in place and reports whether Update should
// return immediately (quit).
func (m *tuiModel) handleKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	key := msg.String()

	if m.searching {
		switch key {
		case "enter", "esc":
			m.searching = false
			if key == "esc" {
				m.searchQuery = ""
			}
		case "backspace":
			if m.searchQuery != "" {
				m.searchQuery = m.searchQuery[:len(m.searchQuery)-1]
			}
		default:
			if len(msg.Runes) > 0 {
				m.searchQuery += string(msg.Runes)
			}
		}
		return nil, false
	}

	switch key {
	case "ctrl+c", "q":
		m.ctrl.Shutdown()
		return tea.Quit, true
	case "s":
		m.ctrl.Start()
	case " ":
		m.ctrl.TogglePause()
	case "x":
		m.ctrl.Stop()
	case "c":
		m.ctrl.CaptureMoment()
	case "m":
		m.momentsView = !m.momentsView
	case "tab":
		if m.momentsView {
			m.momentFilter = (m.momentFilter + 1) % 3
		}
	case "/":
		if m.momentsView {
			m.searching = true
			m.searchQuery = ""
		}
	case "y":
		if m.momentsView && m.lastMomentID != "" {
			m.ctrl.CopyMoment(m.lastMomentID)
		}
	}
	return nil, false
}

func (m *tuiModel) handleMouse(msg tea.MouseMsg) {
	if msg.Button != tea.MouseButtonLeft || m.momentsView {
		return
	}
	idx := msg.Y - headerRows
	var id string
	if idx >= 0 && idx < len(m.visibleIDs) {
		id = m.visibleIDs[idx]
	}
	switch msg.Action {
	case tea.MouseActionPress:
		if id != "" {
			m.ctrl.PressDown(id)
		}
	case tea.MouseActionRelease:
		if id != "" {
			m.ctrl.PressUp(id)
		} else {
			m.ctrl.PressCancel("")
		}
	}
}

var (
	noiseStyles = map[NoiseLevel]lipgloss.Style{
		NoiseLow:    lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		NoiseMedium: lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		NoiseHigh:   lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
	}
	titleStyle    = lipgloss.NewStyle().Bold(true)
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	nameStyle     = lipgloss.NewStyle().Bold(true)
	annoStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Italic(true)
	liveStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	overlayStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	termStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("178")).Bold(true)
	pinStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	statusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("246"))
	recStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	pausedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
)

func initialsBadge(sp script.Speaker) string {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(sp.Color)).
		Bold(true).
		Render("[" + sp.Initials + "]")
}

func formatElapsed(seconds int) string {
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

func (m tuiModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}
	if m.momentsView {
		return m.viewMoments()
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())

	lines, _ := m.renderTranscript()
	avail := m.transcriptRows()
	start := 0
	if len(lines) > avail {
		start = len(lines) - avail
	}
	for _, line := range lines[start:] {
		b.WriteString(line + "\n")
	}
	for i := len(lines) - start; i < avail; i++ {
		b.WriteString("\n")
	}

	b.WriteString("\n")
	help := "s start  space pause  x stop  c capture  m moments  q quit"
	if m.listening {
		help += "  |  press and hold an entry to translate"
	}
	b.WriteString(dimStyle.Render(help))
	return b.String()
}

func (m tuiModel) renderHeader() string {
	title := m.ctrl.Script().Title
	greeting := ""
	if m.profile.Name != "" {
		greeting = "  hi " + m.profile.Name
	}

	state := dimStyle.Render("○ idle")
	if m.listening && m.paused {
		state = pausedStyle.Render("‖ paused " + formatElapsed(m.elapsed))
	} else if m.listening {
		state = recStyle.Render("● listening " + formatElapsed(m.elapsed))
	}

	noise := noiseStyles[m.noise].Render("background noise: " + m.noise.String())

	var b strings.Builder
	b.WriteString(titleStyle.Render(title) + dimStyle.Render(greeting) + "\n")
	b.WriteString(state + "   " + noise + "\n")
	if m.status != "" {
		b.WriteString(statusStyle.Render(m.status) + "\n")
	} else {
		b.WriteString("\n")
	}
	b.WriteString("\n")
	return b.String()
}

// renderTranscript yields the transcript area plus, per visual row, the
// utterance id under it (empty for non-pressable rows). Update keeps the id
// slice so mouse presses resolve against exactly what was drawn.
func (m tuiModel) renderTranscript() ([]string, []string) {
	wrapWidth := m.width - 8
	if wrapWidth < 20 {
		wrapWidth = 20
	}

	var lines, ids []string
	emit := func(line, id string) {
		lines = append(lines, line)
		ids = append(ids, id)
	}

	var prevSpeaker string
	for _, de := range m.entries {
		u := de.entry.Utterance
		if prevSpeaker != "" && prevSpeaker != u.SpeakerID && m.settings.ParagraphSpacing >= 150 {
			emit("", "")
		}
		if prevSpeaker != u.SpeakerID {
			header := initialsBadge(de.speaker) + " " + nameStyle.Render(de.speaker.Name) +
				"  " + dimStyle.Render(de.entry.CommittedAt.Format("15:04"))
			emit(header, u.ID)
		}
		prevSpeaker = u.SpeakerID

		for _, anno := range annotations(u) {
			emit("    "+annoStyle.Render(anno), u.ID)
		}
		for _, line := range wrapText(u.Text, wrapWidth) {
			emit("    "+m.highlightTerms(line, de.terms), u.ID)
		}
		if rec, on := m.overlays[u.ID]; on {
			label := rec.Flag + " " + rec.Language
			emit("      "+overlayStyle.Render(label), u.ID)
			for _, line := range wrapText(rec.Text, wrapWidth-2) {
				emit("      "+overlayStyle.Render(line), u.ID)
			}
		} else if m.ctrl.Translations().Has(u.ID) {
			emit("      "+dimStyle.Render("(hold to translate)"), u.ID)
		}
	}

	if m.liveText != "" {
		emit("", "")
		header := initialsBadge(m.liveSp) + " " + nameStyle.Render(m.liveSp.Name) + " " + liveStyle.Render("…")
		emit(header, "")
		for _, line := range wrapText(m.liveText+" ▌", wrapWidth) {
			emit("    "+liveStyle.Render(line), "")
		}
	}

	if len(m.highlighted) > 0 {
		emit("", "")
		total := len(m.ctrl.VocabTerms())
		emit(dimStyle.Render(fmt.Sprintf("key terms (%d/%d):", len(m.highlighted), total)), "")
		for _, t := range m.highlighted {
			emit("  "+termStyle.Render(t.Term)+" "+dimStyle.Render("- "+t.Definition), "")
		}
	}

	return lines, ids
}

func annotations(u script.Utterance) []string {
	var out []string
	if label := u.Tone.Label(); label != "" {
		out = append(out, "("+label+")")
	}
	if label := u.NonVerbal.Label(); label != "" {
		out = append(out, label)
	}
	if u.Interrupted {
		out = append(out, "(interrupted)")
	}
	if u.ResumesThreadID != "" {
		out = append(out, "(continuing earlier thread)")
	}
	return out
}

func (m tuiModel) highlightTerms(line string, terms []string) string {
	for _, term := range terms {
		line = strings.ReplaceAll(line, term, termStyle.Render(term))
	}
	return line
}

func (m tuiModel) viewMoments() string {
	var b strings.Builder
	filterName := [...]string{"all", "pinned", "unpinned"}[m.momentFilter]
	b.WriteString(titleStyle.Render("Captured moments") +
		dimStyle.Render("  filter: "+filterName) + "\n")
	if m.searching {
		b.WriteString("search: " + m.searchQuery + "▌\n")
	} else if m.searchQuery != "" {
		b.WriteString(dimStyle.Render("search: "+m.searchQuery) + "\n")
	} else {
		b.WriteString("\n")
	}
	b.WriteString("\n")

	wrapWidth := m.width - 8
	if wrapWidth < 20 {
		wrapWidth = 20
	}

	shown := 0
	for _, mo := range m.ctrl.Moments().Filtered(m.momentFilter) {
		if m.searchQuery != "" && !momentMatches(mo, m.searchQuery) {
			continue
		}
		shown++
		badge := lipgloss.NewStyle().
			Foreground(lipgloss.Color(mo.SpeakerColor)).
			Bold(true).
			Render("[" + mo.SpeakerInitials + "]")
		b.WriteString(badge + " " + nameStyle.Render(mo.SpeakerName) +
			"  " + dimStyle.Render(mo.Timestamp.Format("15:04")) + "\n")
		for _, line := range wrapText(mo.Text, wrapWidth) {
			b.WriteString("    " + line + "\n")
		}
		if mo.Pinned {
			b.WriteString("    " + pinStyle.Render("pinned: \""+mo.PinnedText+"\"") + "\n")
		}
		b.WriteString("\n")
	}
	if shown == 0 {
		b.WriteString(dimStyle.Render("no moments yet - press c during a session") + "\n")
	}

	b.WriteString("\n" + dimStyle.Render("tab filter  / search  y copy  m back  q quit"))
	return b.String()
}

func momentMatches(mo moments.Moment, query string) bool {
	q := strings.ToLower(query)
	return strings.Contains(strings.ToLower(mo.Text), q) ||
		strings.Contains(strings.ToLower(mo.SpeakerName), q)
}

// wrapText soft-wraps at spaces by display cell width. Words wider than a
// whole line, such as spaceless CJK translation text, break at rune
// boundaries so a line never ends mid-rune.
func wrapText(text string, width int) []string {
	if width <= 0 {
		width = 1
	}
	words := strings.Fields(text)
	if len(words) == 0 {
		return []string{""}
	}

	var lines []string
	var line strings.Builder
	lineWidth := 0
	flush := func() {
		lines = append(lines, line.String())
		line.Reset()
		lineWidth = 0
	}

	for _, word := range words {
		w := runewidth.StringWidth(word)
		if lineWidth > 0 && lineWidth+1+w > width {
			flush()
		}
		if w > width {
			for _, r := range word {
				rw := runewidth.RuneWidth(r)
				if lineWidth > 0 && lineWidth+rw > width {
					flush()
				}
				line.WriteRune(r)
				lineWidth += rw
			}
			continue
		}
		if lineWidth > 0 {
			line.WriteByte(' ')
			lineWidth++
		}
		line.WriteString(word)
		lineWidth += w
	}
	if line.Len() > 0 {
		flush()
	}
	return lines
}
