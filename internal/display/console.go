// Package display holds the terminal front ends. [UI] is the line-input
// authoring console with a stage bar under the scrollback; [Player] is
// the full-screen, key-driven cook-along view.
package display

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hammamikhairi/recipebox/internal/conversation"
	"github.com/hammamikhairi/recipebox/internal/domain"
)

var _ conversation.Output = (*UI)(nil)

const prompt = "recipe> "

// Status is what the bar under the prompt shows.
type Status struct {
	Stage   string
	Stages  []string
	Title   string
	Steps   int
	Pending int
}

// UI is the authoring console. Output goes to the scrollback through
// Program.Println so writes from other goroutines never tear the input
// line.
//
// Run blocks; everything else is safe to call from any goroutine once
// ReadyChan is closed.
type UI struct {
	initial Status
	lines   chan string
	ready   chan struct{}
	closed  chan struct{}

	mu      sync.Mutex
	program *tea.Program
}

// NewUI creates the console. Call Run to start it.
func NewUI(initial Status) *UI {
	return &UI{
		initial: initial,
		lines:   make(chan string, 16),
		ready:   make(chan struct{}),
		closed:  make(chan struct{}),
	}
}

// live returns the program while it is running.
func (u *UI) live() *tea.Program {
	select {
	case <-u.closed:
		return nil
	default:
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.program
}

// Println writes above the prompt, or to stdout when the console is not
// running.
func (u *UI) Println(a ...any) {
	if p := u.live(); p != nil {
		p.Println(a...)
		return
	}
	fmt.Println(a...)
}

// Printf is Println with formatting. A trailing newline is implied.
func (u *UI) Printf(format string, a ...any) {
	u.Println(fmt.Sprintf(format, a...))
}

// SetStatus redraws the stage bar.
func (u *UI) SetStatus(s Status) {
	if p := u.live(); p != nil {
		p.Send(statusMsg(s))
	}
}

// InputChan delivers each line the user submits.
func (u *UI) InputChan() <-chan string { return u.lines }

func (u *UI) PrintInfo(text string)        { u.say(replyStyle, text) }
func (u *UI) PrintStep(text string)        { u.say(stepStyle, text) }
func (u *UI) PrintInstruction(text string) { u.say(plainStyle, text) }
func (u *UI) PrintHint(text string)        { u.say(dimStyle, text) }
func (u *UI) PrintUrgent(text string)      { u.say(alertStyle, text) }

func (u *UI) say(style lipgloss.Style, text string) {
	u.Println(style.Render("  " + text))
}

// ReadyChan is closed once the event loop has started.
func (u *UI) ReadyChan() <-chan struct{} { return u.ready }

// Quit stops the event loop. Run then returns.
func (u *UI) Quit() {
	if p := u.live(); p != nil {
		p.Quit()
	}
}

// QuitChan is closed once Run has returned.
func (u *UI) QuitChan() <-chan struct{} { return u.closed }

// Run owns the terminal until Quit or ctrl+c.
func (u *UI) Run() error {
	p := tea.NewProgram(u.newModel())
	u.mu.Lock()
	u.program = p
	u.mu.Unlock()

	_, err := p.Run()
	close(u.closed)
	return err
}

func (u *UI) newModel() consoleModel {
	in := textinput.New()
	// Styling the prompt text itself would put escape codes into the
	// input's width calculation.
	in.Prompt = prompt
	in.PromptStyle = promptStyle
	in.TextStyle = plainStyle
	in.Cursor.Style = promptStyle
	in.CharLimit = 500
	in.Width = 60
	in.Focus()

	return consoleModel{
		input:   in,
		lines:   u.lines,
		ready:   u.ready,
		status:  u.initial,
		started: time.Now(),
	}
}

// ── Bubble Tea model ─────────────────────────────────────────────

type (
	clockMsg  time.Time
	statusMsg Status
)

type consoleModel struct {
	input   textinput.Model
	lines   chan<- string
	ready   chan struct{}
	status  Status
	started time.Time
	elapsed time.Duration
	width   int
}

func (m consoleModel) Init() tea.Cmd {
	ready := m.ready
	return tea.Batch(
		textinput.Blink,
		everySecond(),
		func() tea.Msg { close(ready); return nil },
	)
}

func everySecond() tea.Cmd {
	return tea.Every(time.Second, func(t time.Time) tea.Msg { return clockMsg(t) })
}

func (m consoleModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC:
			return m, tea.Quit
		case tea.KeyEnter:
			line := strings.TrimSpace(m.input.Value())
			m.input.Reset()
			if line == "" {
				return m, nil
			}
			m.lines <- line
			return m, tea.Println(promptStyle.Render(prompt) + echoStyle.Render(line))
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = max(msg.Width-len(prompt)-1, 10)
		return m, nil

	case statusMsg:
		m.status = Status(msg)
		return m, tea.SetWindowTitle(m.windowTitle())

	case clockMsg:
		m.elapsed = time.Time(msg).Sub(m.started)
		return m, everySecond()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m consoleModel) windowTitle() string {
	title := "RecipeBox — "
	if m.status.Title != "" {
		return title + m.status.Title + " (" + m.status.Stage + ")"
	}
	return title + m.status.Stage
}

func (m consoleModel) View() string {
	return m.bar() + "\n\n" + m.input.View()
}

// bar renders "info › ingredients › steps │ 2 new ingredients │ 3 steps │ 01:12".
func (m consoleModel) bar() string {
	crumbs := make([]string, len(m.status.Stages))
	for i, s := range m.status.Stages {
		style := crumbStyle
		if s == m.status.Stage {
			style = crumbActiveStyle
		}
		crumbs[i] = style.Render(s)
	}

	cells := []string{strings.Join(crumbs, sepStyle.Render(" › "))}
	if n := m.status.Pending; n > 0 {
		cells = append(cells, fmt.Sprintf("%d new ingredients", n))
	}
	cells = append(cells,
		fmt.Sprintf("%d steps", m.status.Steps),
		domain.FormatClock(m.elapsed.Truncate(time.Second)),
	)

	width := m.width
	if width <= 0 {
		width = 80
	}
	return barStyle.Width(width).Render(" " + strings.Join(cells, sepStyle.Render("  │  ")))
}
