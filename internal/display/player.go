package display

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/hammamikhairi/recipebox/internal/domain"
	"github.com/hammamikhairi/recipebox/internal/engine"
	"github.com/hammamikhairi/recipebox/internal/logger"
	"github.com/hammamikhairi/recipebox/internal/present"
)

var _ domain.Notifier = (*Player)(nil)

type keyMap struct {
	Next   key.Binding
	Back   key.Binding
	Toggle key.Binding
	Reset  key.Binding
	Finish key.Binding
	Quit   key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Back, k.Next, k.Finish, k.Toggle, k.Reset, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding { return [][]key.Binding{k.ShortHelp()} }

func newKeyMap() keyMap {
	return keyMap{
		Next:   key.NewBinding(key.WithKeys("right", "n", "l"), key.WithHelp("→/n", "next")),
		Back:   key.NewBinding(key.WithKeys("left", "p", "h"), key.WithHelp("←/p", "back")),
		Toggle: key.NewBinding(key.WithKeys(" ", "s"), key.WithHelp("space", "start/pause")),
		Reset:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset")),
		Finish: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "finish")),
		Quit:   key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// Player shows one playback session full-screen and maps keys onto it.
// It doubles as the session's notifier so timer alerts land on screen.
type Player struct {
	log *logger.Logger

	mu      sync.Mutex
	program *tea.Program
	backlog []noticeMsg
}

// NewPlayer creates a player. Pass it to engine.New as the notifier and
// its Refresh method as the change callback.
func NewPlayer(log *logger.Logger) *Player {
	return &Player{log: log}
}

// Notify shows a message under the step.
func (p *Player) Notify(ctx context.Context, message string) error {
	p.send(noticeMsg{text: message})
	return nil
}

// NotifyUrgent shows a highlighted message under the step.
func (p *Player) NotifyUrgent(ctx context.Context, message string) error {
	p.log.Info("player: %s", message)
	p.send(noticeMsg{text: message, urgent: true})
	return nil
}

// Refresh asks the screen to redraw from the session. Safe to call from
// timer callbacks.
func (p *Player) Refresh() {
	p.mu.Lock()
	prog := p.program
	p.mu.Unlock()
	if prog != nil {
		prog.Send(refreshMsg{})
	}
}

func (p *Player) send(msg noticeMsg) {
	p.mu.Lock()
	prog := p.program
	if prog == nil {
		p.backlog = append(p.backlog, msg)
	}
	p.mu.Unlock()
	if prog != nil {
		prog.Send(msg)
	}
}

// Run plays the session until the user finishes or quits. The session is
// always finished when Run returns; messages sent after the screen closed
// are printed to out.
func (p *Player) Run(ctx context.Context, s *engine.Session, out io.Writer) error {
	m := newPlayerModel(s)

	p.mu.Lock()
	if len(p.backlog) > 0 {
		m.notice = p.backlog[len(p.backlog)-1]
		p.backlog = nil
	}
	p.program = tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	prog := p.program
	p.mu.Unlock()

	final, err := prog.Run()

	p.mu.Lock()
	p.program = nil
	p.mu.Unlock()

	if fm, ok := final.(playerModel); ok && !fm.finished {
		p.log.Info("player: left %s at step %d/%d", s.Title(), s.Cursor()+1, s.Len())
	}
	s.Finish(ctx)
	p.flush(out)
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}

func (p *Player) flush(out io.Writer) {
	p.mu.Lock()
	backlog := p.backlog
	p.backlog = nil
	p.mu.Unlock()
	for _, n := range backlog {
		if n.urgent {
			fmt.Fprintln(out, alertStyle.Render(n.text))
		} else {
			fmt.Fprintln(out, replyStyle.Render(n.text))
		}
	}
}

// ── Bubble Tea model ─────────────────────────────────────────────

type (
	refreshMsg struct{}
	noticeMsg  struct {
		text   string
		urgent bool
	}
)

type playerModel struct {
	session  *engine.Session
	keys     keyMap
	help     help.Model
	view     present.StepView
	notice   noticeMsg
	width    int
	finished bool
}

func newPlayerModel(s *engine.Session) playerModel {
	m := playerModel{
		session: s,
		keys:    newKeyMap(),
		help:    help.New(),
		view:    s.View(),
	}
	m.syncKeys()
	return m
}

func (m playerModel) Init() tea.Cmd {
	return tea.SetWindowTitle("RecipeBox — " + m.session.Title())
}

func (m playerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case refreshMsg:
		m.view = m.session.View()
		m.syncKeys()
		return m, nil

	case noticeMsg:
		m.notice = msg
		return m, nil

	case tea.KeyMsg:
		switch {
		// Run finishes the session once the program has stopped; a
		// finish notification sent from inside Update would block.
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Finish):
			if !m.session.IsLast() {
				return m, nil
			}
			m.finished = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Next):
			if m.session.Advance() {
				m.notice = noticeMsg{}
			}
		case key.Matches(msg, m.keys.Back):
			if m.session.Retreat() {
				m.notice = noticeMsg{}
			}
		case key.Matches(msg, m.keys.Toggle):
			_, _ = m.session.ToggleTimer()
		case key.Matches(msg, m.keys.Reset):
			_ = m.session.ResetTimer()
		}
		m.view = m.session.View()
		m.syncKeys()
		return m, nil
	}
	return m, nil
}

// syncKeys enables only the actions the current step offers.
func (m *playerModel) syncKeys() {
	v := m.view
	m.keys.Back.SetEnabled(!v.First)
	m.keys.Next.SetEnabled(!v.Last)
	m.keys.Finish.SetEnabled(v.Last)
	m.keys.Toggle.SetEnabled(v.HasTimer && v.Status != domain.TimerExpired)
	m.keys.Reset.SetEnabled(v.HasTimer && v.CanReset)
}

func (m playerModel) View() string {
	v := m.view
	var b strings.Builder

	b.WriteString(dimStyle.Render(m.session.Title()))
	b.WriteString("\n\n")
	b.WriteString(headerStyle.Render(v.Header()))
	b.WriteString("\n\n")
	for _, l := range v.Lines {
		b.WriteString(plainStyle.Render("  " + l))
		b.WriteByte('\n')
	}

	if v.HasTimer {
		b.WriteByte('\n')
		b.WriteString(timerBoxStyle.Render(renderTimer(v)))
		b.WriteByte('\n')
	}

	if m.notice.text != "" {
		b.WriteByte('\n')
		if m.notice.urgent {
			b.WriteString(alertStyle.Render(m.notice.text))
		} else {
			b.WriteString(replyStyle.Render(m.notice.text))
		}
		b.WriteByte('\n')
	}

	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func renderTimer(v present.StepView) string {
	switch v.Status {
	case domain.TimerRunning:
		return timerRunStyle.Render(v.Timer) + dimStyle.Render("  running")
	case domain.TimerExpired:
		return timerDoneStyle.Render(v.Timer) + dimStyle.Render("  done")
	case domain.TimerPaused:
		return timerIdleStyle.Render(v.Timer) + dimStyle.Render("  paused")
	default:
		return timerIdleStyle.Render(v.Timer)
	}
}
