// Package ui is the interactive terminal front end: an input field for new
// tasks above the full task list, rebuilt from the store on every frame.
package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"todo/internal/task"
	"todo/internal/view"
)

// Messages shown on the status line.
const (
	msgEmptyText = "please enter a task"
	msgDeleted   = "task deleted"
	msgKept      = "task kept"
)

// chromeLines is the number of screen lines View uses outside the task list.
const chromeLines = 9

// FocusArea is the part of the screen receiving keys.
type FocusArea int

const (
	FocusInput FocusArea = iota
	FocusList
)

// Model is the bubbletea model for the task list.
// It owns no task state: every mutation goes through the store and every
// frame is rendered from a fresh snapshot of it.
type Model struct {
	ctx    context.Context
	store  *task.Store
	log    *slog.Logger
	keys   KeyMap
	styles Styles

	input  textinput.Model
	focus  FocusArea
	cursor int

	// list scrolls the rows once the terminal size is known.
	list      viewport.Model
	listReady bool

	// Delete confirmation
	confirming bool
	pendingID  int

	status    string
	statusErr bool
}

// New creates a model over a loaded store.
func New(ctx context.Context, store *task.Store, log *slog.Logger) *Model {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	input := textinput.New()
	input.Prompt = "> "
	input.Placeholder = "What needs to be done?"
	input.CharLimit = 200
	input.Focus()

	return &Model{
		ctx:    ctx,
		store:  store,
		log:    log,
		keys:   DefaultKeyMap(),
		styles: DefaultStyles(),
		input:  input,
		focus:  FocusInput,
	}
}

// Run starts the UI and blocks until the user quits or ctx is cancelled.
func Run(ctx context.Context, store *task.Store, log *slog.Logger, in io.Reader, out io.Writer) error {
	p := tea.NewProgram(New(ctx, store, log),
		tea.WithContext(ctx),
		tea.WithInput(in),
		tea.WithOutput(out),
		tea.WithAltScreen(),
	)
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

// Focus returns the focused area.
func (m *Model) Focus() FocusArea { return m.focus }

// Status returns the status line text.
func (m *Model) Status() string { return m.status }

// Confirming reports whether a delete is awaiting an answer.
func (m *Model) Confirming() bool { return m.confirming }

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.input.Width = max(10, msg.Width-len(m.input.Prompt)-2)
		height := max(1, msg.Height-chromeLines)
		if !m.listReady {
			m.list = viewport.New(msg.Width, height)
			m.listReady = true
		} else {
			m.list.Width = msg.Width
			m.list.Height = height
		}
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.ForceQuit) {
			return m, tea.Quit
		}
		if m.confirming {
			return m.updateConfirm(msg)
		}
		if m.focus == FocusInput {
			return m.updateInput(msg)
		}
		return m.updateList(msg)
	}

	if m.focus == FocusInput {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Submit):
		m.add()
		return m, nil

	case key.Matches(msg, m.keys.ToList):
		if m.store.Len() == 0 {
			return m, nil
		}
		m.focus = FocusList
		m.input.Blur()
		m.clampCursor()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.ToInput):
		m.focus = FocusInput
		return m, m.input.Focus()

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case key.Matches(msg, m.keys.Down):
		if m.cursor < m.store.Len()-1 {
			m.cursor++
		}
		return m, nil

	case key.Matches(msg, m.keys.Toggle):
		if t, ok := m.selected(); ok {
			m.toggle(t.ID)
		}
		return m, nil

	case key.Matches(msg, m.keys.Delete):
		if t, ok := m.selected(); ok {
			m.confirming = true
			m.pendingID = t.ID
			m.setStatus("", false)
		}
		return m, nil
	}
	return m, nil
}

func (m *Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var answer bool
	switch {
	case key.Matches(msg, m.keys.Confirm):
		answer = true
	case key.Matches(msg, m.keys.Decline):
		answer = false
	default:
		return m, nil
	}

	id := m.pendingID
	m.confirming = false
	m.pendingID = 0

	removed, err := m.store.Delete(m.ctx, id, func(task.Task) bool { return answer })
	switch {
	case err != nil:
		m.setStatus(err.Error(), true)
	case removed:
		m.setStatus(msgDeleted, false)
	default:
		m.setStatus(msgKept, false)
	}

	if m.store.Len() == 0 {
		m.focus = FocusInput
		return m, m.input.Focus()
	}
	m.clampCursor()
	return m, nil
}

func (m *Model) add() {
	_, err := m.store.Add(m.ctx, m.input.Value())
	switch {
	case errors.Is(err, task.ErrEmptyText):
		m.setStatus(msgEmptyText, false)
	case err != nil:
		m.log.Error("add task", "err", err)
		m.setStatus(err.Error(), true)
	default:
		m.input.Reset()
		m.setStatus("", false)
	}
}

func (m *Model) toggle(id int) {
	if _, err := m.store.ToggleComplete(m.ctx, id); err != nil {
		m.log.Error("toggle task", "id", id, "err", err)
		m.setStatus(err.Error(), true)
		return
	}
	m.setStatus("", false)
}

// selected returns the task under the cursor, in display order.
func (m *Model) selected() (task.Task, bool) {
	snap := view.Build(m.store.Tasks())
	if m.cursor < 0 || m.cursor >= len(snap.Items) {
		return task.Task{}, false
	}
	return snap.Items[m.cursor], true
}

func (m *Model) clampCursor() {
	n := m.store.Len()
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *Model) setStatus(text string, isErr bool) {
	m.status = text
	m.statusErr = isErr
}

// View implements tea.Model. Each call is a full render pass.
func (m *Model) View() string {
	snap := view.Build(m.store.Tasks())
	s := m.styles

	var b strings.Builder
	b.WriteString(s.Title.Render("To-Do List"))
	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")

	if snap.Empty() {
		b.WriteString(s.Empty.Render("No tasks yet. Add one above."))
		b.WriteString("\n")
	} else {
		b.WriteString(m.renderRows(snap.Items))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(s.Counters.Render(fmt.Sprintf("Total: %d   Completed: %d", snap.Total, snap.Completed)))
	b.WriteString("\n")

	switch {
	case m.confirming:
		if t, ok := m.store.Get(m.pendingID); ok {
			b.WriteString(s.Confirm.Render(fmt.Sprintf("Delete %q? (y/n)", t.Text)))
			b.WriteString("\n")
		}
	case m.status != "" && m.statusErr:
		b.WriteString(s.Error.Render("error: " + m.status))
		b.WriteString("\n")
	case m.status != "":
		b.WriteString(s.Warning.Render(m.status))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(s.Help.Render(m.help()))
	b.WriteString("\n")
	return b.String()
}

// renderRows renders one line per task, scrolled to keep the cursor
// visible when the terminal size is known.
func (m *Model) renderRows(items []task.Task) string {
	rows := make([]string, len(items))
	for i, t := range items {
		rows[i] = m.renderRow(i, t)
	}
	content := strings.Join(rows, "\n")
	if !m.listReady {
		return content
	}

	m.list.SetContent(content)
	switch {
	case m.cursor < m.list.YOffset:
		m.list.SetYOffset(m.cursor)
	case m.cursor >= m.list.YOffset+m.list.Height:
		m.list.SetYOffset(m.cursor - m.list.Height + 1)
	}
	return m.list.View()
}

var lineBreaks = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ")

func (m *Model) renderRow(i int, t task.Task) string {
	s := m.styles

	marker := "  "
	if m.focus == FocusList && i == m.cursor {
		marker = s.Cursor.Render("▸ ")
	}

	plain := lineBreaks.Replace(t.Text)
	check, text := s.CheckOpen, s.Open.Render(plain)
	if t.Completed {
		check, text = s.CheckDone, s.Done.Render(plain)
	}
	return marker + check + " " + text
}

func (m *Model) help() string {
	k := m.keys
	switch {
	case m.confirming:
		return helpLine(k.Confirm, k.Decline)
	case m.focus == FocusList:
		return helpLine(k.Up, k.Down, k.Toggle, k.Delete, k.ToInput, k.Quit)
	default:
		return helpLine(k.Submit, k.ToList, k.ForceQuit)
	}
}
