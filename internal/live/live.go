// Package live renders pipeline progress as an interactive terminal view.
// It consumes the update channel a pipeline run publishes to; the run itself
// executes elsewhere.
package live

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"

	"github.com/appfactor/icongate/internal/console"
	"github.com/appfactor/icongate/internal/pipeline"
	"github.com/appfactor/icongate/internal/platform"
)

// Run displays progress until the updates channel closes. It blocks the
// calling goroutine; the pipeline must already be running elsewhere.
func Run(ctx context.Context, updates <-chan pipeline.Update, theme console.Theme) error {
	program := tea.NewProgram(newModel(updates, theme), tea.WithContext(ctx))
	_, err := program.Run()
	if err != nil && ctx.Err() != nil {
		// Cancellation surfaces through the context, not the view.
		return nil
	}
	return err
}

// row is one platform's progress line.
type row struct {
	target platform.Target
	state  pipeline.State
	ready  bool
	note   string
	seen   bool // at least one update arrived
}

func (r row) finished() bool {
	switch r.state {
	case pipeline.NotDetected, pipeline.Revalidated:
		return r.seen
	case pipeline.Validated:
		return r.ready
	}
	return false
}

type model struct {
	updates <-chan pipeline.Update
	theme   console.Theme
	sp      spinner.Model
	rows    []row
	width   int
	done    bool
}

func newModel(updates <-chan pipeline.Update, theme console.Theme) model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = theme.Primary

	var rows []row
	for _, t := range platform.All() {
		rows = append(rows, row{target: t})
	}
	return model{updates: updates, theme: theme, sp: sp, rows: rows}
}

type updateMsg pipeline.Update
type closedMsg struct{}

func (m model) listenUpdates() tea.Cmd {
	return func() tea.Msg {
		u, ok := <-m.updates
		if !ok {
			return closedMsg{}
		}
		return updateMsg(u)
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(m.sp.Tick, m.listenUpdates())
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "q":
			if m.done {
				return m, tea.Quit
			}
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.sp, cmd = m.sp.Update(msg)
		return m, cmd
	case updateMsg:
		m.apply(pipeline.Update(msg))
		return m, m.listenUpdates()
	case closedMsg:
		m.done = true
		return m, tea.Quit
	}
	return m, nil
}

func (m *model) apply(u pipeline.Update) {
	for i := range m.rows {
		if m.rows[i].target == u.Target {
			m.rows[i].state = u.State
			m.rows[i].ready = u.Ready
			m.rows[i].note = u.Note
			m.rows[i].seen = true
			return
		}
	}
}

func (m model) View() string {
	var b strings.Builder
	b.WriteString(m.theme.Bold.Render("Icon compliance"))
	b.WriteString("\n\n")
	for _, r := range m.rows {
		b.WriteString(m.renderRow(r))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	if m.done {
		b.WriteString(m.theme.Muted.Render("q quit"))
	} else {
		b.WriteString(m.theme.Muted.Render("ctrl+c abort"))
	}
	b.WriteString("\n")
	return b.String()
}

func (m model) renderRow(r row) string {
	icon := m.sp.View()
	switch {
	case !r.seen:
		icon = m.theme.Muted.Render(m.theme.Icons.WIP) + " "
	case r.state == pipeline.NotDetected:
		icon = m.theme.Muted.Render(m.theme.Icons.Bullet) + " "
	case r.finished() && r.ready:
		icon = m.theme.Success.Render(m.theme.Icons.Pass) + " "
	case r.finished():
		icon = m.theme.Error.Render(m.theme.Icons.Fail) + " "
	}

	line := fmt.Sprintf("%s%-8s %s", icon, r.target.DisplayName(), r.state)
	if r.note != "" {
		note := r.note
		if m.width > 0 {
			// 13 columns of fixed prefix: indent, icon cell, padded name.
			avail := m.width - 13 - runewidth.StringWidth(r.state.String()) - 2
			if avail >= 4 {
				note = runewidth.Truncate(note, avail, "…")
			}
		}
		line += "  " + m.theme.Muted.Render(note)
	}
	return "  " + line
}
