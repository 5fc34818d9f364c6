package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/kitforge/kitforge/pkg/export"
	"github.com/kitforge/kitforge/pkg/observability"
	"github.com/kitforge/kitforge/pkg/roster"
	"github.com/kitforge/kitforge/pkg/studio"
)

// Progress bar styles.
var (
	barFilledStyle = lipgloss.NewStyle().Foreground(colorCyan)
	barEmptyStyle  = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// BulkModel - bulk export progress
// =============================================================================

// playerDoneMsg reports one roster entry finished rendering.
type playerDoneMsg struct{}

// bulkDoneMsg carries the final outcome.
type bulkDoneMsg struct {
	path string
	err  error
}

// BulkModel is the bubbletea model tracking bulk export progress.
type BulkModel struct {
	Total int
	Done  int

	path string
	err  error
}

// NewBulkModel creates a progress model for total roster entries.
func NewBulkModel(total int) BulkModel {
	return BulkModel{Total: total}
}

func (m BulkModel) Init() tea.Cmd {
	return nil
}

func (m BulkModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case playerDoneMsg:
		m.Done++
		return m, nil
	case bulkDoneMsg:
		m.path = msg.path
		m.err = msg.err
		return m, tea.Quit
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.err = context.Canceled
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m BulkModel) View() string {
	const width = 30
	filled := 0
	if m.Total > 0 {
		filled = m.Done * width / m.Total
	}
	bar := barFilledStyle.Render(strings.Repeat("█", filled)) +
		barEmptyStyle.Render(strings.Repeat("░", width-filled))
	return fmt.Sprintf("\n  %s %s %d/%d players\n",
		StyleTitle.Render("Bulk export"), bar, m.Done, m.Total)
}

// =============================================================================
// Runner
// =============================================================================

// runBulkTUI runs a bulk export with a live progress bar when stdout is
// a terminal, falling back to a plain run otherwise. Progress ticks come
// from the deduction hook: one deduction per archived player.
func runBulkTUI(ctx context.Context, sess *studio.Session, team roster.Roster, quality export.Quality) (string, error) {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return sess.ExportBulk(ctx, quality)
	}

	p := tea.NewProgram(NewBulkModel(len(team)))

	prev := observability.Studio()
	observability.SetStudioHooks(bulkProgressHooks{StudioHooks: prev, program: p})
	defer observability.SetStudioHooks(prev)

	go func() {
		path, err := sess.ExportBulk(ctx, quality)
		p.Send(bulkDoneMsg{path: path, err: err})
	}()

	final, err := p.Run()
	if err != nil {
		return "", err
	}
	m := final.(BulkModel)
	return m.path, m.err
}

// bulkProgressHooks forwards deduction events into the TUI while keeping
// the previously installed hooks alive.
type bulkProgressHooks struct {
	observability.StudioHooks
	program *tea.Program
}

func (h bulkProgressHooks) OnDeduct(ctx context.Context, amount int, success bool, err error) {
	h.StudioHooks.OnDeduct(ctx, amount, success, err)
	if success {
		h.program.Send(playerDoneMsg{})
	}
}
