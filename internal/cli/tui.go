package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/jarlens/pkg/acquire"
	"github.com/matzehuels/jarlens/pkg/maven"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// errPromptCancelled is returned when the operator leaves a prompt with
// esc or ctrl+c. The acquirer treats it as skip (or decline).
var errPromptCancelled = errors.New("prompt cancelled")

// =============================================================================
// StrategyModel - what to do about a missing artifact
// =============================================================================

// StrategyModel is the bubbletea model for the numbered strategy menu.
// Digits 1-5 pick an entry directly; arrows and enter work as well.
type StrategyModel struct {
	Coordinate maven.Coordinate
	Cursor     int
	Selected   acquire.Strategy // zero until a choice is made
	Cancelled  bool
}

// NewStrategyModel creates the menu for coord.
func NewStrategyModel(coord maven.Coordinate) StrategyModel {
	return StrategyModel{Coordinate: coord}
}

func (m StrategyModel) Init() tea.Cmd {
	return nil
}

func (m StrategyModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch s := key.String(); s {
	case "ctrl+c", "esc", "q":
		m.Cancelled = true
		return m, tea.Quit
	case "up", "k":
		if m.Cursor > 0 {
			m.Cursor--
		}
	case "down", "j":
		if m.Cursor < len(acquire.Strategies)-1 {
			m.Cursor++
		}
	case "enter":
		m.Selected = acquire.Strategies[m.Cursor]
		return m, tea.Quit
	default:
		if len(s) == 1 && s[0] >= '1' && int(s[0]-'1') < len(acquire.Strategies) {
			m.Cursor = int(s[0] - '1')
			m.Selected = acquire.Strategies[m.Cursor]
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m StrategyModel) View() string {
	if m.Selected != 0 || m.Cancelled {
		return ""
	}
	var b strings.Builder
	b.WriteString(StyleTitle.Render("Not in local repository: "))
	b.WriteString(StyleHighlight.Render(m.Coordinate.String()))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("1-5 or ↑/↓ ⏎ select  esc skip"))
	b.WriteString("\n\n")

	for i, s := range acquire.Strategies {
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		line := fmt.Sprintf("%s%d) %s", cursor, i+1, s.Label())
		if i == m.Cursor {
			b.WriteString(listSelectedStyle.Render(line))
		} else {
			b.WriteString(listNormalStyle.Render(line))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// =============================================================================
// ConfirmModel - y/n for a concrete download
// =============================================================================

// ConfirmModel is the bubbletea model for a download confirmation.
// Anything but y declines.
type ConfirmModel struct {
	Coordinate maven.Coordinate
	Kind       acquire.Kind
	Approved   bool
	Done       bool
	Cancelled  bool
}

// NewConfirmModel creates the confirmation for downloading kind of coord.
func NewConfirmModel(coord maven.Coordinate, kind acquire.Kind) ConfirmModel {
	return ConfirmModel{Coordinate: coord, Kind: kind}
}

func (m ConfirmModel) Init() tea.Cmd {
	return nil
}

func (m ConfirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "y", "Y":
		m.Approved, m.Done = true, true
		return m, tea.Quit
	case "n", "N", "enter":
		m.Done = true
		return m, tea.Quit
	case "ctrl+c", "esc":
		m.Done, m.Cancelled = true, true
		return m, tea.Quit
	}
	return m, nil
}

func (m ConfirmModel) View() string {
	if m.Done {
		return ""
	}
	return StyleTitle.Render(fmt.Sprintf("Download %s archive of ", m.Kind)) +
		StyleHighlight.Render(m.Coordinate.String()) +
		listDimStyle.Render("? [y/N] ")
}

// =============================================================================
// consoleDecisions - interactive acquire.DecisionProvider
// =============================================================================

// consoleDecisions asks the operator on the terminal. The acquirer
// serializes calls, so only one program runs at a time.
type consoleDecisions struct {
	in  io.Reader
	out io.Writer
}

func (d consoleDecisions) Choose(ctx context.Context, coord maven.Coordinate) (acquire.Strategy, error) {
	final, err := d.run(ctx, NewStrategyModel(coord))
	if err != nil {
		return acquire.StrategySkip, err
	}
	m := final.(StrategyModel)
	if m.Cancelled || m.Selected == 0 {
		return acquire.StrategySkip, errPromptCancelled
	}
	return m.Selected, nil
}

func (d consoleDecisions) Confirm(ctx context.Context, coord maven.Coordinate, kind acquire.Kind) (bool, error) {
	final, err := d.run(ctx, NewConfirmModel(coord, kind))
	if err != nil {
		return false, err
	}
	m := final.(ConfirmModel)
	if m.Cancelled {
		return false, errPromptCancelled
	}
	return m.Approved, nil
}

func (d consoleDecisions) run(ctx context.Context, m tea.Model) (tea.Model, error) {
	p := tea.NewProgram(m,
		tea.WithContext(ctx),
		tea.WithInput(d.in),
		tea.WithOutput(d.out),
	)
	return p.Run()
}
