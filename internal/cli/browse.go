package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/floorgraph/pkg/editor"
	"github.com/matzehuels/floorgraph/pkg/floorplan"
)

var (
	listDimStyle    = lipgloss.NewStyle().Foreground(colorDim)
	listHeaderStyle = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	listCursorStyle = lipgloss.NewStyle().Foreground(colorCyan).Bold(true)
)

func (c *CLI) browseCommand() *cobra.Command {
	return &cobra.Command{
		Use:               "browse FILE",
		Short:             "Browse, delete and save nodes in the terminal",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeGraphFile,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runBrowse(cmd.Context(), args[0])
		},
	}
}

func (c *CLI) runBrowse(ctx context.Context, path string) error {
	ed := editor.New(
		editor.WithLogger(loggerFromContext(ctx)),
		editor.WithEngine(c.Config.Engine()),
		editor.WithLimits(c.Config.Limits()),
		editor.WithDefaultFloor(c.Config.Nodes.DefaultFloor),
	)
	rep, err := ed.Load(ctx, path)
	if err != nil {
		return err
	}
	printIssues(rep)

	final, err := tea.NewProgram(newBrowseModel(ctx, ed), tea.WithContext(ctx)).Run()
	if err != nil {
		return err
	}
	if m, ok := final.(browseModel); ok && m.editor.Dirty() {
		printWarning("Quit with unsaved changes to %s", path)
	}
	return nil
}

// =============================================================================
// browseModel - node list with delete and save
// =============================================================================

type browseModel struct {
	ctx       context.Context
	editor    *editor.Editor
	cursor    int
	offset    int
	height    int
	status    string
	quitArmed bool
}

func newBrowseModel(ctx context.Context, ed *editor.Editor) browseModel {
	return browseModel{ctx: ctx, editor: ed, height: 15, status: ed.Status()}
}

func (m browseModel) Init() tea.Cmd { return nil }

func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		key := msg.String()
		if key != "q" && key != "esc" {
			m.quitArmed = false
		}
		switch key {
		case "ctrl+c":
			return m, tea.Quit
		case "q", "esc":
			if m.editor.Dirty() && !m.quitArmed {
				m.quitArmed = true
				m.status = "Unsaved changes: press q again to quit or s to save"
				return m, nil
			}
			return m, tea.Quit
		case "up", "k":
			m.move(-1)
		case "down", "j":
			m.move(1)
		case "home", "g":
			m.move(-m.cursor)
		case "end", "G":
			m.move(m.editor.Graph().NodeCount())
		case "d", "x", "delete":
			m.deleteCurrent()
		case "s":
			if err := m.editor.Save(m.ctx, ""); err != nil {
				m.status = "Save failed: " + err.Error()
			} else {
				m.status = m.editor.Status()
			}
		}
	case tea.WindowSizeMsg:
		m.height = max(msg.Height-8, 5)
		m.move(0)
	}
	return m, nil
}

// move shifts the cursor by delta, clamped to the list, and scrolls.
func (m *browseModel) move(delta int) {
	n := m.editor.Graph().NodeCount()
	m.cursor = min(max(m.cursor+delta, 0), max(n-1, 0))
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+m.height {
		m.offset = m.cursor - m.height + 1
	}
}

func (m *browseModel) deleteCurrent() {
	nodes := m.editor.Graph().Nodes()
	if len(nodes) == 0 {
		return
	}
	m.editor.DeleteNode(nodes[m.cursor].ID)
	m.status = m.editor.Status()
	m.move(0)
}

func (m browseModel) View() string {
	var b strings.Builder

	title := "floorgraph"
	if p := m.editor.Path(); p != "" {
		title += " · " + p
	}
	if m.editor.Dirty() {
		title += " *"
	}
	b.WriteString(StyleTitle.Render(title))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  d delete  s save  q quit"))
	b.WriteString("\n\n")

	g := m.editor.Graph()
	nodes := g.Nodes()
	end := min(m.offset+m.height, len(nodes))

	rows := [][]string{}
	for i := m.offset; i < end; i++ {
		rows = append(rows, nodeRow(g, nodes[i], i == m.cursor))
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(listDimStyle).
		Headers("", "ID", "Type", "Position", "Floor", "Links").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return listHeaderStyle
			}
			if m.offset+row == m.cursor {
				return listCursorStyle
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		})

	b.WriteString(t.Render())
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]  %s", min(m.cursor+1, len(nodes)), len(nodes), statsLine(g))))
	if m.status != "" {
		b.WriteString("\n")
		b.WriteString("  " + m.status)
	}
	b.WriteString("\n")
	return b.String()
}

func nodeRow(g *floorplan.Graph, n *floorplan.Node, current bool) []string {
	cursor := "  "
	if current {
		cursor = "▸ "
	}
	typ := n.Type()
	if typ == "" {
		typ = "—"
	}
	floor, ok := n.Floor()
	if !ok {
		floor = "—"
	}
	pos := fmt.Sprintf("%.1f, %.1f", n.X, n.Y)
	return []string{cursor, n.ID, typ, pos, floor, fmt.Sprint(len(g.Neighbors(n.ID)))}
}
