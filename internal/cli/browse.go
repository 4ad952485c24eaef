package cli

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/Takheer/mstroy-test/pkg/tree"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// browseCommand creates the browse command for interactive navigation.
func (c *CLI) browseCommand() *cobra.Command {
	var label string

	cmd := &cobra.Command{
		Use:   "browse [file]",
		Short: "Navigate the tree interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.loadStore(args[0])
			if err != nil {
				return err
			}
			if s.Len() == 0 {
				printInfo("No records in %s", args[0])
				return nil
			}

			p := tea.NewProgram(NewBrowseModel(s, label), tea.WithContext(cmd.Context()), tea.WithAltScreen())
			final, err := p.Run()
			if err != nil {
				return err
			}
			if m, ok := final.(BrowseModel); ok && m.Selected != nil {
				printSuccess("Selected %s", m.Selected.ID)
				for _, anc := range s.Ancestors(m.Selected.ID) {
					printDetail("%s %s", iconArrow, anc.ID)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&label, "label", "label", "payload field shown next to each id")
	return cmd
}

// =============================================================================
// BrowseModel - Interactive tree navigation
// =============================================================================

// BrowseModel is the bubbletea model for walking a store one level at a
// time. It lists the children of the current record, or the roots at the
// top level.
type BrowseModel struct {
	Store    *tree.Store
	LabelKey string

	Current tree.ID       // zero at the top level
	Entries []tree.Record // children of Current
	Cursor  int
	Offset  int
	Height  int

	// Selected is set when the user confirms a record with "s".
	Selected *tree.Record

	// cursors remembers the cursor position of each level we descended from.
	cursors []int
}

// NewBrowseModel creates a model positioned at the roots of s.
func NewBrowseModel(s *tree.Store, labelKey string) BrowseModel {
	return BrowseModel{
		Store:    s,
		LabelKey: labelKey,
		Entries:  s.Roots(),
		Height:   15,
	}
}

func (m BrowseModel) Init() tea.Cmd {
	return nil
}

func (m BrowseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Entries)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter", "right", "l":
			m = m.descend()
		case "left", "h", "backspace":
			m = m.ascend()
		case "s":
			if len(m.Entries) > 0 {
				rec := m.Entries[m.Cursor]
				m.Selected = &rec
				return m, tea.Quit
			}
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-10, 5)
	}
	return m, nil
}

// descend moves into the record under the cursor if it has children.
func (m BrowseModel) descend() BrowseModel {
	if len(m.Entries) == 0 {
		return m
	}
	rec := m.Entries[m.Cursor]
	children := m.Store.Children(rec.ID)
	if len(children) == 0 {
		return m
	}
	m.cursors = append(slices.Clip(m.cursors), m.Cursor)
	m.Current = rec.ID
	m.Entries = children
	m.Cursor, m.Offset = 0, 0
	return m
}

// ascend moves back to the parent level and restores its cursor.
func (m BrowseModel) ascend() BrowseModel {
	if m.Current.IsZero() {
		return m
	}
	rec, _ := m.Store.Get(m.Current)
	m.Current = rec.Parent
	if m.Current.IsZero() {
		m.Entries = m.Store.Roots()
	} else {
		m.Entries = m.Store.Children(m.Current)
	}

	m.Cursor = 0
	if n := len(m.cursors); n > 0 {
		m.Cursor = min(m.cursors[n-1], len(m.Entries)-1)
		m.cursors = m.cursors[:n-1]
	}
	m.Offset = max(0, m.Cursor-m.Height+1)
	return m
}

// breadcrumb is the path from the top level to the current record.
func (m BrowseModel) breadcrumb() string {
	parts := []string{"/"}
	if !m.Current.IsZero() {
		ancestors := m.Store.Ancestors(m.Current)
		for i := len(ancestors) - 1; i >= 0; i-- {
			parts = append(parts, ancestors[i].ID.String())
		}
		parts = append(parts, m.Current.String())
	}
	return strings.Join(parts, " "+iconArrow+" ")
}

func (m BrowseModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.breadcrumb()))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  → open  ← back  s select  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Entries))

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		rec := m.Entries[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows = append(rows, []string{
			cursor,
			rec.ID.String(),
			metaValue(rec, m.LabelKey),
			strconv.Itoa(len(m.Store.Children(rec.ID))),
			strconv.Itoa(len(m.Store.Descendants(rec.ID))),
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "ID", "Label", "Children", "Descendants").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return styleHeader
			}
			idx := m.Offset + row
			if idx >= len(m.Entries) {
				return lipgloss.NewStyle()
			}
			leaf := len(m.Store.Children(m.Entries[idx].ID)) == 0
			switch {
			case idx == m.Cursor:
				return listSelectedStyle
			case leaf:
				return listDimStyle
			}
			return listNormalStyle
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Entries))))

	return b.String()
}
