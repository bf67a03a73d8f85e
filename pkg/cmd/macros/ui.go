package macros

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sndtools/snd/pkg/macro"
)

var (
	baseStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("240"))
	helpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

var listColumns = []table.Column{
	{Title: "Name", Width: 32},
	{Title: "Type", Width: 8},
	{Title: "Folder", Width: 32},
}

type macrosModel struct {
	table   table.Model
	columns []table.Column
	macros  []macro.Macro

	// Index into macros of the macro shown in the detail view, or -1.
	showing int
}

func newMacrosModel(macros []macro.Macro) macrosModel {
	columns := append([]table.Column(nil), listColumns...)

	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)

	styles.Selected = styles.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)

	rows := make([]table.Row, 0, len(macros))
	for _, m := range macros {
		rows = append(rows, table.Row{m.Name, m.Type.String(), m.FolderPath})
	}

	tbl := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithStyles(styles),
	)

	return macrosModel{table: tbl, columns: columns, macros: macros, showing: -1}
}

func (m macrosModel) Init() tea.Cmd {
	return nil
}

func (m macrosModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.String() == "q" {
			return m, tea.Quit
		}

		if m.showing >= 0 {
			if msg.Type == tea.KeyEsc {
				m.showing = -1
			}
			return m, nil
		}

		if msg.Type == tea.KeyEnter && len(m.macros) > 0 {
			m.showing = m.table.Cursor()
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.resize(msg)
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m *macrosModel) resize(msg tea.WindowSizeMsg) {
	h, v := baseStyle.GetFrameSize()
	m.table.SetHeight(msg.Height - v - 3)
	m.table.SetWidth(msg.Width - h)

	colWidth := 0
	for _, col := range m.columns {
		colWidth += col.Width
	}

	remainingWidth := msg.Width - colWidth
	m.columns[len(m.columns)-1].Width += remainingWidth - h - 4
	m.table.SetColumns(m.columns)
}

func (m macrosModel) View() string {
	if m.showing >= 0 && m.showing < len(m.macros) {
		return baseStyle.Render(describe(m.macros[m.showing])) + "\n" +
			helpStyle.Render("esc: back • q: quit") + "\n"
	}

	return baseStyle.Render(m.table.View()) + "\n" +
		helpStyle.Render("enter: show macro • q: quit") + "\n"
}

// describe renders one macro with its settings.
func describe(m macro.Macro) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Name: %s\n", m.Name)
	fmt.Fprintf(&b, "Type: %s\n", m.Type)
	fmt.Fprintf(&b, "Folder: %s\n", m.FolderPath)
	if m.ID != "" {
		fmt.Fprintf(&b, "ID: %s\n", m.ID)
	}
	if !m.Metadata.LastModified.IsZero() {
		fmt.Fprintf(&b, "Last Modified: %s\n", m.Metadata.LastModified.Format("2006-01-02 15:04:05"))
	}
	fmt.Fprintf(&b, "Crafting Loop: %t\n", m.Metadata.CraftingLoop)
	if m.Metadata.CraftingLoop {
		fmt.Fprintf(&b, "Loop Count: %d\n", m.Metadata.CraftLoopCount)
	}
	if len(m.Metadata.TriggerEvents) > 0 {
		names := make([]string, 0, len(m.Metadata.TriggerEvents))
		for _, e := range m.Metadata.TriggerEvents {
			names = append(names, e.String())
		}
		fmt.Fprintf(&b, "Trigger Events: %s\n", strings.Join(names, ", "))
	}
	fmt.Fprintf(&b, "\n%s", m.Content)
	return b.String()
}
