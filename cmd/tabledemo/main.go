// tabledemo: scrollable, sortable, resizable data table backed by virt.Table.
//
// Keys: j/k scroll rows, h/l scroll columns, J/K page, 1-9 toggle sort on a
// column, +/- resize the first resizable column, space select row, q quit.
package main

import (
	"fmt"
	"log"
	"os"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"virt"
)

var (
	headerStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	selectedStyle = lipgloss.NewStyle().Reverse(true)
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

type row struct {
	Name   string
	Region string
	Load   float64
	Conns  int
}

func makeRows(n int) []row {
	regions := []string{"eu-west", "us-east", "ap-south", "sa-east"}
	rows := make([]row, n)
	for i := range rows {
		rows[i] = row{
			Name:   fmt.Sprintf("node-%04d", i),
			Region: regions[i%len(regions)],
			Load:   float64((i*37)%1000) / 10,
			Conns:  (i * 101) % 5000,
		}
	}
	return rows
}

type model struct {
	table *virt.Table
	rows  []row
}

func newModel() model {
	t := virt.NewTable(1) // one terminal cell per row
	t.SetHeaderHeight(1)
	t.SetOverdraw(1, 0)

	cols := []virt.Column{
		{Title: "Name", Width: 12, MinWidth: 6, MaxWidth: 30, Sortable: true, Resizable: true},
		{Title: "Region", Width: 10, MinWidth: 8, MaxWidth: 16, Sortable: true},
		{Title: "Load%", Width: 8, MinWidth: 6, MaxWidth: 12, Sortable: true},
		{Title: "Conns", Width: 8, MinWidth: 6, MaxWidth: 12, Sortable: true},
	}
	for _, c := range cols {
		if _, err := t.AddColumn(c); err != nil {
			log.Fatalf("add column %q: %v", c.Title, err)
		}
	}

	rows := makeRows(2000)
	t.SetRowCount(len(rows))
	return model{table: t, rows: rows}
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.table.SetViewport(float64(msg.Width), float64(msg.Height-1)) // status line

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "j", "down":
			m.table.ScrollBy(0, 1)
		case "k", "up":
			m.table.ScrollBy(0, -1)
		case "J", "pgdown":
			m.table.ScrollBy(0, 20)
		case "K", "pgup":
			m.table.ScrollBy(0, -20)
		case "h", "left":
			m.table.ScrollBy(-2, 0)
		case "l", "right":
			m.table.ScrollBy(2, 0)
		case "g":
			m.table.ScrollTo(0, 0)
		case "G":
			m.table.ScrollToRow(m.table.RowCount()-1, virt.ScrollEnd)
		case "+":
			m.resizeFirst(2)
		case "-":
			m.resizeFirst(-2)
		case " ":
			r := m.table.RowAtY(m.table.ScrollY())
			m.table.SelectRow(r)
			m.table.ScrollToRow(r, virt.ScrollNearest)
		default:
			if s := msg.String(); len(s) == 1 && s >= "1" && s <= "9" {
				m.toggleSort(int(s[0] - '1'))
			}
		}
	}
	return m, nil
}

// resizeFirst nudges the first resizable column's width via the drag
// protocol.
func (m model) resizeFirst(delta float64) {
	for i := 0; i < m.table.ColumnCount(); i++ {
		if !m.table.ColumnAt(i).Resizable {
			continue
		}
		m.table.StartResize(i, 0)
		m.table.UpdateResize(delta)
		m.table.EndResize()
		return
	}
}

// toggleSort advances column i's sort direction and reorders the backing
// rows to match: the engine only tracks intent.
func (m model) toggleSort(i int) {
	dir := m.table.ToggleSort(i)
	less := func(a, b row) bool {
		switch i {
		case 1:
			return a.Region < b.Region
		case 2:
			return a.Load < b.Load
		case 3:
			return a.Conns < b.Conns
		default:
			return a.Name < b.Name
		}
	}
	sort.Slice(m.rows, func(a, b int) bool {
		if dir == virt.SortDescending {
			return less(m.rows[b], m.rows[a])
		}
		if dir == virt.SortAscending {
			return less(m.rows[a], m.rows[b])
		}
		return m.rows[a].Name < m.rows[b].Name
	})
}

func (m model) View() string {
	// Frame protocol: viewport is already set; resolve, then query.
	m.table.ResolvePendingScroll()
	vis := m.table.VisibleRange()

	var b strings.Builder
	b.WriteString(m.renderHeader(vis.Cols))
	b.WriteByte('\n')

	selRow, _, hasSel := m.table.Selection()
	for r := vis.Rows.Start; r < vis.Rows.End; r++ {
		line := m.renderRow(r, vis.Cols)
		if hasSel && r == selRow {
			line = selectedStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}

	b.WriteString(dimStyle.Render(fmt.Sprintf(
		"rows %d-%d of %d  (1-9 sort, +/- resize, space select, q quit)",
		vis.Rows.Start, vis.Rows.End, m.table.RowCount())))
	return b.String()
}

func (m model) renderHeader(cols virt.ColRange) string {
	var b strings.Builder
	for c := cols.Start; c < cols.End; c++ {
		col := m.table.ColumnAt(c)
		label := col.Title
		if sc, dir := m.table.SortColumn(); sc == c {
			if dir == virt.SortAscending {
				label += " ^"
			} else {
				label += " v"
			}
		}
		b.WriteString(headerStyle.Render(pad(label, int(col.Width))))
	}
	return b.String()
}

func (m model) renderRow(r int, cols virt.ColRange) string {
	if r < 0 || r >= len(m.rows) {
		return ""
	}
	row := m.rows[r]
	cells := []string{row.Name, row.Region, fmt.Sprintf("%.1f", row.Load), fmt.Sprintf("%d", row.Conns)}

	var b strings.Builder
	for c := cols.Start; c < cols.End; c++ {
		text := ""
		if c < len(cells) {
			text = cells[c]
		}
		b.WriteString(pad(text, int(m.table.ColumnWidth(c))))
	}
	return b.String()
}

// pad fits s into width terminal cells.
func pad(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if len(s) >= width {
		return s[:width-1] + " "
	}
	return s + strings.Repeat(" ", width-len(s))
}

func main() {
	if _, err := tea.NewProgram(newModel(), tea.WithAltScreen()).Run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
