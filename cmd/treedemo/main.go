// treedemo: collapsible tree view backed by virt.Tree, with guide lines
// drawn from each entry's ancestry mask.
//
// Keys: j/k move selection, h/l collapse/expand, J/K scroll, r reveal a
// deep node, q quit.
package main

import (
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"virt"
)

var (
	folderStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	guideStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	selectedStyle = lipgloss.NewStyle().Reverse(true)
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

type model struct {
	tree  *virt.Tree
	names map[int]string
	deep  int // a buried leaf for the reveal binding
}

// buildTree adds a synthetic source-tree layout. Children of each folder are
// added in one burst to keep them contiguous.
func buildTree() (*virt.Tree, map[int]string, int) {
	tr := virt.NewTree(1024, 1)
	names := map[int]string{}

	must := func(i int, err error) int {
		if err != nil {
			fmt.Fprintln(os.Stderr, "build:", err)
			os.Exit(1)
		}
		return i
	}
	folder := func(parent int, name string) int {
		var i int
		if parent == virt.NoIndex {
			i = must(tr.AddRoot(true))
		} else {
			i = must(tr.AddChild(parent, true))
		}
		names[i] = name
		return i
	}
	file := func(parent int, name string) int {
		i := must(tr.AddChild(parent, false))
		names[i] = name
		return i
	}

	src := folder(virt.NoIndex, "src")
	docs := folder(virt.NoIndex, "docs")

	var dirs []int
	for d := 0; d < 12; d++ {
		dirs = append(dirs, folder(src, fmt.Sprintf("pkg%02d", d)))
	}
	deep := virt.NoIndex
	for n, d := range dirs {
		for f := 0; f < 6; f++ {
			leaf := file(d, fmt.Sprintf("file%d.go", f))
			if n == len(dirs)-1 && f == 5 {
				deep = leaf
			}
		}
	}
	for _, n := range []string{"intro.md", "api.md", "faq.md"} {
		file(docs, n)
	}

	tr.SetExpanded(src, true)
	tr.Rebuild()
	return tr, names, deep
}

func newModel() model {
	tr, names, deep := buildTree()
	tr.SetOverdraw(2)
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		tr.SetViewportHeight(float64(h - 1))
	}
	return model{tree: tr, names: names, deep: deep}
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.tree.SetViewportHeight(float64(msg.Height - 1))

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "j", "down":
			m.tree.SelectNext()
		case "k", "up":
			m.tree.SelectPrevious()
		case "h", "left":
			m.tree.NavigateLeft()
		case "l", "right":
			m.tree.NavigateRight()
		case "J":
			m.tree.ScrollBy(5)
		case "K":
			m.tree.ScrollBy(-5)
		case "r":
			m.tree.RevealNode(m.deep)
		}
	}
	return m, nil
}

func (m model) View() string {
	m.tree.Rebuild()
	m.tree.ResolvePendingScroll()
	vis := m.tree.VisibleRange()

	var b strings.Builder
	for i := vis.Start; i < vis.End; i++ {
		e := m.tree.Entry(i)
		line := guideStyle.Render(guides(e)) + m.label(e)
		if i == m.tree.SelectedEntry() {
			line = selectedStyle.Render(guides(e) + m.plainLabel(e))
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}
	b.WriteString(dimStyle.Render(fmt.Sprintf(
		"%d entries  (j/k move, h/l fold, r reveal, q quit)", m.tree.EntryCount())))
	return b.String()
}

// guides renders one column per ancestor depth: a continuation bar where
// that ancestor has a following sibling, blank otherwise, then the entry's
// own branch or corner glyph.
func guides(e virt.TreeEntry) string {
	var b strings.Builder
	for d := 0; d < e.Depth; d++ {
		if e.AncestryMask&(1<<uint(d)) != 0 {
			b.WriteString("│  ")
		} else {
			b.WriteString("   ")
		}
	}
	if e.Depth > 0 {
		if e.HasNextSibling {
			b.WriteString("├─ ")
		} else {
			b.WriteString("└─ ")
		}
	}
	return b.String()
}

func (m model) plainLabel(e virt.TreeEntry) string {
	name := m.names[e.Node]
	if !e.IsFolder {
		return name
	}
	if e.IsExpanded {
		return "▾ " + name
	}
	return "▸ " + name
}

func (m model) label(e virt.TreeEntry) string {
	if e.IsFolder {
		return folderStyle.Render(m.plainLabel(e))
	}
	return m.plainLabel(e)
}

func main() {
	if _, err := tea.NewProgram(newModel(), tea.WithAltScreen()).Run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
