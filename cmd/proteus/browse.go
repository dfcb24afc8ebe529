package main

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/prototropic/proteus"
)

var (
	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#3B82F6")).
			Bold(true)
	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6B7280"))
	paneStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#3B82F6")).
			Padding(0, 1)
)

func newBrowseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "browse <file>",
		Short: "Interactively browse a hierarchy document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			ents, err := proteus.LoadHierarchy(f, nil)
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			m := newBrowseModel(args[0], ents)
			_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
			return err
		},
	}
}

type browseKeymap struct {
	Up   key.Binding
	Down key.Binding
	Quit key.Binding
}

var browseKeys = browseKeymap{
	Up:   key.NewBinding(key.WithKeys("up", "k")),
	Down: key.NewBinding(key.WithKeys("down", "j")),
	Quit: key.NewBinding(key.WithKeys("q", "esc", "ctrl+c")),
}

type browseModel struct {
	file     string
	names    []string
	entities map[string]*proteus.Entity
	cursor   int
	report   viewport.Model
	width    int
	height   int
	ready    bool
}

func newBrowseModel(file string, entities map[string]*proteus.Entity) *browseModel {
	names := make([]string, 0, len(entities))
	for name := range entities {
		names = append(names, name)
	}
	sort.Strings(names)
	return &browseModel{file: file, names: names, entities: entities}
}

func (m *browseModel) Init() tea.Cmd {
	return nil
}

func (m *browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, browseKeys.Quit):
			return m, tea.Quit
		case key.Matches(msg, browseKeys.Up):
			if m.cursor > 0 {
				m.cursor--
				m.refresh()
			}
			return m, nil
		case key.Matches(msg, browseKeys.Down):
			if m.cursor < len(m.names)-1 {
				m.cursor++
				m.refresh()
			}
			return m, nil
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		w, h := m.reportSize()
		if !m.ready {
			m.report = viewport.New(w, h)
			m.ready = true
		} else {
			m.report.Width = w
			m.report.Height = h
		}
		m.refresh()
		return m, nil
	}
	var cmd tea.Cmd
	m.report, cmd = m.report.Update(msg)
	return m, cmd
}

func (m *browseModel) reportSize() (w, h int) {
	w = m.width - m.listWidth() - 6
	if w < 20 {
		w = 20
	}
	h = m.height - 4
	if h < 5 {
		h = 5
	}
	return w, h
}

func (m *browseModel) listWidth() int {
	w := 12
	for _, name := range m.names {
		if len(name)+4 > w {
			w = len(name) + 4
		}
	}
	return w
}

func (m *browseModel) refresh() {
	if !m.ready || len(m.names) == 0 {
		return
	}
	sink := &lineSink{}
	if err := m.entities[m.names[m.cursor]].Report(sink); err != nil {
		m.report.SetContent(fmt.Sprintf("report failed: %v", err))
		return
	}
	m.report.SetContent(strings.Join(sink.lines, "\n"))
	m.report.GotoTop()
}

func (m *browseModel) View() string {
	if !m.ready {
		return "loading..."
	}
	var list strings.Builder
	for i, name := range m.names {
		if i == m.cursor {
			list.WriteString(selectedStyle.Render("> " + name))
		} else {
			list.WriteString("  " + name)
		}
		list.WriteByte('\n')
	}
	panes := lipgloss.JoinHorizontal(lipgloss.Top,
		paneStyle.Width(m.listWidth()).Render(list.String()),
		paneStyle.Render(m.report.View()),
	)
	help := mutedStyle.Render(fmt.Sprintf("%s - up/down select, q quit", m.file))
	return lipgloss.JoinVertical(lipgloss.Left, panes, help)
}

// lineSink collects report lines for the viewport.
type lineSink struct {
	lines []string
}

func (s *lineSink) Line(text string) {
	s.lines = append(s.lines, text)
}
