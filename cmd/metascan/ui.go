// # cmd/metascan/ui.go
package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"metascan/internal/report"
)

var (
	titleStyle = lipgloss.NewStyle().
			MarginLeft(2).
			Foreground(lipgloss.Color("#3B82F6")).
			Bold(true).
			Render

	docStyle = lipgloss.NewStyle().Margin(1, 2)

	conflictStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F87171")).
			Bold(true)

	failureStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FBBF24")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#10B981")).
			Bold(true)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#64748B")).
			Italic(true)
)

type item struct {
	title, desc string
}

func (i item) Title() string       { return i.title }
func (i item) Description() string { return i.desc }
func (i item) FilterValue() string { return i.title + i.desc }

type model struct {
	list       list.Model
	data       report.Data
	failures   []string
	lastUpdate time.Time
}

type updateMsg struct {
	data     report.Data
	failures []string
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" || msg.String() == "q" {
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		h, v := docStyle.GetFrameSize()
		m.list.SetSize(msg.Width-h, msg.Height-v-4)
	case updateMsg:
		m.data = msg.data
		m.failures = msg.failures
		m.lastUpdate = time.Now()

		items := []list.Item{}
		for _, file := range m.data.Files {
			if file.Resolution != nil {
				for _, c := range file.Resolution.Conflicts {
					items = append(items, item{
						title: "Duplicate Import Name",
						desc:  fmt.Sprintf("%s in %s (lines %d and %d)", c.LocalName, file.Path, c.First.Line, c.Second.Line),
					})
				}
			}
			for _, fn := range file.Functions {
				if len(fn.Decorators) == 0 {
					continue
				}
				items = append(items, item{
					title: fn.QualifiedName(),
					desc:  fmt.Sprintf("@%s in %s:%d", strings.Join(fn.DecoratorNames(), " @"), file.Path, fn.Location.Line),
				})
			}
		}
		for _, f := range m.failures {
			items = append(items, item{
				title: "Parse Failure",
				desc:  f,
			})
		}
		m.list.SetItems(items)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m model) View() string {
	status := statusStyle.Render(fmt.Sprintf("Last update: %v | %d files | %d functions",
		m.lastUpdate.Format("15:04:05"), len(m.data.Files), m.data.FunctionCount()))

	var summary string
	if m.data.ConflictCount() == 0 && len(m.failures) == 0 {
		summary = successStyle.Render("✅ System Clean")
	} else {
		summary = fmt.Sprintf("⚠️  %s | %s",
			conflictStyle.Render(fmt.Sprintf("%d Conflicts", m.data.ConflictCount())),
			failureStyle.Render(fmt.Sprintf("%d Parse Failures", len(m.failures))))
	}

	header := fmt.Sprintf("%s\n%s | %s\n", titleStyle("Source Metadata Monitor"), status, summary)
	return docStyle.Render(header + "\n" + m.list.View())
}

func initialModel() model {
	l := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Decorated Functions & Issues"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)

	return model{
		list:       l,
		lastUpdate: time.Now(),
	}
}
