package main

import (
	"flag"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/terndb/terndb/pkg/query"
	"github.com/terndb/terndb/pkg/storage"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#5FD7AF")).
			MarginLeft(2).
			MarginTop(1)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#87D7FF")).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#87D7FF")).
			Padding(0, 1)

	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#000000")).
			Background(lipgloss.Color("#5FD7AF")).
			Padding(0, 2)

	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#666666")).
				Padding(0, 2)

	contentStyle = lipgloss.NewStyle().
			MarginLeft(2).
			MarginTop(1)

	statsBoxStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#5FD7AF")).
			Padding(1, 2).
			MarginRight(2)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF5F5F")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#5FD75F")).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			MarginTop(1).
			MarginLeft(2)
)

type view int

const (
	dashboardView view = iota
	queryView
	resultsView
	viewCount
)

type keyMap struct {
	Tab      key.Binding
	ShiftTab key.Binding
	Enter    key.Binding
	Quit     key.Binding
	Up       key.Binding
	Down     key.Binding
}

var keys = keyMap{
	Tab: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "next view"),
	),
	ShiftTab: key.NewBinding(
		key.WithKeys("shift+tab"),
		key.WithHelp("shift+tab", "prev view"),
	),
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "run query"),
	),
	Quit: key.NewBinding(
		key.WithKeys("ctrl+c", "esc"),
		key.WithHelp("esc", "quit"),
	),
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("up/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("down/j", "down"),
	),
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Enter, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tab, k.ShiftTab, k.Enter},
		{k.Up, k.Down, k.Quit},
	}
}

type model struct {
	graph       *storage.GraphStorage
	executor    *query.Executor
	currentView view
	queryInput  textinput.Model
	resultTable table.Model
	help        help.Model
	keys        keyMap
	width       int
	height      int
	message     string
	messageErr  bool
	startTime   time.Time
	stats       storage.Statistics
	lastQuery   string
	lastElapsed time.Duration
	rowCount    int
}

type tickMsg time.Time

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func initialModel(graph *storage.GraphStorage) model {
	ti := textinput.New()
	ti.Placeholder = "MATCH (n:Person) RETURN n.name, CASE WHEN n.age IS NULL THEN -1 ELSE n.age END"
	ti.CharLimit = 500
	ti.Width = 80

	return model{
		graph:       graph,
		executor:    query.NewExecutor(graph),
		currentView: queryView,
		queryInput:  ti,
		resultTable: newResultTable(nil, nil),
		help:        help.New(),
		keys:        keys,
		startTime:   time.Now(),
		stats:       graph.GetStatistics(),
	}
}

func newResultTable(columns []string, rows [][]any) table.Model {
	cols := make([]table.Column, len(columns))
	for i, c := range columns {
		width := len(c)
		for _, row := range rows {
			if w := len(formatValue(row[i])); w > width {
				width = w
			}
		}
		if width > 40 {
			width = 40
		}
		cols[i] = table.Column{Title: c, Width: width + 2}
	}

	tblRows := make([]table.Row, len(rows))
	for i, row := range rows {
		cells := make(table.Row, len(row))
		for j, val := range row {
			cells[j] = formatValue(val)
		}
		tblRows[i] = cells
	}

	t := table.New(
		table.WithColumns(cols),
		table.WithRows(tblRows),
		table.WithFocused(true),
		table.WithHeight(12),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("#87D7FF")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("#000000")).
		Background(lipgloss.Color("#5FD7AF")).
		Bold(false)
	t.SetStyles(s)
	return t
}

func formatValue(val any) string {
	if val == nil {
		return "null"
	}
	switch v := val.(type) {
	case string:
		return v
	case map[string]any:
		parts := make([]string, 0, len(v))
		for k, item := range v {
			parts = append(parts, fmt.Sprintf("%s: %v", k, item))
		}
		if len(parts) > 3 {
			parts = parts[:3]
			parts = append(parts, "...")
		}
		return strings.Join(parts, ", ")
	default:
		return fmt.Sprintf("%v", val)
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		m.queryInput.Focus(),
		tickCmd(),
	)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

	case tickMsg:
		m.stats = m.graph.GetStatistics()
		return m, tickCmd()

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit

		case key.Matches(msg, m.keys.Tab):
			m.setView((m.currentView + 1) % viewCount)

		case key.Matches(msg, m.keys.ShiftTab):
			if m.currentView == 0 {
				m.setView(viewCount - 1)
			} else {
				m.setView(m.currentView - 1)
			}

		case key.Matches(msg, m.keys.Enter):
			if m.currentView == queryView && m.queryInput.Focused() {
				m.executeQuery()
			}
		}
	}

	switch m.currentView {
	case queryView:
		m.queryInput, cmd = m.queryInput.Update(msg)
		cmds = append(cmds, cmd)
	case resultsView:
		m.resultTable, cmd = m.resultTable.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m *model) setView(v view) {
	m.currentView = v
	if v == queryView {
		m.queryInput.Focus()
	} else {
		m.queryInput.Blur()
	}
}

func (m *model) executeQuery() {
	input := strings.TrimSpace(m.queryInput.Value())
	if input == "" {
		m.message = "query cannot be empty"
		m.messageErr = true
		return
	}

	start := time.Now()
	results, err := m.executor.Execute(input)
	if err != nil {
		m.message = err.Error()
		m.messageErr = true
		return
	}

	m.lastQuery = input
	m.lastElapsed = time.Since(start)
	m.rowCount = results.Count
	m.resultTable = newResultTable(results.Columns, results.Rows)
	m.message = fmt.Sprintf("%d rows in %s", results.Count, m.lastElapsed.Round(time.Microsecond))
	m.messageErr = false
	m.setView(resultsView)
}

func (m model) View() string {
	if m.width == 0 {
		return "Initializing..."
	}

	var s strings.Builder

	s.WriteString(titleStyle.Render("TernDB"))
	s.WriteString("\n\n")
	s.WriteString(m.renderTabs())
	s.WriteString("\n\n")

	switch m.currentView {
	case dashboardView:
		s.WriteString(m.renderDashboard())
	case queryView:
		s.WriteString(m.renderQuery())
	case resultsView:
		s.WriteString(m.renderResults())
	}

	if m.message != "" {
		s.WriteString("\n\n")
		if m.messageErr {
			s.WriteString(errorStyle.Render("error: " + m.message))
		} else {
			s.WriteString(successStyle.Render(m.message))
		}
	}

	s.WriteString("\n\n")
	s.WriteString(helpStyle.Render(m.help.ShortHelpView(m.keys.ShortHelp())))

	return s.String()
}

func (m model) renderTabs() string {
	tabs := []string{"Dashboard", "Query", "Results"}
	rendered := make([]string, len(tabs))
	for i, tab := range tabs {
		if view(i) == m.currentView {
			rendered[i] = activeTabStyle.Render(tab)
		} else {
			rendered[i] = inactiveTabStyle.Render(tab)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

func (m model) renderDashboard() string {
	uptime := time.Since(m.startTime).Round(time.Second)

	statsContent := fmt.Sprintf(`Graph
-----
Nodes:    %d
Edges:    %d
Queries:  %d
Uptime:   %s`,
		m.stats.NodeCount,
		m.stats.EdgeCount,
		m.stats.TotalQueries,
		uptime,
	)

	snapshotLine := "never"
	if !m.stats.LastSnapshot.IsZero() {
		snapshotLine = m.stats.LastSnapshot.Format(time.RFC3339)
	}
	storageContent := fmt.Sprintf(`Storage
-------
Last snapshot: %s`,
		snapshotLine,
	)

	return contentStyle.Render(
		lipgloss.JoinHorizontal(lipgloss.Top,
			statsBoxStyle.Render(statsContent),
			statsBoxStyle.Render(storageContent),
		),
	)
}

func (m model) renderQuery() string {
	var s strings.Builder

	s.WriteString(headerStyle.Render("Query Console"))
	s.WriteString("\n\n")
	s.WriteString(m.queryInput.View())
	s.WriteString("\n\n")
	s.WriteString(helpStyle.Render("Examples:\n"))
	s.WriteString(helpStyle.Render("  MATCH (n:Person) RETURN n.name ORDER BY n.name\n"))
	s.WriteString(helpStyle.Render("  MATCH (n:Person) RETURN CASE n.eyes WHEN 'blue' THEN 1 WHEN 'brown' THEN 2 ELSE 3 END\n"))
	s.WriteString(helpStyle.Render("  MATCH (a)-[:KNOWS]->(b) WHERE a.age > 30 RETURN a.name, b.name\n"))

	return contentStyle.Render(s.String())
}

func (m model) renderResults() string {
	var s strings.Builder

	s.WriteString(headerStyle.Render("Results"))
	s.WriteString("\n\n")

	if m.lastQuery == "" {
		s.WriteString(helpStyle.Render("No query executed yet. Run one from the Query view."))
		return contentStyle.Render(s.String())
	}

	s.WriteString(helpStyle.Render(m.lastQuery))
	s.WriteString("\n\n")
	s.WriteString(m.resultTable.View())
	s.WriteString("\n")
	s.WriteString(helpStyle.Render(fmt.Sprintf("%d rows (%s)", m.rowCount, m.lastElapsed.Round(time.Microsecond))))

	return contentStyle.Render(s.String())
}

func main() {
	dataDir := flag.String("data", "./data/terndb", "Directory for graph snapshots")
	flag.Parse()

	graph, err := storage.NewGraphStorage(*dataDir)
	if err != nil {
		log.Fatalf("Failed to open graph storage: %v", err)
	}
	defer graph.Close()

	p := tea.NewProgram(initialModel(graph), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		log.Fatalf("Error running program: %v", err)
	}
}
