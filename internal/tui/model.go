// Package tui is the interactive budget dashboard.
package tui

import (
	"context"
	"time"

	"github.com/Veraticus/safe-to-spend/internal/budget"
	"github.com/Veraticus/safe-to-spend/internal/report"
	"github.com/Veraticus/safe-to-spend/internal/tui/themes"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
)

const loadTimeout = 30 * time.Second

// Tab is one of the dashboard views.
type Tab int

// Dashboard views in display order.
const (
	TabBudget Tab = iota
	TabOverBudget
	TabWeeks
)

var tabNames = []string{"Budget", "Over budget", "Weeks"}

func (t Tab) String() string {
	return tabNames[t]
}

// Model holds the dashboard state.
type Model struct {
	ctx      context.Context
	theme    themes.Theme
	report   *report.Report
	lastErr  error
	loader   ReportLoader
	keymap   KeyMap
	help     help.Model
	spinner  spinner.Model
	table    table.Model
	rangeIdx int
	tab      Tab
	width    int
	height   int
	loading  bool
	quitting bool
}

// NewModel creates a dashboard that loads reports with loader.
func NewModel(ctx context.Context, loader ReportLoader, opts ...Option) Model {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	rangeIdx := 0
	for i, p := range budget.RangePresets {
		if p == cfg.Range {
			rangeIdx = i
		}
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = cfg.Theme.Title

	t := table.New(table.WithFocused(true))
	styles := table.DefaultStyles()
	styles.Header = styles.Header.Foreground(cfg.Theme.Primary).BorderForeground(cfg.Theme.Border)
	styles.Selected = styles.Selected.Background(cfg.Theme.Primary)
	t.SetStyles(styles)

	m := Model{
		ctx:      ctx,
		theme:    cfg.Theme,
		loader:   loader,
		keymap:   DefaultKeyMap(),
		help:     help.New(),
		spinner:  sp,
		table:    t,
		rangeIdx: rangeIdx,
		width:    cfg.Width,
		height:   cfg.Height,
		loading:  true,
	}
	m.resize()
	return m
}

// Range is the active range preset.
func (m Model) Range() budget.RangePreset {
	return budget.RangePresets[m.rangeIdx]
}

// Init starts the first report load.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.load())
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.resize()
		return m, nil

	case reportLoadedMsg:
		m.loading = false
		m.lastErr = msg.err
		if msg.err == nil {
			m.report = msg.report
			m.refreshTable()
		}
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.ForceQuit), key.Matches(msg, m.keymap.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keymap.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.resize()
		return m, nil

	case key.Matches(msg, m.keymap.NextTab):
		m.tab = (m.tab + 1) % Tab(len(tabNames))
		m.refreshTable()
		return m, nil

	case key.Matches(msg, m.keymap.PrevTab):
		m.tab = (m.tab + Tab(len(tabNames)) - 1) % Tab(len(tabNames))
		m.refreshTable()
		return m, nil

	case key.Matches(msg, m.keymap.NextRange):
		if m.rangeIdx < len(budget.RangePresets)-1 {
			m.rangeIdx++
			return m.reload()
		}
		return m, nil

	case key.Matches(msg, m.keymap.PrevRange):
		if m.rangeIdx > 0 {
			m.rangeIdx--
			return m.reload()
		}
		return m, nil

	case key.Matches(msg, m.keymap.Refresh):
		return m.reload()
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m Model) reload() (tea.Model, tea.Cmd) {
	m.loading = true
	return m, tea.Batch(m.spinner.Tick, m.load())
}

func (m Model) load() tea.Cmd {
	preset := m.Range()
	loader := m.loader
	parent := m.ctx
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(parent, loadTimeout)
		defer cancel()
		rep, err := loader(ctx, preset)
		return reportLoadedMsg{report: rep, err: err}
	}
}

func (m *Model) refreshTable() {
	if m.report == nil {
		return
	}
	cols, rows := tableFor(m.tab, m.report, m.width)
	m.table.SetRows(nil)
	m.table.SetColumns(cols)
	m.table.SetRows(rows)
	m.table.GotoTop()
}

// resize fits the table between the header and the help footer.
func (m *Model) resize() {
	footer := 2
	if m.help.ShowAll {
		footer = 6
	}
	h := m.height - headerHeight - footer
	if h < 3 {
		h = 3
	}
	m.table.SetHeight(h)
	m.table.SetWidth(m.width)
	m.refreshTable()
}
