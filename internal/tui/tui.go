// Package tui implements the live terminal display using BubbleTea, with an
// ntcharts line chart of the three channels.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/partheniadis/r-node-nRF/internal/display"
	"github.com/partheniadis/r-node-nRF/internal/logic"
	"github.com/partheniadis/r-node-nRF/internal/samples"
	"github.com/partheniadis/r-node-nRF/internal/status"
)

const (
	minChartWidth  = 20
	minChartHeight = 6
)

// ── Messages ─────────────────────────────────────────────────────────

type tickMsg time.Time

type snapshotMsg struct {
	snap   status.Snapshot
	series [3][]samples.Point
}

// ── Model ────────────────────────────────────────────────────────────

// Model is the BubbleTea model for the live display. It only reads from
// the tracker and the chart buffer; reset requests go through reset.
type Model struct {
	tracker  *status.Tracker
	buffer   *samples.Buffer
	reset    func()
	interval time.Duration

	snap    status.Snapshot
	version uint64
	drawn   bool
	chart   *lineChart
	width   int
	height  int
}

// New creates the model. reset may be nil to disable the reset key.
func New(tracker *status.Tracker, buf *samples.Buffer, interval time.Duration, reset func()) Model {
	if interval <= 0 {
		interval = time.Second
	}
	return Model{
		tracker:  tracker,
		buffer:   buf,
		reset:    reset,
		interval: interval,
		chart:    newLineChart(minChartWidth, minChartHeight),
	}
}

// Run shows the display until the user quits or ctx is cancelled.
func Run(ctx context.Context, m Model) error {
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}

// ── Commands ─────────────────────────────────────────────────────────

func (m Model) tickCmd() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// pollCmd reads the tracker and buffer off the event loop.
func (m Model) pollCmd() tea.Cmd {
	tracker, buf, n := m.tracker, m.buffer, m.chart.Window()
	return func() tea.Msg {
		return snapshotMsg{
			snap:   tracker.Snapshot(),
			series: buf.LastN(n),
		}
	}
}

// ── Init / Update ────────────────────────────────────────────────────

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.pollCmd(), m.tickCmd())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "r":
			if m.reset != nil {
				m.reset()
			}
			return m, m.pollCmd()
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		w, h := chartSize(m.width, m.height)
		m.chart.Resize(w, h)
		m.drawn = false
		return m, m.pollCmd()

	case tickMsg:
		return m, tea.Batch(m.pollCmd(), m.tickCmd())

	case snapshotMsg:
		m.snap = msg.snap
		if !m.drawn || msg.snap.ChartVersion != m.version {
			m.chart.Draw(msg.series)
			m.version = msg.snap.ChartVersion
			m.drawn = true
		}
	}

	return m, nil
}

func chartSize(width, height int) (int, int) {
	w := width - 4
	if w < minChartWidth {
		w = minChartWidth
	}
	// title, readings, insight and footer take about 10 rows
	h := height - 12
	if h < minChartHeight {
		h = minChartHeight
	}
	return w, h
}

// ── Color palette ────────────────────────────────────────────────────

var (
	colorTitleBg  = lipgloss.Color("17")
	colorTitleFg  = lipgloss.Color("51")
	colorBorder   = lipgloss.Color("62")
	colorLabel    = lipgloss.Color("252")
	colorDim      = lipgloss.Color("240")
	colorFooterBg = lipgloss.Color("235")
	colorInsight  = lipgloss.Color("220")
	colorOk       = lipgloss.Color("78")
	colorErr      = lipgloss.Color("196")
)

// ── View ─────────────────────────────────────────────────────────────

func (m Model) View() string {
	if m.width == 0 {
		return "  Initializing..."
	}

	contentWidth := m.width - 2
	if contentWidth < 40 {
		contentWidth = 40
	}

	sections := []string{
		m.renderTitleBar(contentWidth),
		m.renderReadings(contentWidth),
		m.renderInsight(contentWidth),
		lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Render(m.chart.View()),
		m.renderFooter(contentWidth),
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderTitleBar(width int) string {
	logo := lipgloss.NewStyle().
		Bold(true).
		Foreground(colorTitleFg).
		Render("R-NODE")

	state := lipgloss.NewStyle().Foreground(colorDim).Render("idle")
	if m.snap.Session.InProgress {
		state = lipgloss.NewStyle().Foreground(colorOk).Bold(true).Render("LIVE")
	}
	mqtt := lipgloss.NewStyle().Foreground(colorErr).Render("mqtt off")
	if m.snap.MQTTConnected {
		mqtt = lipgloss.NewStyle().Foreground(colorOk).Render("mqtt")
	}
	samplesText := lipgloss.NewStyle().Foreground(colorDim).Render(fmt.Sprintf("%d samples", m.snap.Session.Counter))

	sep := lipgloss.NewStyle().Foreground(colorDim).Render(" │ ")
	right := strings.Join([]string{state, samplesText, mqtt}, sep)

	gap := width - lipgloss.Width(logo) - lipgloss.Width(right) - 4
	if gap < 1 {
		gap = 1
	}

	return lipgloss.NewStyle().
		Background(colorTitleBg).
		Width(width).
		Padding(0, 1).
		Render(logo + strings.Repeat(" ", gap) + right)
}

func (m Model) renderReadings(width int) string {
	labelS := lipgloss.NewStyle().Foreground(colorLabel).Width(13)
	dimS := lipgloss.NewStyle().Foreground(colorDim)

	var cells []string
	for _, ch := range logic.Channels {
		text := m.snap.Channel(ch)
		valS := lipgloss.NewStyle().Bold(true).Foreground(channelColors[ch])
		if text == display.NotAvailableValue {
			valS = dimS
		}
		cells = append(cells, labelS.Render(ch.String())+valS.Render(fmt.Sprintf("%-7s", text)))
	}

	pos := m.snap.Position
	posS := lipgloss.NewStyle().Foreground(colorLabel)
	if pos == display.NotAvailable {
		posS = dimS
	}
	cells = append(cells, labelS.Render("Position")+posS.Render(pos))

	return lipgloss.NewStyle().Width(width).Padding(0, 1).Render(strings.Join(cells, "  "))
}

func (m Model) renderInsight(width int) string {
	text := m.snap.Insight
	if text == "" {
		text = " "
	}
	return lipgloss.NewStyle().
		Foreground(colorInsight).
		Italic(true).
		Width(width).
		Padding(0, 1).
		Render(text)
}

func (m Model) renderFooter(width int) string {
	keys := "q quit"
	if m.reset != nil {
		keys += "  r reset"
	}
	return lipgloss.NewStyle().
		Background(colorFooterBg).
		Foreground(colorDim).
		Width(width).
		Padding(0, 1).
		Render(keys)
}
