package tui

import (
	"github.com/NimbleMarkets/ntcharts/canvas/runes"
	"github.com/NimbleMarkets/ntcharts/linechart/streamlinechart"
	"github.com/charmbracelet/lipgloss"

	"github.com/partheniadis/r-node-nRF/internal/logic"
	"github.com/partheniadis/r-node-nRF/internal/samples"
)

var channelColors = [3]lipgloss.Color{
	logic.ChannelFinger:      lipgloss.Color("196"),
	logic.ChannelEnvironment: lipgloss.Color("33"),
	logic.ChannelObject:      lipgloss.Color("78"),
}

// lineChart draws the newest samples of every channel, newest on the right.
type lineChart struct {
	model  streamlinechart.Model
	width  int
	height int
}

func newLineChart(width, height int) *lineChart {
	c := &lineChart{width: width, height: height}
	c.model = streamlinechart.New(width, height)
	for _, ch := range logic.Channels {
		c.model.SetDataSetStyles(ch.String(), runes.ArcLineStyle, lipgloss.NewStyle().Foreground(channelColors[ch]))
	}
	return c
}

// Resize changes the drawing area.
func (c *lineChart) Resize(width, height int) {
	if width == c.width && height == c.height {
		return
	}
	c.width, c.height = width, height
	c.model.Resize(width, height)
}

// Window returns how many points fit across the chart.
func (c *lineChart) Window() int {
	return c.width
}

// Draw replaces the chart contents with series.
func (c *lineChart) Draw(series [3][]samples.Point) {
	c.model.ClearAllData()
	for _, ch := range logic.Channels {
		for _, p := range series[ch] {
			c.model.PushDataSet(ch.String(), float64(p.Value))
		}
	}
	c.model.DrawAll()
}

func (c *lineChart) View() string {
	return c.model.View()
}
