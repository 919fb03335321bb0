package web

import (
	"bytes"
	"errors"
	"fmt"
	"math"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/partheniadis/r-node-nRF/internal/logic"
	"github.com/partheniadis/r-node-nRF/internal/samples"
)

// Rendered chart size in pixels.
const (
	ChartWidth  = 800
	ChartHeight = 400
)

// ErrNotEnoughPoints is returned by RenderChart when no channel has two
// points to draw a line through.
var ErrNotEnoughPoints = errors.New("not enough points to draw")

var seriesColors = [3]drawing.Color{
	logic.ChannelFinger:      chart.ColorRed,
	logic.ChannelEnvironment: chart.ColorBlue,
	logic.ChannelObject:      chart.ColorGreen,
}

// RenderChart draws the three channel series as a PNG line chart.
func RenderChart(series [3][]samples.Point, width, height int) ([]byte, error) {
	var ss []chart.Series
	minY, maxY := math.Inf(1), math.Inf(-1)
	for _, ch := range logic.Channels {
		pts := series[ch]
		if len(pts) < 2 {
			continue
		}
		xs := make([]float64, len(pts))
		ys := make([]float64, len(pts))
		for i, p := range pts {
			xs[i] = float64(p.Index)
			ys[i] = float64(p.Value)
			minY = math.Min(minY, ys[i])
			maxY = math.Max(maxY, ys[i])
		}
		ss = append(ss, chart.ContinuousSeries{
			Name:    ch.String(),
			XValues: xs,
			YValues: ys,
			Style: chart.Style{
				StrokeColor: seriesColors[ch],
				StrokeWidth: 2,
			},
		})
	}
	if len(ss) == 0 {
		return nil, ErrNotEnoughPoints
	}

	graph := chart.Chart{
		Width:      width,
		Height:     height,
		Background: chart.Style{Padding: chart.Box{Top: 20, Left: 20, Right: 20, Bottom: 20}},
		XAxis:      chart.XAxis{Name: "Time (seconds)"},
		YAxis:      chart.YAxis{Name: "°C Temperature"},
		Series:     ss,
	}
	if minY == maxY {
		// flat lines need a non-empty range
		graph.YAxis.Range = &chart.ContinuousRange{Min: minY - 1, Max: maxY + 1}
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render chart: %w", err)
	}
	return buf.Bytes(), nil
}
