package web

import (
	"encoding/json"

	"github.com/partheniadis/r-node-nRF/internal/logic"
	"github.com/partheniadis/r-node-nRF/internal/samples"
)

// SamplesJSON is the JSON representation of the chart window.
type SamplesJSON struct {
	Samples SeriesJSON `json:"samples"`
}

// SeriesJSON holds one point list per channel.
type SeriesJSON struct {
	Finger      []PointJSON `json:"finger"`
	Environment []PointJSON `json:"environment"`
	Object      []PointJSON `json:"object"`
}

// PointJSON is one chart point.
type PointJSON struct {
	Index int `json:"index"`
	Value int `json:"value"`
}

func toPoints(pts []samples.Point) []PointJSON {
	out := make([]PointJSON, len(pts))
	for i, p := range pts {
		out[i] = PointJSON{Index: p.Index, Value: p.Value}
	}
	return out
}

func formatSamples(series [3][]samples.Point) []byte {
	sj := SamplesJSON{
		Samples: SeriesJSON{
			Finger:      toPoints(series[logic.ChannelFinger]),
			Environment: toPoints(series[logic.ChannelEnvironment]),
			Object:      toPoints(series[logic.ChannelObject]),
		},
	}
	data, _ := json.MarshalIndent(sj, "", "  ")
	return data
}
