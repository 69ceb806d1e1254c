package view

import (
	"fmt"
	"strings"

	"github.com/katiamach/weather-dashboard/internal/model"
)

// Chart geometry, in SVG user units.
const (
	ChartWidth   = 600
	ChartHeight  = 260
	chartPadding = 40
)

// Point is a plotted value.
type Point struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Value int     `json:"value"`
}

// Series is one line of the chart.
type Series struct {
	Label  string  `json:"label"`
	Color  string  `json:"color"`
	Values []int   `json:"values"`
	Points []Point `json:"-"`
}

// Polyline returns the points in SVG polyline syntax.
func (s Series) Polyline() string {
	parts := make([]string, 0, len(s.Points))
	for _, p := range s.Points {
		parts = append(parts, fmt.Sprintf("%.1f,%.1f", p.X, p.Y))
	}
	return strings.Join(parts, " ")
}

// Tick is a labelled position on an axis.
type Tick struct {
	Pos   float64
	Label string
}

// Chart plots rounded daily maximum and minimum temperatures.
type Chart struct {
	Labels []string `json:"labels"`
	Series []Series `json:"series"`
	XTicks []Tick   `json:"-"`
	YTicks []Tick   `json:"-"`
}

// NewChart lays out the forecast series. It expects at least one day.
func NewChart(s model.ForecastSeries, f *Formatter) *Chart {
	n := s.Len()

	labels := make([]string, 0, n)
	for _, d := range s.Dates {
		labels = append(labels, f.Date(d))
	}

	highs := roundAll(s.TempMax)
	lows := roundAll(s.TempMin)

	lo, hi := bounds(append(append([]int{}, highs...), lows...))
	// keep a flat line off the chart border
	lo, hi = lo-1, hi+1

	c := &Chart{
		Labels: labels,
		Series: []Series{
			{Label: "Temperatura Máxima (°C)", Color: "#00c9a7", Values: highs},
			{Label: "Temperatura Mínima (°C)", Color: "#2c5364", Values: lows},
		},
	}

	for i := range c.Series {
		c.Series[i].Points = make([]Point, 0, n)
		for j, v := range c.Series[i].Values {
			c.Series[i].Points = append(c.Series[i].Points, Point{X: xPos(j, n), Y: yPos(v, lo, hi), Value: v})
		}
	}

	for j, l := range labels {
		c.XTicks = append(c.XTicks, Tick{Pos: xPos(j, n), Label: l})
	}
	for _, v := range []int{lo, (lo + hi) / 2, hi} {
		c.YTicks = append(c.YTicks, Tick{Pos: yPos(v, lo, hi), Label: fmt.Sprintf("%d °C", v)})
	}

	return c
}

// Width and Height expose the geometry to templates.
func (c *Chart) Width() int  { return ChartWidth }
func (c *Chart) Height() int { return ChartHeight }

// Left and Right are the plot area edges.
func (c *Chart) Left() int  { return chartPadding }
func (c *Chart) Right() int { return ChartWidth - chartPadding }

// LabelY is the baseline of the date labels.
func (c *Chart) LabelY() int { return ChartHeight - 12 }

func xPos(i, n int) float64 {
	inner := float64(ChartWidth - 2*chartPadding)
	if n < 2 {
		return chartPadding + inner/2
	}
	return chartPadding + float64(i)*inner/float64(n-1)
}

func yPos(v, lo, hi int) float64 {
	inner := float64(ChartHeight - 2*chartPadding)
	return chartPadding + float64(hi-v)*inner/float64(hi-lo)
}

func roundAll(vs []float64) []int {
	out := make([]int, 0, len(vs))
	for _, v := range vs {
		out = append(out, Round(v))
	}
	return out
}

func bounds(vs []int) (int, int) {
	lo, hi := vs[0], vs[0]
	for _, v := range vs[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}
