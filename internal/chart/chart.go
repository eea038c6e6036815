// Package chart lays out pie charts for the spending breakdown.
package chart

import (
	"fmt"
	"math"
	"strconv"
)

// DefaultSize is the chart edge length used when the caller gives none.
const DefaultSize = 200

// margin keeps the stroke inside the drawing area.
const margin = 10

// Palette is the fixed color sequence; segment i takes Palette[i%len(Palette)].
var Palette = []string{
	"#6366f1",
	"#10b981",
	"#f59e0b",
	"#ef4444",
	"#8b5cf6",
	"#06b6d4",
	"#84cc16",
	"#f97316",
}

// Slice is one labelled value to chart.
type Slice struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// Point is a coordinate in the chart's drawing space.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Segment is the drawable sector for one slice. Angles are degrees measured
// clockwise from 12 o'clock.
type Segment struct {
	Label          string  `json:"label"`
	Value          float64 `json:"value"`
	Percentage     float64 `json:"percentage"`
	PercentageText string  `json:"percentage_text"`
	Color          string  `json:"color"`
	StartAngle     float64 `json:"start_angle"`
	EndAngle       float64 `json:"end_angle"`
	LargeArc       int     `json:"large_arc"`
	Start          Point   `json:"start"`
	End            Point   `json:"end"`
	Path           string  `json:"path"`
}

// Pie is a complete chart layout. Empty is set when there is nothing to
// draw; FullCircle when a single slice holds the whole total and the
// renderer should draw a circle instead of a sector.
type Pie struct {
	Size       float64   `json:"size"`
	Radius     float64   `json:"radius"`
	Center     Point     `json:"center"`
	Total      float64   `json:"total"`
	Empty      bool      `json:"empty"`
	FullCircle bool      `json:"full_circle"`
	Segments   []Segment `json:"segments"`
}

// ColorAt returns the palette color for position i.
func ColorAt(i int) string {
	return Palette[i%len(Palette)]
}

// Layout converts slices into sectors, in input order. Negative or NaN
// values count as zero. The last non-zero sector always ends at exactly 360°
// so accumulated rounding never leaves a gap.
func Layout(slices []Slice, size float64) Pie {
	if size <= 2*margin || math.IsNaN(size) || math.IsInf(size, 0) {
		size = DefaultSize
	}
	pie := Pie{
		Size:     size,
		Radius:   size/2 - margin,
		Center:   Point{X: size / 2, Y: size / 2},
		Segments: []Segment{},
	}

	values := make([]float64, len(slices))
	lastNonZero := -1
	nonZero := 0
	for i, s := range slices {
		values[i] = sanitize(s.Value)
		if values[i] > 0 {
			pie.Total += values[i]
			lastNonZero = i
			nonZero++
		}
	}
	if pie.Total == 0 {
		pie.Empty = true
		return pie
	}
	pie.FullCircle = nonZero == 1

	var cumulative, start float64
	for i, s := range slices {
		v := values[i]
		cumulative += v

		end := cumulative * 360 / pie.Total
		if i >= lastNonZero {
			end = 360
		}

		pct := v / pie.Total * 100
		seg := Segment{
			Label:          s.Label,
			Value:          v,
			Percentage:     pct,
			PercentageText: strconv.FormatFloat(pct, 'f', 1, 64),
			Color:          ColorAt(i),
			StartAngle:     start,
			EndAngle:       end,
			Start:          pie.pointAt(start),
			End:            pie.pointAt(end),
		}

		switch {
		case pie.FullCircle && v > 0:
			seg.Path = pie.circlePath()
		case !pie.FullCircle && end > start:
			if end-start > 180 {
				seg.LargeArc = 1
			}
			seg.Path = pie.sectorPath(seg)
		}

		pie.Segments = append(pie.Segments, seg)
		start = end
	}
	return pie
}

func sanitize(v float64) float64 {
	if math.IsNaN(v) || v < 0 || math.IsInf(v, 0) {
		return 0
	}
	return v
}

func (p Pie) pointAt(angle float64) Point {
	rad := (angle - 90) * math.Pi / 180
	return Point{
		X: round(p.Center.X + p.Radius*math.Cos(rad)),
		Y: round(p.Center.Y + p.Radius*math.Sin(rad)),
	}
}

func (p Pie) sectorPath(s Segment) string {
	return fmt.Sprintf("M %s %s L %s %s A %s %s 0 %d 1 %s %s Z",
		num(p.Center.X), num(p.Center.Y),
		num(s.Start.X), num(s.Start.Y),
		num(p.Radius), num(p.Radius),
		s.LargeArc,
		num(s.End.X), num(s.End.Y),
	)
}

// circlePath draws a full circle as two half arcs; a single arc whose end
// equals its start renders nothing.
func (p Pie) circlePath() string {
	top := num(p.Center.Y - p.Radius)
	bottom := num(p.Center.Y + p.Radius)
	cx, r := num(p.Center.X), num(p.Radius)
	return fmt.Sprintf("M %s %s A %s %s 0 1 1 %s %s A %s %s 0 1 1 %s %s Z",
		cx, top, r, r, cx, bottom, r, r, cx, top)
}

// round trims trigonometric noise to four decimals and folds -0 into 0.
func round(v float64) float64 {
	v = math.Round(v*1e4) / 1e4
	if v == 0 {
		return 0
	}
	return v
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
