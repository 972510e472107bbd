package series

import (
	"time"

	"NAVigator/internal/model"
)

// minSpan stops zooming in below a single day.
const minSpan = 24 * time.Hour

// Viewport is the visible date span of a chart, bounded by the series it was built from.
type Viewport struct {
	Start time.Time
	End   time.Time
	Min   time.Time
	Max   time.Time
}

// NewViewport spans the whole series.
func NewViewport(s model.NavSeries) Viewport {
	first, ok := s.First()
	if !ok {
		return Viewport{}
	}
	last, _ := s.Last()
	return Viewport{Start: first.Date, End: last.Date, Min: first.Date, Max: last.Date}
}

// Empty reports whether the viewport has no bounds.
func (v Viewport) Empty() bool { return v.Min.IsZero() && v.Max.IsZero() }

// Span returns the visible duration.
func (v Viewport) Span() time.Duration { return v.End.Sub(v.Start) }

// ZoomIn halves the span around its midpoint.
func (v Viewport) ZoomIn() Viewport {
	span := v.Span()
	if v.Empty() || span/2 < minSpan {
		return v
	}
	mid := v.Start.Add(span / 2)
	v.Start = mid.Add(-span / 4)
	v.End = mid.Add(span / 4)
	return v
}

// ZoomOut doubles the span around its midpoint, clamped to the bounds.
func (v Viewport) ZoomOut() Viewport {
	if v.Empty() {
		return v
	}
	span := v.Span()
	mid := v.Start.Add(span / 2)
	v.Start = mid.Add(-span)
	v.End = mid.Add(span)
	if v.Start.Before(v.Min) {
		v.Start = v.Min
	}
	if v.End.After(v.Max) {
		v.End = v.Max
	}
	return v
}

// Pan shifts the span by d, keeping its width and staying inside the bounds.
func (v Viewport) Pan(d time.Duration) Viewport {
	if v.Empty() {
		return v
	}
	width := v.Span()
	v.Start = v.Start.Add(d)
	v.End = v.End.Add(d)
	if v.Start.Before(v.Min) {
		v.Start, v.End = v.Min, v.Min.Add(width)
	}
	if v.End.After(v.Max) {
		v.Start, v.End = v.Max.Add(-width), v.Max
	}
	return v
}

// Window returns the explicit window the viewport covers.
func (v Viewport) Window() model.RangeWindow {
	return model.RangeWindow{Start: v.Start, End: v.End}
}

// Apply filters s to the visible span.
func (v Viewport) Apply(s model.NavSeries) model.NavSeries {
	if v.Empty() {
		return s.Clone()
	}
	return Filter(s, v.Window())
}
