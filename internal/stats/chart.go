package stats

// Chart geometry for the progress graphs. Values are plotted against their
// ordinal position in the window, not against calendar dates.

const (
	axisLowPad  = 0.9
	axisHighPad = 1.1

	// DefaultYTicks is the number of intervals on a value axis.
	DefaultYTicks = 4
)

// Range is a closed interval on a value axis.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Span returns Max-Min, or 1 for a degenerate range.
func (r Range) Span() float64 {
	if s := r.Max - r.Min; s != 0 {
		return s
	}
	return 1
}

// AxisRange pads the extremes of values by 10% on each side. Empty input
// yields [0, 1].
func AxisRange(values []float64) Range {
	if len(values) == 0 {
		return Range{Min: 0, Max: 1}
	}
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	return Range{Min: lo * axisLowPad, Max: hi * axisHighPad}
}

// Ticks returns n+1 evenly spaced values from r.Min to r.Min+r.Span().
func Ticks(r Range, n int) []float64 {
	if n <= 0 {
		n = DefaultYTicks
	}
	step := r.Span() / float64(n)
	out := make([]float64, n+1)
	for i := range out {
		out[i] = r.Min + step*float64(i)
	}
	return out
}

// Rect is the plotting area in pixel coordinates, origin bottom-left.
type Rect struct {
	X, Y, W, H float64
}

// Pixel is a projected point.
type Pixel struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Project maps values, indexed 0..len-1 on the x axis, into rect. xMax is the
// index drawn at the right edge; a zero xMax or zero-width y range is treated
// as 1.
func Project(values []float64, rect Rect, xMax float64, yr Range) []Pixel {
	if xMax == 0 {
		xMax = 1
	}
	span := yr.Span()
	out := make([]Pixel, len(values))
	for i, v := range values {
		px := rect.X
		if xMax > 0 {
			px = rect.X + float64(i)/xMax*rect.W
		}
		out[i] = Pixel{
			X: px,
			Y: rect.Y + (v-yr.Min)/span*rect.H,
		}
	}
	return out
}

// Axis is one plotted series with its value range and tick labels.
type Axis struct {
	Values []float64 `json:"values"`
	Range  Range     `json:"range"`
	Ticks  []float64 `json:"ticks"`
}

func newAxis(values []float64) Axis {
	r := AxisRange(values)
	return Axis{Values: values, Range: r, Ticks: Ticks(r, DefaultYTicks)}
}

// Chart describes one graph: a primary series and, for dual-axis charts, a
// secondary series drawn against its own right-hand axis.
type Chart struct {
	XMax      int   `json:"x_max"`
	Primary   Axis  `json:"primary"`
	Secondary *Axis `json:"secondary,omitempty"`
}

// DualAxis builds the weight (left) and reps (right) chart for s.
func DualAxis(s Series, window int) Chart {
	reps := newAxis(s.Reps)
	return Chart{XMax: xMaxFor(window), Primary: newAxis(s.Weights), Secondary: &reps}
}

// Single builds the volume chart for s.
func Single(s Series, window int) Chart {
	return Chart{XMax: xMaxFor(window), Primary: newAxis(s.Volumes)}
}

// Project maps both series of the chart into rect.
func (c Chart) Project(rect Rect) (primary, secondary []Pixel) {
	xMax := float64(c.XMax)
	primary = Project(c.Primary.Values, rect, xMax, c.Primary.Range)
	if c.Secondary != nil {
		secondary = Project(c.Secondary.Values, rect, xMax, c.Secondary.Range)
	}
	return primary, secondary
}

// xMaxFor fixes the x axis at the window size regardless of how many entries
// exist, so a short history does not stretch across the whole chart.
func xMaxFor(window int) int {
	if window <= 0 {
		window = DefaultWindow
	}
	return window - 1
}
