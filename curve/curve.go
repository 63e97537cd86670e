// Package curve builds the capital-evolution series from closed trades,
// segmented by instrument so each symbol's contribution renders in its own
// color.
package curve

import (
	"errors"
	"time"

	"github.com/theglitchis/mt4dash/trades"
)

// ErrNoData is returned when there are no closed trades to build from. The
// caller renders a "no data" notice instead of an empty chart.
var ErrNoData = errors.New("no closed trades")

// Point is one step of the cumulative capital series. Trade is nil only for
// the synthetic start point that anchors the series at the initial capital.
type Point struct {
	Time    time.Time
	Capital float64
	Trade   *trades.Trade
}

// Segment is a run of consecutive points sharing one symbol. Its first
// point repeats the previous segment's last point so adjacent segments
// connect without a gap.
type Segment struct {
	Symbol string
	Color  Color
	Points []Point
}

// Curve is the full segmented series.
type Curve struct {
	Segments []Segment
}

// FinalCapital returns the cumulative capital after the last closed trade.
func (c *Curve) FinalCapital() float64 {
	last := c.Segments[len(c.Segments)-1]
	return last.Points[len(last.Points)-1].Capital
}

// Build constructs the segmented capital curve. Input trades may arrive in
// any order; they are sorted by close time here. initialCapital anchors the
// synthetic start point at the first trade's open time.
func Build(closed []trades.Trade, initialCapital float64, palette Palette) (*Curve, error) {
	if len(closed) == 0 {
		return nil, ErrNoData
	}

	sorted := make([]trades.Trade, len(closed))
	copy(sorted, closed)
	trades.SortByCloseTime(sorted)

	points := make([]Point, 0, len(sorted)+1)
	points = append(points, Point{
		Time:    sorted[0].OpenTime.Time,
		Capital: initialCapital,
	})

	capital := initialCapital
	for i := range sorted {
		t := &sorted[i]
		capital += t.RealizedProfit()
		points = append(points, Point{
			Time:    t.CloseTime.Time,
			Capital: capital,
			Trade:   t,
		})
	}

	return &Curve{Segments: segment(points, palette)}, nil
}

// segment groups points into symbol runs. The synthetic start point belongs
// to the first symbol's segment; every later symbol change opens a new
// segment seeded with the previous segment's last point as its leading
// boundary, so adjacent segments connect without a gap.
func segment(points []Point, palette Palette) []Segment {
	// points always holds the synthetic start plus at least one trade.
	first := points[1].Trade.Symbol
	cur := Segment{
		Symbol: first,
		Color:  palette.Lookup(first),
		Points: []Point{points[0], points[1]},
	}

	var segs []Segment
	for _, p := range points[2:] {
		if p.Trade.Symbol != cur.Symbol {
			boundary := cur.Points[len(cur.Points)-1]
			segs = append(segs, cur)
			cur = Segment{
				Symbol: p.Trade.Symbol,
				Color:  palette.Lookup(p.Trade.Symbol),
				Points: []Point{boundary},
			}
		}
		cur.Points = append(cur.Points, p)
	}
	return append(segs, cur)
}
