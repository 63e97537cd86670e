// Package stats computes performance metrics over closed trades. All
// functions are pure: they take an ordered slice and return values, so they
// can be re-run on every poll without bookkeeping.
package stats

import (
	"math"

	"github.com/theglitchis/mt4dash/trades"
)

// RR returns the risk/reward ratio of a trade, directionally adjusted by
// its type. The second return is false when the ratio is undefined: missing
// stop or target, or a stop equal to the open price (zero risk distance).
func RR(t trades.Trade) (float64, bool) {
	if t.SL == nil || t.TP == nil || t.OpenPrice == *t.SL {
		return 0, false
	}
	if t.Type == trades.Buy {
		return (*t.TP - t.OpenPrice) / (t.OpenPrice - *t.SL), true
	}
	return (t.OpenPrice - *t.TP) / (*t.SL - t.OpenPrice), true
}

// Round2 rounds to two decimals for display. Averages are computed on raw
// values; only the rendered figure is rounded.
func Round2(x float64) float64 {
	return math.Round(x*100) / 100
}

// Summary aggregates closed-trade performance. Each average defaults to 0
// when nothing contributed to it, so an empty history renders as zeros
// rather than NaN.
type Summary struct {
	AvgRR     float64
	AvgGain   float64
	AvgLoss   float64
	Best      float64
	Worst     float64
	GainCount int
	LossCount int
}

// Summarize computes aggregate statistics over closed trades. Degenerate RR
// values (non-finite from pathological price levels) are excluded from the
// average rather than counted as zero.
func Summarize(closed []trades.Trade) Summary {
	var s Summary
	if len(closed) == 0 {
		return s
	}

	var rrTotal, gainTotal, lossTotal float64
	var rrCount int
	best := math.Inf(-1)
	worst := math.Inf(1)

	for _, t := range closed {
		p := t.RealizedProfit()
		best = math.Max(best, p)
		worst = math.Min(worst, p)
		if p >= 0 {
			gainTotal += p
			s.GainCount++
		} else {
			lossTotal += p
			s.LossCount++
		}

		if rr, ok := RR(t); ok && !math.IsInf(rr, 0) && !math.IsNaN(rr) {
			rrTotal += rr
			rrCount++
		}
	}

	if rrCount > 0 {
		s.AvgRR = rrTotal / float64(rrCount)
	}
	if s.GainCount > 0 {
		s.AvgGain = gainTotal / float64(s.GainCount)
	}
	if s.LossCount > 0 {
		s.AvgLoss = lossTotal / float64(s.LossCount)
	}
	s.Best = best
	s.Worst = worst
	return s
}

// MaxDrawdown returns the maximum percentage decline from the running peak
// of cumulative profit. The input must be in non-decreasing close-time
// order (trades.SortByCloseTime); an unsorted sequence produces a
// meaningless figure.
func MaxDrawdown(closed []trades.Trade) float64 {
	var peak, balance, maxDD float64
	for _, t := range closed {
		balance += t.RealizedProfit()
		peak = math.Max(peak, balance)
		if peak > 0 {
			maxDD = math.Max(maxDD, (peak-balance)/peak*100)
		}
	}
	return maxDD
}
