// Package ta holds the indicator primitives the collector derives from
// hourly closes. All series are ordered newest first.
package ta

import "math"

// SMA averages the n most recent closes.
func SMA(closes []float64, n int) float64 {
	if n <= 0 || len(closes) < n {
		return math.NaN()
	}
	sum := 0.0
	for _, c := range closes[:n] {
		sum += c
	}
	return sum / float64(n)
}

// StdDev is the population standard deviation of the n most recent
// closes.
func StdDev(closes []float64, n int) float64 {
	if n <= 0 || len(closes) < n {
		return math.NaN()
	}
	m := SMA(closes, n)
	s := 0.0
	for _, c := range closes[:n] {
		d := c - m
		s += d * d
	}
	return math.Sqrt(s / float64(n))
}

// RSI is the relative strength index over the n most recent periods.
// A flawless up-move reads 100, a flawless down-move reads 0.
func RSI(closes []float64, n int) float64 {
	if n <= 0 || len(closes) < n+1 {
		return math.NaN()
	}
	gain, loss := 0.0, 0.0
	for i := 0; i < n; i++ {
		d := closes[i] - closes[i+1]
		if d > 0 {
			gain += d
		} else {
			loss -= d
		}
	}
	if loss == 0 {
		return 100.0
	}
	rs := gain / loss
	return 100.0 - (100.0 / (1.0 + rs))
}
