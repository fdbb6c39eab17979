package ta

import (
	"math"
	"testing"
)

func TestSMA(t *testing.T) {
	closes := []float64{2660, 2650, 2640, 2630}
	if got := SMA(closes, 2); got != 2655 {
		t.Errorf("SMA(2) = %.2f, want 2655", got)
	}
	if got := SMA(closes, 4); got != 2645 {
		t.Errorf("SMA(4) = %.2f, want 2645", got)
	}
	if got := SMA(closes, 5); !math.IsNaN(got) {
		t.Errorf("SMA with short series = %.2f, want NaN", got)
	}
}

func TestStdDevAlternatingSeries(t *testing.T) {
	closes := make([]float64, 20)
	for i := range closes {
		if i%2 == 0 {
			closes[i] = 2660.0
		} else {
			closes[i] = 2640.0
		}
	}
	if got := StdDev(closes, 20); math.Abs(got-10.0) > 1e-9 {
		t.Errorf("StdDev = %.4f, want 10.0", got)
	}
}

func TestStdDevFlatSeries(t *testing.T) {
	closes := make([]float64, 20)
	for i := range closes {
		closes[i] = 2650.0
	}
	if got := StdDev(closes, 20); got != 0 {
		t.Errorf("StdDev of flat series = %.4f, want 0", got)
	}
}

func TestRSI(t *testing.T) {
	// Newest first: every period gained, RSI pegs at 100.
	rising := []float64{2670, 2660, 2650, 2640, 2630}
	if got := RSI(rising, 4); got != 100.0 {
		t.Errorf("RSI of pure up-move = %.2f, want 100", got)
	}

	falling := []float64{2630, 2640, 2650, 2660, 2670}
	if got := RSI(falling, 4); got != 0.0 {
		t.Errorf("RSI of pure down-move = %.2f, want 0", got)
	}

	// Equal gains and losses balance at 50.
	mixed := []float64{2650, 2640, 2650, 2640, 2650}
	if got := RSI(mixed, 4); math.Abs(got-50.0) > 1e-9 {
		t.Errorf("RSI of balanced series = %.2f, want 50", got)
	}

	if got := RSI(rising, 5); !math.IsNaN(got) {
		t.Errorf("RSI with short series = %.2f, want NaN", got)
	}
}
