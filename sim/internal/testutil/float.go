// Package testutil provides float assertion helpers for the sim test
// packages.
package testutil

import (
	"math"
	"testing"
)

// AssertFloat64Equal compares two float64 values with relative tolerance.
func AssertFloat64Equal(t *testing.T, name string, want, got, relTol float64) {
	t.Helper()
	if want == 0 && got == 0 {
		return
	}
	diff := math.Abs(want - got)
	maxVal := math.Max(math.Abs(want), math.Abs(got))
	if diff/maxVal > relTol {
		t.Errorf("%s: got %v, want %v (diff=%v, relDiff=%v)", name, got, want, diff, diff/maxVal)
	}
}

// AssertSliceEqual applies AssertFloat64Equal element-wise.
func AssertSliceEqual(t *testing.T, name string, want, got []float64, relTol float64) {
	t.Helper()
	if len(want) != len(got) {
		t.Errorf("%s: got %d values, want %d", name, len(got), len(want))
		return
	}
	for i := range want {
		if math.Abs(want[i]-got[i]) < 1e-300 {
			continue
		}
		diff := math.Abs(want[i] - got[i])
		maxVal := math.Max(math.Abs(want[i]), math.Abs(got[i]))
		if diff/maxVal > relTol {
			t.Errorf("%s[%d]: got %v, want %v (relDiff=%v)", name, i, got[i], want[i], diff/maxVal)
		}
	}
}
