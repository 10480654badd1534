package histogram

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/molstat/molstat/sim/internal/testutil"
)

func TestLinear_Identity(t *testing.T) {
	s := Linear{NBins: 4}
	for _, x := range []float64{-3, 0, 0.25, 17} {
		assert.Equal(t, x, s.Mask(x))
		assert.Equal(t, x, s.InvMask(s.Mask(x)))
		assert.Equal(t, 1.0, s.DMaskDx(x))
	}
}

func TestLog_RoundTripAndJacobian(t *testing.T) {
	for _, base := range []float64{10, 2, math.E, 0.5} {
		s, err := NewLog(10, base)
		require.NoError(t, err)
		for _, x := range []float64{1e-5, 0.3, 1, 42} {
			testutil.AssertFloat64Equal(t, "inv(mask(x))", x, s.InvMask(s.Mask(x)), 1e-12)
			h := 1e-7 * x
			numeric := (s.Mask(x+h) - s.Mask(x-h)) / (2 * h)
			testutil.AssertFloat64Equal(t, "dmask/dx", numeric, s.DMaskDx(x), 1e-6)
		}
		assert.False(t, s.InDomain(0))
		assert.False(t, s.InDomain(-1))
	}
}

func TestNewLog_InvalidBase(t *testing.T) {
	for _, base := range []float64{0, -2, 1, math.NaN()} {
		_, err := NewLog(5, base)
		assert.ErrorIs(t, err, ErrInvalidBinStyle, "base %g", base)
	}
}

func TestParseBinStyle(t *testing.T) {
	tests := []struct {
		in       string
		wantBins int
		wantBase float64 // 0 means linear
		wantErr  bool
	}{
		{"5 linear", 5, 0, false},
		{"40 LINEAR", 40, 0, false},
		{"100 log", 100, DefaultLogBase, false},
		{"100 log 2", 100, 2, false},
		{"100 log -1", 0, 0, true},
		{"0 linear", 0, 0, true},
		{"ten linear", 0, 0, true},
		{"10 cubic", 0, 0, true},
		{"10", 0, 0, true},
		{"10 log e", 0, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			s, err := ParseBinStyle(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidBinStyle)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantBins, s.Bins())
			if tt.wantBase == 0 {
				assert.IsType(t, Linear{}, s)
			} else {
				require.IsType(t, Log{}, s)
				assert.Equal(t, tt.wantBase, s.(Log).Base)
			}
		})
	}
}

func TestBinCenter(t *testing.T) {
	assert.InDelta(t, 0.1, BinCenter(Linear{NBins: 5}, 0, 0.2, 0), 1e-15)
	assert.InDelta(t, 0.9, BinCenter(Linear{NBins: 5}, 0, 0.2, 4), 1e-15)

	// log bin [1, 10] has centre at the mean of its raw edges
	s, err := NewLog(2, 10)
	require.NoError(t, err)
	assert.InDelta(t, 5.5, BinCenter(s, 0, 1, 0), 1e-12)
}

func TestResize(t *testing.T) {
	assert.Equal(t, Linear{NBins: 1}, Resize(Linear{NBins: 10}, 1))
	assert.Equal(t, Log{NBins: 3, Base: 2}, Resize(Log{NBins: 10, Base: 2}, 3))
}
