// Package histogram bins multi-dimensional samples.
//
// A Histogram is a two-phase object: samples are collected with AddData, then
// BinData fixes the bin grid exactly once. Query methods are only valid after
// binning; mutation is only valid before.
package histogram

import (
	"fmt"
	"math"
)

type phase int

const (
	collecting phase = iota
	binned
)

// Range is an explicit raw-space range for one axis.
type Range struct {
	Min, Max float64
}

// Histogram collects N-dimensional points and bins them once.
type Histogram struct {
	ndim  int
	phase phase

	// points are stored row-wise with stride ndim
	points []float64
	lo, hi []float64
	ranges []*Range

	styles  []BinStyle
	bins    []int
	lower   []float64 // masked lower bound per axis
	width   []float64 // masked bin width per axis
	centers [][]float64
	counts  []int
	total   int
	dropped int
}

// New returns an empty histogram of the given dimensionality.
func New(ndim int) (*Histogram, error) {
	if ndim <= 0 {
		return nil, fmt.Errorf("histogram dimension %d: %w", ndim, ErrDimensionMismatch)
	}
	h := &Histogram{
		ndim:   ndim,
		lo:     make([]float64, ndim),
		hi:     make([]float64, ndim),
		ranges: make([]*Range, ndim),
	}
	for i := range h.lo {
		h.lo[i] = math.Inf(1)
		h.hi[i] = math.Inf(-1)
	}
	return h, nil
}

// Dims returns the number of axes.
func (h *Histogram) Dims() int { return h.ndim }

// Len returns the number of points added.
func (h *Histogram) Len() int { return len(h.points) / h.ndim }

// Binned reports whether BinData has succeeded.
func (h *Histogram) Binned() bool { return h.phase == binned }

// AddData appends one point. The observed per-axis extremes are updated.
func (h *Histogram) AddData(point []float64) error {
	if h.phase != collecting {
		return ErrAlreadyBinned
	}
	if len(point) != h.ndim {
		return fmt.Errorf("point has %d coordinates, histogram has %d: %w", len(point), h.ndim, ErrDimensionMismatch)
	}
	for i, v := range point {
		h.lo[i] = math.Min(h.lo[i], v)
		h.hi[i] = math.Max(h.hi[i], v)
	}
	h.points = append(h.points, point...)
	return nil
}

// SetRange fixes the raw-space range of one axis instead of using the
// observed extremes. Points outside it are dropped when binning.
func (h *Histogram) SetRange(axis int, r Range) error {
	if h.phase != collecting {
		return ErrAlreadyBinned
	}
	if axis < 0 || axis >= h.ndim {
		return fmt.Errorf("axis %d of %d: %w", axis, h.ndim, ErrOutOfRange)
	}
	if r.Min > r.Max || math.IsNaN(r.Min) || math.IsNaN(r.Max) {
		return fmt.Errorf("range [%g, %g]: %w", r.Min, r.Max, ErrOutOfRange)
	}
	h.ranges[axis] = &Range{Min: r.Min, Max: r.Max}
	return nil
}

// Column returns a copy of every coordinate on one axis, in insertion order.
func (h *Histogram) Column(axis int) ([]float64, error) {
	if axis < 0 || axis >= h.ndim {
		return nil, fmt.Errorf("axis %d of %d: %w", axis, h.ndim, ErrOutOfRange)
	}
	out := make([]float64, 0, h.Len())
	for i := axis; i < len(h.points); i += h.ndim {
		out = append(out, h.points[i])
	}
	return out, nil
}

// Absorb appends every point of other, which is left untouched. Both
// histograms must still be collecting and share a dimensionality.
func (h *Histogram) Absorb(other *Histogram) error {
	if h.phase != collecting || other.phase != collecting {
		return ErrAlreadyBinned
	}
	if other.ndim != h.ndim {
		return fmt.Errorf("absorbing %d-d histogram into %d-d: %w", other.ndim, h.ndim, ErrDimensionMismatch)
	}
	for i := 0; i < h.ndim; i++ {
		h.lo[i] = math.Min(h.lo[i], other.lo[i])
		h.hi[i] = math.Max(h.hi[i], other.hi[i])
	}
	h.points = append(h.points, other.points...)
	return nil
}

// BinData assigns every point to a bin using one style per axis. It may
// succeed at most once; on error the histogram is left collecting.
func (h *Histogram) BinData(styles []BinStyle) error {
	if h.phase != collecting {
		return ErrAlreadyBinned
	}
	if len(styles) != h.ndim {
		return fmt.Errorf("%d bin styles for %d axes: %w", len(styles), h.ndim, ErrDimensionMismatch)
	}
	for i, s := range styles {
		if s == nil {
			return fmt.Errorf("axis %d: %w", i, ErrNilBinStyle)
		}
		if s.Bins() <= 0 {
			return fmt.Errorf("axis %d: %w", i, ErrZeroBins)
		}
	}

	lower := make([]float64, h.ndim)
	width := make([]float64, h.ndim)
	bins := make([]int, h.ndim)
	for i, s := range styles {
		bins[i] = s.Bins()
		lo, hi, err := h.maskedBounds(i, s)
		if err != nil {
			return err
		}
		if lo == hi && bins[i] != 1 {
			return &DegenerateRangeError{Axis: i, Bins: bins[i]}
		}
		lower[i] = lo
		width[i] = (hi - lo) / float64(bins[i])
	}

	ci, err := NewCounterIndex(bins)
	if err != nil {
		return err
	}
	counts := make([]int, ci.Size())
	total, dropped := 0, 0
	idx := make([]int, h.ndim)
	for p := 0; p < len(h.points); p += h.ndim {
		in := true
		for i, s := range styles {
			b, ok := h.locate(h.points[p+i], i, s, lower[i], width[i], bins[i])
			if !ok {
				in = false
				break
			}
			idx[i] = b
		}
		if !in {
			dropped++
			continue
		}
		offset, stride := 0, 1
		for i, b := range idx {
			offset += b * stride
			stride *= bins[i]
		}
		counts[offset]++
		total++
	}

	centers := make([][]float64, h.ndim)
	for i, s := range styles {
		centers[i] = make([]float64, bins[i])
		for j := range centers[i] {
			centers[i][j] = BinCenter(s, lower[i], width[i], j)
		}
	}

	h.styles = append([]BinStyle(nil), styles...)
	h.bins = bins
	h.lower = lower
	h.width = width
	h.centers = centers
	h.counts = counts
	h.total = total
	h.dropped = dropped
	h.phase = binned
	return nil
}

// maskedBounds returns the ordered masked range of one axis.
func (h *Histogram) maskedBounds(axis int, s BinStyle) (float64, float64, error) {
	var rlo, rhi float64
	if r := h.ranges[axis]; r != nil {
		rlo, rhi = r.Min, r.Max
	} else {
		if h.Len() == 0 {
			return 0, 0, ErrNoData
		}
		rlo, rhi = h.lo[axis], h.hi[axis]
		// every point is inside the observed range, so each must be maskable
		for p := axis; p < len(h.points); p += h.ndim {
			if !s.InDomain(h.points[p]) {
				return 0, 0, &DomainError{Axis: axis, Value: h.points[p], Style: s.String()}
			}
		}
	}
	for _, v := range []float64{rlo, rhi} {
		if !s.InDomain(v) {
			return 0, 0, &DomainError{Axis: axis, Value: v, Style: s.String()}
		}
	}
	a, b := s.Mask(rlo), s.Mask(rhi)
	if a > b {
		a, b = b, a
	}
	return a, b, nil
}

// locate returns the bin of x on one axis. The upper edge of the range is
// part of the last bin.
func (h *Histogram) locate(x float64, axis int, s BinStyle, lo, w float64, n int) (int, bool) {
	if r := h.ranges[axis]; r != nil && (x < r.Min || x > r.Max) {
		return 0, false
	}
	if !s.InDomain(x) {
		return 0, false
	}
	if w == 0 {
		return 0, true
	}
	b := int(math.Floor((s.Mask(x) - lo) / w))
	if b < 0 {
		b = 0
	}
	if b >= n {
		b = n - 1
	}
	return b, true
}

// === Binned queries ===

// Extents returns the number of bins per axis.
func (h *Histogram) Extents() ([]int, error) {
	if h.phase != binned {
		return nil, ErrNotBinned
	}
	return append([]int(nil), h.bins...), nil
}

// Begin returns a CounterIndex positioned at the first bin.
func (h *Histogram) Begin() (*CounterIndex, error) {
	if h.phase != binned {
		return nil, ErrNotBinned
	}
	return NewCounterIndex(h.bins)
}

func (h *Histogram) offset(ci *CounterIndex) (int, error) {
	if h.phase != binned {
		return 0, ErrNotBinned
	}
	if ci == nil || !ci.matches(h.bins) {
		return 0, ErrIndexMismatch
	}
	return ci.Offset()
}

// Coordinates returns the raw-space centre of the indexed bin.
func (h *Histogram) Coordinates(ci *CounterIndex) ([]float64, error) {
	if _, err := h.offset(ci); err != nil {
		return nil, err
	}
	out := make([]float64, h.ndim)
	for i := range out {
		out[i] = h.centers[i][ci.index[i]]
	}
	return out, nil
}

// RawCount returns the number of points that fell into the indexed bin.
func (h *Histogram) RawCount(ci *CounterIndex) (int, error) {
	off, err := h.offset(ci)
	if err != nil {
		return 0, err
	}
	return h.counts[off], nil
}

// BinCount returns the raw count scaled by the mask Jacobian at the bin
// centre on every axis. For linear axes it equals RawCount.
func (h *Histogram) BinCount(ci *CounterIndex) (float64, error) {
	off, err := h.offset(ci)
	if err != nil {
		return 0, err
	}
	v := float64(h.counts[off])
	for i, s := range h.styles {
		v *= s.DMaskDx(h.centers[i][ci.index[i]])
	}
	return v, nil
}

// Density returns BinCount normalized by the number of binned points and the
// masked bin volume, approximating the probability density in raw space.
// A single-bin axis with zero width contributes unit width.
func (h *Histogram) Density(ci *CounterIndex) (float64, error) {
	v, err := h.BinCount(ci)
	if err != nil {
		return 0, err
	}
	if h.total == 0 {
		return 0, nil
	}
	vol := 1.0
	for _, w := range h.width {
		if w > 0 {
			vol *= w
		}
	}
	return v / (float64(h.total) * vol), nil
}

// Total returns the number of binned points.
func (h *Histogram) Total() int { return h.total }

// Dropped returns the number of points outside an explicit range.
func (h *Histogram) Dropped() int { return h.dropped }
