package histogram

import "fmt"

// CounterIndex is a mixed-radix odometer over a fixed set of extents.
// Axis 0 is the fastest-varying digit. After the last combination the index
// wraps to all zeros and sets an end flag; it is reusable via Reset.
type CounterIndex struct {
	extents []int
	index   []int
	end     bool
}

// NewCounterIndex builds a CounterIndex at the all-zero position. The extents
// are copied, so later changes to the caller's slice have no effect.
func NewCounterIndex(extents []int) (*CounterIndex, error) {
	ext := make([]int, len(extents))
	for i, e := range extents {
		if e <= 0 {
			return nil, fmt.Errorf("axis %d extent %d: %w", i, e, ErrZeroExtent)
		}
		ext[i] = e
	}
	return &CounterIndex{
		extents: ext,
		index:   make([]int, len(ext)),
	}, nil
}

// Dims returns the number of axes.
func (c *CounterIndex) Dims() int { return len(c.extents) }

// Extents returns a copy of the per-axis extents.
func (c *CounterIndex) Extents() []int {
	out := make([]int, len(c.extents))
	copy(out, c.extents)
	return out
}

// AtEnd reports whether the index has wrapped past its last combination.
func (c *CounterIndex) AtEnd() bool { return c.end }

// Next advances to the next combination. Once at end it is a no-op.
func (c *CounterIndex) Next() {
	if c.end {
		return
	}
	for j := range c.index {
		c.index[j]++
		if c.index[j] < c.extents[j] {
			return
		}
		c.index[j] = 0
	}
	// every digit carried out: the odometer wrapped
	c.end = true
}

// At returns the digit on the given axis.
func (c *CounterIndex) At(axis int) (int, error) {
	if c.end {
		return 0, ErrAtEnd
	}
	if axis < 0 || axis >= len(c.index) {
		return 0, fmt.Errorf("axis %d of %d: %w", axis, len(c.index), ErrOutOfRange)
	}
	return c.index[axis], nil
}

// SetIndex moves the digit on one axis.
func (c *CounterIndex) SetIndex(axis, val int) error {
	if c.end {
		return ErrAtEnd
	}
	if axis < 0 || axis >= len(c.index) {
		return fmt.Errorf("axis %d of %d: %w", axis, len(c.index), ErrOutOfRange)
	}
	if val < 0 || val >= c.extents[axis] {
		return fmt.Errorf("axis %d value %d with extent %d: %w", axis, val, c.extents[axis], ErrOutOfRange)
	}
	c.index[axis] = val
	return nil
}

// Offset returns the row-major linear offset with axis 0 fastest:
// Σ idx[j]·Π extents[k<j].
func (c *CounterIndex) Offset() (int, error) {
	if c.end {
		return 0, ErrAtEnd
	}
	offset, stride := 0, 1
	for j, v := range c.index {
		offset += v * stride
		stride *= c.extents[j]
	}
	return offset, nil
}

// Reset returns to the all-zero position and clears the end flag.
func (c *CounterIndex) Reset() {
	for j := range c.index {
		c.index[j] = 0
	}
	c.end = false
}

// Size returns the number of combinations, Π extents.
func (c *CounterIndex) Size() int {
	n := 1
	for _, e := range c.extents {
		n *= e
	}
	return n
}

func (c *CounterIndex) matches(extents []int) bool {
	if len(extents) != len(c.extents) {
		return false
	}
	for i := range extents {
		if extents[i] != c.extents[i] {
			return false
		}
	}
	return true
}
