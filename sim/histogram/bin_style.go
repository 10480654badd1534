package histogram

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// BinStyle maps raw values onto a space where bins have uniform width.
// Mask must be strictly monotonic over the supported domain and InvMask its
// inverse; DMaskDx is the Jacobian used to convert counts back to a density
// in the raw variable.
type BinStyle interface {
	Bins() int
	Mask(x float64) float64
	InvMask(u float64) float64
	DMaskDx(x float64) float64
	// InDomain reports whether x can be masked.
	InDomain(x float64) bool
	String() string
}

// === Linear ===

// Linear bins uniformly in the raw variable.
type Linear struct {
	NBins int
}

func (l Linear) Bins() int               { return l.NBins }
func (Linear) Mask(x float64) float64    { return x }
func (Linear) InvMask(u float64) float64 { return u }
func (Linear) DMaskDx(float64) float64   { return 1 }
func (Linear) InDomain(x float64) bool   { return !math.IsNaN(x) && !math.IsInf(x, 0) }
func (l Linear) String() string          { return fmt.Sprintf("%d bins, linear", l.NBins) }

// === Log ===

// Log bins uniformly in log_base(x). Only positive values are in its domain.
type Log struct {
	NBins int
	Base  float64
}

// NewLog returns a logarithmic style; base must be positive and not 1.
func NewLog(nbins int, base float64) (Log, error) {
	if !(base > 0) || base == 1 {
		return Log{}, fmt.Errorf("log base %g: %w", base, ErrInvalidBinStyle)
	}
	return Log{NBins: nbins, Base: base}, nil
}

func (l Log) Bins() int { return l.NBins }

func (l Log) Mask(x float64) float64 { return math.Log(x) / math.Log(l.Base) }

func (l Log) InvMask(u float64) float64 { return math.Pow(l.Base, u) }

func (l Log) DMaskDx(x float64) float64 { return 1 / (x * math.Log(l.Base)) }

func (Log) InDomain(x float64) bool { return x > 0 && !math.IsInf(x, 0) }

func (l Log) String() string {
	return fmt.Sprintf("%d bins, log (base %g)", l.NBins, l.Base)
}

// === Factory ===

// DefaultLogBase is used when a log style omits its base.
const DefaultLogBase = 10.0

// ValidBinStyles lists the style names understood by NewBinStyle.
var ValidBinStyles = map[string]bool{
	"linear": true,
	"log":    true,
}

// NewBinStyle constructs a style by name. Log styles take an optional base.
func NewBinStyle(nbins int, name string, args ...float64) (BinStyle, error) {
	if nbins <= 0 {
		return nil, fmt.Errorf("%d bins: %w", nbins, ErrInvalidBinStyle)
	}
	switch strings.ToLower(name) {
	case "linear":
		return Linear{NBins: nbins}, nil
	case "log":
		base := DefaultLogBase
		if len(args) > 0 {
			base = args[0]
		}
		return NewLog(nbins, base)
	default:
		return nil, fmt.Errorf("unknown style %q: %w", name, ErrInvalidBinStyle)
	}
}

// ParseBinStyle parses the text form "<nbins> <style> [base]".
func ParseBinStyle(s string) (BinStyle, error) {
	fields := strings.Fields(s)
	if len(fields) < 2 {
		return nil, fmt.Errorf("%q: expected \"<nbins> <style> [args]\": %w", s, ErrInvalidBinStyle)
	}
	nbins, err := strconv.Atoi(fields[0])
	if err != nil {
		return nil, fmt.Errorf("%q: bin count: %w", s, ErrInvalidBinStyle)
	}
	args := make([]float64, 0, len(fields)-2)
	for _, f := range fields[2:] {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, fmt.Errorf("%q: argument %q: %w", s, f, ErrInvalidBinStyle)
		}
		args = append(args, v)
	}
	return NewBinStyle(nbins, fields[1], args...)
}

// BinCenter returns the raw-space centre of bin j on an axis whose masked
// range starts at lo with bin width w: the mean of the inverse mask at the
// bin's two edges.
func BinCenter(s BinStyle, lo, w float64, j int) float64 {
	return 0.5 * (s.InvMask(lo+float64(j)*w) + s.InvMask(lo+float64(j+1)*w))
}

// Resize returns s with n bins. Styles other than Linear and Log become
// linear.
func Resize(s BinStyle, n int) BinStyle {
	switch v := s.(type) {
	case Log:
		v.NBins = n
		return v
	case Linear:
		v.NBins = n
		return v
	}
	return Linear{NBins: n}
}
