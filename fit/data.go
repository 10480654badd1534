package fit

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/molstat/molstat/sim/histogram"
)

// ParseGuess reads named initial-guess values from tokens such as
// "gamma=10 norm=2" or "gamma 10 norm 2". Names are lower-cased. A value
// that is not a number is skipped, as is a trailing name with no value.
func ParseGuess(s string) map[string]float64 {
	tokens := strings.Fields(strings.ReplaceAll(s, "=", " "))
	out := make(map[string]float64)
	for i := 0; i+1 < len(tokens); i += 2 {
		v, err := strconv.ParseFloat(tokens[i+1], 64)
		if err != nil {
			continue
		}
		out[strings.ToLower(tokens[i])] = v
	}
	return out
}

// readFields returns every whitespace-separated number in r. Text after
// '#' on a line is ignored.
func readFields(r io.Reader) ([]float64, error) {
	var out []float64
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := sc.Text()
		if i := strings.IndexByte(text, '#'); i >= 0 {
			text = text[:i]
		}
		for _, f := range strings.Fields(text) {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: %q is not a number", line, f)
			}
			out = append(out, v)
		}
	}
	return out, sc.Err()
}

// ReadPoints reads "x f" pairs, such as the output of a density histogram.
func ReadPoints(r io.Reader) ([]Point, error) {
	vals, err := readFields(r)
	if err != nil {
		return nil, err
	}
	if len(vals)%2 != 0 {
		return nil, errors.New("data has an odd number of values; expected x f pairs")
	}
	pts := make([]Point, 0, len(vals)/2)
	for i := 0; i < len(vals); i += 2 {
		pts = append(pts, Point{X: vals[i], F: vals[i+1]})
	}
	return pts, nil
}

// ReadSamples reads raw observations, one or more per line.
func ReadSamples(r io.Reader) ([]float64, error) {
	return readFields(r)
}

// BinSamples bins raw observations with style and returns one point per
// populated bin: the bin centre and the probability density.
func BinSamples(samples []float64, style histogram.BinStyle) ([]Point, error) {
	h, err := histogram.New(1)
	if err != nil {
		return nil, err
	}
	for _, s := range samples {
		if err := h.AddData([]float64{s}); err != nil {
			return nil, err
		}
	}
	if err := h.BinData([]histogram.BinStyle{style}); err != nil {
		return nil, fmt.Errorf("binning samples: %w", err)
	}
	rows, err := h.Rows(true)
	if err != nil {
		return nil, err
	}
	pts := make([]Point, len(rows))
	for i, r := range rows {
		pts[i] = Point{X: r.Coordinates[0], F: r.Value}
	}
	return pts, nil
}
