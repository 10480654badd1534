package histogram

import (
	"bufio"
	"fmt"
	"io"
)

// Row is one populated cell of a binned histogram.
type Row struct {
	Coordinates []float64
	Value       float64
}

// Rows returns every populated cell in CounterIndex order. With density set
// the value is Density, otherwise BinCount.
func (h *Histogram) Rows(density bool) ([]Row, error) {
	ci, err := h.Begin()
	if err != nil {
		return nil, err
	}
	var rows []Row
	for ; !ci.AtEnd(); ci.Next() {
		raw, err := h.RawCount(ci)
		if err != nil {
			return nil, err
		}
		if raw == 0 {
			continue
		}
		coords, err := h.Coordinates(ci)
		if err != nil {
			return nil, err
		}
		var v float64
		if density {
			v, err = h.Density(ci)
		} else {
			v, err = h.BinCount(ci)
		}
		if err != nil {
			return nil, err
		}
		rows = append(rows, Row{Coordinates: coords, Value: v})
	}
	return rows, nil
}

// WriteText writes one whitespace-separated line per populated cell:
// the bin-centre coordinates followed by the value.
func (h *Histogram) WriteText(w io.Writer, density bool) error {
	rows, err := h.Rows(density)
	if err != nil {
		return err
	}
	bw := bufio.NewWriter(w)
	for _, r := range rows {
		for _, c := range r.Coordinates {
			fmt.Fprintf(bw, "%.6e ", c)
		}
		fmt.Fprintf(bw, "%.6e\n", r.Value)
	}
	return bw.Flush()
}
