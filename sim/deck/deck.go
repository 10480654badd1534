// Package deck reads simulation run specs from the line-oriented input deck
// and from YAML.
//
// A deck looks like:
//
//	# comment
//	observable_x StaticConductance 100 log
//	observable_y AppliedBias 50 linear
//	model TransportJunction
//	    distribution ef constant 0
//	    distribution v uniform 0 1
//	    model SymmetricOneSiteChannel
//	        distribution epsilon normal -3 0.5
//	        distribution gamma lognormal -3 0.2
//	        distribution a constant 0
//	    endmodel
//	endmodel
//	trials 100000
//	output hist.dat
//
// Commands are case-insensitive. Malformed lines are reported as
// diagnostics and skipped; only an unterminated model block is fatal.
package deck

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/molstat/molstat/sim"
)

// ErrMissingEndModel is returned when input ends inside a model block.
var ErrMissingEndModel = errors.New(`missing "endmodel"`)

// observableSlots maps each observable command to its slot.
var observableSlots = map[string]int{
	"observable":   0,
	"observable_x": 0,
	"observable_y": 1,
}

var binSlots = map[string]int{
	"bin":   0,
	"bin_x": 0,
	"bin_y": 1,
}

type parser struct {
	spec  sim.RunSpec
	diags []sim.Diagnostic
	stack []*sim.ModelSpec
	bins  map[int]string
	line  int
}

func (p *parser) warn(format string, args ...any) {
	p.diags = append(p.diags, sim.Diagnostic{Line: p.line, Message: fmt.Sprintf(format, args...)})
}

// Parse reads a deck. The returned diagnostics describe lines that were
// ignored; the run spec is still usable when err is nil.
func Parse(r io.Reader) (*sim.RunSpec, []sim.Diagnostic, error) {
	p := &parser{bins: make(map[int]string)}
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		p.line++
		text := sc.Text()
		if i := strings.IndexByte(text, '#'); i >= 0 {
			text = text[:i]
		}
		fields := strings.Fields(text)
		if len(fields) == 0 {
			continue
		}
		p.command(strings.ToLower(fields[0]), fields[1:])
	}
	if err := sc.Err(); err != nil {
		return nil, p.diags, fmt.Errorf("reading deck: %w", err)
	}
	if len(p.stack) > 0 {
		open := p.stack[len(p.stack)-1]
		return nil, p.diags, fmt.Errorf("line %d: model %s: %w", open.Line, open.Type, ErrMissingEndModel)
	}
	p.applyBins()
	return &p.spec, p.diags, nil
}

func (p *parser) command(cmd string, args []string) {
	inModel := len(p.stack) > 0
	switch {
	case cmd == "model":
		if len(args) == 0 {
			p.warn("no model type specified")
			// still open a block so its endmodel pairs up
		}
		m := &sim.ModelSpec{Line: p.line}
		if len(args) > 0 {
			m.Type = args[0]
		}
		p.stack = append(p.stack, m)
	case cmd == "endmodel":
		if !inModel {
			p.warn(`"endmodel" outside a model block`)
			return
		}
		p.closeModel()
	case cmd == "distribution":
		if !inModel {
			p.warn(`"distribution" outside a model block`)
			return
		}
		p.distribution(args)
	case inModel:
		p.warn("unknown model command %q", cmd)
	case cmd == "trials":
		p.trials(args)
	case cmd == "output":
		if len(args) == 0 {
			p.warn("no output file name specified")
			return
		}
		p.spec.Output = args[0]
	default:
		if slot, ok := observableSlots[cmd]; ok {
			p.observable(slot, args)
			return
		}
		if slot, ok := binSlots[cmd]; ok {
			p.bin(slot, args)
			return
		}
		p.warn("unknown command %q", cmd)
	}
}

func (p *parser) closeModel() {
	m := p.stack[len(p.stack)-1]
	p.stack = p.stack[:len(p.stack)-1]
	if m.Type == "" {
		return
	}
	if len(p.stack) > 0 {
		parent := p.stack[len(p.stack)-1]
		parent.Submodels = append(parent.Submodels, *m)
		return
	}
	if p.spec.Model != nil {
		p.diags = append(p.diags, sim.Diagnostic{Line: m.Line,
			Message: fmt.Sprintf("model %s ignored: only one top-level model is allowed", m.Type)})
		return
	}
	p.spec.Model = m
}

func (p *parser) distribution(args []string) {
	if len(args) == 0 {
		p.warn("no parameter name specified")
		return
	}
	if len(args) == 1 {
		p.warn("no distribution type specified for %s", args[0])
		return
	}
	vals, err := parseFloats(args[2:])
	if err != nil {
		p.warn("distribution %s: %v", args[0], err)
		return
	}
	m := p.stack[len(p.stack)-1]
	m.Distributions = append(m.Distributions, sim.ParameterSpec{
		Name:     args[0],
		DistSpec: sim.DistSpec{Type: args[1], Args: vals},
		Line:     p.line,
	})
}

func (p *parser) observable(slot int, args []string) {
	if len(args) == 0 {
		p.warn("no observable specified")
		return
	}
	bins := sim.DefaultBins
	if len(args) > 1 {
		bins = strings.Join(args[1:], " ")
	}
	p.spec.Observables = append(p.spec.Observables, sim.ObservableSpec{
		Slot: slot,
		Name: args[0],
		Bins: bins,
		Line: p.line,
	})
}

func (p *parser) bin(slot int, args []string) {
	if len(args) < 2 {
		p.warn(`expected "<nbins> <style> [base]"`)
		return
	}
	p.bins[slot] = strings.Join(args, " ")
}

// applyBins overrides the bin style of the last observable in each slot.
func (p *parser) applyBins() {
	for slot := 0; slot <= 1; slot++ {
		bins, ok := p.bins[slot]
		if !ok {
			continue
		}
		found := false
		for i := len(p.spec.Observables) - 1; i >= 0; i-- {
			if p.spec.Observables[i].Slot == slot {
				p.spec.Observables[i].Bins = bins
				found = true
				break
			}
		}
		if !found {
			p.diags = append(p.diags, sim.Diagnostic{Message: fmt.Sprintf("bin style for slot %d has no observable", slot)})
		}
	}
}

func (p *parser) trials(args []string) {
	if len(args) == 0 {
		p.warn("no trial count specified")
		return
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n <= 0 {
		p.warn("trials must be a positive integer, got %q", args[0])
		return
	}
	p.spec.Trials = n
}

func parseFloats(fields []string) ([]float64, error) {
	out := make([]float64, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, fmt.Errorf("argument %q is not a number", f)
		}
		out = append(out, v)
	}
	return out, nil
}

// Load reads a run spec from path, choosing the YAML loader for .yaml and
// .yml files and the deck parser otherwise.
func Load(path string) (*sim.RunSpec, []sim.Diagnostic, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		spec, err := LoadYAML(path)
		return spec, nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("reading deck: %w", err)
	}
	defer f.Close()
	return Parse(f)
}
