package fit

// Outcome classifies how one start of a multi-start fit ended.
type Outcome string

const (
	// OutcomeAccepted starts produced a finite, physical fit.
	OutcomeAccepted Outcome = "accepted"
	// OutcomeRejected starts converged to parameters the model refused.
	OutcomeRejected Outcome = "rejected"
	// OutcomeFailed starts diverged or stopped without a result.
	OutcomeFailed Outcome = "failed"
)

// StartRecord captures a single start of a fit.
type StartRecord struct {
	Index   int
	Guess   []float64
	Outcome Outcome
	Reason  string
	Params  []float64 // nil unless the optimizer returned a finite point
	Resid   float64
}

// StartSummary aggregates the start records of one Solve call.
type StartSummary struct {
	Total      int
	Accepted   int
	Rejected   int
	Failed     int
	BestResid  float64
	WorstResid float64 // largest residual among accepted starts
}

// SummarizeStarts computes aggregate statistics from start records.
// Safe for nil or empty input (returns zero-value fields).
func SummarizeStarts(starts []StartRecord) StartSummary {
	var s StartSummary
	s.Total = len(starts)
	first := true
	for _, r := range starts {
		switch r.Outcome {
		case OutcomeAccepted:
			s.Accepted++
			if first || r.Resid < s.BestResid {
				s.BestResid = r.Resid
			}
			if first || r.Resid > s.WorstResid {
				s.WorstResid = r.Resid
			}
			first = false
		case OutcomeRejected:
			s.Rejected++
		default:
			s.Failed++
		}
	}
	return s
}
