package analysis

import (
	"strings"

	"github.com/txnlab/schedlab/core/schedule"
)

// Report bundles the five property verdicts for one schedule.
type Report struct {
	ConflictSerializable  bool `json:"conflict_serializable" yaml:"conflict_serializable"`
	ViewSerializable      bool `json:"view_serializable" yaml:"view_serializable"`
	Recoverable           bool `json:"recoverable" yaml:"recoverable"`
	AvoidsCascadingAborts bool `json:"avoids_cascading_aborts" yaml:"avoids_cascading_aborts"`
	Strict                bool `json:"strict" yaml:"strict"`
}

// Analyze runs all five analyzers over the schedule. The only possible error
// is a BudgetError from the view-equivalence search; the other four verdicts
// are still valid when it is returned.
func Analyze(s *schedule.Schedule) (Report, error) {
	r := Report{
		ConflictSerializable:  ConflictSerializable(s),
		Recoverable:           Recoverable(s),
		AvoidsCascadingAborts: AvoidsCascadingAborts(s),
		Strict:                Strict(s),
	}
	vs, err := ViewSerializable(s)
	r.ViewSerializable = vs
	return r, err
}

// Short renders the verdicts as a five-letter T/F string in the order
// view-serializable, conflict-serializable, recoverable, ACA, strict.
func (r Report) Short() string {
	verdicts := []bool{
		r.ViewSerializable,
		r.ConflictSerializable,
		r.Recoverable,
		r.AvoidsCascadingAborts,
		r.Strict,
	}
	var b strings.Builder
	for _, v := range verdicts {
		if v {
			b.WriteByte('T')
		} else {
			b.WriteByte('F')
		}
	}
	return b.String()
}
