package generator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/txnlab/schedlab/core/analysis"
	"github.com/txnlab/schedlab/core/schedule"
)

// Requirement is a tri-state constraint on one property.
type Requirement int

const (
	Any         Requirement = iota // Property may hold or not
	MustHold                       // Property must be true
	MustNotHold                    // Property must be false
)

// Target is the requested combination of property requirements, e.g.
// "view-serializable but not conflict-serializable, and strict".
type Target struct {
	ConflictSerializable  Requirement
	ViewSerializable      Requirement
	Recoverable           Requirement
	AvoidsCascadingAborts Requirement
	Strict                Requirement
}

// Matches reports whether a report satisfies every requirement.
func (t Target) Matches(r analysis.Report) bool {
	checks := []struct {
		req Requirement
		got bool
	}{
		{t.ConflictSerializable, r.ConflictSerializable},
		{t.ViewSerializable, r.ViewSerializable},
		{t.Recoverable, r.Recoverable},
		{t.AvoidsCascadingAborts, r.AvoidsCascadingAborts},
		{t.Strict, r.Strict},
	}
	for _, c := range checks {
		if c.req == MustHold && !c.got {
			return false
		}
		if c.req == MustNotHold && c.got {
			return false
		}
	}
	return true
}

// ParseTarget builds a Target from property names, one per element. A
// leading "!" negates. Recognized names (with short aliases):
// conflict-serializable (cs), view-serializable (vs), recoverable (rec),
// aca, strict.
func ParseTarget(props []string) (Target, error) {
	var t Target
	for _, raw := range props {
		req := MustHold
		name := strings.TrimSpace(strings.ToLower(raw))
		if strings.HasPrefix(name, "!") {
			req = MustNotHold
			name = name[1:]
		}
		switch name {
		case "conflict-serializable", "cs":
			t.ConflictSerializable = req
		case "view-serializable", "vs":
			t.ViewSerializable = req
		case "recoverable", "rec":
			t.Recoverable = req
		case "aca", "avoids-cascading-aborts":
			t.AvoidsCascadingAborts = req
		case "strict":
			t.Strict = req
		default:
			return Target{}, fmt.Errorf("unknown property %q", raw)
		}
	}
	return t, nil
}

// Result is the outcome of a property search. Found=false after exhausting
// the attempt budget is a normal, reportable outcome, not an error.
type Result struct {
	Found    bool
	Attempts int
	ID       uuid.UUID
	Schedule *schedule.Schedule
	Report   analysis.Report
}

// Search generates up to maxAttempts random schedules and returns the first
// whose analysis report matches the target. Schedules too large for the
// view-equivalence budget are skipped and still count as attempts; any other
// generation failure aborts the search.
func Search(rng randSource, cfg Config, target Target, maxAttempts int) (Result, error) {
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		s, err := Generate(rng, cfg)
		if err != nil {
			return Result{Attempts: attempt}, err
		}
		report, err := analysis.Analyze(s)
		if err != nil {
			var budget *analysis.BudgetError
			if errors.As(err, &budget) {
				continue
			}
			return Result{Attempts: attempt}, err
		}
		if target.Matches(report) {
			return Result{
				Found:    true,
				Attempts: attempt,
				ID:       uuid.New(),
				Schedule: s,
				Report:   report,
			}, nil
		}
	}
	return Result{Attempts: maxAttempts}, nil
}
