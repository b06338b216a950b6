package analysis_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/txnlab/schedlab/core/analysis"
	"github.com/txnlab/schedlab/core/generator"
	"github.com/txnlab/schedlab/core/schedule"
)

// The implication chains from the theory must hold on every schedule:
// strict => ACA => recoverable, and conflict-serializable =>
// view-serializable. Checked over a few hundred seeded random schedules.
func TestImplicationChainsOnRandomSchedules(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	cfg := generator.DefaultConfig()

	for i := 0; i < 300; i++ {
		s, err := generator.Generate(rng, cfg)
		require.NoError(t, err)

		r, err := analysis.Analyze(s)
		require.NoError(t, err, "schedule %s", s)

		if r.Strict {
			require.True(t, r.AvoidsCascadingAborts, "strict but not ACA: %s", s)
		}
		if r.AvoidsCascadingAborts {
			require.True(t, r.Recoverable, "ACA but not recoverable: %s", s)
		}
		if r.ConflictSerializable {
			require.True(t, r.ViewSerializable, "conflict- but not view-serializable: %s", s)
		}

		// Analyzing the same schedule again must reproduce the report.
		again, err := analysis.Analyze(s)
		require.NoError(t, err)
		require.Equal(t, r, again, "analysis not idempotent: %s", s)
	}
}

// A committed serial schedule satisfies all five properties.
func TestSerialScheduleHasEveryProperty(t *testing.T) {
	s := schedule.MustNew([]schedule.Action{
		schedule.R(1, "A"), schedule.W(1, "B"), schedule.Commit(1),
		schedule.W(2, "A"), schedule.R(2, "B"), schedule.Commit(2),
		schedule.W(3, "B"), schedule.Commit(3),
	})
	require.True(t, s.IsSerial())

	r, err := analysis.Analyze(s)
	require.NoError(t, err)
	require.Equal(t, analysis.Report{
		ConflictSerializable:  true,
		ViewSerializable:      true,
		Recoverable:           true,
		AvoidsCascadingAborts: true,
		Strict:                true,
	}, r)
	require.Equal(t, "TTTTT", r.Short())
}

func TestReportShort(t *testing.T) {
	r := analysis.Report{ViewSerializable: true, Recoverable: true}
	require.Equal(t, "TFTFF", r.Short())
}
