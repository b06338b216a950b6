package render

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/txnlab/schedlab/core/analysis"
	"github.com/txnlab/schedlab/core/schedule"
)

func TestActionTeX(t *testing.T) {
	require.Equal(t, "$R_{1}(A)$", ActionTeX(schedule.R(1, "A")))
	require.Equal(t, "$W_{2}(B)$", ActionTeX(schedule.W(2, "B")))
	require.Equal(t, "$\\text{Commit}_{1}$", ActionTeX(schedule.Commit(1)))
	require.Equal(t, "$\\text{Abort}_{2}$", ActionTeX(schedule.Abort(2)))
}

func TestScheduleTable(t *testing.T) {
	s := schedule.MustNew([]schedule.Action{
		schedule.R(1, "A"),
		schedule.W(2, "A"),
		schedule.Commit(1),
	})
	want := "\\begin{tabular}{|c|c|}\n" +
		"\\hline\n" +
		"$T_1$&$T_2$\\\\\\hline\n" +
		"$R_{1}(A)$&\\\\\\hline\n" +
		"&$W_{2}(A)$\\\\\\hline\n" +
		"$\\text{Commit}_{1}$&\\\\\\hline\n" +
		"\\end{tabular}\n"
	require.Equal(t, want, ScheduleTable(s))
}

// Columns are ordered by transaction id even when the transactions first
// appear in a different order.
func TestScheduleTableColumnOrder(t *testing.T) {
	s := schedule.MustNew([]schedule.Action{
		schedule.W(2, "A"),
		schedule.R(1, "A"),
	})
	got := ScheduleTable(s)
	require.Contains(t, got, "$T_1$&$T_2$")
	require.Contains(t, got, "&$W_{2}(A)$\\\\\\hline\n")
	require.Contains(t, got, "$R_{1}(A)$&\\\\\\hline\n")
}

func TestConflictGraphDOT(t *testing.T) {
	s := schedule.MustNew([]schedule.Action{
		schedule.R(1, "A"),
		schedule.W(2, "A"),
		schedule.W(1, "A"),
		schedule.Commit(1),
		schedule.Commit(2),
	})
	g := analysis.BuildConflictGraph(s)
	want := "digraph conflicts {\n" +
		"\trankdir=LR;\n" +
		"\tnode [shape=circle];\n" +
		"\t\"T1\";\n" +
		"\t\"T2\";\n" +
		"\t\"T1\" -> \"T2\";\n" +
		"\t\"T2\" -> \"T1\";\n" +
		"}\n"
	require.Equal(t, want, ConflictGraphDOT(g))

	// Rendering is stable: same schedule, same output.
	require.Equal(t, ConflictGraphDOT(g), ConflictGraphDOT(analysis.BuildConflictGraph(s)))
}
