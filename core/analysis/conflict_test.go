package analysis

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/txnlab/schedlab/core/schedule"
)

func mustParse(t *testing.T, text string) *schedule.Schedule {
	t.Helper()
	s, err := schedule.Parse(text)
	require.NoError(t, err)
	return s
}

// R1(A) W2(A) W1(A): the read-write pair gives T1->T2 and the write-write
// pair gives T2->T1, so the graph has a two-node cycle.
func TestConflictGraphCycle(t *testing.T) {
	s := mustParse(t, "R1(A) W2(A) W1(A) C1 C2")
	g := BuildConflictGraph(s)
	require.Equal(t, []int{1, 2}, g.Nodes())
	require.ElementsMatch(t, []Edge{{From: 1, To: 2}, {From: 2, To: 1}}, g.Edges())
	require.True(t, g.HasCycle())
	require.False(t, ConflictSerializable(s))
}

func TestConflictGraphAcyclic(t *testing.T) {
	s := mustParse(t, "W1(A) C1 R2(A) C2")
	g := BuildConflictGraph(s)
	require.Equal(t, []Edge{{From: 1, To: 2}}, g.Edges())
	require.False(t, g.HasCycle())
	require.True(t, ConflictSerializable(s))
}

func TestConflictGraphDeduplicatesEdges(t *testing.T) {
	// Three distinct conflicting pairs between the same two transactions in
	// the same direction collapse to one edge.
	s := mustParse(t, "W1(A) W1(B) R2(A) W2(A) R2(B) C1 C2")
	g := BuildConflictGraph(s)
	require.Equal(t, []Edge{{From: 1, To: 2}}, g.Edges())
}

func TestConflictGraphIgnoresAbortedTransactions(t *testing.T) {
	// The aborted T2 would close a cycle; without it the schedule is
	// conflict-serializable.
	s := mustParse(t, "R1(A) W2(A) W1(A) C1 A2")
	g := BuildConflictGraph(s)
	require.Equal(t, []int{1}, g.Nodes())
	require.Empty(t, g.Edges())
	require.True(t, ConflictSerializable(s))
}

func TestConflictGraphReadsDoNotConflict(t *testing.T) {
	s := mustParse(t, "R1(A) R2(A) R1(A) C1 C2")
	require.Empty(t, BuildConflictGraph(s).Edges())
}

// A serial schedule can only have forward edges, so it is always acyclic.
func TestSerialScheduleIsConflictSerializable(t *testing.T) {
	s := mustParse(t, "R1(A) W1(B) C1 R2(B) W2(A) C2 W3(A) C3")
	require.True(t, s.IsSerial())
	require.True(t, ConflictSerializable(s))
}

func TestConflictGraphThreeNodeCycle(t *testing.T) {
	// T1->T2 on A, T2->T3 on B, T3->T1 on C.
	s := mustParse(t, "W1(A) R2(A) W2(B) R3(B) W3(C) R1(C) C1 C2 C3")
	g := BuildConflictGraph(s)
	require.True(t, g.HasCycle())
}

// Building the graph twice yields the identical edge set: the result depends
// only on the schedule, not on discovery order or hidden state.
func TestConflictGraphDeterministic(t *testing.T) {
	s := mustParse(t, "R1(A) W2(A) W1(B) R2(B) W3(A) C1 C2 C3")
	g1 := BuildConflictGraph(s)
	g2 := BuildConflictGraph(s)
	require.Equal(t, g1.Nodes(), g2.Nodes())
	require.Equal(t, g1.Edges(), g2.Edges())
	require.Equal(t, g1.HasCycle(), g2.HasCycle())
}
