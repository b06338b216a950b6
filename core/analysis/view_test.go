package analysis

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestViewSerializableWhenConflictSerializable(t *testing.T) {
	s := mustParse(t, "W1(A) C1 R2(A) C2")
	vs, err := ViewSerializable(s)
	require.NoError(t, err)
	require.True(t, vs)
}

// The classic separation: blind writes make the schedule view-serializable
// (equivalent to the serial order T1 T2 T3) even though the conflict graph
// has a cycle between T1 and T2.
func TestViewButNotConflictSerializable(t *testing.T) {
	s := mustParse(t, "R1(A) W2(A) W1(A) W3(A) C1 C2 C3")
	require.False(t, ConflictSerializable(s))
	vs, err := ViewSerializable(s)
	require.NoError(t, err)
	require.True(t, vs)
}

// Without blind writes, view-serializability coincides with
// conflict-serializability, so the cyclic schedule fails both.
func TestNotViewSerializableWithoutBlindWrites(t *testing.T) {
	// The lost-update interleaving: both transactions read A before either
	// writes it.
	s := mustParse(t, "R1(A) R2(A) W1(A) W2(A) C1 C2")
	require.False(t, ConflictSerializable(s))
	vs, err := ViewSerializable(s)
	require.NoError(t, err)
	require.False(t, vs)
}

func TestViewSerializableIgnoresAbortedTransactions(t *testing.T) {
	// T2's aborted write would otherwise be read by nobody and break the
	// final-write comparison; dropped, the schedule is trivially serial.
	s := mustParse(t, "W1(A) W2(A) A2 C1")
	vs, err := ViewSerializable(s)
	require.NoError(t, err)
	require.True(t, vs)

	// A schedule where every transaction aborts is vacuously serializable.
	s = mustParse(t, "W1(A) W2(A) A1 A2")
	vs, err = ViewSerializable(s)
	require.NoError(t, err)
	require.True(t, vs)
}

func TestViewSerializableNotViewEquivalentToAnyOrder(t *testing.T) {
	// T2 reads T1's write of A, then T1 writes A again and T3 blind-writes:
	// in the schedule T2 reads from T1's *first* write, which no serial
	// order reproduces because serially T2 would read T1's final value of A
	// only if it runs right after T1, but then the read-from edge differs
	// by write position.
	s := mustParse(t, "W1(A) R2(A) W2(A) R1(A) W1(A) W3(A) C1 C2 C3")
	require.False(t, ConflictSerializable(s))
	vs, err := ViewSerializable(s)
	require.NoError(t, err)
	require.False(t, vs)
}

func TestViewSearchBudget(t *testing.T) {
	// Nine transactions with a conflict cycle and a blind write force the
	// permutation search, which refuses to run past the ceiling.
	text := "R1(A) W2(A) W1(A) W3(A)"
	for i := 4; i <= 9; i++ {
		text += fmt.Sprintf(" W%d(B)", i)
	}
	s := mustParse(t, text)
	_, err := ViewSerializable(s)
	var budget *BudgetError
	require.ErrorAs(t, err, &budget)
	require.Equal(t, 9, budget.Transactions)
	require.Equal(t, DefaultMaxSearchTransactions, budget.Limit)

	// A higher explicit ceiling lets the same schedule through.
	vs, err := ViewSerializableWithin(s, 9)
	require.NoError(t, err)
	require.True(t, vs)
}

func TestHasBlindWrite(t *testing.T) {
	require.True(t, hasBlindWrite(mustParse(t, "W1(A) C1")))
	require.False(t, hasBlindWrite(mustParse(t, "R1(A) W1(A) C1")))
	// A read of a different item doesn't cover the write.
	require.True(t, hasBlindWrite(mustParse(t, "R1(B) W1(A) C1")))
}

func TestPermuteVisitsAllOrderings(t *testing.T) {
	var seen [][]int
	permute(3, func(order []int) bool {
		seen = append(seen, order)
		return true
	})
	require.Len(t, seen, 6)
	unique := make(map[[3]int]bool)
	for _, o := range seen {
		unique[[3]int{o[0], o[1], o[2]}] = true
	}
	require.Len(t, unique, 6)
}
