package analysis

import (
	"fmt"

	"github.com/txnlab/schedlab/core/schedule"
)

// DefaultMaxSearchTransactions bounds the view-equivalence permutation
// search. The search enumerates n! candidate serial orders, so anything past
// exercise scale is rejected up front instead of hanging.
const DefaultMaxSearchTransactions = 8

// BudgetError reports that a schedule has too many transactions for the
// factorial view-equivalence search. Callers (the generator in particular)
// may catch it and retry with a smaller schedule.
type BudgetError struct {
	Transactions int
	Limit        int
}

func (e *BudgetError) Error() string {
	return fmt.Sprintf("view search over %d transactions exceeds the %d-transaction budget",
		e.Transactions, e.Limit)
}

// ViewSerializable reports whether the schedule is view-equivalent to some
// serial order of its transactions, using DefaultMaxSearchTransactions as
// the search ceiling.
func ViewSerializable(s *schedule.Schedule) (bool, error) {
	return ViewSerializableWithin(s, DefaultMaxSearchTransactions)
}

// ViewSerializableWithin is ViewSerializable with an explicit ceiling on the
// number of transactions the permutation search will accept.
//
// Aborted transactions are dropped first; their reads and writes do not
// participate in the view relation. Two shortcuts from the theory run before
// the factorial search: a conflict-serializable schedule is always
// view-serializable, and a schedule with no blind writes is
// view-serializable only if it is conflict-serializable.
func ViewSerializableWithin(s *schedule.Schedule, maxTransactions int) (bool, error) {
	reduced := s.DropAborted()
	if reduced.Len() == 0 {
		return true, nil
	}

	if ConflictSerializable(reduced) {
		return true, nil
	}
	if !hasBlindWrite(reduced) {
		return false, nil
	}

	txns := reduced.Transactions()
	if len(txns) > maxTransactions {
		return false, &BudgetError{Transactions: len(txns), Limit: maxTransactions}
	}

	want := viewRelationOf(reduced)
	found := false
	permute(len(txns), func(order []int) bool {
		var actions []schedule.Action
		for _, i := range order {
			actions = append(actions, txns[i].Actions...)
		}
		candidate := schedule.MustNew(actions)
		if want.equal(viewRelationOf(candidate)) {
			found = true
			return false
		}
		return true
	})
	return found, nil
}

// hasBlindWrite reports whether any transaction writes an item it has not
// previously read.
func hasBlindWrite(s *schedule.Schedule) bool {
	for _, t := range s.Transactions() {
		read := make(map[string]bool)
		for _, a := range t.Actions {
			switch a.Kind {
			case schedule.KindRead:
				read[a.Item] = true
			case schedule.KindWrite:
				if !read[a.Item] {
					return true
				}
			}
		}
	}
	return false
}

// actionRef identifies an action independently of the interleaving: the
// owning transaction plus the action's position within that transaction.
type actionRef struct {
	txn int
	seq int
}

// readEdge records that a numbered read observed a numbered write.
type readEdge struct {
	reader actionRef
	writer actionRef
}

// initialRead is a (transaction, item) pair reading the pre-schedule state.
type initialRead struct {
	txn  int
	item string
}

// viewRelation is everything view equivalence compares: the set of initial
// reads, which write each read observes, and which transaction performs the
// final write of each item.
type viewRelation struct {
	initialReads map[initialRead]bool // reads of the pre-schedule state
	readsFrom    map[readEdge]bool    // read -> most recent write of the same item
	finalWrites  map[string]int       // item -> last writer txn id
}

// viewRelationOf computes the view relation of a schedule in one pass.
// Actions are numbered by position within their own transaction so the
// relation is comparable across different interleavings of the same
// transactions.
func viewRelationOf(s *schedule.Schedule) viewRelation {
	rel := viewRelation{
		initialReads: make(map[initialRead]bool),
		readsFrom:    make(map[readEdge]bool),
		finalWrites:  make(map[string]int),
	}
	// seq numbers each transaction's actions; lastWrite tracks the most
	// recent write per item.
	seq := make(map[int]int)
	lastWrite := make(map[string]actionRef)
	written := make(map[string]bool)

	for _, a := range s.Actions() {
		ref := actionRef{txn: a.Txn, seq: seq[a.Txn]}
		seq[a.Txn]++
		switch a.Kind {
		case schedule.KindRead:
			if !written[a.Item] {
				rel.initialReads[initialRead{txn: a.Txn, item: a.Item}] = true
			}
			if w, ok := lastWrite[a.Item]; ok {
				rel.readsFrom[readEdge{reader: ref, writer: w}] = true
			}
		case schedule.KindWrite:
			written[a.Item] = true
			lastWrite[a.Item] = ref
			rel.finalWrites[a.Item] = a.Txn
		}
	}
	return rel
}

func (v viewRelation) equal(other viewRelation) bool {
	if len(v.initialReads) != len(other.initialReads) ||
		len(v.readsFrom) != len(other.readsFrom) ||
		len(v.finalWrites) != len(other.finalWrites) {
		return false
	}
	for r := range v.initialReads {
		if !other.initialReads[r] {
			return false
		}
	}
	for e := range v.readsFrom {
		if !other.readsFrom[e] {
			return false
		}
	}
	for item, txn := range v.finalWrites {
		if o, ok := other.finalWrites[item]; !ok || o != txn {
			return false
		}
	}
	return true
}

// permute calls visit with every ordering of 0..n-1, stopping early when
// visit returns false. Each candidate ordering is built fresh; no scratch
// state is shared between candidates.
func permute(n int, visit func(order []int) bool) {
	base := make([]int, n)
	for i := range base {
		base[i] = i
	}
	var rec func(prefix []int, remaining []int) bool
	rec = func(prefix []int, remaining []int) bool {
		if len(remaining) == 0 {
			order := append([]int(nil), prefix...)
			return visit(order)
		}
		for i := range remaining {
			next := append(append([]int(nil), prefix...), remaining[i])
			rest := make([]int, 0, len(remaining)-1)
			rest = append(rest, remaining[:i]...)
			rest = append(rest, remaining[i+1:]...)
			if !rec(next, rest) {
				return false
			}
		}
		return true
	}
	rec(nil, base)
}
