package schedule

import "strings"

// Schedule is a single total order over the actions of several transactions,
// representing one possible concurrent execution. A Schedule is immutable
// once built; all analyzers treat it as read-only input.
type Schedule struct {
	actions []Action
}

// New builds a Schedule from an explicit ordered action list, validating
// every transaction's terminal-action invariant. The per-transaction
// sub-order is the order in which each transaction's actions appear, so any
// action list yields a valid interleaving; what can fail is transaction
// shape (misplaced or duplicate commit/abort).
func New(actions []Action) (*Schedule, error) {
	if len(actions) == 0 {
		return nil, &ConstructionError{Reason: "schedule has no actions"}
	}
	s := &Schedule{actions: append([]Action(nil), actions...)}
	for _, t := range s.Transactions() {
		if err := t.validate(); err != nil {
			return nil, &ConstructionError{Reason: "transaction check failed", Err: err}
		}
	}
	return s, nil
}

// MustNew is New for hand-written schedules in tests and examples; it panics
// on construction errors.
func MustNew(actions []Action) *Schedule {
	s, err := New(actions)
	if err != nil {
		panic(err)
	}
	return s
}

// Len returns the number of actions in the schedule.
func (s *Schedule) Len() int { return len(s.actions) }

// Actions returns a copy of the schedule's total order. Returning a copy
// keeps the Schedule immutable regardless of what callers do with the slice.
func (s *Schedule) Actions() []Action {
	return append([]Action(nil), s.actions...)
}

// TransactionIDs returns the distinct transaction ids in the order they
// first appear in the schedule.
func (s *Schedule) TransactionIDs() []int {
	var ids []int
	seen := make(map[int]bool)
	for _, a := range s.actions {
		if !seen[a.Txn] {
			seen[a.Txn] = true
			ids = append(ids, a.Txn)
		}
	}
	return ids
}

// Transactions partitions the schedule into its component transactions, in
// the order each transaction first appears.
func (s *Schedule) Transactions() []Transaction {
	ids := s.TransactionIDs()
	index := make(map[int]int, len(ids))
	txns := make([]Transaction, len(ids))
	for i, id := range ids {
		index[id] = i
		txns[i] = Transaction{ID: id}
	}
	for _, a := range s.actions {
		i := index[a.Txn]
		txns[i].Actions = append(txns[i].Actions, a)
	}
	return txns
}

// Transaction returns the sub-order of the given transaction id.
func (s *Schedule) Transaction(id int) (Transaction, bool) {
	for _, t := range s.Transactions() {
		if t.ID == id {
			return t, true
		}
	}
	return Transaction{}, false
}

// DropAborted returns a schedule with every aborted transaction's actions
// removed. Aborted transactions' reads and writes never took effect, so the
// serializability analyzers work on this reduced schedule.
func (s *Schedule) DropAborted() *Schedule {
	aborted := make(map[int]bool)
	for _, a := range s.actions {
		if a.Kind == KindAbort {
			aborted[a.Txn] = true
		}
	}
	var kept []Action
	for _, a := range s.actions {
		if !aborted[a.Txn] {
			kept = append(kept, a)
		}
	}
	return &Schedule{actions: kept}
}

// WithImplicitCommits appends a commit for every transaction that has no
// terminal action, in the order the transactions first appear. The
// recoverability analyzers use this so that still-active transactions are
// treated as committing at the end of the schedule.
func (s *Schedule) WithImplicitCommits() *Schedule {
	terminated := make(map[int]bool)
	for _, a := range s.actions {
		if a.IsTerminal() {
			terminated[a.Txn] = true
		}
	}
	actions := append([]Action(nil), s.actions...)
	for _, id := range s.TransactionIDs() {
		if !terminated[id] {
			actions = append(actions, Commit(id))
		}
	}
	return &Schedule{actions: actions}
}

// IsSerial reports whether the schedule runs each transaction to completion
// before the next one starts (no interleaving at all).
func (s *Schedule) IsSerial() bool {
	finished := make(map[int]bool)
	started := false
	current := 0
	for _, a := range s.actions {
		if !started || a.Txn != current {
			if finished[a.Txn] {
				return false
			}
			if started {
				finished[current] = true
			}
			current = a.Txn
			started = true
		}
	}
	return true
}

// String renders the schedule in the textual format accepted by Parse,
// e.g. "R1(A) W2(A) C1 A2".
func (s *Schedule) String() string {
	parts := make([]string, len(s.actions))
	for i, a := range s.actions {
		parts[i] = a.String()
	}
	return strings.Join(parts, " ")
}
