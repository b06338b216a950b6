package analysis

import "github.com/txnlab/schedlab/core/schedule"

// The three recoverability predicates each make their own single pass over
// the schedule. Strict implies ACA implies recoverable, but every predicate
// is checked against its own definition rather than derived from the others,
// so each result stands on its own.
//
// All three complete the schedule with implicit commits first: a transaction
// that never terminates is treated as committing at the end. An abort erases
// the aborting transaction's writes from the visible-writer stacks, so later
// reads observe the writer underneath.

// Recoverable reports whether no transaction commits before every
// transaction it read from has committed. A transaction that read from an
// aborted transaction and then commits makes the schedule unrecoverable.
func Recoverable(s *schedule.Schedule) bool {
	writtenBy := make(map[string][]int)    // item -> live writers, oldest first
	readFrom := make(map[int]map[int]bool) // reader txn -> source txns
	committed := make(map[int]bool)

	for _, a := range s.WithImplicitCommits().Actions() {
		switch a.Kind {
		case schedule.KindWrite:
			writtenBy[a.Item] = append(writtenBy[a.Item], a.Txn)
		case schedule.KindRead:
			if ws := writtenBy[a.Item]; len(ws) > 0 && ws[len(ws)-1] != a.Txn {
				if readFrom[a.Txn] == nil {
					readFrom[a.Txn] = make(map[int]bool)
				}
				readFrom[a.Txn][ws[len(ws)-1]] = true
			}
		case schedule.KindCommit:
			for src := range readFrom[a.Txn] {
				if !committed[src] {
					return false
				}
			}
			committed[a.Txn] = true
		case schedule.KindAbort:
			dropWriter(writtenBy, a.Txn)
		}
	}
	return true
}

// AvoidsCascadingAborts reports whether every read observes only committed
// data: a transaction may read an item only after the transaction that last
// wrote it has committed. This checks read time against commit time, which
// is strictly stronger than the commit-ordering check of Recoverable.
func AvoidsCascadingAborts(s *schedule.Schedule) bool {
	lastWrite := make(map[string][]int) // item -> live writers, oldest first
	committed := make(map[int]bool)

	for _, a := range s.WithImplicitCommits().Actions() {
		switch a.Kind {
		case schedule.KindWrite:
			lastWrite[a.Item] = append(lastWrite[a.Item], a.Txn)
		case schedule.KindRead:
			if ws := lastWrite[a.Item]; len(ws) > 0 {
				w := ws[len(ws)-1]
				if w != a.Txn && !committed[w] {
					return false
				}
			}
		case schedule.KindCommit:
			committed[a.Txn] = true
		case schedule.KindAbort:
			dropWriter(lastWrite, a.Txn)
		}
	}
	return true
}

// Strict reports whether no transaction reads or writes an item whose last
// writer has not yet terminated. Unlike ACA this forbids overwrites of
// uncommitted data too, not just dirty reads.
func Strict(s *schedule.Schedule) bool {
	lastWrite := make(map[string][]int) // item -> live writers, oldest first
	committed := make(map[int]bool)

	for _, a := range s.WithImplicitCommits().Actions() {
		switch a.Kind {
		case schedule.KindRead, schedule.KindWrite:
			if ws := lastWrite[a.Item]; len(ws) > 0 {
				w := ws[len(ws)-1]
				if w != a.Txn && !committed[w] {
					return false
				}
			}
			if a.Kind == schedule.KindWrite {
				lastWrite[a.Item] = append(lastWrite[a.Item], a.Txn)
			}
		case schedule.KindCommit:
			committed[a.Txn] = true
		case schedule.KindAbort:
			dropWriter(lastWrite, a.Txn)
		}
	}
	return true
}

// dropWriter removes every write by txn from the per-item writer stacks.
func dropWriter(writers map[string][]int, txn int) {
	for item, ws := range writers {
		kept := ws[:0]
		for _, w := range ws {
			if w != txn {
				kept = append(kept, w)
			}
		}
		writers[item] = kept
	}
}
