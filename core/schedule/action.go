// Package schedule contains the data model for transaction schedules: the
// individual read/write/commit/abort actions, the transactions that issue
// them, and the interleaved schedule itself. For example the schedule
// `R1(A) W2(A) C1 A2` consists of four actions:
//
//  1. Transaction 1 reads item A
//  2. Transaction 2 writes item A
//  3. Transaction 1 commits
//  4. Transaction 2 aborts
//
// Schedules built here are immutable and are the sole input to the analyzers
// in core/analysis.
package schedule

import "fmt"

// Kind enumerates the four kinds of actions a transaction can issue.
type Kind int

const (
	KindRead   Kind = iota + 1 // Transaction reads a data item
	KindWrite                  // Transaction writes a data item
	KindCommit                 // Transaction commits (terminal)
	KindAbort                  // Transaction aborts (terminal)
)

// String returns the single-letter token used in the textual schedule format.
func (k Kind) String() string {
	switch k {
	case KindRead:
		return "R"
	case KindWrite:
		return "W"
	case KindCommit:
		return "C"
	case KindAbort:
		return "A"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Action is a single atomic event in a schedule. Item is only meaningful for
// reads and writes; commit and abort actions leave it empty.
type Action struct {
	Kind Kind
	Txn  int    // owning transaction id: 1, 2, 3, ...
	Item string // data item: "A", "B", "X", ...
}

// R constructs a read of item by transaction txn.
func R(txn int, item string) Action {
	return Action{Kind: KindRead, Txn: txn, Item: item}
}

// W constructs a write of item by transaction txn.
func W(txn int, item string) Action {
	return Action{Kind: KindWrite, Txn: txn, Item: item}
}

// Commit constructs the commit action of transaction txn.
func Commit(txn int) Action {
	return Action{Kind: KindCommit, Txn: txn}
}

// Abort constructs the abort action of transaction txn.
func Abort(txn int) Action {
	return Action{Kind: KindAbort, Txn: txn}
}

// IsTerminal reports whether the action ends its transaction.
func (a Action) IsTerminal() bool {
	return a.Kind == KindCommit || a.Kind == KindAbort
}

// IsAccess reports whether the action touches a data item.
func (a Action) IsAccess() bool {
	return a.Kind == KindRead || a.Kind == KindWrite
}

// ConflictsWith reports whether a and b form a conflicting pair: different
// transactions, same item, and at least one of the two is a write. Ordering
// (which action came first) is the caller's concern.
func (a Action) ConflictsWith(b Action) bool {
	if !a.IsAccess() || !b.IsAccess() {
		return false
	}
	if a.Txn == b.Txn || a.Item != b.Item {
		return false
	}
	return a.Kind == KindWrite || b.Kind == KindWrite
}

// String renders the action in the textual schedule format, e.g. "R1(A)",
// "W2(B)", "C1", "A2". Parse accepts exactly this form.
func (a Action) String() string {
	if a.IsAccess() {
		return fmt.Sprintf("%s%d(%s)", a.Kind, a.Txn, a.Item)
	}
	return fmt.Sprintf("%s%d", a.Kind, a.Txn)
}
