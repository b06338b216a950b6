package schedule

// Status represents the derived state of a transaction at the end of a
// schedule, determined solely by its last terminal action (if any).
type Status int

const (
	StatusActive    Status = iota // No commit or abort seen yet
	StatusCommitted               // Last action is a commit
	StatusAborted                 // Last action is an abort
)

// String returns a human-readable status name.
func (s Status) String() string {
	switch s {
	case StatusActive:
		return "active"
	case StatusCommitted:
		return "committed"
	case StatusAborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// Transaction is the ordered sequence of actions issued by one logical unit
// of work. The order of Actions is the order in which the transaction issues
// them, a sub-order of the schedule it belongs to. Transactions are built
// once during schedule construction and never mutated afterwards.
type Transaction struct {
	ID      int
	Actions []Action
}

// Status derives the transaction's state from its last action.
func (t Transaction) Status() Status {
	if len(t.Actions) == 0 {
		return StatusActive
	}
	switch t.Actions[len(t.Actions)-1].Kind {
	case KindCommit:
		return StatusCommitted
	case KindAbort:
		return StatusAborted
	default:
		return StatusActive
	}
}

// validate enforces the terminal-action invariant: every action belongs to
// this transaction, and a commit/abort may only appear once, in final
// position.
func (t Transaction) validate() error {
	for i, a := range t.Actions {
		if a.Txn != t.ID {
			return &MalformedTransactionError{
				Txn:    t.ID,
				Reason: "action " + a.String() + " belongs to a different transaction",
			}
		}
		if a.IsTerminal() && i != len(t.Actions)-1 {
			return &MalformedTransactionError{
				Txn:    t.ID,
				Reason: "terminal action " + a.String() + " is not the last action",
			}
		}
	}
	return nil
}
