package schedule

import "fmt"

// MalformedTransactionError reports a transaction whose action sequence
// violates the terminal-action rule: at most one commit/abort, and only in
// final position.
type MalformedTransactionError struct {
	Txn    int
	Reason string
}

func (e *MalformedTransactionError) Error() string {
	return fmt.Sprintf("malformed transaction T%d: %s", e.Txn, e.Reason)
}

// ConstructionError reports that a schedule could not be built, either
// because the action list itself is invalid (empty, unparsable) or because
// one of its transactions is malformed. In the latter case the underlying
// MalformedTransactionError is wrapped and reachable via errors.As.
type ConstructionError struct {
	Reason string
	Err    error
}

func (e *ConstructionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid schedule: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("invalid schedule: %s", e.Reason)
}

func (e *ConstructionError) Unwrap() error { return e.Err }
