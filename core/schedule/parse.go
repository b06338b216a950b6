package schedule

import (
	"fmt"
	"strconv"
	"strings"
)

// Parse builds a Schedule from its textual form: a whitespace- or
// comma-separated list of action tokens.
//
//	R1(A)  read of A by transaction 1
//	W2(B)  write of B by transaction 2
//	C1     commit of transaction 1
//	A2     abort of transaction 2
//
// Kind letters are case-insensitive. Parse returns a ConstructionError for
// unparsable tokens or for schedules violating the transaction invariants.
func Parse(text string) (*Schedule, error) {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return r == ' ' || r == '\t' || r == '\n' || r == ','
	})
	if len(fields) == 0 {
		return nil, &ConstructionError{Reason: "empty schedule text"}
	}
	actions := make([]Action, 0, len(fields))
	for i, tok := range fields {
		a, err := parseAction(tok)
		if err != nil {
			return nil, &ConstructionError{
				Reason: fmt.Sprintf("token %d (%q)", i+1, tok),
				Err:    err,
			}
		}
		actions = append(actions, a)
	}
	return New(actions)
}

func parseAction(tok string) (Action, error) {
	if len(tok) < 2 {
		return Action{}, fmt.Errorf("action token too short")
	}
	var kind Kind
	switch tok[0] {
	case 'R', 'r':
		kind = KindRead
	case 'W', 'w':
		kind = KindWrite
	case 'C', 'c':
		kind = KindCommit
	case 'A', 'a':
		kind = KindAbort
	default:
		return Action{}, fmt.Errorf("unknown action kind %q", tok[0])
	}

	rest := tok[1:]
	if kind == KindCommit || kind == KindAbort {
		txn, err := strconv.Atoi(rest)
		if err != nil {
			return Action{}, fmt.Errorf("bad transaction id %q", rest)
		}
		return Action{Kind: kind, Txn: txn}, nil
	}

	open := strings.IndexByte(rest, '(')
	if open < 1 || !strings.HasSuffix(rest, ")") {
		return Action{}, fmt.Errorf("expected %s<txn>(<item>)", kind)
	}
	txn, err := strconv.Atoi(rest[:open])
	if err != nil {
		return Action{}, fmt.Errorf("bad transaction id %q", rest[:open])
	}
	item := rest[open+1 : len(rest)-1]
	if item == "" {
		return Action{}, fmt.Errorf("empty item")
	}
	return Action{Kind: kind, Txn: txn, Item: item}, nil
}
