// Package render turns schedules and conflict graphs into presentable
// artifacts: LaTeX tabulars for worksheets and Graphviz DOT for conflict
// graph images. It consumes only the read-only accessors of the core; no
// decision logic lives here.
package render

import (
	"fmt"
	"sort"
	"strings"

	"github.com/txnlab/schedlab/core/analysis"
	"github.com/txnlab/schedlab/core/schedule"
)

// ActionTeX renders one action in math mode, e.g. `$R_{1}(A)$` or
// `$\text{Commit}_{2}$`.
func ActionTeX(a schedule.Action) string {
	switch a.Kind {
	case schedule.KindRead:
		return fmt.Sprintf("$R_{%d}(%s)$", a.Txn, a.Item)
	case schedule.KindWrite:
		return fmt.Sprintf("$W_{%d}(%s)$", a.Txn, a.Item)
	case schedule.KindCommit:
		return fmt.Sprintf("$\\text{Commit}_{%d}$", a.Txn)
	case schedule.KindAbort:
		return fmt.Sprintf("$\\text{Abort}_{%d}$", a.Txn)
	default:
		return ""
	}
}

// ScheduleTable renders a schedule as a LaTeX tabular with one column per
// transaction (in ascending id order) and one action per row.
//
//	\begin{tabular}{|c|c|}
//	\hline
//	$T_1$&$T_2$\\\hline
//	$R_{1}(A)$&\\\hline
//	&$W_{2}(A)$\\\hline
//	\end{tabular}
func ScheduleTable(s *schedule.Schedule) string {
	ids := s.TransactionIDs()
	sort.Ints(ids)
	column := make(map[int]int, len(ids))
	for i, id := range ids {
		column[id] = i
	}

	var b strings.Builder
	cols := make([]string, len(ids))
	for i := range cols {
		cols[i] = "c"
	}
	fmt.Fprintf(&b, "\\begin{tabular}{|%s|}\n", strings.Join(cols, "|"))
	b.WriteString("\\hline\n")
	heads := make([]string, len(ids))
	for i, id := range ids {
		heads[i] = fmt.Sprintf("$T_%d$", id)
	}
	b.WriteString(strings.Join(heads, "&"))
	b.WriteString("\\\\\\hline\n")
	for _, a := range s.Actions() {
		col := column[a.Txn]
		b.WriteString(strings.Repeat("&", col))
		b.WriteString(ActionTeX(a))
		b.WriteString(strings.Repeat("&", len(ids)-1-col))
		b.WriteString("\\\\\\hline\n")
	}
	b.WriteString("\\end{tabular}\n")
	return b.String()
}

// ConflictGraphDOT renders a conflict graph as a Graphviz digraph. Nodes
// appear in the graph's first-appearance order and edges in its
// deterministic edge order, so the output is stable for a given schedule.
func ConflictGraphDOT(g *analysis.ConflictGraph) string {
	var b strings.Builder
	b.WriteString("digraph conflicts {\n")
	b.WriteString("\trankdir=LR;\n")
	b.WriteString("\tnode [shape=circle];\n")
	for _, id := range g.Nodes() {
		fmt.Fprintf(&b, "\t\"T%d\";\n", id)
	}
	for _, e := range g.Edges() {
		fmt.Fprintf(&b, "\t\"T%d\" -> \"T%d\";\n", e.From, e.To)
	}
	b.WriteString("}\n")
	return b.String()
}
