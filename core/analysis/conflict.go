// Package analysis implements the serializability and recoverability
// analyzers over immutable schedules: conflict-graph construction and the
// acyclicity test, the view-equivalence permutation search, and the
// recoverable / avoids-cascading-aborts / strict checks. Every predicate is
// a pure function of its schedule; calling one twice yields the same result.
package analysis

import (
	"sort"

	"github.com/txnlab/schedlab/core/schedule"
)

// ConflictGraph is the precedence graph of a schedule: one node per
// transaction, and an edge Ti -> Tj whenever an action of Ti precedes and
// conflicts with an action of Tj. Adjacency is kept by node index so the
// cycle test never depends on map iteration order.
type ConflictGraph struct {
	nodes []int       // transaction ids, in first-appearance order
	index map[int]int // transaction id -> node index
	adj   [][]int     // node index -> successor node indexes, sorted
}

// Edge is a single precedence pair between two transaction ids.
type Edge struct {
	From, To int
}

// BuildConflictGraph constructs the conflict graph of the schedule. Aborted
// transactions are dropped first: their actions never took effect, so they
// induce no precedence. Duplicate conflicting pairs between the same two
// transactions collapse into a single edge.
func BuildConflictGraph(s *schedule.Schedule) *ConflictGraph {
	reduced := s.DropAborted()
	nodes := reduced.TransactionIDs()
	g := &ConflictGraph{
		nodes: nodes,
		index: make(map[int]int, len(nodes)),
		adj:   make([][]int, len(nodes)),
	}
	for i, id := range nodes {
		g.index[id] = i
	}

	actions := reduced.Actions()
	edgeSeen := make(map[Edge]bool)
	for i, a := range actions {
		for _, b := range actions[i+1:] {
			if !a.ConflictsWith(b) {
				continue
			}
			e := Edge{From: a.Txn, To: b.Txn}
			if edgeSeen[e] {
				continue
			}
			edgeSeen[e] = true
			from, to := g.index[e.From], g.index[e.To]
			g.adj[from] = append(g.adj[from], to)
		}
	}
	for i := range g.adj {
		sort.Ints(g.adj[i])
	}
	return g
}

// Nodes returns the graph's transaction ids in first-appearance order.
func (g *ConflictGraph) Nodes() []int {
	return append([]int(nil), g.nodes...)
}

// Edges returns the deduplicated precedence pairs, ordered by source node
// then target node. The edge set is a pure function of the schedule: only
// the pair and direction matter, not discovery order.
func (g *ConflictGraph) Edges() []Edge {
	var edges []Edge
	for from, succs := range g.adj {
		for _, to := range succs {
			edges = append(edges, Edge{From: g.nodes[from], To: g.nodes[to]})
		}
	}
	return edges
}

// HasCycle runs an iterative depth-first traversal with the usual
// white/grey/black coloring: hitting a grey node from the stack means a back
// edge, hence a cycle.
func (g *ConflictGraph) HasCycle() bool {
	const (
		white = iota // unvisited
		grey         // on the current DFS path
		black        // fully explored
	)
	color := make([]int, len(g.nodes))

	type frame struct {
		node int
		next int // index into adj[node] of the next successor to try
	}
	for start := range g.nodes {
		if color[start] != white {
			continue
		}
		stack := []frame{{node: start}}
		color[start] = grey
		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			if top.next < len(g.adj[top.node]) {
				succ := g.adj[top.node][top.next]
				top.next++
				switch color[succ] {
				case grey:
					return true
				case white:
					color[succ] = grey
					stack = append(stack, frame{node: succ})
				}
				continue
			}
			color[top.node] = black
			stack = stack[:len(stack)-1]
		}
	}
	return false
}

// ConflictSerializable reports whether the schedule is conflict-equivalent
// to some serial execution, i.e. whether its conflict graph is acyclic.
func ConflictSerializable(s *schedule.Schedule) bool {
	return !BuildConflictGraph(s).HasCycle()
}
