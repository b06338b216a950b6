// Package generator produces random schedules and searches them for
// requested combinations of the serializability and recoverability
// properties. Generation is a pure function of the *rand.Rand passed in, so
// a fixed seed reproduces the exact same schedules run after run.
package generator

import (
	"fmt"
	"sort"

	"github.com/txnlab/schedlab/core/schedule"
)

// Config controls the shape of generated schedules.
type Config struct {
	// MinTransactions and MaxTransactions bound the number of transactions
	// per schedule (inclusive).
	MinTransactions int `json:"min_transactions" yaml:"min_transactions"`
	MaxTransactions int `json:"max_transactions" yaml:"max_transactions"`
	// MinOps and MaxOps bound the number of reads/writes per transaction,
	// not counting the terminal commit/abort.
	MinOps int `json:"min_ops" yaml:"min_ops"`
	MaxOps int `json:"max_ops" yaml:"max_ops"`
	// Items is the alphabet of data items reads and writes draw from.
	Items []string `json:"items" yaml:"items"`
	// AbortProbability is the chance a transaction ends in an abort rather
	// than a commit.
	AbortProbability float64 `json:"abort_probability" yaml:"abort_probability"`
}

// DefaultConfig matches the classic exercise shape: two to three
// transactions of one to three operations over items X, Y, Z, ending in a
// commit or an abort with equal probability.
func DefaultConfig() Config {
	return Config{
		MinTransactions:  2,
		MaxTransactions:  3,
		MinOps:           1,
		MaxOps:           3,
		Items:            []string{"X", "Y", "Z"},
		AbortProbability: 0.5,
	}
}

// Validate checks the configuration bounds.
func (c Config) Validate() error {
	if c.MinTransactions < 1 || c.MaxTransactions < c.MinTransactions {
		return fmt.Errorf("bad transaction bounds %d:%d", c.MinTransactions, c.MaxTransactions)
	}
	if c.MinOps < 1 || c.MaxOps < c.MinOps {
		return fmt.Errorf("bad operation bounds %d:%d", c.MinOps, c.MaxOps)
	}
	if len(c.Items) == 0 {
		return fmt.Errorf("no data items configured")
	}
	if c.AbortProbability < 0 || c.AbortProbability > 1 {
		return fmt.Errorf("abort probability %v outside [0, 1]", c.AbortProbability)
	}
	return nil
}

// randSource is the subset of *rand.Rand the generator uses. Taking an
// interface keeps generation a pure function of whatever source the caller
// seeds.
type randSource interface {
	Intn(n int) int
	Perm(n int) []int
	Float64() float64
}

// Generate produces one random schedule: random transactions of random
// reads/writes with a random terminal action, interleaved by repeatedly
// merging each transaction into the schedule at sorted random positions.
func Generate(rng randSource, cfg Config) (*schedule.Schedule, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("generator config: %w", err)
	}
	n := cfg.MinTransactions + rng.Intn(cfg.MaxTransactions-cfg.MinTransactions+1)
	var interleaved []schedule.Action
	for id := 1; id <= n; id++ {
		interleaved = merge(interleaved, randomTransaction(rng, cfg, id), rng)
	}
	return schedule.New(interleaved)
}

// randomTransaction builds transaction id's action sequence: MinOps..MaxOps
// random reads/writes over random items, then a commit or abort.
func randomTransaction(rng randSource, cfg Config, id int) []schedule.Action {
	k := cfg.MinOps + rng.Intn(cfg.MaxOps-cfg.MinOps+1)
	actions := make([]schedule.Action, 0, k+1)
	for i := 0; i < k; i++ {
		item := cfg.Items[rng.Intn(len(cfg.Items))]
		if rng.Intn(2) == 0 {
			actions = append(actions, schedule.R(id, item))
		} else {
			actions = append(actions, schedule.W(id, item))
		}
	}
	if rng.Float64() < cfg.AbortProbability {
		actions = append(actions, schedule.Abort(id))
	} else {
		actions = append(actions, schedule.Commit(id))
	}
	return actions
}

// merge interleaves xs and ys into one sequence, preserving the internal
// order of both: xs takes a sorted random subset of the positions and ys
// fills the rest.
func merge(xs, ys []schedule.Action, rng randSource) []schedule.Action {
	total := len(xs) + len(ys)
	positions := rng.Perm(total)[:len(xs)]
	sort.Ints(positions)

	taken := make([]bool, total)
	merged := make([]schedule.Action, total)
	for i, p := range positions {
		merged[p] = xs[i]
		taken[p] = true
	}
	next := 0
	for _, y := range ys {
		for taken[next] {
			next++
		}
		merged[next] = y
		taken[next] = true
	}
	return merged
}
