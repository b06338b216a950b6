package generator

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/txnlab/schedlab/core/schedule"
)

func TestGenerateIsDeterministicForASeed(t *testing.T) {
	cfg := DefaultConfig()
	s1, err := Generate(rand.New(rand.NewSource(7)), cfg)
	require.NoError(t, err)
	s2, err := Generate(rand.New(rand.NewSource(7)), cfg)
	require.NoError(t, err)
	require.Equal(t, s1.String(), s2.String())
}

func TestGenerateProducesValidSchedules(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	cfg := DefaultConfig()
	for i := 0; i < 100; i++ {
		s, err := Generate(rng, cfg)
		require.NoError(t, err)

		n := len(s.TransactionIDs())
		require.GreaterOrEqual(t, n, cfg.MinTransactions)
		require.LessOrEqual(t, n, cfg.MaxTransactions)

		for _, txn := range s.Transactions() {
			// Every generated transaction ends in exactly one terminal.
			last := txn.Actions[len(txn.Actions)-1]
			require.True(t, last.IsTerminal())
			ops := len(txn.Actions) - 1
			require.GreaterOrEqual(t, ops, cfg.MinOps)
			require.LessOrEqual(t, ops, cfg.MaxOps)
			for _, a := range txn.Actions {
				if a.IsAccess() {
					require.Contains(t, cfg.Items, a.Item)
				}
			}
		}
	}
}

func TestConfigValidate(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())

	bad := DefaultConfig()
	bad.MinTransactions = 0
	require.Error(t, bad.Validate())

	bad = DefaultConfig()
	bad.MaxOps = 0
	require.Error(t, bad.Validate())

	bad = DefaultConfig()
	bad.Items = nil
	require.Error(t, bad.Validate())

	bad = DefaultConfig()
	bad.AbortProbability = 1.5
	require.Error(t, bad.Validate())
}

func TestMergePreservesInternalOrder(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	xs := []schedule.Action{schedule.R(1, "A"), schedule.W(1, "B"), schedule.Commit(1)}
	ys := []schedule.Action{schedule.R(2, "A"), schedule.Commit(2)}
	for i := 0; i < 50; i++ {
		merged := merge(xs, ys, rng)
		require.Len(t, merged, 5)

		var got1, got2 []schedule.Action
		for _, a := range merged {
			if a.Txn == 1 {
				got1 = append(got1, a)
			} else {
				got2 = append(got2, a)
			}
		}
		require.Equal(t, xs, got1)
		require.Equal(t, ys, got2)
	}
}

func TestAbortProbabilityExtremes(t *testing.T) {
	cfg := DefaultConfig()
	cfg.AbortProbability = 0
	rng := rand.New(rand.NewSource(5))
	for i := 0; i < 20; i++ {
		s, err := Generate(rng, cfg)
		require.NoError(t, err)
		for _, txn := range s.Transactions() {
			require.Equal(t, schedule.StatusCommitted, txn.Status())
		}
	}

	cfg.AbortProbability = 1
	for i := 0; i < 20; i++ {
		s, err := Generate(rng, cfg)
		require.NoError(t, err)
		for _, txn := range s.Transactions() {
			require.Equal(t, schedule.StatusAborted, txn.Status())
		}
	}
}
