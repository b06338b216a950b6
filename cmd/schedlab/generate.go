package main

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/txnlab/schedlab/core/generator"
)

func newGenerateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Search random schedules for a property combination",
		Long: `Generate produces random schedules and keeps the ones matching the
required property combination, writing each as a set of exercise files
(.sched, .tex, conflict-graph .dot, .json manifest).

Properties for --require: conflict-serializable (cs), view-serializable
(vs), recoverable (rec), aca, strict. Prefix with "!" to require the
property NOT to hold, e.g. --require vs,!cs,strict.`,
		RunE: runGenerate,
	}
	cmd.Flags().Int("count", 1, "number of matching schedules to find")
	cmd.Flags().String("txns", "2:3", "min:max transactions per schedule")
	cmd.Flags().String("ops", "1:3", "min:max reads/writes per transaction")
	cmd.Flags().String("items", "X,Y,Z", "comma-separated data item names")
	cmd.Flags().Float64("abort-prob", 0.5, "probability a transaction aborts")
	cmd.Flags().StringSlice("require", nil, "required properties, '!'-prefixed to negate")
	cmd.Flags().Int64("seed", 0, "random seed (0 derives one from the clock)")
	cmd.Flags().Int("max-attempts", 10000, "random schedules to try per search")
	cmd.Flags().String("out", ".", "directory for the exercise files")
	return cmd
}

func runGenerate(cmd *cobra.Command, args []string) error {
	v, err := newViper(cmd)
	if err != nil {
		return err
	}
	log, err := newLogger(v)
	if err != nil {
		return err
	}
	defer log.Sync()

	cfg, err := generatorConfig(v)
	if err != nil {
		return err
	}
	target, err := generator.ParseTarget(v.GetStringSlice("require"))
	if err != nil {
		return err
	}

	seed := v.GetInt64("seed")
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))
	log.Info("starting property search",
		zap.Int64("seed", seed),
		zap.Int("count", v.GetInt("count")),
		zap.Strings("require", v.GetStringSlice("require")))

	outDir := v.GetString("out")
	maxAttempts := v.GetInt("max-attempts")
	for i := 0; i < v.GetInt("count"); i++ {
		res, err := generator.Search(rng, cfg, target, maxAttempts)
		if err != nil {
			return err
		}
		if !res.Found {
			// A normal outcome, not a failure: the budget just ran out.
			fmt.Fprintf(cmd.OutOrStdout(),
				"no matching schedule found within %d attempts (%d of %d exercises written)\n",
				res.Attempts, i, v.GetInt("count"))
			return nil
		}
		if err := generator.WriteExercise(outDir, res); err != nil {
			return err
		}
		log.Info("exercise written",
			zap.String("id", res.ID.String()),
			zap.Int("attempts", res.Attempts),
			zap.String("schedule", res.Schedule.String()),
			zap.String("characterization", res.Report.Short()))
		fmt.Fprintf(cmd.OutOrStdout(), "%s  %s  %s\n", res.Report.Short(), res.ID, res.Schedule)
	}
	return nil
}

// generatorConfig assembles the generator configuration from the resolved
// settings.
func generatorConfig(v *viper.Viper) (generator.Config, error) {
	cfg := generator.DefaultConfig()
	var err error
	if cfg.MinTransactions, cfg.MaxTransactions, err = parseRange(v.GetString("txns")); err != nil {
		return cfg, fmt.Errorf("--txns: %w", err)
	}
	if cfg.MinOps, cfg.MaxOps, err = parseRange(v.GetString("ops")); err != nil {
		return cfg, fmt.Errorf("--ops: %w", err)
	}
	cfg.Items = strings.Split(v.GetString("items"), ",")
	cfg.AbortProbability = v.GetFloat64("abort-prob")
	return cfg, cfg.Validate()
}

// parseRange parses "min:max" (or a single "n" meaning n:n).
func parseRange(s string) (int, int, error) {
	lo, hi, ok := strings.Cut(s, ":")
	if !ok {
		hi = lo
	}
	min, err := strconv.Atoi(strings.TrimSpace(lo))
	if err != nil {
		return 0, 0, fmt.Errorf("bad bound %q", lo)
	}
	max, err := strconv.Atoi(strings.TrimSpace(hi))
	if err != nil {
		return 0, 0, fmt.Errorf("bad bound %q", hi)
	}
	return min, max, nil
}
