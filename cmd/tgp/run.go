package main

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/nihei9/typedgp/config"
	"github.com/nihei9/typedgp/examples/symreg"
	"github.com/nihei9/typedgp/printer"
	"github.com/spf13/cobra"
)

var runFlags = struct {
	configPath string
	seed       int64
}{}

func init() {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the bundled symbolic-regression demo through the evolutionary loop",
		Example: `  tgp run --config run.yaml
  tgp run --seed 42`,
		RunE: runRun,
	}
	cmd.Flags().StringVar(&runFlags.configPath, "config", "", "path to a YAML run configuration")
	cmd.Flags().Int64Var(&runFlags.seed, "seed", 0, "override the configured RNG seed")
	rootCmd.AddCommand(cmd)
}

func runRun(cmd *cobra.Command, args []string) (retErr error) {
	defer func() {
		v := recover()
		if v == nil {
			return
		}
		err, ok := v.(error)
		if !ok {
			retErr = fmt.Errorf("an unexpected error occurred: %v", v)
		} else {
			retErr = err
		}
		fmt.Fprintf(os.Stderr, "%v:\n%v", retErr, string(debug.Stack()))
	}()

	cfg := &config.RunConfig{
		Grammar:       "bundled:symreg",
		RootType:      "float",
		Population:    100,
		Generations:   100,
		MaxDepth:      6,
		MutationRate:  0.1,
		CrossoverRate: 0.895,
		Seed:          42,
	}
	if runFlags.configPath != "" {
		loaded, err := config.Load(runFlags.configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if cmd.Flags().Changed("seed") {
		cfg.Seed = runFlags.seed
	}

	var dataset []symreg.Sample
	if cfg.Dataset != "" {
		ds, err := symreg.LoadDataset(cfg.Dataset)
		if err != nil {
			return err
		}
		dataset = ds
	}

	pop, host, err := symreg.Run(symreg.RunOptions{
		Seed:           cfg.Seed,
		PopulationSize: cfg.Population,
		MaxTreeDepth:   cfg.MaxDepth,
		Generations:    cfg.Generations,
		MutationRate:   cfg.MutationRate,
		CrossoverRate:  cfg.CrossoverRate,
		Dataset:        dataset,
	})
	if err != nil {
		return err
	}

	stats := pop.GetStats()
	fmt.Fprintf(os.Stdout, "generation %d: average=%.6f best=%.6f best_index=%d\n",
		pop.Generation(), stats.Average, stats.Best, stats.BestIndex)

	best := pop.At(stats.BestIndex)
	s, err := printer.Sprint(host.Grammar, best, host)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "best individual: %s\n", s)
	return nil
}
