package app

import (
	"flag"
	"fmt"
	"os"

	"github.com/kgrajski/neurotech-newshound/internal/cli"
	"github.com/kgrajski/neurotech-newshound/internal/sources"
)

func runSources(args []string) int {
	fs := flag.NewFlagSet("sources", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")

	if code := parseExit(fs, args); code >= 0 {
		return code
	}

	cfg, _, ok := boot(envLoader)
	if !ok {
		return 1
	}

	registry, err := sources.NewStore(cfg.ResolvedRegistryPath()).Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load source registry: %v\n", err)
		return 1
	}

	fmt.Println(registry.Summary())
	for _, s := range registry.Sources {
		state := "enabled"
		if !s.Enabled {
			state = "disabled"
		}
		fmt.Printf("%-22s %-10s %-8s %-10s runs=%d fetched=%d in_scope=%d high=%d\n",
			s.ID, s.Category, state, sources.Classify(s),
			s.Stats.Runs, s.Stats.TotalFetched, s.Stats.InScopeCount, s.Stats.HighScoreCount)
	}
	return 0
}

func runPrune(args []string) int {
	fs := flag.NewFlagSet("prune", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")
	dryRun := fs.Bool("dry-run", false, "Report what would be pruned without saving")

	if code := parseExit(fs, args); code >= 0 {
		return code
	}

	cfg, logger, ok := boot(envLoader)
	if !ok {
		return 1
	}

	store := sources.NewStore(cfg.ResolvedRegistryPath())
	registry, err := store.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load source registry: %v\n", err)
		return 1
	}

	pruned := registry.Prune()
	if *dryRun {
		fmt.Printf("would prune %d source(s)\n", pruned)
		return 0
	}

	if err := store.Save(registry); err != nil {
		logger.Error().Err(err).Msg("save registry failed")
		fmt.Fprintf(os.Stderr, "Failed to save source registry: %v\n", err)
		return 1
	}
	fmt.Printf("pruned %d source(s)\n", pruned)
	return 0
}
