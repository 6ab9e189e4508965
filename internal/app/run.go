package app

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/kgrajski/neurotech-newshound/internal/audit"
	"github.com/kgrajski/neurotech-newshound/internal/cli"
	"github.com/kgrajski/neurotech-newshound/internal/dedup"
	"github.com/kgrajski/neurotech-newshound/internal/hound"
	"github.com/kgrajski/neurotech-newshound/internal/sources"
	"github.com/kgrajski/neurotech-newshound/internal/vocab"
)

func runPipeline(args []string) int {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")
	timeout := fs.Duration("timeout", 10*time.Minute, "Overall run timeout")
	asJSON := fs.Bool("json", false, "Print the full run outcome as JSON")

	if code := parseExit(fs, args); code >= 0 {
		return code
	}

	cfg, logger, ok := boot(envLoader)
	if !ok {
		return 1
	}

	vocabulary, err := vocab.Load(cfg.ResolvedVocabPath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load vocabulary: %v\n", err)
		return 1
	}

	// Audit failures never block a run; without a ledger the run still
	// executes, it just is not recorded.
	ledger, err := audit.Open(cfg.ResolvedAuditDBPath())
	if err != nil {
		logger.Warn().Err(err).Msg("audit ledger unavailable, run will not be recorded")
		ledger = nil
	}

	runner := hound.NewRunner(hound.Deps{
		HistoryStore:      dedup.NewStore(cfg.ResolvedHistoryPath()),
		RegistryStore:     sources.NewStore(cfg.ResolvedRegistryPath()),
		Vocabulary:        vocabulary,
		Ledger:            ledger,
		LookbackDays:      cfg.LookbackDays,
		MaxItemsPerSource: cfg.MaxItemsPerSource,
		ScoreConcurrency:  cfg.ScoreConcurrency,
		FetchTimeout:      cfg.FetchTimeout,
		ScoreTimeout:      cfg.ScoreTimeout,
		Logger:            logger,
	})

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	outcome, err := runner.Execute(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("run failed")
		fmt.Fprintf(os.Stderr, "Run failed: %v\n", err)
		return 1
	}

	if *asJSON {
		encoded, err := json.MarshalIndent(outcome, "", "  ")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to encode outcome: %v\n", err)
			return 1
		}
		fmt.Println(string(encoded))
		return 0
	}

	fmt.Printf("raw=%d in_scope=%d scored=%d skipped=%d alerts=%d errors=%d\n",
		outcome.RawCount, outcome.InScopeCount, outcome.ScoredCount,
		outcome.SkippedCount, outcome.AlertCount, len(outcome.Errors))
	for _, item := range outcome.Alerts {
		fmt.Printf("ALERT [%d] %s (%s)\n", item.Score, item.Title, item.URL)
	}
	for _, msg := range outcome.Errors {
		fmt.Fprintf(os.Stderr, "warning: %s\n", msg)
	}
	return 0
}
