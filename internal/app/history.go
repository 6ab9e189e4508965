package app

import (
	"flag"
	"fmt"
	"os"
	"sort"

	"github.com/kgrajski/neurotech-newshound/internal/cli"
	"github.com/kgrajski/neurotech-newshound/internal/dedup"
)

func runHistory(args []string) int {
	fs := flag.NewFlagSet("history", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")
	minScore := fs.Int("min-score", 0, "Only list entries at or above this score")

	if code := parseExit(fs, args); code >= 0 {
		return code
	}

	cfg, _, ok := boot(envLoader)
	if !ok {
		return 1
	}

	history, err := dedup.NewStore(cfg.ResolvedHistoryPath()).Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load dedup history: %v\n", err)
		return 1
	}

	fmt.Println(dedup.Summary(history))

	type row struct {
		hash  string
		entry dedup.Entry
	}
	rows := make([]row, 0, len(history))
	for hash, entry := range history {
		if entry.Score < *minScore {
			continue
		}
		rows = append(rows, row{hash, entry})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].entry.Score != rows[j].entry.Score {
			return rows[i].entry.Score > rows[j].entry.Score
		}
		return rows[i].hash < rows[j].hash
	})
	for _, r := range rows {
		fmt.Printf("[%2d] %s  last=%s runs=%d  %s\n",
			r.entry.Score, r.hash, r.entry.LastSeen, r.entry.RunCount, r.entry.Title)
	}
	return 0
}
