package app

import (
	"flag"
	"fmt"
	"os"

	"github.com/kgrajski/neurotech-newshound/internal/cli"
	"github.com/kgrajski/neurotech-newshound/internal/vocab"
)

func runVocab(args []string) int {
	fs := flag.NewFlagSet("vocab", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")
	showQuery := fs.Bool("query", false, "Print the PubMed query built from the vocabulary")

	if code := parseExit(fs, args); code >= 0 {
		return code
	}

	cfg, _, ok := boot(envLoader)
	if !ok {
		return 1
	}

	vocabulary, err := vocab.Load(cfg.ResolvedVocabPath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load vocabulary: %v\n", err)
		return 1
	}

	if *showQuery {
		fmt.Println(vocabulary.PubMedQuery())
		return 0
	}

	stats := vocabulary.Stats()
	fmt.Printf("primary=%d qualifier=%d total=%d\n",
		stats.PrimaryTotal, stats.QualifierTotal, stats.GrandTotal)
	for category, n := range stats.Primary {
		fmt.Printf("primary/%s: %d\n", category, n)
	}
	for category, n := range stats.Qualifier {
		fmt.Printf("qualifier/%s: %d\n", category, n)
	}
	return 0
}
