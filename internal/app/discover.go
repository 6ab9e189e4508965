package app

import (
	"flag"
	"fmt"
	"os"

	"github.com/kgrajski/neurotech-newshound/internal/audit"
	"github.com/kgrajski/neurotech-newshound/internal/cli"
	"github.com/kgrajski/neurotech-newshound/internal/globaltime"
	"github.com/kgrajski/neurotech-newshound/internal/sources"
)

// runDiscover adds a non-curated source to the registry, subject to the
// capacity cap, and records the discovery in the audit ledger.
func runDiscover(args []string) int {
	fs := flag.NewFlagSet("discover", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")
	id := fs.String("id", "", "Source identifier (required)")
	name := fs.String("name", "", "Human-readable source name (required)")
	url := fs.String("url", "", "Feed or endpoint URL")
	category := fs.String("category", "discovered", "Source category")
	sourceType := fs.String("type", "rss", "Source type")

	if code := parseExit(fs, args); code >= 0 {
		return code
	}
	if *id == "" || *name == "" {
		fmt.Fprintln(os.Stderr, "--id and --name are required")
		return 2
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

	if err := registry.AddDiscovered(*id, *name, *url, *category, *sourceType); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to add source: %v\n", err)
		return 1
	}
	if err := store.Save(registry); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to save source registry: %v\n", err)
		return 1
	}

	if ledger, err := audit.Open(cfg.ResolvedAuditDBPath()); err != nil {
		logger.Warn().Err(err).Msg("audit ledger unavailable, discovery not recorded")
	} else if err := ledger.AppendDiscovery(0, *id, *name, *url, globaltime.UTC()); err != nil {
		logger.Warn().Err(err).Msg("recording discovery failed")
	}

	fmt.Printf("added source %s (%s)\n", *id, *name)
	return 0
}
