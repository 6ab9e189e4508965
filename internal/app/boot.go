package app

import (
	"flag"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/kgrajski/neurotech-newshound/internal/cli"
	"github.com/kgrajski/neurotech-newshound/internal/config"
	"github.com/kgrajski/neurotech-newshound/internal/logging"
)

// boot finishes the shared startup ritual after flag parsing: env file,
// configuration, logger.
func boot(envLoader *cli.EnvLoader) (*config.Config, zerolog.Logger, bool) {
	if envLoader != nil {
		if _, err := envLoader.Load(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		return nil, zerolog.Nop(), false
	}

	logger, err := logging.New(cfg.Environment, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		return nil, zerolog.Nop(), false
	}

	return cfg, logger, true
}

// parseExit maps a FlagSet parse error to an exit code, or -1 to continue.
func parseExit(fs *flag.FlagSet, args []string) int {
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	return -1
}
