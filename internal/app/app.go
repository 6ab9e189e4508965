// Package app implements the newshound CLI: one file per subcommand, each
// returning a process exit code.
package app

import (
	"fmt"
	"os"
	"strings"
)

// Run executes the CLI command and returns a process exit code.
func Run(args []string) int {
	if len(args) == 0 {
		printUsage()
		return 2
	}

	switch strings.ToLower(strings.TrimSpace(args[0])) {
	case "help", "--help", "-h":
		printUsage()
		return 0
	case "run":
		return runPipeline(args[1:])
	case "sources":
		return runSources(args[1:])
	case "discover":
		return runDiscover(args[1:])
	case "prune":
		return runPrune(args[1:])
	case "history":
		return runHistory(args[1:])
	case "vocab":
		return runVocab(args[1:])
	case "serve":
		return runServe(args[1:])
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", args[0])
		printUsage()
		return 2
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "newshound CLI")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Usage:")
	fmt.Fprintln(os.Stderr, "  newshound <command> [flags]")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Commands:")
	fmt.Fprintln(os.Stderr, "  run      Execute one full pipeline run")
	fmt.Fprintln(os.Stderr, "  sources  Show source registry health")
	fmt.Fprintln(os.Stderr, "  discover Add a discovered source to the registry")
	fmt.Fprintln(os.Stderr, "  prune    Disable cold discovered sources")
	fmt.Fprintln(os.Stderr, "  history  Summarize the dedup history")
	fmt.Fprintln(os.Stderr, "  vocab    Show vocabulary stats and search query")
	fmt.Fprintln(os.Stderr, "  serve    Start the read-only status API")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Use \"newshound <command> -h\" for command-specific flags.")
}
