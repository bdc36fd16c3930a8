// Package main provides the CLI for lumina.
package main

import (
	"fmt"
	"os"

	"github.com/akashdevbuilds/lumina-ai-debugger/internal/version"
	"github.com/akashdevbuilds/lumina-ai-debugger/pkg/config"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	cfg, err := config.Load(os.Getenv("LUMINA_CONFIG"))
	if err != nil {
		fatal("config: %v", err)
	}

	if err := runCommand(cmd, cfg, args); err != nil {
		fatal("%v", err)
	}
}

func runCommand(cmd string, cfg *config.Config, args []string) error {
	switch cmd {
	case "analyze":
		return cmdAnalyze(cfg, args)
	case "demo":
		return cmdDemo(cfg, args)
	case "watch":
		return cmdWatch(cfg, args)
	case "history":
		return cmdHistory(cfg, args)
	case "help", "-h", "--help":
		printUsage()
		return nil
	case "version", "-v", "--version":
		return cmdVersion(args)
	default:
		return fmt.Errorf("unknown command: %s", cmd)
	}
}

func cmdVersion(args []string) error {
	if hasFlag(args, "--json") {
		fmt.Println(version.JSON())
		return nil
	}
	fmt.Println(version.String())
	return nil
}

func printUsage() {
	fmt.Print(`lumina - educational Python bug analyzer

Usage:
  lumina analyze <file.py> [--json]   Analyze one snippet (static + dynamic + explanation)
  lumina demo [--json]                Analyze the bundled sample bugs
  lumina watch <file.py>              Re-analyze on every save
  lumina history list                 List stored analysis runs
  lumina history show <id>            Show one stored run as JSON
  lumina history clear                Delete all stored runs
  lumina version [--json]             Print version information

Configuration is read from lumina.json (or $LUMINA_CONFIG) and
LUMINA_-prefixed environment variables.
`)
}
