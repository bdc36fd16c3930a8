package main

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/akashdevbuilds/lumina-ai-debugger/pkg/config"
)

// demoLimit caps how many sample snippets one demo run walks through.
const demoLimit = 3

func cmdDemo(cfg *config.Config, args []string) error {
	matches, err := doublestar.FilepathGlob(cfg.DemoGlob)
	if err != nil {
		return fmt.Errorf("demo glob %q: %w", cfg.DemoGlob, err)
	}
	if len(matches) == 0 {
		return fmt.Errorf("no demo snippets match %q", cfg.DemoGlob)
	}
	sort.Strings(matches)
	if len(matches) > demoLimit {
		matches = matches[:demoLimit]
	}

	jsonOut := hasFlag(args, "--json")
	for _, path := range matches {
		fmt.Printf("\n=== Demo: %s ===\n", filepath.Base(path))
		code, err := readSnippet(path)
		if err != nil {
			return err
		}
		rep := runAnalysis(cfg, path, code)
		if jsonOut {
			if err := printJSON(rep); err != nil {
				return err
			}
			continue
		}
		printReport(rep)
	}
	return nil
}
