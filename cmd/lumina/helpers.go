package main

import (
	"fmt"
	"os"
	"path/filepath"
)

// fatal prints an error message and exits.
func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

// hasFlag checks if a flag is present in args.
func hasFlag(args []string, flag string) bool {
	for _, arg := range args {
		if arg == flag {
			return true
		}
	}
	return false
}

// positionalArgs returns args with --flags stripped.
func positionalArgs(args []string) []string {
	var out []string
	for _, arg := range args {
		if len(arg) < 2 || arg[:2] != "--" {
			out = append(out, arg)
		}
	}
	return out
}

// readSnippet validates and reads a Python snippet file.
func readSnippet(path string) (string, error) {
	if filepath.Ext(path) != ".py" {
		return "", fmt.Errorf("not a .py file: %s", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("file not found or unreadable: %s", path)
	}
	return string(data), nil
}
