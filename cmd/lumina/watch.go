package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/akashdevbuilds/lumina-ai-debugger/pkg/config"
	"github.com/akashdevbuilds/lumina-ai-debugger/pkg/watcher"
)

func cmdWatch(cfg *config.Config, args []string) error {
	paths := positionalArgs(args)
	if len(paths) != 1 {
		return fmt.Errorf("usage: lumina watch <file.py>")
	}
	path := paths[0]

	// Validate and analyze once up front so a bad path fails immediately.
	code, err := readSnippet(path)
	if err != nil {
		return err
	}
	printReport(runAnalysis(cfg, path, code))

	w, err := watcher.New(path, 0, watcher.ChangeHandlerFunc(func(p string) {
		code, err := readSnippet(p)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: %v\n", err)
			return
		}
		fmt.Printf("\n=== %s changed ===\n", p)
		printReport(runAnalysis(cfg, p, code))
	}))
	if err != nil {
		return err
	}
	if err := w.Start(); err != nil {
		return err
	}
	defer w.Stop()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig
	fmt.Println("\nstopping watch")
	return nil
}
