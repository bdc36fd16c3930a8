package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/akashdevbuilds/lumina-ai-debugger/pkg/config"
	"github.com/akashdevbuilds/lumina-ai-debugger/pkg/history"
)

func cmdHistory(cfg *config.Config, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: lumina history list|show <id>|clear")
	}

	store, err := history.NewStore(cfg.HistoryPath)
	if err != nil {
		return fmt.Errorf("opening history store: %w", err)
	}
	defer store.Close()

	switch args[0] {
	case "list":
		return historyList(store)
	case "show":
		if len(args) < 2 {
			return fmt.Errorf("usage: lumina history show <id>")
		}
		return historyShow(store, args[1])
	case "clear":
		return store.Clear()
	default:
		return fmt.Errorf("unknown history subcommand: %s", args[0])
	}
}

func historyList(store *history.Store) error {
	records, err := store.List()
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Println("no stored analysis runs")
		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("ID", "When", "Source", "Syntax", "Issues", "Run")
	for _, rec := range records {
		syntax, issues, run := "-", "-", "-"
		if rec.Static != nil {
			syntax = fmt.Sprintf("%v", rec.Static.SyntaxValid)
			issues = fmt.Sprintf("%d", len(rec.Static.Issues))
		}
		if rec.Dynamic != nil {
			if rec.Dynamic.Success {
				run = "ok"
			} else {
				run = rec.Dynamic.ErrorType
			}
		}
		table.Append([]string{
			rec.ID,
			rec.CreatedAt.Format(time.RFC3339),
			rec.Source,
			syntax,
			issues,
			run,
		})
	}
	table.Render()
	return nil
}

func historyShow(store *history.Store, id string) error {
	rec, err := store.Get(id)
	if err != nil {
		return fmt.Errorf("record %s: %w", id, err)
	}
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}
