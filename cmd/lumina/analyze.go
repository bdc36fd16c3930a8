package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"github.com/akashdevbuilds/lumina-ai-debugger/pkg/config"
	"github.com/akashdevbuilds/lumina-ai-debugger/pkg/dynamicanalysis"
	"github.com/akashdevbuilds/lumina-ai-debugger/pkg/explain"
	"github.com/akashdevbuilds/lumina-ai-debugger/pkg/history"
	"github.com/akashdevbuilds/lumina-ai-debugger/pkg/staticanalysis"
)

// report bundles one full analysis round for output and storage.
type report struct {
	Source      string                           `json:"source"`
	Static      *staticanalysis.StaticReport     `json:"static_analysis"`
	Dynamic     *dynamicanalysis.ExecutionResult `json:"dynamic_analysis,omitempty"`
	Explanation *explain.Explanation             `json:"explanation"`
	Patterns    dynamicanalysis.PerformancePatterns `json:"performance_patterns"`
	Flow        []string                         `json:"execution_flow,omitempty"`
}

func cmdAnalyze(cfg *config.Config, args []string) error {
	paths := positionalArgs(args)
	if len(paths) != 1 {
		return fmt.Errorf("usage: lumina analyze <file.py> [--json]")
	}

	code, err := readSnippet(paths[0])
	if err != nil {
		return err
	}

	rep := runAnalysis(cfg, paths[0], code)

	// Persist for `lumina history`; analysis output is still produced when
	// the store is unavailable.
	if store, serr := history.NewStore(cfg.HistoryPath); serr == nil {
		defer store.Close()
		rec := &history.Record{
			Source:      paths[0],
			Static:      rep.Static,
			Dynamic:     rep.Dynamic,
			Explanation: rep.Explanation,
		}
		if _, perr := store.Put(rec); perr != nil {
			fmt.Fprintf(os.Stderr, "warning: could not store history record: %v\n", perr)
		}
	}

	if hasFlag(args, "--json") {
		return printJSON(rep)
	}
	printReport(rep)
	return nil
}

// runAnalysis executes the full pipeline: static analysis always, dynamic
// execution only when the snippet parses, then the explanation dispatch.
func runAnalysis(cfg *config.Config, source, code string) *report {
	static := staticanalysis.AnalyzeCode(code, staticanalysis.Options{
		LongFunctionLines: cfg.LongFunctionLines,
	})

	var dynamic *dynamicanalysis.ExecutionResult
	if static.SyntaxValid {
		analyzer := dynamicanalysis.NewDynamicAnalyzer()
		analyzer.TraceCap = cfg.TraceCap
		analyzer.OutputBudget = cfg.OutputBudget
		analyzer.StepBudget = cfg.StepBudget
		analyzer.MaxDepth = cfg.MaxDepth
		analyzer.Timeout = cfg.Timeout()
		dynamic = analyzer.AnalyzeCode(code, nil)
	}

	return &report{
		Source:      source,
		Static:      static,
		Dynamic:     dynamic,
		Explanation: explain.Explain(static, dynamic),
		Patterns:    dynamicanalysis.AnalyzePerformancePatterns(dynamic),
		Flow:        dynamicanalysis.ExecutionFlow(dynamic),
	}
}

func printJSON(rep *report) error {
	data, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

func printReport(rep *report) {
	static := rep.Static

	fmt.Printf("Syntax valid: %v\n", static.SyntaxValid)
	if !static.SyntaxValid {
		if se := static.SyntaxError; se != nil {
			fmt.Printf("Syntax error on line %d: %s\n", se.Line, se.Message)
			if se.Text != "" {
				fmt.Printf("    %s\n", se.Text)
			}
		}
		printExplanation(rep.Explanation)
		return
	}

	fmt.Printf("Lines: %d (%d non-empty, %d comments)  Functions: %d  Issues: %d\n",
		static.Metrics.TotalLines, static.Metrics.NonEmptyLines,
		static.Metrics.CommentLines, static.Metrics.FunctionCount, len(static.Issues))

	if len(static.Issues) > 0 {
		fmt.Println("\nIssues:")
		table := tablewriter.NewWriter(os.Stdout)
		table.Header("Line", "Severity", "Type", "Message")
		for _, iss := range static.Issues {
			table.Append([]string{strconv.Itoa(iss.Line), iss.Severity, iss.Type, iss.Message})
		}
		table.Render()
	}

	if len(static.Complexity) > 0 {
		fmt.Println("\nComplexity:")
		table := tablewriter.NewWriter(os.Stdout)
		table.Header("Function", "Complexity", "Classification")
		for _, c := range static.Complexity {
			table.Append([]string{c.Name, strconv.Itoa(c.Complexity), c.Classification})
		}
		table.Render()
	}

	if dyn := rep.Dynamic; dyn != nil {
		fmt.Printf("\nExecution success: %v\n", dyn.Success)
		if dyn.Output != "" {
			fmt.Printf("Output:\n%s\n", dyn.Output)
		}
		if !dyn.Success {
			fmt.Printf("%s: %s\n", dyn.ErrorType, dyn.ErrorMessage)
		}
		m := dyn.PerformanceMetrics
		fmt.Printf("Trace: %d events, %d functions, %d lines covered, max depth %d, %.4fs\n",
			m.TotalEvents, m.FunctionsCalled, m.LinesCovered, m.MaxStackDepth, dyn.ExecutionTime)
		for _, iss := range rep.Patterns.PotentialIssues {
			fmt.Printf("Warning [%s]: %s\n", iss.Severity, iss.Description)
		}
		for _, rec := range rep.Patterns.Recommendations {
			fmt.Printf("Recommendation: %s\n", rec)
		}
	}

	printExplanation(rep.Explanation)
}

func printExplanation(e *explain.Explanation) {
	if e == nil {
		return
	}
	fmt.Printf("\n%s\n", e.Title)
	fmt.Printf("  %s\n", e.SimpleExplanation)
	if e.DetailedExplanation != "" {
		fmt.Printf("\n  %s\n", e.DetailedExplanation)
	}
	if len(e.FixStrategy) > 0 {
		fmt.Println("\n  How to fix:")
		for i, step := range e.FixStrategy {
			fmt.Printf("  %d. %s\n", i+1, step)
		}
	}
	if e.LearningTip != "" {
		fmt.Printf("\n  Tip: %s\n", e.LearningTip)
	}
}
