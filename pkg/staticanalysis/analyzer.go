package staticanalysis

import (
	"log"
	"os"

	"github.com/akashdevbuilds/lumina-ai-debugger/pkg/pysrc"
)

var staticLog = log.New(os.Stderr, "[lumina:static] ", log.Ltime)

// Options tunes the analysis thresholds. The zero value selects defaults.
type Options struct {
	// LongFunctionLines is the span above which a function is flagged as
	// long; <= 0 selects DefaultLongFunctionLines.
	LongFunctionLines int
}

// EnhancedAnalyzeCode performs the full static analysis of one snippet:
// syntax validation, pattern detection, per-function complexity, line
// metrics, and variable usage. It never returns an error for malformed
// input — syntax failures are captured into the report, and the issue,
// function, and complexity lists stay empty in that case.
//
// The returned report is immutable; analyzing identical text twice yields
// structurally identical reports, issue order included.
func EnhancedAnalyzeCode(source string) *StaticReport {
	return AnalyzeCode(source, Options{})
}

// AnalyzeCode is EnhancedAnalyzeCode with explicit thresholds.
func AnalyzeCode(source string, opts Options) *StaticReport {
	report := &StaticReport{
		Issues:     []Issue{},
		Functions:  []FunctionInfo{},
		Complexity: []ComplexityInfo{},
	}

	tree, err := pysrc.Parse([]byte(source))
	if err != nil {
		// The grammar failed to load or produce a tree at all. Treat it like
		// a parse failure so the caller still gets a structured report.
		staticLog.Printf("parse error: %v", err)
		report.SyntaxValid = false
		report.SyntaxError = &pysrc.SyntaxError{
			Line:      1,
			Message:   err.Error(),
			ErrorType: "SyntaxError",
		}
		report.Metrics = computeMetrics(source, 0, 0)
		return report
	}
	defer tree.Close()

	if synErr := pysrc.CheckSyntax(tree); synErr != nil {
		report.SyntaxValid = false
		report.SyntaxError = synErr
		report.Metrics = computeMetrics(source, 0, 0)
		return report
	}

	report.SyntaxValid = true
	issues, functions, variables := detect(tree, opts.LongFunctionLines)
	if issues != nil {
		report.Issues = issues
	}
	if functions != nil {
		report.Functions = functions
	}
	report.Variables = variables
	if cx := computeComplexity(tree); cx != nil {
		report.Complexity = cx
	}
	report.Metrics = computeMetrics(source, len(report.Functions), len(report.Issues))

	return report
}
