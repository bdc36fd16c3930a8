package explain

import (
	"testing"

	"github.com/akashdevbuilds/lumina-ai-debugger/pkg/dynamicanalysis"
	"github.com/akashdevbuilds/lumina-ai-debugger/pkg/pysrc"
	"github.com/akashdevbuilds/lumina-ai-debugger/pkg/staticanalysis"
)

func staticWithIssues(issues ...staticanalysis.Issue) *staticanalysis.StaticReport {
	return &staticanalysis.StaticReport{SyntaxValid: true, Issues: issues}
}

// =============================================================================
// Dispatch Precedence Tests
// =============================================================================

func TestExplain_SyntaxErrorWinsOverEverything(t *testing.T) {
	static := &staticanalysis.StaticReport{
		SyntaxValid: false,
		SyntaxError: &pysrc.SyntaxError{Line: 3, Message: "invalid syntax", ErrorType: "SyntaxError"},
	}
	dynamic := &dynamicanalysis.ExecutionResult{Success: false, ErrorType: "IndexError"}

	e := Explain(static, dynamic)
	if e.Category != "syntax_error" {
		t.Fatalf("expected syntax_error category, got %q", e.Category)
	}
	if e.ErrorLocation != "Line 3" {
		t.Errorf("expected error location Line 3, got %q", e.ErrorLocation)
	}
	if e.OriginalError != "invalid syntax" {
		t.Errorf("expected original error preserved, got %q", e.OriginalError)
	}
}

func TestExplain_RuntimeErrorBeatsStaticIssues(t *testing.T) {
	static := staticWithIssues(staticanalysis.Issue{
		Type:     staticanalysis.IssueEvalUsage,
		Severity: staticanalysis.SevCritical,
	})
	dynamic := &dynamicanalysis.ExecutionResult{
		Success:      false,
		ErrorType:    "IndexError",
		ErrorMessage: "list index out of range",
	}

	e := Explain(static, dynamic)
	if e.Category != "runtime_error" {
		t.Fatalf("expected runtime_error category, got %q", e.Category)
	}
	if e.Title != "List Index Out of Range" {
		t.Errorf("expected index explanation, got %q", e.Title)
	}
}

func TestExplain_HighestSeverityIssueSelected(t *testing.T) {
	static := staticWithIssues(
		staticanalysis.Issue{Type: staticanalysis.IssueMissingDocstring, Severity: staticanalysis.SevMedium, Line: 1},
		staticanalysis.Issue{Type: staticanalysis.IssueEvalUsage, Severity: staticanalysis.SevCritical, Line: 5},
		staticanalysis.Issue{Type: staticanalysis.IssueBareExcept, Severity: staticanalysis.SevMedium, Line: 9},
	)

	e := Explain(static, &dynamicanalysis.ExecutionResult{Success: true})
	if e.Category != "security_warning" {
		t.Fatalf("expected the critical eval issue to win, got category %q (title %q)", e.Category, e.Title)
	}
}

func TestExplain_FirstIssueWinsOnSeverityTie(t *testing.T) {
	static := staticWithIssues(
		staticanalysis.Issue{Type: staticanalysis.IssueBareExcept, Severity: staticanalysis.SevMedium, Line: 2},
		staticanalysis.Issue{Type: staticanalysis.IssueMissingDocstring, Severity: staticanalysis.SevMedium, Line: 7},
	)

	e := Explain(static, nil)
	if e.Title != "Poor Exception Handling" {
		t.Errorf("expected the earlier issue on a tie, got %q", e.Title)
	}
}

func TestExplain_CleanRunGetsPositiveFeedback(t *testing.T) {
	static := staticWithIssues()
	dynamic := &dynamicanalysis.ExecutionResult{Success: true}

	e := Explain(static, dynamic)
	if e.Category != "code_review" {
		t.Errorf("expected positive feedback for a clean run, got %q", e.Category)
	}
	if e.Title == "" || e.SimpleExplanation == "" {
		t.Errorf("expected populated feedback, got %+v", e)
	}
}

// =============================================================================
// Runtime Explanation Tests
// =============================================================================

func TestExplainRuntime_KnownTypes(t *testing.T) {
	cases := []struct {
		errType string
		title   string
	}{
		{"IndexError", "List Index Out of Range"},
		{"TypeError", "Type Error - Incompatible Operation"},
		{"NameError", "Name Error"},
		{"ValueError", "Value Error"},
		{"ZeroDivisionError", "Zero Division Error"},
		{"RecursionError", "Recursion Limit Exceeded"},
	}
	for _, tc := range cases {
		dynamic := &dynamicanalysis.ExecutionResult{Success: false, ErrorType: tc.errType}
		e := Explain(nil, dynamic)
		if e.Category != "runtime_error" {
			t.Errorf("%s: expected runtime_error, got %q", tc.errType, e.Category)
		}
		if e.Title != tc.title {
			t.Errorf("%s: expected title %q, got %q", tc.errType, tc.title, e.Title)
		}
	}
}

func TestExplainRuntime_UnknownTypeFallsBack(t *testing.T) {
	dynamic := &dynamicanalysis.ExecutionResult{Success: false, ErrorType: "OverflowError"}
	e := Explain(nil, dynamic)
	if e.Category != "runtime_error" {
		t.Fatalf("expected runtime_error, got %q", e.Category)
	}
	if e.Title != "OverflowError" {
		t.Errorf("expected the raw error type as title, got %q", e.Title)
	}
}

// =============================================================================
// Syntax Explanation Tests
// =============================================================================

func TestExplainSyntax_MessageRouting(t *testing.T) {
	cases := []struct {
		message string
		title   string
	}{
		{"unexpected EOF while parsing", "Unexpected End of File"},
		{"unexpected indent", "Indentation Error"},
		{"invalid syntax", "Invalid Syntax Detected"},
		{"expected ':'", "Invalid Syntax Detected"},
		{"something exotic", "Syntax Error"},
	}
	for _, tc := range cases {
		static := &staticanalysis.StaticReport{
			SyntaxValid: false,
			SyntaxError: &pysrc.SyntaxError{Line: 1, Message: tc.message, ErrorType: "SyntaxError"},
		}
		e := Explain(static, nil)
		if e.Title != tc.title {
			t.Errorf("%q: expected title %q, got %q", tc.message, tc.title, e.Title)
		}
	}
}
