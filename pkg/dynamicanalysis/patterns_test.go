package dynamicanalysis

import (
	"strings"
	"testing"
)

func tracedResult(metrics Summary) *ExecutionResult {
	return &ExecutionResult{
		Success:            true,
		TraceData:          []TraceEvent{{Event: "line", Line: 1}},
		PerformanceMetrics: metrics,
	}
}

// =============================================================================
// Performance Pattern Tests
// =============================================================================

func TestPatterns_EmptyForUntracedResult(t *testing.T) {
	p := AnalyzePerformancePatterns(nil)
	if len(p.PotentialIssues) != 0 || len(p.Recommendations) != 0 {
		t.Errorf("nil result should yield empty patterns, got %+v", p)
	}
	if p.PotentialIssues == nil || p.Recommendations == nil {
		t.Error("pattern slices must be empty, not nil")
	}

	p = AnalyzePerformancePatterns(&ExecutionResult{Success: true})
	if len(p.PotentialIssues) != 0 || len(p.Recommendations) != 0 {
		t.Errorf("untraced result should yield empty patterns, got %+v", p)
	}
}

func TestPatterns_QuietRun(t *testing.T) {
	p := AnalyzePerformancePatterns(tracedResult(Summary{TotalEvents: 10, MaxStackDepth: 2}))
	if len(p.PotentialIssues) != 0 || len(p.Recommendations) != 0 {
		t.Errorf("expected no warnings for a quiet run, got %+v", p)
	}
}

func TestPatterns_PotentialInfiniteLoop(t *testing.T) {
	p := AnalyzePerformancePatterns(tracedResult(Summary{TotalEvents: 20_000}))

	if len(p.PotentialIssues) != 1 {
		t.Fatalf("expected 1 issue, got %+v", p.PotentialIssues)
	}
	if p.PotentialIssues[0].Type != "potential_infinite_loop" {
		t.Errorf("expected potential_infinite_loop, got %q", p.PotentialIssues[0].Type)
	}
	if p.PotentialIssues[0].Severity != "high" {
		t.Errorf("expected high severity, got %q", p.PotentialIssues[0].Severity)
	}
}

func TestPatterns_DeepRecursion(t *testing.T) {
	p := AnalyzePerformancePatterns(tracedResult(Summary{TotalEvents: 5, MaxStackDepth: 150}))

	if len(p.PotentialIssues) != 1 {
		t.Fatalf("expected 1 issue, got %+v", p.PotentialIssues)
	}
	if p.PotentialIssues[0].Type != "deep_recursion" {
		t.Errorf("expected deep_recursion, got %q", p.PotentialIssues[0].Type)
	}
	if p.PotentialIssues[0].Severity != "medium" {
		t.Errorf("expected medium severity, got %q", p.PotentialIssues[0].Severity)
	}
	if !strings.Contains(p.PotentialIssues[0].Description, "150") {
		t.Errorf("expected observed depth in description, got %q", p.PotentialIssues[0].Description)
	}
}

func TestPatterns_TimeAndMemoryRecommendations(t *testing.T) {
	result := tracedResult(Summary{TotalEvents: 5})
	result.ExecutionTime = 2.5
	result.MemoryPeak = 100 * 1024 * 1024

	p := AnalyzePerformancePatterns(result)
	if len(p.Recommendations) != 2 {
		t.Fatalf("expected 2 recommendations, got %v", p.Recommendations)
	}
	if !strings.Contains(p.Recommendations[0], "execution time") {
		t.Errorf("expected a time recommendation first, got %q", p.Recommendations[0])
	}
	if !strings.Contains(p.Recommendations[1], "memory") {
		t.Errorf("expected a memory recommendation second, got %q", p.Recommendations[1])
	}
}

// =============================================================================
// Execution Flow Tests
// =============================================================================

func TestExecutionFlow_Rendering(t *testing.T) {
	result := &ExecutionResult{
		TraceData: []TraceEvent{
			{Event: "call", Function: "<module>", Line: 1, StackDepth: 0},
			{Event: "line", Function: "<module>", Line: 1, StackDepth: 1},
			{Event: "call", Function: "double", Line: 1, StackDepth: 1},
			{Event: "return", Function: "double", Line: 2, StackDepth: 2, ReturnValue: "10"},
			{Event: "return", Function: "<module>", Line: 4, StackDepth: 1},
		},
	}

	flow := ExecutionFlow(result)
	want := []string{
		"-> <module>() [line 1]",
		"  -> double() [line 1]",
		"    <- returns 10",
		"  <- returns None",
	}
	if len(flow) != len(want) {
		t.Fatalf("expected %d flow lines, got %v", len(want), flow)
	}
	for i := range want {
		if flow[i] != want[i] {
			t.Errorf("line %d: expected %q, got %q", i, want[i], flow[i])
		}
	}
}

func TestExecutionFlow_EmptyTrace(t *testing.T) {
	if flow := ExecutionFlow(&ExecutionResult{}); flow != nil {
		t.Errorf("expected nil flow for empty trace, got %v", flow)
	}
}
