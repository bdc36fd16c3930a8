package dynamicanalysis

import "fmt"

// Thresholds for derived performance warnings.
const (
	infiniteLoopEventThreshold = 10_000
	deepRecursionDepth         = 100
	slowExecutionSeconds       = 1.0
	highMemoryBytes            = 50 * 1024 * 1024
)

// PerformanceIssue is a derived warning about an observed execution pattern.
type PerformanceIssue struct {
	Type        string `json:"type"`
	Severity    string `json:"severity"`
	Description string `json:"description"`
}

// PerformancePatterns collects warnings and recommendations read off a
// finished execution.
type PerformancePatterns struct {
	PotentialIssues []PerformanceIssue `json:"potential_issues"`
	Recommendations []string           `json:"recommendations"`
}

// AnalyzePerformancePatterns inspects a finished result for runaway-loop,
// recursion, time, and memory warning signs. An untraced result yields an
// empty pattern set.
func AnalyzePerformancePatterns(result *ExecutionResult) PerformancePatterns {
	p := PerformancePatterns{
		PotentialIssues: []PerformanceIssue{},
		Recommendations: []string{},
	}
	if result == nil || len(result.TraceData) == 0 {
		return p
	}

	metrics := result.PerformanceMetrics
	if metrics.TotalEvents > infiniteLoopEventThreshold {
		p.PotentialIssues = append(p.PotentialIssues, PerformanceIssue{
			Type:        "potential_infinite_loop",
			Severity:    "high",
			Description: "Extremely high number of execution events detected",
		})
	}
	if metrics.MaxStackDepth > deepRecursionDepth {
		p.PotentialIssues = append(p.PotentialIssues, PerformanceIssue{
			Type:        "deep_recursion",
			Severity:    "medium",
			Description: fmt.Sprintf("Maximum stack depth of %d detected", metrics.MaxStackDepth),
		})
	}
	if result.ExecutionTime > slowExecutionSeconds {
		p.Recommendations = append(p.Recommendations,
			"Consider optimizing algorithm - execution time exceeded 1 second")
	}
	if result.MemoryPeak > highMemoryBytes {
		p.Recommendations = append(p.Recommendations,
			"High memory usage detected - consider memory optimization")
	}
	return p
}

// ExecutionFlow renders the call/return structure of a trace as an indented
// listing, one entry per call or return event.
func ExecutionFlow(result *ExecutionResult) []string {
	if result == nil || len(result.TraceData) == 0 {
		return nil
	}
	var flow []string
	for _, ev := range result.TraceData {
		indent := ""
		for i := 0; i < ev.StackDepth; i++ {
			indent += "  "
		}
		switch ev.Event {
		case "call":
			flow = append(flow, fmt.Sprintf("%s-> %s() [line %d]", indent, ev.Function, ev.Line))
		case "return":
			ret := ev.ReturnValue
			if ret == "" {
				ret = "None"
			}
			flow = append(flow, fmt.Sprintf("%s<- returns %s", indent, ret))
		}
	}
	return flow
}
