package staticanalysis

import "strings"

// computeMetrics derives line counts from the raw source text. Splitting on
// "\n" means text ending with a newline contributes a trailing blank line to
// the total, matching how learners count lines in their editor.
func computeMetrics(source string, functionCount, issueCount int) Metrics {
	lines := strings.Split(source, "\n")

	m := Metrics{
		TotalLines:    len(lines),
		FunctionCount: functionCount,
		IssuesFound:   issueCount,
	}
	for _, line := range lines {
		stripped := strings.TrimSpace(line)
		if stripped == "" {
			continue
		}
		m.NonEmptyLines++
		if strings.HasPrefix(stripped, "#") {
			m.CommentLines++
		}
	}
	return m
}
