// Package explain turns analysis results into pedagogical explanations for
// learners. Content is served from a curated response table; the dispatch
// picks one primary finding per analysis so the learner gets a single
// focused lesson rather than a wall of diagnostics.
package explain

import (
	"fmt"
	"strings"

	"github.com/akashdevbuilds/lumina-ai-debugger/pkg/dynamicanalysis"
	"github.com/akashdevbuilds/lumina-ai-debugger/pkg/pysrc"
	"github.com/akashdevbuilds/lumina-ai-debugger/pkg/staticanalysis"
)

// Explanation is one focused lesson about the analyzed snippet. Fields not
// relevant to the selected category are left empty.
type Explanation struct {
	Category            string   `json:"category"`
	Title               string   `json:"title"`
	SimpleExplanation   string   `json:"simple_explanation"`
	DetailedExplanation string   `json:"detailed_explanation,omitempty"`
	LearningFocus       string   `json:"learning_focus,omitempty"`
	ErrorLocation       string   `json:"error_location,omitempty"`
	OriginalError       string   `json:"original_error,omitempty"`
	WhatHappened        string   `json:"what_happened,omitempty"`
	RiskLevel           string   `json:"risk_level,omitempty"`
	PatternDetected     string   `json:"pattern_detected,omitempty"`
	CommonCauses        []string `json:"common_causes,omitempty"`
	SaferAlternatives   []string `json:"safer_alternatives,omitempty"`
	FixStrategy         []string `json:"fix_strategy,omitempty"`
	Suggestions         []string `json:"suggestions_for_improvement,omitempty"`
	NextSteps           string   `json:"next_steps,omitempty"`
	LearningTip         string   `json:"learning_tip,omitempty"`
	PreventionTip       string   `json:"prevention_tip,omitempty"`
	DebugTip            string   `json:"debug_tip,omitempty"`
}

// Explain selects and builds the lesson for one analysis round.
// Precedence: syntax error, then runtime fault, then the highest-severity
// static issue, then positive feedback.
func Explain(static *staticanalysis.StaticReport, dynamic *dynamicanalysis.ExecutionResult) *Explanation {
	if static != nil && !static.SyntaxValid {
		return explainSyntaxError(static.SyntaxError)
	}
	if dynamic != nil && !dynamic.Success {
		return explainRuntimeError(dynamic)
	}
	if static != nil && len(static.Issues) > 0 {
		return explainStaticIssues(static.Issues)
	}
	return positiveFeedback(static)
}

func explainSyntaxError(serr *pysrc.SyntaxError) *Explanation {
	var e *Explanation
	msg := ""
	line := 0
	if serr != nil {
		msg = strings.ToLower(serr.Message)
		line = serr.Line
	}

	switch {
	case strings.Contains(msg, "unexpected eof"):
		e = &Explanation{
			Category:          "syntax_error",
			Title:             "Unexpected End of File",
			SimpleExplanation: "Python expected more code but reached the end of your file.",
			DetailedExplanation: "This error occurs when Python is expecting closing brackets, parentheses, quotes, " +
				"or more code but reaches the end of the file instead. It's like starting a sentence " +
				"but never finishing it. Common causes include unclosed strings, missing closing " +
				"brackets, or incomplete function definitions.",
			FixStrategy: []string{
				"Check for unclosed quotes, brackets, or parentheses",
				"Make sure every block opened with a colon has a body",
			},
			LearningTip: "Use an editor that highlights matching brackets to avoid this error.",
		}
	case strings.Contains(msg, "indent"):
		e = &Explanation{
			Category:          "syntax_error",
			Title:             "Indentation Error",
			SimpleExplanation: "Python uses indentation to organize code blocks, and something is misaligned.",
			FixStrategy: []string{
				"Use a consistent number of spaces for each level",
				"Never mix tabs and spaces in the same file",
			},
			LearningTip: "Configure your editor to insert spaces when you press tab.",
		}
	case strings.Contains(msg, "invalid syntax"), strings.Contains(msg, "expected"):
		e = &Explanation{
			Category:          "syntax_error",
			Title:             "Invalid Syntax Detected",
			SimpleExplanation: "Python couldn't understand the structure of your code.",
			DetailedExplanation: "Syntax errors occur when Python can't parse your code according to its grammar rules. " +
				"This usually means there's a typo, missing punctuation, or incorrect code structure. " +
				"Common causes include missing colons after if/for/def statements, unmatched parentheses " +
				"or brackets, incorrect indentation, or typos in keywords.",
			LearningFocus: "Python syntax rules and code structure",
			CommonCauses: []string{
				"Missing colon (:) after if, for, def, class statements",
				"Unmatched parentheses, brackets, or quotes",
				"Incorrect indentation (mixing tabs and spaces)",
				`Typos in Python keywords (e.g. "fro" instead of "for")`,
				"Invalid variable names (starting with numbers or using reserved words)",
			},
			FixStrategy: []string{
				"Check the line number in the error message",
				"Look for missing colons, unmatched brackets, or indentation issues",
				"Read the error message carefully - it often hints at the problem",
				"Check for typos in keywords and variable names",
			},
			LearningTip:   "An editor with Python syntax highlighting catches most of these errors as you type.",
			PreventionTip: "Enable auto-formatting in your editor to catch indentation and spacing issues automatically.",
		}
	default:
		e = &Explanation{
			Category:          "syntax_error",
			Title:             "Syntax Error",
			SimpleExplanation: fmt.Sprintf("Python found a syntax problem: %s", msg),
		}
	}

	if serr != nil {
		e.ErrorLocation = fmt.Sprintf("Line %d", line)
		e.OriginalError = serr.Message
	}
	return e
}

func explainRuntimeError(dynamic *dynamicanalysis.ExecutionResult) *Explanation {
	switch dynamic.ErrorType {
	case "IndexError":
		return &Explanation{
			Category:          "runtime_error",
			Title:             "List Index Out of Range",
			SimpleExplanation: "Your code tried to access a list element that doesn't exist.",
			DetailedExplanation: "IndexError happens when you try to access a list element using an index that's too large. " +
				"Python lists use 0-based indexing, so a list of length 3 has valid indices 0, 1, 2. " +
				"Trying to access index 3 or higher will cause this error. This is often caused by " +
				"off-by-one errors in loops, especially when using range(len(list) + 1) instead of range(len(list)).",
			LearningFocus: "List indexing, loop boundaries, and the range() function",
			WhatHappened: fmt.Sprintf("Your code encountered: %s\nThis means you tried to access an index that doesn't exist in your list.",
				dynamic.ErrorMessage),
			CommonCauses: []string{
				"Using range(len(list) + 1) instead of range(len(list))",
				"Hardcoding loop ranges instead of using len()",
				"Not accounting for empty lists",
				"Using len(list) as an index (it's always one too many!)",
			},
			FixStrategy: []string{
				"Use range(len(your_list)) for safe iteration",
				"Check if the list is empty before accessing elements",
				"Remember: if len(list) = 3, valid indices are 0, 1, 2",
				`Consider "for item in list:" instead of index-based loops`,
				`Use enumerate() if you need both index and value`,
			},
			PreventionTip: `Use "for item in my_list:" when you don't need indices, or enumerate() when you do.`,
			LearningTip:   "Python lists are 0-indexed. A list of length N has indices 0 through N-1.",
			DebugTip:      "Print the list length and the index you're trying to access to debug range issues.",
		}

	case "TypeError":
		msg := strings.ToLower(dynamic.ErrorMessage)
		focus := "Type compatibility in operations"
		cause := "Operation attempted between incompatible data types"
		fix := "Check data types and convert as needed before operations"
		switch {
		case strings.Contains(msg, "can only concatenate str"):
			focus = "String concatenation with incompatible types"
			cause = "Tried to use + operator between string and non-string (like a number)"
			fix = `Convert the number to string: str(number), or use f-strings: f"text {number}"`
		case strings.Contains(msg, "unsupported operand"):
			focus = "Mathematical operations between incompatible types"
			cause = "Tried to do math (like +, -, *) between incompatible data types"
			fix = "Make sure both operands are the same type: convert strings to int/float or vice versa"
		}
		return &Explanation{
			Category:          "runtime_error",
			Title:             "Type Error - Incompatible Operation",
			SimpleExplanation: "You tried to perform an operation between incompatible data types.",
			DetailedExplanation: "TypeError occurs when you try to use an operation or function on data of the wrong type. " +
				"For example, you can't add a string and a number directly. Python is dynamically typed " +
				"but still enforces type compatibility for operations. This often happens when working " +
				"with user input, which always arrives as a string.",
			LearningFocus: focus,
			WhatHappened:  fmt.Sprintf("Error: %s", dynamic.ErrorMessage),
			CommonCauses:  []string{cause},
			FixStrategy: []string{
				fix,
				"Check data types with type()",
				"Use isinstance() to verify types before operations",
				"Convert types explicitly: int(), float(), str()",
			},
			LearningTip:   `"123" + 456 won't work, but "123" + str(456) or int("123") + 456 will.`,
			PreventionTip: "Always validate and convert input data types before using them in operations.",
		}

	case "NameError":
		return &Explanation{
			Category:          "runtime_error",
			Title:             "Name Error",
			SimpleExplanation: "Your code used a variable or function name that was never defined.",
			WhatHappened:      fmt.Sprintf("Error: %s", dynamic.ErrorMessage),
			CommonCauses: []string{
				"Typo in a variable or function name",
				"Using a variable before assigning it",
				"Name defined inside a function but used outside it",
			},
			FixStrategy: []string{
				"Check the spelling of the name in the error message",
				"Make sure the variable is assigned before first use",
			},
			LearningTip: "Python reads top to bottom: a name must be assigned before the line that uses it.",
		}

	case "ValueError":
		return &Explanation{
			Category:          "runtime_error",
			Title:             "Value Error",
			SimpleExplanation: "A function received an argument of the right type but with an unworkable value.",
			WhatHappened:      fmt.Sprintf("Error: %s", dynamic.ErrorMessage),
			FixStrategy: []string{
				`Validate input before converting, e.g. check str.isdigit() before int()`,
				"Wrap risky conversions in try/except ValueError",
			},
			LearningTip: `int("abc") raises ValueError even though "abc" is a perfectly good string.`,
		}

	case "ZeroDivisionError":
		return &Explanation{
			Category:          "runtime_error",
			Title:             "Zero Division Error",
			SimpleExplanation: "Your code attempted to divide by zero.",
			WhatHappened:      fmt.Sprintf("Error: %s", dynamic.ErrorMessage),
			FixStrategy: []string{
				"Check the divisor before dividing: if divisor != 0",
				"Think about where a zero could come from (empty list lengths, counters, user input)",
			},
			LearningTip: "Division by zero is undefined in math, so Python refuses rather than guessing.",
		}

	case "RecursionError":
		return &Explanation{
			Category:          "runtime_error",
			Title:             "Recursion Limit Exceeded",
			SimpleExplanation: "A function kept calling itself without reaching a stopping point.",
			WhatHappened:      fmt.Sprintf("Error: %s", dynamic.ErrorMessage),
			FixStrategy: []string{
				"Make sure the recursive function has a base case",
				"Verify each recursive call moves toward the base case",
				"Consider rewriting with a loop",
			},
			LearningTip: "Every recursive function needs a base case that returns without recursing.",
		}

	default:
		return &Explanation{
			Category:          "runtime_error",
			Title:             dynamic.ErrorType,
			SimpleExplanation: fmt.Sprintf("Runtime error: %s", dynamic.ErrorMessage),
			WhatHappened:      dynamic.TracebackInfo,
		}
	}
}

func explainStaticIssues(issues []staticanalysis.Issue) *Explanation {
	primary := issues[0]
	for _, iss := range issues[1:] {
		if staticanalysis.SeverityRank(iss.Severity) > staticanalysis.SeverityRank(primary.Severity) {
			primary = iss
		}
	}

	switch primary.Type {
	case staticanalysis.IssuePotentialIndexError:
		return &Explanation{
			Category:          "static_analysis_warning",
			Title:             "Potential Index Error Detected",
			SimpleExplanation: "Your loop might try to access list elements that don't exist.",
			DetailedExplanation: fmt.Sprintf("Static analysis found a potential IndexError pattern on line %d. "+
				"The pattern range(len(list) + N) is dangerous because it creates indices that exceed "+
				"the list boundaries. Even though the code looks correct at first glance, this "+
				"off-by-one error will crash when it runs.", primary.Line),
			LearningFocus:   "Preventing runtime errors through careful loop design",
			RiskLevel:       "High - will likely cause runtime crash",
			PatternDetected: primary.Pattern,
			FixStrategy: []string{
				"Change range(len(items) + 1) to range(len(items))",
				"Or use: for item in items: instead of index-based loops",
				"If you need indices: for i, item in enumerate(items):",
				"Always test with different list sizes, including empty lists",
			},
			LearningTip:   `When in doubt, use "for item in my_list:" - it's safer and more readable.`,
			PreventionTip: "Always test your loops with lists of different sizes, including empty ones.",
		}

	case staticanalysis.IssueEvalUsage:
		return &Explanation{
			Category:          "security_warning",
			Title:             "Security Risk: eval() Usage Detected",
			SimpleExplanation: "Using eval() can execute malicious code and is a serious security vulnerability.",
			DetailedExplanation: fmt.Sprintf("eval() usage detected on line %d. The eval() function executes "+
				"any Python code passed to it as a string, which makes it extremely dangerous. "+
				"If an attacker can control the input to eval(), they can run any code they want "+
				"on your system.", primary.Line),
			LearningFocus: "Secure coding practices and safer alternatives to eval()",
			RiskLevel:     "Critical - potential security vulnerability",
			SaferAlternatives: []string{
				"ast.literal_eval() for safe evaluation of literals",
				"json.loads() for parsing JSON data",
				"Custom parsing functions for specific formats",
				"Dictionaries or if-elif chains instead of dynamic execution",
			},
			FixStrategy: []string{
				"Replace eval() with ast.literal_eval() if you need to parse literals",
				"Use json.loads() for JSON data",
				"Never use eval() with untrusted input",
			},
			LearningTip:   "Never use eval() with user input. There's almost always a safer alternative.",
			PreventionTip: "If you think you need eval(), step back and find a safer approach.",
		}

	case staticanalysis.IssueBareExcept:
		return &Explanation{
			Category:          "code_quality_warning",
			Title:             "Poor Exception Handling",
			SimpleExplanation: "A bare except clause catches every error, including ones you didn't anticipate.",
			DetailedExplanation: fmt.Sprintf("The bare except on line %d swallows all exceptions, including "+
				"KeyboardInterrupt and genuine bugs, which makes failures silent and debugging painful.", primary.Line),
			FixStrategy: []string{
				"Catch the specific exception you expect: except ValueError:",
				"If you must catch broadly, log the exception before continuing",
			},
			LearningTip: "An error you silently swallow is an error you'll spend hours finding later.",
		}

	case staticanalysis.IssueLongFunction:
		return &Explanation{
			Category:          "code_quality_warning",
			Title:             "High Complexity",
			SimpleExplanation: "One of your functions has grown long enough to be hard to follow.",
			DetailedExplanation: fmt.Sprintf("The function flagged on line %d is long. Long functions are harder to "+
				"test and reason about; splitting them into named helpers usually improves both.", primary.Line),
			FixStrategy: []string{
				"Extract logical sections into smaller helper functions",
				"Give each function one job and a name that states it",
			},
			LearningTip: "If you can't summarize a function in one sentence, it's probably doing too much.",
		}

	case staticanalysis.IssueMissingDocstring:
		return &Explanation{
			Category:          "code_quality_warning",
			Title:             "Missing Documentation",
			SimpleExplanation: "A function is missing a docstring describing what it does.",
			FixStrategy: []string{
				`Add a short docstring: """Return the total price including tax."""`,
				"State what the function does, not how",
			},
			LearningTip: "Docstrings are the first thing help() and your future self will read.",
		}

	default:
		return &Explanation{
			Category:          "code_quality_warning",
			Title:             "Code Quality Issue",
			SimpleExplanation: primary.Message,
			ErrorLocation:     fmt.Sprintf("Line %d", primary.Line),
		}
	}
}

func positiveFeedback(static *staticanalysis.StaticReport) *Explanation {
	functionCount := 0
	totalLines := 0
	if static != nil {
		functionCount = len(static.Functions)
		totalLines = static.Metrics.TotalLines
	}
	return &Explanation{
		Category:          "code_review",
		Title:             "Code Analysis Complete - Looking Good!",
		SimpleExplanation: "No major issues detected in your code.",
		DetailedExplanation: fmt.Sprintf("Your code passed static analysis successfully. "+
			"Found %d functions across %d lines. The code doesn't contain obvious bug patterns, "+
			"which suggests you're developing good coding habits.", functionCount, totalLines),
		Suggestions: []string{
			"Add docstrings to functions if not already present",
			"Write unit tests to verify behavior with edge cases",
			"Add comments for any complex logic sections",
			"Consider using more descriptive variable names",
		},
		NextSteps: "Try the code with different inputs and edge cases to make sure it handles all " +
			"scenarios, and think about error handling for unexpected inputs.",
		LearningTip: "Clean, well-structured code is easier to debug, maintain, and understand.",
	}
}
