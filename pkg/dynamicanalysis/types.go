// Package dynamicanalysis executes Python snippets under an instrumented
// interpreter and reports what actually happened: the event trace, variable
// histories, call records, captured output, timing, and any fault raised.
package dynamicanalysis

// TraceEvent is one observed interpreter step.
type TraceEvent struct {
	Event       string            `json:"event"`
	Function    string            `json:"function"`
	Line        int               `json:"line"`
	Locals      map[string]string `json:"locals"`
	StackDepth  int               `json:"stack_depth"`
	Timestamp   float64           `json:"timestamp"`
	Filename    string            `json:"filename"`
	ReturnValue string            `json:"return_value,omitempty"`
}

// VariableChange is one recorded value of a variable at a line event.
type VariableChange struct {
	Value     string  `json:"value"`
	Line      int     `json:"line"`
	Timestamp float64 `json:"timestamp"`
}

// CallRecord captures a function entry.
type CallRecord struct {
	Name      string            `json:"name"`
	Line      int               `json:"line"`
	Args      map[string]string `json:"args"`
	Timestamp float64           `json:"timestamp"`
}

// Summary aggregates a finished trace.
type Summary struct {
	TotalEvents     int     `json:"total_events"`
	FunctionsCalled int     `json:"functions_called"`
	LinesCovered    int     `json:"lines_covered"`
	MaxStackDepth   int     `json:"max_stack_depth"`
	ExecutionTime   float64 `json:"execution_time"`
	VariableChanges int     `json:"variable_changes"`
}

// ExecutionResult is the full record of one instrumented run. It is built
// once and owned by the caller; nothing retains or mutates it afterwards.
type ExecutionResult struct {
	Success            bool                        `json:"success"`
	Output             string                      `json:"output"`
	ErrorType          string                      `json:"error_type,omitempty"`
	ErrorMessage       string                      `json:"error_message,omitempty"`
	TracebackInfo      string                      `json:"traceback_info,omitempty"`
	ExecutionTime      float64                     `json:"execution_time"`
	MemoryPeak         int64                       `json:"memory_peak"`
	TraceData          []TraceEvent                `json:"trace_data"`
	PerformanceMetrics Summary                     `json:"performance_metrics"`
	VariableHistory    map[string][]VariableChange `json:"variable_history"`
	FunctionCalls      []CallRecord                `json:"function_calls"`
}

// FaultInfo is a structured runtime fault for the lightweight runner.
type FaultInfo struct {
	Type      string `json:"type"`
	Message   string `json:"message"`
	Line      int    `json:"line,omitempty"`
	Traceback string `json:"traceback,omitempty"`
}

// TraceRunResult is the smaller shape produced by RunCodeWithTracing.
type TraceRunResult struct {
	Stdout        string       `json:"stdout"`
	Stderr        string       `json:"stderr"`
	Trace         []TraceEvent `json:"trace"`
	Error         *FaultInfo   `json:"error,omitempty"`
	ExecutionTime float64      `json:"execution_time"`
	Metrics       Summary      `json:"metrics"`
}
