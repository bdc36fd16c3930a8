package dynamicanalysis

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/akashdevbuilds/lumina-ai-debugger/pkg/interp"
	"github.com/akashdevbuilds/lumina-ai-debugger/pkg/pysrc"
)

var dynLog = log.New(os.Stderr, "[lumina:dynamic] ", log.Ltime)

// Default engine limits.
const (
	DefaultOutputBudget = 10_000
	DefaultTimeout      = 5 * time.Second
)

// DynamicAnalyzer runs snippets under the tracer with configurable bounds.
// The zero value is not usable; construct with NewDynamicAnalyzer.
type DynamicAnalyzer struct {
	TraceCap     int
	OutputBudget int
	StepBudget   int
	MaxDepth     int
	Timeout      time.Duration
}

// NewDynamicAnalyzer returns an analyzer with default bounds.
func NewDynamicAnalyzer() *DynamicAnalyzer {
	return &DynamicAnalyzer{
		TraceCap:     DefaultMaxTraceEntries,
		OutputBudget: DefaultOutputBudget,
		StepBudget:   interp.DefaultMaxSteps,
		MaxDepth:     interp.DefaultMaxDepth,
		Timeout:      DefaultTimeout,
	}
}

// RunDynamicAnalysis executes source with queued inputs under default bounds
// and the given timeout (0 selects the default).
func RunDynamicAnalysis(source string, inputs []string, timeout time.Duration) *ExecutionResult {
	a := NewDynamicAnalyzer()
	if timeout > 0 {
		a.Timeout = timeout
	}
	return a.AnalyzeCode(source, inputs)
}

// AnalyzeCode performs one instrumented execution and returns the full
// result record. Faults in the snippet are data on the result, never a Go
// error; AnalyzeCode itself does not fail.
func (a *DynamicAnalyzer) AnalyzeCode(source string, inputs []string) (result *ExecutionResult) {
	tree, err := pysrc.Parse([]byte(source))
	if err != nil {
		return &ExecutionResult{
			Success:         false,
			ErrorType:       "SyntaxError",
			ErrorMessage:    err.Error(),
			VariableHistory: map[string][]VariableChange{},
		}
	}
	defer tree.Close()

	// Fast-fail path: a snippet that does not parse is never executed.
	if serr := pysrc.CheckSyntax(tree); serr != nil {
		return &ExecutionResult{
			Success:         false,
			ErrorType:       serr.ErrorType,
			ErrorMessage:    fmt.Sprintf("%s (%s, line %d)", serr.Message, pysrc.SnippetFilename, serr.Line),
			TracebackInfo:   formatSyntaxTraceback(serr),
			VariableHistory: map[string][]VariableChange{},
		}
	}

	tracer := NewExecutionTracer(a.TraceCap, pysrc.SnippetFilename)
	stdout := newBoundedBuffer(a.OutputBudget)
	start := time.Now()
	baseline := residentMemory()

	result = &ExecutionResult{Success: true}

	// Result assembly is deferred so the trace, metrics, and measurements are
	// attached on every exit path, including a fault mid-run.
	defer func() {
		if r := recover(); r != nil {
			dynLog.Printf("warning: execution aborted by internal fault: %v", r)
			result.Success = false
			result.ErrorType = "InternalError"
			result.ErrorMessage = fmt.Sprint(r)
		}
		result.Output = stdout.String()
		result.ExecutionTime = time.Since(start).Seconds()
		result.MemoryPeak = memoryDelta(baseline)
		result.TraceData = tracer.Events()
		result.PerformanceMetrics = tracer.Summary()
		result.VariableHistory = tracer.VariableHistory()
		result.FunctionCalls = tracer.FunctionCalls()
	}()

	in := interp.New(interp.Options{
		Stdout:   stdout,
		Hook:     tracer,
		Input:    queuedInput(inputs),
		MaxSteps: a.StepBudget,
		MaxDepth: a.MaxDepth,
		Deadline: start.Add(a.Timeout),
	})

	if fault := in.Run(tree); fault != nil {
		result.Success = false
		result.ErrorType = fault.Type
		result.ErrorMessage = fault.Message
		result.TracebackInfo = fault.Traceback()
	}
	return result
}

// RunCodeWithTracing is the lightweight runner: no input queue, no memory
// baseline, default bounds, smaller result shape. It shares the same
// install/capture/teardown discipline as AnalyzeCode.
func RunCodeWithTracing(source string) (result *TraceRunResult) {
	tree, err := pysrc.Parse([]byte(source))
	if err != nil {
		return &TraceRunResult{Error: &FaultInfo{Type: "SyntaxError", Message: err.Error()}}
	}
	defer tree.Close()

	if serr := pysrc.CheckSyntax(tree); serr != nil {
		return &TraceRunResult{Error: &FaultInfo{
			Type:      serr.ErrorType,
			Message:   serr.Message,
			Line:      serr.Line,
			Traceback: formatSyntaxTraceback(serr),
		}}
	}

	tracer := NewExecutionTracer(DefaultMaxTraceEntries, pysrc.SnippetFilename)
	stdout := newBoundedBuffer(DefaultOutputBudget)
	stderr := newBoundedBuffer(DefaultOutputBudget)
	start := time.Now()

	result = &TraceRunResult{}
	defer func() {
		if r := recover(); r != nil {
			dynLog.Printf("warning: execution aborted by internal fault: %v", r)
			result.Error = &FaultInfo{Type: "InternalError", Message: fmt.Sprint(r)}
		}
		result.Stdout = stdout.String()
		result.Stderr = stderr.String()
		result.Trace = tracer.Events()
		result.ExecutionTime = time.Since(start).Seconds()
		result.Metrics = tracer.Summary()
	}()

	in := interp.New(interp.Options{
		Stdout:   stdout,
		Hook:     tracer,
		Deadline: start.Add(DefaultTimeout),
	})

	if fault := in.Run(tree); fault != nil {
		line := 0
		if n := len(fault.Frames); n > 0 {
			line = fault.Frames[n-1].Line
		}
		// Snippet tracebacks land on the captured stderr stream, the way the
		// interpreter itself would print them.
		fmt.Fprint(stderr, fault.Traceback())
		result.Error = &FaultInfo{
			Type:      fault.Type,
			Message:   fault.Message,
			Line:      line,
			Traceback: fault.Traceback(),
		}
	}
	return result
}

// queuedInput returns inputs in order, then empty strings once exhausted.
func queuedInput(inputs []string) func() string {
	i := 0
	return func() string {
		if i >= len(inputs) {
			return ""
		}
		v := inputs[i]
		i++
		return v
	}
}

func formatSyntaxTraceback(serr *pysrc.SyntaxError) string {
	s := fmt.Sprintf("  File %q, line %d\n", pysrc.SnippetFilename, serr.Line)
	if serr.Text != "" {
		s += fmt.Sprintf("    %s\n", serr.Text)
	}
	return s + fmt.Sprintf("%s: %s\n", serr.ErrorType, serr.Message)
}

// memoryDelta reports peak resident growth since baseline, clamped at zero;
// measurement noise can make the raw delta negative.
func memoryDelta(baseline int64) int64 {
	if baseline < 0 {
		return 0
	}
	now := residentMemory()
	if now < 0 {
		return 0
	}
	d := now - baseline
	if d < 0 {
		return 0
	}
	return d
}
