package dynamicanalysis

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/akashdevbuilds/lumina-ai-debugger/pkg/interp"
	"github.com/akashdevbuilds/lumina-ai-debugger/pkg/pysrc"
)

// DefaultMaxTraceEntries bounds the retained event history per run.
const DefaultMaxTraceEntries = 500

// reprLimit is the longest textual value the tracer stores for a local.
const reprLimit = 100

// ExecutionTracer records the interpreter's event stream for one run.
// Once the entry cap is reached it detaches silently; a full trace must be
// treated as possibly incomplete.
type ExecutionTracer struct {
	maxEntries int
	filename   string

	started   bool
	startTime time.Time

	events          []TraceEvent
	variableHistory map[string][]VariableChange
	callStack       []string
	functionCalls   []CallRecord
}

// NewExecutionTracer creates a tracer accepting events from frames whose
// filename matches the given snippet filename. maxEntries <= 0 selects the
// default cap.
func NewExecutionTracer(maxEntries int, filename string) *ExecutionTracer {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxTraceEntries
	}
	if filename == "" {
		filename = pysrc.SnippetFilename
	}
	return &ExecutionTracer{
		maxEntries:      maxEntries,
		filename:        filename,
		variableHistory: make(map[string][]VariableChange),
	}
}

// OnEvent implements interp.Hook. Returning false tells the interpreter the
// tracer has no further interest for this run.
func (t *ExecutionTracer) OnEvent(ev interp.Event) bool {
	if len(t.events) >= t.maxEntries {
		return false
	}
	if t.skipFrame(ev.Filename) {
		return true
	}
	if !t.started {
		t.started = true
		t.startTime = time.Now()
	}
	ts := time.Since(t.startTime).Seconds()

	locals := make(map[string]string, len(ev.Locals))
	for name, v := range ev.Locals {
		if strings.HasPrefix(name, "__") {
			continue
		}
		locals[name] = safeRepr(v)
	}

	// Depth is recorded as it stands before this event mutates the stack.
	entry := TraceEvent{
		Event:      ev.Kind.String(),
		Function:   ev.Function,
		Line:       ev.Line,
		Locals:     locals,
		StackDepth: len(t.callStack),
		Timestamp:  ts,
		Filename:   ev.Filename,
	}

	switch ev.Kind {
	case interp.EventLine:
		for name, repr := range locals {
			t.variableHistory[name] = append(t.variableHistory[name], VariableChange{Value: repr, Line: ev.Line, Timestamp: ts})
		}
	case interp.EventCall:
		t.callStack = append(t.callStack, ev.Function)
		args := make(map[string]string)
		for name, repr := range locals {
			if !strings.HasPrefix(name, "_") {
				args[name] = repr
			}
		}
		t.functionCalls = append(t.functionCalls, CallRecord{
			Name:      ev.Function,
			Line:      ev.Line,
			Args:      args,
			Timestamp: ts,
		})
	case interp.EventReturn:
		if len(t.callStack) > 0 {
			t.callStack = t.callStack[:len(t.callStack)-1]
		}
		if ev.HasRet {
			entry.ReturnValue = safeRepr(ev.Return)
		} else {
			entry.ReturnValue = "None"
		}
	}

	t.events = append(t.events, entry)
	return true
}

// skipFrame filters out synthetic/internal frames and library paths so only
// user code lands in the trace.
func (t *ExecutionTracer) skipFrame(filename string) bool {
	if filename == t.filename {
		return false
	}
	return strings.Contains(filename, "<") || strings.Contains(filename, "site-packages")
}

// Events returns the recorded trace in observation order.
func (t *ExecutionTracer) Events() []TraceEvent {
	return t.events
}

// VariableHistory returns per-variable value timelines.
func (t *ExecutionTracer) VariableHistory() map[string][]VariableChange {
	return t.variableHistory
}

// FunctionCalls returns the recorded call entries in order.
func (t *ExecutionTracer) FunctionCalls() []CallRecord {
	return t.functionCalls
}

// Summary aggregates the finished trace.
func (t *ExecutionTracer) Summary() Summary {
	functions := make(map[string]struct{})
	lines := make(map[int]struct{})
	maxDepth := 0
	lastTS := 0.0
	for _, ev := range t.events {
		switch ev.Event {
		case "call":
			functions[ev.Function] = struct{}{}
		case "line":
			lines[ev.Line] = struct{}{}
		}
		if ev.StackDepth > maxDepth {
			maxDepth = ev.StackDepth
		}
		if ev.Timestamp > lastTS {
			lastTS = ev.Timestamp
		}
	}
	return Summary{
		TotalEvents:     len(t.events),
		FunctionsCalled: len(functions),
		LinesCovered:    len(lines),
		MaxStackDepth:   maxDepth,
		ExecutionTime:   lastTS,
		VariableChanges: len(t.variableHistory),
	}
}

// safeRepr renders a value for the trace, truncated to reprLimit characters.
// A panic during rendering yields a typed placeholder instead of aborting
// the trace.
func safeRepr(v interp.Value) (out string) {
	defer func() {
		if recover() != nil {
			out = fmt.Sprintf("<unrepr-able %s>", interp.TypeName(v))
		}
	}()
	s := interp.Repr(v)
	if len(s) > reprLimit {
		cut := reprLimit - 3
		// Back off to a rune boundary so truncation never emits invalid UTF-8.
		for cut > 0 && !utf8.RuneStart(s[cut]) {
			cut--
		}
		s = s[:cut] + "..."
	}
	return s
}
