package interp

import (
	"fmt"
	"strings"
)

// TraceFrame is one entry of a fault's call chain, outermost first.
type TraceFrame struct {
	Function string `json:"function"`
	Line     int    `json:"line"`
	Filename string `json:"filename"`
}

// RuntimeError is a fault raised while executing a snippet. Type carries the
// Python-style exception name ("IndexError", "TypeError", ...) so callers can
// dispatch on it without string-matching messages.
type RuntimeError struct {
	Type    string       `json:"type"`
	Message string       `json:"message"`
	Line    int          `json:"line"`
	Frames  []TraceFrame `json:"frames,omitempty"`
}

func (e *RuntimeError) Error() string {
	if e.Message == "" {
		return e.Type
	}
	return e.Type + ": " + e.Message
}

// Traceback renders the fault the way CPython prints one.
func (e *RuntimeError) Traceback() string {
	var b strings.Builder
	b.WriteString("Traceback (most recent call last):\n")
	for _, f := range e.Frames {
		fmt.Fprintf(&b, "  File \"%s\", line %d, in %s\n", f.Filename, f.Line, f.Function)
	}
	b.WriteString(e.Error())
	b.WriteByte('\n')
	return b.String()
}

func raisef(typ string, line int, format string, args ...any) *RuntimeError {
	return &RuntimeError{Type: typ, Message: fmt.Sprintf(format, args...), Line: line}
}

// Control-flow signals. These travel up the exec call chain like errors but
// are consumed by the loop/function construct that owns them.
type flowKind uint8

const (
	flowReturn flowKind = iota
	flowBreak
	flowContinue
)

type flowSignal struct {
	kind  flowKind
	value Value // flowReturn only
}
