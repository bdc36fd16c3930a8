package interp

// EventKind labels a step-observer event.
type EventKind uint8

const (
	EventCall EventKind = iota
	EventLine
	EventReturn
)

func (k EventKind) String() string {
	switch k {
	case EventCall:
		return "call"
	case EventLine:
		return "line"
	case EventReturn:
		return "return"
	default:
		return "unknown"
	}
}

// Event is one step of snippet execution as seen by the observer. Locals is
// a copy of the current frame's own bindings; values are live (aliased), so
// observers must render them immediately rather than retaining them.
type Event struct {
	Kind     EventKind
	Function string
	Line     int
	Filename string
	Locals   map[string]Value
	Return   Value
	HasRet   bool
}

// Hook is the step observer. OnEvent returning false signals "no further
// interest": the interpreter detaches the hook for the remainder of the run
// and execution continues unobserved.
//
// The hook slot is per-interpreter state, but conceptually it models a
// process-global introspection facility: callers must not share one observer
// across concurrent executions.
type Hook interface {
	OnEvent(ev Event) bool
}
