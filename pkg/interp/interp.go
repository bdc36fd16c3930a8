package interp

import (
	"io"
	"time"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/akashdevbuilds/lumina-ai-debugger/pkg/pysrc"
)

// Default execution limits. The step budget is a blunt guard against runaway
// loops, not a real timeout; callers that need hard cancellation must enforce
// it externally.
const (
	DefaultMaxSteps = 200_000
	DefaultMaxDepth = 200
)

// BuiltinFilename is attributed to frames of native functions so step
// observers can filter non-user code.
const BuiltinFilename = "<builtin>"

// Options configures one interpreter instance.
type Options struct {
	// Stdout receives print() and input() prompt output. Defaults to
	// io.Discard.
	Stdout io.Writer
	// Hook observes call/line/return events. May be nil.
	Hook Hook
	// Input supplies the next line for input(). When nil, input() returns "".
	Input func() string
	// MaxSteps bounds executed statements; 0 means DefaultMaxSteps.
	MaxSteps int
	// MaxDepth bounds user-function call nesting; 0 means DefaultMaxDepth.
	MaxDepth int
	// Filename is attributed to snippet frames; "" means pysrc.SnippetFilename.
	Filename string
	// Deadline aborts execution with a TimeoutError once passed. Zero means
	// no deadline. Checked between statements, so a single long-running
	// native operation can overshoot slightly.
	Deadline time.Time
}

type frame struct {
	name     string
	env      *Env
	line     int
	filename string
}

// Interp executes one snippet. Instances are single-use and not safe for
// concurrent use; construct a fresh one per execution.
type Interp struct {
	src      []byte
	filename string
	globals  *Env
	frames   []*frame
	stdout   io.Writer
	inputFn  func() string
	hook     Hook
	hookOn   bool
	steps    int
	maxSteps int
	maxDepth int
	deadline time.Time
}

// New creates an interpreter with the given options.
func New(opts Options) *Interp {
	in := &Interp{
		stdout:   opts.Stdout,
		inputFn:  opts.Input,
		hook:     opts.Hook,
		hookOn:   opts.Hook != nil,
		maxSteps: opts.MaxSteps,
		maxDepth: opts.MaxDepth,
		filename: opts.Filename,
		deadline: opts.Deadline,
	}
	if in.stdout == nil {
		in.stdout = io.Discard
	}
	if in.maxSteps <= 0 {
		in.maxSteps = DefaultMaxSteps
	}
	if in.maxDepth <= 0 {
		in.maxDepth = DefaultMaxDepth
	}
	if in.filename == "" {
		in.filename = pysrc.SnippetFilename
	}
	in.globals = NewGlobals(in)
	return in
}

// Globals exposes the module scope, mainly for tests and the eval builtin.
func (in *Interp) Globals() *Env {
	return in.globals
}

// Run executes a parsed snippet to completion. A nil return means the
// snippet finished normally; otherwise the fault is returned with its
// traceback frames attached. Run never panics on snippet behavior.
func (in *Interp) Run(tree *pysrc.Tree) *RuntimeError {
	in.src = tree.Source

	mod := &frame{name: "<module>", env: in.globals, line: 1, filename: in.filename}
	in.frames = append(in.frames, mod)
	defer func() { in.frames = in.frames[:len(in.frames)-1] }()

	in.fireEvent(EventCall, None(), false)

	sig, err := in.execBlock(tree.Root(), in.globals)
	if err != nil {
		return err
	}
	_ = sig // break/continue/return at module level are rejected at parse time

	in.fireEvent(EventReturn, None(), true)
	return nil
}

// raise builds a RuntimeError carrying the current call chain.
func (in *Interp) raise(typ string, line int, format string, args ...any) *RuntimeError {
	err := raisef(typ, line, format, args...)
	for _, f := range in.frames {
		err.Frames = append(err.Frames, TraceFrame{Function: f.name, Line: f.line, Filename: f.filename})
	}
	if n := len(err.Frames); n > 0 && line > 0 {
		err.Frames[n-1].Line = line
	}
	return err
}

func (in *Interp) current() *frame {
	return in.frames[len(in.frames)-1]
}

// fireEvent delivers one event to the hook. Once the hook reports no further
// interest it stays detached for the rest of the run.
func (in *Interp) fireEvent(kind EventKind, ret Value, hasRet bool) {
	if !in.hookOn {
		return
	}
	f := in.current()
	keep := in.hook.OnEvent(Event{
		Kind:     kind,
		Function: f.name,
		Line:     f.line,
		Filename: f.filename,
		Locals:   f.env.Snapshot(),
		Return:   ret,
		HasRet:   hasRet,
	})
	if !keep {
		in.hookOn = false
	}
}

// execBlock executes the statements of a block (or the module root).
func (in *Interp) execBlock(block *tree_sitter.Node, env *Env) (*flowSignal, *RuntimeError) {
	for i := uint(0); i < block.NamedChildCount(); i++ {
		stmt := block.NamedChild(i)
		if stmt.Kind() == "comment" {
			continue
		}
		sig, err := in.execStatement(stmt, env)
		if err != nil || sig != nil {
			return sig, err
		}
	}
	return nil, nil
}

func (in *Interp) execStatement(n *tree_sitter.Node, env *Env) (*flowSignal, *RuntimeError) {
	line := pysrc.Line(n)

	in.steps++
	if in.steps > in.maxSteps {
		return nil, in.raise("RuntimeError", line, "execution step budget exceeded (%d statements)", in.maxSteps)
	}
	// Amortize the clock read; exactness of the cutoff point is not needed.
	if in.steps%64 == 0 && !in.deadline.IsZero() && time.Now().After(in.deadline) {
		return nil, in.raise("TimeoutError", line, "execution timed out")
	}

	in.current().line = line
	in.fireEvent(EventLine, None(), false)

	switch n.Kind() {
	case "expression_statement":
		for i := uint(0); i < n.NamedChildCount(); i++ {
			expr := n.NamedChild(i)
			switch expr.Kind() {
			case "assignment", "augmented_assignment":
				if err := in.execAssign(expr, env); err != nil {
					return nil, err
				}
			default:
				if _, err := in.evalExpr(expr, env); err != nil {
					return nil, err
				}
			}
		}
		return nil, nil

	case "function_definition":
		return nil, in.execFunctionDef(n, env)

	case "return_statement":
		val := None()
		if n.NamedChildCount() > 0 {
			v, err := in.evalExpr(n.NamedChild(0), env)
			if err != nil {
				return nil, err
			}
			val = v
		}
		return &flowSignal{kind: flowReturn, value: val}, nil

	case "if_statement":
		return in.execIf(n, env)

	case "for_statement":
		return in.execFor(n, env)

	case "while_statement":
		return in.execWhile(n, env)

	case "try_statement":
		return in.execTry(n, env)

	case "raise_statement":
		return nil, in.execRaise(n, env)

	case "pass_statement":
		return nil, nil

	case "break_statement":
		return &flowSignal{kind: flowBreak}, nil

	case "continue_statement":
		return &flowSignal{kind: flowContinue}, nil

	case "assert_statement":
		cond, err := in.evalExpr(n.NamedChild(0), env)
		if err != nil {
			return nil, err
		}
		if !Truthy(cond) {
			msg := ""
			if n.NamedChildCount() > 1 {
				v, err := in.evalExpr(n.NamedChild(1), env)
				if err != nil {
					return nil, err
				}
				msg = Str(v)
			}
			return nil, in.raise("AssertionError", line, "%s", msg)
		}
		return nil, nil

	case "import_statement", "import_from_statement", "future_import_statement":
		return nil, in.raise("ImportError", line, "imports are not available in snippet execution")

	case "global_statement", "nonlocal_statement":
		// Accepted but inert: the snippet scope model resolves reads through
		// the chain already, and writes at module level hit globals.
		return nil, nil

	case "block":
		return in.execBlock(n, env)

	default:
		return nil, in.raise("NotImplementedError", line, "statement %q is not supported in snippet execution", n.Kind())
	}
}

func (in *Interp) execFunctionDef(n *tree_sitter.Node, env *Env) *RuntimeError {
	line := pysrc.Line(n)
	name := pysrc.Text(n.ChildByFieldName("name"), in.src)
	body := n.ChildByFieldName("body")
	if name == "" || body == nil {
		return in.raise("SyntaxError", line, "malformed function definition")
	}

	var params []Param
	if ps := n.ChildByFieldName("parameters"); ps != nil {
		for i := uint(0); i < ps.NamedChildCount(); i++ {
			p := ps.NamedChild(i)
			switch p.Kind() {
			case "identifier":
				params = append(params, Param{Name: pysrc.Text(p, in.src)})
			case "default_parameter", "typed_default_parameter":
				pname := pysrc.Text(p.ChildByFieldName("name"), in.src)
				dv, err := in.evalExpr(p.ChildByFieldName("value"), env)
				if err != nil {
					return err
				}
				def := dv
				params = append(params, Param{Name: pname, Default: &def})
			case "typed_parameter":
				// First named child is the identifier; the annotation is inert.
				id := p.NamedChild(0)
				params = append(params, Param{Name: pysrc.Text(id, in.src)})
			default:
				return in.raise("NotImplementedError", line, "parameter form %q is not supported", p.Kind())
			}
		}
	}

	env.Define(name, Value{Tag: TagFunc, Fn: &Function{
		Name:    name,
		Params:  params,
		Body:    body,
		Closure: env,
		Line:    line,
		Source:  in.src,
	}})
	return nil
}

func (in *Interp) execIf(n *tree_sitter.Node, env *Env) (*flowSignal, *RuntimeError) {
	cond, err := in.evalExpr(n.ChildByFieldName("condition"), env)
	if err != nil {
		return nil, err
	}
	if Truthy(cond) {
		return in.execBlock(n.ChildByFieldName("consequence"), env)
	}

	for i := uint(0); i < n.ChildCount(); i++ {
		clause := n.Child(i)
		switch clause.Kind() {
		case "elif_clause":
			c, err := in.evalExpr(clause.ChildByFieldName("condition"), env)
			if err != nil {
				return nil, err
			}
			if Truthy(c) {
				return in.execBlock(clause.ChildByFieldName("consequence"), env)
			}
		case "else_clause":
			return in.execBlock(clause.ChildByFieldName("body"), env)
		}
	}
	return nil, nil
}

func (in *Interp) execFor(n *tree_sitter.Node, env *Env) (*flowSignal, *RuntimeError) {
	line := pysrc.Line(n)
	left := n.ChildByFieldName("left")
	body := n.ChildByFieldName("body")

	iterable, err := in.evalExpr(n.ChildByFieldName("right"), env)
	if err != nil {
		return nil, err
	}

	first := true
	runBody := func(item Value) (*flowSignal, *RuntimeError) {
		if !first {
			// Loop re-entry registers as another visit of the header line.
			in.current().line = line
			in.fireEvent(EventLine, None(), false)
		}
		first = false

		if err := in.assignTarget(left, item, env, line); err != nil {
			return nil, err
		}
		sig, err := in.execBlock(body, env)
		if err != nil {
			return nil, err
		}
		if sig != nil {
			switch sig.kind {
			case flowBreak:
				return &flowSignal{kind: flowBreak}, nil
			case flowContinue:
				return nil, nil
			case flowReturn:
				return sig, nil
			}
		}
		return nil, nil
	}

	switch iterable.Tag {
	case TagRange:
		r := iterable.Range
		step := r.Step
		for v := r.Start; (step > 0 && v < r.Stop) || (step < 0 && v > r.Stop); v += step {
			sig, err := runBody(IntVal(v))
			if err != nil {
				return nil, err
			}
			if sig != nil {
				if sig.kind == flowBreak {
					return nil, nil
				}
				return sig, nil
			}
		}
		return nil, nil
	case TagList, TagTuple:
		// Index-based so appends during iteration behave like Python.
		for i := 0; i < len(iterable.List.Items); i++ {
			sig, err := runBody(iterable.List.Items[i])
			if err != nil {
				return nil, err
			}
			if sig != nil {
				if sig.kind == flowBreak {
					return nil, nil
				}
				return sig, nil
			}
		}
		return nil, nil
	case TagStr:
		for _, r := range iterable.Str {
			sig, err := runBody(StrVal(string(r)))
			if err != nil {
				return nil, err
			}
			if sig != nil {
				if sig.kind == flowBreak {
					return nil, nil
				}
				return sig, nil
			}
		}
		return nil, nil
	case TagDict:
		entries := append([]DictEntry(nil), iterable.Dict.Entries...)
		for _, e := range entries {
			sig, err := runBody(e.Key)
			if err != nil {
				return nil, err
			}
			if sig != nil {
				if sig.kind == flowBreak {
					return nil, nil
				}
				return sig, nil
			}
		}
		return nil, nil
	default:
		return nil, in.raise("TypeError", line, "'%s' object is not iterable", TypeName(iterable))
	}
}

func (in *Interp) execWhile(n *tree_sitter.Node, env *Env) (*flowSignal, *RuntimeError) {
	line := pysrc.Line(n)
	cond := n.ChildByFieldName("condition")
	body := n.ChildByFieldName("body")

	first := true
	for {
		if !first {
			in.steps++
			if in.steps > in.maxSteps {
				return nil, in.raise("RuntimeError", line, "execution step budget exceeded (%d statements)", in.maxSteps)
			}
			in.current().line = line
			in.fireEvent(EventLine, None(), false)
		}
		first = false

		c, err := in.evalExpr(cond, env)
		if err != nil {
			return nil, err
		}
		if !Truthy(c) {
			return nil, nil
		}

		sig, err := in.execBlock(body, env)
		if err != nil {
			return nil, err
		}
		if sig != nil {
			switch sig.kind {
			case flowBreak:
				return nil, nil
			case flowContinue:
				continue
			case flowReturn:
				return sig, nil
			}
		}
	}
}

func (in *Interp) execTry(n *tree_sitter.Node, env *Env) (*flowSignal, *RuntimeError) {
	body := n.ChildByFieldName("body")

	runFinally := func(sig *flowSignal, err *RuntimeError) (*flowSignal, *RuntimeError) {
		for i := uint(0); i < n.ChildCount(); i++ {
			clause := n.Child(i)
			if clause.Kind() != "finally_clause" {
				continue
			}
			var block *tree_sitter.Node
			for j := uint(0); j < clause.NamedChildCount(); j++ {
				if clause.NamedChild(j).Kind() == "block" {
					block = clause.NamedChild(j)
				}
			}
			if block == nil {
				continue
			}
			fsig, ferr := in.execBlock(block, env)
			if ferr != nil {
				// A fault in finally replaces the in-flight outcome.
				return nil, ferr
			}
			if fsig != nil {
				return fsig, nil
			}
		}
		return sig, err
	}

	sig, err := in.execBlock(body, env)
	if err == nil {
		// else clause runs only on clean completion of the try body.
		if sig == nil {
			for i := uint(0); i < n.ChildCount(); i++ {
				clause := n.Child(i)
				if clause.Kind() == "else_clause" {
					sig, err = in.execBlock(clause.ChildByFieldName("body"), env)
					break
				}
			}
		}
		return runFinally(sig, err)
	}

	for i := uint(0); i < n.ChildCount(); i++ {
		clause := n.Child(i)
		if clause.Kind() != "except_clause" {
			continue
		}
		matched, alias := in.handlerMatches(clause, err)
		if !matched {
			continue
		}
		var block *tree_sitter.Node
		for j := uint(0); j < clause.NamedChildCount(); j++ {
			if clause.NamedChild(j).Kind() == "block" {
				block = clause.NamedChild(j)
			}
		}
		if block == nil {
			return runFinally(nil, nil)
		}
		if alias != "" {
			env.Define(alias, StrVal(err.Message))
		}
		hsig, herr := in.execBlock(block, env)
		return runFinally(hsig, herr)
	}

	return runFinally(nil, err)
}

// handlerMatches decides whether an except clause catches err, returning the
// "as" alias name when one is declared. A clause with no declared type is a
// bare catch-all.
func (in *Interp) handlerMatches(clause *tree_sitter.Node, err *RuntimeError) (bool, string) {
	var typeExpr *tree_sitter.Node
	alias := ""

	for i := uint(0); i < clause.NamedChildCount(); i++ {
		c := clause.NamedChild(i)
		switch c.Kind() {
		case "block":
			// handler body, not part of the clause head
		case "as_pattern":
			typeExpr = c.NamedChild(0)
			if c.NamedChildCount() > 1 {
				target := c.NamedChild(1)
				if target.Kind() == "as_pattern_target" && target.NamedChildCount() > 0 {
					alias = pysrc.Text(target.NamedChild(0), in.src)
				} else {
					alias = pysrc.Text(target, in.src)
				}
			}
		default:
			if typeExpr == nil {
				typeExpr = c
			} else if alias == "" && c.Kind() == "identifier" {
				alias = pysrc.Text(c, in.src)
			}
		}
	}

	if typeExpr == nil {
		return true, alias // bare except
	}
	return in.exceptionNameMatches(typeExpr, err), alias
}

func (in *Interp) exceptionNameMatches(expr *tree_sitter.Node, err *RuntimeError) bool {
	switch expr.Kind() {
	case "identifier":
		name := pysrc.Text(expr, in.src)
		return name == err.Type || name == "Exception" || name == "BaseException"
	case "tuple", "parenthesized_expression":
		for i := uint(0); i < expr.NamedChildCount(); i++ {
			if in.exceptionNameMatches(expr.NamedChild(i), err) {
				return true
			}
		}
		return false
	default:
		return false
	}
}

func (in *Interp) execRaise(n *tree_sitter.Node, env *Env) *RuntimeError {
	line := pysrc.Line(n)
	if n.NamedChildCount() == 0 {
		return in.raise("RuntimeError", line, "No active exception to re-raise")
	}

	expr := n.NamedChild(0)
	switch expr.Kind() {
	case "call":
		fn := expr.ChildByFieldName("function")
		if fn != nil && fn.Kind() == "identifier" {
			typ := pysrc.Text(fn, in.src)
			msg := ""
			if args := expr.ChildByFieldName("arguments"); args != nil && args.NamedChildCount() > 0 {
				v, err := in.evalExpr(args.NamedChild(0), env)
				if err != nil {
					return err
				}
				msg = Str(v)
			}
			return in.raise(typ, line, "%s", msg)
		}
	case "identifier":
		return in.raise(pysrc.Text(expr, in.src), line, "")
	}

	v, err := in.evalExpr(expr, env)
	if err != nil {
		return err
	}
	return in.raise("Exception", line, "%s", Str(v))
}

// execAssign handles assignment and augmented assignment expressions.
func (in *Interp) execAssign(n *tree_sitter.Node, env *Env) *RuntimeError {
	line := pysrc.Line(n)
	left := n.ChildByFieldName("left")
	right := n.ChildByFieldName("right")
	if left == nil {
		return in.raise("SyntaxError", line, "malformed assignment")
	}
	if right == nil {
		// Bare annotation (`x: int`) binds nothing.
		return nil
	}

	val, err := in.evalExpr(right, env)
	if err != nil {
		return err
	}

	if n.Kind() == "augmented_assignment" {
		op := pysrc.Text(n.ChildByFieldName("operator"), in.src)
		op = op[:len(op)-1] // "+=" -> "+"
		cur, err := in.evalExpr(left, env)
		if err != nil {
			return err
		}
		val, err = in.applyBinary(op, cur, val, line)
		if err != nil {
			return err
		}
	}

	return in.assignTarget(left, val, env, line)
}

// assignTarget binds val to an assignment target: a name, an unpacking
// pattern, or a container element.
func (in *Interp) assignTarget(target *tree_sitter.Node, val Value, env *Env, line int) *RuntimeError {
	switch target.Kind() {
	case "identifier":
		env.Define(pysrc.Text(target, in.src), val)
		return nil

	case "pattern_list", "tuple_pattern", "list_pattern", "expression_list", "tuple":
		if val.Tag != TagList && val.Tag != TagTuple {
			return in.raise("TypeError", line, "cannot unpack non-sequence %s", TypeName(val))
		}
		names := pysrc.NamedChildren(target)
		items := val.List.Items
		if len(names) != len(items) {
			if len(items) > len(names) {
				return in.raise("ValueError", line, "too many values to unpack (expected %d)", len(names))
			}
			return in.raise("ValueError", line, "not enough values to unpack (expected %d, got %d)", len(names), len(items))
		}
		for i, name := range names {
			if err := in.assignTarget(name, items[i], env, line); err != nil {
				return err
			}
		}
		return nil

	case "subscript":
		container, err := in.evalExpr(target.ChildByFieldName("value"), env)
		if err != nil {
			return err
		}
		index, err := in.evalExpr(target.ChildByFieldName("subscript"), env)
		if err != nil {
			return err
		}
		return in.setItem(container, index, val, line)

	case "parenthesized_expression":
		return in.assignTarget(target.NamedChild(0), val, env, line)

	default:
		return in.raise("NotImplementedError", line, "assignment target %q is not supported", target.Kind())
	}
}

func (in *Interp) setItem(container, index, val Value, line int) *RuntimeError {
	switch container.Tag {
	case TagList:
		if index.Tag != TagInt && index.Tag != TagBool {
			return in.raise("TypeError", line, "list indices must be integers, not %s", TypeName(index))
		}
		i, ok := normalizeIndex(indexInt(index), len(container.List.Items))
		if !ok {
			return in.raise("IndexError", line, "list assignment index out of range")
		}
		container.List.Items[i] = val
		return nil
	case TagDict:
		container.Dict.Set(index, val)
		return nil
	case TagTuple:
		return in.raise("TypeError", line, "'tuple' object does not support item assignment")
	case TagStr:
		return in.raise("TypeError", line, "'str' object does not support item assignment")
	default:
		return in.raise("TypeError", line, "'%s' object does not support item assignment", TypeName(container))
	}
}

// callFunction applies a user-defined function: binds arguments, pushes a
// frame, fires call/return events, and runs the body.
func (in *Interp) callFunction(fn *Function, args []Value, kwargs map[string]Value, line int) (Value, *RuntimeError) {
	if len(in.frames) >= in.maxDepth {
		return None(), in.raise("RecursionError", line, "maximum recursion depth exceeded")
	}

	env := NewEnv(fn.Closure)

	if len(args) > len(fn.Params) {
		return None(), in.raise("TypeError", line, "%s() takes %d positional arguments but %d were given",
			fn.Name, len(fn.Params), len(args))
	}
	for i, p := range fn.Params {
		if i < len(args) {
			env.Define(p.Name, args[i])
			continue
		}
		if kv, ok := kwargs[p.Name]; ok {
			env.Define(p.Name, kv)
			continue
		}
		if p.Default != nil {
			env.Define(p.Name, *p.Default)
			continue
		}
		return None(), in.raise("TypeError", line, "%s() missing 1 required positional argument: '%s'", fn.Name, p.Name)
	}
	for name := range kwargs {
		if _, ok := env.vars[name]; !ok {
			return None(), in.raise("TypeError", line, "%s() got an unexpected keyword argument '%s'", fn.Name, name)
		}
	}

	// The function may originate from eval'd source with its own byte
	// offsets; swap the active source for the duration of the body.
	savedSrc := in.src
	in.src = fn.Source
	defer func() { in.src = savedSrc }()

	f := &frame{name: fn.Name, env: env, line: fn.Line, filename: in.filename}
	in.frames = append(in.frames, f)
	defer func() { in.frames = in.frames[:len(in.frames)-1] }()

	in.fireEvent(EventCall, None(), false)

	sig, err := in.execBlock(fn.Body, env)
	if err != nil {
		return None(), err
	}

	ret := None()
	if sig != nil && sig.kind == flowReturn {
		ret = sig.value
	}
	in.fireEvent(EventReturn, ret, true)
	return ret, nil
}

// callBuiltin runs a native function inside a synthetic frame so the step
// observer sees (and can filter) builtin call/return events.
func (in *Interp) callBuiltin(b *Builtin, args []Value, kwargs map[string]Value, line int) (Value, *RuntimeError) {
	f := &frame{name: b.Name, env: NewEnv(nil), line: line, filename: BuiltinFilename}
	in.frames = append(in.frames, f)
	defer func() { in.frames = in.frames[:len(in.frames)-1] }()

	in.fireEvent(EventCall, None(), false)
	ret, err := b.Fn(in, args, kwargs, line)
	if err != nil {
		return None(), err
	}
	in.fireEvent(EventReturn, ret, true)
	return ret, nil
}

func (in *Interp) callValue(callee Value, args []Value, kwargs map[string]Value, line int) (Value, *RuntimeError) {
	switch callee.Tag {
	case TagFunc:
		return in.callFunction(callee.Fn, args, kwargs, line)
	case TagBuiltin:
		return in.callBuiltin(callee.Builtin, args, kwargs, line)
	case TagType:
		return in.callType(callee.TypeName, args, line)
	default:
		return None(), in.raise("TypeError", line, "'%s' object is not callable", TypeName(callee))
	}
}

func indexInt(v Value) int64 {
	if v.Tag == TagBool {
		if v.Bool {
			return 1
		}
		return 0
	}
	return v.Int
}

// normalizeIndex resolves a possibly-negative index against a length.
func normalizeIndex(i int64, length int) (int, bool) {
	if i < 0 {
		i += int64(length)
	}
	if i < 0 || i >= int64(length) {
		return 0, false
	}
	return int(i), true
}
