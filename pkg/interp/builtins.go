package interp

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/akashdevbuilds/lumina-ai-debugger/pkg/pysrc"
)

// NewGlobals builds the module scope. The builtin functions and type names
// live in a parent scope rather than the module scope itself, so a frame
// snapshot of module locals carries only the snippet's own bindings.
func NewGlobals(in *Interp) *Env {
	builtins := NewEnv(nil)

	for _, name := range []string{"int", "float", "str", "bool", "list", "tuple", "dict", "type"} {
		builtins.Define(name, TypeVal(name))
	}

	define := func(name string, fn func(in *Interp, args []Value, kwargs map[string]Value, line int) (Value, *RuntimeError)) {
		builtins.Define(name, BuiltinVal(name, fn))
	}

	define("print", builtinPrint)
	define("len", builtinLen)
	define("range", builtinRange)
	define("input", builtinInput)
	define("abs", builtinAbs)
	define("min", builtinMin)
	define("max", builtinMax)
	define("sum", builtinSum)
	define("round", builtinRound)
	define("sorted", builtinSorted)
	define("reversed", builtinReversed)
	define("enumerate", builtinEnumerate)
	define("isinstance", builtinIsinstance)
	define("eval", builtinEval)

	return NewEnv(builtins)
}

func arityError(in *Interp, name string, line int, format string, args ...any) *RuntimeError {
	return in.raise("TypeError", line, name+"() "+format, args...)
}

func builtinPrint(in *Interp, args []Value, kwargs map[string]Value, line int) (Value, *RuntimeError) {
	sep := " "
	end := "\n"
	if v, ok := kwargs["sep"]; ok {
		if v.Tag != TagStr && v.Tag != TagNone {
			return None(), in.raise("TypeError", line, "sep must be None or a string, not %s", TypeName(v))
		}
		if v.Tag == TagStr {
			sep = v.Str
		}
	}
	if v, ok := kwargs["end"]; ok {
		if v.Tag != TagStr && v.Tag != TagNone {
			return None(), in.raise("TypeError", line, "end must be None or a string, not %s", TypeName(v))
		}
		if v.Tag == TagStr {
			end = v.Str
		}
	}

	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = Str(a)
	}
	fmt.Fprint(in.stdout, strings.Join(parts, sep)+end)
	return None(), nil
}

func builtinLen(in *Interp, args []Value, _ map[string]Value, line int) (Value, *RuntimeError) {
	if len(args) != 1 {
		return None(), arityError(in, "len", line, "takes exactly one argument (%d given)", len(args))
	}
	v := args[0]
	switch v.Tag {
	case TagStr:
		return IntVal(int64(len([]rune(v.Str)))), nil
	case TagList, TagTuple:
		return IntVal(int64(len(v.List.Items))), nil
	case TagDict:
		return IntVal(int64(len(v.Dict.Entries))), nil
	case TagRange:
		return IntVal(v.Range.Len()), nil
	default:
		return None(), in.raise("TypeError", line, "object of type '%s' has no len()", TypeName(v))
	}
}

func builtinRange(in *Interp, args []Value, _ map[string]Value, line int) (Value, *RuntimeError) {
	ints := make([]int64, len(args))
	for i, a := range args {
		if a.Tag != TagInt && a.Tag != TagBool {
			return None(), in.raise("TypeError", line, "'%s' object cannot be interpreted as an integer", TypeName(a))
		}
		ints[i] = indexInt(a)
	}
	switch len(ints) {
	case 1:
		return RangeVal(0, ints[0], 1), nil
	case 2:
		return RangeVal(ints[0], ints[1], 1), nil
	case 3:
		if ints[2] == 0 {
			return None(), in.raise("ValueError", line, "range() arg 3 must not be zero")
		}
		return RangeVal(ints[0], ints[1], ints[2]), nil
	default:
		return None(), arityError(in, "range", line, "expected 1 to 3 arguments, got %d", len(ints))
	}
}

func builtinInput(in *Interp, args []Value, _ map[string]Value, line int) (Value, *RuntimeError) {
	if len(args) > 1 {
		return None(), arityError(in, "input", line, "takes at most 1 argument (%d given)", len(args))
	}
	if len(args) == 1 {
		fmt.Fprint(in.stdout, Str(args[0]))
	}
	if in.inputFn == nil {
		return StrVal(""), nil
	}
	return StrVal(in.inputFn()), nil
}

func builtinAbs(in *Interp, args []Value, _ map[string]Value, line int) (Value, *RuntimeError) {
	if len(args) != 1 {
		return None(), arityError(in, "abs", line, "takes exactly one argument (%d given)", len(args))
	}
	switch args[0].Tag {
	case TagInt:
		if args[0].Int < 0 {
			return IntVal(-args[0].Int), nil
		}
		return args[0], nil
	case TagFloat:
		return FloatVal(math.Abs(args[0].Float)), nil
	case TagBool:
		return IntVal(indexInt(args[0])), nil
	default:
		return None(), in.raise("TypeError", line, "bad operand type for abs(): '%s'", TypeName(args[0]))
	}
}

// extremumArgs flattens min/max call forms into one candidate slice.
func extremumArgs(in *Interp, name string, args []Value, line int) ([]Value, *RuntimeError) {
	if len(args) == 0 {
		return nil, arityError(in, name, line, "expected at least 1 argument, got 0")
	}
	if len(args) == 1 {
		items, err := in.materialize(args[0], line)
		if err != nil {
			return nil, err
		}
		if len(items) == 0 {
			return nil, in.raise("ValueError", line, "%s() arg is an empty sequence", name)
		}
		return items, nil
	}
	return args, nil
}

func builtinMin(in *Interp, args []Value, _ map[string]Value, line int) (Value, *RuntimeError) {
	items, err := extremumArgs(in, "min", args, line)
	if err != nil {
		return None(), err
	}
	best := items[0]
	for _, v := range items[1:] {
		less, err := in.compare("<", v, best, line)
		if err != nil {
			return None(), err
		}
		if less {
			best = v
		}
	}
	return best, nil
}

func builtinMax(in *Interp, args []Value, _ map[string]Value, line int) (Value, *RuntimeError) {
	items, err := extremumArgs(in, "max", args, line)
	if err != nil {
		return None(), err
	}
	best := items[0]
	for _, v := range items[1:] {
		greater, err := in.compare(">", v, best, line)
		if err != nil {
			return None(), err
		}
		if greater {
			best = v
		}
	}
	return best, nil
}

func builtinSum(in *Interp, args []Value, _ map[string]Value, line int) (Value, *RuntimeError) {
	if len(args) < 1 || len(args) > 2 {
		return None(), arityError(in, "sum", line, "expected 1 or 2 arguments, got %d", len(args))
	}
	items, err := in.materialize(args[0], line)
	if err != nil {
		return None(), err
	}
	acc := IntVal(0)
	if len(args) == 2 {
		acc = args[1]
	}
	for _, v := range items {
		acc, err = in.applyBinary("+", acc, v, line)
		if err != nil {
			return None(), err
		}
	}
	return acc, nil
}

func builtinRound(in *Interp, args []Value, _ map[string]Value, line int) (Value, *RuntimeError) {
	if len(args) < 1 || len(args) > 2 {
		return None(), arityError(in, "round", line, "expected 1 or 2 arguments, got %d", len(args))
	}
	n, isFloat, ok := asNumber(args[0])
	if !ok {
		return None(), in.raise("TypeError", line, "type %s doesn't define __round__ method", TypeName(args[0]))
	}
	f := numAsFloat(n, isFloat, args[0], args[0])
	if len(args) == 2 && args[1].Tag != TagNone {
		if args[1].Tag != TagInt && args[1].Tag != TagBool {
			return None(), in.raise("TypeError", line, "'%s' object cannot be interpreted as an integer", TypeName(args[1]))
		}
		digits := indexInt(args[1])
		scale := math.Pow(10, float64(digits))
		return FloatVal(math.Round(f*scale) / scale), nil
	}
	if !isFloat {
		return args[0], nil
	}
	return IntVal(int64(math.Round(f))), nil
}

func builtinSorted(in *Interp, args []Value, kwargs map[string]Value, line int) (Value, *RuntimeError) {
	if len(args) != 1 {
		return None(), arityError(in, "sorted", line, "expected 1 argument, got %d", len(args))
	}
	items, err := in.materialize(args[0], line)
	if err != nil {
		return None(), err
	}
	out := append([]Value(nil), items...)
	reverse := false
	if v, ok := kwargs["reverse"]; ok {
		reverse = Truthy(v)
	}
	if serr := in.sortValues(out, reverse, line); serr != nil {
		return None(), serr
	}
	return ListVal(out), nil
}

func builtinReversed(in *Interp, args []Value, _ map[string]Value, line int) (Value, *RuntimeError) {
	if len(args) != 1 {
		return None(), arityError(in, "reversed", line, "expected 1 argument, got %d", len(args))
	}
	items, err := in.materialize(args[0], line)
	if err != nil {
		return None(), err
	}
	out := make([]Value, len(items))
	for i, v := range items {
		out[len(items)-1-i] = v
	}
	return ListVal(out), nil
}

func builtinEnumerate(in *Interp, args []Value, _ map[string]Value, line int) (Value, *RuntimeError) {
	if len(args) < 1 || len(args) > 2 {
		return None(), arityError(in, "enumerate", line, "expected 1 or 2 arguments, got %d", len(args))
	}
	items, err := in.materialize(args[0], line)
	if err != nil {
		return None(), err
	}
	start := int64(0)
	if len(args) == 2 {
		if args[1].Tag != TagInt && args[1].Tag != TagBool {
			return None(), in.raise("TypeError", line, "'%s' object cannot be interpreted as an integer", TypeName(args[1]))
		}
		start = indexInt(args[1])
	}
	out := make([]Value, len(items))
	for i, v := range items {
		out[i] = TupleVal([]Value{IntVal(start + int64(i)), v})
	}
	return ListVal(out), nil
}

func builtinIsinstance(in *Interp, args []Value, _ map[string]Value, line int) (Value, *RuntimeError) {
	if len(args) != 2 {
		return None(), arityError(in, "isinstance", line, "expected 2 arguments, got %d", len(args))
	}
	matches := func(t Value) bool {
		if t.Tag != TagType {
			return false
		}
		if TypeName(args[0]) == t.TypeName {
			return true
		}
		// bool is a subtype of int
		return args[0].Tag == TagBool && t.TypeName == "int"
	}
	if args[1].Tag == TagTuple {
		for _, t := range args[1].List.Items {
			if matches(t) {
				return BoolVal(true), nil
			}
		}
		return BoolVal(false), nil
	}
	if args[1].Tag != TagType {
		return None(), in.raise("TypeError", line, "isinstance() arg 2 must be a type or tuple of types")
	}
	return BoolVal(matches(args[1])), nil
}

// builtinEval parses and evaluates a single expression against the module
// scope. Statement-bearing source is rejected.
func builtinEval(in *Interp, args []Value, _ map[string]Value, line int) (Value, *RuntimeError) {
	if len(args) != 1 {
		return None(), arityError(in, "eval", line, "expected 1 argument, got %d", len(args))
	}
	if args[0].Tag != TagStr {
		return None(), in.raise("TypeError", line, "eval() arg 1 must be a string")
	}

	tree, perr := pysrc.Parse([]byte(args[0].Str))
	if perr != nil {
		return None(), in.raise("SyntaxError", line, "invalid syntax")
	}
	defer tree.Close()
	if serr := pysrc.CheckSyntax(tree); serr != nil {
		return None(), in.raise("SyntaxError", line, "%s", serr.Message)
	}

	root := tree.Root()
	if root.NamedChildCount() != 1 || root.NamedChild(0).Kind() != "expression_statement" {
		return None(), in.raise("SyntaxError", line, "eval() only accepts a single expression")
	}
	expr := root.NamedChild(0).NamedChild(0)

	savedSrc := in.src
	in.src = tree.Source
	defer func() { in.src = savedSrc }()

	return in.evalExpr(expr, in.globals)
}

// callType implements calling a type name as a constructor/converter.
func (in *Interp) callType(name string, args []Value, line int) (Value, *RuntimeError) {
	switch name {
	case "int":
		if len(args) == 0 {
			return IntVal(0), nil
		}
		v := args[0]
		switch v.Tag {
		case TagInt:
			return v, nil
		case TagBool:
			return IntVal(indexInt(v)), nil
		case TagFloat:
			return IntVal(int64(math.Trunc(v.Float))), nil
		case TagStr:
			s := strings.TrimSpace(v.Str)
			i, err := strconv.ParseInt(s, 10, 64)
			if err != nil {
				return None(), in.raise("ValueError", line, "invalid literal for int() with base 10: %s", Repr(v))
			}
			return IntVal(i), nil
		default:
			return None(), in.raise("TypeError", line, "int() argument must be a string or a number, not '%s'", TypeName(v))
		}

	case "float":
		if len(args) == 0 {
			return FloatVal(0), nil
		}
		v := args[0]
		switch v.Tag {
		case TagFloat:
			return v, nil
		case TagInt:
			return FloatVal(float64(v.Int)), nil
		case TagBool:
			return FloatVal(float64(indexInt(v))), nil
		case TagStr:
			f, err := strconv.ParseFloat(strings.TrimSpace(v.Str), 64)
			if err != nil {
				return None(), in.raise("ValueError", line, "could not convert string to float: %s", Repr(v))
			}
			return FloatVal(f), nil
		default:
			return None(), in.raise("TypeError", line, "float() argument must be a string or a number, not '%s'", TypeName(v))
		}

	case "str":
		if len(args) == 0 {
			return StrVal(""), nil
		}
		return StrVal(Str(args[0])), nil

	case "bool":
		if len(args) == 0 {
			return BoolVal(false), nil
		}
		return BoolVal(Truthy(args[0])), nil

	case "list":
		if len(args) == 0 {
			return ListVal(nil), nil
		}
		items, err := in.materialize(args[0], line)
		if err != nil {
			return None(), err
		}
		return ListVal(append([]Value(nil), items...)), nil

	case "tuple":
		if len(args) == 0 {
			return TupleVal(nil), nil
		}
		items, err := in.materialize(args[0], line)
		if err != nil {
			return None(), err
		}
		return TupleVal(append([]Value(nil), items...)), nil

	case "dict":
		if len(args) == 0 {
			return DictVal(nil), nil
		}
		if args[0].Tag == TagDict {
			entries := append([]DictEntry(nil), args[0].Dict.Entries...)
			return DictVal(entries), nil
		}
		return None(), in.raise("TypeError", line, "dict() argument must be a mapping")

	case "type":
		if len(args) != 1 {
			return None(), arityError(in, "type", line, "takes 1 argument in snippet execution")
		}
		return TypeVal(TypeName(args[0])), nil

	default:
		return None(), in.raise("TypeError", line, "cannot construct '%s' in snippet execution", name)
	}
}

// materialize turns an iterable value into a concrete item slice.
func (in *Interp) materialize(v Value, line int) ([]Value, *RuntimeError) {
	switch v.Tag {
	case TagList, TagTuple:
		return v.List.Items, nil
	case TagStr:
		runes := []rune(v.Str)
		out := make([]Value, len(runes))
		for i, r := range runes {
			out[i] = StrVal(string(r))
		}
		return out, nil
	case TagRange:
		r := v.Range
		out := make([]Value, 0, r.Len())
		for i := r.Start; (r.Step > 0 && i < r.Stop) || (r.Step < 0 && i > r.Stop); i += r.Step {
			out = append(out, IntVal(i))
		}
		return out, nil
	case TagDict:
		out := make([]Value, len(v.Dict.Entries))
		for i, e := range v.Dict.Entries {
			out[i] = e.Key
		}
		return out, nil
	default:
		return nil, in.raise("TypeError", line, "'%s' object is not iterable", TypeName(v))
	}
}

// sortValues orders a slice in place with Python comparison rules,
// surfacing the TypeError mixed incomparable types would raise.
func (in *Interp) sortValues(items []Value, reverse bool, line int) *RuntimeError {
	var sortErr *RuntimeError
	sort.SliceStable(items, func(i, j int) bool {
		if sortErr != nil {
			return false
		}
		less, err := in.compare("<", items[i], items[j], line)
		if err != nil {
			sortErr = err
			return false
		}
		if reverse {
			return !less && !Equals(items[i], items[j])
		}
		return less
	})
	return sortErr
}
