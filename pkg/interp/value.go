// Package interp is a tree-walking interpreter for the Python subset that
// learner snippets use. It evaluates the tree-sitter CST produced by
// pkg/pysrc directly, fires call/line/return events at an attached step
// observer, and surfaces every snippet fault as a structured RuntimeError
// with a Python-style type name and traceback.
package interp

import (
	"fmt"
	"strconv"
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
)

// Tag discriminates the runtime value variants.
type Tag uint8

const (
	TagNone Tag = iota
	TagBool
	TagInt
	TagFloat
	TagStr
	TagList
	TagTuple
	TagDict
	TagRange
	TagFunc
	TagBuiltin
	TagType
)

// Value is a tagged-variant runtime value. Only the field selected by Tag is
// meaningful; container variants share pointers, so aliasing behaves like
// Python (two names bound to one list see each other's mutations).
type Value struct {
	Tag      Tag
	Bool     bool
	Int      int64
	Float    float64
	Str      string
	List     *ListObject
	Dict     *DictObject
	Range    *RangeObject
	Fn       *Function
	Builtin  *Builtin
	TypeName string // TagType only
}

// ListObject backs both lists and tuples.
type ListObject struct {
	Items []Value
}

// DictEntry is one key/value pair of an ordered dict.
type DictEntry struct {
	Key Value
	Val Value
}

// DictObject preserves insertion order, like Python dicts.
type DictObject struct {
	Entries []DictEntry
}

// Get returns the value for key and whether it was present.
func (d *DictObject) Get(key Value) (Value, bool) {
	for _, e := range d.Entries {
		if Equals(e.Key, key) {
			return e.Val, true
		}
	}
	return None(), false
}

// Set inserts or replaces the value for key.
func (d *DictObject) Set(key, val Value) {
	for i, e := range d.Entries {
		if Equals(e.Key, key) {
			d.Entries[i].Val = val
			return
		}
	}
	d.Entries = append(d.Entries, DictEntry{Key: key, Val: val})
}

// Delete removes key, reporting whether it was present.
func (d *DictObject) Delete(key Value) bool {
	for i, e := range d.Entries {
		if Equals(e.Key, key) {
			d.Entries = append(d.Entries[:i], d.Entries[i+1:]...)
			return true
		}
	}
	return false
}

// RangeObject is a lazily-iterated integer range.
type RangeObject struct {
	Start, Stop, Step int64
}

// Len returns the number of elements the range produces.
func (r *RangeObject) Len() int64 {
	if r.Step > 0 && r.Stop > r.Start {
		return (r.Stop - r.Start + r.Step - 1) / r.Step
	}
	if r.Step < 0 && r.Start > r.Stop {
		return (r.Start - r.Stop - r.Step - 1) / -r.Step
	}
	return 0
}

// Param is one declared parameter of a user function.
type Param struct {
	Name    string
	Default *Value
}

// Function is a user-defined function: its body CST, parameters, and the
// environment it closes over.
type Function struct {
	Name    string
	Params  []Param
	Body    *tree_sitter.Node
	Closure *Env
	Line    int
	Source  []byte // the snippet the body nodes index into
}

// Builtin is a native function (or bound method, via closure).
type Builtin struct {
	Name string
	Fn   func(in *Interp, args []Value, kwargs map[string]Value, line int) (Value, *RuntimeError)
}

// Constructors.

func None() Value               { return Value{Tag: TagNone} }
func BoolVal(b bool) Value      { return Value{Tag: TagBool, Bool: b} }
func IntVal(i int64) Value      { return Value{Tag: TagInt, Int: i} }
func FloatVal(f float64) Value  { return Value{Tag: TagFloat, Float: f} }
func StrVal(s string) Value     { return Value{Tag: TagStr, Str: s} }
func TypeVal(name string) Value { return Value{Tag: TagType, TypeName: name} }

func ListVal(items []Value) Value {
	return Value{Tag: TagList, List: &ListObject{Items: items}}
}

func TupleVal(items []Value) Value {
	return Value{Tag: TagTuple, List: &ListObject{Items: items}}
}

func DictVal(entries []DictEntry) Value {
	return Value{Tag: TagDict, Dict: &DictObject{Entries: entries}}
}

func RangeVal(start, stop, step int64) Value {
	return Value{Tag: TagRange, Range: &RangeObject{Start: start, Stop: stop, Step: step}}
}

func BuiltinVal(name string, fn func(in *Interp, args []Value, kwargs map[string]Value, line int) (Value, *RuntimeError)) Value {
	return Value{Tag: TagBuiltin, Builtin: &Builtin{Name: name, Fn: fn}}
}

// TypeName returns the Python type name of a value.
func TypeName(v Value) string {
	switch v.Tag {
	case TagNone:
		return "NoneType"
	case TagBool:
		return "bool"
	case TagInt:
		return "int"
	case TagFloat:
		return "float"
	case TagStr:
		return "str"
	case TagList:
		return "list"
	case TagTuple:
		return "tuple"
	case TagDict:
		return "dict"
	case TagRange:
		return "range"
	case TagFunc:
		return "function"
	case TagBuiltin:
		return "builtin_function_or_method"
	case TagType:
		return "type"
	default:
		return "object"
	}
}

// Truthy implements Python truthiness.
func Truthy(v Value) bool {
	switch v.Tag {
	case TagNone:
		return false
	case TagBool:
		return v.Bool
	case TagInt:
		return v.Int != 0
	case TagFloat:
		return v.Float != 0
	case TagStr:
		return v.Str != ""
	case TagList, TagTuple:
		return len(v.List.Items) > 0
	case TagDict:
		return len(v.Dict.Entries) > 0
	case TagRange:
		return v.Range.Len() > 0
	default:
		return true
	}
}

// Equals implements Python == semantics for the supported types. Numeric
// values compare across int/float/bool; containers compare elementwise.
func Equals(a, b Value) bool {
	if an, af, ok := asNumber(a); ok {
		if bn, bf, ok2 := asNumber(b); ok2 {
			if !af && !bf {
				return an == bn
			}
			return numAsFloat(an, af, a, b) == numAsFloat(bn, bf, b, a)
		}
		return false
	}
	switch a.Tag {
	case TagNone:
		return b.Tag == TagNone
	case TagStr:
		return b.Tag == TagStr && a.Str == b.Str
	case TagList, TagTuple:
		if b.Tag != a.Tag || len(a.List.Items) != len(b.List.Items) {
			return false
		}
		for i := range a.List.Items {
			if !Equals(a.List.Items[i], b.List.Items[i]) {
				return false
			}
		}
		return true
	case TagDict:
		if b.Tag != TagDict || len(a.Dict.Entries) != len(b.Dict.Entries) {
			return false
		}
		for _, e := range a.Dict.Entries {
			bv, ok := b.Dict.Get(e.Key)
			if !ok || !Equals(e.Val, bv) {
				return false
			}
		}
		return true
	case TagType:
		return b.Tag == TagType && a.TypeName == b.TypeName
	case TagFunc:
		return b.Tag == TagFunc && a.Fn == b.Fn
	case TagBuiltin:
		return b.Tag == TagBuiltin && a.Builtin == b.Builtin
	default:
		return false
	}
}

// asNumber extracts an integer view of numeric values. The second return
// reports float-ness; bools coerce to 0/1 as in Python.
func asNumber(v Value) (int64, bool, bool) {
	switch v.Tag {
	case TagBool:
		if v.Bool {
			return 1, false, true
		}
		return 0, false, true
	case TagInt:
		return v.Int, false, true
	case TagFloat:
		return 0, true, true
	default:
		return 0, false, false
	}
}

func numAsFloat(n int64, isFloat bool, v Value, _ Value) float64 {
	if isFloat {
		return v.Float
	}
	return float64(n)
}

// Repr renders a value the way Python's repr() would.
func Repr(v Value) string {
	switch v.Tag {
	case TagNone:
		return "None"
	case TagBool:
		if v.Bool {
			return "True"
		}
		return "False"
	case TagInt:
		return strconv.FormatInt(v.Int, 10)
	case TagFloat:
		return formatFloat(v.Float)
	case TagStr:
		return reprString(v.Str)
	case TagList:
		return reprSeq(v.List.Items, "[", "]", false)
	case TagTuple:
		return reprSeq(v.List.Items, "(", ")", true)
	case TagDict:
		var b strings.Builder
		b.WriteByte('{')
		for i, e := range v.Dict.Entries {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(Repr(e.Key))
			b.WriteString(": ")
			b.WriteString(Repr(e.Val))
		}
		b.WriteByte('}')
		return b.String()
	case TagRange:
		if v.Range.Step == 1 {
			return fmt.Sprintf("range(%d, %d)", v.Range.Start, v.Range.Stop)
		}
		return fmt.Sprintf("range(%d, %d, %d)", v.Range.Start, v.Range.Stop, v.Range.Step)
	case TagFunc:
		return fmt.Sprintf("<function %s>", v.Fn.Name)
	case TagBuiltin:
		return fmt.Sprintf("<built-in function %s>", v.Builtin.Name)
	case TagType:
		return fmt.Sprintf("<class '%s'>", v.TypeName)
	default:
		return "<object>"
	}
}

// Str renders a value the way Python's str() (and print) would: strings are
// unquoted, everything else falls back to Repr.
func Str(v Value) string {
	if v.Tag == TagStr {
		return v.Str
	}
	return Repr(v)
}

func reprSeq(items []Value, open, close string, tuple bool) string {
	var b strings.Builder
	b.WriteString(open)
	for i, it := range items {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(Repr(it))
	}
	if tuple && len(items) == 1 {
		b.WriteByte(',')
	}
	b.WriteString(close)
	return b.String()
}

func reprString(s string) string {
	// Python prefers single quotes unless the string contains one.
	quote := byte('\'')
	if strings.ContainsRune(s, '\'') && !strings.ContainsRune(s, '"') {
		quote = '"'
	}
	var b strings.Builder
	b.WriteByte(quote)
	for _, r := range s {
		switch r {
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		case '\\':
			b.WriteString(`\\`)
		case rune(quote):
			b.WriteByte('\\')
			b.WriteRune(r)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte(quote)
	return b.String()
}

// formatFloat renders floats Python-style: whole floats keep a ".0" suffix.
func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eEnif") {
		s += ".0"
	}
	return s
}
