package interp

import (
	"math"
	"strconv"
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/akashdevbuilds/lumina-ai-debugger/pkg/pysrc"
)

func (in *Interp) evalExpr(n *tree_sitter.Node, env *Env) (Value, *RuntimeError) {
	if n == nil {
		return None(), in.raise("SyntaxError", 0, "malformed expression")
	}
	line := pysrc.Line(n)

	switch n.Kind() {
	case "identifier":
		name := pysrc.Text(n, in.src)
		if v, ok := env.Get(name); ok {
			return v, nil
		}
		return None(), in.raise("NameError", line, "name '%s' is not defined", name)

	case "integer":
		text := strings.ReplaceAll(pysrc.Text(n, in.src), "_", "")
		i, err := strconv.ParseInt(text, 0, 64)
		if err != nil {
			f, ferr := strconv.ParseFloat(text, 64)
			if ferr != nil {
				return None(), in.raise("ValueError", line, "invalid integer literal: %s", text)
			}
			return FloatVal(f), nil
		}
		return IntVal(i), nil

	case "float":
		text := strings.ReplaceAll(pysrc.Text(n, in.src), "_", "")
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return None(), in.raise("ValueError", line, "invalid float literal: %s", text)
		}
		return FloatVal(f), nil

	case "true":
		return BoolVal(true), nil
	case "false":
		return BoolVal(false), nil
	case "none":
		return None(), nil

	case "string", "concatenated_string":
		return in.evalString(n, env)

	case "list":
		items, err := in.evalExprList(n, env)
		if err != nil {
			return None(), err
		}
		return ListVal(items), nil

	case "tuple", "expression_list":
		items, err := in.evalExprList(n, env)
		if err != nil {
			return None(), err
		}
		return TupleVal(items), nil

	case "dictionary":
		var entries []DictEntry
		for i := uint(0); i < n.NamedChildCount(); i++ {
			pair := n.NamedChild(i)
			if pair.Kind() != "pair" {
				return None(), in.raise("NotImplementedError", line, "dictionary form %q is not supported", pair.Kind())
			}
			k, err := in.evalExpr(pair.ChildByFieldName("key"), env)
			if err != nil {
				return None(), err
			}
			v, err := in.evalExpr(pair.ChildByFieldName("value"), env)
			if err != nil {
				return None(), err
			}
			entries = append(entries, DictEntry{Key: k, Val: v})
		}
		return DictVal(entries), nil

	case "parenthesized_expression":
		return in.evalExpr(n.NamedChild(0), env)

	case "binary_operator":
		left, err := in.evalExpr(n.ChildByFieldName("left"), env)
		if err != nil {
			return None(), err
		}
		right, err := in.evalExpr(n.ChildByFieldName("right"), env)
		if err != nil {
			return None(), err
		}
		op := pysrc.Text(n.ChildByFieldName("operator"), in.src)
		return in.applyBinary(op, left, right, line)

	case "comparison_operator":
		return in.evalComparison(n, env)

	case "boolean_operator":
		left, err := in.evalExpr(n.ChildByFieldName("left"), env)
		if err != nil {
			return None(), err
		}
		op := pysrc.Text(n.ChildByFieldName("operator"), in.src)
		if op == "and" {
			if !Truthy(left) {
				return left, nil
			}
		} else { // or
			if Truthy(left) {
				return left, nil
			}
		}
		return in.evalExpr(n.ChildByFieldName("right"), env)

	case "not_operator":
		v, err := in.evalExpr(n.ChildByFieldName("argument"), env)
		if err != nil {
			return None(), err
		}
		return BoolVal(!Truthy(v)), nil

	case "unary_operator":
		v, err := in.evalExpr(n.ChildByFieldName("argument"), env)
		if err != nil {
			return None(), err
		}
		op := pysrc.Text(n.ChildByFieldName("operator"), in.src)
		switch op {
		case "-":
			switch v.Tag {
			case TagInt:
				return IntVal(-v.Int), nil
			case TagFloat:
				return FloatVal(-v.Float), nil
			case TagBool:
				return IntVal(-indexInt(v)), nil
			}
			return None(), in.raise("TypeError", line, "bad operand type for unary -: '%s'", TypeName(v))
		case "+":
			switch v.Tag {
			case TagInt, TagFloat:
				return v, nil
			case TagBool:
				return IntVal(indexInt(v)), nil
			}
			return None(), in.raise("TypeError", line, "bad operand type for unary +: '%s'", TypeName(v))
		default:
			return None(), in.raise("NotImplementedError", line, "unary operator %q is not supported", op)
		}

	case "conditional_expression":
		// form: consequence "if" condition "else" alternative
		cond, err := in.evalExpr(n.NamedChild(1), env)
		if err != nil {
			return None(), err
		}
		if Truthy(cond) {
			return in.evalExpr(n.NamedChild(0), env)
		}
		return in.evalExpr(n.NamedChild(2), env)

	case "subscript":
		return in.evalSubscript(n, env)

	case "attribute":
		return in.evalAttribute(n, env)

	case "call":
		return in.evalCall(n, env)

	default:
		return None(), in.raise("NotImplementedError", line, "expression %q is not supported in snippet execution", n.Kind())
	}
}

func (in *Interp) evalExprList(n *tree_sitter.Node, env *Env) ([]Value, *RuntimeError) {
	items := make([]Value, 0, n.NamedChildCount())
	for i := uint(0); i < n.NamedChildCount(); i++ {
		v, err := in.evalExpr(n.NamedChild(i), env)
		if err != nil {
			return nil, err
		}
		items = append(items, v)
	}
	return items, nil
}

// evalString assembles a (possibly formatted) string literal from its
// content, escape, and interpolation fragments.
func (in *Interp) evalString(n *tree_sitter.Node, env *Env) (Value, *RuntimeError) {
	if n.Kind() == "concatenated_string" {
		var sb strings.Builder
		for i := uint(0); i < n.NamedChildCount(); i++ {
			part, err := in.evalString(n.NamedChild(i), env)
			if err != nil {
				return None(), err
			}
			sb.WriteString(part.Str)
		}
		return StrVal(sb.String()), nil
	}

	var sb strings.Builder
	for i := uint(0); i < n.NamedChildCount(); i++ {
		c := n.NamedChild(i)
		switch c.Kind() {
		case "string_content":
			sb.WriteString(pysrc.Text(c, in.src))
		case "escape_sequence":
			sb.WriteString(decodeEscape(pysrc.Text(c, in.src)))
		case "interpolation":
			v, err := in.evalExpr(c.ChildByFieldName("expression"), env)
			if err != nil {
				return None(), err
			}
			sb.WriteString(Str(v))
		}
	}
	return StrVal(sb.String()), nil
}

func decodeEscape(s string) string {
	if len(s) < 2 || s[0] != '\\' {
		return s
	}
	switch s[1] {
	case 'n':
		return "\n"
	case 't':
		return "\t"
	case 'r':
		return "\r"
	case '\\':
		return "\\"
	case '\'':
		return "'"
	case '"':
		return "\""
	case '0':
		return "\x00"
	default:
		return s[1:]
	}
}

// applyBinary implements arithmetic and sequence operators with Python's
// mixed-type rules.
func (in *Interp) applyBinary(op string, left, right Value, line int) (Value, *RuntimeError) {
	// String and sequence cases come first; numeric fall-through handles
	// the rest.
	switch op {
	case "+":
		switch {
		case left.Tag == TagStr && right.Tag == TagStr:
			return StrVal(left.Str + right.Str), nil
		case left.Tag == TagStr:
			return None(), in.raise("TypeError", line, "can only concatenate str (not \"%s\") to str", TypeName(right))
		case left.Tag == TagList && right.Tag == TagList:
			items := append(append([]Value{}, left.List.Items...), right.List.Items...)
			return ListVal(items), nil
		case left.Tag == TagTuple && right.Tag == TagTuple:
			items := append(append([]Value{}, left.List.Items...), right.List.Items...)
			return TupleVal(items), nil
		}
	case "*":
		if reps, seq, ok := repeatOperands(left, right); ok {
			switch seq.Tag {
			case TagStr:
				if reps <= 0 {
					return StrVal(""), nil
				}
				return StrVal(strings.Repeat(seq.Str, int(reps))), nil
			case TagList, TagTuple:
				var items []Value
				for i := int64(0); i < reps; i++ {
					items = append(items, seq.List.Items...)
				}
				if seq.Tag == TagTuple {
					return TupleVal(items), nil
				}
				return ListVal(items), nil
			}
		}
	}

	ln, lf, lok := asNumber(left)
	rn, rf, rok := asNumber(right)
	if !lok || !rok {
		return None(), in.raise("TypeError", line, "unsupported operand type(s) for %s: '%s' and '%s'",
			op, TypeName(left), TypeName(right))
	}

	useFloat := lf || rf || op == "/"
	lff := numAsFloat(ln, lf, left, right)
	rff := numAsFloat(rn, rf, right, left)

	switch op {
	case "+":
		if useFloat {
			return FloatVal(lff + rff), nil
		}
		return IntVal(ln + rn), nil
	case "-":
		if useFloat {
			return FloatVal(lff - rff), nil
		}
		return IntVal(ln - rn), nil
	case "*":
		if useFloat {
			return FloatVal(lff * rff), nil
		}
		return IntVal(ln * rn), nil
	case "/":
		if rff == 0 {
			return None(), in.raise("ZeroDivisionError", line, "division by zero")
		}
		return FloatVal(lff / rff), nil
	case "//":
		if useFloat {
			if rff == 0 {
				return None(), in.raise("ZeroDivisionError", line, "float floor division by zero")
			}
			return FloatVal(math.Floor(lff / rff)), nil
		}
		if rn == 0 {
			return None(), in.raise("ZeroDivisionError", line, "integer division or modulo by zero")
		}
		return IntVal(floorDiv(ln, rn)), nil
	case "%":
		if useFloat {
			if rff == 0 {
				return None(), in.raise("ZeroDivisionError", line, "float modulo")
			}
			m := math.Mod(lff, rff)
			if m != 0 && (m < 0) != (rff < 0) {
				m += rff
			}
			return FloatVal(m), nil
		}
		if rn == 0 {
			return None(), in.raise("ZeroDivisionError", line, "integer division or modulo by zero")
		}
		return IntVal(floorMod(ln, rn)), nil
	case "**":
		if useFloat {
			return FloatVal(math.Pow(lff, rff)), nil
		}
		if rn < 0 {
			return FloatVal(math.Pow(float64(ln), float64(rn))), nil
		}
		result := int64(1)
		for i := int64(0); i < rn; i++ {
			result *= ln
		}
		return IntVal(result), nil
	default:
		return None(), in.raise("NotImplementedError", line, "operator %q is not supported", op)
	}
}

// repeatOperands recognizes sequence * int in either order.
func repeatOperands(left, right Value) (int64, Value, bool) {
	isSeq := func(v Value) bool {
		return v.Tag == TagStr || v.Tag == TagList || v.Tag == TagTuple
	}
	isInt := func(v Value) bool { return v.Tag == TagInt || v.Tag == TagBool }
	switch {
	case isSeq(left) && isInt(right):
		return indexInt(right), left, true
	case isInt(left) && isSeq(right):
		return indexInt(left), right, true
	}
	return 0, Value{}, false
}

// floorDiv and floorMod match Python semantics: the quotient rounds toward
// negative infinity and the remainder takes the divisor's sign.
func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func floorMod(a, b int64) int64 {
	m := a % b
	if m != 0 && (m < 0) != (b < 0) {
		m += b
	}
	return m
}

// evalComparison handles chained comparisons: a < b <= c evaluates each
// adjacent pair and ANDs the results, with the usual short-circuit.
func (in *Interp) evalComparison(n *tree_sitter.Node, env *Env) (Value, *RuntimeError) {
	line := pysrc.Line(n)

	// Children alternate operand / operator-token(s); multi-token operators
	// ("not in", "is not") arrive as consecutive anonymous children.
	var operands []*tree_sitter.Node
	var ops []string
	pending := ""
	for i := uint(0); i < n.ChildCount(); i++ {
		c := n.Child(i)
		if c.IsNamed() {
			operands = append(operands, c)
			if pending != "" && len(ops) < len(operands)-1 {
				ops = append(ops, pending)
				pending = ""
			}
			continue
		}
		tok := pysrc.Text(c, in.src)
		if pending == "" {
			pending = tok
		} else {
			pending += " " + tok
		}
		if tok == "in" || isCompleteOp(pending) {
			ops = append(ops, pending)
			pending = ""
		}
	}
	if pending != "" {
		ops = append(ops, pending)
	}
	if len(operands) < 2 || len(ops) != len(operands)-1 {
		return None(), in.raise("SyntaxError", line, "malformed comparison")
	}

	left, err := in.evalExpr(operands[0], env)
	if err != nil {
		return None(), err
	}
	for i, op := range ops {
		right, err := in.evalExpr(operands[i+1], env)
		if err != nil {
			return None(), err
		}
		ok, cerr := in.compare(op, left, right, line)
		if cerr != nil {
			return None(), cerr
		}
		if !ok {
			return BoolVal(false), nil
		}
		left = right
	}
	return BoolVal(true), nil
}

func isCompleteOp(op string) bool {
	switch op {
	case "<", "<=", ">", ">=", "==", "!=", "not in", "is not":
		return true
	}
	return false
}

func (in *Interp) compare(op string, left, right Value, line int) (bool, *RuntimeError) {
	switch op {
	case "==":
		return Equals(left, right), nil
	case "!=":
		return !Equals(left, right), nil
	case "is":
		return identical(left, right), nil
	case "is not":
		return !identical(left, right), nil
	case "in":
		return in.contains(right, left, line)
	case "not in":
		ok, err := in.contains(right, left, line)
		return !ok, err
	}

	// Ordering comparisons.
	ln, lf, lok := asNumber(left)
	rn, rf, rok := asNumber(right)
	if lok && rok {
		if lf || rf {
			a := numAsFloat(ln, lf, left, right)
			b := numAsFloat(rn, rf, right, left)
			return orderedFloat(op, a, b), nil
		}
		return orderedInt(op, ln, rn), nil
	}
	if left.Tag == TagStr && right.Tag == TagStr {
		switch op {
		case "<":
			return left.Str < right.Str, nil
		case "<=":
			return left.Str <= right.Str, nil
		case ">":
			return left.Str > right.Str, nil
		case ">=":
			return left.Str >= right.Str, nil
		}
	}
	return false, in.raise("TypeError", line, "'%s' not supported between instances of '%s' and '%s'",
		op, TypeName(left), TypeName(right))
}

func orderedInt(op string, a, b int64) bool {
	switch op {
	case "<":
		return a < b
	case "<=":
		return a <= b
	case ">":
		return a > b
	default:
		return a >= b
	}
}

func orderedFloat(op string, a, b float64) bool {
	switch op {
	case "<":
		return a < b
	case "<=":
		return a <= b
	case ">":
		return a > b
	default:
		return a >= b
	}
}

// identical approximates "is": exact for None and bools, reference identity
// for containers, value identity for small scalars.
func identical(a, b Value) bool {
	if a.Tag != b.Tag {
		return false
	}
	switch a.Tag {
	case TagNone:
		return true
	case TagBool:
		return a.Bool == b.Bool
	case TagList, TagTuple:
		return a.List == b.List
	case TagDict:
		return a.Dict == b.Dict
	default:
		return Equals(a, b)
	}
}

func (in *Interp) contains(container, item Value, line int) (bool, *RuntimeError) {
	switch container.Tag {
	case TagStr:
		if item.Tag != TagStr {
			return false, in.raise("TypeError", line, "'in <string>' requires string as left operand, not %s", TypeName(item))
		}
		return strings.Contains(container.Str, item.Str), nil
	case TagList, TagTuple:
		for _, v := range container.List.Items {
			if Equals(v, item) {
				return true, nil
			}
		}
		return false, nil
	case TagDict:
		_, ok := container.Dict.Get(item)
		return ok, nil
	case TagRange:
		if item.Tag != TagInt && item.Tag != TagBool {
			return false, nil
		}
		r := container.Range
		v := indexInt(item)
		if r.Step > 0 {
			return v >= r.Start && v < r.Stop && (v-r.Start)%r.Step == 0, nil
		}
		return v <= r.Start && v > r.Stop && (r.Start-v)%(-r.Step) == 0, nil
	default:
		return false, in.raise("TypeError", line, "argument of type '%s' is not iterable", TypeName(container))
	}
}

func (in *Interp) evalSubscript(n *tree_sitter.Node, env *Env) (Value, *RuntimeError) {
	line := pysrc.Line(n)
	container, err := in.evalExpr(n.ChildByFieldName("value"), env)
	if err != nil {
		return None(), err
	}

	sub := n.ChildByFieldName("subscript")
	if sub != nil && sub.Kind() == "slice" {
		return in.evalSlice(container, sub, env, line)
	}

	index, err := in.evalExpr(sub, env)
	if err != nil {
		return None(), err
	}

	switch container.Tag {
	case TagList, TagTuple:
		if index.Tag != TagInt && index.Tag != TagBool {
			return None(), in.raise("TypeError", line, "%s indices must be integers, not %s", TypeName(container), TypeName(index))
		}
		i, ok := normalizeIndex(indexInt(index), len(container.List.Items))
		if !ok {
			return None(), in.raise("IndexError", line, "%s index out of range", TypeName(container))
		}
		return container.List.Items[i], nil
	case TagStr:
		if index.Tag != TagInt && index.Tag != TagBool {
			return None(), in.raise("TypeError", line, "string indices must be integers, not '%s'", TypeName(index))
		}
		runes := []rune(container.Str)
		i, ok := normalizeIndex(indexInt(index), len(runes))
		if !ok {
			return None(), in.raise("IndexError", line, "string index out of range")
		}
		return StrVal(string(runes[i])), nil
	case TagDict:
		v, ok := container.Dict.Get(index)
		if !ok {
			return None(), in.raise("KeyError", line, "%s", Repr(index))
		}
		return v, nil
	default:
		return None(), in.raise("TypeError", line, "'%s' object is not subscriptable", TypeName(container))
	}
}

func (in *Interp) evalSlice(container Value, slice *tree_sitter.Node, env *Env, line int) (Value, *RuntimeError) {
	var length int
	var runes []rune
	switch container.Tag {
	case TagList, TagTuple:
		length = len(container.List.Items)
	case TagStr:
		runes = []rune(container.Str)
		length = len(runes)
	default:
		return None(), in.raise("TypeError", line, "'%s' object is not subscriptable", TypeName(container))
	}

	// Slice children are the optional start/stop/step expressions separated
	// by ":" tokens; track which slot each named child fills and whether it
	// was written at all, since defaults flip with a negative step.
	var vals [3]int64
	var have [3]bool
	slot := 0
	for i := uint(0); i < slice.ChildCount(); i++ {
		c := slice.Child(i)
		if !c.IsNamed() {
			if c.Kind() == ":" {
				slot++
			}
			continue
		}
		v, err := in.evalExpr(c, env)
		if err != nil {
			return None(), err
		}
		if v.Tag == TagNone {
			continue
		}
		if v.Tag != TagInt && v.Tag != TagBool {
			return None(), in.raise("TypeError", line, "slice indices must be integers or None")
		}
		if slot < 3 {
			vals[slot] = indexInt(v)
			have[slot] = true
		}
	}

	step := int64(1)
	if have[2] {
		step = vals[2]
	}
	if step == 0 {
		return None(), in.raise("ValueError", line, "slice step cannot be zero")
	}

	resolve := func(v int64, lo, hi int64) int64 {
		if v < 0 {
			v += int64(length)
		}
		if v < lo {
			return lo
		}
		if v > hi {
			return hi
		}
		return v
	}

	var start, stop int64
	if step > 0 {
		start, stop = 0, int64(length)
		if have[0] {
			start = resolve(vals[0], 0, int64(length))
		}
		if have[1] {
			stop = resolve(vals[1], 0, int64(length))
		}
	} else {
		start, stop = int64(length)-1, -1
		if have[0] {
			start = resolve(vals[0], -1, int64(length)-1)
		}
		if have[1] {
			stop = resolve(vals[1], -1, int64(length)-1)
		}
	}

	var picked []int
	if step > 0 {
		for i := start; i < stop; i += step {
			picked = append(picked, int(i))
		}
	} else {
		for i := start; i > stop; i += step {
			picked = append(picked, int(i))
		}
	}

	switch container.Tag {
	case TagStr:
		var sb strings.Builder
		for _, i := range picked {
			sb.WriteRune(runes[i])
		}
		return StrVal(sb.String()), nil
	case TagTuple:
		items := make([]Value, len(picked))
		for j, i := range picked {
			items[j] = container.List.Items[i]
		}
		return TupleVal(items), nil
	default:
		items := make([]Value, len(picked))
		for j, i := range picked {
			items[j] = container.List.Items[i]
		}
		return ListVal(items), nil
	}
}

// evalAttribute resolves obj.name to a bound method value.
func (in *Interp) evalAttribute(n *tree_sitter.Node, env *Env) (Value, *RuntimeError) {
	line := pysrc.Line(n)
	obj, err := in.evalExpr(n.ChildByFieldName("object"), env)
	if err != nil {
		return None(), err
	}
	name := pysrc.Text(n.ChildByFieldName("attribute"), in.src)

	if m, ok := boundMethod(obj, name); ok {
		return m, nil
	}
	return None(), in.raise("AttributeError", line, "'%s' object has no attribute '%s'", TypeName(obj), name)
}

func (in *Interp) evalCall(n *tree_sitter.Node, env *Env) (Value, *RuntimeError) {
	line := pysrc.Line(n)
	callee, err := in.evalExpr(n.ChildByFieldName("function"), env)
	if err != nil {
		return None(), err
	}

	var args []Value
	kwargs := map[string]Value{}
	if argList := n.ChildByFieldName("arguments"); argList != nil {
		for i := uint(0); i < argList.NamedChildCount(); i++ {
			a := argList.NamedChild(i)
			switch a.Kind() {
			case "keyword_argument":
				name := pysrc.Text(a.ChildByFieldName("name"), in.src)
				v, err := in.evalExpr(a.ChildByFieldName("value"), env)
				if err != nil {
					return None(), err
				}
				kwargs[name] = v
			case "comment":
				// skip
			default:
				v, err := in.evalExpr(a, env)
				if err != nil {
					return None(), err
				}
				args = append(args, v)
			}
		}
	}

	return in.callValue(callee, args, kwargs, line)
}
