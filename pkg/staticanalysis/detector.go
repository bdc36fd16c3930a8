package staticanalysis

import (
	"fmt"
	"sort"
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/akashdevbuilds/lumina-ai-debugger/pkg/pysrc"
)

// detector is a single-use accumulator for one traversal. A fresh instance is
// constructed per analysis call and never shared.
type detector struct {
	source        []byte
	longFuncLines int
	issues        []Issue
	functions     []FunctionInfo
	defined       map[string]struct{}
	used          map[string]struct{}

	// binding marks identifier nodes that appear in a write/bind position.
	// Pre-order guarantees the construct introducing the binding is visited
	// before the identifier itself, so marks are always set in time.
	binding map[uintptr]bool
}

// detect walks the tree once in pre-order and returns the accumulated issues,
// function records, and variable usage sets. The tree must have parsed
// cleanly; syntax failures are handled by the caller before detection runs.
func detect(tree *pysrc.Tree, longFuncLines int) ([]Issue, []FunctionInfo, VariableSummary) {
	if longFuncLines <= 0 {
		longFuncLines = DefaultLongFunctionLines
	}
	d := &detector{
		source:        tree.Source,
		longFuncLines: longFuncLines,
		defined:       make(map[string]struct{}),
		used:          make(map[string]struct{}),
		binding:       make(map[uintptr]bool),
	}

	pysrc.Walk(tree.Root(), d.visit)

	return d.issues, d.functions, d.variables()
}

func (d *detector) visit(n *tree_sitter.Node) {
	switch n.Kind() {
	case "for_statement":
		d.visitFor(n)
	case "function_definition":
		d.visitFunctionDef(n)
	case "assignment", "augmented_assignment":
		if left := n.ChildByFieldName("left"); left != nil {
			d.markBindTargets(left)
		}
	case "call":
		d.visitCall(n)
	case "try_statement":
		d.visitTry(n)
	case "identifier":
		name := pysrc.Text(n, d.source)
		if d.binding[n.Id()] {
			d.defined[name] = struct{}{}
		} else {
			d.used[name] = struct{}{}
		}
	}
}

// visitFor flags the off-by-one loop shape `for i in range(len(xs) + expr):`.
// Only this exact syntactic form is matched: `len(x) - 1`, a bound computed in
// an earlier statement, or a variable holding the precomputed bound are not
// detected. That is a known detection-completeness limitation of the pattern,
// not a bug.
func (d *detector) visitFor(n *tree_sitter.Node) {
	if left := n.ChildByFieldName("left"); left != nil {
		d.markBindTargets(left)
	}

	right := n.ChildByFieldName("right")
	if right == nil || right.Kind() != "call" {
		return
	}
	if calleeName(right, d.source) != "range" {
		return
	}

	args := right.ChildByFieldName("arguments")
	if args == nil || args.NamedChildCount() != 1 {
		return
	}

	arg := args.NamedChild(0)
	if arg.Kind() != "binary_operator" {
		return
	}
	op := arg.ChildByFieldName("operator")
	if op == nil || pysrc.Text(op, d.source) != "+" {
		return
	}
	lhs := arg.ChildByFieldName("left")
	if lhs == nil || lhs.Kind() != "call" || calleeName(lhs, d.source) != "len" {
		return
	}

	d.emit(Issue{
		Type:     IssuePotentialIndexError,
		Severity: SevHigh,
		Line:     pysrc.Line(n),
		Message:  "Loop range may exceed list bounds",
		Pattern:  pysrc.Text(right, d.source),
	})
}

func (d *detector) visitFunctionDef(n *tree_sitter.Node) {
	nameNode := n.ChildByFieldName("name")
	name := pysrc.Text(nameNode, d.source)
	if nameNode != nil {
		d.binding[nameNode.Id()] = true
		d.defined[name] = struct{}{}
	}

	argCount := 0
	if params := n.ChildByFieldName("parameters"); params != nil {
		argCount = int(params.NamedChildCount())
		d.markBindTargets(params)
	}

	hasDoc := hasDocstring(n)
	d.functions = append(d.functions, FunctionInfo{
		Name:         name,
		Line:         pysrc.Line(n),
		ArgCount:     argCount,
		HasDocstring: hasDoc,
	})

	if !hasDoc {
		d.emit(Issue{
			Type:     IssueMissingDocstring,
			Severity: SevMedium,
			Line:     pysrc.Line(n),
			Message:  fmt.Sprintf("Function '%s' is missing a docstring", name),
			Pattern:  firstLine(pysrc.Text(n, d.source)),
		})
	}

	if span := pysrc.EndLine(n) - pysrc.Line(n) + 1; span > d.longFuncLines {
		d.emit(Issue{
			Type:     IssueLongFunction,
			Severity: SevMedium,
			Line:     pysrc.Line(n),
			Message:  fmt.Sprintf("Function '%s' is %d lines long (max %d)", name, span, d.longFuncLines),
			Pattern:  firstLine(pysrc.Text(n, d.source)),
		})
	}
}

func (d *detector) visitCall(n *tree_sitter.Node) {
	name := calleeName(n, d.source)
	if name == "" {
		return
	}

	switch name {
	case "print":
		args := n.ChildByFieldName("arguments")
		if args != nil && args.NamedChildCount() == 0 {
			d.emit(Issue{
				Type:     IssueEmptyPrint,
				Severity: SevLow,
				Line:     pysrc.Line(n),
				Message:  "Empty print statement (debug artifact?)",
				Pattern:  "print()",
			})
		}
	case "eval", "exec":
		d.emit(Issue{
			Type:     IssueEvalUsage,
			Severity: SevCritical,
			Line:     pysrc.Line(n),
			Message:  fmt.Sprintf("Use of %s() is a security risk", name),
			Pattern:  firstLine(pysrc.Text(n, d.source)),
		})
	}
}

func (d *detector) visitTry(n *tree_sitter.Node) {
	for i := uint(0); i < n.ChildCount(); i++ {
		clause := n.Child(i)
		if clause.Kind() != "except_clause" {
			continue
		}
		// A bare handler has only its block as a named child; typed handlers
		// also carry the exception expression (and optional alias).
		if clause.NamedChildCount() <= 1 {
			d.emit(Issue{
				Type:     IssueBareExcept,
				Severity: SevMedium,
				Line:     pysrc.Line(clause),
				Message:  "Bare except clause catches all exceptions",
				Pattern:  "except:",
			})
		}
	}
}

func (d *detector) emit(issue Issue) {
	d.issues = append(d.issues, issue)
}

// markBindTargets marks identifiers inside an assignment target as bindings.
// Identifiers reached through a subscript or attribute target (xs[0] = v,
// obj.field = v) are reads of the container, not new bindings, so recursion
// stops there.
func (d *detector) markBindTargets(n *tree_sitter.Node) {
	switch n.Kind() {
	case "identifier":
		d.binding[n.Id()] = true
	case "subscript", "attribute":
		return
	case "default_parameter", "typed_default_parameter", "typed_parameter":
		// Only the parameter name binds; defaults and annotations are reads.
		if name := n.ChildByFieldName("name"); name != nil {
			d.binding[name.Id()] = true
		} else if first := n.NamedChild(0); first != nil && first.Kind() == "identifier" {
			d.binding[first.Id()] = true
		}
	default:
		for i := uint(0); i < n.NamedChildCount(); i++ {
			d.markBindTargets(n.NamedChild(i))
		}
	}
}

func (d *detector) variables() VariableSummary {
	summary := VariableSummary{
		Defined: sortedNames(d.defined),
		Used:    sortedNames(d.used),
	}
	for _, name := range summary.Defined {
		if _, ok := d.used[name]; !ok {
			summary.PotentiallyUnused = append(summary.PotentiallyUnused, name)
		}
	}
	return summary
}

// calleeName returns the name of a call's target when it is a plain
// identifier, or "" for method and other computed calls.
func calleeName(call *tree_sitter.Node, source []byte) string {
	fn := call.ChildByFieldName("function")
	if fn == nil || fn.Kind() != "identifier" {
		return ""
	}
	return pysrc.Text(fn, source)
}

// hasDocstring reports whether a function body begins with a string literal.
func hasDocstring(def *tree_sitter.Node) bool {
	body := def.ChildByFieldName("body")
	if body == nil || body.NamedChildCount() == 0 {
		return false
	}
	first := body.NamedChild(0)
	if first.Kind() != "expression_statement" || first.NamedChildCount() == 0 {
		return false
	}
	return first.NamedChild(0).Kind() == "string"
}

func sortedNames(set map[string]struct{}) []string {
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}
