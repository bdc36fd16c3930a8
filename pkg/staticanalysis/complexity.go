package staticanalysis

import (
	"fmt"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/akashdevbuilds/lumina-ai-debugger/pkg/pysrc"
)

// Python node kinds that each add a decision point (+1 complexity).
var branchKinds = map[string]bool{
	"if_statement":             true,
	"elif_clause":              true,
	"for_statement":            true,
	"while_statement":          true,
	"except_clause":            true,
	"with_statement":           true,
	"assert_statement":         true,
	"boolean_operator":         true, // and/or
	"conditional_expression":   true,
	"list_comprehension":       true,
	"dictionary_comprehension": true,
	"set_comprehension":        true,
	"generator_expression":     true,
}

// computeComplexity returns per-function cyclomatic complexity for every
// function definition in the tree, in source order. A panic anywhere in the
// computation is recovered and reported as a degraded (empty) result: a
// failed sub-analysis must not take down the whole static report.
func computeComplexity(tree *pysrc.Tree) (infos []ComplexityInfo) {
	defer func() {
		if r := recover(); r != nil {
			staticLog.Printf("complexity analysis failed: %v", r)
			infos = nil
		}
	}()

	pysrc.Walk(tree.Root(), func(n *tree_sitter.Node) {
		if n.Kind() != "function_definition" {
			return
		}
		name := pysrc.Text(n.ChildByFieldName("name"), tree.Source)
		if name == "" {
			name = fmt.Sprintf("<anonymous:%d>", pysrc.Line(n))
		}
		c := countComplexity(n)
		infos = append(infos, ComplexityInfo{
			Name:           name,
			Complexity:     c,
			Classification: classifyComplexity(c),
		})
	})
	return infos
}

// countComplexity counts decision points within one function body, starting
// from a base of 1. Nested function definitions are boundaries: their
// branches belong to their own complexity score, not the enclosing one.
func countComplexity(funcNode *tree_sitter.Node) int {
	complexity := 1

	var count func(n *tree_sitter.Node)
	count = func(n *tree_sitter.Node) {
		if branchKinds[n.Kind()] {
			complexity++
		}
		for i := uint(0); i < n.ChildCount(); i++ {
			child := n.Child(i)
			if child.Kind() == "function_definition" {
				continue
			}
			count(child)
		}
	}

	for i := uint(0); i < funcNode.ChildCount(); i++ {
		count(funcNode.Child(i))
	}

	return complexity
}
