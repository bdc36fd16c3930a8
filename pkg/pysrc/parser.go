// Package pysrc provides Python snippet parsing on top of tree-sitter.
//
// Both analysis engines (static pattern detection and traced execution) ride
// on the same concrete syntax tree produced here. tree-sitter never refuses
// input; a snippet "fails to parse" when the resulting tree contains ERROR or
// MISSING nodes, which CheckSyntax converts into a structured SyntaxError.
package pysrc

import (
	"fmt"
	"strings"
	"sync"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_python "github.com/tree-sitter/tree-sitter-python/bindings/go"
)

// SnippetFilename is the synthetic filename attributed to analyzed snippets.
// Frames originating elsewhere (builtins, library code) are filtered out by
// the execution tracer.
const SnippetFilename = "<snippet>"

var (
	langOnce sync.Once
	language *tree_sitter.Language
)

// Language returns the compiled-in Python grammar. The grammar is loaded once
// and shared; tree-sitter languages are immutable after construction.
func Language() *tree_sitter.Language {
	langOnce.Do(func() {
		language = tree_sitter.NewLanguage(tree_sitter_python.Language())
	})
	return language
}

// Tree pairs a parsed tree-sitter tree with the source it was parsed from.
// Callers must Close it to release the underlying C allocation.
type Tree struct {
	inner  *tree_sitter.Tree
	Source []byte
}

// Root returns the root node of the parsed tree.
func (t *Tree) Root() *tree_sitter.Node {
	return t.inner.RootNode()
}

// Close releases the underlying tree. The Tree must not be used afterwards.
func (t *Tree) Close() {
	if t.inner != nil {
		t.inner.Close()
		t.inner = nil
	}
}

// Parse parses a Python snippet. A non-nil Tree is returned even for
// syntactically invalid input; use CheckSyntax to detect parse failure.
func Parse(source []byte) (*Tree, error) {
	parser := tree_sitter.NewParser()
	defer parser.Close()
	if err := parser.SetLanguage(Language()); err != nil {
		return nil, fmt.Errorf("set python grammar: %w", err)
	}

	tree := parser.Parse(source, nil)
	if tree == nil {
		return nil, fmt.Errorf("parse produced no tree")
	}
	return &Tree{inner: tree, Source: source}, nil
}

// SyntaxError describes the first parse failure found in a snippet.
type SyntaxError struct {
	Line      int    `json:"line"`
	Column    int    `json:"column"`
	Message   string `json:"message"`
	Text      string `json:"text"`
	ErrorType string `json:"error_type"`
}

// CheckSyntax returns a SyntaxError describing the first ERROR or MISSING
// node in pre-order, or nil if the snippet parsed cleanly.
func CheckSyntax(t *Tree) *SyntaxError {
	root := t.Root()
	if !root.HasError() {
		return nil
	}

	bad := firstErrorNode(root)
	if bad == nil {
		// HasError claims a problem but no ERROR/MISSING node was found;
		// report the root position rather than claiming the snippet is clean.
		bad = root
	}

	pos := bad.StartPosition()
	line := int(pos.Row) + 1

	msg := "invalid syntax"
	switch {
	case bad.IsMissing():
		msg = fmt.Sprintf("expected %q", bad.Kind())
	case bad.EndByte() >= uint(len(t.Source)):
		msg = "unexpected EOF while parsing"
	}

	return &SyntaxError{
		Line:      line,
		Column:    int(pos.Column),
		Message:   msg,
		Text:      sourceLine(t.Source, line),
		ErrorType: "SyntaxError",
	}
}

// firstErrorNode finds the first ERROR or MISSING node in pre-order.
func firstErrorNode(root *tree_sitter.Node) *tree_sitter.Node {
	stack := []*tree_sitter.Node{root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if n.IsError() || n.IsMissing() {
			return n
		}
		if !n.HasError() {
			continue
		}
		for i := n.ChildCount(); i > 0; i-- {
			stack = append(stack, n.Child(i-1))
		}
	}
	return nil
}

// sourceLine returns the 1-indexed line of source, or "" if out of range.
func sourceLine(source []byte, line int) string {
	lines := strings.Split(string(source), "\n")
	if line >= 1 && line <= len(lines) {
		return lines[line-1]
	}
	return ""
}

// Line returns the 1-indexed start line of a node.
func Line(n *tree_sitter.Node) int {
	return int(n.StartPosition().Row) + 1
}

// EndLine returns the 1-indexed end line of a node.
func EndLine(n *tree_sitter.Node) int {
	return int(n.EndPosition().Row) + 1
}

// Text returns the source text of a node.
func Text(n *tree_sitter.Node, source []byte) string {
	if n == nil {
		return ""
	}
	end := n.EndByte()
	if end > uint(len(source)) {
		end = uint(len(source))
	}
	return string(source[n.StartByte():end])
}

// Walk performs an iterative pre-order traversal from root, calling visit for
// every node exactly once. An explicit stack is used so deeply nested snippets
// cannot exhaust the Go call stack; children are pushed in reverse so they pop
// in source order, preserving pre-order discovery semantics.
func Walk(root *tree_sitter.Node, visit func(n *tree_sitter.Node)) {
	stack := []*tree_sitter.Node{root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		visit(n)

		for i := n.ChildCount(); i > 0; i-- {
			stack = append(stack, n.Child(i-1))
		}
	}
}

// NamedChildren returns the named children of a node.
func NamedChildren(n *tree_sitter.Node) []*tree_sitter.Node {
	count := n.NamedChildCount()
	out := make([]*tree_sitter.Node, 0, count)
	for i := uint(0); i < count; i++ {
		out = append(out, n.NamedChild(i))
	}
	return out
}
