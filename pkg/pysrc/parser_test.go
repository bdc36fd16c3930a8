package pysrc

import (
	"testing"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
)

// mustParse parses source or fails the test.
func mustParse(t *testing.T, source string) *Tree {
	t.Helper()
	tree, err := Parse([]byte(source))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	t.Cleanup(tree.Close)
	return tree
}

// =============================================================================
// Parsing Tests
// =============================================================================

func TestParse_ValidSource(t *testing.T) {
	tree := mustParse(t, "x = 1\nprint(x)\n")

	if tree.Root().Kind() != "module" {
		t.Fatalf("expected module root, got %q", tree.Root().Kind())
	}
	if serr := CheckSyntax(tree); serr != nil {
		t.Fatalf("expected clean syntax, got %v", serr)
	}
}

func TestParse_EmptySource(t *testing.T) {
	tree := mustParse(t, "")
	if serr := CheckSyntax(tree); serr != nil {
		t.Fatalf("empty source should parse cleanly, got %v", serr)
	}
}

// =============================================================================
// Syntax Error Tests
// =============================================================================

func TestCheckSyntax_MissingColon(t *testing.T) {
	tree := mustParse(t, "def check_age(age):\n    if age >= 18\n        return True\n")

	serr := CheckSyntax(tree)
	if serr == nil {
		t.Fatal("expected a syntax error for missing colon")
	}
	if serr.ErrorType != "SyntaxError" {
		t.Errorf("expected error_type SyntaxError, got %q", serr.ErrorType)
	}
	if serr.Line < 1 {
		t.Errorf("expected a positive line number, got %d", serr.Line)
	}
	if serr.Message == "" {
		t.Error("expected a non-empty message")
	}
}

func TestCheckSyntax_UnclosedParen(t *testing.T) {
	tree := mustParse(t, "print((1 + 2\n")

	serr := CheckSyntax(tree)
	if serr == nil {
		t.Fatal("expected a syntax error for unclosed parenthesis")
	}
}

func TestCheckSyntax_ReportsSourceLine(t *testing.T) {
	source := "x = 1\ny = =\n"
	tree := mustParse(t, source)

	serr := CheckSyntax(tree)
	if serr == nil {
		t.Fatal("expected a syntax error")
	}
	if serr.Line != 2 {
		t.Errorf("expected error on line 2, got %d", serr.Line)
	}
}

// =============================================================================
// Node Helper Tests
// =============================================================================

func TestLineAndText(t *testing.T) {
	source := "a = 1\nb = 2\n"
	tree := mustParse(t, source)

	root := tree.Root()
	if root.NamedChildCount() != 2 {
		t.Fatalf("expected 2 statements, got %d", root.NamedChildCount())
	}
	second := root.NamedChild(1)
	if Line(second) != 2 {
		t.Errorf("expected line 2, got %d", Line(second))
	}
	if got := Text(second, tree.Source); got != "b = 2" {
		t.Errorf("expected text %q, got %q", "b = 2", got)
	}
}

func TestWalk_PreOrder(t *testing.T) {
	tree := mustParse(t, "x = 1\n")

	var kinds []string
	Walk(tree.Root(), func(n *tree_sitter.Node) {
		kinds = append(kinds, n.Kind())
	})

	if len(kinds) == 0 || kinds[0] != "module" {
		t.Fatalf("expected walk to start at module, got %v", kinds)
	}
	// The assignment must be visited before the identifiers it contains.
	assignIdx, identIdx := -1, -1
	for i, k := range kinds {
		if k == "assignment" && assignIdx == -1 {
			assignIdx = i
		}
		if k == "identifier" && identIdx == -1 {
			identIdx = i
		}
	}
	if assignIdx == -1 || identIdx == -1 || assignIdx > identIdx {
		t.Errorf("expected pre-order (assignment before identifier), got %v", kinds)
	}
}
