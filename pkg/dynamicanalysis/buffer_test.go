package dynamicanalysis

import (
	"strings"
	"testing"
	"unicode/utf8"
)

// =============================================================================
// Bounded Buffer Tests
// =============================================================================

func TestBoundedBuffer_WithinBudget(t *testing.T) {
	b := newBoundedBuffer(100)
	b.Write([]byte("hello"))

	if got := b.String(); got != "hello" {
		t.Errorf("expected untouched output, got %q", got)
	}
}

func TestBoundedBuffer_DropsPastBudget(t *testing.T) {
	b := newBoundedBuffer(8)
	b.Write([]byte("0123456789"))
	b.Write([]byte("more"))

	got := b.String()
	if !strings.HasSuffix(got, truncationMarker) {
		t.Errorf("expected truncation marker, got %q", got)
	}
	if !strings.HasPrefix(got, "01234567") {
		t.Errorf("expected the first 8 bytes kept, got %q", got)
	}
}

func TestBoundedBuffer_CutKeepsRuneBoundary(t *testing.T) {
	// A budget falling mid-rune must back off rather than split the rune.
	b := newBoundedBuffer(5)
	b.Write([]byte("ééé"))

	got := b.String()
	if !utf8.ValidString(got) {
		t.Errorf("truncated output is not valid UTF-8: %q", got)
	}
	if !strings.HasPrefix(got, "éé") {
		t.Errorf("expected two whole runes kept, got %q", got)
	}
	if !strings.HasSuffix(got, truncationMarker) {
		t.Errorf("expected truncation marker, got %q", got)
	}
}
