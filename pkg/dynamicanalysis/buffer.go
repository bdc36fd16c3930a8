package dynamicanalysis

import (
	"strings"
	"unicode/utf8"
)

const truncationMarker = "... [output truncated]"

// boundedBuffer captures output up to a byte budget; writes past the budget
// are counted but dropped so a runaway print loop cannot exhaust memory.
type boundedBuffer struct {
	sb        strings.Builder
	budget    int
	truncated bool
}

func newBoundedBuffer(budget int) *boundedBuffer {
	if budget <= 0 {
		budget = DefaultOutputBudget
	}
	return &boundedBuffer{budget: budget}
}

func (b *boundedBuffer) Write(p []byte) (int, error) {
	remaining := b.budget - b.sb.Len()
	if remaining <= 0 {
		b.truncated = true
		return len(p), nil
	}
	if len(p) > remaining {
		// Back off to a rune boundary so the cut never splits a multibyte
		// character.
		for remaining > 0 && !utf8.RuneStart(p[remaining]) {
			remaining--
		}
		b.sb.Write(p[:remaining])
		b.truncated = true
		return len(p), nil
	}
	b.sb.Write(p)
	return len(p), nil
}

func (b *boundedBuffer) String() string {
	if b.truncated {
		return b.sb.String() + truncationMarker
	}
	return b.sb.String()
}
