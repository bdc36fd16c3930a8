package staticanalysis

// Default configuration constants for the static analyzers.
// These are the single source of truth — referenced by the detector, the
// complexity calculator, the CLI help text, and the config layer. Keep them
// here so a value change is a one-line diff.
const (
	// DefaultLongFunctionLines is the body span (in lines, inclusive) above
	// which a function is flagged as long. Fixed per analysis call, not
	// configurable per invocation.
	DefaultLongFunctionLines = 30

	// ComplexityLowMax is the highest cyclomatic complexity classified as
	// "low". The remaining boundaries follow the same shape.
	ComplexityLowMax      = 10
	ComplexityModerateMax = 20
	ComplexityHighMax     = 50
)

// classifyComplexity maps a cyclomatic complexity value to its band.
func classifyComplexity(c int) string {
	switch {
	case c <= ComplexityLowMax:
		return ComplexityLow
	case c <= ComplexityModerateMax:
		return ComplexityModerate
	case c <= ComplexityHighMax:
		return ComplexityHigh
	default:
		return ComplexityVeryHigh
	}
}
