package interp

import (
	"bytes"
	"strings"
	"testing"

	"github.com/akashdevbuilds/lumina-ai-debugger/pkg/pysrc"
)

// runSource executes a snippet with the given options and returns stdout and
// the fault, if any.
func runSource(t *testing.T, source string, opts Options) (string, *RuntimeError) {
	t.Helper()
	tree, err := pysrc.Parse([]byte(source))
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	defer tree.Close()
	if serr := pysrc.CheckSyntax(tree); serr != nil {
		t.Fatalf("snippet does not parse cleanly: %v", serr)
	}

	var out bytes.Buffer
	opts.Stdout = &out
	in := New(opts)
	rerr := in.Run(tree)
	return out.String(), rerr
}

// mustRun executes a snippet and fails the test on any fault.
func mustRun(t *testing.T, source string) string {
	t.Helper()
	out, rerr := runSource(t, source, Options{})
	if rerr != nil {
		t.Fatalf("unexpected fault: %v\n%s", rerr, rerr.Traceback())
	}
	return out
}

// mustFail executes a snippet and fails the test unless it faults with the
// given error type.
func mustFail(t *testing.T, source, errType string) *RuntimeError {
	t.Helper()
	_, rerr := runSource(t, source, Options{})
	if rerr == nil {
		t.Fatalf("expected %s, snippet ran clean", errType)
	}
	if rerr.Type != errType {
		t.Fatalf("expected %s, got %s: %s", errType, rerr.Type, rerr.Message)
	}
	return rerr
}

// =============================================================================
// Arithmetic Tests
// =============================================================================

func TestArithmetic_Basics(t *testing.T) {
	out := mustRun(t, `print(2 + 3 * 4)
print(10 / 4)
print(10 // 3)
print(-7 // 2)
print(-7 % 2)
print(2 ** 10)
`)
	want := "14\n2.5\n3\n-4\n1\n1024\n"
	if out != want {
		t.Errorf("expected %q, got %q", want, out)
	}
}

func TestArithmetic_DivisionByZero(t *testing.T) {
	rerr := mustFail(t, "x = 1 / 0\n", "ZeroDivisionError")
	if rerr.Message != "division by zero" {
		t.Errorf("expected %q, got %q", "division by zero", rerr.Message)
	}

	rerr = mustFail(t, "x = 1 // 0\n", "ZeroDivisionError")
	if rerr.Message != "integer division or modulo by zero" {
		t.Errorf("expected modulo message, got %q", rerr.Message)
	}
}

func TestArithmetic_StringConcatTypeError(t *testing.T) {
	rerr := mustFail(t, "x = \"age: \" + 25\n", "TypeError")
	want := `can only concatenate str (not "int") to str`
	if rerr.Message != want {
		t.Errorf("expected %q, got %q", want, rerr.Message)
	}
}

// =============================================================================
// String and F-String Tests
// =============================================================================

func TestStrings_Operations(t *testing.T) {
	out := mustRun(t, `s = "hello"
print(s.upper())
print(s * 2)
print(", ".join(["a", "b", "c"]))
print("a,b,c".split(","))
print(len(s))
`)
	want := "HELLO\nhellohello\na, b, c\n['a', 'b', 'c']\n5\n"
	if out != want {
		t.Errorf("expected %q, got %q", want, out)
	}
}

func TestStrings_FString(t *testing.T) {
	out := mustRun(t, `name = "Ada"
n = 3
print(f"{name} has {n + 1} items")
`)
	if out != "Ada has 4 items\n" {
		t.Errorf("unexpected f-string output: %q", out)
	}
}

func TestStrings_Slicing(t *testing.T) {
	out := mustRun(t, `s = "abcdef"
print(s[1:4])
print(s[::-1])
print(s[-2:])
`)
	want := "bcd\nfedcba\nef\n"
	if out != want {
		t.Errorf("expected %q, got %q", want, out)
	}
}

// =============================================================================
// Control Flow Tests
// =============================================================================

func TestControlFlow_IfElifElse(t *testing.T) {
	out := mustRun(t, `def grade(x):
    if x >= 90:
        return "A"
    elif x >= 80:
        return "B"
    else:
        return "C"

print(grade(95), grade(85), grade(10))
`)
	if out != "A B C\n" {
		t.Errorf("expected %q, got %q", "A B C\n", out)
	}
}

func TestControlFlow_WhileBreakContinue(t *testing.T) {
	out := mustRun(t, `total = 0
i = 0
while True:
    i += 1
    if i > 10:
        break
    if i % 2 == 0:
        continue
    total += i
print(total)
`)
	if out != "25\n" {
		t.Errorf("expected 25, got %q", out)
	}
}

func TestControlFlow_ForOverContainers(t *testing.T) {
	out := mustRun(t, `for c in "ab":
    print(c)
for x in [1, 2]:
    print(x)
for k in {"a": 1, "b": 2}:
    print(k)
for i in range(3, 0, -1):
    print(i)
`)
	want := "a\nb\n1\n2\na\nb\n3\n2\n1\n"
	if out != want {
		t.Errorf("expected %q, got %q", want, out)
	}
}

func TestControlFlow_ChainedComparison(t *testing.T) {
	out := mustRun(t, `x = 5
print(1 < x < 10)
print(1 < x < 3)
`)
	if out != "True\nFalse\n" {
		t.Errorf("expected True/False, got %q", out)
	}
}

// =============================================================================
// Function Tests
// =============================================================================

func TestFunctions_DefaultsAndKwargs(t *testing.T) {
	out := mustRun(t, `def greet(name, greeting="Hello"):
    return greeting + ", " + name

print(greet("Ada"))
print(greet("Ada", greeting="Hi"))
`)
	want := "Hello, Ada\nHi, Ada\n"
	if out != want {
		t.Errorf("expected %q, got %q", want, out)
	}
}

func TestFunctions_Recursion(t *testing.T) {
	out := mustRun(t, `def fib(n):
    if n <= 1:
        return n
    return fib(n - 1) + fib(n - 2)

print(fib(10))
`)
	if out != "55\n" {
		t.Errorf("expected 55, got %q", out)
	}
}

func TestFunctions_RecursionLimit(t *testing.T) {
	rerr := mustFail(t, `def loop():
    return loop()

loop()
`, "RecursionError")
	if !strings.Contains(rerr.Message, "maximum recursion depth") {
		t.Errorf("unexpected message: %q", rerr.Message)
	}
}

func TestFunctions_UnexpectedKeyword(t *testing.T) {
	mustFail(t, `def f(a):
    return a

f(b=1)
`, "TypeError")
}

// =============================================================================
// Runtime Fault Tests
// =============================================================================

func TestFaults_IndexError(t *testing.T) {
	rerr := mustFail(t, "x = [1, 2, 3]\nprint(x[10])\n", "IndexError")
	if rerr.Message != "list index out of range" {
		t.Errorf("expected list index message, got %q", rerr.Message)
	}
	if len(rerr.Frames) == 0 || rerr.Frames[len(rerr.Frames)-1].Line != 2 {
		t.Errorf("expected fault attributed to line 2, frames %v", rerr.Frames)
	}
}

func TestFaults_NameError(t *testing.T) {
	rerr := mustFail(t, "print(missing)\n", "NameError")
	if rerr.Message != "name 'missing' is not defined" {
		t.Errorf("unexpected message: %q", rerr.Message)
	}
}

func TestFaults_KeyError(t *testing.T) {
	rerr := mustFail(t, "d = {\"a\": 1}\nprint(d[\"b\"])\n", "KeyError")
	if rerr.Message != "'b'" {
		t.Errorf("expected repr of key, got %q", rerr.Message)
	}
}

func TestFaults_UnpackMismatch(t *testing.T) {
	mustFail(t, "a, b = [1, 2, 3]\n", "ValueError")
}

func TestFaults_TracebackFormat(t *testing.T) {
	rerr := mustFail(t, `def inner():
    return 1 / 0

def outer():
    return inner()

outer()
`, "ZeroDivisionError")

	tb := rerr.Traceback()
	if !strings.HasPrefix(tb, "Traceback (most recent call last):") {
		t.Errorf("traceback missing header: %q", tb)
	}
	if !strings.Contains(tb, "in outer") || !strings.Contains(tb, "in inner") {
		t.Errorf("traceback missing call chain: %q", tb)
	}
}

// =============================================================================
// Exception Handling Tests
// =============================================================================

func TestTry_CatchByType(t *testing.T) {
	out := mustRun(t, `try:
    x = [1][5]
except IndexError as e:
    print("caught", e)
except TypeError:
    print("wrong handler")
`)
	if !strings.HasPrefix(out, "caught ") {
		t.Errorf("expected IndexError handler output, got %q", out)
	}
}

func TestTry_FinallyAlwaysRuns(t *testing.T) {
	out := mustRun(t, `def f():
    try:
        return "value"
    finally:
        print("cleanup")

print(f())
`)
	if out != "cleanup\nvalue\n" {
		t.Errorf("expected finally before return delivery, got %q", out)
	}
}

func TestTry_UnmatchedPropagates(t *testing.T) {
	mustFail(t, `try:
    x = 1 / 0
except IndexError:
    print("no")
`, "ZeroDivisionError")
}

func TestRaise_Explicit(t *testing.T) {
	rerr := mustFail(t, "raise ValueError(\"bad input\")\n", "ValueError")
	if rerr.Message != "bad input" {
		t.Errorf("expected raised message, got %q", rerr.Message)
	}
}

// =============================================================================
// Builtin Tests
// =============================================================================

func TestBuiltins_Collections(t *testing.T) {
	out := mustRun(t, `xs = [3, 1, 2]
print(sorted(xs))
print(max(xs), min(xs), sum(xs))
print(list(enumerate("ab")))
print(list(reversed([1, 2, 3])))
`)
	want := "[1, 2, 3]\n3 1 6\n[(0, 'a'), (1, 'b')]\n[3, 2, 1]\n"
	if out != want {
		t.Errorf("expected %q, got %q", want, out)
	}
}

func TestBuiltins_Conversions(t *testing.T) {
	out := mustRun(t, `print(int("42") + 1)
print(float("2.5"))
print(str(7) + "!")
print(bool([]))
`)
	want := "43\n2.5\n7!\nFalse\n"
	if out != want {
		t.Errorf("expected %q, got %q", want, out)
	}

	rerr := mustFail(t, "int(\"abc\")\n", "ValueError")
	if !strings.Contains(rerr.Message, "invalid literal for int()") {
		t.Errorf("unexpected message: %q", rerr.Message)
	}
}

func TestBuiltins_Isinstance(t *testing.T) {
	out := mustRun(t, `print(isinstance(1, int))
print(isinstance(True, int))
print(isinstance("x", (int, str)))
print(isinstance(1.5, int))
`)
	want := "True\nTrue\nTrue\nFalse\n"
	if out != want {
		t.Errorf("expected %q, got %q", want, out)
	}
}

func TestBuiltins_Input(t *testing.T) {
	inputs := []string{"Ada"}
	i := 0
	out, rerr := runSource(t, "name = input(\"Who? \")\nprint(name)\n", Options{
		Input: func() string {
			if i < len(inputs) {
				v := inputs[i]
				i++
				return v
			}
			return ""
		},
	})
	if rerr != nil {
		t.Fatalf("unexpected fault: %v", rerr)
	}
	if out != "Who? Ada\n" {
		t.Errorf("expected prompt then echo, got %q", out)
	}
}

// =============================================================================
// Method Tests
// =============================================================================

func TestMethods_ListMutation(t *testing.T) {
	out := mustRun(t, `xs = [1, 2]
xs.append(3)
xs.insert(0, 0)
xs.remove(2)
print(xs)
print(xs.pop())
print(xs)
`)
	want := "[0, 1, 3]\n3\n[0, 1]\n"
	if out != want {
		t.Errorf("expected %q, got %q", want, out)
	}
}

func TestMethods_Dict(t *testing.T) {
	out := mustRun(t, `d = {"a": 1}
d["b"] = 2
print(d.get("a"), d.get("zzz", 0))
print(list(d.keys()))
print(list(d.items()))
`)
	want := "1 0\n['a', 'b']\n[('a', 1), ('b', 2)]\n"
	if out != want {
		t.Errorf("expected %q, got %q", want, out)
	}
}

// =============================================================================
// Execution Limit Tests
// =============================================================================

func TestLimits_StepBudget(t *testing.T) {
	_, rerr := runSource(t, "while True:\n    pass\n", Options{MaxSteps: 1000})
	if rerr == nil {
		t.Fatal("expected the step budget to stop an infinite loop")
	}
	if rerr.Type != "RuntimeError" || !strings.Contains(rerr.Message, "step budget") {
		t.Errorf("unexpected fault: %s: %s", rerr.Type, rerr.Message)
	}
}

// =============================================================================
// Hook Tests
// =============================================================================

type recordingHook struct {
	events []Event
	limit  int
}

func (h *recordingHook) OnEvent(ev Event) bool {
	h.events = append(h.events, ev)
	return h.limit <= 0 || len(h.events) < h.limit
}

func TestHook_EventSequence(t *testing.T) {
	hook := &recordingHook{}
	_, rerr := runSource(t, `def double(x):
    return x * 2

double(5)
`, Options{Hook: hook})
	if rerr != nil {
		t.Fatalf("unexpected fault: %v", rerr)
	}

	if len(hook.events) == 0 {
		t.Fatal("expected hook events")
	}
	first := hook.events[0]
	if first.Kind != EventCall || first.Function != "<module>" {
		t.Errorf("expected module call event first, got %v/%q", first.Kind, first.Function)
	}

	var sawCall, sawReturn bool
	for _, ev := range hook.events {
		if ev.Function == "double" && ev.Kind == EventCall {
			sawCall = true
			if ev.Locals["x"].Tag != TagInt {
				t.Errorf("expected x bound at call, locals %v", ev.Locals)
			}
		}
		if ev.Function == "double" && ev.Kind == EventReturn {
			sawReturn = true
			if !ev.HasRet || Repr(ev.Return) != "10" {
				t.Errorf("expected return value 10, got %v", ev.Return)
			}
		}
		if ev.Filename != pysrc.SnippetFilename && ev.Filename != BuiltinFilename {
			t.Errorf("unexpected event filename %q", ev.Filename)
		}
	}
	if !sawCall || !sawReturn {
		t.Errorf("missing call/return events for double: %v", hook.events)
	}

	last := hook.events[len(hook.events)-1]
	if last.Kind != EventReturn || last.Function != "<module>" {
		t.Errorf("expected module return event last, got %v/%q", last.Kind, last.Function)
	}
}

func TestHook_DetachesOnFalse(t *testing.T) {
	hook := &recordingHook{limit: 3}
	_, rerr := runSource(t, "x = 1\ny = 2\nz = 3\nw = 4\n", Options{Hook: hook})
	if rerr != nil {
		t.Fatalf("unexpected fault: %v", rerr)
	}
	if len(hook.events) != 3 {
		t.Errorf("expected hook detached after 3 events, got %d", len(hook.events))
	}
}

func TestHook_ModuleLocalsExcludeBuiltins(t *testing.T) {
	hook := &recordingHook{}
	_, rerr := runSource(t, "x = 1\nprint(x)\n", Options{Hook: hook})
	if rerr != nil {
		t.Fatalf("unexpected fault: %v", rerr)
	}

	for _, ev := range hook.events {
		if ev.Function != "<module>" {
			continue
		}
		for name := range ev.Locals {
			if name != "x" {
				t.Errorf("module locals leaked %q, want snippet bindings only", name)
			}
		}
	}
}

func TestBuiltins_ShadowableByAssignment(t *testing.T) {
	out := mustRun(t, `len = 5
print(len)
`)
	if out != "5\n" {
		t.Errorf("expected builtin shadowed by module binding, got %q", out)
	}
}

func TestHook_BuiltinFrames(t *testing.T) {
	hook := &recordingHook{}
	_, rerr := runSource(t, "print(len([1, 2]))\n", Options{Hook: hook})
	if rerr != nil {
		t.Fatalf("unexpected fault: %v", rerr)
	}

	var builtinCall bool
	for _, ev := range hook.events {
		if ev.Kind == EventCall && ev.Filename == BuiltinFilename {
			builtinCall = true
		}
	}
	if !builtinCall {
		t.Error("expected builtin calls to carry the builtin filename")
	}
}
