// Package param evaluates body parameter expressions. Parameter maps
// hold either numeric literals or Lisp expressions such as
// "(* width 2)"; expressions run in a sandboxed zygomys environment
// seeded with the other parameters' values.
package param

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	zygo "github.com/glycerine/zygomys/zygo"
)

// EvalTimeout is the hard limit for a single expression evaluation.
const EvalTimeout = 5 * time.Second

// EvalError is a non-fatal expression failure, with the source line
// when the interpreter reports one.
type EvalError struct {
	Name    string // parameter being evaluated
	Line    int
	Message string
}

func (e EvalError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("param %q: line %d: %s", e.Name, e.Line, e.Message)
	}
	return fmt.Sprintf("param %q: %s", e.Name, e.Message)
}

// Resolve evaluates a parameter map into numeric values. Literals
// resolve directly; expressions are retried over multiple passes so
// they may reference other parameters, including expression-valued
// ones, in any declaration order. Cyclic or failing parameters
// produce an error naming the first casualty.
func Resolve(params map[string]string) (map[string]float64, error) {
	resolved := make(map[string]float64, len(params))
	if len(params) == 0 {
		return resolved, nil
	}

	pending := make([]string, 0, len(params))
	for name, value := range params {
		if v, err := strconv.ParseFloat(strings.TrimSpace(value), 64); err == nil {
			resolved[name] = v
			continue
		}
		pending = append(pending, name)
	}
	sort.Strings(pending) // deterministic evaluation order

	var lastErr error
	for pass := 0; pass < len(params) && len(pending) > 0; pass++ {
		var still []string
		for _, name := range pending {
			v, err := Eval(params[name], resolved)
			if err != nil {
				lastErr = EvalError{Name: name, Line: errLine(err), Message: errMessage(err)}
				still = append(still, name)
				continue
			}
			resolved[name] = v
		}
		if len(still) == len(pending) {
			return nil, lastErr
		}
		pending = still
	}
	if len(pending) > 0 {
		return nil, lastErr
	}
	return resolved, nil
}

// Eval evaluates a single expression with the given bindings in a
// fresh sandboxed environment. Sandbox mode prevents the expression
// from reaching the filesystem or syscalls.
func Eval(expr string, bindings map[string]float64) (float64, error) {
	trimmed := strings.TrimSpace(expr)
	if v, err := strconv.ParseFloat(trimmed, 64); err == nil {
		return v, nil
	}
	// A bare parameter reference resolves from the bindings directly.
	// Run through the interpreter, it would come back as the value of
	// the last (def ...) form in the generated source, not the named one.
	if v, ok := bindings[trimmed]; ok {
		return v, nil
	}

	type evalResult struct {
		value float64
		err   error
	}
	ch := make(chan evalResult, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- evalResult{err: fmt.Errorf("panic during evaluation: %v", r)}
			}
		}()
		v, err := eval(expr, bindings)
		ch <- evalResult{value: v, err: err}
	}()

	timer := time.NewTimer(EvalTimeout)
	defer timer.Stop()
	select {
	case res := <-ch:
		return res.value, res.err
	case <-timer.C:
		return 0, fmt.Errorf("evaluation timed out after %s", EvalTimeout)
	}
}

// eval runs the expression through zygomys. Bindings become (def ...)
// forms prefixed to the source, so no interpreter-specific global API
// is needed.
func eval(expr string, bindings map[string]float64) (float64, error) {
	env := zygo.NewZlispSandbox()
	defer env.Stop()

	var src strings.Builder
	names := make([]string, 0, len(bindings))
	for name := range bindings {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(&src, "(def %s %s)\n", name,
			strconv.FormatFloat(bindings[name], 'g', -1, 64))
	}
	src.WriteString(expr)

	if err := env.LoadString(src.String()); err != nil {
		return 0, err
	}
	result, err := env.Run()
	if err != nil {
		return 0, err
	}
	return number(result)
}

// number extracts a float64 from a zygomys result value.
func number(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpFloat:
		return v.Val, nil
	case *zygo.SexpInt:
		return float64(v.Val), nil
	default:
		return 0, fmt.Errorf("expression result %s is not a number", s.SexpString(nil))
	}
}

// linePattern matches zygomys error messages that include
// "Error on line N: ..." so the editor can point at the failure.
var linePattern = regexp.MustCompile(`(?i)(?:error )?on line (\d+):\s*(.*)`)

// errLine extracts the source line from a zygomys error, or 0.
func errLine(err error) int {
	if m := linePattern.FindStringSubmatch(err.Error()); m != nil {
		line, _ := strconv.Atoi(m[1])
		return line
	}
	return 0
}

// errMessage strips line prefixes from a zygomys error message.
func errMessage(err error) string {
	if m := linePattern.FindStringSubmatch(err.Error()); m != nil {
		return strings.TrimSpace(m[2])
	}
	return strings.TrimSpace(err.Error())
}
