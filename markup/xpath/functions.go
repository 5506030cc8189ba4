package xpath

import (
	"strconv"
	"strings"

	"github.com/clems4ever/markupxml/markup"
)

// ArgValue is the result of evaluating a single compiled argument or
// nested expression: a token-kind provenance plus its string form.
// Integers and booleans travel as strings and are reparsed by the
// comparison/boolean helpers below, matching the engine's "everything
// folds to a string, functions reinterpret as needed" evaluation style.
type ArgValue struct {
	Kind  EToken
	Value string
}

// argGetter evaluates to an ArgValue for a given element: a literal, an
// attribute lookup, or the wrapped result of a nested compiled
// expression.
type argGetter func(e *markup.Element) (ArgValue, error)

// builtinFunc is a named or operator function's raw implementation. It
// returns a bool, int, or string, converted back to an ArgValue by the
// caller.
type builtinFunc func(e *markup.Element, args []ArgValue) (any, error)

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func getInt(a ArgValue) (int, error) {
	if !isAllDigits(a.Value) {
		return 0, newQueryErrorf("invalid integer %q", a.Value)
	}
	n, err := strconv.Atoi(a.Value)
	if err != nil {
		return 0, newQueryErrorf("invalid integer %q", a.Value)
	}
	return n, nil
}

func getBool(a ArgValue) (bool, error) {
	switch a.Value {
	case "1", "true":
		return true, nil
	case "0", "false":
		return false, nil
	}
	return false, newQueryErrorf("invalid boolean %q", a.Value)
}

// getValue reinterprets an argument under its originating token kind:
// variables and strings stay as strings, integers parse, everything
// else is treated as a boolean literal.
func getValue(a ArgValue) (any, error) {
	switch a.Kind {
	case VARIABLE, STRING:
		return a.Value, nil
	case INTEGER:
		return getInt(a)
	default:
		return a.Value == "true", nil
	}
}

func truthy(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case int:
		return t != 0
	case string:
		return t != ""
	default:
		return false
	}
}

func compareEq(_ *markup.Element, args []ArgValue) (any, error) {
	return args[0].Value == args[1].Value, nil
}

func compareOr(_ *markup.Element, args []ArgValue) (any, error) {
	one, err := getValue(args[0])
	if err != nil {
		return nil, err
	}
	two, err := getValue(args[1])
	if err != nil {
		return nil, err
	}
	return truthy(one) || truthy(two), nil
}

func compareAnd(_ *markup.Element, args []ArgValue) (any, error) {
	one, err := getValue(args[0])
	if err != nil {
		return nil, err
	}
	two, err := getValue(args[1])
	if err != nil {
		return nil, err
	}
	return truthy(one) && truthy(two), nil
}

func compareLt(_ *markup.Element, args []ArgValue) (any, error) {
	one, err := getInt(args[0])
	if err != nil {
		return nil, err
	}
	two, err := getInt(args[1])
	if err != nil {
		return nil, err
	}
	return one < two, nil
}

func compareLte(_ *markup.Element, args []ArgValue) (any, error) {
	one, err := getInt(args[0])
	if err != nil {
		return nil, err
	}
	two, err := getInt(args[1])
	if err != nil {
		return nil, err
	}
	return one <= two, nil
}

func compareGt(_ *markup.Element, args []ArgValue) (any, error) {
	one, err := getInt(args[0])
	if err != nil {
		return nil, err
	}
	two, err := getInt(args[1])
	if err != nil {
		return nil, err
	}
	return one > two, nil
}

func compareGte(_ *markup.Element, args []ArgValue) (any, error) {
	one, err := getInt(args[0])
	if err != nil {
		return nil, err
	}
	two, err := getInt(args[1])
	if err != nil {
		return nil, err
	}
	return one >= two, nil
}

// indexFn implements the `index(n)` predicate: true when e is the
// n-th (1-based) child of its parent.
func indexFn(e *markup.Element, args []ArgValue) (any, error) {
	n, err := getInt(args[0])
	if err != nil {
		return nil, err
	}
	if e.Parent == nil {
		return false, nil
	}
	return e.SiblingIndex()+1 == n, nil
}

func nameFn(e *markup.Element, _ []ArgValue) (any, error) {
	return e.Tag, nil
}

// textFn implements `text()`: the element's own text plus each child's
// tail, space-joined, per §4.8.
func textFn(e *markup.Element, _ []ArgValue) (any, error) {
	var b strings.Builder
	b.WriteString(e.Text)
	for _, child := range e.Children {
		if child.Tail != "" {
			b.WriteString(" ")
			b.WriteString(child.Tail)
		}
	}
	return b.String(), nil
}

func countFn(e *markup.Element, args []ArgValue) (any, error) {
	tag := args[0].Value
	n := 0
	for _, c := range e.Children {
		if c.Tag == tag {
			n++
		}
	}
	return n, nil
}

func positionFn(e *markup.Element, _ []ArgValue) (any, error) {
	if e.Parent == nil {
		return 0, nil
	}
	return e.SiblingIndex(), nil
}

func lastFn(e *markup.Element, _ []ArgValue) (any, error) {
	if e.Parent == nil {
		return true, nil
	}
	return e.SiblingIndex() == len(e.Parent.Children)-1, nil
}

func notFn(_ *markup.Element, args []ArgValue) (any, error) {
	b, err := getBool(args[0])
	if err != nil {
		return nil, err
	}
	return !b, nil
}

func containsFn(_ *markup.Element, args []ArgValue) (any, error) {
	return strings.Contains(args[0].Value, args[1].Value), nil
}

func startsWithFn(_ *markup.Element, args []ArgValue) (any, error) {
	return strings.HasPrefix(args[0].Value, args[1].Value), nil
}

func endsWithFn(_ *markup.Element, args []ArgValue) (any, error) {
	return strings.HasSuffix(args[0].Value, args[1].Value), nil
}

func concatFn(_ *markup.Element, args []ArgValue) (any, error) {
	return args[0].Value + args[1].Value, nil
}

func substringFn(_ *markup.Element, args []ArgValue) (any, error) {
	base := args[0].Value
	start, err := getInt(args[1])
	if err != nil {
		return nil, err
	}
	end, err := getInt(args[2])
	if err != nil {
		return nil, err
	}
	if start < 0 {
		start = 0
	}
	if end > len(base) {
		end = len(base)
	}
	if start >= end {
		return "", nil
	}
	return base[start:end], nil
}

func substringBeforeFn(_ *markup.Element, args []ArgValue) (any, error) {
	base, sub := args[0].Value, args[1].Value
	idx := strings.Index(base, sub)
	if idx < 0 {
		return base, nil
	}
	return base[:idx], nil
}

func substringAfterFn(_ *markup.Element, args []ArgValue) (any, error) {
	base, sub := args[0].Value, args[1].Value
	idx := strings.Index(base, sub)
	if idx < 0 {
		return "", nil
	}
	return base[idx+len(sub):], nil
}

// translateFn replaces every occurrence of args[1] in args[0] with
// args[2], matching the source implementation's whole-substring
// replace rather than a per-character transliteration.
func translateFn(_ *markup.Element, args []ArgValue) (any, error) {
	return strings.ReplaceAll(args[0].Value, args[1].Value, args[2].Value), nil
}

func lowerCaseFn(_ *markup.Element, args []ArgValue) (any, error) {
	return strings.ToLower(args[0].Value), nil
}

func upperCaseFn(_ *markup.Element, args []ArgValue) (any, error) {
	return strings.ToUpper(args[0].Value), nil
}

// notemptyFn implements the sole-`@attr`-in-filter shorthand: true when
// the referenced attribute is present and non-empty.
func notemptyFn(_ *markup.Element, args []ArgValue) (any, error) {
	return args[0].Value != "", nil
}

// builtinOps maps comparison/boolean operator tokens to their
// implementation.
var builtinOps = map[EToken]builtinFunc{
	EQUALS: compareEq,
	OR:     compareOr,
	AND:    compareAnd,
	LT:     compareLt,
	LTE:    compareLte,
	GT:     compareGt,
	GTE:    compareGte,
}

// functions maps named function calls to their implementation.
var functions = map[string]builtinFunc{
	"index":            indexFn,
	"name":             nameFn,
	"text":             textFn,
	"count":            countFn,
	"position":         positionFn,
	"last":             lastFn,
	"not":              notFn,
	"contains":         containsFn,
	"starts-with":      startsWithFn,
	"ends-with":        endsWithFn,
	"concat":           concatFn,
	"substring":        substringFn,
	"substring-before": substringBeforeFn,
	"substring-after":  substringAfterFn,
	"translate":        translateFn,
	"lower-case":       lowerCaseFn,
	"upper-case":       upperCaseFn,
	"notempty":         notemptyFn,
}
