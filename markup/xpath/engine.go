package xpath

import (
	"strconv"
	"strings"

	"github.com/clems4ever/markupxml/markup"
)

// QueryResult is the outcome of evaluating a path against a set of
// context elements: either a surviving element set (navigation-only
// paths) or a scalar projection (paths ending in a function/expression
// step, e.g. `a/text()`), never both.
type QueryResult struct {
	Elements []*markup.Element
	Scalars  []string
}

func isOperator(k EToken) bool {
	switch k {
	case EQUALS, LT, GT, LTE, GTE, AND, OR:
		return true
	}
	return false
}

// compileExprArgs folds a token stream into a single argGetter: the
// first plain operand (BOOLEAN/STRING/INTEGER/VARIABLE/EXPRESSION/
// FUNCTION) becomes the accumulated result, and an operator token is
// held until the following operand arrives so both sides of the
// comparison are compiled before the fold. A second operand with no
// operator before it is an error.
func compileExprArgs(lex *ExprLexer) (argGetter, error) {
	var current argGetter
	var operator EToken

	for {
		res, ok := lex.Next()
		if !ok {
			break
		}
		if res.Kind == COMMA {
			continue
		}
		if isOperator(res.Kind) {
			operator = res.Kind
			continue
		}
		getter, err := compileToken(lex, res)
		if err != nil {
			return nil, err
		}
		switch {
		case current == nil:
			current = getter
		case operator != 0:
			wrapped, err := compileAction(operator, current, getter)
			if err != nil {
				return nil, err
			}
			current = wrapped
			operator = 0
		default:
			return nil, newQueryErrorf("malformed expression: missing operator between operands")
		}
	}
	if current == nil {
		return nil, newQueryErrorf("empty expression")
	}
	return current, nil
}

// compileFuncArgs splits a function argument list on top-level commas,
// compiling each comma-separated operand (itself foldable, so
// `a=b,c` is a valid two-argument list) into its own argGetter.
func compileFuncArgs(raw []byte) ([]argGetter, error) {
	lex := NewExprLexer(raw)
	var results []argGetter
	var current argGetter
	var operator EToken

	for {
		res, ok := lex.Next()
		if !ok {
			break
		}
		if res.Kind == COMMA {
			if current == nil {
				return nil, newQueryErrorf("malformed function argument list")
			}
			results = append(results, current)
			current = nil
			operator = 0
			continue
		}
		if isOperator(res.Kind) {
			operator = res.Kind
			continue
		}
		getter, err := compileToken(lex, res)
		if err != nil {
			return nil, err
		}
		switch {
		case current == nil:
			current = getter
		case operator != 0:
			wrapped, err := compileAction(operator, current, getter)
			if err != nil {
				return nil, err
			}
			current = wrapped
			operator = 0
		default:
			return nil, newQueryErrorf("malformed function argument list")
		}
	}
	if current != nil {
		results = append(results, current)
	}
	return results, nil
}

// compileToken compiles a single non-operator expression token into an
// argGetter. FUNCTION_TOK consumes one further token from lex (the
// parenthesized argument list, lexed as EXPRESSION_TOK).
func compileToken(lex *ExprLexer, res ExprResult) (argGetter, error) {
	switch res.Kind {
	case BOOLEAN, STRING, INTEGER:
		val, kind := string(res.Value), res.Kind
		return func(_ *markup.Element) (ArgValue, error) {
			return ArgValue{Kind: kind, Value: val}, nil
		}, nil
	case VARIABLE:
		name := string(res.Value)
		return func(e *markup.Element) (ArgValue, error) {
			return ArgValue{Kind: VARIABLE, Value: e.Get(name, "")}, nil
		}, nil
	case EXPRESSION_TOK:
		getter, err := compileExprArgs(NewExprLexer(res.Value))
		if err != nil {
			return nil, err
		}
		return getter, nil
	case FUNCTION_TOK:
		name := string(res.Value)
		next, ok := lex.Next()
		if !ok || next.Kind != EXPRESSION_TOK {
			return nil, newQueryErrorf("function %q missing argument list", name)
		}
		fn, ok := functions[name]
		if !ok {
			return nil, newQueryErrorf("unknown function %q", name)
		}
		argGetters, err := compileFuncArgs(next.Value)
		if err != nil {
			return nil, err
		}
		return func(e *markup.Element) (ArgValue, error) {
			vals := make([]ArgValue, len(argGetters))
			for i, g := range argGetters {
				v, err := g(e)
				if err != nil {
					return ArgValue{}, err
				}
				vals[i] = v
			}
			result, err := fn(e, vals)
			if err != nil {
				return ArgValue{}, err
			}
			return wrapResult(result), nil
		}, nil
	default:
		return nil, newQueryErrorf("unexpected token %s", res.Kind)
	}
}

// compileAction wraps an operator and its two already-compiled operands
// into a single argGetter.
func compileAction(op EToken, left, right argGetter) (argGetter, error) {
	fn, ok := builtinOps[op]
	if !ok {
		return nil, newQueryErrorf("unsupported operator %s", op)
	}
	return func(e *markup.Element) (ArgValue, error) {
		l, err := left(e)
		if err != nil {
			return ArgValue{}, err
		}
		r, err := right(e)
		if err != nil {
			return ArgValue{}, err
		}
		result, err := fn(e, []ArgValue{l, r})
		if err != nil {
			return ArgValue{}, err
		}
		return wrapResult(result), nil
	}, nil
}

func wrapResult(v any) ArgValue {
	switch t := v.(type) {
	case bool:
		if t {
			return ArgValue{Kind: BOOLEAN, Value: "true"}
		}
		return ArgValue{Kind: BOOLEAN, Value: "false"}
	case int:
		return ArgValue{Kind: INTEGER, Value: strconv.Itoa(t)}
	case string:
		return ArgValue{Kind: STRING, Value: t}
	default:
		return ArgValue{Kind: STRING, Value: ""}
	}
}

func isSimpleVariable(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		b := s[i]
		if !isAlnum(b) && b != '-' && b != '_' {
			return false
		}
	}
	return true
}

// compileFilter compiles a `[...]` predicate body, applying the two
// shorthand forms the path grammar grants filters: an all-digit body
// compiles to `index(n)`, and a bare `@attr` body compiles to
// `notempty(@attr)`. Anything else is compiled as a general expression.
func compileFilter(content []byte) (argGetter, error) {
	trimmed := strings.TrimSpace(string(content))
	if isAllDigits(trimmed) {
		n, err := strconv.Atoi(trimmed)
		if err != nil {
			return nil, newQueryErrorf("invalid filter index %q", trimmed)
		}
		return func(e *markup.Element) (ArgValue, error) {
			result, err := indexFn(e, []ArgValue{{Kind: INTEGER, Value: strconv.Itoa(n)}})
			if err != nil {
				return ArgValue{}, err
			}
			return wrapResult(result), nil
		}, nil
	}
	if strings.HasPrefix(trimmed, "@") && isSimpleVariable(trimmed[1:]) {
		attr := trimmed[1:]
		return func(e *markup.Element) (ArgValue, error) {
			result, err := notemptyFn(e, []ArgValue{{Kind: VARIABLE, Value: e.Get(attr, "")}})
			if err != nil {
				return ArgValue{}, err
			}
			return wrapResult(result), nil
		}, nil
	}
	return compileExprArgs(NewExprLexer(content))
}

func getParent(e *markup.Element, arity int) *markup.Element {
	cur := e
	for i := 0; i < arity && cur != nil; i++ {
		cur = cur.Parent
	}
	return cur
}

func dedupElements(in []*markup.Element) []*markup.Element {
	seen := make(map[*markup.Element]bool, len(in))
	out := make([]*markup.Element, 0, len(in))
	for _, e := range in {
		if !seen[e] {
			seen[e] = true
			out = append(out, e)
		}
	}
	return out
}

func descendants(e *markup.Element, tag string) []*markup.Element {
	var out []*markup.Element
	for _, c := range e.Children {
		if tag == "" || c.Tag == tag {
			out = append(out, c)
		}
		out = append(out, descendants(c, tag)...)
	}
	return out
}

func selectStep(current []*markup.Element, tag string, axis XToken) []*markup.Element {
	var out []*markup.Element
	for _, e := range current {
		if axis == DECENDANT {
			out = append(out, descendants(e, tag)...)
			continue
		}
		for _, c := range e.Children {
			if tag == "" || c.Tag == tag {
				out = append(out, c)
			}
		}
	}
	return out
}

// applyPendingAxis flattens current to its children (or descendants) if
// a CHILD/DECENDANT axis step is still pending. NODE and WILDCARD
// consume a pending axis themselves via selectStep; FILTER does not
// navigate, so it forces the flatten first (`/[1]` is the first child).
// The terminal FUNCTION/EXPRESSION step forces it only for a pending
// DECENDANT axis: after a single `/` it projects the nodes already
// selected, so `a/text()` yields the text of each `a`.
func applyPendingAxis(current []*markup.Element, axis XToken) []*markup.Element {
	if axis == 0 {
		return current
	}
	return selectStep(current, "", axis)
}

func filterElements(current []*markup.Element, getter argGetter) ([]*markup.Element, error) {
	var out []*markup.Element
	for _, e := range current {
		v, err := getter(e)
		if err != nil {
			return nil, err
		}
		val, err := getValue(v)
		if err != nil {
			return nil, err
		}
		if truthy(val) {
			out = append(out, e)
		}
	}
	return out, nil
}

// iterXPath evaluates path against the given context elements, walking
// each step of the compiled token stream. A navigation token following a
// terminal function/expression projection is an error: a path can
// select elements or project one scalar per element, never both.
func iterXPath(path string, start []*markup.Element) (*QueryResult, error) {
	lex := NewPathLexer(path)
	current := start
	var axis XToken
	var scalars []string
	terminal := false

	for {
		tok, ok, err := lex.Next()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		if terminal {
			return nil, newQueryErrorf("navigation step after terminal function/expression")
		}
		switch tok.Kind {
		case CHILD:
			axis = CHILD
		case DECENDANT:
			axis = DECENDANT
		case SELF, PARENT:
			arity := len(tok.Value)
			var next []*markup.Element
			for _, e := range current {
				if p := getParent(e, arity); p != nil {
					next = append(next, p)
				}
			}
			current = dedupElements(next)
			axis = 0
		case WILDCARD:
			current = selectStep(current, "", axis)
			axis = 0
		case NODE:
			current = selectStep(current, string(tok.Value), axis)
			axis = 0
		case FILTER:
			current = applyPendingAxis(current, axis)
			axis = 0
			getter, err := compileFilter(tok.Value)
			if err != nil {
				return nil, err
			}
			current, err = filterElements(current, getter)
			if err != nil {
				return nil, err
			}
		case FUNCTION, EXPRESSION:
			if axis == DECENDANT {
				current = applyPendingAxis(current, axis)
			}
			axis = 0
			getter, err := compileExprArgs(NewExprLexer(tok.Value))
			if err != nil {
				return nil, err
			}
			for _, e := range current {
				v, err := getter(e)
				if err != nil {
					return nil, err
				}
				scalars = append(scalars, v.Value)
			}
			terminal = true
		default:
			return nil, newQueryErrorf("unexpected path token %s", tok.Kind)
		}
	}
	if terminal {
		return &QueryResult{Scalars: scalars}, nil
	}
	return &QueryResult{Elements: current}, nil
}
