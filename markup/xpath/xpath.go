package xpath

import (
	"strings"

	"github.com/clems4ever/markupxml/markup"
)

// IterFind evaluates path against root and returns the raw result: a
// surviving element set, or a scalar projection if path ends in a
// function/expression step.
func IterFind(root *markup.Element, path string) (*QueryResult, error) {
	return iterXPath(path, []*markup.Element{root})
}

// asAny flattens a QueryResult into a single ordered slice mixing
// *markup.Element (navigation results) and string (scalar
// projections), matching the result shape callers see from Find/FindAll.
func asAny(res *QueryResult) []any {
	if res.Scalars != nil {
		out := make([]any, len(res.Scalars))
		for i, s := range res.Scalars {
			out[i] = s
		}
		return out
	}
	out := make([]any, len(res.Elements))
	for i, e := range res.Elements {
		out[i] = e
	}
	return out
}

// FindAll evaluates path against root, returning every surviving
// element or scalar in document order.
func FindAll(root *markup.Element, path string) ([]any, error) {
	res, err := IterFind(root, path)
	if err != nil {
		return nil, err
	}
	return asAny(res), nil
}

// Find evaluates path against root and returns the first result, or
// nil if nothing matched.
func Find(root *markup.Element, path string) (any, error) {
	all, err := FindAll(root, path)
	if err != nil {
		return nil, err
	}
	if len(all) == 0 {
		return nil, nil
	}
	return all[0], nil
}

// FindText evaluates path against root and renders the result as a
// single string: scalar projections join with a single space (so
// `a/text()` and `a//text()` read the same whether one or many `a`
// elements matched), while a bare element match falls back to that
// element's own Itertext concatenation.
func FindText(root *markup.Element, path string) (string, error) {
	res, err := IterFind(root, path)
	if err != nil {
		return "", err
	}
	if res.Scalars != nil {
		return strings.Join(res.Scalars, " "), nil
	}
	var parts []string
	for _, e := range res.Elements {
		parts = append(parts, strings.Join(e.Itertext(), ""))
	}
	return strings.Join(parts, " "), nil
}
