package xpath

import (
	"testing"

	"github.com/clems4ever/markupxml/markup"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strArg(s string) ArgValue { return ArgValue{Kind: STRING, Value: s} }
func intArg(n string) ArgValue { return ArgValue{Kind: INTEGER, Value: n} }

func TestCompareEq(t *testing.T) {
	ok, err := compareEq(nil, []ArgValue{strArg("a"), strArg("a")})
	require.NoError(t, err)
	assert.Equal(t, true, ok)
}

func TestCompareLtGtBounds(t *testing.T) {
	ok, err := compareLt(nil, []ArgValue{intArg("1"), intArg("2")})
	require.NoError(t, err)
	assert.Equal(t, true, ok)

	ok, err = compareGte(nil, []ArgValue{intArg("2"), intArg("2")})
	require.NoError(t, err)
	assert.Equal(t, true, ok)
}

func TestIndexFnMatchesSiblingPosition(t *testing.T) {
	root := markup.NewElement("root")
	a := markup.NewElement("a")
	b := markup.NewElement("b")
	root.Append(a)
	root.Append(b)

	ok, err := indexFn(a, []ArgValue{intArg("1")})
	require.NoError(t, err)
	assert.Equal(t, true, ok)

	ok, err = indexFn(b, []ArgValue{intArg("1")})
	require.NoError(t, err)
	assert.Equal(t, false, ok)

	ok, err = indexFn(b, []ArgValue{intArg("2")})
	require.NoError(t, err)
	assert.Equal(t, true, ok)
}

func TestTextFnJoinsOwnTextAndChildTails(t *testing.T) {
	root := markup.NewElement("p")
	root.Text = "hello"
	child := markup.NewElement("b")
	child.Tail = "world"
	root.Append(child)

	out, err := textFn(root, nil)
	require.NoError(t, err)
	assert.Equal(t, "hello world", out)
}

func TestCountFnCountsMatchingChildren(t *testing.T) {
	root := markup.NewElement("root")
	root.Append(markup.NewElement("item"))
	root.Append(markup.NewElement("item"))
	root.Append(markup.NewElement("other"))

	out, err := countFn(root, []ArgValue{strArg("item")})
	require.NoError(t, err)
	assert.Equal(t, 2, out)
}

func TestContainsStartsWithEndsWith(t *testing.T) {
	ok, err := containsFn(nil, []ArgValue{strArg("hello world"), strArg("wor")})
	require.NoError(t, err)
	assert.Equal(t, true, ok)

	ok, err = startsWithFn(nil, []ArgValue{strArg("hello"), strArg("he")})
	require.NoError(t, err)
	assert.Equal(t, true, ok)

	ok, err = endsWithFn(nil, []ArgValue{strArg("hello"), strArg("lo")})
	require.NoError(t, err)
	assert.Equal(t, true, ok)
}

// TestConcatFnRegistered exercises the concat function, which the
// ported source defined but never wired into the function table.
func TestConcatFnRegistered(t *testing.T) {
	fn, ok := functions["concat"]
	require.True(t, ok)
	out, err := fn(nil, []ArgValue{strArg("foo"), strArg("bar")})
	require.NoError(t, err)
	assert.Equal(t, "foobar", out)
}

// TestNotemptyFnRegistered exercises notempty, referenced but never
// defined in the ported source.
func TestNotemptyFnRegistered(t *testing.T) {
	fn, ok := functions["notempty"]
	require.True(t, ok)

	out, err := fn(nil, []ArgValue{strArg("")})
	require.NoError(t, err)
	assert.Equal(t, false, out)

	out, err = fn(nil, []ArgValue{strArg("x")})
	require.NoError(t, err)
	assert.Equal(t, true, out)
}

func TestSubstringFunctions(t *testing.T) {
	out, err := substringFn(nil, []ArgValue{strArg("hello"), intArg("1"), intArg("3")})
	require.NoError(t, err)
	assert.Equal(t, "el", out)

	out, err = substringBeforeFn(nil, []ArgValue{strArg("a/b/c"), strArg("/")})
	require.NoError(t, err)
	assert.Equal(t, "a", out)

	out, err = substringAfterFn(nil, []ArgValue{strArg("a/b/c"), strArg("/")})
	require.NoError(t, err)
	assert.Equal(t, "b/c", out)
}

func TestTranslateFnWholeSubstringReplace(t *testing.T) {
	out, err := translateFn(nil, []ArgValue{strArg("foo-bar"), strArg("-"), strArg("_")})
	require.NoError(t, err)
	assert.Equal(t, "foo_bar", out)
}

func TestLowerUpperCase(t *testing.T) {
	out, err := lowerCaseFn(nil, []ArgValue{strArg("ABC")})
	require.NoError(t, err)
	assert.Equal(t, "abc", out)

	out, err = upperCaseFn(nil, []ArgValue{strArg("abc")})
	require.NoError(t, err)
	assert.Equal(t, "ABC", out)
}

func TestGetIntRejectsNonDigits(t *testing.T) {
	_, err := getInt(strArg("abc"))
	assert.Error(t, err)
}
