package xpath

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lexAll(t *testing.T, path string) []PathResult {
	t.Helper()
	lex := NewPathLexer(path)
	var out []PathResult
	for {
		res, ok, err := lex.Next()
		require.NoError(t, err)
		if !ok {
			break
		}
		out = append(out, res)
	}
	return out
}

func TestPathLexerChildSteps(t *testing.T) {
	toks := lexAll(t, "/a/b")
	require.Len(t, toks, 4)
	assert.Equal(t, CHILD, toks[0].Kind)
	assert.Equal(t, NODE, toks[1].Kind)
	assert.Equal(t, "a", string(toks[1].Value))
	assert.Equal(t, CHILD, toks[2].Kind)
	assert.Equal(t, NODE, toks[3].Kind)
	assert.Equal(t, "b", string(toks[3].Value))
}

func TestPathLexerDescendant(t *testing.T) {
	toks := lexAll(t, "//a")
	require.Len(t, toks, 2)
	assert.Equal(t, DECENDANT, toks[0].Kind)
	assert.Equal(t, NODE, toks[1].Kind)
}

func TestPathLexerWildcard(t *testing.T) {
	toks := lexAll(t, "/*")
	require.Len(t, toks, 2)
	assert.Equal(t, WILDCARD, toks[1].Kind)
}

func TestPathLexerFilter(t *testing.T) {
	toks := lexAll(t, "/a[@id='1']")
	require.Len(t, toks, 3)
	assert.Equal(t, FILTER, toks[2].Kind)
	assert.Equal(t, `@id='1'`, string(toks[2].Value))
}

func TestPathLexerParentArity(t *testing.T) {
	toks := lexAll(t, "..")
	require.Len(t, toks, 1)
	assert.Equal(t, PARENT, toks[0].Kind)
	assert.Equal(t, 1, len(toks[0].Value))
}

func TestPathLexerSelf(t *testing.T) {
	toks := lexAll(t, ".")
	require.Len(t, toks, 1)
	assert.Equal(t, SELF, toks[0].Kind)
	assert.Equal(t, 0, len(toks[0].Value))
}

func TestPathLexerFunctionStep(t *testing.T) {
	toks := lexAll(t, "/text()")
	require.Len(t, toks, 2)
	assert.Equal(t, FUNCTION, toks[1].Kind)
	assert.Equal(t, "text()", string(toks[1].Value))
}
