package markup

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilderStrictSimpleTree(t *testing.T) {
	b := NewTreeBuilder()
	require.NoError(t, b.Start("root", nil))
	require.NoError(t, b.Start("child", []Attr{{Name: "id", Value: "1"}}))
	b.Data("text")
	require.NoError(t, b.End("child"))
	b.Data("tail")
	require.NoError(t, b.End("root"))

	root, err := b.Close()
	require.NoError(t, err)
	require.Equal(t, "root", root.Tag)
	require.Len(t, root.Children, 1)
	child := root.Children[0]
	assert.Equal(t, "text", child.Text)
	assert.Equal(t, "tail", child.Tail)
	assert.Equal(t, "1", child.Get("id", ""))
}

func TestBuilderStrictDoubleEndErrors(t *testing.T) {
	b := NewTreeBuilder()
	require.NoError(t, b.Start("root", nil))
	require.NoError(t, b.End("root"))
	assert.Error(t, b.End("root"))
}

func TestBuilderStrictMultiDocumentErrors(t *testing.T) {
	b := NewTreeBuilder()
	require.NoError(t, b.StartEnd("a", nil))
	assert.Error(t, b.StartEnd("b", nil))
}

func TestBuilderStrictIncompleteDocumentErrors(t *testing.T) {
	b := NewTreeBuilder()
	require.NoError(t, b.Start("root", nil))
	_, err := b.Close()
	assert.Error(t, err)
}

func TestBuilderStrictEmptyTreeErrors(t *testing.T) {
	b := NewTreeBuilder()
	_, err := b.Close()
	assert.Error(t, err)
}

func TestBuilderLenientMultiDocumentSynthesizesRoot(t *testing.T) {
	b := NewLenientTreeBuilder()
	require.NoError(t, b.StartEnd("a", nil))
	require.NoError(t, b.StartEnd("b", nil))

	root, err := b.Close()
	require.NoError(t, err)
	assert.Equal(t, "document", root.Tag)
	assert.Equal(t, []string{"a", "b"}, tagsOf(root.Children))
}

func TestBuilderLenientFixIncompleteInner(t *testing.T) {
	b := NewLenientTreeBuilder()
	require.NoError(t, b.Start("root", nil))
	require.NoError(t, b.Start("a", nil))
	require.NoError(t, b.Start("b", nil))
	// "b" and "a" never closed before root closes.
	require.NoError(t, b.End("root"))

	root, err := b.Close()
	require.NoError(t, err)
	assert.Equal(t, "root", root.Tag)
	require.Len(t, root.Children, 1)
	assert.Equal(t, "a", root.Children[0].Tag)
	require.Len(t, root.Children[0].Children, 1)
	assert.Equal(t, "b", root.Children[0].Children[0].Tag)
}

func TestBuilderLenientFixIncompleteOuter(t *testing.T) {
	b := NewLenientTreeBuilder()
	require.NoError(t, b.Start("root", nil))
	require.NoError(t, b.Start("a", nil))

	root, err := b.Close()
	require.NoError(t, err)
	assert.Equal(t, "root", root.Tag)
	require.Len(t, root.Children, 1)
	assert.Equal(t, "a", root.Children[0].Tag)
}

func TestBuilderLenientDoubleEndDropsSpurious(t *testing.T) {
	b := NewLenientTreeBuilder()
	require.NoError(t, b.Start("root", nil))
	require.NoError(t, b.End("root"))
	// A second, unmatched end tag is silently dropped rather than erroring.
	require.NoError(t, b.End("root"))

	root, err := b.Close()
	require.NoError(t, err)
	assert.Equal(t, "root", root.Tag)
}

func TestBuilderLenientTextConcatenates(t *testing.T) {
	b := NewLenientTreeBuilder()
	require.NoError(t, b.Start("root", nil))
	b.Data("hello ")
	b.Data("world")
	require.NoError(t, b.End("root"))

	root, err := b.Close()
	require.NoError(t, err)
	assert.Equal(t, "hello world", root.Text)
}
