package markup

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestElementAttributeOrder(t *testing.T) {
	e := NewElement("div")
	e.Set("class", "a")
	e.Set("id", "main")
	e.Set("class", "b")

	assert.Equal(t, []string{"class", "id"}, e.Keys())
	assert.Equal(t, "b", e.Get("class", ""))
	assert.Equal(t, "fallback", e.Get("missing", "fallback"))
}

func TestElementAppendSetsParent(t *testing.T) {
	root := NewElement("root")
	child := NewElement("child")
	root.Append(child)

	require.Equal(t, 1, root.Len())
	assert.Same(t, root, child.Parent)
	assert.Equal(t, 0, child.SiblingIndex())
}

func TestElementInsert(t *testing.T) {
	root := NewElement("root")
	a, b, c := NewElement("a"), NewElement("b"), NewElement("c")
	root.Append(a)
	root.Append(c)
	root.Insert(1, b)

	require.Len(t, root.Children, 3)
	assert.Equal(t, []string{"a", "b", "c"}, tagsOf(root.Children))
}

func TestElementRemoveClearsParent(t *testing.T) {
	root := NewElement("root")
	child := NewElement("child")
	root.Append(child)
	root.Remove(child)

	assert.Equal(t, 0, root.Len())
	assert.Nil(t, child.Parent)
	assert.Equal(t, -1, child.SiblingIndex())
}

func TestElementIterFiltersByTag(t *testing.T) {
	root := NewElement("root")
	a := NewElement("a")
	b := NewElement("a")
	root.Append(a)
	a.Append(b)

	all := root.Iter("")
	assert.Len(t, all, 3)

	onlyA := root.Iter("a")
	assert.Equal(t, []*Element{a, b}, onlyA)
}

func TestElementItertextSkipsSpecials(t *testing.T) {
	root := NewElement("root")
	root.Text = "hello"
	root.Append(NewComment("ignored"))
	child := NewElement("child")
	child.Text = "world"
	root.Append(child)

	assert.Equal(t, []string{"hello", "world"}, root.Itertext())
}

func TestNewProcessingInstructionCombinesText(t *testing.T) {
	pi := NewProcessingInstruction("xml-stylesheet", `type="text/xsl"`)
	assert.Equal(t, `xml-stylesheet type="text/xsl"`, pi.Text)
	assert.True(t, pi.IsSpecial())
}

func tagsOf(elements []*Element) []string {
	out := make([]string, len(elements))
	for i, e := range elements {
		out[i] = e.Tag
	}
	return out
}
