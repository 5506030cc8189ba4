package markup

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSerializeXMLBasic(t *testing.T) {
	root := NewElement("root")
	root.Set("a", "1")
	child := NewElement("child")
	child.Text = "hi"
	child.Tail = "after"
	root.Append(child)

	out, err := tostring(root, SerializeOptions{})
	require.NoError(t, err)
	s := string(out)
	assert.Contains(t, s, `<?xml version='1.0' encoding='utf-8'?>`)
	assert.Contains(t, s, `<root a="1"><child>hi</child>after</root>`)
}

func TestSerializeNoDeclaration(t *testing.T) {
	root := NewElement("root")
	out, err := tostring(root, SerializeOptions{NoDeclaration: true})
	require.NoError(t, err)
	assert.Equal(t, "<root></root>", string(out))
}

func TestSerializeShortEmptyElements(t *testing.T) {
	root := NewElement("root")
	out, err := tostring(root, SerializeOptions{NoDeclaration: true, ShortEmptyElements: true})
	require.NoError(t, err)
	assert.Equal(t, "<root/>", string(out))
}

func TestSerializeBooleanAttribute(t *testing.T) {
	root := NewElement("input")
	root.Set("disabled", "true")
	out, err := tostring(root, SerializeOptions{NoDeclaration: true})
	require.NoError(t, err)
	assert.Equal(t, "<input disabled></input>", string(out))
}

func TestSerializeAttributeEscaping(t *testing.T) {
	root := NewElement("a")
	root.Set("title", `say "hi" & bye`)
	out, err := tostring(root, SerializeOptions{NoDeclaration: true})
	require.NoError(t, err)
	assert.Equal(t, `<a title="say &quot;hi&quot; &amp; bye"></a>`, string(out))
}

func TestSerializeHTMLNeverShortClosesScriptStyle(t *testing.T) {
	root := NewElement("script")
	out, err := tostring(root, SerializeOptions{Method: "html", ShortEmptyElements: true})
	require.NoError(t, err)
	assert.Equal(t, "<script></script>", string(out))
}

func TestSerializeComment(t *testing.T) {
	c := NewComment(" note ")
	out, err := tostring(c, SerializeOptions{NoDeclaration: true})
	require.NoError(t, err)
	assert.Equal(t, "<!--  note  -->", string(out))
}

func TestParseSerializeRoundTrip(t *testing.T) {
	src := `<root a="1"><child>hi</child>tail</root>`
	root := parseXML(t, src)
	out, err := tostring(root, SerializeOptions{NoDeclaration: true})
	require.NoError(t, err)
	assert.Equal(t, src, string(out))
}
