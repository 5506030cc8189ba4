package markup

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseXML(t *testing.T, src string) *Element {
	t.Helper()
	root, err := ReadFrom(strings.NewReader(src), NewTreeBuilder(), false)
	require.NoError(t, err)
	return root
}

func TestParserSimpleDocument(t *testing.T) {
	root := parseXML(t, `<root a="1"><child>text</child>tail</root>`)
	assert.Equal(t, "root", root.Tag)
	assert.Equal(t, "1", root.Get("a", ""))
	require.Len(t, root.Children, 1)
	child := root.Children[0]
	assert.Equal(t, "text", child.Text)
	assert.Equal(t, "tail", child.Tail)
}

func TestParserSelfClosingTag(t *testing.T) {
	root := parseXML(t, `<root><br/></root>`)
	require.Len(t, root.Children, 1)
	assert.Equal(t, "br", root.Children[0].Tag)
}

func TestParserBareAttributeDefaultsTrue(t *testing.T) {
	root := parseXML(t, `<root disabled></root>`)
	assert.Equal(t, "true", root.Get("disabled", ""))
}

func TestParserCommentsIgnoredByDefault(t *testing.T) {
	root := parseXML(t, `<root><!-- a comment --></root>`)
	assert.Len(t, root.Children, 0)
}

func TestParserEncodingDeclarationSwitchesDecoder(t *testing.T) {
	root := parseXML(t, `<?xml version="1.0" encoding="utf-8"?><root>ok</root>`)
	assert.Equal(t, "ok", root.Text)
}

// TestParserUnexpectedNestedTagStart exercises the structural error
// path: a stray '<' inside an attribute list surfaces as a nested
// TAG_START where an attribute value was expected.
func TestParserUnexpectedNestedTagStart(t *testing.T) {
	_, err := ReadFrom(strings.NewReader(`<p class="x" Paragraph</p>`), NewTreeBuilder(), false)
	require.Error(t, err)
	var perr *ParserError
	require.ErrorAs(t, err, &perr)
}

func TestParserHTMLImplicitEmptyTags(t *testing.T) {
	root, err := ReadFrom(strings.NewReader(`<div><br><img src="x"></div>`), NewTreeBuilder(), true)
	require.NoError(t, err)
	require.Len(t, root.Children, 2)
	assert.Equal(t, "br", root.Children[0].Tag)
	assert.Equal(t, "img", root.Children[1].Tag)
}

func TestFeedParserIncrementalFeed(t *testing.T) {
	fp := NewFeedParser(NewTreeBuilder(), false)
	fp.Feed([]byte(`<root>`))
	fp.Feed([]byte(`hello</root>`))
	root, err := fp.Close()
	require.NoError(t, err)
	assert.Equal(t, "hello", root.Text)
}
