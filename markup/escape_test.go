package markup

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEscapeCdata(t *testing.T) {
	assert.Equal(t, "a &amp; b &lt;c&gt;", EscapeCdata("a & b <c>"))
}

func TestEscapeAttrib(t *testing.T) {
	assert.Equal(t, "&quot;&amp;&apos;&#13;&#10;&#09;", EscapeAttrib("\"&'\r\n\t"))
}

func TestUnescapeNamedEntities(t *testing.T) {
	out, err := Unescape("Tom &amp; Jerry &lt;3&gt;")
	require.NoError(t, err)
	assert.Equal(t, "Tom & Jerry <3>", out)
}

func TestUnescapeNumericCharrefs(t *testing.T) {
	out, err := Unescape("&#65;&#x42;")
	require.NoError(t, err)
	assert.Equal(t, "AB", out)
}

func TestUnescapeInvalidCharref(t *testing.T) {
	_, err := Unescape("&#zz;")
	assert.Error(t, err)
}

func TestEscapeUnescapeRoundTrip(t *testing.T) {
	original := `<tag attr="a & b"> text </tag>`
	escaped := EscapeCdata(original)
	unescaped, err := Unescape(escaped)
	require.NoError(t, err)
	assert.Equal(t, original, unescaped)
}
