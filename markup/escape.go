package markup

import (
	"fmt"
	"strconv"
	"strings"
)

// escapeCdata are the characters that must be escaped in element text and
// tail content.
var escapeCdata = []struct{ char, replace string }{
	{"&", "&amp;"},
	{"<", "&lt;"},
	{">", "&gt;"},
}

// escapeAttrib extends escapeCdata with the characters that must also be
// escaped inside a quoted attribute value.
var escapeAttrib = []struct{ char, replace string }{
	{"&", "&amp;"},
	{"<", "&lt;"},
	{">", "&gt;"},
	{"\"", "&quot;"},
	{"\r", "&#13;"},
	{"\n", "&#10;"},
	{"\t", "&#09;"},
	{"'", "&apos;"},
}

// EscapeCdata escapes '&', '<' and '>' for use in element text/tail.
func EscapeCdata(text string) string {
	for _, esc := range escapeCdata {
		if strings.Contains(text, esc.char) {
			text = strings.ReplaceAll(text, esc.char, esc.replace)
		}
	}
	return text
}

// EscapeAttrib escapes the full attribute character set, per §6: `& < >
// " ' \r \n \t`.
func EscapeAttrib(text string) string {
	for _, esc := range escapeAttrib {
		if strings.Contains(text, esc.char) {
			text = strings.ReplaceAll(text, esc.char, esc.replace)
		}
	}
	return text
}

// namedEntities is the fixed unescape table from §6.
var namedEntities = map[string]string{
	"&amp;":  "&",
	"&lt;":   "<",
	"&gt;":   ">",
	"&quot;": "\"",
	"&apos;": "'",
	"&#13;":  "\r",
	"&#10;":  "\n",
	"&#09;":  "\t",
}

// Unescape is the left inverse of EscapeAttrib/EscapeCdata on the named
// entity table, plus decimal (`&#NN;`) and hexadecimal (`&#xHH;`)
// numeric character references.
func Unescape(text string) (string, error) {
	for entity, char := range namedEntities {
		if strings.Contains(text, entity) {
			text = strings.ReplaceAll(text, entity, char)
		}
	}
	for {
		start := strings.Index(text, "&#")
		if start < 0 {
			break
		}
		end := strings.IndexByte(text[start:], ';')
		if end < 0 {
			break
		}
		end += start
		ref := text[start : end+1]
		decoded, err := decodeCharref(ref)
		if err != nil {
			return "", err
		}
		text = text[:start] + decoded + text[end+1:]
	}
	return text, nil
}

// decodeCharref decodes a single `&#NNN;` or `&#xHH...;` reference.
func decodeCharref(ref string) (string, error) {
	body := strings.TrimSuffix(strings.TrimPrefix(ref, "&#"), ";")
	if body == "" {
		return "", fmt.Errorf("markup: invalid character reference %q", ref)
	}
	var codepoint int64
	var err error
	if len(body) > 0 && (body[0] == 'x' || body[0] == 'X') {
		codepoint, err = strconv.ParseInt(body[1:], 16, 32)
	} else {
		codepoint, err = strconv.ParseInt(body, 10, 32)
	}
	if err != nil {
		return "", fmt.Errorf("markup: invalid character reference %q: %w", ref, err)
	}
	return string(rune(codepoint)), nil
}
