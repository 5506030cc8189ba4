package markup

import (
	"bytes"
	"fmt"
	"io"
	"regexp"
	"strings"

	"golang.org/x/net/html/charset"
)

// htmlEmptyTags are implicitly self-closed on open in HTML mode, per §6.
var htmlEmptyTags = map[string]bool{
	"area": true, "base": true, "basefont": true, "br": true, "col": true,
	"embed": true, "frame": true, "hr": true, "img": true, "input": true,
	"isindex": true, "link": true, "meta": true, "param": true,
	"source": true, "track": true, "wbr": true,
}

var encodingPattern = regexp.MustCompile(`(?i)encoding\s?=\s?([^\s,]+)`)

// Parser drives a Lexer over a byte source, decodes token values under
// a (re-)discovered text encoding, and dispatches builder calls. It is
// deliberately thin: recovery policy lives entirely in the TreeBuilder.
type Parser struct {
	builder  *TreeBuilder
	lexer    *Lexer
	encoding string
	empty    map[string]bool
}

// NewXMLParser constructs a strict-XML parser reading from src.
func NewXMLParser(src ByteSource, builder *TreeBuilder) *Parser {
	return &Parser{
		builder:  builder,
		lexer:    NewLexer(NewReader(src), nil),
		encoding: "utf-8",
	}
}

// NewHTMLParser constructs a parser with HTML lexing quirks (raw
// script/style bodies) and the HTML-empty tag set for implicit
// self-closing.
func NewHTMLParser(src ByteSource, builder *TreeBuilder) *Parser {
	return &Parser{
		builder:  builder,
		lexer:    NewHTMLLexer(NewReader(src)),
		encoding: "utf-8",
		empty:    htmlEmptyTags,
	}
}

// decode converts raw token bytes to text under the parser's current
// encoding, switching decoders only when the discovered encoding isn't
// already UTF-8.
func (p *Parser) decode(value []byte) (string, error) {
	if strings.EqualFold(p.encoding, "utf-8") || strings.EqualFold(p.encoding, "utf8") || p.encoding == "" {
		return string(value), nil
	}
	enc, _, ok := charset.Lookup(p.encoding)
	if !ok {
		return string(value), nil
	}
	decoded, err := enc.NewDecoder().Bytes(value)
	if err != nil {
		return "", fmt.Errorf("markup: decode under encoding %q: %w", p.encoding, err)
	}
	return string(decoded), nil
}

// parseTag consumes tokens for a single start or end tag, following
// TAG_START. End tags require an immediate TAG_END; start tags collect
// ATTR_NAME/ATTR_VALUE pairs until TAG_END or a self-closing TAG_CLOSE.
// Any other token seen in tag position is an unexpected token error —
// this is the path that raises on stray nested markup, e.g. a `<`
// appearing where an attribute was expected.
func (p *Parser) parseTag(tag string) error {
	if strings.HasPrefix(tag, "/") {
		result, ok, err := p.lexer.Next()
		if err != nil {
			return err
		}
		if !ok || result.Token != TAG_END {
			return newParserError("missing tag end", result)
		}
		return p.builder.End(strings.TrimLeft(tag, "/"))
	}

	closed := false
	var pending []string
	var attrs []Attr
	set := func(name, value string) {
		for i, a := range attrs {
			if a.Name == name {
				attrs[i].Value = value
				return
			}
		}
		attrs = append(attrs, Attr{Name: name, Value: value})
	}

	for {
		result, ok, err := p.lexer.Next()
		if err != nil {
			return err
		}
		if !ok || result.Token == TAG_END {
			break
		}
		switch result.Token {
		case TAG_CLOSE:
			closed = true
		case ATTR_NAME:
			name, derr := p.decode(result.Value)
			if derr != nil {
				return derr
			}
			pending = append(pending, name)
		case ATTR_VALUE:
			if len(pending) == 0 {
				return newParserError("unexpected attribute value", result)
			}
			raw, derr := p.decode(result.Value)
			if derr != nil {
				return derr
			}
			value, uerr := Unescape(raw)
			if uerr != nil {
				return uerr
			}
			name := pending[len(pending)-1]
			pending = pending[:len(pending)-1]
			set(name, value)
		default:
			return newParserError("unexpected tag token", result)
		}
		if closed {
			break
		}
	}
	for _, name := range pending {
		set(name, "true")
	}

	if closed || p.empty[tag] {
		return p.builder.StartEnd(tag, attrs)
	}
	return p.builder.Start(tag, attrs)
}

// processPI splits a processing instruction body into target/value,
// scanning an `<?xml ...?>` target for an `encoding=...` attribute to
// retarget subsequent decoding.
func (p *Parser) processPI(pi string) {
	target := pi
	value := ""
	if idx := strings.IndexByte(pi, ' '); idx >= 0 {
		target, value = pi[:idx], pi[idx+1:]
	}
	if target == "xml" {
		if m := encodingPattern.FindStringSubmatch(value); m != nil {
			p.encoding = strings.Trim(m[1], `'"`)
		}
	}
	p.builder.PI(target, value)
}

// Next processes a single lexer token, dispatching to the builder.
// It returns false (with a nil error) at end of stream.
func (p *Parser) Next() (bool, error) {
	result, ok, err := p.lexer.Next()
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}
	switch result.Token {
	case TAG_START:
		tag, derr := p.decode(result.Value)
		if derr != nil {
			return false, derr
		}
		if err := p.parseTag(tag); err != nil {
			return false, err
		}
	case TEXT:
		raw, derr := p.decode(result.Value)
		if derr != nil {
			return false, derr
		}
		text, uerr := Unescape(raw)
		if uerr != nil {
			return false, uerr
		}
		p.builder.Data(text)
	case COMMENT:
		raw, derr := p.decode(result.Value)
		if derr != nil {
			return false, derr
		}
		text, uerr := Unescape(raw)
		if uerr != nil {
			return false, uerr
		}
		p.builder.Comment(text)
	case DECLARATION:
		raw, derr := p.decode(result.Value)
		if derr != nil {
			return false, derr
		}
		p.builder.Declaration(raw)
	case INSTRUCTION:
		raw, derr := p.decode(result.Value)
		if derr != nil {
			return false, derr
		}
		p.processPI(raw)
	default:
		return false, newParserError("unexpected token", result)
	}
	return true, nil
}

// Parse drives the lexer to end of stream and closes the builder,
// returning the completed tree.
func (p *Parser) Parse() (*Element, error) {
	for {
		more, err := p.Next()
		if err != nil {
			return nil, err
		}
		if !more {
			break
		}
	}
	return p.builder.Close()
}

// FeedParser buffers bytes fed incrementally and defers constructing
// the actual Parser (and its Lexer) until Close, when the buffer is
// rewound and attached as the byte source.
type FeedParser struct {
	Builder *TreeBuilder
	HTML    bool

	buffer bytes.Buffer
}

// NewFeedParser constructs a FeedParser that delivers events to builder.
// Set html to use HTML lexing quirks and the HTML-empty tag set.
func NewFeedParser(builder *TreeBuilder, html bool) *FeedParser {
	return &FeedParser{Builder: builder, HTML: html}
}

// Feed appends data to the internal buffer.
func (f *FeedParser) Feed(data []byte) {
	f.buffer.Write(data)
}

// Close finalizes the fed input into a parser over the buffered bytes
// and parses it to completion.
func (f *FeedParser) Close() (*Element, error) {
	src := ReaderSource(bytes.NewReader(f.buffer.Bytes()))
	var parser *Parser
	if f.HTML {
		parser = NewHTMLParser(src, f.Builder)
	} else {
		parser = NewXMLParser(src, f.Builder)
	}
	return parser.Parse()
}

// ReadFrom parses directly from an io.Reader without buffering the
// whole stream up front, for pull-streaming use cases.
func ReadFrom(r io.Reader, builder *TreeBuilder, html bool) (*Element, error) {
	src := ReaderSource(r)
	var parser *Parser
	if html {
		parser = NewHTMLParser(src, builder)
	} else {
		parser = NewXMLParser(src, builder)
	}
	return parser.Parse()
}
