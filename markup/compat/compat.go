// Package compat offers a minimal shim over the shape of
// encoding/xml's Decoder/Token for callers migrating off the standard
// library decoder onto this module's parser. It carries no
// state-machine logic of its own: it parses a whole document with
// markup.ReadFrom up front, then replays the tree as a Token stream.
package compat

import (
	"io"

	"github.com/clems4ever/markupxml/markup"
)

// Token mirrors encoding/xml.Token's closed set of concrete kinds.
type Token interface{ isToken() }

// StartElement is emitted when entering an element.
type StartElement struct {
	Name string
	Attr []markup.Attr
}

func (StartElement) isToken() {}

// EndElement is emitted when leaving an element.
type EndElement struct{ Name string }

func (EndElement) isToken() {}

// CharData is an element's text or a child's tail.
type CharData []byte

func (CharData) isToken() {}

// Comment is a <!-- ... --> node's body.
type Comment []byte

func (Comment) isToken() {}

// ProcInst is a processing instruction or declaration.
type ProcInst struct {
	Target string
	Inst   []byte
}

func (ProcInst) isToken() {}

// Decoder replays a parsed tree as a Token stream, document order,
// matching encoding/xml.Decoder.Token's calling convention.
type Decoder struct {
	tokens []Token
	pos    int
}

// NewDecoder parses r as strict XML and prepares it for token-at-a-time
// replay. Comments and processing instructions are retained in the
// token stream, matching encoding/xml.Decoder's default behavior.
func NewDecoder(r io.Reader) (*Decoder, error) {
	builder := markup.NewTreeBuilder()
	builder.InsertComments = true
	builder.InsertDeclares = true
	builder.InsertPIs = true
	root, err := markup.ReadFrom(r, builder, false)
	if err != nil {
		return nil, err
	}
	d := &Decoder{}
	d.emit(root)
	return d, nil
}

func (d *Decoder) emit(e *markup.Element) {
	switch e.Kind {
	case markup.KindComment:
		d.tokens = append(d.tokens, Comment(e.Text))
		return
	case markup.KindDeclaration:
		d.tokens = append(d.tokens, ProcInst{Inst: []byte(e.Text)})
		return
	case markup.KindInstruction:
		d.tokens = append(d.tokens, ProcInst{Target: e.Target, Inst: []byte(e.Value)})
		return
	}

	d.tokens = append(d.tokens, StartElement{Name: e.Tag, Attr: e.Items()})
	if e.Text != "" {
		d.tokens = append(d.tokens, CharData(e.Text))
	}
	for _, c := range e.Children {
		d.emit(c)
		if c.Tail != "" {
			d.tokens = append(d.tokens, CharData(c.Tail))
		}
	}
	d.tokens = append(d.tokens, EndElement{Name: e.Tag})
}

// Token returns the next token in document order, or io.EOF once
// exhausted.
func (d *Decoder) Token() (Token, error) {
	if d.pos >= len(d.tokens) {
		return nil, io.EOF
	}
	t := d.tokens[d.pos]
	d.pos++
	return t, nil
}
