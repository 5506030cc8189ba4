package markup

import (
	"bytes"
	"fmt"
	"io"
)

// htmlFullTags never self-close regardless of ShortEmptyElements: their
// bodies are read verbatim by the lexer, so a short close would change
// meaning on re-parse.
var htmlFullTags = map[string]bool{
	"script": true,
	"style":  true,
}

// SerializeOptions controls Serialize/Tostring output.
type SerializeOptions struct {
	// Method selects the serialization flavor: "xml" (default) or
	// "html".
	Method string
	// Encoding names the declared text encoding; it only affects the
	// emitted <?xml ...?> prologue, since output is always produced as
	// UTF-8 text.
	Encoding string
	// XMLDeclaration, if non-empty, replaces the default generated
	// prologue verbatim (XML method only).
	XMLDeclaration string
	// NoDeclaration suppresses the prologue entirely (XML method only),
	// taking precedence over XMLDeclaration.
	NoDeclaration bool
	// ShortEmptyElements closes childless, textless elements as
	// `<tag/>` instead of `<tag></tag>`.
	ShortEmptyElements bool
}

// tostring serializes element and its subtree to bytes per opts. The
// public, functional-options entry point is Tostring in api.go.
func tostring(element *Element, opts SerializeOptions) ([]byte, error) {
	var buf bytes.Buffer
	if err := Serialize(&buf, element, opts); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Serialize writes element and its subtree to w per opts.
func Serialize(w io.Writer, element *Element, opts SerializeOptions) error {
	method := opts.Method
	if method == "" {
		method = "xml"
	}
	encoding := opts.Encoding
	if encoding == "" {
		encoding = "utf-8"
	}

	var alwaysFull map[string]bool
	switch method {
	case "xml":
		switch {
		case opts.NoDeclaration:
		case opts.XMLDeclaration != "":
			if _, err := io.WriteString(w, opts.XMLDeclaration); err != nil {
				return err
			}
		default:
			if _, err := fmt.Fprintf(w, "<?xml version='1.0' encoding='%s'?>\n", encoding); err != nil {
				return err
			}
		}
	case "html":
		alwaysFull = htmlFullTags
	default:
		return fmt.Errorf("markup: unsupported serialization method %q", method)
	}

	return serializeElement(w, element, opts.ShortEmptyElements, alwaysFull)
}

func serializeElement(w io.Writer, e *Element, shortEmpty bool, alwaysFull map[string]bool) error {
	if e.IsSpecial() {
		return serializeSpecial(w, e)
	}

	if _, err := io.WriteString(w, "<"+e.Tag); err != nil {
		return err
	}
	for _, attr := range e.Items() {
		if _, err := io.WriteString(w, " "+attr.Name); err != nil {
			return err
		}
		if attr.Value != "true" {
			if _, err := io.WriteString(w, "=\""+EscapeAttrib(attr.Value)+"\""); err != nil {
				return err
			}
		}
	}

	if shortEmpty && !alwaysFull[e.Tag] && len(e.Children) == 0 && e.Text == "" {
		if _, err := io.WriteString(w, "/>"); err != nil {
			return err
		}
		return writeTail(w, e)
	}

	if _, err := io.WriteString(w, ">"); err != nil {
		return err
	}
	if _, err := io.WriteString(w, EscapeCdata(e.Text)); err != nil {
		return err
	}
	for _, child := range e.Children {
		if err := serializeElement(w, child, shortEmpty, alwaysFull); err != nil {
			return err
		}
	}
	if _, err := io.WriteString(w, "</"+e.Tag+">"); err != nil {
		return err
	}
	return writeTail(w, e)
}

func writeTail(w io.Writer, e *Element) error {
	if e.Tail == "" {
		return nil
	}
	_, err := io.WriteString(w, EscapeCdata(e.Tail))
	return err
}

func serializeSpecial(w io.Writer, e *Element) error {
	var start, end string
	escape := func(s string) string { return s }
	switch e.Kind {
	case KindComment:
		start, end, escape = "<!-- ", " -->", EscapeCdata
	case KindDeclaration:
		start, end, escape = "<!", ">", EscapeCdata
	case KindInstruction:
		start, end = "<? ", " ?>"
	default:
		return fmt.Errorf("markup: unsupported special node kind %d", e.Kind)
	}
	if _, err := io.WriteString(w, start+escape(e.Text)+end); err != nil {
		return err
	}
	return writeTail(w, e)
}
