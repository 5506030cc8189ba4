package markup

import (
	"bytes"
	"io"
	"strings"

	"github.com/clems4ever/markupxml/markup/xpath"
	"golang.org/x/net/html/charset"
)

// Options collects the functional options accepted by Fromstring and
// Tostring.
type Options struct {
	html         bool
	fixBroken    bool
	sniffCharset bool
	serialize    SerializeOptions
}

// Option configures Fromstring/Tostring behavior.
type Option func(*Options)

// AsHTML selects the lenient HTML lexer/empty-tag table instead of
// strict XML.
func AsHTML() Option { return func(o *Options) { o.html = true } }

// FixBroken selects the lenient tree builder, repairing mismatched or
// missing close tags instead of erroring.
func FixBroken() Option { return func(o *Options) { o.fixBroken = true } }

// SniffCharset runs golang.org/x/net/html/charset's BOM/meta sniff pass
// over the raw bytes before decoding, ahead of the parser's own
// encoding="..." declaration scan.
func SniffCharset() Option { return func(o *Options) { o.sniffCharset = true } }

// WithMethod selects the serialization method ("xml" or "html").
func WithMethod(method string) Option {
	return func(o *Options) { o.serialize.Method = method }
}

// WithEncoding sets the declared encoding named in a generated XML
// prologue.
func WithEncoding(encoding string) Option {
	return func(o *Options) { o.serialize.Encoding = encoding }
}

// WithXMLDeclaration overrides the generated XML prologue verbatim.
func WithXMLDeclaration(decl string) Option {
	return func(o *Options) { o.serialize.XMLDeclaration = decl }
}

// WithNoDeclaration suppresses the generated XML prologue entirely.
func WithNoDeclaration() Option {
	return func(o *Options) { o.serialize.NoDeclaration = true }
}

// ShortEmptyElements closes childless, textless elements as `<tag/>`.
func ShortEmptyElements() Option {
	return func(o *Options) { o.serialize.ShortEmptyElements = true }
}

func resolveOptions(opts []Option) Options {
	var o Options
	for _, apply := range opts {
		apply(&o)
	}
	return o
}

// Fromstring parses a whole document from data, returning its root
// Element. By default it parses strict XML in UTF-8; AsHTML, FixBroken,
// and SniffCharset adjust that behavior.
func Fromstring(data []byte, opts ...Option) (*Element, error) {
	o := resolveOptions(opts)

	if o.sniffCharset {
		enc, name, _ := charset.DetermineEncoding(data, "")
		if name != "" && name != "utf-8" {
			if decoded, err := enc.NewDecoder().Bytes(data); err == nil {
				data = decoded
			}
		}
	}

	builder := NewTreeBuilder()
	if o.fixBroken {
		builder = NewLenientTreeBuilder()
	}
	return ReadFrom(bytes.NewReader(data), builder, o.html)
}

// Tostring serializes e and its subtree to bytes, per WithMethod,
// WithEncoding, WithXMLDeclaration, and ShortEmptyElements.
func Tostring(e *Element, opts ...Option) ([]byte, error) {
	o := resolveOptions(opts)
	return tostring(e, o.serialize)
}

// ElementTree wraps a root Element with stream-level parse/write
// methods and the element-proxy query method set, so callers get
// find/findall/findtext without importing markup/xpath directly.
type ElementTree struct {
	root *Element
}

// NewElementTree wraps an already-parsed root.
func NewElementTree(root *Element) *ElementTree { return &ElementTree{root: root} }

// Parse reads a whole document from r, replacing the tree's root. By
// default it parses strict XML; AsHTML/FixBroken adjust that behavior
// the same way they do for Fromstring.
func (t *ElementTree) Parse(r io.Reader, opts ...Option) error {
	o := resolveOptions(opts)
	builder := NewTreeBuilder()
	if o.fixBroken {
		builder = NewLenientTreeBuilder()
	}
	root, err := ReadFrom(r, builder, o.html)
	if err != nil {
		return err
	}
	t.root = root
	return nil
}

// Write serializes the tree to w per opts.
func (t *ElementTree) Write(w io.Writer, opts ...Option) error {
	o := resolveOptions(opts)
	return Serialize(w, t.root, o.serialize)
}

// Root returns the tree's root element.
func (t *ElementTree) Root() *Element { return t.root }

// Iter yields the root and every descendant in preorder, restricted to
// tag when non-empty.
func (t *ElementTree) Iter(tag string) []*Element { return t.root.Iter(tag) }

// Itertext yields the text of every non-special node in document order.
func (t *ElementTree) Itertext() []string { return t.root.Itertext() }

// Find evaluates path against the tree's root, returning the first
// result (an *Element or a string), or nil if nothing matched.
func (t *ElementTree) Find(path string) (any, error) { return xpath.Find(t.root, path) }

// FindAll evaluates path against the tree's root, returning every
// surviving element or scalar in document order.
func (t *ElementTree) FindAll(path string) ([]any, error) { return xpath.FindAll(t.root, path) }

// FindIter evaluates path, returning an iterator over the matches.
// Since the evaluator has no genuinely incremental form, this eagerly
// evaluates and replays the results through an iterator shape for API
// parity with the reference find/iter naming.
func (t *ElementTree) FindIter(path string) (func(yield func(any) bool), error) {
	all, err := xpath.FindAll(t.root, path)
	if err != nil {
		return nil, err
	}
	return func(yield func(any) bool) {
		for _, v := range all {
			if !yield(v) {
				return
			}
		}
	}, nil
}

// FindText evaluates path against the tree's root and renders the
// result as a single string, or def if nothing matched.
func (t *ElementTree) FindText(path string, def string) (string, error) {
	res, err := xpath.IterFind(t.root, path)
	if err != nil {
		return "", err
	}
	if len(res.Scalars) == 0 && len(res.Elements) == 0 {
		return def, nil
	}
	if res.Scalars != nil {
		return strings.Join(res.Scalars, " "), nil
	}
	var parts []string
	for _, e := range res.Elements {
		parts = append(parts, joinStrings(e.Itertext()))
	}
	return strings.Join(parts, " "), nil
}

// Append adds element as the last child of the tree's root.
func (t *ElementTree) Append(element *Element) { t.root.Append(element) }

// Insert adds element at the given child index of the tree's root.
func (t *ElementTree) Insert(index int, element *Element) { t.root.Insert(index, element) }

// Extend appends a sequence of elements to the tree's root.
func (t *ElementTree) Extend(elements []*Element) { t.root.Extend(elements) }

// Remove deletes element from the tree's root's children.
func (t *ElementTree) Remove(element *Element) { t.root.Remove(element) }

// Clear detaches all of the tree's root's children.
func (t *ElementTree) Clear() { t.root.Clear() }
