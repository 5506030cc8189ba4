package markup

// TreeBuilder consumes the lexer-driven event protocol (start/end/
// startend/data/comment/declaration/pi/close) and assembles a parent-
// linked Element tree, per §4.3. Two strategies share this event
// surface: strict (errors surface immediately) and lenient/fix-broken
// (structural anomalies are repaired). The strategy is fixed at
// construction and never swapped mid-parse.
type TreeBuilder struct {
	FixBroken bool

	InsertComments bool
	InsertDeclares bool
	InsertPIs      bool

	root *Element
	last *Element
	tree []*Element
	text []string
	tail bool
}

// NewTreeBuilder constructs a strict builder. Set FixBroken before the
// first event, or use NewLenientTreeBuilder, for the repairing strategy.
func NewTreeBuilder() *TreeBuilder {
	return &TreeBuilder{}
}

// NewLenientTreeBuilder constructs a fix-broken builder that tolerates
// stray end tags, unclosed elements, and multi-root documents.
func NewLenientTreeBuilder() *TreeBuilder {
	return &TreeBuilder{FixBroken: true}
}

// flush assigns any buffered text to the text or tail field of the
// current element, per the tail flag set by the last start/end call.
func (b *TreeBuilder) flush() error {
	if len(b.text) == 0 {
		return nil
	}
	if b.last == nil {
		b.text = nil
		return nil
	}
	joined := joinStrings(b.text)
	b.text = nil
	if b.tail {
		if b.last.Tail != "" {
			if !b.FixBroken {
				return newBuilderError("element tail already assigned")
			}
			b.last.Tail += joined
			return nil
		}
		b.last.Tail = joined
		return nil
	}
	if b.last.Text != "" {
		if !b.FixBroken {
			return newBuilderError("element text already assigned")
		}
		b.last.Text += joined
		return nil
	}
	b.last.Text = joined
	return nil
}

func joinStrings(parts []string) string {
	if len(parts) == 1 {
		return parts[0]
	}
	total := 0
	for _, p := range parts {
		total += len(p)
	}
	buf := make([]byte, 0, total)
	for _, p := range parts {
		buf = append(buf, p...)
	}
	return string(buf)
}

// append links elem as a child of the stack top, or sets it as root
// when the tree is empty. In lenient mode, starting a second top-level
// element after the first has fully closed re-parents the old root
// under a synthetic document element.
func (b *TreeBuilder) append(elem *Element) error {
	b.last = elem
	if len(b.tree) > 0 {
		b.tree[len(b.tree)-1].Append(elem)
		return nil
	}
	if b.root == nil {
		b.root = elem
		return nil
	}
	if !b.FixBroken {
		return newBuilderError("multiple root elements")
	}
	doc := NewElement("document")
	doc.Append(b.root)
	doc.Append(elem)
	b.root = doc
	b.tree = append(b.tree, doc)
	return nil
}

func (b *TreeBuilder) inline(elem *Element) {
	_ = b.append(elem)
	b.tail = true
}

// Start processes the opening of a new tag: flushes pending text,
// creates the element, links and pushes it. Subsequent Data calls
// become this element's Text until the next event.
func (b *TreeBuilder) Start(tag string, attrs []Attr) error {
	if err := b.flush(); err != nil {
		return err
	}
	elem := NewElement(tag)
	for _, a := range attrs {
		elem.Set(a.Name, a.Value)
	}
	if err := b.append(elem); err != nil {
		return err
	}
	b.tree = append(b.tree, elem)
	b.tail = false
	return nil
}

// End processes the close of tag: flushes pending text (into the Text
// of the element opened last, or the Tail of the element closed last),
// pops the stack, and verifies the popped tag matches. Text that
// follows becomes the popped element's Tail. Strict mode errors on mismatch or an empty stack;
// lenient mode synthesizes implicit ends to reach a matching ancestor,
// or silently drops the spurious end if no ancestor matches.
func (b *TreeBuilder) End(tag string) error {
	if !b.FixBroken {
		if err := b.flush(); err != nil {
			return err
		}
		if len(b.tree) == 0 {
			return newBuilderError("end tag %q with no open element", tag)
		}
		top := b.tree[len(b.tree)-1]
		b.tree = b.tree[:len(b.tree)-1]
		b.last = top
		if top.Tag != tag {
			return newBuilderError("end tag mismatch (expected %s, got %s)", top.Tag, tag)
		}
		b.tail = true
		return nil
	}
	depth := -1
	for i := len(b.tree) - 1; i >= 0; i-- {
		if b.tree[i].Tag == tag {
			depth = i
			break
		}
	}
	if depth < 0 {
		return nil
	}
	for len(b.tree) > depth {
		_ = b.flush()
		top := b.tree[len(b.tree)-1]
		b.tree = b.tree[:len(b.tree)-1]
		b.last = top
		b.tail = true
	}
	return nil
}

// StartEnd processes a self-closing tag as Start immediately followed
// by End.
func (b *TreeBuilder) StartEnd(tag string, attrs []Attr) error {
	if err := b.Start(tag, attrs); err != nil {
		return err
	}
	return b.End(tag)
}

// Data buffers incoming text; it is assigned to Text or Tail at the
// next flush point.
func (b *TreeBuilder) Data(data string) {
	if data == "" {
		return
	}
	b.text = append(b.text, data)
}

// Comment appends a Comment special node when InsertComments is set.
func (b *TreeBuilder) Comment(text string) {
	if b.InsertComments {
		_ = b.flush()
		b.inline(NewComment(text))
	}
}

// Declaration appends a Declaration special node when InsertDeclares is
// set and a root already exists.
func (b *TreeBuilder) Declaration(declaration string) {
	if b.root != nil && b.InsertDeclares {
		_ = b.flush()
		b.inline(NewDeclaration(declaration))
	}
}

// PI appends a ProcessingInstruction special node when InsertPIs is
// set.
func (b *TreeBuilder) PI(target, value string) {
	if b.InsertPIs {
		_ = b.flush()
		b.inline(NewProcessingInstruction(target, value))
	}
}

// Close finalizes the builder and returns the root element. Strict
// mode errors if any element remains open or no root was ever started;
// lenient mode auto-closes remaining open elements in LIFO order before
// checking for a root.
func (b *TreeBuilder) Close() (*Element, error) {
	if b.FixBroken {
		for len(b.tree) > 0 {
			_ = b.flush()
			top := b.tree[len(b.tree)-1]
			b.tree = b.tree[:len(b.tree)-1]
			b.last = top
			b.tail = true
		}
	} else if len(b.tree) != 0 {
		return nil, newBuilderError("missing end tags")
	}
	if b.root == nil {
		return nil, newBuilderError("missing toplevel element")
	}
	return b.root, nil
}
