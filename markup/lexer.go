package markup

import "fmt"

// specialChars are the bytes that terminate a bareword (tag name,
// attribute name/value) inside a tag.
const specialChars = "=<>/"

// defaultRawTextTags are the HTML tags whose body is read verbatim until
// the matching end tag, ignoring any embedded '<', quotes, or
// backslashes. Configurable per Lexer so a strict-XML caller never
// triggers it.
var defaultRawTextTags = map[string]bool{
	"script": true,
	"style":  true,
}

// Lexer is the pull-based markup tokenizer described in §4.2. Each call
// to Next produces the next Result, driven by the last emitted token
// kind (context) and a one-byte lookahead.
type Lexer struct {
	r           *Reader
	lastToken   TokenKind
	lastTag     string
	rawTextTags map[string]bool
}

// NewLexer wraps a Reader in a markup Lexer. rawTextTags names the tags
// whose body should be read verbatim (HTML's script/style); pass nil for
// strict XML lexing.
func NewLexer(r *Reader, rawTextTags map[string]bool) *Lexer {
	if rawTextTags == nil {
		rawTextTags = map[string]bool{}
	}
	return &Lexer{r: r, rawTextTags: rawTextTags}
}

// NewHTMLLexer wraps a Reader with the default HTML raw-text tag set
// (script, style).
func NewHTMLLexer(r *Reader) *Lexer {
	tags := make(map[string]bool, len(defaultRawTextTags))
	for k, v := range defaultRawTextTags {
		tags[k] = v
	}
	return NewLexer(r, tags)
}

func isSpecial(b byte) bool {
	for i := 0; i < len(specialChars); i++ {
		if specialChars[i] == b {
			return true
		}
	}
	return false
}

func allSpecial(value []byte) bool {
	if len(value) == 0 {
		return false
	}
	for _, b := range value {
		if !isSpecial(b) {
			return false
		}
	}
	return true
}

// inTagContext reports whether the last emitted token means we are
// still lexing inside a tag's attribute list (so whitespace should be
// skipped rather than preserved).
func (l *Lexer) inTagContext() bool {
	return l.lastToken < TAG_END
}

// inContentContext reports whether the last emitted token means the
// next bareword should be read as TEXT rather than an attribute name.
func (l *Lexer) inContentContext() bool {
	return l.lastToken == UNDEFINED || (l.lastToken >= TAG_END && l.lastToken <= INSTRUCTION)
}

// Next produces the next token, or (Result{}, false, nil) at end of
// stream. A non-nil error indicates a lex failure (e.g. an unterminated
// processing instruction) with accurate source coordinates.
func (l *Lexer) Next() (Result, bool, error) {
	for {
		lineno := l.r.Lineno()
		position := l.r.Position()
		b, ok := l.r.ReadByte()
		if !ok {
			return Result{}, false, nil
		}
		if isSpace(b) && l.inTagContext() {
			continue
		}
		switch {
		case b == '<':
			return l.lexTagStart(lineno, position)
		case b == '/' && l.lastToken != TAG_END:
			if l.lookAheadClose() {
				l.lastToken = TAG_CLOSE
				return Result{TAG_CLOSE, nil, lineno, position}, true, nil
			}
			return l.classify(b, lineno, position)
		case b == '>':
			l.lastToken = TAG_END
			return Result{TAG_END, nil, lineno, position}, true, nil
		case b == '=' && l.lastToken == ATTR_NAME:
			l.r.SkipSpaces()
			return l.lexAttrValue(lineno, position)
		default:
			return l.classify(b, lineno, position)
		}
	}
}

// classify implements guess_token's fallback branch: a bareword seen
// outside tag-boundary punctuation is either TEXT (in content context)
// or the start of an ATTR_NAME.
func (l *Lexer) classify(seed byte, lineno, position int) (Result, bool, error) {
	if l.inContentContext() {
		return l.lexText(seed, lineno, position)
	}
	if !isSpace(seed) {
		return l.lexAttrName(seed, lineno, position)
	}
	// a space reaching here (outside both tag and content context, e.g.
	// right after a TEXT token) starts a text token rather than being
	// skipped.
	return l.lexText(seed, lineno, position)
}

// lookAheadClose peeks (skipping spaces) to see whether a '/' is
// immediately followed by '>', i.e. a self-closing tag marker. On a
// match the '>' is consumed (the TAG_CLOSE token carries no value); on
// a miss, all peeked bytes are restored to the stream.
func (l *Lexer) lookAheadClose() bool {
	var peeked []byte
	found := false
	for {
		b, ok := l.r.ReadByte()
		if !ok {
			break
		}
		peeked = append(peeked, b)
		if isSpace(b) {
			continue
		}
		if b == '>' {
			found = true
		}
		break
	}
	if !found {
		for i := len(peeked) - 1; i >= 0; i-- {
			_ = l.r.Unread(peeked[i])
		}
	}
	return found
}

func (l *Lexer) lexTagStart(lineno, position int) (Result, bool, error) {
	seed, ok := l.r.ReadByte()
	if !ok {
		l.lastToken = TAG_START
		return Result{TAG_START, nil, lineno, position}, true, nil
	}
	switch seed {
	case '!':
		return l.lexBang(lineno, position)
	case '?':
		return l.lexInstruction(lineno, position)
	}
	value := []byte{seed}
	l.readTagTail(&value)
	if allSpecial(value) || (len(value) > 0 && value[0] == ' ') {
		text := make([]byte, 0, len(value)+2)
		text = append(text, '<')
		text = append(text, value...)
		text = append(text, ' ')
		l.lastToken = TEXT
		return Result{TEXT, text, lineno, position}, true, nil
	}
	l.lastTag = string(value)
	l.lastToken = TAG_START
	return Result{TAG_START, value, lineno, position}, true, nil
}

// readTagTail continues reading a tag name into *value (which already
// holds its first byte), stopping before the next special byte or a
// run of interior whitespace.
func (l *Lexer) readTagTail(value *[]byte) {
	for {
		b, ok := l.r.ReadByte()
		if !ok {
			return
		}
		if isSpace(b) {
			if len(*value) > 0 && string(*value) != "/" {
				return
			}
			continue
		}
		if isSpecial(b) {
			_ = l.r.Unread(b)
			return
		}
		*value = append(*value, b)
	}
}

func (l *Lexer) lexBang(lineno, position int) (Result, bool, error) {
	b, ok := l.r.ReadByte()
	if ok && b == '-' {
		b2, ok2 := l.r.ReadByte()
		if ok2 && b2 == '-' {
			return l.lexComment(lineno, position)
		}
		if ok2 {
			_ = l.r.Unread(b2)
		}
		_ = l.r.Unread(b)
		return l.lexDeclaration(lineno, position)
	}
	if ok {
		_ = l.r.Unread(b)
	}
	return l.lexDeclaration(lineno, position)
}

func (l *Lexer) lexComment(lineno, position int) (Result, bool, error) {
	var value []byte
	l.readComment(&value)
	l.lastToken = COMMENT
	return Result{COMMENT, value, lineno, position}, true, nil
}

// readComment scans a comment body until a terminating "-->" triple.
// Leading dashes immediately following the opening "<!--" are dropped
// rather than captured, matching the documented quirk in §9.
func (l *Lexer) readComment(value *[]byte) {
	var buffer []byte
	for {
		b, ok := l.r.ReadByte()
		if !ok {
			break
		}
		if b == '-' {
			if len(*value) > 0 {
				buffer = append(buffer, b)
			}
			continue
		}
		if b == '>' && len(buffer) >= 2 {
			break
		}
		if len(buffer) > 0 {
			*value = append(*value, buffer...)
			buffer = nil
		}
		*value = append(*value, b)
	}
}

func (l *Lexer) lexDeclaration(lineno, position int) (Result, bool, error) {
	var value []byte
	l.readDeclaration(&value)
	l.lastToken = DECLARATION
	return Result{DECLARATION, value, lineno, position}, true, nil
}

// readDeclaration tolerates nested '[' ... ']' (DOCTYPE internal
// subsets) and embedded quoted strings, terminating at an unbracketed
// '>'.
func (l *Lexer) readDeclaration(value *[]byte) {
	brackets := 0
	for {
		b, ok := l.r.ReadByte()
		if !ok {
			return
		}
		switch b {
		case '[':
			brackets++
			*value = append(*value, b)
		case ']':
			brackets--
			*value = append(*value, b)
		case '"', '\'':
			*value = append(*value, b)
			l.r.ReadQuote(b, value)
			*value = append(*value, b)
		case '>':
			if brackets <= 0 {
				return
			}
			*value = append(*value, b)
		default:
			*value = append(*value, b)
		}
	}
}

func (l *Lexer) lexInstruction(lineno, position int) (Result, bool, error) {
	var value []byte
	if err := l.readInstruction(&value); err != nil {
		return Result{}, false, err
	}
	l.lastToken = INSTRUCTION
	return Result{INSTRUCTION, value, lineno, position}, true, nil
}

// readInstruction reads a processing instruction body until a "?>"
// pair; embedded quotes are skipped via ReadQuote. Reaching end of
// stream before termination is a lex error.
func (l *Lexer) readInstruction(value *[]byte) error {
	for {
		b, ok := l.r.ReadByte()
		if !ok {
			return fmt.Errorf("markup: processing instruction never terminated")
		}
		if b == '"' || b == '\'' {
			*value = append(*value, b)
			l.r.ReadQuote(b, value)
			*value = append(*value, b)
			continue
		}
		if b == '?' {
			nb, ok2 := l.r.ReadByte()
			if ok2 && nb == '>' {
				return nil
			}
			*value = append(*value, b)
			if ok2 {
				_ = l.r.Unread(nb)
			}
			continue
		}
		*value = append(*value, b)
	}
}

func (l *Lexer) lexAttrName(seed byte, lineno, position int) (Result, bool, error) {
	value := []byte{seed}
	l.r.ReadWord(&value, []byte(specialChars))
	l.lastToken = ATTR_NAME
	return Result{ATTR_NAME, value, lineno, position}, true, nil
}

func (l *Lexer) lexAttrValue(lineno, position int) (Result, bool, error) {
	var value []byte
	b, ok := l.r.ReadByte()
	if ok && (b == '"' || b == '\'') {
		l.r.ReadQuote(b, &value)
	} else {
		if ok {
			_ = l.r.Unread(b)
		}
		l.r.ReadWord(&value, []byte(specialChars))
	}
	l.lastToken = ATTR_VALUE
	return Result{ATTR_VALUE, value, lineno, position}, true, nil
}

func (l *Lexer) lexText(seed byte, lineno, position int) (Result, bool, error) {
	value := []byte{seed}
	l.handleText(&value)
	l.lastToken = TEXT
	return Result{TEXT, value, lineno, position}, true, nil
}

// handleText reads content text, switching to the HTML raw-text scanner
// when the most recently opened tag demands it (script/style bodies).
func (l *Lexer) handleText(value *[]byte) {
	if l.rawTextTags[l.lastTag] {
		end := "</" + l.lastTag + ">"
		l.readSpecial(value, end)
		return
	}
	l.readText(value)
}

// readText reads until the next '<' or '>', which is unread for the
// next Next() call to classify.
func (l *Lexer) readText(value *[]byte) {
	for {
		b, ok := l.r.ReadByte()
		if !ok {
			return
		}
		if b == '<' || b == '>' {
			_ = l.r.Unread(b)
			return
		}
		*value = append(*value, b)
	}
}

// readSpecial reads raw HTML text verbatim until the byte sequence end
// is found; the matched end bytes are pushed back so the lexer resumes
// normal tag lexing at the end tag.
func (l *Lexer) readSpecial(value *[]byte, end string) {
	var buffer []byte
	endBytes := []byte(end)
	for {
		b, ok := l.r.ReadByte()
		if !ok {
			*value = append(*value, buffer...)
			return
		}
		buffer = append(buffer, b)
		if hasSuffix(buffer, endBytes) {
			*value = append(*value, buffer[:len(buffer)-len(endBytes)]...)
			for i := len(endBytes) - 1; i >= 0; i-- {
				_ = l.r.Unread(endBytes[i])
			}
			return
		}
	}
}

func hasSuffix(b, suffix []byte) bool {
	if len(suffix) > len(b) {
		return false
	}
	return string(b[len(b)-len(suffix):]) == string(suffix)
}
