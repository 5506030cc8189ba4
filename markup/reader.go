package markup

import (
	"bufio"
	"errors"
	"io"
)

// ErrUnreadNewline is returned when an Unread call would push a newline
// byte back onto the stream, which would make line/column tracking
// non-monotonic.
var ErrUnreadNewline = errors.New("markup: cannot unread a newline byte")

const (
	space = ' '
	tab   = '\t'
	cr    = '\r'
	lf    = '\n'
)

func isSpace(b byte) bool {
	return b == space || b == tab || b == cr || b == lf
}

// ByteSource pulls single bytes from some backing source. It is the
// minimal contract the Reader needs, letting callers feed an io.Reader,
// an in-memory buffer, or any custom iterator.
type ByteSource interface {
	// NextByte returns the next byte and true, or (0, false) at EOF.
	NextByte() (byte, bool)
}

// sourceFunc adapts a plain function into a ByteSource.
type sourceFunc func() (byte, bool)

func (f sourceFunc) NextByte() (byte, bool) { return f() }

// IteratorSource wraps a function-based byte iterator, e.g. one produced
// by ranging over a slice or channel of bytes.
func IteratorSource(next func() (byte, bool)) ByteSource {
	return sourceFunc(next)
}

// readerSource adapts a bufio.Reader into a ByteSource.
type readerSource struct{ r *bufio.Reader }

func (s readerSource) NextByte() (byte, bool) {
	b, err := s.r.ReadByte()
	if err != nil {
		return 0, false
	}
	return b, true
}

// ReaderSource wraps an io.Reader (buffering it if necessary) into a
// ByteSource.
func ReaderSource(r io.Reader) ByteSource {
	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(r)
	}
	return readerSource{br}
}

// Reader is the byte-level pull source every lexer in this package is
// built on. It tracks 1-based line numbers and 0-based byte columns,
// and supports pushing bytes back onto the stream.
//
// One central place for line/column bookkeeping means every downstream
// error carries accurate source coordinates.
type Reader struct {
	src      ByteSource
	pending  []byte // pushed-back bytes, read before src
	lineno   int
	position int
}

// NewReader wraps a ByteSource in a position-tracked Reader.
func NewReader(src ByteSource) *Reader {
	return &Reader{src: src, lineno: 1}
}

// Lineno returns the current 1-based line number; reading a newline
// advances it.
func (r *Reader) Lineno() int { return r.lineno }

// Position returns the number of bytes read so far on the current line,
// i.e. the 0-based column of the next byte to be read.
func (r *Reader) Position() int { return r.position }

// ReadByte returns the next byte and true, or (0, false) at end of stream.
func (r *Reader) ReadByte() (byte, bool) {
	var b byte
	if n := len(r.pending); n > 0 {
		b = r.pending[0]
		r.pending = r.pending[1:]
	} else {
		var ok bool
		b, ok = r.src.NextByte()
		if !ok {
			return 0, false
		}
	}
	if b == lf {
		r.lineno++
		r.position = 0
	} else {
		r.position++
	}
	return b, true
}

// Unread pushes bytes back onto the stream, in the order they will be
// re-read (i.e. data[0] will be returned by the next ReadByte call).
// Unreading a newline is refused, since it would desynchronize the
// line/column counters.
func (r *Reader) Unread(data ...byte) error {
	for _, b := range data {
		if b == lf {
			return ErrUnreadNewline
		}
	}
	r.position -= len(data)
	if r.position < 0 {
		return ErrUnreadNewline
	}
	r.pending = append(data, r.pending...)
	return nil
}

// SkipSpaces consumes whitespace in {space, tab, CR, LF} until a
// non-space byte or EOF is reached. The non-space byte is unread.
func (r *Reader) SkipSpaces() {
	for {
		b, ok := r.ReadByte()
		if !ok {
			return
		}
		if !isSpace(b) {
			_ = r.Unread(b)
			return
		}
	}
}

// ReadWord reads bytes into *value until whitespace, EOF, or a byte in
// terminate is found. A terminator byte (unlike whitespace) is pushed
// back so the caller can re-lex it. A nil or empty terminate set means
// "stop at whitespace only" and is treated identically.
func (r *Reader) ReadWord(value *[]byte, terminate []byte) {
	for {
		b, ok := r.ReadByte()
		if !ok || isSpace(b) {
			return
		}
		if len(terminate) > 0 && containsByte(terminate, b) {
			_ = r.Unread(b)
			return
		}
		*value = append(*value, b)
	}
}

// ReadQuote reads a balanced, backslash-escape-aware quoted run into
// *value, stopping after consuming the closing quote. The opening quote
// itself is not written to value and must already have been consumed by
// the caller.
func (r *Reader) ReadQuote(quote byte, value *[]byte) {
	escapes := 0
	for {
		b, ok := r.ReadByte()
		if !ok {
			return
		}
		if b == quote && escapes%2 == 0 {
			return
		}
		if b == '\\' {
			escapes++
		} else {
			escapes = 0
		}
		*value = append(*value, b)
	}
}

func containsByte(set []byte, b byte) bool {
	for _, c := range set {
		if c == b {
			return true
		}
	}
	return false
}
