package markup

import "fmt"

// ParserError reports a structural surprise encountered by the parser
// driver: an unexpected token kind, a missing tag terminator, or a
// malformed attribute list. It carries the offending token's kind,
// raw bytes, and source coordinates so callers can point a user at the
// exact byte that triggered it.
type ParserError struct {
	Message string
	Token   TokenKind
	Bytes   []byte
	Line    int
	Column  int
}

func (e *ParserError) Error() string {
	if e.Bytes == nil {
		return fmt.Sprintf("markup: %s (lineno=%d, index=%d)", e.Message, e.Line, e.Column)
	}
	return fmt.Sprintf("markup: %s at %q (lineno=%d, index=%d)", e.Message, string(e.Bytes), e.Line, e.Column)
}

// newParserError builds a ParserError from a lexer Result, following
// parser.py's ParserError(msg, result) constructor.
func newParserError(msg string, result Result) *ParserError {
	return &ParserError{
		Message: msg,
		Token:   result.Token,
		Bytes:   result.Value,
		Line:    result.Lineno,
		Column:  result.Position,
	}
}

// BuilderError reports a strict-mode tree builder invariant violation:
// a mismatched end tag, a duplicate text/tail assignment, a multi-root
// document, or a close() call on an incomplete or empty tree.
type BuilderError struct {
	Message string
}

func (e *BuilderError) Error() string {
	return "markup: " + e.Message
}

func newBuilderError(format string, args ...any) *BuilderError {
	return &BuilderError{Message: fmt.Sprintf(format, args...)}
}

// QueryError reports an XPath compile or evaluation failure: an
// unsupported operator/function, a non-digit operand to an integer
// comparison, invalid `@var` usage outside a filter context, or
// navigation attempted after a terminal scalar step.
type QueryError struct {
	Message string
}

func (e *QueryError) Error() string {
	return "markup: xpath: " + e.Message
}
