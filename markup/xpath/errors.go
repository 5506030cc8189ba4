package xpath

import (
	"fmt"

	"github.com/clems4ever/markupxml/markup"
)

// newQueryErrorf builds a *markup.QueryError, letting compile/evaluate
// code in this package construct the error type declared alongside
// markup's ParserError and BuilderError.
func newQueryErrorf(format string, args ...any) *markup.QueryError {
	return &markup.QueryError{Message: fmt.Sprintf(format, args...)}
}
