// Package query provides an immutable container pairing a SQL template with
// its arguments. Arguments are either positional ($1..$N placeholders) or
// named (@name placeholders), never both. The container can render the final
// statement for logging and bind its arguments for execution; execution
// always goes through driver-level parameter binding, never through the
// rendered text.
package query

import (
	"errors"
	"fmt"
)

// ErrMixedArgs is returned when a query is constructed with both positional
// and named arguments. The two placeholder syntaxes differ and mixing them
// is ambiguous.
var ErrMixedArgs = errors.New("both named and positional arguments passed to query")

// Args holds named arguments for a query template using @name placeholders.
// Pass a single Args value to New instead of positional arguments.
type Args map[string]any

// Query is an immutable SQL template plus its arguments.
type Query struct {
	template string
	args     []any
	named    Args
}

// New builds a query from a template and arguments. Positional arguments
// bind to $1..$N placeholders in order. Alternatively, a single Args value
// binds to @name placeholders. Supplying an Args value alongside positional
// arguments fails with ErrMixedArgs.
func New(template string, args ...any) (*Query, error) {
	q := &Query{template: template}

	for _, arg := range args {
		if named, ok := arg.(Args); ok {
			if len(args) > 1 {
				return nil, fmt.Errorf("%w: %s", ErrMixedArgs, template)
			}
			q.named = named
			return q, nil
		}
	}

	q.args = args
	return q, nil
}

// MustNew is like New but panics on error. Intended for templates whose
// argument shape is fixed at the call site.
func MustNew(template string, args ...any) *Query {
	q, err := New(template, args...)
	if err != nil {
		panic(err)
	}
	return q
}

// Template returns the raw SQL template.
func (q *Query) Template() string {
	return q.template
}

// Bind returns the SQL text and argument list ready for driver execution.
// For positional queries this is the template and arguments unchanged. For
// named queries every @name placeholder is rewritten to a $N ordinal in
// first-appearance order and the arguments are sequenced to match; repeated
// placeholders share one ordinal. A placeholder with no matching argument,
// or an argument with no matching placeholder, is an error.
func (q *Query) Bind() (string, []any, error) {
	if q.named == nil {
		return q.template, q.args, nil
	}
	return rewriteNamed(q.template, q.named)
}

// String renders the final statement with every placeholder replaced by its
// argument's quoted literal form. The result is for logs and debugging only;
// it is never what gets executed.
func (q *Query) String() string {
	rendered, err := render(q.template, q.args, q.named)
	if err != nil {
		return q.template
	}
	return rendered
}
