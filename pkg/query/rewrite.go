package query

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// placeholderVisitor is called for each placeholder found in a template. It
// returns the text to substitute. Named placeholders arrive with their name,
// positional ones with their 1-based ordinal.
type placeholderVisitor struct {
	named      func(name string) (string, error)
	positional func(ordinal int) (string, error)
}

// scanTemplate walks a SQL template and substitutes placeholders via the
// visitor, skipping string literals, quoted identifiers, and comments so a
// quoted '@x' or '$1' is never treated as a placeholder.
func scanTemplate(template string, visit placeholderVisitor) (string, error) {
	var out strings.Builder
	out.Grow(len(template))

	for i := 0; i < len(template); {
		c := template[i]

		switch {
		case c == '\'':
			end := skipQuoted(template, i, '\'')
			out.WriteString(template[i:end])
			i = end
		case c == '"':
			end := skipQuoted(template, i, '"')
			out.WriteString(template[i:end])
			i = end
		case c == '-' && i+1 < len(template) && template[i+1] == '-':
			end := strings.IndexByte(template[i:], '\n')
			if end < 0 {
				out.WriteString(template[i:])
				i = len(template)
			} else {
				out.WriteString(template[i : i+end])
				i += end
			}
		case c == '/' && i+1 < len(template) && template[i+1] == '*':
			end := strings.Index(template[i+2:], "*/")
			if end < 0 {
				out.WriteString(template[i:])
				i = len(template)
			} else {
				out.WriteString(template[i : i+2+end+2])
				i += 2 + end + 2
			}
		case c == '@' && i+1 < len(template) && isNameStart(template[i+1]):
			end := i + 1
			for end < len(template) && isNameChar(template[end]) {
				end++
			}
			name := template[i+1 : end]
			sub, err := visit.named(name)
			if err != nil {
				return "", err
			}
			out.WriteString(sub)
			i = end
		case c == '$' && i+1 < len(template) && isDigit(template[i+1]):
			end := i + 1
			for end < len(template) && isDigit(template[end]) {
				end++
			}
			ordinal, err := strconv.Atoi(template[i+1 : end])
			if err != nil {
				return "", fmt.Errorf("invalid placeholder %q: %w", template[i:end], err)
			}
			sub, err := visit.positional(ordinal)
			if err != nil {
				return "", err
			}
			out.WriteString(sub)
			i = end
		default:
			out.WriteByte(c)
			i++
		}
	}

	return out.String(), nil
}

// skipQuoted returns the index just past a quoted region starting at start.
// Doubled quote characters inside the region are treated as escapes.
func skipQuoted(s string, start int, quote byte) int {
	i := start + 1
	for i < len(s) {
		if s[i] == quote {
			if i+1 < len(s) && s[i+1] == quote {
				i += 2
				continue
			}
			return i + 1
		}
		i++
	}
	return len(s)
}

func isNameStart(c byte) bool {
	return c == '_' || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

func isNameChar(c byte) bool {
	return isNameStart(c) || isDigit(c)
}

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}

// rewriteNamed converts @name placeholders into $N ordinals and returns the
// arguments ordered to match. Every placeholder must have an argument and
// every argument must be referenced at least once.
func rewriteNamed(template string, named Args) (string, []any, error) {
	ordinals := make(map[string]int, len(named))
	args := make([]any, 0, len(named))

	sqlText, err := scanTemplate(template, placeholderVisitor{
		named: func(name string) (string, error) {
			n, ok := ordinals[name]
			if !ok {
				value, present := named[name]
				if !present {
					return "", fmt.Errorf("no argument for placeholder @%s", name)
				}
				args = append(args, value)
				n = len(args)
				ordinals[name] = n
			}
			return "$" + strconv.Itoa(n), nil
		},
		positional: func(ordinal int) (string, error) {
			return "", fmt.Errorf("positional placeholder $%d in named query", ordinal)
		},
	})
	if err != nil {
		return "", nil, err
	}

	if len(ordinals) != len(named) {
		for name := range named {
			if _, ok := ordinals[name]; !ok {
				return "", nil, fmt.Errorf("argument %q not referenced by query", name)
			}
		}
	}

	return sqlText, args, nil
}

// render substitutes quoted literals for every placeholder. Display only.
func render(template string, args []any, named Args) (string, error) {
	return scanTemplate(template, placeholderVisitor{
		named: func(name string) (string, error) {
			value, ok := named[name]
			if !ok {
				return "", fmt.Errorf("no argument for placeholder @%s", name)
			}
			return literal(value), nil
		},
		positional: func(ordinal int) (string, error) {
			if ordinal < 1 || ordinal > len(args) {
				return "", fmt.Errorf("no argument for placeholder $%d", ordinal)
			}
			return literal(args[ordinal-1]), nil
		},
	})
}

// literal formats a value as a SQL literal for display. String-like values
// are single-quoted with embedded quotes doubled.
func literal(value any) string {
	switch v := value.(type) {
	case nil:
		return "NULL"
	case bool:
		if v {
			return "TRUE"
		}
		return "FALSE"
	case string:
		return quoteString(v)
	case []byte:
		return quoteString(string(v))
	case time.Time:
		return quoteString(v.Format(time.RFC3339Nano))
	case fmt.Stringer:
		return quoteString(v.String())
	default:
		return fmt.Sprintf("%v", v)
	}
}

func quoteString(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
