package query

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name      string
		template  string
		args      []any
		expectErr error
	}{
		{
			name:     "no arguments",
			template: "SELECT 1",
		},
		{
			name:     "positional arguments",
			template: "SELECT * FROM options WHERE name = $1",
			args:     []any{"first"},
		},
		{
			name:     "named arguments",
			template: "SELECT * FROM options WHERE name = @name",
			args:     []any{Args{"name": "first"}},
		},
		{
			name:      "mixed arguments",
			template:  "SELECT * FROM options WHERE name = @name AND value = $1",
			args:      []any{"one", Args{"name": "first"}},
			expectErr: ErrMixedArgs,
		},
		{
			name:      "mixed arguments with named first",
			template:  "SELECT * FROM options WHERE name = @name AND value = $1",
			args:      []any{Args{"name": "first"}, "one"},
			expectErr: ErrMixedArgs,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := New(tt.template, tt.args...)
			if tt.expectErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.expectErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.template, q.Template())
		})
	}
}

func TestMustNew_Panics(t *testing.T) {
	assert.Panics(t, func() {
		MustNew("SELECT $1 @x", 1, Args{"x": 2})
	})
}

func TestQuery_Bind(t *testing.T) {
	tests := []struct {
		name       string
		template   string
		args       []any
		expectSQL  string
		expectArgs []any
		expectErr  string
	}{
		{
			name:       "positional passthrough",
			template:   "SELECT * FROM options WHERE name = $1 AND value = $2",
			args:       []any{"first", "one"},
			expectSQL:  "SELECT * FROM options WHERE name = $1 AND value = $2",
			expectArgs: []any{"first", "one"},
		},
		{
			name:       "named rewrite in appearance order",
			template:   "INSERT INTO options (name, value) VALUES (@name, @value)",
			args:       []any{Args{"value": "one", "name": "first"}},
			expectSQL:  "INSERT INTO options (name, value) VALUES ($1, $2)",
			expectArgs: []any{"first", "one"},
		},
		{
			name:       "repeated named placeholder shares ordinal",
			template:   "SELECT @w * 2 AS width, @w AS half, @min AS lo",
			args:       []any{Args{"w": 10, "min": -5}},
			expectSQL:  "SELECT $1 * 2 AS width, $1 AS half, $2 AS lo",
			expectArgs: []any{10, -5},
		},
		{
			name:      "placeholder without argument",
			template:  "SELECT * FROM options WHERE name = @name",
			args:      []any{Args{"nom": "first"}},
			expectErr: "no argument for placeholder @name",
		},
		{
			name:      "argument without placeholder",
			template:  "SELECT * FROM options WHERE name = @name",
			args:      []any{Args{"name": "first", "value": "one"}},
			expectErr: `argument "value" not referenced`,
		},
		{
			name:       "placeholder inside string literal ignored",
			template:   "SELECT '@name' AS tag, name FROM options WHERE name = @name",
			args:       []any{Args{"name": "first"}},
			expectSQL:  "SELECT '@name' AS tag, name FROM options WHERE name = $1",
			expectArgs: []any{"first"},
		},
		{
			name:       "placeholder inside comment ignored",
			template:   "SELECT name FROM options -- match @name\nWHERE name = @name",
			args:       []any{Args{"name": "first"}},
			expectSQL:  "SELECT name FROM options -- match @name\nWHERE name = $1",
			expectArgs: []any{"first"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := New(tt.template, tt.args...)
			require.NoError(t, err)

			sqlText, boundArgs, err := q.Bind()
			if tt.expectErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expectSQL, sqlText)
			assert.Equal(t, tt.expectArgs, boundArgs)
		})
	}
}

func TestQuery_String(t *testing.T) {
	ts := time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)

	tests := []struct {
		name     string
		template string
		args     []any
		expect   string
	}{
		{
			name:     "named string argument is quoted",
			template: "SELECT * FROM t WHERE name = @name",
			args:     []any{Args{"name": "x"}},
			expect:   "SELECT * FROM t WHERE name = 'x'",
		},
		{
			name:     "positional arguments by ordinal",
			template: "UPDATE options SET value = $2 WHERE name = $1",
			args:     []any{"first", "The One"},
			expect:   "UPDATE options SET value = 'The One' WHERE name = 'first'",
		},
		{
			name:     "embedded quote is doubled",
			template: "SELECT * FROM t WHERE name = @name",
			args:     []any{Args{"name": "o'brien"}},
			expect:   "SELECT * FROM t WHERE name = 'o''brien'",
		},
		{
			name:     "numeric and nil arguments",
			template: "SELECT $1 + $2, $3",
			args:     []any{1, 2.5, nil},
			expect:   "SELECT 1 + 2.5, NULL",
		},
		{
			name:     "bool and time arguments",
			template: "SELECT @ok, @at",
			args:     []any{Args{"ok": true, "at": ts}},
			expect:   "SELECT TRUE, '2024-03-01T12:30:00Z'",
		},
		{
			name:     "no arguments",
			template: "SELECT * FROM options ORDER BY LOWER(name)",
			args:     nil,
			expect:   "SELECT * FROM options ORDER BY LOWER(name)",
		},
		{
			name:     "missing argument falls back to template",
			template: "SELECT * FROM t WHERE name = @name",
			args:     []any{Args{}},
			expect:   "SELECT * FROM t WHERE name = @name",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := New(tt.template, tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.expect, q.String())
		})
	}
}
