package bind

import (
	"fmt"
	"sort"
	"strings"

	"cloud.google.com/go/spanner"
	"github.com/jackc/pgx/v5"
)

// Statement is a SQL statement with @name placeholders together with the
// marked values and explicit parameters that fill them. It does not depend
// on a driver until it is resolved.
//
// Builder methods return a new Statement; the receiver is never modified.
type Statement struct {
	sql    string
	args   []Arg
	params []Binding
}

// SQL starts a statement.
func SQL(text string) *Statement {
	return &Statement{sql: text}
}

// With adds marked values to the statement.
func (s *Statement) With(args ...Arg) *Statement {
	next := s.clone()
	next.args = append(next.args, args...)
	return next
}

// Param adds a single named parameter.
func (s *Statement) Param(name string, v any) *Statement {
	next := s.clone()
	next.params = append(next.params, Binding{Name: name, Field: name, Value: v})
	return next
}

// Text returns the SQL text.
func (s *Statement) Text() string {
	return s.sql
}

// Resolved is a statement whose bindings have been produced by a Factory.
type Resolved struct {
	SQL    string
	Params map[string]any
	// Unused lists bound names the SQL never references, sorted.
	Unused []string
}

// Dialect selects the lexical rules used to find placeholders in SQL text.
type Dialect int

const (
	// GoogleSQL is the Spanner dialect. Backslash escapes apply in every quoted
	// string and backquoted identifier except raw (r'...') strings.
	GoogleSQL Dialect = iota

	// PostgreSQL uses standard conforming strings. Backslash is an ordinary
	// character except inside E'...' strings; double quotes delimit identifiers.
	PostgreSQL
)

// String implements fmt.Stringer.
func (d Dialect) String() string {
	if d == PostgreSQL {
		return "postgresql"
	}
	return "googlesql"
}

// Resolve resolves the statement with GoogleSQL lexical rules.
func (s *Statement) Resolve(f *Factory) (Resolved, error) {
	return s.ResolveDialect(f, GoogleSQL)
}

// ResolveDialect binds every marked value with f, merges explicit parameters
// and checks them against the placeholders in the SQL text. Bound names the
// SQL does not reference are left out of Params.
func (s *Statement) ResolveDialect(f *Factory, dialect Dialect) (Resolved, error) {
	bound, err := f.BindAll(s.args...)
	if err != nil {
		return Resolved{}, err
	}

	all := make(map[string]any, len(bound)+len(s.params))
	for _, b := range bound {
		if !ValidName(b.Name) {
			return Resolved{}, fmt.Errorf("%w: %q cannot be an @name placeholder (separator %q)", ErrInvalidName, b.Name, f.Separator())
		}
		all[b.Name] = b.Value
	}
	for _, p := range s.params {
		if !ValidName(p.Name) {
			return Resolved{}, fmt.Errorf("%w: %q", ErrInvalidName, p.Name)
		}
		if _, dup := all[p.Name]; dup {
			return Resolved{}, fmt.Errorf("%w: %q", ErrDuplicateName, p.Name)
		}
		all[p.Name] = p.Value
	}

	refs := Placeholders(s.sql, dialect)
	params := make(map[string]any, len(refs))
	for _, name := range refs {
		v, ok := all[name]
		if !ok {
			return Resolved{}, fmt.Errorf("%w: @%s", ErrMissingParam, name)
		}
		params[name] = v
	}

	var unused []string
	for name := range all {
		if _, ok := params[name]; !ok {
			unused = append(unused, name)
		}
	}
	sort.Strings(unused)

	return Resolved{SQL: s.sql, Params: params, Unused: unused}, nil
}

// Spanner resolves the statement into a spanner.Statement.
func (s *Statement) Spanner(f *Factory) (spanner.Statement, error) {
	r, err := s.ResolveDialect(f, GoogleSQL)
	if err != nil {
		return spanner.Statement{}, err
	}
	return spanner.Statement{SQL: r.SQL, Params: r.Params}, nil
}

// NamedArgs resolves the statement into SQL and pgx named arguments.
// pgx rewrites the @name placeholders when the NamedArgs value is passed as
// the first query argument.
func (s *Statement) NamedArgs(f *Factory) (string, pgx.NamedArgs, error) {
	r, err := s.ResolveDialect(f, PostgreSQL)
	if err != nil {
		return "", nil, err
	}
	return r.SQL, pgx.NamedArgs(r.Params), nil
}

// String returns a human-readable representation for debugging.
func (s *Statement) String() string {
	return fmt.Sprintf("SQL: %s\nArgs: %d\nParams: %d", s.sql, len(s.args), len(s.params))
}

func (s *Statement) clone() *Statement {
	return &Statement{
		sql:    s.sql,
		args:   append([]Arg(nil), s.args...),
		params: append([]Binding(nil), s.params...),
	}
}

////////////////////////////////////////////////////////////////////////////////

// ValidName reports whether name can follow @ as a placeholder.
func ValidName(name string) bool {
	if name == "" || !isIdentStart(name[0]) {
		return false
	}
	for i := 1; i < len(name); i++ {
		if !isIdentPart(name[i]) {
			return false
		}
	}
	return true
}

// Placeholders returns the distinct @name placeholders in sql, in order of
// first appearance. String literals, quoted identifiers, comments, @@system
// variables and @{hints} are skipped according to dialect.
func Placeholders(sql string, dialect Dialect) []string {
	var names []string
	seen := make(map[string]struct{})

	for i := 0; i < len(sql); i++ {
		c := sql[i]
		switch {
		case c == '\'' || c == '"' || (c == '`' && dialect == GoogleSQL):
			i = skipQuoted(sql, i, dialect)
		case c == '-' && i+1 < len(sql) && sql[i+1] == '-':
			i = skipUntil(sql, i+2, "\n")
		case c == '/' && i+1 < len(sql) && sql[i+1] == '*':
			i = skipUntil(sql, i+2, "*/")
		case c == '@':
			if i+1 < len(sql) && (sql[i+1] == '@' || sql[i+1] == '{') {
				i++
				continue
			}
			j := i + 1
			if j >= len(sql) || !isIdentStart(sql[j]) {
				continue
			}
			for j < len(sql) && isIdentPart(sql[j]) {
				j++
			}
			name := sql[i+1 : j]
			if _, ok := seen[name]; !ok {
				seen[name] = struct{}{}
				names = append(names, name)
			}
			i = j - 1
		}
	}

	return names
}

// skipQuoted returns the index of the last character of the quoted text
// starting at start. Doubled quotes never end the text.
func skipQuoted(sql string, start int, dialect Dialect) int {
	quote := sql[start]
	prefix := literalPrefix(sql, start)

	var escapes bool
	switch dialect {
	case PostgreSQL:
		escapes = quote == '\'' && prefix == "e"
	default:
		escapes = !strings.Contains(prefix, "r")
	}

	triple := dialect == GoogleSQL && quote != '`' &&
		start+2 < len(sql) && sql[start+1] == quote && sql[start+2] == quote
	from := start + 1
	if triple {
		from = start + 3
	}

	for i := from; i < len(sql); i++ {
		switch sql[i] {
		case '\\':
			if escapes {
				i++
			}
		case quote:
			if triple {
				if i+2 < len(sql) && sql[i+1] == quote && sql[i+2] == quote {
					return i + 2
				}
				continue
			}
			if i+1 < len(sql) && sql[i+1] == quote {
				i++
				continue
			}
			return i
		}
	}
	return len(sql)
}

// literalPrefix returns the lower-cased letters (at most two) written directly
// before a quote, such as e, r or rb, unless they end a longer identifier.
func literalPrefix(sql string, quote int) string {
	j := quote
	for j > 0 && quote-j < 2 && isLetter(sql[j-1]) {
		j--
	}
	if j > 0 && isIdentPart(sql[j-1]) {
		return ""
	}
	return strings.ToLower(sql[j:quote])
}

func skipUntil(sql string, start int, end string) int {
	for i := start; i+len(end) <= len(sql); i++ {
		if sql[i:i+len(end)] == end {
			return i + len(end) - 1
		}
	}
	return len(sql)
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentStart(c byte) bool {
	return c == '_' || isLetter(c)
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}
