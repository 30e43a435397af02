package query

import (
	"fmt"
	"sort"
	"strings"

	"github.com/light-bringer/procat-bind/internal/pkg/bind"
)

// Direction represents ORDER BY direction.
type Direction int

const (
	// Asc represents ascending order.
	Asc Direction = iota
	// Desc represents descending order.
	Desc
)

// Builder constructs SQL SELECT queries with WHERE clauses, ORDER BY, LIMIT
// and OFFSET. Parameter names are generated so callers never keep SQL text
// and parameter maps in sync by hand. The result is a bind.Statement, which
// resolves for both Spanner and pgx.
type Builder struct {
	table        string
	selectCols   []string
	whereClauses []Condition
	orderByCol   string
	orderByDir   Direction
	limitVal     int64
	offsetVal    int64
}

// From creates a new Builder for the specified table.
func From(table string) *Builder {
	return &Builder{
		table:        table,
		selectCols:   []string{},
		whereClauses: []Condition{},
	}
}

// Select specifies the columns to retrieve.
func (b *Builder) Select(columns ...string) *Builder {
	newBuilder := b.clone()
	newBuilder.selectCols = append(newBuilder.selectCols, columns...)
	return newBuilder
}

// Where adds a WHERE condition.
// Multiple calls are combined with AND logic.
func (b *Builder) Where(condition Condition) *Builder {
	newBuilder := b.clone()
	newBuilder.whereClauses = append(newBuilder.whereClauses, condition)
	return newBuilder
}

// OrderBy specifies the column and direction for sorting.
func (b *Builder) OrderBy(column string, direction Direction) *Builder {
	newBuilder := b.clone()
	newBuilder.orderByCol = column
	newBuilder.orderByDir = direction
	return newBuilder
}

// Limit sets the maximum number of rows to return.
func (b *Builder) Limit(limit int64) *Builder {
	newBuilder := b.clone()
	newBuilder.limitVal = limit
	return newBuilder
}

// Offset sets the number of rows to skip.
func (b *Builder) Offset(offset int64) *Builder {
	newBuilder := b.clone()
	newBuilder.offsetVal = offset
	return newBuilder
}

// Count returns a new builder that generates a COUNT(*) query
// with the same FROM and WHERE clauses.
func (b *Builder) Count() *Builder {
	newBuilder := b.clone()
	newBuilder.selectCols = []string{"COUNT(*)"}
	newBuilder.limitVal = 0
	newBuilder.offsetVal = 0
	newBuilder.orderByCol = ""
	return newBuilder
}

// Build constructs the statement. Two conditions producing the same
// parameter name are reported as bind.ErrDuplicateName.
func (b *Builder) Build() (*bind.Statement, error) {
	var sql strings.Builder
	params := make(map[string]interface{})
	order := make([]string, 0)
	addParam := func(name string, v interface{}) error {
		if _, dup := params[name]; dup {
			return fmt.Errorf("%w: %q", bind.ErrDuplicateName, name)
		}
		params[name] = v
		order = append(order, name)
		return nil
	}

	sql.WriteString("SELECT ")
	if len(b.selectCols) == 0 {
		sql.WriteString("*")
	} else {
		sql.WriteString(strings.Join(b.selectCols, ", "))
	}

	sql.WriteString(" FROM ")
	sql.WriteString(b.table)

	if len(b.whereClauses) > 0 {
		sql.WriteString(" WHERE ")
		whereParts := make([]string, 0, len(b.whereClauses))
		paramIndex := 0
		for _, condition := range b.whereClauses {
			fragment, condParams, err := condition.SQL(paramIndex)
			if err != nil {
				return nil, err
			}
			whereParts = append(whereParts, fragment)
			names := make([]string, 0, len(condParams))
			for k := range condParams {
				names = append(names, k)
			}
			sort.Strings(names)
			for _, k := range names {
				if err := addParam(k, condParams[k]); err != nil {
					return nil, err
				}
			}
			paramIndex += len(condParams)
		}
		sql.WriteString(strings.Join(whereParts, " AND "))
	}

	if b.orderByCol != "" {
		sql.WriteString(" ORDER BY ")
		sql.WriteString(b.orderByCol)
		if b.orderByDir == Desc {
			sql.WriteString(" DESC")
		} else {
			sql.WriteString(" ASC")
		}
	}

	if b.limitVal > 0 {
		sql.WriteString(" LIMIT @limit")
		if err := addParam("limit", b.limitVal); err != nil {
			return nil, err
		}
	}

	if b.offsetVal > 0 {
		sql.WriteString(" OFFSET @offset")
		if err := addParam("offset", b.offsetVal); err != nil {
			return nil, err
		}
	}

	stmt := bind.SQL(sql.String())
	for _, k := range order {
		stmt = stmt.Param(k, params[k])
	}
	return stmt, nil
}

// clone creates a shallow copy of the builder for immutability.
func (b *Builder) clone() *Builder {
	newBuilder := &Builder{
		table:        b.table,
		selectCols:   make([]string, len(b.selectCols)),
		whereClauses: make([]Condition, len(b.whereClauses)),
		orderByCol:   b.orderByCol,
		orderByDir:   b.orderByDir,
		limitVal:     b.limitVal,
		offsetVal:    b.offsetVal,
	}
	copy(newBuilder.selectCols, b.selectCols)
	copy(newBuilder.whereClauses, b.whereClauses)
	return newBuilder
}

// String returns a human-readable representation for debugging.
func (b *Builder) String() string {
	stmt, err := b.Build()
	if err != nil {
		return fmt.Sprintf("invalid query: %v", err)
	}
	return stmt.String()
}
