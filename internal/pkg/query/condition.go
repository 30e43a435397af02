package query

import (
	"fmt"
	"reflect"

	"github.com/light-bringer/procat-bind/internal/pkg/bind"
)

// Condition represents a WHERE clause condition.
// Implementations generate SQL fragments and parameter maps using the
// named parameter format (@paramName) understood by Spanner and pgx.
type Condition interface {
	// SQL returns the SQL fragment and parameter map for this condition.
	// paramIndex is used to generate unique parameter names (@p0, @p1, etc.)
	SQL(paramIndex int) (string, map[string]interface{}, error)
}

// eqCondition implements equality comparison (field = value).
type eqCondition struct {
	field string
	value interface{}
}

// Eq creates a WHERE condition for equality comparison.
// Example: Eq("status", "active") generates "status = @p0"
func Eq(field string, value interface{}) Condition {
	return &eqCondition{
		field: field,
		value: value,
	}
}

func (c *eqCondition) SQL(paramIndex int) (string, map[string]interface{}, error) {
	paramName := fmt.Sprintf("p%d", paramIndex)
	return fmt.Sprintf("%s = @%s", c.field, paramName), map[string]interface{}{
		paramName: c.value,
	}, nil
}

// IsNull creates a WHERE condition for NULL checks.
func IsNull(field string) Condition {
	return &nullCondition{field: field}
}

// IsNotNull creates a WHERE condition for NOT NULL checks.
func IsNotNull(field string) Condition {
	return &nullCondition{field: field, not: true}
}

type nullCondition struct {
	field string
	not   bool
}

func (c *nullCondition) SQL(int) (string, map[string]interface{}, error) {
	if c.not {
		return c.field + " IS NOT NULL", map[string]interface{}{}, nil
	}
	return c.field + " IS NULL", map[string]interface{}{}, nil
}

// matchCondition compares every bound field of a marked value with its column.
type matchCondition struct {
	factory *bind.Factory
	arg     bind.Arg
}

// Match creates a query-by-example condition: one "column = @name" term per
// binding the factory produces for arg, joined with AND. Columns are the
// unprefixed field names, parameters use the prefixed names. Nil values
// become "column IS NULL".
//
// Example: Match(f, bind.Product(filter).WithPrefix("filter")) with a filter
// binding category generates "category = @filter_category".
func Match(f *bind.Factory, arg bind.Arg) Condition {
	return &matchCondition{factory: f, arg: arg}
}

func (c *matchCondition) SQL(int) (string, map[string]interface{}, error) {
	bindings, err := c.factory.Bind(c.arg)
	if err != nil {
		return "", nil, fmt.Errorf("failed to bind match condition: %w", err)
	}

	params := make(map[string]interface{}, len(bindings))
	if len(bindings) == 0 {
		return "TRUE", params, nil
	}

	var sql string
	for i, b := range bindings {
		if i > 0 {
			sql += " AND "
		}
		if isNil(b.Value) {
			sql += b.Field + " IS NULL"
			continue
		}
		sql += fmt.Sprintf("%s = @%s", b.Field, b.Name)
		params[b.Name] = b.Value
	}
	return sql, params, nil
}

func isNil(v interface{}) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface:
		return rv.IsNil()
	}
	return false
}
