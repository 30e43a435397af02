package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/light-bringer/procat-bind/internal/pkg/bind"
)

var factory = bind.NewFactory(bind.WithSeparator(bind.ParamSeparator))

type productFilter struct {
	Category string  `bind:"category,omitempty"`
	Status   string  `bind:"status,omitempty"`
	Archived *string `bind:"archived_at"`
}

func resolve(t *testing.T, b *Builder) bind.Resolved {
	t.Helper()
	stmt, err := b.Build()
	require.NoError(t, err)
	r, err := stmt.Resolve(factory)
	require.NoError(t, err)
	return r
}

func TestBuilder_BasicSelect(t *testing.T) {
	r := resolve(t, From("products").Select("product_id", "name", "category"))

	assert.Equal(t, "SELECT product_id, name, category FROM products", r.SQL)
	assert.Empty(t, r.Params)
}

func TestBuilder_SelectAllColumns(t *testing.T) {
	r := resolve(t, From("products"))

	assert.Equal(t, "SELECT * FROM products", r.SQL)
	assert.Empty(t, r.Params)
}

func TestBuilder_MultipleWhereConditions(t *testing.T) {
	r := resolve(t, From("products").
		Select("product_id", "name").
		Where(Eq("category", "electronics")).
		Where(Eq("status", "active")))

	assert.Equal(t, "SELECT product_id, name FROM products WHERE category = @p0 AND status = @p1", r.SQL)
	assert.Equal(t, map[string]interface{}{
		"p0": "electronics",
		"p1": "active",
	}, r.Params)
}

func TestBuilder_CompleteQuery(t *testing.T) {
	r := resolve(t, From("products").
		Select("product_id", "name", "category", "status").
		Where(Eq("category", "electronics")).
		Where(Eq("status", "active")).
		OrderBy("created_at", Desc).
		Limit(50).
		Offset(100))

	expectedSQL := "SELECT product_id, name, category, status FROM products WHERE category = @p0 AND status = @p1 ORDER BY created_at DESC LIMIT @limit OFFSET @offset"
	assert.Equal(t, expectedSQL, r.SQL)
	assert.Equal(t, map[string]interface{}{
		"p0":     "electronics",
		"p1":     "active",
		"limit":  int64(50),
		"offset": int64(100),
	}, r.Params)
}

func TestBuilder_OrderByAsc(t *testing.T) {
	r := resolve(t, From("products").Select("product_id").OrderBy("created_at", Asc))
	assert.Equal(t, "SELECT product_id FROM products ORDER BY created_at ASC", r.SQL)
}

func TestBuilder_Count(t *testing.T) {
	builder := From("products").
		Select("product_id", "name", "category").
		Where(Eq("category", "electronics")).
		OrderBy("created_at", Desc).
		Limit(50).
		Offset(100)

	countR := resolve(t, builder.Count())
	assert.Equal(t, "SELECT COUNT(*) FROM products WHERE category = @p0", countR.SQL)
	assert.Equal(t, map[string]interface{}{"p0": "electronics"}, countR.Params)

	mainR := resolve(t, builder)
	assert.Contains(t, mainR.SQL, "LIMIT @limit OFFSET @offset")
}

func TestBuilder_Immutability(t *testing.T) {
	base := From("products").Select("product_id")

	r1 := resolve(t, base.Where(Eq("status", "active")))
	r2 := resolve(t, base.Where(Eq("category", "electronics")))

	assert.Contains(t, r1.SQL, "status = @p0")
	assert.NotContains(t, r1.SQL, "category")
	assert.Contains(t, r2.SQL, "category = @p0")
	assert.NotContains(t, r2.SQL, "status")
}

func TestCondition_Eq(t *testing.T) {
	sql, params, err := Eq("category", "electronics").SQL(5)
	require.NoError(t, err)

	assert.Equal(t, "category = @p5", sql)
	assert.Equal(t, map[string]interface{}{"p5": "electronics"}, params)
}

func TestCondition_NullChecks(t *testing.T) {
	sql, params, err := IsNull("archived_at").SQL(0)
	require.NoError(t, err)
	assert.Equal(t, "archived_at IS NULL", sql)
	assert.Empty(t, params)

	sql, _, err = IsNotNull("archived_at").SQL(0)
	require.NoError(t, err)
	assert.Equal(t, "archived_at IS NOT NULL", sql)
}

func TestCondition_MatchPrefixed(t *testing.T) {
	filter := productFilter{Category: "electronics"}

	sql, params, err := Match(factory, bind.Product(filter).WithPrefix("filter")).SQL(0)
	require.NoError(t, err)

	assert.Equal(t, "category = @filter_category AND archived_at IS NULL", sql)
	assert.Equal(t, map[string]interface{}{"filter_category": "electronics"}, params)
}

func TestCondition_MatchEmpty(t *testing.T) {
	sql, params, err := Match(factory, bind.Product(map[string]any{})).SQL(0)
	require.NoError(t, err)
	assert.Equal(t, "TRUE", sql)
	assert.Empty(t, params)
}

func TestCondition_MatchBindError(t *testing.T) {
	_, _, err := Match(factory, bind.Product(nil)).SQL(0)
	assert.ErrorIs(t, err, bind.ErrNilValue)
}

func TestBuilder_WhereWithMatch(t *testing.T) {
	r := resolve(t, From("products").
		Select("product_id").
		Where(Eq("version", int64(3))).
		Where(Match(factory, bind.Product(productFilter{Category: "toys", Status: "active"}).WithPrefix("f"))).
		Limit(10))

	assert.Equal(t,
		"SELECT product_id FROM products WHERE version = @p0 AND category = @f_category AND status = @f_status AND archived_at IS NULL LIMIT @limit",
		r.SQL)
	assert.Equal(t, map[string]interface{}{
		"p0":         int64(3),
		"f_category": "toys",
		"f_status":   "active",
		"limit":      int64(10),
	}, r.Params)
}

func TestBuilder_DuplicateMatchParams(t *testing.T) {
	_, err := From("products").
		Where(Match(factory, bind.Product(productFilter{Category: "a"}))).
		Where(Match(factory, bind.Product(productFilter{Category: "b"}))).
		Build()

	assert.ErrorIs(t, err, bind.ErrDuplicateName)
}

func TestBuilder_MatchCollidesWithLimit(t *testing.T) {
	_, err := From("products").
		Where(Match(factory, bind.Product(map[string]interface{}{"limit": int64(5)}))).
		Limit(10).
		Build()
	assert.ErrorIs(t, err, bind.ErrDuplicateName)

	_, err = From("products").
		Where(Eq("category", "toys")).
		Where(Match(factory, bind.Product(map[string]interface{}{"offset": int64(5)}))).
		Offset(20).
		Build()
	assert.ErrorIs(t, err, bind.ErrDuplicateName)
}

func TestBuilder_String(t *testing.T) {
	str := From("products").Select("product_id").Where(Eq("status", "active")).String()
	require.NotEmpty(t, str)
	assert.Contains(t, str, "SQL:")
	assert.Contains(t, str, "products")

	bad := From("products").Where(Match(factory, bind.Product(1))).String()
	assert.Contains(t, bad, "invalid query")
}
