package m_product

import (
	"fmt"
	"strings"
	"time"

	"github.com/light-bringer/procat-bind/internal/pkg/bind"
	"github.com/light-bringer/procat-bind/internal/pkg/query"
)

// MaxPageSize caps List page sizes.
const MaxPageSize = 100

// DefaultPageSize is used when a list request does not set a page size.
const DefaultPageSize = 50

// Model provides a facade for typed statements on the products table.
// Statements are driver-neutral and resolve with the model's factory.
type Model struct {
	factory *bind.Factory
}

// NewModel creates a new Model binding with f. Bind names double as column
// names and placeholders, so f must use a separator such as
// bind.ParamSeparator.
func NewModel(f *bind.Factory) (*Model, error) {
	if !f.ParamSafe() {
		return nil, fmt.Errorf("%w: separator %q does not produce column names", bind.ErrInvalidName, f.Separator())
	}
	return &Model{factory: f}, nil
}

// Factory returns the bind factory the model's statements resolve with.
func (m *Model) Factory() *bind.Factory {
	return m.factory
}

// InsertStmt creates an INSERT for a product. The column list is derived
// from the bindings of data so it cannot drift from the struct.
func (m *Model) InsertStmt(data *Data) (*bind.Statement, error) {
	bindings, err := m.factory.Bind(bind.Product(data))
	if err != nil {
		return nil, fmt.Errorf("failed to bind product: %w", err)
	}

	names := bindings.Names()
	placeholders := make([]string, len(names))
	for i, name := range names {
		placeholders[i] = "@" + name
	}

	sql := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		TableName,
		strings.Join(names, ", "),
		strings.Join(placeholders, ", "),
	)
	return bind.SQL(sql).With(bind.Product(data)), nil
}

// UpdatePriceStmt creates an UPDATE that sets the new price, guarded by the
// version the caller loaded.
func (m *Model) UpdatePriceStmt(productID string, price PriceData, expectedVersion int64, updatedAt time.Time) *bind.Statement {
	newParam := "@new" + m.factory.Separator()
	return bind.SQL(
		"UPDATE " + TableName + " SET " +
			BasePriceNumerator + " = " + newParam + "numerator, " +
			BasePriceDenominator + " = " + newParam + "denominator, " +
			Version + " = @expected_version + 1, " +
			UpdatedAt + " = @updated_at " +
			"WHERE " + ProductID + " = @product_id AND " + Version + " = @expected_version",
	).
		With(bind.Product(price).WithPrefix("new")).
		Param("product_id", productID).
		Param("expected_version", expectedVersion).
		Param("updated_at", updatedAt)
}

// ArchiveStmt creates an UPDATE that archives a product, guarded by version.
func (m *Model) ArchiveStmt(productID string, status string, archivedAt time.Time, expectedVersion int64) *bind.Statement {
	return bind.SQL(
		"UPDATE " + TableName + " SET " +
			Status + " = @status, " +
			ArchivedAt + " = @archived_at, " +
			UpdatedAt + " = @archived_at, " +
			Version + " = @expected_version + 1 " +
			"WHERE " + ProductID + " = @product_id AND " + Version + " = @expected_version",
	).
		Param("product_id", productID).
		Param("status", status).
		Param("archived_at", archivedAt).
		Param("expected_version", expectedVersion)
}

// DeleteStmt creates a DELETE for a product (hard delete).
func (m *Model) DeleteStmt(productID string) *bind.Statement {
	return bind.SQL("DELETE FROM " + TableName + " WHERE " + ProductID + " = @product_id").
		Param("product_id", productID)
}

// SelectByIDStmt selects a single product.
func (m *Model) SelectByIDStmt(productID string) (*bind.Statement, error) {
	return query.From(TableName).
		Select(Columns...).
		Where(query.Eq(ProductID, productID)).
		Build()
}

// ListStmt selects products matching filter, newest first.
func (m *Model) ListStmt(filter Filter, pageSize int, offset int64) (*bind.Statement, error) {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}

	return query.From(TableName).
		Select(Columns...).
		Where(query.Match(m.factory, bind.Product(filter).WithPrefix("filter"))).
		OrderBy(CreatedAt, query.Desc).
		Limit(int64(pageSize)).
		Offset(offset).
		Build()
}
