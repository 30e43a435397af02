package m_product

// Field name constants for the products table.
const (
	TableName = "products"

	ProductID            = "product_id"
	Name                 = "name"
	Description          = "description"
	Category             = "category"
	BasePriceNumerator   = "base_price_numerator"
	BasePriceDenominator = "base_price_denominator"
	Status               = "status"
	Version              = "version"
	CreatedAt            = "created_at"
	UpdatedAt            = "updated_at"
	ArchivedAt           = "archived_at"
)

// Columns lists every column in table order.
var Columns = []string{
	ProductID,
	Name,
	Description,
	Category,
	BasePriceNumerator,
	BasePriceDenominator,
	Status,
	Version,
	CreatedAt,
	UpdatedAt,
	ArchivedAt,
}
