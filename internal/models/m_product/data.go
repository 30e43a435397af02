package m_product

import (
	"time"
)

// Data represents the database model for the products table.
// The spanner and db tags name the columns for Spanner row decoding, pgx
// row scanning and bind variables alike.
type Data struct {
	ProductID   string     `spanner:"product_id" db:"product_id"`
	Name        string     `spanner:"name" db:"name"`
	Description string     `spanner:"description" db:"description"`
	Category    string     `spanner:"category" db:"category"`
	Price       PriceData  `spanner:"-" db:"-" bind:"base_price"`
	Status      string     `spanner:"status" db:"status"`
	Version     int64      `spanner:"version" db:"version"`
	CreatedAt   time.Time  `spanner:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `spanner:"updated_at" db:"updated_at"`
	ArchivedAt  *time.Time `spanner:"archived_at" db:"archived_at"`
}

// PriceData is a price stored as a normalized fraction.
// Bound through Data it yields base_price_numerator and base_price_denominator.
type PriceData struct {
	Numerator   int64 `bind:"numerator"`
	Denominator int64 `bind:"denominator"`
}

// Row is the flat shape of a products row as returned by SELECT.
type Row struct {
	ProductID            string     `spanner:"product_id" db:"product_id"`
	Name                 string     `spanner:"name" db:"name"`
	Description          string     `spanner:"description" db:"description"`
	Category             string     `spanner:"category" db:"category"`
	BasePriceNumerator   int64      `spanner:"base_price_numerator" db:"base_price_numerator"`
	BasePriceDenominator int64      `spanner:"base_price_denominator" db:"base_price_denominator"`
	Status               string     `spanner:"status" db:"status"`
	Version              int64      `spanner:"version" db:"version"`
	CreatedAt            time.Time  `spanner:"created_at" db:"created_at"`
	UpdatedAt            time.Time  `spanner:"updated_at" db:"updated_at"`
	ArchivedAt           *time.Time `spanner:"archived_at" db:"archived_at"`
}

// Data converts a scanned row into Data.
func (r *Row) Data() *Data {
	return &Data{
		ProductID:   r.ProductID,
		Name:        r.Name,
		Description: r.Description,
		Category:    r.Category,
		Price:       PriceData{Numerator: r.BasePriceNumerator, Denominator: r.BasePriceDenominator},
		Status:      r.Status,
		Version:     r.Version,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
		ArchivedAt:  r.ArchivedAt,
	}
}

// Filter selects products by example. Empty fields are ignored.
type Filter struct {
	Category string `bind:"category,omitempty"`
	Status   string `bind:"status,omitempty"`
}
