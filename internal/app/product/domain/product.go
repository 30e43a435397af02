package domain

import (
	"time"

	"github.com/light-bringer/procat-bind/internal/pkg/clock"
)

// ProductStatus represents the lifecycle status of a product
type ProductStatus string

const (
	StatusActive   ProductStatus = "active"
	StatusArchived ProductStatus = "archived"
)

// Product is the aggregate root for the catalog.
type Product struct {
	id          string
	name        string
	description string
	category    string
	price       *Money
	status      ProductStatus
	version     int64
	createdAt   time.Time
	updatedAt   time.Time
	archivedAt  *time.Time

	clock clock.Clock
}

// NewProduct creates a new active Product at version 1.
func NewProduct(id, name, description, category string, price *Money, clk clock.Clock) (*Product, error) {
	if name == "" {
		return nil, ErrEmptyName
	}
	if category == "" {
		return nil, ErrInvalidCategory
	}
	if price == nil || !price.IsPositive() {
		return nil, ErrInvalidPrice
	}

	now := clk.Now()
	return &Product{
		id:          id,
		name:        name,
		description: description,
		category:    category,
		price:       price.Copy(),
		status:      StatusActive,
		version:     1,
		createdAt:   now,
		updatedAt:   now,
		clock:       clk,
	}, nil
}

// ReconstructProduct reconstitutes a Product loaded from storage.
func ReconstructProduct(
	id, name, description, category string,
	price *Money,
	status ProductStatus,
	version int64,
	createdAt, updatedAt time.Time,
	archivedAt *time.Time,
	clk clock.Clock,
) *Product {
	return &Product{
		id:          id,
		name:        name,
		description: description,
		category:    category,
		price:       price,
		status:      status,
		version:     version,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
		archivedAt:  archivedAt,
		clock:       clk,
	}
}

func (p *Product) ID() string             { return p.id }
func (p *Product) Name() string           { return p.name }
func (p *Product) Description() string    { return p.description }
func (p *Product) Category() string       { return p.category }
func (p *Product) Price() *Money          { return p.price.Copy() }
func (p *Product) Status() ProductStatus  { return p.status }
func (p *Product) Version() int64         { return p.version }
func (p *Product) CreatedAt() time.Time   { return p.createdAt }
func (p *Product) UpdatedAt() time.Time   { return p.updatedAt }
func (p *Product) ArchivedAt() *time.Time { return p.archivedAt }

// ChangePrice sets a new price and bumps the version.
func (p *Product) ChangePrice(newPrice *Money) error {
	if p.status == StatusArchived {
		return ErrCannotModifyArchived
	}
	if newPrice == nil || !newPrice.IsPositive() {
		return ErrInvalidPrice
	}
	if p.price.Equals(newPrice) {
		return ErrSamePrice
	}

	p.price = newPrice.Copy()
	p.touch()
	return nil
}

// Archive marks the product archived and bumps the version.
func (p *Product) Archive() error {
	if p.status == StatusArchived {
		return ErrAlreadyArchived
	}

	now := p.clock.Now()
	p.status = StatusArchived
	p.archivedAt = &now
	p.touch()
	return nil
}

func (p *Product) touch() {
	p.updatedAt = p.clock.Now()
	p.version++
}
