package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the calendar date format used for last_updated.
const DateLayout = "2006-01-02"

// Product represents a single stock-keeping unit held in the warehouse.
type Product struct {
	ID                string          `json:"product_id" csv:"product_id" validate:"notblank"`
	Name              string          `json:"product_name" csv:"product_name" validate:"notblank"`
	Category          string          `json:"category" csv:"category" validate:"notblank"`
	Quantity          int             `json:"quantity" csv:"quantity" validate:"min=0"`
	UnitPrice         decimal.Decimal `json:"unit_price" csv:"unit_price" validate:"min=0"`
	ReorderLevel      int             `json:"reorder_level" csv:"reorder_level" validate:"min=0"`
	Supplier          string          `json:"supplier" csv:"supplier" validate:"notblank"`
	WarehouseLocation string          `json:"warehouse_location" csv:"warehouse_location"`
	LastUpdated       time.Time       `json:"last_updated" csv:"last_updated"`
}

// Value returns quantity * unit_price.
func (p Product) Value() decimal.Decimal {
	return p.UnitPrice.Mul(decimal.NewFromInt(int64(p.Quantity)))
}

// IsLowStock reports whether the product is at or below its reorder level.
func (p Product) IsLowStock() bool {
	return p.Quantity <= p.ReorderLevel
}

// ProductUpdate carries the fields to change on an existing product.
// A nil field is left untouched.
type ProductUpdate struct {
	Name              *string
	Category          *string
	Quantity          *int
	UnitPrice         *decimal.Decimal
	ReorderLevel      *int
	Supplier          *string
	WarehouseLocation *string
}

// IsEmpty reports whether the update changes nothing.
func (u ProductUpdate) IsEmpty() bool {
	return u.Name == nil && u.Category == nil && u.Quantity == nil && u.UnitPrice == nil &&
		u.ReorderLevel == nil && u.Supplier == nil && u.WarehouseLocation == nil
}

// Apply returns a copy of p with the supplied fields merged in.
func (u ProductUpdate) Apply(p Product) Product {
	if u.Name != nil {
		p.Name = *u.Name
	}
	if u.Category != nil {
		p.Category = *u.Category
	}
	if u.Quantity != nil {
		p.Quantity = *u.Quantity
	}
	if u.UnitPrice != nil {
		p.UnitPrice = *u.UnitPrice
	}
	if u.ReorderLevel != nil {
		p.ReorderLevel = *u.ReorderLevel
	}
	if u.Supplier != nil {
		p.Supplier = *u.Supplier
	}
	if u.WarehouseLocation != nil {
		p.WarehouseLocation = *u.WarehouseLocation
	}
	return p
}

// NormalizePrice stores currency at cent precision so the in-memory value
// always matches what the backing file can hold.
func NormalizePrice(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// DateOf truncates t to its calendar date in UTC.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
