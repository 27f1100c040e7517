package repository

import (
	"context"

	"inventory-tracker/internal/model"

	"github.com/shopspring/decimal"
)

// ProductReader defines the read-only operations over the product records.
// Every returned product is a copy; mutating it does not affect the store.
type ProductReader interface {
	// GetProduct retrieves a single product by its ID.
	// Returns an error matching model.ErrNotFound for an unknown ID.
	GetProduct(id string) (model.Product, error)

	// ListProducts returns every product in insertion order.
	ListProducts() []model.Product

	// Count returns the number of products held.
	Count() int

	// SearchProducts returns products whose name or category contains keyword,
	// ignoring case. An empty keyword matches nothing.
	SearchProducts(keyword string) []model.Product

	// FilterByCategory returns products whose category equals category, ignoring case.
	FilterByCategory(category string) []model.Product

	// FilterBySupplier returns products whose supplier equals supplier, ignoring case.
	FilterBySupplier(supplier string) []model.Product

	// GetLowStockItems returns products with quantity at or below their reorder level.
	GetLowStockItems() []model.Product

	// TotalInventoryValue returns the exact sum of quantity * unit_price.
	TotalInventoryValue() decimal.Decimal

	// TotalQuantity returns the number of units on hand across all products.
	TotalQuantity() int

	// CategorySummary groups products by category, in order of first appearance.
	CategorySummary() []model.CategoryStats
}

// ProductRepository defines the full record store: reads plus persisted mutations.
// Every successful mutation rewrites the backing file before returning.
type ProductRepository interface {
	ProductReader

	// Load replaces the in-memory records with the contents of the backing file.
	// Malformed rows are skipped and listed in the report.
	Load(ctx context.Context) (*LoadReport, error)

	// AddProduct validates and inserts a new product, stamping last_updated.
	AddProduct(p model.Product) (model.Product, error)

	// UpdateProduct merges the supplied fields into an existing product.
	UpdateProduct(id string, update model.ProductUpdate) (model.Product, error)

	// DeleteProduct removes a product.
	DeleteProduct(id string) error

	// UpdateQuantity adds delta to the product's quantity.
	// Returns an error matching model.ErrInsufficientStock if the result would be negative.
	UpdateQuantity(id string, delta int) (model.Product, error)
}

// LoadReport summarises a bulk load.
type LoadReport struct {
	Loaded  int
	Skipped []*model.MalformedRecordError
}
