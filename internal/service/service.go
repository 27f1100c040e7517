package service

import (
	"inventory-tracker/internal/model"
)

// AnalyticsService defines read-only derived views and exports over the record store.
type AnalyticsService interface {
	// StockDistribution partitions every product into critical, low, normal and high buckets.
	StockDistribution() model.StockDistribution

	// TopProductsByValue ranks products by quantity * unit_price, highest first,
	// ties broken by product ID. n is clamped to the store size; n <= 0 returns none.
	TopProductsByValue(n int) []model.RankedProduct

	// CategoryAnalysis returns the category summary with each category's share
	// of the total inventory value, largest first.
	CategoryAnalysis() []model.CategoryShare

	// SupplierPerformance rolls products up by supplier, largest value first.
	SupplierPerformance() []model.SupplierStats

	// ReorderRecommendations suggests a restock quantity for every low-stock product.
	ReorderRecommendations() []model.ReorderRecommendation

	// Summary returns the headline figures for the whole inventory.
	Summary() model.InventorySummary

	// ExportInventoryCSV writes every product to path in the backing-file format.
	ExportInventoryCSV(path string) error

	// ExportLowStockJSON writes the low-stock products with their recommended order quantity.
	ExportLowStockJSON(path string) error

	// ExportCategorySummaryJSON writes the category analysis keyed by category name.
	ExportCategorySummaryJSON(path string) error
}
