package model

import "github.com/shopspring/decimal"

// CategoryStats is the per-category rollup computed by the record store.
type CategoryStats struct {
	Category      string
	Count         int
	TotalQuantity int
	TotalValue    decimal.Decimal
	AveragePrice  decimal.Decimal
}

// CategoryShare extends CategoryStats with its share of the total inventory value.
type CategoryShare struct {
	CategoryStats
	PercentOfTotal decimal.Decimal
}

// SupplierStats is the per-supplier rollup.
type SupplierStats struct {
	Supplier      string
	ProductCount  int
	TotalQuantity int
	TotalValue    decimal.Decimal
	LowStockItems int
}

// StockLevel classifies a product's quantity against its reorder level.
type StockLevel string

const (
	StockCritical StockLevel = "critical"
	StockLow      StockLevel = "low"
	StockNormal   StockLevel = "normal"
	StockHigh     StockLevel = "high"
)

// ClassifyStock buckets a product by the fixed rule:
// 0 is critical, (0, r] is low, (r, 2r] is normal, above 2r is high.
// A zero reorder level puts any positive quantity in high.
func ClassifyStock(p Product) StockLevel {
	switch {
	case p.Quantity == 0:
		return StockCritical
	case p.Quantity <= p.ReorderLevel:
		return StockLow
	case p.Quantity <= 2*p.ReorderLevel:
		return StockNormal
	default:
		return StockHigh
	}
}

// StockDistribution holds the members of each stock bucket in store order.
type StockDistribution struct {
	Critical []Product
	Low      []Product
	Normal   []Product
	High     []Product
}

// Counts returns the bucket sizes keyed by level.
func (d StockDistribution) Counts() map[StockLevel]int {
	return map[StockLevel]int{
		StockCritical: len(d.Critical),
		StockLow:      len(d.Low),
		StockNormal:   len(d.Normal),
		StockHigh:     len(d.High),
	}
}

// RankedProduct pairs a product with its inventory value.
type RankedProduct struct {
	Rank    int
	Product Product
	Value   decimal.Decimal
}

// ReorderRecommendation is a suggested restock for a low-stock product.
type ReorderRecommendation struct {
	Product             Product
	RecommendedQuantity int
}

// RecommendedOrderQuantity restocks to twice the reorder level but never
// suggests less than the reorder level itself.
func RecommendedOrderQuantity(p Product) int {
	return max(p.ReorderLevel*2-p.Quantity, p.ReorderLevel)
}

// InventorySummary is the headline view over the whole store.
type InventorySummary struct {
	TotalProducts int
	TotalQuantity int
	TotalValue    decimal.Decimal
	LowStockItems int
	CategoryCount int
	SupplierCount int
}
