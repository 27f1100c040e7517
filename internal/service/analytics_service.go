package service

import (
	"slices"
	"strings"

	"inventory-tracker/internal/model"
	"inventory-tracker/internal/repository"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// analyticsService implements AnalyticsService over a ProductReader.
type analyticsService struct {
	products repository.ProductReader
	logger   zerolog.Logger
}

// NewAnalyticsService creates a new analytics service.
func NewAnalyticsService(products repository.ProductReader, logger zerolog.Logger) AnalyticsService {
	return &analyticsService{
		products: products,
		logger:   logger.With().Str("service", "analytics").Logger(),
	}
}

// StockDistribution partitions every product by model.ClassifyStock.
func (s *analyticsService) StockDistribution() model.StockDistribution {
	var dist model.StockDistribution
	for _, p := range s.products.ListProducts() {
		switch model.ClassifyStock(p) {
		case model.StockCritical:
			dist.Critical = append(dist.Critical, p)
		case model.StockLow:
			dist.Low = append(dist.Low, p)
		case model.StockNormal:
			dist.Normal = append(dist.Normal, p)
		default:
			dist.High = append(dist.High, p)
		}
	}

	s.logger.Debug().
		Int("critical", len(dist.Critical)).
		Int("low", len(dist.Low)).
		Int("normal", len(dist.Normal)).
		Int("high", len(dist.High)).
		Msg("computed stock distribution")

	return dist
}

// TopProductsByValue ranks products by inventory value.
func (s *analyticsService) TopProductsByValue(n int) []model.RankedProduct {
	if n <= 0 {
		return []model.RankedProduct{}
	}

	products := s.products.ListProducts()
	ranked := make([]model.RankedProduct, 0, len(products))
	for _, p := range products {
		ranked = append(ranked, model.RankedProduct{Product: p, Value: p.Value()})
	}

	slices.SortFunc(ranked, func(a, b model.RankedProduct) int {
		if c := b.Value.Cmp(a.Value); c != 0 {
			return c
		}
		return strings.Compare(a.Product.ID, b.Product.ID)
	})

	ranked = ranked[:min(n, len(ranked))]
	for i := range ranked {
		ranked[i].Rank = i + 1
	}
	return ranked
}

// CategoryAnalysis adds percent-of-total to the store's category summary.
// Percentages are rounded to two places and are zero when the inventory has no value.
func (s *analyticsService) CategoryAnalysis() []model.CategoryShare {
	summary := s.products.CategorySummary()
	total := s.products.TotalInventoryValue()

	shares := make([]model.CategoryShare, 0, len(summary))
	for _, stats := range summary {
		pct := decimal.Zero
		if total.IsPositive() {
			pct = stats.TotalValue.Div(total).Mul(hundred).Round(2)
		}
		shares = append(shares, model.CategoryShare{CategoryStats: stats, PercentOfTotal: pct})
	}

	slices.SortStableFunc(shares, func(a, b model.CategoryShare) int {
		if c := b.TotalValue.Cmp(a.TotalValue); c != 0 {
			return c
		}
		return strings.Compare(a.Category, b.Category)
	})
	return shares
}

// SupplierPerformance rolls products up by supplier.
func (s *analyticsService) SupplierPerformance() []model.SupplierStats {
	var stats []model.SupplierStats
	positions := make(map[string]int)

	for _, p := range s.products.ListProducts() {
		i, ok := positions[p.Supplier]
		if !ok {
			i = len(stats)
			positions[p.Supplier] = i
			stats = append(stats, model.SupplierStats{Supplier: p.Supplier, TotalValue: decimal.Zero})
		}

		st := &stats[i]
		st.ProductCount++
		st.TotalQuantity += p.Quantity
		st.TotalValue = st.TotalValue.Add(p.Value())
		if p.IsLowStock() {
			st.LowStockItems++
		}
	}

	slices.SortStableFunc(stats, func(a, b model.SupplierStats) int {
		if c := b.TotalValue.Cmp(a.TotalValue); c != 0 {
			return c
		}
		return strings.Compare(a.Supplier, b.Supplier)
	})
	return stats
}

// ReorderRecommendations lists low-stock products grouped by supplier name,
// keeping store order within a supplier.
func (s *analyticsService) ReorderRecommendations() []model.ReorderRecommendation {
	low := s.products.GetLowStockItems()

	recs := make([]model.ReorderRecommendation, 0, len(low))
	for _, p := range low {
		recs = append(recs, model.ReorderRecommendation{
			Product:             p,
			RecommendedQuantity: model.RecommendedOrderQuantity(p),
		})
	}

	slices.SortStableFunc(recs, func(a, b model.ReorderRecommendation) int {
		return strings.Compare(a.Product.Supplier, b.Product.Supplier)
	})

	s.logger.Debug().Int("count", len(recs)).Msg("computed reorder recommendations")
	return recs
}

// Summary returns the headline figures for the whole inventory.
func (s *analyticsService) Summary() model.InventorySummary {
	suppliers := make(map[string]struct{})
	for _, p := range s.products.ListProducts() {
		suppliers[p.Supplier] = struct{}{}
	}

	return model.InventorySummary{
		TotalProducts: s.products.Count(),
		TotalQuantity: s.products.TotalQuantity(),
		TotalValue:    s.products.TotalInventoryValue(),
		LowStockItems: len(s.products.GetLowStockItems()),
		CategoryCount: len(s.products.CategorySummary()),
		SupplierCount: len(suppliers),
	}
}
