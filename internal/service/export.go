package service

import (
	"encoding/json"
	"io"

	"inventory-tracker/internal/codec"
	"inventory-tracker/internal/fsutil"
	"inventory-tracker/internal/model"

	"github.com/shopspring/decimal"
)

const exportFileMode = 0o644

// ProductDocument is the JSON shape of a product. Money is a bare number
// with two decimal places.
type ProductDocument struct {
	ProductID         string      `json:"product_id"`
	ProductName       string      `json:"product_name"`
	Category          string      `json:"category"`
	Quantity          int         `json:"quantity"`
	UnitPrice         json.Number `json:"unit_price"`
	ReorderLevel      int         `json:"reorder_level"`
	Supplier          string      `json:"supplier"`
	WarehouseLocation string      `json:"warehouse_location"`
	LastUpdated       string      `json:"last_updated"`
}

type lowStockDocument struct {
	ProductDocument
	RecommendedOrderQuantity int `json:"recommended_order_quantity"`
}

type categoryDocument struct {
	Count          int         `json:"count"`
	TotalQuantity  int         `json:"total_quantity"`
	TotalValue     json.Number `json:"total_value"`
	AveragePrice   json.Number `json:"average_price"`
	PercentOfTotal json.Number `json:"percent_of_total"`
}

// Money renders a currency amount as a JSON number with two decimal places.
func Money(d decimal.Decimal) json.Number {
	return json.Number(d.StringFixed(2))
}

// NewProductDocument converts a product to its JSON shape.
func NewProductDocument(p model.Product) ProductDocument {
	return ProductDocument{
		ProductID:         p.ID,
		ProductName:       p.Name,
		Category:          p.Category,
		Quantity:          p.Quantity,
		UnitPrice:         Money(p.UnitPrice),
		ReorderLevel:      p.ReorderLevel,
		Supplier:          p.Supplier,
		WarehouseLocation: p.WarehouseLocation,
		LastUpdated:       p.LastUpdated.Format(model.DateLayout),
	}
}

// ExportInventoryCSV writes every product, in store order, with the backing-file header.
// An existing file at path is replaced.
func (s *analyticsService) ExportInventoryCSV(path string) error {
	products := s.products.ListProducts()

	err := fsutil.AtomicWriteFile(path, exportFileMode, func(w io.Writer) error {
		return codec.Encode(w, products)
	})
	if err != nil {
		s.logger.Error().Err(err).Str("file", path).Msg("failed to export inventory")
		return &model.PersistenceError{Op: "export", Path: path, Err: err}
	}

	s.logger.Info().Str("file", path).Int("count", len(products)).Msg("inventory exported")
	return nil
}

// ExportLowStockJSON writes an array with one object per low-stock product.
func (s *analyticsService) ExportLowStockJSON(path string) error {
	low := s.products.GetLowStockItems()

	docs := make([]lowStockDocument, 0, len(low))
	for _, p := range low {
		docs = append(docs, lowStockDocument{
			ProductDocument:          NewProductDocument(p),
			RecommendedOrderQuantity: model.RecommendedOrderQuantity(p),
		})
	}

	if err := s.writeJSON(path, docs); err != nil {
		return err
	}

	s.logger.Info().Str("file", path).Int("count", len(docs)).Msg("low stock report exported")
	return nil
}

// ExportCategorySummaryJSON writes an object keyed by category name.
func (s *analyticsService) ExportCategorySummaryJSON(path string) error {
	analysis := s.CategoryAnalysis()

	docs := make(map[string]categoryDocument, len(analysis))
	for _, c := range analysis {
		docs[c.Category] = categoryDocument{
			Count:          c.Count,
			TotalQuantity:  c.TotalQuantity,
			TotalValue:     Money(c.TotalValue),
			AveragePrice:   Money(c.AveragePrice),
			PercentOfTotal: Money(c.PercentOfTotal),
		}
	}

	if err := s.writeJSON(path, docs); err != nil {
		return err
	}

	s.logger.Info().Str("file", path).Int("categories", len(docs)).Msg("category summary exported")
	return nil
}

func (s *analyticsService) writeJSON(path string, v any) error {
	err := fsutil.AtomicWriteFile(path, exportFileMode, func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	})
	if err != nil {
		s.logger.Error().Err(err).Str("file", path).Msg("failed to export report")
		return &model.PersistenceError{Op: "export", Path: path, Err: err}
	}
	return nil
}
