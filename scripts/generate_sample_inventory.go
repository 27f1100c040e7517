package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"inventory-tracker/internal/model"
	"inventory-tracker/internal/repository"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// generateSampleInventory writes a demo warehouse file covering every stock bucket:
// critical (zero on hand), low (at or below reorder level), normal and high.
// Pass an output path as the first argument; a ".gz" suffix writes a gzipped file.
func main() {
	path := "data/warehouse_inventory.csv"
	if len(os.Args) > 1 {
		path = os.Args[1]
	}

	if _, err := os.Stat(path); err == nil {
		log.Fatalf("Refusing to overwrite existing file %s", path)
	}

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(zerolog.WarnLevel)
	repo, _, err := repository.Open(context.Background(), path, logger)
	if err != nil {
		log.Fatalf("Failed to open %s: %v", path, err)
	}

	samples := []struct {
		id, name, category string
		quantity           int
		price              string
		reorder            int
		supplier, location string
	}{
		{"P001", "Cordless Drill", "Power Tools", 45, "89.99", 15, "ToolMaster Inc", "A1-01"},
		{"P002", "Circular Saw", "Power Tools", 8, "129.50", 10, "ToolMaster Inc", "A1-02"},
		{"P003", "Claw Hammer", "Hand Tools", 120, "14.25", 30, "Forge & Co", "B2-01"},
		{"P004", "Screwdriver Set", "Hand Tools", 0, "24.99", 20, "Forge & Co", "B2-03"},
		{"P005", "Safety Goggles", "Safety", 200, "6.75", 50, "SafeGuard Supply", "C3-01"},
		{"P006", "Work Gloves", "Safety", 35, "9.99", 40, "SafeGuard Supply", "C3-02"},
		{"P007", "LED Work Light", "Electrical", 60, "32.00", 25, "BrightVolt", "D4-01"},
		{"P008", "Extension Cord 25ft", "Electrical", 18, "19.49", 20, "BrightVolt", "D4-02"},
		{"P009", "Tape Measure", "Hand Tools", 75, "11.50", 40, "Forge & Co", "B2-05"},
		{"P010", "Angle Grinder", "Power Tools", 3, "74.00", 5, "ToolMaster Inc", "A1-04"},
		{"P011", "Dust Mask (10pk)", "Safety", 90, "15.00", 30, "SafeGuard Supply", "C3-04"},
		{"P012", "Wire Stripper", "Electrical", 0, "17.80", 10, "BrightVolt", "D4-05"},
	}

	for _, s := range samples {
		_, err := repo.AddProduct(model.Product{
			ID:                s.id,
			Name:              s.name,
			Category:          s.category,
			Quantity:          s.quantity,
			UnitPrice:         decimal.RequireFromString(s.price),
			ReorderLevel:      s.reorder,
			Supplier:          s.supplier,
			WarehouseLocation: s.location,
		})
		if err != nil {
			log.Fatalf("Failed to add %s: %v", s.id, err)
		}
	}

	fmt.Printf("Created %s with %d products\n", path, repo.Count())
	fmt.Printf("Low stock items: %d\n", len(repo.GetLowStockItems()))
	fmt.Printf("Total inventory value: $%s\n", repo.TotalInventoryValue().StringFixed(2))
}
