package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"inventory-tracker/internal/model"
	"inventory-tracker/internal/service"

	"github.com/spf13/cobra"
)

type summaryDocument struct {
	TotalProducts int         `json:"total_products"`
	TotalQuantity int         `json:"total_quantity"`
	TotalValue    json.Number `json:"total_value"`
	LowStockItems int         `json:"low_stock_items"`
	Categories    int         `json:"categories"`
	Suppliers     int         `json:"suppliers"`
}

type bucketDocument struct {
	Count    int                       `json:"count"`
	Products []service.ProductDocument `json:"products"`
}

type rankedDocument struct {
	Rank        int         `json:"rank"`
	ProductID   string      `json:"product_id"`
	ProductName string      `json:"product_name"`
	Quantity    int         `json:"quantity"`
	UnitPrice   json.Number `json:"unit_price"`
	Value       json.Number `json:"value"`
}

type categoryShareDocument struct {
	Category       string      `json:"category"`
	Count          int         `json:"count"`
	TotalQuantity  int         `json:"total_quantity"`
	TotalValue     json.Number `json:"total_value"`
	AveragePrice   json.Number `json:"average_price"`
	PercentOfTotal json.Number `json:"percent_of_total"`
}

type supplierDocument struct {
	Supplier      string      `json:"supplier"`
	ProductCount  int         `json:"product_count"`
	TotalQuantity int         `json:"total_quantity"`
	TotalValue    json.Number `json:"total_value"`
	LowStockItems int         `json:"low_stock_items"`
}

type reorderDocument struct {
	ProductID                string `json:"product_id"`
	ProductName              string `json:"product_name"`
	Supplier                 string `json:"supplier"`
	Quantity                 int    `json:"quantity"`
	ReorderLevel             int    `json:"reorder_level"`
	RecommendedOrderQuantity int    `json:"recommended_order_quantity"`
}

func newSummaryCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Show headline inventory figures",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.analytics(cmd)
			if err != nil {
				return err
			}
			s := svc.Summary()

			doc := summaryDocument{
				TotalProducts: s.TotalProducts,
				TotalQuantity: s.TotalQuantity,
				TotalValue:    service.Money(s.TotalValue),
				LowStockItems: s.LowStockItems,
				Categories:    s.CategoryCount,
				Suppliers:     s.SupplierCount,
			}
			return a.formatter(cmd).Success(doc, func(w io.Writer) error {
				fmt.Fprintf(w, "Total products:\t%d\n", s.TotalProducts)
				fmt.Fprintf(w, "Total quantity:\t%d\n", s.TotalQuantity)
				fmt.Fprintf(w, "Total value:\t%s\n", dollars(s.TotalValue))
				fmt.Fprintf(w, "Low stock items:\t%d\n", s.LowStockItems)
				fmt.Fprintf(w, "Categories:\t%d\n", s.CategoryCount)
				_, err := fmt.Fprintf(w, "Suppliers:\t%d\n", s.SupplierCount)
				return err
			})
		},
	}
}

func newAnalyticsCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analytics",
		Short: "Derived reports over the inventory",
	}

	cmd.AddCommand(newDistributionCommand(a))
	cmd.AddCommand(newTopCommand(a))
	cmd.AddCommand(newCategoriesCommand(a))
	cmd.AddCommand(newSuppliersCommand(a))
	cmd.AddCommand(newReorderCommand(a))

	return cmd
}

func newDistributionCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "distribution",
		Short: "Bucket products into critical, low, normal and high stock",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.analytics(cmd)
			if err != nil {
				return err
			}
			dist := svc.StockDistribution()

			buckets := []struct {
				level    model.StockLevel
				products []model.Product
			}{
				{model.StockCritical, dist.Critical},
				{model.StockLow, dist.Low},
				{model.StockNormal, dist.Normal},
				{model.StockHigh, dist.High},
			}

			doc := make(map[model.StockLevel]bucketDocument, len(buckets))
			for _, b := range buckets {
				doc[b.level] = bucketDocument{Count: len(b.products), Products: productDocuments(b.products)}
			}

			return a.formatter(cmd).Success(doc, func(w io.Writer) error {
				for _, b := range buckets {
					fmt.Fprintf(w, "%s\t%d\n", strings.ToUpper(string(b.level)), len(b.products))
					for _, p := range b.products {
						fmt.Fprintf(w, "  %s\t%s\t(qty: %d, reorder: %d)\n", p.ID, p.Name, p.Quantity, p.ReorderLevel)
					}
				}
				return nil
			})
		},
	}
}

func newTopCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "top [n]",
		Short: "Rank products by inventory value",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n := a.env.Config.Inventory.TopN
			if len(args) == 1 {
				v, err := strconv.Atoi(args[0])
				if err != nil {
					return fmt.Errorf("invalid count %q: must be an integer", args[0])
				}
				n = v
			}

			svc, err := a.analytics(cmd)
			if err != nil {
				return err
			}
			ranked := svc.TopProductsByValue(n)

			docs := make([]rankedDocument, 0, len(ranked))
			for _, r := range ranked {
				docs = append(docs, rankedDocument{
					Rank:        r.Rank,
					ProductID:   r.Product.ID,
					ProductName: r.Product.Name,
					Quantity:    r.Product.Quantity,
					UnitPrice:   service.Money(r.Product.UnitPrice),
					Value:       service.Money(r.Value),
				})
			}

			return a.formatter(cmd).Success(docs, func(w io.Writer) error {
				fmt.Fprintln(w, "RANK\tID\tNAME\tQTY\tPRICE\tVALUE")
				for _, r := range ranked {
					fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%s\t%s\n",
						r.Rank, r.Product.ID, r.Product.Name, r.Product.Quantity, dollars(r.Product.UnitPrice), dollars(r.Value))
				}
				return nil
			})
		},
	}
}

func newCategoriesCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "Per-category totals and share of inventory value",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.analytics(cmd)
			if err != nil {
				return err
			}
			shares := svc.CategoryAnalysis()

			docs := make([]categoryShareDocument, 0, len(shares))
			for _, c := range shares {
				docs = append(docs, categoryShareDocument{
					Category:       c.Category,
					Count:          c.Count,
					TotalQuantity:  c.TotalQuantity,
					TotalValue:     service.Money(c.TotalValue),
					AveragePrice:   service.Money(c.AveragePrice),
					PercentOfTotal: service.Money(c.PercentOfTotal),
				})
			}

			return a.formatter(cmd).Success(docs, func(w io.Writer) error {
				fmt.Fprintln(w, "CATEGORY\tPRODUCTS\tQTY\tVALUE\tAVG PRICE\tSHARE")
				for _, c := range shares {
					fmt.Fprintf(w, "%s\t%d\t%d\t%s\t%s\t%s%%\n",
						c.Category, c.Count, c.TotalQuantity, dollars(c.TotalValue), dollars(c.AveragePrice), c.PercentOfTotal.StringFixed(2))
				}
				return nil
			})
		},
	}
}

func newSuppliersCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "suppliers",
		Short: "Per-supplier totals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.analytics(cmd)
			if err != nil {
				return err
			}
			stats := svc.SupplierPerformance()

			docs := make([]supplierDocument, 0, len(stats))
			for _, s := range stats {
				docs = append(docs, supplierDocument{
					Supplier:      s.Supplier,
					ProductCount:  s.ProductCount,
					TotalQuantity: s.TotalQuantity,
					TotalValue:    service.Money(s.TotalValue),
					LowStockItems: s.LowStockItems,
				})
			}

			return a.formatter(cmd).Success(docs, func(w io.Writer) error {
				fmt.Fprintln(w, "SUPPLIER\tPRODUCTS\tQTY\tVALUE\tLOW STOCK")
				for _, s := range stats {
					fmt.Fprintf(w, "%s\t%d\t%d\t%s\t%d\n",
						s.Supplier, s.ProductCount, s.TotalQuantity, dollars(s.TotalValue), s.LowStockItems)
				}
				return nil
			})
		},
	}
}

func newReorderCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "reorder",
		Short: "Suggested restock quantities for low-stock products",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.analytics(cmd)
			if err != nil {
				return err
			}
			recs := svc.ReorderRecommendations()

			docs := make([]reorderDocument, 0, len(recs))
			for _, r := range recs {
				docs = append(docs, reorderDocument{
					ProductID:                r.Product.ID,
					ProductName:              r.Product.Name,
					Supplier:                 r.Product.Supplier,
					Quantity:                 r.Product.Quantity,
					ReorderLevel:             r.Product.ReorderLevel,
					RecommendedOrderQuantity: r.RecommendedQuantity,
				})
			}

			return a.formatter(cmd).Success(docs, func(w io.Writer) error {
				if len(recs) == 0 {
					_, err := fmt.Fprintln(w, "No products need reordering.")
					return err
				}
				fmt.Fprintln(w, "SUPPLIER\tID\tNAME\tQTY\tREORDER\tORDER")
				for _, r := range recs {
					fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\n",
						r.Product.Supplier, r.Product.ID, r.Product.Name, r.Product.Quantity, r.Product.ReorderLevel, r.RecommendedQuantity)
				}
				return nil
			})
		},
	}
}
