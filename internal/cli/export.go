package cli

import (
	"fmt"
	"io"
	"path/filepath"

	"inventory-tracker/internal/service"

	"github.com/spf13/cobra"
)

// Default export file names, placed under the configured export directory.
const (
	defaultInventoryExport = "inventory_export.csv"
	defaultLowStockExport  = "low_stock_report.json"
	defaultCategoryExport  = "category_summary.json"
)

func newExportCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write reports to files",
		Long: `Write reports to files.

Without a path the report is written under the configured export directory.`,
	}

	cmd.AddCommand(exportCommand(a, "inventory", "Export every product as CSV", defaultInventoryExport,
		service.AnalyticsService.ExportInventoryCSV))
	cmd.AddCommand(exportCommand(a, "low-stock", "Export low-stock products with recommended order quantities as JSON", defaultLowStockExport,
		service.AnalyticsService.ExportLowStockJSON))
	cmd.AddCommand(exportCommand(a, "categories", "Export the category summary as JSON", defaultCategoryExport,
		service.AnalyticsService.ExportCategorySummaryJSON))

	return cmd
}

func exportCommand(a *app, name, short, defaultFile string, export func(service.AnalyticsService, string) error) *cobra.Command {
	return &cobra.Command{
		Use:   name + " [path]",
		Short: short,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := filepath.Join(a.env.Config.Inventory.ExportDir, defaultFile)
			if len(args) == 1 {
				path = args[0]
			}

			svc, err := a.analytics(cmd)
			if err != nil {
				return err
			}
			if err := export(svc, path); err != nil {
				return err
			}

			data := map[string]string{"report": name, "path": path}
			return a.formatter(cmd).Success(data, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "Exported %s report to %s\n", name, path)
				return err
			})
		},
	}
}
