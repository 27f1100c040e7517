package cli

import (
	"fmt"
	"io"
	"strconv"

	"inventory-tracker/internal/model"
	"inventory-tracker/internal/service"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

// productFlags holds the editable product fields shared by add and update.
type productFlags struct {
	id           string
	name         string
	category     string
	quantity     int
	price        string
	reorderLevel int
	supplier     string
	location     string
}

func (f *productFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.name, "name", "", "product name")
	cmd.Flags().StringVar(&f.category, "category", "", "category")
	cmd.Flags().IntVar(&f.quantity, "quantity", 0, "quantity on hand")
	cmd.Flags().StringVar(&f.price, "price", "", "unit price")
	cmd.Flags().IntVar(&f.reorderLevel, "reorder-level", 0, "reorder level")
	cmd.Flags().StringVar(&f.supplier, "supplier", "", "supplier")
	cmd.Flags().StringVar(&f.location, "location", "", "warehouse location")
}

func parsePrice(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, model.NewValidationError("unit_price", "must be a decimal number")
	}
	return d, nil
}

func productDocuments(products []model.Product) []service.ProductDocument {
	docs := make([]service.ProductDocument, 0, len(products))
	for _, p := range products {
		docs = append(docs, service.NewProductDocument(p))
	}
	return docs
}

func writeProductTable(w io.Writer, products []model.Product) error {
	if len(products) == 0 {
		_, err := fmt.Fprintln(w, "No products found.")
		return err
	}

	fmt.Fprintln(w, "ID\tNAME\tCATEGORY\tQTY\tPRICE\tREORDER\tLOCATION\tSUPPLIER")
	for _, p := range products {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%d\t%s\t%s\n",
			p.ID, p.Name, p.Category, p.Quantity, dollars(p.UnitPrice), p.ReorderLevel, p.WarehouseLocation, p.Supplier)
	}
	_, err := fmt.Fprintf(w, "Total: %d products\n", len(products))
	return err
}

func writeProductDetail(w io.Writer, p model.Product) error {
	fmt.Fprintf(w, "Product ID:\t%s\n", p.ID)
	fmt.Fprintf(w, "Name:\t%s\n", p.Name)
	fmt.Fprintf(w, "Category:\t%s\n", p.Category)
	fmt.Fprintf(w, "Quantity:\t%d\n", p.Quantity)
	fmt.Fprintf(w, "Unit price:\t%s\n", dollars(p.UnitPrice))
	fmt.Fprintf(w, "Reorder level:\t%d\n", p.ReorderLevel)
	fmt.Fprintf(w, "Supplier:\t%s\n", p.Supplier)
	fmt.Fprintf(w, "Location:\t%s\n", p.WarehouseLocation)
	fmt.Fprintf(w, "Last updated:\t%s\n", p.LastUpdated.Format(model.DateLayout))
	fmt.Fprintf(w, "Total value:\t%s\n", dollars(p.Value()))
	_, err := fmt.Fprintf(w, "Status:\t%s\n", stockStatus(p))
	return err
}

func stockStatus(p model.Product) string {
	if p.IsLowStock() {
		return "LOW STOCK"
	}
	return "OK"
}

func dollars(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}

// productListCommand builds a command that prints the products returned by query.
func productListCommand(a *app, cmd *cobra.Command, query func(args []string) ([]model.Product, error)) *cobra.Command {
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		products, err := query(args)
		if err != nil {
			return err
		}
		return a.formatter(cmd).Success(productDocuments(products), func(w io.Writer) error {
			return writeProductTable(w, products)
		})
	}
	return cmd
}

func newListCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all products in file order",
		Args:  cobra.NoArgs,
	}
	return productListCommand(a, cmd, func(args []string) ([]model.Product, error) {
		repo, err := a.store(cmd)
		if err != nil {
			return nil, err
		}
		return repo.ListProducts(), nil
	})
}

func newSearchCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <keyword>",
		Short: "Find products whose name or category contains keyword",
		Args:  cobra.ExactArgs(1),
	}
	return productListCommand(a, cmd, func(args []string) ([]model.Product, error) {
		repo, err := a.store(cmd)
		if err != nil {
			return nil, err
		}
		return repo.SearchProducts(args[0]), nil
	})
}

func newCategoryCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "category <name>",
		Short: "List products in a category",
		Args:  cobra.ExactArgs(1),
	}
	return productListCommand(a, cmd, func(args []string) ([]model.Product, error) {
		repo, err := a.store(cmd)
		if err != nil {
			return nil, err
		}
		return repo.FilterByCategory(args[0]), nil
	})
}

func newSupplierCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "supplier <name>",
		Short: "List products from a supplier",
		Args:  cobra.ExactArgs(1),
	}
	return productListCommand(a, cmd, func(args []string) ([]model.Product, error) {
		repo, err := a.store(cmd)
		if err != nil {
			return nil, err
		}
		return repo.FilterBySupplier(args[0]), nil
	})
}

func newLowStockCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "low-stock",
		Short: "List products at or below their reorder level",
		Args:  cobra.NoArgs,
	}
	return productListCommand(a, cmd, func(args []string) ([]model.Product, error) {
		repo, err := a.store(cmd)
		if err != nil {
			return nil, err
		}
		return repo.GetLowStockItems(), nil
	})
}

// singleProduct prints one product in detail.
func singleProduct(a *app, cmd *cobra.Command, p model.Product, headline string) error {
	return a.formatter(cmd).Success(service.NewProductDocument(p), func(w io.Writer) error {
		if headline != "" {
			fmt.Fprintln(w, headline)
		}
		return writeProductDetail(w, p)
	})
}

func newGetCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get <product-id>",
		Short: "Show one product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := a.store(cmd)
			if err != nil {
				return err
			}
			p, err := repo.GetProduct(args[0])
			if err != nil {
				return err
			}
			return singleProduct(a, cmd, p, "")
		},
	}
}

func newAddCommand(a *app) *cobra.Command {
	var f productFlags

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a new product",
		Example: `  inventory add --id P100 --name "Steel Hammer" --category Tools \
    --quantity 25 --price 12.50 --reorder-level 10 --supplier Acme --location A-01`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			price, err := parsePrice(f.price)
			if err != nil {
				return err
			}

			repo, err := a.store(cmd)
			if err != nil {
				return err
			}

			p, err := repo.AddProduct(model.Product{
				ID:                f.id,
				Name:              f.name,
				Category:          f.category,
				Quantity:          f.quantity,
				UnitPrice:         price,
				ReorderLevel:      f.reorderLevel,
				Supplier:          f.supplier,
				WarehouseLocation: f.location,
			})
			if err != nil {
				return err
			}
			return singleProduct(a, cmd, p, fmt.Sprintf("Added product %s.", p.ID))
		},
	}

	cmd.Flags().StringVar(&f.id, "id", "", "product ID")
	f.register(cmd)
	_ = cmd.MarkFlagRequired("id")
	_ = cmd.MarkFlagRequired("price")

	return cmd
}

func newUpdateCommand(a *app) *cobra.Command {
	var f productFlags

	cmd := &cobra.Command{
		Use:   "update <product-id>",
		Short: "Change fields of an existing product",
		Long:  "Change fields of an existing product. Only the flags given are changed.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			update, err := f.update(cmd)
			if err != nil {
				return err
			}

			repo, err := a.store(cmd)
			if err != nil {
				return err
			}

			p, err := repo.UpdateProduct(args[0], update)
			if err != nil {
				return err
			}
			return singleProduct(a, cmd, p, fmt.Sprintf("Updated product %s.", p.ID))
		},
	}

	f.register(cmd)
	return cmd
}

// update collects the flags the user actually set.
func (f *productFlags) update(cmd *cobra.Command) (model.ProductUpdate, error) {
	var u model.ProductUpdate
	changed := cmd.Flags().Changed

	if changed("name") {
		u.Name = &f.name
	}
	if changed("category") {
		u.Category = &f.category
	}
	if changed("quantity") {
		u.Quantity = &f.quantity
	}
	if changed("price") {
		price, err := parsePrice(f.price)
		if err != nil {
			return u, err
		}
		u.UnitPrice = &price
	}
	if changed("reorder-level") {
		u.ReorderLevel = &f.reorderLevel
	}
	if changed("supplier") {
		u.Supplier = &f.supplier
	}
	if changed("location") {
		u.WarehouseLocation = &f.location
	}
	return u, nil
}

func newDeleteCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <product-id>",
		Short: "Remove a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := a.store(cmd)
			if err != nil {
				return err
			}
			if err := repo.DeleteProduct(args[0]); err != nil {
				return err
			}

			data := map[string]any{"product_id": args[0], "deleted": true}
			return a.formatter(cmd).Success(data, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "Deleted product %s.\n", args[0])
				return err
			})
		},
	}
}

func newAdjustCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "adjust <product-id> <delta>",
		Short: "Add to or remove from a product's quantity",
		Long: `Add to or remove from a product's quantity.

A negative delta must follow "--" so it is not read as a flag.`,
		Example: `  inventory adjust P001 25
  inventory adjust P001 -- -5`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			delta, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid delta %q: must be an integer", args[1])
			}

			repo, err := a.store(cmd)
			if err != nil {
				return err
			}

			p, err := repo.UpdateQuantity(args[0], delta)
			if err != nil {
				return err
			}

			return a.formatter(cmd).Success(service.NewProductDocument(p), func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "Quantity of %s is now %d.\n", p.ID, p.Quantity)
				return err
			})
		},
	}
}
