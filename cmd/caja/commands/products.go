package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/cajapos/caja/cmd/caja/output"
	"github.com/cajapos/caja/pkg/session"
	casync "github.com/cajapos/caja/pkg/sync"
	"github.com/cajapos/caja/pkg/view"
	"github.com/spf13/cobra"
)

var (
	// Product flags
	productSearch      string
	productSortColumn  string
	productSortDesc    bool
	productSellable    bool
	productName        string
	productDescription string
	productPrice       float64
	productStock       int
	productCategoryID  int64
	productSubName     string
	assumeYes          bool
)

// productsCmd groups the product subcommands
var productsCmd = &cobra.Command{
	Use:   "products",
	Short: "List, create, update and delete products",
}

var productsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List products with optional search and sorting",
	Long: `List products from the catalog.

The search term matches product names case-insensitively. Sorting is stable
and works on any column; repeat with --desc to flip the direction.

Examples:
  caja products list
  caja products list --search mouse --sort price --desc
  caja products list --sellable           # only products with stock`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runProductsList()
	},
}

var productsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a product",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runProductsSave(0)
	},
}

var productsUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update a product",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid product id %q", args[0])
		}
		return runProductsSave(id)
	},
}

var productsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a product",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid product id %q", args[0])
		}
		return runProductsDelete(id)
	},
}

func init() {
	rootCmd.AddCommand(productsCmd)
	productsCmd.AddCommand(productsListCmd)
	productsCmd.AddCommand(productsCreateCmd)
	productsCmd.AddCommand(productsUpdateCmd)
	productsCmd.AddCommand(productsDeleteCmd)

	productsListCmd.Flags().StringVarP(&productSearch, "search", "s", "", "Case-insensitive name filter")
	productsListCmd.Flags().StringVar(&productSortColumn, "sort", "name", "Sort column (name, description, price, stock, category, subcategory, id)")
	productsListCmd.Flags().BoolVar(&productSortDesc, "desc", false, "Sort descending")
	productsListCmd.Flags().BoolVar(&productSellable, "sellable", false, "Only products with stock available")

	for _, cmd := range []*cobra.Command{productsCreateCmd, productsUpdateCmd} {
		cmd.Flags().StringVar(&productName, "name", "", "Product name")
		cmd.Flags().StringVar(&productDescription, "description", "", "Product description")
		cmd.Flags().Float64Var(&productPrice, "price", 0, "Unit price (must be > 0)")
		cmd.Flags().IntVar(&productStock, "stock", 0, "Stock quantity (must be > 0)")
		cmd.Flags().Int64Var(&productCategoryID, "category", 0, "Owning category id")
		cmd.Flags().StringVar(&productSubName, "subcategory", "", "Subcategory name (resolved against the catalog)")
	}

	productsDeleteCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Skip the confirmation prompt")
}

func runProductsList() error {
	c, err := newController(false)
	if err != nil {
		return err
	}

	ctx := context.Background()
	if err := c.ReloadAll(ctx); err != nil {
		return err
	}

	col, err := view.ParseColumn(productSortColumn)
	if err != nil {
		return err
	}
	s := view.Sort{Column: col, Ascending: !productSortDesc}

	products := c.Store().Products()
	if productSellable {
		products = view.Sellable(products, productSearch)
		products = view.FilterSort(products, "", s)
	} else {
		products = view.FilterSort(products, productSearch, s)
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(products)
	}

	if len(products) == 0 {
		output.Warning("No products found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tPRICE\tSTOCK\tCATEGORY\tSUBCATEGORY")
	for _, p := range products {
		fmt.Fprintf(w, "%d\t%s\t%.2f\t%d\t%s\t%s\n",
			p.ID, p.Name, p.Price, p.Stock, p.Category, p.Subcategory)
	}
	return w.Flush()
}

func runProductsSave(id int64) error {
	c, err := newController(false)
	if err != nil {
		return err
	}

	ctx := context.Background()
	if err := c.ReloadAll(ctx); err != nil {
		return err
	}

	var s session.ProductSession
	if id != 0 {
		found := false
		for _, p := range c.Store().Products() {
			if p.ID == id {
				s.OpenForEdit(p, c.Store().Subcategories())
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("product %d not found", id)
		}
	} else {
		s.OpenForCreate()
	}

	applyProductFlags(&s, c)

	if err := c.SaveProduct(ctx, &s); err != nil {
		return err
	}

	if id != 0 {
		output.Success("Product %d updated", id)
	} else {
		output.Success("Product %q created", s.Name)
	}
	return nil
}

// applyProductFlags overlays the set flags on the session, re-deriving the
// category name and subcategory id the way the form does.
func applyProductFlags(s *session.ProductSession, c *casync.Controller) {
	if productName != "" {
		s.Name = productName
	}
	if productDescription != "" {
		s.Description = productDescription
	}
	if productPrice != 0 {
		s.Price = productPrice
	}
	if productStock != 0 {
		s.Stock = productStock
	}
	if productCategoryID != 0 {
		s.SetCategory(productCategoryID, c.Store().Categories())
	}
	if productSubName != "" {
		for _, sub := range s.SubcategoryOptions(c.Store().Subcategories()) {
			if sub.Name == productSubName {
				id := sub.ID
				s.SubcategoryID = &id
				break
			}
		}
	}
}

func runProductsDelete(id int64) error {
	c, err := newController(assumeYes)
	if err != nil {
		return err
	}

	if err := c.DeleteProduct(context.Background(), id); err != nil {
		return err
	}
	output.Success("Product %d deleted", id)
	return nil
}
