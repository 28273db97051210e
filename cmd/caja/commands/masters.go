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
	"github.com/spf13/cobra"
)

var (
	// Master-data flags
	categoryName      string
	subcategoryName   string
	subcategoryParent int64
	mastersYes        bool
)

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List, create and delete categories",
}

var categoriesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List categories",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCategoriesList()
	},
}

var categoriesCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a category",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCategoriesCreate()
	},
}

var categoriesDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a category (the server cascades to its subcategories and products)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid category id %q", args[0])
		}
		return runCategoriesDelete(id)
	},
}

var subcategoriesCmd = &cobra.Command{
	Use:   "subcategories",
	Short: "List, create and delete subcategories",
}

var subcategoriesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List subcategories",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSubcategoriesList()
	},
}

var subcategoriesCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a subcategory under a parent category",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSubcategoriesCreate()
	},
}

var subcategoriesDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a subcategory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid subcategory id %q", args[0])
		}
		return runSubcategoriesDelete(id)
	},
}

func init() {
	rootCmd.AddCommand(categoriesCmd)
	categoriesCmd.AddCommand(categoriesListCmd)
	categoriesCmd.AddCommand(categoriesCreateCmd)
	categoriesCmd.AddCommand(categoriesDeleteCmd)

	rootCmd.AddCommand(subcategoriesCmd)
	subcategoriesCmd.AddCommand(subcategoriesListCmd)
	subcategoriesCmd.AddCommand(subcategoriesCreateCmd)
	subcategoriesCmd.AddCommand(subcategoriesDeleteCmd)

	categoriesCreateCmd.Flags().StringVar(&categoryName, "name", "", "Category name")
	categoriesDeleteCmd.Flags().BoolVarP(&mastersYes, "yes", "y", false, "Skip the confirmation prompt")

	subcategoriesCreateCmd.Flags().StringVar(&subcategoryName, "name", "", "Subcategory name")
	subcategoriesCreateCmd.Flags().Int64Var(&subcategoryParent, "category", 0, "Parent category id")
	subcategoriesDeleteCmd.Flags().BoolVarP(&mastersYes, "yes", "y", false, "Skip the confirmation prompt")
}

func runCategoriesList() error {
	c, err := newController(false)
	if err != nil {
		return err
	}
	if err := c.ReloadAll(context.Background()); err != nil {
		return err
	}

	categories := c.Store().Categories()
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(categories)
	}

	if len(categories) == 0 {
		output.Warning("No categories found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME")
	for _, cat := range categories {
		fmt.Fprintf(w, "%d\t%s\n", cat.ID, cat.Name)
	}
	return w.Flush()
}

func runCategoriesCreate() error {
	c, err := newController(false)
	if err != nil {
		return err
	}

	s := session.CategorySession{Name: categoryName}
	if err := c.SaveCategory(context.Background(), &s); err != nil {
		return err
	}
	output.Success("Category %q created", s.Name)
	return nil
}

func runCategoriesDelete(id int64) error {
	c, err := newController(mastersYes)
	if err != nil {
		return err
	}
	if err := c.DeleteCategory(context.Background(), id); err != nil {
		return err
	}
	output.Success("Category %d deleted", id)
	return nil
}

func runSubcategoriesList() error {
	c, err := newController(false)
	if err != nil {
		return err
	}
	if err := c.ReloadAll(context.Background()); err != nil {
		return err
	}

	subs := c.Store().Subcategories()
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(subs)
	}

	if len(subs) == 0 {
		output.Warning("No subcategories found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tCATEGORY")
	for _, sub := range subs {
		fmt.Fprintf(w, "%d\t%s\t%s\n", sub.ID, sub.Name, sub.ParentCategory)
	}
	return w.Flush()
}

func runSubcategoriesCreate() error {
	c, err := newController(false)
	if err != nil {
		return err
	}

	s := session.SubcategorySession{Name: subcategoryName, CategoryID: subcategoryParent}
	if err := c.SaveSubcategory(context.Background(), &s); err != nil {
		return err
	}
	output.Success("Subcategory %q created", s.Name)
	return nil
}

func runSubcategoriesDelete(id int64) error {
	c, err := newController(mastersYes)
	if err != nil {
		return err
	}
	if err := c.DeleteSubcategory(context.Background(), id); err != nil {
		return err
	}
	output.Success("Subcategory %d deleted", id)
	return nil
}
