package commands

import (
	"github.com/cajapos/caja/cmd/caja/tui"
	"github.com/cajapos/caja/pkg/api"
	"github.com/spf13/cobra"
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Open the interactive TUI",
	Long: `Open the interactive terminal UI.

Views:
  1  products   browse, search, sort, create, edit and delete products
  2  masters    manage categories and subcategories
  3  buy        build a cart from sellable products and finalize the sale
  4  sales      review finalized tickets`,
	RunE: func(cmd *cobra.Command, args []string) error {
		baseURL, err := resolveAPIURL()
		if err != nil {
			return err
		}
		client, err := api.NewClient(api.Config{BaseURL: baseURL})
		if err != nil {
			return err
		}
		return tui.Run(client)
	},
}

func init() {
	rootCmd.AddCommand(browseCmd)
}
