package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	apiURL     string
	configPath string
	verbose    bool
	jsonOutput bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "caja",
	Short: "caja - terminal client for the tienda inventory and point-of-sale API",
	Long: `caja is a terminal client for the tienda REST backend. It browses
products, categories, subcategories and sale tickets, edits the catalog,
and assembles shopping carts that are submitted as sale transactions.

Features:
  - Interactive TUI with product search, column sorting and a live cart
  - Non-interactive subcommands for scripting and automation
  - Catalog reloads after every confirmed mutation, never optimistically
  - Confirmation prompts before destructive operations`,
	Version: "1.2.0",
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&apiURL, "api", "", "API base URL, e.g. http://localhost:8080/api")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default ~/.config/caja/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
}
