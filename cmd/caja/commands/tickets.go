package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/cajapos/caja/cmd/caja/output"
	"github.com/spf13/cobra"
)

var ticketsCmd = &cobra.Command{
	Use:   "tickets",
	Short: "List sale tickets",
}

var ticketsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List finalized sales",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTicketsList()
	},
}

func init() {
	rootCmd.AddCommand(ticketsCmd)
	ticketsCmd.AddCommand(ticketsListCmd)
}

func runTicketsList() error {
	c, err := newController(false)
	if err != nil {
		return err
	}
	if err := c.ReloadAll(context.Background()); err != nil {
		return err
	}

	tickets := c.Store().Tickets()
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(tickets)
	}

	if len(tickets) == 0 {
		output.Warning("No tickets found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tDATE\tLINES\tTOTAL")
	for _, t := range tickets {
		fmt.Fprintf(w, "%d\t%s\t%d\t%.2f\n", t.ID, t.Date, len(t.Lines), t.Total)
	}
	return w.Flush()
}
