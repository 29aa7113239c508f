package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sells-group/trip-planner/internal/model"
)

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List interest categories",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return printCategories(os.Stdout, model.NewCategorySet(cfg.Scorer.TourismCategories...))
	},
}

func printCategories(out io.Writer, tourism model.CategorySet) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "CATEGORY\tTOURISM")
	for _, c := range model.Categories {
		mark := ""
		if tourism.Has(c) {
			mark = "yes"
		}
		fmt.Fprintf(w, "%s\t%s\n", c, mark)
	}
	return w.Flush()
}

func init() {
	rootCmd.AddCommand(categoriesCmd)
}
