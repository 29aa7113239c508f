package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/trip-planner/internal/catalog"
	"github.com/sells-group/trip-planner/internal/pipeline"
)

var filterCmd = &cobra.Command{
	Use:   "filter",
	Short: "Select catalog events for the trip cities and window",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cities, _ := cmd.Flags().GetString("cities")
		start, _ := cmd.Flags().GetString("start")
		end, _ := cmd.Flags().GetString("end")
		catalogPath, _ := cmd.Flags().GetString("catalog")
		output, _ := cmd.Flags().GetString("output")

		req, err := parseRequest(cities, start, end)
		if err != nil {
			return err
		}
		cat, err := loadCatalog(catalogPath)
		if err != nil {
			return err
		}

		selected := catalog.Filter(cat.Events, req.Cities, req.Start, req.End)
		path := artifactPath(output, pipeline.FilteredFile)
		if err := pipeline.WriteAtomic(path, func(w io.Writer) error {
			return catalog.WriteEvents(w, selected)
		}); err != nil {
			return err
		}

		zap.L().Info("filter: wrote selection", zap.String("path", path), zap.Int("events", len(selected)))
		fmt.Fprintf(os.Stderr, "Selected %d of %d events -> %s\n", len(selected), len(cat.Events), path)
		return nil
	},
}

func init() {
	filterCmd.Flags().String("cities", "", "comma-separated city names")
	filterCmd.Flags().String("start", "", "trip start date (YYYY-MM-DD)")
	filterCmd.Flags().String("end", "", "trip end date (YYYY-MM-DD)")
	filterCmd.Flags().String("catalog", "", "catalog path (default from config)")
	filterCmd.Flags().String("output", "", "output path (default <artifacts>/filtered.csv)")
	_ = filterCmd.MarkFlagRequired("start")
	_ = filterCmd.MarkFlagRequired("end")
	rootCmd.AddCommand(filterCmd)
}
