package main

import (
	"fmt"
	"io"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/trip-planner/internal/itinerary"
	"github.com/sells-group/trip-planner/internal/pipeline"
	"github.com/sells-group/trip-planner/internal/planner"
)

var itineraryCmd = &cobra.Command{
	Use:   "itinerary",
	Short: "Narrate a trip plan into a readable itinerary",
	RunE: func(cmd *cobra.Command, _ []string) error {
		input, _ := cmd.Flags().GetString("input")
		output, _ := cmd.Flags().GetString("output")
		offline, _ := cmd.Flags().GetBool("offline")

		inPath := artifactPath(input, pipeline.PlanFile)
		f, err := os.Open(inPath)
		if err != nil {
			return eris.Wrapf(err, "itinerary: open %s", inPath)
		}
		plan, err := planner.ReadJSON(f)
		f.Close() //nolint:errcheck
		if err != nil {
			return err
		}

		it, src := itinerary.Fallback(plan), itinerary.SourceFallback
		if !offline {
			it, src = newNarrator().Narrate(cmd.Context(), plan)
		}

		path := artifactPath(output, pipeline.ItineraryFile)
		if err := pipeline.WriteAtomic(path, func(w io.Writer) error {
			return itinerary.WriteJSON(w, it)
		}); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Wrote %s itinerary -> %s\n", src, path)
		return nil
	},
}

func init() {
	itineraryCmd.Flags().String("input", "", "trip plan (default <artifacts>/plan.json)")
	itineraryCmd.Flags().String("output", "", "output path (default <artifacts>/itinerary.json)")
	itineraryCmd.Flags().Bool("offline", false, "skip the LLM and write the deterministic itinerary")
	rootCmd.AddCommand(itineraryCmd)
}
