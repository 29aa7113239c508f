package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sells-group/trip-planner/internal/interest"
	"github.com/sells-group/trip-planner/internal/pipeline"
)

var interestsCmd = &cobra.Command{
	Use:   "interests",
	Short: "Extract an interest vector from free text",
	RunE: func(cmd *cobra.Command, _ []string) error {
		text, _ := cmd.Flags().GetString("text")
		output, _ := cmd.Flags().GetString("output")

		ex, err := newExtractor()
		if err != nil {
			return err
		}
		vector, err := ex.Extract(cmd.Context(), text)
		if err != nil {
			return err
		}

		path := artifactPath(output, pipeline.InterestsFile)
		if err := interest.Save(path, vector); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Wrote interest vector -> %s\n", path)
		return nil
	},
}

func init() {
	interestsCmd.Flags().String("text", "", "free-text description of the traveller's interests")
	interestsCmd.Flags().String("output", "", "output path (default <artifacts>/interests.json)")
	_ = interestsCmd.MarkFlagRequired("text")
	rootCmd.AddCommand(interestsCmd)
}
