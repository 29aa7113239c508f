package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/trip-planner/internal/pipeline"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full pipeline: filter, score, plan and optionally narrate",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		cities, _ := cmd.Flags().GetString("cities")
		start, _ := cmd.Flags().GetString("start")
		end, _ := cmd.Flags().GetString("end")
		interests, _ := cmd.Flags().GetString("interests")
		text, _ := cmd.Flags().GetString("text")
		narrate, _ := cmd.Flags().GetBool("narrate")

		req, err := parseRequest(cities, start, end)
		if err != nil {
			return err
		}
		vector, err := loadVector(ctx, artifactPath(interests, pipeline.InterestsFile), text)
		if err != nil {
			return err
		}

		env, err := initPipeline(ctx, cfg.Artifacts.Dir, narrate)
		if err != nil {
			return err
		}
		defer env.Close()

		result, err := env.Pipeline.Run(ctx, req, vector)
		if err != nil {
			return err
		}

		zap.L().Info("run complete",
			zap.String("run_id", result.RunID),
			zap.Int("cities", len(result.Plan.Cities)),
		)

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	},
}

func init() {
	runCmd.Flags().String("cities", "", "comma-separated city names")
	runCmd.Flags().String("start", "", "trip start date (YYYY-MM-DD)")
	runCmd.Flags().String("end", "", "trip end date (YYYY-MM-DD)")
	runCmd.Flags().String("interests", "", "interest vector file (default <artifacts>/interests.json)")
	runCmd.Flags().String("text", "", "free-text interests, extracted with the LLM")
	runCmd.Flags().Bool("narrate", false, "add the narrated itinerary stage")
	runCmd.MarkFlagsMutuallyExclusive("interests", "text")
	_ = runCmd.MarkFlagRequired("start")
	_ = runCmd.MarkFlagRequired("end")
	rootCmd.AddCommand(runCmd)
}
