package main

import (
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/trip-planner/internal/catalog"
	"github.com/sells-group/trip-planner/internal/model"
	"github.com/sells-group/trip-planner/internal/pipeline"
	"github.com/sells-group/trip-planner/internal/planner"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Build the per-city trip plan from scored events",
	RunE: func(cmd *cobra.Command, _ []string) error {
		start, _ := cmd.Flags().GetString("start")
		end, _ := cmd.Flags().GetString("end")
		input, _ := cmd.Flags().GetString("input")
		output, _ := cmd.Flags().GetString("output")
		format, _ := cmd.Flags().GetString("format")

		encode, err := planEncoder(format)
		if err != nil {
			return err
		}
		req, err := parseRequest("", start, end)
		if err != nil {
			return err
		}
		pl, err := newPlanner()
		if err != nil {
			return err
		}

		tbl, err := catalog.Open(artifactPath(input, pipeline.ScoredFile), "")
		if err != nil {
			return err
		}
		scored, err := planner.ParseScored(tbl)
		if err != nil {
			return err
		}

		plan := pl.Build(scored, req.Start, req.End)
		path := artifactPath(output, pipeline.PlanFile)
		if err := pipeline.WriteAtomic(path, func(w io.Writer) error {
			return encode(w, plan)
		}); err != nil {
			return err
		}

		zap.L().Info("plan: wrote trip plan", zap.String("path", path), zap.Int("cities", len(plan.Cities)))
		return nil
	},
}

func planEncoder(format string) (func(io.Writer, model.TripPlan) error, error) {
	switch format {
	case "", "json":
		return planner.WriteJSON, nil
	case "yaml", "yml":
		return planner.WriteYAML, nil
	default:
		return nil, &model.ParamError{Param: "format", Reason: "must be json or yaml, got " + format}
	}
}

func init() {
	planCmd.Flags().String("start", "", "trip start date (YYYY-MM-DD)")
	planCmd.Flags().String("end", "", "trip end date (YYYY-MM-DD)")
	planCmd.Flags().String("input", "", "scored events (default <artifacts>/final.csv)")
	planCmd.Flags().String("output", "", "output path (default <artifacts>/plan.json)")
	planCmd.Flags().String("format", "json", "output format: json or yaml")
	_ = planCmd.MarkFlagRequired("start")
	_ = planCmd.MarkFlagRequired("end")
	rootCmd.AddCommand(planCmd)
}
